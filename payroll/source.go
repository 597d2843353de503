/*
source.go - Interfaces to the rule tables behind the engine

PURPOSE:
  The engine does not load rules itself. It asks two narrow collaborators:
  a CurrencyResolver for the currency of a location, and a
  DeductionRuleSource for the calculators that apply there.

KEY INTERFACES:
  CurrencyResolver:    Location -> Currency
  DeductionRuleSource: Location -> []DeductionCalculator (ordered)
  RuleTable:           Raw descriptor lookup, implemented by stores
  LocationLister:      Optional listing capability of a RuleTable

IMPLEMENTATIONS:
  - TableRuleSource (this file): RuleTable -> DeductionRuleSource
  - payroll/store/memory.go: In-memory RuleTable
  - store/sqlite/sqlite.go: SQLite RuleTable, re-queried on every call

I/O NOTE:
  A source backed by a database or file may hit it on every call. Every
  pass over TaxCalculator.Deductions triggers a fresh lookup.
*/
package payroll

import (
	"context"
	"fmt"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// CurrencyResolver finds the currency used at a location. Fails with a
// LocationNotFoundError when the location has no mapping.
type CurrencyResolver interface {
	GetCurrency(ctx context.Context, location Location) (Currency, error)
}

// DeductionRuleSource returns the calculators for a location, in rule-table
// order. Fails with a LocationNotFoundError when no rule set exists and with
// an UnsupportedKindError when a rule's kind is unknown.
type DeductionRuleSource interface {
	GetDeductionCalculators(ctx context.Context, location Location) ([]DeductionCalculator, error)
}

// RuleTable is the storage-facing lookup stores implement.
type RuleTable interface {
	CurrencyResolver

	// DeductionRules returns the descriptors for a location in order.
	DeductionRules(ctx context.Context, location Location) ([]RuleDescriptor, error)
}

// LocationLister is implemented by rule tables that can enumerate their
// locations.
type LocationLister interface {
	ListLocations(ctx context.Context) ([]Location, error)
}

// =============================================================================
// TABLE RULE SOURCE
// =============================================================================

// TableRuleSource builds calculators from a RuleTable's descriptors, binding
// progressive thresholds to the location's currency.
type TableRuleSource struct {
	table RuleTable
}

func NewTableRuleSource(table RuleTable) *TableRuleSource {
	return &TableRuleSource{table: table}
}

func (s *TableRuleSource) GetCurrency(ctx context.Context, location Location) (Currency, error) {
	return s.table.GetCurrency(ctx, location)
}

func (s *TableRuleSource) GetDeductionCalculators(ctx context.Context, location Location) ([]DeductionCalculator, error) {
	if location.IsZero() {
		return nil, ErrMissingLocation
	}

	currency, err := s.table.GetCurrency(ctx, location)
	if err != nil {
		return nil, err
	}
	rules, err := s.table.DeductionRules(ctx, location)
	if err != nil {
		return nil, err
	}

	calcs := make([]DeductionCalculator, 0, len(rules))
	for _, rule := range rules {
		calc, err := NewCalculator(rule, currency)
		if err != nil {
			return nil, fmt.Errorf("location %q: %w", location.Name, err)
		}
		calcs = append(calcs, calc)
	}
	return calcs, nil
}

// StaticRuleSource serves a fixed calculator list for every location. Useful
// for tests and for callers that build calculators by hand.
type StaticRuleSource []DeductionCalculator

func (s StaticRuleSource) GetDeductionCalculators(_ context.Context, location Location) ([]DeductionCalculator, error) {
	if location.IsZero() {
		return nil, ErrMissingLocation
	}
	out := make([]DeductionCalculator, len(s))
	copy(out, s)
	return out, nil
}
