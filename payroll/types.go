/*
Package payroll provides the pay calculation engine.

PURPOSE:
  This package turns hours worked, an hourly rate and a work location into
  gross pay, a list of deductions and net pay. Deduction rules differ per
  location (flat or progressive) and are supplied by a rule source, so the
  engine itself never knows where rules are stored.

KEY CONCEPTS IN THIS FILE (types.go):
  - Currency: The unit money is expressed in (e.g., Eur shown as €)
  - Location: Opaque key used to look up currency and deduction rules
  - Deduction: A named amount taken from gross pay
  - RuleDescriptor: Storage-neutral description of one deduction rule

DESIGN PRINCIPLES:
  1. Immutability: Money and Rate are values; operations return new values
  2. Precision: Uses decimal.Decimal, rounded to cents half away from zero
  3. Explicit wiring: Collaborators are passed to constructors, never injected
  4. Typed failures: Every error unwraps to a sentinel in errors.go

USAGE:
  eur := payroll.Currency{Name: "Eur", Symbol: "€"}
  calc := payroll.NewTaxCalculator(payroll.NewTableRuleSource(table))

  gross, err := calc.CalculateGrossAmount(160, 10, eur)
  net, err := calc.CalculateNetAmount(ctx, gross, payroll.Location{Name: "Ireland"})

SEE ALSO:
  - money.go: Money value type
  - deduction.go: Flat and progressive calculators
  - calculator.go: TaxCalculator orchestration
  - source.go: Rule source interfaces
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CURRENCY
// =============================================================================

// Currency identifies the unit of a Money value. Two currencies are the same
// when their names match; Symbol is only used for display.
type Currency struct {
	Name   string
	Symbol string
}

// IsZero reports whether the currency is absent.
func (c Currency) IsZero() bool { return c.Name == "" }

// Equal compares currencies by name.
func (c Currency) Equal(other Currency) bool { return c.Name == other.Name }

// DisplayName returns the symbol, falling back to the name.
func (c Currency) DisplayName() string {
	if c.Symbol != "" {
		return c.Symbol
	}
	return c.Name
}

func (c Currency) String() string { return c.Name }

// =============================================================================
// LOCATION
// =============================================================================

// Location is where the employee works. Only the name matters.
type Location struct {
	Name string
}

func (l Location) IsZero() bool { return l.Name == "" }
func (l Location) String() string { return l.Name }

// =============================================================================
// DEDUCTION - Result of applying one rule to gross pay
// =============================================================================

type Deduction struct {
	Name   string
	Amount Money
}

// =============================================================================
// RULE DESCRIPTORS
// =============================================================================

type DeductionKind string

const (
	KindFlat        DeductionKind = "FlatDeduction"
	KindProgressive DeductionKind = "ProgressiveDeduction"
)

// RuleDescriptor describes a deduction rule as it comes out of a rule table.
// Flat rules read their rate from BasicRatePercent; HigherRatePercent and
// Threshold are only meaningful for progressive rules. Threshold is expressed
// in the currency of the location the rule belongs to.
type RuleDescriptor struct {
	Name              string
	Kind              DeductionKind
	BasicRatePercent  decimal.Decimal
	HigherRatePercent decimal.Decimal
	Threshold         decimal.Decimal
}
