/*
Package factory provides rule book document to Go conversion.

PURPOSE:
  Converts rule book documents into payroll.RuleBook values. Deduction rules
  change with every budget, so they live in data files that non-developers
  can edit; the factory turns those files into the structs stores load.

SUPPORTED FORMATS:
  - JSON (.json)          - primary format, used by the embedded default
  - YAML (.yaml, .yml)    - same schema as JSON
  - Legacy XML directory  - TaxDeductionRules.xml, LocationCurrencyMap.xml
                            and CurrencySymbolMap.xml side by side

JSON SCHEMA:
  {
    "currencies": [{"name": "Eur", "symbol": "€"}],
    "locations": [{
      "name": "Ireland",
      "currency": "Eur",
      "deductions": [
        {"name": "Income tax", "type": "ProgressiveDeduction",
         "basic_rate_percent": 25, "higher_rate_percent": 40, "threshold": 600},
        {"name": "Pension", "type": "FlatDeduction", "rate_percent": 4}
      ]
    }]
  }

DEFAULTS:
  Missing numeric fields read as 0. A flat rule takes its rate from
  rate_percent, falling back to basic_rate_percent. The "type" value goes
  through payroll.ParseDeductionKind, so "flat" and "progressive" work too.

KEY FEATURES:
  - Validates the resulting book (payroll.RuleBook.Validate)
  - Round-trips a book back to JSON form (ToJSON) for API output

USAGE:
  f := factory.NewRuleFactory()
  book, err := f.ParseJSON(data)

  // Or by file extension / directory
  book, err := factory.Load("./rules/payroll.yaml")

SEE ALSO:
  - payroll/rulebook.go: RuleBook type definition
  - payroll/kinds.go: Kind parsing and calculator construction
  - load.go: File loading and the embedded default rule book
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// DOCUMENT SCHEMA TYPES
// =============================================================================

// RuleBookJSON is the JSON/YAML representation of a rule book.
type RuleBookJSON struct {
	Currencies []CurrencyJSON `json:"currencies" yaml:"currencies"`
	Locations  []LocationJSON `json:"locations" yaml:"locations"`
}

// CurrencyJSON represents a currency and its display symbol.
type CurrencyJSON struct {
	Name   string `json:"name" yaml:"name"`
	Symbol string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
}

// LocationJSON represents one location's currency and deduction rules.
type LocationJSON struct {
	Name       string          `json:"name" yaml:"name"`
	Currency   string          `json:"currency" yaml:"currency"`
	Deductions []DeductionJSON `json:"deductions" yaml:"deductions"`
}

// DeductionJSON represents one deduction rule.
type DeductionJSON struct {
	Name              string           `json:"name" yaml:"name"`
	Type              string           `json:"type" yaml:"type"` // FlatDeduction, ProgressiveDeduction
	RatePercent       *decimal.Decimal `json:"rate_percent,omitempty" yaml:"rate_percent,omitempty"`
	BasicRatePercent  *decimal.Decimal `json:"basic_rate_percent,omitempty" yaml:"basic_rate_percent,omitempty"`
	HigherRatePercent *decimal.Decimal `json:"higher_rate_percent,omitempty" yaml:"higher_rate_percent,omitempty"`
	Threshold         *decimal.Decimal `json:"threshold,omitempty" yaml:"threshold,omitempty"`
}

// =============================================================================
// RULE FACTORY
// =============================================================================

// RuleFactory converts rule book documents to payroll.RuleBook values.
type RuleFactory struct{}

func NewRuleFactory() *RuleFactory {
	return &RuleFactory{}
}

// ParseJSON parses a JSON document into a validated RuleBook.
func (f *RuleFactory) ParseJSON(data []byte) (*payroll.RuleBook, error) {
	var doc RuleBookJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rule book JSON: %w", err)
	}
	return f.FromJSON(doc)
}

// ParseYAML parses a YAML document into a validated RuleBook.
func (f *RuleFactory) ParseYAML(data []byte) (*payroll.RuleBook, error) {
	var doc RuleBookJSON
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rule book YAML: %w", err)
	}
	return f.FromJSON(doc)
}

// FromJSON converts the document form to a RuleBook and validates it.
func (f *RuleFactory) FromJSON(doc RuleBookJSON) (*payroll.RuleBook, error) {
	book := &payroll.RuleBook{}

	for _, cj := range doc.Currencies {
		book.Currencies = append(book.Currencies, payroll.Currency{Name: cj.Name, Symbol: cj.Symbol})
	}

	for _, lj := range doc.Locations {
		lr := payroll.LocationRules{
			Location:     payroll.Location{Name: lj.Name},
			CurrencyName: lj.Currency,
		}
		for _, dj := range lj.Deductions {
			lr.Rules = append(lr.Rules, parseDeduction(dj))
		}
		book.Locations = append(book.Locations, lr)
	}

	if err := book.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule book: %w", err)
	}
	return book, nil
}

// ToJSON converts a RuleBook to its document form.
func (f *RuleFactory) ToJSON(book *payroll.RuleBook) RuleBookJSON {
	doc := RuleBookJSON{}
	for _, c := range book.Currencies {
		doc.Currencies = append(doc.Currencies, CurrencyJSON{Name: c.Name, Symbol: c.Symbol})
	}
	for _, lr := range book.Locations {
		lj := LocationJSON{Name: lr.Location.Name, Currency: lr.CurrencyName}
		lj.Deductions = DeductionsToJSON(lr.Rules)
		doc.Locations = append(doc.Locations, lj)
	}
	return doc
}

// DeductionsToJSON converts descriptors to their document form. Flat rules
// are written with rate_percent only.
func DeductionsToJSON(rules []payroll.RuleDescriptor) []DeductionJSON {
	out := make([]DeductionJSON, 0, len(rules))
	for _, r := range rules {
		dj := DeductionJSON{Name: r.Name, Type: string(r.Kind)}
		if r.Kind == payroll.KindFlat {
			dj.RatePercent = decPtr(r.BasicRatePercent)
		} else {
			dj.BasicRatePercent = decPtr(r.BasicRatePercent)
			dj.HigherRatePercent = decPtr(r.HigherRatePercent)
			dj.Threshold = decPtr(r.Threshold)
		}
		out = append(out, dj)
	}
	return out
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseDeduction(dj DeductionJSON) payroll.RuleDescriptor {
	rule := payroll.RuleDescriptor{
		Name:              dj.Name,
		Kind:              payroll.ParseDeductionKind(dj.Type),
		BasicRatePercent:  decOrZero(dj.BasicRatePercent),
		HigherRatePercent: decOrZero(dj.HigherRatePercent),
		Threshold:         decOrZero(dj.Threshold),
	}
	if rule.Kind == payroll.KindFlat && dj.RatePercent != nil {
		rule.BasicRatePercent = *dj.RatePercent
	}
	return rule
}

func decOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func decPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
