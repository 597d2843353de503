package payroll

import (
	"errors"
	"fmt"
)

// RuleBook is the parsed content of a rule table: which currencies exist,
// which currency each location pays in, and its ordered deduction rules.
// factory builds RuleBooks from files; stores load them.
type RuleBook struct {
	Currencies []Currency
	Locations  []LocationRules
}

type LocationRules struct {
	Location     Location
	CurrencyName string
	Rules        []RuleDescriptor
}

// Currency returns the currency with the given name.
func (b *RuleBook) Currency(name string) (Currency, bool) {
	for _, c := range b.Currencies {
		if c.Name == name {
			return c, true
		}
	}
	return Currency{}, false
}

// Validate checks the book can be served without lookup surprises. All
// problems are reported together.
func (b *RuleBook) Validate() error {
	var errs []error

	seenCurrency := make(map[string]bool)
	for _, c := range b.Currencies {
		if c.IsZero() {
			errs = append(errs, fmt.Errorf("%w: currency without name", ErrInvalidArgument))
			continue
		}
		if seenCurrency[c.Name] {
			errs = append(errs, fmt.Errorf("%w: currency %q defined twice", ErrInvalidArgument, c.Name))
		}
		seenCurrency[c.Name] = true
	}

	seenLocation := make(map[string]bool)
	for _, lr := range b.Locations {
		if lr.Location.IsZero() {
			errs = append(errs, ErrMissingLocation)
			continue
		}
		if seenLocation[lr.Location.Name] {
			errs = append(errs, fmt.Errorf("%w: location %q defined twice", ErrInvalidArgument, lr.Location.Name))
		}
		seenLocation[lr.Location.Name] = true

		currency, ok := b.Currency(lr.CurrencyName)
		if !ok {
			errs = append(errs, fmt.Errorf("location %q: %w", lr.Location.Name, &CurrencyNotFoundError{Name: lr.CurrencyName}))
			continue
		}
		// Building each calculator runs the same checks a rule source would.
		for _, rule := range lr.Rules {
			if _, err := NewCalculator(rule, currency); err != nil {
				errs = append(errs, fmt.Errorf("location %q: %w", lr.Location.Name, err))
			}
		}
	}

	return errors.Join(errs...)
}
