/*
calculator.go - Gross, deductions and net pay

PURPOSE:
  TaxCalculator is the entry point of the engine. It is stateless: every
  call recomputes from its inputs and the rule source's current answer.

OPERATIONS:
  CalculateGrossAmount: hours x rate in the given currency
  Deductions:           lazy, ordered sequence of (name, amount)
  CalculateDeductions:  the same sequence collected into a slice
  CalculateNetAmount:   gross - sum(deductions)

RULE SOURCE CALLS:
  Deductions asks the rule source once per iteration, and CalculateNetAmount
  asks it again on its own. Callers that need deductions and net together
  should use PayslipService, which fetches once and derives both.
*/
package payroll

import (
	"context"
	"iter"

	"github.com/shopspring/decimal"
)

// TaxCalculator derives gross, deductions and net amounts for a location.
type TaxCalculator struct {
	rules DeductionRuleSource
}

// NewTaxCalculator creates a calculator that reads rules from rules.
func NewTaxCalculator(rules DeductionRuleSource) *TaxCalculator {
	return &TaxCalculator{rules: rules}
}

// CalculateGrossAmount returns hoursWorked x hourlyRate in currency.
func (c *TaxCalculator) CalculateGrossAmount(hoursWorked, hourlyRate uint, currency Currency) (Money, error) {
	if currency.IsZero() {
		return Money{}, ErrMissingCurrency
	}
	gross := decimal.NewFromUint64(uint64(hoursWorked)).Mul(decimal.NewFromUint64(uint64(hourlyRate)))
	return NewMoney(gross, currency)
}

// Deductions yields one Deduction per calculator the rule source returns,
// in order. The sequence stops at the first error, which is yielded with a
// zero Deduction. Each iteration re-queries the rule source.
func (c *TaxCalculator) Deductions(ctx context.Context, grossAmount Money, location Location) iter.Seq2[Deduction, error] {
	return func(yield func(Deduction, error) bool) {
		calcs, err := c.calculators(ctx, grossAmount, location)
		if err != nil {
			yield(Deduction{}, err)
			return
		}
		for _, calc := range calcs {
			amount, err := calc.CalculateDeduction(grossAmount)
			if err != nil {
				yield(Deduction{}, err)
				return
			}
			if !yield(Deduction{Name: calc.Name(), Amount: amount}, nil) {
				return
			}
		}
	}
}

// CalculateDeductions collects Deductions into a slice.
func (c *TaxCalculator) CalculateDeductions(ctx context.Context, grossAmount Money, location Location) ([]Deduction, error) {
	var out []Deduction
	for d, err := range c.Deductions(ctx, grossAmount, location) {
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// CalculateNetAmount returns grossAmount minus every deduction that applies
// at location.
func (c *TaxCalculator) CalculateNetAmount(ctx context.Context, grossAmount Money, location Location) (Money, error) {
	calcs, err := c.calculators(ctx, grossAmount, location)
	if err != nil {
		return Money{}, err
	}

	total, err := ZeroMoney(grossAmount.Currency())
	if err != nil {
		return Money{}, err
	}
	for _, calc := range calcs {
		amount, err := calc.CalculateDeduction(grossAmount)
		if err != nil {
			return Money{}, err
		}
		if total, err = total.Add(amount); err != nil {
			return Money{}, err
		}
	}
	return grossAmount.Subtract(total)
}

func (c *TaxCalculator) calculators(ctx context.Context, grossAmount Money, location Location) ([]DeductionCalculator, error) {
	if grossAmount.IsZero() {
		return nil, ErrMissingAmount
	}
	if location.IsZero() {
		return nil, ErrMissingLocation
	}
	return c.rules.GetDeductionCalculators(ctx, location)
}

// NetFromDeductions subtracts already computed deductions from gross.
func NetFromDeductions(grossAmount Money, deductions []Deduction) (Money, error) {
	total, err := ZeroMoney(grossAmount.Currency())
	if err != nil {
		return Money{}, err
	}
	for _, d := range deductions {
		if total, err = total.Add(d.Amount); err != nil {
			return Money{}, err
		}
	}
	return grossAmount.Subtract(total)
}
