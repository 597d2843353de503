/*
payslip.go - Single entry point for a full pay calculation

PURPOSE:
  PayslipService runs the whole flow a caller usually wants: resolve the
  location's currency, compute gross, list deductions, derive net.

  Unlike calling TaxCalculator.CalculateDeductions and CalculateNetAmount
  back to back, the rule source is consulted once and net is derived from
  the same deduction list, so the totals always agree.

USAGE:
  svc := payroll.NewPayslipService(table, payroll.NewTaxCalculator(source))
  slip, err := svc.Calculate(ctx, 160, 10, payroll.Location{Name: "Ireland"})
  fmt.Println(slip.Net.StringFixed())
*/
package payroll

import (
	"context"
	"fmt"
)

// Payslip is the result of a single payroll run.
type Payslip struct {
	Location    Location
	HoursWorked uint
	HourlyRate  uint
	Gross       Money
	Deductions  []Deduction
	Net         Money
}

// TotalDeductions sums the deduction amounts.
func (p *Payslip) TotalDeductions() (Money, error) {
	total, err := ZeroMoney(p.Gross.Currency())
	if err != nil {
		return Money{}, err
	}
	for _, d := range p.Deductions {
		if total, err = total.Add(d.Amount); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

// PayslipService resolves the location currency and runs the calculator.
type PayslipService struct {
	currencies CurrencyResolver
	calculator *TaxCalculator
}

// NewPayslipService wires a currency resolver to a calculator.
func NewPayslipService(currencies CurrencyResolver, calculator *TaxCalculator) *PayslipService {
	return &PayslipService{currencies: currencies, calculator: calculator}
}

// Calculate produces a payslip for the given hours, rate and location.
func (s *PayslipService) Calculate(ctx context.Context, hoursWorked, hourlyRate uint, location Location) (*Payslip, error) {
	if location.IsZero() {
		return nil, ErrMissingLocation
	}

	currency, err := s.currencies.GetCurrency(ctx, location)
	if err != nil {
		return nil, err
	}

	gross, err := s.calculator.CalculateGrossAmount(hoursWorked, hourlyRate, currency)
	if err != nil {
		return nil, fmt.Errorf("gross amount: %w", err)
	}

	deductions, err := s.calculator.CalculateDeductions(ctx, gross, location)
	if err != nil {
		return nil, err
	}

	net, err := NetFromDeductions(gross, deductions)
	if err != nil {
		return nil, fmt.Errorf("net amount: %w", err)
	}

	return &Payslip{
		Location:    location,
		HoursWorked: hoursWorked,
		HourlyRate:  hourlyRate,
		Gross:       gross,
		Deductions:  deductions,
		Net:         net,
	}, nil
}
