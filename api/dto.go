/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the payroll model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  payroll.Money marshals itself as {"amount": "1600.00", "currency": "Eur",
  "symbol": "€"}. Amounts are strings so clients never see float rounding.

VALIDATION:
  Request types carry validator/v10 tags; handlers run them before touching
  the engine.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/rules.go: DeductionJSON, reused for rule listings
*/
package api

import (
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CurrencyDTO represents a currency in API responses.
type CurrencyDTO struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// LocationDTO represents a location and the currency paid there.
type LocationDTO struct {
	Name       string                  `json:"name"`
	Currency   CurrencyDTO             `json:"currency"`
	Deductions []factory.DeductionJSON `json:"deductions,omitempty"`
}

// CreatePayslipRequest is the body of POST /api/payslips. Hours and rate
// are pointers so a missing field can be told apart from 0.
type CreatePayslipRequest struct {
	Location    string `json:"location" validate:"required,max=100"`
	HoursWorked *uint  `json:"hours_worked" validate:"required,max=10000"`
	HourlyRate  *uint  `json:"hourly_rate" validate:"required"`
}

// DeductionDTO is one line of a payslip.
type DeductionDTO struct {
	Name   string        `json:"name"`
	Amount payroll.Money `json:"amount"`
}

// PayslipDTO represents a computed payslip.
type PayslipDTO struct {
	ID              string         `json:"id"`
	Location        string         `json:"location"`
	HoursWorked     uint           `json:"hours_worked"`
	HourlyRate      uint           `json:"hourly_rate"`
	Gross           payroll.Money  `json:"gross"`
	Deductions      []DeductionDTO `json:"deductions"`
	TotalDeductions payroll.Money  `json:"total_deductions"`
	Net             payroll.Money  `json:"net"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toCurrencyDTO(c payroll.Currency) CurrencyDTO {
	return CurrencyDTO{Name: c.Name, Symbol: c.Symbol}
}

func toDeductionDTOs(ds []payroll.Deduction) []DeductionDTO {
	out := make([]DeductionDTO, len(ds))
	for i, d := range ds {
		out[i] = DeductionDTO{Name: d.Name, Amount: d.Amount}
	}
	return out
}
