/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the payroll package.

ENDPOINTS:
  GET    /api/health                       Liveness check
  GET    /api/locations                    List locations with currency
  GET    /api/locations/{name}             One location with its rules
  GET    /api/locations/{name}/deductions  Deduction rules for a location
  POST   /api/payslips                     Compute gross, deductions, net

  The rule table is read-only through the API.

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Rules:    the rule table (memory or SQLite)
  - Payslips: PayslipService wired to a TableRuleSource over Rules

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, currency mismatch
  - 404: Location or currency not found
  - 422: Rule table carries an unsupported deduction kind
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Rules    payroll.RuleTable
	Payslips *payroll.PayslipService

	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a handler serving payslips from rules.
func NewHandler(rules payroll.RuleTable, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	calc := payroll.NewTaxCalculator(payroll.NewTableRuleSource(rules))
	return &Handler{
		Rules:    rules,
		Payslips: payroll.NewPayslipService(rules, calc),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Health reports that the server is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// LOCATION HANDLERS
// =============================================================================

// ListLocations returns every location with its currency.
func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	lister, ok := h.Rules.(payroll.LocationLister)
	if !ok {
		writeError(w, http.StatusNotImplemented, "Rule table cannot list locations", nil)
		return
	}

	locations, err := lister.ListLocations(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list locations", err)
		return
	}

	dtos := make([]LocationDTO, 0, len(locations))
	for _, loc := range locations {
		currency, err := h.Rules.GetCurrency(r.Context(), loc)
		if err != nil {
			h.fail(w, r, "Failed to resolve currency", err)
			return
		}
		dtos = append(dtos, LocationDTO{Name: loc.Name, Currency: toCurrencyDTO(currency)})
	}

	writeJSON(w, http.StatusOK, dtos)
}

// GetLocation returns a location with its currency and rules.
func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	loc := payroll.Location{Name: chi.URLParam(r, "name")}

	dto, err := h.locationDTO(r.Context(), loc)
	if err != nil {
		h.fail(w, r, "Failed to load location", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetDeductions returns the deduction rules for a location.
func (h *Handler) GetDeductions(w http.ResponseWriter, r *http.Request) {
	loc := payroll.Location{Name: chi.URLParam(r, "name")}

	rules, err := h.Rules.DeductionRules(r.Context(), loc)
	if err != nil {
		h.fail(w, r, "Failed to load deduction rules", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.DeductionsToJSON(rules))
}

func (h *Handler) locationDTO(ctx context.Context, loc payroll.Location) (LocationDTO, error) {
	currency, err := h.Rules.GetCurrency(ctx, loc)
	if err != nil {
		return LocationDTO{}, err
	}
	rules, err := h.Rules.DeductionRules(ctx, loc)
	if err != nil {
		return LocationDTO{}, err
	}
	return LocationDTO{
		Name:       loc.Name,
		Currency:   toCurrencyDTO(currency),
		Deductions: factory.DeductionsToJSON(rules),
	}, nil
}

// =============================================================================
// PAYSLIP HANDLERS
// =============================================================================

// CreatePayslip computes gross, deductions and net pay.
func (h *Handler) CreatePayslip(w http.ResponseWriter, r *http.Request) {
	var req CreatePayslipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payslip request", err)
		return
	}

	slip, err := h.Payslips.Calculate(r.Context(), *req.HoursWorked, *req.HourlyRate, payroll.Location{Name: req.Location})
	if err != nil {
		h.fail(w, r, "Failed to calculate payslip", err)
		return
	}

	total, err := slip.TotalDeductions()
	if err != nil {
		h.fail(w, r, "Failed to total deductions", err)
		return
	}

	writeJSON(w, http.StatusCreated, PayslipDTO{
		ID:              uuid.NewString(),
		Location:        slip.Location.Name,
		HoursWorked:     slip.HoursWorked,
		HourlyRate:      slip.HourlyRate,
		Gross:           slip.Gross,
		Deductions:      toDeductionDTOs(slip.Deductions),
		TotalDeductions: total,
		Net:             slip.Net,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// statusFor maps payroll errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case payroll.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, payroll.ErrUnsupportedDeductionKind):
		return http.StatusUnprocessableEntity
	case payroll.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(message,
			"error", err,
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
		)
	}
	writeError(w, status, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
