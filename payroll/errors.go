/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match on sentinels with errors.Is and pull details out of the
  structured errors with errors.As.

ERROR CATEGORIES:
  1. Argument errors - Required input missing (ErrInvalidArgument family)
  2. Value errors - Negative money, rate out of range, mixed currencies
  3. Lookup errors - Location, currency or rule kind unknown to a rule source

USAGE:
    if errors.Is(err, payroll.ErrLocationNotFound) {
        // report and stop, lookups are never retried
    }

SEE ALSO:
  - money.go, rate.go: Value errors
  - source.go: Lookup errors
  - api/handlers.go: Maps these errors to HTTP statuses
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidArgument is returned when a required input is absent.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidAmount is returned when money would become negative.
	ErrInvalidAmount = errors.New("invalid amount: money cannot be negative")

	// ErrOutOfRange is returned when a rate percent is outside [0, 100].
	ErrOutOfRange = errors.New("rate percent out of range")

	// ErrCurrencyMismatch is returned when two amounts in different
	// currencies are combined or compared.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrEntityNotFound is returned when a rule table has no record for a key.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrLocationNotFound is returned when a location has no currency or
	// rule set. It is also an ErrEntityNotFound.
	ErrLocationNotFound = fmt.Errorf("location not found: %w", ErrEntityNotFound)

	// ErrUnsupportedDeductionKind is returned for rule kinds with no
	// registered calculator.
	ErrUnsupportedDeductionKind = errors.New("unsupported deduction kind")
)

// Specialisations of ErrInvalidArgument.
var (
	ErrMissingCurrency = fmt.Errorf("%w: currency is required", ErrInvalidArgument)
	ErrMissingName     = fmt.Errorf("%w: deduction name is required", ErrInvalidArgument)
	ErrMissingRate     = fmt.Errorf("%w: rate is required", ErrInvalidArgument)
	ErrMissingAmount   = fmt.Errorf("%w: amount is required", ErrInvalidArgument)
	ErrMissingLocation = fmt.Errorf("%w: location is required", ErrInvalidArgument)
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// CurrencyMismatchError names both sides of a mixed-currency operation.
type CurrencyMismatchError struct {
	Op    string
	Left  Currency
	Right Currency
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("cannot %s %s and %s: currency mismatch", e.Op, e.Left.Name, e.Right.Name)
}

func (e *CurrencyMismatchError) Unwrap() error {
	return ErrCurrencyMismatch
}

// LocationNotFoundError is returned by rule tables that have no entry for a
// location.
type LocationNotFoundError struct {
	Location Location
	// What was being looked up: "currency" or "deduction rules".
	Lookup string
}

func (e *LocationNotFoundError) Error() string {
	return fmt.Sprintf("couldn't find %s for location %q", e.Lookup, e.Location.Name)
}

func (e *LocationNotFoundError) Unwrap() error {
	return ErrLocationNotFound
}

// CurrencyNotFoundError is returned when a location references a currency
// the rule table does not define.
type CurrencyNotFoundError struct {
	Name string
}

func (e *CurrencyNotFoundError) Error() string {
	return fmt.Sprintf("couldn't find currency %q", e.Name)
}

func (e *CurrencyNotFoundError) Unwrap() error {
	return ErrEntityNotFound
}

// UnsupportedKindError reports the rule that carried the unknown kind.
type UnsupportedKindError struct {
	Rule string
	Kind DeductionKind
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("deduction %q: kind %q is not supported", e.Rule, e.Kind)
}

func (e *UnsupportedKindError) Unwrap() error {
	return ErrUnsupportedDeductionKind
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing rule table entry.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrCurrencyMismatch)
}
