/*
money.go - Decimal amount bound to a currency

PURPOSE:
  Money is the value every calculation step produces. It keeps amounts
  exact (no float64), normalised to cents, and refuses to mix currencies.

INVARIANTS:
  1. Amount is never negative; construction fails with ErrInvalidAmount
  2. Amount is always rounded to 2 places, half away from zero
     (3.334 -> 3.33, 3.335 -> 3.34, 3.336 -> 3.34)
  3. Add, Subtract and comparisons require equal currencies
  4. Values are never mutated; every operation returns a new Money

ZERO VALUE:
  Money{} has no currency and stands for "no amount given". Calculators
  reject it with ErrMissingAmount.

DISPLAY:
  String() is the currency display name followed by the amount with no
  separator: Money(160, €) -> "€160". StringFixed() always shows cents.
*/
package payroll

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits every Money amount carries.
const Places = 2

// Money is a non-negative amount in a currency, held to Places decimals.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates Money rounded to cents.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency.IsZero() {
		return Money{}, ErrMissingCurrency
	}
	if amount.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	return Money{amount: amount.Round(Places), currency: currency}, nil
}

func NewMoneyFromInt(amount int64, currency Currency) (Money, error) {
	return NewMoney(decimal.NewFromInt(amount), currency)
}

// MustMoney parses amount and panics on failure. Use in tests and presets.
func MustMoney(amount string, currency Currency) Money {
	m, err := NewMoney(decimal.RequireFromString(amount), currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns 0 in the given currency.
func ZeroMoney(currency Currency) (Money, error) {
	return NewMoney(decimal.Zero, currency)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency { return m.currency }

// IsZero reports whether m is the zero value (no currency), not whether the
// amount is 0.
func (m Money) IsZero() bool { return m.currency.IsZero() }

// =============================================================================
// ARITHMETIC
// =============================================================================

func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency("add", other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Add(other.amount), m.currency)
}

// Subtract returns m - other. Taking away more than m holds is a caller
// error and fails with ErrInvalidAmount.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency("subtract", other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Sub(other.amount), m.currency)
}

// MultiplyByScalar scales the amount, typically by Rate.Value().
func (m Money) MultiplyByScalar(factor decimal.Decimal) (Money, error) {
	if m.IsZero() {
		return Money{}, ErrMissingAmount
	}
	return NewMoney(m.amount.Mul(factor), m.currency)
}

// =============================================================================
// COMPARISON
// =============================================================================

// Compare returns -1, 0 or +1 like decimal.Cmp.
func (m Money) Compare(other Money) (int, error) {
	if err := m.sameCurrency("compare", other); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	c, err := m.Compare(other)
	return c >= 0, err
}

func (m Money) LessThanOrEqual(other Money) (bool, error) {
	c, err := m.Compare(other)
	return c <= 0, err
}

func (m Money) Equals(other Money) (bool, error) {
	c, err := m.Compare(other)
	return c == 0, err
}

func (m Money) sameCurrency(op string, other Money) error {
	if !m.currency.Equal(other.currency) {
		return &CurrencyMismatchError{Op: op, Left: m.currency, Right: other.currency}
	}
	return nil
}

// =============================================================================
// DISPLAY
// =============================================================================

func (m Money) String() string {
	return m.currency.DisplayName() + m.amount.String()
}

func (m Money) StringFixed() string {
	return m.currency.DisplayName() + m.amount.StringFixed(Places)
}

type moneyJSON struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Symbol   string `json:"symbol,omitempty"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		Amount:   m.amount.StringFixed(Places),
		Currency: m.currency.Name,
		Symbol:   m.currency.Symbol,
	})
}
