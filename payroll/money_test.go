package payroll_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var (
	eur = payroll.Currency{Name: "Eur", Symbol: "€"}
	usd = payroll.Currency{Name: "Usd", Symbol: "$"}
)

func money(amount string) payroll.Money {
	return payroll.MustMoney(amount, eur)
}

func assertAmount(t *testing.T, want string, got payroll.Money) {
	t.Helper()
	assert.Equal(t, want, got.Amount().StringFixed(payroll.Places))
}

// =============================================================================
// CONSTRUCTION
// =============================================================================

func TestNewMoney_RoundsToCents(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3.334", "3.33"},
		{"3.335", "3.34"},
		{"3.336", "3.34"},
		{"0.005", "0.01"},
		{"10", "10.00"},
	}

	for _, tt := range tests {
		m, err := payroll.NewMoney(decimal.RequireFromString(tt.in), eur)
		require.NoError(t, err)
		assertAmount(t, tt.want, m)
	}
}

func TestNewMoney_Rejects(t *testing.T) {
	_, err := payroll.NewMoney(decimal.NewFromInt(-1), eur)
	assert.ErrorIs(t, err, payroll.ErrInvalidAmount)

	_, err = payroll.NewMoney(decimal.NewFromInt(1), payroll.Currency{})
	assert.ErrorIs(t, err, payroll.ErrMissingCurrency)
	assert.ErrorIs(t, err, payroll.ErrInvalidArgument)
}

func TestNewMoneyFromInt(t *testing.T) {
	m, err := payroll.NewMoneyFromInt(1600, eur)
	require.NoError(t, err)
	assertAmount(t, "1600.00", m)

	_, err = payroll.NewMoneyFromInt(-5, eur)
	assert.ErrorIs(t, err, payroll.ErrInvalidAmount)
}

func TestMoney_ZeroValueIsAbsent(t *testing.T) {
	assert.True(t, payroll.Money{}.IsZero())

	zero, err := payroll.ZeroMoney(eur)
	require.NoError(t, err)
	assert.False(t, zero.IsZero(), "0 in a currency is a real amount")
	assertAmount(t, "0.00", zero)
}

// =============================================================================
// ARITHMETIC
// =============================================================================

func TestMoney_Add(t *testing.T) {
	sum, err := money("1.10").Add(money("2.25"))
	require.NoError(t, err)
	assertAmount(t, "3.35", sum)
	assert.Equal(t, eur, sum.Currency())
}

func TestMoney_Subtract(t *testing.T) {
	diff, err := money("10").Subtract(money("3.50"))
	require.NoError(t, err)
	assertAmount(t, "6.50", diff)

	_, err = money("1").Subtract(money("2"))
	assert.ErrorIs(t, err, payroll.ErrInvalidAmount)
}

func TestMoney_MultiplyByScalar(t *testing.T) {
	tests := []struct {
		amount string
		factor string
		want   string
	}{
		{"3", "2", "6.00"},
		{"7", "0.333", "2.33"},
		{"6", "0.333", "2.00"},
		{"1600", "0.04", "64.00"},
	}

	for _, tt := range tests {
		got, err := money(tt.amount).MultiplyByScalar(decimal.RequireFromString(tt.factor))
		require.NoError(t, err)
		assertAmount(t, tt.want, got)
	}

	_, err := payroll.Money{}.MultiplyByScalar(decimal.NewFromInt(2))
	assert.ErrorIs(t, err, payroll.ErrMissingAmount)
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	dollars := payroll.MustMoney("1", usd)

	_, err := money("1").Add(dollars)
	require.ErrorIs(t, err, payroll.ErrCurrencyMismatch)
	var mismatch *payroll.CurrencyMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "add", mismatch.Op)
	assert.Equal(t, eur, mismatch.Left)
	assert.Equal(t, usd, mismatch.Right)

	_, err = money("1").Subtract(dollars)
	assert.ErrorIs(t, err, payroll.ErrCurrencyMismatch)

	_, err = money("1").GreaterThanOrEqual(dollars)
	assert.ErrorIs(t, err, payroll.ErrCurrencyMismatch)

	_, err = money("1").LessThanOrEqual(dollars)
	assert.ErrorIs(t, err, payroll.ErrCurrencyMismatch)

	_, err = money("1").Equals(dollars)
	assert.ErrorIs(t, err, payroll.ErrCurrencyMismatch)

	_, err = money("1").Compare(dollars)
	require.ErrorIs(t, err, payroll.ErrCurrencyMismatch)
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "compare", mismatch.Op)

	_, err = money("1").Add(payroll.Money{})
	assert.ErrorIs(t, err, payroll.ErrCurrencyMismatch)
}

func TestMoney_AdditionProperties(t *testing.T) {
	amounts := []string{"0", "0.01", "3.335", "10.999", "658.1", "1600", "98765.43"}

	for _, x := range amounts {
		for _, y := range amounts {
			// GIVEN: Two amounts in the same currency, rounded on construction
			mx, my := money(x), money(y)

			// WHEN: Adding them in both orders and taking y back off
			xy, err := mx.Add(my)
			require.NoError(t, err)
			yx, err := my.Add(mx)
			require.NoError(t, err)
			back, err := xy.Subtract(my)
			require.NoError(t, err)

			// THEN: Addition commutes and subtraction undoes it
			commutes, err := xy.Equals(yx)
			require.NoError(t, err)
			assert.True(t, commutes, "%s + %s == %s + %s", x, y, y, x)

			restored, err := back.Equals(mx)
			require.NoError(t, err)
			assert.True(t, restored, "(%s + %s) - %s == %s", x, y, y, x)
			assertAmount(t, mx.Amount().StringFixed(payroll.Places), back)
		}
	}
}

func TestMoney_SameNameIsSameCurrency(t *testing.T) {
	plain := payroll.MustMoney("1", payroll.Currency{Name: "Eur"})

	sum, err := money("1").Add(plain)
	require.NoError(t, err)
	assertAmount(t, "2.00", sum)
}

// =============================================================================
// COMPARISON
// =============================================================================

func TestMoney_Comparisons(t *testing.T) {
	tests := []struct {
		left, right string
		gte, lte    bool
	}{
		{"1", "2", false, true},
		{"2", "2", true, true},
		{"3", "2", true, false},
	}

	for _, tt := range tests {
		gte, err := money(tt.left).GreaterThanOrEqual(money(tt.right))
		require.NoError(t, err)
		assert.Equal(t, tt.gte, gte, "%s >= %s", tt.left, tt.right)

		lte, err := money(tt.left).LessThanOrEqual(money(tt.right))
		require.NoError(t, err)
		assert.Equal(t, tt.lte, lte, "%s <= %s", tt.left, tt.right)
	}

	eq, err := money("2.00").Equals(money("2"))
	require.NoError(t, err)
	assert.True(t, eq)
}

// =============================================================================
// DISPLAY
// =============================================================================

func TestMoney_String(t *testing.T) {
	c := payroll.Currency{Name: "Name", Symbol: "Symbol"}
	assert.Equal(t, "Symbol10", payroll.MustMoney("10", c).String())

	assert.Equal(t, "€160", money("160").String())
	assert.Equal(t, "€658.1", money("658.10").String())
	assert.Equal(t, "€658.10", money("658.1").StringFixed())

	// No symbol falls back to the name
	assert.Equal(t, "Chf5", payroll.MustMoney("5", payroll.Currency{Name: "Chf"}).String())
}

func TestMoney_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(money("160"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"160.00","currency":"Eur","symbol":"€"}`, string(data))
}

// =============================================================================
// RATE
// =============================================================================

func TestNewRate_Bounds(t *testing.T) {
	for _, ok := range []string{"0", "9.19", "100"} {
		r, err := payroll.NewRate(decimal.RequireFromString(ok))
		require.NoError(t, err, ok)
		assert.True(t, r.IsValid())
	}

	for _, bad := range []string{"-0.01", "100.01", "250"} {
		_, err := payroll.NewRate(decimal.RequireFromString(bad))
		assert.ErrorIs(t, err, payroll.ErrOutOfRange, bad)
		assert.True(t, payroll.IsClientError(err))
	}
}

func TestRate_Value(t *testing.T) {
	r := payroll.MustRate("25")

	assert.True(t, r.Value().Equal(decimal.RequireFromString("0.25")))
	assert.True(t, r.Percent().Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "25%", r.String())
	assert.False(t, payroll.Rate{}.IsValid())
}
