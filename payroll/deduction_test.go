package payroll_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// FLAT DEDUCTION
// =============================================================================

func TestFlatDeduction(t *testing.T) {
	pension, err := payroll.NewFlatDeduction("Pension", payroll.MustRate("4"))
	require.NoError(t, err)
	assert.Equal(t, "Pension", pension.Name())

	got, err := pension.CalculateDeduction(money("1600"))
	require.NoError(t, err)
	assertAmount(t, "64.00", got)
	assert.Equal(t, eur, got.Currency())
}

func TestFlatDeduction_RoundsResult(t *testing.T) {
	inps, err := payroll.NewFlatDeduction("INPS", payroll.MustRate("9.19"))
	require.NoError(t, err)

	// 1000 * 9.19% = 91.90; 333 * 9.19% = 30.6027
	got, err := inps.CalculateDeduction(money("1000"))
	require.NoError(t, err)
	assertAmount(t, "91.90", got)

	got, err = inps.CalculateDeduction(money("333"))
	require.NoError(t, err)
	assertAmount(t, "30.60", got)
}

func TestFlatDeduction_Rejects(t *testing.T) {
	_, err := payroll.NewFlatDeduction("", payroll.MustRate("4"))
	assert.ErrorIs(t, err, payroll.ErrMissingName)

	_, err = payroll.NewFlatDeduction("Pension", payroll.Rate{})
	assert.ErrorIs(t, err, payroll.ErrMissingRate)

	pension, err := payroll.NewFlatDeduction("Pension", payroll.MustRate("4"))
	require.NoError(t, err)
	_, err = pension.CalculateDeduction(payroll.Money{})
	assert.ErrorIs(t, err, payroll.ErrMissingAmount)
}

// =============================================================================
// PROGRESSIVE DEDUCTION
// =============================================================================

func irishIncomeTax(t *testing.T) *payroll.ProgressiveDeduction {
	t.Helper()
	d, err := payroll.NewProgressiveDeduction("Income tax", payroll.MustRate("25"), payroll.MustRate("40"), money("600"))
	require.NoError(t, err)
	return d
}

func TestProgressiveDeduction_Brackets(t *testing.T) {
	tax := irishIncomeTax(t)

	tests := []struct {
		name  string
		gross string
		want  string
	}{
		{"below threshold", "500", "125.00"},
		{"at threshold uses basic rate", "600", "150.00"},
		{"above threshold splits", "1000", "310.00"},
		{"one cent over", "600.01", "150.00"},
		{"zero", "0", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tax.CalculateDeduction(money(tt.gross))
			require.NoError(t, err)
			assertAmount(t, tt.want, got)
		})
	}
}

func TestProgressiveDeduction_NeverBelowBasicOnWholeGross(t *testing.T) {
	tax := irishIncomeTax(t)

	for _, gross := range []string{"0", "1", "599.99", "600", "600.01", "5000"} {
		got, err := tax.CalculateDeduction(money(gross))
		require.NoError(t, err)

		basicOnly, err := money(gross).MultiplyByScalar(decimal.RequireFromString("0.25"))
		require.NoError(t, err)

		gte, err := got.GreaterThanOrEqual(basicOnly)
		require.NoError(t, err)
		assert.True(t, gte, "gross %s", gross)
	}
}

func TestProgressiveDeduction_Rejects(t *testing.T) {
	_, err := payroll.NewProgressiveDeduction("", payroll.MustRate("1"), payroll.MustRate("2"), money("1"))
	assert.ErrorIs(t, err, payroll.ErrMissingName)

	_, err = payroll.NewProgressiveDeduction("Tax", payroll.Rate{}, payroll.MustRate("2"), money("1"))
	assert.ErrorIs(t, err, payroll.ErrMissingRate)

	_, err = payroll.NewProgressiveDeduction("Tax", payroll.MustRate("1"), payroll.MustRate("2"), payroll.Money{})
	assert.ErrorIs(t, err, payroll.ErrMissingAmount)

	_, err = irishIncomeTax(t).CalculateDeduction(payroll.Money{})
	assert.ErrorIs(t, err, payroll.ErrMissingAmount)
}

func TestProgressiveDeduction_CurrencyMismatch(t *testing.T) {
	_, err := irishIncomeTax(t).CalculateDeduction(payroll.MustMoney("1000", usd))
	assert.ErrorIs(t, err, payroll.ErrCurrencyMismatch)
}

// =============================================================================
// KIND REGISTRY
// =============================================================================

func TestParseDeductionKind(t *testing.T) {
	tests := []struct {
		in   string
		want payroll.DeductionKind
	}{
		{"FlatDeduction", payroll.KindFlat},
		{"flat", payroll.KindFlat},
		{" Flat ", payroll.KindFlat},
		{"ProgressiveDeduction", payroll.KindProgressive},
		{"PROGRESSIVE", payroll.KindProgressive},
		{"Capped", payroll.DeductionKind("Capped")},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, payroll.ParseDeductionKind(tt.in), tt.in)
	}
}

func TestNewCalculator_BuiltInKinds(t *testing.T) {
	flat, err := payroll.NewCalculator(payroll.RuleDescriptor{
		Name:             "Pension",
		Kind:             payroll.KindFlat,
		BasicRatePercent: decimal.NewFromInt(4),
	}, eur)
	require.NoError(t, err)
	assert.IsType(t, &payroll.FlatDeduction{}, flat)

	prog, err := payroll.NewCalculator(payroll.RuleDescriptor{
		Name:              "Income tax",
		Kind:              payroll.KindProgressive,
		BasicRatePercent:  decimal.NewFromInt(25),
		HigherRatePercent: decimal.NewFromInt(40),
		Threshold:         decimal.NewFromInt(600),
	}, eur)
	require.NoError(t, err)
	require.IsType(t, &payroll.ProgressiveDeduction{}, prog)
	assert.Equal(t, eur, prog.(*payroll.ProgressiveDeduction).Threshold().Currency())
}

func TestNewCalculator_UnknownKind(t *testing.T) {
	_, err := payroll.NewCalculator(payroll.RuleDescriptor{Name: "Church tax", Kind: "Tithe"}, eur)

	require.ErrorIs(t, err, payroll.ErrUnsupportedDeductionKind)
	var unsupported *payroll.UnsupportedKindError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "Church tax", unsupported.Rule)
	assert.Equal(t, payroll.DeductionKind("Tithe"), unsupported.Kind)
}

func TestNewCalculator_BadRuleNamesDeduction(t *testing.T) {
	_, err := payroll.NewCalculator(payroll.RuleDescriptor{
		Name:             "Pension",
		Kind:             payroll.KindFlat,
		BasicRatePercent: decimal.NewFromInt(140),
	}, eur)

	assert.ErrorIs(t, err, payroll.ErrOutOfRange)
	assert.Contains(t, err.Error(), `"Pension"`)
}

type fixedDeduction struct {
	name   string
	amount payroll.Money
}

func (d fixedDeduction) Name() string { return d.name }

func (d fixedDeduction) CalculateDeduction(payroll.Money) (payroll.Money, error) {
	return d.amount, nil
}

func TestRegisterKind(t *testing.T) {
	// GIVEN: A kind that takes a fixed amount regardless of gross
	kind := payroll.DeductionKind("FixedAmountDeduction")
	payroll.RegisterKind(kind, func(rule payroll.RuleDescriptor, currency payroll.Currency) (payroll.DeductionCalculator, error) {
		amount, err := payroll.NewMoney(rule.Threshold, currency)
		if err != nil {
			return nil, err
		}
		return fixedDeduction{name: rule.Name, amount: amount}, nil
	})

	// THEN: It is listed and buildable
	assert.True(t, payroll.IsKnownKind(kind))
	assert.Contains(t, payroll.ListKinds(), payroll.KindFlat)
	assert.Contains(t, payroll.ListKinds(), payroll.KindProgressive)
	assert.Contains(t, payroll.ListKinds(), kind)

	calc, err := payroll.NewCalculator(payroll.RuleDescriptor{Name: "Union dues", Kind: kind, Threshold: decimal.NewFromInt(12)}, eur)
	require.NoError(t, err)
	got, err := calc.CalculateDeduction(money("1000"))
	require.NoError(t, err)
	assertAmount(t, "12.00", got)
}
