package payroll_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/payroll"
)

func validBook() *payroll.RuleBook {
	return &payroll.RuleBook{
		Currencies: []payroll.Currency{eur},
		Locations: []payroll.LocationRules{{
			Location:     italy,
			CurrencyName: "Eur",
			Rules: []payroll.RuleDescriptor{
				{Name: "Income tax", Kind: payroll.KindFlat, BasicRatePercent: decimal.NewFromInt(25)},
			},
		}},
	}
}

func TestRuleBook_Valid(t *testing.T) {
	book := validBook()
	require.NoError(t, book.Validate())

	c, ok := book.Currency("Eur")
	assert.True(t, ok)
	assert.Equal(t, "€", c.Symbol)

	_, ok = book.Currency("Gbp")
	assert.False(t, ok)
}

func TestRuleBook_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *payroll.RuleBook)
		is     error
	}{
		{"nameless currency", func(b *payroll.RuleBook) {
			b.Currencies = append(b.Currencies, payroll.Currency{Symbol: "$"})
		}, payroll.ErrInvalidArgument},
		{"duplicate currency", func(b *payroll.RuleBook) {
			b.Currencies = append(b.Currencies, eur)
		}, payroll.ErrInvalidArgument},
		{"nameless location", func(b *payroll.RuleBook) {
			b.Locations = append(b.Locations, payroll.LocationRules{CurrencyName: "Eur"})
		}, payroll.ErrMissingLocation},
		{"duplicate location", func(b *payroll.RuleBook) {
			b.Locations = append(b.Locations, b.Locations[0])
		}, payroll.ErrInvalidArgument},
		{"unknown currency", func(b *payroll.RuleBook) {
			b.Locations[0].CurrencyName = "Lira"
		}, payroll.ErrEntityNotFound},
		{"unknown kind", func(b *payroll.RuleBook) {
			b.Locations[0].Rules[0].Kind = "Tithe"
		}, payroll.ErrUnsupportedDeductionKind},
		{"rate out of range", func(b *payroll.RuleBook) {
			b.Locations[0].Rules[0].BasicRatePercent = decimal.NewFromInt(101)
		}, payroll.ErrOutOfRange},
		{"missing rule name", func(b *payroll.RuleBook) {
			b.Locations[0].Rules[0].Name = ""
		}, payroll.ErrMissingName},
		{"negative threshold", func(b *payroll.RuleBook) {
			b.Locations[0].Rules = append(b.Locations[0].Rules, payroll.RuleDescriptor{
				Name:              "Solidarity",
				Kind:              payroll.KindProgressive,
				BasicRatePercent:  decimal.NewFromInt(1),
				HigherRatePercent: decimal.NewFromInt(2),
				Threshold:         decimal.NewFromInt(-5),
			})
		}, payroll.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := validBook()
			tt.mutate(book)

			err := book.Validate()
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestRuleBook_ReportsEveryProblem(t *testing.T) {
	book := validBook()
	book.Locations[0].CurrencyName = "Lira"
	book.Locations = append(book.Locations, payroll.LocationRules{
		Location:     germany,
		CurrencyName: "Eur",
		Rules:        []payroll.RuleDescriptor{{Name: "Church tax", Kind: "Tithe"}},
	})

	err := book.Validate()

	var notFound *payroll.CurrencyNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "Lira", notFound.Name)
	assert.ErrorIs(t, err, payroll.ErrUnsupportedDeductionKind)
	assert.Contains(t, err.Error(), "Germany")
}
