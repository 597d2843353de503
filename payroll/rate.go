package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	hundred        = decimal.NewFromInt(100)
	minRatePercent = decimal.Zero
	maxRatePercent = hundred
)

// Rate is a percentage in [0, 100]. The zero value is "no rate given";
// a real 0% rate comes from NewRate(decimal.Zero).
type Rate struct {
	percent decimal.Decimal
	valid   bool
}

// NewRate fails with ErrOutOfRange unless 0 <= percent <= 100.
func NewRate(percent decimal.Decimal) (Rate, error) {
	if percent.LessThan(minRatePercent) || percent.GreaterThan(maxRatePercent) {
		return Rate{}, fmt.Errorf("%w: %s is not between %s and %s",
			ErrOutOfRange, percent, minRatePercent, maxRatePercent)
	}
	return Rate{percent: percent, valid: true}, nil
}

// MustRate parses percent and panics on failure.
func MustRate(percent string) Rate {
	r, err := NewRate(decimal.RequireFromString(percent))
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rate) IsValid() bool { return r.valid }
func (r Rate) Percent() decimal.Decimal { return r.percent }

// Value is the multiplier form of the rate: 25% -> 0.25.
func (r Rate) Value() decimal.Decimal { return r.percent.Div(hundred) }

func (r Rate) String() string { return r.percent.String() + "%" }
