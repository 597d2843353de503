/*
deduction.go - Deduction calculators

PURPOSE:
  A DeductionCalculator turns gross pay into the amount one rule takes
  from it. Calculators are immutable and safe to share between goroutines.

AVAILABLE CALCULATORS:
  FlatDeduction:        gross x rate
  ProgressiveDeduction: two brackets split at an inclusive threshold

PROGRESSIVE EXAMPLE (basic 25%, higher 40%, threshold 600):
  gross 500  -> 500 x 0.25                   = 125
  gross 600  -> 600 x 0.25                   = 150   (threshold is basic rate)
  gross 1000 -> 600 x 0.25 + 400 x 0.40      = 310

SEE ALSO:
  - kinds.go: Builds calculators from RuleDescriptor values
  - calculator.go: Applies calculators to gross pay
*/
package payroll

// DeductionCalculator computes one named deduction from gross pay.
type DeductionCalculator interface {
	// Name is shown next to the deduction amount on a payslip.
	Name() string

	// CalculateDeduction returns the amount taken from grossAmount, in the
	// same currency.
	CalculateDeduction(grossAmount Money) (Money, error)
}

// =============================================================================
// FLAT DEDUCTION
// =============================================================================

// FlatDeduction takes a fixed rate of the whole gross amount.
type FlatDeduction struct {
	name string
	rate Rate
}

func NewFlatDeduction(name string, rate Rate) (*FlatDeduction, error) {
	if name == "" {
		return nil, ErrMissingName
	}
	if !rate.IsValid() {
		return nil, ErrMissingRate
	}
	return &FlatDeduction{name: name, rate: rate}, nil
}

func (d *FlatDeduction) Name() string { return d.name }
func (d *FlatDeduction) Rate() Rate { return d.rate }

func (d *FlatDeduction) CalculateDeduction(grossAmount Money) (Money, error) {
	if grossAmount.IsZero() {
		return Money{}, ErrMissingAmount
	}
	return grossAmount.MultiplyByScalar(d.rate.Value())
}

// =============================================================================
// PROGRESSIVE DEDUCTION
// =============================================================================

// ProgressiveDeduction taxes gross up to threshold at basicRate and the rest at higherRate.
type ProgressiveDeduction struct {
	name       string
	basicRate  Rate
	higherRate Rate
	threshold  Money
}

func NewProgressiveDeduction(name string, basicRate, higherRate Rate, threshold Money) (*ProgressiveDeduction, error) {
	if name == "" {
		return nil, ErrMissingName
	}
	if !basicRate.IsValid() || !higherRate.IsValid() {
		return nil, ErrMissingRate
	}
	if threshold.IsZero() {
		return nil, ErrMissingAmount
	}
	return &ProgressiveDeduction{
		name:       name,
		basicRate:  basicRate,
		higherRate: higherRate,
		threshold:  threshold,
	}, nil
}

func (d *ProgressiveDeduction) Name() string { return d.name }
func (d *ProgressiveDeduction) BasicRate() Rate { return d.basicRate }
func (d *ProgressiveDeduction) HigherRate() Rate { return d.higherRate }
func (d *ProgressiveDeduction) Threshold() Money { return d.threshold }

// CalculateDeduction applies the basic rate up to and including the
// threshold and the higher rate to the excess only.
func (d *ProgressiveDeduction) CalculateDeduction(grossAmount Money) (Money, error) {
	if grossAmount.IsZero() {
		return Money{}, ErrMissingAmount
	}

	withinBasic, err := d.threshold.GreaterThanOrEqual(grossAmount)
	if err != nil {
		return Money{}, err
	}
	if withinBasic {
		return grossAmount.MultiplyByScalar(d.basicRate.Value())
	}

	basicPart, err := d.threshold.MultiplyByScalar(d.basicRate.Value())
	if err != nil {
		return Money{}, err
	}
	excess, err := grossAmount.Subtract(d.threshold)
	if err != nil {
		return Money{}, err
	}
	higherPart, err := excess.MultiplyByScalar(d.higherRate.Value())
	if err != nil {
		return Money{}, err
	}
	return basicPart.Add(higherPart)
}
