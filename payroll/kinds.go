/*
kinds.go - Deduction kind registration and calculator construction

PURPOSE:
  Maps a RuleDescriptor's kind to the code that builds its calculator.
  Rule tables only store descriptors; this registry is how they come back
  to life as DeductionCalculator values.

HOW IT WORKS:
  1. Flat and progressive builders are registered on package init
  2. Other packages may register additional kinds with RegisterKind
  3. NewCalculator looks the kind up and fails with UnsupportedKindError
     when nothing is registered (no silent default)

USAGE:
  calc, err := payroll.NewCalculator(rule, eur)
  if errors.Is(err, payroll.ErrUnsupportedDeductionKind) {
      // rule table carries a kind this build does not know
  }
*/
package payroll

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// CalculatorBuilder builds a calculator from a descriptor. currency is the
// currency of the location the rule applies to.
type CalculatorBuilder func(rule RuleDescriptor, currency Currency) (DeductionCalculator, error)

var (
	kindRegistry = make(map[DeductionKind]CalculatorBuilder)
	kindMu       sync.RWMutex
)

func init() {
	RegisterKind(KindFlat, buildFlat)
	RegisterKind(KindProgressive, buildProgressive)
}

// RegisterKind adds or replaces the builder for a kind.
func RegisterKind(kind DeductionKind, builder CalculatorBuilder) {
	kindMu.Lock()
	defer kindMu.Unlock()
	kindRegistry[kind] = builder
}

// IsKnownKind reports whether a builder is registered for kind.
func IsKnownKind(kind DeductionKind) bool {
	kindMu.RLock()
	defer kindMu.RUnlock()
	_, ok := kindRegistry[kind]
	return ok
}

// ListKinds returns registered kinds in name order.
func ListKinds() []DeductionKind {
	kindMu.RLock()
	defer kindMu.RUnlock()
	kinds := make([]DeductionKind, 0, len(kindRegistry))
	for k := range kindRegistry {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ParseDeductionKind normalises rule-table spellings. "flat" and
// "progressive" are accepted as aliases, case-insensitively. Unknown
// values are returned as-is so NewCalculator can report them.
func ParseDeductionKind(s string) DeductionKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flat", "flatdeduction":
		return KindFlat
	case "progressive", "progressivededuction":
		return KindProgressive
	default:
		return DeductionKind(strings.TrimSpace(s))
	}
}

// NewCalculator builds the calculator for rule.
func NewCalculator(rule RuleDescriptor, currency Currency) (DeductionCalculator, error) {
	kindMu.RLock()
	builder, ok := kindRegistry[rule.Kind]
	kindMu.RUnlock()

	if !ok {
		return nil, &UnsupportedKindError{Rule: rule.Name, Kind: rule.Kind}
	}
	calc, err := builder(rule, currency)
	if err != nil {
		return nil, fmt.Errorf("deduction %q: %w", rule.Name, err)
	}
	return calc, nil
}

// =============================================================================
// BUILT-IN BUILDERS
// =============================================================================

func buildFlat(rule RuleDescriptor, _ Currency) (DeductionCalculator, error) {
	rate, err := NewRate(rule.BasicRatePercent)
	if err != nil {
		return nil, err
	}
	return NewFlatDeduction(rule.Name, rate)
}

func buildProgressive(rule RuleDescriptor, currency Currency) (DeductionCalculator, error) {
	basic, err := NewRate(rule.BasicRatePercent)
	if err != nil {
		return nil, err
	}
	higher, err := NewRate(rule.HigherRatePercent)
	if err != nil {
		return nil, err
	}
	threshold, err := NewMoney(rule.Threshold, currency)
	if err != nil {
		return nil, err
	}
	return NewProgressiveDeduction(rule.Name, basic, higher, threshold)
}
