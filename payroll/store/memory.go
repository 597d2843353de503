// Package store provides RuleTable implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory rule table (for testing/dev and the console app)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	currencies map[string]payroll.Currency
	locations  map[string]locationEntry
}

type locationEntry struct {
	currency string
	rules    []payroll.RuleDescriptor
}

func NewMemory() *Memory {
	return &Memory{
		currencies: make(map[string]payroll.Currency),
		locations:  make(map[string]locationEntry),
	}
}

// NewMemoryFromBook creates a store holding the contents of book.
func NewMemoryFromBook(book *payroll.RuleBook) (*Memory, error) {
	m := NewMemory()
	if err := m.Load(book); err != nil {
		return nil, err
	}
	return m, nil
}

// Load validates book and replaces the store contents with it atomically.
func (m *Memory) Load(book *payroll.RuleBook) error {
	if err := book.Validate(); err != nil {
		return err
	}

	currencies := make(map[string]payroll.Currency, len(book.Currencies))
	for _, c := range book.Currencies {
		currencies[c.Name] = c
	}
	locations := make(map[string]locationEntry, len(book.Locations))
	for _, lr := range book.Locations {
		rules := make([]payroll.RuleDescriptor, len(lr.Rules))
		copy(rules, lr.Rules)
		locations[lr.Location.Name] = locationEntry{currency: lr.CurrencyName, rules: rules}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.currencies = currencies
	m.locations = locations
	return nil
}

func (m *Memory) GetCurrency(_ context.Context, location payroll.Location) (payroll.Currency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.locations[location.Name]
	if !ok {
		return payroll.Currency{}, &payroll.LocationNotFoundError{Location: location, Lookup: "currency"}
	}
	currency, ok := m.currencies[entry.currency]
	if !ok {
		return payroll.Currency{}, &payroll.CurrencyNotFoundError{Name: entry.currency}
	}
	return currency, nil
}

func (m *Memory) DeductionRules(_ context.Context, location payroll.Location) ([]payroll.RuleDescriptor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.locations[location.Name]
	if !ok {
		return nil, &payroll.LocationNotFoundError{Location: location, Lookup: "deduction rules"}
	}
	result := make([]payroll.RuleDescriptor, len(entry.rules))
	copy(result, entry.rules)
	return result, nil
}

// ListLocations returns locations in name order.
func (m *Memory) ListLocations(_ context.Context) ([]payroll.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]payroll.Location, 0, len(m.locations))
	for name := range m.locations {
		result = append(result, payroll.Location{Name: name})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
