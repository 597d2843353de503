/*
Package sqlite provides a SQLite-backed implementation of payroll.RuleTable.

PURPOSE:
  Keeps currencies, location-to-currency mappings and deduction rules in
  SQLite so a server can share one rule table across restarts. In
  production the same schema works on PostgreSQL with minor dialect changes.

INTERFACES IMPLEMENTED:
  payroll.CurrencyResolver: Location -> Currency
  payroll.RuleTable:        Location -> []RuleDescriptor
  payroll.LocationLister:   All locations

KEY TABLES:
  currencies:      name, display symbol
  locations:       name, currency name
  deduction_rules: ordered rule descriptors per location

READS HIT THE DATABASE:
  Every GetCurrency / DeductionRules call runs a query; nothing is cached.
  A rule book imported while the server runs is visible on the next call.

DECIMALS:
  Rates and thresholds are stored as TEXT and parsed with shopspring/decimal
  so values round-trip exactly.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. With PostgreSQL, database-level
  concurrency control handles this instead.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  err = store.ImportRuleBook(ctx, book)
  source := payroll.NewTableRuleSource(store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - payroll/source.go: Interface definitions
  - payroll/store/memory.go: In-memory implementation
  - factory/rules.go: Where rule books come from
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

// Store implements the rule table interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS currencies (
		name TEXT PRIMARY KEY,
		symbol TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS locations (
		name TEXT PRIMARY KEY,
		currency TEXT NOT NULL REFERENCES currencies(name),
		created_at TEXT NOT NULL
	);

	-- Rules are applied in position order
	CREATE TABLE IF NOT EXISTS deduction_rules (
		id TEXT PRIMARY KEY,
		location TEXT NOT NULL REFERENCES locations(name) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		basic_rate_percent TEXT NOT NULL DEFAULT '0',
		higher_rate_percent TEXT NOT NULL DEFAULT '0',
		threshold TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL,
		UNIQUE(location, position)
	);

	CREATE INDEX IF NOT EXISTS idx_deduction_rules_location
		ON deduction_rules(location, position);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// IMPORT
// =============================================================================

// ImportRuleBook validates book and replaces the whole rule table with it in
// one transaction.
func (s *Store) ImportRuleBook(ctx context.Context, book *payroll.RuleBook) error {
	if err := book.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM deduction_rules",
		"DELETE FROM locations",
		"DELETE FROM currencies",
	} {
		if _, err := sqlTx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear rule table: %w", err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)

	for _, c := range book.Currencies {
		if _, err := sqlTx.ExecContext(ctx,
			"INSERT INTO currencies (name, symbol, created_at) VALUES (?, ?, ?)",
			c.Name, c.Symbol, now,
		); err != nil {
			return fmt.Errorf("failed to insert currency %q: %w", c.Name, err)
		}
	}

	for _, lr := range book.Locations {
		if _, err := sqlTx.ExecContext(ctx,
			"INSERT INTO locations (name, currency, created_at) VALUES (?, ?, ?)",
			lr.Location.Name, lr.CurrencyName, now,
		); err != nil {
			return fmt.Errorf("failed to insert location %q: %w", lr.Location.Name, err)
		}

		for i, rule := range lr.Rules {
			_, err := sqlTx.ExecContext(ctx, `
				INSERT INTO deduction_rules
				(id, location, position, name, kind, basic_rate_percent, higher_rate_percent, threshold, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				uuid.NewString(),
				lr.Location.Name,
				i,
				rule.Name,
				string(rule.Kind),
				rule.BasicRatePercent.String(),
				rule.HigherRatePercent.String(),
				rule.Threshold.String(),
				now,
			)
			if err != nil {
				return fmt.Errorf("failed to insert rule %q for %q: %w", rule.Name, lr.Location.Name, err)
			}
		}
	}

	return sqlTx.Commit()
}

// IsEmpty reports whether no location has been imported yet.
func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM locations").Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count locations: %w", err)
	}
	return count == 0, nil
}

// =============================================================================
// RULE TABLE (payroll.RuleTable interface)
// =============================================================================

// GetCurrency returns the currency used at location.
func (s *Store) GetCurrency(ctx context.Context, location payroll.Location) (payroll.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var currencyName string
	err := s.db.QueryRowContext(ctx,
		"SELECT currency FROM locations WHERE name = ?", location.Name,
	).Scan(&currencyName)
	if errors.Is(err, sql.ErrNoRows) {
		return payroll.Currency{}, &payroll.LocationNotFoundError{Location: location, Lookup: "currency"}
	}
	if err != nil {
		return payroll.Currency{}, fmt.Errorf("failed to query location: %w", err)
	}

	currency := payroll.Currency{Name: currencyName}
	err = s.db.QueryRowContext(ctx,
		"SELECT symbol FROM currencies WHERE name = ?", currencyName,
	).Scan(&currency.Symbol)
	if errors.Is(err, sql.ErrNoRows) {
		return payroll.Currency{}, &payroll.CurrencyNotFoundError{Name: currencyName}
	}
	if err != nil {
		return payroll.Currency{}, fmt.Errorf("failed to query currency: %w", err)
	}

	return currency, nil
}

// DeductionRules returns the rules for location in position order.
func (s *Store) DeductionRules(ctx context.Context, location payroll.Location) ([]payroll.RuleDescriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM locations WHERE name = ?", location.Name,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to query location: %w", err)
	}
	if exists == 0 {
		return nil, &payroll.LocationNotFoundError{Location: location, Lookup: "deduction rules"}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, kind, basic_rate_percent, higher_rate_percent, threshold
		FROM deduction_rules
		WHERE location = ?
		ORDER BY position ASC
	`, location.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to query deduction rules: %w", err)
	}
	defer rows.Close()

	var result []payroll.RuleDescriptor
	for rows.Next() {
		var rule payroll.RuleDescriptor
		var kind, basic, higher, thresh string
		if err := rows.Scan(&rule.Name, &kind, &basic, &higher, &thresh); err != nil {
			return nil, fmt.Errorf("failed to scan deduction rule: %w", err)
		}
		rule.Kind = payroll.DeductionKind(kind)
		if rule.BasicRatePercent, err = decimal.NewFromString(basic); err != nil {
			return nil, fmt.Errorf("rule %q: bad basic rate %q: %w", rule.Name, basic, err)
		}
		if rule.HigherRatePercent, err = decimal.NewFromString(higher); err != nil {
			return nil, fmt.Errorf("rule %q: bad higher rate %q: %w", rule.Name, higher, err)
		}
		if rule.Threshold, err = decimal.NewFromString(thresh); err != nil {
			return nil, fmt.Errorf("rule %q: bad threshold %q: %w", rule.Name, thresh, err)
		}
		result = append(result, rule)
	}
	return result, rows.Err()
}

// ListLocations returns all locations in name order.
func (s *Store) ListLocations(ctx context.Context) ([]payroll.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT name FROM locations ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var result []payroll.Location
	for rows.Next() {
		var loc payroll.Location
		if err := rows.Scan(&loc.Name); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		result = append(result, loc)
	}
	return result, rows.Err()
}
