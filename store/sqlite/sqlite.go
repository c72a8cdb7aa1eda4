/*
Package sqlite provides SQLite-backed persistence for the payroll engine.

PURPOSE:
  Stores two things the pure calculation core deliberately knows nothing
  about: an append-only history of calculation runs (for auditing past
  payslips and estimates) and custom tax-table configurations (so a new
  finance act is a stored JSON document, not a code release).

KEY TABLES:
  calculations: Append-only record of every calculation run
  tax_tables:   Tax-table configs stored as JSON, parsed by the factory

APPEND-ONLY ENFORCEMENT:
  No UPDATE or DELETE statements exist for the calculations table. History
  is a record of what was computed, not mutable state.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - factory/taxtable.go: Parses the config_json column
  - api/handlers.go: Writes a calculation record per API call
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists calculation history and tax-table configs.
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
	-- Calculation runs (append-only history)
	CREATE TABLE IF NOT EXISTS calculations (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		table_id TEXT NOT NULL,
		gross_annual TEXT NOT NULL,
		taxable_income TEXT NOT NULL,
		paye_annual TEXT NOT NULL,
		net_annual TEXT NOT NULL,
		input_json TEXT NOT NULL,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calculations_created_at
		ON calculations(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_calculations_mode
		ON calculations(mode);

	-- Tax table configs (parsed by factory.TableFactory)
	CREATE TABLE IF NOT EXISTS tax_tables (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CALCULATION HISTORY
// =============================================================================

// CalculationRecord is one stored calculation run. Monetary fields are held
// as decimal strings to avoid any float round-trip through storage.
type CalculationRecord struct {
	ID            string
	Mode          string // "full" or "quick"
	TableID       string
	GrossAnnual   string
	TaxableIncome string
	PAYEAnnual    string
	NetAnnual     string
	InputJSON     string
	ResultJSON    string
	CreatedAt     time.Time
}

// SaveCalculation appends a calculation record.
func (s *Store) SaveCalculation(ctx context.Context, rec CalculationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calculations
			(id, mode, table_id, gross_annual, taxable_income, paye_annual,
			 net_annual, input_json, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Mode, rec.TableID, rec.GrossAnnual, rec.TaxableIncome,
		rec.PAYEAnnual, rec.NetAnnual, rec.InputJSON, rec.ResultJSON,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save calculation: %w", err)
	}
	return nil
}

// ListCalculations returns the most recent calculation runs, newest first.
func (s *Store) ListCalculations(ctx context.Context, limit int) ([]CalculationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mode, table_id, gross_annual, taxable_income, paye_annual,
		       net_annual, input_json, result_json, created_at
		FROM calculations
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}
	defer rows.Close()

	var records []CalculationRecord
	for rows.Next() {
		rec, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetCalculation returns a single run by ID, or nil if not found.
func (s *Store) GetCalculation(ctx context.Context, id string) (*CalculationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, mode, table_id, gross_annual, taxable_income, paye_annual,
		       net_annual, input_json, result_json, created_at
		FROM calculations WHERE id = ?`, id)

	rec, err := scanCalculation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCalculation(row rowScanner) (CalculationRecord, error) {
	var rec CalculationRecord
	var createdAt string
	err := row.Scan(&rec.ID, &rec.Mode, &rec.TableID, &rec.GrossAnnual,
		&rec.TaxableIncome, &rec.PAYEAnnual, &rec.NetAnnual,
		&rec.InputJSON, &rec.ResultJSON, &createdAt)
	if err != nil {
		return rec, err
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return rec, nil
}

// =============================================================================
// TAX TABLES
// =============================================================================

// TaxTableRecord is a stored tax-table config. ConfigJSON holds the
// factory.TableJSON document.
type TaxTableRecord struct {
	ID         string
	Name       string
	ConfigJSON string
	CreatedAt  time.Time
}

// SaveTaxTable inserts or replaces a tax-table config.
func (s *Store) SaveTaxTable(ctx context.Context, rec TaxTableRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO tax_tables (id, name, config_json, created_at)
		VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.ConfigJSON, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save tax table: %w", err)
	}
	return nil
}

// ListTaxTables returns all stored tax-table configs.
func (s *Store) ListTaxTables(ctx context.Context) ([]TaxTableRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, config_json, created_at
		FROM tax_tables ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax tables: %w", err)
	}
	defer rows.Close()

	var records []TaxTableRecord
	for rows.Next() {
		var rec TaxTableRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.ConfigJSON, &createdAt); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetTaxTable returns a stored config by ID, or nil if not found.
func (s *Store) GetTaxTable(ctx context.Context, id string) (*TaxTableRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec TaxTableRecord
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, config_json, created_at
		FROM tax_tables WHERE id = ?`, id).
		Scan(&rec.ID, &rec.Name, &rec.ConfigJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &rec, nil
}
