package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is wrapped by every store when a row does not exist.
var ErrNotFound = errors.New("not found")

// TimeLayout is how timestamps are stored in TEXT columns.
// Fixed-width fractional seconds keep lexical order equal to time order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders t for storage; the zero time becomes NULL.
func FormatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a stored timestamp. Empty input yields the zero time.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, f := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}

// Open opens the SQLite database at path and applies connection pragmas.
// ":memory:" is pinned to a single connection so every query sees the same database.
// PRE: path is a file path or ":memory:"
// POST: Returns an open handle with foreign keys enforced
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	} else {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
		if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set busy timeout: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

// migration is one forward-only schema step.
type migration struct {
	version     int
	description string
	statements  []string
}

var migrations = []migration{
	{
		version:     1,
		description: "baseline",
		statements: []string{
			`CREATE TABLE account (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL DEFAULT '',
				role TEXT NOT NULL,
				created_at TEXT NOT NULL,
				failed_logins INTEGER NOT NULL DEFAULT 0,
				locked_until TEXT
			)`,
			`CREATE TABLE profile (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL,
				first_name TEXT NOT NULL DEFAULT '',
				last_name TEXT NOT NULL DEFAULT '',
				role TEXT NOT NULL,
				FOREIGN KEY (id) REFERENCES account(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE member (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				membership_type TEXT NOT NULL,
				status TEXT NOT NULL,
				join_date TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE class (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				instructor TEXT NOT NULL,
				date TEXT NOT NULL,
				time TEXT NOT NULL,
				duration INTEGER NOT NULL DEFAULT 60,
				capacity INTEGER NOT NULL DEFAULT 15,
				enrolled INTEGER NOT NULL DEFAULT 0,
				description TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'scheduled'
			)`,
			`CREATE TABLE equipment (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				type TEXT NOT NULL DEFAULT '',
				location TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL,
				last_maintenance TEXT NOT NULL DEFAULT '',
				notes TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE cleaning_task (
				id TEXT PRIMARY KEY,
				area TEXT NOT NULL,
				assigned_to TEXT NOT NULL,
				frequency TEXT NOT NULL,
				last_cleaned TEXT NOT NULL DEFAULT '',
				next_due TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL,
				notes TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE product (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				price TEXT NOT NULL,
				category TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				stock_quantity INTEGER,
				tax_rate TEXT NOT NULL,
				image_url TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'active'
			)`,
			`CREATE TABLE sale (
				id TEXT PRIMARY KEY,
				timestamp TEXT NOT NULL,
				account_id TEXT NOT NULL DEFAULT '',
				member_name TEXT NOT NULL DEFAULT '',
				payment_method TEXT NOT NULL,
				total_amount TEXT NOT NULL,
				tax_amount TEXT NOT NULL
			)`,
			`CREATE TABLE sale_item (
				id TEXT PRIMARY KEY,
				sale_id TEXT NOT NULL,
				product_id TEXT NOT NULL,
				product_name TEXT NOT NULL,
				category TEXT NOT NULL,
				quantity INTEGER NOT NULL,
				unit_price TEXT NOT NULL,
				subtotal TEXT NOT NULL,
				FOREIGN KEY (sale_id) REFERENCES sale(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE setting (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE outbox (
				id TEXT PRIMARY KEY,
				action_type TEXT NOT NULL,
				payload TEXT NOT NULL,
				status TEXT NOT NULL,
				attempts INTEGER NOT NULL DEFAULT 0,
				max_attempts INTEGER NOT NULL DEFAULT 5,
				last_attempted_at TEXT,
				created_at TEXT NOT NULL,
				external_id TEXT NOT NULL DEFAULT '',
				error_message TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE audit_event (
				id TEXT PRIMARY KEY,
				timestamp TEXT NOT NULL,
				category TEXT NOT NULL,
				action TEXT NOT NULL,
				severity TEXT NOT NULL,
				actor_id TEXT NOT NULL DEFAULT '',
				actor_email TEXT NOT NULL DEFAULT '',
				actor_role TEXT NOT NULL DEFAULT '',
				resource_id TEXT NOT NULL DEFAULT '',
				resource_type TEXT NOT NULL DEFAULT '',
				description TEXT NOT NULL DEFAULT '',
				ip_address TEXT NOT NULL DEFAULT '',
				metadata TEXT NOT NULL DEFAULT ''
			)`,
		},
	},
	{
		version:     2,
		description: "access log and reporting indexes",
		statements: []string{
			`CREATE TABLE access_log (
				id TEXT PRIMARY KEY,
				timestamp TEXT NOT NULL,
				result TEXT NOT NULL,
				presented TEXT NOT NULL DEFAULT '',
				reason TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE INDEX idx_access_log_timestamp ON access_log(timestamp)`,
			`CREATE INDEX idx_sale_timestamp ON sale(timestamp)`,
			`CREATE INDEX idx_sale_item_sale ON sale_item(sale_id)`,
			`CREATE INDEX idx_outbox_status ON outbox(status)`,
			`CREATE INDEX idx_audit_event_timestamp ON audit_event(timestamp)`,
		},
	},
}

// LatestSchemaVersion returns the version the migration chain ends at.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the applied schema version, or 0 for a fresh database.
// PRE: db is open
func SchemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)"); err != nil {
		return 0, fmt.Errorf("create schema_version: %w", err)
	}
	var v sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB applies every migration newer than the recorded schema version.
// Each migration runs in its own transaction together with its version row.
// PRE: db is open
// POST: SchemaVersion(db) == LatestSchemaVersion()
// INVARIANT: running MigrateDB twice is a no-op the second time
func MigrateDB(db *sql.DB) error {
	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		for _, stmt := range m.statements {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d (%s): %w", m.version, m.description, err)
			}
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
		slog.Info("schema_migrated", "version", m.version, "description", m.description)
	}
	return nil
}
