// Package storetest opens migrated in-memory databases for store tests.
package storetest

import (
	"database/sql"
	"testing"

	"gymdesk/internal/adapters/storage"
)

// Open returns a fresh, fully migrated in-memory database closed at test end.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}
