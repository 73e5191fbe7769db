package testhelpers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/johnwards/inflowsync/internal/database"
)

// NewTestDB returns an empty in-memory SQLite database opened through
// database.Open, closed when the test completes. The database package tests
// use it to exercise migrations; store, seed and app tests use NewMigratedDB.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// NewMigratedDB returns an in-memory database with every migration applied,
// ready for store.New.
func NewMigratedDB(t *testing.T) *sql.DB {
	t.Helper()

	db := NewTestDB(t)
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
