package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store persists Inflow records and sync bookkeeping in SQLite.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// New wraps an open database handle. The schema must already be migrated.
func New(db *sql.DB) *Store {
	// sqlx picks the bind style from the driver name; modernc registers as
	// "sqlite", which sqlx only knows under the mattn name.
	return &Store{
		db:  sqlx.NewDb(db, "sqlite3"),
		now: time.Now,
	}
}

// DB returns the underlying handle.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// timestamp returns the current UTC time in the format used for every
// *_at column.
func (s *Store) timestamp() string {
	return s.now().UTC().Format("2006-01-02T15:04:05.000Z")
}
