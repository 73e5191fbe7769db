package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// entity describes how one Inflow record type maps onto its table.
type entity[T any] struct {
	table string
	key   string
	cols  []string
	row   func(T) map[string]any
	raw   func(T) json.RawMessage
	// children writes nested collections after the parent row.
	children func(ctx context.Context, tx *sqlx.Tx, v T) error
}

// upsertSQL builds a named INSERT ... ON CONFLICT DO UPDATE statement. The
// conflict path updates in place, so rows referencing the parent survive.
func upsertSQL(table, key string, cols []string) string {
	names := make([]string, 0, len(cols))
	updates := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, ":"+c)
		if c != key {
			updates = append(updates, c+" = excluded."+c)
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		table,
		strings.Join(cols, ", "),
		strings.Join(names, ", "),
		key,
		strings.Join(updates, ", "),
	)
}

// upsertAll writes items in a single transaction.
func upsertAll[T any](ctx context.Context, s *Store, e entity[T], items []T) error {
	if len(items) == 0 {
		return nil
	}

	cols := append(append([]string{}, e.cols...), "raw", "synced_at")
	query := upsertSQL(e.table, e.key, cols)
	syncedAt := s.timestamp()

	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, item := range items {
			args := e.row(item)
			raw, err := rawJSON(e.raw(item), item)
			if err != nil {
				return fmt.Errorf("encode %s %v: %w", e.table, args[e.key], err)
			}
			args["raw"] = raw
			args["synced_at"] = syncedAt

			if _, err := tx.NamedExecContext(ctx, query, args); err != nil {
				return fmt.Errorf("upsert %s %v: %w", e.table, args[e.key], err)
			}
			if e.children != nil {
				if err := e.children(ctx, tx, item); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// replaceChildren deletes the rows of table belonging to parentID and
// upserts rows in their place.
func replaceChildren(ctx context.Context, tx *sqlx.Tx, table, parentCol, parentID, key string, cols []string, rows []map[string]any) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE "+parentCol+" = ?", parentID); err != nil {
		return fmt.Errorf("clear %s for %s: %w", table, parentID, err)
	}
	if len(rows) == 0 {
		return nil
	}

	query := upsertSQL(table, key, cols)
	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("upsert %s %v: %w", table, row[key], err)
		}
	}
	return nil
}

// rawJSON returns the payload as received, or v re-encoded when the record
// was built in code rather than decoded from the API.
func rawJSON(raw json.RawMessage, v any) (string, error) {
	if len(raw) > 0 {
		return string(raw), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// nullable maps the zero string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
