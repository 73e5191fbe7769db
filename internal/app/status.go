package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/johnwards/inflowsync/internal/database"
	"github.com/johnwards/inflowsync/internal/store"
)

// ErrNoDatabase is returned by Status when nothing has been seeded at path.
var ErrNoDatabase = errors.New("no database found")

// Status writes the latest sync run and per-table row counts of the database
// at path to w.
func Status(ctx context.Context, path string, w io.Writer) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w at %s", ErrNoDatabase, path)
		}
		return fmt.Errorf("stat database: %w", err)
	}

	db, err := database.Create(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	s := store.New(db)

	fmt.Fprintln(w, "Database:", path)
	run, err := s.LatestRun(ctx)
	switch {
	case errors.Is(err, store.ErrNoRuns):
		fmt.Fprintln(w, "Last run: never")
	case err != nil:
		return err
	default:
		fmt.Fprintf(w, "Last run: %s (%s) started %s", run.ID, run.Status, run.StartedAt)
		if run.FinishedAt.Valid {
			fmt.Fprintf(w, ", finished %s", run.FinishedAt.String)
		}
		fmt.Fprintln(w)
		if run.Error.Valid {
			fmt.Fprintln(w, "Error:", run.Error.String)
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tROWS")
	for _, table := range store.Tables {
		n, err := s.Count(ctx, table)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d\n", table, n)
	}
	return tw.Flush()
}
