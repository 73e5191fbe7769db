package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Sync run statuses.
const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// ErrNoRuns is returned by LatestRun when nothing has been synced yet.
var ErrNoRuns = errors.New("no sync runs recorded")

// Tables lists the entity tables in seeding order.
var Tables = []string{
	"categories",
	"locations",
	"pricing_schemes",
	"payment_terms",
	"taxing_schemes",
	"vendors",
	"customers",
	"products",
	"inventory_lines",
	"purchase_orders",
	"purchase_order_lines",
	"sales_orders",
	"sales_order_lines",
}

// Run is one seeding pass.
type Run struct {
	ID         string         `db:"id"`
	CompanyID  string         `db:"company_id"`
	Status     string         `db:"status"`
	Error      sql.NullString `db:"error"`
	StartedAt  string         `db:"started_at"`
	FinishedAt sql.NullString `db:"finished_at"`
}

// State is the progress of one resource within the latest run that touched it.
type State struct {
	Resource   string         `db:"resource"`
	RunID      string         `db:"run_id"`
	LastCursor sql.NullString `db:"last_cursor"`
	Pages      int            `db:"pages"`
	Rows       int            `db:"row_count"`
	UpdatedAt  string         `db:"updated_at"`
}

// BeginRun records a new running sync for companyID.
func (s *Store) BeginRun(ctx context.Context, companyID string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Status:    RunRunning,
		StartedAt: s.timestamp(),
	}

	if _, err := s.db.NamedExecContext(ctx,
		`INSERT INTO sync_runs (id, company_id, status, started_at)
		 VALUES (:id, :company_id, :status, :started_at)`,
		run,
	); err != nil {
		return nil, fmt.Errorf("insert sync run: %w", err)
	}
	return run, nil
}

// FinishRun marks the run succeeded, or failed with runErr's message.
func (s *Store) FinishRun(ctx context.Context, runID string, runErr error) error {
	status := RunSucceeded
	var errText sql.NullString
	if runErr != nil {
		status = RunFailed
		errText = sql.NullString{String: runErr.Error(), Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE sync_runs SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		status, errText, s.timestamp(), runID,
	)
	if err != nil {
		return fmt.Errorf("update sync run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("sync run %q not found", runID)
	}
	return nil
}

// SaveState upserts the progress of one resource.
func (s *Store) SaveState(ctx context.Context, st State) error {
	st.UpdatedAt = s.timestamp()
	if _, err := s.db.NamedExecContext(ctx,
		upsertSQL("sync_state", "resource", []string{"resource", "run_id", "last_cursor", "pages", "row_count", "updated_at"}),
		st,
	); err != nil {
		return fmt.Errorf("save sync state %s: %w", st.Resource, err)
	}
	return nil
}

// LatestRun returns the most recently started run.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	var run Run
	err := s.db.GetContext(ctx, &run,
		`SELECT id, company_id, status, error, started_at, finished_at
		 FROM sync_runs ORDER BY started_at DESC, rowid DESC LIMIT 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRuns
		}
		return nil, fmt.Errorf("query latest sync run: %w", err)
	}
	return &run, nil
}

// States returns per-resource progress ordered by resource name.
func (s *Store) States(ctx context.Context) ([]State, error) {
	var states []State
	if err := s.db.SelectContext(ctx, &states,
		`SELECT resource, run_id, last_cursor, pages, row_count, updated_at
		 FROM sync_state ORDER BY resource`); err != nil {
		return nil, fmt.Errorf("query sync state: %w", err)
	}
	return states, nil
}

// Count returns the number of rows in one of Tables.
func (s *Store) Count(ctx context.Context, table string) (int, error) {
	if !slices.Contains(Tables, table) {
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
