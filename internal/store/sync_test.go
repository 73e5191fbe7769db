package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/johnwards/inflowsync/internal/store"
)

func TestBeginAndFinishRun(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if _, err := s.LatestRun(ctx); !errors.Is(err, store.ErrNoRuns) {
		t.Fatalf("latest run on empty db = %v, want ErrNoRuns", err)
	}

	run, err := s.BeginRun(ctx, "42")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if run.ID == "" {
		t.Error("expected non-empty run ID")
	}
	if run.Status != store.RunRunning {
		t.Errorf("status = %q, want %q", run.Status, store.RunRunning)
	}

	if err := s.FinishRun(ctx, run.ID, nil); err != nil {
		t.Fatalf("finish: %v", err)
	}

	latest, err := s.LatestRun(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != run.ID {
		t.Errorf("latest ID = %q, want %q", latest.ID, run.ID)
	}
	if latest.Status != store.RunSucceeded {
		t.Errorf("status = %q, want %q", latest.Status, store.RunSucceeded)
	}
	if !latest.FinishedAt.Valid {
		t.Error("expected finished_at to be set")
	}
	if latest.CompanyID != "42" {
		t.Errorf("company = %q, want 42", latest.CompanyID)
	}
}

func TestFinishRunFailed(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	run, err := s.BeginRun(ctx, "42")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.FinishRun(ctx, run.ID, errors.New("seed products: boom")); err != nil {
		t.Fatalf("finish: %v", err)
	}

	latest, err := s.LatestRun(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Status != store.RunFailed {
		t.Errorf("status = %q, want %q", latest.Status, store.RunFailed)
	}
	if latest.Error.String != "seed products: boom" {
		t.Errorf("error = %q", latest.Error.String)
	}
}

func TestFinishRunUnknown(t *testing.T) {
	s := setupStore(t)
	if err := s.FinishRun(context.Background(), "missing", nil); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestSaveState(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	run, err := s.BeginRun(ctx, "42")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	st := store.State{Resource: "products", RunID: run.ID, Pages: 1, Rows: 100, LastCursor: sql.NullString{String: "p100", Valid: true}}
	if err := s.SaveState(ctx, st); err != nil {
		t.Fatalf("save: %v", err)
	}
	st.Pages, st.Rows, st.LastCursor.String = 2, 150, "p150"
	if err := s.SaveState(ctx, st); err != nil {
		t.Fatalf("save again: %v", err)
	}
	if err := s.SaveState(ctx, store.State{Resource: "categories", RunID: run.ID}); err != nil {
		t.Fatalf("save categories: %v", err)
	}

	states, err := s.States(ctx)
	if err != nil {
		t.Fatalf("states: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("states = %d, want 2", len(states))
	}
	if states[0].Resource != "categories" || states[1].Resource != "products" {
		t.Errorf("order = %q, %q", states[0].Resource, states[1].Resource)
	}
	if states[1].Pages != 2 || states[1].Rows != 150 || states[1].LastCursor.String != "p150" {
		t.Errorf("products state = %+v", states[1])
	}
	if states[1].UpdatedAt == "" {
		t.Error("expected updated_at to be set")
	}
}
