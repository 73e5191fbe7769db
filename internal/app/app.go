// Package app runs the one-shot Inflow bootstrap: validate credentials,
// create the local database, create the API client, and seed the database
// from the API.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/johnwards/inflowsync/internal/config"
	"github.com/johnwards/inflowsync/internal/database"
	"github.com/johnwards/inflowsync/internal/inflow"
	"github.com/johnwards/inflowsync/internal/seed"
	"github.com/johnwards/inflowsync/internal/store"
)

// Deps are the collaborators Run sequences. Tests substitute them.
type Deps struct {
	CreateDB     func(ctx context.Context, path string) (*sql.DB, error)
	CreateClient func(creds inflow.Credentials, opts ...inflow.Option) (*inflow.Client, error)
	SeedAll      func(ctx context.Context, dst seed.Target, src seed.Source) (*seed.Result, error)

	Stdout io.Writer
	Stderr io.Writer
}

// DefaultDeps wires the real database, API client and seeder.
func DefaultDeps(stdout, stderr io.Writer) Deps {
	return Deps{
		CreateDB:     database.Create,
		CreateClient: inflow.New,
		SeedAll:      seed.SeedAll,
		Stdout:       stdout,
		Stderr:       stderr,
	}
}

// Run performs one bootstrap and returns the process exit code. environ is
// the complete environment to read configuration from.
func Run(ctx context.Context, environ map[string]string, deps Deps) int {
	if err := config.RequireCredentials(environ); err != nil {
		fmt.Fprintln(deps.Stderr, err)
		return 1
	}

	cfg, err := config.Load(environ)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintln(deps.Stderr, err)
		return 1
	}

	if err := bootstrap(ctx, cfg, deps); err != nil {
		fmt.Fprintln(deps.Stderr, "Sync failed:", err)
		return 1
	}
	return 0
}

func bootstrap(ctx context.Context, cfg config.Config, deps Deps) error {
	out := deps.Stdout

	fmt.Fprintln(out, "Creating database at", cfg.DBPath)
	db, err := deps.CreateDB(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Warn("close database", "path", cfg.DBPath, "error", err)
		}
	}()

	fmt.Fprintln(out, "Creating Inflow client...")
	client, err := deps.CreateClient(
		inflow.Credentials{APIKey: cfg.APIKey, CompanyID: cfg.CompanyID},
		clientOptions(cfg)...,
	)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer client.Close()

	fmt.Fprintln(out, "Seeding database from Inflow API...")
	result, err := deps.SeedAll(ctx, store.New(db), client)
	if err != nil {
		return err
	}

	if result != nil {
		fmt.Fprintf(out, "Seeded %d records across %d resources\n", result.Total(), len(result.Resources))
	}
	fmt.Fprintln(out, "Done! Database seeded at", cfg.DBPath)
	return nil
}

func clientOptions(cfg config.Config) []inflow.Option {
	return []inflow.Option{
		inflow.WithBaseURL(cfg.BaseURL),
		inflow.WithPageSize(cfg.PageSize),
		inflow.WithMaxRetries(cfg.MaxRetries),
		inflow.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		inflow.WithLogger(slog.Default()),
	}
}
