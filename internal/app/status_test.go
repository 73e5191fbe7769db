package app_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/inflowsync/internal/app"
	"github.com/johnwards/inflowsync/internal/database"
	"github.com/johnwards/inflowsync/internal/inflow"
	"github.com/johnwards/inflowsync/internal/store"
)

func TestStatusMissingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "inflow.sqlite")

	err := app.Status(context.Background(), path, &bytes.Buffer{})
	require.ErrorIs(t, err, app.ErrNoDatabase)
	assert.NoDirExists(t, filepath.Dir(path))
}

func TestStatusNeverSynced(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "inflow.sqlite")
	db, err := database.Create(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	var out bytes.Buffer
	require.NoError(t, app.Status(ctx, path, &out))

	assert.Contains(t, out.String(), "Last run: never")
	assert.Regexp(t, `products\s+0`, out.String())
}

func TestStatusReportsLatestRun(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "inflow.sqlite")
	db, err := database.Create(ctx, path)
	require.NoError(t, err)

	s := store.New(db)
	run, err := s.BeginRun(ctx, "42")
	require.NoError(t, err)
	require.NoError(t, s.UpsertVendors(ctx, []inflow.Vendor{
		{VendorID: "v1", Name: "Acme"},
		{VendorID: "v2", Name: "Globex"},
	}))
	require.NoError(t, s.FinishRun(ctx, run.ID, errors.New("seed customers: boom")))
	require.NoError(t, db.Close())

	var out bytes.Buffer
	require.NoError(t, app.Status(ctx, path, &out))

	assert.Contains(t, out.String(), "Last run: "+run.ID+" (failed)")
	assert.Contains(t, out.String(), "Error: seed customers: boom")
	assert.Regexp(t, `vendors\s+2`, out.String())
	assert.Regexp(t, `customers\s+0`, out.String())
}
