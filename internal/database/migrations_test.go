package database_test

import (
	"context"
	"testing"

	"github.com/johnwards/inflowsync/internal/database"
	"github.com/johnwards/inflowsync/internal/testhelpers"
)

func TestMigrationsCreateAllTables(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)

	tables := []string{
		"schema_migrations",
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
		"sync_runs",
		"sync_state",
	}

	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := database.Migrate(ctx, db); err != nil {
			t.Fatalf("migrate (run %d): %v", i+1, err)
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 4 {
		t.Errorf("applied migrations = %d, want 4", count)
	}

	version, err := database.Version(ctx, db)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != 4 {
		t.Errorf("version = %d, want 4", version)
	}
}

func TestMigrationsIndexes(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)

	indexes := []string{
		"idx_categories_parent",
		"idx_products_sku",
		"idx_products_category",
		"idx_inventory_lines_product",
		"idx_inventory_lines_location",
		"idx_purchase_order_lines_order",
		"idx_sales_order_lines_order",
		"idx_sync_runs_started",
	}

	for _, idx := range indexes {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&name)
		if err != nil {
			t.Errorf("index %q not found: %v", idx, err)
		}
	}
}

func TestInventoryLinesCascade(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)

	stmts := []string{
		`INSERT INTO products (product_id, name, raw, synced_at) VALUES ('p1', 'Widget', '{}', 'now')`,
		`INSERT INTO inventory_lines (inventory_line_id, product_id, quantity_on_hand) VALUES ('l1', 'p1', '5')`,
		`DELETE FROM products WHERE product_id = 'p1'`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM inventory_lines").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("inventory_lines = %d, want 0 after product delete", count)
	}
}
