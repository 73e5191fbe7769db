package database

// migrations is an ordered list of SQL migration groups. Each entry is a slice
// of SQL statements that are executed together in a single transaction. The
// version number is the 1-based index into this slice.
//
// Entity tables are keyed on the Inflow id and keep the payload as received in
// raw. References between entities are plain columns: Inflow returns ids of
// records that may be deactivated or outside the synced set.
var migrations = [][]string{
	// Migration 1: reference data
	{
		`CREATE TABLE categories (
			category_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			parent_category_id TEXT,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			timestamp TEXT,
			raw TEXT NOT NULL,
			synced_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_categories_parent ON categories(parent_category_id)`,

		`CREATE TABLE locations (
			location_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			abbreviation TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			timestamp TEXT,
			raw TEXT NOT NULL,
			synced_at TEXT NOT NULL
		)`,

		`CREATE TABLE pricing_schemes (
			pricing_scheme_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			currency_id TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			is_tax_inclusive BOOLEAN NOT NULL DEFAULT FALSE,
			timestamp TEXT,
			raw TEXT NOT NULL,
			synced_at TEXT NOT NULL
		)`,

		`CREATE TABLE payment_terms (
			payment_terms_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			days_due INTEGER,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			timestamp TEXT,
			raw TEXT NOT NULL,
			synced_at TEXT NOT NULL
		)`,

		`CREATE TABLE taxing_schemes (
			taxing_scheme_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			tax1_name TEXT,
			tax1_rate TEXT,
			tax2_name TEXT,
			tax2_rate TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			timestamp TEXT,
			raw TEXT NOT NULL,
			synced_at TEXT NOT NULL
		)`,
	},

	// Migration 2: contacts and catalog
	{
		`CREATE TABLE vendors (
			vendor_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			contact_name TEXT,
			email TEXT,
			phone TEXT,
			currency_id TEXT,
			payment_terms_id TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			timestamp TEXT,
			raw TEXT NOT NULL,
			synced_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_vendors_name ON vendors(name)`,

		`CREATE TABLE customers (
			customer_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			contact_name TEXT,
			email TEXT,
			phone TEXT,
			pricing_scheme_id TEXT,
			payment_terms_id TEXT,
			taxing_scheme_id TEXT,
			default_location_id TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			timestamp TEXT,
			raw TEXT NOT NULL,
			synced_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_customers_name ON customers(name)`,

		`CREATE TABLE products (
			product_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			sku TEXT,
			barcode TEXT,
			description TEXT,
			item_type TEXT,
			category_id TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_manufacturable BOOLEAN NOT NULL DEFAULT FALSE,
			timestamp TEXT,
			raw TEXT NOT NULL,
			synced_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_products_sku ON products(sku)`,
		`CREATE INDEX idx_products_category ON products(category_id)`,

		`CREATE TABLE inventory_lines (
			inventory_line_id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL,
			location_id TEXT,
			sublocation TEXT,
			serial TEXT,
			quantity_on_hand TEXT NOT NULL DEFAULT '0',
			FOREIGN KEY (product_id) REFERENCES products(product_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX idx_inventory_lines_product ON inventory_lines(product_id)`,
		`CREATE INDEX idx_inventory_lines_location ON inventory_lines(location_id)`,
	},

	// Migration 3: orders
	{
		`CREATE TABLE purchase_orders (
			purchase_order_id TEXT PRIMARY KEY,
			order_number TEXT,
			vendor_id TEXT,
			location_id TEXT,
			order_date TEXT,
			status TEXT,
			total TEXT,
			timestamp TEXT,
			raw TEXT NOT NULL,
			synced_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_purchase_orders_vendor ON purchase_orders(vendor_id)`,

		`CREATE TABLE purchase_order_lines (
			purchase_order_line_id TEXT PRIMARY KEY,
			purchase_order_id TEXT NOT NULL,
			product_id TEXT,
			description TEXT,
			quantity TEXT,
			unit_price TEXT,
			sub_total TEXT,
			FOREIGN KEY (purchase_order_id) REFERENCES purchase_orders(purchase_order_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX idx_purchase_order_lines_order ON purchase_order_lines(purchase_order_id)`,

		`CREATE TABLE sales_orders (
			sales_order_id TEXT PRIMARY KEY,
			order_number TEXT,
			customer_id TEXT,
			location_id TEXT,
			order_date TEXT,
			inventory_status TEXT,
			payment_status TEXT,
			total TEXT,
			timestamp TEXT,
			raw TEXT NOT NULL,
			synced_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_sales_orders_customer ON sales_orders(customer_id)`,

		`CREATE TABLE sales_order_lines (
			sales_order_line_id TEXT PRIMARY KEY,
			sales_order_id TEXT NOT NULL,
			product_id TEXT,
			description TEXT,
			quantity TEXT,
			unit_price TEXT,
			sub_total TEXT,
			FOREIGN KEY (sales_order_id) REFERENCES sales_orders(sales_order_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX idx_sales_order_lines_order ON sales_order_lines(sales_order_id)`,
	},

	// Migration 4: sync bookkeeping
	{
		`CREATE TABLE sync_runs (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT
		)`,
		`CREATE INDEX idx_sync_runs_started ON sync_runs(started_at)`,

		`CREATE TABLE sync_state (
			resource TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			last_cursor TEXT,
			pages INTEGER NOT NULL DEFAULT 0,
			row_count INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (run_id) REFERENCES sync_runs(id)
		)`,
	},
}
