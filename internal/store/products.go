package store

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"github.com/johnwards/inflowsync/internal/inflow"
)

var inventoryLineCols = []string{"inventory_line_id", "product_id", "location_id", "sublocation", "serial", "quantity_on_hand"}

var productEntity = entity[inflow.Product]{
	table: "products",
	key:   "product_id",
	cols: []string{
		"product_id", "name", "sku", "barcode", "description", "item_type", "category_id",
		"is_active", "is_manufacturable", "timestamp",
	},
	row: func(p inflow.Product) map[string]any {
		return map[string]any{
			"product_id":        p.ProductID,
			"name":              p.Name,
			"sku":               nullable(p.SKU),
			"barcode":           nullable(p.Barcode),
			"description":       nullable(p.Description),
			"item_type":         nullable(p.ItemType),
			"category_id":       nullable(p.CategoryID),
			"is_active":         p.IsActive,
			"is_manufacturable": p.IsManufacturable,
			"timestamp":         nullable(p.Timestamp),
		}
	},
	raw:      func(p inflow.Product) json.RawMessage { return p.Raw },
	children: writeInventoryLines,
}

// writeInventoryLines replaces the stored stock of p with its current lines.
func writeInventoryLines(ctx context.Context, tx *sqlx.Tx, p inflow.Product) error {
	rows := make([]map[string]any, 0, len(p.InventoryLines))
	for _, l := range p.InventoryLines {
		qty := string(l.QuantityOnHand)
		if qty == "" {
			qty = "0"
		}
		rows = append(rows, map[string]any{
			"inventory_line_id": l.InventoryLineID,
			// Lines may omit productId when embedded under their product.
			"product_id":       p.ProductID,
			"location_id":      nullable(l.LocationID),
			"sublocation":      nullable(l.Sublocation),
			"serial":           nullable(l.Serial),
			"quantity_on_hand": qty,
		})
	}
	return replaceChildren(ctx, tx, "inventory_lines", "product_id", p.ProductID, "inventory_line_id", inventoryLineCols, rows)
}

// UpsertProducts writes products and replaces their inventory lines in one
// transaction.
func (s *Store) UpsertProducts(ctx context.Context, items []inflow.Product) error {
	return upsertAll(ctx, s, productEntity, items)
}
