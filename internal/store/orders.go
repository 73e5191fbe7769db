package store

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"github.com/johnwards/inflowsync/internal/inflow"
)

var purchaseOrderEntity = entity[inflow.PurchaseOrder]{
	table: "purchase_orders",
	key:   "purchase_order_id",
	cols:  []string{"purchase_order_id", "order_number", "vendor_id", "location_id", "order_date", "status", "total", "timestamp"},
	row: func(o inflow.PurchaseOrder) map[string]any {
		return map[string]any{
			"purchase_order_id": o.PurchaseOrderID,
			"order_number":      nullable(o.OrderNumber),
			"vendor_id":         nullable(o.VendorID),
			"location_id":       nullable(o.LocationID),
			"order_date":        nullable(o.OrderDate),
			"status":            nullable(o.Status),
			"total":             nullable(string(o.Total)),
			"timestamp":         nullable(o.Timestamp),
		}
	},
	raw: func(o inflow.PurchaseOrder) json.RawMessage { return o.Raw },
	children: func(ctx context.Context, tx *sqlx.Tx, o inflow.PurchaseOrder) error {
		rows := make([]map[string]any, 0, len(o.Lines))
		for _, l := range o.Lines {
			rows = append(rows, orderLineRow("purchase_order_line_id", l.PurchaseOrderLineID,
				"purchase_order_id", o.PurchaseOrderID,
				l.ProductID, l.Description, l.Quantity, l.UnitPrice, l.SubTotal))
		}
		return replaceChildren(ctx, tx, "purchase_order_lines", "purchase_order_id", o.PurchaseOrderID,
			"purchase_order_line_id", orderLineCols("purchase_order_line_id", "purchase_order_id"), rows)
	},
}

var salesOrderEntity = entity[inflow.SalesOrder]{
	table: "sales_orders",
	key:   "sales_order_id",
	cols: []string{
		"sales_order_id", "order_number", "customer_id", "location_id", "order_date",
		"inventory_status", "payment_status", "total", "timestamp",
	},
	row: func(o inflow.SalesOrder) map[string]any {
		return map[string]any{
			"sales_order_id":   o.SalesOrderID,
			"order_number":     nullable(o.OrderNumber),
			"customer_id":      nullable(o.CustomerID),
			"location_id":      nullable(o.LocationID),
			"order_date":       nullable(o.OrderDate),
			"inventory_status": nullable(o.InventoryStatus),
			"payment_status":   nullable(o.PaymentStatus),
			"total":            nullable(string(o.Total)),
			"timestamp":        nullable(o.Timestamp),
		}
	},
	raw: func(o inflow.SalesOrder) json.RawMessage { return o.Raw },
	children: func(ctx context.Context, tx *sqlx.Tx, o inflow.SalesOrder) error {
		rows := make([]map[string]any, 0, len(o.Lines))
		for _, l := range o.Lines {
			rows = append(rows, orderLineRow("sales_order_line_id", l.SalesOrderLineID,
				"sales_order_id", o.SalesOrderID,
				l.ProductID, l.Description, l.Quantity, l.UnitPrice, l.SubTotal))
		}
		return replaceChildren(ctx, tx, "sales_order_lines", "sales_order_id", o.SalesOrderID,
			"sales_order_line_id", orderLineCols("sales_order_line_id", "sales_order_id"), rows)
	},
}

func orderLineCols(key, parent string) []string {
	return []string{key, parent, "product_id", "description", "quantity", "unit_price", "sub_total"}
}

// orderLineRow stores the quantity in the product's standard unit.
func orderLineRow(key, id, parent, parentID, productID, description string, qty inflow.Quantity, unitPrice, subTotal inflow.Decimal) map[string]any {
	return map[string]any{
		key:           id,
		parent:        parentID,
		"product_id":  nullable(productID),
		"description": nullable(description),
		"quantity":    nullable(string(qty.StandardQuantity)),
		"unit_price":  nullable(string(unitPrice)),
		"sub_total":   nullable(string(subTotal)),
	}
}

// UpsertPurchaseOrders writes purchase orders and replaces their lines in one
// transaction.
func (s *Store) UpsertPurchaseOrders(ctx context.Context, items []inflow.PurchaseOrder) error {
	return upsertAll(ctx, s, purchaseOrderEntity, items)
}

// UpsertSalesOrders writes sales orders and replaces their lines in one
// transaction.
func (s *Store) UpsertSalesOrders(ctx context.Context, items []inflow.SalesOrder) error {
	return upsertAll(ctx, s, salesOrderEntity, items)
}
