package seed

import (
	"context"
	"database/sql"

	"github.com/johnwards/inflowsync/internal/inflow"
)

// Resources lists the Inflow resources in the order SeedAll visits them.
var Resources = []string{
	inflow.ResourceCategories,
	inflow.ResourceLocations,
	inflow.ResourcePricingSchemes,
	inflow.ResourcePaymentTerms,
	inflow.ResourceTaxingSchemes,
	inflow.ResourceVendors,
	inflow.ResourceCustomers,
	inflow.ResourceProducts,
	inflow.ResourcePurchaseOrders,
	inflow.ResourceSalesOrders,
}

type progressFunc func(rows int, cursor string) error

type step struct {
	resource string
	run      func(ctx context.Context, pageSize int, progress progressFunc) error
}

// steps binds each resource's listing to its upsert. The order must match
// Resources.
func steps(dst Target, src Source) []step {
	return []step{
		{inflow.ResourceCategories, func(ctx context.Context, n int, p progressFunc) error {
			return copyPages(ctx, n, src.ListCategories, func(c inflow.Category) string { return c.CategoryID }, dst.UpsertCategories, p)
		}},
		{inflow.ResourceLocations, func(ctx context.Context, n int, p progressFunc) error {
			return copyPages(ctx, n, src.ListLocations, func(l inflow.Location) string { return l.LocationID }, dst.UpsertLocations, p)
		}},
		{inflow.ResourcePricingSchemes, func(ctx context.Context, n int, p progressFunc) error {
			return copyPages(ctx, n, src.ListPricingSchemes, func(s inflow.PricingScheme) string { return s.PricingSchemeID }, dst.UpsertPricingSchemes, p)
		}},
		{inflow.ResourcePaymentTerms, func(ctx context.Context, n int, p progressFunc) error {
			return copyPages(ctx, n, src.ListPaymentTerms, func(t inflow.PaymentTerms) string { return t.PaymentTermsID }, dst.UpsertPaymentTerms, p)
		}},
		{inflow.ResourceTaxingSchemes, func(ctx context.Context, n int, p progressFunc) error {
			return copyPages(ctx, n, src.ListTaxingSchemes, func(s inflow.TaxingScheme) string { return s.TaxingSchemeID }, dst.UpsertTaxingSchemes, p)
		}},
		{inflow.ResourceVendors, func(ctx context.Context, n int, p progressFunc) error {
			return copyPages(ctx, n, src.ListVendors, func(v inflow.Vendor) string { return v.VendorID }, dst.UpsertVendors, p)
		}},
		{inflow.ResourceCustomers, func(ctx context.Context, n int, p progressFunc) error {
			return copyPages(ctx, n, src.ListCustomers, func(c inflow.Customer) string { return c.CustomerID }, dst.UpsertCustomers, p)
		}},
		{inflow.ResourceProducts, func(ctx context.Context, n int, p progressFunc) error {
			return copyPages(ctx, n, src.ListProducts, func(pr inflow.Product) string { return pr.ProductID }, dst.UpsertProducts, p)
		}},
		{inflow.ResourcePurchaseOrders, func(ctx context.Context, n int, p progressFunc) error {
			return copyPages(ctx, n, src.ListPurchaseOrders, func(o inflow.PurchaseOrder) string { return o.PurchaseOrderID }, dst.UpsertPurchaseOrders, p)
		}},
		{inflow.ResourceSalesOrders, func(ctx context.Context, n int, p progressFunc) error {
			return copyPages(ctx, n, src.ListSalesOrders, func(o inflow.SalesOrder) string { return o.SalesOrderID }, dst.UpsertSalesOrders, p)
		}},
	}
}

// copyPages pages through fetch and writes every page before asking for the
// next one.
func copyPages[T any](
	ctx context.Context,
	pageSize int,
	fetch inflow.PageFunc[T],
	id func(T) string,
	write func(context.Context, []T) error,
	progress progressFunc,
) error {
	return inflow.Paginate(ctx, pageSize, fetch, id, func(page []T, cursor string) error {
		if err := write(ctx, page); err != nil {
			return err
		}
		return progress(len(page), cursor)
	})
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
