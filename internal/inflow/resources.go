package inflow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Resource paths relative to /{companyId}.
const (
	ResourceCategories     = "categories"
	ResourceLocations      = "locations"
	ResourcePricingSchemes = "pricing-schemes"
	ResourcePaymentTerms   = "payment-terms"
	ResourceTaxingSchemes  = "taxing-schemes"
	ResourceVendors        = "vendors"
	ResourceCustomers      = "customers"
	ResourceProducts       = "products"
	ResourcePurchaseOrders = "purchase-orders"
	ResourceSalesOrders    = "sales-orders"
)

// ListOptions selects one page of a listing.
type ListOptions struct {
	// After is the id of the last record of the previous page.
	After string
	// Count is the page size; zero uses the client default.
	Count int
	// Include names nested collections to embed, e.g. "lines".
	Include []string
}

func (o ListOptions) values(defaultCount int) url.Values {
	q := url.Values{}
	count := o.Count
	if count <= 0 {
		count = defaultCount
	}
	q.Set("count", strconv.Itoa(count))
	if o.After != "" {
		q.Set("after", o.After)
	}
	if len(o.Include) > 0 {
		q.Set("include", strings.Join(o.Include, ","))
	}
	return q
}

func withInclude(opts ListOptions, include ...string) ListOptions {
	if opts.Include == nil {
		opts.Include = include
	}
	return opts
}

type rawRecord[T any] interface {
	*T
	setRaw(json.RawMessage)
}

// list fetches one page of resource, keeping each record's raw JSON.
func list[T any, PT rawRecord[T]](ctx context.Context, c *Client, resource string, opts ListOptions) ([]T, error) {
	var raws []json.RawMessage
	if err := c.get(ctx, resource, opts.values(c.pageSize), &raws); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s record %d: %w", resource, i, err)
		}
		PT(&v).setRaw(raw)
		out = append(out, v)
	}
	return out, nil
}

// ListCategories returns one page of product categories.
func (c *Client) ListCategories(ctx context.Context, opts ListOptions) ([]Category, error) {
	return list[Category](ctx, c, ResourceCategories, opts)
}

// ListLocations returns one page of stock locations.
func (c *Client) ListLocations(ctx context.Context, opts ListOptions) ([]Location, error) {
	return list[Location](ctx, c, ResourceLocations, opts)
}

// ListPricingSchemes returns one page of pricing schemes.
func (c *Client) ListPricingSchemes(ctx context.Context, opts ListOptions) ([]PricingScheme, error) {
	return list[PricingScheme](ctx, c, ResourcePricingSchemes, opts)
}

// ListPaymentTerms returns one page of payment terms.
func (c *Client) ListPaymentTerms(ctx context.Context, opts ListOptions) ([]PaymentTerms, error) {
	return list[PaymentTerms](ctx, c, ResourcePaymentTerms, opts)
}

// ListTaxingSchemes returns one page of taxing schemes.
func (c *Client) ListTaxingSchemes(ctx context.Context, opts ListOptions) ([]TaxingScheme, error) {
	return list[TaxingScheme](ctx, c, ResourceTaxingSchemes, opts)
}

// ListVendors returns one page of vendors.
func (c *Client) ListVendors(ctx context.Context, opts ListOptions) ([]Vendor, error) {
	return list[Vendor](ctx, c, ResourceVendors, opts)
}

// ListCustomers returns one page of customers.
func (c *Client) ListCustomers(ctx context.Context, opts ListOptions) ([]Customer, error) {
	return list[Customer](ctx, c, ResourceCustomers, opts)
}

// ListProducts returns one page of products. Inventory lines are embedded
// unless opts.Include says otherwise.
func (c *Client) ListProducts(ctx context.Context, opts ListOptions) ([]Product, error) {
	return list[Product](ctx, c, ResourceProducts, withInclude(opts, "inventoryLines"))
}

// ListPurchaseOrders returns one page of purchase orders with their lines.
func (c *Client) ListPurchaseOrders(ctx context.Context, opts ListOptions) ([]PurchaseOrder, error) {
	return list[PurchaseOrder](ctx, c, ResourcePurchaseOrders, withInclude(opts, "lines"))
}

// ListSalesOrders returns one page of sales orders with their lines.
func (c *Client) ListSalesOrders(ctx context.Context, opts ListOptions) ([]SalesOrder, error) {
	return list[SalesOrder](ctx, c, ResourceSalesOrders, withInclude(opts, "lines"))
}
