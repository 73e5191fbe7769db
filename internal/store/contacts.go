package store

import (
	"context"
	"encoding/json"

	"github.com/johnwards/inflowsync/internal/inflow"
)

var vendorEntity = entity[inflow.Vendor]{
	table: "vendors",
	key:   "vendor_id",
	cols:  []string{"vendor_id", "name", "contact_name", "email", "phone", "currency_id", "payment_terms_id", "is_active", "timestamp"},
	row: func(v inflow.Vendor) map[string]any {
		return map[string]any{
			"vendor_id":        v.VendorID,
			"name":             v.Name,
			"contact_name":     nullable(v.ContactName),
			"email":            nullable(v.Email),
			"phone":            nullable(v.Phone),
			"currency_id":      nullable(v.CurrencyID),
			"payment_terms_id": nullable(v.PaymentTermsID),
			"is_active":        v.IsActive,
			"timestamp":        nullable(v.Timestamp),
		}
	},
	raw: func(v inflow.Vendor) json.RawMessage { return v.Raw },
}

var customerEntity = entity[inflow.Customer]{
	table: "customers",
	key:   "customer_id",
	cols: []string{
		"customer_id", "name", "contact_name", "email", "phone",
		"pricing_scheme_id", "payment_terms_id", "taxing_scheme_id", "default_location_id",
		"is_active", "timestamp",
	},
	row: func(c inflow.Customer) map[string]any {
		return map[string]any{
			"customer_id":         c.CustomerID,
			"name":                c.Name,
			"contact_name":        nullable(c.ContactName),
			"email":               nullable(c.Email),
			"phone":               nullable(c.Phone),
			"pricing_scheme_id":   nullable(c.PricingSchemeID),
			"payment_terms_id":    nullable(c.PaymentTermsID),
			"taxing_scheme_id":    nullable(c.TaxingSchemeID),
			"default_location_id": nullable(c.DefaultLocationID),
			"is_active":           c.IsActive,
			"timestamp":           nullable(c.Timestamp),
		}
	},
	raw: func(c inflow.Customer) json.RawMessage { return c.Raw },
}

// UpsertVendors writes vendors in one transaction.
func (s *Store) UpsertVendors(ctx context.Context, items []inflow.Vendor) error {
	return upsertAll(ctx, s, vendorEntity, items)
}

// UpsertCustomers writes customers in one transaction.
func (s *Store) UpsertCustomers(ctx context.Context, items []inflow.Customer) error {
	return upsertAll(ctx, s, customerEntity, items)
}
