package store

import (
	"context"
	"encoding/json"

	"github.com/johnwards/inflowsync/internal/inflow"
)

var categoryEntity = entity[inflow.Category]{
	table: "categories",
	key:   "category_id",
	cols:  []string{"category_id", "name", "parent_category_id", "is_default", "timestamp"},
	row: func(c inflow.Category) map[string]any {
		return map[string]any{
			"category_id":        c.CategoryID,
			"name":               c.Name,
			"parent_category_id": nullable(c.ParentCategoryID),
			"is_default":         c.IsDefault,
			"timestamp":          nullable(c.Timestamp),
		}
	},
	raw: func(c inflow.Category) json.RawMessage { return c.Raw },
}

var locationEntity = entity[inflow.Location]{
	table: "locations",
	key:   "location_id",
	cols:  []string{"location_id", "name", "abbreviation", "is_active", "is_default", "timestamp"},
	row: func(l inflow.Location) map[string]any {
		return map[string]any{
			"location_id":  l.LocationID,
			"name":         l.Name,
			"abbreviation": nullable(l.Abbreviation),
			"is_active":    l.IsActive,
			"is_default":   l.IsDefault,
			"timestamp":    nullable(l.Timestamp),
		}
	},
	raw: func(l inflow.Location) json.RawMessage { return l.Raw },
}

var pricingSchemeEntity = entity[inflow.PricingScheme]{
	table: "pricing_schemes",
	key:   "pricing_scheme_id",
	cols:  []string{"pricing_scheme_id", "name", "currency_id", "is_active", "is_default", "is_tax_inclusive", "timestamp"},
	row: func(p inflow.PricingScheme) map[string]any {
		return map[string]any{
			"pricing_scheme_id": p.PricingSchemeID,
			"name":              p.Name,
			"currency_id":       nullable(p.CurrencyID),
			"is_active":         p.IsActive,
			"is_default":        p.IsDefault,
			"is_tax_inclusive":  p.IsTaxInclusive,
			"timestamp":         nullable(p.Timestamp),
		}
	},
	raw: func(p inflow.PricingScheme) json.RawMessage { return p.Raw },
}

var paymentTermsEntity = entity[inflow.PaymentTerms]{
	table: "payment_terms",
	key:   "payment_terms_id",
	cols:  []string{"payment_terms_id", "name", "days_due", "is_active", "timestamp"},
	row: func(p inflow.PaymentTerms) map[string]any {
		var daysDue any
		if p.DaysDue != nil {
			daysDue = *p.DaysDue
		}
		return map[string]any{
			"payment_terms_id": p.PaymentTermsID,
			"name":             p.Name,
			"days_due":         daysDue,
			"is_active":        p.IsActive,
			"timestamp":        nullable(p.Timestamp),
		}
	},
	raw: func(p inflow.PaymentTerms) json.RawMessage { return p.Raw },
}

var taxingSchemeEntity = entity[inflow.TaxingScheme]{
	table: "taxing_schemes",
	key:   "taxing_scheme_id",
	cols:  []string{"taxing_scheme_id", "name", "tax1_name", "tax1_rate", "tax2_name", "tax2_rate", "is_active", "is_default", "timestamp"},
	row: func(t inflow.TaxingScheme) map[string]any {
		return map[string]any{
			"taxing_scheme_id": t.TaxingSchemeID,
			"name":             t.Name,
			"tax1_name":        nullable(t.Tax1Name),
			"tax1_rate":        nullable(string(t.Tax1Rate)),
			"tax2_name":        nullable(t.Tax2Name),
			"tax2_rate":        nullable(string(t.Tax2Rate)),
			"is_active":        t.IsActive,
			"is_default":       t.IsDefault,
			"timestamp":        nullable(t.Timestamp),
		}
	},
	raw: func(t inflow.TaxingScheme) json.RawMessage { return t.Raw },
}

// UpsertCategories writes categories in one transaction.
func (s *Store) UpsertCategories(ctx context.Context, items []inflow.Category) error {
	return upsertAll(ctx, s, categoryEntity, items)
}

// UpsertLocations writes locations in one transaction.
func (s *Store) UpsertLocations(ctx context.Context, items []inflow.Location) error {
	return upsertAll(ctx, s, locationEntity, items)
}

// UpsertPricingSchemes writes pricing schemes in one transaction.
func (s *Store) UpsertPricingSchemes(ctx context.Context, items []inflow.PricingScheme) error {
	return upsertAll(ctx, s, pricingSchemeEntity, items)
}

// UpsertPaymentTerms writes payment terms in one transaction.
func (s *Store) UpsertPaymentTerms(ctx context.Context, items []inflow.PaymentTerms) error {
	return upsertAll(ctx, s, paymentTermsEntity, items)
}

// UpsertTaxingSchemes writes taxing schemes in one transaction.
func (s *Store) UpsertTaxingSchemes(ctx context.Context, items []inflow.TaxingScheme) error {
	return upsertAll(ctx, s, taxingSchemeEntity, items)
}
