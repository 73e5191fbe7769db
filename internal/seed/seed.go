package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/johnwards/inflowsync/internal/inflow"
	"github.com/johnwards/inflowsync/internal/store"
)

// Source is the read side of a seeding pass. *inflow.Client implements it.
type Source interface {
	CompanyID() string
	PageSize() int
	ListCategories(ctx context.Context, opts inflow.ListOptions) ([]inflow.Category, error)
	ListLocations(ctx context.Context, opts inflow.ListOptions) ([]inflow.Location, error)
	ListPricingSchemes(ctx context.Context, opts inflow.ListOptions) ([]inflow.PricingScheme, error)
	ListPaymentTerms(ctx context.Context, opts inflow.ListOptions) ([]inflow.PaymentTerms, error)
	ListTaxingSchemes(ctx context.Context, opts inflow.ListOptions) ([]inflow.TaxingScheme, error)
	ListVendors(ctx context.Context, opts inflow.ListOptions) ([]inflow.Vendor, error)
	ListCustomers(ctx context.Context, opts inflow.ListOptions) ([]inflow.Customer, error)
	ListProducts(ctx context.Context, opts inflow.ListOptions) ([]inflow.Product, error)
	ListPurchaseOrders(ctx context.Context, opts inflow.ListOptions) ([]inflow.PurchaseOrder, error)
	ListSalesOrders(ctx context.Context, opts inflow.ListOptions) ([]inflow.SalesOrder, error)
}

// Target is the write side of a seeding pass. *store.Store implements it.
type Target interface {
	BeginRun(ctx context.Context, companyID string) (*store.Run, error)
	FinishRun(ctx context.Context, runID string, runErr error) error
	SaveState(ctx context.Context, st store.State) error
	UpsertCategories(ctx context.Context, items []inflow.Category) error
	UpsertLocations(ctx context.Context, items []inflow.Location) error
	UpsertPricingSchemes(ctx context.Context, items []inflow.PricingScheme) error
	UpsertPaymentTerms(ctx context.Context, items []inflow.PaymentTerms) error
	UpsertTaxingSchemes(ctx context.Context, items []inflow.TaxingScheme) error
	UpsertVendors(ctx context.Context, items []inflow.Vendor) error
	UpsertCustomers(ctx context.Context, items []inflow.Customer) error
	UpsertProducts(ctx context.Context, items []inflow.Product) error
	UpsertPurchaseOrders(ctx context.Context, items []inflow.PurchaseOrder) error
	UpsertSalesOrders(ctx context.Context, items []inflow.SalesOrder) error
}

var (
	_ Source = (*inflow.Client)(nil)
	_ Target = (*store.Store)(nil)
)

// ResourceResult counts what was written for one resource.
type ResourceResult struct {
	Name  string
	Pages int
	Rows  int
}

// Result summarizes a seeding pass.
type Result struct {
	RunID     string
	Resources []ResourceResult
}

// Total returns the number of top-level records written.
func (r *Result) Total() int {
	n := 0
	for _, rr := range r.Resources {
		n += rr.Rows
	}
	return n
}

// SeedAll copies every supported resource from src into dst. Resources are
// seeded in dependency order: reference data, then contacts, then products,
// then orders. Each page is committed on its own, so a failure leaves the
// pages already written in place; the run is recorded as failed and the
// error names the resource that failed.
func SeedAll(ctx context.Context, dst Target, src Source) (*Result, error) {
	run, err := dst.BeginRun(ctx, src.CompanyID())
	if err != nil {
		return nil, fmt.Errorf("begin sync run: %w", err)
	}

	result := &Result{RunID: run.ID}
	seedErr := seedSteps(ctx, dst, src, run.ID, result)

	// Record the outcome even when ctx was cancelled mid-run.
	if err := dst.FinishRun(context.WithoutCancel(ctx), run.ID, seedErr); err != nil {
		if seedErr == nil {
			return result, fmt.Errorf("finish sync run: %w", err)
		}
		slog.Warn("failed to record sync run outcome", "run", run.ID, "error", err)
	}

	if seedErr != nil {
		return result, seedErr
	}

	slog.Info("seed complete", "run", run.ID, "rows", result.Total())
	return result, nil
}

func seedSteps(ctx context.Context, dst Target, src Source, runID string, result *Result) error {
	pageSize := src.PageSize()

	for _, st := range steps(dst, src) {
		rr := ResourceResult{Name: st.resource}

		progress := func(rows int, cursor string) error {
			rr.Pages++
			rr.Rows += rows
			slog.Debug("seeded page", "resource", st.resource, "page", rr.Pages, "rows", rows)
			return dst.SaveState(ctx, store.State{
				Resource:   st.resource,
				RunID:      runID,
				LastCursor: nullString(cursor),
				Pages:      rr.Pages,
				Rows:       rr.Rows,
			})
		}

		err := st.run(ctx, pageSize, progress)
		result.Resources = append(result.Resources, rr)
		if err != nil {
			return fmt.Errorf("seed %s: %w", st.resource, err)
		}

		slog.Info("seeded resource", "resource", st.resource, "pages", rr.Pages, "rows", rr.Rows)
	}
	return nil
}
