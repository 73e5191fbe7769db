package inflow_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/inflowsync/internal/inflow"
	"github.com/johnwards/inflowsync/internal/inflow/inflowtest"
)

func newTestClient(t *testing.T, srv *inflowtest.Server, opts ...inflow.Option) *inflow.Client {
	t.Helper()

	opts = append([]inflow.Option{
		inflow.WithBaseURL(srv.URL),
		inflow.WithHTTPClient(srv.Client()),
		inflow.WithRetryWait(time.Millisecond),
	}, opts...)

	c, err := inflow.New(inflow.Credentials{APIKey: srv.APIKey, CompanyID: srv.CompanyID}, opts...)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := inflow.New(inflow.Credentials{CompanyID: "42"})
	assert.ErrorIs(t, err, inflow.ErrMissingAPIKey)

	_, err = inflow.New(inflow.Credentials{APIKey: "k1"})
	assert.ErrorIs(t, err, inflow.ErrMissingCompanyID)

	c, err := inflow.New(inflow.Credentials{APIKey: "k1", CompanyID: "42"})
	require.NoError(t, err)
	assert.Equal(t, "42", c.CompanyID())
	assert.Equal(t, inflow.MaxPageSize, c.PageSize())
}

func TestWithPageSizeClamps(t *testing.T) {
	creds := inflow.Credentials{APIKey: "k1", CompanyID: "42"}

	c, err := inflow.New(creds, inflow.WithPageSize(500))
	require.NoError(t, err)
	assert.Equal(t, 100, c.PageSize())

	c, err = inflow.New(creds, inflow.WithPageSize(0))
	require.NoError(t, err)
	assert.Equal(t, 1, c.PageSize())
}

func TestListSendsHeadersAndQuery(t *testing.T) {
	srv := inflowtest.NewServer(t, "k1", "42")
	srv.Add(inflow.ResourceCategories,
		inflow.Category{CategoryID: "c1", Name: "Parts"},
		inflow.Category{CategoryID: "c2", Name: "Tools", ParentCategoryID: "c1"},
	)
	c := newTestClient(t, srv, inflow.WithPageSize(25))

	cats, err := c.ListCategories(context.Background(), inflow.ListOptions{})
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Parts", cats[0].Name)
	assert.Equal(t, "c1", cats[1].ParentCategoryID)
	assert.JSONEq(t, `{"categoryId":"c1","name":"Parts","parentCategoryId":"","isDefault":false,"timestamp":""}`, string(cats[0].Raw))

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer k1", reqs[0].Authorization)
	assert.Equal(t, "application/json;version="+inflow.APIVersion, reqs[0].Accept)
	assert.Equal(t, 25, reqs[0].Count)
	assert.Empty(t, reqs[0].After)
}

func TestListIncludesNestedCollections(t *testing.T) {
	srv := inflowtest.NewServer(t, "k1", "42")
	srv.Add(inflow.ResourceProducts, inflow.Product{
		ProductID: "p1",
		Name:      "Widget",
		InventoryLines: []inflow.InventoryLine{
			{InventoryLineID: "il1", ProductID: "p1", LocationID: "l1", QuantityOnHand: "12.5"},
		},
	})
	srv.Add(inflow.ResourceSalesOrders, inflow.SalesOrder{
		SalesOrderID: "so1",
		Lines:        []inflow.SalesOrderLine{{SalesOrderLineID: "sol1", ProductID: "p1"}},
	})
	c := newTestClient(t, srv)
	ctx := context.Background()

	products, err := c.ListProducts(ctx, inflow.ListOptions{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Len(t, products[0].InventoryLines, 1)
	assert.Equal(t, inflow.Decimal("12.5"), products[0].InventoryLines[0].QuantityOnHand)

	orders, err := c.ListSalesOrders(ctx, inflow.ListOptions{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Len(t, orders[0].Lines, 1)

	// An explicit empty include drops the nested collection.
	products, err = c.ListProducts(ctx, inflow.ListOptions{Include: []string{}})
	require.NoError(t, err)
	assert.Empty(t, products[0].InventoryLines)

	assert.Equal(t, "inventoryLines", srv.RequestsFor(inflow.ResourceProducts)[0].Include)
	assert.Equal(t, "lines", srv.RequestsFor(inflow.ResourceSalesOrders)[0].Include)
}

func TestListRetriesRateLimit(t *testing.T) {
	srv := inflowtest.NewServer(t, "k1", "42")
	srv.Add(inflow.ResourceVendors, inflow.Vendor{VendorID: "v1", Name: "Acme"})
	srv.FailNext(inflow.ResourceVendors, http.StatusTooManyRequests, 2, "0")
	c := newTestClient(t, srv)

	vendors, err := c.ListVendors(context.Background(), inflow.ListOptions{})
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Len(t, srv.RequestsFor(inflow.ResourceVendors), 3)
}

func TestListRetriesServerErrors(t *testing.T) {
	srv := inflowtest.NewServer(t, "k1", "42")
	srv.Add(inflow.ResourceLocations, inflow.Location{LocationID: "l1", Name: "Main"})
	srv.FailNext(inflow.ResourceLocations, http.StatusBadGateway, 1, "")
	c := newTestClient(t, srv)

	locs, err := c.ListLocations(context.Background(), inflow.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, locs, 1)
}

func TestListGivesUpAfterMaxRetries(t *testing.T) {
	srv := inflowtest.NewServer(t, "k1", "42")
	srv.FailNext(inflow.ResourceCustomers, http.StatusServiceUnavailable, 10, "")
	c := newTestClient(t, srv, inflow.WithMaxRetries(2))

	_, err := c.ListCustomers(context.Background(), inflow.ListOptions{})
	require.Error(t, err)

	var apiErr *inflow.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.RequestID)
	assert.Len(t, srv.RequestsFor(inflow.ResourceCustomers), 3)
}

func TestListDoesNotRetryUnauthorized(t *testing.T) {
	srv := inflowtest.NewServer(t, "k1", "42")
	c, err := inflow.New(inflow.Credentials{APIKey: "wrong", CompanyID: "42"},
		inflow.WithBaseURL(srv.URL),
		inflow.WithRetryWait(time.Millisecond),
	)
	require.NoError(t, err)

	_, err = c.ListCategories(context.Background(), inflow.ListOptions{})
	require.Error(t, err)
	assert.True(t, inflow.IsUnauthorized(err))
	assert.False(t, inflow.IsRateLimited(err))
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestListForbiddenCompany(t *testing.T) {
	srv := inflowtest.NewServer(t, "k1", "42")
	c, err := inflow.New(inflow.Credentials{APIKey: "k1", CompanyID: "other"},
		inflow.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	_, err = c.ListCategories(context.Background(), inflow.ListOptions{})
	assert.True(t, inflow.IsUnauthorized(err))
}

func TestBreakerStopsRetries(t *testing.T) {
	srv := inflowtest.NewServer(t, "k1", "42")
	srv.FailNext(inflow.ResourceProducts, http.StatusInternalServerError, 20, "")

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "test",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
		Timeout: time.Minute,
	})
	c := newTestClient(t, srv, inflow.WithBreaker(cb), inflow.WithMaxRetries(10))

	_, err := c.ListProducts(context.Background(), inflow.ListOptions{})
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Len(t, srv.RequestsFor(inflow.ResourceProducts), 2)

	// The server's answer survives the open breaker.
	var apiErr *inflow.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.RequestID)
}

func TestOpenBreakerRejectsWithoutRequest(t *testing.T) {
	srv := inflowtest.NewServer(t, "k1", "42")
	srv.FailNext(inflow.ResourceVendors, http.StatusBadGateway, 20, "")

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "test", Timeout: time.Minute})
	c := newTestClient(t, srv, inflow.WithBreaker(cb), inflow.WithMaxRetries(0))

	// gobreaker's default settings open after more than five consecutive
	// failures.
	for range 6 {
		_, err := c.ListVendors(context.Background(), inflow.ListOptions{})
		require.Error(t, err)
	}
	require.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := c.ListVendors(context.Background(), inflow.ListOptions{})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Len(t, srv.RequestsFor(inflow.ResourceVendors), 6)
}

func TestDefaultRetriesOutlastDefaultBreaker(t *testing.T) {
	srv := inflowtest.NewServer(t, "k1", "42")
	srv.FailNext(inflow.ResourceCustomers, http.StatusServiceUnavailable, 10, "")
	c := newTestClient(t, srv)

	_, err := c.ListCustomers(context.Background(), inflow.ListOptions{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, gobreaker.ErrOpenState)

	var apiErr *inflow.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "503")
	assert.Len(t, srv.RequestsFor(inflow.ResourceCustomers), inflow.DefaultMaxRetries+1)
}

func TestListHonoursCancellation(t *testing.T) {
	srv := inflowtest.NewServer(t, "k1", "42")
	srv.FailNext(inflow.ResourceVendors, http.StatusTooManyRequests, 5, "10")
	c := newTestClient(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.ListVendors(ctx, inflow.ListOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDecimalAcceptsNumbersAndStrings(t *testing.T) {
	srv := inflowtest.NewServer(t, "k1", "42")
	srv.Add(inflow.ResourceTaxingSchemes,
		map[string]any{"taxingSchemeId": "t1", "name": "GST", "tax1Rate": 5.25, "tax2Rate": nil},
		map[string]any{"taxingSchemeId": "t2", "name": "VAT", "tax1Rate": "20.0"},
	)
	c := newTestClient(t, srv)

	schemes, err := c.ListTaxingSchemes(context.Background(), inflow.ListOptions{})
	require.NoError(t, err)
	require.Len(t, schemes, 2)
	assert.Equal(t, inflow.Decimal("5.25"), schemes[0].Tax1Rate)
	assert.Equal(t, inflow.Decimal(""), schemes[0].Tax2Rate)
	assert.Equal(t, inflow.Decimal("20.0"), schemes[1].Tax1Rate)
}

func ExampleClient_ListProducts() {
	c, err := inflow.New(inflow.Credentials{APIKey: "key", CompanyID: "company"})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer c.Close()

	_ = inflow.Paginate(context.Background(), c.PageSize(), c.ListProducts,
		func(p inflow.Product) string { return p.ProductID },
		func(page []inflow.Product, _ string) error {
			for _, p := range page {
				fmt.Println(p.SKU, p.Name)
			}
			return nil
		},
	)
}
