// Package inflowtest provides an in-process fake of the Inflow Cloud API for
// tests. It serves GET /{companyId}/{resource} with bearer authentication,
// after/count cursor pagination and include= filtering of nested collections,
// and can inject failures per resource.
package inflowtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// idFields maps each resource to the JSON field holding its primary id.
var idFields = map[string]string{
	"categories":      "categoryId",
	"locations":       "locationId",
	"pricing-schemes": "pricingSchemeId",
	"payment-terms":   "paymentTermsId",
	"taxing-schemes":  "taxingSchemeId",
	"vendors":         "vendorId",
	"customers":       "customerId",
	"products":        "productId",
	"purchase-orders": "purchaseOrderId",
	"sales-orders":    "salesOrderId",
}

// nestedFields lists the collections that are only embedded when named in
// the include parameter.
var nestedFields = map[string][]string{
	"products":        {"inventoryLines"},
	"purchase-orders": {"lines"},
	"sales-orders":    {"lines"},
}

// Request is a recorded API call.
type Request struct {
	Resource      string
	After         string
	Count         int
	Include       string
	Authorization string
	Accept        string
}

type failure struct {
	status     int
	retryAfter string
}

// Server is a fake Inflow API backed by in-memory records.
type Server struct {
	*httptest.Server

	APIKey    string
	CompanyID string

	mu       sync.Mutex
	records  map[string][]map[string]any
	failures map[string][]failure
	requests []Request
}

// NewServer starts a fake API that accepts apiKey for companyID. It is closed
// when the test completes.
func NewServer(t testing.TB, apiKey, companyID string) *Server {
	t.Helper()

	s := &Server{
		APIKey:    apiKey,
		CompanyID: companyID,
		records:   map[string][]map[string]any{},
		failures:  map[string][]failure{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{company}/{resource}", s.handleList)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("No route found for %s %s", r.Method, r.URL.Path))
	})

	s.Server = httptest.NewServer(chain(mux,
		recovery(),
		requestID(),
		auth(apiKey),
		logging(),
	))
	t.Cleanup(s.Close)

	return s
}

// Add appends records to resource. Each record is marshalled to JSON, so
// inflow model values and plain maps both work.
func (s *Server) Add(resource string, records ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			panic(fmt.Sprintf("inflowtest: marshal %s record: %v", resource, err))
		}
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			panic(fmt.Sprintf("inflowtest: %s record is not an object: %v", resource, err))
		}
		s.records[resource] = append(s.records[resource], m)
	}
}

// FailNext makes the next n requests for resource respond with status.
// retryAfter, when non-empty, is sent as the Retry-After header.
func (s *Server) FailNext(resource string, status, n int, retryAfter string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < n; i++ {
		s.failures[resource] = append(s.failures[resource], failure{status: status, retryAfter: retryAfter})
	}
}

// Requests returns a copy of all requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// RequestsFor returns the recorded requests for one resource.
func (s *Server) RequestsFor(resource string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Resource == resource {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	resource := r.PathValue("resource")
	q := r.URL.Query()

	count := 100
	if v := q.Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, r, http.StatusBadRequest, "count must be between 1 and 100")
			return
		}
		count = n
	}

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Resource:      resource,
		After:         q.Get("after"),
		Count:         count,
		Include:       q.Get("include"),
		Authorization: r.Header.Get("Authorization"),
		Accept:        r.Header.Get("Accept"),
	})

	if queue := s.failures[resource]; len(queue) > 0 {
		f := queue[0]
		s.failures[resource] = queue[1:]
		s.mu.Unlock()
		if f.retryAfter != "" {
			w.Header().Set("Retry-After", f.retryAfter)
		}
		writeError(w, r, f.status, http.StatusText(f.status))
		return
	}

	if r.PathValue("company") != s.CompanyID {
		s.mu.Unlock()
		writeError(w, r, http.StatusForbidden, "Company not accessible with this API key")
		return
	}

	idField, ok := idFields[resource]
	if !ok {
		s.mu.Unlock()
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("Unknown resource %q", resource))
		return
	}

	page, err := s.page(resource, idField, q.Get("after"), count)
	s.mu.Unlock()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	included := strings.Split(q.Get("include"), ",")
	out := make([]map[string]any, 0, len(page))
	for _, rec := range page {
		out = append(out, withoutNested(rec, nestedFields[resource], included))
	}

	writeJSON(w, http.StatusOK, out)
}

// page returns up to count records following the record whose id is after.
// Callers must hold s.mu.
func (s *Server) page(resource, idField, after string, count int) ([]map[string]any, error) {
	all := s.records[resource]

	start := 0
	if after != "" {
		idx := slices.IndexFunc(all, func(rec map[string]any) bool {
			return fmt.Sprint(rec[idField]) == after
		})
		if idx < 0 {
			return nil, fmt.Errorf("after: no %s with id %q", resource, after)
		}
		start = idx + 1
	}

	end := min(start+count, len(all))
	return all[start:end], nil
}

func withoutNested(rec map[string]any, nested, included []string) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		if slices.Contains(nested, k) && !slices.Contains(included, k) {
			continue
		}
		out[k] = v
	}
	return out
}
