package inflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const (
	// DefaultBaseURL is the Inflow Cloud API endpoint.
	DefaultBaseURL = "https://cloudapi.inflowinventory.com"

	// APIVersion is sent in the Accept header of every request.
	APIVersion = "2024-10-01"

	// MaxPageSize is the largest count the API accepts per listing request.
	MaxPageSize = 100

	// DefaultMaxRetries is how often a failed request is retried unless
	// WithMaxRetries says otherwise.
	DefaultMaxRetries = 5

	maxRetryWait = 30 * time.Second
	maxBodyBytes = 32 << 20
)

// Errors returned by New for incomplete credentials.
var (
	ErrMissingAPIKey    = errors.New("inflow: api key is required")
	ErrMissingCompanyID = errors.New("inflow: company id is required")
)

// Credentials identify the Inflow account to read from.
type Credentials struct {
	APIKey    string
	CompanyID string
}

// Client is a read-only Inflow Cloud API client. It is safe for concurrent use.
type Client struct {
	creds      Credentials
	baseURL    string
	httpClient *http.Client
	pageSize   int
	maxRetries int
	retryWait  time.Duration
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPageSize sets the number of records requested per page, clamped to
// 1..MaxPageSize.
func WithPageSize(n int) Option {
	return func(c *Client) {
		c.pageSize = min(max(n, 1), MaxPageSize)
	}
}

// WithMaxRetries sets how many times a rate-limited or failed request is
// retried before giving up.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = max(n, 0)
	}
}

// WithRetryWait sets the base wait for exponential backoff when the server
// does not send Retry-After.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) {
		c.retryWait = d
	}
}

// WithBreaker replaces the default circuit breaker.
func WithBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) {
		c.breaker = cb
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a Client for the given credentials.
func New(creds Credentials, opts ...Option) (*Client, error) {
	if creds.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if creds.CompanyID == "" {
		return nil, ErrMissingCompanyID
	}

	c := &Client{
		creds:      creds,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		pageSize:   MaxPageSize,
		maxRetries: DefaultMaxRetries,
		retryWait:  time.Second,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = NewCircuitBreaker("inflow-api")
	}

	return c, nil
}

// CompanyID returns the company the client reads from.
func (c *Client) CompanyID() string {
	return c.creds.CompanyID
}

// PageSize returns the configured listing page size.
func (c *Client) PageSize() int {
	return c.pageSize
}

// Close releases idle connections held by the underlying transport.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// get fetches {baseURL}/{companyId}/{resource} and decodes the JSON body into
// out, retrying rate-limited and server errors.
func (c *Client) get(ctx context.Context, resource string, query url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(c.creds.CompanyID), resource)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		res, err := c.breaker.Execute(func() (any, error) {
			return c.do(ctx, endpoint)
		})
		if err == nil {
			body, _ := res.([]byte)
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decode %s: %w", resource, err)
			}
			return nil
		}

		// A rejected attempt carries no response; report the last one that did.
		if lastErr != nil && isBreakerRejection(err) {
			return fmt.Errorf("get %s: %w (%w)", resource, lastErr, err)
		}
		if !retryable(ctx, err) || attempt >= c.maxRetries {
			return fmt.Errorf("get %s: %w", resource, err)
		}
		if c.breaker.State() == gobreaker.StateOpen {
			return fmt.Errorf("get %s: %w (%w)", resource, err, gobreaker.ErrOpenState)
		}
		lastErr = err

		wait := c.backoff(attempt, err)
		c.logger.Warn("retrying inflow request",
			"resource", resource,
			"attempt", attempt+1,
			"wait", wait.String(),
			"error", err,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("get %s: %w", resource, ctx.Err())
		case <-timer.C:
		}
	}
}

// do performs a single GET and returns the response body for 2xx responses.
func (c *Client) do(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.creds.APIKey)
	req.Header.Set("Accept", "application/json;version="+APIVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp, body)
	}
	return body, nil
}

// backoff returns how long to wait before retry number attempt+1.
func (c *Client) backoff(attempt int, err error) time.Duration {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return min(apiErr.RetryAfter, maxRetryWait)
	}
	if c.retryWait <= 0 {
		return 0
	}
	wait := c.retryWait << attempt
	if wait <= 0 || wait > maxRetryWait {
		wait = maxRetryWait
	}
	return wait
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if isBreakerRejection(err) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	// Transport failures (connection reset, timeouts) are worth another try.
	return true
}

func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
