package inflow

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// breakerThreshold must exceed the attempts of one request at the default
// retry budget.
const breakerThreshold = 2 * (DefaultMaxRetries + 1)

// NewCircuitBreaker returns a gobreaker configured to trip after
// breakerThreshold consecutive failures and reset after 30 seconds in the
// open state. Client errors other
// than rate limiting and caller cancellation do not count as failures.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerThreshold
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return true
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return !apiErr.Temporary()
			}
			return false
		},
	})
}
