package transport

import (
	"context"
	"time"

	"github.com/dakkemarket/branchsync/pkg/constants"
)

// SleepFunc waits for the given duration or until the context is done.
// Injectable so retry behavior is unit-testable without real delays.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryPolicy bounds retries of transport-level failures. Only connection
// failures and timeouts are retried; a well-formed response from the server
// is the authoritative answer and is never retried.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Backoff is the fixed delay between attempts.
	Backoff time.Duration
	// Sleep performs the inter-attempt wait. Defaults to a context-aware
	// timer sleep.
	Sleep SleepFunc
}

// DefaultRetryPolicy returns the standard policy: three attempts with a fixed
// one-second backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: constants.DefaultRetryCount,
		Backoff:     constants.RetryBackoff,
	}
}

// normalize fills zero values with defaults.
func (p RetryPolicy) normalize() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Sleep == nil {
		p.Sleep = sleepContext
	}
	return p
}

// sleepContext waits for d, returning early if the context is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
