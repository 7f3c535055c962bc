package branchsync

import (
	"context"
	"time"

	"github.com/dakkemarket/branchsync/internal/holoo"
	"github.com/dakkemarket/branchsync/internal/transport"
	"github.com/dakkemarket/branchsync/pkg/apply"
	"github.com/dakkemarket/branchsync/pkg/branches"
	"github.com/dakkemarket/branchsync/pkg/catalog"
)

// BranchClient is the per-branch network surface the syncer depends on.
// The production implementation is the Holoo middleware client; tests swap
// in fakes.
type BranchClient interface {
	// CheckHealth probes the branch and returns its typed health state.
	CheckHealth(ctx context.Context) branches.HealthStatus

	// Articles fetches the branch's article snapshot. An error is distinct
	// from an empty result.
	Articles(ctx context.Context, search string, limit int) ([]catalog.Article, error)

	// Groups fetches the branch's product groups.
	Groups(ctx context.Context) ([]catalog.Group, error)

	// BatchUpdate dispatches all items for this branch in one call.
	BatchUpdate(ctx context.Context, items []apply.Item) (apply.Summary, error)
}

// ClientConfig carries the construction-time settings a ClientFunc may need.
type ClientConfig struct {
	APIKey     string
	Timeout    time.Duration
	RetryCount int
	Backoff    time.Duration
}

// ClientFunc builds the client for one branch at construction time.
type ClientFunc func(b *branches.Branch, cfg ClientConfig) BranchClient

// newHolooClient is the default ClientFunc.
func newHolooClient(b *branches.Branch, cfg ClientConfig) BranchClient {
	retry := transport.RetryPolicy{
		MaxAttempts: cfg.RetryCount,
		Backoff:     cfg.Backoff,
	}
	return holoo.NewClient(b, cfg.APIKey, cfg.Timeout, retry)
}
