// Package branchsync synchronizes product-catalog data across independently
// operated retail-branch databases, each reachable only through a per-branch
// HTTP middleware service.
//
// The Syncer owns the branch registry and a client per branch. One cycle
// flows in a single direction: fetch per-branch snapshots, reconcile them
// into a comparable view, collect operator-approved corrections in the change
// ledger, dispatch them back per branch, then refetch.
//
// Example usage:
//
//	s, err := branchsync.New(cfg)
//	if err != nil {
//	    return err
//	}
//	s.CheckAll(ctx)
//	s.FetchAll(ctx, "", 0)
//	result := s.Reconcile(reconcile.WithDimension(reconcile.DimensionPrice))
package branchsync

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dakkemarket/branchsync/pkg/apply"
	"github.com/dakkemarket/branchsync/pkg/branches"
	"github.com/dakkemarket/branchsync/pkg/catalog"
	"github.com/dakkemarket/branchsync/pkg/errors"
	"github.com/dakkemarket/branchsync/pkg/ledger"
	"github.com/dakkemarket/branchsync/pkg/logging"
	"github.com/dakkemarket/branchsync/pkg/reconcile"
)

// Syncer coordinates health checks, fetches, reconciliation, and apply cycles
// across the configured branches.
type Syncer interface {
	// Registry returns the branch registry.
	Registry() *branches.Registry

	// Ledger returns the pending-change ledger.
	Ledger() *ledger.Ledger

	// CheckAll probes every branch and records each health status.
	CheckAll(ctx context.Context) map[string]branches.HealthStatus

	// FetchAll fetches article snapshots from all enabled branches.
	FetchAll(ctx context.Context, search string, limit int) FetchSummary

	// Reconcile runs a reconciliation pass over the current snapshots.
	Reconcile(opts ...reconcile.Option) *reconcile.Result

	// Groups fetches the product groups of one branch.
	Groups(ctx context.Context, branch string) ([]catalog.Group, error)

	// Apply dispatches all pending changes and refetches afterward so the
	// displayed state reflects post-write reality.
	Apply(ctx context.Context) apply.Tally
}

// syncer is the internal implementation of the Syncer interface.
type syncer struct {
	config   *config
	registry *branches.Registry
	ledger   *ledger.Ledger
	clients  map[string]BranchClient
	logger   *zerolog.Logger
}

// New creates a Syncer over the given branches with the given options.
func New(list []*branches.Branch, opts ...Option) (Syncer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errors.NewConfigError("syncer", "applying options", err)
		}
	}

	s := &syncer{
		config:   cfg,
		registry: branches.NewRegistry(list),
		ledger:   ledger.New(),
		clients:  make(map[string]BranchClient, len(list)),
		logger:   cfg.logger,
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}

	for _, b := range list {
		s.clients[b.Name] = cfg.clientFunc(b, cfg.clientConfig())
	}
	return s, nil
}

// Registry returns the branch registry.
func (s *syncer) Registry() *branches.Registry {
	return s.registry
}

// Ledger returns the pending-change ledger.
func (s *syncer) Ledger() *ledger.Ledger {
	return s.ledger
}

// Reconcile runs a reconciliation pass over the current snapshots.
func (s *syncer) Reconcile(opts ...reconcile.Option) *reconcile.Result {
	return reconcile.Reconcile(s.registry.Snapshots(), opts...)
}

// Groups fetches the product groups of one branch.
func (s *syncer) Groups(ctx context.Context, branch string) ([]catalog.Group, error) {
	client, ok := s.clients[branch]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return client.Groups(ctx)
}

// Apply dispatches all pending changes, then triggers a full refetch across
// enabled branches.
func (s *syncer) Apply(ctx context.Context) apply.Tally {
	coordinator := apply.New(s.registry, s.ledger, func(b *branches.Branch) apply.Updater {
		return s.clients[b.Name]
	}).WithLogger(s.logger)

	tally := coordinator.Run(ctx)

	// Displayed state must reflect post-write reality, not stale pre-write
	// snapshots.
	s.FetchAll(ctx, "", 0)
	return tally
}
