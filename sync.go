package branchsync

import (
	"context"
	"sync"
	"time"

	"github.com/dakkemarket/branchsync/pkg/branches"
)

// FetchSummary reports the outcome of one fetch pass across enabled branches.
type FetchSummary struct {
	// Branches is the number of enabled branches fetched.
	Branches int
	// Articles is the total number of articles received.
	Articles int
	// Failed lists branches whose fetch failed after exhausting retries.
	Failed []string
}

// CheckAll probes every configured branch under the worker pool and records
// each branch's health status in the registry. Each branch's probe sequence
// stays ordered relative to itself; only the fan-out across branches runs
// concurrently.
func (s *syncer) CheckAll(ctx context.Context) map[string]branches.HealthStatus {
	list := s.registry.All()

	var (
		mu      sync.Mutex
		results = make(map[string]branches.HealthStatus, len(list))
	)

	s.forEach(ctx, list, func(ctx context.Context, b *branches.Branch) {
		status := s.clients[b.Name].CheckHealth(ctx)
		s.registry.SetStatus(b.Name, status)

		mu.Lock()
		results[b.Name] = status
		mu.Unlock()

		s.logger.Info().
			Str("branch", b.Name).
			Stringer("status", status).
			Msg("Health check")
	})
	return results
}

// FetchAll fetches article snapshots from all enabled branches under the
// worker pool. A failed fetch records the failure on the branch instead of
// silently storing an empty snapshot.
func (s *syncer) FetchAll(ctx context.Context, search string, limit int) FetchSummary {
	if limit <= 0 {
		limit = s.config.fetchLimit
	}
	list := s.registry.Enabled()

	var (
		mu      sync.Mutex
		summary = FetchSummary{Branches: len(list)}
	)

	s.forEach(ctx, list, func(ctx context.Context, b *branches.Branch) {
		articles, err := s.clients[b.Name].Articles(ctx, search, limit)
		if err != nil {
			s.registry.SetFetchError(b.Name, err)
			mu.Lock()
			summary.Failed = append(summary.Failed, b.Name)
			mu.Unlock()
			s.logger.Error().
				Err(err).
				Str("branch", b.Name).
				Msg("Fetch failed")
			return
		}

		s.registry.SetSnapshot(b.Name, articles, time.Now())
		mu.Lock()
		summary.Articles += len(articles)
		mu.Unlock()
		s.logger.Info().
			Str("branch", b.Name).
			Int("articles", len(articles)).
			Msg("Fetched snapshot")
	})
	return summary
}

// forEach runs fn once per branch over a bounded worker pool, honoring
// context cancellation at the per-branch boundary so one stuck branch cannot
// block the whole pass indefinitely.
func (s *syncer) forEach(ctx context.Context, list []*branches.Branch, fn func(context.Context, *branches.Branch)) {
	sem := make(chan struct{}, s.config.workers)
	var wg sync.WaitGroup

	for _, b := range list {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(b *branches.Branch) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(ctx, b)
		}(b)
	}
	wg.Wait()
}
