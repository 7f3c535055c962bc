// Package apply orchestrates dispatch of pending changes back to their owning
// branches. Changes are grouped by branch, each group rides in one batched
// update call, and per-item outcomes are folded into a single cycle tally.
//
// A branch whose health status is not CONNECTED at dispatch time has its whole
// group counted as failed without any network call: writes are never attempted
// against a branch known to be unreachable or misauthenticated.
package apply

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dakkemarket/branchsync/pkg/branches"
	"github.com/dakkemarket/branchsync/pkg/ledger"
	"github.com/dakkemarket/branchsync/pkg/logging"
)

// Item is one article update destined for a single branch, carrying only the
// fields being changed. Field names here are the middleware's wire names.
type Item struct {
	Code      string   `json:"code"`
	Name      *string  `json:"name,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	GroupCode *string  `json:"group_code,omitempty"`
}

// Summary is the server-reported outcome of one batched update call.
type Summary struct {
	Total        int `json:"total"`
	SuccessCount int `json:"success_count"`
	FailedCount  int `json:"failed_count"`
}

// Updater dispatches one batched update against a single branch's middleware.
type Updater interface {
	BatchUpdate(ctx context.Context, items []Item) (Summary, error)
}

// ClientFunc builds the updater for a branch at dispatch time.
type ClientFunc func(b *branches.Branch) Updater

// Tally is the aggregate result of one apply cycle.
type Tally struct {
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
	// SkippedBranches lists branches whose groups were failed without a
	// network call because the branch was not CONNECTED.
	SkippedBranches []string `json:"skipped_branches,omitempty"`
}

// Coordinator drains a change ledger and dispatches one batched update per
// branch group.
type Coordinator struct {
	registry *branches.Registry
	ledger   *ledger.Ledger
	clients  ClientFunc
	logger   *zerolog.Logger
}

// New creates an apply coordinator.
func New(registry *branches.Registry, l *ledger.Ledger, clients ClientFunc) *Coordinator {
	return &Coordinator{
		registry: registry,
		ledger:   l,
		clients:  clients,
		logger:   logging.Default(),
	}
}

// WithLogger sets the coordinator's logger.
func (c *Coordinator) WithLogger(logger *zerolog.Logger) *Coordinator {
	c.logger = logger
	return c
}

// Run dispatches every pending change and returns the cycle tally. The ledger
// is cleared unconditionally once dispatch completes: failed edits are
// reported, not retried, and must be redone from a fresh diff.
func (c *Coordinator) Run(ctx context.Context) Tally {
	defer c.ledger.Clear()

	var tally Tally
	order, groups := c.ledger.GroupByBranch()

	for _, name := range order {
		changes := groups[name]

		branch, ok := c.registry.Get(name)
		if !ok || branch.Status != branches.StatusConnected {
			tally.Failures += len(changes)
			tally.SkippedBranches = append(tally.SkippedBranches, name)
			c.logger.Warn().
				Str("branch", name).
				Int("changes", len(changes)).
				Msg("Skipping unhealthy branch, counting group as failed")
			continue
		}

		items, invalid := translate(changes)
		tally.Failures += invalid
		if len(items) == 0 {
			continue
		}

		summary, err := c.clients(branch).BatchUpdate(ctx, items)
		if err != nil {
			tally.Failures += len(items)
			c.logger.Error().
				Err(err).
				Str("branch", name).
				Int("items", len(items)).
				Msg("Batch update failed")
			continue
		}

		tally.Successes += summary.SuccessCount
		tally.Failures += summary.FailedCount
		c.logger.Info().
			Str("branch", name).
			Int("success", summary.SuccessCount).
			Int("failed", summary.FailedCount).
			Msg("Batch update dispatched")
	}

	c.logger.Info().
		Int("successes", tally.Successes).
		Int("failures", tally.Failures).
		Msg("Apply cycle complete")
	return tally
}

// translate converts ledger changes into wire items, mapping each display
// field to the middleware's native field identifier. Changes whose values
// cannot be represented on the wire count as failures without a network call.
func translate(changes []ledger.Change) ([]Item, int) {
	items := make([]Item, 0, len(changes))
	invalid := 0

	for _, change := range changes {
		item := Item{Code: change.Code}
		switch change.Field {
		case ledger.FieldName:
			name := change.NewValue
			item.Name = &name
		case ledger.FieldPrice:
			// Edited values may carry the display format's thousands
			// separators.
			price, err := strconv.ParseFloat(strings.ReplaceAll(change.NewValue, ",", ""), 64)
			if err != nil {
				invalid++
				continue
			}
			item.Price = &price
		case ledger.FieldGroup:
			group := change.NewValue
			item.GroupCode = &group
		default:
			invalid++
			continue
		}
		items = append(items, item)
	}
	return items, invalid
}
