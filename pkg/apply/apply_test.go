package apply_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dakkemarket/branchsync/pkg/apply"
	"github.com/dakkemarket/branchsync/pkg/branches"
	"github.com/dakkemarket/branchsync/pkg/errors"
	"github.com/dakkemarket/branchsync/pkg/ledger"
	"github.com/dakkemarket/branchsync/pkg/logging"
)

// fakeUpdater records batches and replays a scripted outcome.
type fakeUpdater struct {
	calls   int
	items   [][]apply.Item
	summary apply.Summary
	err     error
}

func (f *fakeUpdater) BatchUpdate(_ context.Context, items []apply.Item) (apply.Summary, error) {
	f.calls++
	f.items = append(f.items, items)
	if f.err != nil {
		return apply.Summary{}, f.err
	}
	return f.summary, nil
}

func newFixture(status branches.HealthStatus) (*branches.Registry, *ledger.Ledger, *fakeUpdater) {
	registry := branches.NewRegistry([]*branches.Branch{
		{Name: "central", Enabled: true, Status: status},
	})
	return registry, ledger.New(), &fakeUpdater{}
}

func coordinatorFor(registry *branches.Registry, l *ledger.Ledger, updater apply.Updater) *apply.Coordinator {
	return apply.New(registry, l, func(*branches.Branch) apply.Updater {
		return updater
	}).WithLogger(&logging.Nop)
}

func TestApplyTallyFoldsServerCounts(t *testing.T) {
	registry, l, updater := newFixture(branches.StatusConnected)
	updater.summary = apply.Summary{Total: 3, SuccessCount: 2, FailedCount: 1}

	for _, code := range []string{"1", "2", "3"} {
		require.NoError(t, l.Add(ledger.Change{
			Code: code, Branch: "central", Field: ledger.FieldPrice, NewValue: "100",
		}))
	}

	tally := coordinatorFor(registry, l, updater).Run(context.Background())

	assert.Equal(t, 2, tally.Successes)
	assert.Equal(t, 1, tally.Failures)
	assert.Equal(t, 1, updater.calls, "all items for a branch ride in one call")
	assert.Len(t, updater.items[0], 3)

	// The ledger is cleared regardless of outcome.
	assert.Equal(t, 0, l.Len())
}

func TestApplySkipsUnhealthyBranchWithoutNetworkCalls(t *testing.T) {
	registry, l, updater := newFixture(branches.StatusAuthError)

	for _, code := range []string{"1", "2"} {
		require.NoError(t, l.Add(ledger.Change{
			Code: code, Branch: "central", Field: ledger.FieldName, NewValue: "n",
		}))
	}

	tally := coordinatorFor(registry, l, updater).Run(context.Background())

	assert.Equal(t, 0, tally.Successes)
	assert.Equal(t, 2, tally.Failures)
	assert.Equal(t, []string{"central"}, tally.SkippedBranches)
	assert.Equal(t, 0, updater.calls)
	assert.Equal(t, 0, l.Len())
}

func TestApplyOutrightCallFailureFailsWholeBatch(t *testing.T) {
	registry, l, updater := newFixture(branches.StatusConnected)
	updater.err = errors.ErrTimeout

	for _, code := range []string{"1", "2", "3"} {
		require.NoError(t, l.Add(ledger.Change{
			Code: code, Branch: "central", Field: ledger.FieldGroup, NewValue: "G1",
		}))
	}

	tally := coordinatorFor(registry, l, updater).Run(context.Background())

	assert.Equal(t, 0, tally.Successes)
	assert.Equal(t, 3, tally.Failures)
}

func TestApplyTranslatesFieldsToWireNames(t *testing.T) {
	registry, l, updater := newFixture(branches.StatusConnected)
	updater.summary = apply.Summary{Total: 3, SuccessCount: 3}

	require.NoError(t, l.Add(ledger.Change{Code: "1", Branch: "central", Field: ledger.FieldName, NewValue: "Cola"}))
	require.NoError(t, l.Add(ledger.Change{Code: "2", Branch: "central", Field: ledger.FieldPrice, NewValue: "12500"}))
	require.NoError(t, l.Add(ledger.Change{Code: "3", Branch: "central", Field: ledger.FieldGroup, NewValue: "G2"}))

	coordinatorFor(registry, l, updater).Run(context.Background())

	require.Len(t, updater.items[0], 3)
	require.NotNil(t, updater.items[0][0].Name)
	assert.Equal(t, "Cola", *updater.items[0][0].Name)
	require.NotNil(t, updater.items[0][1].Price)
	assert.Equal(t, 12500.0, *updater.items[0][1].Price)
	require.NotNil(t, updater.items[0][2].GroupCode)
	assert.Equal(t, "G2", *updater.items[0][2].GroupCode)
}

func TestApplyCountsUnparseablePriceAsFailure(t *testing.T) {
	registry, l, updater := newFixture(branches.StatusConnected)
	updater.summary = apply.Summary{Total: 1, SuccessCount: 1}

	require.NoError(t, l.Add(ledger.Change{Code: "1", Branch: "central", Field: ledger.FieldPrice, NewValue: "not-a-number"}))
	require.NoError(t, l.Add(ledger.Change{Code: "2", Branch: "central", Field: ledger.FieldPrice, NewValue: "200"}))

	tally := coordinatorFor(registry, l, updater).Run(context.Background())

	assert.Equal(t, 1, tally.Successes)
	assert.Equal(t, 1, tally.Failures)
	require.Len(t, updater.items[0], 1)
	assert.Equal(t, "2", updater.items[0][0].Code)
}

func TestApplyAcceptsDisplayFormattedPrices(t *testing.T) {
	registry, l, updater := newFixture(branches.StatusConnected)
	updater.summary = apply.Summary{Total: 1, SuccessCount: 1}

	require.NoError(t, l.Add(ledger.Change{Code: "1", Branch: "central", Field: ledger.FieldPrice, NewValue: "12,500"}))

	coordinatorFor(registry, l, updater).Run(context.Background())

	require.Len(t, updater.items[0], 1)
	require.NotNil(t, updater.items[0][0].Price)
	assert.Equal(t, 12500.0, *updater.items[0][0].Price)
}
