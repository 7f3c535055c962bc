package branchsync_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dakkemarket/branchsync"
	"github.com/dakkemarket/branchsync/pkg/apply"
	"github.com/dakkemarket/branchsync/pkg/branches"
	"github.com/dakkemarket/branchsync/pkg/catalog"
	"github.com/dakkemarket/branchsync/pkg/errors"
	"github.com/dakkemarket/branchsync/pkg/ledger"
	"github.com/dakkemarket/branchsync/pkg/logging"
	"github.com/dakkemarket/branchsync/pkg/reconcile"
)

// fakeClient is a scripted BranchClient for one branch.
type fakeClient struct {
	mu sync.Mutex

	health   branches.HealthStatus
	articles []catalog.Article
	fetchErr error
	groups   []catalog.Group
	summary  apply.Summary
	batchErr error

	fetches int
	batches [][]apply.Item
}

func (f *fakeClient) CheckHealth(context.Context) branches.HealthStatus {
	return f.health
}

func (f *fakeClient) Articles(context.Context, string, int) ([]catalog.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.articles, nil
}

func (f *fakeClient) Groups(context.Context) ([]catalog.Group, error) {
	return f.groups, nil
}

func (f *fakeClient) BatchUpdate(_ context.Context, items []apply.Item) (apply.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, items)
	if f.batchErr != nil {
		return apply.Summary{}, f.batchErr
	}
	return f.summary, nil
}

func (f *fakeClient) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func newFakeSyncer(t *testing.T, fakes map[string]*fakeClient) branchsync.Syncer {
	t.Helper()
	var list []*branches.Branch
	var names []string
	for name := range fakes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		list = append(list, &branches.Branch{Name: name, Address: "127.0.0.1", Port: 7480, Enabled: true})
	}

	s, err := branchsync.New(list,
		branchsync.WithAPIKey("test-key"),
		branchsync.WithLogger(&logging.Nop),
		branchsync.WithClientFunc(func(b *branches.Branch, _ branchsync.ClientConfig) branchsync.BranchClient {
			return fakes[b.Name]
		}),
	)
	require.NoError(t, err)
	return s
}

func TestCheckAllRecordsEveryStatus(t *testing.T) {
	s := newFakeSyncer(t, map[string]*fakeClient{
		"central": {health: branches.StatusConnected},
		"north":   {health: branches.StatusAuthError},
		"south":   {health: branches.StatusOffline},
	})

	results := s.CheckAll(context.Background())

	assert.Equal(t, map[string]branches.HealthStatus{
		"central": branches.StatusConnected,
		"north":   branches.StatusAuthError,
		"south":   branches.StatusOffline,
	}, results)

	b, ok := s.Registry().Get("north")
	require.True(t, ok)
	assert.Equal(t, branches.StatusAuthError, b.Status)
}

func TestFetchAllRecordsSnapshotsAndFailures(t *testing.T) {
	s := newFakeSyncer(t, map[string]*fakeClient{
		"central": {articles: []catalog.Article{{Code: "1001"}, {Code: "2002"}}},
		"north":   {fetchErr: errors.NewSyncError("north", nil, errors.ErrTimeout)},
	})

	summary := s.FetchAll(context.Background(), "", 0)

	assert.Equal(t, 2, summary.Branches)
	assert.Equal(t, 2, summary.Articles)
	assert.Equal(t, []string{"north"}, summary.Failed)

	central, _ := s.Registry().Get("central")
	assert.Len(t, central.Snapshot, 2)
	assert.False(t, central.LastFetched.IsZero())

	north, _ := s.Registry().Get("north")
	assert.Empty(t, north.Snapshot)
	assert.ErrorIs(t, north.LastError, errors.ErrTimeout)
}

func TestFetchAllSkipsDisabledBranches(t *testing.T) {
	fakes := map[string]*fakeClient{
		"central": {articles: []catalog.Article{{Code: "1001"}}},
		"north":   {articles: []catalog.Article{{Code: "2002"}}},
	}
	s := newFakeSyncer(t, fakes)
	s.Registry().SetEnabled("north", false)

	summary := s.FetchAll(context.Background(), "", 0)

	assert.Equal(t, 1, summary.Branches)
	assert.Equal(t, 0, fakes["north"].fetchCount())
}

func TestReconcileReadsRegistrySnapshots(t *testing.T) {
	s := newFakeSyncer(t, map[string]*fakeClient{
		"central": {articles: []catalog.Article{{Code: "1001", Name: "X"}}},
		"north":   {articles: []catalog.Article{{Code: "1001", Name: "Y"}}},
	})
	s.FetchAll(context.Background(), "", 0)

	result := s.Reconcile(reconcile.WithDimension(reconcile.DimensionName))

	require.Len(t, result.Rows, 1)
	assert.True(t, result.Rows[0].HasDiff)
	assert.Equal(t, []string{"central", "north"}, result.Branches)
}

func TestGroupsUnknownBranch(t *testing.T) {
	s := newFakeSyncer(t, map[string]*fakeClient{
		"central": {groups: []catalog.Group{{Code: "G1", Name: "Dairy"}}},
	})

	groups, err := s.Groups(context.Background(), "central")
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	_, err = s.Groups(context.Background(), "nowhere")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestApplyDispatchesClearsAndRefetches(t *testing.T) {
	fakes := map[string]*fakeClient{
		"central": {
			health:  branches.StatusConnected,
			summary: apply.Summary{Total: 2, SuccessCount: 2},
		},
	}
	s := newFakeSyncer(t, fakes)
	s.CheckAll(context.Background())
	s.FetchAll(context.Background(), "", 0)
	before := fakes["central"].fetchCount()

	require.NoError(t, s.Ledger().Add(ledger.Change{
		Code: "1001", Branch: "central", Field: ledger.FieldPrice, NewValue: "100",
	}))
	require.NoError(t, s.Ledger().Add(ledger.Change{
		Code: "2002", Branch: "central", Field: ledger.FieldName, NewValue: "Cola",
	}))

	tally := s.Apply(context.Background())

	assert.Equal(t, 2, tally.Successes)
	assert.Equal(t, 0, tally.Failures)
	require.Len(t, fakes["central"].batches, 1)
	assert.Len(t, fakes["central"].batches[0], 2)

	// The ledger is cleared and a refetch follows the dispatch.
	assert.Equal(t, 0, s.Ledger().Len())
	assert.Equal(t, before+1, fakes["central"].fetchCount())
}

func TestApplyFailedBatchStillClearsLedger(t *testing.T) {
	fakes := map[string]*fakeClient{
		"central": {
			health:   branches.StatusConnected,
			batchErr: errors.ErrBranchUnavailable,
		},
	}
	s := newFakeSyncer(t, fakes)
	s.CheckAll(context.Background())

	require.NoError(t, s.Ledger().Add(ledger.Change{
		Code: "1001", Branch: "central", Field: ledger.FieldPrice, NewValue: "100",
	}))

	tally := s.Apply(context.Background())

	assert.Equal(t, 1, tally.Failures)
	assert.Equal(t, 0, s.Ledger().Len(), "failed changes are not retried automatically")
}
