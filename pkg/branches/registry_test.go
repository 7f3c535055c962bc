package branches_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dakkemarket/branchsync/pkg/branches"
	"github.com/dakkemarket/branchsync/pkg/catalog"
	"github.com/dakkemarket/branchsync/pkg/errors"
)

func newTestRegistry() *branches.Registry {
	return branches.NewRegistry([]*branches.Branch{
		{Name: "central", Address: "10.0.0.1", Port: 7480, Enabled: true},
		{Name: "north", Address: "10.0.0.2", Port: 7480, Enabled: true},
		{Name: "south", Address: "10.0.0.3", Port: 7480, Enabled: true},
	})
}

func TestRegistryDefaultsFirstBranchAsReference(t *testing.T) {
	r := newTestRegistry()

	ref, ok := r.Reference()
	require.True(t, ok)
	assert.Equal(t, "central", ref.Name)
}

func TestRegistrySingleReferenceInvariant(t *testing.T) {
	r := newTestRegistry()

	require.True(t, r.SetReference("north"))

	count := 0
	for _, b := range r.All() {
		if b.IsReference {
			count++
			assert.Equal(t, "north", b.Name)
		}
	}
	assert.Equal(t, 1, count)

	// Unknown branch leaves the current reference untouched.
	assert.False(t, r.SetReference("nowhere"))
	ref, ok := r.Reference()
	require.True(t, ok)
	assert.Equal(t, "north", ref.Name)
}

func TestRegistryDemotesExtraReferencesAtConstruction(t *testing.T) {
	r := branches.NewRegistry([]*branches.Branch{
		{Name: "a", Enabled: true, IsReference: true},
		{Name: "b", Enabled: true, IsReference: true},
	})

	ref, ok := r.Reference()
	require.True(t, ok)
	assert.Equal(t, "a", ref.Name)

	b, _ := r.Get("b")
	assert.False(t, b.IsReference)
}

func TestRegistryEnabledPreservesConfiguredOrder(t *testing.T) {
	r := newTestRegistry()
	r.SetEnabled("north", false)

	var names []string
	for _, b := range r.Enabled() {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"central", "south"}, names)
}

func TestRegistryDisableKeepsSnapshotAndStatus(t *testing.T) {
	r := newTestRegistry()
	r.SetStatus("north", branches.StatusConnected)
	r.SetSnapshot("north", []catalog.Article{{Code: "1001"}}, time.Now())

	r.SetEnabled("north", false)

	b, ok := r.Get("north")
	require.True(t, ok)
	assert.Equal(t, branches.StatusConnected, b.Status)
	assert.Len(t, b.Snapshot, 1)

	// Disabled branches are excluded from reconciliation input.
	for _, s := range r.Snapshots() {
		assert.NotEqual(t, "north", s.Branch)
	}
}

func TestRegistryFetchErrorReplacesSnapshot(t *testing.T) {
	r := newTestRegistry()
	r.SetSnapshot("south", []catalog.Article{{Code: "1001"}}, time.Now())

	fetchErr := errors.NewSyncError("south", nil, errors.ErrTimeout)
	r.SetFetchError("south", fetchErr)

	b, _ := r.Get("south")
	assert.Empty(t, b.Snapshot)
	assert.ErrorIs(t, b.LastError, errors.ErrTimeout)

	// A later successful fetch clears the recorded failure.
	r.SetSnapshot("south", nil, time.Now())
	b, _ = r.Get("south")
	assert.NoError(t, b.LastError)
}

func TestRegistrySnapshotsMarkReference(t *testing.T) {
	r := newTestRegistry()
	r.SetReference("south")

	snaps := r.Snapshots()
	require.Len(t, snaps, 3)
	assert.False(t, snaps[0].IsReference)
	assert.True(t, snaps[2].IsReference)
}
