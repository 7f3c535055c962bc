package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dakkemarket/branchsync/pkg/errors"
	"github.com/dakkemarket/branchsync/pkg/ledger"
)

func TestLedgerRejectsIncompleteChanges(t *testing.T) {
	l := ledger.New()

	assert.ErrorIs(t, l.Add(ledger.Change{Branch: "a", Field: ledger.FieldName}), errors.ErrInvalidInput)
	assert.ErrorIs(t, l.Add(ledger.Change{Code: "1", Field: ledger.FieldName}), errors.ErrInvalidInput)
	assert.ErrorIs(t, l.Add(ledger.Change{Code: "1", Branch: "a"}), errors.ErrInvalidInput)
	assert.Equal(t, 0, l.Len())
}

func TestLedgerKeepsDuplicateEdits(t *testing.T) {
	// Two edits to the same cell both ride along; the ledger does no
	// conflict resolution.
	l := ledger.New()
	require.NoError(t, l.Add(ledger.Change{Code: "1", Branch: "a", Field: ledger.FieldPrice, NewValue: "10"}))
	require.NoError(t, l.Add(ledger.Change{Code: "1", Branch: "a", Field: ledger.FieldPrice, NewValue: "20"}))

	assert.Equal(t, 2, l.Len())
	snap := l.Snapshot()
	assert.Equal(t, "10", snap[0].NewValue)
	assert.Equal(t, "20", snap[1].NewValue)
}

func TestLedgerGroupByBranchPreservesOrder(t *testing.T) {
	l := ledger.New()
	add := func(code, branch string) {
		require.NoError(t, l.Add(ledger.Change{Code: code, Branch: branch, Field: ledger.FieldName}))
	}
	add("1", "north")
	add("2", "central")
	add("3", "north")
	add("4", "south")
	add("5", "central")

	order, groups := l.GroupByBranch()

	// Branch order follows first appearance in the ledger.
	assert.Equal(t, []string{"north", "central", "south"}, order)

	// Insertion order is preserved within each group.
	assert.Equal(t, "1", groups["north"][0].Code)
	assert.Equal(t, "3", groups["north"][1].Code)
	assert.Equal(t, "2", groups["central"][0].Code)
	assert.Equal(t, "5", groups["central"][1].Code)
}

func TestLedgerClear(t *testing.T) {
	l := ledger.New()
	require.NoError(t, l.Add(ledger.Change{Code: "1", Branch: "a", Field: ledger.FieldName}))

	l.Clear()

	assert.Equal(t, 0, l.Len())
	order, groups := l.GroupByBranch()
	assert.Empty(t, order)
	assert.Empty(t, groups)
}
