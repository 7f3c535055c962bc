// Package ledger accumulates user-approved field edits as pending change
// records until an apply cycle dispatches them.
//
// The ledger is append-only and does no conflict resolution: two edits to the
// same cell both ride along, and the middleware applies them in order. The
// ledger is emptied wholesale after a dispatch attempt, successful or not;
// failed edits are reported and must be redone from a fresh diff rather than
// silently retried.
package ledger

import (
	"sync"

	"github.com/dakkemarket/branchsync/pkg/errors"
)

// Field names accepted for a pending change.
const (
	FieldName  = "name"
	FieldPrice = "price"
	FieldGroup = "group"
)

// Change is one user-approved edit not yet dispatched to its owning branch.
type Change struct {
	Code     string `json:"code" yaml:"code"`
	Branch   string `json:"branch" yaml:"branch"`
	Field    string `json:"field" yaml:"field"`
	OldValue string `json:"old_value" yaml:"old"`
	NewValue string `json:"new_value" yaml:"new"`
}

// Ledger is a mutex-guarded, append-only collection of pending changes.
// Edits and dispatch must not interleave: the apply coordinator drains the
// ledger under its own single-writer discipline.
type Ledger struct {
	mu      sync.Mutex
	changes []Change
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Add appends a change. Code, branch, and field must be non-empty; no other
// validation happens at this layer.
func (l *Ledger) Add(c Change) error {
	if c.Code == "" {
		return errors.NewValidationError("code", c.Code, "must not be empty")
	}
	if c.Branch == "" {
		return errors.NewValidationError("branch", c.Branch, "must not be empty")
	}
	if c.Field == "" {
		return errors.NewValidationError("field", c.Field, "must not be empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.changes = append(l.changes, c)
	return nil
}

// Len returns the number of pending changes.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.changes)
}

// Snapshot returns a copy of the pending changes in insertion order.
func (l *Ledger) Snapshot() []Change {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Change, len(l.changes))
	copy(out, l.changes)
	return out
}

// GroupByBranch groups pending changes by branch for dispatch. Branch order
// follows first appearance in the ledger; insertion order is preserved within
// each group.
func (l *Ledger) GroupByBranch() ([]string, map[string][]Change) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var order []string
	groups := make(map[string][]Change)
	for _, c := range l.changes {
		if _, ok := groups[c.Branch]; !ok {
			order = append(order, c.Branch)
		}
		groups[c.Branch] = append(groups[c.Branch], c)
	}
	return order, groups
}

// Clear empties the ledger. Called only after a dispatch attempt completes.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changes = nil
}
