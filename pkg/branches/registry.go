package branches

import (
	"sync"
	"time"

	"github.com/dakkemarket/branchsync/pkg/catalog"
)

// Registry is a thread-safe container for the configured branches. Order is
// significant: it determines column ordering in rendered output and the
// first-seen tie-break in diffing, so the registry preserves configured order
// everywhere it hands branches out.
//
// The registry also enforces the single-reference invariant: at most one
// branch is the reference branch at any time.
type Registry struct {
	mu       sync.RWMutex
	branches []*Branch
}

// NewRegistry creates a registry over the given branches in configured order.
// If no branch is marked as reference, the first branch becomes the reference.
func NewRegistry(list []*Branch) *Registry {
	r := &Registry{branches: list}
	if len(list) == 0 {
		return r
	}

	ref := -1
	for i, b := range list {
		if b.IsReference {
			if ref < 0 {
				ref = i
			} else {
				b.IsReference = false
			}
		}
	}
	if ref < 0 {
		list[0].IsReference = true
	}
	return r
}

// All returns every branch in configured order.
func (r *Registry) All() []*Branch {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Branch, len(r.branches))
	copy(out, r.branches)
	return out
}

// Enabled returns branches with the enabled flag set, in configured order.
func (r *Registry) Enabled() []*Branch {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Branch
	for _, b := range r.branches {
		if b.Enabled {
			out = append(out, b)
		}
	}
	return out
}

// Get returns the branch with the given name.
func (r *Registry) Get(name string) (*Branch, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.branches {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// Len returns the number of configured branches.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.branches)
}

// Reference returns the current reference branch, if any.
func (r *Registry) Reference() (*Branch, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.branches {
		if b.IsReference {
			return b, true
		}
	}
	return nil, false
}

// SetReference makes the named branch the reference branch and clears the flag
// on every other branch. Callers never observe an intermediate state with zero
// or multiple reference branches.
func (r *Registry) SetReference(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for _, b := range r.branches {
		if b.Name == name {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	for _, b := range r.branches {
		b.IsReference = b.Name == name
	}
	return true
}

// SetEnabled toggles a branch's enabled flag. The branch keeps its snapshot
// and health status while disabled; it is simply excluded from reconciliation
// and dispatch until re-enabled.
func (r *Registry) SetEnabled(name string, enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.branches {
		if b.Name == name {
			b.Enabled = enabled
			return true
		}
	}
	return false
}

// SetStatus records the result of a health probe.
func (r *Registry) SetStatus(name string, status HealthStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.branches {
		if b.Name == name {
			b.Status = status
			return
		}
	}
}

// Status returns the last recorded health status for a branch.
func (r *Registry) Status(name string) HealthStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.branches {
		if b.Name == name {
			return b.Status
		}
	}
	return StatusUnknown
}

// SetSnapshot stores a freshly fetched article snapshot for a branch and
// clears any previous fetch error.
func (r *Registry) SetSnapshot(name string, articles []catalog.Article, fetched time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.branches {
		if b.Name == name {
			b.Snapshot = articles
			b.LastError = nil
			b.LastFetched = fetched
			return
		}
	}
}

// SetFetchError records a failed fetch for a branch. The previous snapshot is
// replaced with an empty one so rendering matches the fetch outcome, but the
// failure itself stays observable through LastError.
func (r *Registry) SetFetchError(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.branches {
		if b.Name == name {
			b.Snapshot = nil
			b.LastError = err
			return
		}
	}
}

// Snapshots returns the enabled branches paired with their current snapshots,
// in configured order. The result is a stable copy for a reconciliation pass.
func (r *Registry) Snapshots() []BranchSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []BranchSnapshot
	for _, b := range r.branches {
		if !b.Enabled {
			continue
		}
		out = append(out, BranchSnapshot{
			Branch:      b.Name,
			IsReference: b.IsReference,
			Articles:    b.Snapshot,
		})
	}
	return out
}

// BranchSnapshot is one enabled branch's article snapshot as seen at the start
// of a reconciliation pass.
type BranchSnapshot struct {
	Branch      string
	IsReference bool
	Articles    []catalog.Article
}
