// Package branches defines the branch entity and the registry that owns the
// authoritative list of configured branches.
//
// A Branch carries the connection facts for one retail location's middleware
// service plus mutable runtime state: the enabled flag, the last-known health
// status, the reference flag, and the article snapshot last fetched from that
// branch. Branches are created at configuration load and live for the whole
// process run; nothing is persisted.
package branches

import (
	"fmt"
	"time"

	"github.com/dakkemarket/branchsync/pkg/catalog"
)

// HealthStatus is the last-known reachability state of a branch middleware.
type HealthStatus int

// Health states, ordered from least to most reachable.
const (
	// StatusUnknown means no health probe has run yet.
	StatusUnknown HealthStatus = iota
	// StatusOffline means the host did not answer the liveness probe.
	StatusOffline
	// StatusAPIDown means the host answered but the middleware is not serving.
	StatusAPIDown
	// StatusAuthError means the middleware rejected the database credentials.
	StatusAuthError
	// StatusConnected means the authenticated database probe succeeded.
	StatusConnected
)

// String returns the human-readable name of the status.
func (s HealthStatus) String() string {
	switch s {
	case StatusOffline:
		return "OFFLINE"
	case StatusAPIDown:
		return "API_DOWN"
	case StatusAuthError:
		return "AUTH_ERROR"
	case StatusConnected:
		return "CONNECTED"
	default:
		return "UNKNOWN"
	}
}

// Branch is one independently operated retail location with its own product
// database behind a middleware endpoint.
type Branch struct {
	// Identity and connection facts, fixed at configuration load.
	Name     string
	Address  string
	Port     int
	Database string
	User     string
	Password string

	// Mutable runtime state. Guarded by the owning Registry when accessed
	// from more than one goroutine.
	Enabled     bool
	IsReference bool
	Status      HealthStatus
	Snapshot    []catalog.Article
	LastError   error
	LastFetched time.Time
}

// BaseURL returns the root URL of the branch's middleware service.
func (b *Branch) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", b.Address, b.Port)
}
