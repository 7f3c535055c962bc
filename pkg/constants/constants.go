// Package constants provides shared constants used throughout the branchsync codebase.
// This includes timeouts, limits, and other configuration values that should be
// consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for authenticated requests to a
	// branch middleware service
	DefaultHTTPTimeout = 30 * time.Second

	// PingTimeout is the short timeout for the unauthenticated liveness probe.
	// Kept deliberately tight so a dead branch is detected quickly.
	PingTimeout = 5 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// RetryBackoff is the fixed delay between retry attempts. No jitter and no
	// exponential growth: branch counts are small and calls are operator-triggered.
	RetryBackoff = 1 * time.Second
)

// Limit constants define various limits and capacities
const (
	// DefaultRetryCount is the number of attempts for each authenticated call
	DefaultRetryCount = 3

	// DefaultFetchLimit is the maximum number of articles requested per branch
	DefaultFetchLimit = 50000

	// DefaultWorkers is the size of the worker pool used for branch fan-out
	DefaultWorkers = 4

	// DefaultPageSize is the default page size for reconciled row pagination
	DefaultPageSize = 100

	// DefaultPort is the default listen port of a branch middleware service
	DefaultPort = 7480
)

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
