package branchsync

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/dakkemarket/branchsync/pkg/constants"
)

// Option is a function that configures a Syncer instance.
type Option func(*config) error

// config holds the syncer's construction-time settings. There is no ambient
// global configuration: everything a component needs is passed in here.
type config struct {
	apiKey     string
	timeout    time.Duration
	retryCount int
	backoff    time.Duration
	fetchLimit int
	workers    int
	clientFunc ClientFunc
	logger     *zerolog.Logger
}

// clientConfig is the exported view of the settings handed to a ClientFunc.
func (c *config) clientConfig() ClientConfig {
	return ClientConfig{
		APIKey:     c.apiKey,
		Timeout:    c.timeout,
		RetryCount: c.retryCount,
		Backoff:    c.backoff,
	}
}

func defaultConfig() *config {
	return &config{
		timeout:    constants.DefaultHTTPTimeout,
		retryCount: constants.DefaultRetryCount,
		backoff:    constants.RetryBackoff,
		fetchLimit: constants.DefaultFetchLimit,
		workers:    constants.DefaultWorkers,
		clientFunc: newHolooClient,
	}
}

// WithAPIKey sets the shared middleware API key.
func WithAPIKey(key string) Option {
	return func(c *config) error {
		c.apiKey = key
		return nil
	}
}

// WithTimeout sets the per-request timeout for authenticated calls.
func WithTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d > 0 {
			c.timeout = d
		}
		return nil
	}
}

// WithRetryCount sets the number of attempts for each authenticated call.
func WithRetryCount(n int) Option {
	return func(c *config) error {
		if n > 0 {
			c.retryCount = n
		}
		return nil
	}
}

// WithFetchLimit caps the number of articles requested per branch.
func WithFetchLimit(n int) Option {
	return func(c *config) error {
		if n > 0 {
			c.fetchLimit = n
		}
		return nil
	}
}

// WithWorkers bounds the worker pool used to fan out across branches during
// health checks and fetches.
func WithWorkers(n int) Option {
	return func(c *config) error {
		if n > 0 {
			c.workers = n
		}
		return nil
	}
}

// WithLogger sets the syncer's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithClientFunc overrides how per-branch clients are built. Used by tests to
// substitute fake transports.
func WithClientFunc(fn ClientFunc) Option {
	return func(c *config) error {
		c.clientFunc = fn
		return nil
	}
}
