// Package app provides the application context and dependency management for
// the branchsync CLI. It centralizes configuration, logging, and lazy
// construction of the syncer, following the dependency injection pattern.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/dakkemarket/branchsync"
	"github.com/dakkemarket/branchsync/pkg/errors"
	"github.com/dakkemarket/branchsync/pkg/logging"
)

// App represents the branchsync application with all its dependencies.
type App struct {
	version string
	commit  string
	date    string

	config *Config
	logger *zerolog.Logger

	// Syncer instance (lazy-initialized, singleton)
	mu     sync.Mutex
	syncer branchsync.Syncer
}

// New creates a new App instance with the given version information.
func New(version, commit, date string) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(config)
	logging.SetDefault(logger)

	return &App{
		version: version,
		commit:  commit,
		date:    date,
		config:  config,
		logger:  &logger,
	}, nil
}

// Version returns the application version string.
func (a *App) Version() string {
	return a.version
}

// Config returns the loaded configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Syncer returns the syncer, constructing it on first use.
func (a *App) Syncer() (branchsync.Syncer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.syncer != nil {
		return a.syncer, nil
	}

	if err := a.config.Validate(); err != nil {
		return nil, err
	}
	if a.config.APIKey == "" {
		return nil, errors.NewConfigError("settings", "api_key is not set", nil)
	}

	s, err := branchsync.New(a.config.BranchList(),
		branchsync.WithAPIKey(a.config.APIKey),
		branchsync.WithTimeout(a.config.Timeout()),
		branchsync.WithRetryCount(a.config.RetryCount),
		branchsync.WithFetchLimit(a.config.FetchLimit),
		branchsync.WithWorkers(a.config.Workers),
		branchsync.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	a.syncer = s
	return s, nil
}
