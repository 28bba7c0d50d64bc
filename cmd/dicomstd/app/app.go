// Package app provides the application context and dependency management
// for the dicomstd CLI. It centralizes configuration, logging and the
// processors shared by every command.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/dicomstd/internal/appcontext"
	"github.com/agentstation/dicomstd/pkg/errors"
	"github.com/agentstation/dicomstd/pkg/hierarchy"
	"github.com/agentstation/dicomstd/pkg/references"
)

// App represents the dicomstd application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Processors (lazy-initialized)
	mu       sync.Mutex
	builder  *hierarchy.Builder
	recorder *references.Recorder
}

var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.NewConfigError("app", "load config", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the output format chosen by flag or config.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Builder returns the hierarchy builder, creating it on first use.
// The builder logs through the logger carried by each command's context.
func (a *App) Builder() *hierarchy.Builder {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.builder == nil {
		a.builder = hierarchy.New()
	}
	return a.builder
}

// Recorder returns the reference recorder, creating it on first use.
func (a *App) Recorder() *references.Recorder {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.recorder == nil {
		a.recorder = references.New(references.WithBaseURL(a.config.BaseURL))
	}
	return a.recorder
}

// BatchOptions returns the batch policy from the configuration.
func (a *App) BatchOptions() hierarchy.BatchOptions {
	return hierarchy.BatchOptions{
		Concurrency: a.config.Concurrency,
		KeepGoing:   a.config.KeepGoing,
	}
}

// Shutdown releases application resources.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.builder = nil
	a.recorder = nil
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "config is nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithRecorder sets a custom reference recorder (useful for testing).
func WithRecorder(r *references.Recorder) Option {
	return func(a *App) error {
		a.recorder = r
		return nil
	}
}
