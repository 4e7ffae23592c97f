// Package app provides the application context and dependency management
// for the collectorking CLI: configuration, logging, and the lazily built
// library instance the commands share.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/collectorking/collectorking"
	"github.com/collectorking/collectorking/internal/transport"
	"github.com/collectorking/collectorking/internal/ygoprodeck"
	"github.com/collectorking/collectorking/pkg/collection"
	"github.com/collectorking/collectorking/pkg/errors"
)

// App represents the collectorking application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Library instance (lazy-initialized, singleton)
	mu      sync.RWMutex
	library collectorking.Library
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapIO("load", "config", err)
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

// Library returns the library instance, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Library() (collectorking.Library, error) {
	a.mu.RLock()
	if a.library != nil {
		lib := a.library
		a.mu.RUnlock()
		return lib, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.library != nil {
		return a.library, nil
	}

	lib, err := collectorking.New(a.buildLibraryOptions()...)
	if err != nil {
		return nil, err
	}

	a.library = lib
	return lib, nil
}

// LibraryWithOptions returns a new library instance built from the app
// configuration plus the given extra options. Useful for commands that
// need a chooser or progress sink wired in.
func (a *App) LibraryWithOptions(extra ...collectorking.Option) (collectorking.Library, error) {
	return collectorking.New(append(a.buildLibraryOptions(), extra...)...)
}

// buildLibraryOptions constructs library options from the app configuration.
func (a *App) buildLibraryOptions() []collectorking.Option {
	opts := []collectorking.Option{
		collectorking.WithCollectionFile(a.config.CollectionFile),
	}

	if a.config.NoImages {
		opts = append(opts, collectorking.WithImagesDir(""))
	} else {
		opts = append(opts, collectorking.WithImagesDir(a.config.ImagesDir))
	}

	policy, err := collection.ParseQuantityPolicy(a.config.QuantityPolicy)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Invalid quantity policy, using replace")
	}
	opts = append(opts, collectorking.WithQuantityPolicy(policy))

	opts = append(opts, collectorking.WithCatalog(a.buildCatalog()))
	return opts
}

// buildCatalog constructs the catalog client from the app configuration.
func (a *App) buildCatalog() *ygoprodeck.Client {
	transportOpts := []transport.Option{}
	if a.config.RequestsPerSecond > 0 {
		transportOpts = append(transportOpts,
			transport.WithRateLimit(a.config.RequestsPerSecond, 1))
	}

	catalogOpts := []ygoprodeck.Option{
		ygoprodeck.WithTransport(transport.New(transportOpts...)),
	}
	if a.config.APIBaseURL != "" {
		catalogOpts = append(catalogOpts, ygoprodeck.WithBaseURL(a.config.APIBaseURL))
	}
	if a.config.CacheTTL > 0 {
		catalogOpts = append(catalogOpts, ygoprodeck.WithCacheTTL(a.config.CacheTTL))
	}

	return ygoprodeck.New(catalogOpts...)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		logger := NewLogger(config)
		a.logger = &logger
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

// WithLibrary sets a custom library instance (useful for testing).
func WithLibrary(lib collectorking.Library) Option {
	return func(a *App) error {
		a.library = lib
		return nil
	}
}
