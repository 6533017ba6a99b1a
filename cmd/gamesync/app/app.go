// Package app provides the application context and dependency management
// for the gamesync CLI: configuration, logging, and the lazily constructed
// library client live here and are handed to commands by reference.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/playshelf/gamesync"
	"github.com/playshelf/gamesync/internal/remote"
	"github.com/playshelf/gamesync/internal/sources/hltb"
)

// App represents the gamesync application with all its dependencies.
type App struct {
	version string
	commit  string
	date    string

	config *Config
	logger *zerolog.Logger

	// Library client (lazy-initialized, singleton)
	mu     sync.Mutex
	client gamesync.Client
}

// New creates a new App instance with the given version information.
func New(version, commit, date string) (*App, error) {
	a := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	a.config = config

	logger := NewLogger(config)
	a.logger = &logger

	return a, nil
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Commit returns the build commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// CacheDir returns the configured cache directory.
func (a *App) CacheDir() string {
	return a.config.CacheDir
}

// SetNoCache forces every layer to refetch on this run. Must be called
// before the client is first built.
func (a *App) SetNoCache(enabled bool) {
	a.config.NoCache = enabled
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Client returns the library client, creating it on first use so that
// configuration errors surface when a command actually needs the client,
// not on every invocation.
func (a *App) Client() (gamesync.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	client, err := gamesync.New(a.buildOptions()...)
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}

// buildOptions translates the loaded config into library options.
func (a *App) buildOptions() []gamesync.Option {
	opts := []gamesync.Option{
		gamesync.WithCacheDir(a.config.CacheDir),
		gamesync.WithLanguage(a.config.Language),
		gamesync.WithNoCache(a.config.NoCache),
		gamesync.WithSteamAPIKey(a.config.SteamAPIKey),
		gamesync.WithLogger(a.logger),
	}

	if len(a.config.TokenCommand) > 0 {
		opts = append(opts, gamesync.WithTokenProvider(&hltb.CommandProvider{Command: a.config.TokenCommand}))
	} else if a.config.SessionToken != "" {
		opts = append(opts, gamesync.WithTokenProvider(hltb.StaticToken(a.config.SessionToken)))
	}

	if a.config.CollectionURL != "" {
		opts = append(opts, gamesync.WithCollection(remote.Config{
			BaseURL:      a.config.CollectionURL,
			APIKey:       a.config.CollectionAPIKey,
			CollectionID: a.config.CollectionID,
		}))
	}

	return opts
}
