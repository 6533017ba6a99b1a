// Package cmd holds the gamesync subcommands. Commands receive their
// dependencies through the App interface rather than package-level state.
package cmd

import (
	"github.com/rs/zerolog"

	"github.com/playshelf/gamesync"
)

// App is the slice of the application context the commands need.
type App interface {
	// Client returns the library client, constructing it on first use.
	Client() (gamesync.Client, error)

	// Logger returns the application logger.
	Logger() *zerolog.Logger

	// CacheDir returns the configured cache directory.
	CacheDir() string

	// SetNoCache forces every layer to refetch on this run.
	SetNoCache(enabled bool)

	// Version returns the version string.
	Version() string

	// Commit returns the build commit hash.
	Commit() string

	// Date returns the build date.
	Date() string
}
