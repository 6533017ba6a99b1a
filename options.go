package gamesync

import (
	"github.com/rs/zerolog"

	"github.com/playshelf/gamesync/internal/pipeline"
	"github.com/playshelf/gamesync/internal/remote"
	"github.com/playshelf/gamesync/internal/sources/hltb"
	"github.com/playshelf/gamesync/pkg/constants"
	"github.com/playshelf/gamesync/pkg/logging"
)

// Option is a function that configures a Client
type Option func(*config) error

// config carries everything New needs to assemble a client.
type config struct {
	cacheDir    string
	language    string
	noCache     bool
	steamAPIKey string
	tokens      hltb.TokenProvider
	collection  *remote.Config
	logger      *zerolog.Logger

	// Adapter overrides, nil for the real sources.
	owned     pipeline.OwnedLister
	details   pipeline.DetailFetcher
	stats     pipeline.StatsFetcher
	estimates pipeline.EstimateFetcher
}

func newConfig() *config {
	return &config{
		cacheDir: "cache",
		language: constants.DefaultLanguage,
		tokens:   hltb.StaticToken(""),
		logger:   logging.Default(),
	}
}

// options applies the given options to the client's config.
func (c *client) options(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c.config); err != nil {
			return err
		}
	}
	return nil
}

// WithCacheDir sets the directory holding the on-disk cache files.
func WithCacheDir(dir string) Option {
	return func(c *config) error {
		c.cacheDir = dir
		return nil
	}
}

// WithLanguage sets the storefront metadata language.
func WithLanguage(lang string) Option {
	return func(c *config) error {
		c.language = lang
		return nil
	}
}

// WithNoCache bypasses cached records: every layer refetches even when the
// cache already holds data. The cache is still written afterwards.
func WithNoCache(enabled bool) Option {
	return func(c *config) error {
		c.noCache = enabled
		return nil
	}
}

// WithSteamAPIKey sets the platform web API key used to list owned games.
func WithSteamAPIKey(key string) Option {
	return func(c *config) error {
		c.steamAPIKey = key
		return nil
	}
}

// WithTokenProvider sets how the estimate source's session token is
// obtained.
func WithTokenProvider(p hltb.TokenProvider) Option {
	return func(c *config) error {
		c.tokens = p
		return nil
	}
}

// WithCollection configures the hosted collection the final records are
// upserted into. Without it, Sync runs but skips the upsert.
func WithCollection(cfg remote.Config) Option {
	return func(c *config) error {
		c.collection = &cfg
		return nil
	}
}

// WithLogger sets the logger used by the client and everything it builds.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// Adapter injection points. Used by tests and by callers who front a
// source with their own implementation.

// WithOwnedLister replaces the owned-games source.
func WithOwnedLister(l pipeline.OwnedLister) Option {
	return func(c *config) error {
		c.owned = l
		return nil
	}
}

// WithDetailFetcher replaces the storefront metadata source.
func WithDetailFetcher(f pipeline.DetailFetcher) Option {
	return func(c *config) error {
		c.details = f
		return nil
	}
}

// WithStatsFetcher replaces the community statistics source.
func WithStatsFetcher(f pipeline.StatsFetcher) Option {
	return func(c *config) error {
		c.stats = f
		return nil
	}
}

// WithEstimateFetcher replaces the time-to-beat source.
func WithEstimateFetcher(f pipeline.EstimateFetcher) Option {
	return func(c *config) error {
		c.estimates = f
		return nil
	}
}
