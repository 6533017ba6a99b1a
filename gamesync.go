// Package gamesync synchronizes a personal game library: it pulls owned
// games and per-game metadata from several third-party catalog sources,
// reconciles them against an on-disk cache, and upserts the merged records
// into a hosted collection.
package gamesync

import (
	"context"
	"fmt"

	"github.com/playshelf/gamesync/internal/cache"
	"github.com/playshelf/gamesync/internal/pipeline"
	"github.com/playshelf/gamesync/internal/remote"
	"github.com/playshelf/gamesync/internal/sources/hltb"
	"github.com/playshelf/gamesync/internal/sources/steam"
	"github.com/playshelf/gamesync/internal/sources/steamspy"
	"github.com/playshelf/gamesync/internal/sources/storefront"
)

// Account identifies one platform account to pull ownership from. At most
// one account should be flagged Primary; its playtime wins conflicts and
// is the only playtime pushed to the collection.
type Account = pipeline.Account

// Client runs library synchronization.
type Client interface {
	// Sync pulls, reconciles, and (unless configured otherwise) upserts
	// the library for the configured accounts.
	Sync(ctx context.Context, opts ...SyncOption) (*Result, error)
}

// client is the internal implementation of the Client interface.
type client struct {
	config *config

	store     *cache.Store
	owned     pipeline.OwnedLister
	details   pipeline.DetailFetcher
	stats     pipeline.StatsFetcher
	estimates pipeline.EstimateFetcher
	sink      *remote.Sink
}

// New creates a Client from the given options. The Steam API key is the
// only required setting; the collection service settings are required only
// when the sink is exercised.
func New(opts ...Option) (Client, error) {
	c := &client{config: newConfig()}

	if err := c.options(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	if err := storefront.ValidateLanguage(c.config.language); err != nil {
		return nil, err
	}

	c.store = cache.New(c.config.cacheDir, c.config.logger)

	c.owned = c.config.owned
	c.details = c.config.details
	c.stats = c.config.stats
	c.estimates = c.config.estimates

	if c.owned == nil {
		c.owned = steam.New(c.config.steamAPIKey)
	}
	if c.details == nil {
		c.details = storefront.New(c.config.language)
	}
	if c.stats == nil {
		c.stats = steamspy.New()
	}
	if c.estimates == nil {
		c.estimates = hltb.New(c.config.tokens)
	}

	if c.config.collection != nil {
		rc, err := remote.NewClient(*c.config.collection)
		if err != nil {
			return nil, err
		}
		c.sink = remote.NewSink(rc, c.config.logger)
	}

	return c, nil
}
