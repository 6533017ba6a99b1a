package gamesync

import (
	"context"
	"time"

	"github.com/playshelf/gamesync/internal/pipeline"
	"github.com/playshelf/gamesync/pkg/constants"
	"github.com/playshelf/gamesync/pkg/errors"
	"github.com/playshelf/gamesync/pkg/library"
)

// SyncOption configures a single Sync run.
type SyncOption func(*SyncOptions)

// SyncOptions holds the per-run settings.
type SyncOptions struct {
	// Accounts to pull ownership from, in order.
	Accounts []Account

	// DryRun reconciles without writing to the collection.
	DryRun bool

	// SkipUpsert reconciles and caches but skips the collection write.
	SkipUpsert bool

	// Timeout bounds the whole run. Zero means the default ceiling.
	Timeout time.Duration
}

// NewSyncOptions builds SyncOptions from the given options.
func NewSyncOptions(opts ...SyncOption) *SyncOptions {
	options := &SyncOptions{Timeout: constants.SyncTimeout}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithAccounts sets the accounts to synchronize.
func WithAccounts(accounts ...Account) SyncOption {
	return func(o *SyncOptions) {
		o.Accounts = accounts
	}
}

// WithDryRun reconciles and reports without writing to the collection.
func WithDryRun() SyncOption {
	return func(o *SyncOptions) {
		o.DryRun = true
	}
}

// WithSkipUpsert skips the collection write.
func WithSkipUpsert() SyncOption {
	return func(o *SyncOptions) {
		o.SkipUpsert = true
	}
}

// WithTimeout bounds the whole run.
func WithTimeout(d time.Duration) SyncOption {
	return func(o *SyncOptions) {
		o.Timeout = d
	}
}

// Result is the outcome of one Sync run.
type Result struct {
	// Records is the final reconciled record set, sorted by app id.
	Records []library.Record

	// Failures lists per-item skips aggregated across the run.
	Failures []pipeline.Failure

	// FromCache and Fetched count how identity data was obtained.
	FromCache int
	Fetched   int

	// Upserted reports whether the collection write ran.
	Upserted bool
}

// Sync pulls ownership for each configured account, enriches every owned
// game through the metadata, statistics, and estimate layers, reconciles
// against the on-disk cache, and upserts the final set into the collection.
func (c *client) Sync(ctx context.Context, opts ...SyncOption) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	options := NewSyncOptions(opts...)
	if len(options.Accounts) == 0 {
		return nil, errors.NewConfigError("sync", "no accounts configured", errors.ErrMissingConfig)
	}

	var cancel context.CancelFunc
	if options.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	p := pipeline.New(pipeline.Config{
		Store:     c.store,
		Owned:     c.owned,
		Details:   c.details,
		Stats:     c.stats,
		Estimates: c.estimates,
		UseCache:  !c.config.noCache,
		Logger:    c.config.logger,
	})

	run, err := p.Run(ctx, options.Accounts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Records:   run.Records,
		Failures:  run.Failures,
		FromCache: run.FromCache,
		Fetched:   run.Fetched,
	}

	switch {
	case options.DryRun:
		c.config.logger.Info().Msg("dry run, skipping collection upsert")
	case options.SkipUpsert:
		c.config.logger.Info().Msg("collection upsert skipped")
	case c.sink == nil:
		c.config.logger.Warn().Msg("collection not configured, skipping upsert")
	default:
		if err := c.sink.UpsertAll(ctx, result.Records); err != nil {
			return result, err
		}
		result.Upserted = true
	}

	return result, nil
}
