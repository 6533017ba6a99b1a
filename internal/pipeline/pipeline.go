// Package pipeline implements the multi-source reconciliation pipeline: per
// account, per owned game, it combines the cache, the denylist, and the
// source adapters into one enriched record set, persisting at every layer
// boundary so an interrupted run loses at most the layer in flight.
//
// Everything runs sequentially on purpose. The sources are rate limited by
// people, not contracts, and a polite fixed pace beats wall-clock speed
// here. Adapter failures never escape the pipeline: they become per-item
// skip decisions and an end-of-run summary.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/playshelf/gamesync/internal/cache"
	"github.com/playshelf/gamesync/pkg/errors"
	"github.com/playshelf/gamesync/pkg/library"
	"github.com/playshelf/gamesync/pkg/logging"
	"github.com/playshelf/gamesync/pkg/namematch"
)

// OwnedLister fetches an account's owned-games list.
type OwnedLister interface {
	OwnedGames(ctx context.Context, accountID string) ([]library.OwnedGame, error)
}

// DetailFetcher fetches the identity/catalog layer for one app.
type DetailFetcher interface {
	AppDetails(ctx context.Context, appID int64) (*library.Record, error)
}

// StatsFetcher fetches the statistics layer for one app.
type StatsFetcher interface {
	AppStats(ctx context.Context, appID int64) (*library.Stats, error)
}

// EstimateFetcher looks up the time-to-beat estimate layer by name.
type EstimateFetcher interface {
	Lookup(ctx context.Context, name string) (*library.Estimate, error)
}

// Account identifies one tracked account. The primary account is
// authoritative for personalized fields when several accounts own the
// same game.
type Account struct {
	ID      string
	Primary bool
}

// Failure records one skipped or failed app for the end-of-run summary.
type Failure struct {
	AppID     int64
	AccountID string
	Reason    string
}

// Result is the outcome of a pipeline run.
type Result struct {
	// Records is the final merged record set, sorted by app id.
	Records []library.Record

	// Failures lists every id that was skipped or failed, with why.
	Failures []Failure

	// FromCache and Fetched count how identity layers were satisfied.
	FromCache int
	Fetched   int
}

// Pipeline reconciles accounts against the cache and the source adapters.
type Pipeline struct {
	store     *cache.Store
	owned     OwnedLister
	details   DetailFetcher
	stats     StatsFetcher
	estimates EstimateFetcher
	matcher   namematch.Matcher
	useCache  bool
	log       *zerolog.Logger
}

// Config wires a Pipeline's collaborators.
type Config struct {
	Store     *cache.Store
	Owned     OwnedLister
	Details   DetailFetcher
	Stats     StatsFetcher
	Estimates EstimateFetcher
	Matcher   namematch.Matcher
	UseCache  bool
	Logger    *zerolog.Logger
}

// New creates a Pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Matcher == nil {
		cfg.Matcher = namematch.Default{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Pipeline{
		store:     cfg.Store,
		owned:     cfg.Owned,
		details:   cfg.Details,
		stats:     cfg.Stats,
		estimates: cfg.Estimates,
		matcher:   cfg.Matcher,
		useCache:  cfg.UseCache,
		log:       cfg.Logger,
	}
}

// Run processes every account in order and returns the merged record set.
// The only errors that propagate are fatal ones (missing configuration,
// context cancellation); anything per-item lands in Result.Failures.
func (p *Pipeline) Run(ctx context.Context, accounts []Account) (*Result, error) {
	result := &Result{}
	perAccount := make([][]library.Record, 0, len(accounts))

	for _, acct := range accounts {
		records, err := p.runAccount(ctx, acct, result)
		if err != nil {
			if errors.Is(err, errors.ErrMissingConfig) || ctx.Err() != nil {
				return nil, err
			}
			// The account's list could not be fetched at all; nothing
			// per-item to record, nothing worth aborting the run over.
			p.log.Error().Err(err).Str("account_id", acct.ID).
				Msg("Skipping account: owned list unavailable")
			continue
		}
		perAccount = append(perAccount, records)
	}

	result.Records = mergeAccounts(perAccount)
	p.summarize(result)

	return result, nil
}

// runAccount executes the identity pass and both enrichment layers for one
// account, persisting the cache at each layer boundary.
func (p *Pipeline) runAccount(ctx context.Context, acct Account, result *Result) ([]library.Record, error) {
	owned, err := p.owned.OwnedGames(ctx, acct.ID)
	if err != nil {
		return nil, err
	}
	p.store.SaveOwned(acct.ID, owned)

	p.log.Info().Str("account_id", acct.ID).Int("games", len(owned)).
		Bool("primary", acct.Primary).Msg("Processing account")

	records := p.identityPass(ctx, acct, owned, result)

	// Crash-safety boundary: everything gathered so far survives an
	// interruption of the enrichment layers below.
	p.store.SaveRecords(records)

	p.statsPass(ctx, records)
	p.store.SaveRecords(records)

	p.estimatePass(ctx, records)
	p.store.SaveRecords(records)

	return records, nil
}

// identityPass walks the owned list in order, satisfying each game from the
// cache, the denylist, or a storefront fetch.
func (p *Pipeline) identityPass(ctx context.Context, acct Account, owned []library.OwnedGame, result *Result) []library.Record {
	deny := p.store.Denylist()
	cached := library.Index(p.store.Records())

	seen := make(map[int64]bool, len(owned))
	newDeny := make(map[int64]bool)
	records := make([]library.Record, 0, len(owned))
	step := ProgressStep(len(owned))

	for i, game := range owned {
		if (i+1)%step == 0 || i+1 == len(owned) {
			p.log.Info().Int("done", i+1).Int("total", len(owned)).
				Str("account_id", acct.ID).Msg("Identity layer progress")
		}

		// Ownership lists can contain duplicate entries; the first
		// occurrence within a run wins.
		if seen[game.AppID] {
			continue
		}
		seen[game.AppID] = true

		game.AccountID = acct.ID
		game.PrimaryAccount = acct.Primary

		if p.useCache {
			if rec, ok := cached[game.AppID]; ok && rec.HasIdentity() {
				rec.Owned = &game
				records = append(records, rec)
				result.FromCache++
				continue
			}
		}

		if deny[game.AppID] || newDeny[game.AppID] {
			result.Failures = append(result.Failures, Failure{
				AppID: game.AppID, AccountID: acct.ID, Reason: "denylisted",
			})
			continue
		}

		rec, err := p.details.AppDetails(ctx, game.AppID)
		if err != nil {
			reason := "fetch failed: " + err.Error()
			if errors.IsDelisted(err) {
				newDeny[game.AppID] = true
				reason = "delisted"
			}
			p.log.Warn().Err(err).Int64("app_id", game.AppID).Msg("Identity fetch failed")
			result.Failures = append(result.Failures, Failure{
				AppID: game.AppID, AccountID: acct.ID, Reason: reason,
			})
			continue
		}

		rec.Owned = &game
		records = append(records, *rec)
		result.Fetched++
	}

	p.store.SaveDenylist(newDeny)

	return records
}

// statsPass fills the statistics layer for records that do not have one
// yet (or for all of them, when the cache is bypassed).
func (p *Pipeline) statsPass(ctx context.Context, records []library.Record) {
	step := ProgressStep(len(records))

	for i := range records {
		if (i+1)%step == 0 || i+1 == len(records) {
			p.log.Info().Int("done", i+1).Int("total", len(records)).Msg("Stats layer progress")
		}

		if p.useCache && records[i].HasStats() {
			continue
		}

		stats, err := p.stats.AppStats(ctx, records[i].AppID)
		if err != nil {
			if errors.IsSourceExhausted(err) {
				p.log.Error().Err(err).Msg("Stats source exhausted, abandoning layer")
				return
			}
			p.log.Warn().Err(err).Int64("app_id", records[i].AppID).Msg("Stats fetch failed")
			continue
		}
		if stats == nil {
			continue // soft skip: the source has no data for this app
		}

		records[i].ApplyStats(stats)
	}
}

// estimatePass fills the estimate layer, flagging dubious name matches in
// the mismatch ledger for human review.
func (p *Pipeline) estimatePass(ctx context.Context, records []library.Record) {
	step := ProgressStep(len(records))
	var mismatches []cache.Mismatch

	for i := range records {
		if (i+1)%step == 0 || i+1 == len(records) {
			p.log.Info().Int("done", i+1).Int("total", len(records)).Msg("Estimate layer progress")
		}

		if p.useCache && records[i].HasEstimate() {
			continue
		}

		est, err := p.estimates.Lookup(ctx, records[i].Name)
		if err != nil {
			if errors.IsSourceExhausted(err) {
				p.log.Error().Err(err).Msg("Estimate source exhausted, abandoning layer")
				break
			}
			p.log.Warn().Err(err).Int64("app_id", records[i].AppID).Msg("Estimate lookup failed")
			continue
		}
		if est == nil {
			continue
		}

		if !p.matcher.Similar(records[i].Name, est.MatchedName) && !p.store.Adjudicated(records[i].AppID) {
			mismatches = append(mismatches, cache.Mismatch{
				AppID:       records[i].AppID,
				Name:        records[i].Name,
				MatchedName: est.MatchedName,
				Verdict:     cache.VerdictUnconfirmed,
			})
		}

		records[i].ApplyEstimate(est)
	}

	if len(mismatches) > 0 {
		p.store.SaveMismatches(mismatches)
	}
}

// mergeAccounts collapses per-account record sets by app id. A record from
// the primary account wins outright; between non-primary accounts the later
// one wins. The merged set comes back sorted by app id.
func mergeAccounts(perAccount [][]library.Record) []library.Record {
	merged := make(map[int64]library.Record)

	for _, records := range perAccount {
		for _, rec := range records {
			existing, ok := merged[rec.AppID]
			if ok && isPrimary(existing) && !isPrimary(rec) {
				continue
			}
			merged[rec.AppID] = rec
		}
	}

	out := make([]library.Record, 0, len(merged))
	for _, rec := range merged {
		out = append(out, rec)
	}
	library.Sort(out)

	return out
}

func isPrimary(rec library.Record) bool {
	return rec.Owned != nil && rec.Owned.PrimaryAccount
}

// summarize logs the end-of-run summary, naming every failed id.
func (p *Pipeline) summarize(result *Result) {
	event := p.log.Info().
		Int("records", len(result.Records)).
		Int("from_cache", result.FromCache).
		Int("fetched", result.Fetched).
		Int("failures", len(result.Failures))
	event.Msg("Reconciliation complete")

	for _, f := range result.Failures {
		p.log.Warn().Int64("app_id", f.AppID).Str("account_id", f.AccountID).
			Str("reason", f.Reason).Msg("Game not reconciled")
	}
}
