package remote

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/playshelf/gamesync/pkg/constants"
	"github.com/playshelf/gamesync/pkg/errors"
	"github.com/playshelf/gamesync/pkg/library"
	"github.com/playshelf/gamesync/pkg/logging"
)

// Writer is the slice of the collection client the sink needs.
type Writer interface {
	List(ctx context.Context, offset, limit int) ([]Record, error)
	Create(ctx context.Context, fields Fields) (string, error)
	Update(ctx context.Context, id string, fields Fields) error
}

// Sink pushes reconciled records into the collection, keyed by app id.
type Sink struct {
	client Writer
	log    *zerolog.Logger
}

// NewSink creates a sink over the given collection client.
func NewSink(client Writer, logger *zerolog.Logger) *Sink {
	if logger == nil {
		logger = logging.Default()
	}
	return &Sink{client: client, log: logger}
}

// UpsertAll writes every record to the collection. It first pages through
// the collection to index app id to internal id, then updates records
// already present and creates the rest. The first write failure aborts the
// remaining batch: one failure usually means auth or schema drift that
// would repeat for every record after it.
func (s *Sink) UpsertAll(ctx context.Context, records []library.Record) error {
	index, err := s.index(ctx)
	if err != nil {
		return err
	}

	created, updated := 0, 0
	for _, rec := range records {
		fields := project(rec)

		if id, ok := index[rec.AppID]; ok {
			if err := s.client.Update(ctx, id, fields); err != nil {
				return &errors.SinkError{Operation: "update", AppID: rec.AppID, Err: err}
			}
			updated++
			continue
		}

		if _, err := s.client.Create(ctx, fields); err != nil {
			return &errors.SinkError{Operation: "create", AppID: rec.AppID, Err: err}
		}
		created++
	}

	s.log.Info().
		Int("created", created).
		Int("updated", updated).
		Msg("collection upsert complete")
	return nil
}

// index pages through the collection building the app id lookup. The page
// count is capped as a safety bound against a remote that never stops
// returning results.
func (s *Sink) index(ctx context.Context) (map[int64]string, error) {
	idx := make(map[int64]string)

	for page := 0; ; page++ {
		if page >= constants.RemoteMaxPages {
			return nil, fmt.Errorf("remote index at %d pages: %w", page, errors.ErrPageCapExceeded)
		}

		batch, err := s.client.List(ctx, page*constants.RemotePageSize, constants.RemotePageSize)
		if err != nil {
			return nil, &errors.SinkError{Operation: "list", Err: err}
		}

		for _, r := range batch {
			idx[r.Fields.AppID] = r.ID
		}
		if len(batch) < constants.RemotePageSize {
			return idx, nil
		}
	}
}

// project maps a reconciled record onto the collection schema. The
// ownership overlay contributes playtime fields only when it came from the
// primary account; hours from secondary accounts stay local.
func project(rec library.Record) Fields {
	f := Fields{
		AppID:            rec.AppID,
		Name:             rec.Name,
		ShortDescription: rec.ShortDescription,
		HeaderImage:      rec.HeaderImage,
		Developers:       rec.Developers,
		Publishers:       rec.Publishers,
		Categories:       rec.Categories,
		Genres:           rec.Genres,
		MetacriticScore:  rec.MetacriticScore,
		ReleaseDate:      rec.ReleaseDate,
	}

	if rec.Stats != nil {
		f.TotalReviews = rec.Stats.TotalReviews
		f.PositiveReviews = rec.Stats.PositiveReviews
		f.NegativeReviews = rec.Stats.NegativeReviews
		f.ReviewCategory = rec.Stats.ReviewCategory
	}

	if rec.Estimate != nil {
		f.MainHours = rec.Estimate.MainHours
		f.MainExtraHours = rec.Estimate.MainExtraHours
		f.CompletionistHours = rec.Estimate.CompletionistHours
		f.EstimateURL = rec.Estimate.URL
	}

	if rec.Owned != nil && rec.Owned.PrimaryAccount {
		hours := rec.Owned.HoursPlayed
		f.HoursPlayed = &hours
		f.LastPlayedAt = rec.Owned.LastPlayedAt
	}

	return f
}
