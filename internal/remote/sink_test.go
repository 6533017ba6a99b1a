package remote

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playshelf/gamesync/pkg/constants"
	"github.com/playshelf/gamesync/pkg/errors"
	"github.com/playshelf/gamesync/pkg/library"
	"github.com/playshelf/gamesync/pkg/logging"
)

// fakeStore is an in-memory collection service with the service-side
// behavior the sink depends on: opaque ids distinct from app ids, and
// offset/limit pagination.
type fakeStore struct {
	records []Record

	lists   int
	creates int
	updates int

	failCreateAt int64 // app id whose create fails
	failUpdateAt int64
	failList     bool
	endless      bool // always return full pages
}

func (f *fakeStore) seed(appID int64) string {
	id := uuid.NewString()
	f.records = append(f.records, Record{ID: id, Fields: Fields{AppID: appID, Name: fmt.Sprintf("Seeded %d", appID)}})
	return id
}

func (f *fakeStore) List(_ context.Context, offset, limit int) ([]Record, error) {
	f.lists++
	if f.failList {
		return nil, errors.NewAPIError("remote", 500, "listing failed")
	}
	if f.endless {
		page := make([]Record, limit)
		for i := range page {
			page[i] = Record{ID: uuid.NewString()}
		}
		return page, nil
	}
	if offset >= len(f.records) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.records) {
		end = len(f.records)
	}
	return f.records[offset:end], nil
}

func (f *fakeStore) Create(_ context.Context, fields Fields) (string, error) {
	f.creates++
	if f.failCreateAt != 0 && fields.AppID == f.failCreateAt {
		return "", errors.NewAPIError("remote", 401, "unauthorized")
	}
	id := uuid.NewString()
	f.records = append(f.records, Record{ID: id, Fields: fields})
	return id, nil
}

func (f *fakeStore) Update(_ context.Context, id string, fields Fields) error {
	f.updates++
	if f.failUpdateAt != 0 && fields.AppID == f.failUpdateAt {
		return errors.NewAPIError("remote", 401, "unauthorized")
	}
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Fields = fields
			return nil
		}
	}
	return errors.NewAPIError("remote", 404, "no such record")
}

func (f *fakeStore) byAppID(appID int64) *Record {
	for i := range f.records {
		if f.records[i].Fields.AppID == appID {
			return &f.records[i]
		}
	}
	return nil
}

func rec(appID int64, name string) library.Record {
	return library.Record{AppID: appID, Name: name}
}

func TestUpsertKeysByAppID(t *testing.T) {
	store := &fakeStore{}
	existing := store.seed(220)
	sink := NewSink(store, &logging.Nop)

	err := sink.UpsertAll(context.Background(), []library.Record{
		rec(220, "Half-Life 2"),
		rec(440, "Team Fortress 2"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, store.updates, "the seeded app id is updated, not duplicated")
	assert.Equal(t, 1, store.creates)

	got := store.byAppID(220)
	require.NotNil(t, got)
	assert.Equal(t, existing, got.ID, "the update targeted the internal id")
	assert.Equal(t, "Half-Life 2", got.Fields.Name, "source values overwrite remote values")
}

func TestUpsertFailFast(t *testing.T) {
	store := &fakeStore{failCreateAt: 3}
	sink := NewSink(store, &logging.Nop)

	records := make([]library.Record, 0, 5)
	for id := int64(1); id <= 5; id++ {
		records = append(records, rec(id, fmt.Sprintf("Game %d", id)))
	}

	err := sink.UpsertAll(context.Background(), records)
	require.Error(t, err)

	var sinkErr *errors.SinkError
	require.ErrorAs(t, err, &sinkErr)
	assert.Equal(t, int64(3), sinkErr.AppID)
	assert.Equal(t, "create", sinkErr.Operation)
	assert.Equal(t, 3, store.creates, "records after the failure are never attempted")
}

func TestUpsertListFailureAbortsBeforeWrites(t *testing.T) {
	store := &fakeStore{failList: true}
	sink := NewSink(store, &logging.Nop)

	err := sink.UpsertAll(context.Background(), []library.Record{rec(220, "x")})
	require.Error(t, err)
	assert.Zero(t, store.creates)
	assert.Zero(t, store.updates)
}

func TestIndexPaginatesAndStopsOnShortPage(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < constants.RemotePageSize+25; i++ {
		store.seed(int64(1000 + i))
	}
	sink := NewSink(store, &logging.Nop)

	err := sink.UpsertAll(context.Background(), []library.Record{rec(1000, "First")})
	require.NoError(t, err)
	assert.Equal(t, 2, store.lists)
	assert.Equal(t, 1, store.updates)
	assert.Zero(t, store.creates)
}

func TestIndexPageCap(t *testing.T) {
	store := &fakeStore{endless: true}
	sink := NewSink(store, &logging.Nop)

	err := sink.UpsertAll(context.Background(), []library.Record{rec(220, "x")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPageCapExceeded))
	assert.Equal(t, constants.RemoteMaxPages, store.lists)
}

func TestProjectPrimaryOwnership(t *testing.T) {
	r := rec(220, "Half-Life 2")
	r.Owned = &library.OwnedGame{AppID: 220, AccountID: "main", HoursPlayed: 12.5, PrimaryAccount: true}

	f := project(r)
	require.NotNil(t, f.HoursPlayed)
	assert.Equal(t, 12.5, *f.HoursPlayed)
}

func TestProjectSecondaryOwnershipStaysLocal(t *testing.T) {
	r := rec(220, "Half-Life 2")
	r.Owned = &library.OwnedGame{AppID: 220, AccountID: "alt", HoursPlayed: 3}

	f := project(r)
	assert.Nil(t, f.HoursPlayed, "secondary-account playtime is not pushed")
	assert.Nil(t, f.LastPlayedAt)
}

func TestProjectLayers(t *testing.T) {
	r := rec(220, "Half-Life 2")
	score := 96
	r.MetacriticScore = &score
	r.Stats = &library.Stats{TotalReviews: 100, PositiveReviews: 97, NegativeReviews: 3, ReviewCategory: library.ReviewOverwhelminglyPositive}
	r.Estimate = &library.Estimate{MainHours: 13, MainExtraHours: 16, CompletionistHours: 21, URL: "https://example.com/game/4966"}

	f := project(r)
	assert.Equal(t, 97, f.PositiveReviews)
	assert.Equal(t, library.ReviewOverwhelminglyPositive, f.ReviewCategory)
	assert.Equal(t, 13, f.MainHours)
	assert.Equal(t, "https://example.com/game/4966", f.EstimateURL)
	require.NotNil(t, f.MetacriticScore)
	assert.Equal(t, 96, *f.MetacriticScore)
}
