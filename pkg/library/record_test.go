package library

import (
	"testing"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
)

func TestStrippedDropsOwnership(t *testing.T) {
	now := utc.Now()
	rec := Record{
		AppID:     620,
		Name:      "Portal 2",
		FetchedAt: &now,
		Owned: &OwnedGame{
			AppID:       620,
			AccountID:   "76561198000000001",
			HoursPlayed: 12.5,
		},
	}

	stripped := rec.Stripped()
	assert.Nil(t, stripped.Owned)
	assert.NotNil(t, rec.Owned, "Stripped must not mutate the original")
	assert.Equal(t, rec.AppID, stripped.AppID)
	assert.Equal(t, rec.Name, stripped.Name)
}

func TestLayerPresence(t *testing.T) {
	var rec Record
	assert.False(t, rec.HasIdentity())
	assert.False(t, rec.HasStats())
	assert.False(t, rec.HasEstimate())

	now := utc.Now()
	rec.FetchedAt = &now
	rec.ApplyStats(&Stats{TotalReviews: 100, UpdatedAt: now})
	rec.ApplyEstimate(&Estimate{MainHours: 8, UpdatedAt: now})

	assert.True(t, rec.HasIdentity())
	assert.True(t, rec.HasStats())
	assert.True(t, rec.HasEstimate())
}

func TestSortAndIndex(t *testing.T) {
	records := []Record{{AppID: 440}, {AppID: 220}, {AppID: 620}}
	Sort(records)

	assert.Equal(t, int64(220), records[0].AppID)
	assert.Equal(t, int64(440), records[1].AppID)
	assert.Equal(t, int64(620), records[2].AppID)

	idx := Index(records)
	assert.Len(t, idx, 3)
	assert.Equal(t, int64(440), idx[440].AppID)
}
