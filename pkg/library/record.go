// Package library defines the data model for the gamesync system: the
// durable enriched record, its per-run ownership overlay, and the derived
// values (review category, whole-hour estimates) computed from source data.
package library

import (
	"sort"

	"github.com/agentstation/utc"
)

// Record is the durable, cached unit of the library, keyed by AppID.
// Fields accumulate in layers: the identity/catalog layer is set on first
// successful storefront fetch, the stats and estimate layers are merged in
// afterwards. A nil layer pointer (or zero FetchedAt) means that layer has
// never run for this id, not that it failed.
type Record struct {
	AppID int64 `json:"app_id"`

	// Identity/catalog layer
	Name                string    `json:"name"`
	ShortDescription    string    `json:"short_description,omitempty"`
	AboutText           string    `json:"about,omitempty"`
	DetailedDescription string    `json:"detailed_description,omitempty"`
	HeaderImage         string    `json:"header_image,omitempty"`
	Screenshots         []string  `json:"screenshots,omitempty"`
	Movies              []string  `json:"movies,omitempty"`
	Developers          []string  `json:"developers,omitempty"`
	Publishers          []string  `json:"publishers,omitempty"`
	Categories          []string  `json:"categories,omitempty"`
	Genres              []string  `json:"genres,omitempty"`
	MetacriticScore     *int      `json:"metacritic_score,omitempty"`
	ReleaseDate         string    `json:"release_date,omitempty"`
	ReleaseEpoch        int64     `json:"release_epoch,omitempty"`
	FetchedAt           *utc.Time `json:"fetched_at,omitempty"`

	// Statistics layer
	Stats *Stats `json:"stats,omitempty"`

	// Estimate layer
	Estimate *Estimate `json:"estimate,omitempty"`

	// Owned is the per-run ownership overlay for the account that produced
	// this run's view. It is never persisted to the cache.
	Owned *OwnedGame `json:"-"`
}

// Stats holds the aggregated community statistics layer.
type Stats struct {
	TotalReviews    int    `json:"total_reviews"`
	PositiveReviews int    `json:"positive_reviews"`
	NegativeReviews int    `json:"negative_reviews"`
	ReviewCategory  string `json:"review_category,omitempty"`

	// Aggregate playtime, in minutes, as reported by the source.
	AverageForever int `json:"average_forever"`
	MedianForever  int `json:"median_forever"`
	Average2Weeks  int `json:"average_2weeks"`
	Median2Weeks   int `json:"median_2weeks"`

	Tags []TagWeight `json:"tags,omitempty"`

	UpdatedAt utc.Time `json:"updated_at"`
}

// TagWeight is a community tag with its vote score.
type TagWeight struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Estimate holds the time-to-beat estimate layer. Durations are whole
// hours, rounded from the source's seconds.
type Estimate struct {
	MatchedName        string `json:"matched_name"`
	MainHours          int    `json:"main_hours"`
	MainExtraHours     int    `json:"main_extra_hours"`
	CompletionistHours int    `json:"completionist_hours"`
	URL                string `json:"url,omitempty"`

	UpdatedAt utc.Time `json:"updated_at"`
}

// HasIdentity reports whether the identity/catalog layer has ever run.
func (r *Record) HasIdentity() bool {
	return r.FetchedAt != nil
}

// HasStats reports whether the statistics layer has ever run.
func (r *Record) HasStats() bool {
	return r.Stats != nil
}

// HasEstimate reports whether the estimate layer has ever run.
func (r *Record) HasEstimate() bool {
	return r.Estimate != nil
}

// ApplyStats merges the statistics layer into the record in place.
func (r *Record) ApplyStats(s *Stats) {
	r.Stats = s
}

// ApplyEstimate merges the estimate layer into the record in place.
func (r *Record) ApplyEstimate(e *Estimate) {
	r.Estimate = e
}

// Stripped returns a copy of the record without the per-run ownership
// overlay, suitable for cache persistence.
func (r Record) Stripped() Record {
	r.Owned = nil
	return r
}

// Sort orders records by AppID ascending, in place, for reproducible
// cache files and deterministic upsert order.
func Sort(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].AppID < records[j].AppID
	})
}

// Index builds an AppID lookup over records.
func Index(records []Record) map[int64]Record {
	idx := make(map[int64]Record, len(records))
	for _, r := range records {
		idx[r.AppID] = r
	}
	return idx
}
