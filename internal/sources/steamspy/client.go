// Package steamspy implements the community-statistics adapter. SteamSpy
// answers 200 for apps it has never heard of, so "no data" is detected by
// absence of expected payload fields and treated as a soft skip, never as
// a failure.
package steamspy

import (
	"context"
	"fmt"
	"sort"

	"github.com/agentstation/utc"
	"github.com/goccy/go-json"

	"github.com/playshelf/gamesync/internal/transport"
	"github.com/playshelf/gamesync/pkg/constants"
	"github.com/playshelf/gamesync/pkg/library"
)

// DefaultBaseURL is the SteamSpy API host.
const DefaultBaseURL = "https://steamspy.com"

// Client fetches aggregate play statistics and tag weights.
type Client struct {
	transport *transport.Client
	baseURL   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTransport overrides the transport client. Used by tests.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) { c.transport = t }
}

// New creates a SteamSpy client.
func New(opts ...Option) *Client {
	c := &Client{
		transport: transport.New("steamspy", constants.SteamSpyRequestDelay),
		baseURL:   DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// appStatsResponse is the appdetails payload shape. Tags is an object of
// name to vote score for known apps but an empty JSON array for unknown
// ones, so it has to be decoded lazily.
type appStatsResponse struct {
	Name           string          `json:"name"`
	Positive       int             `json:"positive"`
	Negative       int             `json:"negative"`
	AverageForever int             `json:"average_forever"`
	Average2Weeks  int             `json:"average_2weeks"`
	MedianForever  int             `json:"median_forever"`
	Median2Weeks   int             `json:"median_2weeks"`
	Tags           json.RawMessage `json:"tags"`
}

// AppStats fetches the statistics layer for one app. A payload without the
// expected fields yields (nil, nil): SteamSpy simply has no data for the
// app and the record stays as it was.
func (c *Client) AppStats(ctx context.Context, appID int64) (*library.Stats, error) {
	endpoint := fmt.Sprintf("%s/api.php?request=appdetails&appid=%d", c.baseURL, appID)

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload appStatsResponse
	if err := c.transport.Decode(resp, &payload); err != nil {
		return nil, err
	}

	// Soft no-data: an unknown app comes back as an all-zero shell.
	if payload.Name == "" && payload.Positive == 0 && payload.Negative == 0 {
		return nil, nil
	}

	stats := &library.Stats{
		TotalReviews:    payload.Positive + payload.Negative,
		PositiveReviews: payload.Positive,
		NegativeReviews: payload.Negative,
		ReviewCategory:  library.ReviewCategory(payload.Positive, payload.Negative),
		AverageForever:  payload.AverageForever,
		MedianForever:   payload.MedianForever,
		Average2Weeks:   payload.Average2Weeks,
		Median2Weeks:    payload.Median2Weeks,
		Tags:            parseTags(payload.Tags),
		UpdatedAt:       utc.Now(),
	}

	return stats, nil
}

// parseTags decodes the tag-weight map, tolerating the empty-array shape.
// Tags are returned sorted by descending score, ties by name, so cached
// records diff cleanly between runs.
func parseTags(raw json.RawMessage) []library.TagWeight {
	var byName map[string]int
	if err := json.Unmarshal(raw, &byName); err != nil || len(byName) == 0 {
		return nil
	}

	tags := make([]library.TagWeight, 0, len(byName))
	for name, score := range byName {
		tags = append(tags, library.TagWeight{Name: name, Score: score})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Score != tags[j].Score {
			return tags[i].Score > tags[j].Score
		}
		return tags[i].Name < tags[j].Name
	})

	return tags
}
