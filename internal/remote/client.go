// Package remote implements the upsert sink for the hosted collection
// service: a keyed record store with paginated reads and per-record
// create/update writes. Records are keyed internally by an opaque
// identifier the service assigns; the app id lives in a plain field and
// is always looked up, never assumed equal to the internal id.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/agentstation/utc"

	"github.com/playshelf/gamesync/internal/transport"
	"github.com/playshelf/gamesync/pkg/constants"
	"github.com/playshelf/gamesync/pkg/errors"
)

// Fields is the projection of a reconciled record onto the collection
// schema. Source values always overwrite remote values; there is no
// fill-only-if-empty merge on the service side.
type Fields struct {
	AppID            int64    `json:"appId"`
	Name             string   `json:"name"`
	ShortDescription string   `json:"shortDescription,omitempty"`
	HeaderImage      string   `json:"headerImage,omitempty"`
	Developers       []string `json:"developers,omitempty"`
	Publishers       []string `json:"publishers,omitempty"`
	Categories       []string `json:"categories,omitempty"`
	Genres           []string `json:"genres,omitempty"`
	MetacriticScore  *int     `json:"metacriticScore,omitempty"`
	ReleaseDate      string   `json:"releaseDate,omitempty"`

	TotalReviews    int    `json:"totalReviews,omitempty"`
	PositiveReviews int    `json:"positiveReviews,omitempty"`
	NegativeReviews int    `json:"negativeReviews,omitempty"`
	ReviewCategory  string `json:"reviewCategory,omitempty"`

	MainHours          int    `json:"mainHours,omitempty"`
	MainExtraHours     int    `json:"mainExtraHours,omitempty"`
	CompletionistHours int    `json:"completionistHours,omitempty"`
	EstimateURL        string `json:"estimateUrl,omitempty"`

	HoursPlayed  *float64  `json:"hoursPlayed,omitempty"`
	LastPlayedAt *utc.Time `json:"lastPlayedAt,omitempty"`
}

// Record is a record as held by the collection service.
type Record struct {
	ID     string `json:"id"`
	Fields Fields `json:"fields"`
}

// Config carries the collection service connection settings.
type Config struct {
	BaseURL      string
	APIKey       string
	CollectionID string
}

// Client talks to one collection on the service.
type Client struct {
	transport *transport.Client
	cfg       Config
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTransport swaps the underlying transport. Used by tests.
func WithTransport(t *transport.Client) ClientOption {
	return func(c *Client) { c.transport = t }
}

// NewClient validates the configuration and returns a client for the
// configured collection.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	switch {
	case cfg.BaseURL == "":
		return nil, errors.NewConfigError("remote", "COLLECTION_URL is not set", errors.ErrMissingConfig)
	case cfg.APIKey == "":
		return nil, errors.NewConfigError("remote", "COLLECTION_API_KEY is not set", errors.ErrMissingConfig)
	case cfg.CollectionID == "":
		return nil, errors.NewConfigError("remote", "COLLECTION_ID is not set", errors.ErrMissingConfig)
	}

	c := &Client{
		transport: transport.New("remote", constants.RemoteRequestDelay),
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
}

func (c *Client) recordsURL() string {
	return fmt.Sprintf("%s/collections/%s/records", c.cfg.BaseURL, url.PathEscape(c.cfg.CollectionID))
}

type listResponse struct {
	Records []Record `json:"records"`
	Total   int      `json:"total"`
}

// List returns one page of records starting at offset.
func (c *Client) List(ctx context.Context, offset, limit int) ([]Record, error) {
	u := fmt.Sprintf("%s?offset=%d&limit=%d", c.recordsURL(), offset, limit)

	resp, err := c.transport.Do(ctx, http.MethodGet, u, nil, c.headers())
	if err != nil {
		return nil, err
	}

	var page listResponse
	if err := c.transport.Decode(resp, &page); err != nil {
		return nil, err
	}
	return page.Records, nil
}

// Create inserts a new record and returns the service-assigned id.
func (c *Client) Create(ctx context.Context, fields Fields) (string, error) {
	resp, err := c.transport.Post(ctx, c.recordsURL(), Record{Fields: fields}, c.headers())
	if err != nil {
		return "", err
	}

	var created Record
	if err := c.transport.Decode(resp, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// Update overwrites the fields of an existing record by internal id.
func (c *Client) Update(ctx context.Context, id string, fields Fields) error {
	u := c.recordsURL() + "/" + url.PathEscape(id)

	resp, err := c.transport.Do(ctx, http.MethodPatch, u, Record{ID: id, Fields: fields}, c.headers())
	if err != nil {
		return err
	}

	var updated Record
	return c.transport.Decode(resp, &updated)
}
