// Package storefront implements the identity/catalog metadata adapter
// against the Steam storefront appdetails API. This is the primary
// metadata source and the only one that affirmatively reports delisted
// apps: a success:false envelope means the app no longer exists on the
// store, which feeds the denylist.
package storefront

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/agentstation/utc"
	"golang.org/x/text/language"

	"github.com/playshelf/gamesync/internal/transport"
	"github.com/playshelf/gamesync/pkg/constants"
	"github.com/playshelf/gamesync/pkg/errors"
	"github.com/playshelf/gamesync/pkg/library"
)

// DefaultBaseURL is the storefront API host.
const DefaultBaseURL = "https://store.steampowered.com"

// Client fetches per-app catalog metadata.
type Client struct {
	transport *transport.Client
	baseURL   string
	language  string
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

// New creates a storefront client for the given language code.
func New(language string, opts ...Option) *Client {
	if language == "" {
		language = constants.DefaultLanguage
	}
	c := &Client{
		transport: transport.New("storefront", constants.StorefrontRequestDelay),
		baseURL:   DefaultBaseURL,
		language:  language,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ValidateLanguage checks that a storefront language code is a well-formed
// BCP 47 tag. The storefront itself silently falls back to English for
// unknown codes, which hides typos; failing at configuration time does not.
func ValidateLanguage(code string) error {
	if code == "" {
		return nil
	}
	if _, err := language.Parse(code); err != nil {
		return errors.NewConfigError("storefront", fmt.Sprintf("invalid language code %q", code), err)
	}
	return nil
}

// appDetailsEnvelope is the per-app entry of the appdetails response, which
// arrives keyed by the app id as a string.
type appDetailsEnvelope struct {
	Success bool           `json:"success"`
	Data    appDetailsData `json:"data"`
}

type appDetailsData struct {
	Name                string `json:"name"`
	ShortDescription    string `json:"short_description"`
	AboutTheGame        string `json:"about_the_game"`
	DetailedDescription string `json:"detailed_description"`
	HeaderImage         string `json:"header_image"`
	Screenshots         []struct {
		PathFull string `json:"path_full"`
	} `json:"screenshots"`
	Movies []struct {
		Webm struct {
			Max string `json:"max"`
		} `json:"webm"`
	} `json:"movies"`
	Developers []string `json:"developers"`
	Publishers []string `json:"publishers"`
	Categories []struct {
		Description string `json:"description"`
	} `json:"categories"`
	Genres []struct {
		Description string `json:"description"`
	} `json:"genres"`
	Metacritic *struct {
		Score int `json:"score"`
	} `json:"metacritic"`
	ReleaseDate struct {
		Date string `json:"date"`
	} `json:"release_date"`
}

// AppDetails fetches the identity layer for one app. A success:false
// envelope is reported as ErrDelisted; a missing envelope for the
// requested id fails closed as a malformed response.
func (c *Client) AppDetails(ctx context.Context, appID int64) (*library.Record, error) {
	endpoint := fmt.Sprintf("%s/api/appdetails?appids=%d&l=%s", c.baseURL, appID, c.language)

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload map[string]appDetailsEnvelope
	if err := c.transport.Decode(resp, &payload); err != nil {
		return nil, err
	}

	envelope, ok := payload[strconv.FormatInt(appID, 10)]
	if !ok {
		return nil, errors.WrapParse("storefront", fmt.Errorf("no envelope for app %d", appID))
	}
	if !envelope.Success {
		return nil, fmt.Errorf("app %d: %w", appID, errors.ErrDelisted)
	}

	return c.normalize(appID, envelope.Data), nil
}

// normalize maps the appdetails payload into the record's identity layer.
func (c *Client) normalize(appID int64, data appDetailsData) *library.Record {
	now := utc.Now()
	rec := &library.Record{
		AppID:               appID,
		Name:                data.Name,
		ShortDescription:    data.ShortDescription,
		AboutText:           data.AboutTheGame,
		DetailedDescription: data.DetailedDescription,
		HeaderImage:         data.HeaderImage,
		Developers:          data.Developers,
		Publishers:          data.Publishers,
		ReleaseDate:         data.ReleaseDate.Date,
		FetchedAt:           &now,
	}

	for _, s := range data.Screenshots {
		rec.Screenshots = append(rec.Screenshots, s.PathFull)
	}
	for _, m := range data.Movies {
		if m.Webm.Max != "" {
			rec.Movies = append(rec.Movies, m.Webm.Max)
		}
	}
	for _, cat := range data.Categories {
		rec.Categories = append(rec.Categories, cat.Description)
	}
	for _, g := range data.Genres {
		rec.Genres = append(rec.Genres, g.Description)
	}
	if data.Metacritic != nil {
		score := data.Metacritic.Score
		rec.MetacriticScore = &score
	}
	if epoch, ok := parseReleaseDate(data.ReleaseDate.Date); ok {
		rec.ReleaseEpoch = epoch
	}

	return rec
}

// releaseDateLayouts covers the formats the storefront actually emits,
// which vary by app age and by the requested language's date style.
var releaseDateLayouts = []string{
	"2 Jan, 2006",
	"Jan 2, 2006",
	"Jan 2006",
	"2006",
}

func parseReleaseDate(date string) (int64, bool) {
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Unix(), true
		}
	}
	return 0, false
}
