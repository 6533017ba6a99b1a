// Package steam implements the owned-games adapter against the Steam Web
// API. It is the one source keyed by account rather than by app.
package steam

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/agentstation/utc"

	"github.com/playshelf/gamesync/internal/transport"
	"github.com/playshelf/gamesync/pkg/constants"
	"github.com/playshelf/gamesync/pkg/errors"
	"github.com/playshelf/gamesync/pkg/library"
)

// DefaultBaseURL is the Steam Web API host.
const DefaultBaseURL = "https://api.steampowered.com"

// Client fetches owned-games lists.
type Client struct {
	transport *transport.Client
	baseURL   string
	apiKey    string
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

// New creates a Steam Web API client. The key is required for every call;
// a missing key surfaces as a configuration error at fetch time so the
// caller can abort the run before touching the cache.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		transport: transport.New("steam", constants.SteamRequestDelay),
		baseURL:   DefaultBaseURL,
		apiKey:    apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ownedGamesResponse is the GetOwnedGames payload shape.
type ownedGamesResponse struct {
	Response struct {
		GameCount int `json:"game_count"`
		Games     []struct {
			AppID           int64 `json:"appid"`
			PlaytimeForever int   `json:"playtime_forever"`
			RTimeLastPlayed int64 `json:"rtime_last_played"`
		} `json:"games"`
	} `json:"response"`
}

// OwnedGames returns the account's owned list in the order the API reports
// it. Playtime arrives in minutes and is converted to hours at one decimal.
func (c *Client) OwnedGames(ctx context.Context, accountID string) ([]library.OwnedGame, error) {
	if c.apiKey == "" {
		return nil, errors.NewConfigError("steam", "STEAM_API_KEY is not set", nil)
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("steamid", accountID)
	q.Set("include_played_free_games", "1")
	q.Set("include_appinfo", "0")
	q.Set("format", "json")

	endpoint := fmt.Sprintf("%s/IPlayerService/GetOwnedGames/v1/?%s", c.baseURL, q.Encode())

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload ownedGamesResponse
	if err := c.transport.Decode(resp, &payload); err != nil {
		return nil, err
	}

	owned := make([]library.OwnedGame, 0, len(payload.Response.Games))
	for _, g := range payload.Response.Games {
		o := library.OwnedGame{
			AppID:       g.AppID,
			AccountID:   accountID,
			HoursPlayed: math.Round(float64(g.PlaytimeForever)/60*10) / 10,
		}
		if g.RTimeLastPlayed > 0 {
			last := utc.New(time.Unix(g.RTimeLastPlayed, 0))
			o.LastPlayedAt = &last
		}
		owned = append(owned, o)
	}

	return owned, nil
}
