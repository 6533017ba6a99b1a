// Package hltb implements the time-to-beat estimate adapter. The estimate
// site has no public API: queries require a session token captured out of
// band, sessions expire without warning, and the failure policy reflects
// that. The client escalates its delay linearly per consecutive failure,
// recaptures the token every few failures, and trips a circuit breaker at
// a hard ceiling, at which point the whole estimate layer is abandoned for
// the run.
package hltb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/utc"
	"github.com/sony/gobreaker/v2"

	"github.com/playshelf/gamesync/internal/transport"
	"github.com/playshelf/gamesync/pkg/constants"
	"github.com/playshelf/gamesync/pkg/errors"
	"github.com/playshelf/gamesync/pkg/library"
)

// DefaultBaseURL is the estimate site host.
const DefaultBaseURL = "https://howlongtobeat.com"

// Client looks up time-to-beat estimates by game name.
type Client struct {
	transport *transport.Client
	tokens    TokenProvider
	breaker   *gobreaker.CircuitBreaker[*searchResponse]
	baseURL   string
	baseDelay time.Duration

	token    string
	failures int // consecutive failures; drives escalation and reauth
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the site host. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTransport overrides the transport client. Used by tests.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) { c.transport = t }
}

// WithBaseDelay overrides the escalation base delay. Used by tests.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) { c.baseDelay = d }
}

// New creates an estimate client backed by the given token provider.
func New(tokens TokenProvider, opts ...Option) *Client {
	c := &Client{
		transport: transport.New("hltb", constants.HLTBRequestDelay),
		tokens:    tokens,
		baseURL:   DefaultBaseURL,
		baseDelay: constants.HLTBRequestDelay,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker[*searchResponse](gobreaker.Settings{
		Name: "hltb",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= constants.HLTBFailureCeiling
		},
		// Once tripped, stay exhausted for the remainder of any plausible run.
		Timeout: 24 * time.Hour,
	})

	return c
}

type searchRequest struct {
	SearchType  string   `json:"searchType"`
	SearchTerms []string `json:"searchTerms"`
	SearchPage  int      `json:"searchPage"`
	Size        int      `json:"size"`
}

type searchResponse struct {
	Data []searchResult `json:"data"`
}

type searchResult struct {
	GameID   int64   `json:"game_id"`
	GameName string  `json:"game_name"`
	CompMain float64 `json:"comp_main"`
	CompPlus float64 `json:"comp_plus"`
	Comp100  float64 `json:"comp_100"`
}

// Lookup searches the estimate source for a game by name. No match is a
// soft skip (nil, nil). Once the consecutive-failure ceiling is hit the
// client returns ErrSourceExhausted for every subsequent call this run.
func (c *Client) Lookup(ctx context.Context, name string) (*library.Estimate, error) {
	result, err := c.breaker.Execute(func() (*searchResponse, error) {
		return c.search(ctx, name)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("hltb: %w", errors.ErrSourceExhausted)
		}

		c.failures++
		if c.failures%constants.HLTBReauthAfter == 0 {
			// The session may have expired; force a recapture next attempt.
			c.token = ""
		}
		return nil, err
	}

	c.failures = 0

	if len(result.Data) == 0 {
		return nil, nil
	}

	best := result.Data[0]
	return &library.Estimate{
		MatchedName:        best.GameName,
		MainHours:          library.WholeHours(best.CompMain),
		MainExtraHours:     library.WholeHours(best.CompPlus),
		CompletionistHours: library.WholeHours(best.Comp100),
		URL:                fmt.Sprintf("%s/game/%d", c.baseURL, best.GameID),
		UpdatedAt:          utc.Now(),
	}, nil
}

// search performs one token-authenticated query, waiting out the current
// escalation delay first.
func (c *Client) search(ctx context.Context, name string) (*searchResponse, error) {
	if err := c.backoff(ctx); err != nil {
		return nil, err
	}

	if c.token == "" {
		token, err := c.tokens.Capture(ctx)
		if err != nil {
			return nil, err
		}
		c.token = token
	}

	body := searchRequest{
		SearchType:  "games",
		SearchTerms: strings.Fields(name),
		SearchPage:  1,
		Size:        5,
	}

	resp, err := c.transport.Post(ctx, c.baseURL+"/api/search", body, map[string]string{
		"X-Session-Token": c.token,
	})
	if err != nil {
		return nil, err
	}

	var payload searchResponse
	if err := c.transport.Decode(resp, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// backoff sleeps failures*baseDelay, linearly escalating with each
// consecutive failure on top of the transport's fixed pacing.
func (c *Client) backoff(ctx context.Context) error {
	if c.failures == 0 {
		return nil
	}

	timer := time.NewTimer(time.Duration(c.failures) * c.baseDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
