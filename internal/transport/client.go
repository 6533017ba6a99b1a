// Package transport provides the shared HTTP client for catalog source
// adapters: a fixed pre-request delay per source, JSON decoding that fails
// closed into the malformed-response classification, and status code
// mapping into the adapter failure taxonomy.
package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/playshelf/gamesync/pkg/constants"
	"github.com/playshelf/gamesync/pkg/errors"
)

// maxResponseBytes bounds response reads; none of the sources legitimately
// return bodies anywhere near this.
const maxResponseBytes = 8 << 20

// Client is an HTTP client bound to one catalog source.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	source  string
}

// New creates a client for the named source with a fixed inter-request
// delay. The delay applies before every request, including the first; the
// sources involved have undocumented limits and no retry-after signaling,
// so pacing is not adaptive.
func New(source string, delay time.Duration) *Client {
	limiter := rate.NewLimiter(rate.Every(delay), 1)
	limiter.Allow() // burn the initial token so the first request waits too

	return &Client{
		http:    &http.Client{Timeout: constants.DefaultHTTPTimeout},
		limiter: limiter,
		source:  source,
	}
}

// WithHTTPClient swaps the underlying http.Client. Used by tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// Source returns the source name this client is bound to.
func (c *Client) Source() string {
	return c.source
}

// Get performs a rate-limited GET.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil, nil)
}

// Post performs a rate-limited POST with a JSON body and optional extra
// headers.
func (c *Client) Post(ctx context.Context, url string, body any, headers map[string]string) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, url, body, headers)
}

// Do performs a rate-limited request. A non-nil body is marshaled to JSON.
func (c *Client) Do(ctx context.Context, method, url string, body any, headers map[string]string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.WrapAPI(c.source, 0, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.WrapAPI(c.source, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapAPI(c.source, 0, err)
	}
	return resp, nil
}

// Decode consumes and closes the response body, mapping non-2xx statuses
// into the failure taxonomy (429 is rate-limited, 404 not-found, 5xx
// transient) and decode failures into the malformed-response class.
func (c *Client) Decode(resp *http.Response, v any) error {
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.WrapAPI(c.source, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NewAPIError(c.source, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if err := json.Unmarshal(data, v); err != nil {
		return errors.WrapParse(c.source, err)
	}
	return nil
}
