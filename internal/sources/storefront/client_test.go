package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playshelf/gamesync/internal/transport"
	"github.com/playshelf/gamesync/pkg/errors"
)

func newTestClient(url string) *Client {
	return New("en",
		WithBaseURL(url),
		WithTransport(transport.New("storefront", time.Millisecond)),
	)
}

func TestAppDetailsNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "appids=620&l=en", r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"620":{"success":true,"data":{
			"name":"Portal 2",
			"short_description":"Sequel",
			"header_image":"https://cdn.example/620.jpg",
			"screenshots":[{"path_full":"https://cdn.example/s1.jpg"}],
			"movies":[{"webm":{"max":"https://cdn.example/m1.webm"}}],
			"developers":["Valve"],
			"publishers":["Valve"],
			"categories":[{"description":"Single-player"}],
			"genres":[{"description":"Puzzle"}],
			"metacritic":{"score":95},
			"release_date":{"date":"18 Apr, 2011"}
		}}}`))
	}))
	defer srv.Close()

	rec, err := newTestClient(srv.URL).AppDetails(context.Background(), 620)
	require.NoError(t, err)

	assert.Equal(t, int64(620), rec.AppID)
	assert.Equal(t, "Portal 2", rec.Name)
	assert.Equal(t, []string{"Valve"}, rec.Developers)
	assert.Equal(t, []string{"Puzzle"}, rec.Genres)
	assert.Equal(t, []string{"https://cdn.example/s1.jpg"}, rec.Screenshots)
	require.NotNil(t, rec.MetacriticScore)
	assert.Equal(t, 95, *rec.MetacriticScore)
	assert.Equal(t, "18 Apr, 2011", rec.ReleaseDate)
	assert.NotZero(t, rec.ReleaseEpoch)
	require.NotNil(t, rec.FetchedAt, "identity fetch must stamp the layer")
}

func TestAppDetailsDelisted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"99999":{"success":false}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).AppDetails(context.Background(), 99999)
	assert.True(t, errors.IsDelisted(err), "success:false must classify as delisted")
}

func TestAppDetailsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).AppDetails(context.Background(), 620)
	assert.True(t, errors.IsRateLimited(err))
	assert.False(t, errors.IsDelisted(err), "a 429 must never feed the denylist")
}

func TestAppDetailsMissingEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).AppDetails(context.Background(), 620)
	assert.True(t, errors.Is(err, errors.ErrMalformedResponse))
}

func TestParseReleaseDate(t *testing.T) {
	tests := []struct {
		date string
		ok   bool
	}{
		{"18 Apr, 2011", true},
		{"Apr 18, 2011", true},
		{"Apr 2011", true},
		{"2011", true},
		{"Coming soon", false},
		{"", false},
	}

	for _, tt := range tests {
		_, ok := parseReleaseDate(tt.date)
		assert.Equal(t, tt.ok, ok, "date=%q", tt.date)
	}
}

func TestValidateLanguage(t *testing.T) {
	assert.NoError(t, ValidateLanguage("en"))
	assert.NoError(t, ValidateLanguage("pt-BR"))
	assert.NoError(t, ValidateLanguage(""))
	assert.Error(t, ValidateLanguage("not a language"))
}
