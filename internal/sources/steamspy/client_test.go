package steamspy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playshelf/gamesync/internal/transport"
	"github.com/playshelf/gamesync/pkg/library"
)

func newTestClient(url string) *Client {
	return New(WithBaseURL(url), WithTransport(transport.New("steamspy", time.Millisecond)))
}

func TestAppStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "request=appdetails&appid=620", r.URL.RawQuery)
		_, _ = w.Write([]byte(`{
			"name":"Portal 2",
			"positive":9000,"negative":100,
			"average_forever":750,"median_forever":600,
			"average_2weeks":30,"median_2weeks":25,
			"tags":{"Puzzle":5000,"Co-op":3000,"Comedy":3000}
		}`))
	}))
	defer srv.Close()

	stats, err := newTestClient(srv.URL).AppStats(context.Background(), 620)
	require.NoError(t, err)
	require.NotNil(t, stats)

	assert.Equal(t, 9100, stats.TotalReviews)
	assert.Equal(t, library.ReviewOverwhelminglyPositive, stats.ReviewCategory)
	assert.Equal(t, 750, stats.AverageForever)
	assert.Equal(t, 25, stats.Median2Weeks)
	require.Len(t, stats.Tags, 3)
	assert.Equal(t, library.TagWeight{Name: "Puzzle", Score: 5000}, stats.Tags[0])
	// Equal scores tie-break by name for stable cache output.
	assert.Equal(t, "Co-op", stats.Tags[1].Name)
	assert.False(t, stats.UpdatedAt.IsZero())
}

func TestAppStatsSoftNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// SteamSpy's "never heard of it" shape: zeroes and an empty tags array.
		_, _ = w.Write([]byte(`{"name":"","positive":0,"negative":0,"tags":[]}`))
	}))
	defer srv.Close()

	stats, err := newTestClient(srv.URL).AppStats(context.Background(), 12345)
	assert.NoError(t, err, "absence of data is not a failure")
	assert.Nil(t, stats)
}

func TestAppStatsEmptyTagsArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Obscure Game","positive":12,"negative":3,"tags":[]}`))
	}))
	defer srv.Close()

	stats, err := newTestClient(srv.URL).AppStats(context.Background(), 777)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Nil(t, stats.Tags)
	assert.Equal(t, library.ReviewPositive, stats.ReviewCategory)
}
