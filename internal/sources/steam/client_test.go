package steam

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

func TestOwnedGames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "76561198000000001", r.URL.Query().Get("steamid"))
		_, _ = w.Write([]byte(`{"response":{"game_count":2,"games":[
			{"appid":620,"playtime_forever":754,"rtime_last_played":1700000000},
			{"appid":440,"playtime_forever":0,"rtime_last_played":0}
		]}}`))
	}))
	defer srv.Close()

	c := New("secret", WithBaseURL(srv.URL), WithTransport(transport.New("steam", time.Millisecond)))
	owned, err := c.OwnedGames(context.Background(), "76561198000000001")
	require.NoError(t, err)
	require.Len(t, owned, 2)

	assert.Equal(t, int64(620), owned[0].AppID)
	assert.Equal(t, "76561198000000001", owned[0].AccountID)
	assert.InDelta(t, 12.6, owned[0].HoursPlayed, 0.01, "754 minutes is 12.6 hours")
	require.NotNil(t, owned[0].LastPlayedAt)
	assert.Equal(t, int64(1700000000), owned[0].LastPlayedAt.Unix())

	assert.Zero(t, owned[1].HoursPlayed)
	assert.Nil(t, owned[1].LastPlayedAt, "a zero rtime means never played, not 1970")
}

func TestOwnedGamesMissingKey(t *testing.T) {
	c := New("")
	_, err := c.OwnedGames(context.Background(), "76561198000000001")
	assert.True(t, errors.Is(err, errors.ErrMissingConfig))
}
