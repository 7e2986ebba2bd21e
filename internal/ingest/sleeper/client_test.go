package sleeper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestGetUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/restocktime", r.URL.Path)
		w.Write([]byte(`{"user_id": "123456", "username": "restocktime", "display_name": "Restock Time"}`))
	})

	user, err := client.GetUser(context.Background(), "restocktime")
	require.NoError(t, err)
	assert.Equal(t, "123456", user.UserID)
	assert.Equal(t, "Restock Time", user.DisplayName)
}

func TestGetUserNotFound(t *testing.T) {
	// Sleeper returns a JSON null body for unknown usernames.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})

	_, err := client.GetUser(context.Background(), "nobody")
	assert.ErrorContains(t, err, "not found")
}

func TestGetRosters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/league/987/rosters", r.URL.Path)
		w.Write([]byte(`[
			{"roster_id": 1, "owner_id": "123456", "league_id": "987",
			 "players": ["4046", "6794"], "starters": ["4046"],
			 "settings": {"wins": 3, "losses": 1}}
		]`))
	})

	rosters, err := client.GetRosters(context.Background(), "987")
	require.NoError(t, err)
	require.Len(t, rosters, 1)
	assert.Equal(t, []string{"4046", "6794"}, rosters[0].Players)
	assert.Equal(t, 3, rosters[0].Settings.Wins)
}

func TestGetTrendingAdds(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "24", r.URL.Query().Get("lookback_hours"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(`[{"player_id": "4046", "count": 1523}]`))
	})

	trending, err := client.GetTrendingAdds(context.Background(), 24, 10)
	require.NoError(t, err)
	require.Len(t, trending, 1)
	assert.Equal(t, 1523, trending[0].Count)
}

func TestGetUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.GetLeagues(context.Background(), "123456", "2025")
	assert.ErrorContains(t, err, "unexpected status 503")
}
