package espn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFetchScoreboard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/football/nfl/scoreboard", r.URL.Path)
		assert.Equal(t, "20250921", r.URL.Query().Get("dates"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(scoreboardFixture))
	}))
	defer srv.Close()

	client := New(srv.URL)
	sb, err := client.FetchScoreboard(context.Background(), FootballNFL, time.Date(2025, 9, 21, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, sb.Events, 1)
	assert.Equal(t, "401547417", sb.Events[0].ID)
}

func TestClientRetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"events": []}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	sb, err := client.FetchScoreboard(context.Background(), FootballNFL, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, sb.Events)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClientDoesNotRetryNotFound(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.FetchScoreboard(context.Background(), FootballNFL, time.Time{})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClientSurfacesFinalError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.FetchScoreboard(context.Background(), FootballNFL, time.Time{})
	assert.ErrorContains(t, err, "upstream status 500")
}
