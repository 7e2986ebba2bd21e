package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restocktime/nfl-ncaa-analytics/internal/picks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGoldmineAlertPostsSlate(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, testLogger())
	props := []picks.Prop{
		{
			PropCandidate: picks.PropCandidate{
				PlayerName: "Fred Warner", TeamAbbr: "SF", Position: "LB",
				StatType: "tackles", Line: 6.5,
			},
			Projection: 8.2, Edge: 1.7, Tier: picks.TierStrong,
		},
	}

	require.NoError(t, n.GoldmineAlert(context.Background(), props))
	assert.Contains(t, string(body), "Fred Warner")
	assert.Contains(t, string(body), "edge +1.7")
}

func TestGoldmineAlertSkipsEmptySlate(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, testLogger())
	require.NoError(t, n.GoldmineAlert(context.Background(), nil))
	assert.False(t, called)
}

func TestPollFailureSurfacesWebhookError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, testLogger())
	err := n.PollFailure(context.Background(), "football_nfl", 5, errors.New("timeout"))
	assert.Error(t, err)
}

func TestNopNotifier(t *testing.T) {
	var n Notifier = NopNotifier{}
	assert.NoError(t, n.GoldmineAlert(context.Background(), nil))
	assert.NoError(t, n.PollFailure(context.Background(), "football_nfl", 1, errors.New("x")))
	assert.NoError(t, n.PollRecovered(context.Background(), "football_nfl"))
}
