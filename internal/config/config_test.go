package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restocktime/nfl-ncaa-analytics/internal/ingest/espn"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

func TestDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.APIPort)
	// The client joins this base with a sport path like football/nfl,
	// so the default must stop at /sports.
	assert.Equal(t, espn.BaseURL, cfg.Upstreams.ESPNBaseURL)
	assert.Equal(t, []string{store.SportNFL, store.SportNCAA}, cfg.Polling.Sports)
	assert.Equal(t, 30*time.Second, cfg.Polling.LiveInterval)
	assert.Equal(t, 1.0, cfg.Picks.GoldmineEdgeThreshold)
}

func TestRejectsUnknownSport(t *testing.T) {
	t.Setenv("SPORTS", "basketball_nba")

	_, err := New()
	assert.ErrorContains(t, err, "unsupported sport")
}

func TestRejectsAggressivePollInterval(t *testing.T) {
	t.Setenv("LIVE_POLL_INTERVAL", "1s")

	_, err := New()
	assert.ErrorContains(t, err, "at least 5s")
}
