package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

func TestScoreboardCacheSetAndGet(t *testing.T) {
	c := NewScoreboardCache()

	games := []*store.Game{
		{GameID: 1, Sport: store.SportNFL},
		{GameID: 2, Sport: store.SportNFL},
	}
	c.Set(store.SportNFL, "espn", games)

	snap, ok := c.Get(store.SportNFL)
	require.True(t, ok)
	assert.Len(t, snap.Games, 2)
	assert.Equal(t, "espn", snap.Source)
	assert.WithinDuration(t, time.Now(), snap.FetchedAt, time.Second)
}

func TestScoreboardCacheMissingSport(t *testing.T) {
	c := NewScoreboardCache()

	_, ok := c.Get(store.SportNCAA)
	assert.False(t, ok)
}

func TestScoreboardCacheFreshness(t *testing.T) {
	c := NewScoreboardCache()
	c.Set(store.SportNFL, "espn", []*store.Game{{GameID: 1}})

	_, ok := c.GetFresh(store.SportNFL, time.Minute)
	assert.True(t, ok)

	// Age the snapshot past the freshness window.
	c.mu.Lock()
	snap := c.snapshots[store.SportNFL]
	snap.FetchedAt = time.Now().Add(-2 * time.Minute)
	c.snapshots[store.SportNFL] = snap
	c.mu.Unlock()

	_, ok = c.GetFresh(store.SportNFL, time.Minute)
	assert.False(t, ok)
}

func TestScoreboardCacheInvalidate(t *testing.T) {
	c := NewScoreboardCache()
	c.Set(store.SportNFL, "fallback", []*store.Game{{GameID: 1}})

	c.Invalidate(store.SportNFL)

	_, ok := c.Get(store.SportNFL)
	assert.False(t, ok)
}
