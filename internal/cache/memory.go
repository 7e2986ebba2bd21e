package cache

import (
	"sync"
	"time"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

// Snapshot is one sport's scoreboard at a point in time
type Snapshot struct {
	Games     []*store.Game
	Source    string
	FetchedAt time.Time
}

// ScoreboardCache keeps the latest scoreboard per sport in memory so
// reads never block on the database or an upstream fetch. Snapshots
// carry their fetch time; callers decide how stale is too stale.
type ScoreboardCache struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// NewScoreboardCache constructs an empty ScoreboardCache
func NewScoreboardCache() *ScoreboardCache {
	return &ScoreboardCache{
		snapshots: make(map[string]Snapshot),
	}
}

// Get returns the snapshot for a sport, if one has been stored
func (c *ScoreboardCache) Get(sport string) (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap, ok := c.snapshots[sport]
	return snap, ok
}

// GetFresh returns the snapshot only if it is younger than maxAge
func (c *ScoreboardCache) GetFresh(sport string, maxAge time.Duration) (Snapshot, bool) {
	snap, ok := c.Get(sport)
	if !ok || time.Since(snap.FetchedAt) > maxAge {
		return Snapshot{}, false
	}
	return snap, true
}

// Set replaces a sport's snapshot with freshly fetched games
func (c *ScoreboardCache) Set(sport, source string, games []*store.Game) {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := make([]*store.Game, len(games))
	copy(copied, games)
	c.snapshots[sport] = Snapshot{
		Games:     copied,
		Source:    source,
		FetchedAt: time.Now(),
	}
}

// Invalidate drops a sport's snapshot
func (c *ScoreboardCache) Invalidate(sport string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.snapshots, sport)
}
