package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/restocktime/nfl-ncaa-analytics/internal/cache"
	"github.com/restocktime/nfl-ncaa-analytics/internal/ingest/espn"
	"github.com/restocktime/nfl-ncaa-analytics/internal/metrics"
	"github.com/restocktime/nfl-ncaa-analytics/internal/publisher"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

// LiveIngester pulls the current scoreboard, refreshes the in-memory
// snapshot, and publishes updates. When the upstream is down it serves
// the canned fallback slate so readers always see a complete shape.
type LiveIngester struct {
	espn       *espn.Ingester
	scoreboard *cache.ScoreboardCache
	publisher  *publisher.RedisStreamPublisher
	recorder   *metrics.Recorder
	logger     *slog.Logger
}

// NewLiveIngester creates a live ingester
func NewLiveIngester(espnIngester *espn.Ingester, scoreboard *cache.ScoreboardCache, pub *publisher.RedisStreamPublisher, recorder *metrics.Recorder, logger *slog.Logger) *LiveIngester {
	return &LiveIngester{
		espn:       espnIngester,
		scoreboard: scoreboard,
		publisher:  pub,
		recorder:   recorder,
		logger:     logger.With("component", "live_ingester"),
	}
}

// IngestLiveGames runs one poll cycle for a sport. Returns the games now
// in the snapshot and whether they came from the live feed.
func (li *LiveIngester) IngestLiveGames(ctx context.Context, sport string, seasonID int) ([]*store.Game, error) {
	games, err := li.espn.IngestCurrentScoreboard(ctx, sport, seasonID)
	li.recorder.RecordProviderAttempt("espn", err)

	if err != nil {
		li.logger.Warn("live scoreboard fetch failed, serving fallback slate",
			"sport", sport, "error", err)

		fallback, fbErr := li.espn.IngestFallbackSlate(ctx, sport, seasonID)
		if fbErr != nil {
			return nil, fmt.Errorf("scoreboard fetch failed (%v) and fallback failed: %w", err, fbErr)
		}

		li.scoreboard.Set(sport, espn.SourceFallback, fallback)
		li.recorder.RecordFallbackServing(sport)
		return fallback, err
	}

	li.scoreboard.Set(sport, "espn", games)
	li.publishGames(ctx, sport, games)
	return games, nil
}

func (li *LiveIngester) publishGames(ctx context.Context, sport string, games []*store.Game) {
	liveCount := 0
	for _, game := range games {
		switch game.Status {
		case store.StatusInProgress, store.StatusHalftime:
			liveCount++
			if err := li.publisher.PublishLiveGameUpdate(ctx, sport, game); err != nil {
				li.logger.Error("failed to publish live update",
					"game_id", game.GameID, "error", err)
			}
		case store.StatusFinal:
			if err := li.publisher.PublishFinalGame(ctx, sport, game); err != nil {
				li.logger.Error("failed to publish final game",
					"game_id", game.GameID, "error", err)
			}
		}
	}

	li.recorder.SetLiveGames(sport, liveCount)
	if liveCount > 0 {
		li.logger.Info("published live updates", "sport", sport, "live_games", liveCount)
	}
}

// Snapshot returns the current cached scoreboard for a sport
func (li *LiveIngester) Snapshot(sport string) (cache.Snapshot, bool) {
	return li.scoreboard.Get(sport)
}
