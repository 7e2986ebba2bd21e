package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/restocktime/nfl-ncaa-analytics/internal/cache"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store/repository"
)

// GameService serves game reads, preferring the in-memory scoreboard
// snapshot for live data and falling back to the database.
type GameService struct {
	gameRepo   *repository.GameRepository
	teamRepo   *repository.TeamRepository
	scoreboard *cache.ScoreboardCache
	logger     *slog.Logger
}

// GameSummary is a game enriched with its team rows.
type GameSummary struct {
	Game     *store.Game `json:"game"`
	HomeTeam *store.Team `json:"home_team,omitempty"`
	AwayTeam *store.Team `json:"away_team,omitempty"`
}

func NewGameService(gameRepo *repository.GameRepository, teamRepo *repository.TeamRepository, scoreboard *cache.ScoreboardCache, logger *slog.Logger) *GameService {
	return &GameService{
		gameRepo:   gameRepo,
		teamRepo:   teamRepo,
		scoreboard: scoreboard,
		logger:     logger.With("component", "game_service"),
	}
}

// GetGame returns a single game by internal ID.
func (s *GameService) GetGame(ctx context.Context, gameID int) (*GameSummary, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game %d: %w", gameID, err)
	}
	return s.enrichGame(ctx, game), nil
}

// GetLiveGames returns in-progress games. A fresh scoreboard snapshot
// wins over the database so scores reflect the latest poll.
func (s *GameService) GetLiveGames(ctx context.Context, sport string, maxSnapshotAge time.Duration) ([]*GameSummary, string, error) {
	if s.scoreboard != nil {
		if snap, ok := s.scoreboard.GetFresh(sport, maxSnapshotAge); ok {
			live := make([]*store.Game, 0, len(snap.Games))
			for _, g := range snap.Games {
				if g.Status == store.StatusInProgress || g.Status == store.StatusHalftime {
					live = append(live, g)
				}
			}
			return s.enrichGames(ctx, live), snap.Source, nil
		}
	}

	games, err := s.gameRepo.GetLiveGames(ctx, sport)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get live games: %w", err)
	}
	return s.enrichGames(ctx, games), "database", nil
}

// GetTodaysGames returns today's slate regardless of status.
func (s *GameService) GetTodaysGames(ctx context.Context, sport string, maxSnapshotAge time.Duration) ([]*GameSummary, string, error) {
	if s.scoreboard != nil {
		if snap, ok := s.scoreboard.GetFresh(sport, maxSnapshotAge); ok {
			return s.enrichGames(ctx, snap.Games), snap.Source, nil
		}
	}

	games, err := s.gameRepo.GetTodaysGames(ctx, sport)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get today's games: %w", err)
	}
	return s.enrichGames(ctx, games), "database", nil
}

// GetGamesByDate returns the slate for a calendar date.
func (s *GameService) GetGamesByDate(ctx context.Context, sport string, date time.Time) ([]*GameSummary, error) {
	games, err := s.gameRepo.GetByDate(ctx, sport, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get games for %s: %w", date.Format("2006-01-02"), err)
	}
	return s.enrichGames(ctx, games), nil
}

// GetUpcomingGames returns the next scheduled games.
func (s *GameService) GetUpcomingGames(ctx context.Context, sport string, limit int) ([]*GameSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	games, err := s.gameRepo.GetUpcomingGames(ctx, sport, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming games: %w", err)
	}
	return s.enrichGames(ctx, games), nil
}

// GetWeekGames returns the slate for a season week.
func (s *GameService) GetWeekGames(ctx context.Context, sport string, seasonID, week int) ([]*GameSummary, error) {
	games, err := s.gameRepo.GetByWeek(ctx, sport, seasonID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get week %d games: %w", week, err)
	}
	return s.enrichGames(ctx, games), nil
}

func (s *GameService) enrichGames(ctx context.Context, games []*store.Game) []*GameSummary {
	summaries := make([]*GameSummary, 0, len(games))
	for _, g := range games {
		summaries = append(summaries, s.enrichGame(ctx, g))
	}
	return summaries
}

func (s *GameService) enrichGame(ctx context.Context, game *store.Game) *GameSummary {
	summary := &GameSummary{Game: game}

	if home, err := s.teamRepo.GetByID(ctx, game.HomeTeamID); err == nil {
		summary.HomeTeam = home
	} else {
		s.logger.Warn("failed to enrich home team", "team_id", game.HomeTeamID, "error", err)
	}
	if away, err := s.teamRepo.GetByID(ctx, game.AwayTeamID); err == nil {
		summary.AwayTeam = away
	} else {
		s.logger.Warn("failed to enrich away team", "team_id", game.AwayTeamID, "error", err)
	}
	return summary
}
