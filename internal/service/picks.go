package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/restocktime/nfl-ncaa-analytics/internal/metrics"
	"github.com/restocktime/nfl-ncaa-analytics/internal/picks"
	"github.com/restocktime/nfl-ncaa-analytics/internal/publisher"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store/repository"
)

// PicksService grades the daily slate into spread and total picks,
// persists them, and publishes the batch downstream.
type PicksService struct {
	gameRepo    *repository.GameRepository
	teamRepo    *repository.TeamRepository
	rankingRepo *repository.RankingRepository
	pickRepo    *repository.PickRepository
	engine      *picks.Engine
	publisher   *publisher.RedisStreamPublisher
	recorder    *metrics.Recorder
	logger      *slog.Logger
}

func NewPicksService(
	gameRepo *repository.GameRepository,
	teamRepo *repository.TeamRepository,
	rankingRepo *repository.RankingRepository,
	pickRepo *repository.PickRepository,
	pub *publisher.RedisStreamPublisher,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) *PicksService {
	return &PicksService{
		gameRepo:    gameRepo,
		teamRepo:    teamRepo,
		rankingRepo: rankingRepo,
		pickRepo:    pickRepo,
		engine:      picks.NewEngine(),
		publisher:   pub,
		recorder:    recorder,
		logger:      logger.With("component", "picks_service"),
	}
}

// GetPicks returns the stored picks for a date, best confidence first.
func (s *PicksService) GetPicks(ctx context.Context, sport string, date time.Time) ([]*store.Pick, error) {
	stored, err := s.pickRepo.GetByDate(ctx, sport, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get picks: %w", err)
	}
	return stored, nil
}

// GeneratePicksForDate grades every game on the slate that has posted
// odds, upserts the resulting picks, and publishes the batch. Re-running
// for the same date replaces the prior batch row for row.
func (s *PicksService) GeneratePicksForDate(ctx context.Context, sport string, date time.Time) ([]*store.Pick, error) {
	games, err := s.gameRepo.GetByDate(ctx, sport, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load slate for %s: %w", date.Format("2006-01-02"), err)
	}
	if len(games) == 0 {
		s.logger.Info("no games on slate, skipping pick generation", "sport", sport, "date", date.Format("2006-01-02"))
		return nil, nil
	}

	ranks := s.rankLookup(ctx, sport)

	contexts := make([]picks.GameContext, 0, len(games))
	for _, game := range games {
		gc := picks.GameContext{Game: game}
		if home, err := s.teamRepo.GetByID(ctx, game.HomeTeamID); err == nil {
			gc.HomeAbbr = home.Abbreviation
			gc.HomeRank = ranks[home.Abbreviation]
		}
		if away, err := s.teamRepo.GetByID(ctx, game.AwayTeamID); err == nil {
			gc.AwayAbbr = away.Abbreviation
			gc.AwayRank = ranks[away.Abbreviation]
		}
		contexts = append(contexts, gc)
	}

	generated := s.engine.GeneratePicks(date, contexts)

	for _, pick := range generated {
		if err := s.pickRepo.Upsert(ctx, pick); err != nil {
			return nil, fmt.Errorf("failed to store pick for game %d: %w", pick.GameID, err)
		}
	}

	if s.publisher != nil && len(generated) > 0 {
		if err := s.publisher.PublishPicks(ctx, generated); err != nil {
			s.logger.Warn("failed to publish picks batch", "error", err)
		}
	}
	if s.recorder != nil {
		s.recorder.AddPicksGenerated(len(generated))
	}

	s.logger.Info("generated picks",
		"sport", sport,
		"date", date.Format("2006-01-02"),
		"games", len(games),
		"picks", len(generated))
	return generated, nil
}

// rankLookup maps team abbreviation to its latest power ranking. Missing
// rankings are not fatal; unranked teams grade at the bottom.
func (s *PicksService) rankLookup(ctx context.Context, sport string) map[string]int {
	ranks := make(map[string]int)
	rankings, err := s.rankingRepo.GetLatest(ctx, sport)
	if err != nil {
		s.logger.Warn("failed to load power rankings, grading unranked", "error", err)
		return ranks
	}
	for _, r := range rankings {
		ranks[r.TeamAbbr] = r.Rank
	}
	return ranks
}
