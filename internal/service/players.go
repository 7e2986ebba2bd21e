package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store/repository"
)

// PlayerService serves player lookups and team rosters.
type PlayerService struct {
	playerRepo *repository.PlayerRepository
	teamRepo   *repository.TeamRepository
	logger     *slog.Logger
}

// TeamRoster is a team's current players grouped by position.
type TeamRoster struct {
	Team      *store.Team                `json:"team"`
	Players   []*store.Player            `json:"players"`
	Positions map[string][]*store.Player `json:"positions"`
}

func NewPlayerService(playerRepo *repository.PlayerRepository, teamRepo *repository.TeamRepository, logger *slog.Logger) *PlayerService {
	return &PlayerService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		logger:     logger.With("component", "player_service"),
	}
}

// GetPlayer returns a single player by internal ID.
func (s *PlayerService) GetPlayer(ctx context.Context, playerID int) (*store.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player %d: %w", playerID, err)
	}
	return player, nil
}

// SearchPlayers finds players by partial name match.
func (s *PlayerService) SearchPlayers(ctx context.Context, sport, query string, limit int) ([]*store.Player, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, fmt.Errorf("search query must be at least 2 characters")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	players, err := s.playerRepo.SearchByName(ctx, sport, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}
	return players, nil
}

// GetTeamRoster returns a team's roster grouped by position.
func (s *PlayerService) GetTeamRoster(ctx context.Context, sport, teamAbbr string) (*TeamRoster, error) {
	team, err := s.teamRepo.GetByAbbreviation(ctx, sport, teamAbbr)
	if err != nil {
		return nil, fmt.Errorf("failed to find team %s: %w", teamAbbr, err)
	}

	players, err := s.playerRepo.GetTeamRoster(ctx, team.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster for %s: %w", teamAbbr, err)
	}

	roster := &TeamRoster{
		Team:      team,
		Players:   players,
		Positions: make(map[string][]*store.Player),
	}
	for _, p := range players {
		pos := "UNK"
		if p.Position.Valid && p.Position.String != "" {
			pos = p.Position.String
		}
		roster.Positions[pos] = append(roster.Positions[pos], p)
	}
	return roster, nil
}
