package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/restocktime/nfl-ncaa-analytics/internal/injury"
	"github.com/restocktime/nfl-ncaa-analytics/internal/metrics"
	"github.com/restocktime/nfl-ncaa-analytics/internal/picks"
	"github.com/restocktime/nfl-ncaa-analytics/internal/reconciliation"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store/repository"
)

// Defensive positions eligible for tackle props.
var propPositions = map[string]bool{
	"LB": true, "ILB": true, "OLB": true, "MLB": true,
	"S": true, "SS": true, "FS": true, "CB": true,
	"DE": true, "DT": true, "NT": true,
}

// GoldmineService builds tackle prop candidates from the rosters of the
// day's slate and scans them for edges over the posted line.
type GoldmineService struct {
	gameRepo   *repository.GameRepository
	teamRepo   *repository.TeamRepository
	playerRepo *repository.PlayerRepository
	injuries   *injury.Service
	scanner    *picks.Scanner
	matcher    *reconciliation.Matcher
	recorder   *metrics.Recorder
	logger     *slog.Logger
}

func NewGoldmineService(
	gameRepo *repository.GameRepository,
	teamRepo *repository.TeamRepository,
	playerRepo *repository.PlayerRepository,
	injuries *injury.Service,
	scanner *picks.Scanner,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) *GoldmineService {
	return &GoldmineService{
		gameRepo:   gameRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		injuries:   injuries,
		scanner:    scanner,
		matcher:    reconciliation.NewMatcher(),
		recorder:   recorder,
		logger:     logger.With("component", "goldmine_service"),
	}
}

// ScanDate assembles candidates for every game on the date and returns
// the props clearing the edge threshold, best edge first.
func (s *GoldmineService) ScanDate(ctx context.Context, sport string, date time.Time) ([]picks.Prop, error) {
	games, err := s.gameRepo.GetByDate(ctx, sport, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load slate for %s: %w", date.Format("2006-01-02"), err)
	}

	ruledOut := s.ruledOutNames(ctx, sport)

	day := date.Format("2006-01-02")
	var candidates []picks.PropCandidate
	for _, game := range games {
		candidates = append(candidates, s.gameCandidates(ctx, day, game, ruledOut)...)
	}

	props := s.scanner.Scan(date, candidates)
	if s.recorder != nil {
		s.recorder.SetGoldmineProps(len(props))
	}

	s.logger.Info("goldmine scan complete",
		"sport", sport,
		"date", day,
		"candidates", len(candidates),
		"props", len(props))
	return props, nil
}

// ruledOutNames collects players the injury report marks out or
// doubtful. Their props are dead lines, not edges.
func (s *GoldmineService) ruledOutNames(ctx context.Context, sport string) []string {
	if s.injuries == nil {
		return nil
	}
	records, err := s.injuries.GetCurrent(ctx, sport)
	if err != nil {
		s.logger.Warn("injury report unavailable, scanning all candidates", "error", err)
		return nil
	}

	var names []string
	for _, rec := range records {
		switch rec.Status {
		case "out", "doubtful", "injured_reserve":
			names = append(names, rec.PlayerName)
		}
	}
	return names
}

func (s *GoldmineService) gameCandidates(ctx context.Context, day string, game *store.Game, ruledOut []string) []picks.PropCandidate {
	home, err := s.teamRepo.GetByID(ctx, game.HomeTeamID)
	if err != nil {
		s.logger.Warn("skipping game, home team missing", "game_id", game.GameID, "error", err)
		return nil
	}
	away, err := s.teamRepo.GetByID(ctx, game.AwayTeamID)
	if err != nil {
		s.logger.Warn("skipping game, away team missing", "game_id", game.GameID, "error", err)
		return nil
	}

	var candidates []picks.PropCandidate
	candidates = append(candidates, s.rosterCandidates(ctx, day, home, away.Abbreviation, ruledOut)...)
	candidates = append(candidates, s.rosterCandidates(ctx, day, away, home.Abbreviation, ruledOut)...)
	return candidates
}

func (s *GoldmineService) rosterCandidates(ctx context.Context, day string, team *store.Team, opponent string, ruledOut []string) []picks.PropCandidate {
	roster, err := s.playerRepo.GetTeamRoster(ctx, team.TeamID)
	if err != nil {
		s.logger.Warn("failed to load roster", "team", team.Abbreviation, "error", err)
		return nil
	}

	var candidates []picks.PropCandidate
	for _, player := range roster {
		if !player.Position.Valid || !propPositions[player.Position.String] {
			continue
		}
		// Injury report names rarely match roster spelling exactly.
		if s.matcher.MatchPlayerName(player.FullName, ruledOut) >= 0 {
			continue
		}
		position := player.Position.String
		candidates = append(candidates, picks.PropCandidate{
			PlayerName: player.FullName,
			TeamAbbr:   team.Abbreviation,
			Opponent:   opponent,
			Position:   position,
			StatType:   "tackles",
			Line:       postedLine(day, player.FullName, position),
			Odds:       "-110",
		})
	}
	return candidates
}

// postedLine stands in for a sportsbook feed. The line anchors on the
// positional baseline and moves in half-point steps, seeded so the same
// slate always quotes the same number.
func postedLine(day, playerName, position string) float64 {
	rng := picks.NewRand(day, playerName, "line")
	base := picks.BaseProjection(position, "tackles")
	line := base + rng.Between(-1.5, 1.5)
	return float64(int(line*2+0.5)) / 2
}
