package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

const seasonColumns = `season_id, sport, season_year, season_type, start_date, end_date,
	current_week, is_active, metadata, created_at, updated_at`

// SeasonRepository handles season data access
type SeasonRepository struct {
	db *store.Database
}

// NewSeasonRepository creates a new season repository
func NewSeasonRepository(db *store.Database) *SeasonRepository {
	return &SeasonRepository{db: db}
}

// GetRegularSeason finds the regular season row for a sport and year.
func (r *SeasonRepository) GetRegularSeason(ctx context.Context, sport, seasonYear string) (*store.Season, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM seasons
		WHERE sport = $1 AND season_year = $2 AND season_type = 'regular'`, seasonColumns)

	season, err := r.scanSeason(r.db.DB().QueryRowContext(ctx, query, sport, seasonYear))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("season not found: %s %s", sport, seasonYear)
	}
	if err != nil {
		return nil, fmt.Errorf("querying season: %w", err)
	}
	return season, nil
}

// GetActive returns the active season for a sport, if one is flagged.
func (r *SeasonRepository) GetActive(ctx context.Context, sport string) (*store.Season, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM seasons
		WHERE sport = $1 AND is_active = TRUE
		ORDER BY start_date DESC
		LIMIT 1`, seasonColumns)

	season, err := r.scanSeason(r.db.DB().QueryRowContext(ctx, query, sport))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no active season for %s", sport)
	}
	if err != nil {
		return nil, fmt.Errorf("querying active season: %w", err)
	}
	return season, nil
}

func (r *SeasonRepository) scanSeason(row rowScanner) (*store.Season, error) {
	season := &store.Season{}
	err := row.Scan(
		&season.SeasonID, &season.Sport, &season.SeasonYear, &season.SeasonType,
		&season.StartDate, &season.EndDate, &season.CurrentWeek, &season.IsActive,
		&season.Metadata, &season.CreatedAt, &season.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return season, nil
}
