package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

const teamColumns = `team_id, sport, external_id, abbreviation, full_name, short_name,
	conference, division, venue_name, logo_url, colors, metadata, is_active,
	created_at, updated_at`

// TeamRepository handles team data access
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

// GetByID finds a team by its database ID
func (r *TeamRepository) GetByID(ctx context.Context, teamID int) (*store.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE team_id = $1`, teamColumns)

	team, err := r.scanTeam(r.db.DB().QueryRowContext(ctx, query, teamID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("team not found: %d", teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}
	return team, nil
}

// GetByExternalID finds a team by its ESPN ID
func (r *TeamRepository) GetByExternalID(ctx context.Context, sport, externalID string) (*store.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE sport = $1 AND external_id = $2`, teamColumns)

	team, err := r.scanTeam(r.db.DB().QueryRowContext(ctx, query, sport, externalID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("team not found: %s", externalID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}
	return team, nil
}

// GetByAbbreviation finds a team by its abbreviation
func (r *TeamRepository) GetByAbbreviation(ctx context.Context, sport, abbr string) (*store.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE sport = $1 AND UPPER(abbreviation) = UPPER($2)`, teamColumns)

	team, err := r.scanTeam(r.db.DB().QueryRowContext(ctx, query, sport, abbr))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("team not found: %s", abbr)
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}
	return team, nil
}

// GetAll returns all active teams for a sport
func (r *TeamRepository) GetAll(ctx context.Context, sport string) ([]*store.Team, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM teams
		WHERE sport = $1 AND is_active = TRUE
		ORDER BY full_name`, teamColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, sport)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	teams := []*store.Team{}
	for rows.Next() {
		team, err := r.scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating teams: %w", err)
	}
	return teams, nil
}

// Upsert inserts or updates a team by (sport, external_id)
func (r *TeamRepository) Upsert(ctx context.Context, team *store.Team) error {
	query := `
		INSERT INTO teams (sport, external_id, abbreviation, full_name, short_name,
			conference, division, venue_name, logo_url, colors, metadata, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (sport, external_id) DO UPDATE SET
			abbreviation = EXCLUDED.abbreviation,
			full_name = EXCLUDED.full_name,
			short_name = EXCLUDED.short_name,
			conference = EXCLUDED.conference,
			division = EXCLUDED.division,
			venue_name = EXCLUDED.venue_name,
			logo_url = EXCLUDED.logo_url,
			colors = EXCLUDED.colors,
			updated_at = NOW()
		RETURNING team_id
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		team.Sport, team.ExternalID, team.Abbreviation, team.FullName, team.ShortName,
		team.Conference, team.Division, team.VenueName, team.LogoURL, team.Colors,
		team.Metadata, team.IsActive,
	).Scan(&team.TeamID)
	if err != nil {
		return fmt.Errorf("upserting team %s: %w", team.Abbreviation, err)
	}
	return nil
}

func (r *TeamRepository) scanTeam(row rowScanner) (*store.Team, error) {
	team := &store.Team{}
	err := row.Scan(
		&team.TeamID, &team.Sport, &team.ExternalID, &team.Abbreviation,
		&team.FullName, &team.ShortName, &team.Conference, &team.Division,
		&team.VenueName, &team.LogoURL, &team.Colors, &team.Metadata,
		&team.IsActive, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return team, nil
}
