package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

const playerColumns = `player_id, sport, external_id, first_name, last_name, full_name,
	position, jersey_number, height, weight, experience, college,
	draft_year, draft_round, draft_pick, headshot_url, status, metadata,
	created_at, updated_at`

// PlayerRepository handles player data access
type PlayerRepository struct {
	db *store.Database
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *store.Database) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// GetByID finds a player by database ID
func (r *PlayerRepository) GetByID(ctx context.Context, playerID int) (*store.Player, error) {
	query := fmt.Sprintf(`SELECT %s FROM players WHERE player_id = $1`, playerColumns)

	player, err := r.scanPlayer(r.db.DB().QueryRowContext(ctx, query, playerID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player not found: %d", playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying player: %w", err)
	}
	return player, nil
}

// SearchByName finds players whose full name matches the query (case-insensitive substring)
func (r *PlayerRepository) SearchByName(ctx context.Context, sport, name string, limit int) ([]*store.Player, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM players
		WHERE sport = $1 AND full_name ILIKE '%%' || $2 || '%%'
		ORDER BY full_name
		LIMIT $3`, playerColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, sport, name, limit)
	if err != nil {
		return nil, fmt.Errorf("searching players: %w", err)
	}
	defer rows.Close()

	return r.scanPlayers(rows)
}

// GetTeamRoster returns the current roster for a team
func (r *PlayerRepository) GetTeamRoster(ctx context.Context, teamID int) ([]*store.Player, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM players p
		JOIN team_rosters tr ON tr.player_id = p.player_id
		WHERE tr.team_id = $1 AND tr.is_current = TRUE
		ORDER BY p.position, p.full_name`,
		prefixColumns("p", playerColumns))

	rows, err := r.db.DB().QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("querying roster: %w", err)
	}
	defer rows.Close()

	players, err := r.scanPlayers(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		p.CurrentTeamID = teamID
	}
	return players, nil
}

// Upsert inserts or updates a player by (sport, external_id)
func (r *PlayerRepository) Upsert(ctx context.Context, player *store.Player) error {
	query := `
		INSERT INTO players (sport, external_id, first_name, last_name, full_name,
			position, jersey_number, height, weight, experience, college,
			draft_year, draft_round, draft_pick, headshot_url, status, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (sport, external_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			full_name = EXCLUDED.full_name,
			position = EXCLUDED.position,
			jersey_number = EXCLUDED.jersey_number,
			height = EXCLUDED.height,
			weight = EXCLUDED.weight,
			experience = EXCLUDED.experience,
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING player_id
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		player.Sport, player.ExternalID, player.FirstName, player.LastName, player.FullName,
		player.Position, player.JerseyNumber, player.Height, player.Weight, player.Experience,
		player.College, player.DraftYear, player.DraftRound, player.DraftPick,
		player.HeadshotURL, player.Status, player.Metadata,
	).Scan(&player.PlayerID)
	if err != nil {
		return fmt.Errorf("upserting player %s: %w", player.FullName, err)
	}
	return nil
}

// SetRosterMembership records a player's current roster spot
func (r *PlayerRepository) SetRosterMembership(ctx context.Context, teamID, playerID, seasonID int) error {
	query := `
		INSERT INTO team_rosters (team_id, player_id, season_id, is_current)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (team_id, player_id, season_id) DO UPDATE SET
			is_current = TRUE,
			updated_at = NOW()
	`

	if _, err := r.db.DB().ExecContext(ctx, query, teamID, playerID, seasonID); err != nil {
		return fmt.Errorf("setting roster membership: %w", err)
	}
	return nil
}

func (r *PlayerRepository) scanPlayer(row rowScanner) (*store.Player, error) {
	player := &store.Player{}
	err := row.Scan(
		&player.PlayerID, &player.Sport, &player.ExternalID, &player.FirstName,
		&player.LastName, &player.FullName, &player.Position, &player.JerseyNumber,
		&player.Height, &player.Weight, &player.Experience, &player.College,
		&player.DraftYear, &player.DraftRound, &player.DraftPick, &player.HeadshotURL,
		&player.Status, &player.Metadata, &player.CreatedAt, &player.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return player, nil
}

func (r *PlayerRepository) scanPlayers(rows *sql.Rows) ([]*store.Player, error) {
	players := []*store.Player{}
	for rows.Next() {
		player, err := r.scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating players: %w", err)
	}
	return players, nil
}
