package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

const gameColumns = `game_id, sport, season_id, week, external_id, game_date, game_time,
	home_team_id, away_team_id, home_score, away_score, status,
	period, clock, venue, network, spread, over_under, odds_detail, source,
	metadata, created_at, updated_at`

// GameRepository handles game data access
type GameRepository struct {
	db *store.Database
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *store.Database) *GameRepository {
	return &GameRepository{db: db}
}

// GetByID finds a game by its database ID
func (r *GameRepository) GetByID(ctx context.Context, gameID int) (*store.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE game_id = $1`, gameColumns)

	game, err := r.scanGame(r.db.DB().QueryRowContext(ctx, query, gameID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("game not found: %d", gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying game: %w", err)
	}
	return game, nil
}

// GetByExternalID finds a game by its external ID (ESPN event ID)
func (r *GameRepository) GetByExternalID(ctx context.Context, sport, externalID string) (*store.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE sport = $1 AND external_id = $2`, gameColumns)

	game, err := r.scanGame(r.db.DB().QueryRowContext(ctx, query, sport, externalID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("game not found: %s", externalID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying game: %w", err)
	}
	return game, nil
}

// GetByDate returns all games on a specific date
func (r *GameRepository) GetByDate(ctx context.Context, sport string, date time.Time) ([]*store.Game, error) {
	startOfDay := date.Truncate(24 * time.Hour)
	endOfDay := startOfDay.Add(24 * time.Hour)

	query := fmt.Sprintf(`
		SELECT %s FROM games
		WHERE sport = $1 AND game_date >= $2 AND game_date < $3
		ORDER BY game_time`, gameColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, sport, startOfDay, endOfDay)
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	defer rows.Close()

	return r.scanGames(rows)
}

// GetByWeek returns all games for a season week
func (r *GameRepository) GetByWeek(ctx context.Context, sport string, seasonID, week int) ([]*store.Game, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM games
		WHERE sport = $1 AND season_id = $2 AND week = $3
		ORDER BY game_time`, gameColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, sport, seasonID, week)
	if err != nil {
		return nil, fmt.Errorf("querying week games: %w", err)
	}
	defer rows.Close()

	return r.scanGames(rows)
}

// GetLiveGames returns all currently live games.
// Only returns games from today (ET) to avoid stale data.
func (r *GameRepository) GetLiveGames(ctx context.Context, sport string) ([]*store.Game, error) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	nowET := time.Now().In(loc)
	startOfDay := time.Date(nowET.Year(), nowET.Month(), nowET.Day(), 0, 0, 0, 0, loc)
	endOfDay := startOfDay.Add(24 * time.Hour)

	query := fmt.Sprintf(`
		SELECT %s FROM games
		WHERE sport = $1 AND status IN ('in_progress', 'halftime')
			AND game_date >= $2 AND game_date < $3
		ORDER BY game_time`, gameColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, sport, startOfDay, endOfDay)
	if err != nil {
		return nil, fmt.Errorf("querying live games: %w", err)
	}
	defer rows.Close()

	return r.scanGames(rows)
}

// GetTodaysGames returns all of today's games regardless of status
func (r *GameRepository) GetTodaysGames(ctx context.Context, sport string) ([]*store.Game, error) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return r.GetByDate(ctx, sport, time.Now().In(loc))
}

// GetUpcomingGames returns upcoming scheduled games
func (r *GameRepository) GetUpcomingGames(ctx context.Context, sport string, limit int) ([]*store.Game, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM games
		WHERE sport = $1 AND status = 'scheduled' AND game_time >= NOW()
		ORDER BY game_time
		LIMIT $2`, gameColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, sport, limit)
	if err != nil {
		return nil, fmt.Errorf("querying upcoming games: %w", err)
	}
	defer rows.Close()

	return r.scanGames(rows)
}

// Upsert inserts or updates a game by (sport, external_id)
func (r *GameRepository) Upsert(ctx context.Context, game *store.Game) error {
	query := `
		INSERT INTO games (sport, season_id, week, external_id, game_date, game_time,
			home_team_id, away_team_id, home_score, away_score, status,
			period, clock, venue, network, spread, over_under, odds_detail, source, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (sport, external_id) DO UPDATE SET
			week = EXCLUDED.week,
			game_date = EXCLUDED.game_date,
			game_time = EXCLUDED.game_time,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			status = EXCLUDED.status,
			period = EXCLUDED.period,
			clock = EXCLUDED.clock,
			venue = EXCLUDED.venue,
			network = EXCLUDED.network,
			spread = EXCLUDED.spread,
			over_under = EXCLUDED.over_under,
			odds_detail = EXCLUDED.odds_detail,
			source = EXCLUDED.source,
			updated_at = NOW()
		RETURNING game_id
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		game.Sport, game.SeasonID, game.Week, game.ExternalID, game.GameDate, game.GameTime,
		game.HomeTeamID, game.AwayTeamID, game.HomeScore, game.AwayScore, game.Status,
		game.Period, game.Clock, game.Venue, game.Network, game.Spread, game.OverUnder,
		game.OddsDetail, game.Source, game.Metadata,
	).Scan(&game.GameID)
	if err != nil {
		return fmt.Errorf("upserting game %s: %w", game.ExternalID, err)
	}
	return nil
}

// CleanupStaleGames marks old "in_progress" games as "final".
// A football game cannot realistically run longer than 6 hours.
func (r *GameRepository) CleanupStaleGames(ctx context.Context) (int64, error) {
	query := `
		UPDATE games
		SET status = 'final', updated_at = NOW()
		WHERE status IN ('in_progress', 'halftime')
			AND game_time < NOW() - INTERVAL '6 hours'
	`

	result, err := r.db.DB().ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("cleaning up stale games: %w", err)
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *GameRepository) scanGame(row rowScanner) (*store.Game, error) {
	game := &store.Game{}
	err := row.Scan(
		&game.GameID, &game.Sport, &game.SeasonID, &game.Week, &game.ExternalID,
		&game.GameDate, &game.GameTime, &game.HomeTeamID, &game.AwayTeamID,
		&game.HomeScore, &game.AwayScore, &game.Status, &game.Period, &game.Clock,
		&game.Venue, &game.Network, &game.Spread, &game.OverUnder, &game.OddsDetail,
		&game.Source, &game.Metadata, &game.CreatedAt, &game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return game, nil
}

func (r *GameRepository) scanGames(rows *sql.Rows) ([]*store.Game, error) {
	games := []*store.Game{}
	for rows.Next() {
		game, err := r.scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating games: %w", err)
	}
	return games, nil
}
