package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

const pickColumns = `pick_id, sport, game_id, market, selection, line, confidence,
	tier, rationale, generated_on, created_at`

// PickRepository handles generated pick persistence
type PickRepository struct {
	db *store.Database
}

// NewPickRepository creates a new pick repository
func NewPickRepository(db *store.Database) *PickRepository {
	return &PickRepository{db: db}
}

// GetByDate returns all picks generated on a date, best confidence first
func (r *PickRepository) GetByDate(ctx context.Context, sport string, date time.Time) ([]*store.Pick, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM picks
		WHERE sport = $1 AND generated_on = $2
		ORDER BY confidence DESC`, pickColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, sport, date.Truncate(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("querying picks: %w", err)
	}
	defer rows.Close()

	return r.scanPicks(rows)
}

// Upsert stores a pick, replacing a prior pick for the same game/market/day
func (r *PickRepository) Upsert(ctx context.Context, pick *store.Pick) error {
	query := `
		INSERT INTO picks (pick_id, sport, game_id, market, selection, line,
			confidence, tier, rationale, generated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (game_id, market, generated_on) DO UPDATE SET
			selection = EXCLUDED.selection,
			line = EXCLUDED.line,
			confidence = EXCLUDED.confidence,
			tier = EXCLUDED.tier,
			rationale = EXCLUDED.rationale
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		pick.PickID, pick.Sport, pick.GameID, pick.Market, pick.Selection,
		pick.Line, pick.Confidence, pick.Tier, pick.Rationale,
		pick.GeneratedOn.Truncate(24*time.Hour),
	)
	if err != nil {
		return fmt.Errorf("upserting pick for game %d: %w", pick.GameID, err)
	}
	return nil
}

func (r *PickRepository) scanPicks(rows *sql.Rows) ([]*store.Pick, error) {
	picks := []*store.Pick{}
	for rows.Next() {
		pick := &store.Pick{}
		err := rows.Scan(
			&pick.PickID, &pick.Sport, &pick.GameID, &pick.Market, &pick.Selection,
			&pick.Line, &pick.Confidence, &pick.Tier, &pick.Rationale,
			&pick.GeneratedOn, &pick.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning pick: %w", err)
		}
		picks = append(picks, pick)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating picks: %w", err)
	}
	return picks, nil
}
