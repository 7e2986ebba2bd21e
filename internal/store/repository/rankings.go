package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

// RankingRepository handles power ranking snapshots
type RankingRepository struct {
	db *store.Database
}

// NewRankingRepository creates a new ranking repository
func NewRankingRepository(db *store.Database) *RankingRepository {
	return &RankingRepository{db: db}
}

// GetLatest returns the most recent ranking snapshot for a sport, best rank first
func (r *RankingRepository) GetLatest(ctx context.Context, sport string) ([]*store.PowerRanking, error) {
	query := `
		SELECT ranking_id, sport, team_abbr, rank, trend, source, captured_at, created_at
		FROM power_rankings
		WHERE sport = $1
			AND captured_at = (SELECT MAX(captured_at) FROM power_rankings WHERE sport = $1)
		ORDER BY rank
	`

	rows, err := r.db.DB().QueryContext(ctx, query, sport)
	if err != nil {
		return nil, fmt.Errorf("querying rankings: %w", err)
	}
	defer rows.Close()

	return r.scanRankings(rows)
}

// Insert stores a ranking snapshot entry
func (r *RankingRepository) Insert(ctx context.Context, ranking *store.PowerRanking) error {
	query := `
		INSERT INTO power_rankings (sport, team_abbr, rank, trend, source, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (sport, team_abbr, source, captured_at) DO NOTHING
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		ranking.Sport, ranking.TeamAbbr, ranking.Rank, ranking.Trend,
		ranking.Source, ranking.CapturedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting ranking for %s: %w", ranking.TeamAbbr, err)
	}
	return nil
}

func (r *RankingRepository) scanRankings(rows *sql.Rows) ([]*store.PowerRanking, error) {
	rankings := []*store.PowerRanking{}
	for rows.Next() {
		ranking := &store.PowerRanking{}
		err := rows.Scan(
			&ranking.RankingID, &ranking.Sport, &ranking.TeamAbbr, &ranking.Rank,
			&ranking.Trend, &ranking.Source, &ranking.CapturedAt, &ranking.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning ranking: %w", err)
		}
		rankings = append(rankings, ranking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rankings: %w", err)
	}
	return rankings, nil
}
