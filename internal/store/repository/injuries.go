package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

const injuryColumns = `injury_id, sport, player_name, team_abbr, position, status,
	detail, report_date, source, created_at, updated_at`

// InjuryRepository handles injury report persistence
type InjuryRepository struct {
	db *store.Database
}

// NewInjuryRepository creates a new injury repository
func NewInjuryRepository(db *store.Database) *InjuryRepository {
	return &InjuryRepository{db: db}
}

// GetCurrent returns the most recent injury report for a sport
func (r *InjuryRepository) GetCurrent(ctx context.Context, sport string) ([]*store.InjuryRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM injuries
		WHERE sport = $1
			AND report_date = (SELECT MAX(report_date) FROM injuries WHERE sport = $1)
		ORDER BY team_abbr, player_name`, injuryColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, sport)
	if err != nil {
		return nil, fmt.Errorf("querying injuries: %w", err)
	}
	defer rows.Close()

	return r.scanInjuries(rows)
}

// GetByTeam returns the current injury entries for one team
func (r *InjuryRepository) GetByTeam(ctx context.Context, sport, teamAbbr string) ([]*store.InjuryRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM injuries
		WHERE sport = $1 AND UPPER(team_abbr) = UPPER($2)
			AND report_date = (SELECT MAX(report_date) FROM injuries WHERE sport = $1)
		ORDER BY player_name`, injuryColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, sport, teamAbbr)
	if err != nil {
		return nil, fmt.Errorf("querying team injuries: %w", err)
	}
	defer rows.Close()

	return r.scanInjuries(rows)
}

// Upsert records an injury entry for a report date
func (r *InjuryRepository) Upsert(ctx context.Context, rec *store.InjuryRecord) error {
	query := `
		INSERT INTO injuries (sport, player_name, team_abbr, position, status, detail, report_date, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (sport, player_name, report_date) DO UPDATE SET
			team_abbr = EXCLUDED.team_abbr,
			position = EXCLUDED.position,
			status = EXCLUDED.status,
			detail = EXCLUDED.detail,
			source = EXCLUDED.source,
			updated_at = NOW()
		RETURNING injury_id
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		rec.Sport, rec.PlayerName, rec.TeamAbbr, rec.Position, rec.Status,
		rec.Detail, rec.ReportDate, rec.Source,
	).Scan(&rec.InjuryID)
	if err != nil {
		return fmt.Errorf("upserting injury for %s: %w", rec.PlayerName, err)
	}
	return nil
}

// PruneOlderThan deletes injury entries older than the cutoff
func (r *InjuryRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.DB().ExecContext(ctx, `DELETE FROM injuries WHERE report_date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning injuries: %w", err)
	}
	return result.RowsAffected()
}

func (r *InjuryRepository) scanInjuries(rows *sql.Rows) ([]*store.InjuryRecord, error) {
	records := []*store.InjuryRecord{}
	for rows.Next() {
		rec := &store.InjuryRecord{}
		err := rows.Scan(
			&rec.InjuryID, &rec.Sport, &rec.PlayerName, &rec.TeamAbbr, &rec.Position,
			&rec.Status, &rec.Detail, &rec.ReportDate, &rec.Source,
			&rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning injury: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating injuries: %w", err)
	}
	return records, nil
}
