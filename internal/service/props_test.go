package service

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restocktime/nfl-ncaa-analytics/internal/injury"
	"github.com/restocktime/nfl-ncaa-analytics/internal/picks"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store/repository"
)

type staticInjuryRepo struct {
	records []*store.InjuryRecord
}

func (r staticInjuryRepo) GetCurrent(ctx context.Context, sport string) ([]*store.InjuryRecord, error) {
	return r.records, nil
}

func (r staticInjuryRepo) GetByTeam(ctx context.Context, sport, teamAbbr string) ([]*store.InjuryRecord, error) {
	return r.records, nil
}

func playerRows(players ...[2]string) *sqlmock.Rows {
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"player_id", "sport", "external_id", "first_name", "last_name", "full_name",
		"position", "jersey_number", "height", "weight", "experience", "college",
		"draft_year", "draft_round", "draft_pick", "headshot_url", "status", "metadata",
		"created_at", "updated_at",
	})
	for i, p := range players {
		rows.AddRow(i+1, store.SportNFL, "1000"+p[0], "", "", p[0],
			p[1], nil, nil, nil, nil, nil,
			nil, nil, nil, nil, "active", nil,
			now, now)
	}
	return rows
}

func TestScanDateExcludesRuledOutPlayers(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db := store.NewDatabaseFromConn(conn)

	date := time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM games`).WillReturnRows(gameRowsWithTeams(10, 12, date))
	mock.ExpectQuery(`SELECT .+ FROM teams`).WillReturnRows(teamRows(10, "SF"))
	mock.ExpectQuery(`SELECT .+ FROM teams`).WillReturnRows(teamRows(12, "SEA"))
	// Home roster carries one healthy LB and one who is out.
	mock.ExpectQuery(`SELECT .+ FROM players`).WillReturnRows(playerRows(
		[2]string{"Fred Warner", "LB"},
		[2]string{"Dre Greenlaw", "LB"},
	))
	mock.ExpectQuery(`SELECT .+ FROM players`).WillReturnRows(playerRows())

	injuries := injury.NewService(staticInjuryRepo{records: []*store.InjuryRecord{
		{Sport: store.SportNFL, PlayerName: "Dre Greenlaw", TeamAbbr: "SF", Status: "out", Source: "espn"},
	}}, testLogger())

	// Threshold zero keeps every simulated candidate in the result.
	svc := NewGoldmineService(
		repository.NewGameRepository(db),
		repository.NewTeamRepository(db),
		repository.NewPlayerRepository(db),
		injuries,
		picks.NewScanner(0.0001),
		nil,
		testLogger(),
	)

	props, err := svc.ScanDate(context.Background(), store.SportNFL, date)
	require.NoError(t, err)

	for _, prop := range props {
		assert.NotEqual(t, "Dre Greenlaw", prop.PlayerName)
	}
}

func gameRowsWithTeams(homeID, awayID int, date time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"game_id", "sport", "season_id", "week", "external_id", "game_date", "game_time",
		"home_team_id", "away_team_id", "home_score", "away_score", "status",
		"period", "clock", "venue", "network", "spread", "over_under", "odds_detail",
		"source", "metadata", "created_at", "updated_at",
	}).AddRow(
		1, store.SportNFL, 1, 9, "401547500", date, date,
		homeID, awayID, nil, nil, store.StatusScheduled,
		nil, nil, nil, nil, -3.5, 44.5, nil,
		"espn", nil, date, date,
	)
}
