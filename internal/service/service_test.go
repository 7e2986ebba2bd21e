package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restocktime/nfl-ncaa-analytics/internal/cache"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mockRepos(t *testing.T) (*repository.GameRepository, *repository.TeamRepository, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db := store.NewDatabaseFromConn(conn)
	return repository.NewGameRepository(db), repository.NewTeamRepository(db), mock
}

func teamRows(id int, abbr string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"team_id", "sport", "external_id", "abbreviation", "full_name", "short_name",
		"conference", "division", "venue_name", "logo_url", "colors", "metadata",
		"is_active", "created_at", "updated_at",
	}).AddRow(id, store.SportNFL, "1", abbr, abbr, abbr, "AFC", "West", nil, nil, nil, nil, true, now, now)
}

func TestGetLiveGamesPrefersFreshSnapshot(t *testing.T) {
	gameRepo, teamRepo, mock := mockRepos(t)

	scoreboard := cache.NewScoreboardCache()
	scoreboard.Set(store.SportNFL, "espn", []*store.Game{
		{GameID: 1, Sport: store.SportNFL, HomeTeamID: 10, AwayTeamID: 12, Status: store.StatusInProgress},
		{GameID: 2, Sport: store.SportNFL, HomeTeamID: 14, AwayTeamID: 16, Status: store.StatusScheduled},
	})

	mock.ExpectQuery(`SELECT .+ FROM teams`).WillReturnRows(teamRows(10, "KC"))
	mock.ExpectQuery(`SELECT .+ FROM teams`).WillReturnRows(teamRows(12, "LV"))

	svc := NewGameService(gameRepo, teamRepo, scoreboard, testLogger())

	summaries, source, err := svc.GetLiveGames(context.Background(), store.SportNFL, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "espn", source)
	// Scheduled games are filtered out of the live view.
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].Game.GameID)
	assert.Equal(t, "KC", summaries[0].HomeTeam.Abbreviation)
}

func TestGetLiveGamesFallsBackToDatabase(t *testing.T) {
	gameRepo, teamRepo, mock := mockRepos(t)

	mock.ExpectQuery(`SELECT .+ FROM games`).WillReturnRows(sqlmock.NewRows([]string{
		"game_id", "sport", "season_id", "week", "external_id", "game_date", "game_time",
		"home_team_id", "away_team_id", "home_score", "away_score", "status",
		"period", "clock", "venue", "network", "spread", "over_under", "odds_detail",
		"source", "metadata", "created_at", "updated_at",
	}))

	svc := NewGameService(gameRepo, teamRepo, cache.NewScoreboardCache(), testLogger())

	summaries, source, err := svc.GetLiveGames(context.Background(), store.SportNFL, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "database", source)
	assert.Empty(t, summaries)
}

func TestSearchPlayersRejectsShortQuery(t *testing.T) {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db := store.NewDatabaseFromConn(conn)
	svc := NewPlayerService(repository.NewPlayerRepository(db), repository.NewTeamRepository(db), testLogger())

	_, err = svc.SearchPlayers(context.Background(), store.SportNFL, " a ", 10)
	assert.ErrorContains(t, err, "at least 2 characters")
}

func TestPostedLineIsDeterministic(t *testing.T) {
	a := postedLine("2025-11-02", "Fred Warner", "LB")
	b := postedLine("2025-11-02", "Fred Warner", "LB")
	assert.Equal(t, a, b)

	// Lines quote in half-point steps.
	assert.Equal(t, a, float64(int(a*2))/2)

	c := postedLine("2025-11-09", "Fred Warner", "LB")
	assert.NotEqual(t, a, c)
}
