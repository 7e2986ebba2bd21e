package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

func newMockRepo(t *testing.T) (*GameRepository, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewGameRepository(store.NewDatabaseFromConn(conn)), mock
}

func gameRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"game_id", "sport", "season_id", "week", "external_id", "game_date", "game_time",
		"home_team_id", "away_team_id", "home_score", "away_score", "status",
		"period", "clock", "venue", "network", "spread", "over_under", "odds_detail",
		"source", "metadata", "created_at", "updated_at",
	}).AddRow(
		1, store.SportNFL, 1, 3, "401547417", now, now,
		10, 12, 24, 17, store.StatusInProgress,
		3, "8:52", "Arrowhead Stadium", "CBS", -3.5, 47.5, "KC -3.5",
		"espn", nil, now, now,
	)
}

func TestGameRepositoryGetByExternalID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM games WHERE sport = \$1 AND external_id = \$2`).
		WithArgs(store.SportNFL, "401547417").
		WillReturnRows(gameRows())

	game, err := repo.GetByExternalID(context.Background(), store.SportNFL, "401547417")
	require.NoError(t, err)
	assert.Equal(t, "401547417", game.ExternalID)
	assert.Equal(t, store.StatusInProgress, game.Status)
	assert.Equal(t, int32(24), game.HomeScore.Int32)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepositoryGetByExternalIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM games WHERE sport = \$1 AND external_id = \$2`).
		WithArgs(store.SportNFL, "0").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByExternalID(context.Background(), store.SportNFL, "0")
	assert.ErrorContains(t, err, "game not found")
}

func TestGameRepositoryUpsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO games`).
		WillReturnRows(sqlmock.NewRows([]string{"game_id"}).AddRow(42))

	game := &store.Game{
		Sport:      store.SportNFL,
		SeasonID:   1,
		ExternalID: "401547417",
		GameDate:   time.Now(),
		HomeTeamID: 10,
		AwayTeamID: 12,
		Status:     store.StatusScheduled,
		Source:     "espn",
	}
	require.NoError(t, repo.Upsert(context.Background(), game))
	assert.Equal(t, 42, game.GameID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepositoryCleanupStaleGames(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE games`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.CleanupStaleGames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
