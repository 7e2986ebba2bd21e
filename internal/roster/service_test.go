package roster

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restocktime/nfl-ncaa-analytics/internal/cache"
	"github.com/restocktime/nfl-ncaa-analytics/internal/ingest/sleeper"
)

// memStore backs the service with a plain map, round-tripping values
// through JSON the same way the Redis store does.
type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = data
	return nil
}

func (m *memStore) GetJSON(ctx context.Context, key string, out interface{}) error {
	data, ok := m.data[key]
	if !ok {
		return cache.ErrNotFound
	}
	return json.Unmarshal(data, out)
}

func (m *memStore) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

type fakeSleeper struct {
	user    *sleeper.User
	leagues []sleeper.League
	rosters []sleeper.Roster
}

func (f *fakeSleeper) GetUser(ctx context.Context, username string) (*sleeper.User, error) {
	return f.user, nil
}

func (f *fakeSleeper) GetLeagues(ctx context.Context, userID, season string) ([]sleeper.League, error) {
	return f.leagues, nil
}

func (f *fakeSleeper) GetRosters(ctx context.Context, leagueID string) ([]sleeper.Roster, error) {
	return f.rosters, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	svc := NewService(newMemStore(), &fakeSleeper{}, testLogger())
	ctx := context.Background()

	saved := &UserRoster{
		TeamName: "The Goldminers",
		Starters: []string{"4046", "6794"},
		Bench:    []string{"8112"},
		Positions: map[string][]string{
			"QB":   {"4046"},
			"FLEX": {"6794", "8112"},
		},
	}
	require.NoError(t, svc.Save(ctx, "user-1", saved))

	loaded, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)

	// Nested arrays survive the round trip intact.
	assert.Equal(t, saved.Starters, loaded.Starters)
	assert.Equal(t, saved.Bench, loaded.Bench)
	assert.Equal(t, saved.Positions, loaded.Positions)
	assert.Equal(t, "user-1", loaded.UserID)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestGetMissingRoster(t *testing.T) {
	svc := NewService(newMemStore(), &fakeSleeper{}, testLogger())

	_, err := svc.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRoster(t *testing.T) {
	svc := NewService(newMemStore(), &fakeSleeper{}, testLogger())
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, "user-1", &UserRoster{Starters: []string{"1"}}))
	require.NoError(t, svc.Delete(ctx, "user-1"))

	_, err := svc.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImportFromSleeper(t *testing.T) {
	client := &fakeSleeper{
		user: &sleeper.User{UserID: "123", Username: "restocktime"},
		leagues: []sleeper.League{
			{LeagueID: "987", Name: "Dynasty League", Season: "2025"},
		},
		rosters: []sleeper.Roster{
			{RosterID: 1, OwnerID: "999", Players: []string{"1"}},
			{RosterID: 2, OwnerID: "123",
				Players:  []string{"4046", "6794", "8112"},
				Starters: []string{"4046", "6794"}},
		},
	}
	svc := NewService(newMemStore(), client, testLogger())

	imported, err := svc.ImportFromSleeper(context.Background(), "restocktime", "2025")
	require.NoError(t, err)

	assert.Equal(t, "987", imported.LeagueID)
	assert.Equal(t, []string{"4046", "6794"}, imported.Starters)
	assert.Equal(t, []string{"8112"}, imported.Bench)

	// Import persists the roster under the Sleeper user ID.
	loaded, err := svc.Get(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "Dynasty League", loaded.TeamName)
}

func TestImportFromSleeperNoLeagues(t *testing.T) {
	client := &fakeSleeper{user: &sleeper.User{UserID: "123"}}
	svc := NewService(newMemStore(), client, testLogger())

	_, err := svc.ImportFromSleeper(context.Background(), "restocktime", "2025")
	assert.ErrorContains(t, err, "no leagues")
}
