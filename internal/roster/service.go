package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/restocktime/nfl-ncaa-analytics/internal/cache"
	"github.com/restocktime/nfl-ncaa-analytics/internal/ingest/sleeper"
)

// ErrNotFound is returned when a user has no saved roster
var ErrNotFound = errors.New("roster: not found")

// UserRoster is a saved fantasy roster. Slot lists are kept as-is so a
// roster survives a save and load without reshaping.
type UserRoster struct {
	UserID    string              `json:"user_id"`
	LeagueID  string              `json:"league_id,omitempty"`
	TeamName  string              `json:"team_name,omitempty"`
	Starters  []string            `json:"starters"`
	Bench     []string            `json:"bench"`
	Positions map[string][]string `json:"positions,omitempty"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Store is the persistence slice this service needs from the cache
type Store interface {
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, out interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// SleeperClient is the slice of the Sleeper API used for imports
type SleeperClient interface {
	GetUser(ctx context.Context, username string) (*sleeper.User, error)
	GetLeagues(ctx context.Context, userID, season string) ([]sleeper.League, error)
	GetRosters(ctx context.Context, leagueID string) ([]sleeper.Roster, error)
}

// Service persists user fantasy rosters and imports them from Sleeper
type Service struct {
	store   Store
	sleeper SleeperClient
	logger  *slog.Logger
}

// NewService creates a roster service
func NewService(store Store, sleeperClient SleeperClient, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		sleeper: sleeperClient,
		logger:  logger.With("component", "roster_service"),
	}
}

func rosterKey(userID string) string {
	return fmt.Sprintf("roster:user:%s", userID)
}

// Get loads a user's saved roster
func (s *Service) Get(ctx context.Context, userID string) (*UserRoster, error) {
	var roster UserRoster
	err := s.store.GetJSON(ctx, rosterKey(userID), &roster)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading roster for %s: %w", userID, err)
	}
	return &roster, nil
}

// Save stores a roster without expiration. Saved rosters are user state,
// not cached upstream data.
func (s *Service) Save(ctx context.Context, userID string, roster *UserRoster) error {
	roster.UserID = userID
	roster.UpdatedAt = time.Now().UTC()

	if err := s.store.SetJSON(ctx, rosterKey(userID), roster, 0); err != nil {
		return fmt.Errorf("saving roster for %s: %w", userID, err)
	}
	return nil
}

// Delete removes a user's saved roster
func (s *Service) Delete(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, rosterKey(userID))
}

// ImportFromSleeper pulls the user's roster from their first matching
// Sleeper league for the season and saves it. Returns the saved roster.
func (s *Service) ImportFromSleeper(ctx context.Context, username, season string) (*UserRoster, error) {
	user, err := s.sleeper.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("resolving sleeper user: %w", err)
	}

	leagues, err := s.sleeper.GetLeagues(ctx, user.UserID, season)
	if err != nil {
		return nil, fmt.Errorf("listing sleeper leagues: %w", err)
	}
	if len(leagues) == 0 {
		return nil, fmt.Errorf("sleeper user %s has no leagues for season %s", username, season)
	}

	league := leagues[0]
	rosters, err := s.sleeper.GetRosters(ctx, league.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("fetching rosters for league %s: %w", league.LeagueID, err)
	}

	for _, r := range rosters {
		if r.OwnerID != user.UserID {
			continue
		}
		roster := &UserRoster{
			LeagueID: league.LeagueID,
			TeamName: league.Name,
			Starters: r.Starters,
			Bench:    benchPlayers(r),
		}
		if err := s.Save(ctx, user.UserID, roster); err != nil {
			return nil, err
		}
		s.logger.Info("imported sleeper roster",
			"user", username, "league", league.LeagueID,
			"starters", len(roster.Starters), "bench", len(roster.Bench))
		return roster, nil
	}

	return nil, fmt.Errorf("no roster owned by %s in league %s", username, league.LeagueID)
}

// benchPlayers returns the roster players that are not in the starting
// lineup.
func benchPlayers(r sleeper.Roster) []string {
	starting := make(map[string]bool, len(r.Starters))
	for _, id := range r.Starters {
		starting[id] = true
	}

	var bench []string
	for _, id := range r.Players {
		if !starting[id] {
			bench = append(bench, id)
		}
	}
	return bench
}
