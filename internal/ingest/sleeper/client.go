package sleeper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// BaseURL for the Sleeper read-only API. No authentication required.
const BaseURL = "https://api.sleeper.app/v1"

// Client handles Sleeper API requests
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Sleeper client with a custom base URL
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClient creates a Sleeper client with default settings
func NewClient() *Client {
	return New(BaseURL)
}

// GetUser looks up a user by username or user ID
func (c *Client) GetUser(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.get(ctx, fmt.Sprintf("/user/%s", username), &user); err != nil {
		return nil, err
	}
	if user.UserID == "" {
		return nil, fmt.Errorf("sleeper user not found: %s", username)
	}
	return &user, nil
}

// GetLeagues returns a user's NFL leagues for a season
func (c *Client) GetLeagues(ctx context.Context, userID, season string) ([]League, error) {
	var leagues []League
	if err := c.get(ctx, fmt.Sprintf("/user/%s/leagues/nfl/%s", userID, season), &leagues); err != nil {
		return nil, err
	}
	return leagues, nil
}

// GetRosters returns all rosters in a league
func (c *Client) GetRosters(ctx context.Context, leagueID string) ([]Roster, error) {
	var rosters []Roster
	if err := c.get(ctx, fmt.Sprintf("/league/%s/rosters", leagueID), &rosters); err != nil {
		return nil, err
	}
	return rosters, nil
}

// GetLeagueUsers returns all users in a league
func (c *Client) GetLeagueUsers(ctx context.Context, leagueID string) ([]User, error) {
	var users []User
	if err := c.get(ctx, fmt.Sprintf("/league/%s/users", leagueID), &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetPlayers returns the full NFL player dump keyed by Sleeper player ID.
// The payload is large (~5MB); callers should cache it.
func (c *Client) GetPlayers(ctx context.Context) (map[string]Player, error) {
	var players map[string]Player
	if err := c.get(ctx, "/players/nfl", &players); err != nil {
		return nil, err
	}
	return players, nil
}

// GetTrendingAdds returns trending player adds over the lookback window
func (c *Client) GetTrendingAdds(ctx context.Context, lookbackHours, limit int) ([]TrendingPlayer, error) {
	var trending []TrendingPlayer
	path := fmt.Sprintf("/players/nfl/trending/add?lookback_hours=%d&limit=%d", lookbackHours, limit)
	if err := c.get(ctx, path, &trending); err != nil {
		return nil, err
	}
	return trending, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sleeper request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sleeper unexpected status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding sleeper response: %w", err)
	}
	return nil
}
