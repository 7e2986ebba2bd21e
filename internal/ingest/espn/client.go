package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// BaseURL for the ESPN site API
	BaseURL = "https://site.api.espn.com/apis/site/v2/sports"

	userAgent = "IBY-NFL-Analytics/1.0"

	requestTimeout = 15 * time.Second
)

// Client handles ESPN site API requests with retry on transient failures
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
}

// New creates an ESPN API client with a custom base URL
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
		maxRetries: 3,
	}
}

// NewClient creates an ESPN API client with default settings
func NewClient() *Client {
	return New(BaseURL)
}

// FetchScoreboard fetches games for a sport. If date is zero, ESPN returns
// "today" (games within roughly 24 hours).
func (c *Client) FetchScoreboard(ctx context.Context, sportPath string, date time.Time) (*Scoreboard, error) {
	url := fmt.Sprintf("%s/%s/scoreboard", c.baseURL, sportPath)
	if !date.IsZero() {
		url = fmt.Sprintf("%s?dates=%s", url, date.Format("20060102"))
	}

	var sb Scoreboard
	if err := c.fetch(ctx, url, &sb); err != nil {
		return nil, err
	}
	return &sb, nil
}

// FetchTeams fetches the team list for a sport
func (c *Client) FetchTeams(ctx context.Context, sportPath string) (*TeamsResponse, error) {
	url := fmt.Sprintf("%s/%s/teams", c.baseURL, sportPath)

	var teams TeamsResponse
	if err := c.fetch(ctx, url, &teams); err != nil {
		return nil, err
	}
	return &teams, nil
}

// FetchRoster fetches a team's roster, including per-athlete injury entries
func (c *Client) FetchRoster(ctx context.Context, sportPath, teamID string) (*RosterResponse, error) {
	url := fmt.Sprintf("%s/%s/teams/%s/roster", c.baseURL, sportPath, teamID)

	var roster RosterResponse
	if err := c.fetch(ctx, url, &roster); err != nil {
		return nil, err
	}
	return &roster, nil
}

// FetchGameSummary fetches a raw game summary payload
func (c *Client) FetchGameSummary(ctx context.Context, sportPath, gameID string) (map[string]interface{}, error) {
	url := fmt.Sprintf("%s/%s/summary?event=%s", c.baseURL, sportPath, gameID)

	var summary map[string]interface{}
	if err := c.fetch(ctx, url, &summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// fetch GETs a URL and decodes the JSON body, retrying transient failures
// with exponential backoff.
func (c *Client) fetch(ctx context.Context, url string, out interface{}) error {
	operation := func() error {
		return c.fetchOnce(ctx, url, out)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	return nil
}

func (c *Client) fetchOnce(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return backoff.Permanent(fmt.Errorf("not found: %s", url))
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("upstream status %d", resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return backoff.Permanent(fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
	}
	return nil
}
