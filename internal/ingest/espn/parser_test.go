package espn

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

const scoreboardFixture = `{
	"week": {"number": 3},
	"events": [
		{
			"id": "401547417",
			"date": "2025-09-21T17:00Z",
			"name": "Buffalo Bills at Kansas City Chiefs",
			"shortName": "BUF @ KC",
			"week": {"number": 3},
			"status": {
				"clock": 532.0,
				"displayClock": "8:52",
				"period": 3,
				"type": {"id": "2", "name": "STATUS_IN_PROGRESS", "state": "in", "completed": false}
			},
			"competitions": [
				{
					"id": "401547417",
					"venue": {"fullName": "GEHA Field at Arrowhead Stadium"},
					"broadcasts": [{"market": "national", "names": ["CBS"]}],
					"competitors": [
						{
							"id": "12",
							"homeAway": "home",
							"score": "24",
							"team": {"id": "12", "abbreviation": "KC", "displayName": "Kansas City Chiefs"}
						},
						{
							"id": "2",
							"homeAway": "away",
							"score": "17",
							"team": {"id": "2", "abbreviation": "BUF", "displayName": "Buffalo Bills"}
						}
					],
					"odds": [
						{"provider": {"id": "58", "name": "ESPN BET", "priority": 1}, "details": "KC -2.5", "overUnder": 53.5, "spread": -2.5}
					]
				}
			]
		}
	]
}`

func TestParseScoreboard(t *testing.T) {
	var sb Scoreboard
	require.NoError(t, json.Unmarshal([]byte(scoreboardFixture), &sb))

	games := ParseScoreboard(&sb)
	require.Len(t, games, 1)

	game := games[0]
	assert.Equal(t, "401547417", game.ExternalID)
	assert.Equal(t, 3, game.Week)
	assert.Equal(t, "12", game.HomeExternalID)
	assert.Equal(t, "2", game.AwayExternalID)
	assert.Equal(t, 24, game.HomeScore)
	assert.Equal(t, 17, game.AwayScore)
	assert.Equal(t, store.StatusInProgress, game.Status)
	assert.Equal(t, "8:52", game.Clock)
	assert.Equal(t, "CBS", game.Network)
	assert.True(t, game.HasOdds)
	assert.Equal(t, -2.5, game.Spread)
	assert.Equal(t, 53.5, game.OverUnder)
	assert.Equal(t, time.Date(2025, 9, 21, 17, 0, 0, 0, time.UTC), game.GameTime)
}

func TestParseScoreboardSkipsIncompleteEvents(t *testing.T) {
	sb := &Scoreboard{
		Events: []Event{
			{ID: "no-competitions"},
			{
				ID: "one-competitor",
				Competitions: []Competition{
					{Competitors: []Competitor{{HomeAway: "home", Team: Team{ID: "1"}}}},
				},
			},
		},
	}

	assert.Empty(t, ParseScoreboard(sb))
}

func TestParseScoreClampsGarbage(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"24", 24},
		{" 7 ", 7},
		{"", 0},
		{"-3", 0},
		{"n/a", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseScore(tt.input), "input %q", tt.input)
	}
}

func TestMapStatusUnknownFallsBackToScheduled(t *testing.T) {
	assert.Equal(t, store.StatusScheduled, mapStatus(StatusType{Name: "STATUS_SOMETHING_NEW"}))
	assert.Equal(t, store.StatusFinal, mapStatus(StatusType{Name: "STATUS_SOMETHING_NEW", Completed: true}))
	assert.Equal(t, store.StatusInProgress, mapStatus(StatusType{Name: "STATUS_SOMETHING_NEW", State: "in"}))
	assert.Equal(t, store.StatusHalftime, mapStatus(StatusType{Name: "STATUS_HALFTIME"}))
	assert.Equal(t, store.StatusPostponed, mapStatus(StatusType{Name: "STATUS_CANCELED"}))
}

// The canned slate must go through the exact same parse path as live data.
func TestFallbackScoreboardConformsToLiveShape(t *testing.T) {
	sb := FallbackScoreboard(time.Date(2025, 9, 21, 12, 0, 0, 0, time.UTC))

	games := ParseScoreboard(sb)
	require.Len(t, games, len(sb.Events))

	for _, game := range games {
		assert.NotEmpty(t, game.ExternalID)
		assert.NotEmpty(t, game.HomeExternalID)
		assert.NotEmpty(t, game.AwayExternalID)
		assert.NotEmpty(t, game.HomeAbbr)
		assert.NotEmpty(t, game.AwayAbbr)
		assert.Equal(t, store.StatusScheduled, game.Status)
		assert.False(t, game.GameTime.IsZero())
		assert.GreaterOrEqual(t, game.HomeScore, 0)
		assert.GreaterOrEqual(t, game.AwayScore, 0)
	}
}

func TestTimeUnmarshalShortForm(t *testing.T) {
	var ts Time
	require.NoError(t, json.Unmarshal([]byte(`"2025-09-21T17:00Z"`), &ts))
	assert.Equal(t, time.Date(2025, 9, 21, 17, 0, 0, 0, time.UTC), ts.Time)

	require.NoError(t, json.Unmarshal([]byte(`"2025-09-21T17:00:00Z"`), &ts))
	assert.Equal(t, time.Date(2025, 9, 21, 17, 0, 0, 0, time.UTC), ts.Time)

	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
}
