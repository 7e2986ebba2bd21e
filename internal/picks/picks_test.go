package picks

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

func TestRandIsDeterministic(t *testing.T) {
	a := NewRand("2025-11-09", "Fred Warner", "tackles")
	b := NewRand("2025-11-09", "Fred Warner", "tackles")

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Next(), b.Next(), "sequence diverged at step %d", i)
	}
}

func TestRandSeedsDiffer(t *testing.T) {
	a := NewRand("2025-11-09", "Fred Warner")
	b := NewRand("2025-11-10", "Fred Warner")

	assert.NotEqual(t, a.Next(), b.Next())
}

func TestRandBetweenStaysInRange(t *testing.T) {
	r := NewRand("range-check")
	for i := 0; i < 1000; i++ {
		v := r.Between(0.85, 1.15)
		assert.GreaterOrEqual(t, v, 0.85)
		assert.Less(t, v, 1.15)
	}
}

func testCandidates() []PropCandidate {
	return []PropCandidate{
		{PlayerName: "Fred Warner", TeamAbbr: "SF", Position: "LB", StatType: "tackles", Line: 6.5, Odds: "-110"},
		{PlayerName: "Roquan Smith", TeamAbbr: "BAL", Position: "ILB", StatType: "tackles", Line: 7.5, Odds: "-115"},
		{PlayerName: "Sauce Gardner", TeamAbbr: "NYJ", Position: "CB", StatType: "tackles", Line: 9.5, Odds: "-105"},
		{PlayerName: "Budda Baker", TeamAbbr: "ARI", Position: "S", StatType: "tackles", Line: 5.5, Odds: "-120"},
	}
}

func TestScanIsDeterministic(t *testing.T) {
	scanner := NewScanner(0.5)
	date := time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC)

	first := scanner.Scan(date, testCandidates())
	second := scanner.Scan(date, testCandidates())

	assert.Equal(t, first, second)
}

func TestScanFiltersBelowThreshold(t *testing.T) {
	scanner := NewScanner(0.5)
	date := time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC)

	props := scanner.Scan(date, testCandidates())
	for _, prop := range props {
		assert.GreaterOrEqual(t, prop.Edge, scanner.Threshold())
	}

	// A CB with a line far above the positional baseline never clears it.
	for _, prop := range props {
		assert.NotEqual(t, "Sauce Gardner", prop.PlayerName)
	}
}

func TestScanSortsByEdgeDescending(t *testing.T) {
	scanner := NewScanner(0.1)
	date := time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC)

	props := scanner.Scan(date, testCandidates())
	for i := 1; i < len(props); i++ {
		assert.GreaterOrEqual(t, props[i-1].Edge, props[i].Edge)
	}
}

func TestSimulateConfidenceBounds(t *testing.T) {
	for _, candidate := range testCandidates() {
		prop := Simulate("2025-11-09", candidate)
		assert.GreaterOrEqual(t, prop.Confidence, 0.0)
		assert.LessOrEqual(t, prop.Confidence, 1.0)
		assert.Contains(t, []string{TierElite, TierStrong, TierLean}, prop.Tier)
	}
}

func TestBaseProjectionUnknownPosition(t *testing.T) {
	assert.Equal(t, 3.0, BaseProjection("XX", "tackles"))
	assert.Greater(t, BaseProjection("LB", "tackles"), BaseProjection("CB", "tackles"))
}

func TestConfidenceTier(t *testing.T) {
	assert.Equal(t, TierElite, ConfidenceTier(0.85))
	assert.Equal(t, TierStrong, ConfidenceTier(0.70))
	assert.Equal(t, TierLean, ConfidenceTier(0.55))
}

func testGameContexts() []GameContext {
	return []GameContext{
		{
			Game: &store.Game{
				GameID: 1, Sport: store.SportNFL,
				Spread:    sql.NullFloat64{Float64: -3.5, Valid: true},
				OverUnder: sql.NullFloat64{Float64: 47.5, Valid: true},
			},
			HomeAbbr: "KC", AwayAbbr: "BUF",
			HomeRank: 1, AwayRank: 4,
		},
		{
			Game: &store.Game{
				GameID: 2, Sport: store.SportNFL,
				// No posted odds: no picks for this game.
			},
			HomeAbbr: "DET", AwayAbbr: "DAL",
			HomeRank: 2, AwayRank: 12,
		},
	}
}

func TestGeneratePicksSkipsGamesWithoutOdds(t *testing.T) {
	engine := NewEngine()
	date := time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC)

	generated := engine.GeneratePicks(date, testGameContexts())
	require.Len(t, generated, 2)

	for _, pick := range generated {
		assert.Equal(t, 1, pick.GameID)
	}
}

func TestGeneratePicksDeterministicApartFromIDs(t *testing.T) {
	engine := NewEngine()
	date := time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC)

	first := engine.GeneratePicks(date, testGameContexts())
	second := engine.GeneratePicks(date, testGameContexts())
	require.Equal(t, len(first), len(second))

	for i := range first {
		assert.NotEqual(t, first[i].PickID, second[i].PickID)
		assert.Equal(t, first[i].Market, second[i].Market)
		assert.Equal(t, first[i].Selection, second[i].Selection)
		assert.Equal(t, first[i].Confidence, second[i].Confidence)
		assert.Equal(t, first[i].Tier, second[i].Tier)
	}
}

func TestGeneratePicksConfidenceBounds(t *testing.T) {
	engine := NewEngine()
	date := time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC)

	for _, pick := range engine.GeneratePicks(date, testGameContexts()) {
		assert.GreaterOrEqual(t, pick.Confidence, 0.5)
		assert.LessOrEqual(t, pick.Confidence, 0.95)
		assert.True(t, pick.Line.Valid)
		assert.True(t, pick.Rationale.Valid)
	}
}
