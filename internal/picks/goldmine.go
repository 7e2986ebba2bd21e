package picks

import (
	"sort"
	"time"
)

// DefaultEdgeThreshold is the minimum edge a prop needs to surface
const DefaultEdgeThreshold = 1.0

// PropCandidate is a player prop with a posted line, before simulation
type PropCandidate struct {
	PlayerName string  `json:"player_name"`
	TeamAbbr   string  `json:"team_abbr"`
	Opponent   string  `json:"opponent"`
	Position   string  `json:"position"`
	StatType   string  `json:"stat_type"`
	Line       float64 `json:"line"`
	Odds       string  `json:"odds"`
}

// Prop is a simulated prop with its computed edge. An edge is the
// projection minus the posted line; props clearing the scanner threshold
// are the "goldmine" slate.
type Prop struct {
	PropCandidate
	Projection float64 `json:"projection"`
	Edge       float64 `json:"edge"`
	Confidence float64 `json:"confidence"`
	Tier       string  `json:"tier"`
}

// Scanner finds props whose simulated projection beats the posted line
type Scanner struct {
	threshold float64
}

// NewScanner creates a scanner with the given edge threshold. A zero or
// negative threshold falls back to the default.
func NewScanner(threshold float64) *Scanner {
	if threshold <= 0 {
		threshold = DefaultEdgeThreshold
	}
	return &Scanner{threshold: threshold}
}

// Threshold returns the configured minimum edge
func (s *Scanner) Threshold() float64 {
	return s.threshold
}

// Scan simulates each candidate for the given slate date and returns the
// props whose edge meets the threshold, best edge first. Results are
// deterministic for a fixed date and candidate list.
func (s *Scanner) Scan(date time.Time, candidates []PropCandidate) []Prop {
	day := date.Format("2006-01-02")

	var props []Prop
	for _, candidate := range candidates {
		prop := Simulate(day, candidate)
		if prop.Edge >= s.threshold {
			props = append(props, prop)
		}
	}

	sort.Slice(props, func(i, j int) bool {
		if props[i].Edge != props[j].Edge {
			return props[i].Edge > props[j].Edge
		}
		return props[i].PlayerName < props[j].PlayerName
	})

	return props
}

// Simulate produces a projection and confidence for one candidate. The
// generator is seeded on the date, player, and market, so re-running the
// same slate reproduces the same numbers.
func Simulate(day string, candidate PropCandidate) Prop {
	rng := NewRand(day, candidate.PlayerName, candidate.StatType)

	base := BaseProjection(candidate.Position, candidate.StatType)

	// Blend the positional baseline toward the posted line, then apply a
	// seeded game-script swing of roughly plus or minus 15 percent.
	anchor := base*0.6 + candidate.Line*0.4
	projection := anchor * rng.Between(0.85, 1.15)

	edge := projection - candidate.Line

	confidence := clamp(0.5+edge*0.1+rng.Between(-0.05, 0.05), 0, 1)

	return Prop{
		PropCandidate: candidate,
		Projection:    round1(projection),
		Edge:          round1(projection) - candidate.Line,
		Confidence:    confidence,
		Tier:          ConfidenceTier(confidence),
	}
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
