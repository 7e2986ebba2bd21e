package picks

import "strings"

// Confidence tiers
const (
	TierElite  = "elite"
	TierStrong = "strong"
	TierLean   = "lean"
)

// baseTackleProjection is the per-game tackle baseline by position.
// Hand-tuned against typical season averages.
var baseTackleProjection = map[string]float64{
	"LB":  8.5,
	"ILB": 8.0,
	"OLB": 6.5,
	"MLB": 8.5,
	"S":   6.5,
	"SS":  6.5,
	"FS":  6.0,
	"CB":  5.0,
	"DE":  4.5,
	"DT":  3.5,
	"NT":  3.0,
}

// statMultiplier scales the positional baseline into other stat markets
var statMultiplier = map[string]float64{
	"tackles":         1.0,
	"solo_tackles":    0.65,
	"tackles_assists": 1.35,
	"sacks":           0.08,
	"interceptions":   0.03,
}

// BaseProjection returns the pre-simulation projection for a position and
// stat market. Unknown positions get a conservative default so unrecognized
// rosters never produce inflated edges.
func BaseProjection(position, statType string) float64 {
	base, ok := baseTackleProjection[strings.ToUpper(position)]
	if !ok {
		base = 3.0
	}

	mult, ok := statMultiplier[strings.ToLower(statType)]
	if !ok {
		mult = 1.0
	}

	return base * mult
}

// ConfidenceTier buckets a confidence float into its display tier
func ConfidenceTier(confidence float64) string {
	switch {
	case confidence >= 0.80:
		return TierElite
	case confidence >= 0.65:
		return TierStrong
	default:
		return TierLean
	}
}

// clamp bounds v into [lo, hi]
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
