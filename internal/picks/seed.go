package picks

import (
	"hash/fnv"
	"strings"
)

// Rand is a deterministic linear congruential generator. The same seed
// string always produces the same sequence, so a slate generated for a
// given date never shifts between requests.
type Rand struct {
	state uint32
}

// NewRand seeds a generator from the joined seed parts, typically a date
// plus a player or matchup name.
func NewRand(parts ...string) *Rand {
	h := fnv.New32a()
	h.Write([]byte(strings.Join(parts, "|")))
	state := h.Sum32()
	if state == 0 {
		state = 1
	}
	return &Rand{state: state}
}

// Next returns the next value in [0, 1)
func (r *Rand) Next() float64 {
	// Numerical Recipes LCG constants
	r.state = r.state*1664525 + 1013904223
	return float64(r.state) / (1 << 32)
}

// Between returns the next value scaled into [lo, hi)
func (r *Rand) Between(lo, hi float64) float64 {
	return lo + r.Next()*(hi-lo)
}
