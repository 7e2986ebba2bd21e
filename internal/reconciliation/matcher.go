package reconciliation

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

// defaultSimilarity is the minimum name similarity for a player match
const defaultSimilarity = 0.7

// teamVariants maps NFL abbreviations to the names other feeds use for
// the same franchise. Sleeper, ESPN, and scraped sources disagree on a
// handful of these.
var teamVariants = map[string][]string{
	"JAX": {"JAC", "Jaguars", "Jacksonville Jaguars"},
	"LAR": {"LA", "Rams", "Los Angeles Rams", "LA Rams"},
	"LAC": {"Chargers", "Los Angeles Chargers", "LA Chargers", "SD"},
	"LV":  {"LVR", "OAK", "Raiders", "Las Vegas Raiders"},
	"WSH": {"WAS", "Commanders", "Washington Commanders"},
	"NE":  {"NWE", "Patriots", "New England Patriots"},
	"NO":  {"NOR", "Saints", "New Orleans Saints"},
	"GB":  {"GNB", "Packers", "Green Bay Packers"},
	"KC":  {"KAN", "Chiefs", "Kansas City Chiefs"},
	"SF":  {"SFO", "49ers", "San Francisco 49ers"},
	"TB":  {"TAM", "Buccaneers", "Tampa Bay Buccaneers"},
}

// Matcher reconciles player and team identities across feeds
type Matcher struct {
	similarity float64
}

// NewMatcher creates a matcher with the default similarity threshold
func NewMatcher() *Matcher {
	return &Matcher{similarity: defaultSimilarity}
}

// MatchTeams reports whether two team identifiers refer to the same
// franchise, tolerating abbreviation and full-name variants.
func MatchTeams(a, b string) bool {
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
		return true
	}

	for abbr, variants := range teamVariants {
		if matchesVariant(a, abbr, variants) && matchesVariant(b, abbr, variants) {
			return true
		}
	}
	return false
}

func matchesVariant(name, abbr string, variants []string) bool {
	if strings.EqualFold(name, abbr) {
		return true
	}
	nameLower := strings.ToLower(strings.TrimSpace(name))
	for _, variant := range variants {
		if nameLower == strings.ToLower(variant) {
			return true
		}
	}
	return false
}

// MatchPlayer finds the stored player whose name best matches the given
// feed name. Returns nil when nothing clears the similarity threshold.
func (m *Matcher) MatchPlayer(name string, candidates []*store.Player) *store.Player {
	var best *store.Player
	bestScore := 0.0

	for i, candidate := range candidates {
		score := similarity(name, candidate.FullName)
		if score >= m.similarity && score > bestScore {
			bestScore = score
			best = candidates[i]
		}
	}
	return best
}

// MatchPlayerName is MatchPlayer over bare name strings, returning the
// index of the best match or -1.
func (m *Matcher) MatchPlayerName(name string, candidates []string) int {
	bestIdx := -1
	bestScore := 0.0

	for i, candidate := range candidates {
		score := similarity(name, candidate)
		if score >= m.similarity && score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	return bestIdx
}

// similarity normalizes Levenshtein distance into [0, 1]
func similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	distance := fuzzy.LevenshteinDistance(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1 - float64(distance)/float64(maxLen)
}
