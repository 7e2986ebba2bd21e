package rankings

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Entry is one team's position in a scraped rankings list
type Entry struct {
	Rank     int
	TeamName string
	TeamAbbr string
	Trend    string
}

// rankHeading matches headings like "1. Kansas City Chiefs" or "12) Dallas Cowboys (+3)"
var rankHeading = regexp.MustCompile(`^(\d{1,2})[.)]\s+(.+?)(?:\s+\(([+-]\d+|--)\))?$`)

// ParseRankings extracts a power-rankings list from a rendered article page.
// Rankings articles vary in markup, so multiple strategies are tried in order.
func ParseRankings(doc *goquery.Document) []Entry {
	var entries []Entry

	// Strategy 1: ranked-item widgets with explicit rank and title nodes
	doc.Find("div.nfl-o-ranked-item").Each(func(i int, s *goquery.Selection) {
		rankText := strings.TrimSpace(s.Find(".nfl-o-ranked-item__label").Text())
		name := strings.TrimSpace(s.Find(".nfl-o-ranked-item__title").Text())
		rank, err := strconv.Atoi(rankText)
		if err != nil || name == "" {
			return
		}
		entries = append(entries, Entry{
			Rank:     rank,
			TeamName: name,
			TeamAbbr: TeamAbbreviation(name),
			Trend:    strings.TrimSpace(s.Find(".nfl-o-ranked-item__trend").Text()),
		})
	})

	// Strategy 2: numbered headings within the article body
	if len(entries) == 0 {
		doc.Find("h2, h3").Each(func(i int, s *goquery.Selection) {
			entry := parseRankHeading(s.Text())
			if entry != nil {
				entries = append(entries, *entry)
			}
		})
	}

	// Strategy 3: plain ordered list
	if len(entries) == 0 {
		doc.Find("ol li").Each(func(i int, s *goquery.Selection) {
			name := strings.TrimSpace(s.Text())
			abbr := TeamAbbreviation(name)
			if abbr == name {
				return // not a recognizable team
			}
			entries = append(entries, Entry{
				Rank:     i + 1,
				TeamName: name,
				TeamAbbr: abbr,
			})
		})
	}

	return entries
}

func parseRankHeading(text string) *Entry {
	matches := rankHeading.FindStringSubmatch(strings.TrimSpace(text))
	if len(matches) == 0 {
		return nil
	}

	rank, err := strconv.Atoi(matches[1])
	if err != nil || rank < 1 || rank > 32 {
		return nil
	}

	name := strings.TrimSpace(matches[2])
	abbr := TeamAbbreviation(name)
	if abbr == name {
		return nil // heading text is not a team name
	}

	trend := matches[3]
	if trend == "--" {
		trend = ""
	}

	return &Entry{
		Rank:     rank,
		TeamName: name,
		TeamAbbr: abbr,
		Trend:    trend,
	}
}

// teamNameToAbbr maps NFL franchise nicknames to standard abbreviations
var teamNameToAbbr = map[string]string{
	"cardinals":  "ARI",
	"falcons":    "ATL",
	"ravens":     "BAL",
	"bills":      "BUF",
	"panthers":   "CAR",
	"bears":      "CHI",
	"bengals":    "CIN",
	"browns":     "CLE",
	"cowboys":    "DAL",
	"broncos":    "DEN",
	"lions":      "DET",
	"packers":    "GB",
	"texans":     "HOU",
	"colts":      "IND",
	"jaguars":    "JAX",
	"chiefs":     "KC",
	"raiders":    "LV",
	"chargers":   "LAC",
	"rams":       "LAR",
	"dolphins":   "MIA",
	"vikings":    "MIN",
	"patriots":   "NE",
	"saints":     "NO",
	"giants":     "NYG",
	"jets":       "NYJ",
	"eagles":     "PHI",
	"steelers":   "PIT",
	"49ers":      "SF",
	"seahawks":   "SEA",
	"buccaneers": "TB",
	"titans":     "TEN",
	"commanders": "WSH",
}

// TeamAbbreviation resolves a team name to its abbreviation. Returns the
// input unchanged when no franchise matches.
func TeamAbbreviation(teamName string) string {
	nameLower := strings.ToLower(strings.TrimSpace(teamName))

	if abbr, ok := teamNameToAbbr[nameLower]; ok {
		return abbr
	}

	for key, abbr := range teamNameToAbbr {
		if strings.Contains(nameLower, key) {
			return abbr
		}
	}

	return teamName
}
