package espn

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

// ParsedGame is a scoreboard event reshaped for ingestion. Team references
// are still external ESPN IDs; the ingester resolves them to database rows.
type ParsedGame struct {
	ExternalID     string
	Week           int
	GameTime       time.Time
	HomeExternalID string
	AwayExternalID string
	HomeAbbr       string
	AwayAbbr       string
	HomeScore      int
	AwayScore      int
	Status         string
	Period         int
	Clock          string
	Venue          string
	Network        string
	Spread         float64
	OverUnder      float64
	OddsDetail     string
	HasOdds        bool
}

// ParseScoreboard reshapes scoreboard events into ParsedGames.
// Events without two competitors are skipped.
func ParseScoreboard(sb *Scoreboard) []ParsedGame {
	games := make([]ParsedGame, 0, len(sb.Events))

	for _, event := range sb.Events {
		if len(event.Competitions) == 0 {
			continue
		}
		comp := event.Competitions[0]

		var home, away *Competitor
		for i := range comp.Competitors {
			switch comp.Competitors[i].HomeAway {
			case "home":
				home = &comp.Competitors[i]
			case "away":
				away = &comp.Competitors[i]
			}
		}
		if home == nil || away == nil {
			continue
		}

		game := ParsedGame{
			ExternalID:     event.ID,
			Week:           event.Week.Number,
			GameTime:       event.Date.Time,
			HomeExternalID: home.Team.ID,
			AwayExternalID: away.Team.ID,
			HomeAbbr:       home.Team.Abbreviation,
			AwayAbbr:       away.Team.Abbreviation,
			HomeScore:      parseScore(home.Score),
			AwayScore:      parseScore(away.Score),
			Status:         mapStatus(event.Status.Type),
			Period:         event.Status.Period,
			Clock:          event.Status.DisplayClock,
			Venue:          comp.Venue.FullName,
			Network:        pickNetwork(comp.Broadcasts),
		}

		if odds := pickOdds(comp.Odds); odds != nil {
			game.HasOdds = true
			game.Spread = odds.Spread
			game.OverUnder = odds.OverUnder
			game.OddsDetail = odds.Details
		}

		games = append(games, game)
	}

	return games
}

// ToStoreGame converts a parsed game to a store row once team IDs are resolved
func (p ParsedGame) ToStoreGame(sport string, seasonID, homeTeamID, awayTeamID int, source string) *store.Game {
	game := &store.Game{
		Sport:      sport,
		SeasonID:   seasonID,
		ExternalID: p.ExternalID,
		GameDate:   p.GameTime.Truncate(24 * time.Hour),
		HomeTeamID: homeTeamID,
		AwayTeamID: awayTeamID,
		Status:     p.Status,
		Source:     source,
	}
	if p.Week > 0 {
		game.Week = sql.NullInt32{Int32: int32(p.Week), Valid: true}
	}
	if !p.GameTime.IsZero() {
		game.GameTime = sql.NullTime{Time: p.GameTime, Valid: true}
	}
	if p.Status != store.StatusScheduled {
		game.HomeScore = sql.NullInt32{Int32: int32(p.HomeScore), Valid: true}
		game.AwayScore = sql.NullInt32{Int32: int32(p.AwayScore), Valid: true}
	}
	if p.Period > 0 {
		game.Period = sql.NullInt32{Int32: int32(p.Period), Valid: true}
	}
	if p.Clock != "" {
		game.Clock = sql.NullString{String: p.Clock, Valid: true}
	}
	if p.Venue != "" {
		game.Venue = sql.NullString{String: p.Venue, Valid: true}
	}
	if p.Network != "" {
		game.Network = sql.NullString{String: p.Network, Valid: true}
	}
	if p.HasOdds {
		game.Spread = sql.NullFloat64{Float64: p.Spread, Valid: true}
		game.OverUnder = sql.NullFloat64{Float64: p.OverUnder, Valid: true}
		game.OddsDetail = sql.NullString{String: p.OddsDetail, Valid: true}
	}
	return game
}

// parseScore converts ESPN's string scores to a non-negative int.
// Garbage or negative values clamp to 0.
func parseScore(s string) int {
	score, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || score < 0 {
		return 0
	}
	return score
}

// mapStatus maps ESPN status names onto our game states.
// Unrecognized statuses map to scheduled rather than failing ingestion.
func mapStatus(st StatusType) string {
	switch st.Name {
	case "STATUS_IN_PROGRESS", "STATUS_END_PERIOD":
		return store.StatusInProgress
	case "STATUS_HALFTIME":
		return store.StatusHalftime
	case "STATUS_FINAL", "STATUS_FINAL_OVERTIME":
		return store.StatusFinal
	case "STATUS_POSTPONED", "STATUS_CANCELED", "STATUS_SUSPENDED":
		return store.StatusPostponed
	case "STATUS_SCHEDULED", "STATUS_DELAYED":
		return store.StatusScheduled
	}
	if st.Completed {
		return store.StatusFinal
	}
	if st.State == "in" {
		return store.StatusInProgress
	}
	return store.StatusScheduled
}

// pickOdds chooses the highest-priority odds provider, if any
func pickOdds(odds []Odds) *Odds {
	if len(odds) == 0 {
		return nil
	}
	best := &odds[0]
	for i := 1; i < len(odds); i++ {
		if odds[i].Provider.Priority > best.Provider.Priority {
			best = &odds[i]
		}
	}
	return best
}

// pickNetwork chooses the national broadcast when present
func pickNetwork(broadcasts []Broadcast) string {
	for _, b := range broadcasts {
		if b.Market == "national" && len(b.Names) > 0 {
			return b.Names[0]
		}
	}
	for _, b := range broadcasts {
		if len(b.Names) > 0 {
			return b.Names[0]
		}
	}
	return ""
}
