package espn

import "time"

// SourceFallback marks rows served from the canned slate so a stale
// dashboard can be told apart from live data.
const SourceFallback = "fallback"

// FallbackScoreboard returns a canned demo slate used when every fetch
// attempt against ESPN fails. It carries the same shape as a live
// scoreboard response so downstream parsing is identical.
func FallbackScoreboard(now time.Time) *Scoreboard {
	kickoffEarly := time.Date(now.Year(), now.Month(), now.Day(), 18, 0, 0, 0, time.UTC)
	kickoffLate := kickoffEarly.Add(3*time.Hour + 25*time.Minute)

	return &Scoreboard{
		Week: Week{Number: 1},
		Events: []Event{
			{
				ID:        "demo-401-0001",
				Date:      Time{Time: kickoffEarly},
				Name:      "Buffalo Bills at Kansas City Chiefs",
				ShortName: "BUF @ KC",
				Week:      Week{Number: 1},
				Status: Status{
					Type: StatusType{Name: "STATUS_SCHEDULED", State: "pre", Description: "Scheduled"},
				},
				Competitions: []Competition{
					{
						ID:    "demo-401-0001",
						Date:  Time{Time: kickoffEarly},
						Venue: Venue{FullName: "GEHA Field at Arrowhead Stadium"},
						Broadcasts: []Broadcast{
							{Market: "national", Names: []string{"CBS"}},
						},
						Competitors: []Competitor{
							{
								ID:       "12",
								HomeAway: "home",
								Score:    "0",
								Team:     Team{ID: "12", Abbreviation: "KC", DisplayName: "Kansas City Chiefs", Name: "Chiefs", Location: "Kansas City"},
							},
							{
								ID:       "2",
								HomeAway: "away",
								Score:    "0",
								Team:     Team{ID: "2", Abbreviation: "BUF", DisplayName: "Buffalo Bills", Name: "Bills", Location: "Buffalo"},
							},
						},
						Odds: []Odds{
							{Details: "KC -2.5", OverUnder: 53.5, Spread: -2.5},
						},
					},
				},
			},
			{
				ID:        "demo-401-0002",
				Date:      Time{Time: kickoffLate},
				Name:      "Dallas Cowboys at Philadelphia Eagles",
				ShortName: "DAL @ PHI",
				Week:      Week{Number: 1},
				Status: Status{
					Type: StatusType{Name: "STATUS_SCHEDULED", State: "pre", Description: "Scheduled"},
				},
				Competitions: []Competition{
					{
						ID:    "demo-401-0002",
						Date:  Time{Time: kickoffLate},
						Venue: Venue{FullName: "Lincoln Financial Field"},
						Broadcasts: []Broadcast{
							{Market: "national", Names: []string{"NBC"}},
						},
						Competitors: []Competitor{
							{
								ID:       "21",
								HomeAway: "home",
								Score:    "0",
								Team:     Team{ID: "21", Abbreviation: "PHI", DisplayName: "Philadelphia Eagles", Name: "Eagles", Location: "Philadelphia"},
							},
							{
								ID:       "6",
								HomeAway: "away",
								Score:    "0",
								Team:     Team{ID: "6", Abbreviation: "DAL", DisplayName: "Dallas Cowboys", Name: "Cowboys", Location: "Dallas"},
							},
						},
						Odds: []Odds{
							{Details: "PHI -4.5", OverUnder: 47.0, Spread: -4.5},
						},
					},
				},
			},
			{
				ID:        "demo-401-0003",
				Date:      Time{Time: kickoffLate},
				Name:      "San Francisco 49ers at Detroit Lions",
				ShortName: "SF @ DET",
				Week:      Week{Number: 1},
				Status: Status{
					Type: StatusType{Name: "STATUS_SCHEDULED", State: "pre", Description: "Scheduled"},
				},
				Competitions: []Competition{
					{
						ID:    "demo-401-0003",
						Date:  Time{Time: kickoffLate},
						Venue: Venue{FullName: "Ford Field"},
						Competitors: []Competitor{
							{
								ID:       "8",
								HomeAway: "home",
								Score:    "0",
								Team:     Team{ID: "8", Abbreviation: "DET", DisplayName: "Detroit Lions", Name: "Lions", Location: "Detroit"},
							},
							{
								ID:       "25",
								HomeAway: "away",
								Score:    "0",
								Team:     Team{ID: "25", Abbreviation: "SF", DisplayName: "San Francisco 49ers", Name: "49ers", Location: "San Francisco"},
							},
						},
						Odds: []Odds{
							{Details: "DET -1.5", OverUnder: 51.0, Spread: -1.5},
						},
					},
				},
			},
		},
	}
}
