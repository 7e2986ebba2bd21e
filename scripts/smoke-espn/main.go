package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/restocktime/nfl-ncaa-analytics/internal/ingest/espn"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

// Manual smoke check for the ESPN scoreboard client. Hits the live API
// and prints the parsed slate for today and for one fixed date.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	client := espn.NewClient()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, sport := range []string{store.SportNFL, store.SportNCAA} {
		scoreboard, err := client.FetchScoreboard(ctx, espn.SportPath(sport), time.Time{})
		if err != nil {
			logger.Error("scoreboard fetch failed", "sport", sport, "error", err)
			continue
		}

		games := espn.ParseScoreboard(scoreboard)
		fmt.Printf("%s: %d games today\n", sport, len(games))
		for _, g := range games {
			fmt.Printf("  %s @ %s  [%s]  %d-%d\n",
				g.AwayAbbr, g.HomeAbbr, g.Status, g.AwayScore, g.HomeScore)
		}
	}
}
