package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/restocktime/nfl-ncaa-analytics/internal/ingest/rankings"
)

// Manual smoke check for the power rankings scraper. Runs headless
// Chrome against the live page and prints what the parser extracts.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := rankings.NewClient(rankings.DefaultURL, logger)
	if err != nil {
		logger.Error("failed to create client", "error", err)
		os.Exit(1)
	}

	html, err := client.FetchRankingsPage(ctx)
	if err != nil {
		logger.Error("failed to fetch rankings page", "error", err)
		os.Exit(1)
	}

	doc, err := rankings.ParseHTML(html)
	if err != nil {
		logger.Error("failed to parse page", "error", err)
		os.Exit(1)
	}

	entries := rankings.ParseRankings(doc)
	if len(entries) == 0 {
		logger.Error("no rankings extracted, page layout may have changed")
		os.Exit(1)
	}

	for _, e := range entries {
		trend := e.Trend
		if trend == "" {
			trend = "--"
		}
		fmt.Printf("%2d. %-4s %-30s %s\n", e.Rank, e.TeamAbbr, e.TeamName, trend)
	}
}
