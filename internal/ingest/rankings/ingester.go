package rankings

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store/repository"
)

// SourceNFL identifies the nfl.com rankings article as the snapshot source
const SourceNFL = "nfl.com"

// PageFetcher renders a rankings page to HTML
type PageFetcher interface {
	FetchRankingsPage(ctx context.Context) (string, error)
}

// Ingester scrapes power rankings and persists weekly snapshots
type Ingester struct {
	fetcher     PageFetcher
	rankingRepo *repository.RankingRepository
	logger      *slog.Logger
}

// NewIngester creates a rankings ingester
func NewIngester(fetcher PageFetcher, rankingRepo *repository.RankingRepository, logger *slog.Logger) *Ingester {
	return &Ingester{
		fetcher:     fetcher,
		rankingRepo: rankingRepo,
		logger:      logger.With("component", "rankings_ingester"),
	}
}

// IngestSnapshot scrapes the current rankings page and stores one snapshot.
// All entries in a snapshot share the same captured_at timestamp so
// GetLatest returns a coherent list.
func (i *Ingester) IngestSnapshot(ctx context.Context) (int, error) {
	html, err := i.fetcher.FetchRankingsPage(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching rankings page: %w", err)
	}

	doc, err := ParseHTML(html)
	if err != nil {
		return 0, fmt.Errorf("parsing rankings page: %w", err)
	}

	entries := ParseRankings(doc)
	if len(entries) == 0 {
		return 0, fmt.Errorf("no ranking entries found on page")
	}

	capturedAt := time.Now().UTC().Truncate(time.Second)
	stored := 0
	for _, entry := range entries {
		ranking := &store.PowerRanking{
			Sport:      store.SportNFL,
			TeamAbbr:   entry.TeamAbbr,
			Rank:       entry.Rank,
			Source:     SourceNFL,
			CapturedAt: capturedAt,
		}
		if entry.Trend != "" {
			ranking.Trend = sql.NullString{String: entry.Trend, Valid: true}
		}

		if err := i.rankingRepo.Insert(ctx, ranking); err != nil {
			i.logger.Error("failed to store ranking entry",
				"team", entry.TeamAbbr, "rank", entry.Rank, "error", err)
			continue
		}
		stored++
	}

	i.logger.Info("stored rankings snapshot",
		"entries", stored, "captured_at", capturedAt)
	return stored, nil
}
