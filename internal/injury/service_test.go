package injury

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

type fakeRepo struct {
	records []*store.InjuryRecord
	err     error
}

func (f *fakeRepo) GetCurrent(ctx context.Context, sport string) ([]*store.InjuryRecord, error) {
	return f.records, f.err
}

func (f *fakeRepo) GetByTeam(ctx context.Context, sport, teamAbbr string) ([]*store.InjuryRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*store.InjuryRecord
	for _, rec := range f.records {
		if rec.TeamAbbr == teamAbbr {
			out = append(out, rec)
		}
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetCurrentPrefersStoredRecords(t *testing.T) {
	stored := []*store.InjuryRecord{
		{Sport: store.SportNFL, PlayerName: "Fred Warner", TeamAbbr: "SF", Status: "questionable", Source: "espn"},
	}
	svc := NewService(&fakeRepo{records: stored}, testLogger())

	records, err := svc.GetCurrent(context.Background(), store.SportNFL)
	require.NoError(t, err)
	assert.Equal(t, stored, records)
}

func TestGetCurrentFallsBackOnError(t *testing.T) {
	svc := NewService(&fakeRepo{err: errors.New("db down")}, testLogger())

	records, err := svc.GetCurrent(context.Background(), store.SportNFL)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	for _, rec := range records {
		assert.Equal(t, SourceFallback, rec.Source)
	}
}

func TestGetCurrentFallsBackOnEmpty(t *testing.T) {
	svc := NewService(&fakeRepo{}, testLogger())

	records, err := svc.GetCurrent(context.Background(), store.SportNFL)
	require.NoError(t, err)
	assert.NotEmpty(t, records)
}

func TestFallbackReportShapeMatchesLiveRecords(t *testing.T) {
	for _, rec := range FallbackReport(store.SportNFL) {
		assert.Equal(t, store.SportNFL, rec.Sport)
		assert.NotEmpty(t, rec.PlayerName)
		assert.NotEmpty(t, rec.TeamAbbr)
		assert.NotEmpty(t, rec.Status)
		assert.False(t, rec.ReportDate.IsZero())
		assert.Equal(t, SourceFallback, rec.Source)
	}
}

func TestFallbackReportUnknownSport(t *testing.T) {
	assert.Empty(t, FallbackReport(store.SportNCAA))
}

func TestGetByTeamFiltersFallback(t *testing.T) {
	svc := NewService(&fakeRepo{err: errors.New("db down")}, testLogger())

	records, err := svc.GetByTeam(context.Background(), store.SportNFL, "KC")
	require.NoError(t, err)
	for _, rec := range records {
		assert.Equal(t, "KC", rec.TeamAbbr)
	}
}
