package backfill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveType(t *testing.T) {
	start := time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC)

	jobType, err := Request{GameIDs: []string{"401547321"}}.DeriveType()
	require.NoError(t, err)
	assert.Equal(t, JobTypeGame, jobType)

	jobType, err = Request{StartDate: &start, EndDate: &end}.DeriveType()
	require.NoError(t, err)
	assert.Equal(t, JobTypeDateRange, jobType)

	jobType, err = Request{SeasonYear: "2025"}.DeriveType()
	require.NoError(t, err)
	assert.Equal(t, JobTypeSeason, jobType)

	_, err = Request{}.DeriveType()
	assert.Error(t, err)
}

func TestEnumerateDates(t *testing.T) {
	start := time.Date(2025, 9, 7, 15, 30, 0, 0, time.UTC)
	end := time.Date(2025, 9, 9, 2, 0, 0, 0, time.UTC)

	dates := enumerateDates(start, end)
	require.Len(t, dates, 3)
	assert.Equal(t, time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2025, 9, 9, 0, 0, 0, 0, time.UTC), dates[2])

	// Reversed bounds are tolerated.
	assert.Len(t, enumerateDates(end, start), 3)
}

func TestSeasonWindow(t *testing.T) {
	start, end := seasonWindow("2025")
	assert.Equal(t, 2025, start.Year())
	assert.Equal(t, time.September, start.Month())
	assert.Equal(t, 2026, end.Year())
	assert.Equal(t, time.February, end.Month())
}

func TestSpecProgressUnits(t *testing.T) {
	assert.Equal(t, 2, specProgressUnits(JobSpec{
		Type:    JobTypeGame,
		GameIDs: []string{"1", "2"},
	}))

	start := time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 8, specProgressUnits(JobSpec{
		Type:  JobTypeDateRange,
		Start: start,
		End:   start.AddDate(0, 0, 7),
	}))
}
