package rankings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rankedItemHTML = `
<html><body>
<div class="nfl-o-ranked-item">
	<span class="nfl-o-ranked-item__label">1</span>
	<span class="nfl-o-ranked-item__title">Kansas City Chiefs</span>
	<span class="nfl-o-ranked-item__trend">+2</span>
</div>
<div class="nfl-o-ranked-item">
	<span class="nfl-o-ranked-item__label">2</span>
	<span class="nfl-o-ranked-item__title">Philadelphia Eagles</span>
	<span class="nfl-o-ranked-item__trend">-1</span>
</div>
<div class="nfl-o-ranked-item">
	<span class="nfl-o-ranked-item__label">bogus</span>
	<span class="nfl-o-ranked-item__title">Not A Team</span>
</div>
</body></html>`

const headingHTML = `
<html><body>
<h2>Week 9 Power Rankings</h2>
<h3>1. Detroit Lions (+3)</h3>
<h3>2. Buffalo Bills (--)</h3>
<h3>12) San Francisco 49ers</h3>
<h3>Injury notes</h3>
</body></html>`

func TestParseRankingsRankedItems(t *testing.T) {
	doc, err := ParseHTML(rankedItemHTML)
	require.NoError(t, err)

	entries := ParseRankings(doc)
	require.Len(t, entries, 2)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "KC", entries[0].TeamAbbr)
	assert.Equal(t, "+2", entries[0].Trend)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "PHI", entries[1].TeamAbbr)
}

func TestParseRankingsHeadingFallback(t *testing.T) {
	doc, err := ParseHTML(headingHTML)
	require.NoError(t, err)

	entries := ParseRankings(doc)
	require.Len(t, entries, 3)

	assert.Equal(t, "DET", entries[0].TeamAbbr)
	assert.Equal(t, "+3", entries[0].Trend)

	// "--" means no movement and is normalized to empty
	assert.Equal(t, "BUF", entries[1].TeamAbbr)
	assert.Empty(t, entries[1].Trend)

	assert.Equal(t, 12, entries[2].Rank)
	assert.Equal(t, "SF", entries[2].TeamAbbr)
}

func TestParseRankingsEmptyPage(t *testing.T) {
	doc, err := ParseHTML(`<html><body><p>nothing here</p></body></html>`)
	require.NoError(t, err)

	assert.Empty(t, ParseRankings(doc))
}

func TestTeamAbbreviation(t *testing.T) {
	assert.Equal(t, "KC", TeamAbbreviation("Kansas City Chiefs"))
	assert.Equal(t, "SF", TeamAbbreviation("49ers"))
	assert.Equal(t, "WSH", TeamAbbreviation("Washington Commanders"))
	assert.Equal(t, "Toledo Rockets", TeamAbbreviation("Toledo Rockets"))
}
