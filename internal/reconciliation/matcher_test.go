package reconciliation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

func TestMatchTeamsExact(t *testing.T) {
	assert.True(t, MatchTeams("KC", "kc"))
	assert.True(t, MatchTeams("BUF", "BUF"))
	assert.False(t, MatchTeams("KC", "BUF"))
}

func TestMatchTeamsVariants(t *testing.T) {
	assert.True(t, MatchTeams("JAX", "JAC"))
	assert.True(t, MatchTeams("WSH", "WAS"))
	assert.True(t, MatchTeams("LV", "OAK"))
	assert.True(t, MatchTeams("Los Angeles Rams", "LAR"))
	assert.True(t, MatchTeams("Jacksonville Jaguars", "JAC"))
	assert.False(t, MatchTeams("LAR", "LAC"))
}

func TestMatchPlayer(t *testing.T) {
	players := []*store.Player{
		{PlayerID: 1, FullName: "Fred Warner"},
		{PlayerID: 2, FullName: "Patrick Mahomes"},
		{PlayerID: 3, FullName: "Josh Allen"},
	}
	m := NewMatcher()

	match := m.MatchPlayer("Patrick Mahomes", players)
	require.NotNil(t, match)
	assert.Equal(t, 2, match.PlayerID)

	// Minor feed-to-feed spelling differences still match.
	match = m.MatchPlayer("patrick mahommes", players)
	require.NotNil(t, match)
	assert.Equal(t, 2, match.PlayerID)
}

func TestMatchPlayerNoMatch(t *testing.T) {
	players := []*store.Player{
		{PlayerID: 1, FullName: "Fred Warner"},
	}
	m := NewMatcher()

	assert.Nil(t, m.MatchPlayer("Justin Jefferson", players))
	assert.Nil(t, m.MatchPlayer("", players))
}

func TestMatchPlayerName(t *testing.T) {
	names := []string{"Fred Warner", "Roquan Smith", "Budda Baker"}
	m := NewMatcher()

	assert.Equal(t, 1, m.MatchPlayerName("Roquan Smith", names))
	assert.Equal(t, -1, m.MatchPlayerName("Micah Parsons", names))
}
