package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedFactions_IdsAreOneThroughSeven(t *testing.T) {
	fs := SeedFactions()
	assert.Len(t, fs, 7)
	for i, f := range fs {
		assert.Equal(t, FactionID(i+1), f.ID)
		assert.NotEmpty(t, f.Name)
		assert.NotContains(t, f.Kind.String(), "kind(")
	}
}

func TestValidity(t *testing.T) {
	assert.False(t, NoFaction.Valid())
	assert.False(t, FactionID(0).Valid())
	assert.True(t, FactionID(3).Valid())

	assert.False(t, NoTerritory.Valid())
	assert.True(t, TerritoryID(0).Valid())
}

func TestFactionName(t *testing.T) {
	assert.Equal(t, "Ashfall Irregulars", FactionName(3))
	assert.Equal(t, "unattributed", FactionName(NoFaction))
	assert.Equal(t, "faction-12", FactionName(12))
}
