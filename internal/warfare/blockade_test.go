package warfare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/econwar/internal/events"
)

func TestBlockade_Gating(t *testing.T) {
	inf := influenceTable{{5, 1}: 0.80, {5, 2}: 0.90, {6, 2}: 0.50}
	f := defaultFixture(t, WithInfluence(inf))
	s := f.sub

	require.True(t, s.EstablishTerritorialBlockade(5, 1, 0.30))
	b, ok := s.GetTerritorialBlockade(5)
	require.True(t, ok)
	assert.Equal(t, 0.25, b.TaxRate)
	assert.Equal(t, []events.Event{events.BlockadeEstablished{TerritoryID: 5, Faction: 1, TaxRate: 0.25}}, f.rec.Events())

	assert.ErrorIs(t, s.CheckBlockade(5, 2), ErrDuplicateBlockade)
	assert.False(t, s.EstablishTerritorialBlockade(5, 2, 0.20))

	assert.ErrorIs(t, s.CheckBlockade(6, 2), ErrInsufficientInfluence)
	assert.False(t, s.CanEstablishBlockade(6, 2))
	assert.False(t, s.EstablishTerritorialBlockade(6, 2, 0.10))

	assert.Len(t, f.rec.Events(), 1, "failed validation publishes nothing")
	assert.Len(t, s.GetActiveTerritorialBlockades(), 1)
}

func TestBlockade_ClampsNegativeTax(t *testing.T) {
	f := defaultFixture(t, WithInfluence(influenceTable{{1, 1}: 1}))
	require.True(t, f.sub.EstablishTerritorialBlockade(1, 1, -0.4))
	b, _ := f.sub.GetTerritorialBlockade(1)
	assert.Equal(t, 0.0, b.TaxRate)
}

func TestBlockade_InvalidIds(t *testing.T) {
	f := defaultFixture(t, WithInfluence(influenceTable{{1, 1}: 1}))
	assert.ErrorIs(t, f.sub.CheckBlockade(-1, 1), ErrInvalidTerritory)
	assert.ErrorIs(t, f.sub.CheckBlockade(1, -1), ErrInvalidFaction)

	noOracle := defaultFixture(t)
	assert.ErrorIs(t, noOracle.sub.CheckBlockade(1, 1), ErrInsufficientInfluence)
}

func TestBlockade_RemoveRoundTrip(t *testing.T) {
	f := defaultFixture(t, WithInfluence(influenceTable{{5, 1}: 0.9}))
	s := f.sub
	before := s.Snapshot()

	require.True(t, s.EstablishTerritorialBlockade(5, 1, 0.1))
	require.True(t, s.RemoveTerritorialBlockade(5, 2))
	assert.Equal(t, before, s.Snapshot())

	_, ok := s.GetTerritorialBlockade(5)
	assert.False(t, ok)
	assert.False(t, s.RemoveTerritorialBlockade(5, 2), "removing twice is a no-op")

	evs := f.rec.Events()
	require.Len(t, evs, 2)
	assert.Equal(t, events.BlockadeRemoved{TerritoryID: 5}, evs[1])
}

func TestBlockade_RevenueAccrual(t *testing.T) {
	f := defaultFixture(t,
		WithInfluence(influenceTable{{5, 1}: 0.9, {7, 4}: 0.95}),
		WithConvoys(convoyTable{"R1": 40, "R2": 15, "R3": 0}),
	)
	s := f.sub
	require.True(t, s.EstablishTerritorialBlockade(5, 1, 0.25))
	require.True(t, s.EstablishTerritorialBlockade(7, 4, 0.10))

	f.clock.Advance(2)
	s.Tick(2)
	f.clock.Advance(1)
	s.Tick(1)

	b, _ := s.GetTerritorialBlockade(5)
	assert.InDelta(t, 0.25*10*3, b.TotalRevenue, 1e-9)
	assert.Equal(t, 2, b.ConvoysAffected)
	assert.InDelta(t, 7.5, s.GetBlockadeRevenue(1), 1e-9)
	assert.InDelta(t, 3.0, s.GetBlockadeRevenue(4), 1e-9)
	assert.Equal(t, 0.0, s.GetBlockadeRevenue(2))
}
