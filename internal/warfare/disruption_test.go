package warfare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/econwar/internal/economy"
	"github.com/talgya/econwar/internal/events"
)

func TestDisruptRoute_TimedExpiry(t *testing.T) {
	f := defaultFixture(t)
	s := f.sub

	require.True(t, s.DisruptRoute("R1", economy.SignalJam, 1, 2, 100))
	require.Equal(t, []events.Event{events.RouteDisrupted{
		RouteID:            "R1",
		DisruptionKind:     economy.SignalJam,
		ResponsibleFaction: 2,
		DurationMinutes:    1.0,
	}}, f.rec.Events())
	assert.Equal(t, 150.0, s.CalculateEconomicDamageDealt(2))

	f.clock.Set(30)
	s.Tick(30)
	assert.True(t, s.IsRouteDisrupted("R1"))
	assert.InDelta(t, 0.8, s.CalculateRouteViability("R1"), 1e-12)

	f.clock.Set(61)
	s.Tick(31)
	assert.False(t, s.IsRouteDisrupted("R1"))
	assert.Empty(t, s.GetActiveDisruptions("R1"))
	assert.Empty(t, s.DisruptedRoutes(), "expired route entry must be dropped")
	assert.Equal(t, 1.0, s.CalculateRouteViability("R1"))
}

func TestDisruptRoute_PermanentSabotageSurvivesTicksAndRepair(t *testing.T) {
	f := defaultFixture(t)
	s := f.sub

	require.True(t, s.DisruptRoute("R2", economy.Sabotage, 1, 3, 200))
	for f.clock.Now() < 99999 {
		f.clock.Advance(1000)
		s.Tick(1000)
	}
	assert.True(t, s.IsRouteDisrupted("R2"))

	f.rec.Reset()
	assert.False(t, s.RepairRouteDisruption("R2", 7), "repair must not clear permanent entries")
	assert.Empty(t, f.rec.Events())
	active := s.GetActiveDisruptions("R2")
	require.Len(t, active, 1)
	assert.True(t, active[0].Permanent)
	assert.Equal(t, 300.0, active[0].EconomicImpact)
}

func TestRepair_IsIdempotentOverNonPermanent(t *testing.T) {
	f := defaultFixture(t)
	s := f.sub

	require.True(t, s.DisruptRoute("R3", economy.SignalJam, 10, 2, 100))
	require.True(t, s.DisruptRoute("R3", economy.BridgeOut, 10, 2, 100))
	require.True(t, s.DisruptRoute("R3", economy.Pirates, 10, 4, 40))
	f.rec.Reset()

	require.True(t, s.RepairRouteDisruption("R3", 1))
	evs := f.rec.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.SupplyChainEvent{
		Tag:             events.TagRouteRepaired,
		AffectedFaction: 1,
		EconomicImpact:  150 + 60,
	}, evs[0])

	active := s.GetActiveDisruptions("R3")
	require.Len(t, active, 1)
	assert.Equal(t, economy.BridgeOut, active[0].Kind)

	assert.False(t, s.RepairRouteDisruption("R3", 1))
	assert.Len(t, f.rec.Events(), 1)
	assert.Len(t, s.GetActiveDisruptions("R3"), 1)
}

func TestRepair_DropsRouteWhenEmpty(t *testing.T) {
	f := defaultFixture(t)
	s := f.sub
	require.True(t, s.DisruptRoute("R4", economy.Siege, 5, 2, 10))
	require.True(t, s.RepairRouteDisruption("R4", 2))
	assert.Empty(t, s.DisruptedRoutes())
	assert.False(t, s.RepairRouteDisruption("R4", 2), "unknown route")
}

func TestRouteViability_Stacking(t *testing.T) {
	f := defaultFixture(t)
	s := f.sub

	require.True(t, s.DisruptRoute("R1", economy.SignalJam, 10, 2, 0))
	require.True(t, s.DisruptRoute("R1", economy.SignalJam, 10, 2, 0))
	assert.InDelta(t, 0.64, s.CalculateRouteViability("R1"), 1e-12)

	for i := 0; i < 3; i++ {
		require.True(t, s.DisruptRoute("R5", economy.Siege, 10, 3, 0))
	}
	assert.Equal(t, MinRouteViability, s.CalculateRouteViability("R5"))
}

func TestDisruptRoute_Validation(t *testing.T) {
	f := defaultFixture(t, WithConvoys(convoyTable{"R1": 100, "R2": 0}))
	s := f.sub

	assert.False(t, s.DisruptRoute("NOPE", economy.SignalJam, 1, 2, 100), "route unknown to convoy oracle")
	assert.False(t, s.DisruptRoute("", economy.SignalJam, 1, 2, 100))
	assert.False(t, s.DisruptRoute("R1", economy.DisruptionKind(42), 1, 2, 100))
	assert.False(t, s.DisruptRoute("R1", economy.SignalJam, 1, 2, -1))
	assert.False(t, s.DisruptRoute("R1", economy.SignalJam, 0, 2, 10), "timed disruption needs a duration")
	assert.False(t, s.DisruptRoute("R1", economy.SignalJam, 1, 0, 10), "faction zero is not a faction")
	assert.Empty(t, f.rec.Events())

	assert.True(t, s.DisruptRoute("R1", economy.Pirates, 1, -1, 10), "unattributed disruption")
	for _, r := range s.LedgerRecords() {
		assert.True(t, r.Faction.Valid(), "unattributed disruption must not open a ledger record")
	}
}

func TestGetRouteTrafficLoss(t *testing.T) {
	f := defaultFixture(t, WithConvoys(convoyTable{"R1": 100}))
	s := f.sub
	assert.Equal(t, 0.0, s.GetRouteTrafficLoss("R1"))
	require.True(t, s.DisruptRoute("R1", economy.SignalJam, 5, 2, 0))
	assert.InDelta(t, 20.0, s.GetRouteTrafficLoss("R1"), 1e-9)
}

func TestSweep_RemovesOnlyExpired(t *testing.T) {
	f := defaultFixture(t)
	s := f.sub
	require.True(t, s.DisruptRoute("R1", economy.SignalJam, 1, 2, 0))
	f.clock.Set(30)
	require.True(t, s.DisruptRoute("R1", economy.Pirates, 1, 2, 0))

	f.clock.Set(60)
	s.Tick(30)
	active := s.GetActiveDisruptions("R1")
	require.Len(t, active, 1)
	assert.Equal(t, economy.Pirates, active[0].Kind)
	assert.Equal(t, 30.0, active[0].StartTime)
}
