package warfare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/econwar/internal/economy"
	"github.com/talgya/econwar/internal/entropy"
	"github.com/talgya/econwar/internal/events"
)

func TestTriggerRetaliation_MajorWithDepthCap(t *testing.T) {
	// The counter-interdiction succeeds; depth cap stops a second round.
	f := newFixture(t, entropy.NewScripted(0.05), DefaultConfig())
	s := f.sub

	severity, ok := s.TriggerEconomicRetaliation(1, 3, 4000)
	require.True(t, ok)
	assert.InDelta(t, 4800.0, severity, 1e-9)

	evs := f.rec.Events()
	require.Len(t, evs, 2)
	counter := evs[0].(events.WarfareAction)
	assert.Equal(t, economy.SupplyInterdiction, counter.ActionKind)
	assert.InDelta(t, 3840.0, counter.InvestmentCost, 1e-9)
	assert.InDelta(t, 7680.0, counter.ActualReturn, 1e-9)
	assert.Equal(t, events.EconomicRetaliation{Retaliator: 1, Target: 3, Severity: 4800, Category: "Major"}, evs[1])

	assert.InDelta(t, 7680.0, s.CalculateEconomicDamageReceived(3), 1e-9)
	assert.Equal(t, 0, s.retaliationDepth)
}

func TestTriggerRetaliation_MinorAndPowerScaling(t *testing.T) {
	f := newFixture(t, entropy.NewScripted(0.99), DefaultConfig())
	s := f.sub
	severity, ok := s.TriggerEconomicRetaliation(2, 4, 100)
	require.True(t, ok)
	assert.InDelta(t, 120.0, severity, 1e-9)
	require.Len(t, f.rec.OfKind(events.KindEconomicRetaliation), 1)
	assert.Equal(t, events.CategoryMinor, f.rec.OfKind(events.KindEconomicRetaliation)[0].(events.EconomicRetaliation).Category)

	// A strong faction hits back harder, capped at 2x.
	require.NoError(t, s.Restore(State{Ledger: []LedgerRecord{{Faction: 2, EconomicPower: 500}}}))
	assert.InDelta(t, 240.0, s.CalculateRetaliationSeverity(2, 100), 1e-9)
	require.NoError(t, s.Restore(State{Ledger: []LedgerRecord{{Faction: 2, EconomicPower: 10}}}))
	assert.InDelta(t, 60.0, s.CalculateRetaliationSeverity(2, 100), 1e-9)
}

func TestTriggerRetaliation_Validation(t *testing.T) {
	f := defaultFixture(t)
	_, ok := f.sub.TriggerEconomicRetaliation(1, 1, 500)
	assert.False(t, ok)
	_, ok = f.sub.TriggerEconomicRetaliation(1, 3, 0.05)
	assert.False(t, ok, "below threshold")

	cfg := DefaultConfig()
	cfg.EnableEconomicRetaliation = false
	off := newFixture(t, entropy.NewSeeded(1), cfg)
	_, ok = off.sub.TriggerEconomicRetaliation(1, 3, 500)
	assert.False(t, ok)

	assert.Empty(t, f.rec.Events())
	assert.Empty(t, off.rec.Events())
}
