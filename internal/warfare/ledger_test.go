package warfare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/econwar/internal/economy"
	"github.com/talgya/econwar/internal/entropy"
	"github.com/talgya/econwar/internal/events"
)

// sabotageFixture runs the faction 3 sabotage on faction 1 that succeeds
// while the counter-strike fails.
func sabotageFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t, entropy.NewScripted(0.5, 0.99), DefaultConfig())
	a, _ := f.sub.CreateEconomicWarfareAction(economy.InfrastructureSabotage, 3, 1, "", 1000)
	_, ok := f.sub.ExecuteEconomicWarfareAction(a)
	require.True(t, ok)
	f.rec.Reset()
	return f
}

func TestEconomicPower_RecomputedOnCadence(t *testing.T) {
	f := sabotageFixture(t)
	s := f.sub

	f.clock.Set(29)
	s.Tick(29)
	assert.Equal(t, BaseEconomicPower, s.GetFactionEconomicPower(3), "not yet due")

	f.clock.Set(30)
	s.Tick(1)
	assert.InDelta(t, 100+0.01*4000+20, s.GetFactionEconomicPower(3), 1e-9)
	assert.InDelta(t, 100-0.02*4000+20, s.GetFactionEconomicPower(1), 1e-9)
	assert.InDelta(t, 120.0, s.GetFactionEconomicPower(5), 1e-9)
	assert.Equal(t, BaseEconomicPower, s.GetFactionEconomicPower(42), "unknown faction reads the default")
}

func TestEconomicPower_Floor(t *testing.T) {
	f := defaultFixture(t)
	require.NoError(t, f.sub.Restore(State{Ledger: []LedgerRecord{{Faction: 1, DamageReceived: 1e6}}}))
	f.sub.UpdateEconomicPower()
	assert.Equal(t, MinEconomicPower, f.sub.GetFactionEconomicPower(1))
}

func TestRecovery_TinyMonotoneDecrease(t *testing.T) {
	f := sabotageFixture(t)
	s := f.sub
	require.InDelta(t, 4000.0, s.CalculateEconomicDamageReceived(1), 1e-9)

	f.clock.Advance(3600)
	prev := s.CalculateEconomicDamageReceived(1)
	for i := 0; i < 2; i++ {
		s.ProcessSupplyChainRecovery(3600)
		cur := s.CalculateEconomicDamageReceived(1)
		assert.LessOrEqual(t, cur, prev)
		assert.InDelta(t, 0.05, prev-cur, 1e-9)
		prev = cur
	}
	assert.Empty(t, f.rec.Events(), "steps below the event threshold are silent")
	assert.InDelta(t, 4000.0, s.CalculateEconomicDamageDealt(3), 1e-9, "dealt never recovers")
}

func TestRecovery_FloorsAtZero(t *testing.T) {
	f := defaultFixture(t)
	s := f.sub
	require.NoError(t, s.Restore(State{Ledger: []LedgerRecord{{Faction: 2, EconomicPower: 100, DamageReceived: 0.02}}}))
	s.ProcessSupplyChainRecovery(3600)
	assert.Equal(t, 0.0, s.CalculateEconomicDamageReceived(2))
	s.ProcessSupplyChainRecovery(3600)
	assert.Equal(t, 0.0, s.CalculateEconomicDamageReceived(2))
	assert.Empty(t, f.rec.Events())
}

func TestRecovery_PublishesLargeSteps(t *testing.T) {
	f := defaultFixture(t)
	s := f.sub
	require.NoError(t, s.Restore(State{Ledger: []LedgerRecord{{Faction: 6, EconomicPower: 100, DamageReceived: 1e6}}}))

	s.ProcessSupplyChainRecovery(300 * 3600)
	evs := f.rec.Events()
	require.Len(t, evs, 1)
	sc := evs[0].(events.SupplyChainEvent)
	assert.Equal(t, events.TagSupplyChainRecovery, sc.Tag)
	assert.EqualValues(t, 6, sc.AffectedFaction)
	assert.InDelta(t, 15.0, sc.EconomicImpact, 1e-9)
}

func TestRecovery_DrivenByScheduler(t *testing.T) {
	f := sabotageFixture(t)
	s := f.sub

	f.clock.Set(59)
	s.Tick(59)
	assert.InDelta(t, 4000.0, s.CalculateEconomicDamageReceived(1), 1e-12)

	f.clock.Set(120)
	s.Tick(61)
	assert.InDelta(t, 4000-0.05*120/3600, s.CalculateEconomicDamageReceived(1), 1e-9)
}

func TestSupplyChainEfficiency(t *testing.T) {
	f := sabotageFixture(t)
	s := f.sub
	// Faction 1: damage 4000 and CorporateLogistics (1.3).
	assert.InDelta(t, 0.6*1.15, s.CalculateSupplyChainEfficiency(1), 1e-9)
	// Faction 3: undamaged GuerrillaDisruption (1.6).
	assert.InDelta(t, 1.3, s.CalculateSupplyChainEfficiency(3), 1e-9)
	// Unspecialized, undamaged.
	assert.InDelta(t, 1.0, s.CalculateSupplyChainEfficiency(99), 1e-9)

	require.NoError(t, s.Restore(State{Ledger: []LedgerRecord{{Faction: 9, DamageReceived: 50000}}}))
	assert.InDelta(t, 0.2, s.CalculateSupplyChainEfficiency(9), 1e-9)
}
