package warfare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/econwar/internal/economy"
	"github.com/talgya/econwar/internal/entropy"
	"github.com/talgya/econwar/internal/events"
)

func TestCreateAction_ReturnAndRisk(t *testing.T) {
	f := defaultFixture(t)
	f.clock.Set(12)

	a, ok := f.sub.CreateEconomicWarfareAction(economy.InfrastructureSabotage, 3, 1, "bridge-7", 1000)
	require.True(t, ok)
	assert.Equal(t, 2500.0, a.ExpectedReturn)
	assert.Equal(t, 0.75, a.RiskLevel)
	assert.Equal(t, 12.0, a.ExecutionTime)
	assert.Equal(t, "bridge-7", a.TargetData)
	assert.NotEqual(t, a.ID.String(), "00000000-0000-0000-0000-000000000000")

	assert.Equal(t, 0.8*2.0, f.sub.CalculateActionRiskLevel(economy.SupplyInterdiction, 10000))
	assert.Equal(t, 0.4*0.5, f.sub.CalculateActionRiskLevel(economy.SupplyChainHardening, 10))
}

func TestCreateAction_Validation(t *testing.T) {
	f := defaultFixture(t)
	_, ok := f.sub.CreateEconomicWarfareAction(economy.SupplyInterdiction, 0, 1, "", 10)
	assert.False(t, ok)
	_, ok = f.sub.CreateEconomicWarfareAction(economy.SupplyInterdiction, 2, 2, "", 10)
	assert.False(t, ok, "self-targeting")
	_, ok = f.sub.CreateEconomicWarfareAction(economy.ActionKind(99), 2, 1, "", 10)
	assert.False(t, ok)
	_, ok = f.sub.CreateEconomicWarfareAction(economy.SupplyInterdiction, 2, 1, "", -5)
	assert.False(t, ok)
	_, ok = f.sub.CreateEconomicWarfareAction(economy.ConvoyProtection, 2, -1, "", 5)
	assert.True(t, ok, "untargeted action")
}

func TestSuccessChance_SpecializationBonus(t *testing.T) {
	f := defaultFixture(t)
	a, ok := f.sub.CreateEconomicWarfareAction(economy.InfrastructureSabotage, 3, 1, "", 1000)
	require.True(t, ok)
	assert.InDelta(t, 0.756, f.sub.CalculateActionSuccessChance(a), 1e-9)

	// Faction 1 has no bonus on sabotage.
	b, _ := f.sub.CreateEconomicWarfareAction(economy.InfrastructureSabotage, 1, 3, "", 1000)
	assert.InDelta(t, 0.7*0.675, f.sub.CalculateActionSuccessChance(b), 1e-9)

	// Large risky investments bottom out at the floor.
	c, _ := f.sub.CreateEconomicWarfareAction(economy.InfrastructureSabotage, 1, 3, "", 1e6)
	assert.Equal(t, 0.10, f.sub.CalculateActionSuccessChance(c))

	// Cheap safe hardening with a bonus caps at the ceiling.
	d, _ := f.sub.CreateEconomicWarfareAction(economy.SupplyChainHardening, 1, -1, "", 2000)
	assert.Equal(t, 0.95, f.sub.CalculateActionSuccessChance(d))
}

func TestExecute_SuccessTriggersCappedRetaliation(t *testing.T) {
	// 0.5 resolves the sabotage; 0.99 fails the counter-interdiction.
	f := newFixture(t, entropy.NewScripted(0.5, 0.99), DefaultConfig())
	s := f.sub

	a, _ := s.CreateEconomicWarfareAction(economy.InfrastructureSabotage, 3, 1, "", 1000)
	net, ok := s.ExecuteEconomicWarfareAction(a)
	require.True(t, ok)
	assert.InDelta(t, 3000.0, net, 1e-9)

	assert.InDelta(t, 4000.0, s.CalculateEconomicDamageDealt(3), 1e-9)
	assert.InDelta(t, 4000.0, s.CalculateEconomicDamageReceived(1), 1e-9)
	assert.Equal(t, 0.0, s.CalculateEconomicDamageDealt(1), "failed counter credits nothing")
	assert.Equal(t, 0.0, s.CalculateEconomicDamageReceived(3))

	evs := f.rec.Events()
	require.Len(t, evs, 3)
	counter := evs[0].(events.WarfareAction)
	assert.Equal(t, economy.SupplyInterdiction, counter.ActionKind)
	assert.EqualValues(t, 1, counter.Initiator)
	assert.InDelta(t, 3840.0, counter.InvestmentCost, 1e-9)
	assert.InDelta(t, 3840*2.0*0.2, counter.ActualReturn, 1e-9)
	assert.Equal(t, events.EconomicRetaliation{Retaliator: 1, Target: 3, Severity: 4800, Category: events.CategoryMajor}, evs[1])
	assert.Equal(t, events.WarfareAction{
		Initiator:      3,
		ActionKind:     economy.InfrastructureSabotage,
		InvestmentCost: 1000,
		ActualReturn:   4000,
	}, evs[2])
}

func TestExecute_FailureReturnsFifthOfExpected(t *testing.T) {
	f := newFixture(t, entropy.NewScripted(0.9), DefaultConfig())
	a, _ := f.sub.CreateEconomicWarfareAction(economy.MarketManipulation, 4, 2, "", 500)
	net, ok := f.sub.ExecuteEconomicWarfareAction(a)
	require.True(t, ok)
	assert.InDelta(t, 500*2.2*0.2-500, net, 1e-9)
	assert.Equal(t, 0.0, f.sub.CalculateEconomicDamageReceived(2))

	evs := f.rec.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.KindWarfareAction, evs[0].Kind())
}

func TestExecute_RetaliationDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableEconomicRetaliation = false
	f := newFixture(t, entropy.NewScripted(0.0), cfg)
	a, _ := f.sub.CreateEconomicWarfareAction(economy.SupplyInterdiction, 2, 5, "", 1000)
	_, ok := f.sub.ExecuteEconomicWarfareAction(a)
	require.True(t, ok)
	assert.Empty(t, f.rec.OfKind(events.KindEconomicRetaliation))
	assert.Len(t, f.rec.Events(), 1)
}

func TestExecute_UntargetedActionNeverRetaliates(t *testing.T) {
	f := newFixture(t, entropy.NewScripted(0.0), DefaultConfig())
	a, _ := f.sub.CreateEconomicWarfareAction(economy.ConvoyProtection, 5, -1, "", 100)
	net, ok := f.sub.ExecuteEconomicWarfareAction(a)
	require.True(t, ok)
	assert.InDelta(t, 100*1.3*1.2-100, net, 1e-9)
	assert.InDelta(t, 156.0, f.sub.CalculateEconomicDamageDealt(5), 1e-9)
	assert.Len(t, f.rec.Events(), 1)
}

func TestExecute_RejectsInvalidAction(t *testing.T) {
	f := defaultFixture(t)
	_, ok := f.sub.ExecuteEconomicWarfareAction(Action{Kind: economy.SupplyInterdiction, Initiator: -1, Target: 2})
	assert.False(t, ok)
	_, ok = f.sub.ExecuteEconomicWarfareAction(Action{Kind: economy.SupplyInterdiction, Initiator: 1, Target: 2, ExpectedReturn: -3})
	assert.False(t, ok)
	assert.Empty(t, f.rec.Events())
}
