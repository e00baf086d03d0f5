package warfare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/econwar/internal/economy"
	"github.com/talgya/econwar/internal/events"
	"github.com/talgya/econwar/internal/social"
)

func TestDefaultSpecializations(t *testing.T) {
	f := defaultFixture(t)
	want := map[social.FactionID]economy.SpecialtyKind{
		1: economy.CorporateLogistics,
		2: economy.ScrapEconomics,
		3: economy.GuerrillaDisruption,
		4: economy.MarketManipulationSpecialty,
		5: economy.MobileTradeNetworks,
		6: economy.InformationEconomy,
		7: economy.CommunityLogistics,
	}
	for fid, spec := range want {
		got := f.sub.GetFactionEconomicSpecialization(fid)
		assert.True(t, got.Assigned)
		assert.Equal(t, spec, got.Specialty, "faction %d", fid)
	}
	assert.Len(t, f.sub.Factions(), 7)
}

func TestSpecialization_LastWriterWins(t *testing.T) {
	f := defaultFixture(t)
	s := f.sub

	require.True(t, s.SetFactionEconomicSpecialization(3, economy.CorporateLogistics))
	require.True(t, s.SetFactionEconomicSpecialization(3, economy.ScrapEconomics))

	spec := s.GetFactionEconomicSpecialization(3)
	assert.Equal(t, economy.ScrapEconomics, spec.Specialty)
	assert.Equal(t, 1.5, spec.EfficiencyBonus)
	assert.Equal(t, []economy.ActionKind{economy.SupplyInterdiction}, spec.BonusActions)

	assert.Equal(t, 1.5, s.GetFactionEconomicEfficiencyBonus(3, economy.SupplyInterdiction))
	assert.Equal(t, 1.0, s.GetFactionEconomicEfficiencyBonus(3, economy.InfrastructureSabotage))

	evs := f.rec.OfKind(events.KindSupplyChain)
	require.Len(t, evs, 2)
	assert.Equal(t, events.SupplyChainEvent{Tag: TagSpecializationChanged, AffectedFaction: 3, EconomicImpact: 1.5}, evs[1])
}

func TestSpecialization_DefaultRecord(t *testing.T) {
	f := defaultFixture(t)
	spec := f.sub.GetFactionEconomicSpecialization(12)
	assert.False(t, spec.Assigned)
	assert.Equal(t, 1.0, spec.EfficiencyBonus)
	assert.Equal(t, 1.0, spec.TerritoryBonusMult)
	assert.Empty(t, spec.BonusActions)
	assert.Equal(t, 1.0, f.sub.GetFactionEconomicEfficiencyBonus(12, economy.SupplyInterdiction))

	assert.False(t, f.sub.SetFactionEconomicSpecialization(0, economy.ScrapEconomics))
	assert.False(t, f.sub.SetFactionEconomicSpecialization(2, economy.SpecialtyKind(40)))
}

func TestTerritoryBonus(t *testing.T) {
	inf := influenceTable{{2, 7}: 0.8, {3, 7}: 0.49, {4, 7}: 0.5}
	f := defaultFixture(t, WithInfluence(inf))
	s := f.sub
	// CommunityLogistics territory multiplier is 1.6.
	assert.InDelta(t, 1.6*0.8, s.GetFactionTerritoryEconomicBonus(7, 2), 1e-12)
	assert.Equal(t, 1.0, s.GetFactionTerritoryEconomicBonus(7, 3))
	assert.InDelta(t, 0.8, s.GetFactionTerritoryEconomicBonus(7, 4), 1e-12)
	assert.Equal(t, 1.0, s.GetFactionTerritoryEconomicBonus(1, 2))
}

func TestSpecialization_ReturnedSliceIsACopy(t *testing.T) {
	f := defaultFixture(t)
	spec := f.sub.GetFactionEconomicSpecialization(3)
	spec.BonusActions[0] = economy.ConvoyProtection
	assert.False(t, f.sub.GetFactionEconomicSpecialization(3).HasBonus(economy.ConvoyProtection))
}
