package warfare

import (
	"slices"

	"github.com/talgya/econwar/internal/economy"
	"github.com/talgya/econwar/internal/events"
	"github.com/talgya/econwar/internal/social"
)

// Specialization is a faction's economic profile.
type Specialization struct {
	Faction            social.FactionID      `json:"faction"`
	Specialty          economy.SpecialtyKind `json:"specialty"`
	Assigned           bool                  `json:"assigned"`
	EfficiencyBonus    float64               `json:"efficiency_bonus"`
	TerritoryBonusMult float64               `json:"territory_bonus_mult"`
	BonusActions       []economy.ActionKind  `json:"bonus_actions"`
	Description        string                `json:"description"`
}

// HasBonus reports whether kind benefits from the efficiency bonus.
func (s Specialization) HasBonus(kind economy.ActionKind) bool {
	return slices.Contains(s.BonusActions, kind)
}

func defaultSpecialization(f social.FactionID) Specialization {
	return Specialization{
		Faction:            f,
		EfficiencyBonus:    1.0,
		TerritoryBonusMult: 1.0,
		Description:        "No economic specialization",
	}
}

func newSpecialization(f social.FactionID, s economy.SpecialtyKind) Specialization {
	p := s.Preset()
	return Specialization{
		Faction:            f,
		Specialty:          s,
		Assigned:           true,
		EfficiencyBonus:    p.EfficiencyBonus,
		TerritoryBonusMult: p.TerritoryBonusMult,
		BonusActions:       p.BonusActions,
		Description:        p.Description,
	}
}

// specializationRegistry holds one specialization per faction.
type specializationRegistry struct {
	byFaction map[social.FactionID]Specialization
	influence func(social.TerritoryID, social.FactionID) float64
}

func newSpecializationRegistry(influence func(social.TerritoryID, social.FactionID) float64) *specializationRegistry {
	return &specializationRegistry{
		byFaction: make(map[social.FactionID]Specialization),
		influence: influence,
	}
}

// set overwrites the faction's record with the specialty preset.
func (r *specializationRegistry) set(f social.FactionID, s economy.SpecialtyKind) Specialization {
	spec := newSpecialization(f, s)
	r.byFaction[f] = spec
	return spec
}

// get returns the faction's record, or the neutral default when absent.
func (r *specializationRegistry) get(f social.FactionID) Specialization {
	if spec, ok := r.byFaction[f]; ok {
		spec.BonusActions = slices.Clone(spec.BonusActions)
		return spec
	}
	return defaultSpecialization(f)
}

func (r *specializationRegistry) efficiencyBonus(f social.FactionID, kind economy.ActionKind) float64 {
	spec, ok := r.byFaction[f]
	if !ok || !spec.HasBonus(kind) {
		return 1.0
	}
	return spec.EfficiencyBonus
}

// territoryBonus scales the specialty's territory multiplier by influence
// once the faction holds at least half the territory.
func (r *specializationRegistry) territoryBonus(f social.FactionID, t social.TerritoryID) float64 {
	inf := r.influence(t, f)
	if inf < 0.5 {
		return 1.0
	}
	return r.get(f).TerritoryBonusMult * inf
}

func (r *specializationRegistry) all() []Specialization {
	out := make([]Specialization, 0, len(r.byFaction))
	for _, s := range r.byFaction {
		s.BonusActions = slices.Clone(s.BonusActions)
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b Specialization) int { return int(a.Faction) - int(b.Faction) })
	return out
}

// TagSpecializationChanged marks the supply-chain event published when a
// faction's specialization is overwritten.
const TagSpecializationChanged = "EconomicSpecializationChanged"

// SetFactionEconomicSpecialization overwrites f's specialization with the
// preset for specialty. Last writer wins.
func (s *Subsystem) SetFactionEconomicSpecialization(f social.FactionID, specialty economy.SpecialtyKind) bool {
	const op = "SetFactionEconomicSpecialization"
	switch {
	case !s.initialized:
		return s.reject(op, ErrNotInitialized)
	case !f.Valid():
		return s.reject(op, ErrInvalidFaction, "faction", f)
	case !specialty.Valid():
		return s.reject(op, ErrInvalidArgument, "specialty", specialty)
	}
	spec := s.specs.set(f, specialty)
	s.ledger.record(f)

	s.log.Info("specialization set", "faction", f, "specialty", specialty)
	s.publish(events.SupplyChainEvent{
		Tag:             TagSpecializationChanged,
		AffectedFaction: f,
		EconomicImpact:  spec.EfficiencyBonus,
	})
	return true
}

// GetFactionEconomicSpecialization returns f's specialization, or the neutral
// default record when none was assigned.
func (s *Subsystem) GetFactionEconomicSpecialization(f social.FactionID) Specialization {
	return s.specs.get(f)
}

// GetFactionEconomicEfficiencyBonus returns the specialty's efficiency bonus
// when kind is one of its bonus actions, else 1.0.
func (s *Subsystem) GetFactionEconomicEfficiencyBonus(f social.FactionID, kind economy.ActionKind) float64 {
	return s.specs.efficiencyBonus(f, kind)
}

// GetFactionTerritoryEconomicBonus returns the specialty's territory multiplier
// scaled by influence when f holds at least half of t, else 1.0.
func (s *Subsystem) GetFactionTerritoryEconomicBonus(f social.FactionID, t social.TerritoryID) float64 {
	return s.specs.territoryBonus(f, t)
}
