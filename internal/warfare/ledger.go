package warfare

import (
	"math"
	"slices"

	"github.com/talgya/econwar/internal/events"
	"github.com/talgya/econwar/internal/social"
)

// Ledger scoring constants.
const (
	BaseEconomicPower     = 100.0
	MinEconomicPower      = 10.0
	territorialPowerBonus = 20.0 // stands in for aggregate territorial control
	powerPerDamageDealt   = 0.01
	powerPerDamageTaken   = 0.02
)

// LedgerRecord is one faction's economic standing.
type LedgerRecord struct {
	Faction        social.FactionID `json:"faction" db:"faction"`
	EconomicPower  float64          `json:"economic_power" db:"economic_power"`
	DamageDealt    float64          `json:"damage_dealt" db:"damage_dealt"`
	DamageReceived float64          `json:"damage_received" db:"damage_received"`
}

// ledger tracks per-faction damage and economic power.
type ledger struct {
	records map[social.FactionID]*LedgerRecord
}

func newLedger() *ledger {
	return &ledger{records: make(map[social.FactionID]*LedgerRecord)}
}

func (l *ledger) record(f social.FactionID) *LedgerRecord {
	r, ok := l.records[f]
	if !ok {
		r = &LedgerRecord{Faction: f, EconomicPower: BaseEconomicPower}
		l.records[f] = r
	}
	return r
}

func (l *ledger) lookup(f social.FactionID) LedgerRecord {
	if r, ok := l.records[f]; ok {
		return *r
	}
	return LedgerRecord{Faction: f, EconomicPower: BaseEconomicPower}
}

func (l *ledger) addDealt(f social.FactionID, amount float64) {
	if !f.Valid() || amount <= 0 {
		return
	}
	r := l.record(f)
	r.DamageDealt += amount
	mustHold(r.DamageDealt >= 0, "negative damage dealt for faction %d", int(f))
}

func (l *ledger) addReceived(f social.FactionID, amount float64) {
	if !f.Valid() || amount <= 0 {
		return
	}
	r := l.record(f)
	r.DamageReceived += amount
	mustHold(r.DamageReceived >= 0, "negative damage received for faction %d", int(f))
}

func powerFor(r LedgerRecord) float64 {
	p := BaseEconomicPower + powerPerDamageDealt*r.DamageDealt - powerPerDamageTaken*r.DamageReceived + territorialPowerBonus
	return math.Max(MinEconomicPower, p)
}

func (l *ledger) recomputePower() {
	for _, r := range l.records {
		r.EconomicPower = powerFor(*r)
	}
}

// recovery is the result of one faction's recovery step.
type recovery struct {
	Faction   social.FactionID
	Amount    float64
	Remaining float64
}

// recover lowers every faction's damage received by rate per hour over
// elapsed seconds, flooring at zero.
func (l *ledger) recover(rate, elapsed float64) []recovery {
	step := rate * (elapsed / 3600)
	if step <= 0 {
		return nil
	}
	var out []recovery
	for _, f := range l.factions() {
		r := l.records[f]
		if r.DamageReceived <= 0 {
			continue
		}
		amount := math.Min(step, r.DamageReceived)
		r.DamageReceived -= amount
		mustHold(r.DamageReceived >= 0, "recovery drove damage negative for faction %d", int(f))
		out = append(out, recovery{Faction: f, Amount: amount, Remaining: r.DamageReceived})
	}
	return out
}

func (l *ledger) factions() []social.FactionID {
	ids := make([]social.FactionID, 0, len(l.records))
	for f := range l.records {
		ids = append(ids, f)
	}
	slices.Sort(ids)
	return ids
}

func (l *ledger) all() []LedgerRecord {
	out := make([]LedgerRecord, 0, len(l.records))
	for _, f := range l.factions() {
		out = append(out, *l.records[f])
	}
	return out
}

// GetFactionEconomicPower returns f's last computed economic power
// (BaseEconomicPower until the first recompute).
func (s *Subsystem) GetFactionEconomicPower(f social.FactionID) float64 {
	return s.ledger.lookup(f).EconomicPower
}

// CalculateEconomicDamageDealt returns the damage f has inflicted.
func (s *Subsystem) CalculateEconomicDamageDealt(f social.FactionID) float64 {
	return s.ledger.lookup(f).DamageDealt
}

// CalculateEconomicDamageReceived returns the damage f currently carries.
func (s *Subsystem) CalculateEconomicDamageReceived(f social.FactionID) float64 {
	return s.ledger.lookup(f).DamageReceived
}

// CalculateSupplyChainEfficiency combines accumulated damage with the
// faction's specialty efficiency.
func (s *Subsystem) CalculateSupplyChainEfficiency(f social.FactionID) float64 {
	damage := s.ledger.lookup(f).DamageReceived
	base := math.Max(0.2, 1.0-clamp(damage/10000, 0, 0.8))
	eff := s.specs.get(f).EfficiencyBonus
	return base * (1 + (eff-1)*0.5)
}

// LedgerRecords returns every faction's ledger record ordered by id.
func (s *Subsystem) LedgerRecords() []LedgerRecord {
	return s.ledger.all()
}

// UpdateEconomicPower recomputes every faction's economic power now.
func (s *Subsystem) UpdateEconomicPower() {
	s.ledger.recomputePower()
	s.lastPowerUpdate = s.clock.Now()
}

// ProcessSupplyChainRecovery lowers every faction's damage received by
// SupplyChainRecoveryRate per hour over elapsed seconds. Factions still
// carrying damage after a step larger than RecoveryEventThreshold get a
// SupplyChainRecovery event.
func (s *Subsystem) ProcessSupplyChainRecovery(elapsed float64) {
	if !s.initialized || !finite(elapsed) || elapsed <= 0 {
		return
	}
	for _, r := range s.ledger.recover(s.cfg.SupplyChainRecoveryRate, elapsed) {
		if r.Remaining > 0 && r.Amount > s.cfg.RecoveryEventThreshold {
			s.publish(events.SupplyChainEvent{
				Tag:             events.TagSupplyChainRecovery,
				AffectedFaction: r.Faction,
				EconomicImpact:  r.Amount,
			})
		}
	}
}
