package warfare

import (
	"fmt"

	"github.com/talgya/econwar/internal/economy"
)

// RouteDisruption pairs a disruption with its route for flat storage.
type RouteDisruption struct {
	Route economy.RouteID `json:"route"`
	Disruption
}

// State is the kernel's complete mutable state as flat records keyed by
// natural ids.
type State struct {
	Time            float64           `json:"time"`
	LastPowerUpdate float64           `json:"last_power_update"`
	LastRecovery    float64           `json:"last_recovery"`
	Ledger          []LedgerRecord    `json:"ledger"`
	Specializations []Specialization  `json:"specializations"`
	Disruptions     []RouteDisruption `json:"disruptions"`
	Blockades       []Blockade        `json:"blockades"`
	Alliances       []Alliance        `json:"alliances"`
}

// Snapshot captures the current state. Route order is sorted; disruptions
// keep insertion order within a route.
func (s *Subsystem) Snapshot() State {
	st := State{
		Time:            s.clock.Now(),
		LastPowerUpdate: s.lastPowerUpdate,
		LastRecovery:    s.lastRecovery,
		Ledger:          s.ledger.all(),
		Specializations: s.specs.all(),
		Blockades:       s.blockades.all(),
		Alliances:       s.alliances.all(),
	}
	for _, route := range s.disruptions.routeIDs() {
		for _, d := range s.disruptions.routes[route] {
			st.Disruptions = append(st.Disruptions, RouteDisruption{Route: route, Disruption: d})
		}
	}
	return st
}

// Restore replaces all state with st. It publishes no events; the host is
// loading, not mutating. The clock is not rewound.
func (s *Subsystem) Restore(st State) error {
	if !s.initialized {
		return ErrNotInitialized
	}

	specs := newSpecializationRegistry(s.influenceOf)
	for _, sp := range st.Specializations {
		if !sp.Faction.Valid() {
			return fmt.Errorf("specialization: %w: %d", ErrInvalidFaction, int(sp.Faction))
		}
		if sp.Assigned && sp.Specialty.Valid() {
			specs.set(sp.Faction, sp.Specialty)
		}
	}

	led := newLedger()
	for _, r := range st.Ledger {
		if !r.Faction.Valid() {
			return fmt.Errorf("ledger: %w: %d", ErrInvalidFaction, int(r.Faction))
		}
		if !finite(r.EconomicPower) || !finite(r.DamageDealt) || !finite(r.DamageReceived) {
			return fmt.Errorf("ledger: %w: non-finite value for faction %d", ErrInvalidArgument, int(r.Faction))
		}
		if r.DamageDealt < 0 || r.DamageReceived < 0 {
			return fmt.Errorf("ledger: negative damage for faction %d", int(r.Faction))
		}
		rec := r
		led.records[r.Faction] = &rec
	}

	dis := newDisruptionStore()
	for _, rd := range st.Disruptions {
		if rd.Route == "" || !rd.Kind.Valid() {
			return fmt.Errorf("disruption: %w on route %q", ErrInvalidArgument, rd.Route)
		}
		d := rd.Disruption
		d.Permanent = d.Kind.Permanent()
		if !finite(d.StartTime) || !finite(d.DurationMinutes) || !finite(d.SeverityMult) || !finite(d.EconomicImpact) ||
			d.DurationMinutes < 0 || (d.DurationMinutes == 0 && !d.Permanent) {
			return fmt.Errorf("disruption: %w on route %q: duration %v", ErrInvalidArgument, rd.Route, d.DurationMinutes)
		}
		dis.add(rd.Route, d)
	}

	blk := newBlockadeStore()
	for _, b := range st.Blockades {
		if !b.Territory.Valid() || !b.BlockadingFaction.Valid() {
			return fmt.Errorf("blockade: %w: territory %d faction %d", ErrInvalidFaction, int(b.Territory), int(b.BlockadingFaction))
		}
		if !finite(b.TaxRate) || !finite(b.EstablishedTime) || !finite(b.TotalRevenue) || b.TotalRevenue < 0 || b.ConvoysAffected < 0 {
			return fmt.Errorf("blockade: %w on territory %d", ErrInvalidArgument, int(b.Territory))
		}
		if _, dup := blk.byTerritory[b.Territory]; dup {
			return fmt.Errorf("blockade: %w: %d", ErrDuplicateBlockade, int(b.Territory))
		}
		b.TaxRate = clamp(b.TaxRate, 0, s.cfg.MaxBlockadeTaxRate)
		blk.put(b)
	}

	al := newAllianceGraph()
	for _, a := range st.Alliances {
		if !a.A.Valid() || !a.B.Valid() || a.A == a.B {
			return fmt.Errorf("alliance: %w: %d-%d", ErrInvalidFaction, int(a.A), int(a.B))
		}
		if !finite(a.Multiplier) || a.Multiplier <= 0 {
			return fmt.Errorf("alliance: %w: multiplier %v", ErrInvalidArgument, a.Multiplier)
		}
		al.link(a.A, a.B, a.Multiplier)
	}

	s.specs, s.ledger, s.disruptions, s.blockades, s.alliances = specs, led, dis, blk, al
	s.lastPowerUpdate = st.LastPowerUpdate
	s.lastRecovery = st.LastRecovery
	s.log.Info("economic warfare state restored",
		"factions", len(st.Ledger),
		"disruptions", len(st.Disruptions),
		"blockades", len(st.Blockades),
		"alliances", len(st.Alliances),
	)
	return nil
}
