package warfare

import (
	"slices"

	"github.com/talgya/econwar/internal/events"
	"github.com/talgya/econwar/internal/social"
)

// Alliance is one undirected edge of the alliance graph.
type Alliance struct {
	A          social.FactionID `json:"a" db:"faction_a"`
	B          social.FactionID `json:"b" db:"faction_b"`
	Multiplier float64          `json:"multiplier" db:"multiplier"`
}

// allianceGraph is an undirected simple graph over faction ids.
type allianceGraph struct {
	edges map[social.FactionID]map[social.FactionID]float64
}

func newAllianceGraph() *allianceGraph {
	return &allianceGraph{edges: make(map[social.FactionID]map[social.FactionID]float64)}
}

func (g *allianceGraph) link(a, b social.FactionID, mult float64) {
	mustHold(a != b, "self alliance for faction %d", int(a))
	for _, p := range [][2]social.FactionID{{a, b}, {b, a}} {
		m := g.edges[p[0]]
		if m == nil {
			m = make(map[social.FactionID]float64)
			g.edges[p[0]] = m
		}
		m[p[1]] = mult
	}
}

func (g *allianceGraph) unlink(a, b social.FactionID) {
	for _, p := range [][2]social.FactionID{{a, b}, {b, a}} {
		if m := g.edges[p[0]]; m != nil {
			delete(m, p[1])
			if len(m) == 0 {
				delete(g.edges, p[0])
			}
		}
	}
}

func (g *allianceGraph) allied(a, b social.FactionID) bool {
	_, ab := g.edges[a][b]
	_, ba := g.edges[b][a]
	mustHold(ab == ba, "asymmetric alliance between %d and %d", int(a), int(b))
	return ab
}

func (g *allianceGraph) partners(f social.FactionID) []social.FactionID {
	out := make([]social.FactionID, 0, len(g.edges[f]))
	for p := range g.edges[f] {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// all lists each edge once with A < B.
func (g *allianceGraph) all() []Alliance {
	var out []Alliance
	for a, m := range g.edges {
		for b, mult := range m {
			if a < b {
				out = append(out, Alliance{A: a, B: b, Multiplier: mult})
			}
		}
	}
	slices.SortFunc(out, func(x, y Alliance) int {
		if x.A != y.A {
			return int(x.A) - int(y.A)
		}
		return int(x.B) - int(y.B)
	})
	return out
}

func (s *Subsystem) checkPair(a, b social.FactionID) error {
	switch {
	case !s.initialized:
		return ErrNotInitialized
	case !a.Valid() || !b.Valid() || a == b:
		return ErrInvalidFaction
	}
	return nil
}

// EstablishEconomicAlliance allies a and b and publishes an
// EconomicAllianceEstablished event for each. A zero mult uses
// AllianceBenefitBaseMultiplier.
func (s *Subsystem) EstablishEconomicAlliance(a, b social.FactionID, mult float64) bool {
	const op = "EstablishEconomicAlliance"
	if err := s.checkPair(a, b); err != nil {
		return s.reject(op, err, "a", a, "b", b)
	}
	if s.alliances.allied(a, b) {
		return s.reject(op, ErrAlreadyAllied, "a", a, "b", b)
	}
	if mult == 0 {
		mult = s.cfg.AllianceBenefitBaseMultiplier
	}
	s.alliances.link(a, b, mult)

	s.log.Info("economic alliance established", "a", a, "b", b, "multiplier", mult)
	for _, f := range []social.FactionID{a, b} {
		s.publish(events.SupplyChainEvent{
			Tag:             events.TagEconomicAllianceEstablished,
			AffectedFaction: f,
			EconomicImpact:  mult,
		})
	}
	return true
}

// BreakEconomicAlliance dissolves the alliance between a and b and publishes
// an EconomicAllianceBroken event for each. A zero mult uses
// AllianceBreakPenaltyMultiplier.
func (s *Subsystem) BreakEconomicAlliance(a, b social.FactionID, mult float64) bool {
	const op = "BreakEconomicAlliance"
	if err := s.checkPair(a, b); err != nil {
		return s.reject(op, err, "a", a, "b", b)
	}
	if !s.alliances.allied(a, b) {
		return s.reject(op, ErrNotAllied, "a", a, "b", b)
	}
	if mult == 0 {
		mult = s.cfg.AllianceBreakPenaltyMultiplier
	}
	s.alliances.unlink(a, b)

	s.log.Info("economic alliance broken", "a", a, "b", b, "penalty", mult)
	for _, f := range []social.FactionID{a, b} {
		s.publish(events.SupplyChainEvent{
			Tag:             events.TagEconomicAllianceBroken,
			AffectedFaction: f,
			EconomicImpact:  mult,
		})
	}
	return true
}

// AreFactionsEconomicAllies reports whether a and b are allied. A faction is never its own ally.
func (s *Subsystem) AreFactionsEconomicAllies(a, b social.FactionID) bool {
	if a == b {
		return false
	}
	return s.alliances.allied(a, b)
}

// GetAllianceBenefit returns AllianceBenefitBaseMultiplier for allies, else 1.0.
func (s *Subsystem) GetAllianceBenefit(a, b social.FactionID) float64 {
	if s.AreFactionsEconomicAllies(a, b) {
		return s.cfg.AllianceBenefitBaseMultiplier
	}
	return 1.0
}

// GetEconomicAllies lists f's allies in ascending order.
func (s *Subsystem) GetEconomicAllies(f social.FactionID) []social.FactionID {
	return s.alliances.partners(f)
}
