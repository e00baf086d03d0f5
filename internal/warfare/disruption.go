package warfare

import (
	"math"
	"slices"

	"github.com/talgya/econwar/internal/economy"
	"github.com/talgya/econwar/internal/events"
	"github.com/talgya/econwar/internal/social"
)

// MinRouteViability is the floor of a disrupted route's viability.
const MinRouteViability = 0.1

// Disruption is one cause of reduced throughput on a route.
type Disruption struct {
	Kind               economy.DisruptionKind `json:"kind"`
	StartTime          float64                `json:"start_time"`
	DurationMinutes    float64                `json:"duration_minutes"`
	SeverityMult       float64                `json:"severity_mult"`
	ResponsibleFaction social.FactionID       `json:"responsible_faction"`
	EconomicImpact     float64                `json:"economic_impact"`
	Permanent          bool                   `json:"permanent"`
}

// ActiveAt reports whether the disruption still applies at now.
func (d Disruption) ActiveAt(now float64) bool {
	return d.Permanent || now-d.StartTime < d.DurationMinutes*60
}

// disruptionStore maps routes to their disruptions.
type disruptionStore struct {
	routes map[economy.RouteID][]Disruption
}

func newDisruptionStore() *disruptionStore {
	return &disruptionStore{routes: make(map[economy.RouteID][]Disruption)}
}

func (s *disruptionStore) add(route economy.RouteID, d Disruption) {
	s.routes[route] = append(s.routes[route], d)
}

// repair drops every non-permanent disruption on route and returns what was removed.
func (s *disruptionStore) repair(route economy.RouteID) []Disruption {
	list, ok := s.routes[route]
	if !ok {
		return nil
	}
	var removed, kept []Disruption
	for _, d := range list {
		if d.Permanent {
			kept = append(kept, d)
		} else {
			removed = append(removed, d)
		}
	}
	if len(kept) == 0 {
		delete(s.routes, route)
	} else {
		s.routes[route] = kept
	}
	return removed
}

func (s *disruptionStore) known(route economy.RouteID) bool {
	_, ok := s.routes[route]
	return ok
}

func (s *disruptionStore) active(route economy.RouteID, now float64) []Disruption {
	var out []Disruption
	for _, d := range s.routes[route] {
		if d.ActiveAt(now) {
			out = append(out, d)
		}
	}
	return out
}

func (s *disruptionStore) isDisrupted(route economy.RouteID, now float64) bool {
	return slices.ContainsFunc(s.routes[route], func(d Disruption) bool { return d.ActiveAt(now) })
}

// viability multiplies the multipliers of all active disruptions, floored at MinRouteViability.
func (s *disruptionStore) viability(route economy.RouteID, now float64) float64 {
	active := s.active(route, now)
	if len(active) == 0 {
		return 1.0
	}
	v := 1.0
	for _, d := range active {
		v *= d.Kind.ViabilityMultiplier()
	}
	return math.Max(MinRouteViability, v)
}

// sweep removes expired non-permanent disruptions and empty routes.
// It returns the number of disruptions removed.
func (s *disruptionStore) sweep(now float64) int {
	removed := 0
	for route, list := range s.routes {
		kept := list[:0]
		for _, d := range list {
			if d.ActiveAt(now) {
				kept = append(kept, d)
			} else {
				removed++
			}
		}
		if len(kept) == 0 {
			delete(s.routes, route)
		} else {
			s.routes[route] = kept
		}
	}
	return removed
}

func (s *disruptionStore) routeIDs() []economy.RouteID {
	ids := make([]economy.RouteID, 0, len(s.routes))
	for r := range s.routes {
		ids = append(ids, r)
	}
	slices.Sort(ids)
	return ids
}

func (s *Subsystem) knownRoute(route economy.RouteID) bool {
	if s.convoys == nil {
		return true
	}
	return slices.Contains(s.convoys.Routes(), route)
}

// DisruptRoute adds a disruption to route, credits the responsible faction
// with its economic impact and publishes RouteDisrupted.
func (s *Subsystem) DisruptRoute(route economy.RouteID, kind economy.DisruptionKind, durationMinutes float64, responsible social.FactionID, investmentCost float64) bool {
	const op = "DisruptRoute"
	switch {
	case !s.initialized:
		return s.reject(op, ErrNotInitialized)
	case route == "" || !s.knownRoute(route):
		return s.reject(op, ErrUnknownRoute, "route", route)
	case responsible == 0:
		return s.reject(op, ErrInvalidFaction, "faction", responsible)
	case !kind.Valid() || !finite(durationMinutes) || !finite(investmentCost) || investmentCost < 0:
		return s.reject(op, ErrInvalidArgument, "route", route)
	case durationMinutes < 0 || (durationMinutes == 0 && !kind.Permanent()):
		return s.reject(op, ErrInvalidArgument, "route", route, "duration_minutes", durationMinutes)
	}

	d := Disruption{
		Kind:               kind,
		StartTime:          s.clock.Now(),
		DurationMinutes:    durationMinutes,
		SeverityMult:       kind.ViabilityMultiplier(),
		ResponsibleFaction: responsible,
		EconomicImpact:     investmentCost * s.cfg.DisruptionImpactMultiplier,
		Permanent:          kind.Permanent(),
	}
	s.disruptions.add(route, d)
	s.ledger.addDealt(responsible, d.EconomicImpact)

	s.log.Debug("route disrupted", "route", route, "kind", kind, "faction", responsible, "impact", d.EconomicImpact)
	s.publish(events.RouteDisrupted{
		RouteID:            route,
		DisruptionKind:     kind,
		ResponsibleFaction: responsible,
		DurationMinutes:    durationMinutes,
	})
	return true
}

// RepairRouteDisruption clears every non-permanent disruption on route.
// It returns false, without publishing, when nothing was removed.
func (s *Subsystem) RepairRouteDisruption(route economy.RouteID, repairing social.FactionID) bool {
	const op = "RepairRouteDisruption"
	switch {
	case !s.initialized:
		return s.reject(op, ErrNotInitialized)
	case !s.disruptions.known(route):
		return s.reject(op, ErrUnknownRoute, "route", route)
	}

	removed := s.disruptions.repair(route)
	if len(removed) == 0 {
		return s.reject(op, ErrInvalidArgument, "route", route, "detail", "only permanent disruptions")
	}
	impact := 0.0
	for _, d := range removed {
		impact += d.EconomicImpact
	}
	s.log.Debug("route repaired", "route", route, "faction", repairing, "removed", len(removed))
	s.publish(events.SupplyChainEvent{
		Tag:             events.TagRouteRepaired,
		AffectedFaction: repairing,
		EconomicImpact:  impact,
	})
	return true
}

// IsRouteDisrupted reports whether route has any active disruption.
func (s *Subsystem) IsRouteDisrupted(route economy.RouteID) bool {
	return s.disruptions.isDisrupted(route, s.clock.Now())
}

// GetActiveDisruptions lists route's active disruptions in insertion order.
func (s *Subsystem) GetActiveDisruptions(route economy.RouteID) []Disruption {
	return s.disruptions.active(route, s.clock.Now())
}

// CalculateRouteViability returns 1.0 for an undisrupted route, otherwise the
// product of active viability multipliers floored at MinRouteViability.
func (s *Subsystem) CalculateRouteViability(route economy.RouteID) float64 {
	return s.disruptions.viability(route, s.clock.Now())
}

// GetRouteTrafficLoss returns the convoy traffic lost to disruption on route.
func (s *Subsystem) GetRouteTrafficLoss(route economy.RouteID) float64 {
	if s.convoys == nil {
		return 0
	}
	return math.Max(0, s.convoys.TrafficVolume(route)) * (1 - s.CalculateRouteViability(route))
}

// DisruptedRoutes lists routes that currently hold a store entry.
func (s *Subsystem) DisruptedRoutes() []economy.RouteID {
	return s.disruptions.routeIDs()
}
