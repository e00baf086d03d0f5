// Faction dynamics: standing relations and the autonomous economic moves the
// demo host makes on the factions' behalf.
package engine

import (
	"log/slog"
	"math"

	"github.com/talgya/econwar/internal/economy"
	"github.com/talgya/econwar/internal/entropy"
	"github.com/talgya/econwar/internal/events"
	"github.com/talgya/econwar/internal/social"
	"github.com/talgya/econwar/internal/warfare"
)

// Relation thresholds, in [-100, 100].
const (
	hostileRelation = -20.0
	allyRelation    = 25.0
	relationDecay   = 0.024 // fraction of a relation lost per simulated day
)

// Rivalry decides faction moves against the kernel. It keeps a symmetric
// relation table that retaliation sours and time heals.
type Rivalry struct {
	sub         *warfare.Subsystem
	rng         entropy.Source
	routes      func() []economy.RouteID
	territories int

	// ActChance is the probability that some faction acts on a step.
	ActChance float64

	relations map[social.FactionID]map[social.FactionID]float64
	log       *slog.Logger
}

// NewRivalry creates the driver with the seed relations. routes lists the
// disruptable routes; territories bounds blockade targets to [0, territories).
func NewRivalry(sub *warfare.Subsystem, rng entropy.Source, routes func() []economy.RouteID, territories int) *Rivalry {
	r := &Rivalry{
		sub:         sub,
		rng:         rng,
		routes:      routes,
		territories: territories,
		ActChance:   0.05,
		relations:   make(map[social.FactionID]map[social.FactionID]float64),
		log:         slog.Default().With("component", "rivalry"),
	}

	// Corporates and salvagers feud; insurgents are distrusted by all.
	r.setRelation(1, 2, -30)
	r.setRelation(1, 3, -60)
	r.setRelation(1, 4, 20)
	r.setRelation(1, 5, 30)
	r.setRelation(2, 3, 10)
	r.setRelation(2, 7, 40)
	r.setRelation(3, 4, -40)
	r.setRelation(3, 6, -25)
	r.setRelation(4, 6, -35)
	r.setRelation(5, 7, 35)
	r.setRelation(6, 7, 10)

	events.On(sub.Bus(), func(e events.EconomicRetaliation) {
		r.adjust(e.Retaliator, e.Target, -math.Min(30, e.Severity/200))
	})
	return r
}

// Relation returns the standing between a and b.
func (r *Rivalry) Relation(a, b social.FactionID) float64 {
	return r.relations[a][b]
}

// setRelation sets a symmetric relation between two factions.
func (r *Rivalry) setRelation(a, b social.FactionID, value float64) {
	value = math.Max(-100, math.Min(100, value))
	for _, p := range [][2]social.FactionID{{a, b}, {b, a}} {
		m := r.relations[p[0]]
		if m == nil {
			m = make(map[social.FactionID]float64)
			r.relations[p[0]] = m
		}
		m[p[1]] = value
	}
}

func (r *Rivalry) adjust(a, b social.FactionID, delta float64) {
	if !a.Valid() || !b.Valid() || a == b {
		return
	}
	r.setRelation(a, b, r.Relation(a, b)+delta)
}

// Decay moves every relation toward neutral over dt simulated seconds.
func (r *Rivalry) Decay(dt float64) {
	k := math.Pow(1-relationDecay, dt/SimSecondsPerDay)
	for _, m := range r.relations {
		for other, rel := range m {
			m[other] = rel * k
		}
	}
}

func (r *Rivalry) draw() float64 { return entropy.FloatFromSource(r.rng) }

func (r *Rivalry) pick(n int) int {
	return min(int(r.draw()*float64(n)), n-1)
}

// Step lets at most one faction act.
func (r *Rivalry) Step() {
	if !r.sub.Initialized() || r.draw() >= r.ActChance {
		return
	}
	factions := r.sub.Factions()
	if len(factions) < 2 {
		return
	}
	actor := factions[r.pick(len(factions))]
	rival, worst := r.rivalOf(actor, factions)

	switch roll := r.draw(); {
	case roll < 0.35 && worst <= hostileRelation:
		r.strike(actor, rival)
	case roll < 0.55:
		r.disrupt(actor)
	case roll < 0.7:
		r.blockade(actor)
	case roll < 0.85:
		r.diplomacy(actor, factions)
	default:
		r.repair(actor)
	}
}

func (r *Rivalry) rivalOf(actor social.FactionID, factions []social.FactionID) (social.FactionID, float64) {
	rival, worst := social.NoFaction, math.Inf(1)
	for _, f := range factions {
		if f == actor {
			continue
		}
		if rel := r.Relation(actor, f); rel < worst {
			rival, worst = f, rel
		}
	}
	return rival, worst
}

func (r *Rivalry) strike(actor, rival social.FactionID) {
	kind := economy.ActionKinds()[r.pick(len(economy.ActionKinds()))]
	if bonus := r.sub.GetFactionEconomicSpecialization(actor).BonusActions; len(bonus) > 0 && r.draw() < 0.7 {
		kind = bonus[r.pick(len(bonus))]
	}
	cost := 500 + r.draw()*2500
	a, ok := r.sub.CreateEconomicWarfareAction(kind, actor, rival, "", cost)
	if !ok {
		return
	}
	net, _ := r.sub.ExecuteEconomicWarfareAction(a)
	r.adjust(actor, rival, -5)
	r.log.Debug("strike", "actor", actor, "rival", rival, "kind", kind, "net", net)
}

func (r *Rivalry) disrupt(actor social.FactionID) {
	routes := r.routes()
	if len(routes) == 0 {
		return
	}
	route := routes[r.pick(len(routes))]
	kind := economy.DisruptionKinds()[r.pick(len(economy.DisruptionKinds()))]
	r.sub.DisruptRoute(route, kind, 30+r.draw()*210, actor, 100+r.draw()*900)
}

func (r *Rivalry) blockade(actor social.FactionID) {
	if r.territories <= 0 {
		return
	}
	t := social.TerritoryID(r.pick(r.territories))
	if b, ok := r.sub.GetTerritorialBlockade(t); ok {
		if b.BlockadingFaction == actor && r.draw() < 0.5 {
			r.sub.RemoveTerritorialBlockade(t, actor)
		}
		return
	}
	if r.sub.CanEstablishBlockade(t, actor) {
		r.sub.EstablishTerritorialBlockade(t, actor, 0.05+r.draw()*0.2)
	}
}

func (r *Rivalry) diplomacy(actor social.FactionID, factions []social.FactionID) {
	other := factions[r.pick(len(factions))]
	if other == actor {
		return
	}
	rel := r.Relation(actor, other)
	allied := r.sub.AreFactionsEconomicAllies(actor, other)
	switch {
	case !allied && rel >= allyRelation:
		r.sub.EstablishEconomicAlliance(actor, other, 0)
	case allied && rel < 0:
		r.sub.BreakEconomicAlliance(actor, other, 0)
	}
}

func (r *Rivalry) repair(actor social.FactionID) {
	routes := r.sub.DisruptedRoutes()
	if len(routes) == 0 {
		return
	}
	r.sub.RepairRouteDisruption(routes[r.pick(len(routes))], actor)
}
