// Package oracle provides influence and convoy sources for hosts that do not
// run a full territorial or convoy simulation.
package oracle

import (
	"slices"
	"sync"

	"github.com/talgya/econwar/internal/economy"
	"github.com/talgya/econwar/internal/social"
)

type influenceKey struct {
	territory social.TerritoryID
	faction   social.FactionID
}

// StaticInfluence is a settable influence table. Unset pairs read as 0.
type StaticInfluence struct {
	mu    sync.RWMutex
	table map[influenceKey]float64
}

// NewStaticInfluence creates an empty table.
func NewStaticInfluence() *StaticInfluence {
	return &StaticInfluence{table: make(map[influenceKey]float64)}
}

// Set records faction's influence over territory, clamped to [0,1].
func (s *StaticInfluence) Set(territory social.TerritoryID, faction social.FactionID, v float64) {
	v = min(max(v, 0), 1)
	s.mu.Lock()
	s.table[influenceKey{territory, faction}] = v
	s.mu.Unlock()
}

// Influence implements warfare.InfluenceOracle.
func (s *StaticInfluence) Influence(territory social.TerritoryID, faction social.FactionID) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table[influenceKey{territory, faction}]
}

// StaticConvoy is a settable route traffic table.
type StaticConvoy struct {
	mu      sync.RWMutex
	traffic map[economy.RouteID]float64
}

// NewStaticConvoy creates a table from initial route volumes.
func NewStaticConvoy(routes map[economy.RouteID]float64) *StaticConvoy {
	c := &StaticConvoy{traffic: make(map[economy.RouteID]float64, len(routes))}
	for r, v := range routes {
		c.traffic[r] = max(v, 0)
	}
	return c
}

// SetTraffic adds or updates a route.
func (c *StaticConvoy) SetTraffic(route economy.RouteID, volume float64) {
	c.mu.Lock()
	c.traffic[route] = max(volume, 0)
	c.mu.Unlock()
}

// RemoveRoute drops a route.
func (c *StaticConvoy) RemoveRoute(route economy.RouteID) {
	c.mu.Lock()
	delete(c.traffic, route)
	c.mu.Unlock()
}

// Routes implements warfare.ConvoyOracle. Routes are sorted.
func (c *StaticConvoy) Routes() []economy.RouteID {
	c.mu.RLock()
	out := make([]economy.RouteID, 0, len(c.traffic))
	for r := range c.traffic {
		out = append(out, r)
	}
	c.mu.RUnlock()
	slices.Sort(out)
	return out
}

// TrafficVolume implements warfare.ConvoyOracle. Unknown routes carry 0.
func (c *StaticConvoy) TrafficVolume(route economy.RouteID) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.traffic[route]
}
