package warfare

import (
	"github.com/talgya/econwar/internal/economy"
	"github.com/talgya/econwar/internal/social"
)

// InfluenceOracle reports a faction's control over a territory, in [0,1].
// Implementations must be side-effect free.
type InfluenceOracle interface {
	Influence(territory social.TerritoryID, faction social.FactionID) float64
}

// ConvoyOracle enumerates convoy routes and their traffic.
type ConvoyOracle interface {
	Routes() []economy.RouteID
	TrafficVolume(route economy.RouteID) float64
}

// InfluenceFunc adapts a function to InfluenceOracle.
type InfluenceFunc func(territory social.TerritoryID, faction social.FactionID) float64

// Influence calls f.
func (f InfluenceFunc) Influence(territory social.TerritoryID, faction social.FactionID) float64 {
	return f(territory, faction)
}
