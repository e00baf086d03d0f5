package oracle

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/econwar/internal/social"
)

// NoiseInfluence derives a stable influence field from layered simplex noise.
// Each faction samples its own offset into the field, and territory t sits at
// (t, faction) in noise space. Influence slowly drifts when Drift is non-zero
// and the host calls Advance.
type NoiseInfluence struct {
	noise     opensimplex.Noise
	frequency float64
	octaves   int
	t         float64

	// Drift is how far the field moves per Advance second.
	Drift float64
}

// NewNoiseInfluence creates a field fixed by seed.
func NewNoiseInfluence(seed int64) *NoiseInfluence {
	return &NoiseInfluence{
		noise:     opensimplex.NewNormalized(seed),
		frequency: 0.37,
		octaves:   3,
	}
}

// Advance moves the field by dt simulated seconds.
func (n *NoiseInfluence) Advance(dt float64) {
	if dt > 0 {
		n.t += dt * n.Drift
	}
}

// Influence implements warfare.InfluenceOracle.
func (n *NoiseInfluence) Influence(territory social.TerritoryID, faction social.FactionID) float64 {
	if !territory.Valid() || !faction.Valid() {
		return 0
	}
	x := float64(territory) + n.t
	y := float64(faction) * 17.3
	v := octaveNoise(n.noise, x, y, n.octaves, n.frequency, 0.5)
	// Sharpen so that most territories have a clear holder.
	return math.Min(1, math.Max(0, (v-0.5)*1.6+0.5))
}

// octaveNoise sums octaves of normalized noise, returning a value in [0,1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxAmp := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxAmp += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxAmp
}
