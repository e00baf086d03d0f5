package warfare

import (
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/econwar/internal/clock"
	"github.com/talgya/econwar/internal/economy"
	"github.com/talgya/econwar/internal/entropy"
	"github.com/talgya/econwar/internal/events"
	"github.com/talgya/econwar/internal/social"
)

// influenceTable maps (territory, faction) to influence.
type influenceTable map[[2]int]float64

func (t influenceTable) Influence(terr social.TerritoryID, f social.FactionID) float64 {
	return t[[2]int{int(terr), int(f)}]
}

// convoyTable maps routes to traffic volume.
type convoyTable map[economy.RouteID]float64

func (c convoyTable) Routes() []economy.RouteID {
	out := make([]economy.RouteID, 0, len(c))
	for r := range c {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

func (c convoyTable) TrafficVolume(r economy.RouteID) float64 { return c[r] }

type fixture struct {
	sub   *Subsystem
	clock *clock.Manual
	rec   *events.Recorder
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T, rng entropy.Source, cfg Config, opts ...Option) *fixture {
	t.Helper()
	clk := clock.NewManual(0)
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	sub := New(clk, rng, opts...)
	require.NoError(t, sub.Initialize(cfg))
	rec := &events.Recorder{}
	sub.Bus().SubscribeAll(rec.Record)
	return &fixture{sub: sub, clock: clk, rec: rec}
}

func defaultFixture(t *testing.T, opts ...Option) *fixture {
	return newFixture(t, entropy.NewSeeded(42), DefaultConfig(), opts...)
}
