package warfare

import (
	"log/slog"

	"github.com/talgya/econwar/internal/clock"
	"github.com/talgya/econwar/internal/entropy"
	"github.com/talgya/econwar/internal/events"
	"github.com/talgya/econwar/internal/social"
)

// Subsystem ties together the kernel's stores and engines and exposes its commands.
type Subsystem struct {
	cfg         Config
	initialized bool

	clock     clock.Clock
	rng       entropy.Source
	bus       *events.Bus
	sharedBus bool
	log       *slog.Logger
	influence InfluenceOracle
	convoys   ConvoyOracle

	specs       *specializationRegistry
	disruptions *disruptionStore
	blockades   *blockadeStore
	alliances   *allianceGraph
	ledger      *ledger

	// Scheduler bookkeeping, simulated seconds.
	lastPowerUpdate float64
	lastRecovery    float64

	// Nesting depth of retaliation currently executing.
	retaliationDepth int
}

// Option customizes a Subsystem.
type Option func(*Subsystem)

// WithInfluence sets the territorial influence oracle.
func WithInfluence(o InfluenceOracle) Option { return func(s *Subsystem) { s.influence = o } }

// WithConvoys sets the convoy oracle. When set, disruptions are only accepted
// for routes it lists.
func WithConvoys(o ConvoyOracle) Option { return func(s *Subsystem) { s.convoys = o } }

// WithBus publishes onto an existing bus instead of a private one.
// The host owns a supplied bus: Deinitialize leaves its subscribers in place.
func WithBus(b *events.Bus) Option {
	return func(s *Subsystem) {
		s.bus = b
		s.sharedBus = b != nil
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(s *Subsystem) { s.log = l } }

// New creates an uninitialized subsystem reading time from clk and draws from rng.
// A nil rng falls back to crypto/rand.
func New(clk clock.Clock, rng entropy.Source, opts ...Option) *Subsystem {
	s := &Subsystem{clock: clk, rng: rng}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = clock.NewManual(0)
	}
	if s.bus == nil {
		s.bus = events.NewBus()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.log = s.log.With("component", "warfare")
	s.reset()
	return s
}

func (s *Subsystem) reset() {
	s.specs = newSpecializationRegistry(s.influenceOf)
	s.disruptions = newDisruptionStore()
	s.blockades = newBlockadeStore()
	s.alliances = newAllianceGraph()
	s.ledger = newLedger()
	s.retaliationDepth = 0
}

// Initialize validates cfg, clears all state and applies the default
// specializations. Calling it again restarts the simulation.
func (s *Subsystem) Initialize(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	s.reset()

	for f, spec := range cfg.DefaultSpecializations {
		s.specs.set(f, spec)
		s.ledger.record(f)
	}

	now := s.clock.Now()
	s.lastPowerUpdate = now
	s.lastRecovery = now
	s.initialized = true

	s.log.Info("economic warfare initialized",
		"factions", len(cfg.DefaultSpecializations),
		"retaliation", cfg.EnableEconomicRetaliation,
		"now", now,
	)
	return nil
}

// Deinitialize drops all state, and the subscribers of a bus the subsystem
// created itself. Commands fail until the next Initialize.
func (s *Subsystem) Deinitialize() {
	s.reset()
	if !s.sharedBus {
		s.bus.Clear()
	}
	s.initialized = false
	s.log.Info("economic warfare deinitialized")
}

// Initialized reports whether commands are accepted.
func (s *Subsystem) Initialized() bool { return s.initialized }

// Config returns the active configuration.
func (s *Subsystem) Config() Config { return s.cfg }

// Bus returns the event bus the subsystem publishes on.
func (s *Subsystem) Bus() *events.Bus { return s.bus }

// Now returns the current simulated second.
func (s *Subsystem) Now() float64 { return s.clock.Now() }

// Factions lists every faction with a ledger record.
func (s *Subsystem) Factions() []social.FactionID { return s.ledger.factions() }

func (s *Subsystem) publish(e events.Event) {
	s.bus.Publish(e)
}

// reject logs a validation failure and returns false for use as a command result.
func (s *Subsystem) reject(op string, err error, args ...any) bool {
	s.log.Debug("command rejected", append([]any{"op", op, "reason", err}, args...)...)
	return false
}

func (s *Subsystem) influenceOf(t social.TerritoryID, f social.FactionID) float64 {
	if s.influence == nil {
		return 0
	}
	return clamp(s.influence.Influence(t, f), 0, 1)
}
