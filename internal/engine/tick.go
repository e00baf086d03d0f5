// Package engine provides the real-time loop that drives the kernel.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/talgya/econwar/internal/clock"
)

// Simulated calendar.
const (
	SimSecondsPerHour = 3600.0
	SimSecondsPerDay  = 86400.0
)

// Ticker is advanced by dt simulated seconds on each step.
type Ticker interface {
	Tick(dt float64)
}

// Engine drives the simulation forward.
type Engine struct {
	Tick              uint64        // Steps taken (monotonic, never resets)
	Speed             float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval          time.Duration // Wall time per step at Speed 1
	SimSecondsPerTick float64       // Simulated seconds per step

	Clock  *clock.Manual
	Kernel Ticker

	// Callbacks, populated during setup. They run with the engine lock held.
	OnTick func(tick uint64, simTime float64) // Every step
	OnHour func(tick uint64, simTime float64) // On crossing a simulated hour
	OnDay  func(tick uint64, simTime float64) // On crossing a simulated day

	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewEngine creates an engine that advances clk and kernel.
func NewEngine(clk *clock.Manual, kernel Ticker) *Engine {
	return &Engine{
		Speed:             1.0,
		Interval:          time.Second,
		SimSecondsPerTick: 1,
		Clock:             clk,
		Kernel:            kernel,
	}
}

// Do runs fn with the engine lock held, serializing it with steps.
func (e *Engine) Do(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

// SetSpeed changes the pace of a running engine.
func (e *Engine) SetSpeed(speed float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Speed = speed
	if e.limiter != nil {
		e.limiter.SetLimit(e.limit())
	}
}

// limit stays positive while paused so a pending Wait always returns; the
// step itself is skipped under the lock.
func (e *Engine) limit() rate.Limit {
	if e.Interval <= 0 {
		return rate.Inf
	}
	speed := e.Speed
	if speed <= 0 {
		speed = 1
	}
	return rate.Every(time.Duration(float64(e.Interval) / speed))
}

// Run steps the simulation until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	e.limiter = rate.NewLimiter(e.limit(), 1)
	e.mu.Unlock()
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed, "sim_time", e.Clock.Now())

	for {
		if e.paused() {
			select {
			case <-ctx.Done():
				slog.Info("simulation engine stopped", "tick", e.Tick)
				return nil
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}
		if err := e.limiter.Wait(ctx); err != nil {
			slog.Info("simulation engine stopped", "tick", e.Tick)
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("pace: %w", err)
		}
		e.mu.Lock()
		if e.Speed > 0 {
			e.step()
		}
		e.mu.Unlock()
	}
}

func (e *Engine) paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Speed <= 0
}

// Step advances the simulation by one step.
func (e *Engine) Step() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.step()
}

func (e *Engine) step() {
	e.Tick++
	prev := e.Clock.Now()
	now := e.Clock.Advance(e.SimSecondsPerTick)

	if e.Kernel != nil {
		e.Kernel.Tick(now - prev)
	}
	if e.OnTick != nil {
		e.OnTick(e.Tick, now)
	}
	if crossed(prev, now, SimSecondsPerHour) && e.OnHour != nil {
		e.OnHour(e.Tick, now)
	}
	if crossed(prev, now, SimSecondsPerDay) && e.OnDay != nil {
		e.OnDay(e.Tick, now)
	}
}

func crossed(prev, now, period float64) bool {
	return math.Floor(now/period) > math.Floor(prev/period)
}

// SimTime returns a human-readable simulation time from simulated seconds.
func SimTime(seconds float64) string {
	total := int64(seconds)
	secs := total % 60
	minutes := (total / 60) % 60
	hours := (total / 3600) % 24
	days := total/86400 + 1
	return fmt.Sprintf("Day %d, %d:%02d:%02d", days, hours, minutes, secs)
}
