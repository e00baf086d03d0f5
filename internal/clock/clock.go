// Package clock provides the simulated-seconds time source consumed by the
// warfare kernel. The host owns time; the kernel only reads it.
package clock

import "sync"

// Clock returns monotonically non-decreasing simulated seconds.
type Clock interface {
	Now() float64
}

// Manual is a host-advanced clock. The zero value starts at t=0.
type Manual struct {
	mu  sync.Mutex
	now float64
}

// NewManual creates a clock starting at the given simulated second.
func NewManual(start float64) *Manual {
	return &Manual{now: start}
}

// Now returns the current simulated second.
func (m *Manual) Now() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by dt seconds. Negative dt is ignored.
func (m *Manual) Advance(dt float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if dt > 0 {
		m.now += dt
	}
	return m.now
}

// Set jumps the clock to t. Moving backwards is refused so Now stays monotonic.
func (m *Manual) Set(t float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t > m.now {
		m.now = t
	}
}

// Func adapts a plain function to Clock.
type Func func() float64

// Now calls f.
func (f Func) Now() float64 { return f() }
