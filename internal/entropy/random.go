// Package entropy provides the uniform random source behind stochastic action outcomes.
// Seeded sources make whole runs reproducible; crypto/rand is the fallback when no
// source is injected.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	mrand "math/rand"
	"sync"
)

// Source produces uniform float64 values in [0, 1).
type Source interface {
	Float() float64
}

// Seeded is a deterministic Source backed by math/rand.
type Seeded struct {
	mu   sync.Mutex
	seed int64
	rng  *mrand.Rand
}

// NewSeeded creates a Source whose draw sequence is fixed by seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{
		seed: seed,
		rng:  mrand.New(mrand.NewSource(seed)),
	}
}

// Float returns the next draw in [0, 1).
func (s *Seeded) Float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Seed reports the seed this source was created with.
func (s *Seeded) Seed() int64 { return s.seed }

// Scripted replays a fixed list of draws, then falls through to Fallback
// (or 0.5 when Fallback is nil). Used to pin outcomes in tests and replays.
type Scripted struct {
	mu       sync.Mutex
	draws    []float64
	Fallback Source
}

// NewScripted creates a Source that yields draws in order.
func NewScripted(draws ...float64) *Scripted {
	return &Scripted{draws: append([]float64(nil), draws...)}
}

// Push appends further draws to the script.
func (s *Scripted) Push(draws ...float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws = append(s.draws, draws...)
}

// Remaining reports how many scripted draws are left.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.draws)
}

// Float returns the next scripted draw, clamped into [0, 1).
func (s *Scripted) Float() float64 {
	s.mu.Lock()
	if len(s.draws) == 0 {
		s.mu.Unlock()
		if s.Fallback != nil {
			return s.Fallback.Float()
		}
		slog.Debug("scripted entropy exhausted, returning midpoint")
		return 0.5
	}
	val := s.draws[0]
	s.draws = s.draws[1:]
	s.mu.Unlock()

	if val < 0 {
		return 0
	}
	if val >= 1 {
		return nextBelowOne
	}
	return val
}

// nextBelowOne is the largest float64 strictly below 1.
const nextBelowOne = 1 - 1.0/(1<<53)

// cryptoRandFloat generates a random float64 using crypto/rand as fallback.
func cryptoRandFloat() float64 {
	var buf [8]byte
	_, err := rand.Read(buf[:])
	if err != nil {
		// This should never happen but return 0.5 as a safe default.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}

// CryptoFloat returns a random float using crypto/rand.
func CryptoFloat() float64 {
	return cryptoRandFloat()
}

// FloatFromSource returns a draw from s if available, or crypto/rand.
func FloatFromSource(s Source) float64 {
	if s != nil {
		return s.Float()
	}
	return cryptoRandFloat()
}
