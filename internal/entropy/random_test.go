package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeded_IsReproducible(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 100; i++ {
		va, vb := a.Float(), b.Float()
		require.Equal(t, va, vb, "draw %d", i)
		require.GreaterOrEqual(t, va, 0.0)
		require.Less(t, va, 1.0)
	}
	assert.Equal(t, int64(42), a.Seed())
}

func TestScripted_ReplaysThenFallsBack(t *testing.T) {
	s := NewScripted(0.1, 0.9)
	assert.Equal(t, 2, s.Remaining())
	assert.Equal(t, 0.1, s.Float())
	assert.Equal(t, 0.9, s.Float())
	assert.Equal(t, 0.5, s.Float(), "exhausted script returns midpoint")

	s.Fallback = NewScripted(0.25)
	assert.Equal(t, 0.25, s.Float())

	s.Push(-3, 7)
	assert.Equal(t, 0.0, s.Float())
	assert.Less(t, s.Float(), 1.0)
}

func TestFloatFromSource_NilUsesCrypto(t *testing.T) {
	for i := 0; i < 20; i++ {
		v := FloatFromSource(nil)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
	assert.Equal(t, 0.3, FloatFromSource(NewScripted(0.3)))
}
