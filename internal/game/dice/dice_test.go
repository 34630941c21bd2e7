package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// seqSource replays vals in order and counts draws.
type seqSource struct {
	vals  []float64
	draws int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.draws%len(s.vals)]
	s.draws++
	return v
}

func TestChance_Boundaries(t *testing.T) {
	src := &seqSource{vals: []float64{0.5}}
	assert.True(t, dice.Chance(src, 0.6))
	assert.False(t, dice.Chance(src, 0.5), "draw equal to rate must fail")
	assert.False(t, dice.Chance(src, 0))
	assert.Equal(t, 3, src.draws, "every call draws exactly once")
}

func TestChance_RateOneAlwaysSucceeds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.Float64Range(0, 0.999999).Draw(rt, "draw")
		assert.True(rt, dice.Chance(&seqSource{vals: []float64{v}}, 1.0))
	})
}

func TestSpread_ZeroVarianceIsExactlyOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.Float64Range(0, 0.999999).Draw(rt, "draw")
		assert.Equal(rt, 1.0, dice.Spread(&seqSource{vals: []float64{v}}, 0))
	})
}

func TestSpread_Range(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.Float64Range(0, 0.999999).Draw(rt, "draw")
		variance := rapid.Float64Range(0, 1).Draw(rt, "variance")
		m := dice.Spread(&seqSource{vals: []float64{v}}, variance)
		assert.GreaterOrEqual(rt, m, 1-variance-1e-9)
		assert.Less(rt, m, 1+variance+1e-9)
	})
}

func TestSpread_Endpoints(t *testing.T) {
	assert.InDelta(t, 0.9, dice.Spread(&seqSource{vals: []float64{0}}, 0.1), 1e-12)
	assert.InDelta(t, 1.0, dice.Spread(&seqSource{vals: []float64{0.5}}, 0.1), 1e-12)
}

// TestCryptoSource_InRange verifies every value is in [0, 1).
func TestCryptoSource_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSeededSource_Deterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64Min(1).Draw(rt, "seed")
		a := dice.NewSeededSource(seed)
		b := dice.NewSeededSource(seed)
		for i := 0; i < 16; i++ {
			va, vb := a.Float64(), b.Float64()
			require.Equal(rt, va, vb, "draw %d diverged", i)
			require.GreaterOrEqual(rt, va, 0.0)
			require.Less(rt, va, 1.0)
		}
	})
}

func TestNewSource_SeedSelection(t *testing.T) {
	a := dice.NewSource(7)
	b := dice.NewSource(7)
	assert.Equal(t, a.Float64(), b.Float64())
	assert.NotNil(t, dice.NewSource(0))
}

func TestLoggedSource_PassesThroughAndLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	src := dice.NewLoggedSource(&seqSource{vals: []float64{0.25, 0.75}}, zap.New(core))

	assert.Equal(t, 0.25, src.Float64())
	assert.Equal(t, 0.75, src.Float64())
	assert.Equal(t, uint64(2), src.Draws())

	entries := logs.FilterMessage("dice draw").All()
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(2), entries[1].ContextMap()["draw"])
	assert.Equal(t, 0.75, entries[1].ContextMap()["value"])
}
