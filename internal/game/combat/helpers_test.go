package combat_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// constSource returns the same draw forever.
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

// seqSource replays vals in order, wrapping around.
type seqSource struct {
	vals []float64
	n    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.n%len(s.vals)]
	s.n++
	return v
}

// startGame returns an empty 12x11 two-team game.
func startGame(t *testing.T, src dice.Source) *combat.Game {
	t.Helper()
	g, err := combat.NewGame("test", config.DefaultMatch(), src, zaptest.NewLogger(t))
	require.NoError(t, err)
	return g
}

// strike returns an attack that always hits for exactly atk.
func strike(t *testing.T, atk, cost int) *combat.Attack {
	t.Helper()
	a, err := combat.NewAttack(combat.Definition{Name: "Strike", MPCost: cost, Atk: atk, HitRate: 1})
	require.NoError(t, err)
	return a
}

func fighter(t *testing.T, name string, stats combat.Stats, skills ...combat.Skill) *combat.Character {
	t.Helper()
	c, err := combat.NewCharacter(name, stats, skills...)
	require.NoError(t, err)
	return c
}

func defaultStats() combat.Stats {
	return combat.Stats{HP: 10000, MP: 2000, Agility: 4}
}

func place(t *testing.T, g *combat.Game, c *combat.Character, team, x, y int) {
	t.Helper()
	require.NoError(t, g.AddCharacter(c, team, x, y))
}
