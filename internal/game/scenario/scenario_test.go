package scenario_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/scenario"
)

const duelYAML = `
name: test-duel
rows: 11
cols: 12
teams: 2
move_hit_damage: 25
characters:
  - name: A
    team: 0
    position: {x: 0, y: 0}
    skills:
      - kind: attack
        name: Strike
        atk: 100
        hit_rate: 1
      - kind: parry
        name: Parry
        mp_cost: 500
        hit_rate: 1
        reduction: 0.5
    select: {skill: 1, args: ["2"]}
    moves:
      - {round: 1, direction: down, distance: 1}
  - name: B
    team: 1
    position: {x: 0, y: 2}
    hp: 500
    mp: 100
    agility: 2
    move_hit_damage: 0
`

func build(t *testing.T, s *scenario.Scenario) (*combat.Game, *scenario.Script) {
	t.Helper()
	cfg := s.Match(config.DefaultMatch())
	g, err := combat.NewGame(s.Name, cfg, dice.NewSeededSource(1), zaptest.NewLogger(t))
	require.NoError(t, err)
	script, err := s.Populate(g, cfg.MoveHitDamage)
	require.NoError(t, err)
	return g, script
}

func TestLoadFromBytes_Duel(t *testing.T) {
	s, err := scenario.LoadFromBytes([]byte(duelYAML))
	require.NoError(t, err)
	assert.Equal(t, "test-duel", s.Name)
	require.Len(t, s.Characters, 2)
	assert.Equal(t, scenario.Position{X: 0, Y: 2}, s.Characters[1].Position)
	assert.Equal(t, []scenario.MoveOrder{{Round: 1, Direction: "down", Distance: 1}}, s.Characters[0].Moves)
}

func TestPopulate_BuildsCharacters(t *testing.T) {
	s, err := scenario.LoadFromBytes([]byte(duelYAML))
	require.NoError(t, err)
	g, script := build(t, s)

	chars := g.Characters()
	require.Len(t, chars, 2)
	a, b := chars[0], chars[1]

	assert.Equal(t, scenario.DefaultHP, a.HP())
	assert.Equal(t, scenario.DefaultMP, a.MP())
	assert.Equal(t, scenario.DefaultAgility, a.Agility())
	sel, args := a.Selection()
	assert.Equal(t, "Parry", sel.Definition().Name)
	assert.Equal(t, []string{"2"}, args)

	assert.Equal(t, 500, b.HP())
	assert.Equal(t, 100, b.MaxMP())
	assert.Equal(t, 1, b.Team())
	sel, _ = b.Selection()
	assert.Equal(t, "Slash", sel.Definition().Name)

	p, ok := g.Position(b)
	require.True(t, ok)
	assert.Equal(t, grid.Point{X: 0, Y: 2}, p)
	assert.Equal(t, 1, script.LastRound())
}

func TestScript_AppliesMovesPerRound(t *testing.T) {
	s, err := scenario.LoadFromBytes([]byte(duelYAML))
	require.NoError(t, err)
	g, script := build(t, s)
	a := g.Characters()[0]

	assert.Empty(t, script.Apply(1))
	mv, ok := a.Movement()
	require.True(t, ok)
	assert.Equal(t, grid.Movement{Direction: grid.Down, Distance: 1}, mv)

	_, err = g.RunOneRound(context.Background())
	require.NoError(t, err)
	p, _ := g.Position(a)
	assert.Equal(t, grid.Point{X: 0, Y: 1}, p)

	assert.Empty(t, script.Apply(2))
	_, ok = a.Movement()
	assert.False(t, ok)
}

func TestScript_ReportsRejectedOrders(t *testing.T) {
	data := []byte(`
name: slow
characters:
  - name: A
    agility: 1
    moves:
      - {round: 1, direction: up, distance: 3}
  - name: B
    team: 1
    position: {x: 3, y: 3}
`)
	s, err := scenario.LoadFromBytes(data)
	require.NoError(t, err)
	_, script := build(t, s)
	errs := script.Apply(1)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], combat.ErrMovementExceedsAgility)
}

func TestPopulate_LocationConflict(t *testing.T) {
	data := []byte(`
name: crowded
characters:
  - name: A
    position: {x: 1, y: 1}
  - name: B
    team: 1
    position: {x: 1, y: 1}
`)
	s, err := scenario.LoadFromBytes(data)
	require.NoError(t, err)
	cfg := s.Match(config.DefaultMatch())
	g, err := combat.NewGame(s.Name, cfg, dice.NewSeededSource(1), zaptest.NewLogger(t))
	require.NoError(t, err)
	_, err = s.Populate(g, 0)
	assert.ErrorIs(t, err, grid.ErrLocationConflict)
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	data := []byte(`
name: broken
teams: 2
rows: 4
cols: 4
characters:
  - name: ""
  - name: A
    team: 5
    position: {x: 9, y: 0}
    skills:
      - kind: fireball
    select: {skill: 3}
    moves:
      - {round: 0, direction: sideways, distance: -1}
  - name: A
`)
	_, err := scenario.LoadFromBytes(data)
	require.Error(t, err)
	for _, want := range []string{
		"name must not be empty",
		"team 5 out of range",
		"outside the arena",
		`unknown skill kind "fireball"`,
		"selected skill 3",
		"move round must be >= 1",
		"unknown direction",
		"distance must be >= 0",
		"duplicate name",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadFromBytes_BadYAML(t *testing.T) {
	_, err := scenario.LoadFromBytes([]byte("characters: [:"))
	assert.Error(t, err)
	_, err = scenario.LoadFromBytes([]byte("name: empty\n"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(duelYAML), 0o644))
	s, err := scenario.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test-duel", s.Name)

	_, err = scenario.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_ShippedDuel(t *testing.T) {
	s, err := scenario.Load(filepath.Join("..", "..", "..", "content", "scenarios", "duel.yaml"))
	require.NoError(t, err)
	g, _ := build(t, s)
	assert.Len(t, g.Characters(), 3)
}

func TestMatch_OverridesOnlySetFields(t *testing.T) {
	base := config.MatchConfig{Rows: 11, Cols: 12, Teams: 2, Seed: 9, MoveHitDamage: 3}
	got := (&scenario.Scenario{Cols: 20, Teams: 3}).Match(base)
	assert.Equal(t, config.MatchConfig{Rows: 11, Cols: 20, Teams: 3, Seed: 9, MoveHitDamage: 3}, got)
}

func TestSkillSpec_Build(t *testing.T) {
	s, err := scenario.SkillSpec{Kind: "SLASH"}.Build()
	require.NoError(t, err)
	assert.Equal(t, "Slash", s.Definition().Name)

	s, err = scenario.SkillSpec{Name: "Poke", Atk: 5, HitRate: 0.5}.Build()
	require.NoError(t, err)
	assert.IsType(t, &combat.Attack{}, s)

	s, err = scenario.SkillSpec{Kind: "parry", Name: "Parry", Reduction: 0.25, Rounds: []int{1, 2}}.Build()
	require.NoError(t, err)
	assert.IsType(t, &combat.Parry{}, s)

	_, err = scenario.SkillSpec{Kind: "attack"}.Build()
	assert.Error(t, err, "attacks need a name")
}

func TestProperty_PlacementWithinArenaValidates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rows := rapid.IntRange(1, 20).Draw(rt, "rows")
		cols := rapid.IntRange(2, 20).Draw(rt, "cols")
		x := rapid.IntRange(0, cols-2).Draw(rt, "x")
		y := rapid.IntRange(0, rows-1).Draw(rt, "y")
		data := []byte(fmt.Sprintf(`
name: prop
rows: %d
cols: %d
characters:
  - name: A
    position: {x: %d, y: %d}
  - name: B
    team: 1
    position: {x: %d, y: %d}
`, rows, cols, x, y, x+1, y))
		s, err := scenario.LoadFromBytes(data)
		if err != nil {
			rt.Fatalf("LoadFromBytes: %v", err)
		}
		g, err := combat.NewGame("prop", s.Match(config.DefaultMatch()), dice.NewSeededSource(1), zaptest.NewLogger(t))
		if err != nil {
			rt.Fatalf("NewGame: %v", err)
		}
		if _, err := s.Populate(g, 0); err != nil {
			rt.Fatalf("Populate: %v", err)
		}
	})
}
