// Package combat implements the round-based tactical combat engine: characters,
// teams, skills and their effects, passive-skill schedules and the Game that
// runs one round at a time.
package combat

import (
	"errors"
	"fmt"
	"slices"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// ErrUnknownTeam is returned when a team index is out of range.
var ErrUnknownTeam = errors.New("unknown team")

// Game holds the live state of one match: the map, the teams and the roster of
// characters still in play.
//
// It is not safe for concurrent use; one round runs to completion before the next.
type Game struct {
	// ID identifies the match.
	ID string

	cfg    config.MatchConfig
	logger *zap.Logger
	src    dice.Source
	grid   *grid.Map
	teams  []*Team
	// roster is the agility-ordered list of live characters.
	roster []*Character
	// narration collects the lines of the round in progress.
	narration []string
	round     int
	phase     *fsm.FSM
}

// NewGame creates an empty match.
//
// Precondition: cfg must satisfy Validate; src and logger must be non-nil.
// Postcondition: Returns a Game in the idle phase at round 0, or an error.
func NewGame(id string, cfg config.MatchConfig, src dice.Source, logger *zap.Logger) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}
	if src == nil || logger == nil {
		return nil, errors.New("creating game: src and logger must not be nil")
	}
	g := &Game{
		ID:     id,
		cfg:    cfg,
		logger: logger,
		src:    src,
		teams:  make([]*Team, cfg.Teams),
	}
	for i := range g.teams {
		g.teams[i] = &Team{Index: i}
	}
	m, err := grid.New(cfg.Rows, cfg.Cols, g)
	if err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}
	g.grid = m
	g.phase = newPhaseMachine(g)
	return g, nil
}

// AddCharacter places c on team at (x, y).
//
// Precondition: c must not already be in a match.
// Postcondition: On success c is alive, on the team, on the map and in the roster.
// A grid.ErrLocationConflict means the match cannot start as configured.
func (g *Game) AddCharacter(c *Character, team, x, y int) error {
	if team < 0 || team >= len(g.teams) {
		return fmt.Errorf("adding %s to team %d of %d: %w", c.Name, team, len(g.teams), ErrUnknownTeam)
	}
	if c.game != nil {
		return fmt.Errorf("adding %s: already in a match", c.Name)
	}
	if err := g.grid.Register(c, x, y); err != nil {
		return fmt.Errorf("adding %s: %w", c.Name, err)
	}
	c.game = g
	c.team = team
	c.live = true
	g.teams[team].Add(c)
	g.roster = append(g.roster, c)
	g.logger.Debug("character added",
		zap.String("character", c.Name),
		zap.String("id", c.ID),
		zap.Int("team", team),
		zap.Int("x", x),
		zap.Int("y", y),
	)
	return nil
}

// RemoveCharacter takes c out of the match: roster, team and map.
// Removing a character twice is a no-op.
//
// Postcondition: c.Alive() is false and no query of g returns c.
func (g *Game) RemoveCharacter(c *Character) {
	if c.game != g || !c.live {
		return
	}
	c.live = false
	g.roster = slices.DeleteFunc(g.roster, func(o *Character) bool { return o == c })
	g.teams[c.team].Remove(c)
	g.grid.Remove(c)
	g.logger.Info("character removed",
		zap.String("character", c.Name),
		zap.Int("team", c.team),
		zap.Int("round", g.round),
	)
}

// Opponents returns every character on another team, team by team in member order.
// It lets the map enumerate enemies for targeting.
func (g *Game) Opponents(o grid.Occupant) []grid.Occupant {
	c, ok := o.(*Character)
	if !ok {
		panic(fmt.Sprintf("combat: Opponents called with %T", o))
	}
	var out []grid.Occupant
	for _, t := range g.teams {
		if t.Index == c.team {
			continue
		}
		for _, m := range t.members {
			out = append(out, m)
		}
	}
	return out
}

// FindNearestEnemy returns the opponent closest to c on the map.
func (g *Game) FindNearestEnemy(c *Character) (*Character, error) {
	o, err := g.grid.FindNearestEnemy(c)
	if err != nil {
		return nil, err
	}
	return o.(*Character), nil
}

// Characters returns the live roster in turn order.
func (g *Game) Characters() []*Character { return slices.Clone(g.roster) }

// Teams returns the match's teams in index order.
func (g *Game) Teams() []*Team { return slices.Clone(g.teams) }

// Team returns the team at index i, or nil.
func (g *Game) Team(i int) *Team {
	if i < 0 || i >= len(g.teams) {
		return nil
	}
	return g.teams[i]
}

// LivingTeams returns the indexes of teams with at least one member left.
func (g *Game) LivingTeams() []int {
	var out []int
	for _, t := range g.teams {
		if t.Len() > 0 {
			out = append(out, t.Index)
		}
	}
	return out
}

// Position returns c's coordinate on the map.
func (g *Game) Position(c *Character) (grid.Point, bool) { return g.grid.Position(c) }

// Map returns the match's grid.
func (g *Game) Map() *grid.Map { return g.grid }

// RenderMap returns a glyph snapshot of the map.
func (g *Game) RenderMap() [][]rune { return g.grid.Render() }

// Round returns the number of rounds started so far.
func (g *Game) Round() int { return g.round }

// Phase returns the current round phase: "idle", "movement", "skill" or "end".
func (g *Game) Phase() string { return g.phase.Current() }

// Narration returns a copy of the lines produced since the current round started.
func (g *Game) Narration() []string { return slices.Clone(g.narration) }

func (g *Game) narrate(line string) {
	g.narration = append(g.narration, line)
	g.logger.Debug("narration", zap.Int("round", g.round), zap.String("line", line))
}

// sortByAgilityDesc sorts characters in place, highest agility first.
// Equal agility keeps insertion order.
func sortByAgilityDesc(characters []*Character) {
	n := len(characters)
	for i := 1; i < n; i++ {
		for j := i; j > 0 && characters[j].agility > characters[j-1].agility; j-- {
			characters[j], characters[j-1] = characters[j-1], characters[j]
		}
	}
}
