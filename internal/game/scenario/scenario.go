// Package scenario loads match definitions from YAML and builds them into a
// ready-to-run combat.Game.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// Stat defaults applied to characters that leave a field at zero.
const (
	DefaultHP      = 10000
	DefaultMP      = 2000
	DefaultAgility = 4
)

// Skill kinds understood by SkillSpec.Kind.
const (
	KindSlash  = "slash"
	KindAttack = "attack"
	KindParry  = "parry"
)

// Scenario describes one match: the arena, the characters and their scripted orders.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Rows, Cols and Teams override the configured match when non-zero.
	Rows  int `yaml:"rows"`
	Cols  int `yaml:"cols"`
	Teams int `yaml:"teams"`
	// MoveHitDamage is the collision damage for characters that do not set their own.
	MoveHitDamage int             `yaml:"move_hit_damage"`
	Characters    []CharacterSpec `yaml:"characters"`
}

// Position is a grid coordinate.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Selection is the skill a character starts the match with.
type Selection struct {
	// Skill is the index into the character's skills.
	Skill int      `yaml:"skill"`
	Args  []string `yaml:"args"`
}

// MoveOrder is a movement the character is given before the movement phase of Round.
type MoveOrder struct {
	// Round is 1-based.
	Round     int    `yaml:"round"`
	Direction string `yaml:"direction"`
	Distance  int    `yaml:"distance"`
}

// CharacterSpec defines one character.
type CharacterSpec struct {
	Name          string      `yaml:"name"`
	Team          int         `yaml:"team"`
	Position      Position    `yaml:"position"`
	HP            int         `yaml:"hp"`
	MaxHP         int         `yaml:"max_hp"`
	// MP falls back to DefaultMP only when both mp and max_mp are unset.
	MP            int         `yaml:"mp"`
	MaxMP         int         `yaml:"max_mp"`
	Agility       int         `yaml:"agility"`
	MoveHitDamage *int        `yaml:"move_hit_damage"`
	Skills        []SkillSpec `yaml:"skills"`
	Select        *Selection  `yaml:"select"`
	Moves         []MoveOrder `yaml:"moves"`
}

// SkillSpec defines one skill. Kind "slash" ignores every other field.
type SkillSpec struct {
	Kind           string  `yaml:"kind"`
	Name           string  `yaml:"name"`
	Description    string  `yaml:"description"`
	MPCost         int     `yaml:"mp_cost"`
	Atk            int     `yaml:"atk"`
	Range          int     `yaml:"range"`
	HitRate        float64 `yaml:"hit_rate"`
	CritRate       float64 `yaml:"crit_rate"`
	DamageVariance float64 `yaml:"damage_variance"`
	// Reduction is the fraction of damage a parry's guard blocks.
	Reduction float64 `yaml:"reduction"`
	// Rounds are a parry's guard offsets; empty means the next round.
	Rounds []int `yaml:"rounds"`
}

func (s SkillSpec) definition() combat.Definition {
	return combat.Definition{
		Name:           s.Name,
		Description:    s.Description,
		MPCost:         s.MPCost,
		Atk:            s.Atk,
		Range:          s.Range,
		HitRate:        s.HitRate,
		CritRate:       s.CritRate,
		DamageVariance: s.DamageVariance,
	}
}

// Build creates an unbound skill from the spec.
func (s SkillSpec) Build() (combat.Skill, error) {
	switch strings.ToLower(s.Kind) {
	case KindSlash:
		return combat.Slash(), nil
	case KindAttack, "":
		return combat.NewAttack(s.definition())
	case KindParry:
		return combat.NewParry(s.definition(), s.Reduction, s.Rounds...)
	default:
		return nil, fmt.Errorf("unknown skill kind %q", s.Kind)
	}
}

func (c CharacterSpec) stats(moveHitDamage int) combat.Stats {
	st := combat.Stats{
		HP:            c.HP,
		MaxHP:         c.MaxHP,
		MP:            c.MP,
		MaxMP:         c.MaxMP,
		Agility:       c.Agility,
		MoveHitDamage: moveHitDamage,
	}
	if st.HP == 0 {
		st.HP = DefaultHP
	}
	if st.MP == 0 && st.MaxMP == 0 {
		st.MP = DefaultMP
	}
	if st.Agility == 0 {
		st.Agility = DefaultAgility
	}
	if c.MoveHitDamage != nil {
		st.MoveHitDamage = *c.MoveHitDamage
	}
	if st.MaxHP == 0 {
		st.MaxHP = st.HP
	}
	if st.MaxMP == 0 {
		st.MaxMP = st.MP
	}
	return st
}

// Validate checks the scenario's static invariants. Placement conflicts are
// reported by Populate.
//
// Postcondition: Returns nil iff every character has a unique non-empty name,
// a team and position inside the arena when the arena size is set, buildable
// skills, a selection within range and well-formed move orders; otherwise an
// error listing every violation.
func (s *Scenario) Validate() error {
	var errs []error
	if s.Rows < 0 || s.Cols < 0 || s.Teams < 0 || s.MoveHitDamage < 0 {
		errs = append(errs, fmt.Errorf("rows, cols, teams and move_hit_damage must be >= 0"))
	}
	if len(s.Characters) == 0 {
		errs = append(errs, fmt.Errorf("at least one character is required"))
	}
	seen := make(map[string]bool, len(s.Characters))
	for i, c := range s.Characters {
		label := fmt.Sprintf("character %d", i)
		if c.Name != "" {
			label = fmt.Sprintf("character %q", c.Name)
		}
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name must not be empty", label))
		} else if seen[c.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate name", label))
		}
		seen[c.Name] = true
		if c.Team < 0 || (s.Teams > 0 && c.Team >= s.Teams) {
			errs = append(errs, fmt.Errorf("%s: team %d out of range", label, c.Team))
		}
		if c.Position.X < 0 || c.Position.Y < 0 ||
			(s.Cols > 0 && c.Position.X >= s.Cols) || (s.Rows > 0 && c.Position.Y >= s.Rows) {
			errs = append(errs, fmt.Errorf("%s: position (%d,%d) outside the arena", label, c.Position.X, c.Position.Y))
		}
		if err := c.stats(s.MoveHitDamage).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", label, err))
		}
		for j, sk := range c.Skills {
			if _, err := sk.Build(); err != nil {
				errs = append(errs, fmt.Errorf("%s: skill %d: %w", label, j, err))
			}
		}
		if c.Select != nil {
			n := max(len(c.Skills), 1)
			if c.Select.Skill < 0 || c.Select.Skill >= n {
				errs = append(errs, fmt.Errorf("%s: selected skill %d of %d", label, c.Select.Skill, n))
			}
		}
		for _, mv := range c.Moves {
			if mv.Round < 1 {
				errs = append(errs, fmt.Errorf("%s: move round must be >= 1, got %d", label, mv.Round))
			}
			if _, err := grid.ParseDirection(mv.Direction); err != nil {
				errs = append(errs, fmt.Errorf("%s: round %d: %w", label, mv.Round, err))
			}
			if mv.Distance < 0 {
				errs = append(errs, fmt.Errorf("%s: round %d: distance must be >= 0", label, mv.Round))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("scenario %q: %w", s.Name, errors.Join(errs...))
	}
	return nil
}

// LoadFromBytes parses and validates a scenario from raw YAML.
//
// Precondition: data must be valid YAML for a single Scenario.
// Postcondition: Returns a validated *Scenario, or an error.
func LoadFromBytes(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and validates the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %q: %w", path, err)
	}
	s, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return s, nil
}

// Match returns base with the scenario's arena settings applied.
func (s *Scenario) Match(base config.MatchConfig) config.MatchConfig {
	if s.Rows > 0 {
		base.Rows = s.Rows
	}
	if s.Cols > 0 {
		base.Cols = s.Cols
	}
	if s.Teams > 0 {
		base.Teams = s.Teams
	}
	if s.MoveHitDamage > 0 {
		base.MoveHitDamage = s.MoveHitDamage
	}
	return base
}

// Populate creates every character of s and adds it to g, then applies initial
// selections. Characters without a move_hit_damage of their own collide for
// moveHitDamage.
//
// Precondition: g must be freshly created from s.Match.
// Postcondition: Returns the movement Script, or an error naming the first
// character that could not be built or placed.
func (s *Scenario) Populate(g *combat.Game, moveHitDamage int) (*Script, error) {
	script := newScript()
	for _, spec := range s.Characters {
		skills := make([]combat.Skill, 0, len(spec.Skills))
		for j, sk := range spec.Skills {
			skill, err := sk.Build()
			if err != nil {
				return nil, fmt.Errorf("character %q: skill %d: %w", spec.Name, j, err)
			}
			skills = append(skills, skill)
		}
		c, err := combat.NewCharacter(spec.Name, spec.stats(moveHitDamage), skills...)
		if err != nil {
			return nil, err
		}
		if err := g.AddCharacter(c, spec.Team, spec.Position.X, spec.Position.Y); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		if spec.Select != nil {
			if err := c.SetSkillSelection(spec.Select.Skill, spec.Select.Args...); err != nil {
				return nil, err
			}
		}
		for _, mv := range spec.Moves {
			dir, err := grid.ParseDirection(mv.Direction)
			if err != nil {
				return nil, fmt.Errorf("character %q: %w", spec.Name, err)
			}
			script.add(mv.Round, c, grid.Movement{Direction: dir, Distance: mv.Distance})
		}
	}
	return script, nil
}
