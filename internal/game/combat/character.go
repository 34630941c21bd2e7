package combat

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

var (
	// ErrUnknownSkill is returned when a skill index is out of range.
	ErrUnknownSkill = errors.New("unknown skill")
	// ErrMovementExceedsAgility is returned when a movement is longer than the character's agility.
	ErrMovementExceedsAgility = errors.New("movement exceeds agility")
	// ErrInvalidMovement is returned for negative distances or invalid directions.
	ErrInvalidMovement = errors.New("invalid movement")
)

// Stats are the vital statistics a Character is created with.
type Stats struct {
	// HP is the starting hp. Must be >= 1.
	HP int
	// MaxHP defaults to HP when zero.
	MaxHP int
	// MP is the starting mp. Must be >= 0.
	MP int
	// MaxMP defaults to MP when zero.
	MaxMP int
	// Agility orders turns and caps movement distance. Must be >= 1.
	Agility int
	// MoveHitDamage is the damage dealt by running into another character.
	MoveHitDamage int
}

// Validate checks the stat invariants after defaults are applied.
func (s Stats) Validate() error {
	var errs []string
	if s.HP < 1 {
		errs = append(errs, fmt.Sprintf("hp must be >= 1, got %d", s.HP))
	}
	if s.MaxHP < s.HP {
		errs = append(errs, fmt.Sprintf("max_hp %d must be >= hp %d", s.MaxHP, s.HP))
	}
	if s.MP < 0 {
		errs = append(errs, fmt.Sprintf("mp must be >= 0, got %d", s.MP))
	}
	if s.MaxMP < s.MP {
		errs = append(errs, fmt.Sprintf("max_mp %d must be >= mp %d", s.MaxMP, s.MP))
	}
	if s.Agility < 1 {
		errs = append(errs, fmt.Sprintf("agility must be >= 1, got %d", s.Agility))
	}
	if s.MoveHitDamage < 0 {
		errs = append(errs, fmt.Sprintf("move_hit_damage must be >= 0, got %d", s.MoveHitDamage))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (s Stats) withDefaults() Stats {
	if s.MaxHP == 0 {
		s.MaxHP = s.HP
	}
	if s.MaxMP == 0 {
		s.MaxMP = s.MP
	}
	return s
}

// Character is a participant in a match. It owns its skills, its passive
// schedule and its reaction table.
//
// Invariant: 0 <= hp <= maxHP and 0 <= mp <= maxMP between mutations.
// It is not safe for concurrent use; the owning Game serialises access.
type Character struct {
	ID   string
	Name string

	hp, maxHP int
	mp, maxMP int
	agility   int
	gateArmed int

	skills        []Skill
	selection     Skill
	selectionArgs []string
	movement      *grid.Movement
	collision     *Collision

	passives  *PassiveSchedule
	reactions *event.Table

	game *Game
	team int
	live bool
}

// NewCharacter creates a character with the given stats and skills. When no
// skills are given the character gets a Slash. The first skill is the initial
// selection.
//
// Precondition: name must be non-empty; stats must satisfy Validate after defaults;
// skills must not be owned by another character.
// Postcondition: Returns a character with full reaction table installed, not yet in a match.
func NewCharacter(name string, stats Stats, skills ...Skill) (*Character, error) {
	if name == "" {
		return nil, errors.New("character: name must not be empty")
	}
	stats = stats.withDefaults()
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("character %q: %w", name, err)
	}
	if len(skills) == 0 {
		skills = []Skill{Slash()}
	}

	c := &Character{
		ID:        uuid.New().String(),
		Name:      name,
		hp:        stats.HP,
		maxHP:     stats.MaxHP,
		mp:        stats.MP,
		maxMP:     stats.MaxMP,
		agility:   stats.Agility,
		collision: NewCollision(stats.MoveHitDamage),
		passives:  NewPassiveSchedule(),
		reactions: event.NewTable(),
		team:      -1,
	}
	if err := c.collision.bind(c); err != nil {
		return nil, err
	}
	for _, s := range skills {
		if s == nil {
			return nil, fmt.Errorf("character %q: nil skill", name)
		}
		if err := s.bind(c); err != nil {
			return nil, fmt.Errorf("character %q: %w", name, err)
		}
	}
	c.skills = append([]Skill(nil), skills...)
	c.selection = c.skills[0]
	c.installReactions()
	return c, nil
}

func (c *Character) installReactions() {
	c.reactions.On(event.KindNewRound, func(event.Event) { c.passives.Advance() })
	c.reactions.On(event.KindMovementFinish, func(event.Event) { c.ClearMovementSelection() })
	c.reactions.On(event.KindSkillHit, func(ev event.Event) { c.onSkillHit(ev.(SkillHit)) })
	c.reactions.On(event.KindMovementHit, func(ev event.Event) {
		hit := ev.(MovementHit)
		if hit.Source == c && hit.Target != nil {
			hit.Target.Handle(SkillHit{Skill: c.collision, Target: hit.Target})
		}
	})
	// Hook points for reactive effects; nothing happens by default.
	c.reactions.On(event.KindMovementHitBy, func(event.Event) {})
	c.reactions.On(event.KindCharacterFade, func(event.Event) {})
}

// Glyph returns the first rune of the character's name for map rendering.
func (c *Character) Glyph() rune {
	r, _ := utf8.DecodeRuneInString(c.Name)
	return r
}

// HP returns current hp.
func (c *Character) HP() int { return c.hp }

// MaxHP returns maximum hp.
func (c *Character) MaxHP() int { return c.maxHP }

// MP returns current mp.
func (c *Character) MP() int { return c.mp }

// MaxMP returns maximum mp.
func (c *Character) MaxMP() int { return c.maxMP }

// Agility returns the agility stat.
func (c *Character) Agility() int { return c.agility }

// GateArmed returns how many times the character ran out of mp.
func (c *Character) GateArmed() int { return c.gateArmed }

// Team returns the index of the character's team, or -1 when not in a match.
func (c *Character) Team() int { return c.team }

// Alive reports whether the character is still in its match.
func (c *Character) Alive() bool { return c.live }

// Skills returns a copy of the character's skills.
func (c *Character) Skills() []Skill { return append([]Skill(nil), c.skills...) }

// Selection returns the selected skill and its arguments.
func (c *Character) Selection() (Skill, []string) {
	return c.selection, append([]string(nil), c.selectionArgs...)
}

// Movement returns the pending movement selection, if any.
func (c *Character) Movement() (grid.Movement, bool) {
	if c.movement == nil {
		return grid.Movement{}, false
	}
	return *c.movement, true
}

// Passives returns the character's passive schedule.
func (c *Character) Passives() *PassiveSchedule { return c.passives }

// SetHP sets hp clamped to [0, MaxHP].
func (c *Character) SetHP(hp int) { c.hp = min(max(hp, 0), c.maxHP) }

// SetMP sets mp clamped to [0, MaxMP].
func (c *Character) SetMP(mp int) { c.mp = min(max(mp, 0), c.maxMP) }

// exhaust resolves an mp shortfall: mp is clamped to zero and the gate is armed.
func (c *Character) exhaust() {
	c.mp = 0
	c.gateArmed++
}

// SetSkillSelection selects the skill at index for this and following rounds.
//
// Postcondition: On error the previous selection is kept and ErrUnknownSkill is wrapped.
func (c *Character) SetSkillSelection(index int, args ...string) error {
	if index < 0 || index >= len(c.skills) {
		return fmt.Errorf("%s selecting skill %d of %d: %w", c.Name, index, len(c.skills), ErrUnknownSkill)
	}
	c.selection = c.skills[index]
	c.selectionArgs = append([]string(nil), args...)
	return nil
}

// SetMovementSelection sets the movement for the next movement phase.
//
// Postcondition: On error the movement selection is cleared, not applied.
func (c *Character) SetMovementSelection(dir grid.Direction, distance int) error {
	switch {
	case distance > c.agility:
		c.movement = nil
		return fmt.Errorf("%s moving %d with agility %d: %w", c.Name, distance, c.agility, ErrMovementExceedsAgility)
	case distance < 0 || !dir.Valid():
		c.movement = nil
		return fmt.Errorf("%s moving %s %d: %w", c.Name, dir, distance, ErrInvalidMovement)
	}
	c.movement = &grid.Movement{Direction: dir, Distance: distance}
	return nil
}

// ClearMovementSelection drops any pending movement.
func (c *Character) ClearMovementSelection() { c.movement = nil }

// On registers an additional reaction for kind k after the built-in ones.
func (c *Character) On(k event.Kind, r event.Reaction) { c.reactions.On(k, r) }

// Handle dispatches ev to the character's reactions.
//
// Postcondition: Returns the number of reactions invoked.
func (c *Character) Handle(ev event.Event) int { return c.reactions.Handle(ev) }

func (c *Character) onSkillHit(hit SkillHit) {
	if !c.live || hit.Skill == nil {
		return
	}
	raw := hit.Skill.Invoke(Invocation{Target: c, Game: c.game, Args: hit.Args})
	if raw == nil {
		return
	}
	e := *raw
	for _, p := range c.passives.Active() {
		e = p.Transform(e)
	}
	c.ApplyEffect(e)
}

// ApplyEffect applies e to the character: hp and mp damage, then meta effects
// in order. Narration is sent to the character's game. When hp reaches zero
// the character fades and is removed from its match; a negative mp is clamped
// to zero and arms the gate.
//
// Precondition: the character must be in a match.
// Postcondition: 0 <= HP() <= MaxHP(); 0 <= MP() <= MaxMP().
func (c *Character) ApplyEffect(e Effect) {
	if !c.live {
		return
	}
	c.hp = min(c.hp-e.HPDamage, c.maxHP)
	c.mp = min(c.mp-e.MPDamage, c.maxMP)

	var lines []string
	for _, m := range e.Meta {
		if m.Apply == nil {
			continue
		}
		if line := m.Apply(c); line != "" {
			lines = append(lines, line)
		}
	}

	exhausted := c.mp < 0
	if exhausted {
		c.exhaust()
	}
	faded := c.hp <= 0
	if faded {
		c.hp = 0
	}

	c.game.narrate(e.describe(c))
	for _, line := range lines {
		c.game.narrate(line)
	}
	if exhausted {
		c.game.narrate(fmt.Sprintf("%s MP exhausted", c.Name))
	}
	if faded {
		c.fade()
	}
}

func (c *Character) fade() {
	if !c.live {
		return
	}
	c.game.narrate(fmt.Sprintf("%s [FADED]", c.Name))
	c.Handle(CharacterFade{Character: c})
	c.game.RemoveCharacter(c)
}

// Info returns a multi-line status summary.
func (c *Character) Info() string {
	return fmt.Sprintf("%s\nHP: %d/%d\nMP: %d/%d\nAGI: %d", c.Name, c.hp, c.maxHP, c.mp, c.maxMP, c.agility)
}

// SkillInfo returns the summaries of all skills.
func (c *Character) SkillInfo() string {
	parts := make([]string, len(c.skills))
	for i, s := range c.skills {
		parts[i] = s.Info()
	}
	return "SKILLS:\n" + strings.Join(parts, "\n")
}

// String returns "Character(name hp/max)".
func (c *Character) String() string {
	return fmt.Sprintf("Character(%s %d/%d)", c.Name, c.hp, c.maxHP)
}
