package combat

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Definition is the immutable description of a skill.
type Definition struct {
	Name        string
	Description string
	// MPCost is deducted from the owner on every invocation, hit or miss.
	MPCost int
	// Atk is the base damage before variance and crit.
	Atk int
	// Range is informational; targeting always picks the nearest enemy.
	Range int
	// HitRate is the probability in [0, 1] that the skill connects.
	HitRate float64
	// CritRate is the probability in [0, 1] that a hit deals double damage.
	CritRate float64
	// DamageVariance is the fraction by which damage varies around Atk (0.1 = ±10%).
	DamageVariance float64
}

// Validate checks the definition's invariants.
//
// Postcondition: Returns nil iff Name is non-empty, costs and atk are non-negative,
// rates lie in [0, 1] and DamageVariance lies in [0, 1].
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("skill: name must not be empty")
	}
	if d.MPCost < 0 || d.Atk < 0 || d.Range < 0 {
		return fmt.Errorf("skill %q: mp_cost, atk and range must be >= 0", d.Name)
	}
	for label, v := range map[string]float64{"hit_rate": d.HitRate, "crit_rate": d.CritRate, "damage_variance": d.DamageVariance} {
		if v < 0 || v > 1 {
			return fmt.Errorf("skill %q: %s must be in [0, 1], got %v", d.Name, label, v)
		}
	}
	return nil
}

// Invocation carries everything a skill needs to produce an Effect.
type Invocation struct {
	// Target is the character the skill lands on.
	Target *Character
	// Game supplies randomness and narration.
	Game *Game
	// Args are the free-form arguments given with the skill selection.
	Args []string
}

// Skill is a factory producing Effects. The set of variants is closed:
// *Attack, *Collision and *Parry.
type Skill interface {
	// Definition returns the skill's immutable description.
	Definition() Definition
	// Owner returns the character the skill belongs to, or nil when unbound.
	Owner() *Character
	// Invoke produces the Effect of using the skill on inv.Target, or nil when
	// nothing should be applied (the owner could not pay the mp cost).
	Invoke(inv Invocation) *Effect
	// Info returns a multi-line summary of the skill.
	Info() string

	bind(owner *Character) error
}

// owned is the owner back-reference shared by every variant.
type owned struct {
	owner *Character
}

// Owner returns the bound owner.
func (o *owned) Owner() *Character { return o.owner }

func (o *owned) bind(owner *Character) error {
	if o.owner != nil && o.owner != owner {
		return fmt.Errorf("skill already owned by %q", o.owner.Name)
	}
	o.owner = owner
	return nil
}

func info(d Definition) string {
	return fmt.Sprintf("%s: %s\nATK: %d  MP_COST: %d\nRANGE: %d", d.Name, d.Description, d.Atk, d.MPCost, d.Range)
}

// roll pays d.MPCost from the owner and performs the hit, variance and crit
// draws in that order.
//
// Postcondition: Returns nil when the owner's mp went negative (mp clamped to 0,
// gate armed, shortfall narrated). Otherwise returns a missed Effect or a hit
// carrying round(atk * spread * (2 if crit)).
func roll(s Skill, inv Invocation) *Effect {
	d := s.Definition()
	owner := s.Owner()
	owner.mp -= d.MPCost
	if owner.mp < 0 {
		inv.Game.narrate(fmt.Sprintf("%s [%s] MP -%d (%d): not enough MP", owner.Name, d.Name, d.MPCost, owner.mp))
		owner.exhaust()
		return nil
	}

	src := inv.Game.src
	e := &Effect{Source: s}
	if !dice.Chance(src, d.HitRate) {
		e.Missed = true
		return e
	}
	dmg := float64(d.Atk) * dice.Spread(src, d.DamageVariance)
	if dice.Chance(src, d.CritRate) {
		dmg *= 2
		e.Critical = true
	}
	e.HPDamage = int(math.Round(dmg))
	return e
}

// Attack is a plain damaging skill.
type Attack struct {
	owned
	def Definition
}

// NewAttack creates an unbound Attack.
//
// Precondition: def must satisfy Validate.
func NewAttack(def Definition) (*Attack, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &Attack{def: def}, nil
}

// Slash returns the default melee attack every character starts with when none is given.
func Slash() *Attack {
	return &Attack{def: Definition{
		Name:           "Slash",
		Description:    "A straightforward sword strike.",
		MPCost:         100,
		Atk:            100,
		Range:          3,
		HitRate:        0.9,
		CritRate:       0.1,
		DamageVariance: 0.1,
	}}
}

// Definition returns the attack's definition.
func (a *Attack) Definition() Definition { return a.def }

// Info returns a summary of the attack.
func (a *Attack) Info() string { return info(a.def) }

// Invoke pays the cost and rolls damage against inv.Target.
func (a *Attack) Invoke(inv Invocation) *Effect { return roll(a, inv) }

// Collision is the fixed-damage hit delivered when a moving character runs into another.
// It is free and always connects.
type Collision struct {
	owned
	damage int
}

// NewCollision creates an unbound Collision dealing damage.
func NewCollision(damage int) *Collision {
	return &Collision{damage: damage}
}

// Definition returns the collision's definition.
func (c *Collision) Definition() Definition {
	return Definition{
		Name:        "Ram",
		Description: "Crash into another character while moving.",
		Atk:         c.damage,
		HitRate:     1,
	}
}

// Info returns a summary of the collision.
func (c *Collision) Info() string { return info(c.Definition()) }

// Invoke returns the fixed collision damage without drawing randomness.
func (c *Collision) Invoke(Invocation) *Effect {
	return &Effect{Source: c, HPDamage: c.damage}
}

// Parry strikes like an Attack and, when its cost is paid, raises a Guard on
// its owner for the configured future rounds.
type Parry struct {
	owned
	def    Definition
	guard  Guard
	rounds []int
}

// DefaultParryRounds activates the guard during the next round only.
var DefaultParryRounds = []int{1}

// NewParry creates an unbound Parry. reduction is the fraction of incoming damage
// blocked while the guard is up; rounds are offsets from the round the parry is used in.
//
// Precondition: def must satisfy Validate; reduction in [0, 1]; rounds >= 0.
func NewParry(def Definition, reduction float64, rounds ...int) (*Parry, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if reduction < 0 || reduction > 1 {
		return nil, fmt.Errorf("skill %q: reduction must be in [0, 1], got %v", def.Name, reduction)
	}
	if len(rounds) == 0 {
		rounds = DefaultParryRounds
	}
	for _, r := range rounds {
		if r < 0 {
			return nil, fmt.Errorf("skill %q: round offsets must be >= 0, got %d", def.Name, r)
		}
	}
	return &Parry{def: def, guard: Guard{Factor: 1 - reduction}, rounds: append([]int(nil), rounds...)}, nil
}

// Definition returns the parry's definition.
func (p *Parry) Definition() Definition { return p.def }

// Info returns a summary of the parry.
func (p *Parry) Info() string {
	return fmt.Sprintf("%s\nBLOCK: %d%%  ROUNDS: %v", info(p.def), int(math.Round((1-p.guard.Factor)*100)), p.rounds)
}

// Invoke rolls the parry's own strike and schedules the guard on the owner.
// inv.Args, when present, override the configured round offsets.
func (p *Parry) Invoke(inv Invocation) *Effect {
	e := roll(p, inv)
	if e == nil {
		return nil
	}
	rounds := p.rounds
	if len(inv.Args) > 0 {
		parsed, err := parseRounds(inv.Args)
		if err != nil {
			inv.Game.narrate(fmt.Sprintf("%s [%s] ignored arguments: %v", p.owner.Name, p.def.Name, err))
		} else {
			rounds = parsed
		}
	}
	if err := p.owner.passives.Schedule(p.guard, rounds...); err == nil {
		inv.Game.narrate(fmt.Sprintf("%s [%s] guard ready in rounds %v", p.owner.Name, p.def.Name, rounds))
	}
	return e
}

func parseRounds(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("round offset %q: %w", a, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("round offset %d must be >= 0", n)
		}
		out = append(out, n)
	}
	return out, nil
}
