package combat

import (
	"fmt"
	"math"
)

// PassiveSkill transforms an incoming Effect before it is applied to its owner.
// A transform may change damage, mp damage and meta effects arbitrarily,
// including cancelling the effect entirely.
type PassiveSkill interface {
	Name() string
	Transform(e Effect) Effect
}

// PassiveFunc adapts a plain function into a PassiveSkill.
type PassiveFunc struct {
	Label string
	Fn    func(Effect) Effect
}

// Name returns the label.
func (p PassiveFunc) Name() string { return p.Label }

// Transform calls Fn.
func (p PassiveFunc) Transform(e Effect) Effect { return p.Fn(e) }

// Guard scales incoming hp damage by Factor (0.5 halves it). Misses and healing pass through.
type Guard struct {
	Factor float64
}

// Name returns "Guard".
func (g Guard) Name() string { return "Guard" }

// Transform scales positive hp damage, rounding to the nearest integer.
func (g Guard) Transform(e Effect) Effect {
	if e.Missed || e.HPDamage <= 0 {
		return e
	}
	blocked := e.HPDamage - int(math.Round(float64(e.HPDamage)*g.Factor))
	e.HPDamage -= blocked
	return e.WithMeta(MetaEffect{
		Name: "guard",
		Apply: func(target *Character) string {
			return fmt.Sprintf("%s [Guard] blocked %d", target.Name, blocked)
		},
	})
}

// Nullify cancels any effect: no damage, no mp change, no meta effects.
type Nullify struct{}

// Name returns "Nullify".
func (Nullify) Name() string { return "Nullify" }

// Transform returns an empty effect that keeps only its source.
func (Nullify) Transform(e Effect) Effect {
	return Effect{Source: e.Source, Missed: e.Missed}
}
