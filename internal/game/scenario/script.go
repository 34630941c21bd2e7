package scenario

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

type order struct {
	character *combat.Character
	movement  grid.Movement
}

// Script holds the scripted movement orders of a populated scenario, by round.
type Script struct {
	rounds map[int][]order
	last   int
}

func newScript() *Script {
	return &Script{rounds: make(map[int][]order)}
}

func (s *Script) add(round int, c *combat.Character, mv grid.Movement) {
	s.rounds[round] = append(s.rounds[round], order{character: c, movement: mv})
	s.last = max(s.last, round)
}

// LastRound returns the highest round with an order, or 0.
func (s *Script) LastRound() int { return s.last }

// Apply gives every live character its movement for round. Orders for faded
// characters are dropped silently.
//
// Postcondition: Returns one error per order the character rejected; the
// remaining orders are still applied.
func (s *Script) Apply(round int) []error {
	var errs []error
	for _, o := range s.rounds[round] {
		if !o.character.Alive() {
			continue
		}
		if err := o.character.SetMovementSelection(o.movement.Direction, o.movement.Distance); err != nil {
			errs = append(errs, fmt.Errorf("round %d: %w", round, err))
		}
	}
	return errs
}
