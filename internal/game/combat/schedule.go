package combat

import (
	"fmt"
	"slices"
)

// PassiveSchedule holds passive skills bucketed by how many rounds from now
// they are active: bucket 0 is the current round.
//
// Invariant: len(buckets) >= 1.
// It is not safe for concurrent use; the caller must serialise access.
type PassiveSchedule struct {
	buckets [][]PassiveSkill
}

// NewPassiveSchedule creates a schedule with a single empty bucket.
func NewPassiveSchedule() *PassiveSchedule {
	return &PassiveSchedule{buckets: make([][]PassiveSkill, 1)}
}

// Schedule activates p in each of the given rounds, counted from the current round (0).
// Duplicate rounds add p to that bucket more than once.
//
// Precondition: p must be non-nil; every round must be >= 0.
// Postcondition: Len() > max(rounds); p is appended to bucket r for every r in rounds.
// On error the schedule is unchanged.
func (s *PassiveSchedule) Schedule(p PassiveSkill, rounds ...int) error {
	if p == nil {
		return fmt.Errorf("scheduling passive: nil passive skill")
	}
	if len(rounds) == 0 {
		return nil
	}
	for _, r := range rounds {
		if r < 0 {
			return fmt.Errorf("scheduling %s: round offset must be >= 0, got %d", p.Name(), r)
		}
	}
	for need := slices.Max(rounds) + 1; len(s.buckets) < need; {
		s.buckets = append(s.buckets, nil)
	}
	for _, r := range rounds {
		s.buckets[r] = append(s.buckets[r], p)
	}
	return nil
}

// Advance discards the current round's bucket and shifts the rest down by one.
//
// Postcondition: Len() >= 1; never fails.
func (s *PassiveSchedule) Advance() {
	s.buckets = s.buckets[1:]
	if len(s.buckets) == 0 {
		s.buckets = make([][]PassiveSkill, 1)
	}
}

// Active returns a copy of the passive skills active this round, in scheduling order.
func (s *PassiveSchedule) Active() []PassiveSkill {
	return slices.Clone(s.buckets[0])
}

// Len returns the number of buckets.
func (s *PassiveSchedule) Len() int { return len(s.buckets) }
