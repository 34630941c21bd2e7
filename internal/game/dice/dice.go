// Package dice provides the randomness abstraction used by skill resolution:
// uniform draws in [0, 1) for hit, crit and damage-variance rolls.
package dice

// Source is the randomness provider for skill rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Float64 returns a uniform random value in [0, 1).
	Float64() float64
}

// Chance draws once from src and reports whether the draw falls below rate.
//
// Precondition: src must be non-nil.
// Postcondition: rate <= 0 always returns false; rate >= 1 always returns true.
// Exactly one value is drawn from src regardless of rate.
func Chance(src Source, rate float64) bool {
	return src.Float64() < rate
}

// Spread draws once from src and returns a multiplier uniformly distributed in
// [1-variance, 1+variance).
//
// Precondition: src must be non-nil; variance >= 0.
// Postcondition: variance == 0 returns exactly 1. Exactly one value is drawn.
func Spread(src Source, variance float64) float64 {
	u := src.Float64()
	return 1 + (u*2-1)*variance
}
