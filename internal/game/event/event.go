// Package event defines the shared vocabulary of game event kinds and the
// per-character reaction table that dispatches events to callbacks.
package event

// Kind identifies the type of an event and is the dispatch key of a Table.
// The zero value (KindUnknown) is intentionally invalid.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindNewRound fires on a character at the start of its movement turn.
	KindNewRound
	// KindMovementFinish fires on a character after its movement resolved.
	KindMovementFinish
	// KindMovementHit fires on a mover that collided with an occupant.
	KindMovementHit
	// KindMovementHitBy fires on the occupant a mover collided with.
	KindMovementHitBy
	// KindSkillHit fires on the target of a skill.
	KindSkillHit
	// KindRoundFinish fires on an actor after its skill action.
	KindRoundFinish
	// KindGameRoundFinish fires on every surviving character at the end of a round.
	KindGameRoundFinish
	// KindCharacterFade fires on a character whose hp dropped to zero, before removal.
	KindCharacterFade
)

var kindNames = map[Kind]string{
	KindNewRound:        "new_round",
	KindMovementFinish:  "movement_finish",
	KindMovementHit:     "movement_hit",
	KindMovementHitBy:   "movement_hit_by",
	KindSkillHit:        "skill_hit",
	KindRoundFinish:     "round_finish",
	KindGameRoundFinish: "game_round_finish",
	KindCharacterFade:   "character_fade",
}

// String returns the snake_case name of the kind, or "unknown".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is a transient tagged value delivered to a Table.
type Event interface {
	Kind() Kind
}

// Signal is a payload-free Event carrying only its kind.
type Signal Kind

// Kind returns the signal's kind.
func (s Signal) Kind() Kind { return Kind(s) }

// Signals with no payload, shared by all characters.
const (
	NewRound        = Signal(KindNewRound)
	MovementFinish  = Signal(KindMovementFinish)
	RoundFinish     = Signal(KindRoundFinish)
	GameRoundFinish = Signal(KindGameRoundFinish)
)
