package combat

import "github.com/cory-johannsen/skirmish/internal/game/event"

// SkillHit is delivered to Target when Skill is used on it.
type SkillHit struct {
	Skill  Skill
	Target *Character
	Args   []string
}

// Kind returns event.KindSkillHit.
func (SkillHit) Kind() event.Kind { return event.KindSkillHit }

// MovementHit is delivered to Source after it ran into Target while moving.
type MovementHit struct {
	Source *Character
	Target *Character
}

// Kind returns event.KindMovementHit.
func (MovementHit) Kind() event.Kind { return event.KindMovementHit }

// MovementHitBy is delivered to Target after Source ran into it.
type MovementHitBy struct {
	Source *Character
	Target *Character
}

// Kind returns event.KindMovementHitBy.
func (MovementHitBy) Kind() event.Kind { return event.KindMovementHitBy }

// CharacterFade is delivered to a character whose hp reached zero, just before removal.
type CharacterFade struct {
	Character *Character
}

// Kind returns event.KindCharacterFade.
func (CharacterFade) Kind() event.Kind { return event.KindCharacterFade }
