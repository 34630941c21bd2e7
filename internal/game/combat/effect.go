package combat

import (
	"fmt"
	"slices"
	"strings"
)

// MetaEffect is a named side effect carried by an Effect and executed when the
// Effect is applied. Apply may be nil for purely descriptive entries.
type MetaEffect struct {
	Name string
	// Apply mutates target and returns a narration line, or "" for none.
	Apply func(target *Character) string
}

// Effect is the deferred result of invoking a skill: nothing changes on the
// target until the Effect is applied. Effects are values; passive skills
// transform copies of them.
type Effect struct {
	// Source is the skill that produced the effect.
	Source Skill
	// HPDamage is subtracted from the target's hp. Negative values heal.
	HPDamage int
	// MPDamage is subtracted from the target's mp. Negative values restore.
	MPDamage int
	// Missed is true when the hit roll failed.
	Missed bool
	// Critical is true when the crit roll doubled the damage.
	Critical bool
	// Meta holds named side effects executed in order on application.
	Meta []MetaEffect
}

// WithMeta returns a copy of e with m appended. The receiver's Meta slice is never aliased.
func (e Effect) WithMeta(m MetaEffect) Effect {
	e.Meta = append(slices.Clip(e.Meta), m)
	return e
}

// MetaNames returns the names of e's meta effects in order.
func (e Effect) MetaNames() []string {
	names := make([]string, len(e.Meta))
	for i, m := range e.Meta {
		names[i] = m.Name
	}
	return names
}

// describe renders the one-line narration of e landing on target, after application.
func (e Effect) describe(target *Character) string {
	var b strings.Builder
	if e.Source != nil {
		fmt.Fprintf(&b, "%s [%s] >>> ", ownerName(e.Source), e.Source.Definition().Name)
	}
	b.WriteString(target.Name)
	if e.Missed {
		fmt.Fprintf(&b, " [MISS] (%d)", target.hp)
		return b.String()
	}
	fmt.Fprintf(&b, " %d (%d)", -e.HPDamage, target.hp)
	if e.Critical {
		b.WriteString(" [CRIT]")
	}
	if e.MPDamage != 0 {
		fmt.Fprintf(&b, " MP %d (%d)", -e.MPDamage, target.mp)
	}
	return b.String()
}

func ownerName(s Skill) string {
	if o := s.Owner(); o != nil {
		return o.Name
	}
	return "?"
}
