package combat

import "slices"

// Team is an ordered group of characters used to tell friend from foe.
// It references its members but does not own them.
type Team struct {
	// Index is the team's position in its Game.
	Index   int
	members []*Character
}

// Add appends c to the team unless it is already a member.
//
// Postcondition: Contains(c) is true; member order is insertion order.
func (t *Team) Add(c *Character) {
	if t.Contains(c) {
		return
	}
	t.members = append(t.members, c)
}

// Remove deletes c from the team.
//
// Postcondition: Contains(c) is false. Returns whether c was a member.
func (t *Team) Remove(c *Character) bool {
	i := slices.Index(t.members, c)
	if i < 0 {
		return false
	}
	t.members = slices.Delete(t.members, i, i+1)
	return true
}

// Contains reports whether c is a member.
func (t *Team) Contains(c *Character) bool { return slices.Contains(t.members, c) }

// Members returns a copy of the members in insertion order.
func (t *Team) Members() []*Character { return slices.Clone(t.members) }

// Len returns the number of members.
func (t *Team) Len() int { return len(t.members) }
