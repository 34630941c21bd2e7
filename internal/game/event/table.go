package event

// Reaction is a callback invoked with the event that triggered it.
type Reaction func(Event)

// Table maps event kinds to ordered reaction lists.
// It is not safe for concurrent use; the caller must serialise access.
type Table struct {
	reactions map[Kind][]Reaction
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{reactions: make(map[Kind][]Reaction)}
}

// On appends r to the reactions for kind k.
//
// Precondition: r must be non-nil; k must not be KindUnknown.
// Postcondition: r runs after every reaction previously registered for k.
func (t *Table) On(k Kind, r Reaction) {
	if r == nil {
		panic("event: Table.On called with nil reaction")
	}
	if k == KindUnknown {
		panic("event: Table.On called with KindUnknown")
	}
	t.reactions[k] = append(t.reactions[k], r)
}

// Handle invokes every reaction registered for ev.Kind() in registration order.
// Events with no registered reactions are ignored.
//
// Postcondition: Returns the number of reactions invoked.
func (t *Table) Handle(ev Event) int {
	// Reactions registered while dispatching do not run for this event.
	rs := t.reactions[ev.Kind()]
	n := len(rs)
	for i := 0; i < n; i++ {
		rs[i](ev)
	}
	return n
}

// Len returns the number of reactions registered for k.
func (t *Table) Len(k Kind) int {
	return len(t.reactions[k])
}
