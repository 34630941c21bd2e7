// Package grid implements the fixed-size battle map: occupant positions,
// cell-by-cell movement with collision detection, Manhattan-distance
// targeting and a glyph snapshot for renderers.
package grid

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLocationConflict is returned when registering onto an occupied cell.
	ErrLocationConflict = errors.New("location conflict")
	// ErrNoTargetFound is returned when an occupant has no opponents left.
	ErrNoTargetFound = errors.New("no target found")
	// ErrOutOfBounds is returned for coordinates outside the grid.
	ErrOutOfBounds = errors.New("out of bounds")
	// ErrNotRegistered is returned for occupants the map does not track.
	ErrNotRegistered = errors.New("occupant not registered")
	// ErrAlreadyRegistered is returned when an occupant is registered twice.
	ErrAlreadyRegistered = errors.New("occupant already registered")
)

// EmptyGlyph is rendered for cells with no occupant.
const EmptyGlyph = '□'

// Occupant is anything that can stand on a cell. The map holds occupants by
// reference and never owns them; implementations must be comparable (pointers).
type Occupant interface {
	Glyph() rune
}

// Teams enumerates the opponents of an occupant.
type Teams interface {
	// Opponents returns every occupant on a team other than o's, in team order
	// and then member order.
	Opponents(o Occupant) []Occupant
}

// Point is a cell coordinate.
type Point struct {
	X int
	Y int
}

// String renders the point as "(x,y)".
func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Manhattan returns |p.X-q.X| + |p.Y-q.Y|.
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Map is a rows x cols grid holding at most one occupant per cell.
//
// Invariant: for every tracked occupant o, cells[index[o].Y][index[o].X] == o,
// and every non-nil cell is tracked at its own coordinate.
// It is not safe for concurrent use; the caller must serialise access.
type Map struct {
	rows  int
	cols  int
	cells [][]Occupant
	index map[Occupant]Point
	teams Teams
}

// New creates an empty Map.
//
// Precondition: rows >= 1, cols >= 1; teams must be non-nil.
// Postcondition: Returns an empty Map or an error for invalid dimensions.
func New(rows, cols int, teams Teams) (*Map, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("grid: dimensions must be positive, got %dx%d", rows, cols)
	}
	if teams == nil {
		return nil, errors.New("grid: teams must not be nil")
	}
	cells := make([][]Occupant, rows)
	for y := range cells {
		cells[y] = make([]Occupant, cols)
	}
	return &Map{
		rows:  rows,
		cols:  cols,
		cells: cells,
		index: make(map[Occupant]Point),
		teams: teams,
	}, nil
}

// Rows returns the number of rows (y extent).
func (m *Map) Rows() int { return m.rows }

// Cols returns the number of columns (x extent).
func (m *Map) Cols() int { return m.cols }

// Len returns the number of tracked occupants.
func (m *Map) Len() int { return len(m.index) }

// InBounds reports whether (x, y) lies inside the grid.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.cols && y >= 0 && y < m.rows
}

// Register places o at (x, y).
//
// Precondition: o must be non-nil.
// Postcondition: On success Position(o) == (x, y). Returns ErrOutOfBounds,
// ErrAlreadyRegistered or ErrLocationConflict otherwise and leaves the map unchanged.
func (m *Map) Register(o Occupant, x, y int) error {
	if !m.InBounds(x, y) {
		return fmt.Errorf("registering at (%d,%d) on %dx%d grid: %w", x, y, m.cols, m.rows, ErrOutOfBounds)
	}
	if at, ok := m.index[o]; ok {
		return fmt.Errorf("registering at (%d,%d), already at %s: %w", x, y, at, ErrAlreadyRegistered)
	}
	if m.cells[y][x] != nil {
		return fmt.Errorf("registering at (%d,%d): %w", x, y, ErrLocationConflict)
	}
	m.cells[y][x] = o
	m.index[o] = Point{X: x, Y: y}
	return nil
}

// Remove stops tracking o and clears its cell. Untracked occupants are ignored.
//
// Postcondition: Position(o) reports false.
func (m *Map) Remove(o Occupant) {
	p, ok := m.index[o]
	if !ok {
		return
	}
	m.mustHold(o, p)
	m.cells[p.Y][p.X] = nil
	delete(m.index, o)
}

// Position returns o's current coordinate.
func (m *Map) Position(o Occupant) (Point, bool) {
	p, ok := m.index[o]
	return p, ok
}

// At returns the occupant of (x, y), or nil when empty or out of bounds.
func (m *Map) At(x, y int) Occupant {
	if !m.InBounds(x, y) {
		return nil
	}
	return m.cells[y][x]
}

// Distance returns the Manhattan distance between two tracked occupants.
//
// Precondition: both occupants must be tracked; panics otherwise.
func (m *Map) Distance(a, b Occupant) int {
	return m.mustPosition(a).Manhattan(m.mustPosition(b))
}

// Adjacent reports whether a and b are tracked and orthogonally next to each other.
func (m *Map) Adjacent(a, b Occupant) bool {
	pa, okA := m.index[a]
	pb, okB := m.index[b]
	return okA && okB && pa.Manhattan(pb) == 1
}

// FindNearestEnemy returns the opponent of o with the smallest Manhattan distance.
// Ties go to the first opponent in team-then-member order.
//
// Precondition: o must be tracked.
// Postcondition: Returns a tracked opponent, or ErrNoTargetFound when o has none.
func (m *Map) FindNearestEnemy(o Occupant) (Occupant, error) {
	from, ok := m.index[o]
	if !ok {
		return nil, fmt.Errorf("finding nearest enemy: %w", ErrNotRegistered)
	}
	var target Occupant
	best := 0
	for _, enemy := range m.teams.Opponents(o) {
		d := from.Manhattan(m.mustPosition(enemy))
		if target == nil || d < best {
			target, best = enemy, d
		}
	}
	if target == nil {
		return nil, ErrNoTargetFound
	}
	return target, nil
}

// clamp pulls p onto the nearest in-bounds cell.
func (m *Map) clamp(p Point) Point {
	p.X = min(max(p.X, 0), m.cols-1)
	p.Y = min(max(p.Y, 0), m.rows-1)
	return p
}

// Move walks o up to mv.Distance cells towards mv.Direction.
//
// Each step is clamped to the grid, so a walk towards an edge ends on the last
// in-bounds cell. When a step would enter an occupied cell the walk stops on
// the previous cell and the occupant is returned; the occupied cell is never
// entered.
//
// Precondition: o must be tracked; mv.Direction must be valid unless mv.Distance <= 0.
// Postcondition: Position(o) is the final resting cell; the origin cell is cleared
// when o moved. Returns the occupant hit, or nil.
func (m *Map) Move(o Occupant, mv Movement) (Occupant, error) {
	origin, ok := m.index[o]
	if !ok {
		return nil, fmt.Errorf("moving: %w", ErrNotRegistered)
	}
	m.mustHold(o, origin)
	if mv.Distance <= 0 {
		return nil, nil
	}
	if !mv.Direction.Valid() {
		return nil, fmt.Errorf("grid: invalid direction %d", mv.Direction)
	}

	dx, dy := mv.Direction.delta()
	final := origin
	var hit Occupant
	for i := 1; i <= mv.Distance; i++ {
		step := m.clamp(Point{X: origin.X + dx*i, Y: origin.Y + dy*i})
		if step == final {
			// Pinned against the edge; the remaining steps land on the same cell.
			break
		}
		if occ := m.cells[step.Y][step.X]; occ != nil {
			hit = occ
			break
		}
		final = step
	}

	m.cells[origin.Y][origin.X] = nil
	m.cells[final.Y][final.X] = o
	m.index[o] = final
	return hit, nil
}

// Render returns a rows x cols snapshot of occupant glyphs, EmptyGlyph for empty cells.
//
// Postcondition: The result shares no memory with the map.
func (m *Map) Render() [][]rune {
	out := make([][]rune, m.rows)
	for y, row := range m.cells {
		out[y] = make([]rune, m.cols)
		for x, occ := range row {
			if occ == nil {
				out[y][x] = EmptyGlyph
				continue
			}
			out[y][x] = occ.Glyph()
		}
	}
	return out
}

// String renders the map one row per line.
func (m *Map) String() string {
	rows := m.Render()
	lines := make([]string, len(rows))
	for y, row := range rows {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

func (m *Map) mustPosition(o Occupant) Point {
	p, ok := m.index[o]
	if !ok {
		panic(fmt.Sprintf("grid: occupant %q is not on the map", string(o.Glyph())))
	}
	return p
}

func (m *Map) mustHold(o Occupant, p Point) {
	if m.cells[p.Y][p.X] != o {
		panic(fmt.Sprintf("grid: index places %q at %s but the cell disagrees", string(o.Glyph()), p))
	}
}
