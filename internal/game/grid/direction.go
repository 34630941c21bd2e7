package grid

import (
	"fmt"
	"strings"
)

// Direction is one of the four grid headings. Going right increases x and
// going down increases y.
// The zero value (DirectionNone) is intentionally invalid.
type Direction int

const (
	DirectionNone Direction = iota
	Up
	Right
	Down
	Left
)

var directionAliases = map[string]Direction{
	"up": Up, "u": Up, "north": Up, "n": Up,
	"right": Right, "r": Right, "east": Right, "e": Right,
	"down": Down, "d": Down, "south": Down, "s": Down,
	"left": Left, "l": Left, "west": Left, "w": Left,
}

// ParseDirection converts a case-insensitive direction name or alias into a Direction.
//
// Postcondition: Returns a valid Direction or an error naming the input.
func ParseDirection(s string) (Direction, error) {
	if d, ok := directionAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return DirectionNone, fmt.Errorf("grid: unknown direction %q", s)
}

// String returns the lower-case direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "none"
	}
}

// Valid reports whether d is one of Up, Right, Down, Left.
func (d Direction) Valid() bool { return d >= Up && d <= Left }

// delta returns the unit step for d.
func (d Direction) delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	default:
		return 0, 0
	}
}

// Movement is a movement instruction: walk Distance cells towards Direction.
type Movement struct {
	Direction Direction
	Distance  int
}

// String renders the movement as "right 3".
func (m Movement) String() string {
	return fmt.Sprintf("%s %d", m.Direction, m.Distance)
}
