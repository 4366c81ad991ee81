package engine

import "fmt"

// Direction represents a cardinal direction on the board
type Direction int

// Directions in clockwise order; rotation math relies on this ordering
const (
	North Direction = iota
	East
	South
	West
)

// AllDirections returns all valid directions for iteration
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}

// String returns the string representation of a direction
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// IsValid returns true if the direction is a valid cardinal direction
func (d Direction) IsValid() bool {
	return d >= North && d <= West
}

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return d
	}
}

// Delta returns the x and y offsets for this direction.
// X grows eastward, y grows southward.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// RotatedBy returns the direction rotated clockwise by the given angle.
// The angle must be a non-negative multiple of 90 degrees.
func (d Direction) RotatedBy(angle int) Direction {
	steps := (angle / QuarterTurn) % 4
	if steps < 0 {
		steps += 4
	}
	return Direction((int(d) + steps) % 4)
}

// TileType represents different kinds of circuit tiles
type TileType string

const (
	Empty       TileType = "empty"
	PowerSource TileType = "power_source"
	Terminal    TileType = "terminal"
	Straight    TileType = "straight"
	Corner      TileType = "corner"
)

// Validation constants
const (
	MinGridSize = 2
	MaxGridSize = 50
	QuarterTurn = 90
	FullTurn    = 360
)

// IsRotatable reports whether tiles of this type respond to rotate calls.
// Power sources and terminals are fixed anchors; empty tiles have nothing
// to rotate.
func (t TileType) IsRotatable() bool {
	switch t {
	case Straight, Corner:
		return true
	default:
		return false
	}
}

// HasCircuit reports whether tiles of this type carry any circuit segment
func (t TileType) HasCircuit() bool {
	return t != Empty
}

// IsValid reports whether t is one of the known tile types
func (t TileType) IsValid() bool {
	switch t {
	case Empty, PowerSource, Terminal, Straight, Corner:
		return true
	default:
		return false
	}
}

// ParseTileType converts a string into a TileType
func ParseTileType(s string) (TileType, error) {
	t := TileType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid tile type: %q", s)
	}
	return t, nil
}

// Position represents x,y coordinates on the grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Neighbor returns the position one step away in the given direction
func (p Position) Neighbor(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// RotationHistoryEntry represents a single rotate call in a play session
type RotationHistoryEntry struct {
	Position     Position `json:"position"`
	FromRotation int      `json:"from_rotation"`
	ToRotation   int      `json:"to_rotation"`
	Timestamp    int64    `json:"timestamp"`
	Success      bool     `json:"success"`
	MoveNumber   int      `json:"move_number"`
}
