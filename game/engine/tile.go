package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidRotation is returned when a rotation angle does not normalize to
// one of the four canonical values.
var ErrInvalidRotation = errors.New("rotation must be 0, 90, 180 or 270")

// Tile represents a single cell on the circuit board. Rotation is always one
// of 0, 90, 180 or 270; exit directions are derived from type and rotation,
// never stored.
type Tile struct {
	X           int      `json:"x"`
	Y           int      `json:"y"`
	Type        TileType `json:"type"`
	Rotation    int      `json:"rotation"`
	IsClickable bool     `json:"is_clickable,omitempty"`
}

// NewTile creates a tile at the given position. The rotation is normalized
// mod 360 and must land on a quarter turn.
func NewTile(x, y int, tileType TileType, rotation int) (*Tile, error) {
	rotation = normalizeAngle(rotation)
	if !isCanonicalRotation(rotation) {
		return nil, fmt.Errorf("tile (%d,%d): %w: got %d", x, y, ErrInvalidRotation, rotation)
	}
	if !tileType.IsValid() {
		return nil, fmt.Errorf("tile (%d,%d): invalid tile type %q", x, y, tileType)
	}

	return &Tile{X: x, Y: y, Type: tileType, Rotation: rotation}, nil
}

// normalizeAngle maps any angle into [0, 360)
func normalizeAngle(angle int) int {
	angle %= FullTurn
	if angle < 0 {
		angle += FullTurn
	}
	return angle
}

func isCanonicalRotation(angle int) bool {
	return angle == 0 || angle == 90 || angle == 180 || angle == 270
}

// IsRotatable reports whether this tile responds to rotate calls
func (t *Tile) IsRotatable() bool {
	return t.Type.IsRotatable()
}

// RotateClockwise turns the tile 90 degrees clockwise. Fixed tiles ignore
// the call; that is a normal interaction, not an error.
func (t *Tile) RotateClockwise() {
	if t.IsRotatable() {
		t.Rotation = normalizeAngle(t.Rotation + QuarterTurn)
	}
}

// RotateCounterClockwise turns the tile 90 degrees counter-clockwise
func (t *Tile) RotateCounterClockwise() {
	if t.IsRotatable() {
		t.Rotation = normalizeAngle(t.Rotation - QuarterTurn)
	}
}

// SetRotation sets the rotation to an explicit angle. The angle is
// normalized mod 360 first; a value off the quarter-turn lattice is an
// error. Setting a valid angle on a fixed tile is a silent no-op.
func (t *Tile) SetRotation(angle int) error {
	angle = normalizeAngle(angle)
	if !isCanonicalRotation(angle) {
		return fmt.Errorf("%w: got %d", ErrInvalidRotation, angle)
	}

	if t.IsRotatable() {
		t.Rotation = angle
	}
	return nil
}

// baseExitDirections returns the exit ports at rotation 0:
//
//	Empty        none
//	PowerSource  east
//	Terminal     west
//	Straight     east-west (horizontal bar)
//	Corner       north-east (L opening up-right)
func (t *Tile) baseExitDirections() []Direction {
	switch t.Type {
	case PowerSource:
		return []Direction{East}
	case Terminal:
		return []Direction{West}
	case Straight:
		return []Direction{East, West}
	case Corner:
		return []Direction{North, East}
	default:
		return nil
	}
}

// ExitDirections returns the directions this tile emits current toward at
// its current rotation.
func (t *Tile) ExitDirections() []Direction {
	base := t.baseExitDirections()
	if len(base) == 0 || t.Rotation == 0 {
		return base
	}

	exits := make([]Direction, len(base))
	for i, d := range base {
		exits[i] = d.RotatedBy(t.Rotation)
	}
	return exits
}

// HasEntranceFrom reports whether a neighbor feeding current from the given
// direction finds a matching port on this tile. An entrance is an exit in
// the opposite direction.
func (t *Tile) HasEntranceFrom(d Direction) bool {
	opposite := d.Opposite()
	for _, exit := range t.ExitDirections() {
		if exit == opposite {
			return true
		}
	}
	return false
}

// NeighborPosition returns the coordinates one step away in the given
// direction. No bounds checking; the caller owns that.
func (t *Tile) NeighborPosition(d Direction) Position {
	return Position{X: t.X, Y: t.Y}.Neighbor(d)
}

// Pos returns the tile's position
func (t *Tile) Pos() Position {
	return Position{X: t.X, Y: t.Y}
}

// Clone returns an independent copy of the tile
func (t *Tile) Clone() *Tile {
	c := *t
	return &c
}

// String returns a compact human-readable representation
func (t *Tile) String() string {
	return fmt.Sprintf("Tile(%d,%d %s %d°)", t.X, t.Y, t.Type, t.Rotation)
}
