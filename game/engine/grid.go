package engine

import (
	"fmt"
	"log"
)

// Grid is a sparse N×N container of tiles backed by a dense slice indexed
// y*size+x. A nil slot means no tile. The grid caches the positions of the
// unique power source and terminal, and owns the snapshot used by Reset.
//
// A Grid belongs to exactly one play session and performs no locking; all
// operations run synchronously in the caller's frame.
type Grid struct {
	size  int
	tiles []*Tile

	powerSourcePos *Position
	terminalPos    *Position

	// Value copies of every tile at save time, never aliased by live tiles
	snapshot []*Tile
}

// NewGrid creates an empty grid. Size below MinGridSize is a construction
// error and should abort level start.
func NewGrid(size int) (*Grid, error) {
	if size < MinGridSize {
		return nil, fmt.Errorf("grid size must be at least %d, got %d", MinGridSize, size)
	}
	if size > MaxGridSize {
		return nil, fmt.Errorf("grid size must be at most %d, got %d", MaxGridSize, size)
	}

	return &Grid{
		size:  size,
		tiles: make([]*Tile, size*size),
	}, nil
}

// Size returns the grid dimension N
func (g *Grid) Size() int {
	return g.size
}

// InBounds reports whether (x, y) lies inside the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.size && y >= 0 && y < g.size
}

func (g *Grid) index(x, y int) int {
	return y*g.size + x
}

// GetTile returns the tile at (x, y), or nil when the slot is empty. Out of
// range coordinates return nil with a warning; an unfinished board is a
// normal state, not a defect.
func (g *Grid) GetTile(x, y int) *Tile {
	if !g.InBounds(x, y) {
		log.Printf("grid: get tile at invalid coordinates (%d,%d)", x, y)
		return nil
	}
	return g.tiles[g.index(x, y)]
}

// SetTile places a tile at (x, y), re-stamping the tile's own coordinates to
// the slot so the slot index and the tile-held position can never diverge.
// Placing a power source or terminal updates the cached special position;
// the last write wins. Returns false for out-of-range coordinates.
func (g *Grid) SetTile(x, y int, tile *Tile) bool {
	if !g.InBounds(x, y) {
		log.Printf("grid: cannot set tile at invalid coordinates (%d,%d)", x, y)
		return false
	}
	if tile == nil {
		log.Printf("grid: cannot set nil tile at (%d,%d)", x, y)
		return false
	}

	tile.X = x
	tile.Y = y

	switch tile.Type {
	case PowerSource:
		g.powerSourcePos = &Position{X: x, Y: y}
	case Terminal:
		g.terminalPos = &Position{X: x, Y: y}
	}

	g.tiles[g.index(x, y)] = tile
	return true
}

// RotateTile rotates the tile at (x, y) clockwise. Returns false when there
// is no tile there or the tile is fixed.
func (g *Grid) RotateTile(x, y int) bool {
	tile := g.GetTile(x, y)
	if tile == nil {
		log.Printf("grid: cannot rotate, no tile at (%d,%d)", x, y)
		return false
	}
	if !tile.IsRotatable() {
		return false
	}

	tile.RotateClockwise()
	return true
}

// PowerSource returns the power source tile, or nil if none is placed
func (g *Grid) PowerSource() *Tile {
	if g.powerSourcePos == nil {
		return nil
	}
	return g.tiles[g.index(g.powerSourcePos.X, g.powerSourcePos.Y)]
}

// Terminal returns the terminal tile, or nil if none is placed
func (g *Grid) Terminal() *Tile {
	if g.terminalPos == nil {
		return nil
	}
	return g.tiles[g.index(g.terminalPos.X, g.terminalPos.Y)]
}

// AllTiles returns every placed tile in row-major order
func (g *Grid) AllTiles() []*Tile {
	tiles := make([]*Tile, 0, g.TileCount())
	for _, tile := range g.tiles {
		if tile != nil {
			tiles = append(tiles, tile)
		}
	}
	return tiles
}

// TileCount returns the number of placed tiles
func (g *Grid) TileCount() int {
	count := 0
	for _, tile := range g.tiles {
		if tile != nil {
			count++
		}
	}
	return count
}

// IsPositionEmpty reports whether (x, y) is in bounds and has no tile
func (g *Grid) IsPositionEmpty(x, y int) bool {
	return g.InBounds(x, y) && g.tiles[g.index(x, y)] == nil
}

// SaveInitialState snapshots the current board as the reset baseline. Call
// it exactly once, after the level's starting configuration (including any
// scramble) is fully assembled; calling again overwrites the snapshot.
func (g *Grid) SaveInitialState() {
	g.snapshot = make([]*Tile, len(g.tiles))
	for i, tile := range g.tiles {
		if tile != nil {
			g.snapshot[i] = tile.Clone()
		}
	}
}

// Reset discards the live board and repopulates it from fresh copies of the
// snapshot. The snapshot tiles themselves are never handed out, so play
// after a reset cannot corrupt the baseline. Without a snapshot this is a
// warned no-op; duplicate reset clicks from the UI are expected.
func (g *Grid) Reset() {
	if g.snapshot == nil {
		log.Printf("grid: cannot reset, no initial state saved")
		return
	}

	g.tiles = make([]*Tile, len(g.snapshot))
	for i, tile := range g.snapshot {
		if tile != nil {
			g.tiles[i] = tile.Clone()
		}
	}
}

// Clear empties the live board, the snapshot and the special-position caches
func (g *Grid) Clear() {
	g.tiles = make([]*Tile, g.size*g.size)
	g.snapshot = nil
	g.powerSourcePos = nil
	g.terminalPos = nil
}

// HasSnapshot reports whether SaveInitialState has been called
func (g *Grid) HasSnapshot() bool {
	return g.snapshot != nil
}

// String returns a compact description of the grid
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, %d tiles)", g.size, g.size, g.TileCount())
}
