package engine

import (
	"log"

	"github.com/zyedidia/generic/mapset"
)

// ConnectivityChecker answers reachability, path and live-current queries
// over a grid using breadth-first search on tile ports. Every call
// recomputes from scratch: rotations are infrequent user actions, and with
// at most two exits per tile the work is bounded by the number of placed
// tiles, so correctness-by-recomputation beats incremental bookkeeping.
//
// The checker holds no state and is safe to share.
type ConnectivityChecker struct{}

// NewConnectivityChecker creates a connectivity checker
func NewConnectivityChecker() *ConnectivityChecker {
	return &ConnectivityChecker{}
}

// CheckConnectivity reports whether current flows from the power source to
// the terminal.
func (c *ConnectivityChecker) CheckConnectivity(grid *Grid) bool {
	return c.FindPath(grid) != nil
}

// FindPath returns the positions of a shortest port-compatible path from
// the power source to the terminal, or nil when the circuit is open. The
// first element is the power source, the last the terminal.
func (c *ConnectivityChecker) FindPath(grid *Grid) []Position {
	source := grid.PowerSource()
	terminal := grid.Terminal()

	if source == nil {
		log.Printf("connectivity: no power source in grid")
		return nil
	}
	if terminal == nil {
		log.Printf("connectivity: no terminal in grid")
		return nil
	}

	start := source.Pos()
	goal := terminal.Pos()

	queue := []*Tile{source}
	visited := mapset.New[Position]()
	visited.Put(start)
	parent := map[Position]Position{}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.Pos() == goal {
			return reconstructPath(parent, start, goal)
		}

		for _, exit := range current.ExitDirections() {
			neighborPos := current.NeighborPosition(exit)
			if !grid.InBounds(neighborPos.X, neighborPos.Y) {
				continue
			}

			neighbor := grid.GetTile(neighborPos.X, neighborPos.Y)
			if neighbor == nil || visited.Has(neighborPos) {
				continue
			}
			if !neighbor.HasEntranceFrom(exit) {
				continue
			}

			visited.Put(neighborPos)
			parent[neighborPos] = current.Pos()
			queue = append(queue, neighbor)
		}
	}

	return nil
}

// reconstructPath walks parent pointers from the goal back to the start and
// reverses the result.
func reconstructPath(parent map[Position]Position, start, goal Position) []Position {
	path := []Position{goal}
	for pos := goal; pos != start; {
		pos = parent[pos]
		path = append(path, pos)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// ConnectedTiles returns every tile reachable from the power source. Unlike
// FindPath it never stops early at the terminal: the live-current feed shows
// the whole energized subgraph, solved or not. With no power source the set
// is empty.
func (c *ConnectivityChecker) ConnectedTiles(grid *Grid) []*Tile {
	source := grid.PowerSource()
	if source == nil {
		log.Printf("connectivity: no power source in grid")
		return nil
	}

	queue := []*Tile{source}
	visited := mapset.New[Position]()
	visited.Put(source.Pos())
	connected := []*Tile{source}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, exit := range current.ExitDirections() {
			neighborPos := current.NeighborPosition(exit)
			if !grid.InBounds(neighborPos.X, neighborPos.Y) {
				continue
			}

			neighbor := grid.GetTile(neighborPos.X, neighborPos.Y)
			if neighbor == nil || visited.Has(neighborPos) {
				continue
			}
			if !neighbor.HasEntranceFrom(exit) {
				continue
			}

			visited.Put(neighborPos)
			connected = append(connected, neighbor)
			queue = append(queue, neighbor)
		}
	}

	return connected
}

// ConnectedPositions returns the positions of all tiles reachable from the
// power source, in BFS order.
func (c *ConnectivityChecker) ConnectedPositions(grid *Grid) []Position {
	tiles := c.ConnectedTiles(grid)
	positions := make([]Position, len(tiles))
	for i, tile := range tiles {
		positions[i] = tile.Pos()
	}
	return positions
}

// IsTileInPath reports whether (x, y) lies on the current source-to-terminal
// path.
func (c *ConnectivityChecker) IsTileInPath(grid *Grid, x, y int) bool {
	for _, pos := range c.FindPath(grid) {
		if pos.X == x && pos.Y == y {
			return true
		}
	}
	return false
}
