package engine

// CountTileType counts the placed tiles of a specific type
func CountTileType(grid *Grid, tileType TileType) int {
	count := 0
	for _, tile := range grid.AllTiles() {
		if tile.Type == tileType {
			count++
		}
	}
	return count
}

// CountClickableTiles counts the tiles the player can rotate
func CountClickableTiles(grid *Grid) int {
	count := 0
	for _, tile := range grid.AllTiles() {
		if tile.IsClickable {
			count++
		}
	}
	return count
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// FindNearestMismatch finds the misrotated constrained tile closest to the
// given position and returns its position and distance. Used by hint
// surfaces to point the player somewhere useful.
func FindNearestMismatch(grid *Grid, solution Solution, from Position) (Position, int, bool) {
	minDistance := -1
	var nearestPos Position
	found := false

	for _, pos := range Mismatches(grid, solution) {
		distance := ManhattanDistance(from, pos)
		if minDistance == -1 || distance < minDistance {
			minDistance = distance
			nearestPos = pos
			found = true
		}
	}

	return nearestPos, minDistance, found
}

// AnalyzeCircuitStatus summarizes how close the board is to completion
func AnalyzeCircuitStatus(grid *Grid, solution Solution) string {
	if grid.PowerSource() == nil {
		return "BROKEN: No power source on the board!"
	}
	if grid.Terminal() == nil {
		return "BROKEN: No terminal on the board!"
	}

	mismatches := len(Mismatches(grid, solution))
	connected := NewConnectivityChecker().CheckConnectivity(grid)

	switch {
	case mismatches == 0:
		return "SOLVED: All tiles at their accepted rotations"
	case connected:
		return "CONNECTED: Current flows, but some tiles are still misrotated"
	case mismatches == 1:
		return "CLOSE: One tile left to rotate"
	default:
		return "OPEN: Circuit incomplete"
	}
}

// EnergizedRatio returns the fraction of circuit-carrying tiles currently
// reachable from the power source.
func EnergizedRatio(grid *Grid) float64 {
	total := 0
	for _, tile := range grid.AllTiles() {
		if tile.Type.HasCircuit() {
			total++
		}
	}
	if total == 0 {
		return 0
	}

	energized := len(NewConnectivityChecker().ConnectedTiles(grid))
	return float64(energized) / float64(total)
}
