package engine

import (
	"fmt"
	"math"
	"math/rand"
)

// Difficulty selects a generation profile
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// GeneratorConfig bounds a generated level: how many clickable tiles and
// corners the carved path must contain, how much of the board starts
// misrotated, and the grid size range to draw from.
type GeneratorConfig struct {
	MinMovableTiles int
	MaxMovableTiles int
	ScrambleRatio   float64
	MinCorners      int
	MaxCorners      int
	MinGridSize     int
	MaxGridSize     int
}

// GeneratorConfigFor returns the generation profile for a difficulty
func GeneratorConfigFor(difficulty Difficulty) GeneratorConfig {
	switch difficulty {
	case DifficultyEasy:
		return GeneratorConfig{
			MinMovableTiles: 3, MaxMovableTiles: 8,
			ScrambleRatio: 0.7,
			MinCorners:    1, MaxCorners: 6,
			MinGridSize: 4, MaxGridSize: 5,
		}
	case DifficultyHard:
		return GeneratorConfig{
			MinMovableTiles: 5, MaxMovableTiles: 12,
			ScrambleRatio: 0.9,
			MinCorners:    3, MaxCorners: 10,
			MinGridSize: 6, MaxGridSize: 8,
		}
	default:
		return GeneratorConfig{
			MinMovableTiles: 4, MaxMovableTiles: 10,
			ScrambleRatio: 0.8,
			MinCorners:    2, MaxCorners: 8,
			MinGridSize: 5, MaxGridSize: 6,
		}
	}
}

// LevelGenerator procedurally builds solvable levels: it carves a random
// path from a power source to a terminal with a randomized DFS, infers the
// piece and rotation for every bend from the path geometry, then scrambles
// a share of the clickable tiles to rotations outside their accepted sets.
type LevelGenerator struct {
	config   GeneratorConfig
	gridSize int
	rng      *rand.Rand
}

// NewLevelGenerator creates a generator for the given difficulty. Pass a
// seeded rand.Rand for reproducible levels, or nil for the shared source.
func NewLevelGenerator(difficulty Difficulty, rng *rand.Rand) *LevelGenerator {
	config := GeneratorConfigFor(difficulty)
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	size := config.MinGridSize
	if config.MaxGridSize > config.MinGridSize {
		size += rng.Intn(config.MaxGridSize - config.MinGridSize + 1)
	}

	return &LevelGenerator{
		config:   config,
		gridSize: size,
		rng:      rng,
	}
}

const maxGenerateAttempts = 50

// Generate produces a validated, scrambled level. It retries path carving
// until the difficulty bounds are met, and fails only when no acceptable
// path emerges within the attempt budget.
func (g *LevelGenerator) Generate(name string) (*LevelConfig, error) {
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		start, end := g.selectEndpoints()

		path := g.carvePath(start, end)
		if len(path) < 3 {
			// Need at least one movable tile between the endpoints
			continue
		}

		tiles, solution, err := g.buildPathTiles(path)
		if err != nil {
			continue
		}

		movable, corners := 0, 0
		for _, t := range tiles {
			if t.IsClickable {
				movable++
			}
			if t.Type == string(Corner) {
				corners++
			}
		}
		if movable < g.config.MinMovableTiles || movable > g.config.MaxMovableTiles {
			continue
		}
		if corners < g.config.MinCorners || corners > g.config.MaxCorners {
			continue
		}

		scramble := g.scramble(tiles, solution)
		tiles = g.fillEmpty(tiles, path)

		config := &LevelConfig{
			Name:        name,
			Description: fmt.Sprintf("Generated %dx%d level, path length %d", g.gridSize, g.gridSize, len(path)),
			GridSize:    g.gridSize,
			Tiles:       tiles,
			Scramble:    scramble,
			Solution:    solution,
		}
		config.Messages.Welcome = "Rotate the pieces to close the circuit!"
		config.Messages.Victory = "Circuit repaired!"
		config.Messages.Reset = "Board reset"

		if err := ValidateLevelConfig(config); err != nil {
			// Generated geometry should always validate; treat a failure as
			// a bad roll and try again.
			continue
		}

		return config, nil
	}

	return nil, fmt.Errorf("failed to generate a valid level after %d attempts", maxGenerateAttempts)
}

// selectEndpoints picks power source and terminal positions at Manhattan
// distance >= 2, so at least one tile sits between them.
func (g *LevelGenerator) selectEndpoints() (Position, Position) {
	for {
		start := Position{X: g.rng.Intn(g.gridSize), Y: g.rng.Intn(g.gridSize)}
		end := Position{X: g.rng.Intn(g.gridSize), Y: g.rng.Intn(g.gridSize)}

		if ManhattanDistance(start, end) >= 2 {
			return start, end
		}
	}
}

// carvePath finds a path between the endpoints with a depth-first search
// that explores directions in random order. Deliberately not shortest-path:
// wandering routes make better puzzles.
func (g *LevelGenerator) carvePath(start, end Position) []Position {
	visited := make(map[Position]bool)
	var path []Position

	var dfs func(pos Position) bool
	dfs = func(pos Position) bool {
		if pos == end {
			path = append(path, pos)
			return true
		}
		if visited[pos] {
			return false
		}

		visited[pos] = true
		path = append(path, pos)

		dirs := AllDirections()
		g.rng.Shuffle(len(dirs), func(i, j int) {
			dirs[i], dirs[j] = dirs[j], dirs[i]
		})

		for _, d := range dirs {
			next := pos.Neighbor(d)
			if next.X < 0 || next.X >= g.gridSize || next.Y < 0 || next.Y >= g.gridSize {
				continue
			}
			if visited[next] {
				continue
			}
			if dfs(next) {
				return true
			}
		}

		path = path[:len(path)-1]
		return false
	}

	if !dfs(start) {
		return nil
	}
	return path
}

// directionBetween returns the direction from one position to an adjacent one
func directionBetween(from, to Position) (Direction, error) {
	for _, d := range AllDirections() {
		if from.Neighbor(d) == to {
			return d, nil
		}
	}
	return North, fmt.Errorf("positions (%d,%d) and (%d,%d) are not adjacent",
		from.X, from.Y, to.X, to.Y)
}

// stepsFrom returns the clockwise rotation angle taking base to d
func stepsFrom(base, d Direction) int {
	return ((int(d)-int(base))%4 + 4) % 4 * QuarterTurn
}

// buildPathTiles assigns a piece and rotation to every path position from
// the geometry of its neighbors, and collects the accepted-rotation sets for
// the movable middle tiles.
func (g *LevelGenerator) buildPathTiles(path []Position) ([]TilePlacement, []SolutionEntry, error) {
	tiles := make([]TilePlacement, 0, len(path))
	var solution []SolutionEntry

	for i, pos := range path {
		switch i {
		case 0:
			// Power source: base exit is east, rotate it toward the path
			out, err := directionBetween(pos, path[i+1])
			if err != nil {
				return nil, nil, err
			}
			tiles = append(tiles, TilePlacement{
				X: pos.X, Y: pos.Y,
				Type:     string(PowerSource),
				Rotation: stepsFrom(East, out),
			})

		case len(path) - 1:
			// Terminal: base exit is west, rotate it toward the previous tile
			back, err := directionBetween(pos, path[i-1])
			if err != nil {
				return nil, nil, err
			}
			tiles = append(tiles, TilePlacement{
				X: pos.X, Y: pos.Y,
				Type:     string(Terminal),
				Rotation: stepsFrom(West, back),
			})

		default:
			tileType, rotation, accepted, err := middlePiece(path[i-1], pos, path[i+1])
			if err != nil {
				return nil, nil, err
			}
			tiles = append(tiles, TilePlacement{
				X: pos.X, Y: pos.Y,
				Type:        string(tileType),
				Rotation:    rotation,
				IsClickable: true,
			})
			solution = append(solution, SolutionEntry{
				X: pos.X, Y: pos.Y,
				AcceptedRotations: accepted,
			})
		}
	}

	return tiles, solution, nil
}

// middlePiece infers the piece joining prev and next through cur. Opposite
// neighbors need a straight bar (symmetric, two accepted rotations);
// perpendicular neighbors need a corner whose rotation follows from which
// adjacent direction pair it must span.
func middlePiece(prev, cur, next Position) (TileType, int, []int, error) {
	toPrev, err := directionBetween(cur, prev)
	if err != nil {
		return "", 0, nil, err
	}
	toNext, err := directionBetween(cur, next)
	if err != nil {
		return "", 0, nil, err
	}
	if toPrev == toNext {
		return "", 0, nil, fmt.Errorf("degenerate path geometry through (%d,%d)", cur.X, cur.Y)
	}

	if toPrev == toNext.Opposite() {
		if toPrev == East || toPrev == West {
			return Straight, 0, []int{0, 180}, nil
		}
		return Straight, 90, []int{90, 270}, nil
	}

	// Corner base spans north+east; rotating by r spans {N+r, E+r}. Find the
	// r whose pair matches {toPrev, toNext}.
	for _, r := range []int{0, 90, 180, 270} {
		a := North.RotatedBy(r)
		b := East.RotatedBy(r)
		if (a == toPrev && b == toNext) || (a == toNext && b == toPrev) {
			return Corner, r, []int{r}, nil
		}
	}

	return "", 0, nil, fmt.Errorf("no corner rotation spans %s and %s at (%d,%d)",
		toPrev, toNext, cur.X, cur.Y)
}

// scramble picks a share of the clickable tiles (at least one, at least
// ScrambleRatio of them) and assigns each a rotation outside its accepted
// set, so the level never starts solved.
func (g *LevelGenerator) scramble(tiles []TilePlacement, solution []SolutionEntry) []ScrambleOverride {
	accepted := make(map[Position][]int, len(solution))
	for _, entry := range solution {
		accepted[Position{X: entry.X, Y: entry.Y}] = entry.AcceptedRotations
	}

	var clickable []TilePlacement
	for _, t := range tiles {
		if t.IsClickable {
			clickable = append(clickable, t)
		}
	}

	count := int(math.Ceil(float64(len(clickable)) * g.config.ScrambleRatio))
	if count < 1 {
		count = 1
	}
	if count > len(clickable) {
		count = len(clickable)
	}

	g.rng.Shuffle(len(clickable), func(i, j int) {
		clickable[i], clickable[j] = clickable[j], clickable[i]
	})

	var overrides []ScrambleOverride
	for _, t := range clickable[:count] {
		pos := Position{X: t.X, Y: t.Y}

		var invalid []int
		for _, r := range []int{0, 90, 180, 270} {
			if !rotationAccepted(r, accepted[pos]) {
				invalid = append(invalid, r)
			}
		}

		rotation := normalizeAngle(t.Rotation + QuarterTurn)
		if len(invalid) > 0 {
			rotation = invalid[g.rng.Intn(len(invalid))]
		}

		overrides = append(overrides, ScrambleOverride{X: pos.X, Y: pos.Y, Rotation: rotation})
	}

	return overrides
}

// fillEmpty pads every off-path cell with an empty tile so the board renders
// as a full grid.
func (g *LevelGenerator) fillEmpty(tiles []TilePlacement, path []Position) []TilePlacement {
	onPath := make(map[Position]bool, len(path))
	for _, pos := range path {
		onPath[pos] = true
	}

	for y := 0; y < g.gridSize; y++ {
		for x := 0; x < g.gridSize; x++ {
			if onPath[Position{X: x, Y: y}] {
				continue
			}
			tiles = append(tiles, TilePlacement{X: x, Y: y, Type: string(Empty)})
		}
	}

	return tiles
}

// GridSize returns the size the generator rolled for this level
func (g *LevelGenerator) GridSize() int {
	return g.gridSize
}
