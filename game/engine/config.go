package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TilePlacement describes one tile in a level file
type TilePlacement struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Type        string `json:"type"`
	Rotation    int    `json:"rotation"`
	IsClickable bool   `json:"is_clickable,omitempty"`
}

// ScrambleOverride re-rotates one clickable tile before the initial snapshot
// is taken, so the level starts unsolved.
type ScrambleOverride struct {
	X        int `json:"x"`
	Y        int `json:"y"`
	Rotation int `json:"rotation"`
}

// LevelConfig represents a level definition loaded from JSON
type LevelConfig struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	GridSize    int                `json:"grid_size"`
	Tiles       []TilePlacement    `json:"tiles"`
	Scramble    []ScrambleOverride `json:"scramble,omitempty"`
	Solution    []SolutionEntry    `json:"solution"`
	Messages    struct {
		Welcome string `json:"welcome"`
		Victory string `json:"victory"`
		Reset   string `json:"reset"`
	} `json:"messages"`
}

// ValidateLevelConfig validates a level definition for correctness and
// solvability. Duplicate power sources or terminals are rejected here rather
// than silently overwriting the grid's special-position cache.
func ValidateLevelConfig(config *LevelConfig) error {
	if config.Name == "" {
		return fmt.Errorf("level validation: name is required")
	}
	if config.GridSize < MinGridSize || config.GridSize > MaxGridSize {
		return fmt.Errorf("level validation: grid_size must be between %d and %d, got %d",
			MinGridSize, MaxGridSize, config.GridSize)
	}
	if len(config.Tiles) == 0 {
		return fmt.Errorf("level validation: tiles is empty")
	}

	powerSources := 0
	terminals := 0
	seen := make(map[Position]bool, len(config.Tiles))
	clickable := make(map[Position]bool)

	for i, placement := range config.Tiles {
		if placement.X < 0 || placement.X >= config.GridSize ||
			placement.Y < 0 || placement.Y >= config.GridSize {
			return fmt.Errorf("level validation: tile %d at (%d,%d) is outside the %dx%d grid",
				i, placement.X, placement.Y, config.GridSize, config.GridSize)
		}

		pos := Position{X: placement.X, Y: placement.Y}
		if seen[pos] {
			return fmt.Errorf("level validation: duplicate tile at (%d,%d)", placement.X, placement.Y)
		}
		seen[pos] = true

		tileType, err := ParseTileType(placement.Type)
		if err != nil {
			return fmt.Errorf("level validation: tile %d: %v", i, err)
		}

		if !isCanonicalRotation(normalizeAngle(placement.Rotation)) {
			return fmt.Errorf("level validation: tile %d at (%d,%d) has invalid rotation %d",
				i, placement.X, placement.Y, placement.Rotation)
		}

		switch tileType {
		case PowerSource:
			powerSources++
		case Terminal:
			terminals++
		}

		if placement.IsClickable {
			if !tileType.IsRotatable() {
				return fmt.Errorf("level validation: tile at (%d,%d) is clickable but type %s is not rotatable",
					placement.X, placement.Y, tileType)
			}
			clickable[pos] = true
		}
	}

	if powerSources != 1 {
		return fmt.Errorf("level validation: level must contain exactly one power source, got %d", powerSources)
	}
	if terminals != 1 {
		return fmt.Errorf("level validation: level must contain exactly one terminal, got %d", terminals)
	}

	if len(config.Solution) == 0 {
		return fmt.Errorf("level validation: solution is empty")
	}
	for i, entry := range config.Solution {
		pos := Position{X: entry.X, Y: entry.Y}
		if !clickable[pos] {
			return fmt.Errorf("level validation: solution entry %d at (%d,%d) does not reference a clickable tile",
				i, entry.X, entry.Y)
		}
		if len(entry.AcceptedRotations) == 0 {
			return fmt.Errorf("level validation: solution entry %d at (%d,%d) has no accepted rotations",
				i, entry.X, entry.Y)
		}
		for _, angle := range entry.AcceptedRotations {
			if !isCanonicalRotation(normalizeAngle(angle)) {
				return fmt.Errorf("level validation: solution entry at (%d,%d) has invalid rotation %d",
					entry.X, entry.Y, angle)
			}
		}
	}

	for i, override := range config.Scramble {
		pos := Position{X: override.X, Y: override.Y}
		if !clickable[pos] {
			return fmt.Errorf("level validation: scramble entry %d at (%d,%d) does not reference a clickable tile",
				i, override.X, override.Y)
		}
		if !isCanonicalRotation(normalizeAngle(override.Rotation)) {
			return fmt.Errorf("level validation: scramble entry at (%d,%d) has invalid rotation %d",
				override.X, override.Y, override.Rotation)
		}
	}

	// Solvability: the board with every constrained tile set to its first
	// accepted rotation must close the circuit.
	solved, err := buildSolvedGrid(config)
	if err != nil {
		return fmt.Errorf("level validation: %v", err)
	}
	if !NewConnectivityChecker().CheckConnectivity(solved) {
		return fmt.Errorf("level validation: level %q is not solvable at its accepted rotations", config.Name)
	}

	return nil
}

// BuildGrid assembles a playable grid from a validated level: tiles are
// placed at their authored rotations, scramble overrides are applied, and
// the result is snapshotted as the reset baseline.
func BuildGrid(config *LevelConfig) (*Grid, error) {
	grid, err := NewGrid(config.GridSize)
	if err != nil {
		return nil, err
	}

	for _, placement := range config.Tiles {
		tile, err := NewTile(placement.X, placement.Y, TileType(placement.Type), placement.Rotation)
		if err != nil {
			return nil, err
		}
		tile.IsClickable = placement.IsClickable

		if !grid.SetTile(placement.X, placement.Y, tile) {
			return nil, fmt.Errorf("failed to place tile at (%d,%d)", placement.X, placement.Y)
		}
	}

	for _, override := range config.Scramble {
		tile := grid.GetTile(override.X, override.Y)
		if tile == nil {
			return nil, fmt.Errorf("scramble override at (%d,%d) has no tile", override.X, override.Y)
		}
		if err := tile.SetRotation(override.Rotation); err != nil {
			return nil, fmt.Errorf("scramble override at (%d,%d): %w", override.X, override.Y, err)
		}
	}

	grid.SaveInitialState()
	return grid, nil
}

// buildSolvedGrid builds the board with every constrained tile at its first
// accepted rotation, ignoring scramble overrides.
func buildSolvedGrid(config *LevelConfig) (*Grid, error) {
	grid, err := NewGrid(config.GridSize)
	if err != nil {
		return nil, err
	}

	for _, placement := range config.Tiles {
		tile, err := NewTile(placement.X, placement.Y, TileType(placement.Type), placement.Rotation)
		if err != nil {
			return nil, err
		}
		grid.SetTile(placement.X, placement.Y, tile)
	}

	for _, entry := range config.Solution {
		tile := grid.GetTile(entry.X, entry.Y)
		if tile == nil {
			return nil, fmt.Errorf("solution entry at (%d,%d) has no tile", entry.X, entry.Y)
		}
		if err := tile.SetRotation(entry.AcceptedRotations[0]); err != nil {
			return nil, err
		}
	}

	return grid, nil
}

// LoadLevelConfig loads and validates a level definition from a JSON file
func LoadLevelConfig(filename string) (*LevelConfig, error) {
	// Support LEVEL_DIR environment variable for an alternative level directory
	levelPath := filename
	if levelDir := os.Getenv("LEVEL_DIR"); levelDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			levelPath = filepath.Join(levelDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(levelPath)
	if err != nil {
		return nil, err
	}

	var config LevelConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateLevelConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
