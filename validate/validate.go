// Command validate provides a small CLI that validates level JSON files in
// the ../configs directory. It checks:
//   - JSON structure and required fields
//   - Tile placements inside the grid with known types and quarter-turn rotations
//   - Presence of exactly one power source and one terminal
//   - Solution entries referencing clickable tiles with accepted rotations
//   - Required message keys
//   - Solvability: the board closes the circuit at its accepted rotations
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/voltlab/circuit-repair-game/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateLevel loads and validates a single level JSON file. Structural
// problems are reported individually; the engine's validator then runs the
// deep checks (duplicate anchors, solution references, solvability).
func validateLevel(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var level engine.LevelConfig
	if err := json.Unmarshal(data, &level); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	// Structural checks with individual reporting
	if level.Name == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Missing required field: name")
	}

	if len(level.Tiles) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Tiles list is empty")
	}

	counts := map[engine.TileType]int{}
	clickableCount := 0
	for i, placement := range level.Tiles {
		tileType, err := engine.ParseTileType(placement.Type)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Tile %d at (%d,%d): %v", i, placement.X, placement.Y, err))
			continue
		}
		counts[tileType]++
		if placement.IsClickable {
			clickableCount++
		}

		if placement.X < 0 || placement.X >= level.GridSize ||
			placement.Y < 0 || placement.Y >= level.GridSize {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Tile %d at (%d,%d) is outside the %dx%d grid",
				i, placement.X, placement.Y, level.GridSize, level.GridSize))
		}
	}

	if counts[engine.PowerSource] != 1 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Must have exactly 1 power source, got %d", counts[engine.PowerSource]))
	}

	if counts[engine.Terminal] != 1 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Must have exactly 1 terminal, got %d", counts[engine.Terminal]))
	}

	if len(level.Solution) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Solution is empty")
	}

	// Validate messages
	requiredMessages := map[string]string{
		"welcome": level.Messages.Welcome,
		"victory": level.Messages.Victory,
		"reset":   level.Messages.Reset,
	}
	for name, value := range requiredMessages {
		if value == "" {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Missing required message: %s", name))
		}
	}

	// Deep validation: duplicates, solution/scramble references, solvability.
	// Only run once the structure is sound so the error output stays focused.
	if result.Valid {
		if err := engine.ValidateLevelConfig(&level); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err.Error())
		}
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", level.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", level.GridSize, level.GridSize))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Power source: %d, Terminal: %d", counts[engine.PowerSource], counts[engine.Terminal]))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Wires: %d straight, %d corner (%d clickable)",
			counts[engine.Straight], counts[engine.Corner], clickableCount))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Solution entries: %d, scramble overrides: %d",
			len(level.Solution), len(level.Scramble)))
		result.Errors = append(result.Errors, "✓ Solvable: circuit closes at accepted rotations")
	}

	return result
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	levelDir := "../configs"
	files, err := filepath.Glob(filepath.Join(levelDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding level files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateLevel(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All levels are valid!")
	} else {
		fmt.Println("❌ Some levels have errors")
		os.Exit(1)
	}
}
