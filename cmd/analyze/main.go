// Command analyze prints quick, human-readable heuristics about level files
// in the project's configs directory. It summarizes dimensions, tile and
// solution counts, scramble coverage, and estimates the minimum number of
// clicks needed to solve each level.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"github.com/voltlab/circuit-repair-game/game/engine"
)

// AnalysisLevel is a light struct for reading level files used by analysis.
// It tolerates files that would fail full engine validation.
type AnalysisLevel struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	GridSize    int                       `json:"grid_size"`
	Tiles       []engine.TilePlacement    `json:"tiles"`
	Scramble    []engine.ScrambleOverride `json:"scramble"`
	Solution    []engine.SolutionEntry    `json:"solution"`
	Messages    map[string]string         `json:"messages"`
}

// AnalysisPoint denotes a grid coordinate used during analysis output.
type AnalysisPoint struct {
	X, Y int
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "print heuristics about level files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "level-dir",
				Value: "configs",
				Usage: "directory containing level JSON files",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			levelDir := cmd.String("level-dir")

			files := cmd.Args().Slice()
			if len(files) == 0 {
				matches, err := filepath.Glob(filepath.Join(levelDir, "*.json"))
				if err != nil {
					return fmt.Errorf("finding level files: %w", err)
				}
				for _, m := range matches {
					files = append(files, filepath.Base(m))
				}
			}

			for _, levelFile := range files {
				fmt.Printf("\n=== Analyzing %s ===\n", levelFile)
				analyzeLevel(filepath.Join(levelDir, levelFile))
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func analyzeLevel(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	var level AnalysisLevel
	if err := json.Unmarshal(data, &level); err != nil {
		fmt.Printf("Error parsing JSON: %v\n", err)
		return
	}

	fmt.Printf("Name: %s\n", level.Name)
	fmt.Printf("Grid Size: %d x %d\n", level.GridSize, level.GridSize)

	// Count tiles per type and locate the anchors
	counts := map[string]int{}
	clickable := 0
	var source, terminal AnalysisPoint
	foundSource, foundTerminal := false, false

	for _, tile := range level.Tiles {
		counts[tile.Type]++
		if tile.IsClickable {
			clickable++
		}
		switch engine.TileType(tile.Type) {
		case engine.PowerSource:
			if !foundSource {
				source = AnalysisPoint{tile.X, tile.Y}
				foundSource = true
			}
		case engine.Terminal:
			if !foundTerminal {
				terminal = AnalysisPoint{tile.X, tile.Y}
				foundTerminal = true
			}
		}
	}

	fmt.Printf("Tiles: %d total, %d clickable\n", len(level.Tiles), clickable)
	fmt.Printf("  straight: %d, corner: %d, empty: %d\n",
		counts[string(engine.Straight)], counts[string(engine.Corner)], counts[string(engine.Empty)])

	if foundSource {
		fmt.Printf("Power Source: (%d, %d)\n", source.X, source.Y)
	} else {
		fmt.Printf("⚠️  WARNING: no power source found\n")
	}
	if foundTerminal {
		fmt.Printf("Terminal: (%d, %d)\n", terminal.X, terminal.Y)
	} else {
		fmt.Printf("⚠️  WARNING: no terminal found\n")
	}
	if foundSource && foundTerminal {
		dist := abs(source.X-terminal.X) + abs(source.Y-terminal.Y)
		fmt.Printf("Source-to-terminal distance: %d\n", dist)
	}

	fmt.Printf("Solution entries: %d, scramble overrides: %d\n",
		len(level.Solution), len(level.Scramble))

	// Estimate minimum clicks: for each scrambled tile, the fewest clockwise
	// quarter turns from its scrambled rotation to any accepted rotation.
	accepted := make(map[AnalysisPoint][]int, len(level.Solution))
	for _, entry := range level.Solution {
		accepted[AnalysisPoint{entry.X, entry.Y}] = entry.AcceptedRotations
	}

	minClicks := 0
	orphanScrambles := []AnalysisPoint{}
	for _, override := range level.Scramble {
		p := AnalysisPoint{override.X, override.Y}
		rotations, ok := accepted[p]
		if !ok {
			orphanScrambles = append(orphanScrambles, p)
			continue
		}
		minClicks += clicksToNearest(override.Rotation, rotations)
	}

	fmt.Printf("Estimated minimum clicks to solve: %d\n", minClicks)

	if len(orphanScrambles) > 0 {
		fmt.Printf("⚠️  WARNING: %d scramble overrides have no solution entry!\n", len(orphanScrambles))
		for i, p := range orphanScrambles {
			if i < 5 { // Show first 5 orphans
				fmt.Printf("   Orphan scramble: (%d, %d)\n", p.X, p.Y)
			}
		}
		if len(orphanScrambles) > 5 {
			fmt.Printf("   ... and %d more\n", len(orphanScrambles)-5)
		}
	}

	// Flag scrambled tiles that already sit at an accepted rotation: they
	// contribute nothing to the puzzle.
	alreadySolved := 0
	for _, override := range level.Scramble {
		p := AnalysisPoint{override.X, override.Y}
		if rotations, ok := accepted[p]; ok && clicksToNearest(override.Rotation, rotations) == 0 {
			alreadySolved++
		}
	}
	if alreadySolved > 0 {
		fmt.Printf("⚠️  WARNING: %d scrambled tiles already sit at an accepted rotation\n", alreadySolved)
	} else if len(level.Scramble) > 0 {
		fmt.Printf("✅ Every scrambled tile needs at least one click\n")
	}
}

// clicksToNearest returns the fewest clockwise quarter turns from the current
// rotation to any of the accepted rotations.
func clicksToNearest(current int, accepted []int) int {
	best := 4
	for _, target := range accepted {
		steps := (((target - current) / 90) % 4)
		if steps < 0 {
			steps += 4
		}
		if steps < best {
			best = steps
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
