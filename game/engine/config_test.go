package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateLevelConfig_ValidLevel(t *testing.T) {
	if err := ValidateLevelConfig(createTestLevel()); err != nil {
		t.Errorf("Expected valid level to pass validation: %v", err)
	}
	if err := ValidateLevelConfig(createCornerLevel()); err != nil {
		t.Errorf("Expected corner level to pass validation: %v", err)
	}
}

func TestValidateLevelConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LevelConfig)
	}{
		{"missing name", func(c *LevelConfig) { c.Name = "" }},
		{"grid too small", func(c *LevelConfig) { c.GridSize = 1 }},
		{"grid too large", func(c *LevelConfig) { c.GridSize = 100 }},
		{"no tiles", func(c *LevelConfig) { c.Tiles = nil }},
		{"tile out of bounds", func(c *LevelConfig) {
			c.Tiles[0].X = 9
		}},
		{"duplicate tile position", func(c *LevelConfig) {
			c.Tiles = append(c.Tiles, TilePlacement{X: 1, Y: 1, Type: string(Empty)})
		}},
		{"unknown tile type", func(c *LevelConfig) {
			c.Tiles[1].Type = "tee"
		}},
		{"off-lattice tile rotation", func(c *LevelConfig) {
			c.Tiles[1].Rotation = 45
		}},
		{"two power sources", func(c *LevelConfig) {
			c.Tiles = append(c.Tiles, TilePlacement{X: 0, Y: 0, Type: string(PowerSource)})
		}},
		{"no terminal", func(c *LevelConfig) {
			c.Tiles[2].Type = string(Empty)
		}},
		{"clickable fixed tile", func(c *LevelConfig) {
			c.Tiles[0].IsClickable = true
		}},
		{"empty solution", func(c *LevelConfig) { c.Solution = nil }},
		{"solution on non-clickable tile", func(c *LevelConfig) {
			c.Solution[0].X = 0
		}},
		{"solution with no accepted rotations", func(c *LevelConfig) {
			c.Solution[0].AcceptedRotations = nil
		}},
		{"solution with off-lattice rotation", func(c *LevelConfig) {
			c.Solution[0].AcceptedRotations = []int{45}
		}},
		{"scramble on non-clickable tile", func(c *LevelConfig) {
			c.Scramble[0].X = 0
		}},
		{"scramble with off-lattice rotation", func(c *LevelConfig) {
			c.Scramble[0].Rotation = 30
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := createTestLevel()
			test.mutate(config)
			if err := ValidateLevelConfig(config); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestValidateLevelConfig_Unsolvable(t *testing.T) {
	config := createTestLevel()
	// Only vertical rotations accepted: the circuit can never close
	config.Solution[0].AcceptedRotations = []int{90, 270}

	if err := ValidateLevelConfig(config); err == nil {
		t.Error("Expected unsolvable level to fail validation")
	}
}

func TestBuildGrid(t *testing.T) {
	config := createTestLevel()
	grid, err := BuildGrid(config)
	if err != nil {
		t.Fatalf("Failed to build grid: %v", err)
	}

	if grid.Size() != 3 {
		t.Errorf("Expected grid size 3, got %d", grid.Size())
	}
	if grid.TileCount() != 3 {
		t.Errorf("Expected 3 tiles, got %d", grid.TileCount())
	}

	// The scramble override applies before the snapshot
	if got := grid.GetTile(1, 1).Rotation; got != 90 {
		t.Errorf("Expected scrambled rotation 90, got %d", got)
	}
	if !grid.GetTile(1, 1).IsClickable {
		t.Error("Expected clickable flag carried to the built tile")
	}
	if !grid.HasSnapshot() {
		t.Error("Expected build to save the reset snapshot")
	}

	// Reset goes back to the scrambled state, not the authored one
	grid.RotateTile(1, 1)
	grid.Reset()
	if got := grid.GetTile(1, 1).Rotation; got != 90 {
		t.Errorf("Expected reset back to 90, got %d", got)
	}
}

func TestLoadLevelConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "level.json")

	data, err := json.Marshal(createTestLevel())
	if err != nil {
		t.Fatalf("Failed to marshal level: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write level file: %v", err)
	}

	config, err := LoadLevelConfig(path)
	if err != nil {
		t.Fatalf("Failed to load level: %v", err)
	}
	if config.Name != "Test Level" {
		t.Errorf("Expected name %q, got %q", "Test Level", config.Name)
	}
	if len(config.Tiles) != 3 {
		t.Errorf("Expected 3 tiles, got %d", len(config.Tiles))
	}
}

func TestLoadLevelConfig_Errors(t *testing.T) {
	if _, err := LoadLevelConfig("configs/does_not_exist.json"); err == nil {
		t.Error("Expected error for missing file")
	}

	dir := t.TempDir()

	badJSON := filepath.Join(dir, "bad.json")
	os.WriteFile(badJSON, []byte("{not json"), 0644)
	if _, err := LoadLevelConfig(badJSON); err == nil {
		t.Error("Expected error for malformed JSON")
	}

	invalid := filepath.Join(dir, "invalid.json")
	config := createTestLevel()
	config.GridSize = 0
	data, _ := json.Marshal(config)
	os.WriteFile(invalid, data, 0644)
	if _, err := LoadLevelConfig(invalid); err == nil {
		t.Error("Expected error for level failing validation")
	}
}

func TestLoadLevelConfig_LevelDirOverride(t *testing.T) {
	dir := t.TempDir()
	data, _ := json.Marshal(createTestLevel())
	if err := os.WriteFile(filepath.Join(dir, "level_1.json"), data, 0644); err != nil {
		t.Fatalf("Failed to write level file: %v", err)
	}

	t.Setenv("LEVEL_DIR", dir)

	config, err := LoadLevelConfig("configs/level_1.json")
	if err != nil {
		t.Fatalf("Expected LEVEL_DIR to redirect the configs/ prefix: %v", err)
	}
	if config.Name != "Test Level" {
		t.Errorf("Expected name %q, got %q", "Test Level", config.Name)
	}
}
