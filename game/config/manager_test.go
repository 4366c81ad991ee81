package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/voltlab/circuit-repair-game/game/engine"
)

func createTestLevelDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "level-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	return dir
}

// createValidLevel builds a 3x3 straight-line level: power source west,
// one clickable straight wire, terminal east.
func createValidLevel() *engine.LevelConfig {
	config := &engine.LevelConfig{
		Name:        "Test Level",
		Description: "Test level",
		GridSize:    3,
		Tiles: []engine.TilePlacement{
			{X: 0, Y: 1, Type: string(engine.PowerSource), Rotation: 0},
			{X: 1, Y: 1, Type: string(engine.Straight), Rotation: 0, IsClickable: true},
			{X: 2, Y: 1, Type: string(engine.Terminal), Rotation: 0},
		},
		Scramble: []engine.ScrambleOverride{
			{X: 1, Y: 1, Rotation: 90},
		},
		Solution: []engine.SolutionEntry{
			{X: 1, Y: 1, AcceptedRotations: []int{0, 180}},
		},
	}
	config.Messages.Welcome = "Welcome!"
	config.Messages.Victory = "Victory!"
	config.Messages.Reset = "Board reset"
	return config
}

func writeLevelFile(t *testing.T, dir, name string, config *engine.LevelConfig) {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal level: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	path := filepath.Join(dir, filename)
	err = os.WriteFile(path, data, 0644)
	if err != nil {
		t.Fatalf("Failed to write level file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := createTestLevelDir(t)
		defer os.RemoveAll(dir)

		defaultLevel := createValidLevel()
		defaultLevel.Name = "Level One"
		writeLevelFile(t, dir, "level_1", defaultLevel)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager == nil {
			t.Error("Expected manager to be non-nil")
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("missing default level", func(t *testing.T) {
		dir := createTestLevelDir(t)
		defer os.RemoveAll(dir)

		manager, err := NewManager(dir)
		if err != nil {
			t.Errorf("NewManager should succeed even without level files, got error: %v", err)
		}

		// Should have created a minimal default level
		if manager == nil {
			t.Fatal("Expected manager to be created")
		}

		defaultLevel := manager.GetDefault()
		if defaultLevel == nil {
			t.Error("Expected default level to be available")
		}
	})

	t.Run("default falls back to first level on disk", func(t *testing.T) {
		dir := createTestLevelDir(t)
		defer os.RemoveAll(dir)

		level := createValidLevel()
		level.Name = "Only Level"
		writeLevelFile(t, dir, "workshop", level)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		defaultLevel := manager.GetDefault()
		if defaultLevel == nil {
			t.Fatal("Expected default level to be available")
		}
		if defaultLevel.Name != "Only Level" {
			t.Errorf("Expected fallback default 'Only Level', got '%s'", defaultLevel.Name)
		}
	})
}

func TestManager_LoadLevel(t *testing.T) {
	dir := createTestLevelDir(t)
	defer os.RemoveAll(dir)

	defaultLevel := createValidLevel()
	defaultLevel.Name = "Level One"
	writeLevelFile(t, dir, "level_1", defaultLevel)

	easyLevel := createValidLevel()
	easyLevel.Name = "Easy"
	easyLevel.GridSize = 4
	writeLevelFile(t, dir, "easy", easyLevel)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing level", func(t *testing.T) {
		config, err := manager.LoadLevel("easy")
		if err != nil {
			t.Fatalf("Failed to load level: %v", err)
		}
		if config.Name != "Easy" {
			t.Errorf("Expected level name 'Easy', got '%s'", config.Name)
		}
		if config.GridSize != 4 {
			t.Errorf("Expected grid size 4, got %d", config.GridSize)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		config, err := manager.LoadLevel("easy.json")
		if err != nil {
			t.Fatalf("Failed to load level with extension: %v", err)
		}
		if config.Name != "Easy" {
			t.Errorf("Expected level name 'Easy', got '%s'", config.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		config1, _ := manager.LoadLevel("easy")

		config2, err := manager.LoadLevel("easy")
		if err != nil {
			t.Fatalf("Failed to load level from cache: %v", err)
		}

		// Should be the same pointer (cached)
		if config1 != config2 {
			t.Error("Expected level to be loaded from cache")
		}
	})

	t.Run("load non-existent level", func(t *testing.T) {
		_, err := manager.LoadLevel("non-existent")
		if err != ErrLevelNotFound {
			t.Errorf("Expected ErrLevelNotFound, got %v", err)
		}
	})

	t.Run("load invalid level", func(t *testing.T) {
		// Missing required fields
		invalidData := []byte(`{"name": ""}`)
		err := os.WriteFile(filepath.Join(dir, "invalid.json"), invalidData, 0644)
		if err != nil {
			t.Fatalf("Failed to write invalid level: %v", err)
		}

		_, err = manager.LoadLevel("invalid")
		if !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("Expected ErrInvalidLevel, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		malformedData := []byte(`{"name": "Malformed", invalid json}`)
		err := os.WriteFile(filepath.Join(dir, "malformed.json"), malformedData, 0644)
		if err != nil {
			t.Fatalf("Failed to write malformed level: %v", err)
		}

		_, err = manager.LoadLevel("malformed")
		if err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}

func TestManager_GetDefault(t *testing.T) {
	dir := createTestLevelDir(t)
	defer os.RemoveAll(dir)

	defaultLevel := createValidLevel()
	defaultLevel.Name = "Default Level"
	writeLevelFile(t, dir, "level_1", defaultLevel)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	config := manager.GetDefault()
	if config == nil {
		t.Fatal("Expected default level to be non-nil")
	}
	if config.Name != "Default Level" {
		t.Errorf("Expected default level name 'Default Level', got '%s'", config.Name)
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := createTestLevelDir(t)
	defer os.RemoveAll(dir)

	first := createValidLevel()
	first.Name = "First"
	writeLevelFile(t, dir, "level_1", first)

	second := createValidLevel()
	second.Name = "Second"
	writeLevelFile(t, dir, "level_2", second)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SetDefault("level_2"); err != nil {
		t.Fatalf("Failed to set default: %v", err)
	}

	if got := manager.GetDefault().Name; got != "Second" {
		t.Errorf("Expected default 'Second', got '%s'", got)
	}

	if err := manager.SetDefault("missing"); err != ErrLevelNotFound {
		t.Errorf("Expected ErrLevelNotFound for missing level, got %v", err)
	}
}

func TestManager_ListLevels(t *testing.T) {
	dir := createTestLevelDir(t)
	defer os.RemoveAll(dir)

	levels := []struct {
		filename string
		name     string
	}{
		{"level_1", "Level One"},
		{"easy", "Easy"},
		{"medium", "Medium"},
		{"hard", "Hard"},
	}

	for _, lvl := range levels {
		config := createValidLevel()
		config.Name = lvl.name
		writeLevelFile(t, dir, lvl.filename, config)
	}

	// Also add a non-JSON file that should be ignored
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	levelList, err := manager.ListLevels()
	if err != nil {
		t.Fatalf("Failed to list levels: %v", err)
	}
	if len(levelList) != 4 {
		t.Errorf("Expected 4 levels, got %d", len(levelList))
	}

	// Verify all levels are listed with their IDs and movable counts
	foundLevels := make(map[string]bool)
	for _, info := range levelList {
		foundLevels[info.Name] = true
		if info.LevelID == "" {
			t.Errorf("Level '%s' has empty level ID", info.Name)
		}
		if info.MovableTiles != 1 {
			t.Errorf("Level '%s': expected 1 movable tile, got %d", info.Name, info.MovableTiles)
		}
	}

	for _, lvl := range levels {
		if !foundLevels[lvl.name] {
			t.Errorf("Level '%s' not found in list", lvl.name)
		}
	}
}

func TestManager_SaveLevel(t *testing.T) {
	dir := createTestLevelDir(t)
	defer os.RemoveAll(dir)

	defaultLevel := createValidLevel()
	writeLevelFile(t, dir, "level_1", defaultLevel)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("save and reload", func(t *testing.T) {
		level := createValidLevel()
		level.Name = "Saved Level"

		if err := manager.SaveLevel("saved", level); err != nil {
			t.Fatalf("Failed to save level: %v", err)
		}

		loaded, err := manager.LoadLevel("saved")
		if err != nil {
			t.Fatalf("Failed to load saved level: %v", err)
		}
		if loaded.Name != "Saved Level" {
			t.Errorf("Expected 'Saved Level', got '%s'", loaded.Name)
		}

		if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
			t.Errorf("Expected saved.json on disk: %v", err)
		}
	})

	t.Run("refuse invalid level", func(t *testing.T) {
		level := createValidLevel()
		level.Solution = nil

		err := manager.SaveLevel("broken", level)
		if !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("Expected ErrInvalidLevel, got %v", err)
		}
	})
}

func TestManager_RefreshCache(t *testing.T) {
	dir := createTestLevelDir(t)
	defer os.RemoveAll(dir)

	level := createValidLevel()
	level.Name = "Changeable"
	level.GridSize = 3
	writeLevelFile(t, dir, "level_1", level)
	writeLevelFile(t, dir, "changeable", level)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	loaded, _ := manager.LoadLevel("changeable")
	if loaded.GridSize != 3 {
		t.Errorf("Expected initial grid size 3, got %d", loaded.GridSize)
	}

	// Modify level file on disk
	level.GridSize = 4
	writeLevelFile(t, dir, "changeable", level)

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh cache: %v", err)
	}

	reloaded, _ := manager.LoadLevel("changeable")
	if reloaded.GridSize != 4 {
		t.Errorf("Expected reloaded grid size 4, got %d", reloaded.GridSize)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := createTestLevelDir(t)
	defer os.RemoveAll(dir)

	defaultLevel := createValidLevel()
	writeLevelFile(t, dir, "level_1", defaultLevel)

	for i := 1; i <= 5; i++ {
		config := createValidLevel()
		config.Name = "Level" + string(rune('0'+i))
		writeLevelFile(t, dir, "extra"+string(rune('0'+i)), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// Test concurrent loading
	var wg sync.WaitGroup
	errors := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			levelName := "extra" + string(rune('0'+((id%5)+1)))
			_, err := manager.LoadLevel(levelName)
			if err != nil {
				errors <- err
			}
		}(i)
	}

	wg.Wait()
	close(errors)

	// Check for errors
	for err := range errors {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	// Verify cache size
	if manager.Count() < 5 {
		t.Errorf("Expected at least 5 levels in cache, got %d", manager.Count())
	}
}

func TestManager_CachingBehavior(t *testing.T) {
	dir := createTestLevelDir(t)
	defer os.RemoveAll(dir)

	defaultLevel := createValidLevel()
	writeLevelFile(t, dir, "level_1", defaultLevel)

	testLevel := createValidLevel()
	testLevel.Name = "Test"
	writeLevelFile(t, dir, "test", testLevel)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// Load level multiple times
	for i := 0; i < 10; i++ {
		config, err := manager.LoadLevel("test")
		if err != nil {
			t.Fatalf("Failed to load level on iteration %d: %v", i, err)
		}
		if config.Name != "Test" {
			t.Errorf("Unexpected level name on iteration %d", i)
		}
	}

	// Both "level_1" (the default) and "test" are cached
	if manager.Count() != 2 {
		t.Errorf("Expected 2 levels in cache, got %d", manager.Count())
	}
}

// Test-only helper

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.levels)
}
