package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/voltlab/circuit-repair-game/game/engine"
	"github.com/voltlab/circuit-repair-game/game/service"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level")
)

// Manager handles level definition loading and caching
type Manager struct {
	levelDir     string
	defaultLevel *engine.LevelConfig
	levels       map[string]*engine.LevelConfig
	mu           sync.RWMutex
}

// NewManager creates a new level manager
func NewManager(levelDir string) (*Manager, error) {
	if _, err := os.Stat(levelDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("level directory does not exist: %s", levelDir)
	}

	m := &Manager{
		levelDir: levelDir,
		levels:   make(map[string]*engine.LevelConfig),
	}

	if err := m.loadDefaultLevel(); err != nil {
		return nil, fmt.Errorf("failed to load default level: %w", err)
	}

	return m, nil
}

// LoadLevel loads a level definition by name
func (m *Manager) LoadLevel(name string) (*engine.LevelConfig, error) {
	m.mu.RLock()
	// Check cache first
	if config, exists := m.levels[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.levels[name]; exists {
		return config, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	levelPath := filepath.Join(m.levelDir, filename)

	data, err := os.ReadFile(levelPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	var config engine.LevelConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse level: %w", err)
	}

	if err := engine.ValidateLevelConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	m.levels[name] = &config
	return &config, nil
}

// ListLevels returns information about all available levels
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	entries, err := os.ReadDir(m.levelDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read level directory: %w", err)
	}

	var levels []*service.LevelInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")

		config, err := m.LoadLevel(name)
		if err != nil {
			// Skip invalid levels
			continue
		}

		movable := 0
		for _, t := range config.Tiles {
			if t.IsClickable {
				movable++
			}
		}

		levels = append(levels, &service.LevelInfo{
			Filename:     entry.Name(),
			LevelID:      name, // This is the identifier to use for session creation
			Name:         config.Name,
			Description:  config.Description,
			GridSize:     config.GridSize,
			MovableTiles: movable,
		})
	}

	return levels, nil
}

// GetDefault returns the default level
func (m *Manager) GetDefault() *engine.LevelConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLevel
}

// SetDefault sets the default level by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadLevel(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = config
	return nil
}

// RefreshCache reloads all cached levels from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.levels = make(map[string]*engine.LevelConfig)
	m.mu.Unlock()

	// Reload outside the lock; LoadLevel takes its own locks
	return m.loadDefaultLevel()
}

// loadDefaultLevel resolves the default level: level_1.json, then the first
// valid level on disk, then a built-in minimal level.
func (m *Manager) loadDefaultLevel() error {
	config, err := m.LoadLevel("level_1")
	if err != nil {
		levels, listErr := m.ListLevels()
		if listErr == nil && len(levels) > 0 {
			config, err = m.LoadLevel(strings.TrimSuffix(levels[0].Filename, ".json"))
		}
		if listErr != nil || err != nil || len(levels) == 0 {
			config = m.createMinimalLevel()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = config
	return nil
}

// SaveLevel saves a level definition to disk
func (m *Manager) SaveLevel(name string, config *engine.LevelConfig) error {
	if err := engine.ValidateLevelConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	levelPath := filepath.Join(m.levelDir, filename)

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	if err := os.WriteFile(levelPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	m.mu.Lock()
	m.levels[name] = config
	m.mu.Unlock()

	return nil
}

// createMinimalLevel creates a minimal valid level: a straight run from the
// power source to the terminal with one scrambled tile in between.
func (m *Manager) createMinimalLevel() *engine.LevelConfig {
	config := &engine.LevelConfig{
		Name:        "default",
		Description: "Default minimal level",
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
	config.Messages.Welcome = "Rotate the pieces to close the circuit!"
	config.Messages.Victory = "Circuit repaired!"
	config.Messages.Reset = "Board reset"
	return config
}
