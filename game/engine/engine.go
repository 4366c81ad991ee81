package engine

import (
	"fmt"
	"time"
)

// GameState is a serializable view of one play session, consumed by the API
// and the persistence layer. Tiles are the live tiles, not snapshot copies.
type GameState struct {
	LevelName          string                 `json:"level_name"`
	GridSize           int                    `json:"grid_size"`
	Tiles              []*Tile                `json:"tiles"`
	MoveCount          int                    `json:"move_count"`
	Completed          bool                   `json:"completed"`
	Connected          bool                   `json:"connected"`
	ConnectedPositions []Position             `json:"connected_positions,omitempty"`
	Path               []Position             `json:"path,omitempty"`
	Message            string                 `json:"message,omitempty"`
	RotationHistory    []RotationHistoryEntry `json:"rotation_history"`
}

// Engine provides the main interface for puzzle operations
type Engine interface {
	// Board access
	GetGrid() *Grid
	GetConfig() *LevelConfig
	GetState() *GameState

	// Play operations
	RotateTile(x, y int) bool
	Reset() *GameState
	CheckWin() bool
	IsCompleted() bool
	MoveCount() int

	// Circuit queries
	IsConnected() bool
	FindPath() []Position
	ConnectedTiles() []*Tile

	// History
	GetRotationHistory() []RotationHistoryEntry

	// Persistence restore
	ApplyState(state *GameState) error
}

// GameEngine implements the Engine interface. It is the session-side
// coordinator from the play flow: it counts moves, latches completion, and
// refuses rotations once the puzzle is solved.
type GameEngine struct {
	grid     *Grid
	config   *LevelConfig
	solution Solution
	checker  *ConnectivityChecker

	moveCount int
	completed bool
	history   []RotationHistoryEntry
	message   string
}

// NewEngine creates a game engine for the given level. The level is
// validated, its grid assembled and scrambled, and the reset snapshot taken.
func NewEngine(config *LevelConfig) (*GameEngine, error) {
	if config == nil {
		return nil, fmt.Errorf("level config cannot be nil")
	}
	if err := ValidateLevelConfig(config); err != nil {
		return nil, err
	}

	grid, err := BuildGrid(config)
	if err != nil {
		return nil, err
	}

	return &GameEngine{
		grid:     grid,
		config:   config,
		solution: NewSolution(config.Solution),
		checker:  NewConnectivityChecker(),
		message:  config.Messages.Welcome,
		history:  []RotationHistoryEntry{},
	}, nil
}

// GetGrid returns the live grid
func (e *GameEngine) GetGrid() *Grid {
	return e.grid
}

// GetConfig returns the level definition this engine was built from
func (e *GameEngine) GetConfig() *LevelConfig {
	return e.config
}

// RotateTile rotates the tile at (x, y) clockwise and counts the move.
// Rotations are refused once the puzzle is completed: the win latch is
// sticky for the session.
func (e *GameEngine) RotateTile(x, y int) bool {
	if e.completed {
		e.message = "Puzzle already solved"
		return false
	}

	tile := e.grid.GetTile(x, y)
	var from int
	if tile != nil {
		from = tile.Rotation
	}

	success := e.grid.RotateTile(x, y)
	if success {
		e.moveCount++
		e.history = append(e.history, RotationHistoryEntry{
			Position:     Position{X: x, Y: y},
			FromRotation: from,
			ToRotation:   e.grid.GetTile(x, y).Rotation,
			Timestamp:    time.Now().Unix(),
			Success:      true,
			MoveNumber:   e.moveCount,
		})
	}

	return success
}

// CheckWin evaluates the exact-match win condition and latches the result.
// Once true it stays true for the session regardless of later board state.
func (e *GameEngine) CheckWin() bool {
	if e.completed {
		return true
	}

	if EvaluateWinCondition(e.grid, e.solution) {
		e.completed = true
		if e.config.Messages.Victory != "" {
			e.message = e.config.Messages.Victory
		}
	}

	return e.completed
}

// IsCompleted reports whether the win condition has latched
func (e *GameEngine) IsCompleted() bool {
	return e.completed
}

// MoveCount returns the number of successful rotations since the last reset
func (e *GameEngine) MoveCount() int {
	return e.moveCount
}

// Reset restores the board to its initial (scrambled) configuration and
// zeroes the move counter. The completion latch is deliberately untouched;
// a solved session stays solved.
func (e *GameEngine) Reset() *GameState {
	e.grid.Reset()
	e.moveCount = 0
	if e.config.Messages.Reset != "" {
		e.message = e.config.Messages.Reset
	}
	return e.GetState()
}

// IsConnected reports whether current flows from the power source to the
// terminal on the live board.
func (e *GameEngine) IsConnected() bool {
	return e.checker.CheckConnectivity(e.grid)
}

// FindPath returns the current source-to-terminal path, or nil
func (e *GameEngine) FindPath() []Position {
	return e.checker.FindPath(e.grid)
}

// ConnectedTiles returns every tile currently energized by the power source
func (e *GameEngine) ConnectedTiles() []*Tile {
	return e.checker.ConnectedTiles(e.grid)
}

// GetRotationHistory returns the rotations made since the last reset
func (e *GameEngine) GetRotationHistory() []RotationHistoryEntry {
	return e.history
}

// GetState builds a serializable snapshot of the session, including the
// live-current positions for the presentation layer.
func (e *GameEngine) GetState() *GameState {
	return &GameState{
		LevelName:          e.config.Name,
		GridSize:           e.grid.Size(),
		Tiles:              e.grid.AllTiles(),
		MoveCount:          e.moveCount,
		Completed:          e.completed,
		Connected:          e.IsConnected(),
		ConnectedPositions: e.checker.ConnectedPositions(e.grid),
		Path:               e.FindPath(),
		Message:            e.message,
		RotationHistory:    e.history,
	}
}

// ApplyState restores a persisted session onto a freshly built engine:
// rotations of rotatable tiles, move count and the completion latch. Fixed
// tiles in the persisted state are ignored.
func (e *GameEngine) ApplyState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.GridSize != e.grid.Size() {
		return fmt.Errorf("state grid size %d does not match level grid size %d",
			state.GridSize, e.grid.Size())
	}

	for _, saved := range state.Tiles {
		tile := e.grid.GetTile(saved.X, saved.Y)
		if tile == nil {
			return fmt.Errorf("state references missing tile at (%d,%d)", saved.X, saved.Y)
		}
		if !tile.IsRotatable() {
			continue
		}
		if err := tile.SetRotation(saved.Rotation); err != nil {
			return fmt.Errorf("state tile at (%d,%d): %w", saved.X, saved.Y, err)
		}
	}

	e.moveCount = state.MoveCount
	e.completed = state.Completed
	if state.Message != "" {
		e.message = state.Message
	}
	e.history = state.RotationHistory
	if e.history == nil {
		e.history = []RotationHistoryEntry{}
	}

	return nil
}
