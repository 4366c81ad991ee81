package service

import (
	"time"

	"github.com/voltlab/circuit-repair-game/game/engine"
)

// SessionInfo provides information about a play session
type SessionInfo struct {
	ID             string              `json:"id"`
	LevelName      string              `json:"level_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	GameState      *engine.GameState   `json:"game_state"`
	Level          *engine.LevelConfig `json:"level"`
}

// RotateResult contains the result of a rotate operation
type RotateResult struct {
	Success   bool              `json:"success"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
	Rotated   *RotateInfo       `json:"rotated,omitempty"`
	Completed bool              `json:"completed"`
	Connected bool              `json:"connected"`
}

// RotateInfo is a compact record of one executed rotation
type RotateInfo struct {
	X            int    `json:"x"`
	Y            int    `json:"y"`
	TileType     string `json:"tile_type"`
	FromRotation int    `json:"from_rotation"`
	ToRotation   int    `json:"to_rotation"`
}

// WinStatus reports the outcome of an explicit win check
type WinStatus struct {
	Completed bool              `json:"completed"`
	Connected bool              `json:"connected"`
	Message   string            `json:"message,omitempty"`
	GameState *engine.GameState `json:"game_state"`
}

// CircuitInfo describes the live circuit for hint and display surfaces
type CircuitInfo struct {
	Connected          bool              `json:"connected"`
	Path               []engine.Position `json:"path,omitempty"`
	ConnectedPositions []engine.Position `json:"connected_positions"`
	EnergizedRatio     float64           `json:"energized_ratio"`
	MismatchCount      int               `json:"mismatch_count"`
	Status             string            `json:"status"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "rotate", "circuit_closed", "victory", "reset"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures rotation history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated rotation history
type HistoryResponse struct {
	Rotations   []engine.RotationHistoryEntry `json:"rotations"`
	TotalMoves  int                           `json:"total_moves"`
	Page        int                           `json:"page"`
	PageSize    int                           `json:"page_size"`
	TotalPages  int                           `json:"total_pages"`
	HasNext     bool                          `json:"has_next"`
	HasPrevious bool                          `json:"has_previous"`
}

// LevelInfo provides information about an available level
type LevelInfo struct {
	Filename     string `json:"filename"`
	LevelID      string `json:"level_id"` // The identifier to use for session creation
	Name         string `json:"name"`     // Display name
	Description  string `json:"description"`
	GridSize     int    `json:"grid_size"`
	MovableTiles int    `json:"movable_tiles"`
}
