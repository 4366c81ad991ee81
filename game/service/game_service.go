package service

import (
	"context"
	"time"

	"github.com/voltlab/circuit-repair-game/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, levelName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	RotateTile(ctx context.Context, sessionID string, x, y int) (*RotateResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)
	CheckWin(ctx context.Context, sessionID string) (*WinStatus, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetCircuitStatus(ctx context.Context, sessionID string) (*CircuitInfo, error)
	GetRotationHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Levels
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
	LoadLevel(ctx context.Context, levelName string) (*engine.LevelConfig, error)
	SaveLevel(ctx context.Context, levelName string, config *engine.LevelConfig) error
	GenerateLevel(ctx context.Context, levelName string, difficulty engine.Difficulty) (*engine.LevelConfig, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.LevelConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.LevelConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// LevelManager handles level definition loading
type LevelManager interface {
	LoadLevel(name string) (*engine.LevelConfig, error)
	ListLevels() ([]*LevelInfo, error)
	GetDefault() *engine.LevelConfig
	SaveLevel(name string, config *engine.LevelConfig) error
}

// Session represents an active play session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Level          *engine.LevelConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
