package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/voltlab/circuit-repair-game/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levels LevelManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		levels:   levels,
	}
}

// getLevelID returns the level_id for a given display name, used for
// consistent API responses.
func (s *gameServiceImpl) getLevelID(levelName string) string {
	available, err := s.levels.ListLevels()
	if err == nil {
		for _, lvl := range available {
			if lvl.Name == levelName {
				return lvl.LevelID
			}
		}
	}
	if levelName == "" {
		return "default"
	}
	return levelName
}

// CreateSession creates a new play session
func (s *gameServiceImpl) CreateSession(ctx context.Context, levelName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.LevelConfig
	var err error
	if levelName != "" {
		config, err = s.levels.LoadLevel(levelName)
		if err != nil {
			if strings.Contains(err.Error(), "level not found") {
				available, listErr := s.levels.ListLevels()
				if listErr == nil && len(available) > 0 {
					var levelIDs []string
					for _, lvl := range available {
						levelIDs = append(levelIDs, lvl.LevelID)
					}
					return nil, fmt.Errorf("level '%s' not found. Available levels: %v", levelName, levelIDs)
				}
				return nil, fmt.Errorf("level '%s' not found. Use /api/levels to list available levels", levelName)
			}
			return nil, fmt.Errorf("failed to load level %s: %w", levelName, err)
		}
	} else {
		config = s.levels.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	levelID := levelName
	if levelID == "" {
		levelID = s.getLevelID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		LevelName:      levelID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		Level:          session.Level,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		LevelName:      s.getLevelID(session.Level.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		Level:          session.Level,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			LevelName:      s.getLevelID(sess.Level.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      sess.Engine.GetState(),
			Level:          sess.Level,
		})
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// RotateTile rotates the tile at (x, y) for a session, evaluates the win
// condition, and reports everything the caller needs in one round trip.
func (s *gameServiceImpl) RotateTile(ctx context.Context, sessionID string, x, y int) (*RotateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}
	wasConnected := sess.Engine.IsConnected()

	var fromRotation int
	tile := sess.Engine.GetGrid().GetTile(x, y)
	if tile != nil {
		fromRotation = tile.Rotation
	}

	success := sess.Engine.RotateTile(x, y)
	completed := sess.Engine.CheckWin()
	connected := sess.Engine.IsConnected()
	state := sess.Engine.GetState()

	result := &RotateResult{
		Success:   success,
		GameState: state,
		Message:   state.Message,
		Events:    events,
		Completed: completed,
		Connected: connected,
	}

	if success {
		rotated := sess.Engine.GetGrid().GetTile(x, y)
		result.Rotated = &RotateInfo{
			X:            x,
			Y:            y,
			TileType:     string(rotated.Type),
			FromRotation: fromRotation,
			ToRotation:   rotated.Rotation,
		}

		pos := engine.Position{X: x, Y: y}
		result.Events = append(result.Events, GameEvent{
			Type:      "rotate",
			Message:   fmt.Sprintf("Rotated tile at (%d,%d) to %d", x, y, rotated.Rotation),
			Timestamp: time.Now(),
			Position:  pos,
		})

		if connected && !wasConnected {
			result.Events = append(result.Events, GameEvent{
				Type:      "circuit_closed",
				Message:   "Current flows from the power source to the terminal",
				Timestamp: time.Now(),
			})
		}
		if completed {
			result.Events = append(result.Events, GameEvent{
				Type:      "victory",
				Message:   state.Message,
				Timestamp: time.Now(),
			})
		}
	}

	// Auto-save session after rotation
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after rotation: %v\n", sessionID, err)
	}

	return result, nil
}

// Reset restores a session's board to its initial scrambled state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Engine.Reset()

	// Auto-save session after reset
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after reset: %v\n", sessionID, err)
	}

	return state, nil
}

// CheckWin evaluates the win condition for a session
func (s *gameServiceImpl) CheckWin(ctx context.Context, sessionID string) (*WinStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	completed := sess.Engine.CheckWin()
	state := sess.Engine.GetState()

	if completed {
		if err := s.sessions.Save(sessionID); err != nil {
			fmt.Printf("Warning: Failed to persist session %s after win check: %v\n", sessionID, err)
		}
	}

	return &WinStatus{
		Completed: completed,
		Connected: sess.Engine.IsConnected(),
		Message:   state.Message,
		GameState: state,
	}, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetCircuitStatus describes the live circuit for a session
func (s *gameServiceImpl) GetCircuitStatus(ctx context.Context, sessionID string) (*CircuitInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	grid := sess.Engine.GetGrid()
	solution := engine.NewSolution(sess.Level.Solution)

	connectedPositions := sess.Engine.GetState().ConnectedPositions
	if connectedPositions == nil {
		connectedPositions = []engine.Position{}
	}

	return &CircuitInfo{
		Connected:          sess.Engine.IsConnected(),
		Path:               sess.Engine.FindPath(),
		ConnectedPositions: connectedPositions,
		EnergizedRatio:     engine.EnergizedRatio(grid),
		MismatchCount:      len(engine.Mismatches(grid, solution)),
		Status:             engine.AnalyzeCircuitStatus(grid, solution),
	}, nil
}

// GetRotationHistory returns paginated rotation history
func (s *gameServiceImpl) GetRotationHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetRotationHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var rotations []engine.RotationHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			rotations = append(rotations, history[i])
		}
	} else {
		if start < total {
			rotations = history[start:end]
		}
	}

	if rotations == nil {
		rotations = []engine.RotationHistoryEntry{}
	}

	return &HistoryResponse{
		Rotations:   rotations,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListLevels returns available level definitions
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.levels.ListLevels()
}

// LoadLevel loads a specific level definition
func (s *gameServiceImpl) LoadLevel(ctx context.Context, levelName string) (*engine.LevelConfig, error) {
	return s.levels.LoadLevel(levelName)
}

// SaveLevel saves a level definition to disk
func (s *gameServiceImpl) SaveLevel(ctx context.Context, levelName string, config *engine.LevelConfig) error {
	return s.levels.SaveLevel(levelName, config)
}

// GenerateLevel procedurally creates a level, saves it, and returns it
func (s *gameServiceImpl) GenerateLevel(ctx context.Context, levelName string, difficulty engine.Difficulty) (*engine.LevelConfig, error) {
	if levelName == "" {
		return nil, fmt.Errorf("level name is required")
	}

	generator := engine.NewLevelGenerator(difficulty, nil)
	config, err := generator.Generate(levelName)
	if err != nil {
		return nil, fmt.Errorf("failed to generate level: %w", err)
	}

	if err := s.levels.SaveLevel(levelName, config); err != nil {
		return nil, fmt.Errorf("failed to save generated level: %w", err)
	}

	return config, nil
}
