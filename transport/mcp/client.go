package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/voltlab/circuit-repair-game/game/engine"
	"github.com/voltlab/circuit-repair-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Circuit Repair Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Circuit Repair Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Rotate the wire tiles on the board until every tile sits at an accepted
rotation. Each click turns a tile 90 degrees clockwise. The power source and
terminal are fixed; only straight and corner wires rotate.

AVAILABLE TOOLS:
- game_state: Get current board state with grid visualization
- rotate_tile: Rotate one tile clockwise - requires intent explanation
- rotate_sequence: Rotate several tiles in order - requires intent explanation
- circuit_status: Live connectivity report and energized path
- check_win: Evaluate the win condition explicitly
- reset_game: Reset the board to its scrambled state
- rotation_history: View past rotations
- create_session: Create new game session
- get_session: Get session details
- list_sessions: List all active sessions
- list_levels: List available levels
- describe_tile: Get detailed info about one tile (type, rotation, open ports)
- game_instructions: Get comprehensive game instructions and rules

NOTE: The 'intent' parameter on rotate tools serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional level selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the level to play (optional, defaults to the default level)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "rotate_tile",
		Description: "Rotate the tile at (x, y) 90 degrees clockwise",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column) of the tile to rotate (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row) of the tile to rotate (0-based)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this rotation (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset the board before rotating",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleRotateTile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "rotate_sequence",
		Description: "Execute multiple rotations in sequence",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"rotations": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x": map[string]interface{}{"type": "integer"},
							"y": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"x", "y"},
					},
					"description": "Array of {x, y} tile coordinates, rotated in order",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of rotations (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset the board before rotating",
				},
			},
			Required: []string{"session_id", "rotations"},
		},
	}, c.handleRotateSequence)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "circuit_status",
		Description: "Get the live circuit report: connectivity, energized path, mismatch count",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleCircuitStatus)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "check_win",
		Description: "Evaluate the win condition for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleCheckWin)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the board to its scrambled starting rotations",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "rotation_history",
		Description: "Get rotation history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRotationHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List available levels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_tile",
		Description: "Get detailed information about one tile in the grid: its type, current rotation, whether it is clickable, and which directions its ports currently face. Useful for verifying wire orientation before rotating.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column) of the tile to describe (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row) of the tile to describe (0-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeTile)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	levelID, _ := args["level_id"].(string)

	body := map[string]string{}
	if levelID != "" {
		body["level_id"] = levelID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nLevel: %s\n", session.ID, session.LevelName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Level: %s, Created: %s)\n",
			s.ID, s.LevelName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRotateTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	x := int(args["x"].(float64))
	y := int(args["y"].(float64))
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	if reset {
		if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, nil); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	body := map[string]interface{}{
		"x": x,
		"y": y,
	}

	var result service.RotateResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/rotate", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatRotateResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleRotateSequence(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	rotationsRaw, _ := args["rotations"].([]interface{})
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	if reset {
		if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, nil); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	type step struct {
		x, y int
	}
	steps := make([]step, 0, len(rotationsRaw))
	for _, r := range rotationsRaw {
		m, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		xf, okX := m["x"].(float64)
		yf, okY := m["y"].(float64)
		if okX && okY {
			steps = append(steps, step{x: int(xf), y: int(yf)})
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Session: %s\n", sessionID))

	var last *service.RotateResult
	executed := 0
	stoppedReason := ""

	for i, s := range steps {
		body := map[string]interface{}{"x": s.x, "y": s.y}

		var result service.RotateResult
		err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/rotate", sessionID), body, &result)
		if err != nil {
			stoppedReason = err.Error()
			break
		}
		last = &result

		status := "✗"
		if result.Success {
			status = "✓"
		}
		if result.Rotated != nil {
			b.WriteString(fmt.Sprintf("%d. (%d,%d) %s %d°→%d° %s\n",
				i+1, s.x, s.y, result.Rotated.TileType,
				result.Rotated.FromRotation, result.Rotated.ToRotation, status))
		} else {
			b.WriteString(fmt.Sprintf("%d. (%d,%d) %s %s\n", i+1, s.x, s.y, status, result.Message))
		}

		if !result.Success {
			stoppedReason = result.Message
			break
		}
		executed++

		if result.Completed {
			stoppedReason = "puzzle solved"
			break
		}
	}

	b.WriteString(fmt.Sprintf("\nExecuted %d/%d rotations\n", executed, len(steps)))
	if stoppedReason != "" {
		b.WriteString(fmt.Sprintf("Stopped: %s\n", stoppedReason))
	}

	if last != nil {
		if len(last.Events) > 0 {
			b.WriteString("\nEvents:\n")
			for _, event := range last.Events {
				b.WriteString(fmt.Sprintf("- %s: %s\n", event.Type, event.Message))
			}
		}
		b.WriteString("\n")
		b.WriteString(formatGameState(last.GameState))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleCircuitStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var circuit service.CircuitInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/circuit", sessionID), nil, &circuit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Status: %s\n", circuit.Status))
	b.WriteString(fmt.Sprintf("Connected: %v\n", circuit.Connected))
	b.WriteString(fmt.Sprintf("Energized: %.0f%% of circuit tiles\n", circuit.EnergizedRatio*100))
	b.WriteString(fmt.Sprintf("Misrotated tiles: %d\n", circuit.MismatchCount))

	if len(circuit.Path) > 0 {
		b.WriteString("Path: ")
		parts := make([]string, len(circuit.Path))
		for i, p := range circuit.Path {
			parts[i] = fmt.Sprintf("(%d,%d)", p.X, p.Y)
		}
		b.WriteString(strings.Join(parts, " → "))
		b.WriteString("\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleCheckWin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var status service.WinStatus
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/check-win", sessionID), nil, &status)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	if status.Completed {
		b.WriteString("🎉 VICTORY! The circuit is repaired.\n")
	} else {
		b.WriteString("Not solved yet.\n")
	}
	b.WriteString(fmt.Sprintf("Connected: %v\n", status.Connected))
	if status.Message != "" {
		b.WriteString(fmt.Sprintf("Message: %s\n", status.Message))
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(status.GameState))

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRotationHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var levels []service.LevelInfo
	err := c.apiCall("GET", "/api/levels", nil, &levels)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Levels:\n\n"
	for _, level := range levels {
		result += fmt.Sprintf("• %s (id: %s)\n  %s\n  Grid: %dx%d, Movable tiles: %d\n\n",
			level.Name, level.LevelID, level.Description,
			level.GridSize, level.GridSize, level.MovableTiles)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🔌 Circuit Repair Game - Complete Instructions

GAME OBJECTIVE:
Repair the broken circuit by rotating wire tiles until every tile sits at an
accepted rotation. Current then flows from the power source to the terminal.

GAME MECHANICS:
• Rotation: Each click turns a tile 90 degrees clockwise and counts one move
• Fixed anchors: The power source and terminal never rotate
• Victory: Every tile at an accepted rotation (checked exactly, not by flow)
• Win latch: Once solved, the session stays solved; further rotations are refused
• Reset: Returns all tiles to their scrambled starting rotations, move count to 0

GRID LEGEND:
• * - Power source (fixed, emits current from one side)
• @ - Terminal (fixed, receives current on one side)
• ─ │ - Straight wire (connects two opposite sides)
• └ ┌ ┐ ┘ - Corner wire (connects two adjacent sides)
• . - Empty tile (no circuit, not clickable)

PORT ORIENTATION:
Every wire's open sides follow its rotation. A straight wire at 0° or 180°
spans east-west; at 90° or 270° it spans north-south. A corner at 0° opens
north+east, and each 90° click walks that pair clockwise (90°: east+south,
180°: south+west, 270°: west+north). Use describe_tile when unsure which way
a wire currently faces.

🤖 AI AGENTS - SUCCESS STRATEGIES:

🗺️ MAP BEFORE ROTATING:
- Fetch game_state and parse the grid tile by tile
- Locate the power source and terminal and note their fixed port directions
- Trace the intended wire path between them before touching anything

🧩 WORK OUTWARD FROM THE ANCHORS:
- Start at the power source: orient its neighbor to accept current, then
  follow the chain tile by tile toward the terminal
- circuit_status shows how far current reaches; the first dark tile after the
  energized run is usually the one to rotate next
- A straight wire has 2 useful orientations, a corner has 4: at most 3 clicks
  fix any single tile

⚡ VERIFY, DON'T ASSUME:
- Two tiles can look connected while their ports face away from each other;
  ports must face each other for current to pass
- Use describe_tile to confirm a wire's current open sides
- A fully connected circuit can still be unsolved if a straight wire sits at
  the "wrong" of its two equivalent rotations - check_win gives the authoritative answer

🎮 API USAGE BEST PRACTICES:
- Use rotate_sequence for efficiency once you have a plan
- Monitor circuit_status between batches to confirm progress
- Rotations are refused after victory; reset does not clear a solved state

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has a unique 4-character ID
- Sessions maintain independent board state and level
- Use session-specific tools for multi-game management

Remember: the win condition is exact tile rotations, not current flow. Close
the circuit first, then make sure every tile reports no mismatch.

Good luck repairing the circuit! 🔧⚡💡`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	x := int(args["x"].(float64))
	y := int(args["y"].(float64))

	// Get the current game state to access the grid
	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Check bounds
	if x < 0 || x >= state.GridSize || y < 0 || y >= state.GridSize {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Grid size is %dx%d (0-%d for both x and y)",
			x, y, state.GridSize, state.GridSize, state.GridSize-1)), nil
	}

	tile := findTile(&state, x, y)
	if tile == nil {
		return mcp.NewToolResultError(fmt.Sprintf("No tile found at (%d, %d)", x, y)), nil
	}

	tileChar := mapTileToChar(tile)
	energized := false
	for _, p := range state.ConnectedPositions {
		if p.X == x && p.Y == y {
			energized = true
			break
		}
	}

	ports := "none"
	if exits := tile.ExitDirections(); len(exits) > 0 {
		names := make([]string, len(exits))
		for i, d := range exits {
			names[i] = d.String()
		}
		ports = strings.Join(names, ", ")
	}

	result := fmt.Sprintf(`Tile at position (%d, %d):
━━━━━━━━━━━━━━━━━━━━━━━━
Character: %s
Type: %s
Rotation: %d°
Clickable: %v
Open ports: %s
Energized: %v

%s`,
		x, y,
		tileChar,
		tile.Type,
		tile.Rotation,
		tile.IsClickable,
		ports,
		energized,
		getTileReminder(tile))

	return mcp.NewToolResultText(result), nil
}

func getTileReminder(tile *engine.Tile) string {
	switch tile.Type {
	case engine.PowerSource:
		return "⚡ This is the power source. It is FIXED and emits current from the port listed above."
	case engine.Terminal:
		return "🎯 This is the terminal. It is FIXED; current must arrive through the port listed above."
	case engine.Straight:
		return "REMINDER: a straight wire connects two OPPOSITE sides. One click flips it between east-west and north-south."
	case engine.Corner:
		return "REMINDER: a corner wire connects two ADJACENT sides. Each click walks the open pair one step clockwise."
	case engine.Empty:
		return "This tile carries no circuit and cannot be rotated."
	default:
		return ""
	}
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nLevel: %s\nCreated: %s\n\n%s",
		session.ID, session.LevelName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	// Header
	result.WriteString(fmt.Sprintf("Level: %s | Moves: %d | Connected: %v | Completed: %v\n\n",
		state.LevelName, state.MoveCount, state.Connected, state.Completed))

	// Grid
	result.WriteString(renderGrid(state))

	// Status
	if state.Completed {
		result.WriteString("\n🎉 VICTORY!")
	} else if state.Connected {
		result.WriteString("\n⚡ Circuit closed - verify every tile with check_win")
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

// renderGrid draws the board row by row, top to bottom
func renderGrid(state *engine.GameState) string {
	grid := make([][]*engine.Tile, state.GridSize)
	for i := range grid {
		grid[i] = make([]*engine.Tile, state.GridSize)
	}
	for _, t := range state.Tiles {
		if t.Y >= 0 && t.Y < state.GridSize && t.X >= 0 && t.X < state.GridSize {
			grid[t.Y][t.X] = t
		}
	}

	var b strings.Builder
	for y := 0; y < state.GridSize; y++ {
		for x := 0; x < state.GridSize; x++ {
			if grid[y][x] == nil {
				b.WriteString(".")
				continue
			}
			b.WriteString(mapTileToChar(grid[y][x]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// mapTileToChar returns a single-character representation reflecting the
// tile's current orientation.
func mapTileToChar(tile *engine.Tile) string {
	switch tile.Type {
	case engine.PowerSource:
		return "*"
	case engine.Terminal:
		return "@"
	case engine.Straight:
		if tile.Rotation == 90 || tile.Rotation == 270 {
			return "│"
		}
		return "─"
	case engine.Corner:
		switch tile.Rotation {
		case 90:
			return "┌"
		case 180:
			return "┐"
		case 270:
			return "┘"
		default:
			return "└"
		}
	default:
		return "."
	}
}

func findTile(state *engine.GameState, x, y int) *engine.Tile {
	for _, t := range state.Tiles {
		if t.X == x && t.Y == y {
			return t
		}
	}
	return nil
}

func formatRotateResult(result *service.RotateResult) string {
	response := ""
	if result.Success {
		response = "✓ Rotation successful\n"
	} else {
		response = "✗ Rotation refused\n"
	}

	if result.Rotated != nil {
		r := result.Rotated
		response += fmt.Sprintf("Tile: (%d,%d) %s %d°→%d°\n",
			r.X, r.Y, r.TileType, r.FromRotation, r.ToRotation)
	}

	if !result.Success && result.Message != "" {
		response += fmt.Sprintf("Reason: %s\n", result.Message)
	}

	if len(result.Events) > 0 {
		response += "Events:\n"
		for _, event := range result.Events {
			response += fmt.Sprintf("- %s: %s\n", event.Type, event.Message)
		}
	}

	response += "\n" + formatGameState(result.GameState)
	return response
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Rotation History (Page %d/%d) — Total rotations: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	if len(history.Rotations) == 0 {
		return result + "(no rotations recorded)"
	}

	for _, entry := range history.Rotations {
		status := "✓"
		if !entry.Success {
			status = "✗"
		}
		result += fmt.Sprintf("%d. (%d,%d) %d°→%d° %s\n",
			entry.MoveNumber, entry.Position.X, entry.Position.Y,
			entry.FromRotation, entry.ToRotation, status)
	}

	return result
}
