// Package mcp provides Model Context Protocol server implementation for the circuit repair game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for puzzle operations
//   - Session-aware command execution
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - game_state: Get current board state with grid visualization
//   - rotate_tile: Rotate one tile 90 degrees clockwise
//   - rotate_sequence: Execute multiple rotations in sequence
//   - circuit_status: Live connectivity report and energized path
//   - check_win: Evaluate the win condition explicitly
//   - reset_game: Reset board to scrambled state
//   - rotation_history: Retrieve rotation history with pagination
//   - create_session: Create new game session with level selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - list_levels: List available levels
//   - describe_tile: Inspect one tile's type, rotation and open ports
//   - game_instructions: Comprehensive rules and strategy notes
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: HTTP endpoint for remote MCP integration
//
// The client is a thin proxy: every tool call is translated into a REST call
// against the API server, so MCP agents and browser clients always observe
// the same session state.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	response := client.GetMCPServer().HandleMessage(ctx, body)
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Autonomously solve puzzles
//   - Inspect wire orientation before rotating
//   - Track progress via the energized path
//   - Manage multiple game sessions
//   - Learn from rotation history
package mcp
