// Package api provides HTTP REST API handlers for the circuit repair game.
//
// The api package implements:
//   - RESTful endpoints for puzzle operations
//   - Session management endpoints
//   - Level listing, creation and procedural generation
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session (body: {"level_id": "level_1"})
//   - GET /api/sessions - List all sessions (sort, order, limit query params)
//   - GET /api/sessions/overview - Multi-board overview
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/rotate - Rotate a tile (body: {"x": 1, "y": 2})
//   - POST /api/sessions/{id}/reset - Reset the board to its scrambled state
//   - POST /api/sessions/{id}/check-win - Evaluate the win condition
//   - GET /api/sessions/{id}/circuit - Live circuit status and energized path
//   - GET /api/sessions/{id}/history - Rotation history with pagination
//
// Levels:
//   - GET /api/levels - List available levels
//   - POST /api/levels - Save a level definition
//   - POST /api/levels/generate - Generate a level (body: {"name": "...", "difficulty": "easy"})
//   - GET /api/levels/{name} - Get a level definition
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Errors are returned as JSON with
// appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
