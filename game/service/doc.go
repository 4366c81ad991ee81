// Package service defines the game service layer that coordinates sessions,
// level definitions, and puzzle operations behind a single interface.
//
// GameService is the contract consumed by the HTTP API, the WebSocket hub,
// and the MCP transport. It owns cross-cutting concerns the engine does not:
// session lookup, level resolution, event extraction, and auto-persistence
// after state-changing operations.
package service
