// Package websocket provides WebSocket transport for the circuit repair game.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - Automatic board-state broadcasting after rotations and resets
//   - Victory event notifications
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine pair that manages reading, writing, and cleanup.
//
// Message Protocol:
//
// Messages are JSON-encoded. Board updates carry the full GameState plus the
// event name:
//   - {session_id: "abc1", event: "state_update", game_state: {...}}
//   - {session_id: "abc1", event: "victory", data: "Circuit repaired!"}
//
// Rotations are not accepted over the socket; clients mutate sessions through
// the REST API and receive updates here.
//
// Session Integration:
//
// Clients specify their session ID via query parameter (?session=abc1) when
// establishing the connection. State updates are broadcast only to clients
// connected to the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// from an HTTP handler after validating the session
//	hub.ServeWS(w, r, sessionID)
package websocket
