// Package session manages play session lifecycle: creation with generated
// IDs, case-insensitive lookup, expiry cleanup, and optional JSON file
// persistence that survives restarts.
package session
