// Package session provides session management for the Maze Quest game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Per-session draft persistence namespacing
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session
// operations. Session represents an individual game session with its
// own lifecycle instance and metadata like creation time and last
// access time.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference, generated with
// cryptographic randomness.
//
// Draft Persistence:
//
// Each session's feedback draft is stored in the shared DraftStore
// under a session-scoped key prefix, so a client that reconnects to
// the same session finds its half-typed feedback again while other
// sessions remain isolated.
package session
