// Package service exposes all game operations behind a single
// GameService facade consumed by the REST API, the WebSocket layer,
// and the MCP transport.
//
// The service owns no game state itself; it resolves sessions through
// the session manager and delegates to each session's lifecycle,
// translating lifecycle state into transport-friendly DTOs.
package service
