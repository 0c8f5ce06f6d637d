// Package api exposes the game over REST.
//
// All game mutations happen through these endpoints; the WebSocket at
// /ws is a one-way push channel for state snapshots and sound cues.
// Domain errors map onto status codes: unknown sessions are 404, stage
// violations are 409, and rejected feedback submissions are 422.
package api
