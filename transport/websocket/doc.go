// Package websocket pushes live game updates to browser clients.
//
// Clients connect per session and receive two kinds of frames: full
// session snapshots after each state change, and semantic sound cues
// (move, blocked, win) that the client renders as audio. The socket is
// one-way; player input goes through the REST API.
package websocket
