// Package engine provides the core movement logic for the Maze Quest game.
//
// The engine package implements the game mechanics including:
//   - Grid geometry and cell classification
//   - Bounds checking and obstacle collision
//   - Goal detection and the monotonic won flag
//   - Semantic movement events consumed by the session lifecycle
//
// Core Types:
//
// Grid is the static board geometry built from a validated Config.
// MovementEngine owns the player state and is the single entry point
// for directional input. AttemptMove returns the semantic events a
// move produced (Moved, Blocked, Won); invalid input degrades to a
// silent no-op rather than an error.
//
// Usage:
//
//	grid, err := engine.NewGrid(engine.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	eng := engine.NewMovementEngine(grid)
//	events := eng.AttemptMove(engine.DirRight)
//	state := eng.State()
//
// Game Rules:
//
// The player token starts at the configured start cell and must reach
// the goal cell. Moving onto an obstacle does not displace the player;
// it produces a Blocked event and the session lifecycle schedules an
// automatic reset. Moving onto the goal produces both a Moved and a
// Won event, after which further input is ignored until a restart.
package engine
