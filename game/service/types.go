package service

import (
	"time"

	"github.com/mazequest/mazequest/game/engine"
	"github.com/mazequest/mazequest/game/lifecycle"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	Session        lifecycle.Snapshot `json:"session"`
	Grid           *engine.Config     `json:"grid,omitempty"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	// Moved reports whether the player was displaced. A blocked or
	// edge move leaves it false.
	Moved bool `json:"moved"`

	// Blocked reports an obstacle hit; the session will auto-reset
	// after the grace period unless restarted first.
	Blocked bool `json:"blocked"`

	// Won reports that this move reached the goal
	Won bool `json:"won"`

	Events  []engine.Event     `json:"events"`
	Session lifecycle.Snapshot `json:"session"`
}

// SubmitResult contains the result of a feedback submission
type SubmitResult struct {
	Submitted *lifecycle.SubmittedFeedback `json:"submitted"`
	Session   lifecycle.Snapshot           `json:"session"`
}

// ContactFormView reports the contact form load state. While Pending
// is true the stage is already ContactOpen but the form content has
// not arrived yet.
type ContactFormView struct {
	Pending bool            `json:"pending"`
	Form    *lifecycle.Form `json:"form,omitempty"`
}
