package service

import (
	"context"

	"github.com/mazequest/mazequest/game/engine"
	"github.com/mazequest/mazequest/game/lifecycle"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, id string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID string, dir engine.Direction) (*MoveResult, error)
	Restart(ctx context.Context, sessionID string) (*lifecycle.Snapshot, error)
	State(ctx context.Context, sessionID string) (*lifecycle.Snapshot, error)

	// Post-victory workflow
	OpenFeedback(ctx context.Context, sessionID string) (*lifecycle.Snapshot, error)
	UpdateDraft(ctx context.Context, sessionID, text string, rating int) (*lifecycle.Draft, error)
	SubmitFeedback(ctx context.Context, sessionID string) (*SubmitResult, error)
	ContactForm(ctx context.Context, sessionID string) (*ContactFormView, error)
}
