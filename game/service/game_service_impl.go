package service

import (
	"context"
	"fmt"

	"github.com/mazequest/mazequest/game/engine"
	"github.com/mazequest/mazequest/game/lifecycle"
	"github.com/mazequest/mazequest/game/session"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions *session.Manager
}

// NewGameService creates a new game service instance
func NewGameService(sessions *session.Manager) GameService {
	return &gameServiceImpl{sessions: sessions}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, id string) (*SessionInfo, error) {
	sess, err := s.sessions.Create(id)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return s.sessionInfo(sess, true), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.resolve(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, true), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, false))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(sessionID)
}

// Move applies a directional intent to a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, dir engine.Direction) (*MoveResult, error) {
	sess, err := s.resolve(sessionID)
	if err != nil {
		return nil, err
	}

	events := sess.Lifecycle.Move(dir)
	result := &MoveResult{
		Events:  events,
		Session: sess.Lifecycle.Snapshot(),
	}
	for _, ev := range events {
		switch ev.Type {
		case engine.EventMoved:
			result.Moved = true
		case engine.EventBlocked:
			result.Blocked = true
		case engine.EventWon:
			result.Won = true
		}
	}
	if result.Events == nil {
		result.Events = []engine.Event{}
	}
	return result, nil
}

// Restart returns a session to the canonical initial state
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*lifecycle.Snapshot, error) {
	sess, err := s.resolve(sessionID)
	if err != nil {
		return nil, err
	}
	snap := sess.Lifecycle.Restart()
	return &snap, nil
}

// State retrieves the current session snapshot
func (s *gameServiceImpl) State(ctx context.Context, sessionID string) (*lifecycle.Snapshot, error) {
	sess, err := s.resolve(sessionID)
	if err != nil {
		return nil, err
	}
	snap := sess.Lifecycle.Snapshot()
	return &snap, nil
}

// OpenFeedback moves a session from Victory to FeedbackOpen
func (s *gameServiceImpl) OpenFeedback(ctx context.Context, sessionID string) (*lifecycle.Snapshot, error) {
	sess, err := s.resolve(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Lifecycle.OpenFeedback(); err != nil {
		return nil, err
	}
	snap := sess.Lifecycle.Snapshot()
	return &snap, nil
}

// UpdateDraft records a feedback draft mutation
func (s *gameServiceImpl) UpdateDraft(ctx context.Context, sessionID, text string, rating int) (*lifecycle.Draft, error) {
	sess, err := s.resolve(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Lifecycle.UpdateDraft(text, rating); err != nil {
		return nil, err
	}
	draft := sess.Lifecycle.Draft()
	return &draft, nil
}

// SubmitFeedback validates and submits the feedback draft
func (s *gameServiceImpl) SubmitFeedback(ctx context.Context, sessionID string) (*SubmitResult, error) {
	sess, err := s.resolve(sessionID)
	if err != nil {
		return nil, err
	}
	submitted, err := sess.Lifecycle.SubmitFeedback()
	if err != nil {
		return nil, err
	}
	return &SubmitResult{
		Submitted: submitted,
		Session:   sess.Lifecycle.Snapshot(),
	}, nil
}

// ContactForm reports the contact form load state
func (s *gameServiceImpl) ContactForm(ctx context.Context, sessionID string) (*ContactFormView, error) {
	sess, err := s.resolve(sessionID)
	if err != nil {
		return nil, err
	}
	form, pending := sess.Lifecycle.ContactForm()
	return &ContactFormView{Pending: pending, Form: form}, nil
}

func (s *gameServiceImpl) resolve(sessionID string) (*session.Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) sessionInfo(sess *session.Session, includeGrid bool) *SessionInfo {
	info := &SessionInfo{
		ID:             sess.ID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Session:        sess.Lifecycle.Snapshot(),
	}
	if includeGrid {
		info.Grid = sess.Config
	}
	return info
}
