package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mazequest/mazequest/game/engine"
	"github.com/mazequest/mazequest/game/lifecycle"
	"github.com/mazequest/mazequest/game/store"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Session represents an active game session
type Session struct {
	ID             string
	Lifecycle      *lifecycle.Lifecycle
	Config         *engine.Config
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// NotifierFactory builds the sound notifier for a session, typically
// one that broadcasts cues to the session's connected UI clients.
type NotifierFactory func(sessionID string) lifecycle.SoundNotifier

// Options configures a Manager
type Options struct {
	// Config is the grid used for new sessions. Defaults to the
	// built-in board.
	Config *engine.Config

	// Drafts is the shared draft store; each session gets a
	// key-prefixed view of it. Defaults to an in-memory store.
	Drafts lifecycle.DraftStore

	// Forms supplies the contact form for every session
	Forms lifecycle.ContactFormLoader

	// Sounds builds per-session sound notifiers. Optional.
	Sounds NotifierFactory

	// ResetDelay overrides the obstacle auto-reset grace period
	ResetDelay time.Duration

	Logger *logrus.Entry
}

// Manager handles game session lifecycle
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
	log      *logrus.Entry
}

// NewManager creates a new session manager
func NewManager(opts Options) *Manager {
	if opts.Config == nil {
		opts.Config = engine.DefaultConfig()
	}
	if opts.Drafts == nil {
		opts.Drafts = store.NewMemory()
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
		log:      log,
	}
}

// Create creates a new session with the given ID, generating one if
// empty. The session starts in the Playing stage with any previously
// persisted draft for that ID restored.
func (m *Manager) Create(id string) (*Session, error) {
	if id == "" {
		id = generateSessionID()
	}
	id = strings.ToLower(id)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; exists {
		return nil, ErrSessionAlreadyExists
	}

	grid, err := engine.NewGrid(m.opts.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to create grid: %w", err)
	}

	var sounds lifecycle.SoundNotifier
	if m.opts.Sounds != nil {
		sounds = m.opts.Sounds(id)
	}

	sess := &Session{
		ID: id,
		Lifecycle: lifecycle.New(engine.NewMovementEngine(grid), lifecycle.Options{
			Drafts:     store.WithPrefix(m.opts.Drafts, id+"/"),
			Sounds:     sounds,
			Forms:      m.opts.Forms,
			ResetDelay: m.opts.ResetDelay,
			Logger:     m.log.WithField("session", id),
		}),
		Config:         m.opts.Config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = sess
	m.log.WithField("session", id).Info("session created")
	return sess, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id string) (*Session, error) {
	sess, err := m.Get(id)
	if err == nil {
		return sess, nil
	}
	if errors.Is(err, ErrSessionNotFound) {
		sess, err = m.Create(id)
		if errors.Is(err, ErrSessionAlreadyExists) {
			// Lost a race to a concurrent creator.
			return m.Get(id)
		}
	}
	return sess, err
}

// List returns all active sessions
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	return result
}

// Delete removes a session, releasing its timers and clearing its
// persisted draft.
func (m *Manager) Delete(id string) error {
	id = strings.ToLower(id)

	m.mu.Lock()
	sess, exists := m.sessions[id]
	if exists {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !exists {
		return ErrSessionNotFound
	}

	sess.Lifecycle.Close()
	m.clearDrafts(id)
	m.log.WithField("session", id).Info("session deleted")
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}
	sess.LastAccessedAt = time.Now()
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed
// in the given duration and returns how many were removed.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	var expired []*Session
	for id, sess := range m.sessions {
		if sess.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, id)
			expired = append(expired, sess)
		}
	}
	m.mu.Unlock()

	for _, sess := range expired {
		sess.Lifecycle.Close()
		m.clearDrafts(sess.ID)
	}
	if len(expired) > 0 {
		m.log.WithField("count", len(expired)).Info("expired sessions removed")
	}
	return len(expired)
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) clearDrafts(id string) {
	drafts := store.WithPrefix(m.opts.Drafts, id+"/")
	for _, key := range []string{lifecycle.KeyFeedbackDraft, lifecycle.KeyRatingDraft} {
		if err := drafts.Clear(key); err != nil {
			m.log.WithError(err).WithField("session", id).Debug("draft cleanup failed")
		}
	}
}

// generateSessionID generates a random 4-character session ID
func generateSessionID() string {
	bytes := make([]byte, 2)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
