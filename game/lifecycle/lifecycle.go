package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mazequest/mazequest/game/engine"
)

// DefaultResetDelay is the grace period between an obstacle hit and
// the automatic session restart. The blocked position stays visible
// for the whole delay.
const DefaultResetDelay = 1500 * time.Millisecond

// ErrInvalidStage rejects an action issued in the wrong stage
var ErrInvalidStage = errors.New("action not allowed in current stage")

// Options configures a Lifecycle. Zero-value fields fall back to
// no-op collaborators and the default reset delay.
type Options struct {
	Drafts     DraftStore
	Sounds     SoundNotifier
	Forms      ContactFormLoader
	ResetDelay time.Duration
	Logger     *logrus.Entry
}

// Lifecycle owns the session stage and orchestrates the engine, the
// feedback draft, and the post-victory workflow. It is the single
// writer of session state; every public method serializes through
// one mutex.
type Lifecycle struct {
	mu sync.Mutex

	engine *engine.MovementEngine
	stage  Stage

	draft     Draft
	submitted *SubmittedFeedback

	drafts DraftStore
	sounds SoundNotifier
	forms  ContactFormLoader
	log    *logrus.Entry

	// Obstacle auto-reset. resetPending guards the timer callback:
	// a stopped timer that already fired becomes a no-op.
	resetDelay   time.Duration
	resetTimer   *time.Timer
	resetPending bool

	// Contact form load. loadGen invalidates in-flight loads on
	// restart; a stale result is discarded on arrival.
	loadGen     uint64
	loadCancel  context.CancelFunc
	contactForm *Form
	formPending bool
}

// Snapshot is a read-only view of the full session state
type Snapshot struct {
	Stage              Stage              `json:"stage"`
	Player             engine.State       `json:"player"`
	Draft              Draft              `json:"draft"`
	Submitted          *SubmittedFeedback `json:"submitted,omitempty"`
	ContactForm        *Form              `json:"contact_form,omitempty"`
	ContactFormPending bool               `json:"contact_form_pending,omitempty"`
}

// New creates a session lifecycle in the Playing stage. The feedback
// draft is restored from the DraftStore eagerly so that a reload
// mid-draft shows the previously entered text once the form is
// reopened.
func New(eng *engine.MovementEngine, opts Options) *Lifecycle {
	l := &Lifecycle{
		engine:     eng,
		stage:      StagePlaying,
		drafts:     opts.Drafts,
		sounds:     opts.Sounds,
		forms:      opts.Forms,
		resetDelay: opts.ResetDelay,
		log:        opts.Logger,
	}
	if l.sounds == nil {
		l.sounds = NopSoundNotifier{}
	}
	if l.resetDelay <= 0 {
		l.resetDelay = DefaultResetDelay
	}
	if l.log == nil {
		l.log = logrus.NewEntry(logrus.StandardLogger())
	}

	l.restoreDraft()
	return l
}

// Move applies a directional intent and returns the semantic events
// it produced. Sound cues and stage transitions are dispatched here:
// Moved plays the move cue, Blocked plays the blocked cue and arms
// the auto-reset timer, Won plays the win cue and enters Victory.
func (l *Lifecycle) Move(dir engine.Direction) []engine.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stage != StagePlaying {
		return nil
	}

	events := l.engine.AttemptMove(dir)
	for _, ev := range events {
		switch ev.Type {
		case engine.EventMoved:
			l.sounds.Notify(CueMove)
		case engine.EventBlocked:
			l.sounds.Notify(CueBlocked)
			l.scheduleResetLocked()
		case engine.EventWon:
			l.sounds.Notify(CueWin)
			l.stage = StageVictory
			l.cancelResetLocked()
		}
	}
	return events
}

// OpenFeedback moves the session from Victory to FeedbackOpen
func (l *Lifecycle) OpenFeedback() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stage != StageVictory {
		return fmt.Errorf("open feedback: %w (stage %s)", ErrInvalidStage, l.stage)
	}
	l.stage = StageFeedbackOpen
	return nil
}

// UpdateDraft records a feedback draft mutation and persists it
// immediately. Persistence failures are logged and otherwise ignored;
// the in-memory draft is authoritative for the running session.
func (l *Lifecycle) UpdateDraft(text string, rating int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stage != StageFeedbackOpen {
		return fmt.Errorf("update draft: %w (stage %s)", ErrInvalidStage, l.stage)
	}
	if err := validateRating(rating); err != nil {
		return err
	}

	l.draft = Draft{Text: text, Rating: rating}
	l.persistDraft()
	return nil
}

// Draft returns the current feedback draft
func (l *Lifecycle) Draft() Draft {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.draft
}

// SubmitFeedback validates the draft and, if valid, snapshots it,
// clears the draft from memory and store, and advances the session
// through FeedbackSubmitted into ContactOpen. The contact form load
// starts immediately; until it resolves the form is pending, which
// is a presentation concern and not a separate stage.
func (l *Lifecycle) SubmitFeedback() (*SubmittedFeedback, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stage != StageFeedbackOpen {
		return nil, fmt.Errorf("submit feedback: %w (stage %s)", ErrInvalidStage, l.stage)
	}
	if err := l.draft.Validate(); err != nil {
		return nil, err
	}

	l.submitted = &SubmittedFeedback{Text: l.draft.Text, Rating: l.draft.Rating}
	l.draft = Draft{}
	l.clearStoredDraft()

	// FeedbackSubmitted is pass-through: there is no stage where only
	// the thank-you message is shown without the form being requested.
	l.stage = StageFeedbackSubmitted
	l.enterContactOpenLocked()

	return l.submitted, nil
}

func (l *Lifecycle) enterContactOpenLocked() {
	l.stage = StageContactOpen
	l.startFormLoadLocked()
}

// Submitted returns the feedback snapshot captured at submission
// time, or nil outside the FeedbackSubmitted/ContactOpen stages.
func (l *Lifecycle) Submitted() *SubmittedFeedback {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.submitted
}

// ContactForm returns the loaded contact form and whether a load is
// still in flight.
func (l *Lifecycle) ContactForm() (*Form, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.contactForm, l.formPending
}

// Restart returns the session to the canonical initial state from
// any stage: player at start, won flag cleared, stage Playing, draft
// cleared from memory and store, submitted feedback discarded, any
// pending auto-reset cancelled, any in-flight form load invalidated.
func (l *Lifecycle) Restart() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.restartLocked()
}

// Stage returns the active session stage
func (l *Lifecycle) Stage() Stage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stage
}

// Snapshot returns a read-only view of the full session state
func (l *Lifecycle) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Close releases the lifecycle's timer and any in-flight form load.
// The session is unusable afterwards.
func (l *Lifecycle) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancelResetLocked()
	l.invalidateFormLoadLocked()
}

func (l *Lifecycle) snapshotLocked() Snapshot {
	return Snapshot{
		Stage:              l.stage,
		Player:             l.engine.State(),
		Draft:              l.draft,
		Submitted:          l.submitted,
		ContactForm:        l.contactForm,
		ContactFormPending: l.formPending,
	}
}

func (l *Lifecycle) restartLocked() Snapshot {
	l.cancelResetLocked()
	l.invalidateFormLoadLocked()

	l.engine.Reset()
	l.stage = StagePlaying
	l.draft = Draft{}
	l.submitted = nil
	l.contactForm = nil
	l.clearStoredDraft()

	return l.snapshotLocked()
}

// scheduleResetLocked arms the obstacle auto-reset timer. Re-arming
// replaces a pending timer rather than duplicating it.
func (l *Lifecycle) scheduleResetLocked() {
	if l.resetTimer != nil {
		l.resetTimer.Stop()
	}
	l.resetPending = true
	l.resetTimer = time.AfterFunc(l.resetDelay, l.onResetTimer)
}

func (l *Lifecycle) onResetTimer() {
	l.mu.Lock()
	defer l.mu.Unlock()

	// A restart or stage transition may have raced the firing timer;
	// resetPending is cleared under the lock, so a cancelled timer
	// that already fired does nothing here.
	if !l.resetPending || l.stage != StagePlaying {
		return
	}
	l.log.WithField("stage", l.stage).Debug("obstacle grace period elapsed, restarting session")
	l.restartLocked()
}

func (l *Lifecycle) cancelResetLocked() {
	l.resetPending = false
	if l.resetTimer != nil {
		l.resetTimer.Stop()
		l.resetTimer = nil
	}
}

// startFormLoadLocked kicks off the asynchronous contact form load.
// The result is delivered back under the lock and discarded if the
// generation has moved on.
func (l *Lifecycle) startFormLoadLocked() {
	if l.forms == nil {
		l.formPending = false
		return
	}

	l.loadGen++
	gen := l.loadGen
	l.formPending = true

	ctx, cancel := context.WithCancel(context.Background())
	l.loadCancel = cancel

	go func() {
		form, err := l.forms.Load(ctx)

		l.mu.Lock()
		defer l.mu.Unlock()

		if gen != l.loadGen || l.stage != StageContactOpen {
			// Session restarted while the load was in flight.
			return
		}
		l.formPending = false
		if err != nil {
			// Load failure is presentation-defined; it must not
			// corrupt the lifecycle state.
			l.log.WithError(err).Warn("contact form load failed")
			return
		}
		l.contactForm = form
	}()
}

func (l *Lifecycle) invalidateFormLoadLocked() {
	l.loadGen++
	l.formPending = false
	if l.loadCancel != nil {
		l.loadCancel()
		l.loadCancel = nil
	}
}

// restoreDraft loads any persisted draft at session start. Called
// from New before the lifecycle is shared, so no locking.
func (l *Lifecycle) restoreDraft() {
	if l.drafts == nil {
		return
	}

	if text, ok, err := l.drafts.Load(KeyFeedbackDraft); err != nil {
		l.log.WithError(err).Debug("draft text restore failed")
	} else if ok {
		l.draft.Text = text
	}

	if raw, ok, err := l.drafts.Load(KeyRatingDraft); err != nil {
		l.log.WithError(err).Debug("draft rating restore failed")
	} else if ok {
		l.draft.Rating = decodeRating(raw)
	}
}

func (l *Lifecycle) persistDraft() {
	if l.drafts == nil {
		return
	}
	if err := l.drafts.Save(KeyFeedbackDraft, l.draft.Text); err != nil {
		l.log.WithError(err).Debug("draft text save failed")
	}
	if err := l.drafts.Save(KeyRatingDraft, encodeRating(l.draft.Rating)); err != nil {
		l.log.WithError(err).Debug("draft rating save failed")
	}
}

func (l *Lifecycle) clearStoredDraft() {
	if l.drafts == nil {
		return
	}
	if err := l.drafts.Clear(KeyFeedbackDraft); err != nil {
		l.log.WithError(err).Debug("draft text clear failed")
	}
	if err := l.drafts.Clear(KeyRatingDraft); err != nil {
		l.log.WithError(err).Debug("draft rating clear failed")
	}
}
