package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mazequest/mazequest/game/engine"
)

func testGridConfig() *engine.Config {
	config := &engine.Config{
		Name:   "Lifecycle Test Config",
		Width:  5,
		Height: 4,
		Start:  engine.Coordinate{X: 1, Y: 1},
		Goal:   engine.Coordinate{X: 5, Y: 4},
		Obstacles: []engine.Coordinate{
			{X: 2, Y: 1},
			{X: 3, Y: 3},
		},
	}
	return config
}

// winningPath avoids both obstacles of the test board
var winningPath = []engine.Direction{
	engine.DirDown, engine.DirDown, engine.DirDown,
	engine.DirRight, engine.DirRight, engine.DirRight, engine.DirRight,
}

// memoryDrafts is a map-backed DraftStore for tests
type memoryDrafts struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryDrafts() *memoryDrafts {
	return &memoryDrafts{values: make(map[string]string)}
}

func (m *memoryDrafts) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryDrafts) Load(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memoryDrafts) Clear(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memoryDrafts) get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok
}

// recordingSounds captures cues in order
type recordingSounds struct {
	mu   sync.Mutex
	cues []Cue
}

func (r *recordingSounds) Notify(cue Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, cue)
}

func (r *recordingSounds) all() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Cue(nil), r.cues...)
}

// stubFormLoader returns a fixed form, optionally gated on a channel
type stubFormLoader struct {
	form    *Form
	err     error
	release chan struct{}
}

func (s *stubFormLoader) Load(ctx context.Context) (*Form, error) {
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.form, s.err
}

type fixture struct {
	lc      *Lifecycle
	drafts  *memoryDrafts
	sounds  *recordingSounds
	loader  *stubFormLoader
}

func newFixture(t *testing.T, delay time.Duration) *fixture {
	t.Helper()
	grid, err := engine.NewGrid(testGridConfig())
	if err != nil {
		t.Fatalf("Failed to create grid: %v", err)
	}

	f := &fixture{
		drafts: newMemoryDrafts(),
		sounds: &recordingSounds{},
		loader: &stubFormLoader{form: &Form{Title: "Get in touch"}},
	}
	f.lc = New(engine.NewMovementEngine(grid), Options{
		Drafts:     f.drafts,
		Sounds:     f.sounds,
		Forms:      f.loader,
		ResetDelay: delay,
	})
	t.Cleanup(f.lc.Close)
	return f
}

// win drives the session into the Victory stage
func (f *fixture) win(t *testing.T) {
	t.Helper()
	for _, dir := range winningPath {
		f.lc.Move(dir)
	}
	if f.lc.Stage() != StageVictory {
		t.Fatalf("Expected Victory stage after winning path, got %s", f.lc.Stage())
	}
}

// openAndFill drives the session into FeedbackOpen with a valid draft
func (f *fixture) openAndFill(t *testing.T) {
	t.Helper()
	f.win(t)
	if err := f.lc.OpenFeedback(); err != nil {
		t.Fatalf("OpenFeedback failed: %v", err)
	}
	if err := f.lc.UpdateDraft("Great little game!", 4); err != nil {
		t.Fatalf("UpdateDraft failed: %v", err)
	}
}

// waitForForm polls until the contact form load settles
func waitForForm(t *testing.T, lc *Lifecycle) *Form {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if form, pending := lc.ContactForm(); !pending {
			return form
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("Contact form load did not settle in time")
	return nil
}

func TestLifecycle_InitialState(t *testing.T) {
	f := newFixture(t, DefaultResetDelay)

	snap := f.lc.Snapshot()
	if snap.Stage != StagePlaying {
		t.Errorf("Expected Playing stage, got %s", snap.Stage)
	}
	if snap.Player.Position != (engine.Coordinate{X: 1, Y: 1}) {
		t.Errorf("Expected player at start, got %+v", snap.Player.Position)
	}
	if snap.Draft != (Draft{}) {
		t.Errorf("Expected empty draft, got %+v", snap.Draft)
	}
	if snap.Submitted != nil {
		t.Error("Expected no submitted feedback initially")
	}
}

func TestLifecycle_MoveCues(t *testing.T) {
	f := newFixture(t, DefaultResetDelay)

	f.lc.Move(engine.DirDown)
	f.lc.Move(engine.DirUp)
	events := f.lc.Move(engine.DirRight) // obstacle at (2,1)

	if len(events) != 1 || events[0].Type != engine.EventBlocked {
		t.Fatalf("Expected Blocked event, got %v", events)
	}

	cues := f.sounds.all()
	want := []Cue{CueMove, CueMove, CueBlocked}
	if len(cues) != len(want) {
		t.Fatalf("Expected %d cues, got %v", len(want), cues)
	}
	for i := range want {
		if cues[i] != want[i] {
			t.Errorf("Cue %d: expected %s, got %s", i, want[i], cues[i])
		}
	}
}

func TestLifecycle_VictoryPlaysWinCue(t *testing.T) {
	f := newFixture(t, DefaultResetDelay)
	f.win(t)

	cues := f.sounds.all()
	if len(cues) == 0 || cues[len(cues)-1] != CueWin {
		t.Errorf("Expected final cue to be win, got %v", cues)
	}
	// The goal move also produced a move cue before the win cue.
	if len(cues) != len(winningPath)+1 {
		t.Errorf("Expected %d cues, got %d", len(winningPath)+1, len(cues))
	}
}

func TestLifecycle_BlockedAutoReset(t *testing.T) {
	f := newFixture(t, 20*time.Millisecond)

	// Walk to (2,3), then run into the obstacle at (3,3).
	f.lc.Move(engine.DirDown)
	f.lc.Move(engine.DirDown)
	f.lc.Move(engine.DirRight)
	blocked := f.lc.Move(engine.DirRight)
	if len(blocked) != 1 || blocked[0].Type != engine.EventBlocked {
		t.Fatalf("Expected Blocked event, got %v", blocked)
	}

	// The blocked position stays visible during the grace period.
	if pos := f.lc.Snapshot().Player.Position; pos != (engine.Coordinate{X: 2, Y: 3}) {
		t.Errorf("Expected player held at (2,3) during grace period, got %+v", pos)
	}

	time.Sleep(100 * time.Millisecond)

	snap := f.lc.Snapshot()
	if snap.Stage != StagePlaying {
		t.Errorf("Expected Playing stage after auto-reset, got %s", snap.Stage)
	}
	if snap.Player.Position != (engine.Coordinate{X: 1, Y: 1}) {
		t.Errorf("Expected player back at start after auto-reset, got %+v", snap.Player.Position)
	}
	if snap.Player.HasWon {
		t.Error("Expected won flag false after auto-reset")
	}
}

func TestLifecycle_RestartCancelsPendingReset(t *testing.T) {
	f := newFixture(t, 50*time.Millisecond)

	f.lc.Move(engine.DirRight) // blocked, timer armed
	f.lc.Restart()

	// Build up fresh state; a stale timer firing would wipe it.
	f.lc.Move(engine.DirDown)
	f.lc.Move(engine.DirDown)

	time.Sleep(120 * time.Millisecond)

	if pos := f.lc.Snapshot().Player.Position; pos != (engine.Coordinate{X: 1, Y: 3}) {
		t.Errorf("Stale reset timer clobbered fresh state: player at %+v", pos)
	}
}

func TestLifecycle_VictoryCancelsPendingReset(t *testing.T) {
	f := newFixture(t, 60*time.Millisecond)

	f.lc.Move(engine.DirRight) // blocked, timer armed
	f.win(t)

	time.Sleep(150 * time.Millisecond)

	if stage := f.lc.Stage(); stage != StageVictory {
		t.Errorf("Expected Victory to survive the stale timer, got %s", stage)
	}
}

func TestLifecycle_RepeatBlockedReplacesTimer(t *testing.T) {
	f := newFixture(t, 40*time.Millisecond)

	f.lc.Move(engine.DirRight)
	f.lc.Move(engine.DirRight) // second Blocked re-arms, must not duplicate

	time.Sleep(100 * time.Millisecond)

	// After the single reset, new progress must stick.
	f.lc.Move(engine.DirDown)
	time.Sleep(100 * time.Millisecond)

	if pos := f.lc.Snapshot().Player.Position; pos != (engine.Coordinate{X: 1, Y: 2}) {
		t.Errorf("Duplicated reset timer clobbered fresh state: player at %+v", pos)
	}
}

func TestLifecycle_OpenFeedbackRequiresVictory(t *testing.T) {
	f := newFixture(t, DefaultResetDelay)

	if err := f.lc.OpenFeedback(); !errors.Is(err, ErrInvalidStage) {
		t.Errorf("Expected ErrInvalidStage while Playing, got %v", err)
	}

	f.win(t)
	if err := f.lc.OpenFeedback(); err != nil {
		t.Errorf("Expected OpenFeedback to succeed from Victory, got %v", err)
	}
	if f.lc.Stage() != StageFeedbackOpen {
		t.Errorf("Expected FeedbackOpen stage, got %s", f.lc.Stage())
	}
}

func TestLifecycle_MoveIgnoredOutsidePlaying(t *testing.T) {
	f := newFixture(t, DefaultResetDelay)
	f.win(t)

	if events := f.lc.Move(engine.DirLeft); events != nil {
		t.Errorf("Expected move to be ignored in Victory, got %v", events)
	}
}

func TestLifecycle_DraftPersistedOnEveryMutation(t *testing.T) {
	f := newFixture(t, DefaultResetDelay)
	f.win(t)
	if err := f.lc.OpenFeedback(); err != nil {
		t.Fatalf("OpenFeedback failed: %v", err)
	}

	if err := f.lc.UpdateDraft("So", 0); err != nil {
		t.Fatalf("UpdateDraft failed: %v", err)
	}
	if err := f.lc.UpdateDraft("So fun", 5); err != nil {
		t.Fatalf("UpdateDraft failed: %v", err)
	}

	if text, _ := f.drafts.get(KeyFeedbackDraft); text != "So fun" {
		t.Errorf("Expected stored draft text %q, got %q", "So fun", text)
	}
	if rating, _ := f.drafts.get(KeyRatingDraft); rating != "5" {
		t.Errorf("Expected stored rating %q, got %q", "5", rating)
	}
}

func TestLifecycle_DraftRestoredAtStart(t *testing.T) {
	grid, err := engine.NewGrid(testGridConfig())
	if err != nil {
		t.Fatalf("Failed to create grid: %v", err)
	}

	drafts := newMemoryDrafts()
	drafts.Save(KeyFeedbackDraft, "half-typed thought")
	drafts.Save(KeyRatingDraft, "3")

	lc := New(engine.NewMovementEngine(grid), Options{Drafts: drafts})
	t.Cleanup(lc.Close)

	// Restored eagerly even though the session starts at Playing.
	if draft := lc.Draft(); draft.Text != "half-typed thought" || draft.Rating != 3 {
		t.Errorf("Expected restored draft, got %+v", draft)
	}
}

func TestLifecycle_DraftRestoreGarbageRating(t *testing.T) {
	grid, err := engine.NewGrid(testGridConfig())
	if err != nil {
		t.Fatalf("Failed to create grid: %v", err)
	}

	drafts := newMemoryDrafts()
	drafts.Save(KeyRatingDraft, "five stars")

	lc := New(engine.NewMovementEngine(grid), Options{Drafts: drafts})
	t.Cleanup(lc.Close)

	if rating := lc.Draft().Rating; rating != 0 {
		t.Errorf("Expected unparseable rating to load as 0, got %d", rating)
	}
}

func TestLifecycle_UpdateDraftGuards(t *testing.T) {
	f := newFixture(t, DefaultResetDelay)

	if err := f.lc.UpdateDraft("too early", 3); !errors.Is(err, ErrInvalidStage) {
		t.Errorf("Expected ErrInvalidStage while Playing, got %v", err)
	}

	f.win(t)
	if err := f.lc.OpenFeedback(); err != nil {
		t.Fatalf("OpenFeedback failed: %v", err)
	}
	if err := f.lc.UpdateDraft("fine", 6); err == nil {
		t.Error("Expected error for rating above 5")
	}
	if err := f.lc.UpdateDraft("fine", -1); err == nil {
		t.Error("Expected error for negative rating")
	}
	if err := f.lc.UpdateDraft("clearing stars is fine", 0); err != nil {
		t.Errorf("Expected rating 0 to be a legal edit, got %v", err)
	}
}

func TestLifecycle_SubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		rating  int
		wantErr error
	}{
		{"empty text", "", 4, ErrEmptyFeedback},
		{"whitespace text", "   \t", 4, ErrEmptyFeedback},
		{"zero rating", "nice", 0, ErrNoRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, DefaultResetDelay)
			f.win(t)
			if err := f.lc.OpenFeedback(); err != nil {
				t.Fatalf("OpenFeedback failed: %v", err)
			}
			if err := f.lc.UpdateDraft(tt.text, tt.rating); err != nil {
				t.Fatalf("UpdateDraft failed: %v", err)
			}

			if _, err := f.lc.SubmitFeedback(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if f.lc.Stage() != StageFeedbackOpen {
				t.Errorf("Expected stage to stay FeedbackOpen, got %s", f.lc.Stage())
			}
			// Draft is retained on validation failure.
			if draft := f.lc.Draft(); draft.Text != tt.text || draft.Rating != tt.rating {
				t.Errorf("Expected draft retained, got %+v", draft)
			}
		})
	}
}

func TestLifecycle_SubmitAdvancesToContactOpen(t *testing.T) {
	f := newFixture(t, DefaultResetDelay)
	f.openAndFill(t)

	submitted, err := f.lc.SubmitFeedback()
	if err != nil {
		t.Fatalf("SubmitFeedback failed: %v", err)
	}
	if submitted.Text != "Great little game!" || submitted.Rating != 4 {
		t.Errorf("Unexpected submitted snapshot: %+v", submitted)
	}
	if f.lc.Stage() != StageContactOpen {
		t.Errorf("Expected ContactOpen stage, got %s", f.lc.Stage())
	}

	// Draft cleared from memory and store.
	if draft := f.lc.Draft(); draft != (Draft{}) {
		t.Errorf("Expected cleared draft, got %+v", draft)
	}
	if _, ok := f.drafts.get(KeyFeedbackDraft); ok {
		t.Error("Expected draft text cleared from store")
	}
	if _, ok := f.drafts.get(KeyRatingDraft); ok {
		t.Error("Expected draft rating cleared from store")
	}

	form := waitForForm(t, f.lc)
	if form == nil || form.Title != "Get in touch" {
		t.Errorf("Expected loaded contact form, got %+v", form)
	}
}

func TestLifecycle_SubmitOutsideFeedbackOpen(t *testing.T) {
	f := newFixture(t, DefaultResetDelay)

	if _, err := f.lc.SubmitFeedback(); !errors.Is(err, ErrInvalidStage) {
		t.Errorf("Expected ErrInvalidStage while Playing, got %v", err)
	}
}

func TestLifecycle_StaleFormLoadDiscarded(t *testing.T) {
	f := newFixture(t, DefaultResetDelay)
	f.loader.release = make(chan struct{})
	f.openAndFill(t)

	if _, err := f.lc.SubmitFeedback(); err != nil {
		t.Fatalf("SubmitFeedback failed: %v", err)
	}
	if _, pending := f.lc.ContactForm(); !pending {
		t.Fatal("Expected form load to be pending")
	}

	// Restart while the load is in flight, then let it finish.
	f.lc.Restart()
	close(f.loader.release)
	time.Sleep(20 * time.Millisecond)

	form, pending := f.lc.ContactForm()
	if form != nil || pending {
		t.Errorf("Expected stale load result discarded, got form=%+v pending=%v", form, pending)
	}
	if f.lc.Stage() != StagePlaying {
		t.Errorf("Expected Playing stage after restart, got %s", f.lc.Stage())
	}
}

func TestLifecycle_FormLoadFailureKeepsStage(t *testing.T) {
	f := newFixture(t, DefaultResetDelay)
	f.loader.form = nil
	f.loader.err = errors.New("form unavailable")
	f.openAndFill(t)

	if _, err := f.lc.SubmitFeedback(); err != nil {
		t.Fatalf("SubmitFeedback failed: %v", err)
	}

	form := waitForForm(t, f.lc)
	if form != nil {
		t.Errorf("Expected no form after load failure, got %+v", form)
	}
	if f.lc.Stage() != StageContactOpen {
		t.Errorf("Expected stage to stay ContactOpen after load failure, got %s", f.lc.Stage())
	}
}

func TestLifecycle_RestartFromEveryStage(t *testing.T) {
	stages := []struct {
		name  string
		drive func(t *testing.T, f *fixture)
	}{
		{"playing", func(t *testing.T, f *fixture) {
			f.lc.Move(engine.DirDown)
		}},
		{"victory", func(t *testing.T, f *fixture) {
			f.win(t)
		}},
		{"feedback_open", func(t *testing.T, f *fixture) {
			f.openAndFill(t)
		}},
		{"contact_open", func(t *testing.T, f *fixture) {
			f.openAndFill(t)
			if _, err := f.lc.SubmitFeedback(); err != nil {
				t.Fatalf("SubmitFeedback failed: %v", err)
			}
			waitForForm(t, f.lc)
		}},
	}

	for _, tt := range stages {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, DefaultResetDelay)
			tt.drive(t, f)

			snap := f.lc.Restart()
			if snap.Stage != StagePlaying {
				t.Errorf("Expected Playing stage, got %s", snap.Stage)
			}
			if snap.Player.Position != (engine.Coordinate{X: 1, Y: 1}) {
				t.Errorf("Expected player at (1,1), got %+v", snap.Player.Position)
			}
			if snap.Player.HasWon {
				t.Error("Expected won flag false")
			}
			if snap.Draft != (Draft{}) {
				t.Errorf("Expected empty draft, got %+v", snap.Draft)
			}
			if snap.Submitted != nil {
				t.Error("Expected submitted feedback discarded")
			}
			if snap.ContactForm != nil || snap.ContactFormPending {
				t.Error("Expected contact form unloaded")
			}
			if _, ok := f.drafts.get(KeyFeedbackDraft); ok {
				t.Error("Expected store draft text cleared")
			}
			if _, ok := f.drafts.get(KeyRatingDraft); ok {
				t.Error("Expected store draft rating cleared")
			}
		})
	}
}
