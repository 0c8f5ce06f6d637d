package lifecycle

import "context"

// Cue is a semantic sound event name. The concrete audio rendering
// lives with the presentation layer.
type Cue string

const (
	CueMove    Cue = "move"
	CueBlocked Cue = "blocked"
	CueWin     Cue = "win"
)

// SoundNotifier renders sound cues best effort. Implementations must
// swallow failures; playback problems are not game errors.
type SoundNotifier interface {
	Notify(cue Cue)
}

// DraftStore is durable key/value persistence for the in-progress
// feedback draft. Writes are fire-and-forget from the lifecycle's
// point of view; Load reports absence separately from failure.
type DraftStore interface {
	Save(key, value string) error
	Load(key string) (value string, ok bool, err error)
	Clear(key string) error
}

// FormField describes a single contact form input
type FormField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required,omitempty"`
}

// Form is a displayable contact form unit
type Form struct {
	Title  string      `json:"title"`
	Fields []FormField `json:"fields"`
}

// ContactFormLoader supplies the contact form on demand. Load may be
// slow; the lifecycle invokes it from a goroutine and discards the
// result if the session has since been restarted.
type ContactFormLoader interface {
	Load(ctx context.Context) (*Form, error)
}

// NopSoundNotifier discards all cues
type NopSoundNotifier struct{}

func (NopSoundNotifier) Notify(Cue) {}
