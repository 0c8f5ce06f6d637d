package lifecycle

// Stage identifies where a session is in its lifecycle. Exactly one
// stage is active at a time.
type Stage string

const (
	StagePlaying           Stage = "playing"
	StageVictory           Stage = "victory"
	StageFeedbackOpen      Stage = "feedback_open"
	StageFeedbackSubmitted Stage = "feedback_submitted"
	StageContactOpen       Stage = "contact_open"
)

// String implements fmt.Stringer
func (s Stage) String() string {
	return string(s)
}
