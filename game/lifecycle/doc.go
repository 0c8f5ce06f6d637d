// Package lifecycle implements the session state machine for the
// Maze Quest game.
//
// A session moves through five stages:
//
//	Playing --(won)--> Victory --(open-feedback)--> FeedbackOpen
//	  --(submit, valid)--> FeedbackSubmitted --(auto)--> ContactOpen
//
// A restart from any stage returns the session to the canonical
// initial state. Hitting an obstacle while playing keeps the player
// in place, shows the collision for a grace period, and then restarts
// the session automatically via a cancellable timer.
//
// Collaborators are injected as small capability interfaces:
// DraftStore persists the in-progress feedback draft across reloads,
// SoundNotifier receives semantic sound cues (best effort, failures
// swallowed), and ContactFormLoader supplies the contact form
// asynchronously once the session reaches ContactOpen.
//
// All mutating entry points are serialized behind a single mutex;
// the reset timer callback and the contact form load goroutine
// re-enter through the same lock, so state transitions never race.
package lifecycle
