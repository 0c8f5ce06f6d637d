package engine

import "fmt"

// Engine provides the main interface for movement operations
type Engine interface {
	// Movement operations
	AttemptMove(dir Direction) []Event
	CanMove(dir Direction) bool
	PossibleMoves() []Direction

	// Player state
	State() State
	Position() Coordinate
	HasWon() bool
	Reset() State

	// Geometry
	Grid() *Grid
}

// MovementEngine implements the Engine interface. It is the only
// writer of the player state; the session lifecycle serializes calls.
type MovementEngine struct {
	grid    *Grid
	pos     Coordinate
	hasWon  bool
	message string
	moves   int
}

// NewMovementEngine creates a movement engine positioned at the
// grid's start cell.
func NewMovementEngine(grid *Grid) *MovementEngine {
	e := &MovementEngine{grid: grid}
	e.Reset()
	return e
}

// AttemptMove applies a directional intent and returns the semantic
// events it produced:
//
//   - input while won, an unknown direction, or a move past the grid
//     edge is a silent no-op (nil events, no state change)
//   - moving onto an obstacle emits Blocked and does not move the player
//   - moving onto an empty cell emits Moved
//   - moving onto the goal emits Moved and Won and latches the won flag
func (e *MovementEngine) AttemptMove(dir Direction) []Event {
	// Post-victory input is a no-op, not an error.
	if e.hasWon {
		return nil
	}
	if !dir.Valid() {
		return nil
	}

	from := e.pos
	to := from.Add(dir)

	// The UI already filters edge moves, but the engine defends
	// independently. Out of bounds is distinguishable from an
	// obstacle hit: no event at all.
	if !e.grid.InBounds(to) {
		return nil
	}

	switch e.grid.Classify(to) {
	case Obstacle:
		e.message = fmt.Sprintf("%s [hit obstacle at (%d,%d)]", e.blockedMessage(), to.X, to.Y)
		return []Event{{Type: EventBlocked, Dir: dir, From: from, To: to}}

	case Goal:
		e.pos = to
		e.hasWon = true
		e.moves++
		e.message = e.victoryMessage()
		return []Event{
			{Type: EventMoved, Dir: dir, From: from, To: to},
			{Type: EventWon, Dir: dir, From: from, To: to},
		}

	default:
		e.pos = to
		e.moves++
		e.message = fmt.Sprintf("Moved %s to (%d,%d)", dir, to.X, to.Y)
		return []Event{{Type: EventMoved, Dir: dir, From: from, To: to}}
	}
}

// CanMove reports whether a move in the direction would displace the
// player. Obstacle targets and edge moves both return false.
func (e *MovementEngine) CanMove(dir Direction) bool {
	if e.hasWon || !dir.Valid() {
		return false
	}
	to := e.pos.Add(dir)
	return e.grid.InBounds(to) && e.grid.Classify(to) != Obstacle
}

// PossibleMoves returns all directions that would displace the player
func (e *MovementEngine) PossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range Directions {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// State returns a snapshot of the player state
func (e *MovementEngine) State() State {
	return State{
		Position: e.pos,
		HasWon:   e.hasWon,
		Message:  e.message,
		Moves:    e.moves,
	}
}

// Position returns the current player position
func (e *MovementEngine) Position() Coordinate {
	return e.pos
}

// HasWon returns whether the player has reached the goal
func (e *MovementEngine) HasWon() bool {
	return e.hasWon
}

// Reset returns the player to the canonical initial state: position
// at start, won flag cleared, move counter zeroed.
func (e *MovementEngine) Reset() State {
	e.pos = e.grid.Start()
	e.hasWon = false
	e.moves = 0
	e.message = e.welcomeMessage()
	return e.State()
}

// Grid returns the board geometry
func (e *MovementEngine) Grid() *Grid {
	return e.grid
}

func (e *MovementEngine) welcomeMessage() string {
	if msg := e.grid.Config().Messages.Welcome; msg != "" {
		return msg
	}
	return "Reach the goal. Watch out for obstacles!"
}

func (e *MovementEngine) blockedMessage() string {
	if msg := e.grid.Config().Messages.Blocked; msg != "" {
		return msg
	}
	return "Ouch! You hit an obstacle."
}

func (e *MovementEngine) victoryMessage() string {
	if msg := e.grid.Config().Messages.Victory; msg != "" {
		return msg
	}
	return "You made it! Congratulations!"
}
