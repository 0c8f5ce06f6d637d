package engine

// CellType classifies a grid cell
type CellType string

const (
	Empty    CellType = "empty"
	Obstacle CellType = "obstacle"
	Goal     CellType = "goal"

	// Validation constants
	MinGridWidth  = 2
	MinGridHeight = 2
	MaxGridSize   = 100
)

// Direction is a decoded directional intent
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// Directions lists all valid directions in a stable order
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// Delta returns the unit vector for the direction. The grid is
// 1-indexed with (1,1) in the top-left corner, so "down" increases y.
// Unknown directions return (0,0).
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

// Valid reports whether d is one of the four directional intents
func (d Direction) Valid() bool {
	dx, dy := d.Delta()
	return dx != 0 || dy != 0
}

// Coordinate represents a 1-indexed x,y grid position
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the coordinate shifted by the direction's unit vector
func (c Coordinate) Add(d Direction) Coordinate {
	dx, dy := d.Delta()
	return Coordinate{X: c.X + dx, Y: c.Y + dy}
}

// Config represents the static grid configuration
type Config struct {
	Name      string       `json:"name"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Start     Coordinate   `json:"start"`
	Goal      Coordinate   `json:"goal"`
	Obstacles []Coordinate `json:"obstacles"`
	Messages  struct {
		Welcome string `json:"welcome"`
		Blocked string `json:"blocked"`
		Victory string `json:"victory"`
	} `json:"messages"`
}

// EventType identifies a semantic movement event
type EventType string

const (
	EventMoved   EventType = "moved"
	EventBlocked EventType = "blocked"
	EventWon     EventType = "won"
)

// Event is a semantic signal emitted by AttemptMove. A single move
// onto the goal emits two events: Moved followed by Won.
type Event struct {
	Type EventType  `json:"type"`
	Dir  Direction  `json:"dir,omitempty"`
	From Coordinate `json:"from"`
	To   Coordinate `json:"to"`
}

// State is a read-only snapshot of the player state
type State struct {
	Position Coordinate `json:"position"`
	HasWon   bool       `json:"has_won"`
	Message  string     `json:"message"`
	Moves    int        `json:"moves"`
}
