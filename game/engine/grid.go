package engine

import "fmt"

// Grid is the immutable board geometry. It carries no player state;
// classification and bounds checks are pure reads.
type Grid struct {
	config    *Config
	obstacles map[Coordinate]bool
}

// NewGrid builds a Grid from the configuration, validating the
// construction-time invariants. A violated invariant is a fatal
// configuration error for callers.
func NewGrid(config *Config) (*Grid, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	obstacles := make(map[Coordinate]bool, len(config.Obstacles))
	for _, c := range config.Obstacles {
		obstacles[c] = true
	}

	return &Grid{config: config, obstacles: obstacles}, nil
}

// Config returns the grid's configuration
func (g *Grid) Config() *Config {
	return g.config
}

// Width returns the grid width in cells
func (g *Grid) Width() int {
	return g.config.Width
}

// Height returns the grid height in cells
func (g *Grid) Height() int {
	return g.config.Height
}

// Start returns the player start cell
func (g *Grid) Start() Coordinate {
	return g.config.Start
}

// Goal returns the goal cell
func (g *Grid) Goal() Coordinate {
	return g.config.Goal
}

// InBounds reports whether c lies on the grid. Coordinates are
// 1-indexed on both axes.
func (g *Grid) InBounds(c Coordinate) bool {
	return c.X >= 1 && c.X <= g.config.Width && c.Y >= 1 && c.Y <= g.config.Height
}

// Classify returns the cell type at c. Obstacles and the goal are
// disjoint by construction, so classification is unambiguous.
func (g *Grid) Classify(c Coordinate) CellType {
	if g.obstacles[c] {
		return Obstacle
	}
	if c == g.config.Goal {
		return Goal
	}
	return Empty
}

// ValidateConfig validates a grid configuration for correctness
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}
	if config.Width < MinGridWidth || config.Width > MaxGridSize {
		return fmt.Errorf("config validation: width must be between %d and %d, got %d", MinGridWidth, MaxGridSize, config.Width)
	}
	if config.Height < MinGridHeight || config.Height > MaxGridSize {
		return fmt.Errorf("config validation: height must be between %d and %d, got %d", MinGridHeight, MaxGridSize, config.Height)
	}

	inBounds := func(c Coordinate) bool {
		return c.X >= 1 && c.X <= config.Width && c.Y >= 1 && c.Y <= config.Height
	}

	if !inBounds(config.Start) {
		return fmt.Errorf("config validation: start (%d,%d) is out of bounds", config.Start.X, config.Start.Y)
	}
	if !inBounds(config.Goal) {
		return fmt.Errorf("config validation: goal (%d,%d) is out of bounds", config.Goal.X, config.Goal.Y)
	}
	if config.Start == config.Goal {
		return fmt.Errorf("config validation: start and goal must differ")
	}

	seen := make(map[Coordinate]bool, len(config.Obstacles))
	for _, c := range config.Obstacles {
		if !inBounds(c) {
			return fmt.Errorf("config validation: obstacle (%d,%d) is out of bounds", c.X, c.Y)
		}
		if seen[c] {
			return fmt.Errorf("config validation: duplicate obstacle (%d,%d)", c.X, c.Y)
		}
		seen[c] = true
		if c == config.Goal {
			return fmt.Errorf("config validation: obstacle (%d,%d) overlaps the goal", c.X, c.Y)
		}
		if c == config.Start {
			return fmt.Errorf("config validation: obstacle (%d,%d) overlaps the start", c.X, c.Y)
		}
	}

	return nil
}
