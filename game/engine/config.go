package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultConfig returns the built-in board: a 15x10 grid with a
// diagonal obstacle run between the start and the goal.
func DefaultConfig() *Config {
	config := &Config{
		Name:   "classic",
		Width:  15,
		Height: 10,
		Start:  Coordinate{X: 1, Y: 1},
		Goal:   Coordinate{X: 14, Y: 10},
		Obstacles: []Coordinate{
			{X: 2, Y: 1},
			{X: 3, Y: 2},
			{X: 5, Y: 3},
			{X: 7, Y: 4},
			{X: 9, Y: 5},
			{X: 11, Y: 6},
			{X: 13, Y: 7},
			{X: 5, Y: 8},
			{X: 8, Y: 9},
			{X: 10, Y: 10},
		},
	}
	config.Messages.Welcome = "Guide the token to the flag!"
	config.Messages.Blocked = "Ouch! You hit an obstacle."
	config.Messages.Victory = "You made it! Congratulations!"
	return config
}

// LoadConfig loads a grid configuration from a JSON file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", filename, err)
	}

	return &config, nil
}

// LoadConfigByName loads a grid configuration by name from the given
// config directory. The .json extension is optional.
func LoadConfigByName(configDir, name string) (*Config, error) {
	if !strings.HasSuffix(name, ".json") {
		name = name + ".json"
	}

	configPath := filepath.Join(configDir, name)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", name)
	}

	return LoadConfig(configPath)
}
