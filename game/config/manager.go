package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mazequest/mazequest/game/engine"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
)

// Info summarizes an available grid configuration
type Info struct {
	ConfigID  string `json:"config_id"`
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Obstacles int    `json:"obstacles"`
}

// Manager handles grid configuration loading and caching
type Manager struct {
	configDir string
	configs   map[string]*engine.Config
	mu        sync.RWMutex
}

// NewManager creates a configuration manager reading from configDir.
// An empty configDir is valid: only the built-in board is served.
func NewManager(configDir string) (*Manager, error) {
	if configDir != "" {
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("config directory does not exist: %s", configDir)
		}
	}
	return &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.Config),
	}, nil
}

// LoadConfig loads a configuration by name. The built-in board is
// always available under its own name and as the empty name.
func (m *Manager) LoadConfig(name string) (*engine.Config, error) {
	if name == "" {
		return engine.DefaultConfig(), nil
	}

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	if m.configDir == "" {
		if name == engine.DefaultConfig().Name {
			return engine.DefaultConfig(), nil
		}
		return nil, ErrConfigNotFound
	}

	config, err := engine.LoadConfigByName(m.configDir, name)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			if name == engine.DefaultConfig().Name {
				return engine.DefaultConfig(), nil
			}
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()
	return config, nil
}

// ListConfigs returns information about all available configurations
func (m *Manager) ListConfigs() ([]*Info, error) {
	builtin := engine.DefaultConfig()
	configs := []*Info{{
		ConfigID:  builtin.Name,
		Name:      builtin.Name,
		Width:     builtin.Width,
		Height:    builtin.Height,
		Obstacles: len(builtin.Obstacles),
	}}

	if m.configDir == "" {
		return configs, nil
	}

	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")

		config, err := m.LoadConfig(name)
		if err != nil {
			// Skip invalid configs
			continue
		}
		configs = append(configs, &Info{
			ConfigID:  name,
			Name:      config.Name,
			Width:     config.Width,
			Height:    config.Height,
			Obstacles: len(config.Obstacles),
		})
	}

	return configs, nil
}

// GetDefault returns the built-in default configuration
func (m *Manager) GetDefault() *engine.Config {
	return engine.DefaultConfig()
}
