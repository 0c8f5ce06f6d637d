package store

import (
	"sync"

	"github.com/mazequest/mazequest/game/lifecycle"
)

// Memory is an in-process DraftStore. Safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory draft store
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Save stores a value under key
func (m *Memory) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Load retrieves a value, reporting absence via ok
func (m *Memory) Load(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

// Clear removes a key. Clearing an absent key is not an error.
func (m *Memory) Clear(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// prefixStore namespaces keys of an inner store
type prefixStore struct {
	inner  lifecycle.DraftStore
	prefix string
}

// WithPrefix returns a DraftStore that prepends prefix to every key,
// so multiple sessions can share one backing store.
func WithPrefix(inner lifecycle.DraftStore, prefix string) lifecycle.DraftStore {
	return &prefixStore{inner: inner, prefix: prefix}
}

func (p *prefixStore) Save(key, value string) error {
	return p.inner.Save(p.prefix+key, value)
}

func (p *prefixStore) Load(key string) (string, bool, error) {
	return p.inner.Load(p.prefix + key)
}

func (p *prefixStore) Clear(key string) error {
	return p.inner.Clear(p.prefix + key)
}
