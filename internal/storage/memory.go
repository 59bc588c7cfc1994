package storage

import (
	"context"
	"sync"
)

// Memory is a map-backed local storage for tools and tests
type Memory struct {
	mu    sync.Mutex
	items map[string]string
}

// NewMemory returns an empty Memory
func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

// GetItem returns the value stored under key
func (m *Memory) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

// SetItem stores value under key
func (m *Memory) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

// RemoveItem deletes key
func (m *Memory) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
