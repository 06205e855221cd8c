package flags

import (
	"context"
	"sync"
)

type Memory struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

var _ Backend = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{values: make(map[string]map[string]string)}
}

// NewMemoryStore returns a FlagStore over a fresh in-memory backend.
func NewMemoryStore() *Store {
	return Scope(NewMemory(), "default")
}

func (m *Memory) Get(_ context.Context, namespace, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[namespace][key]
	return value, ok, nil
}

func (m *Memory) Set(_ context.Context, namespace, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.values[namespace]
	if !ok {
		ns = make(map[string]string)
		m.values[namespace] = ns
	}
	ns[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values[namespace], key)
	if len(m.values[namespace]) == 0 {
		delete(m.values, namespace)
	}
	return nil
}
