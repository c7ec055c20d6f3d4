package feature

import (
	"context"
	"errors"
	"maps"
	"sync"
)

// MemoryStore is an in-memory implementation of the Store interface.
// It's the default store for a single console instance and for tests.
type MemoryStore struct {
	flags  map[string]bool
	closed bool
	mu     sync.RWMutex
}

// NewMemoryStore creates a new in-memory flag store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		flags: make(map[string]bool),
	}
}

// Set stores the value. Unset deletes the flag.
func (m *MemoryStore) Set(ctx context.Context, name string, value Value) (bool, error) {
	if name == "" {
		return false, errors.Join(ErrInvalidFlag, errors.New("flag name cannot be empty"))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false, ErrStoreClosed
	}

	current, exists := m.flags[name]

	b, ok := value.Bool()
	if !ok {
		if !exists {
			return false, nil
		}
		delete(m.flags, name)
		return true, nil
	}

	if exists && current == b {
		return false, nil
	}
	m.flags[name] = b
	return true, nil
}

// Get returns the asserted value of the flag.
func (m *MemoryStore) Get(ctx context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return false, ErrStoreClosed
	}

	b, exists := m.flags[name]
	if !exists {
		return false, ErrFlagNotFound
	}
	return b, nil
}

// List returns a copy of all asserted flags.
func (m *MemoryStore) List(ctx context.Context) (map[string]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	return maps.Clone(m.flags), nil
}

// Close drops all flags. Further calls return ErrStoreClosed.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	clear(m.flags)
	return nil
}
