package state

import (
	"context"
	"sync"
)

// Logical keys used by the calculator.
const (
	KeyHistory   = "calculationHistory"
	KeyVariables = "calculatorVariables"
	KeyTheme     = "options_theme"
	KeyFontSize  = "options_fontSize"
)

// Backend is the persistence contract shared by all state consumers.
type Backend interface {
	// LoadState returns the stored document for each key that exists.
	// Missing keys are absent from the result.
	LoadState(ctx context.Context, keys ...string) (map[string][]byte, error)

	// SaveState writes every key in values atomically.
	SaveState(ctx context.Context, values map[string][]byte) error
}

// sessionBackend scopes a Store to a single session namespace.
type sessionBackend struct {
	store   *Store
	session string
}

func (b *sessionBackend) LoadState(ctx context.Context, keys ...string) (map[string][]byte, error) {
	return b.store.loadState(ctx, b.session, keys)
}

func (b *sessionBackend) SaveState(ctx context.Context, values map[string][]byte) error {
	return b.store.saveState(ctx, b.session, values)
}

// Memory is an in-memory Backend for tests and ephemeral sessions.
type Memory struct {
	mu      sync.RWMutex
	data    map[string][]byte
	failure error
	saves   int
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// LoadState returns copies of the stored documents.
func (m *Memory) LoadState(_ context.Context, keys ...string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failure != nil {
		return nil, m.failure
	}

	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if v, ok := m.data[key]; ok {
			out[key] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

// SaveState stores copies of the given documents.
func (m *Memory) SaveState(_ context.Context, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failure != nil {
		return m.failure
	}

	for key, v := range values {
		m.data[key] = append([]byte(nil), v...)
	}
	m.saves++
	return nil
}

// SetFailure makes every subsequent call fail with err.
// Pass nil to restore normal operation.
func (m *Memory) SetFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failure = err
}

// Saves reports how many successful SaveState calls were made.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}
