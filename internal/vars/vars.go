// Package vars implements the persistent variable store.
//
// The whole variable map is stored as one JSON document under
// state.KeyVariables. Every write loads the map, mutates it and saves it
// back; no concurrency guard is provided at this layer.
package vars

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/roach88/cloudycalc/internal/scalar"
	"github.com/roach88/cloudycalc/internal/state"
)

// Answer is the name of the answer register.
const Answer = "ans"

var validName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ErrInvalidName is returned when a name fails validation.
var ErrInvalidName = errors.New("invalid variable name")

// ValidName reports whether name may be used as a variable name.
func ValidName(name string) bool {
	return validName.MatchString(name)
}

// Store is the variable store backed by a state.Backend.
type Store struct {
	backend state.Backend
	logger  *slog.Logger
}

// New creates a Store. A nil logger uses slog.Default().
func New(backend state.Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger}
}

// Set validates name, canonicalizes value and persists the whole map.
// Nothing is written when validation fails.
func (s *Store) Set(ctx context.Context, name string, value any) error {
	if !ValidName(name) {
		return fmt.Errorf("set %q: %w", name, ErrInvalidName)
	}
	v, err := scalar.Normalize(value)
	if err != nil {
		return fmt.Errorf("set %q: %w", name, err)
	}

	m, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("set %q: %w", name, err)
	}
	m[name] = v
	if err := s.save(ctx, m); err != nil {
		return fmt.Errorf("set %q: %w", name, err)
	}

	s.logger.Debug("variable set", "name", name, "value", v.String())
	return nil
}

// Get returns the value stored under name.
// ok is false if the name was never set or has been deleted.
func (s *Store) Get(ctx context.Context, name string) (v scalar.Value, ok bool, err error) {
	m, err := s.load(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", name, err)
	}
	v, ok = m[name]
	return v, ok, nil
}

// GetAll returns every stored variable. The map is empty if none are set.
func (s *Store) GetAll(ctx context.Context) (scalar.Map, error) {
	m, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("get all: %w", err)
	}
	return m, nil
}

// Delete removes name. Deleting a missing name succeeds without a write.
func (s *Store) Delete(ctx context.Context, name string) error {
	m, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	if _, ok := m[name]; !ok {
		return nil
	}
	delete(m, name)
	if err := s.save(ctx, m); err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}

	s.logger.Debug("variable deleted", "name", name)
	return nil
}

// ClearAll replaces the variable map with an empty one.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.save(ctx, scalar.Map{}); err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	s.logger.Debug("variables cleared")
	return nil
}

func (s *Store) load(ctx context.Context) (scalar.Map, error) {
	docs, err := s.backend.LoadState(ctx, state.KeyVariables)
	if err != nil {
		return nil, fmt.Errorf("load variables: %w", err)
	}
	m := scalar.Map{}
	doc, ok := docs[state.KeyVariables]
	if !ok || len(doc) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("decode variables: %w", err)
	}
	return m, nil
}

func (s *Store) save(ctx context.Context, m scalar.Map) error {
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode variables: %w", err)
	}
	if err := s.backend.SaveState(ctx, map[string][]byte{state.KeyVariables: doc}); err != nil {
		return fmt.Errorf("save variables: %w", err)
	}
	return nil
}
