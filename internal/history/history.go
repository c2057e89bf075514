// Package history implements the append-only calculation history log.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/cloudycalc/internal/state"
)

// Entry is one recorded calculation.
type Entry struct {
	Expression string    `json:"expression"`
	Result     string    `json:"result"`
	Timestamp  time.Time `json:"timestamp"`
}

// Log is the history log backed by a state.Backend.
// Entries are kept in append order; only Clear removes them.
type Log struct {
	backend state.Backend
	now     func() time.Time
}

// New creates a Log. A nil clock uses time.Now.
func New(backend state.Backend, now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{backend: backend, now: now}
}

// Append records expression and result with the current time.
func (l *Log) Append(ctx context.Context, expression, result string) error {
	return l.AppendEntry(ctx, Entry{Expression: expression, Result: result})
}

// AppendEntry records e. A zero Timestamp defaults to the current time.
func (l *Log) AppendEntry(ctx context.Context, e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now()
	}

	entries, err := l.load(ctx)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	entries = append(entries, e)
	if err := l.save(ctx, entries); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// All returns the entries in chronological order.
func (l *Log) All(ctx context.Context) ([]Entry, error) {
	entries, err := l.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return entries, nil
}

// Clear replaces the log with an empty sequence.
func (l *Log) Clear(ctx context.Context) error {
	if err := l.save(ctx, []Entry{}); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (l *Log) load(ctx context.Context) ([]Entry, error) {
	docs, err := l.backend.LoadState(ctx, state.KeyHistory)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	entries := []Entry{}
	doc, ok := docs[state.KeyHistory]
	if !ok || len(doc) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(doc, &entries); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return entries, nil
}

func (l *Log) save(ctx context.Context, entries []Entry) error {
	doc, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := l.backend.SaveState(ctx, map[string][]byte{state.KeyHistory: doc}); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
