package testutil

import (
	"fmt"
	"sync"
)

// ScriptedEvaluator returns canned outcomes keyed by the exact expression
// it receives, and records every call. Unscripted expressions fail.
type ScriptedEvaluator struct {
	mu      sync.Mutex
	results map[string]any
	errs    map[string]error
	calls   []string
}

// NewScriptedEvaluator creates an evaluator with no scripted outcomes.
func NewScriptedEvaluator() *ScriptedEvaluator {
	return &ScriptedEvaluator{
		results: make(map[string]any),
		errs:    make(map[string]error),
	}
}

// Returns scripts a successful result for expression.
func (s *ScriptedEvaluator) Returns(expression string, result any) *ScriptedEvaluator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[expression] = result
	delete(s.errs, expression)
	return s
}

// Fails scripts an error for expression.
func (s *ScriptedEvaluator) Fails(expression string, err error) *ScriptedEvaluator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[expression] = err
	delete(s.results, expression)
	return s
}

// Evaluate returns the scripted outcome for expression.
func (s *ScriptedEvaluator) Evaluate(expression string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, expression)

	if err, ok := s.errs[expression]; ok {
		return nil, err
	}
	if result, ok := s.results[expression]; ok {
		return result, nil
	}
	return nil, fmt.Errorf("unscripted expression %q", expression)
}

// Calls returns the expressions received, in order.
func (s *ScriptedEvaluator) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}
