package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/roach88/cloudycalc/internal/calc"
	"github.com/roach88/cloudycalc/internal/scalar"
	"github.com/roach88/cloudycalc/internal/session"
)

// Doer submits one input and waits for its response. *session.Session
// implements it.
type Doer interface {
	Do(ctx context.Context, input any) (session.Response, error)
}

// VariableReader reads the final variable map. *calc.Calculator
// implements it.
type VariableReader interface {
	AllVariables(ctx context.Context) (scalar.Map, error)
}

const (
	// ClearedMessage is the output of a "clear" input.
	ClearedMessage = "History and variables cleared."

	// ClearFailedMessage is the output of a "clear" input whose reset failed.
	ClearFailedMessage = "Error: Could not clear history and variables."
)

// Step is the outcome of one script input.
type Step struct {
	Index      int     `json:"index"`
	Input      string  `json:"input"`
	Kind       string  `json:"kind"`
	Expression string  `json:"expression,omitempty"`
	Output     string  `json:"output"`
	Code       string  `json:"code,omitempty"`
	Expected   *string `json:"expected,omitempty"`
	Pass       bool    `json:"pass"`
}

// Transcript is the outcome of a script run.
type Transcript struct {
	Name      string            `json:"name"`
	Steps     []Step            `json:"steps"`
	Variables map[string]string `json:"variables,omitempty"`
	Checks    int               `json:"checks"`
	Failures  []string          `json:"failures,omitempty"`
	Pass      bool              `json:"pass"`
}

// Run feeds every input of s to d in order and checks the expectations.
// The returned error is non-nil only when the session stopped before the
// script finished; a failed expectation is reported in the transcript.
func Run(ctx context.Context, d Doer, vr VariableReader, s *Script) (*Transcript, error) {
	t := &Transcript{Name: s.Name, Steps: make([]Step, 0, len(s.Inputs)), Pass: true}

	for i, input := range s.Inputs {
		resp, err := d.Do(ctx, input)
		if err != nil && (errors.Is(err, session.ErrClosed) || ctx.Err() != nil) {
			return t, fmt.Errorf("run script %q: input %d: %w", s.Name, i, err)
		}

		step := Step{
			Index:      i,
			Input:      scalar.Stringify(input),
			Kind:       resp.Result.Kind.String(),
			Expression: resp.Result.Expression,
			Output:     resp.Result.Text,
			Pass:       true,
		}
		var ce *calc.Error
		switch {
		case err != nil:
			step.Output = ClearFailedMessage
			step.Code = string(calc.ErrCodePersistence)
		case resp.Cleared:
			step.Output = ClearedMessage
		case errors.As(resp.Result.Err, &ce):
			step.Code = string(ce.Code)
		}

		if len(s.Expect) > 0 {
			want := s.Expect[i]
			step.Expected = &want
			t.Checks++
			if want != step.Output {
				step.Pass = false
				t.fail(fmt.Sprintf("inputs[%d] %q: expected %q, got %q", i, step.Input, want, step.Output))
			}
		}
		t.Steps = append(t.Steps, step)
	}

	if len(s.Variables) > 0 {
		if err := t.checkVariables(ctx, vr, s.Variables); err != nil {
			return t, fmt.Errorf("run script %q: %w", s.Name, err)
		}
	}
	return t, nil
}

func (t *Transcript) fail(msg string) {
	t.Failures = append(t.Failures, msg)
	t.Pass = false
}

// checkVariables compares the expected variables with the stored ones by
// their canonical text form.
func (t *Transcript) checkVariables(ctx context.Context, vr VariableReader, expected map[string]any) error {
	got, err := vr.AllVariables(ctx)
	if err != nil {
		return fmt.Errorf("read variables: %w", err)
	}

	names := make([]string, 0, len(expected))
	for name := range expected {
		names = append(names, name)
	}
	sort.Strings(names)

	t.Variables = make(map[string]string, len(names))
	for _, name := range names {
		t.Checks++
		want, err := scalar.Normalize(expected[name])
		if err != nil {
			t.fail(fmt.Sprintf("variables.%s: unusable expected value: %v", name, err))
			continue
		}
		actual, ok := got[name]
		if !ok {
			t.fail(fmt.Sprintf("variables.%s: expected %s, variable not set", name, want))
			continue
		}
		t.Variables[name] = actual.String()
		if actual.String() != want.String() {
			t.fail(fmt.Sprintf("variables.%s: expected %s, got %s", name, want, actual))
		}
	}
	return nil
}

// RenderText writes the transcript as an input/output listing.
func (t *Transcript) RenderText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "script: %s\n", t.Name); err != nil {
		return err
	}
	for _, step := range t.Steps {
		fmt.Fprintf(w, "> %s\n", step.Input)
		if step.Output != "" {
			fmt.Fprintln(w, step.Output)
		}
		if !step.Pass {
			fmt.Fprintf(w, "  expected: %s\n", *step.Expected)
		}
	}
	for _, f := range t.Failures {
		fmt.Fprintf(w, "FAIL %s\n", f)
	}
	if t.Pass {
		_, err := fmt.Fprintf(w, "ok: %d inputs\n", len(t.Steps))
		return err
	}
	_, err := fmt.Fprintf(w, "failed: %d of %d checks\n", len(t.Failures), t.Checks)
	return err
}
