// Package calc implements the evaluation orchestrator.
//
// A Calculator classifies each input line, runs the rewrite pipeline,
// invokes the evaluator and keeps the answer register and history in step
// with the outcome. No error crosses Process: every failure is reported as
// a Result whose Text begins with "Error:".
//
// Thread-safety: all methods are safe for concurrent use. Process calls are
// serialized, so the answer register written by one call is the one read by
// the next.
package calc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/roach88/cloudycalc/internal/evaluator"
	"github.com/roach88/cloudycalc/internal/history"
	"github.com/roach88/cloudycalc/internal/rewrite"
	"github.com/roach88/cloudycalc/internal/scalar"
	"github.com/roach88/cloudycalc/internal/vars"
)

// Result is the outcome of one Process call.
type Result struct {
	Kind Kind

	// Input is the raw input as received.
	Input string

	// Expression is the rewritten expression sent to the evaluator, empty
	// when the evaluator was not called.
	Expression string

	// Text is what the user sees: the result, an assignment message, an
	// "Error:" string, or empty for KindClear.
	Text string

	// Err is non-nil when Text is an error. It is always a *Error.
	Err error
}

// Calculator is the evaluation orchestrator for one session.
type Calculator struct {
	mu         sync.Mutex
	vars       *vars.Store
	history    *history.Log
	eval       evaluator.Evaluator
	logger     *slog.Logger
	pipeline   rewrite.Pipeline
	assignment rewrite.Pipeline
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calculator) {
		c.logger = logger
	}
}

// New creates a Calculator over the given stores and evaluator.
func New(v *vars.Store, h *history.Log, eval evaluator.Evaluator, opts ...Option) *Calculator {
	c := &Calculator{
		vars:    v,
		history: h,
		eval:    eval,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.pipeline = rewrite.Evaluation(v, c.logger)
	c.assignment = rewrite.Assignment(v)
	return c
}

// Pipeline returns the stages applied to ordinary expressions.
func (c *Calculator) Pipeline() rewrite.Pipeline {
	return c.pipeline
}

// ProcessInput handles one line of user input and returns the text to show.
// A "clear" line returns the empty string; the caller is expected to call
// Reset.
func (c *Calculator) ProcessInput(ctx context.Context, input string) string {
	return c.Process(ctx, input).Text
}

// ProcessValue is ProcessInput for untyped input. Anything other than a
// string is rejected with an input type error.
func (c *Calculator) ProcessValue(ctx context.Context, v any) Result {
	s, ok := v.(string)
	if !ok {
		err := newInputTypeError(v)
		return Result{Kind: KindInvalid, Input: scalar.Stringify(v), Text: err.Error(), Err: err}
	}
	return c.Process(ctx, s)
}

// Process handles one line of user input.
func (c *Calculator) Process(ctx context.Context, input string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd := Classify(input)
	res := Result{Kind: cmd.Kind, Input: input}

	var err error
	switch cmd.Kind {
	case KindClear:
		return res
	case KindFactorialCall:
		res.Text, err = c.factorialCall(ctx, input, cmd.Expr)
	case KindAssignment:
		res.Expression, res.Text, err = c.assign(ctx, input, cmd.Name, cmd.Expr)
	default:
		res.Expression, res.Text, err = c.evaluate(ctx, input, cmd.Expr)
	}
	if err != nil {
		res.Err = err
		res.Text = err.Error()
	}
	return res
}

func (c *Calculator) factorialCall(ctx context.Context, raw, arg string) (string, error) {
	n, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return "", &Error{Code: ErrCodeDomain, Message: "Factorial requires a non-negative integer", Err: err}
	}

	f, err := rewrite.Factorial(n)
	if err != nil {
		_ = c.forgetAnswer(ctx)
		if errors.Is(err, rewrite.ErrFactorialOverflow) {
			return "", &Error{Code: ErrCodeOverflow, Message: "Factorial result too large to calculate", Err: err}
		}
		return "", &Error{Code: ErrCodeDomain, Message: "Factorial requires a non-negative integer", Err: err}
	}

	text := scalar.FormatNumber(f)
	if err := c.recordAnswer(ctx, f); err != nil {
		return "", err
	}
	if err := c.appendHistory(ctx, raw, text); err != nil {
		return "", err
	}
	return text, nil
}

func (c *Calculator) assign(ctx context.Context, raw, name, valueExpr string) (string, string, error) {
	if !vars.ValidName(name) {
		return "", "", newInvalidNameError(name, vars.ErrInvalidName)
	}

	expression, err := c.assignment.Run(ctx, valueExpr)
	if err != nil {
		c.logger.Error("assignment rewrite failed", "name", name, "error", err)
		return "", "", newPersistenceError(fmt.Sprintf("Could not read variables for '%s'.", name), err)
	}

	out, err := c.eval.Evaluate(expression)
	if err != nil {
		c.logger.Debug("assignment evaluation failed", "name", name, "input", raw, "expression", expression, "error", err)
		ce := evaluationError(err)
		ce.Message = fmt.Sprintf("Invalid value for '%s': %s", name, ce.Message)
		return expression, "", ce
	}

	value, err := scalar.Normalize(out)
	switch {
	case errors.Is(err, scalar.ErrUnset):
		return expression, "", newUnsetValueError(name, "undefined", err)
	case errors.Is(err, scalar.ErrNotFinite):
		return expression, "", newUnsetValueError(name, "a non-finite number", err)
	case err != nil:
		return expression, "", newUnsetValueError(name, "an unsupported value", err)
	}

	if err := c.vars.Set(ctx, name, value); err != nil {
		c.logger.Error("store variable failed", "name", name, "error", err)
		return expression, "", newPersistenceError(fmt.Sprintf("Could not store variable '%s'.", name), err)
	}

	message := fmt.Sprintf("Variable '%s' set to %s", name, value.String())
	if err := c.appendHistory(ctx, raw, message); err != nil {
		return expression, "", err
	}
	return expression, message, nil
}

func (c *Calculator) evaluate(ctx context.Context, raw, trimmed string) (string, string, error) {
	expression, err := c.pipeline.Run(ctx, trimmed)
	if err != nil {
		c.logger.Error("rewrite failed", "input", raw, "error", err)
		return "", "", newPersistenceError("Could not read variables.", err)
	}

	out, evalErr := c.eval.Evaluate(expression)
	if evalErr != nil {
		c.logger.Debug("evaluation failed", "input", raw, "expression", expression, "error", evalErr)
		ce := evaluationError(evalErr)
		_ = c.forgetAnswer(ctx)
		if err := c.appendHistory(ctx, raw, ce.Error()); err != nil {
			return expression, "", err
		}
		return expression, "", ce
	}

	text := scalar.Stringify(out)
	if f, ok := scalar.LeadingNumber(text); ok && !strings.HasPrefix(text, "Error:") {
		if err := c.recordAnswer(ctx, f); err != nil {
			return expression, "", err
		}
	} else if err := c.forgetAnswer(ctx); err != nil {
		return expression, "", err
	}

	if err := c.appendHistory(ctx, raw, text); err != nil {
		return expression, "", err
	}
	return expression, text, nil
}

// evaluationError converts an evaluator failure, keeping its token hint.
func evaluationError(err error) *Error {
	var ee *evaluator.Error
	if errors.As(err, &ee) {
		return &Error{Code: ErrCodeEvaluation, Message: ee.Message, Token: ee.Token, Err: err}
	}
	return &Error{Code: ErrCodeEvaluation, Message: err.Error(), Err: err}
}

func (c *Calculator) recordAnswer(ctx context.Context, f float64) error {
	if err := c.vars.Set(ctx, vars.Answer, f); err != nil {
		c.logger.Error("store answer failed", "error", err)
		return newPersistenceError(fmt.Sprintf("Could not store variable '%s'.", vars.Answer), err)
	}
	return nil
}

// forgetAnswer clears the answer register after a failed or non-numeric
// evaluation. Callers that already hold an error outcome ignore the result;
// it is logged either way.
func (c *Calculator) forgetAnswer(ctx context.Context) error {
	if err := c.vars.Delete(ctx, vars.Answer); err != nil {
		c.logger.Error("clear answer failed", "error", err)
		return newPersistenceError(fmt.Sprintf("Could not clear variable '%s'.", vars.Answer), err)
	}
	return nil
}

func (c *Calculator) appendHistory(ctx context.Context, expression, result string) error {
	if err := c.history.Append(ctx, expression, result); err != nil {
		c.logger.Error("append history failed", "error", err)
		return newPersistenceError("Could not save history.", err)
	}
	return nil
}

// Reset clears history and variables, which is what a "clear" line asks for.
func (c *Calculator) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.history.Clear(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := c.vars.ClearAll(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

// AddHistoryEntry appends an entry directly.
func (c *Calculator) AddHistoryEntry(ctx context.Context, e history.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.AppendEntry(ctx, e)
}

// History returns the history in chronological order.
func (c *Calculator) History(ctx context.Context) ([]history.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.All(ctx)
}

// ClearHistory empties the history. Variables are not touched.
func (c *Calculator) ClearHistory(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Clear(ctx)
}

// SetVariable stores value under name.
func (c *Calculator) SetVariable(ctx context.Context, name string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vars.Set(ctx, name, value)
}

// GetVariable returns the value of name.
func (c *Calculator) GetVariable(ctx context.Context, name string) (scalar.Value, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vars.Get(ctx, name)
}

// AllVariables returns every stored variable.
func (c *Calculator) AllVariables(ctx context.Context) (scalar.Map, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vars.GetAll(ctx)
}

// DeleteVariable removes name.
func (c *Calculator) DeleteVariable(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vars.Delete(ctx, name)
}

// ClearAllVariables removes every variable. History is not touched.
func (c *Calculator) ClearAllVariables(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vars.ClearAll(ctx)
}
