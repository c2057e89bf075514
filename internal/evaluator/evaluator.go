// Package evaluator wraps the external arithmetic engine behind a small
// contract: a fully rewritten expression string goes in, a value or an
// *Error comes out.
package evaluator

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/vm"
)

// Evaluator evaluates a rewritten expression.
type Evaluator interface {
	Evaluate(expression string) (any, error)
}

// Func adapts a plain function to Evaluator.
type Func func(expression string) (any, error)

// Evaluate calls f.
func (f Func) Evaluate(expression string) (any, error) {
	return f(expression)
}

// Error is a structured evaluation failure.
type Error struct {
	Message  string
	Token    string // offending token, if known
	Position int    // rune offset of Token; -1 when unknown
}

func (e *Error) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%s (at: %s)", e.Message, e.Token)
	}
	return e.Message
}

// ErrEmpty is the message reported for a blank expression.
const ErrEmpty = "empty expression"

// Expr evaluates expressions with expr-lang. The zero value is not usable;
// construct with New.
type Expr struct {
	options []expr.Option
	env     map[string]any
}

// New returns an expr-lang evaluator with the calculator environment:
// the constants PI and E plus the math function set. All arithmetic runs
// in float64.
func New() *Expr {
	env := map[string]any{
		"PI": math.Pi,
		"E":  math.E,
	}
	opts := []expr.Option{expr.Env(env)}
	opts = append(opts, mathFunctions()...)
	opts = append(opts, expr.Patch(floatArithmetic{}))
	return &Expr{options: opts, env: env}
}

// floatArithmetic rewrites integer literals as floats, so results never
// wrap at the int64 boundary, and turns a % b into mod(a, b).
type floatArithmetic struct{}

func (floatArithmetic) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IntegerNode:
		ast.Patch(node, &ast.FloatNode{Value: float64(n.Value)})
	case *ast.BinaryNode:
		if n.Operator == "%" {
			ast.Patch(node, &ast.CallNode{
				Callee:    &ast.IdentifierNode{Value: "mod"},
				Arguments: []ast.Node{n.Left, n.Right},
			})
		}
	}
}

// Evaluate compiles and runs expression. Any failure, including a panic
// inside the engine, is returned as an *Error.
func (x *Expr) Evaluate(expression string) (result any, err error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &Error{Message: ErrEmpty, Position: -1}
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &Error{Message: fmt.Sprint(r), Position: -1}
		}
	}()

	program, err := expr.Compile(expression, x.options...)
	if err != nil {
		return nil, wrap(expression, err)
	}
	out, err := vm.Run(program, x.env)
	if err != nil {
		return nil, wrap(expression, err)
	}
	return out, nil
}

// wrap converts an engine error into an *Error with a token hint.
func wrap(expression string, err error) *Error {
	var fe *file.Error
	if !errors.As(err, &fe) {
		return &Error{Message: err.Error(), Position: -1}
	}
	token, pos := TokenAt(expression, fe.Column)
	return &Error{Message: fe.Message, Token: token, Position: pos}
}

// TokenAt returns the token starting at rune offset col. Identifiers and
// numbers are returned whole; any other rune is returned alone. When col is
// past the end of the expression the token is empty and the position -1.
func TokenAt(expression string, col int) (string, int) {
	runes := []rune(expression)
	if col < 0 || col >= len(runes) {
		return "", -1
	}
	for col < len(runes) && unicode.IsSpace(runes[col]) {
		col++
	}
	if col >= len(runes) {
		return "", -1
	}

	start := col
	if !isWordRune(runes[start]) {
		return string(runes[start]), start
	}
	end := start
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end]), start
}

func isWordRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
