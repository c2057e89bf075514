package evaluator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateArithmetic(t *testing.T) {
	e := New()

	tests := []struct {
		expression string
		want       float64
	}{
		{"2 + 3", 5},
		{"10 / 4", 2.5},
		{"1000 + 2500", 3500},
		{"(-9) ^2", 81},
		{"(-9) *-9", 81},
		{"-9^2", -81},
		{"2 ** 10", 1024},
		{"7 % 3", 1},
		{"5.5 % 2", 1.5},
		{"-7 % 3", -1},
		{"2.5 ^2 % 4", 2.25},
		{"mod(10, 4)", 2},
		{"PI", math.Pi},
		{"E", math.E},
		{"sqrt(16)", 4},
		{"pow(2, 8)", 256},
		{"hypot(3, 4)", 5},
		{"log(1000)", 3},
		{"ln(E)", 1},
		{"trunc(2.7)", 2},
		{"abs(-3)", 3},
		{"sqrt(16) + 1", 5},
		{"5.109094217170944e+19 / 1e19", 5.109094217170944},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			out, err := e.Evaluate(tt.expression)
			require.NoError(t, err)
			f, err := toFloat("test", out)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, f, 1e-9)
		})
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	out, err := New().Evaluate("1/0")
	require.NoError(t, err)
	assert.True(t, math.IsInf(out.(float64), 1))
}

func TestEvaluateEmpty(t *testing.T) {
	for _, in := range []string{"", "   "} {
		_, err := New().Evaluate(in)
		var ee *Error
		require.True(t, errors.As(err, &ee))
		assert.Equal(t, ErrEmpty, ee.Message)
		assert.Empty(t, ee.Token)
	}
}

func TestEvaluateUnknownName(t *testing.T) {
	_, err := New().Evaluate("foo + 1")
	require.Error(t, err)

	var ee *Error
	require.True(t, errors.As(err, &ee))
	assert.Contains(t, ee.Message, "unknown name foo")
	assert.Equal(t, "foo", ee.Token)
	assert.Equal(t, 0, ee.Position)
	assert.Contains(t, ee.Error(), "(at: foo)")
}

func TestEvaluateSyntaxErrors(t *testing.T) {
	for _, in := range []string{"2 +", "*2", "(1 + 2", "1000! + 1"} {
		t.Run(in, func(t *testing.T) {
			_, err := New().Evaluate(in)
			var ee *Error
			require.True(t, errors.As(err, &ee), "got %v", err)
			assert.NotEmpty(t, ee.Message)
		})
	}
}

func TestEvaluateFunctionArity(t *testing.T) {
	_, err := New().Evaluate("sqrt(1, 2)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqrt expects 1 argument")
}

func TestEvaluateRuntimeFailureBecomesError(t *testing.T) {
	_, err := New().Evaluate("[1, 2][5]")
	var ee *Error
	require.True(t, errors.As(err, &ee))
	assert.NotEmpty(t, ee.Message)
}

func TestEvaluateModuloByZero(t *testing.T) {
	out, err := New().Evaluate("1 % 0")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out.(float64)))
}

func TestEvaluateLargeIntegersDoNotWrap(t *testing.T) {
	tests := []struct {
		expression string
		want       float64
	}{
		{"2432902008176640000 * 10", 24329020081766400000},
		{"9223372036854775807 + 1", 9223372036854775808},
		{"3000000000 * 3000000000 * 2", 1.8e19},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			out, err := New().Evaluate(tt.expression)
			require.NoError(t, err)
			require.IsType(t, float64(0), out)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEvaluateIntegerLiteralsYieldFloats(t *testing.T) {
	out, err := New().Evaluate("2 + 3")
	require.NoError(t, err)
	assert.Equal(t, 5.0, out)
}

func TestFuncAdapter(t *testing.T) {
	var ev Evaluator = Func(func(s string) (any, error) { return len(s), nil })
	out, err := ev.Evaluate("abc")
	require.NoError(t, err)
	assert.Equal(t, 3, out)
}

func TestTokenAt(t *testing.T) {
	tests := []struct {
		expression string
		col        int
		token      string
		pos        int
	}{
		{"foo + 1", 0, "foo", 0},
		{"1 + bar_2", 4, "bar_2", 4},
		{"1 + 2.5x", 4, "2.5x", 4},
		{"2 + ) ", 4, ")", 4},
		{"2 +  x", 3, "x", 5},
		{"2 +", 3, "", -1},
		{"2 +   ", 3, "", -1},
		{"", 0, "", -1},
		{"abc", -1, "", -1},
	}

	for _, tt := range tests {
		token, pos := TokenAt(tt.expression, tt.col)
		assert.Equal(t, tt.token, token, "%q@%d", tt.expression, tt.col)
		assert.Equal(t, tt.pos, pos, "%q@%d", tt.expression, tt.col)
	}
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "unexpected token (at: ))", (&Error{Message: "unexpected token", Token: ")"}).Error())
	assert.Equal(t, "boom", (&Error{Message: "boom"}).Error())
}
