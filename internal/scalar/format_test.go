package scalar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{15, "15"},
		{-9, "-9"},
		{2.5, "2.5"},
		{0.1 + 0.2, "0.30000000000000004"},
		{1.0 / 3.0, "0.3333333333333333"},
		{2432902008176640000, "2432902008176640000"},
		{1.5511210043330986e+25, "1.5511210043330986e+25"},
		{1e21, "1e+21"},
		{1e-7, "1e-7"},
		{0.000001, "0.000001"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.in))
		})
	}
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, "120", Literal(120))
	assert.Equal(t, "-9", Literal(-9))
	assert.Equal(t, "2.5", Literal(2.5))
	assert.Equal(t, "2432902008176640000", Literal(2432902008176640000))
	// 21! does not fit an int64 literal.
	assert.Equal(t, "5.109094217170944e+19", Literal(51090942171709440000))
	assert.Equal(t, "1e-7", Literal(1e-7))
}

func TestLiteralOf(t *testing.T) {
	assert.Equal(t, "15", LiteralOf(Number(15)))
	assert.Equal(t, "x + 1", LiteralOf(Text("x + 1")))
}

func TestLeadingNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"15", 15, true},
		{"-9", -9, true},
		{"23 Meters", 23, true},
		{"  4.5kg", 4.5, true},
		{".5", 0.5, true},
		{"1e3", 1000, true},
		{"1.5511210043330986e+25", 1.5511210043330986e+25, true},
		{"Infinity", 0, false},
		{"NaN", 0, false},
		{"true", 0, false},
		{"Error: bad", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := LeadingNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9*math.Max(1, math.Abs(tt.want)))
			}
		})
	}
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "15", Stringify(15))
	assert.Equal(t, "2.5", Stringify(2.5))
	assert.Equal(t, "Infinity", Stringify(math.Inf(1)))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "hi", Stringify("hi"))
	assert.Equal(t, "undefined", Stringify(nil))
	assert.Equal(t, "7", Stringify(Number(7)))
	assert.Equal(t, "[1 2]", Stringify([]int{1, 2}))
}
