package scalar

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FormatNumber renders f the way the calculator displays results: whole
// numbers without a fraction, the shortest decimal that round-trips, and
// exponent form for magnitudes >= 1e21 or < 1e-6.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		return trimExponent(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// trimExponent turns "1e-07" into "1e-7".
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	mantissa, sign, digits := s[:i], s[i+1], strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + string(sign) + digits
}

// Literal renders f as a literal the expression evaluator can parse back.
// Integral values outside the int64 range use exponent form so they are
// read as floats instead of overflowing an integer literal.
func Literal(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		if f >= math.MinInt64 && f < math.MaxInt64 {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return FormatNumber(f)
}

// LiteralOf renders a Value for substitution into an expression.
// Text is inserted verbatim.
func LiteralOf(v Value) string {
	if n, ok := v.(Number); ok {
		return Literal(float64(n))
	}
	return v.String()
}

var leadingNumber = regexp.MustCompile(`^\s*[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

// LeadingNumber parses the numeric prefix of s ("23 Meters" -> 23).
// Only finite values are reported.
func LeadingNumber(s string) (float64, bool) {
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Stringify renders an evaluator result.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "undefined"
	case string:
		return x
	case float64:
		return FormatNumber(x)
	case float32:
		return FormatNumber(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case Value:
		return x.String()
	case interface{ String() string }:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
