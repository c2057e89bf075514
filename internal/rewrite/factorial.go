package rewrite

import (
	"errors"
	"math"
	"regexp"
	"strconv"

	"github.com/roach88/cloudycalc/internal/scalar"
)

var (
	// ErrFactorialDomain is returned for negative or non-integer arguments.
	ErrFactorialDomain = errors.New("factorial requires a non-negative integer")

	// ErrFactorialOverflow is returned when the product is no longer finite.
	ErrFactorialOverflow = errors.New("factorial result too large to calculate")
)

// Factorial computes n! iteratively in float64.
func Factorial(n float64) (float64, error) {
	if n < 0 || n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, ErrFactorialDomain
	}

	result := 1.0
	for i := 2.0; i <= n; i++ {
		result *= i
		if math.IsInf(result, 0) {
			return 0, ErrFactorialOverflow
		}
	}
	return result, nil
}

var factorialNotation = regexp.MustCompile(`\d+!`)

// ExpandFactorials replaces every "<digits>!" with the value of the
// factorial. A match whose factorial overflows is left as written so the
// evaluator reports the error.
func ExpandFactorials(expr string) string {
	return factorialNotation.ReplaceAllStringFunc(expr, func(match string) string {
		n, err := strconv.ParseFloat(match[:len(match)-1], 64)
		if err != nil {
			return match
		}
		f, err := Factorial(n)
		if err != nil {
			return match
		}
		return scalar.Literal(f)
	})
}
