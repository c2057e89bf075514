package evaluator

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
)

type unary func(float64) float64

var unaryFunctions = map[string]unary{
	"sqrt":  math.Sqrt,
	"cbrt":  math.Cbrt,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"ln":    math.Log,
	"log":   math.Log10,
	"log2":  math.Log2,
	"exp":   math.Exp,
	"trunc": math.Trunc,
}

var binaryFunctions = map[string]func(float64, float64) float64{
	"pow":   math.Pow,
	"hypot": math.Hypot,
	"mod":   math.Mod,
}

func mathFunctions() []expr.Option {
	opts := make([]expr.Option, 0, len(unaryFunctions)+len(binaryFunctions))
	for name, fn := range unaryFunctions {
		opts = append(opts, expr.Function(name, unaryAdapter(name, fn)))
	}
	for name, fn := range binaryFunctions {
		opts = append(opts, expr.Function(name, binaryAdapter(name, fn)))
	}
	return opts
}

func unaryAdapter(name string, fn unary) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(params))
		}
		x, err := toFloat(name, params[0])
		if err != nil {
			return nil, err
		}
		return fn(x), nil
	}
}

func binaryAdapter(name string, fn func(float64, float64) float64) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("%s expects 2 arguments, got %d", name, len(params))
		}
		x, err := toFloat(name, params[0])
		if err != nil {
			return nil, err
		}
		y, err := toFloat(name, params[1])
		if err != nil {
			return nil, err
		}
		return fn(x, y), nil
	}
}

func toFloat(name string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%s expects a number, got %T", name, v)
	}
}
