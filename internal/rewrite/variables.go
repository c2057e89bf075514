package rewrite

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/roach88/cloudycalc/internal/scalar"
)

// Variables is the read side of the variable store.
type Variables interface {
	Get(ctx context.Context, name string) (scalar.Value, bool, error)
	GetAll(ctx context.Context) (scalar.Map, error)
}

// SubstituteVariables replaces whole-word, case-sensitive occurrences of
// each variable name with its value. Longer names are tried first, and the
// text is scanned once, so substituted values are never rewritten again.
// Numbers are inserted as evaluator literals, parenthesized when negative
// so "x^2" with x = -3 means (-3)^2. Text is inserted verbatim.
func SubstituteVariables(expr string, vars scalar.Map) string {
	if len(vars) == 0 || expr == "" {
		return expr
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = regexp.QuoteMeta(name)
	}
	re := regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)

	return re.ReplaceAllStringFunc(expr, func(name string) string {
		value := vars[name]
		if n, ok := value.(scalar.Number); ok && n < 0 {
			return "(" + scalar.LiteralOf(value) + ")"
		}
		return scalar.LiteralOf(value)
	})
}

// VariablesStage substitutes the current contents of the store.
func VariablesStage(vars Variables) Stage {
	return Stage{
		Name: StageVariables,
		Apply: func(ctx context.Context, expr string) (string, error) {
			all, err := vars.GetAll(ctx)
			if err != nil {
				return expr, err
			}
			return SubstituteVariables(expr, all), nil
		},
	}
}
