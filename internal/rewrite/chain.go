package rewrite

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/roach88/cloudycalc/internal/scalar"
)

// AnswerName is the variable consulted for chained input.
const AnswerName = "ans"

var leadingOperator = regexp.MustCompile(`^[+\-*/%^]`)

// StartsWithOperator reports whether expr begins with a binary operator.
func StartsWithOperator(expr string) bool {
	return leadingOperator.MatchString(expr)
}

// AnswerToken renders the answer register as a left operand. Negative
// values are parenthesized so "^2" after -9 means (-9)^2, not -(9^2).
func AnswerToken(ans scalar.Value) string {
	token := scalar.LiteralOf(ans)
	if f, ok := scalar.LeadingNumber(token); ok && f < 0 {
		return "(" + token + ")"
	}
	return token
}

// ResolveChain prepends the answer register to expr when expr starts with
// a bare operator. Without a register the input is returned unchanged.
func ResolveChain(ctx context.Context, expr string, vars Variables, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !StartsWithOperator(expr) {
		return expr, nil
	}

	ans, ok, err := vars.Get(ctx, AnswerName)
	if err != nil {
		return expr, err
	}
	if !ok {
		logger.Warn("input starts with operator but ans is not set", "input", expr)
		return expr, nil
	}

	chained := AnswerToken(ans) + " " + expr
	logger.Debug("prepended ans", "ans", ans.String(), "expression", chained)
	return chained, nil
}

// ChainStage wraps ResolveChain as a Stage.
func ChainStage(vars Variables, logger *slog.Logger) Stage {
	return Stage{
		Name: StageChain,
		Apply: func(ctx context.Context, expr string) (string, error) {
			return ResolveChain(ctx, expr, vars, logger)
		},
	}
}
