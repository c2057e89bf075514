package rewrite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Stage is one named rewrite.
type Stage struct {
	Name  string
	Apply func(ctx context.Context, expr string) (string, error)
}

// Pure wraps a context-free transform as a Stage.
func Pure(name string, fn func(string) string) Stage {
	return Stage{
		Name: name,
		Apply: func(_ context.Context, expr string) (string, error) {
			return fn(expr), nil
		},
	}
}

// Pipeline is an ordered list of stages.
type Pipeline []Stage

// Run applies every stage in order. The first failing stage aborts the run.
func (p Pipeline) Run(ctx context.Context, expr string) (string, error) {
	for _, stage := range p {
		out, err := stage.Apply(ctx, expr)
		if err != nil {
			return expr, fmt.Errorf("rewrite %s: %w", stage.Name, err)
		}
		expr = out
	}
	return expr, nil
}

// Names returns the stage names in execution order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p))
	for i, stage := range p {
		names[i] = stage.Name
	}
	return names
}

// Stage names.
const (
	StageStripCommas = "strip-commas"
	StageChain       = "chain"
	StageVariables   = "variables"
	StageConstants   = "constants"
	StageFactorials  = "factorials"
)

// Evaluation returns the pipeline for ordinary expressions.
func Evaluation(vars Variables, logger *slog.Logger) Pipeline {
	return Pipeline{
		Pure(StageStripCommas, StripCommas),
		ChainStage(vars, logger),
		VariablesStage(vars),
		Pure(StageConstants, NormalizeConstants),
		Pure(StageFactorials, ExpandFactorials),
	}
}

// Assignment returns the pipeline for the right-hand side of an assignment.
func Assignment(vars Variables) Pipeline {
	return Pipeline{
		VariablesStage(vars),
		Pure(StageConstants, NormalizeConstants),
		Pure(StageFactorials, ExpandFactorials),
	}
}

// StripCommas removes thousands separators ("1,000" -> "1000").
func StripCommas(expr string) string {
	return strings.ReplaceAll(expr, ",", "")
}
