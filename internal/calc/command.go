package calc

import (
	"regexp"
	"strings"
)

// Kind identifies the form of an input line.
type Kind int

const (
	// KindEvaluate is an ordinary expression.
	KindEvaluate Kind = iota
	// KindClear asks the caller to wipe history and variables.
	KindClear
	// KindFactorialCall is "factorial(n)".
	KindFactorialCall
	// KindAssignment is "@name = expr".
	KindAssignment
	// KindInvalid is input that could not be classified (not a string).
	KindInvalid
)

var kindNames = map[Kind]string{
	KindEvaluate:      "evaluate",
	KindClear:         "clear",
	KindFactorialCall: "factorial",
	KindAssignment:    "assignment",
	KindInvalid:       "invalid",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command is a classified input line.
type Command struct {
	Kind Kind

	// Name is the assignment target.
	Name string

	// Expr is the expression to evaluate: the whole input for KindEvaluate,
	// the right-hand side for KindAssignment, the argument for
	// KindFactorialCall.
	Expr string
}

var (
	factorialCall = regexp.MustCompile(`(?i)^factorial\(\s*([+-]?\d*\.?\d+)\s*\)$`)

	// The name is captured loosely so that invalid names reach validation
	// instead of falling through to the evaluator.
	assignment = regexp.MustCompile(`^@([^\s=]*)\s*=\s*(.+)$`)
)

// Classify determines the form of input. Special forms are checked in
// priority order: clear, factorial call, assignment. input is trimmed first.
func Classify(input string) Command {
	input = strings.TrimSpace(input)

	if strings.EqualFold(input, "clear") {
		return Command{Kind: KindClear}
	}
	if m := factorialCall.FindStringSubmatch(input); m != nil {
		return Command{Kind: KindFactorialCall, Expr: m[1]}
	}
	if m := assignment.FindStringSubmatch(input); m != nil {
		return Command{Kind: KindAssignment, Name: m[1], Expr: m[2]}
	}
	return Command{Kind: KindEvaluate, Expr: input}
}
