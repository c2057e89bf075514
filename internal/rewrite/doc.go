// Package rewrite holds the text transforms applied to an expression before
// it reaches the evaluator.
//
// Each transform is a named Stage; a Pipeline runs stages in a fixed order.
// The default evaluation order is:
//
//	strip-commas -> chain -> variables -> constants -> factorials
//
// Assignments use variables -> constants -> factorials on the right-hand side.
//
// The pure stages (StripCommas, NormalizeConstants, ExpandFactorials) are
// idempotent: re-running them on their own output changes nothing.
package rewrite
