package rewrite

import "regexp"

// Canonical constant token understood by the evaluator.
const PiToken = "PI"

var piWord = regexp.MustCompile(`(?i)\bpi\b`)

// NormalizeConstants rewrites whole-word "pi" in any case to PI.
// Substrings of longer identifiers ("recipe", "pie") are untouched.
func NormalizeConstants(expr string) string {
	return piWord.ReplaceAllLiteralString(expr, PiToken)
}
