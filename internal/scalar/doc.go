// Package scalar defines the values the calculator stores in variables and
// the number formatting shared by the rewrite stages and the orchestrator.
//
// A Value is either a Number (always finite) or Text. Normalize is applied
// once at the store-write boundary so every stored value is canonical:
// a string becomes a Number only when the conversion is lossless.
package scalar
