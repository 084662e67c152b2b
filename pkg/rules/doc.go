// Package rules implements the regex rule primitive shared by the whole
// pipeline: find a pattern in a subject string, extract or replace, and
// optionally test the result for equality.
//
// Every configurable derivation in the tool (row skip filters, matching
// keys, reel and annotation lines) is a Rule value interpreted by the
// same evaluator. The variability lives in configuration data, not in
// code branching.
package rules
