// Package search implements the first-choice hill-climbing engine of spec
// §4.F: it verifies the initial state, then repeatedly asks a successor
// generator for candidates of the current state and hands them to an
// evaluator driver, replacing the current state with the first accepted
// improvement and stopping once none is found.
package search
