// Package evalcode holds the stable, user-observable evaluator exit codes.
// Both the evaluator runtime shim (which produces them) and the evaluator
// driver (which interprets them) import this package so the numeric
// values only exist in one place.
package evalcode

const (
	// BehaviorPresent is returned when the evaluated behavior is present
	// in the candidate.
	BehaviorPresent = 30
	// BehaviorNotPresent is returned when the evaluated behavior is not
	// present in the candidate.
	BehaviorNotPresent = 31
	// Critical is returned for any error the shim can identify cleanly.
	// Any other nonzero exit code, or termination by signal, is treated
	// identically by the driver.
	Critical = 32
)
