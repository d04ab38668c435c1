package driver

// Status is the terminal outcome of evaluating one candidate. Every
// Result reaches exactly one of these.
type Status int

const (
	// BehaviorPresent: the evaluator exited with the "improving" code.
	BehaviorPresent Status = iota
	// BehaviorNotPresent: the evaluator exited with the "not improving"
	// code.
	BehaviorNotPresent
	// OutOfResources: the environment reported the evaluation exceeded
	// its wall-clock, memory, or disk budget.
	OutOfResources
	// Critical: the evaluator exited with any other nonzero status,
	// crashed, or emitted an unrecognized code.
	Critical
	// Canceled: the driver aborted the evaluation because an earlier or
	// higher-priority peer in the same batch already produced a terminal
	// result.
	Canceled
)

func (s Status) String() string {
	switch s {
	case BehaviorPresent:
		return "BehaviorPresent"
	case BehaviorNotPresent:
		return "BehaviorNotPresent"
	case OutOfResources:
		return "OutOfResources"
	case Critical:
		return "Critical"
	case Canceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}
