package driver

import (
	"context"

	"github.com/silvanus-labs/machetli/internal/successor"
)

// Candidate is a successor submitted for evaluation, tagged with its
// position in the current batch.
type Candidate struct {
	SuccessorID int
	Successor   successor.Successor
}

// Result is the terminal record of evaluating one Candidate.
type Result struct {
	SuccessorID int
	Successor   successor.Successor
	Status      Status
	RunDir      string
	ErrorMsg    string
}

// CancelFunc is invoked synchronously as each Result in a batch reaches a
// terminal status (in completion order, which need not be submission
// order). It returns the successor ids of peers that should now be
// canceled; a nil or empty result cancels nothing. The Environment is
// responsible for making cancellation idempotent.
type CancelFunc func(completed Result) []int

// Environment is the execution backend the driver dispatches evaluations
// through. A local environment runs candidates one at a time (or
// with bounded concurrency) on the local machine; a clustered environment
// could run up to len(candidates) in parallel without changing driver
// behavior, since the driver never assumes a particular completion order.
type Environment interface {
	// RunBatch submits every candidate for evaluation against
	// evaluatorPath and blocks until all have reached a terminal status,
	// calling onCompleted once per candidate as it terminates. It
	// returns results ordered by SuccessorID, regardless of completion
	// order. A *SubmissionError means the batch could not be accepted at
	// all; a *PollingError means status could not be determined for one
	// or more candidates after acceptance.
	RunBatch(ctx context.Context, evaluatorPath string, candidates []Candidate, onCompleted CancelFunc) ([]Result, error)
}
