package driver

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/silvanus-labs/machetli/internal/successor"
)

// Verdict is what Evaluate concludes about a single batch-generation round:
// either an improving successor was found, or not, with a human-readable
// Message explaining which in either case.
type Verdict struct {
	Improving *successor.Successor
	Message   string
}

// Driver turns a stream of candidate successors into batched evaluator
// runs and applies one of two determinism policies while terminal results
// arrive, in general, out of submission order.
//
// In eager mode, the first BehaviorPresent result to complete cancels
// every other pending candidate in its batch; peers that had already
// finished keep their results, and the verdict is the BehaviorPresent
// result with the lowest SuccessorID. This is fast but not reproducible
// between runs, since completion order depends on scheduling.
//
// In deterministic mode, a result only counts if every lower-SuccessorID
// candidate in its batch is already known to be BehaviorNotPresent; as
// soon as any candidate produces a non-BehaviorNotPresent result, every
// higher-SuccessorID peer is canceled, and the batch's verdict is decided
// by walking results in submission order once the batch finishes.
type Driver struct {
	Env           Environment
	EvaluatorPath string
	BatchSize     int
	Deterministic bool
	Logger        zerolog.Logger
}

// NewDriver constructs a Driver. It panics if env is nil or batchSize is
// not positive, since both indicate a programmer error rather than a
// runtime condition the caller can recover from.
func NewDriver(env Environment, evaluatorPath string, batchSize int, deterministic bool, logger zerolog.Logger) *Driver {
	if env == nil {
		panic("driver: env must not be nil")
	}
	if batchSize <= 0 {
		panic("driver: batchSize must be positive")
	}
	return &Driver{
		Env:           env,
		EvaluatorPath: evaluatorPath,
		BatchSize:     batchSize,
		Deterministic: deterministic,
		Logger:        logger,
	}
}

// Evaluate pulls successors out of it in batches of d.BatchSize, submits
// each batch to d.Env, and returns as soon as an improving successor is
// found or the stream is exhausted.
func (d *Driver) Evaluate(ctx context.Context, it successor.Iterator) (*Verdict, error) {
	var outOfResourceRunDirs []string

	for {
		batch, ok := nextBatch(it, d.BatchSize)
		if !ok {
			break
		}

		results, err := d.runBatch(ctx, batch)
		if err != nil {
			return nil, err
		}

		for _, r := range results {
			switch r.Status {
			case BehaviorNotPresent:
				continue

			case BehaviorPresent:
				succ := r.Successor
				return &Verdict{Improving: &succ, Message: succ.ChangeMessage}, nil

			case OutOfResources:
				if d.Deterministic {
					return &Verdict{Message: fmt.Sprintf(
						"%s\nAn evaluator ran out of resources. With the option 'deterministic' an improving successor found later would not count.",
						describeFailure(r),
					)}, nil
				}
				d.Logger.Warn().Str("run_dir", r.RunDir).Msg(describeFailure(r))
				outOfResourceRunDirs = append(outOfResourceRunDirs, r.RunDir)

			case Critical:
				if d.Deterministic {
					return &Verdict{Message: fmt.Sprintf(
						"%s\nA critical error occurred in an evaluator. With the option 'deterministic' an improving successor found later would not count.",
						describeFailure(r),
					)}, nil
				}
				d.Logger.Warn().Str("run_dir", r.RunDir).Msg(describeFailure(r))

			case Canceled:
				if d.Deterministic {
					// Unreachable: in deterministic mode, the candidate
					// that triggered this cancellation would already have
					// returned from the loop above, at a lower
					// SuccessorID than this one.
					panic("driver: observed a Canceled result in deterministic mode")
				}
			}
		}
	}

	message := "No improving successor was found."
	if len(outOfResourceRunDirs) > 0 {
		sorted := append([]string(nil), outOfResourceRunDirs...)
		slices.Sort(sorted)
		message += fmt.Sprintf(
			"\nNote that the following run directories ran out of resources and thus could not be successfully evaluated:\n%s",
			strings.Join(sorted, "\n"),
		)
	}
	return &Verdict{Message: message}, nil
}

// EvaluateOne submits a single candidate and returns its Result. The
// search engine uses this for the initial-state sanity check, which has
// no peers to cancel against.
func (d *Driver) EvaluateOne(ctx context.Context, succ successor.Successor) (Result, error) {
	results, err := d.runBatch(ctx, []Candidate{{SuccessorID: 0, Successor: succ}})
	if err != nil {
		return Result{}, err
	}
	return results[0], nil
}

func (d *Driver) runBatch(ctx context.Context, candidates []Candidate) ([]Result, error) {
	ids := make([]int, len(candidates))
	for i, c := range candidates {
		ids[i] = c.SuccessorID
	}
	onCompleted := d.cancelFunc(ids)
	return d.Env.RunBatch(ctx, d.EvaluatorPath, candidates, onCompleted)
}

// cancelFunc builds the CancelFunc implementing Driver's determinism
// policy for one batch, given the SuccessorIDs present in that batch.
func (d *Driver) cancelFunc(pendingIDs []int) CancelFunc {
	return func(completed Result) []int {
		if d.Deterministic {
			if completed.Status == BehaviorNotPresent {
				return nil
			}
			var toCancel []int
			for _, id := range pendingIDs {
				if id > completed.SuccessorID {
					toCancel = append(toCancel, id)
				}
			}
			return toCancel
		}
		if completed.Status == BehaviorPresent {
			return pendingIDs
		}
		return nil
	}
}

func nextBatch(it successor.Iterator, size int) ([]Candidate, bool) {
	var batch []Candidate
	for len(batch) < size {
		succ, ok := it.Next()
		if !ok {
			break
		}
		batch = append(batch, Candidate{SuccessorID: len(batch), Successor: succ})
	}
	return batch, len(batch) > 0
}

func describeFailure(r Result) string {
	if r.ErrorMsg != "" {
		return r.ErrorMsg
	}
	return fmt.Sprintf("%s (no further detail reported)", r.Status)
}
