package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/silvanus-labs/machetli/internal/evalcode"
	"github.com/silvanus-labs/machetli/internal/state"
)

// StateBlobFileName is the name LocalEnvironment gives the candidate's
// serialized state inside its run_dir. The evaluator shim looks for a file
// by this name there.
const StateBlobFileName = "state.blob"

// errOutOfResources and errDriverCanceled are context cancellation causes
// runOne uses to tell apart a budget-exceeded candidate from one the driver
// deliberately aborted because a peer already produced a terminal result.
var (
	errOutOfResources = errors.New("driver: candidate exceeded its configured budget")
	errDriverCanceled = errors.New("driver: canceled in favor of a peer's result")
)

// LocalEnvironment runs candidates as subprocesses on the local machine,
// each in its own run directory under WorkDir. Concurrency is bounded by
// Concurrency (1 means fully sequential, matching the simplest and most
// reproducible local setup); a free-memory pre-flight check and a
// per-candidate wall-clock timeout stand in for the real per-process
// resource accounting the original system did at the OS level, which Go
// cannot portably reproduce.
type LocalEnvironment struct {
	Config  EnvironmentConfig
	WorkDir string
	Logger  zerolog.Logger
}

func (e *LocalEnvironment) concurrency() int {
	if e.Config.Concurrency > 0 {
		return e.Config.Concurrency
	}
	return 1
}

// RunBatch implements Environment.
func (e *LocalEnvironment) RunBatch(ctx context.Context, evaluatorPath string, candidates []Candidate, onCompleted CancelFunc) ([]Result, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	n := len(candidates)
	results := make([]Result, n)
	cancels := make([]context.CancelCauseFunc, n)
	done := make(chan Result, n)

	sem := semaphore.NewWeighted(int64(e.concurrency()))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, cand := range candidates {
		cand := cand
		candCtx, cancel := context.WithCancelCause(ctx)
		cancels[cand.SuccessorID] = cancel

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer cancel(nil)
			if err := sem.Acquire(candCtx, 1); err != nil {
				done <- Result{SuccessorID: cand.SuccessorID, Successor: cand.Successor, Status: Canceled}
				return
			}
			// The wall-clock budget starts once the candidate holds a slot,
			// so time spent queued behind peers does not count against it.
			runCtx := candCtx
			if e.Config.TimeoutSeconds > 0 {
				var releaseTimer context.CancelFunc
				runCtx, releaseTimer = context.WithTimeoutCause(candCtx, time.Duration(e.Config.TimeoutSeconds)*time.Second, errOutOfResources)
				defer releaseTimer()
			}
			res, subErr := e.runOne(runCtx, evaluatorPath, cand)
			sem.Release(1)
			if subErr != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = subErr
				}
				mu.Unlock()
				done <- Result{SuccessorID: cand.SuccessorID, Successor: cand.Successor, Status: Critical, ErrorMsg: subErr.Error()}
				return
			}
			done <- res
		}()
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	for res := range done {
		results[res.SuccessorID] = res
		for _, id := range onCompleted(res) {
			if id >= 0 && id < n && cancels[id] != nil {
				cancels[id](errDriverCanceled)
			}
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// runOne stages the candidate's state, invokes the evaluator against it,
// and classifies the outcome. The only errors it returns are ones that
// mean the candidate was never fairly evaluated at all (a *SubmissionError);
// every other outcome, including a crashing or timed-out evaluator, is
// reported as a terminal Result so the driver's policy can see it.
func (e *LocalEnvironment) runOne(ctx context.Context, evaluatorPath string, cand Candidate) (Result, error) {
	runDir := filepath.Join(e.WorkDir, fmt.Sprintf("run-%04d", cand.SuccessorID))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return Result{}, &SubmissionError{Cause: fmt.Errorf("creating run dir %s: %w", runDir, err)}
	}

	blob, err := state.EncodeBlob(cand.Successor.State)
	if err != nil {
		return Result{}, &SubmissionError{Cause: fmt.Errorf("encoding candidate state: %w", err)}
	}
	if err := writeBlobFile(filepath.Join(runDir, StateBlobFileName), blob); err != nil {
		return Result{}, &SubmissionError{Cause: err}
	}

	if e.Config.MemoryBudgetBytes > 0 && memory.FreeMemory() < e.Config.MemoryBudgetBytes {
		return Result{
			SuccessorID: cand.SuccessorID,
			Successor:   cand.Successor,
			Status:      OutOfResources,
			RunDir:      runDir,
			ErrorMsg:    "insufficient free memory to start the evaluator",
		}, nil
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, evaluatorPath, runDir)
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	switch cause := context.Cause(ctx); {
	case errors.Is(cause, errOutOfResources):
		return Result{SuccessorID: cand.SuccessorID, Successor: cand.Successor, Status: OutOfResources, RunDir: runDir, ErrorMsg: "evaluator exceeded its configured timeout"}, nil
	case errors.Is(cause, errDriverCanceled):
		return Result{SuccessorID: cand.SuccessorID, Successor: cand.Successor, Status: Canceled, RunDir: runDir}, nil
	}

	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return Result{}, &SubmissionError{Cause: fmt.Errorf("starting evaluator at %s: %w", evaluatorPath, runErr)}
	}
	exitCode := 0
	if exitErr != nil {
		exitCode = exitErr.ExitCode()
	}

	switch exitCode {
	case evalcode.BehaviorPresent:
		return Result{SuccessorID: cand.SuccessorID, Successor: cand.Successor, Status: BehaviorPresent, RunDir: runDir}, nil
	case evalcode.BehaviorNotPresent:
		return Result{SuccessorID: cand.SuccessorID, Successor: cand.Successor, Status: BehaviorNotPresent, RunDir: runDir}, nil
	default:
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = fmt.Sprintf("evaluator exited with unrecognized code %d", exitCode)
		}
		return Result{SuccessorID: cand.SuccessorID, Successor: cand.Successor, Status: Critical, RunDir: runDir, ErrorMsg: msg}, nil
	}
}

func writeBlobFile(path string, data []byte) error {
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("creating pending file for %s: %w", path, err)
	}
	defer func() { _ = pf.Cleanup() }()
	if _, err := pf.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("committing %s: %w", path, err)
	}
	return nil
}
