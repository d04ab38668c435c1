package shim

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/silvanus-labs/machetli/internal/evalcode"
	"github.com/silvanus-labs/machetli/internal/gscodec"
	"github.com/silvanus-labs/machetli/internal/lifted"
	"github.com/silvanus-labs/machetli/internal/state"
)

// Predicate is the user-supplied evaluator: it inspects the task artifacts
// at paths and reports whether the target behavior is present. An error
// return is treated identically to a panic: evalcode.Critical.
type Predicate func(ctx context.Context, paths ...string) (bool, error)

// Input selects how a Task reaches the Predicate. Exactly one of BlobPath
// or RawPaths is set.
type Input struct {
	// BlobPath, if non-empty, names a serialized state.State blob. It is
	// decoded and its task written to scoped temporary files.
	BlobPath string

	// RawPaths, used when BlobPath is empty, names task artifacts
	// directly: one path for a grounded task, or one or two paths for a
	// lifted task (domain+problem). A single lifted path triggers
	// domain-file discovery.
	RawPaths []string
	Lifted   bool
}

// Run stages in's artifacts, invokes predicate on their paths, and returns
// the evaluator exit code the driver expects. It never panics outward: a
// staging failure or a predicate error both become evalcode.Critical,
// logged at error level via logger.
func Run(ctx context.Context, in Input, predicate Predicate, logger zerolog.Logger) int {
	paths, cleanup, err := stageArtifacts(in)
	if err != nil {
		logger.Error().Err(err).Msg("shim: failed to stage evaluator artifacts")
		return evalcode.Critical
	}
	defer cleanup()

	present, err := safeInvoke(ctx, predicate, paths)
	if err != nil {
		logger.Error().Err(err).Msg("shim: evaluator predicate failed")
		return evalcode.Critical
	}
	if present {
		return evalcode.BehaviorPresent
	}
	return evalcode.BehaviorNotPresent
}

// safeInvoke recovers a panicking predicate and reports it as an error,
// since a predicate supplied by the evaluator's author is third-party code
// from the shim's point of view.
func safeInvoke(ctx context.Context, predicate Predicate, paths []string) (present bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("shim: evaluator predicate panicked: %v", r)
		}
	}()
	return predicate(ctx, paths...)
}

// stageArtifacts resolves in into concrete file paths the predicate can
// read, plus a cleanup function that unlinks any temporary files it
// created. cleanup runs via defer in Run, so it fires on every return path
// except the process being killed by the OS, which Go cannot intercept.
func stageArtifacts(in Input) (paths []string, cleanup func(), err error) {
	if in.BlobPath != "" {
		return stageBlob(in.BlobPath)
	}
	if len(in.RawPaths) == 1 && in.Lifted {
		domainPath, err := lifted.FindDomainFile(in.RawPaths[0])
		if err != nil {
			return nil, nil, fmt.Errorf("shim: locating domain file for %s: %w", in.RawPaths[0], err)
		}
		return []string{domainPath, in.RawPaths[0]}, func() {}, nil
	}
	if len(in.RawPaths) == 0 {
		return nil, nil, fmt.Errorf("shim: no input given")
	}
	return in.RawPaths, func() {}, nil
}

func stageBlob(blobPath string) (paths []string, cleanup func(), err error) {
	data, err := os.ReadFile(blobPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading state blob %s: %w", blobPath, err)
	}
	s, err := state.DecodeBlob(data)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding state blob %s: %w", blobPath, err)
	}

	dir, err := os.MkdirTemp("", "machetli-shim-*")
	if err != nil {
		return nil, nil, fmt.Errorf("creating scoped artifact dir: %w", err)
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	switch s.Kind {
	case state.Grounded:
		taskPath := filepath.Join(dir, "task.sas")
		if err := gscodec.WriteFile(taskPath, s.GroundedTask); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("writing grounded task artifact: %w", err)
		}
		return []string{taskPath}, cleanup, nil

	case state.Lifted:
		domainPath := filepath.Join(dir, "domain.pddl")
		problemPath := filepath.Join(dir, "problem.pddl")
		if err := os.WriteFile(domainPath, s.LiftedTask.Domain, 0o644); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("writing domain artifact: %w", err)
		}
		if err := os.WriteFile(problemPath, s.LiftedTask.Problem, 0o644); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("writing problem artifact: %w", err)
		}
		return []string{domainPath, problemPath}, cleanup, nil

	default:
		cleanup()
		return nil, nil, fmt.Errorf("unrecognized state kind %v", s.Kind)
	}
}
