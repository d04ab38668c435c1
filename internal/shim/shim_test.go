package shim_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silvanus-labs/machetli/internal/evalcode"
	"github.com/silvanus-labs/machetli/internal/gstask"
	"github.com/silvanus-labs/machetli/internal/lifted"
	"github.com/silvanus-labs/machetli/internal/shim"
	"github.com/silvanus-labs/machetli/internal/state"
)

func dummyTask() *gstask.Task {
	return &gstask.Task{
		Variables: []gstask.Variable{{DomainSize: 2, AxiomLayer: -1, ValueNames: []string{"a", "b"}}},
		Init:      []int{0},
		Goal:      []gstask.Fact{{Var: 0, Val: 1}},
	}
}

func writeBlob(t *testing.T, s *state.State) string {
	t.Helper()
	data, err := state.EncodeBlob(s)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "state.blob")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRun_GroundedBlob_PresentAndNotPresent(t *testing.T) {
	path := writeBlob(t, state.NewGrounded(dummyTask()))

	present := shim.Run(context.Background(), shim.Input{BlobPath: path}, func(_ context.Context, paths ...string) (bool, error) {
		require.Len(t, paths, 1)
		_, err := os.Stat(paths[0])
		require.NoError(t, err)
		return true, nil
	}, zerolog.Nop())
	assert.Equal(t, evalcode.BehaviorPresent, present)

	notPresent := shim.Run(context.Background(), shim.Input{BlobPath: path}, func(context.Context, ...string) (bool, error) {
		return false, nil
	}, zerolog.Nop())
	assert.Equal(t, evalcode.BehaviorNotPresent, notPresent)
}

func TestRun_GroundedBlob_CleansUpArtifactsAfterward(t *testing.T) {
	path := writeBlob(t, state.NewGrounded(dummyTask()))
	var stagedPath string

	shim.Run(context.Background(), shim.Input{BlobPath: path}, func(_ context.Context, paths ...string) (bool, error) {
		stagedPath = paths[0]
		return true, nil
	}, zerolog.Nop())

	_, err := os.Stat(stagedPath)
	assert.True(t, os.IsNotExist(err), "temporary artifact should be unlinked after Run returns")
}

func TestRun_LiftedBlob_WritesDomainAndProblem(t *testing.T) {
	path := writeBlob(t, state.NewLifted(&lifted.Task{Domain: []byte("(define (domain d))"), Problem: []byte("(define (problem p))")}))

	shim.Run(context.Background(), shim.Input{BlobPath: path}, func(_ context.Context, paths ...string) (bool, error) {
		require.Len(t, paths, 2)
		domain, err := os.ReadFile(paths[0])
		require.NoError(t, err)
		assert.Equal(t, "(define (domain d))", string(domain))
		return true, nil
	}, zerolog.Nop())
}

func TestRun_PredicateError_IsCritical(t *testing.T) {
	path := writeBlob(t, state.NewGrounded(dummyTask()))
	code := shim.Run(context.Background(), shim.Input{BlobPath: path}, func(context.Context, ...string) (bool, error) {
		return false, errors.New("boom")
	}, zerolog.Nop())
	assert.Equal(t, evalcode.Critical, code)
}

func TestRun_PredicatePanic_IsCritical(t *testing.T) {
	path := writeBlob(t, state.NewGrounded(dummyTask()))
	code := shim.Run(context.Background(), shim.Input{BlobPath: path}, func(context.Context, ...string) (bool, error) {
		panic("unexpected")
	}, zerolog.Nop())
	assert.Equal(t, evalcode.Critical, code)
}

func TestRun_MissingBlob_IsCritical(t *testing.T) {
	code := shim.Run(context.Background(), shim.Input{BlobPath: filepath.Join(t.TempDir(), "missing.blob")}, func(context.Context, ...string) (bool, error) {
		return true, nil
	}, zerolog.Nop())
	assert.Equal(t, evalcode.Critical, code)
}

func TestRun_RawGroundedPath_PassesThroughUnmodified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task.sas")
	require.NoError(t, os.WriteFile(path, []byte("raw-task"), 0o644))

	code := shim.Run(context.Background(), shim.Input{RawPaths: []string{path}}, func(_ context.Context, paths ...string) (bool, error) {
		require.Equal(t, []string{path}, paths)
		return true, nil
	}, zerolog.Nop())
	assert.Equal(t, evalcode.BehaviorPresent, code)

	_, err := os.Stat(path)
	assert.NoError(t, err, "a raw path supplied by the caller is never the shim's to unlink")
}

func TestRun_RawLiftedPathWithoutDiscoverableDomain_IsCritical(t *testing.T) {
	dir := t.TempDir()
	problemPath := filepath.Join(dir, "problem.pddl")
	require.NoError(t, os.WriteFile(problemPath, []byte("(define (problem p))"), 0o644))

	code := shim.Run(context.Background(), shim.Input{RawPaths: []string{problemPath}, Lifted: true}, func(context.Context, ...string) (bool, error) {
		return true, nil
	}, zerolog.Nop())
	assert.Equal(t, evalcode.Critical, code)
}

func TestRun_RawLiftedPathWithDiscoverableDomain(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "domain.pddl"), []byte("(define (domain d))"), 0o644))
	problemPath := filepath.Join(dir, "problem.pddl")
	require.NoError(t, os.WriteFile(problemPath, []byte("(define (problem p))"), 0o644))

	code := shim.Run(context.Background(), shim.Input{RawPaths: []string{problemPath}, Lifted: true}, func(_ context.Context, paths ...string) (bool, error) {
		require.Len(t, paths, 2)
		assert.Equal(t, filepath.Join(dir, "domain.pddl"), paths[0])
		assert.Equal(t, problemPath, paths[1])
		return true, nil
	}, zerolog.Nop())
	assert.Equal(t, evalcode.BehaviorPresent, code)
}
