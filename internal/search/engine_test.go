package search_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silvanus-labs/machetli/internal/driver"
	"github.com/silvanus-labs/machetli/internal/gstask"
	"github.com/silvanus-labs/machetli/internal/search"
	"github.com/silvanus-labs/machetli/internal/state"
	"github.com/silvanus-labs/machetli/internal/successor"
)

// fakeEnv evaluates each candidate by calling predicate directly, in
// submission order, applying onCompleted's cancellations to later
// candidates in the same batch. It needs no subprocess machinery, since
// the search engine only depends on driver.Environment's contract.
type fakeEnv struct {
	predicate func(successor.Successor) driver.Status
}

func (e *fakeEnv) RunBatch(_ context.Context, _ string, candidates []driver.Candidate, onCompleted driver.CancelFunc) ([]driver.Result, error) {
	results := make([]driver.Result, len(candidates))
	canceled := make([]bool, len(candidates))
	for _, c := range candidates {
		if canceled[c.SuccessorID] {
			results[c.SuccessorID] = driver.Result{SuccessorID: c.SuccessorID, Successor: c.Successor, Status: driver.Canceled}
			continue
		}
		res := driver.Result{SuccessorID: c.SuccessorID, Successor: c.Successor, Status: e.predicate(c.Successor)}
		results[c.SuccessorID] = res
		for _, id := range onCompleted(res) {
			if id >= 0 && id < len(canceled) {
				canceled[id] = true
			}
		}
	}
	return results, nil
}

func dummyTask() *gstask.Task {
	return &gstask.Task{
		Variables: []gstask.Variable{{DomainSize: 2, AxiomLayer: -1, ValueNames: []string{"a", "b"}}},
		Init:      []int{0},
		Goal:      []gstask.Fact{{Var: 0, Val: 1}},
	}
}

// constantGenerator always yields the same fixed slice of successors,
// regardless of the state it is asked to expand.
type constantGenerator struct {
	succs []successor.Successor
}

func (g constantGenerator) Successors(*state.State) successor.Iterator {
	return successor.FromSlice(g.succs)
}

func TestEngine_Run_MonotonicityUnderTrivialGenerator(t *testing.T) {
	initial := state.NewGrounded(dummyTask())
	env := &fakeEnv{predicate: func(successor.Successor) driver.Status { return driver.BehaviorPresent }}
	d := driver.NewDriver(env, "evaluator", 4, false, zerolog.Nop())
	engine := search.NewEngine(d, zerolog.Nop(), constantGenerator{})

	got, err := engine.Run(context.Background(), initial)
	require.NoError(t, err)
	assert.Same(t, initial, got)
}

func TestEngine_Run_TerminatesWhenAllSuccessorsAreRejected(t *testing.T) {
	initial := state.NewGrounded(dummyTask())
	rejected := []successor.Successor{
		{State: state.NewGrounded(dummyTask()), ChangeMessage: "r1"},
		{State: state.NewGrounded(dummyTask()), ChangeMessage: "r2"},
		{State: state.NewGrounded(dummyTask()), ChangeMessage: "r3"},
	}
	env := &fakeEnv{predicate: func(s successor.Successor) driver.Status {
		if s.ChangeMessage == "" {
			return driver.BehaviorPresent
		}
		return driver.BehaviorNotPresent
	}}
	d := driver.NewDriver(env, "evaluator", 2, false, zerolog.Nop())
	engine := search.NewEngine(d, zerolog.Nop(), constantGenerator{succs: rejected})

	got, err := engine.Run(context.Background(), initial)
	require.NoError(t, err)
	assert.Same(t, initial, got)
}

func TestEngine_Run_InitialStateRejectedFailsSearch(t *testing.T) {
	initial := state.NewGrounded(dummyTask())
	env := &fakeEnv{predicate: func(successor.Successor) driver.Status { return driver.BehaviorNotPresent }}
	d := driver.NewDriver(env, "evaluator", 1, false, zerolog.Nop())
	engine := search.NewEngine(d, zerolog.Nop(), constantGenerator{})

	_, err := engine.Run(context.Background(), initial)
	var lacksProperty *search.InitialLacksProperty
	require.ErrorAs(t, err, &lacksProperty)
}

// stepGenerator returns a fixed successor list keyed by the exact *state.State
// pointer it is asked to expand, modeling a search with one improving step.
type stepGenerator struct {
	steps map[*state.State][]successor.Successor
}

func (g stepGenerator) Successors(s *state.State) successor.Iterator {
	return successor.FromSlice(g.steps[s])
}

func TestEngine_Run_AcceptsOneImprovingStepThenStops(t *testing.T) {
	initial := state.NewGrounded(dummyTask())
	s1 := state.NewGrounded(dummyTask())
	s1Child := state.NewGrounded(dummyTask())

	gen := stepGenerator{steps: map[*state.State][]successor.Successor{
		initial: {{State: s1, ChangeMessage: "s1"}},
		s1:      {{State: s1Child, ChangeMessage: "s1-child"}},
	}}
	env := &fakeEnv{predicate: func(s successor.Successor) driver.Status {
		switch s.ChangeMessage {
		case "", "s1":
			return driver.BehaviorPresent
		default:
			return driver.BehaviorNotPresent
		}
	}}
	d := driver.NewDriver(env, "evaluator", 1, false, zerolog.Nop())
	engine := search.NewEngine(d, zerolog.Nop(), gen)

	got, err := engine.Run(context.Background(), initial)
	require.NoError(t, err)
	assert.Same(t, s1, got)
}

func TestEngine_Run_DeterministicInitialCheckFailureStopsSearch(t *testing.T) {
	initial := state.NewGrounded(dummyTask())
	env := &fakeEnv{predicate: func(successor.Successor) driver.Status { return driver.Critical }}
	d := driver.NewDriver(env, "evaluator", 1, true, zerolog.Nop())
	engine := search.NewEngine(d, zerolog.Nop(), constantGenerator{})

	_, err := engine.Run(context.Background(), initial)
	var checkFailed *search.InitialCheckFailed
	require.ErrorAs(t, err, &checkFailed)
}

func TestEngine_Run_EagerInitialCriticalIsWarningNotFailure(t *testing.T) {
	initial := state.NewGrounded(dummyTask())
	env := &fakeEnv{predicate: func(s successor.Successor) driver.Status {
		if s.ChangeMessage == "" {
			return driver.Critical
		}
		return driver.BehaviorNotPresent
	}}
	d := driver.NewDriver(env, "evaluator", 1, false, zerolog.Nop())
	engine := search.NewEngine(d, zerolog.Nop(), constantGenerator{})

	got, err := engine.Run(context.Background(), initial)
	require.NoError(t, err)
	assert.Same(t, initial, got)
}

func TestNewEngine_PanicsOnInvalidConstruction(t *testing.T) {
	d := driver.NewDriver(&fakeEnv{predicate: func(successor.Successor) driver.Status { return driver.BehaviorPresent }}, "evaluator", 1, false, zerolog.Nop())
	assert.Panics(t, func() { search.NewEngine(nil, zerolog.Nop(), constantGenerator{}) })
	assert.Panics(t, func() { search.NewEngine(d, zerolog.Nop()) })
}
