package driver_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silvanus-labs/machetli/internal/driver"
	"github.com/silvanus-labs/machetli/internal/gstask"
	"github.com/silvanus-labs/machetli/internal/state"
	"github.com/silvanus-labs/machetli/internal/successor"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// scriptedEnvironment is a fake Environment. batches maps a batch index
// (0-based, per call to RunBatch) to the statuses its candidates should
// report, in SuccessorID order; emitOrder gives, per batch, the order
// onCompleted should observe them in (which may differ from SuccessorID
// order).
type scriptedEnvironment struct {
	t          *testing.T
	batches    [][]driver.Status
	emitOrder  [][]int
	batchIndex int
}

func (e *scriptedEnvironment) RunBatch(_ context.Context, _ string, candidates []driver.Candidate, onCompleted driver.CancelFunc) ([]driver.Result, error) {
	i := e.batchIndex
	e.batchIndex++
	statuses := e.batches[i]
	order := e.emitOrder[i]
	results := make([]driver.Result, len(candidates))
	emitted := make([]bool, len(candidates))
	canceledSet := make(map[int]bool)

	for _, id := range order {
		if canceledSet[id] {
			continue
		}
		res := driver.Result{SuccessorID: id, Successor: candidates[id].Successor, Status: statuses[id]}
		results[id] = res
		emitted[id] = true
		for _, cancelID := range onCompleted(res) {
			canceledSet[cancelID] = true
		}
	}
	for id := range results {
		if !emitted[id] {
			results[id] = driver.Result{SuccessorID: id, Successor: candidates[id].Successor, Status: driver.Canceled}
		}
	}
	return results, nil
}

func mkSuccessor(msg string) successor.Successor {
	t := &gstask.Task{
		Variables: []gstask.Variable{{DomainSize: 2, AxiomLayer: -1, ValueNames: []string{"a", "b"}}},
		Init:      []int{0},
		Goal:      []gstask.Fact{{Var: 0, Val: 1}},
	}
	return successor.Successor{State: state.NewGrounded(t), ChangeMessage: msg}
}

func TestDriver_Eager_FirstPresentWinsAndCancelsPeers(t *testing.T) {
	env := &scriptedEnvironment{
		t:         t,
		batches:   [][]driver.Status{{driver.BehaviorNotPresent, driver.BehaviorPresent, driver.BehaviorNotPresent}},
		emitOrder: [][]int{{1, 0, 2}},
	}
	d := driver.NewDriver(env, "evaluator", 3, false, testLogger())

	it := successor.FromSlice([]successor.Successor{mkSuccessor("a"), mkSuccessor("winner"), mkSuccessor("c")})
	verdict, err := d.Evaluate(context.Background(), it)
	require.NoError(t, err)
	require.NotNil(t, verdict.Improving)
	assert.Equal(t, "winner", verdict.Improving.ChangeMessage)
}

func TestDriver_Deterministic_EarlierOutOfResourcesBeatsLaterPresent(t *testing.T) {
	env := &scriptedEnvironment{
		t: t,
		batches: [][]driver.Status{
			{driver.OutOfResources, driver.BehaviorPresent, driver.BehaviorNotPresent},
		},
		// id 1 (Present) completes before id 0 (OutOfResources), but
		// deterministic mode must still prefer id 0's verdict because it
		// has the lower SuccessorID.
		emitOrder: [][]int{{1, 0, 2}},
	}
	d := driver.NewDriver(env, "evaluator", 3, true, testLogger())

	it := successor.FromSlice([]successor.Successor{mkSuccessor("a"), mkSuccessor("b"), mkSuccessor("c")})
	verdict, err := d.Evaluate(context.Background(), it)
	require.NoError(t, err)
	assert.Nil(t, verdict.Improving)
	assert.Contains(t, verdict.Message, "deterministic")
}

func TestDriver_Deterministic_AllNotPresentMeansNoImprovingSuccessor(t *testing.T) {
	env := &scriptedEnvironment{
		t:         t,
		batches:   [][]driver.Status{{driver.BehaviorNotPresent, driver.BehaviorNotPresent}},
		emitOrder: [][]int{{0, 1}},
	}
	d := driver.NewDriver(env, "evaluator", 2, true, testLogger())

	it := successor.FromSlice([]successor.Successor{mkSuccessor("a"), mkSuccessor("b")})
	verdict, err := d.Evaluate(context.Background(), it)
	require.NoError(t, err)
	assert.Nil(t, verdict.Improving)
	assert.Equal(t, "No improving successor was found.", verdict.Message)
}

func TestDriver_Eager_OutOfResourcesAccumulatesAndContinues(t *testing.T) {
	env := &scriptedEnvironment{
		t:         t,
		batches:   [][]driver.Status{{driver.OutOfResources, driver.BehaviorNotPresent}},
		emitOrder: [][]int{{0, 1}},
	}
	d := driver.NewDriver(env, "evaluator", 2, false, testLogger())

	it := successor.FromSlice([]successor.Successor{mkSuccessor("a"), mkSuccessor("b")})
	verdict, err := d.Evaluate(context.Background(), it)
	require.NoError(t, err)
	assert.Nil(t, verdict.Improving)
	assert.Contains(t, verdict.Message, "ran out of resources")
}

func TestDriver_PanicsOnInvalidConstruction(t *testing.T) {
	assert.Panics(t, func() { driver.NewDriver(nil, "evaluator", 1, false, testLogger()) })
	assert.Panics(t, func() { driver.NewDriver(&scriptedEnvironment{}, "evaluator", 0, false, testLogger()) })
}
