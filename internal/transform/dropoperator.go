package transform

import (
	"fmt"

	"github.com/silvanus-labs/machetli/internal/gstask"
	"github.com/silvanus-labs/machetli/internal/state"
	"github.com/silvanus-labs/machetli/internal/successor"
)

// DropOperator generates one successor per operator in a grounded task's
// current state, each with that operator removed. It produces nothing for
// a lifted state, since a lifted task's operators are opaque bytes, not a
// structure this package can edit.
type DropOperator struct{}

// Successors implements successor.Generator.
func (DropOperator) Successors(s *state.State) successor.Iterator {
	if s.Kind != state.Grounded {
		return successor.FromSlice(nil)
	}
	task := s.GroundedTask
	successors := make([]successor.Successor, 0, len(task.Operators))
	for i, op := range task.Operators {
		smaller := task.DeepCopy()
		smaller.Operators = dropAt(smaller.Operators, i)
		successors = append(successors, successor.Successor{
			State:         state.NewGrounded(smaller),
			ChangeMessage: fmt.Sprintf("dropped operator %s", op.Name),
		})
	}
	return successor.FromSlice(successors)
}

func dropAt(ops []gstask.Operator, i int) []gstask.Operator {
	out := make([]gstask.Operator, 0, len(ops)-1)
	out = append(out, ops[:i]...)
	out = append(out, ops[i+1:]...)
	return out
}
