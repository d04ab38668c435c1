package state

import (
	"github.com/silvanus-labs/machetli/internal/gstask"
	"github.com/silvanus-labs/machetli/internal/lifted"
)

// Kind discriminates which representation a State carries.
type Kind int

const (
	// Grounded indicates State.GroundedTask is populated.
	Grounded Kind = iota
	// Lifted indicates State.LiftedTask is populated.
	Lifted
)

// State is the opaque envelope successor generators and the evaluator shim
// exchange. Exactly one of GroundedTask or LiftedTask is non-nil, matching
// Kind.
type State struct {
	Kind         Kind
	GroundedTask *gstask.Task
	LiftedTask   *lifted.Task
}

// NewGrounded wraps a grounded task in a State.
func NewGrounded(t *gstask.Task) *State {
	return &State{Kind: Grounded, GroundedTask: t}
}

// NewLifted wraps a lifted task in a State.
func NewLifted(t *lifted.Task) *State {
	return &State{Kind: Lifted, LiftedTask: t}
}

// DeepCopy returns a State sharing no backing storage with s.
func (s *State) DeepCopy() *State {
	switch s.Kind {
	case Grounded:
		return NewGrounded(s.GroundedTask.DeepCopy())
	case Lifted:
		return NewLifted(s.LiftedTask.DeepCopy())
	default:
		panic("state: unknown kind")
	}
}
