package search

import "fmt"

// InitialLacksProperty is returned when the initial state is evaluated as
// BehaviorNotPresent: there is nothing to minimize, since the behavior
// being searched for was never present to begin with.
type InitialLacksProperty struct {
	Message string
}

func (e *InitialLacksProperty) Error() string {
	return fmt.Sprintf("search: initial state lacks the target property: %s", e.Message)
}

// InitialCheckFailed is returned when the initial-state check itself could
// not be completed: OutOfResources or Critical in deterministic mode, where
// there is no later peer to fall back on.
type InitialCheckFailed struct {
	Reason string
}

func (e *InitialCheckFailed) Error() string {
	return fmt.Sprintf("search: initial state check failed: %s", e.Reason)
}
