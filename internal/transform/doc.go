// Package transform holds concrete successor.Generator implementations.
// The protocol itself (package successor) is generator-agnostic; this
// package supplies the one transformation general enough to ship as a
// usable default: dropping a single operator from a grounded task.
// Domain-specific minimization transformations belong to the caller, the
// same way the evaluator predicate does.
package transform
