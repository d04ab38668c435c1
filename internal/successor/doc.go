// Package successor defines the successor-generator protocol: a finite,
// single-pass, pull-based stream of candidate states, each tagged with a
// human-readable description of the transformation that produced it.
//
// Go's static typing sidesteps the "accept either a single generator or a
// list, reject anything else" dynamic check a looser language would need:
// Composite accepts a variadic list of Generators, so a caller with one
// generator or many expresses both the same way, and there is no other
// shape to reject.
package successor
