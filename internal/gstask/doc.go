// Package gstask models a grounded (SAS+) planning task: finite-domain
// variables, mutex groups, an initial state, a partial goal, operators, and
// derivation axioms.
//
// Task values are immutable from the perspective of callers outside this
// package: construction validates structural invariants once, and the only
// transformation (Rename) returns a fresh copy rather than mutating the
// receiver.
package gstask
