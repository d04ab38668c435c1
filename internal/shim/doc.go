// Package shim implements the evaluator runtime shim: the small program
// the driver spawns as a subprocess, whose only job is to turn a state
// (however it arrives) into file paths, call the user's predicate on
// them, and translate the result into one of the stable evaluator exit
// codes in package evalcode.
package shim
