// Package driver implements the batched evaluator driver: it turns a
// stream of candidate successors into subprocess evaluations,
// applies one of two determinism policies while results arrive out of
// order, and yields either an improving successor or an explanatory
// "no improving successor" verdict.
//
// The driver owns policy (which peers to cancel, when an out-of-order
// result must be rejected); an Environment owns mechanics (how a
// candidate is actually evaluated, locally or otherwise).
package driver
