// Package state models the opaque state envelope carried between search
// iterations and handed to successor generators and the evaluator shim.
// A State currently wraps exactly one grounded or lifted task; the
// tagged-union shape leaves room for additional representations without
// touching the search engine.
package state
