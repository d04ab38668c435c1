package successor

import "github.com/silvanus-labs/machetli/internal/state"

// Successor is a candidate replacement state plus a short description of
// the transformation that produced it.
type Successor struct {
	State         *state.State
	ChangeMessage string
}

// Iterator is a finite, single-pass, pull-based stream of Successor
// values. A Generator-produced Iterator is consumed at most once per
// search iteration; it is not restartable.
type Iterator interface {
	// Next returns the next Successor, or ok=false once the stream is
	// exhausted. Next must not be called again after it has returned
	// ok=false.
	Next() (Successor, bool)
}

// Generator produces candidate successors of a state, in a
// generator-defined order.
type Generator interface {
	Successors(s *state.State) Iterator
}

// sliceIterator adapts a pre-computed slice to Iterator; most Generator
// implementations outside this package build on it rather than hand-roll a
// state machine.
type sliceIterator struct {
	items []Successor
	pos   int
}

// FromSlice returns an Iterator over items, in order.
func FromSlice(items []Successor) Iterator {
	return &sliceIterator{items: items}
}

func (it *sliceIterator) Next() (Successor, bool) {
	if it.pos >= len(it.items) {
		return Successor{}, false
	}
	item := it.items[it.pos]
	it.pos++
	return item, true
}

// composite concatenates the streams of several generators: every
// Successor of g1 before any Successor of g2, and so on.
type composite struct {
	gens []Generator
}

// Composite returns a Generator whose stream is the concatenation of each
// gen's stream, including the degenerate case of a single generator.
func Composite(gens ...Generator) Generator {
	return &composite{gens: gens}
}

func (c *composite) Successors(s *state.State) Iterator {
	return &compositeIterator{gens: c.gens, state: s}
}

type compositeIterator struct {
	gens    []Generator
	state   *state.State
	current Iterator
	idx     int
}

func (it *compositeIterator) Next() (Successor, bool) {
	for {
		if it.current == nil {
			if it.idx >= len(it.gens) {
				return Successor{}, false
			}
			it.current = it.gens[it.idx].Successors(it.state)
			it.idx++
		}
		if succ, ok := it.current.Next(); ok {
			return succ, true
		}
		it.current = nil
	}
}
