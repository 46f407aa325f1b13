package executor

import "github.com/wbrown/janus-sparql/tuple"

// initIterator produces exactly the seed row handed to it, the single
// starting point of every plan (§4.3's Init node: "one row, all slots
// unbound" at the top of a query, or the outer binding when a subtree
// is evaluated relative to an enclosing context).
type initIterator struct {
	seed tuple.Tuple
	done bool
}

func newInitIterator(seed tuple.Tuple) *initIterator {
	return &initIterator{seed: seed}
}

func (it *initIterator) Next() bool {
	if it.done {
		return false
	}
	it.done = true
	return true
}

func (it *initIterator) Tuple() tuple.Tuple { return it.seed }
func (it *initIterator) Err() error         { return nil }
func (it *initIterator) Close() error       { return nil }

// staticBindingsIterator streams a fixed, planner-supplied set of rows
// (VALUES clauses).
type staticBindingsIterator struct {
	sliceIterator
}

func newStaticBindingsIterator(rows []tuple.Tuple) *staticBindingsIterator {
	return &staticBindingsIterator{sliceIterator{rows: rows}}
}
