package executor

import (
	"github.com/wbrown/janus-sparql/plan"
	"github.com/wbrown/janus-sparql/tuple"
)

// unionIterator implements Union (§4.3): entry is evaluated once
// against the enclosing seed, and each row it produces reseeds every
// child in turn, in forward order — all of the first child's rows
// (seeded by the current entry row), then the second's, and so on,
// before advancing to the next entry row. This is a deliberate
// departure from the original implementation's stack-based child
// traversal (which pops children in reverse), since the testable
// property this repository is built against requires forward order;
// see DESIGN.md.
type unionIterator struct {
	entry    TupleIterator
	children []*plan.Node
	build    func(*plan.Node, tuple.Tuple) (TupleIterator, error)

	entryRow tuple.Tuple
	idx      int
	cur      TupleIterator
	row      tuple.Tuple
	err      error
}

func newUnionIterator(entry TupleIterator, children []*plan.Node, build func(*plan.Node, tuple.Tuple) (TupleIterator, error)) *unionIterator {
	return &unionIterator{entry: entry, children: children, build: build, idx: len(children)}
}

func (it *unionIterator) Next() bool {
	for {
		if it.cur == nil {
			if it.idx >= len(it.children) {
				if !it.entry.Next() {
					it.err = it.entry.Err()
					return false
				}
				it.entryRow = it.entry.Tuple()
				it.idx = 0
				if len(it.children) == 0 {
					continue
				}
			}
			child, err := it.build(it.children[it.idx], it.entryRow)
			it.idx++
			if err != nil {
				it.err = err
				return false
			}
			it.cur = child
		}
		if it.cur.Next() {
			it.row = it.cur.Tuple()
			return true
		}
		if err := it.cur.Err(); err != nil {
			it.cur.Close()
			it.err = err
			return false
		}
		it.cur.Close()
		it.cur = nil
	}
}

func (it *unionIterator) Tuple() tuple.Tuple { return it.row }
func (it *unionIterator) Err() error         { return it.err }
func (it *unionIterator) Close() error {
	var err error
	if it.cur != nil {
		err = it.cur.Close()
	}
	if closeErr := it.entry.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
