package executor

import "github.com/wbrown/janus-sparql/tuple"

// joinIterator implements the inner Join (§4.3): nested-loop, left
// materialized, right streamed. The left child is drained once up
// front; each right row is then tested against every materialized left
// row via combine_tuples.
type joinIterator struct {
	leftRows []tuple.Tuple
	right    TupleIterator

	pending []tuple.Tuple
	pendIdx int
	cur     tuple.Tuple
	err     error
}

func newJoinIterator(left, right TupleIterator) (*joinIterator, error) {
	rows, err := drain(left)
	if err != nil {
		right.Close()
		return nil, err
	}
	return &joinIterator{leftRows: rows, right: right}, nil
}

func (it *joinIterator) Next() bool {
	for {
		if it.pendIdx < len(it.pending) {
			it.cur = it.pending[it.pendIdx]
			it.pendIdx++
			return true
		}
		if !it.right.Next() {
			it.err = it.right.Err()
			return false
		}
		rrow := it.right.Tuple()
		it.pending = it.pending[:0]
		it.pendIdx = 0
		for _, lrow := range it.leftRows {
			if combined, ok := tuple.Combine(lrow, rrow); ok {
				it.pending = append(it.pending, combined)
			}
		}
	}
}

func (it *joinIterator) Tuple() tuple.Tuple { return it.cur }
func (it *joinIterator) Err() error         { return it.err }
func (it *joinIterator) Close() error       { return it.right.Close() }

// leftJoinIterator implements LeftJoin (§4.3): for each left row, the
// right subplan is re-evaluated as a correlated subquery seeded with
// that row (not matched against a once-materialized right relation).
// If the correlated evaluation produces no rows, the left row is
// emitted unchanged to preserve the outer-join property.
type leftJoinIterator struct {
	left       TupleIterator
	buildRight func(tuple.Tuple) (TupleIterator, error)

	pending []tuple.Tuple
	pendIdx int
	cur     tuple.Tuple
	err     error
}

func newLeftJoinIterator(left TupleIterator, buildRight func(tuple.Tuple) (TupleIterator, error)) *leftJoinIterator {
	return &leftJoinIterator{left: left, buildRight: buildRight}
}

func (it *leftJoinIterator) Next() bool {
	for {
		if it.pendIdx < len(it.pending) {
			it.cur = it.pending[it.pendIdx]
			it.pendIdx++
			return true
		}
		if !it.left.Next() {
			it.err = it.left.Err()
			return false
		}
		lrow := it.left.Tuple()
		right, err := it.buildRight(lrow)
		if err != nil {
			it.err = err
			return false
		}
		rows, err := drain(right)
		if err != nil {
			it.err = err
			return false
		}
		if len(rows) == 0 {
			rows = []tuple.Tuple{lrow}
		}
		it.pending = rows
		it.pendIdx = 0
	}
}

func (it *leftJoinIterator) Tuple() tuple.Tuple { return it.cur }
func (it *leftJoinIterator) Err() error         { return it.err }
func (it *leftJoinIterator) Close() error       { return it.left.Close() }

// bindVariablesInSet filters vars down to those actually bound in seed
// (§4.3.1): a planner-listed "possible problem var" only matters if the
// outer seed actually bound it.
func bindVariablesInSet(seed tuple.Tuple, vars []int) []int {
	var out []int
	for _, v := range vars {
		if seed.Bound(v) {
			out = append(out, v)
		}
	}
	return out
}

// badLeftJoinIterator corrects a planner artifact ("bad left join",
// §4.3.1): the wrapped leftJoinIterator was evaluated against a seed
// with problemVars unbound, so its output rows may disagree with what
// the original (unfiltered) seed actually bound at those slots. Each
// row is reconciled against original: a slot the row leaves unbound is
// restored from original; a slot the row binds to a different value
// than original is a conflict, and the row is dropped.
type badLeftJoinIterator struct {
	inner       TupleIterator
	original    tuple.Tuple
	problemVars []int

	cur tuple.Tuple
	err error
}

func newBadLeftJoinIterator(inner TupleIterator, original tuple.Tuple, problemVars []int) *badLeftJoinIterator {
	return &badLeftJoinIterator{inner: inner, original: original, problemVars: problemVars}
}

func (it *badLeftJoinIterator) Next() bool {
	for it.inner.Next() {
		row := it.inner.Tuple().Clone()
		conflict := false
		for _, pv := range it.problemVars {
			origVal := it.original.Get(pv)
			if origVal == nil {
				continue
			}
			rowVal := row.Get(pv)
			switch {
			case rowVal == nil:
				row = row.Put(pv, *origVal)
			case !rowVal.Equal(*origVal):
				conflict = true
			}
		}
		if !conflict {
			it.cur = row
			return true
		}
	}
	it.err = it.inner.Err()
	return false
}

func (it *badLeftJoinIterator) Tuple() tuple.Tuple { return it.cur }
func (it *badLeftJoinIterator) Err() error         { return it.err }
func (it *badLeftJoinIterator) Close() error       { return it.inner.Close() }
