package executor

import (
	"github.com/wbrown/janus-sparql/eval"
	"github.com/wbrown/janus-sparql/plan"
	"github.com/wbrown/janus-sparql/tuple"
)

// extendIterator implements Extend (§4.3, BIND(expr AS ?v)): on each
// row, evaluates value and binds it to slot. A SPARQL type error (the
// expression is undefined for this row) drops the row; only an
// infrastructural error stops iteration.
type extendIterator struct {
	child TupleIterator
	slot  int
	value *plan.Expression
	ev    *eval.Evaluator
	cur   tuple.Tuple
	err   error
}

func newExtendIterator(child TupleIterator, slot int, value *plan.Expression, ev *eval.Evaluator) *extendIterator {
	return &extendIterator{child: child, slot: slot, value: value, ev: ev}
}

func (it *extendIterator) Next() bool {
	for it.child.Next() {
		row := it.child.Tuple()
		v, ok, err := it.ev.Eval(it.value, row)
		if err != nil {
			it.err = err
			return false
		}
		if !ok {
			continue
		}
		it.cur = row.Put(it.slot, v)
		return true
	}
	it.err = it.child.Err()
	return false
}

func (it *extendIterator) Tuple() tuple.Tuple { return it.cur }
func (it *extendIterator) Err() error         { return it.err }
func (it *extendIterator) Close() error       { return it.child.Close() }
