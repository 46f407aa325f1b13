package executor

import (
	"github.com/wbrown/janus-sparql/eval"
	"github.com/wbrown/janus-sparql/plan"
	"github.com/wbrown/janus-sparql/tuple"
)

// filterIterator implements Filter (§4.3): passes through child rows
// whose expression's effective boolean value is true. A SPARQL type
// error (expression undefined) silently drops the row, per FILTER
// semantics; only an infrastructural error stops iteration.
type filterIterator struct {
	child TupleIterator
	expr  *plan.Expression
	ev    *eval.Evaluator
	cur   tuple.Tuple
	err   error
}

func newFilterIterator(child TupleIterator, expr *plan.Expression, ev *eval.Evaluator) *filterIterator {
	return &filterIterator{child: child, expr: expr, ev: ev}
}

func (it *filterIterator) Next() bool {
	for it.child.Next() {
		row := it.child.Tuple()
		ok, err := it.ev.EvalFilter(it.expr, row)
		if err != nil {
			it.err = err
			return false
		}
		if ok {
			it.cur = row
			return true
		}
	}
	it.err = it.child.Err()
	return false
}

func (it *filterIterator) Tuple() tuple.Tuple { return it.cur }
func (it *filterIterator) Err() error         { return it.err }
func (it *filterIterator) Close() error       { return it.child.Close() }
