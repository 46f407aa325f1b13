package executor

import (
	"sort"

	"github.com/wbrown/janus-sparql/eval"
	"github.com/wbrown/janus-sparql/plan"
	"github.com/wbrown/janus-sparql/term"
	"github.com/wbrown/janus-sparql/tuple"
)

// newSortIterator implements Sort (§4.3): materializes the child,
// evaluates each sort key per row once, then orders rows with
// cmp_according_to_expression (term.SortCompare), a stable multi-key
// sort so ties fall back to input order.
func newSortIterator(child TupleIterator, by []plan.SortKey, ev *eval.Evaluator) (*sliceIterator, error) {
	rows, err := drain(child)
	if err != nil {
		return nil, err
	}

	type keyedRow struct {
		row  tuple.Tuple
		keys []*term.Encoded
	}
	keyed := make([]keyedRow, len(rows))
	for i, row := range rows {
		keys := make([]*term.Encoded, len(by))
		for j, k := range by {
			v, ok, evalErr := ev.Eval(k.Expr, row)
			if evalErr != nil {
				return nil, evalErr
			}
			if ok {
				vv := v
				keys[j] = &vv
			}
		}
		keyed[i] = keyedRow{row: row, keys: keys}
	}

	var sortErr error
	sort.SliceStable(keyed, func(i, j int) bool {
		for k := range by {
			c, cmpErr := term.SortCompare(keyed[i].keys[k], keyed[j].keys[k], ev.Dict)
			if cmpErr != nil {
				sortErr = cmpErr
				return false
			}
			if c == 0 {
				continue
			}
			if by[k].Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	if sortErr != nil {
		return nil, sortErr
	}

	out := make([]tuple.Tuple, len(keyed))
	for i, kr := range keyed {
		out[i] = kr.row
	}
	return &sliceIterator{rows: out}, nil
}
