package executor

import (
	"github.com/wbrown/janus-sparql/plan"
	"github.com/wbrown/janus-sparql/term"
	"github.com/wbrown/janus-sparql/tuple"
)

// quadPatternJoinIterator implements QuadPatternJoin (§4.3): for every
// row the child produces, instantiate the quad pattern against that
// row's bindings, look the pattern up in the dataset, and extend the
// row with each match. A variable occurring twice within the same
// pattern (a self-join) is enforced by the bind step rejecting matches
// whose two occurrences disagree; a variable graph position excludes
// the default graph, since `GRAPH ?g { }` only ranges over named
// graphs.
type quadPatternJoinIterator struct {
	ds    Dataset
	node  *plan.Node
	child TupleIterator

	row     tuple.Tuple
	current []term.Quad
	idx     int
	cur     tuple.Tuple
	err     error
}

func newQuadPatternJoinIterator(ds Dataset, node *plan.Node, child TupleIterator) *quadPatternJoinIterator {
	return &quadPatternJoinIterator{ds: ds, node: node, child: child}
}

func resolvePattern(pv plan.PatternValue, row tuple.Tuple) *term.Encoded {
	if !pv.IsVariable {
		c := pv.Constant
		return &c
	}
	return row.Get(pv.Slot)
}

func (it *quadPatternJoinIterator) Next() bool {
	for {
		for it.idx < len(it.current) {
			q := it.current[it.idx]
			it.idx++
			if out, ok := it.bind(q); ok {
				it.cur = out
				return true
			}
		}
		if !it.child.Next() {
			it.err = it.child.Err()
			return false
		}
		it.row = it.child.Tuple()

		s := resolvePattern(it.node.Subject, it.row)
		p := resolvePattern(it.node.Predicate, it.row)
		o := resolvePattern(it.node.Object, it.row)
		g := resolvePattern(it.node.Graph, it.row)
		excludeDefaultGraph := it.node.Graph.IsVariable && g == nil

		quads, err := it.ds.QuadsForPattern(s, p, o, g)
		if err != nil {
			it.err = err
			return false
		}
		if excludeDefaultGraph {
			kept := quads[:0]
			for _, q := range quads {
				if q.GraphName.Kind != term.KindDefaultGraph {
					kept = append(kept, q)
				}
			}
			quads = kept
		}
		it.current = quads
		it.idx = 0
	}
}

// bind extends row with the quad's positions, rejecting the match if a
// pattern variable occurs twice with disagreeing values.
func (it *quadPatternJoinIterator) bind(q term.Quad) (tuple.Tuple, bool) {
	out := it.row.Clone()
	positions := [4]struct {
		pv  plan.PatternValue
		val term.Encoded
	}{
		{it.node.Subject, q.Subject},
		{it.node.Predicate, q.Predicate},
		{it.node.Object, q.Object},
		{it.node.Graph, q.GraphName},
	}
	for _, pos := range positions {
		if !pos.pv.IsVariable {
			continue
		}
		if existing := out.Get(pos.pv.Slot); existing != nil {
			if !existing.Equal(pos.val) {
				return nil, false
			}
			continue
		}
		out = out.Put(pos.pv.Slot, pos.val)
	}
	return out, true
}

func (it *quadPatternJoinIterator) Tuple() tuple.Tuple { return it.cur }
func (it *quadPatternJoinIterator) Err() error         { return it.err }
func (it *quadPatternJoinIterator) Close() error       { return it.child.Close() }
