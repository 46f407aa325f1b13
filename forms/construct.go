package forms

import (
	"github.com/wbrown/janus-sparql/eval"
	"github.com/wbrown/janus-sparql/executor"
	"github.com/wbrown/janus-sparql/store"
	"github.com/wbrown/janus-sparql/term"
)

// Construct evaluates a CONSTRUCT query (§4.6): for every solution row,
// every template is instantiated and, if every position is bound to a
// term of a legal position (named/blank subject, named predicate, any
// object), emitted. A template whose variable is unbound in a given row
// contributes no triple for that row — it is simply skipped, not an
// error.
//
// Per-row, each blank-labeled position is resolved through a local map
// so that "_:x" refers to the same generated blank node across every
// template within one row's instantiation, while a fresh blank node is
// generated for each new row (grounded on original_source's
// ConstructIterator, which keys its bnode map by template position and
// clears it every solution).
func Construct(it executor.TupleIterator, templates []TripleTemplate, enc store.Encoder, blanks *eval.BlankNodeMap) ([]term.Triple, error) {
	var out []term.Triple
	for it.Next() {
		row := it.Tuple()
		local := make(map[string]term.Encoded)
		for _, tpl := range templates {
			s, ok := instantiate(tpl.Subject, row, local, blanks)
			if !ok || !(s.IsNamedNode() || s.IsBlankNode()) {
				continue
			}
			p, ok := instantiate(tpl.Predicate, row, local, blanks)
			if !ok || !p.IsNamedNode() {
				continue
			}
			o, ok := instantiate(tpl.Object, row, local, blanks)
			if !ok {
				continue
			}
			triple, err := enc.DecodeTriple(term.Quad{Subject: s, Predicate: p, Object: o, GraphName: term.DefaultGraph})
			if err != nil {
				it.Close()
				return nil, err
			}
			out = append(out, triple)
		}
	}
	if err := it.Err(); err != nil {
		it.Close()
		return nil, err
	}
	return out, it.Close()
}
