package forms

import (
	"github.com/wbrown/janus-sparql/executor"
	"github.com/wbrown/janus-sparql/store"
	"github.com/wbrown/janus-sparql/term"
)

// resolveTarget resolves a DESCRIBE target (a projected variable or a
// constant IRI — never a blank-node template position) against one row.
func resolveTarget(tt TemplateTerm, row interface{ Get(int) *term.Encoded }) (term.Encoded, bool) {
	switch tt.Kind {
	case TTConstant:
		return tt.Constant, true
	case TTVariable:
		v := row.Get(tt.Slot)
		if v == nil {
			return term.Encoded{}, false
		}
		return *v, true
	default:
		return term.Encoded{}, false
	}
}

// Describe evaluates a DESCRIBE query (§4.6): for every solution row
// and every described target, every quad with that resource as subject
// or object is emitted as a triple. Output is an un-deduplicated bag —
// a resource described by more than one row, or matched both as
// subject and object of the same quad, yields repeated triples (see
// the resolved Open Question in DESIGN.md).
func Describe(it executor.TupleIterator, targets []TemplateTerm, ds executor.Dataset, enc store.Encoder) ([]term.Triple, error) {
	var out []term.Triple
	for it.Next() {
		row := it.Tuple()
		for _, target := range targets {
			v, ok := resolveTarget(target, row)
			if !ok {
				continue
			}
			asSubject, err := ds.QuadsForPattern(&v, nil, nil, nil)
			if err != nil {
				it.Close()
				return nil, err
			}
			asObject, err := ds.QuadsForPattern(nil, nil, &v, nil)
			if err != nil {
				it.Close()
				return nil, err
			}
			for _, q := range asSubject {
				triple, err := enc.DecodeTriple(q)
				if err != nil {
					it.Close()
					return nil, err
				}
				out = append(out, triple)
			}
			for _, q := range asObject {
				triple, err := enc.DecodeTriple(q)
				if err != nil {
					it.Close()
					return nil, err
				}
				out = append(out, triple)
			}
		}
	}
	if err := it.Err(); err != nil {
		it.Close()
		return nil, err
	}
	return out, it.Close()
}
