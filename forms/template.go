// Package forms adapts the executor's raw tuple stream to the four
// SPARQL query forms (§4.6): SELECT (named bindings), ASK (existence
// probe), CONSTRUCT (triple templates), and DESCRIBE (resource bags).
package forms

import (
	"github.com/wbrown/janus-sparql/eval"
	"github.com/wbrown/janus-sparql/term"
	"github.com/wbrown/janus-sparql/tuple"
)

// TemplateTermKind tags how a CONSTRUCT/DESCRIBE template position is
// filled in.
type TemplateTermKind int

const (
	TTVariable TemplateTermKind = iota
	TTConstant
	TTBlank
)

// TemplateTerm is one position (subject, predicate, or object) of a
// triple template.
type TemplateTerm struct {
	Kind     TemplateTermKind
	Slot     int          // TTVariable
	Constant term.Encoded // TTConstant
	Label    string       // TTBlank: the template's blank node label
}

func Variable(slot int) TemplateTerm { return TemplateTerm{Kind: TTVariable, Slot: slot} }
func Constant(e term.Encoded) TemplateTerm {
	return TemplateTerm{Kind: TTConstant, Constant: e}
}
func Blank(label string) TemplateTerm { return TemplateTerm{Kind: TTBlank, Label: label} }

// TripleTemplate is one CONSTRUCT template triple.
type TripleTemplate struct {
	Subject, Predicate, Object TemplateTerm
}

// instantiate resolves a template term against one solution row.
// Blank-labeled positions reuse the same generated blank node across
// every template in a single row's instantiation (via local), but a
// fresh one per row (§4.6's "per-row, per-template-index fresh blank
// nodes" — achieved here by handing instantiate a freshly-cleared
// local map for every row).
func instantiate(tt TemplateTerm, row tuple.Tuple, local map[string]term.Encoded, blanks *eval.BlankNodeMap) (term.Encoded, bool) {
	switch tt.Kind {
	case TTConstant:
		return tt.Constant, true
	case TTVariable:
		v := row.Get(tt.Slot)
		if v == nil {
			return term.Encoded{}, false
		}
		return *v, true
	case TTBlank:
		if b, ok := local[tt.Label]; ok {
			return b, true
		}
		b := blanks.Fresh()
		local[tt.Label] = b
		return b, true
	default:
		return term.Encoded{}, false
	}
}
