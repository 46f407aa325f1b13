package eval

import (
	"github.com/google/uuid"
	"github.com/wbrown/janus-sparql/plan"
	"github.com/wbrown/janus-sparql/term"
	"github.com/wbrown/janus-sparql/tuple"
)

// evalStr implements STR(): the lexical form of any term, as a simple
// literal. String-backed kinds reuse their existing dictionary id;
// everything else is formatted and interned fresh.
func (ev *Evaluator) evalStr(expr *plan.Expression, row tuple.Tuple) (term.Encoded, bool, error) {
	v, ok, err := ev.Eval(expr.Operand, row)
	if err != nil || !ok {
		return term.Encoded{}, ok, err
	}
	switch v.Kind {
	case term.KindNamedNode, term.KindSimpleLiteral, term.KindStringLiteral, term.KindLangStringLiteral:
		return term.SimpleLiteral(v.ID), true, nil
	case term.KindTypedLiteral:
		return term.SimpleLiteral(v.ID), true, nil
	default:
		lex, err := v.CanonicalLexical(ev.Dict)
		if err != nil {
			return term.Encoded{}, false, nil
		}
		id, err := ev.Dict.InsertStr(lex)
		if err != nil {
			return term.Encoded{}, false, err
		}
		return term.SimpleLiteral(id), true, nil
	}
}

// evalLang implements LANG(): the language tag of a language-tagged
// string, or the empty string for any other literal. Non-literals are
// undefined.
func (ev *Evaluator) evalLang(expr *plan.Expression, row tuple.Tuple) (term.Encoded, bool, error) {
	v, ok, err := ev.Eval(expr.Operand, row)
	if err != nil || !ok {
		return term.Encoded{}, ok, err
	}
	if v.Kind == term.KindLangStringLiteral {
		return term.SimpleLiteral(v.Lang), true, nil
	}
	if !v.IsLiteral() {
		return term.Encoded{}, false, nil
	}
	id, err := ev.Dict.InsertStr("")
	if err != nil {
		return term.Encoded{}, false, err
	}
	return term.SimpleLiteral(id), true, nil
}

// evalDatatype implements DATATYPE(): the datatype IRI of a literal.
// Plain/simple literals are treated as xsd:string per RDF 1.1. Only
// literals have a datatype; everything else is undefined.
func (ev *Evaluator) evalDatatype(expr *plan.Expression, row tuple.Tuple) (term.Encoded, bool, error) {
	v, ok, err := ev.Eval(expr.Operand, row)
	if err != nil || !ok {
		return term.Encoded{}, ok, err
	}
	if !v.IsLiteral() {
		return term.Encoded{}, false, nil
	}
	if v.Kind == term.KindTypedLiteral {
		return term.NamedNode(v.Datatype), true, nil
	}
	iri := v.DatatypeIRI()
	if iri == "" {
		iri = term.XSDStringIRI
	}
	id, err := ev.Dict.InsertStr(iri)
	if err != nil {
		return term.Encoded{}, false, err
	}
	return term.NamedNode(id), true, nil
}

// evalIRI implements IRI()/URI(): identity on named nodes, promotes
// string-backed literals to a named node over the same dictionary id.
func (ev *Evaluator) evalIRI(expr *plan.Expression, row tuple.Tuple) (term.Encoded, bool, error) {
	v, ok, err := ev.Eval(expr.Operand, row)
	if err != nil || !ok {
		return term.Encoded{}, ok, err
	}
	switch v.Kind {
	case term.KindNamedNode:
		return v, true, nil
	case term.KindSimpleLiteral, term.KindStringLiteral:
		return term.NamedNode(v.ID), true, nil
	default:
		return term.Encoded{}, false, nil
	}
}

// evalBNode implements BNode()/BNode(expr): a fresh blank node, or one
// deterministically derived from a string-typed lexical form, stable
// within one evaluation via ev.Blank.
func (ev *Evaluator) evalBNode(expr *plan.Expression, row tuple.Tuple) (term.Encoded, bool, error) {
	if expr.Operand == nil {
		return ev.Blank.Fresh(), true, nil
	}
	v, ok, err := ev.Eval(expr.Operand, row)
	if err != nil || !ok {
		return term.Encoded{}, ok, err
	}
	if !isStringTyped(v) {
		return term.Encoded{}, false, nil
	}
	text, err := ev.lexicalText(v)
	if err != nil {
		return term.Encoded{}, false, err
	}
	return ev.Blank.ForText(text), true, nil
}

func (ev *Evaluator) evalUUID(row tuple.Tuple) (term.Encoded, bool, error) {
	id, err := ev.Dict.InsertStr("urn:uuid:" + uuid.NewString())
	if err != nil {
		return term.Encoded{}, false, err
	}
	return term.NamedNode(id), true, nil
}

func (ev *Evaluator) evalStrUUID(row tuple.Tuple) (term.Encoded, bool, error) {
	id, err := ev.Dict.InsertStr(uuid.NewString())
	if err != nil {
		return term.Encoded{}, false, err
	}
	return term.SimpleLiteral(id), true, nil
}

// evalStrLang implements STRLANG(lex, tag): both arguments must already
// be string-typed literals, so their dictionary ids are reused directly.
func (ev *Evaluator) evalStrLang(expr *plan.Expression, row tuple.Tuple) (term.Encoded, bool, error) {
	lv, ok, err := ev.Eval(expr.Left, row)
	if err != nil || !ok {
		return term.Encoded{}, ok, err
	}
	tv, ok, err := ev.Eval(expr.Right, row)
	if err != nil || !ok {
		return term.Encoded{}, ok, err
	}
	if !isStringTyped(lv) || !isStringTyped(tv) {
		return term.Encoded{}, false, nil
	}
	return term.LangStringLiteral(lv.ID, tv.ID), true, nil
}

// evalLangMatches implements LANGMATCHES(tag, range) per RFC 4647 basic
// filtering: "*" matches any non-empty tag, otherwise range matches tag
// case-insensitively as a whole or as a "-"-delimited prefix.
func (ev *Evaluator) evalLangMatches(expr *plan.Expression, row tuple.Tuple) (term.Encoded, bool, error) {
	tv, ok, err := ev.Eval(expr.Left, row)
	if err != nil || !ok {
		return term.Encoded{}, ok, err
	}
	rv, ok, err := ev.Eval(expr.Right, row)
	if err != nil || !ok {
		return term.Encoded{}, ok, err
	}
	if !isStringTyped(tv) || !isStringTyped(rv) {
		return term.Encoded{}, false, nil
	}
	tag, err := ev.lexicalText(tv)
	if err != nil {
		return term.Encoded{}, false, err
	}
	rng, err := ev.lexicalText(rv)
	if err != nil {
		return term.Encoded{}, false, err
	}
	return term.Boolean(langMatches(tag, rng)), true, nil
}

func langMatches(tag, rng string) bool {
	if rng == "*" {
		return len(tag) > 0
	}
	if len(tag) < len(rng) {
		return false
	}
	prefix := tag[:len(rng)]
	if !equalFold(prefix, rng) {
		return false
	}
	return len(tag) == len(rng) || tag[len(rng)] == '-'
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
