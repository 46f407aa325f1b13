package store

import (
	"fmt"

	"github.com/wbrown/janus-sparql/term"
)

// Encoder decodes compact Encoded terms back to concrete, dictionary-
// resolved Decoded terms and triples, for the query-form adapters in
// package forms.
type Encoder struct {
	dict *Dictionary
}

func (e Encoder) DecodeTerm(t term.Encoded) (term.Decoded, error) {
	switch t.Kind {
	case term.KindNamedNode:
		iri, err := e.dict.GetString(t.ID)
		if err != nil {
			return term.Decoded{}, fmt.Errorf("decode named node: %w", err)
		}
		return term.NamedNodeDecoded(iri), nil
	case term.KindBlankNode:
		return term.BlankNodeDecoded(fmt.Sprintf("b%d", t.Blank)), nil
	case term.KindSimpleLiteral:
		lex, err := e.dict.GetString(t.ID)
		if err != nil {
			return term.Decoded{}, fmt.Errorf("decode simple literal: %w", err)
		}
		return term.SimpleLiteralDecoded(lex), nil
	case term.KindStringLiteral:
		lex, err := e.dict.GetString(t.ID)
		if err != nil {
			return term.Decoded{}, fmt.Errorf("decode string literal: %w", err)
		}
		return term.TypedLiteralDecoded(lex, term.XSDStringIRI), nil
	case term.KindLangStringLiteral:
		lex, err := e.dict.GetString(t.ID)
		if err != nil {
			return term.Decoded{}, fmt.Errorf("decode lang literal: %w", err)
		}
		lang, err := e.dict.GetString(t.Lang)
		if err != nil {
			return term.Decoded{}, fmt.Errorf("decode lang literal tag: %w", err)
		}
		return term.LangLiteralDecoded(lex, lang), nil
	case term.KindTypedLiteral:
		lex, err := e.dict.GetString(t.ID)
		if err != nil {
			return term.Decoded{}, fmt.Errorf("decode typed literal: %w", err)
		}
		dt, err := e.dict.GetString(t.Datatype)
		if err != nil {
			return term.Decoded{}, fmt.Errorf("decode typed literal datatype: %w", err)
		}
		return term.TypedLiteralDecoded(lex, dt), nil
	default:
		lex, err := t.CanonicalLexical(e.dict)
		if err != nil {
			return term.Decoded{}, fmt.Errorf("decode literal: %w", err)
		}
		return term.TypedLiteralDecoded(lex, t.DatatypeIRI()), nil
	}
}

func (e Encoder) DecodeNamedNode(t term.Encoded) (term.Decoded, error) {
	if !t.IsNamedNode() {
		return term.Decoded{}, fmt.Errorf("decode named node: term is not a named node (%v)", t.Kind)
	}
	return e.DecodeTerm(t)
}

func (e Encoder) DecodeNamedOrBlankNode(t term.Encoded) (term.Decoded, error) {
	if !t.IsNamedNode() && !t.IsBlankNode() {
		return term.Decoded{}, fmt.Errorf("decode named-or-blank node: term is %v", t.Kind)
	}
	return e.DecodeTerm(t)
}

func (e Encoder) DecodeTriple(q term.Quad) (term.Triple, error) {
	s, err := e.DecodeNamedOrBlankNode(q.Subject)
	if err != nil {
		return term.Triple{}, err
	}
	p, err := e.DecodeNamedNode(q.Predicate)
	if err != nil {
		return term.Triple{}, err
	}
	o, err := e.DecodeTerm(q.Object)
	if err != nil {
		return term.Triple{}, err
	}
	return term.Triple{Subject: s, Predicate: p, Object: o}, nil
}

// Dataset is the read-only Dataset View adapter (§4.1) the evaluator
// consumes: pattern enumeration plus dictionary access, shareable across
// concurrently evaluating queries since QuadStore already synchronizes
// its own badger handle and dictionary.
type Dataset struct {
	store *QuadStore
}

// NewDataset wraps a QuadStore as a Dataset View.
func NewDataset(s *QuadStore) Dataset {
	return Dataset{store: s}
}

// QuadsForPattern implements quads_for_pattern.
func (d Dataset) QuadsForPattern(subj, pred, obj, graph *term.Encoded) ([]term.Quad, error) {
	return d.store.QuadsForPattern(subj, pred, obj, graph)
}

// InsertStr implements insert_str.
func (d Dataset) InsertStr(s string) (uint64, error) {
	return d.store.Dict.InsertStr(s)
}

// GetString implements get_str, and also satisfies term.Resolver so Dataset
// can be passed directly anywhere a string resolver is expected.
func (d Dataset) GetString(id uint64) (string, error) {
	return d.store.Dict.GetString(id)
}

// Encoder returns the decode-side helper bound to this dataset's
// dictionary.
func (d Dataset) Encoder() Encoder {
	return Encoder{dict: d.store.Dict}
}
