// Package term implements the compact, comparable encoding of RDF terms
// that the evaluator operates on: dictionary-backed ids for anything
// string-shaped, and inline values for everything else.
package term

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags which variant an Encoded value holds. Only the fields relevant
// to a given Kind are meaningful; the rest are zero.
type Kind uint8

const (
	KindDefaultGraph Kind = iota
	KindNamedNode
	KindBlankNode
	KindSimpleLiteral
	KindStringLiteral
	KindLangStringLiteral
	KindTypedLiteral
	KindBoolean
	KindFloat
	KindDouble
	KindInteger
	KindDecimal
	KindDateTime
	KindNaiveDateTime
)

func (k Kind) String() string {
	switch k {
	case KindDefaultGraph:
		return "DefaultGraph"
	case KindNamedNode:
		return "NamedNode"
	case KindBlankNode:
		return "BlankNode"
	case KindSimpleLiteral:
		return "SimpleLiteral"
	case KindStringLiteral:
		return "StringLiteral"
	case KindLangStringLiteral:
		return "LangStringLiteral"
	case KindTypedLiteral:
		return "TypedLiteral"
	case KindBoolean:
		return "Boolean"
	case KindFloat:
		return "Float"
	case KindDouble:
		return "Double"
	case KindInteger:
		return "Integer"
	case KindDecimal:
		return "Decimal"
	case KindDateTime:
		return "DateTime"
	case KindNaiveDateTime:
		return "NaiveDateTime"
	default:
		return "Unknown"
	}
}

// Well-known dictionary ids for common xsd datatypes, reserved by the
// store at startup (see the wellKnown table loaded by store's
// newDictionary) so expression
// evaluation never needs to insert them on the fly.
const (
	IDXSDString   uint64 = 1
	IDXSDBoolean  uint64 = 2
	IDXSDFloat    uint64 = 3
	IDXSDDouble   uint64 = 4
	IDXSDInteger  uint64 = 5
	IDXSDDecimal  uint64 = 6
	IDXSDDateTime uint64 = 7
	IDRDFLangString uint64 = 8
)

// Encoded is a tagged, fixed-size RDF term. It is deliberately larger than
// the ~16 bytes the source format achieves, since Go has no tagged unions;
// every variant's payload lives inline so Encoded stays a plain value type
// usable as a struct field without boxing.
type Encoded struct {
	Kind Kind

	// NamedNode / SimpleLiteral / StringLiteral / LangStringLiteral: ID is
	// the dictionary id of the lexical form (IRI text or literal text).
	ID uint64
	// LangStringLiteral: dictionary id of the language tag.
	Lang uint64
	// TypedLiteral: dictionary id of the datatype IRI.
	Datatype uint64
	// BlankNode: numeric blank node id (planner- or evaluator-assigned).
	Blank uint64

	Bool bool
	F32  float32
	F64  float64
	Int  *big.Int
	Dec  decimal.Decimal
	Time time.Time
}

// DefaultGraph is the sentinel graph name for the default (unnamed) graph.
var DefaultGraph = Encoded{Kind: KindDefaultGraph}

func NamedNode(id uint64) Encoded { return Encoded{Kind: KindNamedNode, ID: id} }

func BlankNode(id uint64) Encoded { return Encoded{Kind: KindBlankNode, Blank: id} }

func SimpleLiteral(id uint64) Encoded { return Encoded{Kind: KindSimpleLiteral, ID: id} }

func StringLiteral(id uint64) Encoded { return Encoded{Kind: KindStringLiteral, ID: id} }

func LangStringLiteral(id, lang uint64) Encoded {
	return Encoded{Kind: KindLangStringLiteral, ID: id, Lang: lang}
}

func TypedLiteral(id, datatype uint64) Encoded {
	return Encoded{Kind: KindTypedLiteral, ID: id, Datatype: datatype}
}

func Boolean(b bool) Encoded { return Encoded{Kind: KindBoolean, Bool: b} }

func Float(f float32) Encoded { return Encoded{Kind: KindFloat, F32: f} }

func Double(f float64) Encoded { return Encoded{Kind: KindDouble, F64: f} }

func Integer(i *big.Int) Encoded { return Encoded{Kind: KindInteger, Int: i} }

func IntegerFromInt64(i int64) Encoded { return Encoded{Kind: KindInteger, Int: big.NewInt(i)} }

func Decimal(d decimal.Decimal) Encoded { return Encoded{Kind: KindDecimal, Dec: d} }

func DateTime(t time.Time) Encoded { return Encoded{Kind: KindDateTime, Time: t} }

func NaiveDateTime(t time.Time) Encoded { return Encoded{Kind: KindNaiveDateTime, Time: t} }

func (e Encoded) IsNamedNode() bool { return e.Kind == KindNamedNode }
func (e Encoded) IsBlankNode() bool { return e.Kind == KindBlankNode }

func (e Encoded) IsLiteral() bool {
	switch e.Kind {
	case KindSimpleLiteral, KindStringLiteral, KindLangStringLiteral, KindTypedLiteral,
		KindBoolean, KindFloat, KindDouble, KindInteger, KindDecimal, KindDateTime, KindNaiveDateTime:
		return true
	default:
		return false
	}
}

func (e Encoded) IsNumeric() bool {
	switch e.Kind {
	case KindFloat, KindDouble, KindInteger, KindDecimal:
		return true
	default:
		return false
	}
}

// Equal is strict byte-identity comparison (SPARQL sameTerm semantics).
// big.Int, decimal.Decimal and time.Time are not comparable with ==, so
// each variant compares its own payload explicitly.
func (e Encoded) Equal(o Encoded) bool {
	if e.Kind != o.Kind {
		return false
	}
	switch e.Kind {
	case KindDefaultGraph:
		return true
	case KindNamedNode, KindSimpleLiteral, KindStringLiteral:
		return e.ID == o.ID
	case KindBlankNode:
		return e.Blank == o.Blank
	case KindLangStringLiteral:
		return e.ID == o.ID && e.Lang == o.Lang
	case KindTypedLiteral:
		return e.ID == o.ID && e.Datatype == o.Datatype
	case KindBoolean:
		return e.Bool == o.Bool
	case KindFloat:
		return e.F32 == o.F32
	case KindDouble:
		return e.F64 == o.F64
	case KindInteger:
		if e.Int == nil || o.Int == nil {
			return e.Int == o.Int
		}
		return e.Int.Cmp(o.Int) == 0
	case KindDecimal:
		return e.Dec.Equal(o.Dec)
	case KindDateTime, KindNaiveDateTime:
		return e.Time.Equal(o.Time)
	default:
		return false
	}
}

// Quad is four encoded terms; GraphName == DefaultGraph marks the unnamed
// default graph rather than a named one.
type Quad struct {
	Subject   Encoded
	Predicate Encoded
	Object    Encoded
	GraphName Encoded
}

func (q Quad) Equal(o Quad) bool {
	return q.Subject.Equal(o.Subject) && q.Predicate.Equal(o.Predicate) &&
		q.Object.Equal(o.Object) && q.GraphName.Equal(o.GraphName)
}
