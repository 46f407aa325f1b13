package term

import (
	"fmt"
	"strconv"
	"time"
)

// Well-known xsd/rdf datatype IRIs, matching the ids reserved in
// IDXSD*/IDRDFLangString.
const (
	XSDStringIRI     = "http://www.w3.org/2001/XMLSchema#string"
	XSDBooleanIRI    = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDFloatIRI      = "http://www.w3.org/2001/XMLSchema#float"
	XSDDoubleIRI     = "http://www.w3.org/2001/XMLSchema#double"
	XSDIntegerIRI    = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDecimalIRI    = "http://www.w3.org/2001/XMLSchema#decimal"
	XSDDateTimeIRI   = "http://www.w3.org/2001/XMLSchema#dateTime"
	RDFLangStringIRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// NaiveDateTimeLayout is the lexical grammar used for NaiveDateTime
// (a dateTime without an offset), matching the non-offset branch of
// DateTimeCast in §4.4.
const NaiveDateTimeLayout = "2006-01-02T15:04:05"

// DatatypeIRI returns the fixed datatype IRI for literal kinds whose
// datatype is implied by the Kind itself (everything except
// TypedLiteral, whose datatype is a dictionary id resolved separately,
// and SimpleLiteral, which by this spec's term model is untyped).
func (e Encoded) DatatypeIRI() string {
	switch e.Kind {
	case KindStringLiteral:
		return XSDStringIRI
	case KindLangStringLiteral:
		return RDFLangStringIRI
	case KindBoolean:
		return XSDBooleanIRI
	case KindFloat:
		return XSDFloatIRI
	case KindDouble:
		return XSDDoubleIRI
	case KindInteger:
		return XSDIntegerIRI
	case KindDecimal:
		return XSDDecimalIRI
	case KindDateTime, KindNaiveDateTime:
		return XSDDateTimeIRI
	default:
		return ""
	}
}

// CanonicalLexical computes the lexical form of a term the way Str() and
// the store's decoder need it: dictionary text for anything string-
// backed, canonical formatting otherwise.
func (e Encoded) CanonicalLexical(r Resolver) (string, error) {
	switch e.Kind {
	case KindNamedNode, KindSimpleLiteral, KindStringLiteral, KindLangStringLiteral, KindTypedLiteral:
		return r.GetString(e.ID)
	case KindBoolean:
		if e.Bool {
			return "true", nil
		}
		return "false", nil
	case KindFloat:
		return strconv.FormatFloat(float64(e.F32), 'g', -1, 32), nil
	case KindDouble:
		return strconv.FormatFloat(e.F64, 'g', -1, 64), nil
	case KindInteger:
		if e.Int == nil {
			return "", fmt.Errorf("canonical lexical: nil integer")
		}
		return e.Int.String(), nil
	case KindDecimal:
		return e.Dec.String(), nil
	case KindDateTime:
		return e.Time.Format(time.RFC3339Nano), nil
	case KindNaiveDateTime:
		return e.Time.Format(NaiveDateTimeLayout), nil
	default:
		return "", fmt.Errorf("canonical lexical: no lexical form for %v", e.Kind)
	}
}
