// Package eval implements the expression evaluator (§4.4): a pure-ish
// function from (expression, tuple) to an optional term, plus the
// shared per-evaluation state (blank-node map, regex cache) that makes
// BNode() and REGEX() behave consistently across a query.
package eval

import (
	"sync"

	"github.com/wbrown/janus-sparql/plan"
	"github.com/wbrown/janus-sparql/term"
	"github.com/wbrown/janus-sparql/tuple"
)

// Dictionary is the subset of the Dataset View the evaluator needs:
// string resolution (for everything that reads dictionary-backed text)
// plus insertion (for casts and UUID builtins that mint new text).
type Dictionary interface {
	term.Resolver
	InsertStr(string) (uint64, error)
}

// BlankNodeMap makes BNode(expr) consistent within one evaluation, per
// §3's "Lifecycle & ownership" and §5's "Shared state within an
// evaluation": the same lexical form always maps to the same generated
// blank node. The mutex exists only to satisfy cross-iterator sharing —
// evaluation is single-threaded, so it is expected to be uncontended,
// matching the teacher's own "cheap insurance, not true parallelism"
// framing of similar sync.Mutex uses in datalog/storage/database.go.
type BlankNodeMap struct {
	mu     sync.Mutex
	next   uint64
	byText map[string]uint64
}

// NewBlankNodeMap returns an empty map, scoped to a single query
// evaluation.
func NewBlankNodeMap() *BlankNodeMap {
	return &BlankNodeMap{byText: make(map[string]uint64)}
}

// Fresh returns a new blank node distinct from every other one this map
// has produced.
func (m *BlankNodeMap) Fresh() term.Encoded {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return term.BlankNode(m.next)
}

// ForText returns the blank node previously generated for text, or
// generates and remembers a new one.
func (m *BlankNodeMap) ForText(text string) term.Encoded {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byText[text]; ok {
		return term.BlankNode(id)
	}
	m.next++
	m.byText[text] = m.next
	return term.BlankNode(m.next)
}

// Evaluator carries the state a single query evaluation shares across
// every expression it evaluates.
type Evaluator struct {
	Dict   Dictionary
	Blank  *BlankNodeMap
	regexp *regexCache
}

// New builds an Evaluator bound to dict and blank. Pass a fresh
// BlankNodeMap per query evaluation (see §3, §5).
func New(dict Dictionary, blank *BlankNodeMap) *Evaluator {
	return &Evaluator{Dict: dict, Blank: blank, regexp: newRegexCache()}
}

func isStringTyped(e term.Encoded) bool {
	return e.Kind == term.KindSimpleLiteral || e.Kind == term.KindStringLiteral
}

// lexicalText resolves the dictionary text of a string-typed (simple or
// xsd:string) literal. Callers must check isStringTyped first.
func (ev *Evaluator) lexicalText(e term.Encoded) (string, error) {
	return ev.Dict.GetString(e.ID)
}

// EffectiveBooleanValue implements the SPARQL EBV coercion (§4.4):
// defined for booleans (themselves), string/simple literals (non-empty),
// and numerics (non-zero); everything else is undefined.
func EffectiveBooleanValue(v term.Encoded, r term.Resolver) (value bool, defined bool, err error) {
	switch v.Kind {
	case term.KindBoolean:
		return v.Bool, true, nil
	case term.KindSimpleLiteral, term.KindStringLiteral:
		s, err := r.GetString(v.ID)
		if err != nil {
			return false, false, err
		}
		return len(s) > 0, true, nil
	case term.KindFloat:
		return v.F32 != 0, true, nil
	case term.KindDouble:
		return v.F64 != 0, true, nil
	case term.KindInteger:
		if v.Int == nil {
			return false, false, nil
		}
		return v.Int.Sign() != 0, true, nil
	case term.KindDecimal:
		return !v.Dec.IsZero(), true, nil
	default:
		return false, false, nil
	}
}

// effectiveBool evaluates expr and coerces it to an effective boolean
// value in one step, the form every three-valued logical operator needs.
func (ev *Evaluator) effectiveBool(expr *plan.Expression, row tuple.Tuple) (value bool, defined bool, err error) {
	v, ok, err := ev.Eval(expr, row)
	if err != nil {
		return false, false, err
	}
	if !ok {
		return false, false, nil
	}
	return EffectiveBooleanValue(v, ev.Dict)
}

// Eval is the expression evaluator's entry point. The (term, ok, err)
// convention matches §7's two disjoint error channels: ok=false is a
// SPARQL type error (never propagated as err), err != nil is an
// infrastructural failure (dictionary/store I/O).
func (ev *Evaluator) Eval(expr *plan.Expression, row tuple.Tuple) (term.Encoded, bool, error) {
	if expr == nil {
		return term.Encoded{}, false, nil
	}
	switch expr.Op {
	case plan.OpConstant:
		return expr.Constant, true, nil
	case plan.OpVariable:
		v := row.Get(expr.Slot)
		if v == nil {
			return term.Encoded{}, false, nil
		}
		return *v, true, nil

	case plan.OpOr:
		return ev.evalOr(expr, row)
	case plan.OpAnd:
		return ev.evalAnd(expr, row)
	case plan.OpNot:
		b, ok, err := ev.effectiveBool(expr.Operand, row)
		if err != nil || !ok {
			return term.Encoded{}, false, err
		}
		return term.Boolean(!b), true, nil

	case plan.OpEqual, plan.OpNotEqual:
		return ev.evalEquality(expr, row)
	case plan.OpGreater, plan.OpGreaterOrEq, plan.OpLower, plan.OpLowerOrEq:
		return ev.evalOrderComparison(expr, row)
	case plan.OpIn:
		return ev.evalIn(expr, row)
	case plan.OpSameTerm:
		a, aok, err := ev.Eval(expr.Left, row)
		if err != nil || !aok {
			return term.Encoded{}, false, err
		}
		b, bok, err := ev.Eval(expr.Right, row)
		if err != nil || !bok {
			return term.Encoded{}, false, err
		}
		return term.Boolean(a.Equal(b)), true, nil

	case plan.OpAdd, plan.OpSub, plan.OpMul, plan.OpDiv:
		return ev.evalArithmetic(expr, row)
	case plan.OpUnaryPlus:
		v, ok, err := ev.Eval(expr.Operand, row)
		if err != nil || !ok || !v.IsNumeric() {
			return term.Encoded{}, false, err
		}
		return v, true, nil
	case plan.OpUnaryMinus:
		return ev.evalUnaryMinus(expr, row)

	case plan.OpStr:
		return ev.evalStr(expr, row)
	case plan.OpLang:
		return ev.evalLang(expr, row)
	case plan.OpDatatype:
		return ev.evalDatatype(expr, row)
	case plan.OpBound:
		return term.Boolean(row.Bound(expr.Slot)), true, nil
	case plan.OpIRI:
		return ev.evalIRI(expr, row)
	case plan.OpBNode:
		return ev.evalBNode(expr, row)
	case plan.OpUUID:
		return ev.evalUUID(row)
	case plan.OpStrUUID:
		return ev.evalStrUUID(row)
	case plan.OpStrLang:
		return ev.evalStrLang(expr, row)
	case plan.OpIsIRI:
		v, ok, err := ev.Eval(expr.Operand, row)
		if err != nil || !ok {
			return term.Encoded{}, false, err
		}
		return term.Boolean(v.IsNamedNode()), true, nil
	case plan.OpIsBlank:
		v, ok, err := ev.Eval(expr.Operand, row)
		if err != nil || !ok {
			return term.Encoded{}, false, err
		}
		return term.Boolean(v.IsBlankNode()), true, nil
	case plan.OpIsLiteral:
		v, ok, err := ev.Eval(expr.Operand, row)
		if err != nil || !ok {
			return term.Encoded{}, false, err
		}
		return term.Boolean(v.IsLiteral()), true, nil
	case plan.OpIsNumeric:
		v, ok, err := ev.Eval(expr.Operand, row)
		if err != nil || !ok {
			return term.Encoded{}, false, err
		}
		return term.Boolean(v.IsNumeric()), true, nil
	case plan.OpLangMatches:
		return ev.evalLangMatches(expr, row)
	case plan.OpRegex:
		return ev.evalRegex(expr, row)

	case plan.OpCoalesce:
		for _, sub := range expr.List {
			v, ok, err := ev.Eval(sub, row)
			if err != nil {
				return term.Encoded{}, false, err
			}
			if ok {
				return v, true, nil
			}
		}
		return term.Encoded{}, false, nil
	case plan.OpIf:
		cond, ok, err := ev.effectiveBool(expr.Operand, row)
		if err != nil || !ok {
			return term.Encoded{}, false, err
		}
		if cond {
			return ev.Eval(expr.Left, row)
		}
		return ev.Eval(expr.Right, row)

	case plan.OpBooleanCast, plan.OpDoubleCast, plan.OpFloatCast, plan.OpIntegerCast,
		plan.OpDecimalCast, plan.OpDateTimeCast, plan.OpStringCast:
		return ev.evalCast(expr, row)

	default:
		return term.Encoded{}, false, nil
	}
}

func (ev *Evaluator) evalOr(expr *plan.Expression, row tuple.Tuple) (term.Encoded, bool, error) {
	ab, aok, err := ev.effectiveBool(expr.Operand, row)
	if err != nil {
		return term.Encoded{}, false, err
	}
	if aok && ab {
		return term.Boolean(true), true, nil
	}
	bb, bok, err := ev.effectiveBool(expr.Right, row)
	if err != nil {
		return term.Encoded{}, false, err
	}
	if aok && !ab {
		if bok {
			return term.Boolean(bb), true, nil
		}
		return term.Encoded{}, false, nil
	}
	// a errored.
	if bok && bb {
		return term.Boolean(true), true, nil
	}
	return term.Encoded{}, false, nil
}

func (ev *Evaluator) evalAnd(expr *plan.Expression, row tuple.Tuple) (term.Encoded, bool, error) {
	ab, aok, err := ev.effectiveBool(expr.Operand, row)
	if err != nil {
		return term.Encoded{}, false, err
	}
	if aok && !ab {
		return term.Boolean(false), true, nil
	}
	bb, bok, err := ev.effectiveBool(expr.Right, row)
	if err != nil {
		return term.Encoded{}, false, err
	}
	if aok && ab {
		if bok {
			return term.Boolean(bb), true, nil
		}
		return term.Encoded{}, false, nil
	}
	// a errored.
	if bok && !bb {
		return term.Boolean(false), true, nil
	}
	return term.Encoded{}, false, nil
}

func (ev *Evaluator) evalEquality(expr *plan.Expression, row tuple.Tuple) (term.Encoded, bool, error) {
	a, aok, err := ev.Eval(expr.Left, row)
	if err != nil || !aok {
		return term.Encoded{}, false, err
	}
	b, bok, err := ev.Eval(expr.Right, row)
	if err != nil || !bok {
		return term.Encoded{}, false, err
	}
	eq, ok, err := term.Equals(a, b, ev.Dict)
	if err != nil {
		return term.Encoded{}, false, err
	}
	if !ok {
		return term.Encoded{}, false, nil
	}
	if expr.Op == plan.OpNotEqual {
		eq = !eq
	}
	return term.Boolean(eq), true, nil
}

func (ev *Evaluator) evalOrderComparison(expr *plan.Expression, row tuple.Tuple) (term.Encoded, bool, error) {
	a, aok, err := ev.Eval(expr.Left, row)
	if err != nil || !aok {
		return term.Encoded{}, false, err
	}
	b, bok, err := ev.Eval(expr.Right, row)
	if err != nil || !bok {
		return term.Encoded{}, false, err
	}
	order, ok, err := term.ValueCompare(a, b, ev.Dict)
	if err != nil {
		return term.Encoded{}, false, err
	}
	if !ok {
		return term.Encoded{}, false, nil
	}
	var result bool
	switch expr.Op {
	case plan.OpGreater:
		result = order > 0
	case plan.OpGreaterOrEq:
		result = order >= 0
	case plan.OpLower:
		result = order < 0
	case plan.OpLowerOrEq:
		result = order <= 0
	}
	return term.Boolean(result), true, nil
}

// EvalFilter evaluates expr's effective boolean value for a Filter plan
// node: undefined (a SPARQL type error) drops the row rather than
// propagating, matching SPARQL FILTER semantics; only an infrastructural
// error is returned.
func (ev *Evaluator) EvalFilter(expr *plan.Expression, row tuple.Tuple) (bool, error) {
	b, ok, err := ev.effectiveBool(expr, row)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return b, nil
}

func (ev *Evaluator) evalIn(expr *plan.Expression, row tuple.Tuple) (term.Encoded, bool, error) {
	left, ok, err := ev.Eval(expr.Left, row)
	if err != nil || !ok {
		return term.Encoded{}, false, err
	}
	sawUndefined := false
	for _, candidate := range expr.List {
		v, ok, err := ev.Eval(candidate, row)
		if err != nil {
			return term.Encoded{}, false, err
		}
		if !ok {
			sawUndefined = true
			continue
		}
		eq, comparable, err := term.Equals(left, v, ev.Dict)
		if err != nil {
			return term.Encoded{}, false, err
		}
		if !comparable {
			sawUndefined = true
			continue
		}
		if eq {
			return term.Boolean(true), true, nil
		}
	}
	if sawUndefined {
		return term.Encoded{}, false, nil
	}
	return term.Boolean(false), true, nil
}
