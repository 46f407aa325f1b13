// Package plan defines the physical plan algebra the evaluator
// interprets: a recursive Node variant for operators (§3, §4.3) and a
// recursive Expression variant for the SPARQL expression language
// (§3, §4.4). Both are produced externally (by a planner this module
// does not implement) and are read-only once built.
package plan

import "github.com/wbrown/janus-sparql/term"

// ExprOp tags which expression variant an Expression node is. Fields are
// reused contextually across ops (documented per group below) rather
// than giving every op its own struct type, mirroring the teacher's flat
// Comparison/Predicate shape in datalog/query/predicate.go generalized
// to the much larger SPARQL expression set.
type ExprOp int

const (
	OpConstant ExprOp = iota
	OpVariable

	// Logical (Operand=a, Right=b)
	OpOr
	OpAnd
	OpNot // Operand only

	// Comparison (Left, Right)
	OpEqual
	OpNotEqual
	OpGreater
	OpGreaterOrEq
	OpLower
	OpLowerOrEq
	OpIn // Left = tested value, List = candidates
	OpSameTerm

	// Arithmetic (Left, Right for binary; Operand for unary)
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpUnaryPlus
	OpUnaryMinus

	// Term inspection
	OpStr      // Operand
	OpLang     // Operand
	OpDatatype // Operand
	OpBound    // Slot
	OpIRI      // Operand
	OpBNode    // Operand optional (nil = fresh blank node)
	OpUUID     // no operands
	OpStrUUID  // no operands
	OpStrLang  // Left = lexical form, Right = language tag
	OpIsIRI
	OpIsBlank
	OpIsLiteral
	OpIsNumeric
	OpLangMatches // Left = tag, Right = range
	OpRegex       // Operand = text, Left = pattern, Right = flags (may be nil)

	// Control
	OpCoalesce // List
	OpIf       // Operand = condition, Left = then, Right = else

	// Casts (Operand)
	OpBooleanCast
	OpDoubleCast
	OpFloatCast
	OpIntegerCast
	OpDecimalCast
	OpDateTimeCast
	OpStringCast
)

// Expression is one node of the recursive expression variant.
type Expression struct {
	Op ExprOp

	Constant term.Encoded // OpConstant
	Slot     int          // OpVariable, OpBound

	Operand     *Expression
	Left, Right *Expression
	List        []*Expression
}

func Const(e term.Encoded) *Expression { return &Expression{Op: OpConstant, Constant: e} }

func Var(slot int) *Expression { return &Expression{Op: OpVariable, Slot: slot} }

func Or(a, b *Expression) *Expression { return &Expression{Op: OpOr, Operand: a, Right: b} }

func And(a, b *Expression) *Expression { return &Expression{Op: OpAnd, Operand: a, Right: b} }

func Not(a *Expression) *Expression { return &Expression{Op: OpNot, Operand: a} }

func Equal(a, b *Expression) *Expression { return &Expression{Op: OpEqual, Left: a, Right: b} }

func NotEqual(a, b *Expression) *Expression { return &Expression{Op: OpNotEqual, Left: a, Right: b} }

func Greater(a, b *Expression) *Expression { return &Expression{Op: OpGreater, Left: a, Right: b} }

func GreaterOrEq(a, b *Expression) *Expression {
	return &Expression{Op: OpGreaterOrEq, Left: a, Right: b}
}

func Lower(a, b *Expression) *Expression { return &Expression{Op: OpLower, Left: a, Right: b} }

func LowerOrEq(a, b *Expression) *Expression { return &Expression{Op: OpLowerOrEq, Left: a, Right: b} }

func In(value *Expression, candidates []*Expression) *Expression {
	return &Expression{Op: OpIn, Left: value, List: candidates}
}

func SameTerm(a, b *Expression) *Expression { return &Expression{Op: OpSameTerm, Left: a, Right: b} }

func Add(a, b *Expression) *Expression { return &Expression{Op: OpAdd, Left: a, Right: b} }

func Sub(a, b *Expression) *Expression { return &Expression{Op: OpSub, Left: a, Right: b} }

func Mul(a, b *Expression) *Expression { return &Expression{Op: OpMul, Left: a, Right: b} }

func Div(a, b *Expression) *Expression { return &Expression{Op: OpDiv, Left: a, Right: b} }

func UnaryPlus(a *Expression) *Expression { return &Expression{Op: OpUnaryPlus, Operand: a} }

func UnaryMinus(a *Expression) *Expression { return &Expression{Op: OpUnaryMinus, Operand: a} }

func Str(a *Expression) *Expression { return &Expression{Op: OpStr, Operand: a} }

func Lang(a *Expression) *Expression { return &Expression{Op: OpLang, Operand: a} }

func Datatype(a *Expression) *Expression { return &Expression{Op: OpDatatype, Operand: a} }

func Bound(slot int) *Expression { return &Expression{Op: OpBound, Slot: slot} }

func IRI(a *Expression) *Expression { return &Expression{Op: OpIRI, Operand: a} }

// BNode builds the BNode(expr?) built-in; pass nil for the zero-arg form
// (a fresh blank node every call).
func BNode(a *Expression) *Expression { return &Expression{Op: OpBNode, Operand: a} }

func UUID() *Expression { return &Expression{Op: OpUUID} }

func StrUUID() *Expression { return &Expression{Op: OpStrUUID} }

func StrLang(lex, tag *Expression) *Expression {
	return &Expression{Op: OpStrLang, Left: lex, Right: tag}
}

func IsIRI(a *Expression) *Expression { return &Expression{Op: OpIsIRI, Operand: a} }

func IsBlank(a *Expression) *Expression { return &Expression{Op: OpIsBlank, Operand: a} }

func IsLiteral(a *Expression) *Expression { return &Expression{Op: OpIsLiteral, Operand: a} }

func IsNumeric(a *Expression) *Expression { return &Expression{Op: OpIsNumeric, Operand: a} }

func LangMatches(tag, rng *Expression) *Expression {
	return &Expression{Op: OpLangMatches, Left: tag, Right: rng}
}

// Regex builds the REGEX(text, pattern, flags?) built-in; flags may be
// nil.
func Regex(text, pattern, flags *Expression) *Expression {
	return &Expression{Op: OpRegex, Operand: text, Left: pattern, Right: flags}
}

func Coalesce(list []*Expression) *Expression { return &Expression{Op: OpCoalesce, List: list} }

func If(cond, then, els *Expression) *Expression {
	return &Expression{Op: OpIf, Operand: cond, Left: then, Right: els}
}

func BooleanCast(a *Expression) *Expression { return &Expression{Op: OpBooleanCast, Operand: a} }

func DoubleCast(a *Expression) *Expression { return &Expression{Op: OpDoubleCast, Operand: a} }

func FloatCast(a *Expression) *Expression { return &Expression{Op: OpFloatCast, Operand: a} }

func IntegerCast(a *Expression) *Expression { return &Expression{Op: OpIntegerCast, Operand: a} }

func DecimalCast(a *Expression) *Expression { return &Expression{Op: OpDecimalCast, Operand: a} }

func DateTimeCast(a *Expression) *Expression { return &Expression{Op: OpDateTimeCast, Operand: a} }

func StringCast(a *Expression) *Expression { return &Expression{Op: OpStringCast, Operand: a} }
