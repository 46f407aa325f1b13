package eval

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-sparql/plan"
	"github.com/wbrown/janus-sparql/term"
	"github.com/wbrown/janus-sparql/tuple"
)

type memDict struct {
	byText map[string]uint64
	byID   map[uint64]string
	next   uint64
}

func newMemDict() *memDict {
	return &memDict{byText: make(map[string]uint64), byID: make(map[uint64]string)}
}

func (d *memDict) InsertStr(s string) (uint64, error) {
	if id, ok := d.byText[s]; ok {
		return id, nil
	}
	d.next++
	d.byText[s] = d.next
	d.byID[d.next] = s
	return d.next, nil
}

func (d *memDict) GetString(id uint64) (string, error) {
	s, ok := d.byID[id]
	if !ok {
		return "", fmt.Errorf("unknown id %d", id)
	}
	return s, nil
}

func newTestEvaluator() (*Evaluator, *memDict) {
	d := newMemDict()
	return New(d, NewBlankNodeMap()), d
}

func mustStr(t *testing.T, d *memDict, s string) term.Encoded {
	t.Helper()
	id, err := d.InsertStr(s)
	require.NoError(t, err)
	return term.SimpleLiteral(id)
}

func TestEffectiveBooleanValue(t *testing.T) {
	_, d := newTestEvaluator()
	cases := []struct {
		name string
		v    term.Encoded
		val  bool
		ok   bool
	}{
		{"true", term.Boolean(true), true, true},
		{"false", term.Boolean(false), false, true},
		{"nonempty string", mustStr(t, d, "x"), true, true},
		{"empty string", mustStr(t, d, ""), false, true},
		{"nonzero int", term.IntegerFromInt64(3), true, true},
		{"zero int", term.IntegerFromInt64(0), false, true},
		{"named node undefined", term.NamedNode(1), false, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			val, ok, err := EffectiveBooleanValue(c.v, d)
			require.NoError(t, err)
			assert.Equal(t, c.ok, ok)
			if ok {
				assert.Equal(t, c.val, val)
			}
		})
	}
}

func TestOrThreeValuedLogic(t *testing.T) {
	ev, _ := newTestEvaluator()
	row := tuple.New(1)

	// true || error -> true
	expr := plan.Or(plan.Const(term.Boolean(true)), plan.Var(0))
	v, ok, err := ev.Eval(expr, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, v.Bool)

	// false || error -> error
	expr = plan.Or(plan.Const(term.Boolean(false)), plan.Var(0))
	_, ok, err = ev.Eval(expr, row)
	require.NoError(t, err)
	assert.False(t, ok)

	// error || true -> true
	expr = plan.Or(plan.Var(0), plan.Const(term.Boolean(true)))
	v, ok, err = ev.Eval(expr, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, v.Bool)

	// error || false -> error
	expr = plan.Or(plan.Var(0), plan.Const(term.Boolean(false)))
	_, ok, err = ev.Eval(expr, row)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAndThreeValuedLogic(t *testing.T) {
	ev, _ := newTestEvaluator()
	row := tuple.New(1)

	// false && error -> false
	expr := plan.And(plan.Const(term.Boolean(false)), plan.Var(0))
	v, ok, err := ev.Eval(expr, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, v.Bool)

	// true && error -> error
	expr = plan.And(plan.Const(term.Boolean(true)), plan.Var(0))
	_, ok, err = ev.Eval(expr, row)
	require.NoError(t, err)
	assert.False(t, ok)

	// error && false -> false
	expr = plan.And(plan.Var(0), plan.Const(term.Boolean(false)))
	v, ok, err = ev.Eval(expr, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, v.Bool)
}

func TestEqualityAndComparison(t *testing.T) {
	ev, d := newTestEvaluator()
	row := tuple.New(0)

	eq := plan.Equal(plan.Const(term.IntegerFromInt64(3)), plan.Const(term.Double(3)))
	v, ok, err := ev.Eval(eq, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, v.Bool)

	gt := plan.Greater(plan.Const(mustStr(t, d, "b")), plan.Const(mustStr(t, d, "a")))
	v, ok, err = ev.Eval(gt, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, v.Bool)

	incomparable := plan.Greater(plan.Const(term.NamedNode(1)), plan.Const(term.IntegerFromInt64(1)))
	_, ok, err = ev.Eval(incomparable, row)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInOperator(t *testing.T) {
	ev, _ := newTestEvaluator()
	row := tuple.New(0)
	expr := plan.In(plan.Const(term.IntegerFromInt64(2)), []*plan.Expression{
		plan.Const(term.IntegerFromInt64(1)),
		plan.Const(term.IntegerFromInt64(2)),
	})
	v, ok, err := ev.Eval(expr, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, v.Bool)

	expr = plan.In(plan.Const(term.IntegerFromInt64(5)), []*plan.Expression{
		plan.Const(term.IntegerFromInt64(1)),
	})
	v, ok, err = ev.Eval(expr, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, v.Bool)
}

func TestArithmeticPromotion(t *testing.T) {
	ev, _ := newTestEvaluator()
	row := tuple.New(0)

	add := plan.Add(plan.Const(term.IntegerFromInt64(2)), plan.Const(term.Double(1.5)))
	v, ok, err := ev.Eval(add, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, term.KindDouble, v.Kind)
	assert.Equal(t, 3.5, v.F64)

	div := plan.Div(plan.Const(term.IntegerFromInt64(1)), plan.Const(term.IntegerFromInt64(0)))
	_, ok, err = ev.Eval(div, row)
	require.NoError(t, err)
	assert.False(t, ok)

	fdiv := plan.Div(plan.Const(term.Double(1)), plan.Const(term.Double(0)))
	v, ok, err = ev.Eval(fdiv, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, math.IsInf(v.F64, 1))

	neg := plan.UnaryMinus(plan.Const(term.IntegerFromInt64(5)))
	v, ok, err = ev.Eval(neg, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(-5), v.Int.Int64())
}

func TestStrLangDatatypeBound(t *testing.T) {
	ev, d := newTestEvaluator()
	row := tuple.New(1).Put(0, term.IntegerFromInt64(7))

	str := plan.Str(plan.Const(term.IntegerFromInt64(7)))
	v, ok, err := ev.Eval(str, row)
	require.NoError(t, err)
	require.True(t, ok)
	s, err := d.GetString(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "7", s)

	boundExpr := plan.Bound(0)
	v, ok, err = ev.Eval(boundExpr, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, v.Bool)

	unboundExpr := plan.Bound(1)
	v, ok, err = ev.Eval(unboundExpr, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, v.Bool)

	dt := plan.Datatype(plan.Const(term.IntegerFromInt64(7)))
	v, ok, err = ev.Eval(dt, row)
	require.NoError(t, err)
	require.True(t, ok)
	iri, err := d.GetString(v.ID)
	require.NoError(t, err)
	assert.Equal(t, term.XSDIntegerIRI, iri)
}

func TestBNodeStableWithinEvaluation(t *testing.T) {
	ev, d := newTestEvaluator()
	row := tuple.New(0)
	lex := mustStr(t, d, "alice")
	expr := plan.BNode(plan.Const(lex))

	a, ok, err := ev.Eval(expr, row)
	require.NoError(t, err)
	require.True(t, ok)
	b, ok, err := ev.Eval(expr, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a.Blank, b.Blank)

	other := plan.BNode(plan.Const(mustStr(t, d, "bob")))
	c, ok, err := ev.Eval(other, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, a.Blank, c.Blank)
}

func TestUUIDBuiltins(t *testing.T) {
	ev, _ := newTestEvaluator()
	row := tuple.New(0)

	v, ok, err := ev.Eval(plan.UUID(), row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, term.KindNamedNode, v.Kind)

	v2, ok, err := ev.Eval(plan.StrUUID(), row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, term.KindSimpleLiteral, v2.Kind)
}

func TestLangMatchesBuiltin(t *testing.T) {
	ev, d := newTestEvaluator()
	row := tuple.New(0)

	expr := plan.LangMatches(plan.Const(mustStr(t, d, "en-US")), plan.Const(mustStr(t, d, "en")))
	v, ok, err := ev.Eval(expr, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, v.Bool)

	expr = plan.LangMatches(plan.Const(mustStr(t, d, "fr")), plan.Const(mustStr(t, d, "en")))
	v, ok, err = ev.Eval(expr, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, v.Bool)
}

func TestRegexBuiltinWithFlags(t *testing.T) {
	ev, d := newTestEvaluator()
	row := tuple.New(0)

	expr := plan.Regex(plan.Const(mustStr(t, d, "Hello World")), plan.Const(mustStr(t, d, "hello")), plan.Const(mustStr(t, d, "i")))
	v, ok, err := ev.Eval(expr, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, v.Bool)

	expr = plan.Regex(plan.Const(mustStr(t, d, "Hello World")), plan.Const(mustStr(t, d, "hello")), nil)
	v, ok, err = ev.Eval(expr, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, v.Bool)

	// unsupported 'q' flag is silently ignored, not an error
	expr = plan.Regex(plan.Const(mustStr(t, d, "abc")), plan.Const(mustStr(t, d, "a.c")), plan.Const(mustStr(t, d, "q")))
	v, ok, err = ev.Eval(expr, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, v.Bool)
}

func TestCoalesceAndIf(t *testing.T) {
	ev, _ := newTestEvaluator()
	row := tuple.New(1)

	coalesce := plan.Coalesce([]*plan.Expression{plan.Var(0), plan.Const(term.IntegerFromInt64(9))})
	v, ok, err := ev.Eval(coalesce, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(9), v.Int.Int64())

	ifExpr := plan.If(plan.Const(term.Boolean(true)), plan.Const(term.IntegerFromInt64(1)), plan.Const(term.IntegerFromInt64(2)))
	v, ok, err = ev.Eval(ifExpr, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), v.Int.Int64())
}

func TestCasts(t *testing.T) {
	ev, d := newTestEvaluator()
	row := tuple.New(0)

	boolCast := plan.BooleanCast(plan.Const(mustStr(t, d, "true")))
	v, ok, err := ev.Eval(boolCast, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, v.Bool)

	intCast := plan.IntegerCast(plan.Const(term.Double(3.9)))
	v, ok, err = ev.Eval(intCast, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(3), v.Int.Int64())

	strCast := plan.StringCast(plan.Const(term.IntegerFromInt64(42)))
	v, ok, err = ev.Eval(strCast, row)
	require.NoError(t, err)
	require.True(t, ok)
	s, err := d.GetString(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "42", s)

	badCast := plan.DecimalCast(plan.Const(mustStr(t, d, "not-a-number")))
	_, ok, err = ev.Eval(badCast, row)
	require.NoError(t, err)
	assert.False(t, ok)
}
