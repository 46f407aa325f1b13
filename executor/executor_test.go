package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-sparql/plan"
	"github.com/wbrown/janus-sparql/store"
	"github.com/wbrown/janus-sparql/term"
	"github.com/wbrown/janus-sparql/tuple"
)

type testDataset struct {
	store.Dataset
	quads *store.QuadStore
}

func newTestDataset(t *testing.T) testDataset {
	t.Helper()
	s, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return testDataset{Dataset: store.NewDataset(s), quads: s}
}

func (d testDataset) insert(t *testing.T, q term.Quad) {
	t.Helper()
	require.NoError(t, d.quads.Insert([]term.Quad{q}))
}

func id(t *testing.T, ds testDataset, text string) uint64 {
	t.Helper()
	n, err := ds.InsertStr(text)
	require.NoError(t, err)
	return n
}

func collect(t *testing.T, it TupleIterator) []tuple.Tuple {
	t.Helper()
	var rows []tuple.Tuple
	for it.Next() {
		rows = append(rows, it.Tuple())
	}
	require.NoError(t, it.Err())
	require.NoError(t, it.Close())
	return rows
}

func TestQuadPatternJoinBasicMatch(t *testing.T) {
	ds := newTestDataset(t)
	alice := term.NamedNode(id(t, ds, "http://ex/alice"))
	knows := term.NamedNode(id(t, ds, "http://ex/knows"))
	bob := term.NamedNode(id(t, ds, "http://ex/bob"))
	ds.insert(t, term.Quad{Subject: alice, Predicate: knows, Object: bob, GraphName: term.DefaultGraph})

	ex := New(ds)
	node := plan.QuadPatternJoin(plan.Init(),
		plan.ConstantPattern(alice), plan.ConstantPattern(knows), plan.VariablePattern(0), plan.ConstantPattern(term.DefaultGraph))
	it, err := ex.Execute(context.Background(), node, 1)
	require.NoError(t, err)
	rows := collect(t, it)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Get(0).Equal(bob))
}

func TestQuadPatternJoinSelfJoinFilter(t *testing.T) {
	ds := newTestDataset(t)
	alice := term.NamedNode(id(t, ds, "http://ex/alice"))
	likes := term.NamedNode(id(t, ds, "http://ex/likes"))
	ds.insert(t, term.Quad{Subject: alice, Predicate: likes, Object: alice, GraphName: term.DefaultGraph})
	bob := term.NamedNode(id(t, ds, "http://ex/bob"))
	ds.insert(t, term.Quad{Subject: alice, Predicate: likes, Object: bob, GraphName: term.DefaultGraph})

	ex := New(ds)
	// ?x likes ?x — same variable in subject and object position.
	node := plan.QuadPatternJoin(plan.Init(),
		plan.VariablePattern(0), plan.ConstantPattern(likes), plan.VariablePattern(0), plan.ConstantPattern(term.DefaultGraph))
	it, err := ex.Execute(context.Background(), node, 1)
	require.NoError(t, err)
	rows := collect(t, it)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Get(0).Equal(alice))
}

func TestQuadPatternJoinGraphVariableExcludesDefaultGraph(t *testing.T) {
	ds := newTestDataset(t)
	a := term.NamedNode(id(t, ds, "http://ex/a"))
	p := term.NamedNode(id(t, ds, "http://ex/p"))
	o := term.NamedNode(id(t, ds, "http://ex/o"))
	namedGraph := term.NamedNode(id(t, ds, "http://ex/g"))
	ds.insert(t, term.Quad{Subject: a, Predicate: p, Object: o, GraphName: term.DefaultGraph})
	ds.insert(t, term.Quad{Subject: a, Predicate: p, Object: o, GraphName: namedGraph})

	ex := New(ds)
	node := plan.QuadPatternJoin(plan.Init(),
		plan.ConstantPattern(a), plan.ConstantPattern(p), plan.ConstantPattern(o), plan.VariablePattern(0))
	it, err := ex.Execute(context.Background(), node, 1)
	require.NoError(t, err)
	rows := collect(t, it)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Get(0).Equal(namedGraph))
}

func TestJoinCombinesCompatibleRows(t *testing.T) {
	ds := newTestDataset(t)
	alice := term.NamedNode(id(t, ds, "http://ex/alice"))
	knows := term.NamedNode(id(t, ds, "http://ex/knows"))
	bob := term.NamedNode(id(t, ds, "http://ex/bob"))
	age := term.NamedNode(id(t, ds, "http://ex/age"))
	thirty := term.IntegerFromInt64(30)
	ds.insert(t, term.Quad{Subject: alice, Predicate: knows, Object: bob, GraphName: term.DefaultGraph})
	ds.insert(t, term.Quad{Subject: bob, Predicate: age, Object: thirty, GraphName: term.DefaultGraph})

	ex := New(ds)
	left := plan.QuadPatternJoin(plan.Init(), plan.ConstantPattern(alice), plan.ConstantPattern(knows), plan.VariablePattern(0), plan.ConstantPattern(term.DefaultGraph))
	right := plan.QuadPatternJoin(plan.Init(), plan.VariablePattern(0), plan.ConstantPattern(age), plan.VariablePattern(1), plan.ConstantPattern(term.DefaultGraph))
	node := plan.Join(left, right)

	it, err := ex.Execute(context.Background(), node, 2)
	require.NoError(t, err)
	rows := collect(t, it)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Get(0).Equal(bob))
	assert.True(t, rows[0].Get(1).Equal(thirty))
}

func TestLeftJoinPreservesUnmatchedRow(t *testing.T) {
	ds := newTestDataset(t)
	alice := term.NamedNode(id(t, ds, "http://ex/alice"))
	carl := term.NamedNode(id(t, ds, "http://ex/carl"))
	knows := term.NamedNode(id(t, ds, "http://ex/knows"))
	age := term.NamedNode(id(t, ds, "http://ex/age"))
	ds.insert(t, term.Quad{Subject: alice, Predicate: knows, Object: carl, GraphName: term.DefaultGraph})
	// carl has no age quad.

	ex := New(ds)
	left := plan.QuadPatternJoin(plan.Init(), plan.ConstantPattern(alice), plan.ConstantPattern(knows), plan.VariablePattern(0), plan.ConstantPattern(term.DefaultGraph))
	right := plan.QuadPatternJoin(plan.Init(), plan.VariablePattern(0), plan.ConstantPattern(age), plan.VariablePattern(1), plan.ConstantPattern(term.DefaultGraph))
	node := plan.LeftJoin(left, right, nil)

	it, err := ex.Execute(context.Background(), node, 2)
	require.NoError(t, err)
	rows := collect(t, it)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Get(0).Equal(carl))
	assert.Nil(t, rows[0].Get(1))
}

func TestFilterDropsNonMatchingRows(t *testing.T) {
	ds := newTestDataset(t)
	a := term.NamedNode(id(t, ds, "http://ex/a"))
	p := term.NamedNode(id(t, ds, "http://ex/p"))
	v1 := term.IntegerFromInt64(1)
	v2 := term.IntegerFromInt64(5)
	ds.insert(t, term.Quad{Subject: a, Predicate: p, Object: v1, GraphName: term.DefaultGraph})
	ds.insert(t, term.Quad{Subject: a, Predicate: p, Object: v2, GraphName: term.DefaultGraph})

	ex := New(ds)
	scan := plan.QuadPatternJoin(plan.Init(), plan.ConstantPattern(a), plan.ConstantPattern(p), plan.VariablePattern(0), plan.ConstantPattern(term.DefaultGraph))
	node := plan.Filter(scan, plan.Greater(plan.Var(0), plan.Const(term.IntegerFromInt64(3))))

	it, err := ex.Execute(context.Background(), node, 1)
	require.NoError(t, err)
	rows := collect(t, it)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Get(0).Equal(v2))
}

func TestUnionForwardOrder(t *testing.T) {
	ds := newTestDataset(t)
	ex := New(ds)
	left := plan.StaticBindings([]tuple.Tuple{tuple.New(1).Put(0, term.IntegerFromInt64(1))})
	right := plan.StaticBindings([]tuple.Tuple{tuple.New(1).Put(0, term.IntegerFromInt64(2))})
	node := plan.Union(plan.Init(), []*plan.Node{left, right})

	it, err := ex.Execute(context.Background(), node, 1)
	require.NoError(t, err)
	rows := collect(t, it)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].Get(0).Int.Int64())
	assert.Equal(t, int64(2), rows[1].Get(0).Int.Int64())
}

func TestSortOrdersRows(t *testing.T) {
	ds := newTestDataset(t)
	ex := New(ds)
	bindings := plan.StaticBindings([]tuple.Tuple{
		tuple.New(1).Put(0, term.IntegerFromInt64(3)),
		tuple.New(1).Put(0, term.IntegerFromInt64(1)),
		tuple.New(1).Put(0, term.IntegerFromInt64(2)),
	})
	node := plan.Sort(bindings, []plan.SortKey{{Expr: plan.Var(0)}})

	it, err := ex.Execute(context.Background(), node, 1)
	require.NoError(t, err)
	rows := collect(t, it)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(1), rows[0].Get(0).Int.Int64())
	assert.Equal(t, int64(2), rows[1].Get(0).Int.Int64())
	assert.Equal(t, int64(3), rows[2].Get(0).Int.Int64())
}

func TestHashDeduplicateSkipLimitProject(t *testing.T) {
	ds := newTestDataset(t)
	ex := New(ds)
	bindings := plan.StaticBindings([]tuple.Tuple{
		tuple.New(2).Put(0, term.IntegerFromInt64(1)).Put(1, term.IntegerFromInt64(9)),
		tuple.New(2).Put(0, term.IntegerFromInt64(1)).Put(1, term.IntegerFromInt64(9)),
		tuple.New(2).Put(0, term.IntegerFromInt64(2)).Put(1, term.IntegerFromInt64(9)),
	})
	dedup := plan.HashDeduplicate(bindings)
	projected := plan.Project(dedup, []int{0})

	it, err := ex.Execute(context.Background(), projected, 2)
	require.NoError(t, err)
	rows := collect(t, it)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].Get(0).Int.Int64())
	assert.Equal(t, int64(2), rows[1].Get(0).Int.Int64())

	limited := plan.Limit(plan.Skip(bindings, 2), 1)
	it, err = ex.Execute(context.Background(), limited, 2)
	require.NoError(t, err)
	rows = collect(t, it)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].Get(0).Int.Int64())
}
