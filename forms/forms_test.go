package forms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/janus-sparql/eval"
	"github.com/wbrown/janus-sparql/executor"
	"github.com/wbrown/janus-sparql/plan"
	"github.com/wbrown/janus-sparql/store"
	"github.com/wbrown/janus-sparql/term"
)

func newTestStore(t *testing.T) *store.QuadStore {
	t.Helper()
	s, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func mustID(t *testing.T, s *store.QuadStore, text string) uint64 {
	t.Helper()
	id, err := s.Dict.InsertStr(text)
	require.NoError(t, err)
	return id
}

func TestSelectDecodesBoundSlots(t *testing.T) {
	s := newTestStore(t)
	alice := term.NamedNode(mustID(t, s, "http://ex/alice"))
	knows := term.NamedNode(mustID(t, s, "http://ex/knows"))
	bob := term.NamedNode(mustID(t, s, "http://ex/bob"))
	require.NoError(t, s.Insert([]term.Quad{{Subject: alice, Predicate: knows, Object: bob, GraphName: term.DefaultGraph}}))

	ds := store.NewDataset(s)
	ex := executor.New(ds)
	node := plan.QuadPatternJoin(plan.Init(),
		plan.ConstantPattern(alice), plan.ConstantPattern(knows), plan.VariablePattern(0), plan.ConstantPattern(term.DefaultGraph))
	it, err := ex.Execute(context.Background(), node, 1)
	require.NoError(t, err)

	b, err := Select(it, []string{"o"}, ds.Encoder())
	require.NoError(t, err)
	require.Len(t, b.Rows, 1)
	require.NotNil(t, b.Rows[0][0])
	assert.Equal(t, "http://ex/bob", b.Rows[0][0].IRI)
}

func TestSelectLeavesUnboundSlotNil(t *testing.T) {
	s := newTestStore(t)
	alice := term.NamedNode(mustID(t, s, "http://ex/alice"))
	knows := term.NamedNode(mustID(t, s, "http://ex/knows"))
	carl := term.NamedNode(mustID(t, s, "http://ex/carl"))
	require.NoError(t, s.Insert([]term.Quad{{Subject: alice, Predicate: knows, Object: carl, GraphName: term.DefaultGraph}}))

	ds := store.NewDataset(s)
	ex := executor.New(ds)
	left := plan.QuadPatternJoin(plan.Init(), plan.ConstantPattern(alice), plan.ConstantPattern(knows), plan.VariablePattern(0), plan.ConstantPattern(term.DefaultGraph))
	age := term.NamedNode(mustID(t, s, "http://ex/age"))
	right := plan.QuadPatternJoin(plan.Init(), plan.VariablePattern(0), plan.ConstantPattern(age), plan.VariablePattern(1), plan.ConstantPattern(term.DefaultGraph))
	node := plan.LeftJoin(left, right, nil)

	it, err := ex.Execute(context.Background(), node, 2)
	require.NoError(t, err)
	b, err := Select(it, []string{"x", "age"}, ds.Encoder())
	require.NoError(t, err)
	require.Len(t, b.Rows, 1)
	assert.Nil(t, b.Rows[0][1])
}

func TestAskTrueAndFalse(t *testing.T) {
	s := newTestStore(t)
	alice := term.NamedNode(mustID(t, s, "http://ex/alice"))
	knows := term.NamedNode(mustID(t, s, "http://ex/knows"))
	bob := term.NamedNode(mustID(t, s, "http://ex/bob"))
	require.NoError(t, s.Insert([]term.Quad{{Subject: alice, Predicate: knows, Object: bob, GraphName: term.DefaultGraph}}))

	ds := store.NewDataset(s)
	ex := executor.New(ds)

	matching := plan.QuadPatternJoin(plan.Init(), plan.ConstantPattern(alice), plan.ConstantPattern(knows), plan.ConstantPattern(bob), plan.ConstantPattern(term.DefaultGraph))
	it, err := ex.Execute(context.Background(), matching, 0)
	require.NoError(t, err)
	ok, err := Ask(it)
	require.NoError(t, err)
	assert.True(t, ok)

	carl := term.NamedNode(mustID(t, s, "http://ex/carl"))
	nonMatching := plan.QuadPatternJoin(plan.Init(), plan.ConstantPattern(carl), plan.ConstantPattern(knows), plan.ConstantPattern(bob), plan.ConstantPattern(term.DefaultGraph))
	it, err = ex.Execute(context.Background(), nonMatching, 0)
	require.NoError(t, err)
	ok, err = Ask(it)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBindingsTableRenders(t *testing.T) {
	s := newTestStore(t)
	alice := term.NamedNode(mustID(t, s, "http://ex/alice"))
	knows := term.NamedNode(mustID(t, s, "http://ex/knows"))
	bob := term.NamedNode(mustID(t, s, "http://ex/bob"))
	require.NoError(t, s.Insert([]term.Quad{{Subject: alice, Predicate: knows, Object: bob, GraphName: term.DefaultGraph}}))

	ds := store.NewDataset(s)
	ex := executor.New(ds)
	node := plan.QuadPatternJoin(plan.Init(), plan.ConstantPattern(alice), plan.ConstantPattern(knows), plan.VariablePattern(0), plan.ConstantPattern(term.DefaultGraph))
	it, err := ex.Execute(context.Background(), node, 1)
	require.NoError(t, err)

	b, err := Select(it, []string{"o"}, ds.Encoder())
	require.NoError(t, err)
	out := b.Table()
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "1 rows")
}

func TestConstructInstantiatesTemplatesAndSharesBlankPerRow(t *testing.T) {
	s := newTestStore(t)
	alice := term.NamedNode(mustID(t, s, "http://ex/alice"))
	knows := term.NamedNode(mustID(t, s, "http://ex/knows"))
	bob := term.NamedNode(mustID(t, s, "http://ex/bob"))
	name := term.NamedNode(mustID(t, s, "http://ex/name"))
	require.NoError(t, s.Insert([]term.Quad{{Subject: alice, Predicate: knows, Object: bob, GraphName: term.DefaultGraph}}))

	ds := store.NewDataset(s)
	ex := executor.New(ds)
	node := plan.QuadPatternJoin(plan.Init(), plan.ConstantPattern(alice), plan.ConstantPattern(knows), plan.VariablePattern(0), plan.ConstantPattern(term.DefaultGraph))
	it, err := ex.Execute(context.Background(), node, 1)
	require.NoError(t, err)

	templates := []TripleTemplate{
		{Subject: Blank("x"), Predicate: Constant(knows), Object: Variable(0)},
		{Subject: Blank("x"), Predicate: Constant(name), Object: Constant(term.SimpleLiteral(mustID(t, s, "anon")))},
	}
	triples, err := Construct(it, templates, ds.Encoder(), eval.NewBlankNodeMap())
	require.NoError(t, err)
	require.Len(t, triples, 2)
	assert.Equal(t, triples[0].Subject.BlankID, triples[1].Subject.BlankID)
}

func TestConstructSkipsTemplateWithUnboundVariable(t *testing.T) {
	s := newTestStore(t)
	alice := term.NamedNode(mustID(t, s, "http://ex/alice"))
	knows := term.NamedNode(mustID(t, s, "http://ex/knows"))
	bob := term.NamedNode(mustID(t, s, "http://ex/bob"))
	require.NoError(t, s.Insert([]term.Quad{{Subject: alice, Predicate: knows, Object: bob, GraphName: term.DefaultGraph}}))

	ds := store.NewDataset(s)
	ex := executor.New(ds)
	node := plan.QuadPatternJoin(plan.Init(), plan.ConstantPattern(alice), plan.ConstantPattern(knows), plan.VariablePattern(0), plan.ConstantPattern(term.DefaultGraph))
	it, err := ex.Execute(context.Background(), node, 2)
	require.NoError(t, err)

	templates := []TripleTemplate{
		{Subject: Variable(0), Predicate: Constant(knows), Object: Variable(1)},
	}
	triples, err := Construct(it, templates, ds.Encoder(), eval.NewBlankNodeMap())
	require.NoError(t, err)
	assert.Empty(t, triples)
}

func TestDescribeReturnsSubjectAndObjectQuadsUndeduplicated(t *testing.T) {
	s := newTestStore(t)
	alice := term.NamedNode(mustID(t, s, "http://ex/alice"))
	knows := term.NamedNode(mustID(t, s, "http://ex/knows"))
	bob := term.NamedNode(mustID(t, s, "http://ex/bob"))
	likes := term.NamedNode(mustID(t, s, "http://ex/likes"))
	require.NoError(t, s.Insert([]term.Quad{
		{Subject: alice, Predicate: knows, Object: bob, GraphName: term.DefaultGraph},
		{Subject: bob, Predicate: likes, Object: alice, GraphName: term.DefaultGraph},
	}))

	ds := store.NewDataset(s)
	ex := executor.New(ds)
	it, err := ex.Execute(context.Background(), plan.Init(), 0)
	require.NoError(t, err)

	triples, err := Describe(it, []TemplateTerm{Constant(alice)}, ds, ds.Encoder())
	require.NoError(t, err)
	require.Len(t, triples, 2)
}
