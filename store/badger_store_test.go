package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-sparql/term"
)

func mustID(t *testing.T, s *QuadStore, text string) uint64 {
	t.Helper()
	id, err := s.Dict.InsertStr(text)
	require.NoError(t, err)
	return id
}

func TestQuadsForPatternExactMatch(t *testing.T) {
	s := newTestStore(t)
	a := term.NamedNode(mustID(t, s, "http://ex/a"))
	b := term.NamedNode(mustID(t, s, "http://ex/b"))
	c := term.NamedNode(mustID(t, s, "http://ex/c"))
	q := term.Quad{Subject: a, Predicate: b, Object: c, GraphName: term.DefaultGraph}
	require.NoError(t, s.Insert([]term.Quad{q}))

	results, err := s.QuadsForPattern(&a, &b, &c, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Equal(q))
}

func TestQuadsForPatternWildcard(t *testing.T) {
	s := newTestStore(t)
	a := term.NamedNode(mustID(t, s, "http://ex/a"))
	b := term.NamedNode(mustID(t, s, "http://ex/b"))
	c1 := term.NamedNode(mustID(t, s, "http://ex/c1"))
	c2 := term.NamedNode(mustID(t, s, "http://ex/c2"))
	q1 := term.Quad{Subject: a, Predicate: b, Object: c1, GraphName: term.DefaultGraph}
	q2 := term.Quad{Subject: a, Predicate: b, Object: c2, GraphName: term.DefaultGraph}
	require.NoError(t, s.Insert([]term.Quad{q1, q2}))

	results, err := s.QuadsForPattern(&a, &b, nil, nil)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestQuadsForPatternDefaultGraphSelector(t *testing.T) {
	s := newTestStore(t)
	a := term.NamedNode(mustID(t, s, "http://ex/a"))
	b := term.NamedNode(mustID(t, s, "http://ex/b"))
	c := term.NamedNode(mustID(t, s, "http://ex/c"))
	namedGraph := term.NamedNode(mustID(t, s, "http://ex/g"))
	defaultQuad := term.Quad{Subject: a, Predicate: b, Object: c, GraphName: term.DefaultGraph}
	namedQuad := term.Quad{Subject: a, Predicate: b, Object: c, GraphName: namedGraph}
	require.NoError(t, s.Insert([]term.Quad{defaultQuad, namedQuad}))

	onlyDefault, err := s.QuadsForPattern(nil, nil, nil, &term.DefaultGraph)
	require.NoError(t, err)
	require.Len(t, onlyDefault, 1)
	assert.True(t, onlyDefault[0].GraphName.Equal(term.DefaultGraph))

	anyGraph, err := s.QuadsForPattern(nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Len(t, anyGraph, 2)
}

func TestRemoveDeletesFromAllIndices(t *testing.T) {
	s := newTestStore(t)
	a := term.NamedNode(mustID(t, s, "http://ex/a"))
	b := term.NamedNode(mustID(t, s, "http://ex/b"))
	c := term.NamedNode(mustID(t, s, "http://ex/c"))
	q := term.Quad{Subject: a, Predicate: b, Object: c, GraphName: term.DefaultGraph}
	require.NoError(t, s.Insert([]term.Quad{q}))
	require.NoError(t, s.Remove([]term.Quad{q}))

	results, err := s.QuadsForPattern(nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestQuadEncodeDecodeRoundTripsAllKinds(t *testing.T) {
	s := newTestStore(t)
	lex := mustID(t, s, "42")
	lang := mustID(t, s, "en")
	dt := mustID(t, s, "http://ex/custom")
	quads := []term.Quad{
		{Subject: term.NamedNode(lex), Predicate: term.NamedNode(lex), Object: term.BlankNode(7), GraphName: term.DefaultGraph},
		{Subject: term.NamedNode(lex), Predicate: term.NamedNode(lex), Object: term.LangStringLiteral(lex, lang), GraphName: term.DefaultGraph},
		{Subject: term.NamedNode(lex), Predicate: term.NamedNode(lex), Object: term.TypedLiteral(lex, dt), GraphName: term.DefaultGraph},
		{Subject: term.NamedNode(lex), Predicate: term.NamedNode(lex), Object: term.Boolean(true), GraphName: term.DefaultGraph},
		{Subject: term.NamedNode(lex), Predicate: term.NamedNode(lex), Object: term.IntegerFromInt64(-17), GraphName: term.DefaultGraph},
	}
	require.NoError(t, s.Insert(quads))
	for _, q := range quads {
		results, err := s.QuadsForPattern(&q.Subject, &q.Predicate, &q.Object, &q.GraphName)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.True(t, results[0].Object.Equal(q.Object))
	}
}
