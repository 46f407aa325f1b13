package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *QuadStore {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDictionaryInsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	id1, err := s.Dict.InsertStr("http://example.org/alice")
	require.NoError(t, err)
	id2, err := s.Dict.InsertStr("http://example.org/alice")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}

func TestDictionaryRoundTrip(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Dict.InsertStr("hello world")
	require.NoError(t, err)
	got, err := s.Dict.GetString(id)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestDictionaryDistinctStringsGetDistinctIDs(t *testing.T) {
	s := newTestStore(t)
	id1, err := s.Dict.InsertStr("a")
	require.NoError(t, err)
	id2, err := s.Dict.InsertStr("b")
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestDictionaryWellKnownDatatypesPreloaded(t *testing.T) {
	s := newTestStore(t)
	got, err := s.Dict.GetString(1) // term.IDXSDString
	require.NoError(t, err)
	assert.Equal(t, "http://www.w3.org/2001/XMLSchema#string", got)
}
