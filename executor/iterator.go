// Package executor interprets a physical plan (plan.Node) against a
// Dataset, producing a lazy, pull-based stream of tuples (§4.3).
package executor

import (
	"github.com/wbrown/janus-sparql/term"
	"github.com/wbrown/janus-sparql/tuple"
)

// TupleIterator is the pull-based row source every operator implements,
// generalizing the teacher's Next()/Tuple()/Close() shape
// (datalog/executor/relation.go's Iterator) with an explicit Err()
// method: this evaluator's operators read from a dictionary/store that
// can fail mid-stream, so "iteration stopped" and "iteration failed"
// must be distinguishable (§7).
type TupleIterator interface {
	// Next advances to the next tuple, returning false at end of stream
	// or on error (check Err() to distinguish the two).
	Next() bool
	// Tuple returns the row most recently produced by Next.
	Tuple() tuple.Tuple
	// Err returns the first error encountered, if any.
	Err() error
	// Close releases any resources held by the iterator.
	Close() error
}

// Dataset is the subset of the store's Dataset View the executor and
// evaluator need: pattern lookup plus dictionary access.
type Dataset interface {
	QuadsForPattern(subject, predicate, object, graph *term.Encoded) ([]term.Quad, error)
	InsertStr(s string) (uint64, error)
	GetString(id uint64) (string, error)
}

// sliceIterator streams an in-memory slice of rows: the output of Sort
// once its input is materialized, and StaticBindings.
type sliceIterator struct {
	rows []tuple.Tuple
	idx  int
	cur  tuple.Tuple
	err  error
}

func (it *sliceIterator) Next() bool {
	if it.err != nil || it.idx >= len(it.rows) {
		return false
	}
	it.cur = it.rows[it.idx]
	it.idx++
	return true
}

func (it *sliceIterator) Tuple() tuple.Tuple { return it.cur }
func (it *sliceIterator) Err() error         { return it.err }
func (it *sliceIterator) Close() error       { return nil }

// drain fully consumes it, returning its rows or its first error. It
// also closes it.
func drain(it TupleIterator) ([]tuple.Tuple, error) {
	var rows []tuple.Tuple
	for it.Next() {
		rows = append(rows, it.Tuple())
	}
	err := it.Err()
	closeErr := it.Close()
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, closeErr
	}
	return rows, nil
}
