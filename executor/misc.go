package executor

import (
	"github.com/wbrown/janus-sparql/tuple"
)

// hashDeduplicateIterator implements HashDeduplicate (§4.3), using
// tuple.KeySet to recognize rows already seen.
type hashDeduplicateIterator struct {
	child TupleIterator
	seen  *tuple.KeySet
	cur   tuple.Tuple
	err   error
}

func newHashDeduplicateIterator(child TupleIterator) *hashDeduplicateIterator {
	return &hashDeduplicateIterator{child: child, seen: tuple.NewKeySet()}
}

func (it *hashDeduplicateIterator) Next() bool {
	for it.child.Next() {
		row := it.child.Tuple()
		if it.seen.InsertIfAbsent(row) {
			it.cur = row
			return true
		}
	}
	it.err = it.child.Err()
	return false
}

func (it *hashDeduplicateIterator) Tuple() tuple.Tuple { return it.cur }
func (it *hashDeduplicateIterator) Err() error         { return it.err }
func (it *hashDeduplicateIterator) Close() error       { return it.child.Close() }

// skipIterator implements Skip (§4.3): discards the first n rows.
type skipIterator struct {
	child     TupleIterator
	remaining int
	cur       tuple.Tuple
	err       error
}

func newSkipIterator(child TupleIterator, n int) *skipIterator {
	return &skipIterator{child: child, remaining: n}
}

func (it *skipIterator) Next() bool {
	for it.remaining > 0 {
		if !it.child.Next() {
			it.err = it.child.Err()
			return false
		}
		it.remaining--
	}
	if !it.child.Next() {
		it.err = it.child.Err()
		return false
	}
	it.cur = it.child.Tuple()
	return true
}

func (it *skipIterator) Tuple() tuple.Tuple { return it.cur }
func (it *skipIterator) Err() error         { return it.err }
func (it *skipIterator) Close() error       { return it.child.Close() }

// limitIterator implements Limit (§4.3): stops after n rows.
type limitIterator struct {
	child     TupleIterator
	remaining int
	cur       tuple.Tuple
	err       error
}

func newLimitIterator(child TupleIterator, n int) *limitIterator {
	return &limitIterator{child: child, remaining: n}
}

func (it *limitIterator) Next() bool {
	if it.remaining <= 0 {
		return false
	}
	if !it.child.Next() {
		it.err = it.child.Err()
		return false
	}
	it.remaining--
	it.cur = it.child.Tuple()
	return true
}

func (it *limitIterator) Tuple() tuple.Tuple { return it.cur }
func (it *limitIterator) Err() error         { return it.err }
func (it *limitIterator) Close() error       { return it.child.Close() }

// projectIterator implements Project (§4.3): maps each row's slots to
// a new, densely-numbered output tuple per the planner-supplied
// mapping.
type projectIterator struct {
	child   TupleIterator
	mapping []int
	cur     tuple.Tuple
	err     error
}

func newProjectIterator(child TupleIterator, mapping []int) *projectIterator {
	return &projectIterator{child: child, mapping: mapping}
}

func (it *projectIterator) Next() bool {
	if !it.child.Next() {
		it.err = it.child.Err()
		return false
	}
	it.cur = tuple.Project(it.child.Tuple(), it.mapping)
	return true
}

func (it *projectIterator) Tuple() tuple.Tuple { return it.cur }
func (it *projectIterator) Err() error         { return it.err }
func (it *projectIterator) Close() error       { return it.child.Close() }
