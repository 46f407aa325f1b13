package tuple

import "github.com/zeebo/xxh3"

// hashBytes builds a canonical byte encoding of a tuple for hashing: each
// slot is tagged present/absent so {nil, X} and {X, nil} never collide
// by shifting. Grounded in the teacher's hand-rolled FNV tuple hashing in
// datalog/executor/tuple_key.go, but using xxh3 (already present
// elsewhere in the example pack) instead of hand-rolled FNV-1a.
func hashBytes(t Tuple) []byte {
	buf := make([]byte, 0, len(t)*9)
	for _, v := range t {
		if v == nil {
			buf = append(buf, 0x00)
			continue
		}
		buf = append(buf, 0x01)
		buf = v.AppendHashBytes(buf)
	}
	return buf
}

// Hash returns a 64-bit digest such that Equal(a, b) implies Hash(a) ==
// Hash(b).
func Hash(t Tuple) uint64 {
	return xxh3.Hash(hashBytes(t))
}

// KeySet is a hash-bucketed set of tuples used by the HashDeduplicate
// operator, mirroring the teacher's TupleKeyMap (collision-chain comparison via an equality
// predicate rather than assuming no collisions).
type KeySet struct {
	buckets map[uint64][]Tuple
}

// NewKeySet returns an empty set.
func NewKeySet() *KeySet {
	return &KeySet{buckets: make(map[uint64][]Tuple)}
}

// InsertIfAbsent adds t if no equal tuple is already present, returning
// true if it was newly inserted.
func (s *KeySet) InsertIfAbsent(t Tuple) bool {
	h := Hash(t)
	for _, existing := range s.buckets[h] {
		if Equal(existing, t) {
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], t)
	return true
}

// Contains reports whether an equal tuple is already present, without
// inserting.
func (s *KeySet) Contains(t Tuple) bool {
	h := Hash(t)
	for _, existing := range s.buckets[h] {
		if Equal(existing, t) {
			return true
		}
	}
	return false
}

// Index buckets tuples by a hash over a fixed subset of slots (the join
// key), so a probe only visits rows that share the key hash. The
// executor's Join does not use it; it tests every materialized left row.
type Index struct {
	slots   []int
	buckets map[uint64][]Tuple
}

// NewIndex builds an index over left keyed by the given slots.
func NewIndex(left []Tuple, slots []int) *Index {
	idx := &Index{slots: slots, buckets: make(map[uint64][]Tuple)}
	for _, row := range left {
		h := idx.keyHash(row)
		idx.buckets[h] = append(idx.buckets[h], row)
	}
	return idx
}

func (idx *Index) keyHash(t Tuple) uint64 {
	buf := make([]byte, 0, len(idx.slots)*9)
	for _, slot := range idx.slots {
		v := t.Get(slot)
		if v == nil {
			buf = append(buf, 0x00)
			continue
		}
		buf = append(buf, 0x01)
		buf = v.AppendHashBytes(buf)
	}
	return xxh3.Hash(buf)
}

// Candidates returns the rows that might be compatible with t (same hash
// over the indexed slots); Combine must still be attempted on each since
// unbound join-key slots or hash collisions can both put false positives
// in the bucket.
func (idx *Index) Candidates(t Tuple) []Tuple {
	return idx.buckets[idx.keyHash(t)]
}
