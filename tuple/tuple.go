// Package tuple implements the sparse, slot-indexed binding row that
// flows through the plan interpreter: a Tuple is a partial function from
// variable slot to bound term, where reading past the end (or a nil
// entry) means "unbound."
package tuple

import "github.com/wbrown/janus-sparql/term"

// Tuple is an ordered, sparse sequence of optional encoded terms indexed
// by variable slot. A nil entry, or an index past the end, is unbound.
type Tuple []*term.Encoded

// New returns an all-unbound tuple with the given number of slots.
func New(size int) Tuple {
	return make(Tuple, size)
}

// Get implements get_tuple_value: out-of-range is unbound, never a panic.
func (t Tuple) Get(slot int) *term.Encoded {
	if slot < 0 || slot >= len(t) {
		return nil
	}
	return t[slot]
}

// Bound reports whether slot holds a value.
func (t Tuple) Bound(slot int) bool {
	return t.Get(slot) != nil
}

// Put implements put_value: growing the tuple with unbound padding when
// slot is beyond the current length. Returns the (possibly reallocated)
// tuple; callers must use the return value.
func (t Tuple) Put(slot int, v term.Encoded) Tuple {
	if slot >= len(t) {
		grown := make(Tuple, slot+1)
		copy(grown, t)
		t = grown
	}
	t[slot] = &v
	return t
}

// Unset clears slot, leaving it unbound, without reallocating.
func (t Tuple) Unset(slot int) Tuple {
	if slot >= 0 && slot < len(t) {
		t[slot] = nil
	}
	return t
}

// Clone returns an independent copy sharing no backing array with t.
func (t Tuple) Clone() Tuple {
	c := make(Tuple, len(t))
	copy(c, t)
	return c
}

// Unbind returns a clone with every slot in slots cleared. Used by the
// LeftJoin bad-rewriting correction (§4.3.1) to build the filtered seed.
func (t Tuple) Unbind(slots []int) Tuple {
	c := t.Clone()
	for _, s := range slots {
		if s >= 0 && s < len(c) {
			c[s] = nil
		}
	}
	return c
}

// Equal compares two tuples slot-by-slot, treating differing lengths as
// implicitly padded with unbound slots.
func Equal(a, b Tuple) bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		av, bv := a.Get(i), b.Get(i)
		switch {
		case av == nil && bv == nil:
			continue
		case av == nil || bv == nil:
			return false
		case !av.Equal(*bv):
			return false
		}
	}
	return true
}

// Combine implements combine_tuples: unifies two partial bindings
// slot-wise. It fails (ok=false) if any slot is bound in both with
// unequal values, otherwise returns a merged tuple carrying the union of
// bindings.
func Combine(a, b Tuple) (Tuple, bool) {
	size := len(a)
	if len(b) > size {
		size = len(b)
	}
	out := make(Tuple, size)
	copy(out, a)
	for slot, v := range b {
		if v == nil {
			continue
		}
		if out[slot] != nil {
			if !out[slot].Equal(*v) {
				return nil, false
			}
			continue
		}
		out[slot] = v
	}
	return out, true
}

// Project builds a new tuple whose slot i equals row[mapping[i]].
func Project(row Tuple, mapping []int) Tuple {
	out := make(Tuple, len(mapping))
	for i, src := range mapping {
		out[i] = row.Get(src)
	}
	return out
}
