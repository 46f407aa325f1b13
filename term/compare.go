package term

import "strings"

// Resolver looks text up by dictionary id. Expression evaluation and
// comparison need it whenever two string-shaped terms must be compared by
// content rather than by id, since two distinct ids are never assumed to
// carry equal text.
type Resolver interface {
	GetString(id uint64) (string, error)
}

func isStringTyped(e Encoded) bool {
	return e.Kind == KindSimpleLiteral || e.Kind == KindStringLiteral
}

// ValueCompare implements partial_cmp_literals: string-typed literals
// compare by resolved content, numerics compare after promotion,
// everything else is incomparable (ok=false).
func ValueCompare(a, b Encoded, r Resolver) (order int, ok bool, err error) {
	if isStringTyped(a) && isStringTyped(b) {
		sa, e1 := r.GetString(a.ID)
		if e1 != nil {
			return 0, false, e1
		}
		sb, e2 := r.GetString(b.ID)
		if e2 != nil {
			return 0, false, e2
		}
		return strings.Compare(sa, sb), true, nil
	}
	if a.IsNumeric() && b.IsNumeric() {
		c, ok := CompareNumeric(a, b)
		return c, ok, nil
	}
	return 0, false, nil
}

// Equals implements equals(a,b): byte-identical, or value-comparable and
// Equal. Returns ok=false when neither test applies (a SPARQL type error).
func Equals(a, b Encoded, r Resolver) (result bool, ok bool, err error) {
	if a.Equal(b) {
		return true, true, nil
	}
	order, comparable, err := ValueCompare(a, b, r)
	if err != nil {
		return false, false, err
	}
	if !comparable {
		return false, false, nil
	}
	return order == 0, true, nil
}

// rank is the (blank, named, literal) ordering used by cmp_according_to_expression.
func rank(k Kind) int {
	switch k {
	case KindBlankNode:
		return 0
	case KindNamedNode:
		return 1
	default:
		return 2
	}
}

// SortCompare implements cmp_according_to_expression: a total order over
// optional terms (nil meaning unbound, which sorts below everything
// bound), extending ValueCompare with a rank fallback so any two terms
// are ordered even when incomparable by value.
func SortCompare(a, b *Encoded, r Resolver) (int, error) {
	if a == nil && b == nil {
		return 0, nil
	}
	if a == nil {
		return -1, nil
	}
	if b == nil {
		return 1, nil
	}
	ra, rb := rank(a.Kind), rank(b.Kind)
	if ra != rb {
		if ra < rb {
			return -1, nil
		}
		return 1, nil
	}
	switch a.Kind {
	case KindBlankNode:
		switch {
		case a.Blank < b.Blank:
			return -1, nil
		case a.Blank > b.Blank:
			return 1, nil
		default:
			return 0, nil
		}
	case KindNamedNode:
		sa, err := r.GetString(a.ID)
		if err != nil {
			return 0, err
		}
		sb, err := r.GetString(b.ID)
		if err != nil {
			return 0, err
		}
		return strings.Compare(sa, sb), nil
	default:
		order, ok, err := ValueCompare(*a, *b, r)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, nil
		}
		return order, nil
	}
}
