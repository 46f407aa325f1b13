package plan

import (
	"github.com/wbrown/janus-sparql/term"
	"github.com/wbrown/janus-sparql/tuple"
)

// NodeKind tags which physical operator a Node represents.
type NodeKind int

const (
	NodeInit NodeKind = iota
	NodeStaticBindings
	NodeQuadPatternJoin
	NodeJoin
	NodeLeftJoin
	NodeFilter
	NodeUnion
	NodeExtend
	NodeSort
	NodeHashDeduplicate
	NodeSkip
	NodeLimit
	NodeProject
)

// PatternValue is either a constant term or a reference to a variable
// slot, used by QuadPatternJoin to describe how each quad position
// participates in the match.
type PatternValue struct {
	IsVariable bool
	Slot       int
	Constant   term.Encoded
}

// ConstantPattern builds a PatternValue fixed to a constant term.
func ConstantPattern(e term.Encoded) PatternValue { return PatternValue{Constant: e} }

// VariablePattern builds a PatternValue bound to the given variable slot.
func VariablePattern(slot int) PatternValue { return PatternValue{IsVariable: true, Slot: slot} }

// SortKey pairs a sort expression with its direction.
type SortKey struct {
	Expr       *Expression
	Descending bool
}

// Node is one physical operator in the plan tree. As with Expression,
// fields are reused contextually per Kind (documented per field below)
// rather than modeled as one struct type per operator.
type Node struct {
	Kind NodeKind

	// NodeStaticBindings
	Tuples []tuple.Tuple

	// NodeQuadPatternJoin
	Subject, Predicate, Object, Graph PatternValue

	// Single-child nodes: QuadPatternJoin, Filter, Extend, Sort,
	// HashDeduplicate, Skip, Limit, Project.
	Child *Node

	// Two-child nodes: Join, LeftJoin.
	Left, Right *Node

	// NodeLeftJoin: slots bound in the seed only via a problematic
	// planner rewriting (§4.3.1).
	PossibleProblemVars []int

	// NodeFilter
	Expr *Expression

	// NodeUnion: Entry is evaluated once against the enclosing seed, and
	// each row it produces reseeds every child in Children, in order
	// (§4.3). A nil Entry behaves as Init, the degenerate single-row
	// case.
	Entry    *Node
	Children []*Node

	// NodeExtend
	Slot  int
	Value *Expression

	// NodeSort
	By []SortKey

	// NodeSkip / NodeLimit
	N int

	// NodeProject: output slot i = child row[Mapping[i]].
	Mapping []int
}

func Init() *Node { return &Node{Kind: NodeInit} }

func StaticBindings(tuples []tuple.Tuple) *Node {
	return &Node{Kind: NodeStaticBindings, Tuples: tuples}
}

func QuadPatternJoin(child *Node, s, p, o, g PatternValue) *Node {
	return &Node{Kind: NodeQuadPatternJoin, Child: child, Subject: s, Predicate: p, Object: o, Graph: g}
}

func Join(left, right *Node) *Node { return &Node{Kind: NodeJoin, Left: left, Right: right} }

func LeftJoin(left, right *Node, possibleProblemVars []int) *Node {
	return &Node{Kind: NodeLeftJoin, Left: left, Right: right, PossibleProblemVars: possibleProblemVars}
}

func Filter(child *Node, expr *Expression) *Node {
	return &Node{Kind: NodeFilter, Child: child, Expr: expr}
}

func Union(entry *Node, children []*Node) *Node {
	return &Node{Kind: NodeUnion, Entry: entry, Children: children}
}

func Extend(child *Node, slot int, value *Expression) *Node {
	return &Node{Kind: NodeExtend, Child: child, Slot: slot, Value: value}
}

func Sort(child *Node, by []SortKey) *Node { return &Node{Kind: NodeSort, Child: child, By: by} }

func HashDeduplicate(child *Node) *Node { return &Node{Kind: NodeHashDeduplicate, Child: child} }

func Skip(child *Node, n int) *Node { return &Node{Kind: NodeSkip, Child: child, N: n} }

func Limit(child *Node, n int) *Node { return &Node{Kind: NodeLimit, Child: child, N: n} }

func Project(child *Node, mapping []int) *Node {
	return &Node{Kind: NodeProject, Child: child, Mapping: mapping}
}
