package executor

import (
	"context"
	"fmt"

	"github.com/wbrown/janus-sparql/eval"
	"github.com/wbrown/janus-sparql/plan"
	"github.com/wbrown/janus-sparql/tuple"
)

// Executor interprets plan.Node trees against a Dataset (§4.3: the Plan
// Interpreter layer). One Executor is built per query evaluation and
// shares its Evaluator's blank-node map and regex cache across every
// node in the tree.
type Executor struct {
	DS   Dataset
	Eval *eval.Evaluator
}

// New builds an Executor bound to ds, with a fresh per-query blank node
// map (§5: one BlankNodeMap per evaluation, never shared across
// queries).
func New(ds Dataset) *Executor {
	return &Executor{DS: ds, Eval: eval.New(ds, eval.NewBlankNodeMap())}
}

// Execute builds and returns the root iterator for n, seeded with an
// all-unbound row of size slots. Cancellation is checked at row
// boundaries (§5) via the returned iterator's ctxGuard wrapper.
func (ex *Executor) Execute(ctx context.Context, n *plan.Node, slots int) (TupleIterator, error) {
	it, err := ex.build(n, tuple.New(slots))
	if err != nil {
		return nil, err
	}
	return &ctxGuardIterator{inner: it, ctx: ctx}, nil
}

// build constructs the iterator for n, seeded by the row in effect at
// this point in the tree (the enclosing Init row, or a left/right
// child's own seed for subtrees evaluated independently).
func (ex *Executor) build(n *plan.Node, seed tuple.Tuple) (TupleIterator, error) {
	if n == nil {
		return newInitIterator(seed), nil
	}
	switch n.Kind {
	case plan.NodeInit:
		return newInitIterator(seed), nil

	case plan.NodeStaticBindings:
		return newStaticBindingsIterator(n.Tuples), nil

	case plan.NodeQuadPatternJoin:
		child, err := ex.build(n.Child, seed)
		if err != nil {
			return nil, err
		}
		return newQuadPatternJoinIterator(ex.DS, n, child), nil

	case plan.NodeJoin:
		left, err := ex.build(n.Left, seed)
		if err != nil {
			return nil, err
		}
		right, err := ex.build(n.Right, seed)
		if err != nil {
			left.Close()
			return nil, err
		}
		return newJoinIterator(left, right)

	case plan.NodeLeftJoin:
		problemVars := bindVariablesInSet(seed, n.PossibleProblemVars)
		filteredSeed := seed.Unbind(problemVars)
		left, err := ex.build(n.Left, filteredSeed)
		if err != nil {
			return nil, err
		}
		rightNode := n.Right
		it := newLeftJoinIterator(left, func(lrow tuple.Tuple) (TupleIterator, error) {
			return ex.build(rightNode, lrow)
		})
		if len(problemVars) > 0 {
			return newBadLeftJoinIterator(it, seed, problemVars), nil
		}
		return it, nil

	case plan.NodeFilter:
		child, err := ex.build(n.Child, seed)
		if err != nil {
			return nil, err
		}
		return newFilterIterator(child, n.Expr, ex.Eval), nil

	case plan.NodeUnion:
		entry, err := ex.build(n.Entry, seed)
		if err != nil {
			return nil, err
		}
		children := n.Children
		return newUnionIterator(entry, children, func(child *plan.Node, row tuple.Tuple) (TupleIterator, error) {
			return ex.build(child, row)
		}), nil

	case plan.NodeExtend:
		child, err := ex.build(n.Child, seed)
		if err != nil {
			return nil, err
		}
		return newExtendIterator(child, n.Slot, n.Value, ex.Eval), nil

	case plan.NodeSort:
		child, err := ex.build(n.Child, seed)
		if err != nil {
			return nil, err
		}
		return newSortIterator(child, n.By, ex.Eval)

	case plan.NodeHashDeduplicate:
		child, err := ex.build(n.Child, seed)
		if err != nil {
			return nil, err
		}
		return newHashDeduplicateIterator(child), nil

	case plan.NodeSkip:
		child, err := ex.build(n.Child, seed)
		if err != nil {
			return nil, err
		}
		return newSkipIterator(child, n.N), nil

	case plan.NodeLimit:
		child, err := ex.build(n.Child, seed)
		if err != nil {
			return nil, err
		}
		return newLimitIterator(child, n.N), nil

	case plan.NodeProject:
		child, err := ex.build(n.Child, seed)
		if err != nil {
			return nil, err
		}
		return newProjectIterator(child, n.Mapping), nil

	default:
		return nil, fmt.Errorf("executor: unhandled plan node kind %v", n.Kind)
	}
}

// ctxGuardIterator stops iteration once ctx is done, checked at every
// row boundary rather than mid-row (§5).
type ctxGuardIterator struct {
	inner TupleIterator
	ctx   context.Context
	err   error
}

func (it *ctxGuardIterator) Next() bool {
	if err := it.ctx.Err(); err != nil {
		it.err = err
		return false
	}
	if it.inner.Next() {
		return true
	}
	it.err = it.inner.Err()
	return false
}

func (it *ctxGuardIterator) Tuple() tuple.Tuple { return it.inner.Tuple() }
func (it *ctxGuardIterator) Err() error         { return it.err }
func (it *ctxGuardIterator) Close() error       { return it.inner.Close() }
