package eval

import (
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/wbrown/janus-sparql/plan"
	"github.com/wbrown/janus-sparql/term"
	"github.com/wbrown/janus-sparql/tuple"
)

// evalArithmetic implements Add/Sub/Mul/Div (§4.5): both operands are
// promoted to a common numeric family and the operation carried out
// there. Division by zero is an Inf/NaN in Float/Double (IEEE 754) and
// a SPARQL type error in Integer/Decimal.
func (ev *Evaluator) evalArithmetic(expr *plan.Expression, row tuple.Tuple) (term.Encoded, bool, error) {
	a, ok, err := ev.Eval(expr.Left, row)
	if err != nil || !ok || !a.IsNumeric() {
		return term.Encoded{}, false, err
	}
	b, ok, err := ev.Eval(expr.Right, row)
	if err != nil || !ok || !b.IsNumeric() {
		return term.Encoded{}, false, err
	}
	fa, _ := a.Family()
	fb, _ := b.Family()
	switch term.Promote(fa, fb) {
	case term.FamilyFloat:
		x, _ := a.AsFloat64()
		y, _ := b.AsFloat64()
		r, ok := applyFloat(expr.Op, x, y)
		if !ok {
			return term.Encoded{}, false, nil
		}
		return term.Float(float32(r)), true, nil
	case term.FamilyDouble:
		x, _ := a.AsFloat64()
		y, _ := b.AsFloat64()
		r, ok := applyFloat(expr.Op, x, y)
		if !ok {
			return term.Encoded{}, false, nil
		}
		return term.Double(r), true, nil
	case term.FamilyDecimal:
		x, _ := a.AsDecimal()
		y, _ := b.AsDecimal()
		r, ok := applyDecimal(expr.Op, x, y)
		if !ok {
			return term.Encoded{}, false, nil
		}
		return term.Decimal(r), true, nil
	default: // FamilyInteger
		x, _ := a.AsBigInt()
		y, _ := b.AsBigInt()
		r, ok := applyBigInt(expr.Op, x, y)
		if !ok {
			return term.Encoded{}, false, nil
		}
		return term.Integer(r), true, nil
	}
}

func applyFloat(op plan.ExprOp, x, y float64) (float64, bool) {
	switch op {
	case plan.OpAdd:
		return x + y, true
	case plan.OpSub:
		return x - y, true
	case plan.OpMul:
		return x * y, true
	case plan.OpDiv:
		return x / y, true
	default:
		return 0, false
	}
}

func applyDecimal(op plan.ExprOp, x, y decimal.Decimal) (decimal.Decimal, bool) {
	switch op {
	case plan.OpAdd:
		return x.Add(y), true
	case plan.OpSub:
		return x.Sub(y), true
	case plan.OpMul:
		return x.Mul(y), true
	case plan.OpDiv:
		if y.IsZero() {
			return decimal.Decimal{}, false
		}
		return x.DivRound(y, 18), true
	default:
		return decimal.Decimal{}, false
	}
}

func applyBigInt(op plan.ExprOp, x, y *big.Int) (*big.Int, bool) {
	if x == nil || y == nil {
		return nil, false
	}
	r := new(big.Int)
	switch op {
	case plan.OpAdd:
		return r.Add(x, y), true
	case plan.OpSub:
		return r.Sub(x, y), true
	case plan.OpMul:
		return r.Mul(x, y), true
	case plan.OpDiv:
		if y.Sign() == 0 {
			return nil, false
		}
		return r.Quo(x, y), true
	default:
		return nil, false
	}
}

// evalUnaryMinus implements unary minus, preserving the operand's
// numeric family.
func (ev *Evaluator) evalUnaryMinus(expr *plan.Expression, row tuple.Tuple) (term.Encoded, bool, error) {
	v, ok, err := ev.Eval(expr.Operand, row)
	if err != nil || !ok || !v.IsNumeric() {
		return term.Encoded{}, false, err
	}
	switch v.Kind {
	case term.KindFloat:
		return term.Float(-v.F32), true, nil
	case term.KindDouble:
		return term.Double(-v.F64), true, nil
	case term.KindInteger:
		if v.Int == nil {
			return term.Encoded{}, false, nil
		}
		return term.Integer(new(big.Int).Neg(v.Int)), true, nil
	case term.KindDecimal:
		return term.Decimal(v.Dec.Neg()), true, nil
	default:
		return term.Encoded{}, false, nil
	}
}
