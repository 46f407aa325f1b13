package term

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// NumFamily is one of the four numeric families the evaluator promotes
// across when doing arithmetic or ordering comparisons.
type NumFamily int

const (
	FamilyFloat NumFamily = iota
	FamilyDouble
	FamilyInteger
	FamilyDecimal
)

// Family reports the numeric family of a literal, or ok=false if the term
// is not numeric at all.
func (e Encoded) Family() (NumFamily, bool) {
	switch e.Kind {
	case KindFloat:
		return FamilyFloat, true
	case KindDouble:
		return FamilyDouble, true
	case KindInteger:
		return FamilyInteger, true
	case KindDecimal:
		return FamilyDecimal, true
	default:
		return 0, false
	}
}

// Promote implements the §4.5 numeric promotion table: given the families
// of the left and right operand, returns the family the operation should
// be carried out in.
func Promote(left, right NumFamily) NumFamily {
	switch left {
	case FamilyFloat:
		switch right {
		case FamilyDouble:
			return FamilyDouble
		default:
			return FamilyFloat
		}
	case FamilyDouble:
		return FamilyDouble
	case FamilyInteger:
		switch right {
		case FamilyFloat:
			return FamilyFloat
		case FamilyDouble:
			return FamilyDouble
		case FamilyDecimal:
			return FamilyDecimal
		default:
			return FamilyInteger
		}
	case FamilyDecimal:
		switch right {
		case FamilyFloat:
			return FamilyFloat
		case FamilyDouble:
			return FamilyDouble
		default:
			return FamilyDecimal
		}
	}
	return left
}

// AsFloat64 widens any numeric literal to float64, for comparison and for
// promotion into the Float/Double families.
func (e Encoded) AsFloat64() (float64, bool) {
	switch e.Kind {
	case KindFloat:
		return float64(e.F32), true
	case KindDouble:
		return e.F64, true
	case KindInteger:
		if e.Int == nil {
			return 0, false
		}
		f := new(big.Float).SetInt(e.Int)
		v, _ := f.Float64()
		return v, true
	case KindDecimal:
		v, _ := e.Dec.Float64()
		return v, true
	default:
		return 0, false
	}
}

// AsDecimal widens any numeric literal to decimal.Decimal, for promotion
// into the Decimal family.
func (e Encoded) AsDecimal() (decimal.Decimal, bool) {
	switch e.Kind {
	case KindDecimal:
		return e.Dec, true
	case KindInteger:
		if e.Int == nil {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromBigInt(e.Int, 0), true
	case KindFloat:
		return decimal.NewFromFloat32(e.F32), true
	case KindDouble:
		return decimal.NewFromFloat(e.F64), true
	default:
		return decimal.Decimal{}, false
	}
}

// AsBigInt widens an Integer literal to *big.Int; only valid when the
// family is already Integer (the promotion table never needs to narrow
// into Integer from another family).
func (e Encoded) AsBigInt() (*big.Int, bool) {
	if e.Kind != KindInteger || e.Int == nil {
		return nil, false
	}
	return e.Int, true
}

// CompareNumeric orders two numeric literals after promoting to their
// common family. Returns -1/0/1, or ok=false if either side is not
// numeric.
func CompareNumeric(a, b Encoded) (int, bool) {
	fa, ok := a.Family()
	if !ok {
		return 0, false
	}
	fb, ok := b.Family()
	if !ok {
		return 0, false
	}
	switch Promote(fa, fb) {
	case FamilyDecimal:
		da, _ := a.AsDecimal()
		db, _ := b.AsDecimal()
		return da.Cmp(db), true
	case FamilyInteger:
		ia, _ := a.AsBigInt()
		ib, _ := b.AsBigInt()
		return ia.Cmp(ib), true
	default:
		fva, _ := a.AsFloat64()
		fvb, _ := b.AsFloat64()
		switch {
		case fva < fvb:
			return -1, true
		case fva > fvb:
			return 1, true
		default:
			return 0, true
		}
	}
}
