package eval

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wbrown/janus-sparql/plan"
	"github.com/wbrown/janus-sparql/term"
	"github.com/wbrown/janus-sparql/tuple"
)

// evalCast implements the seven XPath-style constructor casts (§4.4).
// Each accepts its own type (identity), the other numeric/boolean types
// (converting), and string-typed literals (parsing the lexical form);
// anything else, or a lexical form that fails to parse, is a SPARQL
// type error (ok=false), never an infrastructural error.
func (ev *Evaluator) evalCast(expr *plan.Expression, row tuple.Tuple) (term.Encoded, bool, error) {
	v, ok, err := ev.Eval(expr.Operand, row)
	if err != nil || !ok {
		return term.Encoded{}, ok, err
	}
	switch expr.Op {
	case plan.OpBooleanCast:
		return ev.castBoolean(v)
	case plan.OpDoubleCast:
		return ev.castDouble(v)
	case plan.OpFloatCast:
		return ev.castFloat(v)
	case plan.OpIntegerCast:
		return ev.castInteger(v)
	case plan.OpDecimalCast:
		return ev.castDecimal(v)
	case plan.OpDateTimeCast:
		return ev.castDateTime(v)
	case plan.OpStringCast:
		return ev.castString(v)
	default:
		return term.Encoded{}, false, nil
	}
}

func (ev *Evaluator) literalText(v term.Encoded) (string, bool, error) {
	if !isStringTyped(v) {
		return "", false, nil
	}
	s, err := ev.lexicalText(v)
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

func (ev *Evaluator) castBoolean(v term.Encoded) (term.Encoded, bool, error) {
	switch v.Kind {
	case term.KindBoolean:
		return v, true, nil
	case term.KindFloat:
		return term.Boolean(v.F32 != 0), true, nil
	case term.KindDouble:
		return term.Boolean(v.F64 != 0), true, nil
	case term.KindInteger:
		if v.Int == nil {
			return term.Encoded{}, false, nil
		}
		return term.Boolean(v.Int.Sign() != 0), true, nil
	case term.KindDecimal:
		return term.Boolean(!v.Dec.IsZero()), true, nil
	}
	s, ok, err := ev.literalText(v)
	if err != nil || !ok {
		return term.Encoded{}, ok, err
	}
	switch strings.TrimSpace(s) {
	case "true", "1":
		return term.Boolean(true), true, nil
	case "false", "0":
		return term.Boolean(false), true, nil
	default:
		return term.Encoded{}, false, nil
	}
}

func (ev *Evaluator) castDouble(v term.Encoded) (term.Encoded, bool, error) {
	if v.Kind == term.KindBoolean {
		if v.Bool {
			return term.Double(1), true, nil
		}
		return term.Double(0), true, nil
	}
	if v.IsNumeric() {
		f, ok := v.AsFloat64()
		if !ok {
			return term.Encoded{}, false, nil
		}
		return term.Double(f), true, nil
	}
	s, ok, err := ev.literalText(v)
	if err != nil || !ok {
		return term.Encoded{}, ok, err
	}
	f, parseErr := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if parseErr != nil {
		return term.Encoded{}, false, nil
	}
	return term.Double(f), true, nil
}

func (ev *Evaluator) castFloat(v term.Encoded) (term.Encoded, bool, error) {
	d, ok, err := ev.castDouble(v)
	if err != nil || !ok {
		return term.Encoded{}, ok, err
	}
	return term.Float(float32(d.F64)), true, nil
}

func (ev *Evaluator) castInteger(v term.Encoded) (term.Encoded, bool, error) {
	if v.Kind == term.KindBoolean {
		if v.Bool {
			return term.IntegerFromInt64(1), true, nil
		}
		return term.IntegerFromInt64(0), true, nil
	}
	switch v.Kind {
	case term.KindInteger:
		return v, true, nil
	case term.KindFloat:
		return term.Integer(truncToBigInt(float64(v.F32))), true, nil
	case term.KindDouble:
		return term.Integer(truncToBigInt(v.F64)), true, nil
	case term.KindDecimal:
		return term.Integer(v.Dec.Truncate(0).BigInt()), true, nil
	}
	s, ok, err := ev.literalText(v)
	if err != nil || !ok {
		return term.Encoded{}, ok, err
	}
	i, parsed := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !parsed {
		return term.Encoded{}, false, nil
	}
	return term.Integer(i), true, nil
}

func truncToBigInt(f float64) *big.Int {
	bf := new(big.Float).SetFloat64(f)
	i, _ := bf.Int(nil)
	return i
}

func (ev *Evaluator) castDecimal(v term.Encoded) (term.Encoded, bool, error) {
	if v.Kind == term.KindBoolean {
		if v.Bool {
			return term.Decimal(decimal.NewFromInt(1)), true, nil
		}
		return term.Decimal(decimal.NewFromInt(0)), true, nil
	}
	if v.IsNumeric() {
		d, ok := v.AsDecimal()
		if !ok {
			return term.Encoded{}, false, nil
		}
		return term.Decimal(d), true, nil
	}
	s, ok, err := ev.literalText(v)
	if err != nil || !ok {
		return term.Encoded{}, ok, err
	}
	d, parseErr := decimal.NewFromString(strings.TrimSpace(s))
	if parseErr != nil {
		return term.Encoded{}, false, nil
	}
	return term.Decimal(d), true, nil
}

func (ev *Evaluator) castDateTime(v term.Encoded) (term.Encoded, bool, error) {
	switch v.Kind {
	case term.KindDateTime, term.KindNaiveDateTime:
		return v, true, nil
	}
	s, ok, err := ev.literalText(v)
	if err != nil || !ok {
		return term.Encoded{}, ok, err
	}
	s = strings.TrimSpace(s)
	if t, parseErr := time.Parse(time.RFC3339Nano, s); parseErr == nil {
		return term.DateTime(t), true, nil
	}
	if t, parseErr := time.Parse(term.NaiveDateTimeLayout, s); parseErr == nil {
		return term.NaiveDateTime(t), true, nil
	}
	return term.Encoded{}, false, nil
}

func (ev *Evaluator) castString(v term.Encoded) (term.Encoded, bool, error) {
	if !v.IsLiteral() && !v.IsNamedNode() {
		return term.Encoded{}, false, nil
	}
	lex, err := v.CanonicalLexical(ev.Dict)
	if err != nil {
		return term.Encoded{}, false, fmt.Errorf("string cast: %w", err)
	}
	id, err := ev.Dict.InsertStr(lex)
	if err != nil {
		return term.Encoded{}, false, err
	}
	return term.StringLiteral(id), true, nil
}
