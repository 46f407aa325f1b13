package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wbrown/janus-sparql/term"
)

// encodeTerm writes a full-fidelity, round-trippable serialization of e.
// Unlike term.Encoded.AppendHashBytes (which is hash-only and throws away
// information such as big.Int sign), this is what the store persists as
// the value half of an index entry.
func encodeTerm(buf *bytes.Buffer, e term.Encoded) error {
	buf.WriteByte(byte(e.Kind))
	switch e.Kind {
	case term.KindDefaultGraph:
		return nil
	case term.KindNamedNode, term.KindSimpleLiteral, term.KindStringLiteral:
		writeUvarint(buf, e.ID)
	case term.KindBlankNode:
		writeUvarint(buf, e.Blank)
	case term.KindLangStringLiteral:
		writeUvarint(buf, e.ID)
		writeUvarint(buf, e.Lang)
	case term.KindTypedLiteral:
		writeUvarint(buf, e.ID)
		writeUvarint(buf, e.Datatype)
	case term.KindBoolean:
		if e.Bool {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case term.KindFloat:
		var tmp [4]byte
		binary.BigEndian.PutUint32(tmp[:], math.Float32bits(e.F32))
		buf.Write(tmp[:])
	case term.KindDouble:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], math.Float64bits(e.F64))
		buf.Write(tmp[:])
	case term.KindInteger:
		if e.Int == nil {
			return fmt.Errorf("encode integer term: nil big.Int")
		}
		sign := byte(0)
		if e.Int.Sign() < 0 {
			sign = 1
		}
		buf.WriteByte(sign)
		mag := new(big.Int).Abs(e.Int).Bytes()
		writeUvarint(buf, uint64(len(mag)))
		buf.Write(mag)
	case term.KindDecimal:
		s := e.Dec.String()
		writeUvarint(buf, uint64(len(s)))
		buf.WriteString(s)
	case term.KindDateTime, term.KindNaiveDateTime:
		b, err := e.Time.MarshalBinary()
		if err != nil {
			return fmt.Errorf("encode time term: %w", err)
		}
		writeUvarint(buf, uint64(len(b)))
		buf.Write(b)
	default:
		return fmt.Errorf("encode term: unknown kind %v", e.Kind)
	}
	return nil
}

func decodeTerm(r *bytes.Reader) (term.Encoded, error) {
	kindByte, err := r.ReadByte()
	if err != nil {
		return term.Encoded{}, fmt.Errorf("decode term kind: %w", err)
	}
	kind := term.Kind(kindByte)
	switch kind {
	case term.KindDefaultGraph:
		return term.DefaultGraph, nil
	case term.KindNamedNode:
		id, err := readUvarint(r)
		return term.NamedNode(id), err
	case term.KindSimpleLiteral:
		id, err := readUvarint(r)
		return term.SimpleLiteral(id), err
	case term.KindStringLiteral:
		id, err := readUvarint(r)
		return term.StringLiteral(id), err
	case term.KindBlankNode:
		id, err := readUvarint(r)
		return term.BlankNode(id), err
	case term.KindLangStringLiteral:
		id, err := readUvarint(r)
		if err != nil {
			return term.Encoded{}, err
		}
		lang, err := readUvarint(r)
		return term.LangStringLiteral(id, lang), err
	case term.KindTypedLiteral:
		id, err := readUvarint(r)
		if err != nil {
			return term.Encoded{}, err
		}
		dt, err := readUvarint(r)
		return term.TypedLiteral(id, dt), err
	case term.KindBoolean:
		b, err := r.ReadByte()
		return term.Boolean(b != 0), err
	case term.KindFloat:
		var tmp [4]byte
		if _, err := r.Read(tmp[:]); err != nil {
			return term.Encoded{}, fmt.Errorf("decode float term: %w", err)
		}
		return term.Float(math.Float32frombits(binary.BigEndian.Uint32(tmp[:]))), nil
	case term.KindDouble:
		var tmp [8]byte
		if _, err := r.Read(tmp[:]); err != nil {
			return term.Encoded{}, fmt.Errorf("decode double term: %w", err)
		}
		return term.Double(math.Float64frombits(binary.BigEndian.Uint64(tmp[:]))), nil
	case term.KindInteger:
		sign, err := r.ReadByte()
		if err != nil {
			return term.Encoded{}, err
		}
		n, err := readUvarint(r)
		if err != nil {
			return term.Encoded{}, err
		}
		mag := make([]byte, n)
		if _, err := r.Read(mag); err != nil {
			return term.Encoded{}, fmt.Errorf("decode integer term: %w", err)
		}
		v := new(big.Int).SetBytes(mag)
		if sign == 1 {
			v.Neg(v)
		}
		return term.Integer(v), nil
	case term.KindDecimal:
		n, err := readUvarint(r)
		if err != nil {
			return term.Encoded{}, err
		}
		raw := make([]byte, n)
		if _, err := r.Read(raw); err != nil {
			return term.Encoded{}, fmt.Errorf("decode decimal term: %w", err)
		}
		d, err := decimal.NewFromString(string(raw))
		if err != nil {
			return term.Encoded{}, fmt.Errorf("decode decimal term: %w", err)
		}
		return term.Decimal(d), nil
	case term.KindDateTime, term.KindNaiveDateTime:
		n, err := readUvarint(r)
		if err != nil {
			return term.Encoded{}, err
		}
		raw := make([]byte, n)
		if _, err := r.Read(raw); err != nil {
			return term.Encoded{}, fmt.Errorf("decode time term: %w", err)
		}
		var t time.Time
		if err := t.UnmarshalBinary(raw); err != nil {
			return term.Encoded{}, fmt.Errorf("decode time term: %w", err)
		}
		if kind == term.KindDateTime {
			return term.DateTime(t), nil
		}
		return term.NaiveDateTime(t), nil
	default:
		return term.Encoded{}, fmt.Errorf("decode term: unknown kind %d", kindByte)
	}
}

func encodeQuad(q term.Quad) ([]byte, error) {
	var buf bytes.Buffer
	for _, t := range []term.Encoded{q.Subject, q.Predicate, q.Object, q.GraphName} {
		if err := encodeTerm(&buf, t); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func decodeQuad(b []byte) (term.Quad, error) {
	r := bytes.NewReader(b)
	s, err := decodeTerm(r)
	if err != nil {
		return term.Quad{}, fmt.Errorf("decode quad subject: %w", err)
	}
	p, err := decodeTerm(r)
	if err != nil {
		return term.Quad{}, fmt.Errorf("decode quad predicate: %w", err)
	}
	o, err := decodeTerm(r)
	if err != nil {
		return term.Quad{}, fmt.Errorf("decode quad object: %w", err)
	}
	g, err := decodeTerm(r)
	if err != nil {
		return term.Quad{}, fmt.Errorf("decode quad graph: %w", err)
	}
	return term.Quad{Subject: s, Predicate: p, Object: o, GraphName: g}, nil
}

func writeUvarint(buf *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	buf.Write(tmp[:n])
}

func readUvarint(r *bytes.Reader) (uint64, error) {
	v, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, fmt.Errorf("read uvarint: %w", err)
	}
	return v, nil
}
