package term

import (
	"encoding/binary"
	"math"
)

// AppendHashBytes writes a canonical byte encoding of e onto dst and
// returns the extended slice. Two Equal terms always produce identical
// bytes; this is what backs xxh3-based tuple hashing in package tuple.
func (e Encoded) AppendHashBytes(dst []byte) []byte {
	dst = append(dst, byte(e.Kind))
	switch e.Kind {
	case KindDefaultGraph:
		return dst
	case KindNamedNode, KindSimpleLiteral, KindStringLiteral:
		return appendUint64(dst, e.ID)
	case KindBlankNode:
		return appendUint64(dst, e.Blank)
	case KindLangStringLiteral:
		dst = appendUint64(dst, e.ID)
		return appendUint64(dst, e.Lang)
	case KindTypedLiteral:
		dst = appendUint64(dst, e.ID)
		return appendUint64(dst, e.Datatype)
	case KindBoolean:
		if e.Bool {
			return append(dst, 1)
		}
		return append(dst, 0)
	case KindFloat:
		return appendUint32(dst, math.Float32bits(e.F32))
	case KindDouble:
		return appendUint64(dst, math.Float64bits(e.F64))
	case KindInteger:
		if e.Int == nil {
			return dst
		}
		return append(dst, e.Int.Bytes()...)
	case KindDecimal:
		return append(dst, []byte(e.Dec.String())...)
	case KindDateTime, KindNaiveDateTime:
		return appendUint64(dst, uint64(e.Time.UnixNano()))
	default:
		return dst
	}
}

func appendUint64(dst []byte, v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return append(dst, buf[:]...)
}

func appendUint32(dst []byte, v uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return append(dst, buf[:]...)
}
