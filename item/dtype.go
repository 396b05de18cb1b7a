package item

import (
	"fmt"
	"strconv"

	"github.com/ska-spead/spead-go/endian"
	"github.com/ska-spead/spead-go/errs"
	"github.com/ska-spead/spead-go/format"
)

// dtypeInfo is a parsed numpy-style dtype string: an optional byte-order
// marker ('<' little, '>' big, '=' native), a kind char (i/u/f), and a
// byte width.
type dtypeInfo struct {
	engine    endian.EndianEngine
	kind      format.Kind
	byteWidth int
}

// parseDtype parses strings of the form "<i2", ">u4", "=f8", or "f8"
// (order defaults to native when omitted).
func parseDtype(s string) (dtypeInfo, error) {
	if len(s) < 2 {
		return dtypeInfo{}, fmt.Errorf("%w: dtype %q too short", errs.ErrDtypeInvalid, s)
	}

	order := byte('=')
	rest := s
	switch s[0] {
	case '<', '>', '=':
		order = s[0]
		rest = s[1:]
	}

	if len(rest) < 2 {
		return dtypeInfo{}, fmt.Errorf("%w: dtype %q missing kind/width", errs.ErrDtypeInvalid, s)
	}

	var kind format.Kind
	switch rest[0] {
	case 'i':
		kind = format.KindSigned
	case 'u':
		kind = format.KindUnsigned
	case 'f':
		kind = format.KindFloat
	default:
		return dtypeInfo{}, fmt.Errorf("%w: dtype %q unknown kind char %q", errs.ErrDtypeInvalid, s, rest[0])
	}

	width, err := strconv.Atoi(rest[1:])
	if err != nil || width <= 0 {
		return dtypeInfo{}, fmt.Errorf("%w: dtype %q has invalid byte width", errs.ErrDtypeInvalid, s)
	}

	var eng endian.EndianEngine
	switch order {
	case '<':
		eng = endian.GetLittleEndianEngine()
	case '>':
		eng = endian.GetBigEndianEngine()
	default:
		if endian.IsNativeLittleEndian() {
			eng = endian.GetLittleEndianEngine()
		} else {
			eng = endian.GetBigEndianEngine()
		}
	}

	return dtypeInfo{engine: eng, kind: kind, byteWidth: width}, nil
}

// byteSwap reinterprets data as a sequence of byteWidth-sized elements read
// in from's order and re-emitted in to's order.
func byteSwap(data []byte, byteWidth int, from, to endian.EndianEngine) ([]byte, error) {
	if byteWidth <= 0 || len(data)%byteWidth != 0 {
		return nil, fmt.Errorf("%w: dense value length %d not a multiple of width %d", errs.ErrValueMismatch, len(data), byteWidth)
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i += byteWidth {
		elem := data[i : i+byteWidth]

		switch byteWidth {
		case 1:
			out = append(out, elem[0])
		case 2:
			out = to.AppendUint16(out, from.Uint16(elem))
		case 4:
			out = to.AppendUint32(out, from.Uint32(elem))
		case 8:
			out = to.AppendUint64(out, from.Uint64(elem))
		default:
			return nil, fmt.Errorf("%w: unsupported dtype width %d", errs.ErrDtypeInvalid, byteWidth)
		}
	}

	return out, nil
}

// encodeDense byte-swaps raw, held in dtype's declared native order, into
// the wire's fixed big-endian order.
func encodeDense(dtype string, raw []byte) ([]byte, error) {
	info, err := parseDtype(dtype)
	if err != nil {
		return nil, err
	}

	return byteSwap(raw, info.byteWidth, info.engine, endian.GetBigEndianEngine())
}

// decodeDense byte-swaps wire bytes (big-endian) back into dtype's declared
// native order.
func decodeDense(dtype string, data []byte) ([]byte, error) {
	info, err := parseDtype(dtype)
	if err != nil {
		return nil, err
	}

	return byteSwap(data, info.byteWidth, endian.GetBigEndianEngine(), info.engine)
}
