package bitcodec

import (
	"fmt"
	"math"

	"github.com/ska-spead/spead-go/errs"
	"github.com/ska-spead/spead-go/format"
)

// Unpack decodes rows from data according to fmt, starting at bit
// startBitOffset (0-7) of byte 0.
//
// count is the number of rows to decode, or -1 to decode as many complete
// rows as fit in the remaining data ("dynamic" mode): decoding stops
// silently, without error, as soon as the next row would not fully fit.
//
// A zero-width format or count == 0 returns an empty, non-nil slice.
func Unpack(f format.Format, data []byte, count int, startBitOffset int) ([]Row, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if startBitOffset < 0 || startBitOffset >= 8 {
		return nil, fmt.Errorf("%w: start bit offset %d must be in [0,7]", errs.ErrCodecOutOfRange, startBitOffset)
	}

	if len(f) == 0 || count == 0 {
		return []Row{}, nil
	}

	r := newReader(data, startBitOffset)
	rowBits := f.NBits()

	if count < 0 {
		rows := make([]Row, 0)
		for r.remainingBits() >= rowBits {
			row, err := unpackRow(r, f)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}

		return rows, nil
	}

	if r.remainingBits() < rowBits*count {
		return nil, fmt.Errorf("%w: need %d bits for %d rows, only %d remain",
			errs.ErrCodecOutOfRange, rowBits*count, count, r.remainingBits())
	}

	rows := make([]Row, 0, count)
	for i := 0; i < count; i++ {
		row, err := unpackRow(r, f)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func unpackRow(r *reader, f format.Format) (Row, error) {
	row := make(Row, len(f))
	for i, c := range f {
		val, err := unpackComponent(r, c)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		row[i] = val
	}

	return row, nil
}

func unpackComponent(r *reader, c format.FormatComponent) (any, error) {
	switch c.Kind {
	case format.KindUnsigned:
		v, ok := r.readBits(c.BitWidth)
		if !ok {
			return nil, errs.ErrCodecOutOfRange
		}
		return v, nil

	case format.KindBit:
		v, ok := r.readBits(1)
		if !ok {
			return nil, errs.ErrCodecOutOfRange
		}
		return v, nil

	case format.KindSigned:
		v, ok := r.readBits(c.BitWidth)
		if !ok {
			return nil, errs.ErrCodecOutOfRange
		}
		return signExtend(v, c.BitWidth), nil

	case format.KindFloat:
		v, ok := r.readBits(c.BitWidth)
		if !ok {
			return nil, errs.ErrCodecOutOfRange
		}
		if c.BitWidth == 32 {
			return math.Float32frombits(uint32(v)), nil
		}
		return math.Float64frombits(v), nil

	case format.KindChar:
		n := c.BitWidth / 8
		b := make([]byte, n)
		for i := 0; i < n; i++ {
			v, ok := r.readBits(8)
			if !ok {
				return nil, errs.ErrCodecOutOfRange
			}
			b[i] = byte(v)
		}

		return b, nil

	default:
		return nil, fmt.Errorf("%w: kind %v", errs.ErrFormatInvalid, c.Kind)
	}
}

// signExtend interprets the low `width` bits of v as two's-complement and
// sign-extends to a full int64.
func signExtend(v uint64, width int) int64 {
	if width >= 64 {
		return int64(v)
	}

	signBit := uint64(1) << uint(width-1)
	if v&signBit != 0 {
		v |= ^uint64(0) << uint(width)
	}

	return int64(v)
}
