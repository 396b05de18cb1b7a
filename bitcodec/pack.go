package bitcodec

import (
	"fmt"
	"math"

	"github.com/ska-spead/spead-go/errs"
	"github.com/ska-spead/spead-go/format"
)

// Pack encodes rows according to fmt, packing every component of every row
// back-to-back, MSB-first, with no padding between rows or components.
//
// A zero-width format (len(fmt) == 0) returns an empty, non-nil byte slice
// regardless of rows.
func Pack(f format.Format, rows []Row) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if len(f) == 0 {
		return []byte{}, nil
	}

	w := newWriter()
	for rowIdx, row := range rows {
		if len(row) != len(f) {
			return nil, fmt.Errorf("%w: row %d has %d values, format has %d components",
				errs.ErrRowArityMismatch, rowIdx, len(row), len(f))
		}

		for i, c := range f {
			if err := packComponent(w, c, row[i]); err != nil {
				return nil, fmt.Errorf("row %d, component %d: %w", rowIdx, i, err)
			}
		}
	}

	return w.bytes(), nil
}

func packComponent(w *writer, c format.FormatComponent, val any) error {
	switch c.Kind {
	case format.KindUnsigned:
		v, ok := toUint64(val)
		if !ok {
			return fmt.Errorf("%w: expected unsigned integer value, got %T", errs.ErrRowArityMismatch, val)
		}
		if c.BitWidth < 64 && v >= (uint64(1)<<uint(c.BitWidth)) {
			return fmt.Errorf("%w: value %d does not fit in %d unsigned bits", errs.ErrEncodingOverflow, v, c.BitWidth)
		}
		w.writeBits(v, c.BitWidth)

	case format.KindBit:
		v, ok := toUint64(val)
		if !ok || v > 1 {
			return fmt.Errorf("%w: bit value must be 0 or 1, got %v", errs.ErrEncodingOverflow, val)
		}
		w.writeBits(v, 1)

	case format.KindSigned:
		v, ok := toInt64(val)
		if !ok {
			return fmt.Errorf("%w: expected signed integer value, got %T", errs.ErrRowArityMismatch, val)
		}
		if c.BitWidth < 64 {
			lo := -(int64(1) << uint(c.BitWidth-1))
			hi := (int64(1) << uint(c.BitWidth-1)) - 1
			if v < lo || v > hi {
				return fmt.Errorf("%w: value %d does not fit in %d signed bits", errs.ErrEncodingOverflow, v, c.BitWidth)
			}
		}
		mask := uint64(math.MaxUint64)
		if c.BitWidth < 64 {
			mask = (uint64(1) << uint(c.BitWidth)) - 1
		}
		w.writeBits(uint64(v)&mask, c.BitWidth)

	case format.KindFloat:
		switch c.BitWidth {
		case 32:
			fv, ok := toFloat32(val)
			if !ok {
				return fmt.Errorf("%w: expected float32 value, got %T", errs.ErrRowArityMismatch, val)
			}
			w.writeBits(uint64(math.Float32bits(fv)), 32)
		case 64:
			fv, ok := toFloat64(val)
			if !ok {
				return fmt.Errorf("%w: expected float64 value, got %T", errs.ErrRowArityMismatch, val)
			}
			w.writeBits(math.Float64bits(fv), 64)
		}

	case format.KindChar:
		b, ok := val.([]byte)
		if !ok || len(b)*8 != c.BitWidth {
			return fmt.Errorf("%w: expected %d bytes, got %T", errs.ErrRowArityMismatch, c.BitWidth/8, val)
		}
		for _, by := range b {
			w.writeBits(uint64(by), 8)
		}

	default:
		return fmt.Errorf("%w: kind %v", errs.ErrFormatInvalid, c.Kind)
	}

	return nil
}

func toUint64(val any) (uint64, bool) {
	switch v := val.(type) {
	case uint64:
		return v, true
	case uint32:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

func toInt64(val any) (int64, bool) {
	switch v := val.(type) {
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int16:
		return int64(v), true
	case int8:
		return int64(v), true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

func toFloat32(val any) (float32, bool) {
	switch v := val.(type) {
	case float32:
		return v, true
	case float64:
		return float32(v), true
	default:
		return 0, false
	}
}

func toFloat64(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	default:
		return 0, false
	}
}
