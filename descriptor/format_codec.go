package descriptor

import (
	"fmt"

	"github.com/ska-spead/spead-go/errs"
	"github.com/ska-spead/spead-go/format"
)

const formatEntrySize = 4 // 1 byte kind char + 3 byte big-endian bit width

// encodeFormat packs each (kind, bit_width) component as (char:8, uint:24).
func encodeFormat(f format.Format) []byte {
	b := make([]byte, 0, len(f)*formatEntrySize)
	for _, c := range f {
		entry := make([]byte, formatEntrySize)
		entry[0] = c.Kind.String()[0]
		putUint24(entry[1:], uint32(c.BitWidth))
		b = append(b, entry...)
	}

	return b
}

// decodeFormat is the inverse of encodeFormat.
func decodeFormat(b []byte) (format.Format, error) {
	if len(b)%formatEntrySize != 0 {
		return nil, fmt.Errorf("%w: format blob length %d not a multiple of %d", errs.ErrDtypeInvalid, len(b), formatEntrySize)
	}

	n := len(b) / formatEntrySize
	out := make(format.Format, n)

	for i := 0; i < n; i++ {
		entry := b[i*formatEntrySize : (i+1)*formatEntrySize]

		kind, err := kindFromChar(entry[0])
		if err != nil {
			return nil, err
		}

		out[i] = format.FormatComponent{Kind: kind, BitWidth: int(getUint24(entry[1:]))}
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}

	return out, nil
}

func kindFromChar(c byte) (format.Kind, error) {
	switch c {
	case 'i':
		return format.KindSigned, nil
	case 'u':
		return format.KindUnsigned, nil
	case 'f':
		return format.KindFloat, nil
	case 'c':
		return format.KindChar, nil
	case 'b':
		return format.KindBit, nil
	default:
		return 0, fmt.Errorf("%w: unknown format kind char %q", errs.ErrDtypeInvalid, c)
	}
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func getUint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}
