package descriptor

import (
	"encoding/binary"
	"fmt"

	"github.com/ska-spead/spead-go/errs"
	"github.com/ska-spead/spead-go/format"
)

// Shape tag values, one per (tag, dimension) entry of the encoded shape.
const (
	shapeTagFixed    = 0
	shapeTagVariable = 1 // accept-only: a rank-fixed, extent-unknown dimension
	shapeTagDynamic  = 2
)

const shapeEntrySize = 5 // 1 byte tag + 4 byte big-endian dimension

// encodeShape packs a format.Shape as a sequence of (tag, dimension) pairs:
// tag 0 plus the dimension for each fixed dimension, or a single tag-2 entry
// for the DYNAMIC sentinel. The encoder never emits tag 1; it is accepted
// only on decode for interoperability with legacy senders.
func encodeShape(s format.Shape) []byte {
	if s.Kind == format.ShapeDynamic {
		b := make([]byte, shapeEntrySize)
		b[0] = shapeTagDynamic
		return b
	}

	b := make([]byte, 0, len(s.Dims)*shapeEntrySize)
	for _, d := range s.Dims {
		entry := make([]byte, shapeEntrySize)
		entry[0] = shapeTagFixed
		binary.BigEndian.PutUint32(entry[1:], uint32(d))
		b = append(b, entry...)
	}

	return b
}

// decodeShape is the inverse of encodeShape.
func decodeShape(b []byte) (format.Shape, error) {
	if len(b)%shapeEntrySize != 0 {
		return format.Shape{}, fmt.Errorf("%w: shape blob length %d not a multiple of %d", errs.ErrShapeInvalid, len(b), shapeEntrySize)
	}

	n := len(b) / shapeEntrySize
	dims := make([]int, 0, n)

	for i := 0; i < n; i++ {
		entry := b[i*shapeEntrySize : (i+1)*shapeEntrySize]
		tag := entry[0]
		dim := int(binary.BigEndian.Uint32(entry[1:]))

		switch tag {
		case shapeTagDynamic:
			if n != 1 {
				return format.Shape{}, fmt.Errorf("%w: DYNAMIC tag must be the only shape entry", errs.ErrShapeInvalid)
			}
			return format.DynamicShape(), nil
		case shapeTagVariable:
			dims = append(dims, -1)
		case shapeTagFixed:
			dims = append(dims, dim)
		default:
			return format.Shape{}, fmt.Errorf("%w: unknown shape tag %d", errs.ErrShapeInvalid, tag)
		}
	}

	return format.Shape{Kind: format.ShapeFixed, Dims: dims}, nil
}
