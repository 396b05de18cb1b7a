package bitcodec

// Row is one packed tuple of values, one per component of a format.Format.
// The concrete type of each element depends on its component's Kind:
//
//	format.KindSigned   -> int64
//	format.KindUnsigned -> uint64
//	format.KindFloat    -> float32 (width 32) or float64 (width 64)
//	format.KindChar     -> []byte, length BitWidth/8
//	format.KindBit      -> uint64, 0 or 1
type Row []any
