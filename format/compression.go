package format

// CompressionType identifies a codec of package compress. This sits outside
// the SPEAD wire format itself (the protocol has no compression field):
// package transport applies it only to the chunks of its compressed capture
// files, never to packets on the wire.
type CompressionType uint8

const (
	CompressionNone CompressionType = iota
	CompressionZstd
	CompressionS2
	CompressionLZ4
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionS2:
		return "s2"
	case CompressionLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}
