// Package compress provides optional compression codecs for byte chunks.
//
// SPEAD itself carries no compression field, and neither the transmitter
// nor the heap multiplexer applies these codecs: packets on the wire are
// never compressed. Package transport uses them for its compressed capture
// files (NewCompressedFileSink/NewCompressedFileSource), which store
// length-prefixed compressed batches of packet bytes. None is the default.
//
// # Algorithms
//
//   - None: no-op, the bytes pass through unchanged
//   - Zstd: best ratio, moderate speed, via github.com/valyala/gozstd (cgo)
//     or github.com/klauspost/compress/zstd (pure Go) depending on build tags
//   - S2: fast with decent ratio, via github.com/klauspost/compress/s2
//   - LZ4: fastest decompression, via github.com/pierrec/lz4/v4
//
// GetCodec and CreateCodec select an implementation by format.CompressionType.
package compress
