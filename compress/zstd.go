package compress

// ZstdCompressor compresses blobs with Zstandard: the best compression
// ratio of the built-in codecs, at moderate speed. Two build-tagged
// implementations exist — zstd_cgo.go wraps github.com/valyala/gozstd when
// cgo is available, zstd_pure.go falls back to
// github.com/klauspost/compress/zstd otherwise. Only one is compiled into
// any given binary.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor returns a ZstdCompressor.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
