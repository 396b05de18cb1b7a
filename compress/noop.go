package compress

// NoOpCompressor passes blobs through unchanged. It is the default codec and
// matches what a plain SPEAD sender/receiver does with no compression
// negotiated out of band.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor returns a NoOpCompressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data unmodified.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unmodified.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
