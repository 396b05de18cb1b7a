package compress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-spead/spead-go/compress"
	"github.com/ska-spead/spead-go/format"
)

func roundTrip(t *testing.T, codec compress.Codec, data []byte) {
	t.Helper()

	compressed, err := codec.Compress(data)
	require.NoError(t, err)

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)

	assert.Equal(t, data, decompressed)
}

func TestCodecsRoundTrip(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog, repeatedly, repeatedly, repeatedly")

	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := compress.CreateCodec(ct, "test")
			require.NoError(t, err)
			roundTrip(t, codec, payload)
		})
	}
}

func TestCreateCodecRejectsUnknownType(t *testing.T) {
	_, err := compress.CreateCodec(format.CompressionType(99), "test")
	assert.Error(t, err)
}

func TestGetCodecReturnsSharedInstance(t *testing.T) {
	a, err := compress.GetCodec(format.CompressionZstd)
	require.NoError(t, err)
	b, err := compress.GetCodec(format.CompressionZstd)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNoOpCompressorIsIdentity(t *testing.T) {
	codec := compress.NewNoOpCompressor()
	data := []byte{1, 2, 3}

	compressed, err := codec.Compress(data)
	require.NoError(t, err)
	assert.Equal(t, data, compressed)

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, decompressed)
}
