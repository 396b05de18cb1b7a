package transport_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-spead/spead-go/errs"
	"github.com/ska-spead/spead-go/format"
	"github.com/ska-spead/spead-go/transport"
	"github.com/ska-spead/spead-go/wire"
)

func buildPacket(t *testing.T, cfg wire.Config, heapCnt uint64) []byte {
	t.Helper()

	items := []wire.ItemEntry{
		{ID: wire.IDHeapCnt, Value: heapCnt},
		{ID: wire.IDPayloadLen, Value: 0},
		{ID: wire.IDPayloadOff, Value: 0},
	}

	b, err := wire.PackPacket(cfg, items, nil)
	require.NoError(t, err)

	return b
}

func TestByteSinkSourceRoundTrip(t *testing.T) {
	cfg := wire.DefaultConfig()

	sink := transport.NewByteSink()
	require.NoError(t, sink.Write(buildPacket(t, cfg, 1)))
	require.NoError(t, sink.Write(buildPacket(t, cfg, 2)))

	src := transport.NewByteSource(cfg, sink.Bytes(), false)

	var heapCnts []uint64
	for {
		raw, err := src.Next(context.Background())
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		p, _, err := wire.UnpackPacket(raw, cfg)
		require.NoError(t, err)

		hc, _ := p.Find(wire.IDHeapCnt)
		heapCnts = append(heapCnts, hc.Value)
	}

	assert.Equal(t, []uint64{1, 2}, heapCnts)
}

func TestByteSourceAllowJunkSkipsGarbage(t *testing.T) {
	cfg := wire.DefaultConfig()

	var buf []byte
	buf = append(buf, []byte{0xDE, 0xAD, 0xBE, 0xEF}...)
	buf = append(buf, buildPacket(t, cfg, 7)...)

	src := transport.NewByteSource(cfg, buf, true)

	raw, err := src.Next(context.Background())
	require.NoError(t, err)

	p, _, err := wire.UnpackPacket(raw, cfg)
	require.NoError(t, err)
	hc, _ := p.Find(wire.IDHeapCnt)
	assert.Equal(t, uint64(7), hc.Value)
}

func TestByteSourceRejectsGarbageWithoutAllowJunk(t *testing.T) {
	cfg := wire.DefaultConfig()
	src := transport.NewByteSource(cfg, []byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0, 0, 0}, false)

	_, err := src.Next(context.Background())
	assert.Error(t, err)
}

func TestFileSinkSourceRoundTrip(t *testing.T) {
	cfg := wire.DefaultConfig()

	var out bytes.Buffer
	sink := transport.NewFileSink(&out)
	require.NoError(t, sink.Write(buildPacket(t, cfg, 11)))
	require.NoError(t, sink.Write(buildPacket(t, cfg, 12)))
	require.NoError(t, sink.Close())

	src := transport.NewFileSource(cfg, bytes.NewReader(out.Bytes()), 16, false)

	var heapCnts []uint64
	for {
		raw, err := src.Next(context.Background())
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		p, _, err := wire.UnpackPacket(raw, cfg)
		require.NoError(t, err)
		hc, _ := p.Find(wire.IDHeapCnt)
		heapCnts = append(heapCnts, hc.Value)
	}

	assert.Equal(t, []uint64{11, 12}, heapCnts)
}

func TestFileSinkRejectsWriteAfterClose(t *testing.T) {
	var out bytes.Buffer
	sink := transport.NewFileSink(&out)
	require.NoError(t, sink.Close())

	err := sink.Write([]byte{1, 2, 3})
	assert.ErrorIs(t, err, errs.ErrTransportClosed)
}

func TestByteSinkRejectsWriteAfterClose(t *testing.T) {
	sink := transport.NewByteSink()
	require.NoError(t, sink.Close())

	err := sink.Write([]byte{1, 2, 3})
	assert.ErrorIs(t, err, errs.ErrTransportClosed)
}

func TestCompressedFileSinkSourceRoundTrip(t *testing.T) {
	cfg := wire.DefaultConfig()

	for _, compressionType := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(compressionType.String(), func(t *testing.T) {
			var out bytes.Buffer
			sink, err := transport.NewCompressedFileSink(&out, compressionType)
			require.NoError(t, err)
			require.NoError(t, sink.Write(buildPacket(t, cfg, 21)))
			require.NoError(t, sink.Write(buildPacket(t, cfg, 22)))
			require.NoError(t, sink.Close())

			src, err := transport.NewCompressedFileSource(cfg, bytes.NewReader(out.Bytes()), compressionType, false)
			require.NoError(t, err)

			var heapCnts []uint64
			for {
				raw, err := src.Next(context.Background())
				if err == io.EOF {
					break
				}
				require.NoError(t, err)

				p, _, err := wire.UnpackPacket(raw, cfg)
				require.NoError(t, err)
				hc, _ := p.Find(wire.IDHeapCnt)
				heapCnts = append(heapCnts, hc.Value)
			}

			assert.Equal(t, []uint64{21, 22}, heapCnts)
		})
	}
}

func TestCompressedFileSinkRejectsWriteAfterClose(t *testing.T) {
	var out bytes.Buffer
	sink, err := transport.NewCompressedFileSink(&out, format.CompressionNone)
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	err = sink.Write([]byte{1, 2, 3})
	assert.ErrorIs(t, err, errs.ErrTransportClosed)
}

func TestNewCompressedFileSinkRejectsUnknownCompressionType(t *testing.T) {
	var out bytes.Buffer
	_, err := transport.NewCompressedFileSink(&out, format.CompressionType(99))
	assert.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}
