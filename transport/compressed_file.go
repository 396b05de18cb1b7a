package transport

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ska-spead/spead-go/compress"
	"github.com/ska-spead/spead-go/errs"
	"github.com/ska-spead/spead-go/format"
	"github.com/ska-spead/spead-go/wire"
)

// chunkLenPrefix is the size of the big-endian uint32 length prefix in front
// of every compressed chunk.
const chunkLenPrefix = 4

// CompressedFileSink batches packets into MAX_PACKET_LEN-sized raw chunks,
// compresses each chunk with codec, and writes it to w framed behind a
// length prefix. The wire format of each packet is unaffected; compression
// applies only to the container file.
type CompressedFileSink struct {
	w      *bufio.Writer
	closer io.Closer
	codec  compress.Codec

	batch  []byte
	closed bool
}

// NewCompressedFileSink wraps w (closing it on Close if it implements
// io.Closer), compressing batched packets with compressionType.
func NewCompressedFileSink(w io.Writer, compressionType format.CompressionType) (*CompressedFileSink, error) {
	codec, err := compress.CreateCodec(compressionType, "CompressedFileSink")
	if err != nil {
		return nil, err
	}

	s := &CompressedFileSink{w: bufio.NewWriter(w), codec: codec}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s, nil
}

// Write appends packet to the current batch, flushing a compressed chunk
// once the batch reaches wire.MaxPacketLen bytes.
func (s *CompressedFileSink) Write(packet []byte) error {
	if s.closed {
		return errs.ErrTransportClosed
	}

	s.batch = append(s.batch, packet...)
	if len(s.batch) >= wire.MaxPacketLen {
		return s.flush()
	}
	return nil
}

func (s *CompressedFileSink) flush() error {
	if len(s.batch) == 0 {
		return nil
	}

	compressed, err := s.codec.Compress(s.batch)
	if err != nil {
		return err
	}
	s.batch = s.batch[:0]

	var lenPrefix [chunkLenPrefix]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(compressed)))

	if _, err := s.w.Write(lenPrefix[:]); err != nil {
		return err
	}
	_, err = s.w.Write(compressed)
	return err
}

// Close flushes any partial batch, the underlying writer, and closes it if
// closable.
func (s *CompressedFileSink) Close() error {
	if s.closed {
		return errs.ErrTransportClosed
	}
	s.closed = true

	if err := s.flush(); err != nil {
		return err
	}
	if err := s.w.Flush(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// CompressedFileSource reads length-prefixed compressed chunks from r,
// decompresses each with codec, and yields the packets found inside in
// order, applying the same junk tolerance as FileSource.
type CompressedFileSource struct {
	cfg       wire.Config
	r         io.Reader
	codec     compress.Codec
	allowJunk bool

	buf  []byte
	eof  bool
	done bool
}

// NewCompressedFileSource returns a CompressedFileSource reading from r
// under cfg, decompressing with compressionType.
func NewCompressedFileSource(cfg wire.Config, r io.Reader, compressionType format.CompressionType, allowJunk bool) (*CompressedFileSource, error) {
	codec, err := compress.CreateCodec(compressionType, "CompressedFileSource")
	if err != nil {
		return nil, err
	}

	return &CompressedFileSource{cfg: cfg, r: r, codec: codec, allowJunk: allowJunk}, nil
}

// fillChunk reads one length-prefixed compressed chunk and appends its
// decompressed bytes to buf. It sets eof, rather than returning an error,
// once the reader is cleanly exhausted between chunks.
func (s *CompressedFileSource) fillChunk() error {
	if s.eof {
		return nil
	}

	var lenPrefix [chunkLenPrefix]byte
	if _, err := io.ReadFull(s.r, lenPrefix[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			s.eof = true
			return nil
		}
		return err
	}

	chunkLen := binary.BigEndian.Uint32(lenPrefix[:])
	compressed := make([]byte, chunkLen)
	if _, err := io.ReadFull(s.r, compressed); err != nil {
		return fmt.Errorf("%w: truncated compressed chunk: %w", errs.ErrPacketMalformed, err)
	}

	decompressed, err := s.codec.Decompress(compressed)
	if err != nil {
		return err
	}

	s.buf = append(s.buf, decompressed...)
	return nil
}

// Next returns the next packet's raw bytes, io.EOF once the reader and its
// buffer are exhausted, or a packet-malformed error if AllowJunk is false
// and a parse fails with no more data to read.
func (s *CompressedFileSource) Next(ctx context.Context) ([]byte, error) {
	if s.done {
		return nil, io.EOF
	}

	for {
		if len(s.buf) < wire.HeaderSize && !s.eof {
			if err := s.fillChunk(); err != nil {
				return nil, err
			}
			continue
		}

		p, consumed, err := wire.UnpackPacket(s.buf, s.cfg)
		if err == nil {
			raw := append([]byte(nil), s.buf[:consumed]...)
			s.buf = s.buf[consumed:]

			if p.IsTerminal() {
				s.done = true
			}

			return raw, nil
		}

		if len(s.buf) == 0 {
			s.done = true
			return nil, io.EOF
		}

		if !s.eof {
			before := len(s.buf)
			if ferr := s.fillChunk(); ferr != nil {
				return nil, ferr
			}
			if len(s.buf) > before {
				continue
			}
		}

		if !s.allowJunk {
			s.done = true
			return nil, err
		}

		s.buf = s.buf[1:]
	}
}
