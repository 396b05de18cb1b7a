package transport

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/ska-spead/spead-go/errs"
	"github.com/ska-spead/spead-go/wire"
)

// FileSink buffers writes and flushes them to w in large chunks.
type FileSink struct {
	w      *bufio.Writer
	closer io.Closer
	closed bool
}

// NewFileSink wraps w (and, if it implements io.Closer, closes it on Close).
func NewFileSink(w io.Writer) *FileSink {
	s := &FileSink{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Write buffers packet for the next flush.
func (s *FileSink) Write(packet []byte) error {
	if s.closed {
		return errs.ErrTransportClosed
	}

	_, err := s.w.Write(packet)
	return err
}

// Close flushes buffered writes and closes the underlying writer, if closable.
func (s *FileSink) Close() error {
	if s.closed {
		return errs.ErrTransportClosed
	}
	s.closed = true

	if err := s.w.Flush(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// FileSource reads packets from r with read-ahead buffering in chunks of
// chunkSize (typically the max packet size), applying the same junk
// tolerance as ByteSource.
type FileSource struct {
	cfg       wire.Config
	r         io.Reader
	chunkSize int
	allowJunk bool

	buf  []byte
	eof  bool
	done bool
}

// NewFileSource returns a FileSource reading from r under cfg.
func NewFileSource(cfg wire.Config, r io.Reader, chunkSize int, allowJunk bool) *FileSource {
	return &FileSource{cfg: cfg, r: r, chunkSize: chunkSize, allowJunk: allowJunk}
}

func (s *FileSource) fill() error {
	if s.eof {
		return nil
	}

	chunk := make([]byte, s.chunkSize)
	n, err := s.r.Read(chunk)
	if n > 0 {
		s.buf = append(s.buf, chunk[:n]...)
	}

	if err != nil {
		if errors.Is(err, io.EOF) {
			s.eof = true
			return nil
		}
		return err
	}

	return nil
}

// Next returns the next packet's raw bytes, io.EOF once the reader and its
// buffer are exhausted, or a packet-malformed error if AllowJunk is false
// and a parse fails with no more data to read.
func (s *FileSource) Next(ctx context.Context) ([]byte, error) {
	if s.done {
		return nil, io.EOF
	}

	for {
		if len(s.buf) < wire.HeaderSize && !s.eof {
			if err := s.fill(); err != nil {
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
			if ferr := s.fill(); ferr != nil {
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
