package transport

import (
	"context"
	"io"

	"github.com/ska-spead/spead-go/errs"
	"github.com/ska-spead/spead-go/wire"
)

// ByteSink appends every written packet to an in-memory buffer.
type ByteSink struct {
	buf    []byte
	closed bool
}

// NewByteSink returns an empty ByteSink.
func NewByteSink() *ByteSink { return &ByteSink{} }

// Write appends packet to the sink's buffer.
func (s *ByteSink) Write(packet []byte) error {
	if s.closed {
		return errs.ErrTransportClosed
	}
	s.buf = append(s.buf, packet...)
	return nil
}

// Close marks the sink closed; the accumulated buffer remains available via
// Bytes.
func (s *ByteSink) Close() error {
	s.closed = true
	return nil
}

// Bytes returns the accumulated buffer.
func (s *ByteSink) Bytes() []byte { return s.buf }

// ByteSource scans an in-memory buffer for packets.
//
// When AllowJunk is set, a parse failure advances the cursor by one byte
// and retries rather than failing outright, tolerating interleaved garbage.
// The source stops at a stream-terminal packet or at the end of the buffer.
type ByteSource struct {
	cfg       wire.Config
	buf       []byte
	pos       int
	allowJunk bool
	done      bool
}

// NewByteSource returns a ByteSource scanning buf under cfg.
func NewByteSource(cfg wire.Config, buf []byte, allowJunk bool) *ByteSource {
	return &ByteSource{cfg: cfg, buf: buf, allowJunk: allowJunk}
}

// Next returns the next packet's raw bytes, io.EOF at end of buffer (or
// after a stream-terminal packet), or a packet-malformed error if AllowJunk
// is false and a parse fails.
func (s *ByteSource) Next(ctx context.Context) ([]byte, error) {
	if s.done {
		return nil, io.EOF
	}

	for {
		if s.pos >= len(s.buf) {
			s.done = true
			return nil, io.EOF
		}

		p, consumed, err := wire.UnpackPacket(s.buf[s.pos:], s.cfg)
		if err != nil {
			if !s.allowJunk {
				s.done = true
				return nil, err
			}
			s.pos++
			continue
		}

		raw := s.buf[s.pos : s.pos+consumed]
		s.pos += consumed

		if p.IsTerminal() {
			s.done = true
		}

		return raw, nil
	}
}
