package transport

import (
	"context"
	"io"
	"net"

	"github.com/ska-spead/spead-go/errs"
	"github.com/ska-spead/spead-go/internal/pool"
	"github.com/ska-spead/spead-go/wire"
)

// UDPSink sends one packet per datagram, fire-and-forget: a failed Write
// reports the syscall error but the sink does not retry or buffer.
type UDPSink struct {
	conn   *net.UDPConn
	closed bool
}

// NewUDPSink dials addr over UDP.
func NewUDPSink(addr string) (*UDPSink, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}

	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, err
	}

	return &UDPSink{conn: conn}, nil
}

// Write sends packet as a single datagram.
func (s *UDPSink) Write(packet []byte) error {
	if s.closed {
		return errs.ErrTransportClosed
	}

	_, err := s.conn.Write(packet)
	return err
}

// Close closes the underlying socket.
func (s *UDPSink) Close() error {
	if s.closed {
		return errs.ErrTransportClosed
	}
	s.closed = true

	return s.conn.Close()
}

// UDPSource listens on addr and reassembles datagrams into a
// mux.PacketSource-compatible stream.
//
// A dedicated reader goroutine drains the socket into a bounded queue so a
// slow consumer cannot stall the kernel receive buffer; Next pulls from that
// queue and is safe to cancel via ctx.
type UDPSource struct {
	conn   *net.UDPConn
	queue  chan []byte
	errCh  chan error
	cancel context.CancelFunc
}

// NewUDPSource listens on addr and starts its reader goroutine. queueLen
// bounds how many unconsumed datagrams may buffer before the reader blocks.
func NewUDPSource(addr string, queueLen int) (*UDPSource, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}

	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &UDPSource{
		conn:   conn,
		queue:  make(chan []byte, queueLen),
		errCh:  make(chan error, 1),
		cancel: cancel,
	}

	go s.readLoop(ctx)

	return s, nil
}

func (s *UDPSource) readLoop(ctx context.Context) {
	defer close(s.queue)

	for {
		bb := pool.GetPacketBuffer()
		bb.B = bb.B[:cap(bb.B)]
		if len(bb.B) < wire.MaxPacketLen {
			bb.B = make([]byte, wire.MaxPacketLen)
		}

		n, _, err := s.conn.ReadFromUDP(bb.B)
		if err != nil {
			if ctx.Err() != nil {
				// Close canceled ctx before closing the socket: a clean stop.
				pool.PutPacketBuffer(bb)
				return
			}
			select {
			case s.errCh <- err:
			default:
			}
			pool.PutPacketBuffer(bb)
			return
		}

		datagram := append([]byte(nil), bb.B[:n]...)
		pool.PutPacketBuffer(bb)

		select {
		case s.queue <- datagram:
		case <-ctx.Done():
			return
		}
	}
}

// Next returns the next datagram's bytes, the reader goroutine's terminal
// error, io.EOF if the socket was closed cleanly, or ctx.Err() if ctx is
// canceled first.
func (s *UDPSource) Next(ctx context.Context) ([]byte, error) {
	select {
	case datagram, ok := <-s.queue:
		if !ok {
			select {
			case err := <-s.errCh:
				return nil, err
			default:
				return nil, io.EOF
			}
		}
		return datagram, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the reader goroutine and closes the socket.
func (s *UDPSource) Close() error {
	s.cancel()
	return s.conn.Close()
}
