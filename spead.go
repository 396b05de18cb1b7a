// Package spead provides a high-performance, streaming transport for
// self-describing scientific data, following the SPEAD (Streaming Protocol
// for Exchanging Astronomical Data) wire format.
//
// SPEAD packetizes named, typed "items" into heaps, each heap identified by
// a monotonically increasing heap_cnt. Items describe themselves via
// descriptors (name, shape, format, data type) that travel alongside the
// data, so a receiver with no prior schema knowledge can still decode a
// stream correctly.
//
// # Core Features
//
//   - Bit-packed item encoding (package bitcodec) for arbitrary integer,
//     float, char, and bit widths
//   - Self-describing items via NAME/DESCRIPTION/SHAPE/FORMAT/ID descriptors
//     (package descriptor)
//   - Heap reassembly from out-of-order, duplicated, or partial packets
//     (package heap)
//   - Bounded-memory multiplexing of many concurrent heaps (package mux)
//   - Stateful item groups that track descriptor resends and value changes
//     (package group)
//   - Byte-slice, file, and UDP transports (package transport)
//   - Optional compression of packet capture files (packages compress and transport)
//
// # Basic Usage
//
// Sending a stream:
//
//	cfg := spead.DefaultConfig()
//	group := spead.NewItemGroup(cfg)
//
//	it := group.Add(descriptor.Descriptor{
//	    ID:     0x1000,
//	    Name:   "timestamp",
//	    Format: format.Format{format.Unsigned(64)},
//	    Shape:  format.NewFixedShape(),
//	})
//	_ = it.SetRows([]bitcodec.Row{{uint64(12345)}})
//
//	sink := transport.NewByteSink()
//	tx := spead.NewTransmitter(cfg, sink, wire.MaxPacketLen)
//	if err := tx.Send(group); err != nil {
//	    // handle error
//	}
//	if err := tx.End(); err != nil {
//	    // handle error
//	}
//
// Receiving a stream:
//
//	src := transport.NewByteSource(cfg, sink.Bytes(), false)
//	group := spead.NewItemGroup(cfg)
//	rx := spead.NewReceiver(cfg, src)
//	for h := range rx.Heaps(context.Background()) {
//	    if err := group.ApplyHeap(h); err != nil {
//	        // handle error
//	    }
//	}
//
// This package provides convenient top-level wrappers around the lower
// level wire/descriptor/item/heap/mux/group/xmit packages, simplifying the
// most common use cases. For advanced usage and fine-grained control, use
// those packages directly.
package spead

import (
	"context"
	"iter"

	"github.com/ska-spead/spead-go/group"
	"github.com/ska-spead/spead-go/heap"
	"github.com/ska-spead/spead-go/mux"
	"github.com/ska-spead/spead-go/transport"
	"github.com/ska-spead/spead-go/wire"
	"github.com/ska-spead/spead-go/xmit"
)

// Config is the wire-protocol dial set (ADDR_BITS, currently 40 or 48).
type Config = wire.Config

// DefaultConfig returns the 64/48 dialect, SPEAD's common default.
func DefaultConfig() Config {
	return wire.DefaultConfig()
}

// NewItemGroup returns an empty ItemGroup bound to cfg.
func NewItemGroup(cfg Config) *group.ItemGroup {
	return group.New(cfg)
}

// Transmitter builds heaps from an ItemGroup and writes their packets to a
// transport.Sink.
type Transmitter struct {
	cfg           Config
	sink          transport.Sink
	maxPacketSize int
}

// NewTransmitter returns a Transmitter writing to sink, splitting heaps into
// packets no larger than maxPacketSize.
func NewTransmitter(cfg Config, sink transport.Sink, maxPacketSize int) *Transmitter {
	return &Transmitter{cfg: cfg, sink: sink, maxPacketSize: maxPacketSize}
}

// Send builds the next heap from g and writes its packets to the sink.
func (t *Transmitter) Send(g *group.ItemGroup) error {
	bh, err := g.BuildHeap()
	if err != nil {
		return err
	}

	for pkt, err := range xmit.GeneratePackets(t.cfg, bh, t.maxPacketSize) {
		if err != nil {
			return err
		}
		if err := t.sink.Write(pkt); err != nil {
			return err
		}
	}

	return nil
}

// End writes the stream terminator packet.
func (t *Transmitter) End() error {
	pkt, err := xmit.End(t.cfg)
	if err != nil {
		return err
	}

	return t.sink.Write(pkt)
}

// Receiver reassembles a packet stream from a mux.PacketSource into
// finalized heaps.
type Receiver struct {
	cfg Config
	src mux.PacketSource
	mux *mux.Mux
}

// NewReceiver returns a Receiver reading packets from src under cfg. opts
// configure the underlying mux.Mux (e.g. mux.WithMaxConcurrentHeaps,
// mux.WithTraceSink).
func NewReceiver(cfg Config, src mux.PacketSource, opts ...mux.Option) *Receiver {
	return &Receiver{cfg: cfg, src: src, mux: mux.New(cfg, opts...)}
}

// Heaps returns a lazy sequence of finalized heaps read from the receiver's
// source. The sequence ends at end-of-stream or a stream-terminal packet.
func (r *Receiver) Heaps(ctx context.Context) iter.Seq[*heap.Heap] {
	return r.mux.Heaps(ctx, r.src)
}
