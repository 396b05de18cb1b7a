package mux

import (
	"context"
	"errors"
	"io"
	"iter"

	"github.com/ska-spead/spead-go/heap"
	"github.com/ska-spead/spead-go/internal/options"
	"github.com/ska-spead/spead-go/internal/trace"
	"github.com/ska-spead/spead-go/wire"
)

// Mux tracks up to a bounded number of in-flight heap assemblers and
// reassembles a packet stream into finalized heaps.
type Mux struct {
	cfg           wire.Config
	maxConcurrent int
	sink          trace.Sink

	table      map[uint64]*slot
	order      []uint64 // heap_cnt values, in insertion order
	seqCounter int
}

type slot struct {
	asm *heap.Assembler
	seq int
}

// Option configures a Mux at construction.
type Option = options.Option[*Mux]

// WithMaxConcurrentHeaps overrides the default bound on concurrently
// tracked heaps (wire.MaxConcurrentHeaps).
func WithMaxConcurrentHeaps(n int) Option {
	return options.NoError[*Mux](func(m *Mux) { m.maxConcurrent = n })
}

// WithTraceSink sets the sink that receives PacketDropped, HeapEvicted, and
// HeapInvalid events. Defaults to trace.Nop.
func WithTraceSink(sink trace.Sink) Option {
	return options.NoError[*Mux](func(m *Mux) { m.sink = sink })
}

// New returns a Mux bound to cfg's wire-protocol parameters.
func New(cfg wire.Config, opts ...Option) *Mux {
	m := &Mux{
		cfg:           cfg,
		maxConcurrent: wire.MaxConcurrentHeaps,
		sink:          trace.Nop,
		table:         make(map[uint64]*slot),
	}

	_ = options.Apply(m, opts...)

	return m
}

// Heaps consumes src and returns a lazy sequence of finalized heaps. The
// sequence ends when src is exhausted or a stream-terminal packet is
// observed; every heap still tracked at that point is finalized and
// emitted, in insertion order, before the sequence ends.
func (m *Mux) Heaps(ctx context.Context, src PacketSource) iter.Seq[*heap.Heap] {
	return func(yield func(*heap.Heap) bool) {
		for {
			raw, err := src.Next(ctx)
			if err != nil {
				if errors.Is(err, io.EOF) {
					m.flushAll(yield)
					return
				}
				return
			}

			p, _, err := wire.UnpackPacket(raw, m.cfg)
			if err != nil {
				m.sink.Trace(trace.PacketDropped, trace.Fields{Reason: "packet-malformed", Err: err})
				continue
			}

			if p.IsTerminal() {
				m.flushAll(yield)
				return
			}

			if !m.ingest(p, yield) {
				return
			}
		}
	}
}

// ingest merges one packet into its assembler, evicting and emitting the
// oldest tracked heap first if the table is full and this is a new
// heap_cnt. It returns false if the consumer stopped iteration early.
func (m *Mux) ingest(p wire.Packet, yield func(*heap.Heap) bool) bool {
	hcEntry, ok := p.Find(wire.IDHeapCnt)
	if !ok {
		m.sink.Trace(trace.PacketDropped, trace.Fields{Reason: "missing HEAP_CNT"})
		return true
	}
	hc := hcEntry.Value

	s, tracked := m.table[hc]
	if !tracked {
		if len(m.table) >= m.maxConcurrent {
			if !m.evictOldest(yield) {
				return false
			}
		}

		s = &slot{asm: heap.NewAssembler(), seq: m.seqCounter}
		m.seqCounter++
		m.table[hc] = s
		m.order = append(m.order, hc)
	}

	if err := s.asm.AddPacket(p); err != nil {
		m.sink.Trace(trace.PacketDropped, trace.Fields{HeapCnt: hc, Reason: "heap-cnt-mismatch", Err: err})
		return true
	}

	if s.asm.Complete() {
		return m.finalizeAndRemove(hc, yield)
	}

	return true
}

// evictOldest finalizes and emits the tracked heap with the smallest seq
// (insertion order doubles as the first_seen tie-break: lower seq is
// older; ties are impossible since seq is strictly increasing).
func (m *Mux) evictOldest(yield func(*heap.Heap) bool) bool {
	var oldestHC uint64
	oldestSeq := -1

	for hc, s := range m.table {
		if oldestSeq == -1 || s.seq < oldestSeq {
			oldestSeq = s.seq
			oldestHC = hc
		}
	}

	h := m.table[oldestHC].asm.Finalize()
	m.sink.Trace(trace.HeapEvicted, trace.Fields{HeapCnt: oldestHC})
	if !h.Valid {
		m.sink.Trace(trace.HeapInvalid, trace.Fields{HeapCnt: oldestHC, Reason: "evicted"})
	}

	m.remove(oldestHC)

	return yield(h)
}

func (m *Mux) finalizeAndRemove(hc uint64, yield func(*heap.Heap) bool) bool {
	h := m.table[hc].asm.Finalize()
	if !h.Valid {
		m.sink.Trace(trace.HeapInvalid, trace.Fields{HeapCnt: hc, Reason: "finalized"})
	}

	m.remove(hc)

	return yield(h)
}

func (m *Mux) remove(hc uint64) {
	delete(m.table, hc)
	for i, v := range m.order {
		if v == hc {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// flushAll finalizes and emits every remaining tracked heap in insertion
// order.
func (m *Mux) flushAll(yield func(*heap.Heap) bool) {
	order := append([]uint64(nil), m.order...)
	for _, hc := range order {
		s, ok := m.table[hc]
		if !ok {
			continue
		}

		h := s.asm.Finalize()
		if !h.Valid {
			m.sink.Trace(trace.HeapInvalid, trace.Fields{HeapCnt: hc, Reason: "end-of-stream"})
		}

		m.remove(hc)

		if !yield(h) {
			return
		}
	}
}
