package group

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/ska-spead/spead-go/descriptor"
	"github.com/ska-spead/spead-go/errs"
	"github.com/ska-spead/spead-go/heap"
	"github.com/ska-spead/spead-go/item"
	"github.com/ska-spead/spead-go/wire"
)

// ItemGroup is a keyed collection of items: a mapping id -> Item, an
// inverse name index, a pending-descriptors queue, and the group's current
// heap_cnt counter (starts at 1; 0 is reserved for control packets).
type ItemGroup struct {
	cfg wire.Config

	items     map[uint32]*item.Item
	nameIndex map[string]uint32
	pending   []uint32

	heapCnt uint64

	lastSentDescHash map[uint32]uint64
}

// New returns an empty ItemGroup bound to cfg's wire-protocol parameters.
func New(cfg wire.Config) *ItemGroup {
	return &ItemGroup{
		cfg:              cfg,
		items:            make(map[uint32]*item.Item),
		nameIndex:        make(map[string]uint32),
		heapCnt:          1,
		lastSentDescHash: make(map[uint32]uint64),
	}
}

// Add registers a new item with descriptor d, enqueues its descriptor for
// the next built heap, and returns the new Item for the caller to set
// values on.
func (g *ItemGroup) Add(d descriptor.Descriptor) *item.Item {
	it := item.New(d)

	g.items[d.ID] = it
	if d.Name != "" {
		g.nameIndex[d.Name] = d.ID
	}
	g.pending = append(g.pending, d.ID)

	return it
}

// Item returns the item registered under id, if any.
func (g *ItemGroup) Item(id uint32) (*item.Item, bool) {
	it, ok := g.items[id]
	return it, ok
}

// ItemByName returns the item registered under name, if any.
func (g *ItemGroup) ItemByName(name string) (*item.Item, bool) {
	id, ok := g.nameIndex[name]
	if !ok {
		return nil, false
	}

	return g.Item(id)
}

// HeapCnt returns the heap_cnt that the next built heap will carry, or that
// the last applied heap carried.
func (g *ItemGroup) HeapCnt() uint64 { return g.heapCnt }

// BuildHeap drains the pending-descriptors queue (LIFO) and encodes every
// changed item's value, immediate if its encoded bytes fit in
// cfg.AddrBytes() and the descriptor's size is known, direct otherwise.
// Changed flags are cleared and heap_cnt is incremented.
//
// A pending descriptor is only re-sent if its encoded bytes differ from the
// last sent copy: an unconditional resend (as a real sender would do on
// every heap its item is queued for) would waste bandwidth on every heap a
// static item's descriptor is (re-)queued for.
func (g *ItemGroup) BuildHeap() (BuiltHeap, error) {
	bh := BuiltHeap{HeapCnt: g.heapCnt}

	for len(g.pending) > 0 {
		id := g.pending[len(g.pending)-1]
		g.pending = g.pending[:len(g.pending)-1]

		it, ok := g.items[id]
		if !ok {
			continue
		}

		encoded, err := it.Descriptor.Encode(g.cfg)
		if err != nil {
			return BuiltHeap{}, fmt.Errorf("item 0x%x: %w", id, err)
		}

		h := xxhash.Sum64(encoded)
		if last, sent := g.lastSentDescHash[id]; sent && last == h {
			continue
		}
		g.lastSentDescHash[id] = h

		bh.Descriptors = append(bh.Descriptors, encoded)
	}

	ids := make([]uint32, 0, len(g.items))
	for id, it := range g.items {
		if it.Changed() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		it := g.items[id]

		val, err := it.EncodeValue()
		if err != nil {
			return BuiltHeap{}, fmt.Errorf("item 0x%x: %w", id, err)
		}

		direct := len(val) > g.cfg.AddrBytes() || it.Descriptor.Size() < 0
		bh.Entries = append(bh.Entries, Entry{ID: id, Direct: direct, Bytes: val})

		it.ClearChanged()
	}

	g.heapCnt++

	return bh, nil
}

// ApplyHeap adopts h's heap_cnt, creates a new uninitialized Item for every
// raw descriptor it carries, and decodes every known item's value from h.
// Ids present in h that are not registered in this group are ignored.
func (g *ItemGroup) ApplyHeap(h *heap.Heap) error {
	g.heapCnt = h.HeapCnt

	for _, raw := range h.Descriptors {
		d, err := descriptor.Decode(raw, g.cfg)
		if err != nil {
			return fmt.Errorf("%w: %w", errs.ErrDescriptorMalformed, err)
		}

		it := item.New(d)
		g.items[d.ID] = it
		if d.Name != "" {
			g.nameIndex[d.Name] = d.ID
		}
	}

	for id, it := range g.items {
		if raw, ok := h.Direct(id); ok {
			if err := it.DecodeValue(raw, 0); err != nil {
				return fmt.Errorf("item 0x%x: %w", id, err)
			}
			continue
		}

		if imm, ok := h.Immediate(id); ok {
			buf := wire.ImmediateBytes(imm, g.cfg)
			bitOffset := it.Descriptor.BitOffset(g.cfg.AddrBits)
			if err := it.DecodeValue(buf, bitOffset); err != nil {
				return fmt.Errorf("item 0x%x: %w", id, err)
			}
		}
	}

	return nil
}
