package xmit

import (
	"fmt"
	"iter"

	"github.com/ska-spead/spead-go/errs"
	"github.com/ska-spead/spead-go/group"
	"github.com/ska-spead/spead-go/wire"
)

// GeneratePackets splits a built heap into a finite sequence of wire
// packets, none exceeding maxPacketSize bytes.
//
// The heap's blob is the concatenation of its descriptor sub-heaps (in
// order) followed by its other direct-mode items (in insertion order);
// each one's (id, offset) is recorded as a direct table entry. Only the
// first packet carries the descriptor and direct-item offsets and the
// immediate entries; every packet, including the first, carries HEAP_CNT,
// HEAP_LEN, PAYLOAD_LEN, and PAYLOAD_OFF. A heap with an
// empty blob still yields exactly one packet.
func GeneratePackets(cfg wire.Config, bh group.BuiltHeap, maxPacketSize int) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		var blob []byte

		descOffsets := make([]int, 0, len(bh.Descriptors))
		for _, d := range bh.Descriptors {
			descOffsets = append(descOffsets, len(blob))
			blob = append(blob, d...)
		}

		type directRef struct {
			id     uint32
			offset int
		}

		var directs []directRef
		var immediates []wire.ItemEntry

		for _, e := range bh.Entries {
			if e.Direct {
				directs = append(directs, directRef{id: e.ID, offset: len(blob)})
				blob = append(blob, e.Bytes...)
				continue
			}

			v, err := wire.ImmediateValue(e.Bytes, cfg)
			if err != nil {
				yield(nil, err)
				return
			}
			immediates = append(immediates, wire.ItemEntry{Direct: false, ID: e.ID, Value: v})
		}

		blobLen := len(blob)
		cursor := 0
		first := true

		for {
			items := []wire.ItemEntry{
				{Direct: false, ID: wire.IDHeapCnt, Value: bh.HeapCnt},
			}

			if first {
				for _, off := range descOffsets {
					items = append(items, wire.ItemEntry{Direct: true, ID: wire.IDDescriptor, Value: uint64(off)})
				}
				for _, d := range directs {
					items = append(items, wire.ItemEntry{Direct: true, ID: d.id, Value: uint64(d.offset)})
				}
				items = append(items, immediates...)
			}

			items = append(items, wire.ItemEntry{Direct: false, ID: wire.IDHeapLen, Value: uint64(blobLen)})

			headerBytes := wire.HeaderSize + (len(items)+2)*(wire.ItemBits/8)
			remaining := maxPacketSize - headerBytes
			if remaining < 0 {
				remaining = 0
			}

			if cursor < blobLen && remaining <= 0 {
				yield(nil, fmt.Errorf("%w: max packet size %d too small to make progress past header of %d bytes",
					errs.ErrPacketMalformed, maxPacketSize, headerBytes))
				return
			}

			payloadLen := blobLen - cursor
			if payloadLen > remaining {
				payloadLen = remaining
			}

			items = append(items,
				wire.ItemEntry{Direct: false, ID: wire.IDPayloadLen, Value: uint64(payloadLen)},
				wire.ItemEntry{Direct: false, ID: wire.IDPayloadOff, Value: uint64(cursor)},
			)

			pkt, err := wire.PackPacket(cfg, items, blob[cursor:cursor+payloadLen])
			if !yield(pkt, err) || err != nil {
				return
			}

			cursor += payloadLen
			first = false

			if cursor >= blobLen {
				return
			}
		}
	}
}

// End returns the stream-terminator packet: HEAP_CNT=all-ones,
// STREAM_CTRL=0x2.
func End(cfg wire.Config) ([]byte, error) {
	items := []wire.ItemEntry{
		{Direct: false, ID: wire.IDHeapCnt, Value: wire.HeapCntAllOnes},
		{Direct: false, ID: wire.IDStreamCtrl, Value: wire.StreamCtrlTerm},
	}

	return wire.PackPacket(cfg, items, nil)
}
