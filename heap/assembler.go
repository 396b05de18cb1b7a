package heap

import (
	"fmt"
	"sort"

	"github.com/ska-spead/spead-go/errs"
	"github.com/ska-spead/spead-go/wire"
)

type fragment struct {
	offset int
	data   []byte
}

// Assembler merges the packets of a single heap_cnt into a finalized Heap.
type Assembler struct {
	heapCnt uint64
	started bool

	heapLen int64 // -1 until learned

	immediates        map[uint32]uint64
	directOffsets     map[uint32]uint64
	descriptorOffsets []uint64

	fragments  []fragment
	maxCovered int

	complete bool
}

// NewAssembler returns an empty Assembler ready to receive packets.
func NewAssembler() *Assembler {
	return &Assembler{
		heapLen:       -1,
		immediates:    make(map[uint32]uint64),
		directOffsets: make(map[uint32]uint64),
	}
}

// HeapCnt returns the heap_cnt this assembler has adopted. Only meaningful
// once at least one packet has been added.
func (a *Assembler) HeapCnt() uint64 { return a.heapCnt }

// Started reports whether a packet has been added yet.
func (a *Assembler) Started() bool { return a.started }

// Complete reports whether PAYLOAD_OFF+PAYLOAD_LEN has reached HEAP_LEN for
// some packet added so far: a heuristic signal that the heap is ready to be
// finalized, not a guarantee of full, gap-free coverage.
func (a *Assembler) Complete() bool { return a.complete }

// AddPacket merges one packet into the assembler.
//
// The first packet adopts its heap_cnt; later packets must share it or fail
// with a heap-cnt-mismatch error. Packets missing HEAP_CNT entirely fail
// with a heap-cnt-missing error.
func (a *Assembler) AddPacket(p wire.Packet) error {
	hcEntry, ok := p.Find(wire.IDHeapCnt)
	if !ok {
		return fmt.Errorf("%w", errs.ErrHeapCntMissing)
	}

	if !a.started {
		a.heapCnt = hcEntry.Value
		a.started = true
	} else if hcEntry.Value != a.heapCnt {
		return fmt.Errorf("%w: packet heap_cnt %d, assembler heap_cnt %d", errs.ErrHeapCntMismatch, hcEntry.Value, a.heapCnt)
	}

	for _, it := range p.Items {
		switch it.ID {
		case wire.IDHeapCnt, wire.IDPayloadOff, wire.IDPayloadLen, wire.IDStreamCtrl:
			// heap/packet metadata, not a heap item
		case wire.IDHeapLen:
			a.heapLen = int64(it.Value)
		case wire.IDDescriptor:
			a.descriptorOffsets = append(a.descriptorOffsets, it.Value)
		default:
			if it.Direct {
				a.directOffsets[it.ID] = it.Value
			} else {
				a.immediates[it.ID] = it.Value
			}
		}
	}

	if off, ok := p.Find(wire.IDPayloadOff); ok && len(p.Payload) > 0 {
		a.fragments = append(a.fragments, fragment{offset: int(off.Value), data: p.Payload})

		if end := int(off.Value) + len(p.Payload); end > a.maxCovered {
			a.maxCovered = end
		}
	}

	if a.heapLen >= 0 && a.maxCovered >= int(a.heapLen) {
		a.complete = true
	}

	return nil
}

// Finalize assembles the blob from accepted fragments and resolves direct
// items and descriptor sub-heaps against it.
//
// Valid is true iff heap_len is known, every direct-item and descriptor
// slice lies inside [0, heap_len), and the accepted fragments cover
// [0, heap_len) without gaps. Overlapping fragments with equal bytes are
// tolerated; unequal duplicates mark the heap invalid but it is still
// returned.
func (a *Assembler) Finalize() *Heap {
	h := &Heap{
		HeapCnt:    a.heapCnt,
		HeapLen:    a.heapLen,
		Immediates: a.immediates,
	}

	if a.heapLen < 0 {
		h.Valid = false
		return h
	}

	blob, inconsistent := assembleBlob(a.fragments, int(a.heapLen))
	h.Blob = blob

	directs, descriptors, inBounds := resolveDirects(a.directOffsets, a.descriptorOffsets, blob, int(a.heapLen))
	h.Directs = directs
	h.Descriptors = descriptors

	covers := fragmentsCoverFull(a.fragments, int(a.heapLen))

	h.Valid = !inconsistent && inBounds && covers

	return h
}

type directRef struct {
	offset int
	isDesc bool
	id     uint32
}

func resolveDirects(directOffsets map[uint32]uint64, descriptorOffsets []uint64, blob []byte, heapLen int) (map[uint32][]byte, [][]byte, bool) {
	refs := make([]directRef, 0, len(directOffsets)+len(descriptorOffsets))
	for id, off := range directOffsets {
		refs = append(refs, directRef{offset: int(off), id: id})
	}
	for _, off := range descriptorOffsets {
		refs = append(refs, directRef{offset: int(off), isDesc: true})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].offset < refs[j].offset })

	directs := make(map[uint32][]byte, len(directOffsets))
	descriptors := make([][]byte, 0, len(descriptorOffsets))
	inBounds := true

	for i, r := range refs {
		end := heapLen
		if i+1 < len(refs) {
			end = refs[i+1].offset
		}

		if r.offset < 0 || r.offset >= heapLen || end > len(blob) || end < r.offset {
			inBounds = false
			continue
		}

		slice := blob[r.offset:end]
		if r.isDesc {
			descriptors = append(descriptors, slice)
		} else {
			directs[r.id] = slice
		}
	}

	return directs, descriptors, inBounds
}

// assembleBlob merges fragments into a heapLen-byte blob. It reports
// inconsistent=true if any two fragments disagree on an overlapping byte,
// or if a fragment falls outside [0, heapLen).
func assembleBlob(fragments []fragment, heapLen int) ([]byte, bool) {
	blob := make([]byte, heapLen)
	written := make([]bool, heapLen)
	inconsistent := false

	for _, f := range fragments {
		end := f.offset + len(f.data)
		if f.offset < 0 || end > heapLen {
			inconsistent = true
			continue
		}

		for i, b := range f.data {
			pos := f.offset + i
			if written[pos] {
				if blob[pos] != b {
					inconsistent = true
				}
				continue
			}
			blob[pos] = b
			written[pos] = true
		}
	}

	return blob, inconsistent
}

// fragmentsCoverFull reports whether fragments cover every byte of
// [0, heapLen) with no gaps.
func fragmentsCoverFull(fragments []fragment, heapLen int) bool {
	if heapLen == 0 {
		return true
	}

	covered := make([]bool, heapLen)
	n := 0

	for _, f := range fragments {
		end := f.offset + len(f.data)
		if f.offset < 0 || end > heapLen {
			continue
		}

		for i := f.offset; i < end; i++ {
			if !covered[i] {
				covered[i] = true
				n++
			}
		}
	}

	return n == heapLen
}
