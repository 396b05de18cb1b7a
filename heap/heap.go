package heap

// Heap is a finalized heap: its assembled blob, its item-id index resolved
// to immediate values or byte slices of the blob, and its raw descriptor
// sub-heaps. Valid is false when the heap's packets were inconsistent or
// incomplete; an invalid Heap is still returned for diagnostic inspection.
type Heap struct {
	HeapCnt uint64
	HeapLen int64 // -1 if never learned

	Blob        []byte
	Immediates  map[uint32]uint64
	Directs     map[uint32][]byte
	Descriptors [][]byte

	Valid bool
}

// Immediate returns the raw immediate value for id, if present.
func (h *Heap) Immediate(id uint32) (uint64, bool) {
	v, ok := h.Immediates[id]
	return v, ok
}

// Direct returns the resolved byte slice for a direct-mode item, if present.
func (h *Heap) Direct(id uint32) ([]byte, bool) {
	b, ok := h.Directs[id]
	return b, ok
}
