package group

// Entry is one non-descriptor item value produced by BuildHeap: its
// encoded bytes, and whether it must ride as a direct (offset) or
// immediate (inline) table entry.
type Entry struct {
	ID     uint32
	Direct bool
	Bytes  []byte
}

// BuiltHeap is the dictionary-of-(mode,bytes) intermediate between
// ItemGroup.BuildHeap and the packetizer (package xmit): not wire bytes,
// a structured description of one heap's contents ready to be split into
// packets.
type BuiltHeap struct {
	HeapCnt     uint64
	Descriptors [][]byte
	Entries     []Entry
}
