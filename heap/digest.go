package heap

import "github.com/cespare/xxhash/v2"

// ContentDigest returns an xxHash64 of the assembled blob, for diagnostic
// dedup by consumers. It is an in-memory convenience, not a wire field.
func (h *Heap) ContentDigest() uint64 {
	return xxhash.Sum64(h.Blob)
}
