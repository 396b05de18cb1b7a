package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/ska-spead/spead-go/errs"
)

// ItemEntry is one 64-bit item-table slot: a mode bit, an id field
// (ITEM_BITS-ADDR_BITS-1 bits wide), and a value field (ADDR_BITS wide).
//
// In Immediate mode, Value holds the item's payload, big-endian, left-padded
// to ADDR_BITS. In Direct mode, Value holds a byte offset into the heap blob.
type ItemEntry struct {
	Direct bool
	ID     uint32
	Value  uint64
}

// Bytes serializes the entry into a new 8-byte big-endian slice under cfg.
func (e ItemEntry) Bytes(cfg Config) []byte {
	b := make([]byte, ItemBits/8)

	var mode uint64
	if e.Direct {
		mode = 1
	}

	addrMask := addrMask(cfg.AddrBits)
	word := (mode << 63) | (uint64(e.ID) << uint(cfg.AddrBits)) | (e.Value & addrMask)
	binary.BigEndian.PutUint64(b, word)

	return b
}

// ParseItemEntry parses one 8-byte item-table slot under cfg.
func ParseItemEntry(data []byte, cfg Config) (ItemEntry, error) {
	if len(data) < ItemBits/8 {
		return ItemEntry{}, fmt.Errorf("%w: item entry shorter than %d bytes", errs.ErrPacketMalformed, ItemBits/8)
	}

	word := binary.BigEndian.Uint64(data[:ItemBits/8])

	idBits := uint(cfg.IDBits())
	idMask := uint64(1)<<idBits - 1
	addrMask := addrMask(cfg.AddrBits)

	return ItemEntry{
		Direct: word>>63&1 == 1,
		ID:     uint32((word >> uint(cfg.AddrBits)) & idMask),
		Value:  word & addrMask,
	}, nil
}

func addrMask(addrBits int) uint64 {
	if addrBits >= 64 {
		return ^uint64(0)
	}

	return uint64(1)<<uint(addrBits) - 1
}

// IsReserved reports whether id is one of the fixed-semantics reserved IDs
// (the high bit of the id field is clear and id < UnreservedIDBase).
func IsReserved(id uint32) bool {
	return id < UnreservedIDBase
}

// ImmediateValue interprets data, big-endian and left-padded to
// cfg.AddrBytes(), as an immediate item's Value field.
func ImmediateValue(data []byte, cfg Config) (uint64, error) {
	if len(data) > cfg.AddrBytes() {
		return 0, fmt.Errorf("%w: immediate value is %d bytes, exceeds %d addr bytes", errs.ErrEncodingOverflow, len(data), cfg.AddrBytes())
	}

	var v uint64
	for _, b := range data {
		v = v<<8 | uint64(b)
	}

	return v, nil
}

// ImmediateBytes renders value as a big-endian byte slice of cfg.AddrBytes()
// length, the inverse of how an immediate item's Value field is read.
func ImmediateBytes(value uint64, cfg Config) []byte {
	n := cfg.AddrBytes()
	b := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		b[i] = byte(value)
		value >>= 8
	}

	return b
}
