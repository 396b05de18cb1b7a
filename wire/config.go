package wire

import (
	"fmt"

	"github.com/ska-spead/spead-go/errs"
)

// Config carries the two runtime dials of the wire-protocol parameters:
// ITEM_BITS is fixed at 64; ADDR_BITS is configurable to 40 or 48.
type Config struct {
	AddrBits int
}

// DefaultConfig is the 64/48 dialect.
func DefaultConfig() Config {
	return Config{AddrBits: 48}
}

// NewConfig validates addrBits and returns a Config.
func NewConfig(addrBits int) (Config, error) {
	if addrBits != 40 && addrBits != 48 {
		return Config{}, fmt.Errorf("wire: addr_bits must be 40 or 48, got %d", addrBits)
	}

	return Config{AddrBits: addrBits}, nil
}

// AddrBytes returns ADDR_BITS/8.
func (c Config) AddrBytes() int {
	return c.AddrBits / 8
}

// IDBits returns ITEM_BITS - ADDR_BITS - 1, the width of an item entry's id field.
func (c Config) IDBits() int {
	return ItemBits - c.AddrBits - 1
}

// ItemBitsCode is the header's item_bits_code byte.
func (c Config) ItemBitsCode() byte {
	return byte(ItemBits)
}

// AddrBitsCode is the header's addr_bits_code byte.
func (c Config) AddrBitsCode() byte {
	return byte(c.AddrBits)
}

// ValidateCode checks that itemBitsCode/addrBitsCode from an incoming
// header match this Config.
func (c Config) ValidateCode(itemBitsCode, addrBitsCode byte) error {
	if itemBitsCode != c.ItemBitsCode() {
		return fmt.Errorf("%w: got 0x%02x, want 0x%02x", errs.ErrItemBitsMismatch, itemBitsCode, c.ItemBitsCode())
	}
	if addrBitsCode != c.AddrBitsCode() {
		return fmt.Errorf("%w: got 0x%02x, want 0x%02x", errs.ErrAddrBitsMismatch, addrBitsCode, c.AddrBitsCode())
	}

	return nil
}
