package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/ska-spead/spead-go/errs"
)

// Header is the fixed 8-byte packet header.
//
//	byte 0   : magic (0x53)
//	byte 1   : version (0x04)
//	byte 2   : item_bits code
//	byte 3   : addr_bits code
//	byte 4-5 : reserved (0)
//	byte 6-7 : item count
type Header struct {
	ItemBitsCode byte
	AddrBitsCode byte
	ItemCount    uint16
}

// Bytes serializes the header into a new 8-byte big-endian slice.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	b[0] = Magic
	b[1] = Version
	b[2] = h.ItemBitsCode
	b[3] = h.AddrBitsCode
	// bytes 4-5 reserved, left zero
	binary.BigEndian.PutUint16(b[6:8], h.ItemCount)

	return b
}

// ParseHeader parses and validates an 8-byte header against cfg.
func ParseHeader(data []byte, cfg Config) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header shorter than %d bytes", errs.ErrPacketMalformed, HeaderSize)
	}

	if data[0] != Magic {
		return Header{}, fmt.Errorf("%w: got 0x%02x, want 0x%02x", errs.ErrMagicMismatch, data[0], byte(Magic))
	}
	if data[1] != Version {
		return Header{}, fmt.Errorf("%w: got 0x%02x, want 0x%02x", errs.ErrVersionMismatch, data[1], byte(Version))
	}

	if err := cfg.ValidateCode(data[2], data[3]); err != nil {
		return Header{}, err
	}

	return Header{
		ItemBitsCode: data[2],
		AddrBitsCode: data[3],
		ItemCount:    binary.BigEndian.Uint16(data[6:8]),
	}, nil
}
