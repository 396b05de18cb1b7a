package wire

import (
	"errors"
	"fmt"

	"github.com/ska-spead/spead-go/errs"
)

// Packet is a parsed SPEAD packet: its item table and trailing payload.
type Packet struct {
	Header  Header
	Items   []ItemEntry
	Payload []byte
}

// IsTerminal reports whether this packet carries an immediate-mode
// STREAM_CTRL item with value StreamCtrlTerm, marking stream end.
func (p Packet) IsTerminal() bool {
	for _, it := range p.Items {
		if !it.Direct && it.ID == IDStreamCtrl && it.Value == StreamCtrlTerm {
			return true
		}
	}

	return false
}

// Find returns the first item entry with the given id, if present.
func (p Packet) Find(id uint32) (ItemEntry, bool) {
	for _, it := range p.Items {
		if it.ID == id {
			return it, true
		}
	}

	return ItemEntry{}, false
}

// PackPacket emits header, one 64-bit entry per item in insertion order,
// then payload.
func PackPacket(cfg Config, items []ItemEntry, payload []byte) ([]byte, error) {
	if len(items) > 0xFFFF {
		return nil, fmt.Errorf("%w: item count %d exceeds uint16 range", errs.ErrPacketMalformed, len(items))
	}

	h := Header{
		ItemBitsCode: cfg.ItemBitsCode(),
		AddrBitsCode: cfg.AddrBitsCode(),
		ItemCount:    uint16(len(items)),
	}

	out := make([]byte, 0, HeaderSize+len(items)*(ItemBits/8)+len(payload))
	out = append(out, h.Bytes()...)
	for _, it := range items {
		out = append(out, it.Bytes(cfg)...)
	}
	out = append(out, payload...)

	return out, nil
}

// UnpackPacket validates and parses a full packet under cfg.
//
// Fails with a packet-malformed error if: the buffer is shorter than the
// header; magic or version mismatch; the buffer is shorter than the
// declared item table; HEAP_CNT or PAYLOAD_LEN is missing unless the
// packet is the STREAM_CTRL=TERM marker; or the payload is shorter than
// PAYLOAD_LEN declares.
func UnpackPacket(data []byte, cfg Config) (Packet, int, error) {
	h, err := ParseHeader(data, cfg)
	if err != nil {
		if !errors.Is(err, errs.ErrPacketMalformed) {
			err = fmt.Errorf("%w: %w", errs.ErrPacketMalformed, err)
		}
		return Packet{}, 0, err
	}

	entrySize := ItemBits / 8
	tableEnd := HeaderSize + int(h.ItemCount)*entrySize
	if len(data) < tableEnd {
		return Packet{}, 0, fmt.Errorf("%w: buffer shorter than item table (%d < %d)", errs.ErrPacketMalformed, len(data), tableEnd)
	}

	items := make([]ItemEntry, h.ItemCount)
	for i := range items {
		off := HeaderSize + i*entrySize
		e, err := ParseItemEntry(data[off:off+entrySize], cfg)
		if err != nil {
			return Packet{}, 0, err
		}
		items[i] = e
	}

	p := Packet{Header: h, Items: items}

	if p.IsTerminal() {
		p.Payload = data[tableEnd:tableEnd]
		return p, tableEnd, nil
	}

	heapCnt, hasHeapCnt := p.Find(IDHeapCnt)
	payloadLen, hasPayloadLen := p.Find(IDPayloadLen)
	if !hasHeapCnt {
		return Packet{}, 0, fmt.Errorf("%w: missing HEAP_CNT", errs.ErrPacketMalformed)
	}
	if !hasPayloadLen {
		return Packet{}, 0, fmt.Errorf("%w: missing PAYLOAD_LEN", errs.ErrPacketMalformed)
	}
	_ = heapCnt

	plen := int(payloadLen.Value)
	payloadEnd := tableEnd + plen
	if len(data) < payloadEnd {
		return Packet{}, 0, fmt.Errorf("%w: %w: have %d bytes, want %d", errs.ErrPacketMalformed, errs.ErrPayloadShort, len(data)-tableEnd, plen)
	}

	p.Payload = data[tableEnd:payloadEnd]

	return p, payloadEnd, nil
}
