package descriptor

import (
	"encoding/binary"
	"fmt"

	"github.com/ska-spead/spead-go/errs"
	"github.com/ska-spead/spead-go/format"
	"github.com/ska-spead/spead-go/wire"
)

// Descriptor is the self-describing metadata for one item: its id, human
// names, array shape, and packed-row format. Dtype is optional; when set,
// the item encodes its value as a flat dense array (see package item)
// instead of row-by-row through the bit codec.
type Descriptor struct {
	ID          uint32
	Name        string
	Description string
	Shape       format.Shape
	Format      format.Format
	Dtype       string
}

// NBits returns the bit width of one packed row.
func (d Descriptor) NBits() int {
	return d.Format.NBits()
}

// Size returns the item's element count: the product of Shape's dimensions,
// -1 if the shape is dynamic or carries any unknown extent.
func (d Descriptor) Size() int {
	return d.Shape.Size()
}

// BitOffset returns max(0, addrBits - size*nbits): where an immediate
// encoding of this descriptor's value starts within an addrBits-wide,
// left-padded value field. Returns 0 if size is unknown.
func (d Descriptor) BitOffset(addrBits int) int {
	size := d.Size()
	if size < 0 {
		return 0
	}

	total := size * d.NBits()
	if off := addrBits - total; off > 0 {
		return off
	}

	return 0
}

// Encode builds a self-contained single-packet heap carrying this
// descriptor's fields and returns its wire bytes.
func (d Descriptor) Encode(cfg wire.Config) ([]byte, error) {
	if err := d.Format.Validate(); err != nil {
		return nil, err
	}

	var payload []byte

	items := []wire.ItemEntry{
		{Direct: false, ID: wire.IDHeapCnt, Value: 0},
		{Direct: false, ID: wire.IDID, Value: uint64(d.ID)},
	}

	items = append(items,
		appendField(&payload, wire.IDShape, encodeShape(d.Shape)),
		appendField(&payload, wire.IDFormat, encodeFormat(d.Format)),
		appendField(&payload, wire.IDName, []byte(d.Name)),
		appendField(&payload, wire.IDDescription, []byte(d.Description)),
	)

	if d.Dtype != "" {
		items = append(items, appendField(&payload, wire.IDDtype, []byte(d.Dtype)))
	}

	items = append(items,
		wire.ItemEntry{Direct: false, ID: wire.IDPayloadOff, Value: 0},
		wire.ItemEntry{Direct: false, ID: wire.IDPayloadLen, Value: uint64(len(payload))},
	)

	return wire.PackPacket(cfg, items, payload)
}

// Decode parses a descriptor heap produced by Encode.
func Decode(data []byte, cfg wire.Config) (Descriptor, error) {
	p, _, err := wire.UnpackPacket(data, cfg)
	if err != nil {
		return Descriptor{}, err
	}

	idEntry, ok := p.Find(wire.IDID)
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: missing ID item", errs.ErrDescriptorMalformed)
	}

	shapeBytes, err := readField(p, wire.IDShape)
	if err != nil {
		return Descriptor{}, err
	}
	shape, err := decodeShape(shapeBytes)
	if err != nil {
		return Descriptor{}, err
	}

	formatBytes, err := readField(p, wire.IDFormat)
	if err != nil {
		return Descriptor{}, err
	}
	fmtVal, err := decodeFormat(formatBytes)
	if err != nil {
		return Descriptor{}, err
	}

	nameBytes, err := readField(p, wire.IDName)
	if err != nil {
		return Descriptor{}, err
	}

	descBytes, err := readField(p, wire.IDDescription)
	if err != nil {
		return Descriptor{}, err
	}

	d := Descriptor{
		ID:          uint32(idEntry.Value),
		Name:        string(nameBytes),
		Description: string(descBytes),
		Shape:       shape,
		Format:      fmtVal,
	}

	if dtypeBytes, err := readField(p, wire.IDDtype); err == nil {
		d.Dtype = string(dtypeBytes)
	}

	return d, nil
}

// appendField writes a length-prefixed blob into payload and returns the
// direct-mode entry pointing at it.
func appendField(payload *[]byte, id uint32, data []byte) wire.ItemEntry {
	off := len(*payload)

	lenPrefix := make([]byte, 4)
	binary.BigEndian.PutUint32(lenPrefix, uint32(len(data)))

	*payload = append(*payload, lenPrefix...)
	*payload = append(*payload, data...)

	return wire.ItemEntry{Direct: true, ID: id, Value: uint64(off)}
}

// readField resolves a direct-mode, length-prefixed field by id from p's
// item table and payload.
func readField(p wire.Packet, id uint32) ([]byte, error) {
	entry, ok := p.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: missing item 0x%02x", errs.ErrDescriptorMalformed, id)
	}

	off := int(entry.Value)
	if off+4 > len(p.Payload) {
		return nil, fmt.Errorf("%w: field 0x%02x length prefix out of bounds", errs.ErrDescriptorMalformed, id)
	}

	l := int(binary.BigEndian.Uint32(p.Payload[off : off+4]))
	start := off + 4
	end := start + l
	if end > len(p.Payload) {
		return nil, fmt.Errorf("%w: field 0x%02x body out of bounds", errs.ErrDescriptorMalformed, id)
	}

	return p.Payload[start:end], nil
}
