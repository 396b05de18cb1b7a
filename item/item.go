package item

import (
	"fmt"

	"github.com/ska-spead/spead-go/bitcodec"
	"github.com/ska-spead/spead-go/descriptor"
	"github.com/ska-spead/spead-go/errs"
)

// Item is a live value bound to a Descriptor. A given Item uses exactly one
// of the two value representations, chosen once by whether Descriptor.Dtype
// is set: Rows for the bit-codec path, Dense for the flat numeric path.
type Item struct {
	Descriptor descriptor.Descriptor

	rows  []bitcodec.Row
	dense []byte

	set     bool
	changed bool
}

// New returns an Item bound to d with no value set.
func New(d descriptor.Descriptor) *Item {
	return &Item{Descriptor: d}
}

// SetRows stores rows as the item's row-by-row value. The row count is
// validated against the descriptor's shape; mismatch is a value-error.
// Fails if the descriptor carries a dtype.
func (it *Item) SetRows(rows []bitcodec.Row) error {
	if it.Descriptor.Dtype != "" {
		return fmt.Errorf("%w: item %q has a dtype, use SetDense", errs.ErrValueMismatch, it.Descriptor.Name)
	}

	if n := it.Descriptor.Size(); n >= 0 && len(rows) != n {
		return fmt.Errorf("%w: item %q got %d rows, want %d", errs.ErrValueMismatch, it.Descriptor.Name, len(rows), n)
	}

	it.rows = rows
	it.set = true
	it.changed = true

	return nil
}

// SetDense stores raw as the item's flat dense-array value, held in the
// descriptor's declared dtype byte order. raw's length is validated against
// the descriptor's shape and dtype width; mismatch is a value-error. Fails
// if the descriptor carries no dtype.
func (it *Item) SetDense(raw []byte) error {
	if it.Descriptor.Dtype == "" {
		return fmt.Errorf("%w: item %q has no dtype, use SetRows", errs.ErrValueMismatch, it.Descriptor.Name)
	}

	info, err := parseDtype(it.Descriptor.Dtype)
	if err != nil {
		return err
	}

	if len(raw)%info.byteWidth != 0 {
		return fmt.Errorf("%w: item %q dense value length %d not a multiple of width %d",
			errs.ErrValueMismatch, it.Descriptor.Name, len(raw), info.byteWidth)
	}

	if n := it.Descriptor.Size(); n >= 0 && len(raw) != n*info.byteWidth {
		return fmt.Errorf("%w: item %q dense value is %d bytes, want %d",
			errs.ErrValueMismatch, it.Descriptor.Name, len(raw), n*info.byteWidth)
	}

	it.dense = raw
	it.set = true
	it.changed = true

	return nil
}

// Changed reports whether the value has been set since the last ClearChanged.
func (it *Item) Changed() bool { return it.changed }

// ClearChanged resets the changed flag, typically after a heap carrying this
// item's value has been built.
func (it *Item) ClearChanged() { it.changed = false }

// Rows returns the last decoded or set row value. Only meaningful for
// dtype-less items.
func (it *Item) Rows() []bitcodec.Row { return it.rows }

// Dense returns the last decoded or set dense value, in the descriptor's
// declared native byte order. Only meaningful for dtype items.
func (it *Item) Dense() []byte { return it.dense }

// EncodeValue packs the item's current value into wire bytes. Fails with an
// uninitialized-item error if no value has been set.
func (it *Item) EncodeValue() ([]byte, error) {
	if !it.set {
		return nil, fmt.Errorf("%w: item %q", errs.ErrUninitializedItem, it.Descriptor.Name)
	}

	if it.Descriptor.Dtype != "" {
		return encodeDense(it.Descriptor.Dtype, it.dense)
	}

	return bitcodec.Pack(it.Descriptor.Format, it.rows)
}

// DecodeValue parses wire bytes into the item's value. bitOffset is the
// number of leading bits (any non-negative count, not just a sub-byte
// remainder) to skip before the first packed row starts; it is used for
// immediate-encoded values, which are left-padded to ADDR_BITS, and is
// ignored for dtype items, which always decode as a contiguous
// byte-aligned array.
func (it *Item) DecodeValue(data []byte, bitOffset int) error {
	if it.Descriptor.Dtype != "" {
		raw, err := decodeDense(it.Descriptor.Dtype, data)
		if err != nil {
			return err
		}

		it.dense = raw
		it.set = true

		return nil
	}

	byteOff := bitOffset / 8
	subBit := bitOffset % 8
	if byteOff > len(data) {
		return fmt.Errorf("%w: item %q bit offset %d exceeds value length", errs.ErrCodecOutOfRange, it.Descriptor.Name, bitOffset)
	}

	rows, err := bitcodec.Unpack(it.Descriptor.Format, data[byteOff:], it.Descriptor.Size(), subBit)
	if err != nil {
		return err
	}

	it.rows = rows
	it.set = true

	return nil
}
