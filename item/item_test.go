package item_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-spead/spead-go/bitcodec"
	"github.com/ska-spead/spead-go/descriptor"
	"github.com/ska-spead/spead-go/format"
	"github.com/ska-spead/spead-go/item"
)

func TestItemRowsRoundTrip(t *testing.T) {
	d := descriptor.Descriptor{
		ID:     0x1001,
		Shape:  format.NewFixedShape(3),
		Format: format.Format{format.Unsigned(12)},
	}

	it := item.New(d)
	rows := []bitcodec.Row{{uint64(1)}, {uint64(2000)}, {uint64(4095)}}
	require.NoError(t, it.SetRows(rows))

	b, err := it.EncodeValue()
	require.NoError(t, err)

	got := item.New(d)
	require.NoError(t, got.DecodeValue(b, 0))
	assert.Equal(t, rows, got.Rows())
}

func TestItemUninitializedEncode(t *testing.T) {
	d := descriptor.Descriptor{Shape: format.NewFixedShape(1), Format: format.Format{format.Unsigned(8)}}
	it := item.New(d)

	_, err := it.EncodeValue()
	assert.Error(t, err)
}

func TestItemDenseRoundTrip(t *testing.T) {
	d := descriptor.Descriptor{
		ID:     0x1002,
		Shape:  format.NewFixedShape(4),
		Format: format.Format{format.Signed(16)},
		Dtype:  "<i2",
	}

	raw := []byte{0x01, 0x00, 0xFF, 0xFF, 0x10, 0x20, 0x00, 0x80}

	it := item.New(d)
	require.NoError(t, it.SetDense(raw))

	b, err := it.EncodeValue()
	require.NoError(t, err)
	assert.NotEqual(t, raw, b) // byte-swapped on the wire

	got := item.New(d)
	require.NoError(t, got.DecodeValue(b, 0))
	assert.Equal(t, raw, got.Dense())
}

func TestItemSetDenseRejectsWrongKindAPI(t *testing.T) {
	d := descriptor.Descriptor{Shape: format.NewFixedShape(1), Format: format.Format{format.Unsigned(8)}}
	it := item.New(d)

	err := it.SetDense([]byte{1})
	assert.Error(t, err)
}

func TestItemSetRowsArityMismatch(t *testing.T) {
	d := descriptor.Descriptor{Shape: format.NewFixedShape(2), Format: format.Format{format.Unsigned(8)}}
	it := item.New(d)

	err := it.SetRows([]bitcodec.Row{{uint64(1)}})
	assert.Error(t, err)
}
