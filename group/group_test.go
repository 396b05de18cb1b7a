package group_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-spead/spead-go/bitcodec"
	"github.com/ska-spead/spead-go/descriptor"
	"github.com/ska-spead/spead-go/format"
	"github.com/ska-spead/spead-go/group"
	"github.com/ska-spead/spead-go/heap"
	"github.com/ska-spead/spead-go/wire"
)

func TestBuildHeapImmediateSmallValue(t *testing.T) {
	cfg := wire.DefaultConfig()
	g := group.New(cfg)

	it := g.Add(descriptor.Descriptor{
		ID:     0x1001,
		Name:   "temperature",
		Shape:  format.NewFixedShape(1),
		Format: format.Format{format.Unsigned(16)},
	})
	require.NoError(t, it.SetRows([]bitcodec.Row{{uint64(42)}}))

	bh, err := g.BuildHeap()
	require.NoError(t, err)

	require.Len(t, bh.Descriptors, 1)
	require.Len(t, bh.Entries, 1)
	assert.False(t, bh.Entries[0].Direct)
	assert.Equal(t, uint64(1), bh.HeapCnt)
	assert.False(t, it.Changed())
}

func TestBuildHeapDirectForLargeValue(t *testing.T) {
	cfg := wire.DefaultConfig()
	g := group.New(cfg)

	rows := make([]bitcodec.Row, 100)
	for i := range rows {
		rows[i] = bitcodec.Row{uint64(i)}
	}

	it := g.Add(descriptor.Descriptor{
		ID:     0x1002,
		Name:   "big_array",
		Shape:  format.NewFixedShape(100),
		Format: format.Format{format.Unsigned(32)},
	})
	require.NoError(t, it.SetRows(rows))

	bh, err := g.BuildHeap()
	require.NoError(t, err)

	require.Len(t, bh.Entries, 1)
	assert.True(t, bh.Entries[0].Direct)
}

func TestBuildHeapSkipsUnchangedDescriptorResend(t *testing.T) {
	cfg := wire.DefaultConfig()
	g := group.New(cfg)

	it := g.Add(descriptor.Descriptor{
		ID:     0x1003,
		Name:   "static_item",
		Shape:  format.NewFixedShape(1),
		Format: format.Format{format.Unsigned(8)},
	})
	require.NoError(t, it.SetRows([]bitcodec.Row{{uint64(1)}}))

	bh1, err := g.BuildHeap()
	require.NoError(t, err)
	assert.Len(t, bh1.Descriptors, 1)

	// Re-queue the same descriptor without changing it: content cache
	// should dedup and skip the resend.
	g.Add(it.Descriptor)

	bh2, err := g.BuildHeap()
	require.NoError(t, err)
	assert.Len(t, bh2.Descriptors, 0)
}

func TestApplyHeapCreatesItemsAndDecodesValues(t *testing.T) {
	cfg := wire.DefaultConfig()

	d := descriptor.Descriptor{
		ID:     0x1010,
		Name:   "gain",
		Shape:  format.NewFixedShape(1),
		Format: format.Format{format.Unsigned(16)},
	}
	encoded, err := d.Encode(cfg)
	require.NoError(t, err)

	packed, err := bitcodec.Pack(d.Format, []bitcodec.Row{{uint64(7)}})
	require.NoError(t, err)

	immediateVal, err := wire.ImmediateValue(packed, cfg)
	require.NoError(t, err)

	h := &heap.Heap{
		HeapCnt:     2,
		Descriptors: [][]byte{encoded},
		Immediates:  map[uint32]uint64{d.ID: immediateVal},
		Directs:     map[uint32][]byte{},
		Valid:       true,
	}

	g := group.New(cfg)
	require.NoError(t, g.ApplyHeap(h))

	it, ok := g.ItemByName("gain")
	require.True(t, ok)
	require.Len(t, it.Rows(), 1)
	assert.Equal(t, uint64(7), it.Rows()[0][0])
	assert.Equal(t, uint64(2), g.HeapCnt())
}
