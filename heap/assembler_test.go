package heap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-spead/spead-go/heap"
	"github.com/ska-spead/spead-go/wire"
)

func packet(items []wire.ItemEntry, payload []byte) wire.Packet {
	return wire.Packet{Items: items, Payload: payload}
}

func TestAssemblerSinglePacketValid(t *testing.T) {
	a := heap.NewAssembler()

	p := packet([]wire.ItemEntry{
		{Direct: false, ID: wire.IDHeapCnt, Value: 1},
		{Direct: false, ID: wire.IDHeapLen, Value: 8},
		{Direct: false, ID: wire.IDPayloadOff, Value: 0},
		{Direct: false, ID: wire.IDPayloadLen, Value: 8},
		{Direct: true, ID: wire.UnreservedIDBase + 1, Value: 2},
	}, []byte("abcdefgh"))

	require.NoError(t, a.AddPacket(p))
	assert.True(t, a.Complete())

	h := a.Finalize()
	assert.True(t, h.Valid)
	assert.Equal(t, []byte("abcdefgh"), h.Blob)

	slice, ok := h.Direct(wire.UnreservedIDBase + 1)
	require.True(t, ok)
	assert.Equal(t, []byte("cdefgh"), slice)
}

func TestAssemblerHeapCntMismatch(t *testing.T) {
	a := heap.NewAssembler()

	require.NoError(t, a.AddPacket(packet([]wire.ItemEntry{
		{ID: wire.IDHeapCnt, Value: 1},
	}, nil)))

	err := a.AddPacket(packet([]wire.ItemEntry{
		{ID: wire.IDHeapCnt, Value: 2},
	}, nil))
	assert.Error(t, err)
}

func TestAssemblerMissingHeapCnt(t *testing.T) {
	a := heap.NewAssembler()

	err := a.AddPacket(packet([]wire.ItemEntry{
		{ID: wire.IDPayloadLen, Value: 0},
	}, nil))
	assert.Error(t, err)
}

func TestAssemblerMultiFragmentCoverage(t *testing.T) {
	a := heap.NewAssembler()

	require.NoError(t, a.AddPacket(packet([]wire.ItemEntry{
		{ID: wire.IDHeapCnt, Value: 7},
		{ID: wire.IDHeapLen, Value: 10},
		{ID: wire.IDPayloadOff, Value: 0},
		{ID: wire.IDPayloadLen, Value: 4},
	}, []byte("abcd"))))

	require.NoError(t, a.AddPacket(packet([]wire.ItemEntry{
		{ID: wire.IDHeapCnt, Value: 7},
		{ID: wire.IDPayloadOff, Value: 4},
		{ID: wire.IDPayloadLen, Value: 6},
	}, []byte("efghij"))))

	h := a.Finalize()
	assert.True(t, h.Valid)
	assert.Equal(t, []byte("abcdefghij"), h.Blob)
}

func TestAssemblerGapIsInvalid(t *testing.T) {
	a := heap.NewAssembler()

	require.NoError(t, a.AddPacket(packet([]wire.ItemEntry{
		{ID: wire.IDHeapCnt, Value: 3},
		{ID: wire.IDHeapLen, Value: 10},
		{ID: wire.IDPayloadOff, Value: 0},
		{ID: wire.IDPayloadLen, Value: 4},
	}, []byte("abcd"))))

	h := a.Finalize()
	assert.False(t, h.Valid)
}

func TestAssemblerInconsistentOverlapIsInvalid(t *testing.T) {
	a := heap.NewAssembler()

	require.NoError(t, a.AddPacket(packet([]wire.ItemEntry{
		{ID: wire.IDHeapCnt, Value: 4},
		{ID: wire.IDHeapLen, Value: 4},
		{ID: wire.IDPayloadOff, Value: 0},
		{ID: wire.IDPayloadLen, Value: 4},
	}, []byte("abcd"))))

	require.NoError(t, a.AddPacket(packet([]wire.ItemEntry{
		{ID: wire.IDHeapCnt, Value: 4},
		{ID: wire.IDPayloadOff, Value: 0},
		{ID: wire.IDPayloadLen, Value: 4},
	}, []byte("abXd"))))

	h := a.Finalize()
	assert.False(t, h.Valid)
}

func TestAssemblerDirectOffsetAtHeapLenIsInvalid(t *testing.T) {
	a := heap.NewAssembler()

	p := packet([]wire.ItemEntry{
		{Direct: false, ID: wire.IDHeapCnt, Value: 6},
		{Direct: false, ID: wire.IDHeapLen, Value: 8},
		{Direct: false, ID: wire.IDPayloadOff, Value: 0},
		{Direct: false, ID: wire.IDPayloadLen, Value: 8},
		{Direct: true, ID: wire.UnreservedIDBase + 1, Value: 8},
	}, []byte("abcdefgh"))

	require.NoError(t, a.AddPacket(p))

	h := a.Finalize()
	assert.False(t, h.Valid)
}

func TestAssemblerDuplicateEqualFragmentToleratesOverlap(t *testing.T) {
	a := heap.NewAssembler()

	p := packet([]wire.ItemEntry{
		{ID: wire.IDHeapCnt, Value: 5},
		{ID: wire.IDHeapLen, Value: 4},
		{ID: wire.IDPayloadOff, Value: 0},
		{ID: wire.IDPayloadLen, Value: 4},
	}, []byte("abcd"))

	require.NoError(t, a.AddPacket(p))
	require.NoError(t, a.AddPacket(p))

	h := a.Finalize()
	assert.True(t, h.Valid)
}
