package xmit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-spead/spead-go/group"
	"github.com/ska-spead/spead-go/heap"
	"github.com/ska-spead/spead-go/wire"
	"github.com/ska-spead/spead-go/xmit"
)

func collect(t *testing.T, cfg wire.Config, bh group.BuiltHeap, maxPacketSize int) []wire.Packet {
	t.Helper()

	var packets []wire.Packet
	for raw, err := range xmit.GeneratePackets(cfg, bh, maxPacketSize) {
		require.NoError(t, err)

		p, _, err := wire.UnpackPacket(raw, cfg)
		require.NoError(t, err)
		packets = append(packets, p)
	}

	return packets
}

func TestGeneratePacketsSinglePacket(t *testing.T) {
	cfg := wire.DefaultConfig()

	bh := group.BuiltHeap{
		HeapCnt:     3,
		Descriptors: [][]byte{[]byte("descriptor-bytes")},
		Entries: []group.Entry{
			{ID: wire.UnreservedIDBase + 1, Direct: false, Bytes: []byte{0x00, 0x2A}},
		},
	}

	packets := collect(t, cfg, bh, wire.MaxPacketLen)
	require.Len(t, packets, 1)

	p := packets[0]
	assert.False(t, p.IsTerminal())

	hc, ok := p.Find(wire.IDHeapCnt)
	require.True(t, ok)
	assert.Equal(t, uint64(3), hc.Value)
}

func TestGeneratePacketsFragmentsAndReassembles(t *testing.T) {
	cfg := wire.DefaultConfig()

	bigPayload := make([]byte, 500)
	for i := range bigPayload {
		bigPayload[i] = byte(i)
	}

	bh := group.BuiltHeap{
		HeapCnt:     9,
		Descriptors: [][]byte{[]byte("desc")},
		Entries: []group.Entry{
			{ID: wire.UnreservedIDBase + 5, Direct: true, Bytes: bigPayload},
		},
	}

	const maxPacketSize = 128

	a := heap.NewAssembler()
	count := 0
	for raw, err := range xmit.GeneratePackets(cfg, bh, maxPacketSize) {
		require.NoError(t, err)
		require.LessOrEqual(t, len(raw), maxPacketSize)

		p, _, err := wire.UnpackPacket(raw, cfg)
		require.NoError(t, err)
		require.NoError(t, a.AddPacket(p))
		count++
	}

	require.Greater(t, count, 1)

	h := a.Finalize()
	require.True(t, h.Valid)

	slice, ok := h.Direct(wire.UnreservedIDBase + 5)
	require.True(t, ok)
	assert.Equal(t, bigPayload, slice)
	require.Len(t, h.Descriptors, 1)
	assert.Equal(t, []byte("desc"), h.Descriptors[0])
}

func TestEndProducesTerminalPacket(t *testing.T) {
	cfg := wire.DefaultConfig()

	b, err := xmit.End(cfg)
	require.NoError(t, err)

	p, _, err := wire.UnpackPacket(b, cfg)
	require.NoError(t, err)
	assert.True(t, p.IsTerminal())
}
