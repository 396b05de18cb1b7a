package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-spead/spead-go/errs"
	"github.com/ska-spead/spead-go/wire"
)

func TestItemEntryRoundTrip(t *testing.T) {
	cfg := wire.DefaultConfig()

	cases := []wire.ItemEntry{
		{Direct: false, ID: 0x01, Value: 7},
		{Direct: true, ID: 0x1000, Value: 1 << 20},
		{Direct: false, ID: wire.UnreservedIDBase + 1, Value: 0},
	}

	for _, c := range cases {
		b := c.Bytes(cfg)
		require.Len(t, b, 8)

		got, err := wire.ParseItemEntry(b, cfg)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	cfg := wire.DefaultConfig()
	h := wire.Header{ItemBitsCode: cfg.ItemBitsCode(), AddrBitsCode: cfg.AddrBitsCode(), ItemCount: 3}

	b := h.Bytes()
	got, err := wire.ParseHeader(b, cfg)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestParseHeaderRejectsBadMagic(t *testing.T) {
	cfg := wire.DefaultConfig()
	h := wire.Header{ItemBitsCode: cfg.ItemBitsCode(), AddrBitsCode: cfg.AddrBitsCode(), ItemCount: 1}
	b := h.Bytes()
	b[0] = 0x00

	_, err := wire.ParseHeader(b, cfg)
	assert.Error(t, err)
}

func TestPackUnpackPacketRoundTrip(t *testing.T) {
	cfg := wire.DefaultConfig()
	payload := []byte("abcdefgh")

	items := []wire.ItemEntry{
		{Direct: false, ID: wire.IDHeapCnt, Value: 42},
		{Direct: false, ID: wire.IDPayloadLen, Value: uint64(len(payload))},
		{Direct: false, ID: wire.IDPayloadOff, Value: 0},
		{Direct: false, ID: wire.UnreservedIDBase + 1, Value: 99},
	}

	buf, err := wire.PackPacket(cfg, items, payload)
	require.NoError(t, err)

	p, consumed, err := wire.UnpackPacket(buf, cfg)
	require.NoError(t, err)
	assert.Equal(t, len(buf), consumed)
	assert.Equal(t, payload, p.Payload)
	assert.Len(t, p.Items, len(items))
	assert.False(t, p.IsTerminal())
}

func TestUnpackPacketTerminal(t *testing.T) {
	cfg := wire.DefaultConfig()

	items := []wire.ItemEntry{
		{Direct: false, ID: wire.IDStreamCtrl, Value: wire.StreamCtrlTerm},
	}

	buf, err := wire.PackPacket(cfg, items, nil)
	require.NoError(t, err)

	p, consumed, err := wire.UnpackPacket(buf, cfg)
	require.NoError(t, err)
	assert.True(t, p.IsTerminal())
	assert.Equal(t, len(buf), consumed)
}

func TestUnpackPacketMissingHeapCnt(t *testing.T) {
	cfg := wire.DefaultConfig()

	items := []wire.ItemEntry{
		{Direct: false, ID: wire.IDPayloadLen, Value: 0},
	}

	buf, err := wire.PackPacket(cfg, items, nil)
	require.NoError(t, err)

	_, _, err = wire.UnpackPacket(buf, cfg)
	assert.ErrorIs(t, err, errs.ErrPacketMalformed)
}

func TestUnpackPacketShortPayload(t *testing.T) {
	cfg := wire.DefaultConfig()

	items := []wire.ItemEntry{
		{Direct: false, ID: wire.IDHeapCnt, Value: 1},
		{Direct: false, ID: wire.IDPayloadLen, Value: 100},
	}

	buf, err := wire.PackPacket(cfg, items, []byte("short"))
	require.NoError(t, err)

	_, _, err = wire.UnpackPacket(buf, cfg)
	assert.Error(t, err)
}
