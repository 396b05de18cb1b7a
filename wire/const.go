package wire

// Wire-protocol constants.
const (
	ItemBits = 64 // fixed size of one header slot

	Magic   = 0x53 // fixed magic byte
	Version = 0x04 // fixed version byte

	HeaderSize = 8 // bytes

	// MaxPacketLen is the default maximum packet size, jumbo-frame friendly.
	MaxPacketLen = 9200

	// MaxConcurrentHeaps is the default bound on in-flight heaps tracked by
	// the multiplexer (package mux).
	MaxConcurrentHeaps = 16

	// UnreservedIDBase is the first item ID available to user items.
	UnreservedIDBase = 0x1000
)

// Reserved item IDs. These are the only IDs whose semantics are fixed by
// the protocol.
const (
	IDHeapCnt    = 0x01
	IDHeapLen    = 0x02
	IDPayloadOff = 0x03
	IDPayloadLen = 0x04
	IDDescriptor = 0x05
	IDStreamCtrl = 0x06

	IDName        = 0x10
	IDDescription = 0x11
	IDShape       = 0x12
	IDFormat      = 0x13
	IDID          = 0x14
	IDDtype       = 0x15
)

// StreamCtrlTerm is the STREAM_CTRL immediate value marking the last packet
// of a stream.
const StreamCtrlTerm = 0x2

// HeapCntAllOnes is the HEAP_CNT value carried by a terminator packet.
const HeapCntAllOnes = 0xFFFFFFFFFFFF // max value representable in 48 addr bits; under 40 addr bits the entry encoding keeps its low 40 bits. Receivers recognise the terminator by STREAM_CTRL, not by this value
