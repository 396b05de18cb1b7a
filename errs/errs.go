// Package errs defines the sentinel errors shared by every spead-go package.
//
// Call sites wrap these with additional context using fmt.Errorf("%w: ...", ...)
// so callers can still match the underlying kind with errors.Is.
package errs

import "errors"

// Bit codec errors (package bitcodec).
var (
	ErrFormatInvalid      = errors.New("bitcodec: invalid format component")
	ErrBitWidthOutOfRange = errors.New("bitcodec: bit width out of range")
	ErrEncodingOverflow   = errors.New("bitcodec: value does not fit in bit width")
	ErrCodecOutOfRange    = errors.New("bitcodec: start offset or length out of range")
	ErrRowArityMismatch   = errors.New("bitcodec: row does not match format arity")
)

// Packet codec errors (package wire).
var (
	ErrPacketMalformed  = errors.New("wire: packet malformed")
	ErrMagicMismatch    = errors.New("wire: magic byte mismatch")
	ErrVersionMismatch  = errors.New("wire: version mismatch")
	ErrAddrBitsMismatch = errors.New("wire: addr_bits mismatch")
	ErrItemBitsMismatch = errors.New("wire: item_bits mismatch")
	ErrPayloadShort     = errors.New("wire: payload shorter than declared length")
)

// Descriptor errors (package descriptor).
var (
	ErrDescriptorMalformed = errors.New("descriptor: malformed descriptor heap")
	ErrShapeInvalid        = errors.New("descriptor: invalid shape encoding")
	ErrDtypeInvalid        = errors.New("descriptor: invalid dtype string")
)

// Item errors (package item).
var (
	ErrValueMismatch     = errors.New("item: value shape or arity does not match descriptor")
	ErrUninitializedItem = errors.New("item: value not set")
)

// Heap assembler errors (package heap).
var (
	ErrHeapCntMismatch  = errors.New("heap: heap_cnt mismatch")
	ErrHeapInconsistent = errors.New("heap: overlapping payload fragments disagree")
	ErrHeapCntMissing   = errors.New("heap: packet has no HEAP_CNT item")
)

// Transport errors (package transport).
var (
	ErrTransportClosed = errors.New("transport: closed")
)

// Compression errors (package compress).
var (
	ErrUnsupportedCompression = errors.New("compress: unsupported compression type")
)
