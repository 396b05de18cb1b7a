// Package pool provides reusable byte-buffer pools. The packet-sized pool
// backs the UDP source's per-datagram read buffer, avoiding per-packet
// allocation under sustained heap traffic; a heap-blob-sized pool is also
// provided.
package pool

import (
	"io"
	"sync"
)

// Default buffer sizes for the two pools below.
const (
	PacketBufferDefaultSize  = 9200            // matches wire.MaxPacketLen (jumbo-friendly)
	PacketBufferMaxThreshold = 1024 * 64       // discard buffers larger than this on Put
	HeapBufferDefaultSize    = 1024 * 64       // typical assembled heap blob
	HeapBufferMaxThreshold   = 1024 * 1024 * 8 // discard buffers larger than this on Put
)

// ByteBuffer is a growable byte slice designed for pooled reuse.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite writes data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes without
// reallocating.
//
//   - For small buffers (capacity up to 4*PacketBufferDefaultSize, 36,800
//     bytes), grow by PacketBufferDefaultSize to minimize
//     reallocations.
//   - For larger buffers, grow by 25% of current capacity to balance memory
//     usage and reallocation cost.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := PacketBufferDefaultSize
	if cap(bb.B) > 4*PacketBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed. It
// implements io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.MustWrite(data)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w. It implements io.WriterTo.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a sync.Pool-backed pool of ByteBuffers.
//
// Buffers larger than maxThreshold are discarded on Put rather than retained,
// to avoid memory bloat from a single oversized heap.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	packetPool = NewByteBufferPool(PacketBufferDefaultSize, PacketBufferMaxThreshold)
	heapPool   = NewByteBufferPool(HeapBufferDefaultSize, HeapBufferMaxThreshold)
)

// GetPacketBuffer retrieves a ByteBuffer from the default packet-sized pool.
func GetPacketBuffer() *ByteBuffer {
	return packetPool.Get()
}

// PutPacketBuffer returns a ByteBuffer to the default packet-sized pool.
func PutPacketBuffer(bb *ByteBuffer) {
	packetPool.Put(bb)
}

// GetHeapBuffer retrieves a ByteBuffer from the default heap-blob-sized pool.
func GetHeapBuffer() *ByteBuffer {
	return heapPool.Get()
}

// PutHeapBuffer returns a ByteBuffer to the default heap-blob-sized pool.
func PutHeapBuffer(bb *ByteBuffer) {
	heapPool.Put(bb)
}
