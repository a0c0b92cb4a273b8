// Package pool provides sync.Pool-backed reusable byte buffers. med.Encode
// borrows a message buffer from it only to size the encode buffer that
// package buffer allocates; the pooled buffer's storage is not written to.
package pool

import "sync"

// Default and max-retained sizes for the two buffer pools below: a small
// one for single-message encode buffers, and a larger one for encoding an
// entire batch of messages into one contiguous byte run.
const (
	MessageBufferDefaultSize  = 1024      // 1KiB
	MessageBufferMaxThreshold = 1024 * 64 // 64KiB

	BatchBufferDefaultSize  = 1024 * 64       // 64KiB
	BatchBufferMaxThreshold = 1024 * 1024 * 4 // 4MiB
)

// ByteBuffer is a growable byte buffer meant to be reused via
// ByteBufferPool rather than freed and reallocated on every encode.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Reset empties the buffer, retaining its allocated capacity for reuse.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// Len returns the buffer's current length.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Cap returns the buffer's current capacity.
func (bb *ByteBuffer) Cap() int { return cap(bb.B) }

// Grow ensures the buffer can hold requiredBytes more bytes without a
// further reallocation.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := MessageBufferDefaultSize
	if cap(bb.B) > 4*MessageBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)

	return len(data), nil
}

// ByteBufferPool is a sync.Pool of ByteBuffers, with an optional maximum
// retained capacity so an unusually large encode doesn't permanently
// bloat the pool.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose buffers start at defaultSize and
// are discarded (instead of recycled) once they grow past maxThreshold.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool:         sync.Pool{New: func() any { return NewByteBuffer(defaultSize) }},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)

	return bb
}

// Put returns bb to the pool, discarding it instead if it grew past the
// pool's maxThreshold.
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}
	bb.Reset()
	p.pool.Put(bb)
}

var (
	messageDefaultPool = NewByteBufferPool(MessageBufferDefaultSize, MessageBufferMaxThreshold)
	batchDefaultPool   = NewByteBufferPool(BatchBufferDefaultSize, BatchBufferMaxThreshold)
)

// GetMessageBuffer retrieves a ByteBuffer from the default single-message pool.
func GetMessageBuffer() *ByteBuffer { return messageDefaultPool.Get() }

// PutMessageBuffer returns a ByteBuffer to the default single-message pool.
func PutMessageBuffer(bb *ByteBuffer) { messageDefaultPool.Put(bb) }

// GetBatchBuffer retrieves a ByteBuffer from the default batch-encode pool.
func GetBatchBuffer() *ByteBuffer { return batchDefaultPool.Get() }

// PutBatchBuffer returns a ByteBuffer to the default batch-encode pool.
func PutBatchBuffer(bb *ByteBuffer) { batchDefaultPool.Put(bb) }
