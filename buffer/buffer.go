// Package buffer implements the cursor-managed byte region the octet, BER
// and Protobuf-varint codecs read from and write to.
//
// A Buffer is either bounded (built over a fixed byte slice for decoding) or
// growable (built with a starting capacity for encoding, growing the
// backing slice on demand like the teacher's internal/pool.ByteBuffer). Both
// flavors share the same cursor, state-stack and size-region machinery
// because the sequence/set/choice engines drive encode and decode through
// the identical algorithm shape (see container package).
package buffer

import (
	"github.com/gocodec/med/errs"
)

// Buffer is a contiguous byte region with a read/write cursor, a logical
// end, and a stack of saved cursor/end states. It is not safe for
// concurrent use; one Buffer serves exactly one encode or decode operation.
type Buffer struct {
	data     []byte
	cursor   int
	end      int  // logical end: bound for decode, high-water mark for encode
	growable bool // true for encode buffers, false for fixed decode buffers

	stateStack []int // push_state/pop_state cursor snapshots
	sizeStack  []int // push_size/pop_size saved ends
}

// NewDecodeBuffer wraps data for reading. The cursor starts at 0 and the end
// is fixed at len(data); no write ever grows it.
func NewDecodeBuffer(data []byte) *Buffer {
	return &Buffer{data: data, end: len(data), growable: false}
}

// NewEncodeBuffer creates a growable buffer for writing, pre-allocated to
// capacity bytes.
func NewEncodeBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity), growable: true}
}

// Bytes returns the bytes written so far (encode) or the original data
// (decode). The caller must not retain it past the next mutating call.
func (b *Buffer) Bytes() []byte {
	if b.growable {
		return b.data
	}

	return b.data[:b.end]
}

// Cursor returns the current cursor position, used as the offset reported
// in errors and as a placeholder snapshot identity.
func (b *Buffer) Cursor() int { return b.cursor }

// End returns the current logical end of the buffer.
func (b *Buffer) End() int { return b.end }

// Size returns the number of bytes remaining between cursor and end. For a
// growable buffer with no active size region this is unbounded and
// reported as the largest practical value.
func (b *Buffer) Size() int {
	if b.growable && len(b.sizeStack) == 0 {
		return int(^uint(0) >> 1)
	}

	return b.end - b.cursor
}

// ensure makes room for n more bytes at the cursor when growable, returning
// an Overflow error when the buffer is bounded and too short.
func (b *Buffer) ensure(field string, n int) error {
	if n < 0 {
		return errs.New(errs.ErrInvalidValue, field, b.cursor, "negative length %d", n)
	}

	if b.cursor+n > b.end {
		if !b.growable || len(b.sizeStack) > 0 {
			return errs.Overflow(field, b.cursor, n, b.end-b.cursor)
		}
		// Growable and unbounded: extend the backing slice and the
		// logical end together.
		want := b.cursor + n
		if want > cap(b.data) {
			grown := make([]byte, len(b.data), growCap(cap(b.data), want))
			copy(grown, b.data)
			b.data = grown
		}
		if want > len(b.data) {
			b.data = b.data[:want]
		}
		b.end = want
	}

	return nil
}

func growCap(have, want int) int {
	if have == 0 {
		have = 64
	}
	for have < want {
		have *= 2
	}

	return have
}

// Push writes a single byte at the cursor and advances by one.
func (b *Buffer) Push(field string, by byte) error {
	if err := b.ensure(field, 1); err != nil {
		return err
	}
	b.data[b.cursor] = by
	b.cursor++

	return nil
}

// Pop reads a single byte at the cursor and advances by one.
func (b *Buffer) Pop(field string) (byte, error) {
	if b.cursor+1 > b.end {
		return 0, errs.Overflow(field, b.cursor, 1, b.end-b.cursor)
	}
	by := b.data[b.cursor]
	b.cursor++

	return by, nil
}

// WriteBytes writes p at the cursor, overwriting in place when the cursor
// points inside already-written data (the back-patch case), and advances by
// len(p).
func (b *Buffer) WriteBytes(field string, p []byte) error {
	if err := b.ensure(field, len(p)); err != nil {
		return err
	}
	copy(b.data[b.cursor:b.cursor+len(p)], p)
	b.cursor += len(p)

	return nil
}

// ReadBytes returns a slice of the next n bytes and advances the cursor
// past them. The returned slice aliases the buffer's backing array.
func (b *Buffer) ReadBytes(field string, n int) ([]byte, error) {
	if n < 0 || b.cursor+n > b.end {
		return nil, errs.Overflow(field, b.cursor, n, b.end-b.cursor)
	}
	p := b.data[b.cursor : b.cursor+n]
	b.cursor += n

	return p, nil
}

// Advance moves the cursor by n bytes, positive or negative, failing with
// Overflow if the result would be out of [0, end] for a bounded buffer, or
// negative for a growable one.
func (b *Buffer) Advance(field string, n int) error {
	target := b.cursor + n
	if target < 0 {
		return errs.Overflow(field, b.cursor, n, b.cursor)
	}
	if n > 0 {
		if err := b.ensure(field, n); err != nil {
			return err
		}
	}
	b.cursor = target

	return nil
}

// Fill writes n copies of by at the cursor and advances past them.
func (b *Buffer) Fill(field string, n int, by byte) error {
	if err := b.ensure(field, n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		b.data[b.cursor+i] = by
	}
	b.cursor += n

	return nil
}

// PushState saves the current cursor onto the state stack.
func (b *Buffer) PushState() {
	b.stateStack = append(b.stateStack, b.cursor)
}

// PopState restores the most recently saved cursor.
func (b *Buffer) PopState() {
	n := len(b.stateStack)
	b.cursor = b.stateStack[n-1]
	b.stateStack = b.stateStack[:n-1]
}

// GetState returns the current cursor for manual save/restore (used by
// length-placeholder snapshots, which need the value rather than a stack
// slot).
func (b *Buffer) GetState() int { return b.cursor }

// SetState restores the cursor to a previously captured value.
func (b *Buffer) SetState(s int) { b.cursor = s }

// SizeGuard narrows the buffer's end to the cursor's current position plus
// n bytes. Release restores the previous end; guards nest LIFO, matching
// the spec's size-region invariant.
type SizeGuard struct {
	buf *Buffer
	end int
}

// PushSize narrows end to cursor+n, returning a guard that must be
// released via Release once the narrowed region has been fully consumed.
func (b *Buffer) PushSize(field string, n int) (*SizeGuard, error) {
	if n < 0 || b.cursor+n > b.end {
		return nil, errs.Overflow(field, b.cursor, n, b.end-b.cursor)
	}
	b.sizeStack = append(b.sizeStack, b.end)
	b.end = b.cursor + n

	return &SizeGuard{buf: b, end: b.cursor + n}, nil
}

// Remaining reports how many bytes of the guarded region are unconsumed.
func (g *SizeGuard) Remaining() int {
	return g.buf.end - g.buf.cursor
}

// Release restores the buffer's end to what it was before the matching
// PushSize, per invariant 6 (nested size regions nest LIFO). It returns
// Overflow if the guarded region was not fully consumed.
func (g *SizeGuard) Release(field string) error {
	b := g.buf
	leftover := b.end - b.cursor
	n := len(b.sizeStack)
	b.end = b.sizeStack[n-1]
	b.sizeStack = b.sizeStack[:n-1]
	if leftover != 0 {
		return errs.Overflow(field, b.cursor, 0, leftover)
	}

	return nil
}

// Discard releases the guard without checking for leftover bytes,
// advancing the cursor to the guarded end first. Used when a field is
// skipped (e.g. an optional IE whose tag didn't match) and the remaining
// bytes of its length region must simply be dropped.
func (g *SizeGuard) Discard() {
	b := g.buf
	b.cursor = b.end
	n := len(b.sizeStack)
	b.end = b.sizeStack[n-1]
	b.sizeStack = b.sizeStack[:n-1]
}
