// Package allocator provides the storage supplier multi-fields fall back to
// once their inline capacity is exhausted (spec.md §4.2, §5). A single
// Allocator is shared by every multi-field of one message value; it must
// serve requests in FIFO order without reclamation, matching the source
// library's simple bump-allocation behavior.
package allocator

import "github.com/gocodec/med/errs"

// Allocator supplies byte-addressable storage for multi-field overflow
// elements. Implementations need not support freeing individual
// allocations: per spec.md's Open Questions, a popped element whose slot
// came from the allocator leaks until the whole arena is released.
type Allocator interface {
	// Allocate returns a zeroed byte slice of exactly size bytes, aligned
	// to align bytes (align must be a power of two; 1 means unaligned).
	// It returns ErrOutOfMemory if the allocator cannot satisfy the
	// request.
	Allocate(size, align int) ([]byte, error)

	// Reset releases every allocation made so far, making the arena's
	// capacity available again. It does not zero previously returned
	// slices still referenced by a caller.
	Reset()
}

// Bump is a simple bump (arena) allocator: allocations are served linearly
// from a fixed-capacity backing slice and are never individually freed,
// matching the spec's "simple bump allocator is sufficient" guidance.
type Bump struct {
	arena  []byte
	offset int
}

var _ Allocator = (*Bump)(nil)

// NewBump creates a bump allocator with the given total capacity in bytes.
func NewBump(capacity int) *Bump {
	return &Bump{arena: make([]byte, capacity)}
}

// Allocate implements Allocator.
func (a *Bump) Allocate(size, align int) ([]byte, error) {
	if align < 1 {
		align = 1
	}

	aligned := (a.offset + align - 1) &^ (align - 1)
	if aligned+size > len(a.arena) {
		return nil, errs.OutOfMemory("bump-allocator", size)
	}

	slot := a.arena[aligned : aligned+size : aligned+size]
	clear(slot) // bytes may be left over from before a Reset
	a.offset = aligned + size

	return slot, nil
}

// Reset implements Allocator, rewinding the bump pointer to the start of
// the arena.
func (a *Bump) Reset() {
	a.offset = 0
}

// Unbounded is a bump allocator with no fixed capacity: it grows by
// appending fresh Go-heap slices as needed and never fails with
// ErrOutOfMemory. Useful for tests and for multi-fields whose bound is
// effectively unlimited.
type Unbounded struct{}

var _ Allocator = Unbounded{}

// NewUnbounded returns an Allocator that always succeeds.
func NewUnbounded() Unbounded { return Unbounded{} }

// Allocate implements Allocator.
func (Unbounded) Allocate(size, _ int) ([]byte, error) {
	return make([]byte, size), nil
}

// Reset implements Allocator; a no-op since nothing is tracked.
func (Unbounded) Reset() {}
