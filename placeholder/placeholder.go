// Package placeholder implements the length-placeholder back-patch
// mechanism: a sequence reserves a fixed-width slot for a length field
// before its payload is known, keeps recording snapshots as sibling fields
// are emitted, and rewrites every reserved slot once the container's final
// cursor position is known (spec.md §4.8).
package placeholder

// Placeholder describes a reserved length slot inside a sequence. Width is
// the number of bytes reserved on the wire (matching the declared
// length-type IE's encoded width). Delta is the constant offset folded into
// the measured span. Inclusive controls whether the placeholder's own
// width counts toward that span (see spec invariant 7 and §4.8).
type Placeholder struct {
	Name      string
	Width     int
	Delta     int
	Inclusive bool

	// ValueToLength converts a decoded length field into a byte count
	// (size-region width). Nil means identity (raw == bytes).
	ValueToLength func(raw uint64) (int, error)

	// LengthToValue converts a computed byte span into the raw value
	// encoded on the wire. Nil means identity.
	LengthToValue func(length int) (uint64, error)
}

// Length computes the byte span covered by this placeholder given the
// snapshot cursor (where the slot was reserved) and the final cursor once
// the enclosing container has finished encoding its siblings.
func (ph *Placeholder) Length(snapshotCursor, finalCursor int) int {
	if ph.Inclusive {
		return finalCursor - snapshotCursor - ph.Delta
	}

	return finalCursor - snapshotCursor - ph.Width - ph.Delta
}

// Snapshot records the cursor position captured when a Placeholder's slot
// was reserved during encode, along with the raw computed length.
type Snapshot struct {
	Placeholder *Placeholder
	Cursor      int
}

// Recorder accumulates snapshots during the encode of a single container
// and resolves them exactly once when that container finishes, per
// invariant 5. A Recorder is only ever used by one encode call; it carries
// no state across operations.
type Recorder struct {
	snaps []Snapshot
}

// Reserve records a snapshot for ph at the given cursor. Each Placeholder
// may be reserved multiple times across nested containers that each embed
// it (e.g. a repeated struct type), but within one Recorder every Reserve
// call produces an independent entry resolved in recording order.
func (r *Recorder) Reserve(ph *Placeholder, cursor int) {
	r.snaps = append(r.snaps, Snapshot{Placeholder: ph, Cursor: cursor})
}

// Pending reports whether any snapshot is still unresolved.
func (r *Recorder) Pending() bool { return len(r.snaps) > 0 }

// ResolveAll invokes fn once for every recorded snapshot, in recording
// order, then drains the recorder so each snapshot is consumed exactly
// once. fn is expected to seek the buffer to the snapshot's container-final
// cursor to measure the span, back-patch the length field, then restore the
// buffer's write cursor to where it was before the patch.
func (r *Recorder) ResolveAll(fn func(Snapshot) error) error {
	for _, s := range r.snaps {
		if err := fn(s); err != nil {
			return err
		}
	}
	r.snaps = r.snaps[:0]

	return nil
}
