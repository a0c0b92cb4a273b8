package buffer

// Padding describes a container's alignment policy: its encoded span is
// padded with Filler bytes until it is a multiple of Quantum bits.
// Inclusive padding measures the span from the start of the container's own
// length field (if any); exclusive padding measures only the payload,
// excluding that length field. See spec invariant 7.
type Padding struct {
	QuantumBits int
	Filler      byte
	Inclusive   bool
}

// IsZero reports whether no padding is configured.
func (p Padding) IsZero() bool { return p.QuantumBits == 0 }

// FillerLen computes the number of filler bytes needed to align spanBytes (the
// measured length per Inclusive/Exclusive semantics) to the quantum.
func (p Padding) FillerLen(spanBytes int) int {
	if p.QuantumBits == 0 {
		return 0
	}
	quantumBytes := p.QuantumBits / 8
	if quantumBytes <= 0 {
		return 0
	}
	rem := spanBytes % quantumBytes
	if rem == 0 {
		return 0
	}

	return quantumBytes - rem
}

// Apply writes (encode) or skips (decode-by-advance) the filler bytes
// needed to align the container whose payload started at startCursor.
// lenFieldSize is the width in bytes of the container's own length field,
// used only when Inclusive is true to fold it into the measured span.
func (p Padding) Apply(field string, b *Buffer, startCursor int, lenFieldSize int) error {
	if p.QuantumBits == 0 {
		return nil
	}

	span := b.Cursor() - startCursor
	if p.Inclusive {
		span += lenFieldSize
	}

	n := p.FillerLen(span)
	if n == 0 {
		return nil
	}

	return b.Fill(field, n, p.Filler)
}

// ApplyDecode advances the cursor past the filler bytes emitted by Apply,
// using the same span accounting rules.
func (p Padding) ApplyDecode(field string, b *Buffer, startCursor int, lenFieldSize int) error {
	if p.QuantumBits == 0 {
		return nil
	}

	span := b.Cursor() - startCursor
	if p.Inclusive {
		span += lenFieldSize
	}

	n := p.FillerLen(span)
	if n == 0 {
		return nil
	}

	return b.Advance(field, n)
}
