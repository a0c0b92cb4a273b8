package ie

import "fmt"

// BitString is a length-qualified bit sequence (spec.md §4.5): like an
// OctetString but bounded and measured in bits rather than bytes. Codecs
// that care about "unused bits in last octet" (BER) read BitLen to compute
// it; the octet codec treats it identically to an OctetString payload.
type BitString struct {
	name             string
	minBits, maxBits int
	set              bool
	data             []byte
	bitLen           int
}

var (
	_ IE     = (*BitString)(nil)
	_ Copier = (*BitString)(nil)
)

// NewBitString constructs a bit-string field bounded to [minBits,maxBits]
// bits. maxBits == 0 means unbounded.
func NewBitString(name string, minBits, maxBits int) *BitString {
	return &BitString{name: name, minBits: minBits, maxBits: maxBits}
}

// Kind implements IE.
func (s *BitString) Kind() Kind { return KindBitString }

// Name implements IE.
func (s *BitString) Name() string { return s.name }

// IsSet implements IE.
func (s *BitString) IsSet() bool { return s.set }

// Clear implements IE.
func (s *BitString) Clear() {
	s.data = nil
	s.bitLen = 0
	s.set = false
}

// MinBits returns the minimum allowed length in bits.
func (s *BitString) MinBits() int { return s.minBits }

// MaxBits returns the maximum allowed length in bits, or 0 for unbounded.
func (s *BitString) MaxBits() int { return s.maxBits }

// BitLen returns the exact number of valid bits in the current payload.
func (s *BitString) BitLen() int { return s.bitLen }

// Bytes returns the packed bit payload; the last byte may have unused
// trailing bits beyond BitLen.
func (s *BitString) Bytes() []byte { return s.data }

// UnusedBits returns the count of unused bits in the last byte, the value
// BER-family codecs prefix the payload with.
func (s *BitString) UnusedBits() int {
	if s.bitLen == 0 {
		return 0
	}
	rem := s.bitLen % 8
	if rem == 0 {
		return 0
	}

	return 8 - rem
}

// Set assigns a packed bit payload of exactly bitLen valid bits. len(p)
// must equal ceil(bitLen/8).
func (s *BitString) Set(p []byte, bitLen int) error {
	if bitLen < s.minBits || (s.maxBits > 0 && bitLen > s.maxBits) {
		return fmt.Errorf("med: field %q bit length %d out of bounds [%d,%d]", s.name, bitLen, s.minBits, s.maxBits)
	}
	wantBytes := (bitLen + 7) / 8
	if len(p) != wantBytes {
		return fmt.Errorf("med: field %q expects %d packed bytes for %d bits, got %d", s.name, wantBytes, bitLen, len(p))
	}
	s.data = append([]byte(nil), p...)
	s.bitLen = bitLen
	s.set = true

	return nil
}

// SetOwned is the zero-copy counterpart of Set, used by decoders.
func (s *BitString) SetOwned(p []byte, bitLen int) error {
	if bitLen < s.minBits || (s.maxBits > 0 && bitLen > s.maxBits) {
		return fmt.Errorf("med: field %q bit length %d out of bounds [%d,%d]", s.name, bitLen, s.minBits, s.maxBits)
	}
	s.data = p
	s.bitLen = bitLen
	s.set = true

	return nil
}

// CopyFrom implements Copier.
func (s *BitString) CopyFrom(src IE) bool {
	o, ok := src.(*BitString)
	if !ok {
		return false
	}
	s.data = append([]byte(nil), o.data...)
	s.bitLen = o.bitLen
	s.set = o.set

	return true
}
