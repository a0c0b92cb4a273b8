package ie

import "fmt"

// OctetString is a length-bounded byte sequence schema node (spec.md §3,
// §4.5). Min/Max bound the payload length in octets; Max of 0 means
// unbounded.
//
// The source distinguishes inline-fixed, inline-variable and external
// pointer+length storage to avoid heap allocation in C++. A Go slice
// header already is a pointer+length+cap triple managed by the runtime, so
// this port collapses all three storage modes to a single []byte field.
type OctetString struct {
	name     string
	min, max int
	set      bool
	data     []byte
}

var (
	_ IE     = (*OctetString)(nil)
	_ Copier = (*OctetString)(nil)
)

// NewOctetString constructs an octet-string field bounded to [min,max]
// bytes. max == 0 means unbounded.
func NewOctetString(name string, min, max int) *OctetString {
	return &OctetString{name: name, min: min, max: max}
}

// Kind implements IE.
func (s *OctetString) Kind() Kind { return KindOctetString }

// Name implements IE.
func (s *OctetString) Name() string { return s.name }

// IsSet implements IE.
func (s *OctetString) IsSet() bool { return s.set }

// Clear implements IE.
func (s *OctetString) Clear() {
	s.data = nil
	s.set = false
}

// MinOctets returns the minimum allowed length in bytes.
func (s *OctetString) MinOctets() int { return s.min }

// MaxOctets returns the maximum allowed length in bytes, or 0 for
// unbounded.
func (s *OctetString) MaxOctets() int { return s.max }

// Bytes returns the current payload. The caller must not retain it past
// the next Set/Clear call.
func (s *OctetString) Bytes() []byte { return s.data }

// Set assigns the payload, copying it so the field owns its storage. It
// returns an error if len(p) falls outside [min,max].
func (s *OctetString) Set(p []byte) error {
	if err := s.checkLen(len(p)); err != nil {
		return err
	}
	s.data = append([]byte(nil), p...)
	s.set = true

	return nil
}

// SetOwned assigns p directly without copying; the caller must not mutate
// p afterwards. Used by the decoder, which already owns a private copy of
// the input buffer's bytes once sliced from a size region that will not be
// reused.
func (s *OctetString) SetOwned(p []byte) error {
	if err := s.checkLen(len(p)); err != nil {
		return err
	}
	s.data = p
	s.set = true

	return nil
}

func (s *OctetString) checkLen(n int) error {
	if n < s.min || (s.max > 0 && n > s.max) {
		return fmt.Errorf("med: field %q length %d out of bounds [%d,%d]", s.name, n, s.min, s.max)
	}

	return nil
}

// CopyFrom implements Copier.
func (s *OctetString) CopyFrom(src IE) bool {
	o, ok := src.(*OctetString)
	if !ok {
		return false
	}
	s.data = append([]byte(nil), o.data...)
	s.set = o.set

	return true
}
