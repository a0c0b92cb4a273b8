package container

import (
	"fmt"

	"github.com/gocodec/med/buffer"
	"github.com/gocodec/med/errs"
	"github.com/gocodec/med/ie"
)

// WireIE is implemented by the container kinds (Sequence, Set, Choice)
// themselves, letting one act as an element of another's field — the
// Go stand-in for the source library's compile-time IE nesting.
type WireIE interface {
	ie.IE
	EncodeWith(c Codec, b *buffer.Buffer) error
	DecodeWith(c Codec, b *buffer.Buffer) error
}

// checkSet reports the ErrMissingIE condition for a leaf element that must
// carry a value before it can be encoded: a Plain Value that was never Set,
// or an OctetString/BitString that was never assigned. Fixed/Init values,
// Null and nested containers are always considered ready.
func checkSet(name string, offset int, elem ie.IE) error {
	switch elem.(type) {
	case ie.ValueIE, *ie.OctetString, *ie.BitString:
		if !elem.IsSet() {
			return errs.MissingIE(name, offset, "element not set")
		}
	}

	return nil
}

// encodePayloadBody writes elem's payload bytes (no meta-info) to b,
// dispatching on its concrete leaf/container kind.
func encodePayloadBody(c Codec, b *buffer.Buffer, name string, elem ie.IE) error {
	if err := checkSet(name, b.Cursor(), elem); err != nil {
		return err
	}

	switch v := elem.(type) {
	case ie.ValueIE:
		return c.EncodeValue(b, name, v.WidthBits(), v.GetUint())
	case *ie.OctetString:
		return c.EncodeOctets(b, name, v.Bytes())
	case *ie.BitString:
		return c.EncodeBits(b, name, v.Bytes(), v.BitLen())
	case *ie.Null:
		return nil
	case WireIE:
		return v.EncodeWith(c, b)
	default:
		return fmt.Errorf("med: field %q: unsupported IE type %T", name, elem)
	}
}

// decodePayloadBody reads elem's payload bytes from b and assigns it, using
// avail (byte count from an enclosing LEN meta-info or size-region guard) to
// bound OctetString/BitString reads when no fixed width is declared. avail<0
// means "no explicit bound; use the element's own fixed width or whatever
// remains in the active buffer region".
func decodePayloadBody(c Codec, b *buffer.Buffer, name string, elem ie.IE, avail int) error {
	switch v := elem.(type) {
	case ie.ValueIE:
		raw, err := c.DecodeValue(b, name, v.WidthBits())
		if err != nil {
			return err
		}
		if v.ValueFlavor() == ie.Fixed && raw != v.DefaultUint() {
			return errs.InvalidValue(name, b.Cursor(), "fixed value mismatch: got 0x%x want 0x%x", raw, v.DefaultUint())
		}

		return v.SetUint(raw)
	case *ie.OctetString:
		n := avail
		if n < 0 {
			if v.MinOctets() == v.MaxOctets() && v.MaxOctets() > 0 {
				n = v.MaxOctets()
			} else {
				n = b.Size()
			}
		}
		data, err := c.DecodeOctets(b, name, n)
		if err != nil {
			return err
		}

		return v.SetOwned(data)
	case *ie.BitString:
		n := avail
		bitLen := -1
		if v.MinBits() == v.MaxBits() && v.MaxBits() > 0 {
			bitLen = v.MaxBits()
			n = (bitLen + 7) / 8
		} else if n < 0 {
			n = b.Size()
		}
		if bitLen < 0 {
			bitLen = n * 8
		}
		data, err := c.DecodeBits(b, name, bitLen)
		if err != nil {
			return err
		}

		return v.SetOwned(data, bitLen)
	case *ie.Null:
		return nil
	case WireIE:
		return v.DecodeWith(c, b)
	default:
		return fmt.Errorf("med: field %q: unsupported IE type %T", name, elem)
	}
}
