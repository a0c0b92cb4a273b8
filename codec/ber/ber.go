// Package ber implements container.Codec for the BER (X.690) flavor named
// in spec.md §6: multi-byte tag numbers ≥31, definite short/long-form
// length octets, and a bit-string payload prefixed with its unused-bit
// count. Integer values are written and read at exactly the width the
// caller's schema declares: encode does not produce the minimum-octet
// form, and decode does not infer an integer's width from its length
// octets.
package ber

import (
	"github.com/gocodec/med/buffer"
	"github.com/gocodec/med/container"
	"github.com/gocodec/med/errs"
	"github.com/gocodec/med/meta"
	"github.com/gocodec/med/placeholder"
)

// Codec implements container.Codec for BER identifier/length octets.
type Codec struct {
	filler byte
}

var _ container.Codec = (*Codec)(nil)

// New builds a BER Codec.
func New() *Codec { return &Codec{filler: 0x00} }

// WithFiller overrides the default 0x00 padding filler and returns the
// receiver for chaining.
func (c *Codec) WithFiller(b byte) *Codec {
	c.filler = b

	return c
}

// EncodeValue writes val as a big-endian two's-complement integer of
// exactly widthBits/8 octets, the fixed width the schema declares; it does
// not use the minimum-octet form.
func (c *Codec) EncodeValue(b *buffer.Buffer, field string, widthBits int, val uint64) error {
	n := widthBits / 8
	tmp := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		tmp[i] = byte(val)
		val >>= 8
	}

	return b.WriteBytes(field, tmp)
}

// DecodeValue reads widthBits/8 big-endian octets.
func (c *Codec) DecodeValue(b *buffer.Buffer, field string, widthBits int) (uint64, error) {
	p, err := b.ReadBytes(field, widthBits/8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, by := range p {
		v = v<<8 | uint64(by)
	}

	return v, nil
}

// EncodeOctets writes data verbatim; BER's own TLV framing supplies the
// length, so no separate internal framing byte is needed here (contrast
// codec/octet, which self-describes compression).
func (c *Codec) EncodeOctets(b *buffer.Buffer, field string, data []byte) error {
	return b.WriteBytes(field, data)
}

// DecodeOctets reads exactly n bytes.
func (c *Codec) DecodeOctets(b *buffer.Buffer, field string, n int) ([]byte, error) {
	p, err := b.ReadBytes(field, n)
	if err != nil {
		return nil, err
	}

	return append([]byte(nil), p...), nil
}

// EncodeBits writes the BER bit-string payload: a leading unused-bits
// octet followed by the packed bits.
func (c *Codec) EncodeBits(b *buffer.Buffer, field string, data []byte, bitLen int) error {
	unused := 0
	if rem := bitLen % 8; rem != 0 {
		unused = 8 - rem
	}
	if err := b.Push(field, byte(unused)); err != nil {
		return err
	}

	return b.WriteBytes(field, data)
}

// DecodeBits reads the unused-bits octet then the packed payload.
func (c *Codec) DecodeBits(b *buffer.Buffer, field string, bitLen int) ([]byte, error) {
	if _, err := b.Pop(field); err != nil { // unused-bits octet, not re-derived
		return nil, err
	}
	n := (bitLen + 7) / 8

	p, err := b.ReadBytes(field, n)
	if err != nil {
		return nil, err
	}

	return append([]byte(nil), p...), nil
}

// EncodeTag writes a BER identifier octet. Tag numbers 0-30 use the short
// form (the value sits directly in the octet's low 5 bits); 31 is reserved
// by X.690 as the escape marker into the high-tag-number long form, so a
// literal tag number of 31 or above is written as the 0x1f marker octet
// followed by continuation octets carrying the full tag number.
func (c *Codec) EncodeTag(b *buffer.Buffer, t meta.TagInfo) error {
	if t.Value >= 0x1f {
		return encodeMultiByteTag(b, t)
	}

	return b.Push(t.Name, byte(t.Value))
}

func encodeMultiByteTag(b *buffer.Buffer, t meta.TagInfo) error {
	if err := b.Push(t.Name, 0x1f); err != nil {
		return err
	}
	num := t.Value

	var octets []byte
	for {
		octets = append([]byte{byte(num & 0x7f)}, octets...)
		num >>= 7
		if num == 0 {
			break
		}
	}
	for i := 0; i < len(octets)-1; i++ {
		octets[i] |= 0x80
	}

	return b.WriteBytes(t.Name, octets)
}

// DecodeTag reads a BER identifier octet (and its continuation octets for a
// multi-byte tag number).
func (c *Codec) DecodeTag(b *buffer.Buffer, t meta.TagInfo) (uint64, error) {
	before := b.Cursor()
	first, err := b.Pop(t.Name)
	if err != nil {
		return 0, err
	}
	val := uint64(first)
	if first&0x1f == 0x1f {
		val = uint64(first &^ 0x1f)
		num := uint64(0)
		for {
			by, err := b.Pop(t.Name)
			if err != nil {
				return 0, err
			}
			num = num<<7 | uint64(by&0x7f)
			if by&0x80 == 0 {
				break
			}
		}
		val |= num
	}
	if t.Peek {
		b.SetState(before)
	}

	return val, nil
}

// EncodeLen writes a BER definite-form length: short form (single octet)
// for lengths under 128, long form (length-of-length octet followed by the
// big-endian length) otherwise.
func (c *Codec) EncodeLen(b *buffer.Buffer, l meta.LenInfo, payloadLen int) error {
	n := payloadLen - l.Delta
	if l.LengthToValue != nil {
		v, err := l.LengthToValue(payloadLen)
		if err != nil {
			return err
		}
		n = int(v)
	}

	if n < 0x80 {
		return b.Push(l.Name, byte(n))
	}

	var octets []byte
	v := n
	for v > 0 {
		octets = append([]byte{byte(v)}, octets...)
		v >>= 8
	}
	if err := b.Push(l.Name, byte(0x80|len(octets))); err != nil {
		return err
	}

	return b.WriteBytes(l.Name, octets)
}

// DecodeLen reads a BER definite-form length.
func (c *Codec) DecodeLen(b *buffer.Buffer, l meta.LenInfo) (int, error) {
	first, err := b.Pop(l.Name)
	if err != nil {
		return 0, err
	}
	v := int(first)
	if first&0x80 != 0 {
		n := int(first &^ 0x80)
		p, err := b.ReadBytes(l.Name, n)
		if err != nil {
			return 0, err
		}
		v = 0
		for _, by := range p {
			v = v<<8 | int(by)
		}
	}
	if l.ValueToLength != nil {
		return l.ValueToLength(uint64(v))
	}

	return v + l.Delta, nil
}

// PatchLength is unsupported for BER: definite-form lengths are variable
// width, so a reserved fixed-width slot can't generally be back-patched in
// place. Schemas targeting BER should avoid length Placeholders and rely on
// EncodeLen's up-front length computation instead (BER's TLV framing
// always knows its payload length before it writes the length octets).
func (c *Codec) PatchLength(b *buffer.Buffer, ph *placeholder.Placeholder, snapshotCursor int, raw uint64) error {
	return errs.InvalidValue(ph.Name, snapshotCursor, "BER codec does not support length placeholders")
}

// DefaultFiller implements container.Codec.
func (c *Codec) DefaultFiller() byte { return c.filler }
