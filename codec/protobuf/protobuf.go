// Package protobuf implements container.Codec for the Protobuf-varint
// flavor named in spec.md §6: LEB128 varints via
// google.golang.org/protobuf/encoding/protowire and a field tag packed as
// (field_number<<3)|wire_type. Tags are written with wire type 0 (varint)
// or 2 (length-delimited) only; the fixed 64-bit (1) and 32-bit (5) wire
// types are not produced, and values are always varints.
package protobuf

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/gocodec/med/buffer"
	"github.com/gocodec/med/container"
	"github.com/gocodec/med/errs"
	"github.com/gocodec/med/meta"
	"github.com/gocodec/med/placeholder"
)

// SignedEncoding selects how a Value IE's signed bit pattern maps to the
// varint wire type, resolving spec.md's Open Question between raw
// two's-complement (cheap, but small negatives cost 10 bytes) and ZigZag
// (protobuf's own sint32/sint64 convention).
type SignedEncoding uint8

const (
	// TwosComplement encodes signed values as their unsigned bit pattern
	// (protobuf's plain int32/int64 convention).
	TwosComplement SignedEncoding = iota
	// ZigZag encodes signed values with protowire's zigzag mapping
	// (protobuf's sint32/sint64 convention), keeping small negative
	// numbers cheap to encode.
	ZigZag
)

// Codec implements container.Codec for the Protobuf-varint wire format.
// Every "value" (tag and length included) is a varint; OctetString/BitString
// payloads are length-delimited (wire type 2).
type Codec struct {
	signed SignedEncoding
	filler byte
}

var _ container.Codec = (*Codec)(nil)

// New builds a protobuf Codec. This repository's Open Question resolution
// (see DESIGN.md) defaults to ZigZag, matching protobuf's own sint32/64
// convention for schemas that carry negative values.
func New() *Codec {
	return &Codec{signed: ZigZag, filler: 0x00}
}

// WithSignedEncoding overrides the signed-integer wire convention and
// returns the receiver for chaining.
func (c *Codec) WithSignedEncoding(enc SignedEncoding) *Codec {
	c.signed = enc

	return c
}

// EncodeValue writes val as a bare LEB128 varint (wire type 0). The
// container.Codec interface carries no signedness for a Value field, so
// this always writes val's raw bit pattern unchanged; a schema whose field
// is declared signed should go through EncodeSignedValue instead (it is not
// part of container.Codec since Sequence/Set/Choice have no way to know a
// field's signedness — only a schema author writing the field's own
// encode/decode wiring does).
func (c *Codec) EncodeValue(b *buffer.Buffer, field string, widthBits int, val uint64) error {
	return b.WriteBytes(field, protowire.AppendVarint(nil, val))
}

// DecodeValue reads a LEB128 varint.
func (c *Codec) DecodeValue(b *buffer.Buffer, field string, widthBits int) (uint64, error) {
	v, n := protowire.ConsumeVarint(b.Bytes()[b.Cursor():])
	if n < 0 {
		return 0, errs.Overflow(field, b.Cursor(), 1, b.Size())
	}
	if err := b.Advance(field, n); err != nil {
		return 0, err
	}

	return v, nil
}

// EncodeSignedValue writes val (a bit pattern produced by ie.Value[T] for a
// signed T, sign-extended to 64 bits) using this codec's configured
// SignedEncoding: ZigZag maps it through protowire's zigzag transform so
// small negatives stay cheap, TwosComplement writes it as-is via
// EncodeValue.
func (c *Codec) EncodeSignedValue(b *buffer.Buffer, field string, val uint64) error {
	if c.signed == ZigZag {
		return b.WriteBytes(field, protowire.AppendVarint(nil, protowire.EncodeZigZag(int64(val))))
	}

	return c.EncodeValue(b, field, 64, val)
}

// DecodeSignedValue is EncodeSignedValue's counterpart, returning the
// sign-extended 64-bit bit pattern ie.Value[T] expects.
func (c *Codec) DecodeSignedValue(b *buffer.Buffer, field string) (uint64, error) {
	if c.signed != ZigZag {
		return c.DecodeValue(b, field, 64)
	}

	v, n := protowire.ConsumeVarint(b.Bytes()[b.Cursor():])
	if n < 0 {
		return 0, errs.Overflow(field, b.Cursor(), 1, b.Size())
	}
	if err := b.Advance(field, n); err != nil {
		return 0, err
	}

	return uint64(protowire.DecodeZigZag(v)), nil
}

// EncodeOctets writes data as a length-delimited (wire type 2) run: its
// own varint length prefix, then the bytes.
func (c *Codec) EncodeOctets(b *buffer.Buffer, field string, data []byte) error {
	if err := b.WriteBytes(field, protowire.AppendVarint(nil, uint64(len(data)))); err != nil {
		return err
	}

	return b.WriteBytes(field, data)
}

// DecodeOctets reads a length-delimited run's own varint length prefix
// (ignoring the caller-supplied n, since protobuf framing is
// self-describing) followed by that many bytes.
func (c *Codec) DecodeOctets(b *buffer.Buffer, field string, n int) ([]byte, error) {
	length, lenN := protowire.ConsumeVarint(b.Bytes()[b.Cursor():])
	if lenN < 0 {
		return nil, errs.Overflow(field, b.Cursor(), 1, b.Size())
	}
	if err := b.Advance(field, lenN); err != nil {
		return nil, err
	}
	p, err := b.ReadBytes(field, int(length))
	if err != nil {
		return nil, err
	}

	return append([]byte(nil), p...), nil
}

// EncodeBits treats a bit-string identically to an octet-string: protobuf
// has no native bit-packed wire type, so it is carried as a
// length-delimited byte run.
func (c *Codec) EncodeBits(b *buffer.Buffer, field string, data []byte, bitLen int) error {
	return c.EncodeOctets(b, field, data)
}

// DecodeBits mirrors EncodeBits.
func (c *Codec) DecodeBits(b *buffer.Buffer, field string, bitLen int) ([]byte, error) {
	return c.DecodeOctets(b, field, (bitLen+7)/8)
}

// EncodeTag writes a protobuf field tag: (field_number<<3)|wire_type.
// t.Value is the field number; t.WidthBits selects the wire type (0 → 2,
// otherwise varint 0).
func (c *Codec) EncodeTag(b *buffer.Buffer, t meta.TagInfo) error {
	wt := protowire.VarintType
	if t.WidthBits == 0 {
		wt = protowire.BytesType
	}

	return b.WriteBytes(t.Name, protowire.AppendTag(nil, protowire.Number(t.Value), wt))
}

// DecodeTag reads a protobuf field tag and returns the field number (the
// wire type is implied by how the caller then reads the payload).
func (c *Codec) DecodeTag(b *buffer.Buffer, t meta.TagInfo) (uint64, error) {
	before := b.Cursor()
	num, _, n := protowire.ConsumeTag(b.Bytes()[b.Cursor():])
	if n < 0 {
		return 0, errs.Overflow(t.Name, b.Cursor(), 1, b.Size())
	}
	if err := b.Advance(t.Name, n); err != nil {
		return 0, err
	}
	if t.Peek {
		b.SetState(before)
	}

	return uint64(num), nil
}

// EncodeLen is a no-op: protobuf's length-delimited wire type carries its
// own length prefix inside EncodeOctets/EncodeBits, so a separate LEN
// meta-info entry has nothing left to write here.
func (c *Codec) EncodeLen(b *buffer.Buffer, l meta.LenInfo, payloadLen int) error {
	return nil
}

// DecodeLen is a no-op counterpart of EncodeLen.
func (c *Codec) DecodeLen(b *buffer.Buffer, l meta.LenInfo) (int, error) {
	return -1, nil
}

// PatchLength is unsupported: protobuf fields are each self-length-delimited
// at the point they're written, so schemas targeting this codec should not
// declare length Placeholders.
func (c *Codec) PatchLength(b *buffer.Buffer, ph *placeholder.Placeholder, snapshotCursor int, raw uint64) error {
	return errs.InvalidValue(ph.Name, snapshotCursor, "protobuf codec does not support length placeholders")
}

// DefaultFiller implements container.Codec. Protobuf has no padding
// convention; this is only consulted if a schema declares one anyway.
func (c *Codec) DefaultFiller() byte { return c.filler }
