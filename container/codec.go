// Package container implements the Sequence, Set and Choice engines from
// spec.md §4.4, §4.6 and §4.7: the ordered/dispatched/tagged-union
// traversal disciplines every octet, BER, Protobuf-varint and JSON encoder
// drives a schema through.
//
// The source's compile-time IE list (Sequence<IES…>) is lowered to a
// runtime-built Entry slice: a schema type is an ordinary Go struct whose
// constructor builds the Entry list once from its named field.Field
// values, the idiomatic stand-in for the template parameter pack.
package container

import (
	"github.com/gocodec/med/buffer"
	"github.com/gocodec/med/meta"
	"github.com/gocodec/med/placeholder"
)

// Codec is the set of wire-format-specific primitives the Sequence, Set
// and Choice engines drive. Package codec/octet is the detailed,
// spec-authoritative implementation; codec/ber, codec/protobuf and
// codec/json provide the secondary flavors named in spec.md §6.
type Codec interface {
	// EncodeValue writes val (already masked to widthBits) as widthBits/8
	// bytes.
	EncodeValue(b *buffer.Buffer, field string, widthBits int, val uint64) error
	// DecodeValue reads widthBits/8 bytes and returns them as a uint64.
	DecodeValue(b *buffer.Buffer, field string, widthBits int) (uint64, error)

	// EncodeOctets writes data in the codec's octet-string form. Framing
	// differs by codec: codec/octet prefixes a one-byte compression type,
	// codec/protobuf a varint length, codec/json writes base64 in double
	// quotes, and codec/ber writes data verbatim.
	EncodeOctets(b *buffer.Buffer, field string, data []byte) error
	// DecodeOctets reads one payload written by EncodeOctets. n is the
	// framed length from the field's LEN meta-info or size region;
	// codec/protobuf and codec/json ignore n and read their own framing.
	DecodeOctets(b *buffer.Buffer, field string, n int) ([]byte, error)

	// EncodeBits writes a packed bit payload of bitLen valid bits.
	EncodeBits(b *buffer.Buffer, field string, data []byte, bitLen int) error
	// DecodeBits reads a packed bit payload of bitLen valid bits.
	DecodeBits(b *buffer.Buffer, field string, bitLen int) ([]byte, error)

	// EncodeTag writes t's literal value.
	EncodeTag(b *buffer.Buffer, t meta.TagInfo) error
	// DecodeTag reads (or, if t.Peek, previews) a tag-width value without
	// comparing it to t.Value; the caller decides mismatch handling.
	DecodeTag(b *buffer.Buffer, t meta.TagInfo) (uint64, error)

	// EncodeLen computes and writes the LEN meta-info value for a field
	// whose payload is payloadLen bytes.
	EncodeLen(b *buffer.Buffer, l meta.LenInfo, payloadLen int) error
	// DecodeLen reads a LEN meta-info value and returns the payload byte
	// count. codec/octet and codec/ber convert it via l.ValueToLength, or
	// add l.Delta when that is nil; codec/json and codec/protobuf read
	// nothing and return -1.
	DecodeLen(b *buffer.Buffer, l meta.LenInfo) (int, error)

	// PatchLength overwrites the bytes reserved by a length Placeholder
	// at ph's declared width with raw, without moving the buffer's
	// current cursor once done.
	PatchLength(b *buffer.Buffer, ph *placeholder.Placeholder, snapshotCursor int, raw uint64) error

	// DefaultFiller is the padding filler byte this codec family uses
	// when a container doesn't declare one explicitly.
	DefaultFiller() byte
}
