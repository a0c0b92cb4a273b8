// Package med provides a declarative, schema-driven library for composing
// and (de)serializing binary information elements shared across telecom and
// protocol-like wire formats (Diameter/GTP-style TLV, ASN.1 BER, Protobuf
// varints, and a JSON textual flavor), without hand-writing a parser per
// message type.
//
// # Core Features
//
//   - Leaf IEs (Value, OctetString, BitString, Null) and container IEs
//     (Sequence, Set, Choice) composed from ordinary Go struct fields
//     instead of a generated parser
//   - Mandatory/Optional field wrappers with arity bounds and multi-instance
//     fields backed by an allocator-managed overflow chain
//   - Meta-info-driven tag/length framing, including container-spanning
//     length placeholders resolved by back-patching the encode buffer
//   - Four interchangeable wire codecs sharing one container engine: the
//     detailed octet codec (package codec/octet) plus BER, Protobuf-varint
//     and JSON flavors
//   - Optional payload compression (None, Zstd, S2, LZ4) for OctetString/
//     BitString fields
//
// # Basic Usage
//
// Building a schema is a matter of declaring fields and wiring them into a
// Sequence, then driving it through a codec:
//
//	sessionID := field.NewMandatorySingle("session-id", meta.List{meta.Tag("session-id", 1, 8)},
//	    func() *ie.Value[uint32] { return ie.NewValue[uint32]("session-id") })
//	realm := field.NewOptionalSingle("realm", meta.List{meta.Tag("realm", 2, 8)},
//	    func() *ie.Value[uint16] { return ie.NewValue[uint16]("realm") })
//	seq := container.NewSequence("session-request", buffer.Padding{},
//	    container.FieldEntry(sessionID),
//	    container.FieldEntry(realm),
//	)
//
//	c := octet.New(endian.GetBigEndianEngine())
//	data, err := med.Encode(seq, c)
//	...
//	err = med.Decode(seq, c, data)
//
// For advanced usage — custom codecs, printer sinks, tag-dispatched Set/
// Choice containers — use the container, field, codec/* and printer
// packages directly; this file only wraps the common encode/decode path.
package med

import (
	"github.com/gocodec/med/buffer"
	"github.com/gocodec/med/container"
	"github.com/gocodec/med/internal/pool"
)

// Encode runs root through codec into a freshly allocated byte slice. It
// borrows a pooled message buffer only for its capacity, which sizes the
// newly allocated encode buffer; the encode does not write into pooled
// storage.
func Encode(root container.WireIE, codec container.Codec) ([]byte, error) {
	bb := pool.GetMessageBuffer()
	defer pool.PutMessageBuffer(bb)

	b := buffer.NewEncodeBuffer(bb.Cap())
	if err := root.EncodeWith(codec, b); err != nil {
		return nil, err
	}

	out := make([]byte, len(b.Bytes()))
	copy(out, b.Bytes())

	return out, nil
}

// Decode drives root's fields from data using codec. root retains whatever
// it decoded even if a later field fails; callers that need an all-or-
// nothing decode should Clear() root first and discard it on error.
func Decode(root container.WireIE, codec container.Codec, data []byte) error {
	b := buffer.NewDecodeBuffer(data)

	return root.DecodeWith(codec, b)
}
