// Package json implements container.Codec for the JSON-like textual flavor
// named in spec.md §6: decimal numbers and quoted strings for octet/bit
// payloads. Decode expects the exact bytes encode writes: no whitespace is
// skipped before or between tokens. Tag dispatch for Set/Choice uses the
// FNV-1a hash of the raw field-name bytes (see nameHash) rather than a
// numeric tag the way the binary flavors do — see DESIGN.md.
package json

import (
	"bytes"
	"encoding/base64"
	"strconv"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/gocodec/med/buffer"
	"github.com/gocodec/med/container"
	"github.com/gocodec/med/errs"
	"github.com/gocodec/med/meta"
	"github.com/gocodec/med/placeholder"
)

// stripControl removes non-printable control runes from decoded text, the
// golang.org/x/text-based validation SPEC_FULL.md's DOMAIN STACK section
// assigns to text-flavored octet strings (a JSON string payload that
// happens to be human text, as opposed to base64-framed arbitrary bytes).
var stripControl = runes.Remove(runes.In(unicode.C))

// Codec implements container.Codec for the JSON-like textual wire format.
// Values are emitted as decimal ASCII digits; OctetString/BitString
// payloads are base64-quoted strings; a "tag" is the field's name, quoted.
type Codec struct {
	filler byte
}

var _ container.Codec = (*Codec)(nil)

// New builds a JSON Codec.
func New() *Codec { return &Codec{filler: ' '} }

// EncodeValue writes val as decimal ASCII digits.
func (c *Codec) EncodeValue(b *buffer.Buffer, field string, widthBits int, val uint64) error {
	return b.WriteBytes(field, strconv.AppendUint(nil, val, 10))
}

// DecodeValue reads a run of ASCII decimal digits.
func (c *Codec) DecodeValue(b *buffer.Buffer, field string, widthBits int) (uint64, error) {
	digits := c.scanDigits(b)
	if len(digits) == 0 {
		return 0, errs.InvalidValue(field, b.Cursor(), "expected a decimal number")
	}
	v, err := strconv.ParseUint(string(digits), 10, 64)
	if err != nil {
		return 0, errs.InvalidValue(field, b.Cursor(), "malformed number %q: %v", digits, err)
	}

	return v, nil
}

func (c *Codec) scanDigits(b *buffer.Buffer) []byte {
	start := b.Cursor()
	avail := b.Bytes()[start:]
	i := 0
	for i < len(avail) && avail[i] >= '0' && avail[i] <= '9' {
		i++
	}
	p, _ := b.ReadBytes("", i)

	return p
}

// EncodeOctets writes data as a base64-encoded, double-quoted JSON string.
func (c *Codec) EncodeOctets(b *buffer.Buffer, field string, data []byte) error {
	enc := base64.StdEncoding.EncodeToString(data)
	if err := b.Push(field, '"'); err != nil {
		return err
	}
	if err := b.WriteBytes(field, []byte(enc)); err != nil {
		return err
	}

	return b.Push(field, '"')
}

// DecodeOctets reads a double-quoted base64 JSON string.
func (c *Codec) DecodeOctets(b *buffer.Buffer, field string, n int) ([]byte, error) {
	if _, err := b.Pop(field); err != nil { // opening quote
		return nil, err
	}
	start := b.Cursor()
	avail := b.Bytes()[start:]
	end := bytes.IndexByte(avail, '"')
	if end < 0 {
		return nil, errs.InvalidValue(field, b.Cursor(), "unterminated JSON string")
	}
	raw, err := b.ReadBytes(field, end)
	if err != nil {
		return nil, err
	}
	if _, err := b.Pop(field); err != nil { // closing quote
		return nil, err
	}

	return base64.StdEncoding.DecodeString(string(raw))
}

// EncodeTextString writes s as a plain (non-base64) double-quoted JSON
// string, for OctetString fields declared to hold human text rather than
// arbitrary bytes.
func (c *Codec) EncodeTextString(b *buffer.Buffer, field string, s string) error {
	clean, _, err := transform.String(stripControl, s)
	if err != nil {
		return errs.InvalidValue(field, b.Cursor(), "invalid text: %v", err)
	}
	if err := b.Push(field, '"'); err != nil {
		return err
	}
	if err := b.WriteBytes(field, []byte(clean)); err != nil {
		return err
	}

	return b.Push(field, '"')
}

// DecodeTextString reads a plain double-quoted JSON string and strips any
// control runes it contains before returning it.
func (c *Codec) DecodeTextString(b *buffer.Buffer, field string) (string, error) {
	if _, err := b.Pop(field); err != nil {
		return "", err
	}
	start := b.Cursor()
	avail := b.Bytes()[start:]
	end := bytes.IndexByte(avail, '"')
	if end < 0 {
		return "", errs.InvalidValue(field, b.Cursor(), "unterminated JSON string")
	}
	raw, err := b.ReadBytes(field, end)
	if err != nil {
		return "", err
	}
	if _, err := b.Pop(field); err != nil {
		return "", err
	}
	clean, _, err := transform.Bytes(stripControl, raw)
	if err != nil {
		return "", errs.InvalidValue(field, b.Cursor(), "invalid text: %v", err)
	}

	return string(clean), nil
}

// EncodeBits treats a bit-string like an octet-string payload.
func (c *Codec) EncodeBits(b *buffer.Buffer, field string, data []byte, bitLen int) error {
	return c.EncodeOctets(b, field, data)
}

// DecodeBits mirrors EncodeBits.
func (c *Codec) DecodeBits(b *buffer.Buffer, field string, bitLen int) ([]byte, error) {
	return c.DecodeOctets(b, field, (bitLen+7)/8)
}

// EncodeTag writes the field's name as a quoted JSON object key followed by
// a colon.
func (c *Codec) EncodeTag(b *buffer.Buffer, t meta.TagInfo) error {
	if err := b.Push(t.Name, '"'); err != nil {
		return err
	}
	if err := b.WriteBytes(t.Name, []byte(t.Name)); err != nil {
		return err
	}
	if err := b.Push(t.Name, '"'); err != nil {
		return err
	}

	return b.Push(t.Name, ':')
}

// DecodeTag reads a quoted JSON object key and its trailing colon,
// returning a hash of the key name (so it can be compared against the
// hash of each candidate member name — see DESIGN.md's collision-handling
// note) rather than a numeric tag value.
func (c *Codec) DecodeTag(b *buffer.Buffer, t meta.TagInfo) (uint64, error) {
	before := b.Cursor()
	if _, err := b.Pop(t.Name); err != nil {
		return 0, err
	}
	start := b.Cursor()
	avail := b.Bytes()[start:]
	end := bytes.IndexByte(avail, '"')
	if end < 0 {
		return 0, errs.InvalidValue(t.Name, b.Cursor(), "unterminated JSON key")
	}
	key, err := b.ReadBytes(t.Name, end)
	if err != nil {
		return 0, err
	}
	if _, err := b.Pop(t.Name); err != nil { // closing quote
		return 0, err
	}
	if _, err := b.Pop(t.Name); err != nil { // colon
		return 0, err
	}
	if t.Peek {
		b.SetState(before)
	}

	return nameHash(key), nil
}

// nameHash is the FNV-1a hash of a field/member name, used as this codec's
// dispatch key in place of a numeric wire tag.
func nameHash(name []byte) uint64 {
	var h uint64 = 14695981039346656037
	for _, by := range name {
		h ^= uint64(by)
		h *= 1099511628211
	}

	return h
}

// NameTag returns the dispatch key a Set/Choice built for this codec should
// use in place of a literal numeric tag: the hash of name.
func NameTag(name string) uint64 { return nameHash([]byte(name)) }

// EncodeLen is a no-op: JSON has no length prefix, objects/arrays are
// self-delimiting by their braces/brackets instead.
func (c *Codec) EncodeLen(b *buffer.Buffer, l meta.LenInfo, payloadLen int) error {
	return nil
}

// DecodeLen is a no-op counterpart of EncodeLen.
func (c *Codec) DecodeLen(b *buffer.Buffer, l meta.LenInfo) (int, error) {
	return -1, nil
}

// PatchLength is unsupported: JSON has nothing to back-patch.
func (c *Codec) PatchLength(b *buffer.Buffer, ph *placeholder.Placeholder, snapshotCursor int, raw uint64) error {
	return errs.InvalidValue(ph.Name, snapshotCursor, "JSON codec does not support length placeholders")
}

// DefaultFiller implements container.Codec: a space, JSON's conventional
// insignificant whitespace filler.
func (c *Codec) DefaultFiller() byte { return c.filler }
