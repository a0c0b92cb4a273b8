package ber_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocodec/med/buffer"
	"github.com/gocodec/med/codec/ber"
	"github.com/gocodec/med/meta"
	"github.com/gocodec/med/placeholder"
)

func TestCodec_EncodeDecodeValueRoundTrip(t *testing.T) {
	c := ber.New()
	enc := buffer.NewEncodeBuffer(8)
	require.NoError(t, c.EncodeValue(enc, "v", 32, 0xDEADBEEF))

	dec := buffer.NewDecodeBuffer(enc.Bytes())
	got, err := c.DecodeValue(dec, "v", 32)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xDEADBEEF), got)
}

func TestCodec_EncodeTagShortFormUnder31(t *testing.T) {
	c := ber.New()
	enc := buffer.NewEncodeBuffer(4)
	require.NoError(t, c.EncodeTag(enc, meta.TagInfo{Name: "t", Value: 0x05}))

	dec := buffer.NewDecodeBuffer(enc.Bytes())
	got, err := c.DecodeTag(dec, meta.TagInfo{Name: "t"})
	require.NoError(t, err)
	assert.Equal(t, uint64(0x05), got)
}

func TestCodec_EncodeTagBoundaryAt31UsesLongForm(t *testing.T) {
	c := ber.New()
	enc := buffer.NewEncodeBuffer(4)
	require.NoError(t, c.EncodeTag(enc, meta.TagInfo{Name: "t", Value: 0x1f}))
	assert.Equal(t, []byte{0x1f, 0x1f}, enc.Bytes())

	dec := buffer.NewDecodeBuffer(enc.Bytes())
	got, err := c.DecodeTag(dec, meta.TagInfo{Name: "t"})
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1f), got)
}

func TestCodec_EncodeTagMultiByteOver31(t *testing.T) {
	c := ber.New()
	enc := buffer.NewEncodeBuffer(8)
	require.NoError(t, c.EncodeTag(enc, meta.TagInfo{Name: "t", Value: 200}))

	dec := buffer.NewDecodeBuffer(enc.Bytes())
	got, err := c.DecodeTag(dec, meta.TagInfo{Name: "t"})
	require.NoError(t, err)
	assert.Equal(t, uint64(200), got)
}

func TestCodec_EncodeLenShortForm(t *testing.T) {
	c := ber.New()
	enc := buffer.NewEncodeBuffer(4)
	require.NoError(t, c.EncodeLen(enc, meta.LenInfo{Name: "len"}, 100))
	assert.Equal(t, []byte{100}, enc.Bytes())

	dec := buffer.NewDecodeBuffer(enc.Bytes())
	got, err := c.DecodeLen(dec, meta.LenInfo{Name: "len"})
	require.NoError(t, err)
	assert.Equal(t, 100, got)
}

func TestCodec_EncodeLenLongForm(t *testing.T) {
	c := ber.New()
	enc := buffer.NewEncodeBuffer(8)
	require.NoError(t, c.EncodeLen(enc, meta.LenInfo{Name: "len"}, 300))

	dec := buffer.NewDecodeBuffer(enc.Bytes())
	got, err := c.DecodeLen(dec, meta.LenInfo{Name: "len"})
	require.NoError(t, err)
	assert.Equal(t, 300, got)
}

func TestCodec_EncodeDecodeBitsRoundTrip(t *testing.T) {
	c := ber.New()
	data := []byte{0xF0}

	enc := buffer.NewEncodeBuffer(4)
	require.NoError(t, c.EncodeBits(enc, "flags", data, 4))
	assert.Equal(t, []byte{4, 0xF0}, enc.Bytes())

	dec := buffer.NewDecodeBuffer(enc.Bytes())
	got, err := c.DecodeBits(dec, "flags", 4)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestCodec_PatchLengthUnsupported(t *testing.T) {
	c := ber.New()
	enc := buffer.NewEncodeBuffer(4)
	err := c.PatchLength(enc, &placeholder.Placeholder{Name: "len", Width: 2}, 0, 0)
	require.Error(t, err)
}

func TestCodec_DecodeTagPeekRestoresCursor(t *testing.T) {
	c := ber.New()
	enc := buffer.NewEncodeBuffer(4)
	require.NoError(t, c.EncodeTag(enc, meta.TagInfo{Name: "t", Value: 0x05}))

	dec := buffer.NewDecodeBuffer(enc.Bytes())
	start := dec.Cursor()
	_, err := c.DecodeTag(dec, meta.TagInfo{Name: "t", Peek: true})
	require.NoError(t, err)
	assert.Equal(t, start, dec.Cursor())
}
