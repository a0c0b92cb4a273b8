package json_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocodec/med/buffer"
	"github.com/gocodec/med/codec/json"
	"github.com/gocodec/med/meta"
)

func TestCodec_EncodeDecodeValueDecimalRoundTrip(t *testing.T) {
	c := json.New()
	enc := buffer.NewEncodeBuffer(8)
	require.NoError(t, c.EncodeValue(enc, "v", 32, 12345))
	assert.Equal(t, "12345", string(enc.Bytes()))

	dec := buffer.NewDecodeBuffer(enc.Bytes())
	got, err := c.DecodeValue(dec, "v", 32)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), got)
}

func TestCodec_EncodeDecodeOctetsBase64RoundTrip(t *testing.T) {
	c := json.New()
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	enc := buffer.NewEncodeBuffer(16)
	require.NoError(t, c.EncodeOctets(enc, "payload", data))

	dec := buffer.NewDecodeBuffer(enc.Bytes())
	got, err := c.DecodeOctets(dec, "payload", -1)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestCodec_EncodeDecodeTextStringStripsControlRunes(t *testing.T) {
	c := json.New()

	enc := buffer.NewEncodeBuffer(16)
	require.NoError(t, c.EncodeTextString(enc, "name", "hi\x01there"))

	dec := buffer.NewDecodeBuffer(enc.Bytes())
	got, err := c.DecodeTextString(dec, "name")
	require.NoError(t, err)
	assert.Equal(t, "hithere", got)
}

func TestCodec_EncodeTagThenDecodeTagHashesName(t *testing.T) {
	c := json.New()
	enc := buffer.NewEncodeBuffer(16)
	require.NoError(t, c.EncodeTag(enc, meta.TagInfo{Name: "realm"}))

	dec := buffer.NewDecodeBuffer(enc.Bytes())
	got, err := c.DecodeTag(dec, meta.TagInfo{Name: "realm"})
	require.NoError(t, err)
	assert.Equal(t, json.NameTag("realm"), got)
}

func TestCodec_EncodeLenIsNoOp(t *testing.T) {
	c := json.New()
	enc := buffer.NewEncodeBuffer(4)
	require.NoError(t, c.EncodeLen(enc, meta.LenInfo{Name: "len"}, 100))
	assert.Empty(t, enc.Bytes())
}

func TestCodec_DecodeTagPeekRestoresCursor(t *testing.T) {
	c := json.New()
	enc := buffer.NewEncodeBuffer(16)
	require.NoError(t, c.EncodeTag(enc, meta.TagInfo{Name: "realm"}))

	dec := buffer.NewDecodeBuffer(enc.Bytes())
	start := dec.Cursor()
	_, err := c.DecodeTag(dec, meta.TagInfo{Name: "realm", Peek: true})
	require.NoError(t, err)
	assert.Equal(t, start, dec.Cursor())
}
