package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocodec/med/buffer"
	"github.com/gocodec/med/codec/octet"
	"github.com/gocodec/med/container"
	"github.com/gocodec/med/endian"
	"github.com/gocodec/med/field"
	"github.com/gocodec/med/ie"
	"github.com/gocodec/med/meta"
	"github.com/gocodec/med/placeholder"
)

func newValue8() *ie.Value[uint8]   { return ie.NewValue[uint8]("v8") }
func newValue16() *ie.Value[uint16] { return ie.NewValue[uint16]("v16") }

func octetCodec() *octet.Codec { return octet.New(endian.GetBigEndianEngine()) }

func buildSimpleSequence() (*container.Sequence, *field.Mandatory[*ie.Value[uint8]], *field.Optional[*ie.Value[uint16]]) {
	id := field.NewMandatorySingle("id", meta.List{meta.Tag("id", 0x01, 8)}, newValue8)
	realm := field.NewOptionalSingle("realm", meta.List{meta.Tag("realm", 0x02, 8)}, newValue16)

	seq := container.NewSequence("req", buffer.Padding{},
		container.FieldEntry(id),
		container.FieldEntry(realm),
	)

	return seq, id, realm
}

func TestSequence_EncodeDecodeRoundTrip_OptionalPresent(t *testing.T) {
	seq, id, realm := buildSimpleSequence()
	require.NoError(t, id.Elem().Set(7))
	require.NoError(t, realm.Elem().Set(1234))

	c := octetCodec()
	enc := buffer.NewEncodeBuffer(16)
	require.NoError(t, seq.EncodeWith(c, enc))

	seq2, id2, realm2 := buildSimpleSequence()
	dec := buffer.NewDecodeBuffer(enc.Bytes())
	require.NoError(t, seq2.DecodeWith(c, dec))

	assert.Equal(t, uint8(7), id2.Elem().Get())
	assert.True(t, realm2.IsPresent())
	assert.Equal(t, uint16(1234), realm2.Elem().Get())
}

func TestSequence_EncodeDecodeRoundTrip_OptionalAbsent(t *testing.T) {
	seq, id, _ := buildSimpleSequence()
	require.NoError(t, id.Elem().Set(9))

	c := octetCodec()
	enc := buffer.NewEncodeBuffer(16)
	require.NoError(t, seq.EncodeWith(c, enc))

	seq2, id2, realm2 := buildSimpleSequence()
	dec := buffer.NewDecodeBuffer(enc.Bytes())
	require.NoError(t, seq2.DecodeWith(c, dec))

	assert.Equal(t, uint8(9), id2.Elem().Get())
	assert.False(t, realm2.IsPresent())
}

func TestSequence_EncodeFailsWhenMandatoryUnset(t *testing.T) {
	seq, _, _ := buildSimpleSequence()

	c := octetCodec()
	enc := buffer.NewEncodeBuffer(16)
	err := seq.EncodeWith(c, enc)
	require.Error(t, err)
}

func TestSequence_ClearResetsAllFields(t *testing.T) {
	seq, id, realm := buildSimpleSequence()
	require.NoError(t, id.Elem().Set(3))
	require.NoError(t, realm.Elem().Set(4))

	seq.Clear()

	assert.Equal(t, 0, id.Count())
	assert.Equal(t, 0, realm.Count())
}

func TestSequence_MultiFieldWithLenMetaInfo(t *testing.T) {
	items := field.NewMandatory("items", meta.List{meta.Tag("items", 0x05, 8), meta.Len("items-len", 16)}, 1, 3, newValue8)
	seq := container.NewSequence("batch", buffer.Padding{}, container.FieldEntry(items))

	e0, _ := items.PushBack()
	require.NoError(t, e0.Set(1))
	e1, _ := items.PushBack()
	require.NoError(t, e1.Set(2))

	c := octetCodec()
	enc := buffer.NewEncodeBuffer(16)
	require.NoError(t, seq.EncodeWith(c, enc))

	items2 := field.NewMandatory("items", meta.List{meta.Tag("items", 0x05, 8), meta.Len("items-len", 16)}, 1, 3, newValue8)
	seq2 := container.NewSequence("batch", buffer.Padding{}, container.FieldEntry(items2))
	dec := buffer.NewDecodeBuffer(enc.Bytes())
	require.NoError(t, seq2.DecodeWith(c, dec))

	assert.Equal(t, 2, items2.Count())
	assert.Equal(t, uint8(1), items2.ElemAt(0).(*ie.Value[uint8]).Get())
	assert.Equal(t, uint8(2), items2.ElemAt(1).(*ie.Value[uint8]).Get())
}

func TestSequence_MultiFieldWithCounterIE(t *testing.T) {
	counter := ie.NewValue[uint8]("count")
	items := field.NewMandatory("items", nil, 1, 5, newValue8).WithCounterIE(counter)
	seq := container.NewSequence("batch", buffer.Padding{}, container.FieldEntry(items))

	for i := 0; i < 3; i++ {
		e, _ := items.PushBack()
		require.NoError(t, e.Set(uint8(i+1)))
	}

	c := octetCodec()
	enc := buffer.NewEncodeBuffer(16)
	require.NoError(t, seq.EncodeWith(c, enc))

	counter2 := ie.NewValue[uint8]("count")
	items2 := field.NewMandatory("items", nil, 1, 5, newValue8).WithCounterIE(counter2)
	seq2 := container.NewSequence("batch", buffer.Padding{}, container.FieldEntry(items2))
	dec := buffer.NewDecodeBuffer(enc.Bytes())
	require.NoError(t, seq2.DecodeWith(c, dec))

	assert.Equal(t, 3, items2.Count())
}

func TestSequence_ArityViolationOnDecode(t *testing.T) {
	items := field.NewMandatory("items", meta.List{meta.Len("items-len", 16)}, 2, 2, newValue8)
	seq := container.NewSequence("batch", buffer.Padding{}, container.FieldEntry(items))

	// Write a LEN of 1 byte, which decodes to only 1 element (below min 2).
	c := octetCodec()
	enc := buffer.NewEncodeBuffer(8)
	require.NoError(t, enc.WriteBytes("items-len", []byte{0x00, 0x01}))
	require.NoError(t, enc.Push("items", 0xAA))

	dec := buffer.NewDecodeBuffer(enc.Bytes())
	err := seq.DecodeWith(c, dec)
	require.Error(t, err)
}

func TestSequence_LengthPlaceholderBackPatches(t *testing.T) {
	ph := &placeholder.Placeholder{Name: "len", Width: 2, Inclusive: false}
	body := field.NewMandatorySingle("body", nil, newValue16)
	seq := container.NewSequence("framed", buffer.Padding{},
		container.PlaceholderEntry(ph),
		container.FieldEntry(body),
	)
	require.NoError(t, body.Elem().Set(0xBEEF))

	c := octetCodec()
	enc := buffer.NewEncodeBuffer(16)
	require.NoError(t, seq.EncodeWith(c, enc))

	// 2-byte placeholder + 2-byte body: exclusive length should read back as 2.
	assert.Equal(t, []byte{0x00, 0x02, 0xBE, 0xEF}, enc.Bytes())

	ph2 := &placeholder.Placeholder{Name: "len", Width: 2, Inclusive: false}
	body2 := field.NewMandatorySingle("body", nil, newValue16)
	seq2 := container.NewSequence("framed", buffer.Padding{},
		container.PlaceholderEntry(ph2),
		container.FieldEntry(body2),
	)
	dec := buffer.NewDecodeBuffer(enc.Bytes())
	require.NoError(t, seq2.DecodeWith(c, dec))
	assert.Equal(t, uint16(0xBEEF), body2.Elem().Get())
}
