package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocodec/med/buffer"
	"github.com/gocodec/med/container"
	"github.com/gocodec/med/ie"
	"github.com/gocodec/med/meta"
)

func buildResultChoice() *container.Choice {
	return container.NewChoice("result", 8,
		container.Alternative{
			Tag:  0x01,
			Name: "ok",
			NewIE: func() ie.IE {
				return ie.NewValue[uint8]("ok")
			},
		},
		container.Alternative{
			Tag:  0x02,
			Name: "err",
			NewIE: func() ie.IE {
				return ie.NewValue[uint16]("err")
			},
			MetaMI: meta.List{meta.Len("err-len", 16)},
		},
	)
}

func TestChoice_EncodeDecodeRoundTrip(t *testing.T) {
	ch := buildResultChoice()
	v, err := ch.Select("ok")
	require.NoError(t, err)
	require.NoError(t, v.(*ie.Value[uint8]).Set(42))

	c := octetCodec()
	enc := buffer.NewEncodeBuffer(8)
	require.NoError(t, ch.EncodeWith(c, enc))

	ch2 := buildResultChoice()
	dec := buffer.NewDecodeBuffer(enc.Bytes())
	require.NoError(t, ch2.DecodeWith(c, dec))

	got, name, ok := ch2.Selected()
	require.True(t, ok)
	assert.Equal(t, "ok", name)
	assert.Equal(t, uint8(42), got.(*ie.Value[uint8]).Get())
}

func TestChoice_ReselectOverwritesPreviousAlternative(t *testing.T) {
	ch := buildResultChoice()
	_, err := ch.Select("ok")
	require.NoError(t, err)

	v2, err := ch.Select("err")
	require.NoError(t, err)
	require.NoError(t, v2.(*ie.Value[uint16]).Set(7))

	_, name, ok := ch.Selected()
	require.True(t, ok)
	assert.Equal(t, "err", name)
}

func TestChoice_EncodeFailsWhenNoneSelected(t *testing.T) {
	ch := buildResultChoice()

	c := octetCodec()
	enc := buffer.NewEncodeBuffer(8)
	err := ch.EncodeWith(c, enc)
	require.Error(t, err)
}

func TestChoice_DecodeUnknownTagErrors(t *testing.T) {
	ch := buildResultChoice()

	c := octetCodec()
	enc := buffer.NewEncodeBuffer(8)
	require.NoError(t, enc.Push("tag", uint8(0xFE)))

	dec := buffer.NewDecodeBuffer(enc.Bytes())
	err := ch.DecodeWith(c, dec)
	require.Error(t, err)
}

func TestChoice_AlternativeWithLenMetaInfo(t *testing.T) {
	ch := buildResultChoice()
	v, err := ch.Select("err")
	require.NoError(t, err)
	require.NoError(t, v.(*ie.Value[uint16]).Set(0xBEEF))

	c := octetCodec()
	enc := buffer.NewEncodeBuffer(8)
	require.NoError(t, ch.EncodeWith(c, enc))

	ch2 := buildResultChoice()
	dec := buffer.NewDecodeBuffer(enc.Bytes())
	require.NoError(t, ch2.DecodeWith(c, dec))

	got, name, ok := ch2.Selected()
	require.True(t, ok)
	assert.Equal(t, "err", name)
	assert.Equal(t, uint16(0xBEEF), got.(*ie.Value[uint16]).Get())
}

func TestChoice_ClearDeselects(t *testing.T) {
	ch := buildResultChoice()
	_, err := ch.Select("ok")
	require.NoError(t, err)
	require.True(t, ch.IsSet())

	ch.Clear()
	assert.False(t, ch.IsSet())
	_, _, ok := ch.Selected()
	assert.False(t, ok)
}
