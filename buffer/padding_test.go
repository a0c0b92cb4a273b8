package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPadding_FillerLen(t *testing.T) {
	tests := []struct {
		name  string
		p     Padding
		span  int
		wantN int
	}{
		{"zero quantum is a no-op", Padding{}, 5, 0},
		{"already aligned", Padding{QuantumBits: 32}, 8, 0},
		{"needs 3 filler bytes to reach 4-byte quantum", Padding{QuantumBits: 32}, 5, 3},
		{"needs 2 bytes to reach 8-byte quantum", Padding{QuantumBits: 64}, 6, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantN, tt.p.FillerLen(tt.span))
		})
	}
}

func TestPadding_ApplyExclusive(t *testing.T) {
	p := Padding{QuantumBits: 32, Filler: 0xAA}
	b := NewEncodeBuffer(8)
	start := b.Cursor()
	require.NoError(t, b.WriteBytes("f", []byte{1, 2, 3}))

	require.NoError(t, p.Apply("f", b, start, 0))
	assert.Equal(t, []byte{1, 2, 3, 0xAA}, b.Bytes())
}

func TestPadding_ApplyInclusiveFoldsLenFieldSize(t *testing.T) {
	p := Padding{QuantumBits: 32, Filler: 0, Inclusive: true}
	b := NewEncodeBuffer(8)
	start := b.Cursor()
	require.NoError(t, b.WriteBytes("f", []byte{1, 2}))

	// Inclusive padding counts a 2-byte length field that preceded start,
	// so span = 2 (payload) + 2 (len field) = 4, already aligned.
	require.NoError(t, p.Apply("f", b, start, 2))
	assert.Equal(t, 2, b.Cursor()-start, "already aligned once the length field is folded in")
}

func TestPadding_ApplyDecodeMirrorsApply(t *testing.T) {
	p := Padding{QuantumBits: 32, Filler: 0x00}
	enc := NewEncodeBuffer(8)
	start := enc.Cursor()
	require.NoError(t, enc.WriteBytes("f", []byte{1, 2, 3}))
	require.NoError(t, p.Apply("f", enc, start, 0))

	dec := NewDecodeBuffer(enc.Bytes())
	_, err := dec.ReadBytes("f", 3)
	require.NoError(t, err)
	require.NoError(t, p.ApplyDecode("f", dec, 0, 0))
	assert.Equal(t, 0, dec.Size(), "padding bytes should be fully consumed")
}

func TestPadding_IsZero(t *testing.T) {
	assert.True(t, Padding{}.IsZero())
	assert.False(t, Padding{QuantumBits: 8}.IsZero())
}
