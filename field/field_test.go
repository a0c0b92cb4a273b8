package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocodec/med/allocator"
	"github.com/gocodec/med/ie"
	"github.com/gocodec/med/meta"
)

func newValueElem() *ie.Value[uint32] { return ie.NewValue[uint32]("elem") }

func TestMandatorySingle_ElemLazilyConstructs(t *testing.T) {
	f := NewMandatorySingle("id", meta.List{meta.Tag("id", 1, 8)}, newValueElem)

	assert.Equal(t, 0, f.Count())
	e := f.Elem()
	require.NotNil(t, e)
	assert.Equal(t, 1, f.Count())

	again := f.Elem()
	assert.Same(t, e, again, "Elem on an already-populated single field returns the same instance")
}

func TestNewMandatory_PanicsOnMinZero(t *testing.T) {
	assert.Panics(t, func() {
		NewMandatory("bad", nil, 0, 1, newValueElem)
	})
}

func TestOptional_IsPresent(t *testing.T) {
	f := NewOptionalSingle("realm", nil, newValueElem)

	assert.False(t, f.IsPresent())
	f.Elem()
	assert.True(t, f.IsPresent())
}

func TestMulti_PushBackFillsInlineThenErrorsWithoutAllocator(t *testing.T) {
	f := NewMandatory("items", nil, 1, 2, newValueElem)

	_, err := f.PushBack()
	require.NoError(t, err)
	_, err = f.PushBack()
	require.NoError(t, err)

	_, err = f.PushBack()
	require.Error(t, err, "inline capacity (max=2) exhausted")
}

func TestMulti_PushBackCtxOverflowsToAllocator(t *testing.T) {
	f := NewMandatory("items", nil, 1, -1, newValueElem) // unbounded, inline cap == min == 1
	alloc := allocator.NewUnbounded()

	_, err := f.PushBackCtx(alloc, 4)
	require.NoError(t, err)
	_, err = f.PushBackCtx(alloc, 4)
	require.NoError(t, err)
	_, err = f.PushBackCtx(alloc, 4)
	require.NoError(t, err)

	assert.Equal(t, 3, f.Count())
}

func TestMulti_EnsureCountGrowsToExactly(t *testing.T) {
	f := NewOptional("items", nil, -1, newValueElem)

	require.NoError(t, f.EnsureCount(nil, 5))
	assert.Equal(t, 5, f.Count())
}

func TestMulti_EnsureCountRejectsPastMax(t *testing.T) {
	f := NewOptional("items", nil, 2, newValueElem)

	err := f.EnsureCount(nil, 3)
	require.Error(t, err)
}

func TestMulti_PopBackFromInline(t *testing.T) {
	f := NewOptional("items", nil, -1, newValueElem)
	require.NoError(t, f.EnsureCount(nil, 2))

	f.PopBack()
	assert.Equal(t, 1, f.Count())
}

func TestMulti_PopBackFromOverflowChain(t *testing.T) {
	f := NewOptional("items", nil, -1, newValueElem) // inline cap == 1 when unbounded/min=0... actually min=0 -> cap 1
	require.NoError(t, f.EnsureCount(nil, 4))

	f.PopBack()
	assert.Equal(t, 3, f.Count())
	f.PopBack()
	f.PopBack()
	f.PopBack()
	assert.Equal(t, 0, f.Count())
}

func TestMulti_AllIteratesInOrder(t *testing.T) {
	f := NewOptional("items", nil, -1, newValueElem)
	require.NoError(t, f.EnsureCount(nil, 3))
	require.NoError(t, f.ElemAt(0).(*ie.Value[uint32]).Set(10))
	require.NoError(t, f.ElemAt(1).(*ie.Value[uint32]).Set(20))
	require.NoError(t, f.ElemAt(2).(*ie.Value[uint32]).Set(30))

	var got []uint32
	for e := range f.All() {
		got = append(got, e.Get())
	}
	assert.Equal(t, []uint32{10, 20, 30}, got)
}

func TestMulti_ElemAtAndAt(t *testing.T) {
	f := NewOptional("items", nil, -1, newValueElem)
	require.NoError(t, f.EnsureCount(nil, 3))
	require.NoError(t, f.ElemAt(1).(*ie.Value[uint32]).Set(99))

	e, ok := f.At(1)
	require.True(t, ok)
	assert.Equal(t, uint32(99), e.Get())

	_, ok = f.At(10)
	assert.False(t, ok)
}

func TestMulti_Clear(t *testing.T) {
	f := NewOptional("items", nil, -1, newValueElem)
	require.NoError(t, f.EnsureCount(nil, 3))

	f.Clear()
	assert.Equal(t, 0, f.Count())
}

func TestMulti_Erase(t *testing.T) {
	f := NewOptional("items", nil, -1, newValueElem)
	require.NoError(t, f.EnsureCount(nil, 3))
	require.NoError(t, f.ElemAt(0).(*ie.Value[uint32]).Set(1))
	require.NoError(t, f.ElemAt(1).(*ie.Value[uint32]).Set(2))
	require.NoError(t, f.ElemAt(2).(*ie.Value[uint32]).Set(3))

	require.NoError(t, f.Erase(0))
	assert.Equal(t, 2, f.Count())
	e0, _ := f.At(0)
	assert.Equal(t, uint32(2), e0.Get())
}

func TestCounterIE_WithCounterIE(t *testing.T) {
	counter := ie.NewValue[uint8]("count")
	f := NewOptional("items", nil, -1, newValueElem).WithCounterIE(counter)

	assert.Same(t, ie.ValueIE(counter), f.CounterIE())
}
