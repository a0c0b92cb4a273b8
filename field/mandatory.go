package field

import (
	"github.com/gocodec/med/allocator"
	"github.com/gocodec/med/ie"
	"github.com/gocodec/med/meta"
)

// Mandatory wraps an IE that must be present: encoding it unset is an
// error (spec.md invariant 1), and min must be at least 1.
type Mandatory[E ie.IE] struct {
	multi[E]
}

var _ Field = (*Mandatory[*ie.Value[uint8]])(nil)

// NewMandatorySingle wraps a single mandatory instance (min=max=1), the
// common case of a required scalar field.
func NewMandatorySingle[E ie.IE](name string, mi meta.List, newElem func() E) *Mandatory[E] {
	return NewMandatory(name, mi, 1, 1, newElem)
}

// NewMandatory wraps a mandatory multi-field with arity [min,max]; max<0
// means unbounded. It panics if min<1, the Go stand-in for the source's
// compile-time assertion (see spec.md "mandatory requires min≥1").
func NewMandatory[E ie.IE](name string, mi meta.List, minCount, maxCount int, newElem func() E) *Mandatory[E] {
	if minCount < 1 {
		panic("med: mandatory field " + name + " must have min>=1")
	}

	return &Mandatory[E]{multi: newMulti[E](name, mi, minCount, maxCount, newElem)}
}

// Mandatory implements Field.
func (f *Mandatory[E]) Mandatory() bool { return true }

// EnsureCount implements Field.
func (f *Mandatory[E]) EnsureCount(alloc allocator.Allocator, n int) error {
	return f.multi.EnsureCount(alloc, n)
}

// Elem returns (and lazily constructs, for the single-instance case) the
// one element backing this field, ready for the caller to populate before
// encode.
func (f *Mandatory[E]) Elem() E {
	if f.count == 0 {
		e, _ := f.PushBack()

		return e
	}
	e, _ := f.At(0)

	return e
}

// WithSetter attaches a setter invoked before this field encodes, and
// returns the receiver for chaining at construction time.
func (f *Mandatory[E]) WithSetter(s Setter) *Mandatory[E] {
	f.multi.WithSetter(s)

	return f
}

// WithCounterGetter attaches a runtime count getter in place of a counter
// IE, and returns the receiver for chaining.
func (f *Mandatory[E]) WithCounterGetter(g CountGetter) *Mandatory[E] {
	f.multi.WithCounterGetter(g)

	return f
}

// WithCounterIE attaches a dedicated counter IE written/read immediately
// before this field's elements, and returns the receiver for chaining.
func (f *Mandatory[E]) WithCounterIE(counter ie.ValueIE) *Mandatory[E] {
	f.multi.WithCounterIE(counter)

	return f
}
