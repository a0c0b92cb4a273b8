package field

import (
	"github.com/gocodec/med/allocator"
	"github.com/gocodec/med/ie"
	"github.com/gocodec/med/meta"
)

// Optional wraps an IE that may be absent; min is always 0 (spec.md §3
// "Optional implies min=0").
type Optional[E ie.IE] struct {
	multi[E]
}

var _ Field = (*Optional[*ie.Value[uint8]])(nil)

// NewOptionalSingle wraps a single optional instance (min=0, max=1).
func NewOptionalSingle[E ie.IE](name string, mi meta.List, newElem func() E) *Optional[E] {
	return NewOptional(name, mi, 1, newElem)
}

// NewOptional wraps an optional multi-field with arity [0,maxCount];
// maxCount<0 means unbounded.
func NewOptional[E ie.IE](name string, mi meta.List, maxCount int, newElem func() E) *Optional[E] {
	return &Optional[E]{multi: newMulti[E](name, mi, 0, maxCount, newElem)}
}

// Mandatory implements Field.
func (f *Optional[E]) Mandatory() bool { return false }

// EnsureCount implements Field.
func (f *Optional[E]) EnsureCount(alloc allocator.Allocator, n int) error {
	return f.multi.EnsureCount(alloc, n)
}

// IsPresent reports whether at least one instance is set (the
// single-instance case of "optional field is present").
func (f *Optional[E]) IsPresent() bool { return f.count > 0 }

// Elem returns (lazily constructing, for the single-instance case) the one
// element backing this field, marking it present.
func (f *Optional[E]) Elem() E {
	if f.count == 0 {
		e, _ := f.PushBack()

		return e
	}
	e, _ := f.At(0)

	return e
}

// WithCondition attaches a presence condition and returns the receiver for
// chaining at construction time.
func (f *Optional[E]) WithCondition(c Condition) *Optional[E] {
	f.multi.WithCondition(c)

	return f
}

// WithCounterGetter attaches a runtime count getter and returns the
// receiver for chaining.
func (f *Optional[E]) WithCounterGetter(g CountGetter) *Optional[E] {
	f.multi.WithCounterGetter(g)

	return f
}

// WithCounterIE attaches a dedicated counter IE written/read immediately
// before this field's elements, and returns the receiver for chaining.
func (f *Optional[E]) WithCounterIE(counter ie.ValueIE) *Optional[E] {
	f.multi.WithCounterIE(counter)

	return f
}
