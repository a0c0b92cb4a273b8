// Package field implements the Mandatory/Optional field wrappers and the
// multi-instance (arity > 1) storage machinery from spec.md §4.2: an
// inline array up to a fixed in-place capacity, falling through to an
// allocator-backed singly-linked chain once exhausted.
//
// A Field's type parameter E is a concrete pointer type implementing
// ie.IE (e.g. *ie.Value[uint32]); callers supply a factory that builds new
// zero-valued elements, since Go generics have no placement-new
// equivalent for constructing elements inside pre-allocated storage.
package field

import (
	"iter"

	"github.com/gocodec/med/allocator"
	"github.com/gocodec/med/errs"
	"github.com/gocodec/med/ie"
	"github.com/gocodec/med/meta"
)

// Condition gates an Optional field's presence, evaluated against the
// enclosing container's sibling state (spec.md §3 "Condition").
type Condition func() bool

// CountGetter returns a runtime element count carried by another field
// instead of a dedicated counter IE (spec.md §3 "Count getter").
type CountGetter func() int

// Setter computes a derived value before a mandatory field encodes (e.g. a
// flags byte; spec.md §3 "Setter").
type Setter func()

// Field is the interface the sequence/set/choice engines in package
// container traverse. *Mandatory[E] and *Optional[E] both implement it.
type Field interface {
	Name() string
	MetaInfo() meta.List
	Mandatory() bool
	MinCount() int
	MaxCount() int // negative means unbounded (∞)
	Count() int
	ElemAt(i int) ie.IE
	EnsureCount(alloc allocator.Allocator, n int) error
	Condition() Condition
	CounterGetter() CountGetter
	CounterIE() ie.ValueIE
	Setter() Setter
	Clear()
}

// node is one link of the allocator-backed overflow chain.
type node[E ie.IE] struct {
	val  E
	next *node[E]
}

// multi is the shared arity/storage engine embedded by Mandatory and
// Optional. min/max follow spec.md invariant 2: count must stay within
// [min,max] (max<0 meaning ∞) at both encode and decode time.
type multi[E ie.IE] struct {
	name    string
	mi      meta.List
	min     int
	max     int // negative == unbounded
	newElem func() E

	inplace []E // capacity-bounded inline storage, cap == in-place capacity
	head    *node[E]
	tail    *node[E]
	count   int // total logical element count, inline + overflow

	cond      Condition
	counter   CountGetter
	counterIE ie.ValueIE
	setter    Setter
}

// inplaceCapacity mirrors spec.md §4.2: INPLACE = max when bounded, or min
// when unbounded (with a floor of 1 so single-instance fields always have
// storage without needing an allocator).
func inplaceCapacity(min, max int) int {
	if max >= 0 {
		if max == 0 {
			return 0
		}

		return max
	}
	if min > 0 {
		return min
	}

	return 1
}

func newMulti[E ie.IE](name string, mi meta.List, min, max int, newElem func() E) multi[E] {
	return multi[E]{
		name:    name,
		mi:      mi,
		min:     min,
		max:     max,
		newElem: newElem,
		inplace: make([]E, 0, inplaceCapacity(min, max)),
	}
}

func (m *multi[E]) Name() string      { return m.name }
func (m *multi[E]) MetaInfo() meta.List { return m.mi }
func (m *multi[E]) MinCount() int     { return m.min }
func (m *multi[E]) MaxCount() int     { return m.max }
func (m *multi[E]) Count() int        { return m.count }

func (m *multi[E]) Condition() Condition       { return m.cond }
func (m *multi[E]) CounterGetter() CountGetter { return m.counter }
func (m *multi[E]) Setter() Setter             { return m.setter }

// WithCondition attaches a presence condition (Optional fields only,
// checked by the constructor's caller).
func (m *multi[E]) WithCondition(c Condition) { m.cond = c }

// WithCounterGetter attaches a runtime count getter in place of a counter
// IE.
func (m *multi[E]) WithCounterGetter(g CountGetter) { m.counter = g }

// WithSetter attaches a setter invoked before this field encodes.
func (m *multi[E]) WithSetter(s Setter) { m.setter = s }

// ElemAt returns the i'th element (0-based), panicking if out of
// [0,Count()) — callers (the container engines) always range-check first
// via Count().
func (m *multi[E]) ElemAt(i int) ie.IE {
	if i < len(m.inplace) {
		return m.inplace[i]
	}
	n := m.head
	for j := len(m.inplace); j < i; j++ {
		n = n.next
	}

	return n.val
}

// At returns the i'th element with its concrete type and an ok flag.
func (m *multi[E]) At(i int) (E, bool) {
	var zero E
	if i < 0 || i >= m.count {
		return zero, false
	}
	if i < len(m.inplace) {
		return m.inplace[i], true
	}
	n := m.head
	for j := len(m.inplace); j < i; j++ {
		n = n.next
	}

	return n.val, true
}

// All iterates every element in order.
func (m *multi[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		for _, e := range m.inplace {
			if !yield(e) {
				return
			}
		}
		for n := m.head; n != nil; n = n.next {
			if !yield(n.val) {
				return
			}
		}
	}
}

// PushBack appends a newly constructed element using inline storage only,
// failing with ErrOutOfMemory if the inline capacity is exhausted (spec.md
// §4.2).
func (m *multi[E]) PushBack() (E, error) {
	var zero E
	if len(m.inplace) < cap(m.inplace) {
		e := m.newElem()
		m.inplace = append(m.inplace, e)
		m.count++

		return e, nil
	}

	return zero, errs.OutOfMemory(m.name, 0)
}

// PushBackCtx appends a newly constructed element, falling through to the
// allocator-backed overflow chain once inline storage is exhausted.
// elemSize is the nominal per-element byte cost charged to alloc for
// accounting purposes; the element itself is still built by newElem on the
// Go heap rather than carved from alloc's storage.
func (m *multi[E]) PushBackCtx(alloc allocator.Allocator, elemSize int) (E, error) {
	var zero E
	if len(m.inplace) < cap(m.inplace) {
		return m.PushBack()
	}
	if m.max >= 0 && m.count >= m.max {
		return zero, errs.ExtraIE(m.name, -1, "count %d exceeds max %d", m.count+1, m.max)
	}
	if _, err := alloc.Allocate(elemSize, 1); err != nil {
		return zero, err
	}
	e := m.newElem()
	n := &node[E]{val: e}
	if m.tail == nil {
		m.head, m.tail = n, n
	} else {
		m.tail.next = n
		m.tail = n
	}
	m.count++

	return e, nil
}

// EnsureCount grows storage to exactly n elements (used by decode, which
// knows the element count up front from a counter or count-getter) via
// PushBackCtx, reusing alloc when inline capacity runs out. A nil alloc is
// treated as allocator.NewUnbounded(), matching decode contexts that don't
// configure one explicitly.
func (m *multi[E]) EnsureCount(alloc allocator.Allocator, n int) error {
	if alloc == nil {
		alloc = allocator.NewUnbounded()
	}
	for m.count < n {
		if _, err := m.PushBackCtx(alloc, 0); err != nil {
			return err
		}
	}

	return nil
}

// PopBack clears the last element in place. Per spec.md's Open Question,
// when the last element lives in allocator-backed overflow storage its
// slot is not returned to the allocator; it leaks until the whole message
// (and its allocator) is dropped.
func (m *multi[E]) PopBack() {
	if m.count == 0 {
		return
	}
	if len(m.inplace) == m.count {
		m.inplace[len(m.inplace)-1].Clear()
		m.inplace = m.inplace[:len(m.inplace)-1]
		m.count--

		return
	}
	// Last element lives in the overflow chain: find its predecessor.
	if m.head == m.tail {
		m.head, m.tail = nil, nil
	} else {
		n := m.head
		for n.next != m.tail {
			n = n.next
		}
		n.next = nil
		m.tail = n
	}
	m.count--
}

// Erase removes the i'th element, shifting later elements down by one.
func (m *multi[E]) Erase(i int) error {
	if i < 0 || i >= m.count {
		return errs.InvalidValue(m.name, -1, "erase index %d out of range [0,%d)", i, m.count)
	}
	for j := i; j < m.count-1; j++ {
		cur, _ := m.At(j)
		next, _ := m.At(j + 1)
		if cpr, ok := any(cur).(ie.Copier); ok {
			cpr.CopyFrom(next)
		}
	}
	m.PopBack()

	return nil
}

// Clear empties all elements and resets the overflow chain.
func (m *multi[E]) Clear() {
	for i := range m.inplace {
		m.inplace[i].Clear()
	}
	m.inplace = m.inplace[:0]
	m.head, m.tail = nil, nil
	m.count = 0
}
