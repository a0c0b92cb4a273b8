package field

import "github.com/gocodec/med/ie"

// WithCounterIE attaches a dedicated counter IE that precedes this
// multi-field's elements on the wire and carries its element count
// (spec.md §3 "Counter", as distinct from CounterGetter which reads the
// count from an already-declared sibling field instead of a dedicated
// wire element).
func (m *multi[E]) WithCounterIE(counter ie.ValueIE) { m.counterIE = counter }

// CounterIE returns the attached counter IE, or nil if this field has
// none (it may instead use a CounterGetter, or simply have MaxCount()==1).
func (m *multi[E]) CounterIE() ie.ValueIE { return m.counterIE }
