package printer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gocodec/med/ie"
	"github.com/gocodec/med/printer"
)

// fakeContainer is a minimal printer.Walkable standing in for
// container.Sequence, since the printer package cannot import container
// (container imports printer to implement Walkable, and a test-only import
// back would still create a cycle for external test packages depending on
// the module layout chosen here).
type fakeContainer struct {
	name     string
	kind     ie.Kind
	children []printer.NamedChild
}

func (f *fakeContainer) Kind() ie.Kind                  { return f.kind }
func (f *fakeContainer) Name() string                   { return f.name }
func (f *fakeContainer) IsSet() bool                    { return true }
func (f *fakeContainer) Clear()                         {}
func (f *fakeContainer) Children() []printer.NamedChild { return f.children }

type recordingSink struct {
	printer.NopSink
	starts  []string
	ends    []string
	values  []string
	customs []string
	errored []string
}

func (r *recordingSink) OnContainerStart(depth int, kind ie.Kind, name string) {
	r.starts = append(r.starts, name)
}
func (r *recordingSink) OnContainerEnd(depth int, kind ie.Kind, name string) {
	r.ends = append(r.ends, name)
}
func (r *recordingSink) OnValue(depth int, name string, elem ie.IE) {
	r.values = append(r.values, name)
}
func (r *recordingSink) OnCustom(depth int, name string, s string) {
	r.customs = append(r.customs, name+"="+s)
}
func (r *recordingSink) OnError(depth int, name string, err error) {
	r.errored = append(r.errored, name)
}

func TestPrinter_WalkVisitsContainersAndLeavesInOrder(t *testing.T) {
	leafA := ie.NewValue[uint8]("a")
	leafB := ie.NewValue[uint8]("b")
	root := &fakeContainer{
		name: "root",
		kind: ie.KindSequence,
		children: []printer.NamedChild{
			{Name: "a", Elem: leafA},
			{Name: "b", Elem: leafB},
		},
	}

	sink := &recordingSink{}
	printer.New(sink, 0).Walk(root)

	assert.Equal(t, []string{"root"}, sink.starts)
	assert.Equal(t, []string{"root"}, sink.ends)
	assert.Equal(t, []string{"a", "b"}, sink.values)
}

func TestPrinter_MaxDepthReportsError(t *testing.T) {
	leaf := ie.NewValue[uint8]("leaf")
	inner := &fakeContainer{name: "inner", kind: ie.KindSequence, children: []printer.NamedChild{{Name: "leaf", Elem: leaf}}}
	outer := &fakeContainer{name: "outer", kind: ie.KindSequence, children: []printer.NamedChild{{Name: "inner", Elem: inner}}}

	sink := &recordingSink{}
	printer.New(sink, 1).Walk(outer)

	assert.Contains(t, sink.errored, "leaf")
}

func TestPrinter_CustomPrinterOverridesLeafAndErrorSkipsIt(t *testing.T) {
	leaf := ie.NewValue[uint8]("special")
	require := func(ok bool) {
		if !ok {
			t.Fatal("expected custom printer to be invoked")
		}
	}

	called := false
	root := &fakeContainer{name: "root", kind: ie.KindSequence, children: []printer.NamedChild{{Name: "special", Elem: leaf}}}

	sink := &recordingSink{}
	p := printer.New(sink, 0).WithCustomPrinter("special", func(elem ie.IE) ([]byte, error) {
		called = true

		return nil, errors.New("boom")
	})
	p.Walk(root)

	require(called)
	assert.Contains(t, sink.errored, "special")
	assert.Empty(t, sink.values)
	assert.Empty(t, sink.customs)
}

func TestPrinter_CustomPrinterSuccessRoutesToOnCustom(t *testing.T) {
	leaf := ie.NewValue[uint8]("special")
	require := func(ok bool) {
		if !ok {
			t.Fatal("expected custom printer to be invoked")
		}
	}

	called := false
	root := &fakeContainer{name: "root", kind: ie.KindSequence, children: []printer.NamedChild{{Name: "special", Elem: leaf}}}

	sink := &recordingSink{}
	p := printer.New(sink, 0).WithCustomPrinter("special", func(elem ie.IE) ([]byte, error) {
		called = true

		return []byte("SPECIAL-RENDERED"), nil
	})
	p.Walk(root)

	require(called)
	assert.Equal(t, []string{"special=SPECIAL-RENDERED"}, sink.customs)
	assert.Empty(t, sink.errored)
	assert.Empty(t, sink.values)
}
