// Package printer implements the external sink trait from spec.md's
// diagnostic surface: a schema's decoded value tree is walked depth-first
// and every leaf/container boundary is reported to a caller-supplied Sink,
// the Go stand-in for the source's print(buf)-overridable visitor.
package printer

import (
	"github.com/gocodec/med/ie"
)

// Sink receives callbacks as a value tree is walked. Implementations that
// only care about certain node kinds can embed NopSink and override just
// the methods they need.
type Sink interface {
	// OnContainerStart is called when entering a Sequence/Set/Choice,
	// with its nesting depth (0 at the root).
	OnContainerStart(depth int, kind ie.Kind, name string)
	// OnContainerEnd is called after every child of a container has been
	// visited.
	OnContainerEnd(depth int, kind ie.Kind, name string)
	// OnValue is called for each Value/OctetString/BitString/Null leaf that
	// has no custom printer registered for its name.
	OnValue(depth int, name string, elem ie.IE)
	// OnCustom is called in OnValue's place for a leaf whose name has a
	// custom printer registered (via WithCustomPrinter), carrying the
	// printer's rendered output (spec.md §4.11 on_custom(depth, name,
	// string)).
	OnCustom(depth int, name string, s string)
	// OnError is called when a custom per-field printer (registered via
	// WithCustomPrinter) returns an error, or when a node's depth exceeds
	// the Printer's maxDepth. That node (with its subtree, for a depth
	// error) is not reported further; walking continues with its siblings.
	OnError(depth int, name string, err error)
}

// NopSink is an embeddable Sink whose methods all do nothing, letting a
// caller override only the callbacks it cares about.
type NopSink struct{}

func (NopSink) OnContainerStart(depth int, kind ie.Kind, name string) {}
func (NopSink) OnContainerEnd(depth int, kind ie.Kind, name string)   {}
func (NopSink) OnValue(depth int, name string, elem ie.IE)            {}
func (NopSink) OnCustom(depth int, name string, s string)             {}
func (NopSink) OnError(depth int, name string, err error)             {}

// Printer walks a value tree and reports it to a Sink. custom holds the
// per-field overrides: instead of the default OnValue callback, the
// printer hands the field's IE to a caller-supplied function (e.g. to
// render an enum's symbolic name instead of its raw integer) and passes
// the rendered bytes to OnCustom.
type Printer struct {
	sink     Sink
	maxDepth int
	custom   map[string]func(elem ie.IE) ([]byte, error)
}

// New builds a Printer writing to sink, with depth limit maxDepth (0 means
// unbounded).
func New(sink Sink, maxDepth int) *Printer {
	return &Printer{sink: sink, maxDepth: maxDepth, custom: make(map[string]func(ie.IE) ([]byte, error))}
}

// WithCustomPrinter registers fn as the override for any leaf named name,
// and returns the receiver for chaining.
func (p *Printer) WithCustomPrinter(name string, fn func(elem ie.IE) ([]byte, error)) *Printer {
	p.custom[name] = fn

	return p
}

// Entry mirrors container.Entry/Member/Alternative loosely enough that the
// printer doesn't need to import package container (which would create an
// import cycle, since container's tests exercise this printer): a Walkable
// is anything that can list its named children.
type Walkable interface {
	ie.IE
	// Children returns this node's named leaf/container children in
	// declaration order.
	Children() []NamedChild
}

// NamedChild pairs a child IE with its declared field name, for nodes that
// don't expose it through ie.IE.Name() directly (e.g. a Set member keyed
// by wire tag rather than by the field's own name).
type NamedChild struct {
	Name string
	Elem ie.IE
}

// Walk depth-first visits root and every descendant reachable through
// Walkable, reporting each one to the Printer's Sink.
func (p *Printer) Walk(root Walkable) {
	p.walk(0, root.Name(), root)
}

func (p *Printer) walk(depth int, name string, node ie.IE) {
	if p.maxDepth > 0 && depth > p.maxDepth {
		p.sink.OnError(depth, name, errMaxDepth)

		return
	}

	w, isContainer := node.(Walkable)
	if !isContainer {
		p.visitLeaf(depth, name, node)

		return
	}

	p.sink.OnContainerStart(depth, node.Kind(), name)
	for _, child := range w.Children() {
		p.walk(depth+1, child.Name, child.Elem)
	}
	p.sink.OnContainerEnd(depth, node.Kind(), name)
}

func (p *Printer) visitLeaf(depth int, name string, elem ie.IE) {
	if fn, ok := p.custom[name]; ok {
		rendered, err := fn(elem)
		if err != nil {
			p.sink.OnError(depth, name, err)

			return
		}
		p.sink.OnCustom(depth, name, string(rendered))

		return
	}
	p.sink.OnValue(depth, name, elem)
}

type depthError struct{ s string }

func (e *depthError) Error() string { return e.s }

var errMaxDepth = &depthError{"med: printer max depth exceeded"}
