package ie

// Null is a zero-length schema node: it never emits or consumes bytes, and
// is unconditionally considered set (spec.md §4.5).
type Null struct {
	name string
}

var _ IE = (*Null)(nil)

// NewNull constructs a Null field.
func NewNull(name string) *Null { return &Null{name: name} }

// Kind implements IE.
func (n *Null) Kind() Kind { return KindNull }

// Name implements IE.
func (n *Null) Name() string { return n.name }

// IsSet implements IE: a Null IE is always set.
func (n *Null) IsSet() bool { return true }

// Clear implements IE; a no-op, since Null has no content to reset.
func (n *Null) Clear() {}
