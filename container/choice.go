package container

import (
	"github.com/gocodec/med/buffer"
	"github.com/gocodec/med/errs"
	"github.com/gocodec/med/ie"
	"github.com/gocodec/med/meta"
	"github.com/gocodec/med/tagid"
)

// Alternative is one Choice branch: the literal tag value that selects it
// and a constructor for its payload IE (spec.md §4.7).
type Alternative struct {
	Tag    uint64
	Name   string
	NewIE  func() ie.IE
	MetaMI meta.List // this alternative's own meta-info, minus the dispatch tag
}

// Choice is the tagged-union container engine (spec.md §4.7): at most one
// alternative is active at a time. Selecting a new alternative overwrites
// whatever was previously selected (spec.md "re-select overwrite
// semantics"); encode writes the active alternative's tag then its
// payload, and decode reads a tag, constructs the matching alternative,
// and decodes into it.
type Choice struct {
	name         string
	alts         []Alternative
	tagWidthBits int
	dispatch     map[uint64]int

	selected int // index into alts, -1 if none
	value    ie.IE
}

var _ WireIE = (*Choice)(nil)

// NewChoice builds a Choice over its alternatives, panicking if two share a
// tag.
func NewChoice(name string, tagWidthBits int, alts ...Alternative) *Choice {
	dispatch := make(map[uint64]int, len(alts))
	for i, a := range alts {
		key := tagid.Key(a.Tag)
		if _, dup := dispatch[key]; dup {
			panic("med: duplicate Choice tag 0x" + itoaHex(a.Tag))
		}
		dispatch[key] = i
	}

	return &Choice{name: name, alts: alts, tagWidthBits: tagWidthBits, dispatch: dispatch, selected: -1}
}

// Kind implements ie.IE.
func (c *Choice) Kind() ie.Kind { return ie.KindChoice }

// Name implements ie.IE.
func (c *Choice) Name() string { return c.name }

// IsSet implements ie.IE: true once an alternative has been selected.
func (c *Choice) IsSet() bool { return c.selected >= 0 }

// Clear implements ie.IE, deselecting any active alternative.
func (c *Choice) Clear() {
	c.selected = -1
	c.value = nil
}

// Select activates the named alternative, constructing a fresh payload IE
// and discarding whatever was previously selected (spec.md's re-select
// overwrite semantics — a Choice never keeps more than one alternative's
// state alive).
func (c *Choice) Select(name string) (ie.IE, error) {
	for i, a := range c.alts {
		if a.Name == name {
			c.selected = i
			c.value = a.NewIE()

			return c.value, nil
		}
	}

	return nil, errs.InvalidValue(c.name, -1, "no such alternative %q", name)
}

// Selected returns the currently active alternative's payload IE and its
// name, or ok=false if none is selected.
func (c *Choice) Selected() (ie.IE, string, bool) {
	if c.selected < 0 {
		return nil, "", false
	}

	return c.value, c.alts[c.selected].Name, true
}

// EncodeWith implements WireIE: it writes the selected alternative's tag,
// then its payload (via the same LEN-aware scratch-buffer path the
// Sequence engine uses, so an alternative carrying its own length meta-info
// is handled uniformly).
func (c *Choice) EncodeWith(codec Codec, b *buffer.Buffer) error {
	if c.selected < 0 {
		return errs.MissingIE(c.name, b.Cursor(), "no alternative selected")
	}
	a := c.alts[c.selected]

	if err := codec.EncodeTag(b, meta.TagInfo{Name: c.name, Value: a.Tag, WidthBits: c.tagWidthBits}); err != nil {
		return err
	}

	return encodeField(codec, b, a.Name, a.MetaMI, c.value)
}

// DecodeWith implements WireIE: it reads a tag, selects the matching
// alternative (constructing its payload IE), and decodes into it.
func (c *Choice) DecodeWith(codec Codec, b *buffer.Buffer) error {
	tag, err := codec.DecodeTag(b, meta.TagInfo{Name: c.name, WidthBits: c.tagWidthBits})
	if err != nil {
		return err
	}

	idx, ok := c.dispatch[tagid.Key(tag)]
	if !ok {
		return errs.UnknownTag(c.name, b.Cursor(), tag)
	}
	a := c.alts[idx]
	c.selected = idx
	c.value = a.NewIE()

	return decodePayloadBodyWithLen(codec, b, a.MetaMI, a.Name, c.value)
}
