package container

import (
	"github.com/gocodec/med/allocator"
	"github.com/gocodec/med/buffer"
	"github.com/gocodec/med/errs"
	"github.com/gocodec/med/field"
	"github.com/gocodec/med/ie"
	"github.com/gocodec/med/meta"
	"github.com/gocodec/med/tagid"
)

// Member is one Set field together with the literal tag value that
// dispatches decode to it (spec.md §4.6).
type Member struct {
	Tag   uint64
	Field field.Field
}

// Set is the tag-dispatched, declaration-order container engine (spec.md
// §4.6): encode writes every present member in declaration order; decode
// reads a tag, looks up the member it names, and decodes into it, repeating
// until the active region is exhausted. An unknown tag is handed to an
// optional fallback handler rather than failing outright, when one is
// configured.
type Set struct {
	name         string
	members      []Member
	tagWidthBits int
	padding      buffer.Padding
	alloc        allocator.Allocator

	// dispatch maps a tag to its member index; built once at construction
	// so decode of a large tag family (spec.md's xxhash-based dispatch
	// table, SPEC_FULL.md DOMAIN STACK) is O(1) instead of a linear scan.
	dispatch map[uint64]int

	unknown func(b *buffer.Buffer, tag uint64) error
}

var _ WireIE = (*Set)(nil)

// MustUnique panics if members carries two entries with the same tag — the
// Go stand-in for the source's compile-time tag-uniqueness assertion
// (SPEC_FULL.md §5), checked once when a schema's Set is constructed rather
// than on every decode.
func MustUnique(members []Member) {
	seen := make(map[uint64]bool, len(members))
	for _, m := range members {
		if seen[m.Tag] {
			panic("med: duplicate Set tag 0x" + itoaHex(m.Tag))
		}
		seen[m.Tag] = true
	}
}

// NewSet builds a Set from its tagged members, panicking (via MustUnique)
// if two members share a tag. tagWidthBits is the common wire width of
// every member's dispatch tag.
func NewSet(name string, tagWidthBits int, padding buffer.Padding, members ...Member) *Set {
	MustUnique(members)

	dispatch := make(map[uint64]int, len(members))
	for i, m := range members {
		dispatch[tagid.Key(m.Tag)] = i
	}

	return &Set{name: name, members: members, tagWidthBits: tagWidthBits, padding: padding, dispatch: dispatch}
}

// WithAllocator attaches the allocator EnsureCount uses for this set's
// multi-valued members during decode, and returns the receiver for
// chaining.
func (s *Set) WithAllocator(a allocator.Allocator) *Set {
	s.alloc = a

	return s
}

// WithUnknownHandler attaches a callback invoked when decode reads a tag
// that names no member; the handler receives the buffer (positioned right
// after the tag) and must consume exactly its payload. A nil handler (the
// default) makes an unknown tag an error.
func (s *Set) WithUnknownHandler(h func(b *buffer.Buffer, tag uint64) error) *Set {
	s.unknown = h

	return s
}

// Kind implements ie.IE.
func (s *Set) Kind() ie.Kind { return ie.KindSet }

// Name implements ie.IE.
func (s *Set) Name() string { return s.name }

// IsSet implements ie.IE.
func (s *Set) IsSet() bool { return true }

// Clear implements ie.IE.
func (s *Set) Clear() {
	for _, m := range s.members {
		m.Field.Clear()
	}
}

// EncodeWith implements WireIE: present members are written in declaration
// order (spec.md §4.6 — a Set's wire order is still its schema order; only
// decode dispatches by tag).
func (s *Set) EncodeWith(c Codec, b *buffer.Buffer) error {
	start := b.Cursor()

	for _, m := range s.members {
		f := m.Field
		if setter := f.Setter(); setter != nil {
			setter()
		}
		if !f.Mandatory() && f.Count() == 0 {
			continue
		}
		if f.Count() < f.MinCount() {
			return errs.MissingIE(f.Name(), b.Cursor(), "count %d below min %d", f.Count(), f.MinCount())
		}
		if f.MaxCount() >= 0 && f.Count() > f.MaxCount() {
			return errs.ExtraIE(f.Name(), b.Cursor(), "count %d exceeds max %d", f.Count(), f.MaxCount())
		}

		for i := 0; i < f.Count(); i++ {
			if err := c.EncodeTag(b, meta.TagInfo{Name: f.Name(), Value: m.Tag, WidthBits: s.tagWidthBits}); err != nil {
				return err
			}
			if err := encodeField(c, b, f.Name(), stripTag(f.MetaInfo()), f.ElemAt(i)); err != nil {
				return err
			}
		}
	}

	return s.padding.Apply(s.name, b, start, 0)
}

// DecodeWith implements WireIE: it reads a tag, dispatches to the named
// member (or the unknown-tag handler), and repeats until the active
// buffer region is exhausted, then verifies every member's declared arity.
func (s *Set) DecodeWith(c Codec, b *buffer.Buffer) error {
	start := b.Cursor()
	alloc := s.alloc
	if alloc == nil {
		alloc = allocator.NewUnbounded()
	}

	seen := make(map[int]int, len(s.members))

	for b.Size() > 0 {
		tag, err := c.DecodeTag(b, meta.TagInfo{Name: s.name, WidthBits: s.tagWidthBits})
		if err != nil {
			return err
		}

		idx, ok := s.dispatch[tagid.Key(tag)]
		if !ok {
			if s.unknown != nil {
				if err := s.unknown(b, tag); err != nil {
					return err
				}

				continue
			}

			return errs.UnknownTag(s.name, b.Cursor(), tag)
		}

		f := s.members[idx].Field
		if f.MaxCount() == 1 && seen[idx] >= 1 {
			return errs.ExtraIE(f.Name(), b.Cursor(), "single-instance member decoded twice")
		}
		seen[idx]++

		if err := f.EnsureCount(alloc, f.Count()+1); err != nil {
			return err
		}
		if err := decodePayloadBodyWithLen(c, b, stripTag(f.MetaInfo()), f.Name(), f.ElemAt(f.Count()-1)); err != nil {
			return err
		}
	}

	for _, m := range s.members {
		f := m.Field
		if f.Count() < f.MinCount() {
			return errs.MissingIE(f.Name(), b.Cursor(), "count %d below min %d", f.Count(), f.MinCount())
		}
		if f.MaxCount() >= 0 && f.Count() > f.MaxCount() {
			return errs.ExtraIE(f.Name(), b.Cursor(), "count %d exceeds max %d", f.Count(), f.MaxCount())
		}
	}

	return s.padding.ApplyDecode(s.name, b, start, 0)
}

// stripTag returns mi without its TAG entry: the Set engine itself reads
// the dispatch tag, so a member's remaining meta-info (typically just a
// LEN) is all encodeField/decodePayloadBodyWithLen need to handle.
func stripTag(mi meta.List) meta.List {
	out := make(meta.List, 0, len(mi))
	for _, m := range mi {
		if m.Kind != meta.TAG {
			out = append(out, m)
		}
	}

	return out
}

// decodePayloadBodyWithLen reads an optional LEN meta-info (pushing a size
// region) before decoding a single element's payload, mirroring the
// Sequence engine's per-field handling without the tag probe (the Set
// engine already consumed the tag to dispatch here).
func decodePayloadBodyWithLen(c Codec, b *buffer.Buffer, mi meta.List, name string, elem ie.IE) error {
	if lenInfo, ok := fieldLen(mi); ok {
		n, err := c.DecodeLen(b, lenInfo)
		if err != nil {
			return err
		}
		guard, err := b.PushSize(name, n)
		if err != nil {
			return err
		}
		if err := decodePayloadBody(c, b, name, elem, guard.Remaining()); err != nil {
			return err
		}

		return guard.Release(name)
	}

	return decodePayloadBody(c, b, name, elem, -1)
}

func itoaHex(v uint64) string {
	const digits = "0123456789abcdef"
	if v == 0 {
		return "0"
	}
	var buf [16]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v&0xf]
		v >>= 4
	}

	return string(buf[i:])
}
