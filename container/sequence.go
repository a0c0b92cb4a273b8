package container

import (
	"github.com/gocodec/med/allocator"
	"github.com/gocodec/med/buffer"
	"github.com/gocodec/med/errs"
	"github.com/gocodec/med/field"
	"github.com/gocodec/med/ie"
	"github.com/gocodec/med/meta"
	"github.com/gocodec/med/placeholder"
)

// Entry is one slot in a Sequence's declaration order: either a field or a
// reserved length Placeholder spanning the fields that follow it (spec.md
// §4.4, §4.8).
type Entry struct {
	F field.Field
	P *placeholder.Placeholder
}

// FieldEntry wraps f as a sequence entry.
func FieldEntry(f field.Field) Entry { return Entry{F: f} }

// PlaceholderEntry wraps a length placeholder as a sequence entry.
func PlaceholderEntry(p *placeholder.Placeholder) Entry { return Entry{P: p} }

// Sequence is the ordered-field container engine (spec.md §4.4): every
// field is emitted/read in declaration order, optional fields may be
// skipped, and a multi-field may be preceded by a counter or a length
// placeholder spanning its siblings.
type Sequence struct {
	name    string
	entries []Entry
	padding buffer.Padding
	alloc   allocator.Allocator
}

var _ WireIE = (*Sequence)(nil)

// NewSequence builds a Sequence from its ordered entries.
func NewSequence(name string, padding buffer.Padding, entries ...Entry) *Sequence {
	return &Sequence{name: name, entries: entries, padding: padding}
}

// WithAllocator attaches the allocator EnsureCount uses for this sequence's
// multi-fields during decode, and returns the receiver for chaining.
func (s *Sequence) WithAllocator(a allocator.Allocator) *Sequence {
	s.alloc = a

	return s
}

// Kind implements ie.IE.
func (s *Sequence) Kind() ie.Kind { return ie.KindSequence }

// Name implements ie.IE.
func (s *Sequence) Name() string { return s.name }

// IsSet implements ie.IE: a Sequence is structurally always present once
// constructed; presence of its individual fields is tracked by each field.
func (s *Sequence) IsSet() bool { return true }

// Clear implements ie.IE, clearing every field entry.
func (s *Sequence) Clear() {
	for _, e := range s.entries {
		if e.F != nil {
			e.F.Clear()
		}
	}
}

// EncodeWith implements WireIE: it invokes setters, skips absent optional
// fields, writes each present field's meta-info and payload in order, then
// back-patches every reserved placeholder once the container's final
// length is known, and finally applies padding.
func (s *Sequence) EncodeWith(c Codec, b *buffer.Buffer) error {
	start := b.Cursor()
	var rec placeholder.Recorder

	for _, e := range s.entries {
		if e.P != nil {
			rec.Reserve(e.P, b.Cursor())
			if err := b.Advance(e.P.Name, e.P.Width); err != nil {
				return err
			}

			continue
		}

		f := e.F
		if setter := f.Setter(); setter != nil {
			setter()
		}

		if !f.Mandatory() {
			if cond := f.Condition(); cond != nil {
				if !cond() {
					continue
				}
			} else if f.Count() == 0 {
				continue
			}
		}

		if f.Count() < f.MinCount() {
			return errs.MissingIE(f.Name(), b.Cursor(), "count %d below min %d", f.Count(), f.MinCount())
		}
		if f.MaxCount() >= 0 && f.Count() > f.MaxCount() {
			return errs.ExtraIE(f.Name(), b.Cursor(), "count %d exceeds max %d", f.Count(), f.MaxCount())
		}

		if counter := f.CounterIE(); counter != nil {
			if err := counter.SetUint(uint64(f.Count())); err != nil {
				return err
			}
			if err := c.EncodeValue(b, f.Name(), counter.WidthBits(), counter.GetUint()); err != nil {
				return err
			}
		}

		if err := encodeFieldRun(c, b, f.Name(), f.MetaInfo(), f); err != nil {
			return err
		}
	}

	final := b.Cursor()
	if err := rec.ResolveAll(func(snap placeholder.Snapshot) error {
		length := snap.Placeholder.Length(snap.Cursor, final)
		raw := uint64(length)
		if snap.Placeholder.LengthToValue != nil {
			v, err := snap.Placeholder.LengthToValue(length)
			if err != nil {
				return err
			}
			raw = v
		}

		return c.PatchLength(b, snap.Placeholder, snap.Cursor, raw)
	}); err != nil {
		return err
	}

	return s.padding.Apply(s.name, b, start, 0)
}

// DecodeWith implements WireIE, mirroring EncodeWith: a Placeholder entry is
// read as a length-prefixed size region spanning the remaining entries
// (there is nothing to back-patch on decode, since the length is already on
// the wire), and each field entry probes its tag (when it has one),
// resolves its element count from a counter IE, a CountGetter, or the
// active size region, and decodes that many elements.
func (s *Sequence) DecodeWith(c Codec, b *buffer.Buffer) error {
	start := b.Cursor()
	var guards []*buffer.SizeGuard

	for _, e := range s.entries {
		if e.P != nil {
			raw, err := c.DecodeValue(b, e.P.Name, e.P.Width*8)
			if err != nil {
				return err
			}
			length := int(raw)
			if e.P.ValueToLength != nil {
				length, err = e.P.ValueToLength(raw)
				if err != nil {
					return err
				}
			}

			var region int
			if e.P.Inclusive {
				region = length + e.P.Delta - e.P.Width
			} else {
				region = length + e.P.Delta
			}

			guard, err := b.PushSize(e.P.Name, region)
			if err != nil {
				return err
			}
			guards = append(guards, guard)

			continue
		}

		if err := decodeFieldEntry(c, b, s.allocFor(), e.F); err != nil {
			return err
		}
	}

	for i := len(guards) - 1; i >= 0; i-- {
		if err := guards[i].Release(s.name); err != nil {
			return err
		}
	}

	return s.padding.ApplyDecode(s.name, b, start, 0)
}

func (s *Sequence) allocFor() allocator.Allocator {
	if s.alloc == nil {
		return allocator.NewUnbounded()
	}

	return s.alloc
}

// encodeField writes a field entry's meta-info then payload for a single
// element. When mi carries a LEN entry, the payload is first encoded into a
// scratch buffer so its length can be measured and written ahead of it;
// this handles both leaf IEs and nested containers uniformly, since a
// container's own encoded size is otherwise unknown until it finishes.
func encodeField(c Codec, b *buffer.Buffer, name string, mi meta.List, elem ie.IE) error {
	hasLen := false
	for _, m := range mi {
		if m.Kind == meta.LEN {
			hasLen = true

			break
		}
	}

	if !hasLen {
		for _, m := range mi {
			if m.Kind == meta.TAG {
				if err := c.EncodeTag(b, m.Tag); err != nil {
					return err
				}
			}
		}

		return encodePayloadBody(c, b, name, elem)
	}

	scratch := buffer.NewEncodeBuffer(32)
	if err := encodePayloadBody(c, scratch, name, elem); err != nil {
		return err
	}
	payload := scratch.Bytes()

	for _, m := range mi {
		switch m.Kind {
		case meta.TAG:
			if err := c.EncodeTag(b, m.Tag); err != nil {
				return err
			}
		case meta.LEN:
			if err := c.EncodeLen(b, m.Len, len(payload)); err != nil {
				return err
			}
		}
	}

	return b.WriteBytes(name, payload)
}

// encodeFieldRun writes a multi-instance field's TAG (once) and, when mi
// carries a LEN entry, a single length covering every element's payload
// concatenated together — the encode-side counterpart of decodeFieldEntry's
// single tag-probe-then-loop-elements shape, so a field declared with arity
// > 1 is framed as one TLV run rather than one TLV per element (Set/Choice
// members, which dispatch a fresh tag per occurrence, use encodeField
// instead).
func encodeFieldRun(c Codec, b *buffer.Buffer, name string, mi meta.List, f field.Field) error {
	hasLen := false
	for _, m := range mi {
		if m.Kind == meta.LEN {
			hasLen = true

			break
		}
	}

	writeElems := func(dst *buffer.Buffer) error {
		for i := 0; i < f.Count(); i++ {
			if err := encodePayloadBody(c, dst, name, f.ElemAt(i)); err != nil {
				return err
			}
		}

		return nil
	}

	if !hasLen {
		for _, m := range mi {
			if m.Kind == meta.TAG {
				if err := c.EncodeTag(b, m.Tag); err != nil {
					return err
				}
			}
		}

		return writeElems(b)
	}

	scratch := buffer.NewEncodeBuffer(32)
	if err := writeElems(scratch); err != nil {
		return err
	}
	payload := scratch.Bytes()

	for _, m := range mi {
		switch m.Kind {
		case meta.TAG:
			if err := c.EncodeTag(b, m.Tag); err != nil {
				return err
			}
		case meta.LEN:
			if err := c.EncodeLen(b, m.Len, len(payload)); err != nil {
				return err
			}
		}
	}

	return b.WriteBytes(name, payload)
}

// decodeFieldEntry reads one field's full element run: tag probe (with
// rewind-and-skip for an optional field whose tag doesn't match), LEN
// meta-info (pushing a size region bounding the payload), element-count
// resolution, and the per-element decode loop, finishing with an arity
// check against the field's declared [min,max].
func decodeFieldEntry(c Codec, b *buffer.Buffer, alloc allocator.Allocator, f field.Field) error {
	mi := f.MetaInfo()

	if tagInfo, _, ok := mi.TagAt(); ok {
		before := b.Cursor()
		got, err := c.DecodeTag(b, tagInfo.Tag)
		if err != nil {
			return err
		}
		if got != tagInfo.Tag.Value {
			if f.Mandatory() {
				return errs.UnknownTag(f.Name(), before, got)
			}
			if !tagInfo.Tag.Peek {
				b.SetState(before)
			}

			return nil // optional field absent
		}
	}

	var guard *buffer.SizeGuard
	if lenInfo, ok := fieldLen(mi); ok {
		n, err := c.DecodeLen(b, lenInfo)
		if err != nil {
			return err
		}
		guard, err = b.PushSize(f.Name(), n)
		if err != nil {
			return err
		}
	}

	count, unbounded, err := resolveCount(c, b, f)
	if err != nil {
		return err
	}
	if !unbounded {
		if err := f.EnsureCount(alloc, count); err != nil {
			return err
		}
		for i := 0; i < count; i++ {
			if err := decodePayloadBody(c, b, f.Name(), f.ElemAt(i), -1); err != nil {
				return err
			}
		}
	} else {
		for remaining(b, guard) > 0 {
			if err := f.EnsureCount(alloc, f.Count()+1); err != nil {
				return err
			}
			if err := decodePayloadBody(c, b, f.Name(), f.ElemAt(f.Count()-1), -1); err != nil {
				return err
			}
		}
	}

	if guard != nil {
		if err := guard.Release(f.Name()); err != nil {
			return err
		}
	}

	if f.Count() < f.MinCount() {
		return errs.MissingIE(f.Name(), b.Cursor(), "count %d below min %d", f.Count(), f.MinCount())
	}
	if f.MaxCount() >= 0 && f.Count() > f.MaxCount() {
		return errs.ExtraIE(f.Name(), b.Cursor(), "count %d exceeds max %d", f.Count(), f.MaxCount())
	}

	return nil
}

func fieldLen(mi meta.List) (meta.LenInfo, bool) {
	for _, m := range mi {
		if m.Kind == meta.LEN {
			return m.Len, true
		}
	}

	return meta.LenInfo{}, false
}

// resolveCount determines how many elements to decode for f: from its
// counter IE if it has one, from a CounterGetter, from MaxCount()==1 for a
// plain scalar field, or unbounded (driven by remaining bytes in the active
// size region) otherwise.
func resolveCount(c Codec, b *buffer.Buffer, f field.Field) (count int, unbounded bool, err error) {
	if counter := f.CounterIE(); counter != nil {
		raw, err := c.DecodeValue(b, f.Name(), counter.WidthBits())
		if err != nil {
			return 0, false, err
		}
		if err := counter.SetUint(raw); err != nil {
			return 0, false, err
		}

		return int(counter.GetUint()), false, nil
	}
	if getter := f.CounterGetter(); getter != nil {
		return getter(), false, nil
	}
	if f.MaxCount() == 1 {
		return 1, false, nil
	}

	return 0, true, nil
}

func remaining(b *buffer.Buffer, guard *buffer.SizeGuard) int {
	if guard != nil {
		return guard.Remaining()
	}

	return b.Size()
}
