// Package meta implements the meta-info (MI) attachment described in
// spec.md §4.3: an ordered list of TAG/LEN pairs that wraps a field on the
// wire. For the octet codec, TAG bytes are a literal fixed-value prefix
// and LEN bytes carry the byte length of the following payload as a
// big-endian unsigned integer of the declared width.
package meta

// Kind distinguishes the two meta-info roles a field can carry.
type Kind uint8

const (
	// TAG identifies which field/alternative follows.
	TAG Kind = iota
	// LEN carries the byte length of the field payload that follows.
	LEN
)

// TagInfo is a TAG meta-info entry: a literal value prefix matched (for
// mandatory fields) or used to probe (for optional fields and Set/Choice
// dispatch) on decode.
type TagInfo struct {
	Name      string
	Value     uint64
	WidthBits int
	// Peek, when true, means decode reads the tag without advancing the
	// cursor so a sibling field can re-read it (spec.md §4.4 "tag
	// peeking").
	Peek bool
}

// LenInfo is a LEN meta-info entry: the byte length of the field payload
// that immediately follows, as distinct from a container-spanning length
// Placeholder (package placeholder). Because a single field's own encoded
// size is already known before it is written, LEN meta-info never needs
// back-patching: the encoder computes it up front.
type LenInfo struct {
	Name      string
	WidthBits int
	Delta     int

	// ValueToLength converts a decoded raw wire value into a byte count.
	// Nil means raw plus Delta.
	ValueToLength func(raw uint64) (int, error)
	// LengthToValue converts a byte count into the raw wire value to
	// encode. Nil means the byte count minus Delta.
	LengthToValue func(length int) (uint64, error)
}

// Info is one {kind, IE} meta-info entry.
type Info struct {
	Kind Kind
	Tag  TagInfo
	Len  LenInfo
}

// Tag builds a mandatory (non-peek) TAG entry.
func Tag(name string, value uint64, widthBits int) Info {
	return Info{Kind: TAG, Tag: TagInfo{Name: name, Value: value, WidthBits: widthBits}}
}

// PeekTag builds a TAG entry that does not advance the cursor on decode.
func PeekTag(name string, value uint64, widthBits int) Info {
	return Info{Kind: TAG, Tag: TagInfo{Name: name, Value: value, WidthBits: widthBits, Peek: true}}
}

// Len builds a LEN entry with identity conversion.
func Len(name string, widthBits int) Info {
	return Info{Kind: LEN, Len: LenInfo{Name: name, WidthBits: widthBits}}
}

// LenConv builds a LEN entry with explicit value<->length conversion
// functions and a constant delta.
func LenConv(name string, widthBits, delta int, valueToLength func(uint64) (int, error), lengthToValue func(int) (uint64, error)) Info {
	return Info{Kind: LEN, Len: LenInfo{
		Name: name, WidthBits: widthBits, Delta: delta,
		ValueToLength: valueToLength, LengthToValue: lengthToValue,
	}}
}

// List is an ordered meta-info attachment, outermost-to-innermost, per
// spec.md §4.3. MI is inherited by field wrappers (package field) from the
// IE they wrap.
type List []Info

// TagAt returns the first TAG entry in the list along with its index, or
// ok=false if the list carries no TAG.
func (l List) TagAt() (Info, int, bool) {
	for i, m := range l {
		if m.Kind == TAG {
			return m, i, true
		}
	}

	return Info{}, -1, false
}
