// Package ie implements the Information Element kind taxonomy: the closed
// set of schema node categories every field wrapper and container engine
// dispatches on (spec.md §4.1). Value, OctetString, BitString and Null are
// leaf kinds; Sequence, Set and Choice (defined in package container) are
// the container kinds.
//
// The source library's compile-time trait objects are lowered to Go
// generics: bit width, octet/bit bounds and default values are ordinary
// struct fields fixed by the constructor a schema author calls once, which
// is the idiomatic stand-in for the C++ template parameters.
package ie

// Kind classifies a schema node. It is a closed sum type; KindSequence,
// KindSet and KindChoice classify the container types of package container.
type Kind uint8

const (
	KindValue Kind = iota
	KindOctetString
	KindBitString
	KindNull
	KindSequence
	KindSet
	KindChoice
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindOctetString:
		return "octet-string"
	case KindBitString:
		return "bit-string"
	case KindNull:
		return "null"
	case KindSequence:
		return "sequence"
	case KindSet:
		return "set"
	case KindChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// IE is the common interface every schema node implements: leaf value
// types in this package, and the container types in package container.
type IE interface {
	// Kind reports which closed-set category this node belongs to.
	Kind() Kind
	// Name returns the field's declared name, used in error messages and
	// by the printer sink.
	Name() string
	// IsSet reports whether a value has been assigned (by decode, by the
	// user, or by construction for Fixed/Init flavors and Null).
	IsSet() bool
	// Clear resets the IE to its construction-time default: unset for
	// Plain values and multi-fields, re-armed for Fixed/Init values and
	// Null, and empty (no alternative selected) for a Choice.
	Clear()
}

// ValueIE is implemented by every *Value[T] regardless of T, letting codec
// engines read and write its bit pattern without knowing the concrete
// integer type — the non-generic escape hatch the engines need since a
// Sequence/Set/Choice's fields are heterogeneous.
type ValueIE interface {
	IE
	WidthBits() int
	GetUint() uint64
	SetUint(uint64) error
	DefaultUint() uint64
	ValueFlavor() Flavor
}

// Copier is implemented by IEs that support the structural deep-copy
// operation (spec.md §4.10). CopyFrom overwrites the receiver's content
// with src's; src must be the same concrete type, and implementations
// return false (no panic) when it is not, so container-level copy can
// silently skip non-matching IEs per the spec.
type Copier interface {
	CopyFrom(src IE) bool
}
