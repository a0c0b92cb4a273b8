package ie

import (
	"fmt"
	"unsafe"
)

// Integer is the set of fixed-width integer types a Value IE may hold. The
// octet codec only supports widths divisible by 8 (spec.md §4.5); every
// type in this constraint satisfies that by construction.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Flavor distinguishes the three Value field behaviors from spec.md §3.
type Flavor uint8

const (
	// Plain is a settable value; presence is tracked explicitly.
	Plain Flavor = iota
	// Fixed carries a single constant value that must match on decode.
	Fixed
	// Init carries a default value that decode may overwrite, and is
	// always considered set.
	Init
)

// Value is a fixed-width integer schema node. T fixes the bit width and
// signedness at compile time, the Go idiomatic lowering of the source's
// const-generic bit-width parameter.
type Value[T Integer] struct {
	name   string
	flavor Flavor
	set    bool
	val    T
	defval T // the Fixed/Init constant

	scaleNum, scaleDen int64 // 1/1 when no scale declared
}

var (
	_ IE     = (*Value[uint8])(nil)
	_ Copier = (*Value[uint8])(nil)
)

// NewValue constructs a Plain value field: unset until the user assigns it
// or decode reads it.
func NewValue[T Integer](name string) *Value[T] {
	return &Value[T]{name: name, flavor: Plain, scaleNum: 1, scaleDen: 1}
}

// NewFixedValue constructs a Fixed value field: always set to v; Set
// rejects any other value, and decode asserts equality with v.
func NewFixedValue[T Integer](name string, v T) *Value[T] {
	return &Value[T]{name: name, flavor: Fixed, set: true, val: v, defval: v, scaleNum: 1, scaleDen: 1}
}

// NewInitValue constructs an Init value field: starts set to v, but may be
// overwritten by Set or by decode.
func NewInitValue[T Integer](name string, v T) *Value[T] {
	return &Value[T]{name: name, flavor: Init, set: true, val: v, defval: v, scaleNum: 1, scaleDen: 1}
}

// Kind implements IE.
func (v *Value[T]) Kind() Kind { return KindValue }

// Name implements IE.
func (v *Value[T]) Name() string { return v.name }

// IsSet implements IE.
func (v *Value[T]) IsSet() bool { return v.set }

// Clear implements IE: Plain values become unset; Fixed and Init values
// are re-armed to their constant/default.
func (v *Value[T]) Clear() {
	switch v.flavor {
	case Plain:
		var zero T
		v.val = zero
		v.set = false
	default:
		v.val = v.defval
		v.set = true
	}
}

// Flavor reports which of Plain/Fixed/Init this field is.
func (v *Value[T]) Flavor() Flavor { return v.flavor }

// WidthBits returns the fixed bit width of T, used by the octet codec to
// know how many bytes to read/write.
func (v *Value[T]) WidthBits() int { return int(unsafe.Sizeof(v.val)) * 8 }

// Get returns the current value. Callers should check IsSet first for
// Plain fields; it returns the zero value if unset.
func (v *Value[T]) Get() T { return v.val }

// Set assigns x. For a Fixed field, x must equal the declared constant or
// Set returns an error; Fixed fields exist to be read, not rewritten to
// something else.
func (v *Value[T]) Set(x T) error {
	if v.flavor == Fixed && x != v.defval {
		return fmt.Errorf("med: field %q is fixed to %v, cannot set %v", v.name, v.defval, x)
	}
	v.val = x
	v.set = true

	return nil
}

// WithScale declares a rational scale factor applied by ScaledGet/ScaledSet
// (e.g. a Value carrying tenths of a second). This is the Go rendition of
// the original source's med/units.hpp scaled values, supplemented beyond
// the distilled spec (see SPEC_FULL.md §5). It returns the receiver for
// chaining at construction time.
func (v *Value[T]) WithScale(num, den int64) *Value[T] {
	if den == 0 {
		den = 1
	}
	v.scaleNum, v.scaleDen = num, den

	return v
}

// ScaledGet returns the value converted through the declared scale factor.
func (v *Value[T]) ScaledGet() float64 {
	return float64(v.val) * float64(v.scaleNum) / float64(v.scaleDen)
}

// ScaledSet assigns x after converting it through the inverse of the
// declared scale factor, rounding to the nearest integer.
func (v *Value[T]) ScaledSet(x float64) error {
	raw := x * float64(v.scaleDen) / float64(v.scaleNum)

	return v.Set(T(raw + 0.5*sign(raw)))
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}

	return 1
}

// GetUint returns the value's bit pattern zero-extended into a uint64,
// masked to WidthBits. Codec engines use this to read a Value IE without
// knowing its concrete T.
func (v *Value[T]) GetUint() uint64 {
	u := uint64(v.val)
	w := v.WidthBits()
	if w >= 64 {
		return u
	}

	return u & (uint64(1)<<uint(w) - 1)
}

// SetUint assigns the value from a raw bit pattern, truncating to T's
// size (which reproduces the correct sign for signed T, per the Go
// conversion spec's truncate-after-extend rule).
func (v *Value[T]) SetUint(u uint64) error {
	return v.Set(T(u))
}

// DefaultUint returns the Fixed/Init constant as a raw bit pattern,
// zero if this is a Plain field (which has no constant).
func (v *Value[T]) DefaultUint() uint64 {
	u := uint64(v.defval)
	w := v.WidthBits()
	if w >= 64 {
		return u
	}

	return u & (uint64(1)<<uint(w) - 1)
}

// ValueFlavor implements ValueIE.
func (v *Value[T]) ValueFlavor() Flavor { return v.flavor }

// CopyFrom implements Copier.
func (v *Value[T]) CopyFrom(src IE) bool {
	s, ok := src.(*Value[T])
	if !ok {
		return false
	}
	v.val = s.val
	v.set = s.set

	return true
}
