package container

import (
	"github.com/gocodec/med/allocator"
	"github.com/gocodec/med/ie"
)

// Copy performs the structural deep copy from spec.md §4.10: dst is
// cleared, then every element of every field in src is appended to the
// matching field in dst (by declaration index) via ie.Copier, using alloc
// for any overflow storage dst's multi-fields need. A type-mismatched pair
// (src and dst built from differently-shaped schemas) is skipped silently
// per the spec rather than erroring, since Copy is meant to let two
// versions of "the same" schema exchange state even when one has grown a
// field the other lacks.
func Copy(dst, src *Sequence, alloc allocator.Allocator) error {
	dst.Clear()

	n := len(src.entries)
	if len(dst.entries) < n {
		n = len(dst.entries)
	}

	for i := 0; i < n; i++ {
		se, de := src.entries[i], dst.entries[i]
		if se.F == nil || de.F == nil {
			continue
		}
		sf, df := se.F, de.F

		for j := 0; j < sf.Count(); j++ {
			srcElem := sf.ElemAt(j)
			dstElem, err := pushMatching(df, alloc)
			if err != nil {
				return err
			}
			if dstElem == nil {
				continue // shapes diverged past this point; skip silently
			}
			if cpr, ok := dstElem.(ie.Copier); ok {
				cpr.CopyFrom(srcElem)
			}
		}
	}

	return nil
}

// pushMatching grows df by one element via EnsureCount and returns it, or
// nil if df is already at its declared maximum.
func pushMatching(df interface {
	Count() int
	MaxCount() int
	EnsureCount(allocator.Allocator, int) error
	ElemAt(int) ie.IE
}, alloc allocator.Allocator) (ie.IE, error) {
	if df.MaxCount() >= 0 && df.Count() >= df.MaxCount() {
		return nil, nil
	}
	if err := df.EnsureCount(alloc, df.Count()+1); err != nil {
		return nil, err
	}

	return df.ElemAt(df.Count() - 1), nil
}
