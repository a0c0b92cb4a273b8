package container

import "github.com/gocodec/med/printer"

var (
	_ printer.Walkable = (*Sequence)(nil)
	_ printer.Walkable = (*Set)(nil)
	_ printer.Walkable = (*Choice)(nil)
)

// Children implements printer.Walkable: every present element of every
// field entry, flattened in declaration order (a Placeholder entry has no
// printable representation of its own — the length it reserves is an
// artifact of encoding, not part of the value tree).
func (s *Sequence) Children() []printer.NamedChild {
	var out []printer.NamedChild
	for _, e := range s.entries {
		if e.F == nil {
			continue
		}
		for i := 0; i < e.F.Count(); i++ {
			out = append(out, printer.NamedChild{Name: e.F.Name(), Elem: e.F.ElemAt(i)})
		}
	}

	return out
}

// Children implements printer.Walkable.
func (s *Set) Children() []printer.NamedChild {
	var out []printer.NamedChild
	for _, m := range s.members {
		for i := 0; i < m.Field.Count(); i++ {
			out = append(out, printer.NamedChild{Name: m.Field.Name(), Elem: m.Field.ElemAt(i)})
		}
	}

	return out
}

// Children implements printer.Walkable: a Choice has at most one child,
// its currently selected alternative.
func (c *Choice) Children() []printer.NamedChild {
	if c.selected < 0 {
		return nil
	}

	return []printer.NamedChild{{Name: c.alts[c.selected].Name, Elem: c.value}}
}
