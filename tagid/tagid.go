// Package tagid provides the xxhash-based dispatch key used by Set and
// Choice to route a decoded tag to its member/alternative in O(1), the
// scaling mechanism SPEC_FULL.md's DOMAIN STACK assigns to large tag
// families (hundreds of Diameter AVP codes or GTP IE types, say) where a
// linear scan over declaration order would show up in decode profiles.
package tagid

import "github.com/cespare/xxhash/v2"

// Key hashes a numeric wire tag into a dispatch-table key.
func Key(tag uint64) uint64 {
	var buf [8]byte
	buf[0] = byte(tag)
	buf[1] = byte(tag >> 8)
	buf[2] = byte(tag >> 16)
	buf[3] = byte(tag >> 24)
	buf[4] = byte(tag >> 32)
	buf[5] = byte(tag >> 40)
	buf[6] = byte(tag >> 48)
	buf[7] = byte(tag >> 56)

	return xxhash.Sum64(buf[:])
}

// NameKey hashes a textual tag (a field/member name) into the same
// dispatch-table key space as Key. codec/json does not call it; its name
// tags come from json.NameTag (FNV-1a).
func NameKey(name string) uint64 {
	return xxhash.Sum64String(name)
}
