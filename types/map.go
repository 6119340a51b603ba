package types

import "strings"

// MapEntry is one key/value pair of a map literal
type MapEntry struct {
	Key   Value
	Value Value
}

// MapValue represents a key/value literal. Entry order is part of the
// value: two maps with the same pairs in different order are not equal,
// matching how the source tables these model are laid out.
type MapValue struct {
	entries []MapEntry
}

// NewMap creates a map value from its entries
func NewMap(entries ...MapEntry) MapValue {
	return MapValue{entries: entries}
}

// Len returns the number of entries
func (m MapValue) Len() int {
	return len(m.entries)
}

// Entries returns the underlying entries for iteration
func (m MapValue) Entries() []MapEntry {
	return m.entries
}

// Type returns the type code for maps
func (m MapValue) Type() TypeCode {
	return TYPE_MAP
}

// String returns the literal representation
func (m MapValue) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Key.String())
		b.WriteString(": ")
		b.WriteString(e.Value.String())
	}
	b.WriteByte('}')
	return b.String()
}

// Equal checks deep equality, entry by entry in order
func (m MapValue) Equal(other Value) bool {
	otherMap, ok := other.(MapValue)
	if !ok || len(m.entries) != len(otherMap.entries) {
		return false
	}
	for i, e := range m.entries {
		o := otherMap.entries[i]
		if !e.Key.Equal(o.Key) || !e.Value.Equal(o.Value) {
			return false
		}
	}
	return true
}
