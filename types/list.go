package types

import "strings"

// ListValue represents an ordered sequence literal
type ListValue struct {
	elements []Value
}

// NewList creates a list value from its elements
func NewList(elements ...Value) ListValue {
	return ListValue{elements: elements}
}

// Len returns the number of elements
func (l ListValue) Len() int {
	return len(l.elements)
}

// Elements returns the underlying elements for iteration
func (l ListValue) Elements() []Value {
	return l.elements
}

// Type returns the type code for lists
func (l ListValue) Type() TypeCode {
	return TYPE_LIST
}

// String returns the literal representation
func (l ListValue) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range l.elements {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Equal checks deep equality, element by element in order
func (l ListValue) Equal(other Value) bool {
	otherList, ok := other.(ListValue)
	if !ok || len(l.elements) != len(otherList.elements) {
		return false
	}
	for i, e := range l.elements {
		if !e.Equal(otherList.elements[i]) {
			return false
		}
	}
	return true
}
