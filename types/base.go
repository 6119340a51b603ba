package types

// Value is a literal constant value as it appears in a program's
// constant-data table. Values are immutable once constructed; equality is
// deep and structural. No arithmetic or coercion semantics live here;
// the checker only ever asks whether two literals are identical.
type Value interface {
	Type() TypeCode
	String() string
	Equal(other Value) bool
}
