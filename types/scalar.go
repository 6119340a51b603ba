package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NullValue represents the null literal
type NullValue struct{}

// Type returns the type code for null
func (n NullValue) Type() TypeCode {
	return TYPE_NULL
}

// String returns the literal representation
func (n NullValue) String() string {
	return "null"
}

// Equal checks deep equality
func (n NullValue) Equal(other Value) bool {
	return other != nil && other.Type() == TYPE_NULL
}

// BoolValue represents a boolean literal
type BoolValue struct {
	Val bool
}

// Type returns the type code for booleans
func (b BoolValue) Type() TypeCode {
	return TYPE_BOOL
}

// String returns the literal representation
func (b BoolValue) String() string {
	if b.Val {
		return "true"
	}
	return "false"
}

// Equal checks deep equality
func (b BoolValue) Equal(other Value) bool {
	otherBool, ok := other.(BoolValue)
	return ok && b.Val == otherBool.Val
}

// IntValue represents an integer literal
type IntValue struct {
	Val int64
}

// Type returns the type code for integers
func (i IntValue) Type() TypeCode {
	return TYPE_INT
}

// String returns the literal representation
func (i IntValue) String() string {
	return fmt.Sprintf("%d", i.Val)
}

// Equal checks deep equality
func (i IntValue) Equal(other Value) bool {
	otherInt, ok := other.(IntValue)
	return ok && i.Val == otherInt.Val
}

// FloatValue represents a floating-point literal. Equality is exact bit
// equality of the IEEE representation: the checker compares literals, it
// never evaluates them.
type FloatValue struct {
	Val float64
}

// Type returns the type code for floats
func (f FloatValue) Type() TypeCode {
	return TYPE_FLOAT
}

// String returns the literal representation
func (f FloatValue) String() string {
	s := strconv.FormatFloat(f.Val, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Equal checks deep equality
func (f FloatValue) Equal(other Value) bool {
	otherFloat, ok := other.(FloatValue)
	if !ok {
		return false
	}
	return math.Float64bits(f.Val) == math.Float64bits(otherFloat.Val)
}

// StrValue represents a string literal
type StrValue struct {
	val string
}

// NewStr creates a new string value
func NewStr(s string) StrValue {
	return StrValue{val: s}
}

// Value returns the raw string contents
func (s StrValue) Value() string {
	return s.val
}

// Type returns the type code for strings
func (s StrValue) Type() TypeCode {
	return TYPE_STR
}

// String returns the quoted literal representation
func (s StrValue) String() string {
	return strconv.Quote(s.val)
}

// Equal checks deep equality
func (s StrValue) Equal(other Value) bool {
	otherStr, ok := other.(StrValue)
	return ok && s.val == otherStr.val
}
