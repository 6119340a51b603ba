package types

// TypeCode identifies the kind of a literal value
type TypeCode int

const (
	TYPE_NULL  TypeCode = 0
	TYPE_BOOL  TypeCode = 1
	TYPE_INT   TypeCode = 2
	TYPE_FLOAT TypeCode = 3
	TYPE_STR   TypeCode = 4
	TYPE_LIST  TypeCode = 5
	TYPE_MAP   TypeCode = 6
)

// String returns the string representation of the type code
func (t TypeCode) String() string {
	switch t {
	case TYPE_NULL:
		return "NULL"
	case TYPE_BOOL:
		return "BOOL"
	case TYPE_INT:
		return "INT"
	case TYPE_FLOAT:
		return "FLOAT"
	case TYPE_STR:
		return "STR"
	case TYPE_LIST:
		return "LIST"
	case TYPE_MAP:
		return "MAP"
	default:
		return "UNKNOWN"
	}
}
