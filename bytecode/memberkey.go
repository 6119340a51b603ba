package bytecode

import "fmt"

// MemberKeyKind discriminates member-key shapes
type MemberKeyKind int

const (
	KeyNone    MemberKeyKind = iota // No key (new-element append)
	KeyCell                         // Key taken from the stack
	KeyLocal                        // Key read from a local
	KeyInt                          // Immediate integer key
	KeyStr                          // Immediate string key
	KeyProp                         // Property name
	KeyPropLocal                    // Property name read from a local
)

// MemberKey selects an element or property in base/member instructions.
// Local-backed keys are auxiliary local operands and take part in the
// variable-correspondence rules; immediate keys compare literally.
type MemberKey struct {
	Kind  MemberKeyKind
	Local Local  // for KeyLocal, KeyPropLocal
	Imm   int64  // for KeyInt
	Str   string // for KeyStr, KeyProp
}

// UsesLocal reports whether the key reads a local variable
func (k MemberKey) UsesLocal() bool {
	return k.Kind == KeyLocal || k.Kind == KeyPropLocal
}

// String returns the assembly spelling of the member key
func (k MemberKey) String() string {
	switch k.Kind {
	case KeyNone:
		return "W"
	case KeyCell:
		return "EC"
	case KeyLocal:
		return "EL:" + k.Local.String()
	case KeyInt:
		return fmt.Sprintf("EI:%d", k.Imm)
	case KeyStr:
		return fmt.Sprintf("ET:%q", k.Str)
	case KeyProp:
		return fmt.Sprintf("PT:%q", k.Str)
	case KeyPropLocal:
		return "PL:" + k.Local.String()
	default:
		return "UNKNOWN"
	}
}
