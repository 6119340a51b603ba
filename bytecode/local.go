package bytecode

import "fmt"

// Local is a reference to a local-variable slot. A named local is
// identified by its source-level name and must match literally between two
// programs; an unnamed local is identified by its slot index and may be
// matched against a differently numbered slot on the other side.
type Local struct {
	Name string // non-empty for named locals
	ID   int    // slot index for unnamed locals
}

// Named creates a named local reference
func Named(name string) Local {
	return Local{Name: name}
}

// Unnamed creates an unnamed local reference
func Unnamed(id int) Local {
	return Local{ID: id}
}

// IsNamed reports whether the local is a named slot
func (l Local) IsNamed() bool {
	return l.Name != ""
}

// String returns the assembly spelling of the local
func (l Local) String() string {
	if l.IsNamed() {
		return "$" + l.Name
	}
	return fmt.Sprintf("_%d", l.ID)
}

// Label names a position in an instruction sequence
type Label string
