package equiv

import "fmt"

// Side identifies which of the two compared programs an error refers to
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// String returns the side name
func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// StructuralError reports malformed input: broken exception-region nesting,
// an unresolvable label, or the handler-stack depth guard firing. It is
// disjoint from a negative comparison result: a divergence is an ordinary
// Result carrying a Witness, never an error.
type StructuralError struct {
	Side Side
	IP   int // instruction index where the malformation was noticed
	Msg  string
}

// Error implements the error interface
func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s program, instruction %d: %s", e.Side, e.IP, e.Msg)
}

func structuralf(side Side, ip int, format string, args ...interface{}) *StructuralError {
	return &StructuralError{Side: side, IP: ip, Msg: fmt.Sprintf(format, args...)}
}
