package bytecode

// Mode refines the behavior of an instruction kind. The meaning depends on
// the kind: argument binding, increment/decrement direction, compound
// assignment operator, base lookup intent, or silence phase.
type Mode int

// Argument-binding modes
const (
	ModeByVal Mode = iota
	ModeByRef
)

// Increment/decrement modes
const (
	ModePreInc Mode = iota + 10
	ModePostInc
	ModePreDec
	ModePostDec
)

// Compound-assignment operators
const (
	ModeAssignAdd Mode = iota + 20
	ModeAssignSub
	ModeAssignMul
	ModeAssignConcat
)

// Base/member lookup intents
const (
	ModeWarn Mode = iota + 30
	ModeDefine
	ModeUnset
)

// Silence phases
const (
	ModeSilenceStart Mode = iota + 40
	ModeSilenceEnd
)

// ModeNames maps modes to their assembly spellings
var ModeNames = map[Mode]string{
	ModeByVal:        "ByVal",
	ModeByRef:        "ByRef",
	ModePreInc:       "PreInc",
	ModePostInc:      "PostInc",
	ModePreDec:       "PreDec",
	ModePostDec:      "PostDec",
	ModeAssignAdd:    "AssignAdd",
	ModeAssignSub:    "AssignSub",
	ModeAssignMul:    "AssignMul",
	ModeAssignConcat: "AssignConcat",
	ModeWarn:         "Warn",
	ModeDefine:       "Define",
	ModeUnset:        "Unset",
	ModeSilenceStart: "Start",
	ModeSilenceEnd:   "End",
}

// String returns the assembly spelling of the mode
func (m Mode) String() string {
	if name, ok := ModeNames[m]; ok {
		return name
	}
	return "UNKNOWN"
}
