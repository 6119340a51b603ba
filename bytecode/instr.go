package bytecode

import (
	"fmt"
	"strings"
)

// Instr is one decoded instruction. Operand fields are meaningful only for
// the kinds that use them; unused fields hold zero values. Instructions are
// immutable once decoded.
type Instr struct {
	Op      Op
	L1      Local     // primary local operand (value local for iterators)
	L2      Local     // secondary local operand (key local for keyed iterators)
	Target  Label     // jump target, handler label, or the label being defined
	AdataID int       // constant-table reference for literal construction
	Imm     int64     // integer immediate
	Dbl     float64   // float immediate
	Str     string    // string immediate, comment text, call/static name
	Key     MemberKey // member key for base/member ops
	Iter    int       // iterator slot
	Mode    Mode      // kind-specific refinement
	N       int       // arg count, base depth, or memo-run length
}

// Equal reports full structural equality of two instructions, locals
// included. The rule tables use finer comparisons that route locals through
// the correspondence relation; Equal is the blunt form for instruction kinds
// with no local operands.
func (in Instr) Equal(other Instr) bool {
	return in == other
}

// String returns the assembly spelling of the instruction
func (in Instr) String() string {
	var b strings.Builder
	switch in.Op {
	case OP_LABEL:
		return string(in.Target) + ":"
	case OP_COMMENT:
		return "# " + in.Str
	}
	b.WriteString(in.Op.String())
	switch in.Op {
	case OP_JMP, OP_JMP_Z, OP_JMP_NZ,
		OP_TRY_CATCH_LEGACY_BEGIN, OP_TRY_CATCH_LEGACY_MIDDLE, OP_TRY_FAULT_BEGIN:
		fmt.Fprintf(&b, " %s", in.Target)
	case OP_INT:
		fmt.Fprintf(&b, " %d", in.Imm)
	case OP_DOUBLE:
		fmt.Fprintf(&b, " %g", in.Dbl)
	case OP_STRING:
		fmt.Fprintf(&b, " %q", in.Str)
	case OP_LIT_LIST, OP_LIT_MAP:
		fmt.Fprintf(&b, " @%d", in.AdataID)
	case OP_CALL:
		fmt.Fprintf(&b, " %q %d", in.Str, in.N)
	case OP_ARG_L:
		fmt.Fprintf(&b, " %s %s", in.L1, in.Mode)
	case OP_GET_L, OP_GET_QUIET_L, OP_ISSET_L, OP_EMPTY_L, OP_SET_L, OP_POP_L, OP_UNSET_L, OP_BASE_NL:
		fmt.Fprintf(&b, " %s", in.L1)
	case OP_INC_DEC_L, OP_SET_OP_L, OP_BASE_L, OP_SILENCE:
		fmt.Fprintf(&b, " %s %s", in.L1, in.Mode)
	case OP_BASE_C:
		fmt.Fprintf(&b, " %d", in.N)
	case OP_DIM:
		fmt.Fprintf(&b, " %s %s", in.Key, in.Mode)
	case OP_QUERY_M, OP_SET_M, OP_UNSET_M:
		fmt.Fprintf(&b, " %d %s", in.N, in.Key)
	case OP_INC_DEC_M:
		fmt.Fprintf(&b, " %d %s %s", in.N, in.Key, in.Mode)
	case OP_STATIC_LOC_INIT:
		fmt.Fprintf(&b, " %s %q", in.L1, in.Str)
	case OP_MEMO_GET, OP_MEMO_SET:
		fmt.Fprintf(&b, " %s %d", in.L1, in.N)
	case OP_ITER_INIT, OP_ITER_NEXT:
		fmt.Fprintf(&b, " %d %s %s", in.Iter, in.Target, in.L1)
	case OP_ITER_INIT_K, OP_ITER_NEXT_K:
		fmt.Fprintf(&b, " %d %s %s %s", in.Iter, in.Target, in.L1, in.L2)
	case OP_ITER_FREE:
		fmt.Fprintf(&b, " %d", in.Iter)
	}
	return b.String()
}
