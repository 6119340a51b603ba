package bytecode

// Op identifies a bytecode instruction kind
type Op int

// Structural markers
const (
	OP_NOP     Op = iota // No operation
	OP_COMMENT           // Source comment [text]
	OP_LABEL             // Position label [label]
)

// Exception-region markers
const (
	OP_TRY_CATCH_LEGACY_BEGIN  Op = OP_LABEL + 1 + iota // Open legacy try/catch [catch label]
	OP_TRY_CATCH_LEGACY_MIDDLE                          // Start of legacy catch body [catch label]
	OP_TRY_CATCH_LEGACY_END                             // Close legacy try/catch
	OP_TRY_FAULT_BEGIN                                  // Open try/fault [fault label]
	OP_TRY_FAULT_END                                    // Close try/fault
	OP_TRY_CATCH_BEGIN                                  // Open try/catch (paired positionally)
	OP_TRY_CATCH_MIDDLE                                 // Start of catch body
	OP_TRY_CATCH_END                                    // Close try/catch
)

// Control flow
const (
	OP_JMP    Op = OP_TRY_CATCH_END + 1 + iota // Unconditional jump [label]
	OP_JMP_Z                                   // Pop; jump if zero/false [label]
	OP_JMP_NZ                                  // Pop; jump if nonzero/true [label]
	OP_RET                                     // Pop and return
	OP_RET_NONE                                // Return null
	OP_THROW                                   // Pop and raise
	OP_UNWIND                                  // Resume unwinding from a fault body
)

// Literal pushes
const (
	OP_NULL     Op = OP_UNWIND + 1 + iota // Push null
	OP_TRUE                               // Push true
	OP_FALSE                              // Push false
	OP_INT                                // Push integer [imm]
	OP_DOUBLE                             // Push float [imm]
	OP_STRING                             // Push string [text]
	OP_LIT_LIST                           // Push list from constant table [adata id]
	OP_LIT_MAP                            // Push map from constant table [adata id]
)

// Stack and value operations (no local-variable effect)
const (
	OP_POP_C  Op = OP_LIT_MAP + 1 + iota // Discard top of stack
	OP_DUP                               // Duplicate top of stack
	OP_NOT                               // Pop a; push !a
	OP_CONCAT                            // Pop b, a; push a . b
	OP_ADD                               // Pop b, a; push a + b
	OP_SUB                               // Pop b, a; push a - b
	OP_MUL                               // Pop b, a; push a * b
	OP_DIV                               // Pop b, a; push a / b
	OP_MOD                               // Pop b, a; push a % b
	OP_EQ                                // Pop b, a; push a == b
	OP_NEQ                               // Pop b, a; push a != b
	OP_LT                                // Pop b, a; push a < b
	OP_LE                                // Pop b, a; push a <= b
	OP_GT                                // Pop b, a; push a > b
	OP_GE                                // Pop b, a; push a >= b
	OP_CATCH                             // Push the caught exception (catch-body entry)
	OP_AWAIT                             // Suspend on awaitable
	OP_YIELD                             // Yield from generator
	OP_INCLUDE                           // Pop path; include unit
	OP_CALL                              // Call function [name, argc]
)

// Argument binding
const (
	OP_ARG_L Op = OP_CALL + 1 + iota // Bind local as call argument [local, mode]
)

// Local reads
const (
	OP_GET_L       Op = OP_ARG_L + 1 + iota // Push local [local]
	OP_GET_QUIET_L                          // Push local without notice-on-unset [local]
)

// Isset checks
const (
	OP_ISSET_L Op = OP_GET_QUIET_L + 1 + iota // Push whether local is set [local]
	OP_EMPTY_L                                // Push whether local is empty [local]
)

// Local writes
const (
	OP_SET_L     Op = OP_EMPTY_L + 1 + iota // Store top of stack to local, keep value [local]
	OP_POP_L                                // Pop into local [local]
	OP_INC_DEC_L                            // Increment/decrement local [local, mode]
	OP_SET_OP_L                             // Compound-assign top of stack into local [local, mode]
	OP_UNSET_L                              // Unset local [local]
)

// Base and intermediate member operations
const (
	OP_BASE_C  Op = OP_UNSET_L + 1 + iota // Base from stack cell [depth]
	OP_BASE_L                             // Base from local [local, mode]
	OP_BASE_NL                            // Base from local named by value [local]
	OP_BASE_H                             // Base from $this
	OP_DIM                                // Intermediate member lookup [member key, mode]
)

// Final member operations
const (
	OP_QUERY_M   Op = OP_DIM + 1 + iota // Read member [depth, member key]
	OP_SET_M                            // Write member [depth, member key]
	OP_INC_DEC_M                        // Increment/decrement member [depth, member key, mode]
	OP_UNSET_M                          // Unset member [depth, member key]
)

// Static locals, silence, memoization
const (
	OP_STATIC_LOC_INIT Op = OP_UNSET_M + 1 + iota // Bind local to named static, init from stack [local, name]
	OP_SILENCE                                    // Save/restore error state through local [local, mode]
	OP_MEMO_GET                                   // Read memo entry keyed by local run [local, count]
	OP_MEMO_SET                                   // Write memo entry keyed by local run [local, count]
)

// Iterators
const (
	OP_ITER_INIT   Op = OP_MEMO_SET + 1 + iota // Start iteration, jump if empty [iter, label, value local]
	OP_ITER_INIT_K                             // Keyed start [iter, label, value local, key local]
	OP_ITER_NEXT                               // Advance, jump if more [iter, label, value local]
	OP_ITER_NEXT_K                             // Keyed advance [iter, label, value local, key local]
	OP_ITER_FREE                               // Release iterator [iter]
)

// OpNames maps instruction kinds to their assembly mnemonics
var OpNames = map[Op]string{
	OP_NOP:                     "Nop",
	OP_COMMENT:                 "Comment",
	OP_LABEL:                   "Label",
	OP_TRY_CATCH_LEGACY_BEGIN:  "TryCatchLegacyBegin",
	OP_TRY_CATCH_LEGACY_MIDDLE: "TryCatchLegacyMiddle",
	OP_TRY_CATCH_LEGACY_END:    "TryCatchLegacyEnd",
	OP_TRY_FAULT_BEGIN:         "TryFaultBegin",
	OP_TRY_FAULT_END:           "TryFaultEnd",
	OP_TRY_CATCH_BEGIN:         "TryCatchBegin",
	OP_TRY_CATCH_MIDDLE:        "TryCatchMiddle",
	OP_TRY_CATCH_END:           "TryCatchEnd",
	OP_JMP:                     "Jmp",
	OP_JMP_Z:                   "JmpZ",
	OP_JMP_NZ:                  "JmpNZ",
	OP_RET:                     "Ret",
	OP_RET_NONE:                "RetNone",
	OP_THROW:                   "Throw",
	OP_UNWIND:                  "Unwind",
	OP_NULL:                    "Null",
	OP_TRUE:                    "True",
	OP_FALSE:                   "False",
	OP_INT:                     "Int",
	OP_DOUBLE:                  "Double",
	OP_STRING:                  "String",
	OP_LIT_LIST:                "LitList",
	OP_LIT_MAP:                 "LitMap",
	OP_POP_C:                   "PopC",
	OP_DUP:                     "Dup",
	OP_NOT:                     "Not",
	OP_CONCAT:                  "Concat",
	OP_ADD:                     "Add",
	OP_SUB:                     "Sub",
	OP_MUL:                     "Mul",
	OP_DIV:                     "Div",
	OP_MOD:                     "Mod",
	OP_EQ:                      "Eq",
	OP_NEQ:                     "Neq",
	OP_LT:                      "Lt",
	OP_LE:                      "Le",
	OP_GT:                      "Gt",
	OP_GE:                      "Ge",
	OP_CATCH:                   "Catch",
	OP_AWAIT:                   "Await",
	OP_YIELD:                   "Yield",
	OP_INCLUDE:                 "Include",
	OP_CALL:                    "Call",
	OP_ARG_L:                   "ArgL",
	OP_GET_L:                   "GetL",
	OP_GET_QUIET_L:             "GetQuietL",
	OP_ISSET_L:                 "IssetL",
	OP_EMPTY_L:                 "EmptyL",
	OP_SET_L:                   "SetL",
	OP_POP_L:                   "PopL",
	OP_INC_DEC_L:               "IncDecL",
	OP_SET_OP_L:                "SetOpL",
	OP_UNSET_L:                 "UnsetL",
	OP_BASE_C:                  "BaseC",
	OP_BASE_L:                  "BaseL",
	OP_BASE_NL:                 "BaseNL",
	OP_BASE_H:                  "BaseH",
	OP_DIM:                     "Dim",
	OP_QUERY_M:                 "QueryM",
	OP_SET_M:                   "SetM",
	OP_INC_DEC_M:               "IncDecM",
	OP_UNSET_M:                 "UnsetM",
	OP_STATIC_LOC_INIT:         "StaticLocInit",
	OP_SILENCE:                 "Silence",
	OP_MEMO_GET:                "MemoGet",
	OP_MEMO_SET:                "MemoSet",
	OP_ITER_INIT:               "IterInit",
	OP_ITER_INIT_K:             "IterInitK",
	OP_ITER_NEXT:               "IterNext",
	OP_ITER_NEXT_K:             "IterNextK",
	OP_ITER_FREE:               "IterFree",
}

// String returns the mnemonic of an instruction kind
func (op Op) String() string {
	if name, ok := OpNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// Class groups instruction kinds by the compatibility rule that decides them
type Class int

const (
	ClassStructural Class = iota // Labels, comments, nops, region markers
	ClassControl                 // Jumps, returns, throw, unwind
	ClassNoEffect                // Stack/value ops with no local-variable effect
	ClassLiteral                 // Literal construction through the constant table
	ClassRead                    // Local reads and argument binding
	ClassIsset                   // Isset/empty checks
	ClassWrite                   // Local writes
	ClassBase                    // Base and intermediate member ops
	ClassFinal                   // Final member ops
	ClassMisc                    // Static locals, silence, memoization
	ClassIter                    // Iterator init/next/free
)

// ClassOf returns the rule class for an instruction kind
func ClassOf(op Op) Class {
	switch op {
	case OP_NOP, OP_COMMENT, OP_LABEL,
		OP_TRY_CATCH_LEGACY_BEGIN, OP_TRY_CATCH_LEGACY_MIDDLE, OP_TRY_CATCH_LEGACY_END,
		OP_TRY_FAULT_BEGIN, OP_TRY_FAULT_END,
		OP_TRY_CATCH_BEGIN, OP_TRY_CATCH_MIDDLE, OP_TRY_CATCH_END:
		return ClassStructural
	case OP_JMP, OP_JMP_Z, OP_JMP_NZ, OP_RET, OP_RET_NONE, OP_THROW, OP_UNWIND:
		return ClassControl
	case OP_LIT_LIST, OP_LIT_MAP:
		return ClassLiteral
	case OP_GET_L, OP_GET_QUIET_L, OP_ARG_L:
		return ClassRead
	case OP_ISSET_L, OP_EMPTY_L:
		return ClassIsset
	case OP_SET_L, OP_POP_L, OP_INC_DEC_L, OP_SET_OP_L, OP_UNSET_L:
		return ClassWrite
	case OP_BASE_C, OP_BASE_L, OP_BASE_NL, OP_BASE_H, OP_DIM:
		return ClassBase
	case OP_QUERY_M, OP_SET_M, OP_INC_DEC_M, OP_UNSET_M:
		return ClassFinal
	case OP_STATIC_LOC_INIT, OP_SILENCE, OP_MEMO_GET, OP_MEMO_SET:
		return ClassMisc
	case OP_ITER_INIT, OP_ITER_INIT_K, OP_ITER_NEXT, OP_ITER_NEXT_K, OP_ITER_FREE:
		return ClassIter
	default:
		return ClassNoEffect
	}
}
