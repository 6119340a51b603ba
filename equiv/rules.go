package equiv

import (
	"bcdiff/bytecode"
)

// The rule tables decide, per instruction class, whether a pair of
// local-affecting instructions is compatible under the current assertion.
// The default is always failure: any pairing not explicitly matched here
// falls through to the peephole layer and, failing that, becomes a witness.
// Anything smelling of indirection, like by-reference argument binding or
// bases computed from a value naming a local, fails outright rather than
// risking a false "equivalent".

// readPair checks that reading the two locals yields equal values. Named
// locals must match literally; a named local never corresponds to an
// unnamed one. The assertion is not changed by a read.
func readPair(a Assertion, l, r bytecode.Local) bool {
	if l.IsNamed() != r.IsNamed() {
		return false
	}
	if l.IsNamed() {
		return l.Name == r.Name
	}
	return a.ReadsOK(l.ID, r.ID)
}

// writePair records that both locals were just written from values assumed
// equal. Named locals must match literally and stay out of the relation.
func writePair(a Assertion, l, r bytecode.Local) (Assertion, bool) {
	if l.IsNamed() != r.IsNamed() {
		return a, false
	}
	if l.IsNamed() {
		return a, l.Name == r.Name
	}
	return a.AddEqual(l.ID, r.ID), true
}

// unsetPair records that both locals were unset
func unsetPair(a Assertion, l, r bytecode.Local) (Assertion, bool) {
	if l.IsNamed() != r.IsNamed() {
		return a, false
	}
	if l.IsNamed() {
		return a, l.Name == r.Name
	}
	return a.UnsetBoth(l.ID, r.ID), true
}

// keyPair checks two member keys: immediate keys literally, local-backed
// keys through the read rule.
func keyPair(a Assertion, l, r bytecode.MemberKey) bool {
	if l.Kind != r.Kind {
		return false
	}
	switch l.Kind {
	case bytecode.KeyLocal, bytecode.KeyPropLocal:
		return readPair(a, l.Local, r.Local)
	case bytecode.KeyInt:
		return l.Imm == r.Imm
	case bytecode.KeyStr, bytecode.KeyProp:
		return l.Str == r.Str
	default:
		return true
	}
}

// ruleRead handles local reads and argument binding
func ruleRead(a Assertion, li, ri bytecode.Instr) (Assertion, bool) {
	if li.Op != ri.Op {
		return a, false
	}
	switch li.Op {
	case bytecode.OP_GET_L, bytecode.OP_GET_QUIET_L:
		return a, readPair(a, li.L1, ri.L1)
	case bytecode.OP_ARG_L:
		if li.Mode != ri.Mode || li.Mode == bytecode.ModeByRef {
			// by-reference binding aliases the local; never provable here
			return a, false
		}
		return a, readPair(a, li.L1, ri.L1)
	}
	return a, false
}

// ruleIsset handles isset/empty checks; the test only observes whether the
// local is set, which the read rule already decides.
func ruleIsset(a Assertion, li, ri bytecode.Instr) (Assertion, bool) {
	if li.Op != ri.Op {
		return a, false
	}
	return a, readPair(a, li.L1, ri.L1)
}

// ruleWrite handles local writes
func ruleWrite(a Assertion, li, ri bytecode.Instr) (Assertion, bool) {
	if li.Op != ri.Op {
		return a, false
	}
	switch li.Op {
	case bytecode.OP_SET_L, bytecode.OP_POP_L:
		return writePair(a, li.L1, ri.L1)
	case bytecode.OP_INC_DEC_L:
		// reads the old value, writes a value derived from it the same way
		// on both sides, so the correspondence survives
		if li.Mode != ri.Mode || !readPair(a, li.L1, ri.L1) {
			return a, false
		}
		return writePair(a, li.L1, ri.L1)
	case bytecode.OP_SET_OP_L:
		if li.Mode != ri.Mode || !readPair(a, li.L1, ri.L1) {
			return a, false
		}
		return writePair(a, li.L1, ri.L1)
	case bytecode.OP_UNSET_L:
		return unsetPair(a, li.L1, ri.L1)
	}
	return a, false
}

// ruleBase handles base and intermediate member operations
func ruleBase(a Assertion, li, ri bytecode.Instr) (Assertion, bool) {
	if li.Op != ri.Op {
		return a, false
	}
	switch li.Op {
	case bytecode.OP_BASE_C:
		return a, li.N == ri.N
	case bytecode.OP_BASE_H:
		return a, true
	case bytecode.OP_BASE_L:
		if li.Mode != ri.Mode {
			return a, false
		}
		return a, readPair(a, li.L1, ri.L1)
	case bytecode.OP_BASE_NL:
		// base named by a runtime value: indistinguishable from aliasing
		return a, false
	case bytecode.OP_DIM:
		if li.Mode != ri.Mode {
			return a, false
		}
		return a, keyPair(a, li.Key, ri.Key)
	}
	return a, false
}

// ruleFinal handles final member operations
func ruleFinal(a Assertion, li, ri bytecode.Instr) (Assertion, bool) {
	if li.Op != ri.Op || li.N != ri.N {
		return a, false
	}
	switch li.Op {
	case bytecode.OP_QUERY_M, bytecode.OP_SET_M, bytecode.OP_UNSET_M:
		return a, keyPair(a, li.Key, ri.Key)
	case bytecode.OP_INC_DEC_M:
		if li.Mode != ri.Mode {
			return a, false
		}
		return a, keyPair(a, li.Key, ri.Key)
	}
	return a, false
}

// ruleMisc handles static locals, silence regions, and the memoization
// get/set family.
func ruleMisc(a Assertion, li, ri bytecode.Instr) (Assertion, bool) {
	if li.Op != ri.Op {
		return a, false
	}
	switch li.Op {
	case bytecode.OP_STATIC_LOC_INIT:
		if li.Str != ri.Str {
			return a, false
		}
		return writePair(a, li.L1, ri.L1)
	case bytecode.OP_SILENCE:
		if li.Mode != ri.Mode {
			return a, false
		}
		if li.Mode == bytecode.ModeSilenceStart {
			// both sides stash their own error state; the stashed values
			// need not agree, only the locals' occupancy
			if li.L1.IsNamed() != ri.L1.IsNamed() {
				return a, false
			}
			if li.L1.IsNamed() {
				return a, li.L1.Name == ri.L1.Name
			}
			return a.AddUnsetEqual(li.L1.ID, ri.L1.ID), true
		}
		// end: each side restores from its own stash
		if li.L1.IsNamed() != ri.L1.IsNamed() {
			return a, false
		}
		if li.L1.IsNamed() {
			return a, li.L1.Name == ri.L1.Name
		}
		return a, true
	case bytecode.OP_MEMO_GET, bytecode.OP_MEMO_SET:
		return ruleMemoRun(a, li, ri)
	}
	return a, false
}

// ruleMemoRun checks the contiguous local run of a memo get/set: operand
// counts must agree and every position must read equal, short-circuiting on
// the first mismatch.
func ruleMemoRun(a Assertion, li, ri bytecode.Instr) (Assertion, bool) {
	if li.N != ri.N {
		return a, false
	}
	if li.L1.IsNamed() || ri.L1.IsNamed() {
		// a named local cannot anchor a slot run
		if li.N > 1 {
			return a, false
		}
		return a, readPair(a, li.L1, ri.L1)
	}
	for i := 0; i < li.N; i++ {
		l := bytecode.Unnamed(li.L1.ID + i)
		r := bytecode.Unnamed(ri.L1.ID + i)
		if !readPair(a, l, r) {
			return a, false
		}
	}
	return a, true
}

// iterStep is the dual-exit result of an iterator rule: the assertion to
// carry past the instruction and the one to carry to the jump target.
type iterStep struct {
	fall  Assertion
	taken Assertion
}

// ruleIter handles iterator init/next/free. Keyed and non-keyed kinds only
// ever match themselves, and the iterator slot must be the same on both
// sides; iterator identity beyond the slot number is not tracked.
func ruleIter(a Assertion, li, ri bytecode.Instr) (iterStep, bool) {
	if li.Op != ri.Op || li.Iter != ri.Iter {
		return iterStep{}, false
	}

	writeLocals := func(a Assertion) (Assertion, bool) {
		post, ok := writePair(a, li.L1, ri.L1)
		if !ok {
			return a, false
		}
		if li.Op == bytecode.OP_ITER_INIT_K || li.Op == bytecode.OP_ITER_NEXT_K {
			return writePair(post, li.L2, ri.L2)
		}
		return post, true
	}

	switch li.Op {
	case bytecode.OP_ITER_INIT, bytecode.OP_ITER_INIT_K:
		// falls through into the loop with the element written; jumps away
		// untouched when the container is empty
		post, ok := writeLocals(a)
		if !ok {
			return iterStep{}, false
		}
		return iterStep{fall: post, taken: a}, true
	case bytecode.OP_ITER_NEXT, bytecode.OP_ITER_NEXT_K:
		// jumps back into the loop with the next element written; falls
		// through untouched when iteration is finished
		post, ok := writeLocals(a)
		if !ok {
			return iterStep{}, false
		}
		return iterStep{fall: a, taken: post}, true
	case bytecode.OP_ITER_FREE:
		return iterStep{fall: a, taken: a}, true
	}
	return iterStep{}, false
}
