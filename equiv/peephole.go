package equiv

import (
	"bcdiff/bytecode"
)

// The peephole layer is the last resort, consulted only after the generic
// rules give up on a PC pair. Each rewrite is a known-safe pattern; the
// first one that matches decides the transition. None of them ever widen
// what "equivalent" means beyond dead stores, negated-jump duals and
// reassociated literal concatenation.

// peephole tries the fallback rewrites in their fixed order and returns the
// successor obligations of the first match.
func (c *comparison) peephole(ob Obligation) ([]Obligation, bool) {
	if next, ok := c.asymmetricUnset(ob); ok {
		return next, true
	}
	if next, ok := c.deadStoreReload(ob); ok {
		return next, true
	}
	if next, ok := c.negatedBranch(ob); ok {
		return next, true
	}
	if next, ok := c.assocConcat(ob); ok {
		return next, true
	}
	return nil, false
}

// window returns n consecutive instructions starting at ip, or false when
// the program ends first.
func window(p *bytecode.Program, ip, n int) ([]bytecode.Instr, bool) {
	if ip < 0 || ip+n > p.Len() {
		return nil, false
	}
	return p.Instrs[ip : ip+n], true
}

// asymmetricUnset: one side unsets a local it tracks while the other side
// has nothing corresponding. The local is forgotten on that side and only
// that side advances.
func (c *comparison) asymmetricUnset(ob Obligation) ([]Obligation, bool) {
	if w, ok := window(c.left, ob.PC.L.IP, 1); ok {
		in := w[0]
		if in.Op == bytecode.OP_UNSET_L && !in.L1.IsNamed() && ob.Assertion.TracksLeft(in.L1.ID) {
			return []Obligation{{
				PC:        PCPair{L: ob.PC.L.withIP(ob.PC.L.IP + 1), R: ob.PC.R},
				Assertion: ob.Assertion.DropLeft(in.L1.ID),
			}}, true
		}
	}
	if w, ok := window(c.right, ob.PC.R.IP, 1); ok {
		in := w[0]
		if in.Op == bytecode.OP_UNSET_L && !in.L1.IsNamed() && ob.Assertion.TracksRight(in.L1.ID) {
			return []Obligation{{
				PC:        PCPair{L: ob.PC.L, R: ob.PC.R.withIP(ob.PC.R.IP + 1)},
				Assertion: ob.Assertion.DropRight(in.L1.ID),
			}}, true
		}
	}
	return nil, false
}

// isDeadStoreWindow matches "write local, discard, immediately re-read the
// same local": the stack is left as it was and only the local changed.
func isDeadStoreWindow(w []bytecode.Instr) (bytecode.Local, bool) {
	if w[0].Op != bytecode.OP_SET_L || w[1].Op != bytecode.OP_POP_C {
		return bytecode.Local{}, false
	}
	if w[2].Op != bytecode.OP_GET_L && w[2].Op != bytecode.OP_GET_QUIET_L {
		return bytecode.Local{}, false
	}
	if w[0].L1.IsNamed() || w[0].L1 != w[2].L1 {
		return bytecode.Local{}, false
	}
	return w[0].L1, true
}

// deadStoreReload: the three-instruction store/discard/reload idiom on one
// side is eliminable. The local keeps a value the other side never wrote,
// so its correspondence is dropped while it stays live.
func (c *comparison) deadStoreReload(ob Obligation) ([]Obligation, bool) {
	if w, ok := window(c.left, ob.PC.L.IP, 3); ok {
		if l, ok := isDeadStoreWindow(w); ok {
			return []Obligation{{
				PC:        PCPair{L: ob.PC.L.withIP(ob.PC.L.IP + 3), R: ob.PC.R},
				Assertion: ob.Assertion.DropPairLeft(l.ID),
			}}, true
		}
	}
	if w, ok := window(c.right, ob.PC.R.IP, 3); ok {
		if l, ok := isDeadStoreWindow(w); ok {
			return []Obligation{{
				PC:        PCPair{L: ob.PC.L, R: ob.PC.R.withIP(ob.PC.R.IP + 3)},
				Assertion: ob.Assertion.DropPairRight(l.ID),
			}}, true
		}
	}
	return nil, false
}

// dualSense maps a conditional jump to the sense its negated dual carries
func dualSense(op bytecode.Op) (bytecode.Op, bool) {
	switch op {
	case bytecode.OP_JMP_Z:
		return bytecode.OP_JMP_NZ, true
	case bytecode.OP_JMP_NZ:
		return bytecode.OP_JMP_Z, true
	default:
		return 0, false
	}
}

// negatedBranch: "branch-if-zero L" on one side against "negate;
// branch-if-nonzero L" on the other (and the symmetric pair). The bare side
// advances one instruction, the negated side two, and the common jump
// target pair becomes a fresh obligation.
func (c *comparison) negatedBranch(ob Obligation) ([]Obligation, bool) {
	// bare jump on the left, negated on the right
	if lw, ok := window(c.left, ob.PC.L.IP, 1); ok {
		if dual, isCond := dualSense(lw[0].Op); isCond {
			if rw, ok := window(c.right, ob.PC.R.IP, 2); ok {
				if rw[0].Op == bytecode.OP_NOT && rw[1].Op == dual {
					return c.branchPair(ob, 1, 2, lw[0].Target, rw[1].Target), true
				}
			}
		}
	}
	// negated on the left, bare jump on the right
	if rw, ok := window(c.right, ob.PC.R.IP, 1); ok {
		if dual, isCond := dualSense(rw[0].Op); isCond {
			if lw, ok := window(c.left, ob.PC.L.IP, 2); ok {
				if lw[0].Op == bytecode.OP_NOT && lw[1].Op == dual {
					return c.branchPair(ob, 2, 1, lw[1].Target, rw[0].Target), true
				}
			}
		}
	}
	return nil, false
}

// branchPair builds the fallthrough and taken obligations for a matched
// branch with uneven advances.
func (c *comparison) branchPair(ob Obligation, dl, dr int, lt, rt bytecode.Label) []Obligation {
	fall := PCPair{
		L: ob.PC.L.withIP(ob.PC.L.IP + dl),
		R: ob.PC.R.withIP(ob.PC.R.IP + dr),
	}
	taken := PCPair{
		L: ob.PC.L.withIP(c.lidx.Labels[lt]),
		R: ob.PC.R.withIP(c.ridx.Labels[rt]),
	}
	return []Obligation{
		{PC: fall, Assertion: ob.Assertion},
		{PC: taken, Assertion: ob.Assertion},
	}
}

// assocConcat: a trailing string literal concatenated in different
// associativity order. "push s; concat; concat" computes a.(b.s) where
// "concat; push s; concat" computes (a.b).s; with the same literal s both
// windows produce the same string.
func (c *comparison) assocConcat(ob Obligation) ([]Obligation, bool) {
	lw, lok := window(c.left, ob.PC.L.IP, 3)
	rw, rok := window(c.right, ob.PC.R.IP, 3)
	if !lok || !rok {
		return nil, false
	}
	match := func(lit, inner []bytecode.Instr) bool {
		return lit[0].Op == bytecode.OP_STRING &&
			lit[1].Op == bytecode.OP_CONCAT &&
			lit[2].Op == bytecode.OP_CONCAT &&
			inner[0].Op == bytecode.OP_CONCAT &&
			inner[1].Op == bytecode.OP_STRING &&
			inner[2].Op == bytecode.OP_CONCAT &&
			lit[0].Str == inner[1].Str
	}
	if match(lw, rw) || match(rw, lw) {
		return []Obligation{{
			PC: PCPair{
				L: ob.PC.L.withIP(ob.PC.L.IP + 3),
				R: ob.PC.R.withIP(ob.PC.R.IP + 3),
			},
			Assertion: ob.Assertion,
		}}, true
	}
	return nil, false
}
