package equiv

import (
	"bcdiff/bytecode"
)

const (
	// maxHandlerDepth is the defensive bound on either side's handler
	// stack. Well-formed bytecode never unwinds this deep; exceeding it is
	// treated as malformed input, not as a comparison result.
	maxHandlerDepth = 8

	// maxAssertionsPerPC bounds how many distinct assertions the memo table
	// records per PC pair. Past the bound the engine stops generic matching
	// for that pair and only consults the peephole layer, trading
	// completeness for termination.
	maxAssertionsPerPC = 4
)

// comparison is the per-run context: both programs, their label and
// exception tables, the assumption memo, and the worklist. One comparison
// owns all of it; nothing is shared between runs.
type comparison struct {
	left, right *bytecode.Program
	lidx, ridx  *RegionIndex
	lexn, rexn  *ExnTable
	memo        map[string][]Assertion
	// overflow holds assumptions seen after a PC pair's memo is full. They
	// still prune revisits (the loop must terminate) but are not part of
	// the recorded memo and never revive generic matching.
	overflow map[string][]Assertion
	work     []Obligation
}

// Compare decides whether two decoded function bodies are behaviorally
// equivalent up to renaming of unnamed locals and a small set of known-safe
// rewrites. It returns one of three outcomes: a Result proved equivalent, a
// Result carrying a Witness, or an error for structurally malformed input.
// Compare is pure and deterministic; it never retries and never logs.
func Compare(left, right *bytecode.Program, entries []EntryPair) (*Result, error) {
	c := &comparison{
		left:     left,
		right:    right,
		memo:     make(map[string][]Assertion),
		overflow: make(map[string][]Assertion),
	}

	var err error
	if c.lidx, err = indexRegions(SideLeft, left); err != nil {
		return nil, err
	}
	if c.ridx, err = indexRegions(SideRight, right); err != nil {
		return nil, err
	}
	if c.lexn, err = buildExnTable(SideLeft, left, c.lidx); err != nil {
		return nil, err
	}
	if c.rexn, err = buildExnTable(SideRight, right, c.ridx); err != nil {
		return nil, err
	}
	if err = validateTargets(SideLeft, left, c.lidx); err != nil {
		return nil, err
	}
	if err = validateTargets(SideRight, right, c.ridx); err != nil {
		return nil, err
	}

	// Seed: the main entry pair plus every alternate entry-point pair.
	c.work = append(c.work, Obligation{
		PC:        PCPair{L: PC{IP: 0}, R: PC{IP: 0}},
		Assertion: EmptyAssertion(),
	})
	for _, e := range entries {
		lip, ok := c.lidx.Labels[bytecode.Label(e.Left)]
		if !ok {
			return nil, structuralf(SideLeft, -1, "entry label %q is undefined", e.Left)
		}
		rip, ok := c.ridx.Labels[bytecode.Label(e.Right)]
		if !ok {
			return nil, structuralf(SideRight, -1, "entry label %q is undefined", e.Right)
		}
		c.work = append(c.work, Obligation{
			PC:        PCPair{L: PC{IP: lip}, R: PC{IP: rip}},
			Assertion: EmptyAssertion(),
		})
	}

	return c.run()
}

// validateTargets checks every jump and iterator target up front so the
// exploration loop can resolve labels without a failure path.
func validateTargets(side Side, p *bytecode.Program, idx *RegionIndex) error {
	for i, in := range p.Instrs {
		switch in.Op {
		case bytecode.OP_JMP, bytecode.OP_JMP_Z, bytecode.OP_JMP_NZ,
			bytecode.OP_ITER_INIT, bytecode.OP_ITER_INIT_K,
			bytecode.OP_ITER_NEXT, bytecode.OP_ITER_NEXT_K:
			if _, ok := idx.Labels[in.Target]; !ok {
				return structuralf(side, i, "jump target %q is undefined", in.Target)
			}
		}
	}
	return nil
}

// run drains the worklist. Every obligation either gets discharged (by
// subsumption or by a successful transition, whose successors re-enter the
// worklist) or sticks, in which case the whole run stops with a witness.
func (c *comparison) run() (*Result, error) {
	for len(c.work) > 0 {
		ob := c.work[len(c.work)-1]
		c.work = c.work[:len(c.work)-1]

		if d := len(ob.PC.L.Handlers); d > maxHandlerDepth {
			return nil, structuralf(SideLeft, ob.PC.L.IP, "handler stack depth %d exceeds limit", d)
		}
		if d := len(ob.PC.R.Handlers); d > maxHandlerDepth {
			return nil, structuralf(SideRight, ob.PC.R.IP, "handler stack depth %d exceeds limit", d)
		}

		key := ob.PC.key()
		recorded := c.memo[key]
		if subsumed(recorded, ob.Assertion) {
			continue
		}

		if len(recorded) >= maxAssertionsPerPC {
			// memo blown for this PC pair: no more generic matching, and no
			// more recording either, only the last-resort rewrites
			if subsumed(c.overflow[key], ob.Assertion) {
				continue
			}
			next, ok := c.peephole(ob)
			if !ok {
				return c.stuck(ob), nil
			}
			c.overflow[key] = append(c.overflow[key], ob.Assertion)
			c.work = append(c.work, next...)
			continue
		}

		next, ok := c.step(ob)
		if !ok {
			next, ok = c.peephole(ob)
		}
		if !ok {
			return c.stuck(ob), nil
		}
		c.memo[key] = append(recorded, ob.Assertion)
		c.work = append(c.work, next...)
	}
	return &Result{Equivalent: true}, nil
}

// subsumed reports whether any previously recorded assumption for this PC
// pair entails the current one, making re-exploration redundant.
func subsumed(recorded []Assertion, a Assertion) bool {
	for _, r := range recorded {
		if r.Entails(a) {
			return true
		}
	}
	return false
}

// stuck packages the counterexample for the caller
func (c *comparison) stuck(ob Obligation) *Result {
	pending := make([]Obligation, len(c.work))
	copy(pending, c.work)
	assumed := make(map[string][]Assertion, len(c.memo))
	for k, v := range c.memo {
		assumed[k] = v
	}
	return &Result{
		Equivalent: false,
		Witness: &Witness{
			PC:        ob.PC,
			Assertion: ob.Assertion,
			Assumed:   assumed,
			Pending:   pending,
		},
	}
}

// step attempts the generic transition for one obligation, in the fixed
// priority order. It returns the successor obligations, or false when no
// generic rule applies and the peephole layer gets its turn.
func (c *comparison) step(ob Obligation) ([]Obligation, bool) {
	lpc, rpc := ob.PC.L, ob.PC.R
	asn := ob.Assertion
	lEnd := lpc.IP >= c.left.Len()
	rEnd := rpc.IP >= c.right.Len()

	// One-sided structural instructions: labels, comments, region markers
	// and unconditional jumps advance one side alone and never touch the
	// assertion or the handler stack.
	if !lEnd {
		if ip, ok := c.structuralNext(c.left, c.lidx, lpc.IP); ok {
			return []Obligation{{PC: PCPair{L: lpc.withIP(ip), R: rpc}, Assertion: asn}}, true
		}
	}
	if !rEnd {
		if ip, ok := c.structuralNext(c.right, c.ridx, rpc.IP); ok {
			return []Obligation{{PC: PCPair{L: lpc, R: rpc.withIP(ip)}, Assertion: asn}}, true
		}
	}

	// Falling off the end of both programs is an implicit matching return.
	if lEnd && rEnd {
		return nil, true
	}
	if lEnd || rEnd {
		return nil, false
	}

	li := c.left.At(lpc.IP)
	ri := c.right.At(rpc.IP)

	// Matching conditional jumps of the same sense split the search: the
	// not-taken path continues, the taken pair becomes a new obligation.
	// The branch conditions themselves are not verified to be linked, a
	// known incompleteness of this rule.
	if (li.Op == bytecode.OP_JMP_Z || li.Op == bytecode.OP_JMP_NZ) && li.Op == ri.Op {
		taken := PCPair{
			L: lpc.withIP(c.lidx.Labels[li.Target]),
			R: rpc.withIP(c.ridx.Labels[ri.Target]),
		}
		fall := PCPair{L: lpc.withIP(lpc.IP + 1), R: rpc.withIP(rpc.IP + 1)}
		return []Obligation{
			{PC: fall, Assertion: asn},
			{PC: taken, Assertion: asn},
		}, true
	}

	// Matching terminal returns discharge the obligation.
	if (li.Op == bytecode.OP_RET || li.Op == bytecode.OP_RET_NONE) && li.Op == ri.Op {
		return nil, true
	}

	if li.Op == bytecode.OP_UNWIND && ri.Op == bytecode.OP_UNWIND {
		return c.stepUnwind(ob)
	}
	if li.Op == bytecode.OP_THROW && ri.Op == bytecode.OP_THROW {
		return c.stepThrow(ob)
	}

	lclass := bytecode.ClassOf(li.Op)
	rclass := bytecode.ClassOf(ri.Op)
	if lclass != rclass {
		return nil, false
	}
	advance := func(a Assertion) []Obligation {
		return []Obligation{{
			PC:        PCPair{L: lpc.withIP(lpc.IP + 1), R: rpc.withIP(rpc.IP + 1)},
			Assertion: a,
		}}
	}

	switch lclass {
	case bytecode.ClassNoEffect:
		// no local effect: literal structural identity decides
		if li.Equal(ri) {
			return advance(asn), true
		}
		return nil, false

	case bytecode.ClassLiteral:
		// the constant-table reference is resolved on each side and the
		// retrieved values compared, never the raw ids
		if li.Op != ri.Op {
			return nil, false
		}
		lv, lok := c.left.Adata.Lookup(li.AdataID)
		rv, rok := c.right.Adata.Lookup(ri.AdataID)
		if lok && rok && lv.Equal(rv) {
			return advance(asn), true
		}
		return nil, false

	case bytecode.ClassRead:
		if a, ok := ruleRead(asn, li, ri); ok {
			return advance(a), true
		}
	case bytecode.ClassIsset:
		if a, ok := ruleIsset(asn, li, ri); ok {
			return advance(a), true
		}
	case bytecode.ClassWrite:
		if a, ok := ruleWrite(asn, li, ri); ok {
			return advance(a), true
		}
	case bytecode.ClassBase:
		if a, ok := ruleBase(asn, li, ri); ok {
			return advance(a), true
		}
	case bytecode.ClassFinal:
		if a, ok := ruleFinal(asn, li, ri); ok {
			return advance(a), true
		}
	case bytecode.ClassMisc:
		if a, ok := ruleMisc(asn, li, ri); ok {
			return advance(a), true
		}

	case bytecode.ClassIter:
		st, ok := ruleIter(asn, li, ri)
		if !ok {
			return nil, false
		}
		if li.Op == bytecode.OP_ITER_FREE {
			return advance(st.fall), true
		}
		taken := PCPair{
			L: lpc.withIP(c.lidx.Labels[li.Target]),
			R: rpc.withIP(c.ridx.Labels[ri.Target]),
		}
		return []Obligation{
			{PC: PCPair{L: lpc.withIP(lpc.IP + 1), R: rpc.withIP(rpc.IP + 1)}, Assertion: st.fall},
			{PC: taken, Assertion: st.taken},
		}, true
	}

	return nil, false
}

// structuralNext reports where one side's PC moves if its current
// instruction is structural: past a marker, or through an unconditional
// jump to its target.
func (c *comparison) structuralNext(p *bytecode.Program, idx *RegionIndex, ip int) (int, bool) {
	in := p.At(ip)
	if in.Op == bytecode.OP_JMP {
		return idx.Labels[in.Target], true
	}
	if bytecode.ClassOf(in.Op) == bytecode.ClassStructural {
		return ip + 1, true
	}
	return 0, false
}

// stepUnwind matches the end of two fault bodies: both sides leave the
// handler they are in and chain to its parent in lock step. No parent on
// either side means both unwind out of the frame, which discharges the
// obligation; any shape or kind mismatch is left for the peephole layer.
func (c *comparison) stepUnwind(ob Obligation) ([]Obligation, bool) {
	lh := ob.PC.L.topHandler()
	rh := ob.PC.R.topHandler()
	if lh == nil || rh == nil {
		return nil, false
	}
	lp := c.lexn.Parent(*lh)
	rp := c.rexn.Parent(*rh)
	if lp == nil && rp == nil {
		return nil, true
	}
	if lp == nil || rp == nil || lp.Kind != rp.Kind {
		return nil, false
	}
	var next PCPair
	if lp.Kind == HandlerFault {
		// still unwinding: the parent fault body replaces the current one
		next = PCPair{
			L: ob.PC.L.replaceHandler(*lp, lp.EntryIP),
			R: ob.PC.R.replaceHandler(*rp, rp.EntryIP),
		}
	} else {
		// a catch parent consumes the exception; unwinding stops
		next = PCPair{
			L: ob.PC.L.popHandler(lp.EntryIP),
			R: ob.PC.R.popHandler(rp.EntryIP),
		}
	}
	return []Obligation{{PC: next, Assertion: ob.Assertion}}, true
}

// stepThrow matches two throws: each side resolves its innermost protecting
// handler from the exception table. Neither side protected means both leave
// the frame; two handlers of the same kind continue at the two entry
// points. Fault entries are pushed (the exception keeps unwinding through
// them), catch entries are not (the exception is consumed on entry).
func (c *comparison) stepThrow(ob Obligation) ([]Obligation, bool) {
	lh := c.lexn.HandlerAt(ob.PC.L.IP)
	rh := c.rexn.HandlerAt(ob.PC.R.IP)
	if lh == nil && rh == nil {
		return nil, true
	}
	if lh == nil || rh == nil || lh.Kind != rh.Kind {
		return nil, false
	}
	var next PCPair
	if lh.Kind == HandlerFault {
		next = PCPair{
			L: ob.PC.L.pushHandler(*lh, lh.EntryIP),
			R: ob.PC.R.pushHandler(*rh, rh.EntryIP),
		}
	} else {
		next = PCPair{
			L: ob.PC.L.withIP(lh.EntryIP),
			R: ob.PC.R.withIP(rh.EntryIP),
		}
	}
	return []Obligation{{PC: next, Assertion: ob.Assertion}}, true
}
