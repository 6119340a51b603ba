package equiv

import (
	"bcdiff/bytecode"
	"fmt"
)

// HandlerKind discriminates the two handler flavors: a fault handler runs
// on any unwind through its region, a catch handler only on a thrown
// exception, after which unwinding stops.
type HandlerKind int

const (
	HandlerFault HandlerKind = iota
	HandlerCatch
)

// String returns the handler kind name
func (k HandlerKind) String() string {
	if k == HandlerFault {
		return "fault"
	}
	return "catch"
}

// HandlerRef identifies one handler by its kind and the instruction index
// of its entry point.
type HandlerRef struct {
	Kind    HandlerKind
	EntryIP int
}

// String returns a compact rendering of the handler reference
func (h HandlerRef) String() string {
	return fmt.Sprintf("%s@%d", h.Kind, h.EntryIP)
}

// ExnTable is the immutable per-program exception table: for every
// instruction index the innermost enclosing handler, and for every handler
// the next handler outward. Both are derived in a second forward pass over
// the same region markers the indexer matched.
type ExnTable struct {
	enclosing []*HandlerRef
	parent    map[HandlerRef]HandlerRef
}

// HandlerAt returns the innermost handler protecting the instruction at ip,
// or nil when a throw there leaves the frame.
func (t *ExnTable) HandlerAt(ip int) *HandlerRef {
	if ip < 0 || ip >= len(t.enclosing) {
		return nil
	}
	return t.enclosing[ip]
}

// Parent returns the handler enclosing h itself, used to chain unwinds
// outward, or nil when h is outermost.
func (t *ExnTable) Parent(h HandlerRef) *HandlerRef {
	p, ok := t.parent[h]
	if !ok {
		return nil
	}
	return &p
}

// buildExnTable stamps every instruction with its innermost protecting
// handler. The protected span of a catch region ends at its middle marker
// (the catch body is guarded only by outer regions); a fault region
// protects everything up to its end marker. Opening a region inside
// another records the outer handler as the new one's parent.
func buildExnTable(side Side, p *bytecode.Program, idx *RegionIndex) (*ExnTable, error) {
	t := &ExnTable{
		enclosing: make([]*HandlerRef, len(p.Instrs)),
		parent:    make(map[HandlerRef]HandlerRef),
	}
	var stack []HandlerRef

	push := func(i int, h HandlerRef) {
		if len(stack) > 0 {
			t.parent[h] = stack[len(stack)-1]
		}
		stack = append(stack, h)
	}
	pop := func(i int, what string) error {
		if len(stack) == 0 {
			return structuralf(side, i, "%s with no open region", what)
		}
		stack = stack[:len(stack)-1]
		return nil
	}

	for i, in := range p.Instrs {
		switch in.Op {
		case bytecode.OP_TRY_CATCH_LEGACY_BEGIN:
			entry, ok := idx.Labels[in.Target]
			if !ok {
				return nil, structuralf(side, i, "legacy catch label %q is undefined", in.Target)
			}
			push(i, HandlerRef{Kind: HandlerCatch, EntryIP: entry})

		case bytecode.OP_TRY_CATCH_LEGACY_MIDDLE:
			if err := pop(i, "legacy catch middle marker"); err != nil {
				return nil, err
			}

		case bytecode.OP_TRY_FAULT_BEGIN:
			entry, ok := idx.Labels[in.Target]
			if !ok {
				return nil, structuralf(side, i, "fault label %q is undefined", in.Target)
			}
			push(i, HandlerRef{Kind: HandlerFault, EntryIP: entry})

		case bytecode.OP_TRY_FAULT_END:
			if err := pop(i, "fault end marker"); err != nil {
				return nil, err
			}

		case bytecode.OP_TRY_CATCH_BEGIN:
			entry, ok := idx.Middles[i]
			if !ok {
				return nil, structuralf(side, i, "try/catch begin marker has no middle marker")
			}
			push(i, HandlerRef{Kind: HandlerCatch, EntryIP: entry})

		case bytecode.OP_TRY_CATCH_MIDDLE:
			if err := pop(i, "catch middle marker"); err != nil {
				return nil, err
			}

		default:
			if len(stack) > 0 {
				h := stack[len(stack)-1]
				t.enclosing[i] = &h
			}
		}
	}

	if len(stack) != 0 {
		return nil, structuralf(side, len(p.Instrs), "%d exception region(s) left open at end of input", len(stack))
	}
	return t, nil
}
