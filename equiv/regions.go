package equiv

import (
	"bcdiff/bytecode"
)

// regionKind discriminates the three exception-region marker families
type regionKind int

const (
	regionLegacyCatch regionKind = iota // TryCatchLegacyBegin/Middle/End, label-keyed
	regionFault                         // TryFaultBegin/End, label-keyed
	regionCatch                         // TryCatchBegin/Middle/End, paired positionally
)

// openRegion is one entry on the indexer's stack of not-yet-closed regions
type openRegion struct {
	kind      regionKind
	label     bytecode.Label // for label-keyed regions
	beginIdx  int            // for positionally paired regions
	sawMiddle bool
}

// RegionIndex is the output of the single indexing pass over one program:
// where every label lands, and which middle marker belongs to each
// positionally paired try/catch begin marker.
type RegionIndex struct {
	Labels  map[bytecode.Label]int
	Middles map[int]int // begin-marker index -> middle-marker index
}

// indexRegions walks the instruction sequence once, recording label
// positions and matching region markers. Malformed nesting (a middle or
// end marker with no matching open region of the expected kind, or input
// ending with regions still open) is a structural error.
func indexRegions(side Side, p *bytecode.Program) (*RegionIndex, error) {
	idx := &RegionIndex{
		Labels:  make(map[bytecode.Label]int),
		Middles: make(map[int]int),
	}
	var open []openRegion

	top := func() *openRegion {
		if len(open) == 0 {
			return nil
		}
		return &open[len(open)-1]
	}

	for i, in := range p.Instrs {
		switch in.Op {
		case bytecode.OP_LABEL:
			if _, dup := idx.Labels[in.Target]; dup {
				return nil, structuralf(side, i, "duplicate label %q", in.Target)
			}
			idx.Labels[in.Target] = i

		case bytecode.OP_TRY_CATCH_LEGACY_BEGIN:
			open = append(open, openRegion{kind: regionLegacyCatch, label: in.Target})

		case bytecode.OP_TRY_CATCH_LEGACY_MIDDLE:
			t := top()
			if t == nil || t.kind != regionLegacyCatch || t.sawMiddle {
				return nil, structuralf(side, i, "legacy catch middle marker with no open legacy try")
			}
			t.sawMiddle = true

		case bytecode.OP_TRY_CATCH_LEGACY_END:
			t := top()
			if t == nil || t.kind != regionLegacyCatch || !t.sawMiddle {
				return nil, structuralf(side, i, "legacy catch end marker with no open legacy catch body")
			}
			open = open[:len(open)-1]

		case bytecode.OP_TRY_FAULT_BEGIN:
			open = append(open, openRegion{kind: regionFault, label: in.Target})

		case bytecode.OP_TRY_FAULT_END:
			t := top()
			if t == nil || t.kind != regionFault {
				return nil, structuralf(side, i, "fault end marker with no open try/fault")
			}
			open = open[:len(open)-1]

		case bytecode.OP_TRY_CATCH_BEGIN:
			open = append(open, openRegion{kind: regionCatch, beginIdx: i})

		case bytecode.OP_TRY_CATCH_MIDDLE:
			t := top()
			if t == nil || t.kind != regionCatch || t.sawMiddle {
				return nil, structuralf(side, i, "catch middle marker with no open try/catch")
			}
			t.sawMiddle = true
			idx.Middles[t.beginIdx] = i

		case bytecode.OP_TRY_CATCH_END:
			t := top()
			if t == nil || t.kind != regionCatch || !t.sawMiddle {
				return nil, structuralf(side, i, "catch end marker with no open catch body")
			}
			open = open[:len(open)-1]
		}
	}

	if len(open) != 0 {
		return nil, structuralf(side, len(p.Instrs), "%d exception region(s) left open at end of input", len(open))
	}
	return idx, nil
}
