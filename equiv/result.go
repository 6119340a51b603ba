package equiv

import (
	"fmt"
	"strings"
)

// PC is one side's program counter: the instruction index plus the stack of
// handler bodies currently entered through unwinding. The handler stack is
// only ever touched by throw and unwind transitions; ordinary instructions
// and region markers leave it alone.
type PC struct {
	Handlers []HandlerRef
	IP       int
}

// withIP returns a copy of the PC at a different instruction index,
// sharing the handler stack.
func (pc PC) withIP(ip int) PC {
	return PC{Handlers: pc.Handlers, IP: ip}
}

// pushHandler returns a copy with h entered
func (pc PC) pushHandler(h HandlerRef, ip int) PC {
	hs := make([]HandlerRef, len(pc.Handlers)+1)
	copy(hs, pc.Handlers)
	hs[len(pc.Handlers)] = h
	return PC{Handlers: hs, IP: ip}
}

// popHandler returns a copy with the top handler left
func (pc PC) popHandler(ip int) PC {
	hs := make([]HandlerRef, len(pc.Handlers)-1)
	copy(hs, pc.Handlers[:len(pc.Handlers)-1])
	return PC{Handlers: hs, IP: ip}
}

// replaceHandler returns a copy with the top handler swapped for h
func (pc PC) replaceHandler(h HandlerRef, ip int) PC {
	hs := make([]HandlerRef, len(pc.Handlers))
	copy(hs, pc.Handlers)
	hs[len(hs)-1] = h
	return PC{Handlers: hs, IP: ip}
}

// topHandler returns the handler body being executed, if any
func (pc PC) topHandler() *HandlerRef {
	if len(pc.Handlers) == 0 {
		return nil
	}
	h := pc.Handlers[len(pc.Handlers)-1]
	return &h
}

// String renders the PC for reports
func (pc PC) String() string {
	if len(pc.Handlers) == 0 {
		return fmt.Sprintf("%d", pc.IP)
	}
	parts := make([]string, len(pc.Handlers))
	for i, h := range pc.Handlers {
		parts[i] = h.String()
	}
	return fmt.Sprintf("%d[%s]", pc.IP, strings.Join(parts, " "))
}

// PCPair is the unit the engine reasons about: one PC per side
type PCPair struct {
	L, R PC
}

// key returns the memo-table key for the pair
func (pp PCPair) key() string {
	return pp.L.String() + " / " + pp.R.String()
}

// String renders the pair for reports
func (pp PCPair) String() string {
	return "(" + pp.L.String() + ", " + pp.R.String() + ")"
}

// Obligation is one pending proof step: show that from this PC pair, under
// this assertion, the two programs stay in lock step.
type Obligation struct {
	PC        PCPair
	Assertion Assertion
}

// EntryPair names one additional pair of entry labels beyond index 0, used
// when the compared functions carry alternate entry variants.
type EntryPair struct {
	Left, Right string
}

// Witness is the counterexample returned when no rule can reconcile the two
// programs further: where the search got stuck, what was assumed there,
// everything already proven reachable, and the obligations never discharged.
type Witness struct {
	PC        PCPair
	Assertion Assertion
	Assumed   map[string][]Assertion
	Pending   []Obligation
}

// String renders a one-line summary; full rendering belongs to the caller
func (w *Witness) String() string {
	return fmt.Sprintf("stuck at %s under %s with %d pending obligation(s)",
		w.PC, w.Assertion, len(w.Pending))
}

// Result is the outcome of a comparison that was given well-formed input:
// either the programs were proved equivalent, or a witness explains where
// the proof search got stuck. Inconclusive and genuinely divergent inputs
// both surface as a witness; malformed input surfaces as an error instead.
type Result struct {
	Equivalent bool
	Witness    *Witness
}
