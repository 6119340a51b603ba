package equiv

import (
	"fmt"
	"sort"
	"strings"
)

// VarPair relates one unnamed local on the left program to one on the right
type VarPair struct {
	L, R int
}

// Assertion is the equivalence hypothesis threaded through the exploration:
// a tracked correspondence set over unnamed locals (functional in both
// directions) plus, per side, the set of unnamed locals assumed to hold a
// value. A local absent from its live set is assumed equal to unset.
// Assertions are values: every operation returns a fresh one and never
// mutates its receiver.
type Assertion struct {
	pairs []VarPair
	liveL []int // sorted
	liveR []int // sorted
}

// EmptyAssertion is the hypothesis at a fresh entry point: nothing tracked,
// nothing live.
func EmptyAssertion() Assertion {
	return Assertion{}
}

// sorted int-set helpers; sets are small and short-lived

func setHas(s []int, v int) bool {
	i := sort.SearchInts(s, v)
	return i < len(s) && s[i] == v
}

func setAdd(s []int, v int) []int {
	i := sort.SearchInts(s, v)
	if i < len(s) && s[i] == v {
		return s
	}
	out := make([]int, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	out = append(out, s[i:]...)
	return out
}

func setRemove(s []int, v int) []int {
	i := sort.SearchInts(s, v)
	if i >= len(s) || s[i] != v {
		return s
	}
	out := make([]int, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out
}

func setSubset(sub, super []int) bool {
	for _, v := range sub {
		if !setHas(super, v) {
			return false
		}
	}
	return true
}

// dropMentions removes every tracked pair touching l on the left or r on
// the right, preserving the functional invariant before a new pair lands.
func (a Assertion) dropMentions(l, r int) []VarPair {
	out := make([]VarPair, 0, len(a.pairs))
	for _, p := range a.pairs {
		if p.L == l || p.R == r {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Tracked reports whether (l, r) is a tracked correspondence
func (a Assertion) Tracked(l, r int) bool {
	for _, p := range a.pairs {
		if p.L == l && p.R == r {
			return true
		}
	}
	return false
}

// TracksLeft reports whether l has a partner on the right
func (a Assertion) TracksLeft(l int) bool {
	for _, p := range a.pairs {
		if p.L == l {
			return true
		}
	}
	return false
}

// TracksRight reports whether r has a partner on the left
func (a Assertion) TracksRight(r int) bool {
	for _, p := range a.pairs {
		if p.R == r {
			return true
		}
	}
	return false
}

// LiveLeft reports whether l is assumed set on the left
func (a Assertion) LiveLeft(l int) bool {
	return setHas(a.liveL, l)
}

// LiveRight reports whether r is assumed set on the right
func (a Assertion) LiveRight(r int) bool {
	return setHas(a.liveR, r)
}

// AddEqual records that l and r now hold the same value: any previous
// partner of either is forgotten, the new pair is tracked, both become live.
func (a Assertion) AddEqual(l, r int) Assertion {
	pairs := a.dropMentions(l, r)
	pairs = append(pairs, VarPair{L: l, R: r})
	return Assertion{
		pairs: pairs,
		liveL: setAdd(a.liveL, l),
		liveR: setAdd(a.liveR, r),
	}
}

// AddUnsetEqual records that l and r were both freshly written without the
// written values being known equal: previous partners are forgotten and
// both become live, but no correspondence is tracked.
func (a Assertion) AddUnsetEqual(l, r int) Assertion {
	return Assertion{
		pairs: a.dropMentions(l, r),
		liveL: setAdd(a.liveL, l),
		liveR: setAdd(a.liveR, r),
	}
}

// UnsetBoth records that l and r were both unset: the correspondence is
// dropped and neither is live any more (both sides equal unset again).
func (a Assertion) UnsetBoth(l, r int) Assertion {
	return Assertion{
		pairs: a.dropMentions(l, r),
		liveL: setRemove(a.liveL, l),
		liveR: setRemove(a.liveR, r),
	}
}

// DropLeft forgets everything assumed about left local l: its tracked pair
// and its liveness. Used when one side unsets a local the other side never
// touches.
func (a Assertion) DropLeft(l int) Assertion {
	out := make([]VarPair, 0, len(a.pairs))
	for _, p := range a.pairs {
		if p.L != l {
			out = append(out, p)
		}
	}
	return Assertion{pairs: out, liveL: setRemove(a.liveL, l), liveR: a.liveR}
}

// DropRight forgets everything assumed about right local r
func (a Assertion) DropRight(r int) Assertion {
	out := make([]VarPair, 0, len(a.pairs))
	for _, p := range a.pairs {
		if p.R != r {
			out = append(out, p)
		}
	}
	return Assertion{pairs: out, liveL: a.liveL, liveR: setRemove(a.liveR, r)}
}

// DropPairLeft forgets only the tracked pair of left local l while marking
// it live: the local holds a value, just no longer one known equal to its
// old partner. Used by the dead-store rewrite.
func (a Assertion) DropPairLeft(l int) Assertion {
	out := make([]VarPair, 0, len(a.pairs))
	for _, p := range a.pairs {
		if p.L != l {
			out = append(out, p)
		}
	}
	return Assertion{pairs: out, liveL: setAdd(a.liveL, l), liveR: a.liveR}
}

// DropPairRight is the right-side mirror of DropPairLeft
func (a Assertion) DropPairRight(r int) Assertion {
	out := make([]VarPair, 0, len(a.pairs))
	for _, p := range a.pairs {
		if p.R != r {
			out = append(out, p)
		}
	}
	return Assertion{pairs: out, liveL: a.liveL, liveR: setAdd(a.liveR, r)}
}

// ReadsOK reports whether reading left local l and right local r is known
// to yield equal values: either the pair is tracked, or neither side is
// live and both are therefore equal to unset.
func (a Assertion) ReadsOK(l, r int) bool {
	if a.Tracked(l, r) {
		return true
	}
	return !a.LiveLeft(l) && !a.LiveRight(r)
}

// Entails reports whether a subsumes b: every correspondence of b is
// tracked by a or concerns locals dead in a, and a's live sets cover b's.
// Entailment is reflexive and transitive; the memo table uses it to skip
// obligations already covered by a recorded assumption.
func (a Assertion) Entails(b Assertion) bool {
	for _, p := range b.pairs {
		if a.Tracked(p.L, p.R) {
			continue
		}
		if !a.LiveLeft(p.L) && !a.LiveRight(p.R) {
			continue
		}
		return false
	}
	return setSubset(b.liveL, a.liveL) && setSubset(b.liveR, a.liveR)
}

// Pairs returns the tracked correspondences
func (a Assertion) Pairs() []VarPair {
	return a.pairs
}

// String renders the assertion for witness reports
func (a Assertion) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, p := range a.pairs {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "_%d~_%d", p.L, p.R)
	}
	b.WriteString("} live<")
	for i, l := range a.liveL {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "_%d", l)
	}
	b.WriteString("|")
	for i, r := range a.liveR {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "_%d", r)
	}
	b.WriteString(">")
	return b.String()
}
