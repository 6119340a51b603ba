package equiv

import (
	"errors"
	"strings"
	"testing"

	"bcdiff/asm"
)

func compareSrc(t *testing.T, left, right string, entries []EntryPair) (*Result, error) {
	t.Helper()
	lp, err := asm.Parse("left", left)
	if err != nil {
		t.Fatalf("parse left: %v", err)
	}
	rp, err := asm.Parse("right", right)
	if err != nil {
		t.Fatalf("parse right: %v", err)
	}
	return Compare(lp, rp, entries)
}

func mustEquivalent(t *testing.T, left, right string) {
	t.Helper()
	res, err := compareSrc(t, left, right, nil)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !res.Equivalent {
		t.Fatalf("expected equivalent, got witness at %s", res.Witness.PC)
	}
}

func mustDivergent(t *testing.T, left, right string) *Witness {
	t.Helper()
	res, err := compareSrc(t, left, right, nil)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if res.Equivalent {
		t.Fatalf("expected divergence, got equivalent")
	}
	if res.Witness == nil {
		t.Fatalf("divergent result carries no witness")
	}
	return res.Witness
}

func TestCompareReflexive(t *testing.T) {
	bodies := []struct {
		name string
		src  string
	}{
		{"straight line", `
Int 1
SetL _0
PopC
GetL _0
Ret
`},
		{"branch and join", `
Int 1
JmpNZ then
String "a"
Jmp done
then:
String "b"
done:
SetL _1
PopC
RetNone
`},
		{"loop", `
top:
IterNext 0 body _0
RetNone
body:
GetL _0
PopC
Jmp top
`},
		{"fault region", `
TryFaultBegin flt
Int 1
Throw
TryFaultEnd
RetNone
flt:
Unwind
`},
		{"member write", `
BaseL $obj Define
Dim ET:"inner" Define
SetM 1 ET:"field"
PopC
RetNone
`},
	}
	for _, tc := range bodies {
		t.Run(tc.name, func(t *testing.T) {
			mustEquivalent(t, tc.src, tc.src)
		})
	}
}

func TestCompareRenamedUnnamedLocals(t *testing.T) {
	left := `
Int 10
SetL _0
PopC
Int 20
SetL _1
PopC
GetL _0
GetL _1
Add
Ret
`
	right := `
Int 10
SetL _7
PopC
Int 20
SetL _3
PopC
GetL _7
GetL _3
Add
Ret
`
	mustEquivalent(t, left, right)
}

func TestCompareNamedLocalMustMatch(t *testing.T) {
	left := `
Int 1
SetL $x
PopC
RetNone
`
	right := `
Int 1
SetL $y
PopC
RetNone
`
	w := mustDivergent(t, left, right)
	if w.PC.L.IP != 1 || w.PC.R.IP != 1 {
		t.Errorf("witness at %s, want both sides stuck on the write", w.PC)
	}
}

func TestCompareStructuralTransparency(t *testing.T) {
	left := `
# compiled from foo()
start:
Int 1
inner:
Ret
`
	right := `
Int 1
Ret
`
	mustEquivalent(t, left, right)
}

func TestCompareAdataComparedByValue(t *testing.T) {
	left := `
LitList @9
Ret
.adata 9 = [1, "two", 3.5]
`
	right := `
LitList @2
Ret
.adata 2 = [1, "two", 3.5]
`
	mustEquivalent(t, left, right)
}

func TestCompareLiteralDivergenceWitness(t *testing.T) {
	left := `
LitList @0
Ret
.adata 0 = [41]
`
	right := `
LitList @0
Ret
.adata 0 = [42]
`
	w := mustDivergent(t, left, right)
	if w.PC.L.IP != 0 || w.PC.R.IP != 0 {
		t.Errorf("witness at %s, want the literal pair", w.PC)
	}
	if len(w.Assertion.Pairs()) != 0 {
		t.Errorf("witness assertion = %s, want empty", w.Assertion)
	}
}

func TestCompareNegatedBranchRewrite(t *testing.T) {
	left := `
GetL $c
JmpZ skip
Int 1
Ret
skip:
RetNone
`
	right := `
GetL $c
Not
JmpNZ skip
Int 1
Ret
skip:
RetNone
`
	mustEquivalent(t, left, right)
	// the rewrite works from either side
	mustEquivalent(t, right, left)
}

func TestCompareDeadStoreReload(t *testing.T) {
	left := `
Int 5
SetL _0
PopC
GetL _0
Ret
`
	right := `
Int 5
Ret
`
	mustEquivalent(t, left, right)
	mustEquivalent(t, right, left)
}

func TestCompareAsymmetricUnset(t *testing.T) {
	left := `
Int 1
SetL _0
PopC
UnsetL _0
RetNone
`
	right := `
Int 1
SetL _0
PopC
RetNone
`
	mustEquivalent(t, left, right)
	mustEquivalent(t, right, left)
}

func TestCompareUnsetLocalStaysDead(t *testing.T) {
	// once one side drops a local the other still holds, reads of the
	// survivor are no longer matchable
	left := `
Int 1
SetL _0
PopC
UnsetL _0
GetL _0
Ret
`
	right := `
Int 1
SetL _0
PopC
GetL _0
Ret
`
	mustDivergent(t, left, right)
}

func TestCompareAssocConcatRewrite(t *testing.T) {
	left := `
GetL $a
GetL $b
Concat
String "!"
Concat
Ret
`
	right := `
GetL $a
GetL $b
String "!"
Concat
Concat
Ret
`
	mustEquivalent(t, left, right)
	mustEquivalent(t, right, left)
}

func TestCompareAlternateEntries(t *testing.T) {
	src := `
Int 1
Ret
alt:
Int 2
Ret
`
	res, err := compareSrc(t, src, src, []EntryPair{{Left: "alt", Right: "alt"}})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !res.Equivalent {
		t.Fatalf("expected equivalent, got witness at %s", res.Witness.PC)
	}

	_, err = compareSrc(t, src, src, []EntryPair{{Left: "alt", Right: "missing"}})
	var serr *StructuralError
	if !errors.As(err, &serr) {
		t.Fatalf("undefined entry label: got %v, want StructuralError", err)
	}
	if serr.Side != SideRight {
		t.Errorf("error side = %v, want right", serr.Side)
	}
}

func TestCompareMalformedNesting(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"unmatched end", `
TryFaultEnd
RetNone
`, "fault end"},
		{"unclosed region", `
TryFaultBegin flt
RetNone
flt:
Unwind
`, "left open"},
		{"middle outside catch", `
TryCatchMiddle
RetNone
`, "middle marker"},
		{"undefined jump target", `
Jmp nowhere
`, "nowhere"},
	}
	good := `
RetNone
`
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := compareSrc(t, tc.src, good, nil)
			var serr *StructuralError
			if !errors.As(err, &serr) {
				t.Fatalf("got %v, want StructuralError", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
			if serr.Side != SideLeft {
				t.Errorf("error side = %v, want left", serr.Side)
			}
		})
	}
}

func TestCompareFaultVersusCatchDiverges(t *testing.T) {
	left := `
TryFaultBegin flt
Throw
TryFaultEnd
RetNone
flt:
Unwind
`
	right := `
TryCatchLegacyBegin c
Throw
TryCatchLegacyMiddle c
TryCatchLegacyEnd
RetNone
c:
Catch
PopC
RetNone
`
	mustDivergent(t, left, right)
}

func TestCompareNestedFaultUnwind(t *testing.T) {
	src := `
TryFaultBegin outer
TryFaultBegin inner
Throw
TryFaultEnd
TryFaultEnd
RetNone
inner:
Unwind
outer:
Unwind
`
	mustEquivalent(t, src, src)
}

func TestCompareLegacyAgainstNewCatch(t *testing.T) {
	left := `
TryCatchLegacyBegin h
Int 1
Throw
TryCatchLegacyMiddle h
TryCatchLegacyEnd
RetNone
h:
Catch
PopC
RetNone
`
	right := `
TryCatchBegin
Int 1
Throw
TryCatchMiddle
Catch
PopC
RetNone
TryCatchEnd
RetNone
`
	mustEquivalent(t, left, right)
}

func TestCompareMemoBound(t *testing.T) {
	// a converging self-comparison records at most maxAssertionsPerPC
	// assumptions for any PC pair
	src := `
top:
IterNext 0 body _0
RetNone
body:
GetL _0
SetL _1
PopC
GetL _1
PopC
Jmp top
`
	lp := asm.MustParse("left", src)
	rp := asm.MustParse("right", src)

	c := &comparison{
		left:     lp,
		right:    rp,
		memo:     make(map[string][]Assertion),
		overflow: make(map[string][]Assertion),
	}
	var err error
	if c.lidx, err = indexRegions(SideLeft, lp); err != nil {
		t.Fatal(err)
	}
	if c.ridx, err = indexRegions(SideRight, rp); err != nil {
		t.Fatal(err)
	}
	if c.lexn, err = buildExnTable(SideLeft, lp, c.lidx); err != nil {
		t.Fatal(err)
	}
	if c.rexn, err = buildExnTable(SideRight, rp, c.ridx); err != nil {
		t.Fatal(err)
	}
	c.work = append(c.work, Obligation{
		PC:        PCPair{L: PC{IP: 0}, R: PC{IP: 0}},
		Assertion: EmptyAssertion(),
	})

	res, err := c.run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Equivalent {
		t.Fatalf("expected equivalent, got witness at %s", res.Witness.PC)
	}
	for key, recorded := range c.memo {
		if len(recorded) > maxAssertionsPerPC {
			t.Errorf("memo[%s] holds %d assertions, limit is %d", key, len(recorded), maxAssertionsPerPC)
		}
	}
}

func TestCompareHandlerDepthLimit(t *testing.T) {
	// a fault handler entered inside its own protected range rethrows into
	// itself; each round pushes another handler frame until the guard trips
	src := `
TryFaultBegin flt
Throw
flt:
Throw
TryFaultEnd
RetNone
`
	_, err := compareSrc(t, src, src, nil)
	var serr *StructuralError
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want StructuralError for handler depth", err)
	}
	if !strings.Contains(err.Error(), "depth") {
		t.Errorf("error %q does not mention depth", err)
	}
}

func TestCompareArgByRefNeverMatches(t *testing.T) {
	src := `
ArgL _0 ByRef
Call "f" 1
Ret
`
	mustDivergent(t, src, src)
}

func TestCompareBaseNLNeverMatches(t *testing.T) {
	src := `
GetL $name
BaseNL _0
QueryM 0 W
Ret
`
	mustDivergent(t, src, src)
}

func TestCompareMemoizationRun(t *testing.T) {
	left := `
MemoGet _0 2
Int 1
SetL _0
PopC
Int 2
SetL _1
PopC
MemoSet _0 2
Ret
`
	// same body with the slot run renamed to a different contiguous range
	right := `
MemoGet _4 2
Int 1
SetL _4
PopC
Int 2
SetL _5
PopC
MemoSet _4 2
Ret
`
	mustEquivalent(t, left, right)
}
