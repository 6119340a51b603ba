package asm

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"bcdiff/bytecode"
)

const kitchenSink = `.adata 0 = [1, "two", 3.5, true, null]
.adata 3 = {"k": [1, 2], 7: "v"}
# compiled from example()
entry:
  LitList @0
  SetL _0
  PopC
  LitMap @3
  SetL $named
  PopC
  Int -42
  Double 2.5
  String "a \"quoted\" string"
  Concat
  JmpZ out
  GetQuietL _0
  ArgL _1 ByVal
  Call "callee" 2
  BaseL $named Warn
  Dim ET:"field" Warn
  QueryM 1 EI:0
  SetOpL _2 AssignAdd
  IncDecM 0 PT:"prop" PostInc
  Silence _5 Start
  Silence _5 End
  StaticLocInit _6 "counter"
  MemoGet _7 2
  IterInitK 0 out _8 _9
loop:
  IterNextK 0 loop _8 _9
  IterFree 0
out:
  RetNone
`

func TestParseFormatRoundTrip(t *testing.T) {
	p, err := Parse("sink", kitchenSink)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	text := Format(p)
	if diff := cmp.Diff(kitchenSink, text); diff != "" {
		t.Errorf("Format output mismatch (-want +got):\n%s", diff)
	}

	q, err := Parse("sink", text)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if diff := cmp.Diff(p.Instrs, q.Instrs); diff != "" {
		t.Errorf("instruction mismatch after round trip (-first +second):\n%s", diff)
	}
}

func TestParseOperands(t *testing.T) {
	p, err := Parse("ops", `
Jmp tgt
tgt:
GetL $name
SetL _12
IterNext 3 tgt _4
UnsetM 2 EL:_5
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []bytecode.Instr{
		{Op: bytecode.OP_JMP, Target: "tgt"},
		{Op: bytecode.OP_LABEL, Target: "tgt"},
		{Op: bytecode.OP_GET_L, L1: bytecode.Named("name")},
		{Op: bytecode.OP_SET_L, L1: bytecode.Unnamed(12)},
		{Op: bytecode.OP_ITER_NEXT, Iter: 3, Target: "tgt", L1: bytecode.Unnamed(4)},
		{Op: bytecode.OP_UNSET_M, N: 2, Key: bytecode.MemberKey{
			Kind:  bytecode.KeyLocal,
			Local: bytecode.Unnamed(5),
		}},
	}
	if diff := cmp.Diff(want, p.Instrs); diff != "" {
		t.Errorf("decoded instructions mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		line int
		want string
	}{
		{"unknown mnemonic", "Bogus\n", 1, "unknown mnemonic"},
		{"operand count", "GetL _0 _1\n", 1, "expects 1 operand"},
		{"bad local", "SetL x\n", 1, "local must look like"},
		{"bad mode", "ArgL _0 Sideways\n", 1, "unknown mode"},
		{"bad adata", "Int 1\n.adata x = 1\n", 2, "bad adata id"},
		{"trailing literal", ".adata 0 = 1 2\n", 1, "trailing input"},
		{"unterminated string", `String "oops` + "\n", 1, "unterminated string"},
		{"bad member key", "Dim XX:1 Warn\n", 1, "unknown member key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("bad", tc.src)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("got %v, want ParseError", err)
			}
			if perr.Line != tc.line {
				t.Errorf("error line = %d, want %d", perr.Line, tc.line)
			}
			if !strings.Contains(perr.Msg, tc.want) {
				t.Errorf("error %q does not mention %q", perr.Msg, tc.want)
			}
		})
	}
}

func TestParseAdataLiterals(t *testing.T) {
	p, err := Parse("lits", `
.adata 0 = null
.adata 1 = [true, false]
.adata 2 = {1: {"nested": [1.5]}}
LitMap @2
Ret
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Adata.Len() != 3 {
		t.Fatalf("adata table holds %d entries, want 3", p.Adata.Len())
	}
	v, ok := p.Adata.Lookup(2)
	if !ok {
		t.Fatal("adata 2 missing")
	}
	if got := v.String(); got != `{1: {"nested": [1.5]}}` {
		t.Errorf("adata 2 renders as %s", got)
	}
}
