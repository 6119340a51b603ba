// Package diff renders comparison outcomes for humans and for tooling. The
// checker returns structured results; everything about presentation lives
// here.
package diff

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"bcdiff/bytecode"
	"bcdiff/equiv"
)

var (
	okStyle     = color.New(color.FgGreen, color.Bold)
	errorStyle  = color.New(color.FgRed, color.Bold)
	fileStyle   = color.New(color.FgCyan, color.Bold)
	lineStyle   = color.New(color.FgBlue, color.Bold)
	assertStyle = color.New(color.FgYellow)
)

// contextLines is how many instructions are shown on each side of the
// stuck position.
const contextLines = 3

// Render formats a comparison result as colored terminal text
func Render(left, right *bytecode.Program, res *equiv.Result) string {
	var b strings.Builder
	if res.Equivalent {
		okStyle.Fprint(&b, "equivalent: ")
		fmt.Fprintf(&b, "%s == %s\n", left.Name, right.Name)
		return b.String()
	}

	w := res.Witness
	errorStyle.Fprint(&b, "not equivalent: ")
	fmt.Fprintf(&b, "%s != %s\n", left.Name, right.Name)
	fmt.Fprintf(&b, "stuck at %s\n", w.PC)
	assertStyle.Fprintf(&b, "assumption: %s\n", w.Assertion)

	renderSide(&b, left, w.PC.L.IP)
	renderSide(&b, right, w.PC.R.IP)

	if len(w.Pending) > 0 {
		fmt.Fprintf(&b, "%d obligation(s) never discharged\n", len(w.Pending))
	}
	return b.String()
}

// renderSide prints the instruction window around one side's stuck index
// with an arrow at the divergence point, in the house one-issue-per-block
// style.
func renderSide(b *strings.Builder, p *bytecode.Program, ip int) {
	fileStyle.Fprintf(b, " --> %s\n", p.Name)
	lo := ip - contextLines
	if lo < 0 {
		lo = 0
	}
	hi := ip + contextLines
	if hi >= p.Len() {
		hi = p.Len() - 1
	}
	for i := lo; i <= hi; i++ {
		marker := "   "
		if i == ip {
			marker = " > "
		}
		lineStyle.Fprintf(b, "%s%4d | ", marker, i)
		fmt.Fprintf(b, "%s\n", p.At(i))
	}
	if ip >= p.Len() {
		lineStyle.Fprintf(b, " > %4d | ", ip)
		fmt.Fprintln(b, "<end of program>")
	}
}

// jsonReport is the machine-readable shape of a result
type jsonReport struct {
	Equivalent bool         `json:"equivalent"`
	Left       string       `json:"left"`
	Right      string       `json:"right"`
	Witness    *jsonWitness `json:"witness,omitempty"`
}

type jsonWitness struct {
	LeftIP     int      `json:"left_ip"`
	RightIP    int      `json:"right_ip"`
	LeftInstr  string   `json:"left_instr,omitempty"`
	RightInstr string   `json:"right_instr,omitempty"`
	Assertion  string   `json:"assertion"`
	Pending    []string `json:"pending,omitempty"`
}

// RenderJSON formats a comparison result as JSON for tooling
func RenderJSON(left, right *bytecode.Program, res *equiv.Result) ([]byte, error) {
	rep := jsonReport{
		Equivalent: res.Equivalent,
		Left:       left.Name,
		Right:      right.Name,
	}
	if w := res.Witness; w != nil {
		jw := &jsonWitness{
			LeftIP:    w.PC.L.IP,
			RightIP:   w.PC.R.IP,
			Assertion: w.Assertion.String(),
		}
		if w.PC.L.IP < left.Len() {
			jw.LeftInstr = left.At(w.PC.L.IP).String()
		}
		if w.PC.R.IP < right.Len() {
			jw.RightInstr = right.At(w.PC.R.IP).String()
		}
		for _, ob := range w.Pending {
			jw.Pending = append(jw.Pending, ob.PC.String())
		}
		rep.Witness = jw
	}
	return json.MarshalIndent(rep, "", "  ")
}
