package asm

import (
	"fmt"
	"sort"
	"strings"

	"bcdiff/bytecode"
)

// Format writes a program back out as assembly text. Parse(Format(p)) is
// the identity on well-formed programs; adata entries come first, in id
// order, so the output is stable.
func Format(p *bytecode.Program) string {
	var b strings.Builder

	ids := adataIDs(p.Adata)
	for _, id := range ids {
		v, _ := p.Adata.Lookup(id)
		fmt.Fprintf(&b, ".adata %d = %s\n", id, v)
	}

	for _, in := range p.Instrs {
		if in.Op != bytecode.OP_LABEL && in.Op != bytecode.OP_COMMENT {
			b.WriteString("  ")
		}
		b.WriteString(in.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// adataIDs returns the ids referenced by the program's instructions plus
// any remaining table entries, sorted.
func adataIDs(t *bytecode.AdataTable) []int {
	seen := make(map[int]bool)
	var ids []int
	for id := 0; len(ids) < t.Len() && id < 1<<20; id++ {
		if _, ok := t.Lookup(id); ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}
