package bytecode

import (
	"bcdiff/types"
	"fmt"
)

// AdataTable is a program's constant-data table: literal values referenced
// by id from literal-construction instructions. One table belongs to exactly
// one program and is immutable once the program is decoded; it is always
// carried alongside the instruction sequence, never held in package state.
type AdataTable struct {
	values map[int]types.Value
}

// NewAdataTable creates an empty constant-data table
func NewAdataTable() *AdataTable {
	return &AdataTable{values: make(map[int]types.Value)}
}

// Put records a literal under an id, replacing any previous entry
func (t *AdataTable) Put(id int, v types.Value) {
	t.values[id] = v
}

// Lookup returns the literal stored under an id
func (t *AdataTable) Lookup(id int) (types.Value, bool) {
	v, ok := t.values[id]
	return v, ok
}

// Len returns the number of entries
func (t *AdataTable) Len() int {
	return len(t.values)
}

// Program is one decoded function body: the instruction sequence indexed
// 0..n-1 plus its constant-data table.
type Program struct {
	Name   string
	Instrs []Instr
	Adata  *AdataTable
}

// NewProgram creates a program from its instructions and constant table.
// A nil table is replaced with an empty one.
func NewProgram(name string, instrs []Instr, adata *AdataTable) *Program {
	if adata == nil {
		adata = NewAdataTable()
	}
	return &Program{Name: name, Instrs: instrs, Adata: adata}
}

// Len returns the number of instructions
func (p *Program) Len() int {
	return len(p.Instrs)
}

// At returns the instruction at an index
func (p *Program) At(i int) Instr {
	return p.Instrs[i]
}

// String returns the disassembly of the whole program
func (p *Program) String() string {
	out := ""
	for i, in := range p.Instrs {
		out += fmt.Sprintf("%4d  %s\n", i, in)
	}
	return out
}
