// Package asm reads and writes the textual form of decoded bytecode. The
// checker itself only consumes decoded programs; this package is the front
// end the surrounding tooling uses to get them.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"bcdiff/bytecode"
)

// ParseError reports a malformed assembly line
type ParseError struct {
	Line int
	Msg  string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

var opByName = func() map[string]bytecode.Op {
	m := make(map[string]bytecode.Op, len(bytecode.OpNames))
	for op, name := range bytecode.OpNames {
		m[name] = op
	}
	return m
}()

var modeByName = func() map[string]bytecode.Mode {
	m := make(map[string]bytecode.Mode, len(bytecode.ModeNames))
	for mode, name := range bytecode.ModeNames {
		m[name] = mode
	}
	return m
}()

// Parse turns assembly text into a decoded program. One instruction per
// line; `name:` defines a label, `# text` is a comment instruction,
// `.adata N = literal` fills the constant table.
func Parse(name, src string) (*bytecode.Program, error) {
	adata := bytecode.NewAdataTable()
	var instrs []bytecode.Instr

	for lineno, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		n := lineno + 1

		if strings.HasPrefix(line, "#") {
			instrs = append(instrs, bytecode.Instr{
				Op:  bytecode.OP_COMMENT,
				Str: strings.TrimSpace(line[1:]),
			})
			continue
		}
		if strings.HasPrefix(line, ".adata") {
			if err := parseAdataLine(line, adata); err != nil {
				return nil, &ParseError{Line: n, Msg: err.Error()}
			}
			continue
		}
		if strings.HasSuffix(line, ":") && !strings.ContainsAny(line, " \t") {
			instrs = append(instrs, bytecode.Instr{
				Op:     bytecode.OP_LABEL,
				Target: bytecode.Label(strings.TrimSuffix(line, ":")),
			})
			continue
		}

		in, err := parseInstr(line)
		if err != nil {
			return nil, &ParseError{Line: n, Msg: err.Error()}
		}
		instrs = append(instrs, in)
	}

	return bytecode.NewProgram(name, instrs, adata), nil
}

// MustParse is Parse for fixtures known to be well-formed
func MustParse(name, src string) *bytecode.Program {
	p, err := Parse(name, src)
	if err != nil {
		panic(err)
	}
	return p
}

func parseAdataLine(line string, adata *bytecode.AdataTable) error {
	rest := strings.TrimSpace(strings.TrimPrefix(line, ".adata"))
	eq := strings.Index(rest, "=")
	if eq < 0 {
		return fmt.Errorf(".adata needs the form '.adata N = literal'")
	}
	id, err := strconv.Atoi(strings.TrimSpace(rest[:eq]))
	if err != nil {
		return fmt.Errorf("bad adata id %q", strings.TrimSpace(rest[:eq]))
	}
	v, tail, err := parseLiteral(rest[eq+1:])
	if err != nil {
		return err
	}
	if strings.TrimSpace(tail) != "" {
		return fmt.Errorf("trailing input after adata literal: %q", tail)
	}
	adata.Put(id, v)
	return nil
}

func parseInstr(line string) (bytecode.Instr, error) {
	fields, err := splitFields(line)
	if err != nil {
		return bytecode.Instr{}, err
	}
	op, ok := opByName[fields[0]]
	if !ok {
		return bytecode.Instr{}, fmt.Errorf("unknown mnemonic %q", fields[0])
	}
	in := bytecode.Instr{Op: op}
	args := fields[1:]

	need := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s expects %d operand(s), got %d", fields[0], n, len(args))
		}
		return nil
	}

	switch op {
	case bytecode.OP_JMP, bytecode.OP_JMP_Z, bytecode.OP_JMP_NZ,
		bytecode.OP_TRY_CATCH_LEGACY_BEGIN, bytecode.OP_TRY_CATCH_LEGACY_MIDDLE,
		bytecode.OP_TRY_FAULT_BEGIN:
		if err := need(1); err != nil {
			return in, err
		}
		in.Target = bytecode.Label(args[0])

	case bytecode.OP_INT:
		if err := need(1); err != nil {
			return in, err
		}
		in.Imm, err = strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return in, fmt.Errorf("bad integer %q", args[0])
		}

	case bytecode.OP_DOUBLE:
		if err := need(1); err != nil {
			return in, err
		}
		in.Dbl, err = strconv.ParseFloat(args[0], 64)
		if err != nil {
			return in, fmt.Errorf("bad float %q", args[0])
		}

	case bytecode.OP_STRING:
		if err := need(1); err != nil {
			return in, err
		}
		in.Str, err = unquote(args[0])
		if err != nil {
			return in, err
		}

	case bytecode.OP_LIT_LIST, bytecode.OP_LIT_MAP:
		if err := need(1); err != nil {
			return in, err
		}
		if !strings.HasPrefix(args[0], "@") {
			return in, fmt.Errorf("adata reference must look like @N, got %q", args[0])
		}
		in.AdataID, err = strconv.Atoi(args[0][1:])
		if err != nil {
			return in, fmt.Errorf("bad adata reference %q", args[0])
		}

	case bytecode.OP_CALL:
		if err := need(2); err != nil {
			return in, err
		}
		if in.Str, err = unquote(args[0]); err != nil {
			return in, err
		}
		if in.N, err = strconv.Atoi(args[1]); err != nil {
			return in, fmt.Errorf("bad arg count %q", args[1])
		}

	case bytecode.OP_ARG_L, bytecode.OP_INC_DEC_L, bytecode.OP_SET_OP_L,
		bytecode.OP_BASE_L, bytecode.OP_SILENCE:
		if err := need(2); err != nil {
			return in, err
		}
		if in.L1, err = parseLocal(args[0]); err != nil {
			return in, err
		}
		if in.Mode, err = parseMode(args[1]); err != nil {
			return in, err
		}

	case bytecode.OP_GET_L, bytecode.OP_GET_QUIET_L, bytecode.OP_ISSET_L,
		bytecode.OP_EMPTY_L, bytecode.OP_SET_L, bytecode.OP_POP_L,
		bytecode.OP_UNSET_L, bytecode.OP_BASE_NL:
		if err := need(1); err != nil {
			return in, err
		}
		if in.L1, err = parseLocal(args[0]); err != nil {
			return in, err
		}

	case bytecode.OP_BASE_C:
		if err := need(1); err != nil {
			return in, err
		}
		if in.N, err = strconv.Atoi(args[0]); err != nil {
			return in, fmt.Errorf("bad depth %q", args[0])
		}

	case bytecode.OP_DIM:
		if err := need(2); err != nil {
			return in, err
		}
		if in.Key, err = parseMemberKey(args[0]); err != nil {
			return in, err
		}
		if in.Mode, err = parseMode(args[1]); err != nil {
			return in, err
		}

	case bytecode.OP_QUERY_M, bytecode.OP_SET_M, bytecode.OP_UNSET_M:
		if err := need(2); err != nil {
			return in, err
		}
		if in.N, err = strconv.Atoi(args[0]); err != nil {
			return in, fmt.Errorf("bad depth %q", args[0])
		}
		if in.Key, err = parseMemberKey(args[1]); err != nil {
			return in, err
		}

	case bytecode.OP_INC_DEC_M:
		if err := need(3); err != nil {
			return in, err
		}
		if in.N, err = strconv.Atoi(args[0]); err != nil {
			return in, fmt.Errorf("bad depth %q", args[0])
		}
		if in.Key, err = parseMemberKey(args[1]); err != nil {
			return in, err
		}
		if in.Mode, err = parseMode(args[2]); err != nil {
			return in, err
		}

	case bytecode.OP_STATIC_LOC_INIT:
		if err := need(2); err != nil {
			return in, err
		}
		if in.L1, err = parseLocal(args[0]); err != nil {
			return in, err
		}
		if in.Str, err = unquote(args[1]); err != nil {
			return in, err
		}

	case bytecode.OP_MEMO_GET, bytecode.OP_MEMO_SET:
		if err := need(2); err != nil {
			return in, err
		}
		if in.L1, err = parseLocal(args[0]); err != nil {
			return in, err
		}
		if in.N, err = strconv.Atoi(args[1]); err != nil {
			return in, fmt.Errorf("bad run length %q", args[1])
		}

	case bytecode.OP_ITER_INIT, bytecode.OP_ITER_NEXT:
		if err := need(3); err != nil {
			return in, err
		}
		if in.Iter, err = strconv.Atoi(args[0]); err != nil {
			return in, fmt.Errorf("bad iterator slot %q", args[0])
		}
		in.Target = bytecode.Label(args[1])
		if in.L1, err = parseLocal(args[2]); err != nil {
			return in, err
		}

	case bytecode.OP_ITER_INIT_K, bytecode.OP_ITER_NEXT_K:
		if err := need(4); err != nil {
			return in, err
		}
		if in.Iter, err = strconv.Atoi(args[0]); err != nil {
			return in, fmt.Errorf("bad iterator slot %q", args[0])
		}
		in.Target = bytecode.Label(args[1])
		if in.L1, err = parseLocal(args[2]); err != nil {
			return in, err
		}
		if in.L2, err = parseLocal(args[3]); err != nil {
			return in, err
		}

	case bytecode.OP_ITER_FREE:
		if err := need(1); err != nil {
			return in, err
		}
		if in.Iter, err = strconv.Atoi(args[0]); err != nil {
			return in, fmt.Errorf("bad iterator slot %q", args[0])
		}

	default:
		// nullary instruction
		if err := need(0); err != nil {
			return in, err
		}
	}

	return in, nil
}

func parseLocal(tok string) (bytecode.Local, error) {
	switch {
	case strings.HasPrefix(tok, "$") && len(tok) > 1:
		return bytecode.Named(tok[1:]), nil
	case strings.HasPrefix(tok, "_"):
		id, err := strconv.Atoi(tok[1:])
		if err != nil {
			return bytecode.Local{}, fmt.Errorf("bad local %q", tok)
		}
		return bytecode.Unnamed(id), nil
	default:
		return bytecode.Local{}, fmt.Errorf("local must look like $name or _N, got %q", tok)
	}
}

func parseMode(tok string) (bytecode.Mode, error) {
	m, ok := modeByName[tok]
	if !ok {
		return 0, fmt.Errorf("unknown mode %q", tok)
	}
	return m, nil
}

func parseMemberKey(tok string) (bytecode.MemberKey, error) {
	switch {
	case tok == "W":
		return bytecode.MemberKey{Kind: bytecode.KeyNone}, nil
	case tok == "EC":
		return bytecode.MemberKey{Kind: bytecode.KeyCell}, nil
	case strings.HasPrefix(tok, "EL:"):
		l, err := parseLocal(tok[3:])
		if err != nil {
			return bytecode.MemberKey{}, err
		}
		return bytecode.MemberKey{Kind: bytecode.KeyLocal, Local: l}, nil
	case strings.HasPrefix(tok, "PL:"):
		l, err := parseLocal(tok[3:])
		if err != nil {
			return bytecode.MemberKey{}, err
		}
		return bytecode.MemberKey{Kind: bytecode.KeyPropLocal, Local: l}, nil
	case strings.HasPrefix(tok, "EI:"):
		imm, err := strconv.ParseInt(tok[3:], 10, 64)
		if err != nil {
			return bytecode.MemberKey{}, fmt.Errorf("bad element key %q", tok)
		}
		return bytecode.MemberKey{Kind: bytecode.KeyInt, Imm: imm}, nil
	case strings.HasPrefix(tok, "ET:"):
		s, err := unquote(tok[3:])
		if err != nil {
			return bytecode.MemberKey{}, err
		}
		return bytecode.MemberKey{Kind: bytecode.KeyStr, Str: s}, nil
	case strings.HasPrefix(tok, "PT:"):
		s, err := unquote(tok[3:])
		if err != nil {
			return bytecode.MemberKey{}, err
		}
		return bytecode.MemberKey{Kind: bytecode.KeyProp, Str: s}, nil
	default:
		return bytecode.MemberKey{}, fmt.Errorf("unknown member key %q", tok)
	}
}

func unquote(tok string) (string, error) {
	s, err := strconv.Unquote(tok)
	if err != nil {
		return "", fmt.Errorf("bad string %s", tok)
	}
	return s, nil
}
