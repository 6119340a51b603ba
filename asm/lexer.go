package asm

import (
	"fmt"
	"strings"
)

// splitFields splits one assembly line into tokens, keeping quoted strings
// whole and splitting nothing inside brackets so adata literals survive as
// a single token run.
func splitFields(line string) ([]string, error) {
	var fields []string
	var cur strings.Builder
	inStr := false
	escaped := false
	depth := 0

	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}

	for _, r := range line {
		switch {
		case inStr:
			cur.WriteRune(r)
			if escaped {
				escaped = false
			} else if r == '\\' {
				escaped = true
			} else if r == '"' {
				inStr = false
			}
		case r == '"':
			cur.WriteRune(r)
			inStr = true
		case r == '[' || r == '{':
			depth++
			cur.WriteRune(r)
		case r == ']' || r == '}':
			depth--
			cur.WriteRune(r)
		case (r == ' ' || r == '\t') && depth == 0:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if inStr {
		return nil, fmt.Errorf("unterminated string literal")
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets")
	}
	flush()
	return fields, nil
}
