package asm

import (
	"fmt"
	"strconv"
	"strings"

	"bcdiff/types"
)

// parseLiteral parses one constant-table literal: null, true, false,
// integers, floats, quoted strings, [elem, ...] lists and {key: value, ...}
// maps. It returns the value and the unconsumed remainder.
func parseLiteral(s string) (types.Value, string, error) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return nil, "", fmt.Errorf("expected literal")
	}
	switch {
	case strings.HasPrefix(s, "null"):
		return types.NullValue{}, s[4:], nil
	case strings.HasPrefix(s, "true"):
		return types.BoolValue{Val: true}, s[4:], nil
	case strings.HasPrefix(s, "false"):
		return types.BoolValue{Val: false}, s[5:], nil
	case s[0] == '"':
		return parseStringLit(s)
	case s[0] == '[':
		return parseListLit(s)
	case s[0] == '{':
		return parseMapLit(s)
	default:
		return parseNumberLit(s)
	}
}

func parseStringLit(s string) (types.Value, string, error) {
	escaped := false
	for i := 1; i < len(s); i++ {
		if escaped {
			escaped = false
			continue
		}
		switch s[i] {
		case '\\':
			escaped = true
		case '"':
			unquoted, err := strconv.Unquote(s[:i+1])
			if err != nil {
				return nil, "", fmt.Errorf("bad string literal %s: %w", s[:i+1], err)
			}
			return types.NewStr(unquoted), s[i+1:], nil
		}
	}
	return nil, "", fmt.Errorf("unterminated string literal")
}

func parseNumberLit(s string) (types.Value, string, error) {
	end := 0
	for end < len(s) && strings.ContainsRune("+-0123456789.eE", rune(s[end])) {
		end++
	}
	if end == 0 {
		return nil, "", fmt.Errorf("expected literal at %q", s)
	}
	tok := s[:end]
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return types.IntValue{Val: i}, s[end:], nil
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil, "", fmt.Errorf("bad numeric literal %q", tok)
	}
	return types.FloatValue{Val: f}, s[end:], nil
}

func parseListLit(s string) (types.Value, string, error) {
	rest := strings.TrimLeft(s[1:], " \t")
	var elems []types.Value
	for {
		if rest == "" {
			return nil, "", fmt.Errorf("unterminated list literal")
		}
		if rest[0] == ']' {
			return types.NewList(elems...), rest[1:], nil
		}
		var (
			v   types.Value
			err error
		)
		v, rest, err = parseLiteral(rest)
		if err != nil {
			return nil, "", err
		}
		elems = append(elems, v)
		rest = strings.TrimLeft(rest, " \t")
		if strings.HasPrefix(rest, ",") {
			rest = strings.TrimLeft(rest[1:], " \t")
		}
	}
}

func parseMapLit(s string) (types.Value, string, error) {
	rest := strings.TrimLeft(s[1:], " \t")
	var entries []types.MapEntry
	for {
		if rest == "" {
			return nil, "", fmt.Errorf("unterminated map literal")
		}
		if rest[0] == '}' {
			return types.NewMap(entries...), rest[1:], nil
		}
		var (
			k, v types.Value
			err  error
		)
		k, rest, err = parseLiteral(rest)
		if err != nil {
			return nil, "", err
		}
		rest = strings.TrimLeft(rest, " \t")
		if !strings.HasPrefix(rest, ":") {
			return nil, "", fmt.Errorf("expected ':' in map literal")
		}
		v, rest, err = parseLiteral(rest[1:])
		if err != nil {
			return nil, "", err
		}
		entries = append(entries, types.MapEntry{Key: k, Value: v})
		rest = strings.TrimLeft(rest, " \t")
		if strings.HasPrefix(rest, ",") {
			rest = strings.TrimLeft(rest[1:], " \t")
		}
	}
}
