package capability

import (
	"strings"
	"unicode"

	"github.com/ivanshim/lumen-lang/errors"
)

// ParseSelector turns selector text into resolution clauses, tried in
// order:
//
//	print_native          default backend
//	fs:open               backend fs
//	fs|mem:read           fs, then mem
//	(fs|mem):read         same, grouped
//
// Selectors are data; nothing here knows which backends exist.
func ParseSelector(s string) ([]Key, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.Runtimef("Empty selector")
	}

	i := lastTopLevel(s, ':')
	if i < 0 {
		if !validName(s) {
			return nil, errors.Runtimef("Invalid capability name: '%s'", s)
		}
		return []Key{{Name: s}}, nil
	}
	backends, name := s[:i], strings.TrimSpace(s[i+1:])
	if !validName(name) {
		return nil, errors.Runtimef("Invalid capability name: '%s'", name)
	}

	list, err := backendList(backends)
	if err != nil {
		return nil, err
	}
	keys := make([]Key, len(list))
	for i, b := range list {
		keys[i] = Key{Backend: b, Name: name}
	}
	return keys, nil
}

func backendList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	for wrapped(s) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" {
		return nil, errors.Runtimef("Empty backend list")
	}

	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case '|':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])

	names := out[:0]
	for _, b := range out {
		b = strings.TrimSpace(b)
		b = strings.TrimSuffix(strings.TrimPrefix(b, "("), ")")
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		if !validName(b) {
			return nil, errors.Runtimef("Invalid backend name: '%s'", b)
		}
		names = append(names, b)
	}
	if len(names) == 0 {
		return nil, errors.Runtimef("No backends in backend list")
	}
	return names, nil
}

// lastTopLevel finds the rightmost c outside parentheses.
func lastTopLevel(s string, c byte) int {
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
		case c:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// wrapped reports whether the parenthesis opening s closes at its end.
func wrapped(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return true
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
