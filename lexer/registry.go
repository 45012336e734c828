package lexer

import (
	"sort"
)

// Structural names the tokens a language may alias. The parser and the
// structure preprocessors refer to them by kind; the registry decides the
// lexeme text.
type Structural int

const (
	LParen Structural = iota
	RParen
	Newline
	Indent
	Dedent
	EOF
)

func (s Structural) String() string {
	data := map[Structural]string{
		LParen:  "LPAREN",
		RParen:  "RPAREN",
		Newline: "NEWLINE",
		Indent:  "INDENT",
		Dedent:  "DEDENT",
		EOF:     "EOF",
	}
	return data[s]
}

// Registry holds the multi-character lexeme table and the structural
// aliases contributed by a language. It is built once per session and is
// read-only afterwards.
type Registry struct {
	lexemes []string
	byFirst map[byte][]string
	aliases map[Structural]string
}

func NewRegistry() *Registry {
	return &Registry{
		byFirst: map[byte][]string{},
		aliases: map[Structural]string{
			LParen:  "(",
			RParen:  ")",
			Newline: "NEWLINE",
			Indent:  "INDENT",
			Dedent:  "DEDENT",
			EOF:     "EOF",
		},
	}
}

// SetMultiCharLexemes replaces the table. Entries are deduplicated (first
// occurrence wins) and ordered longest-first; entries of equal length keep
// their insertion order.
func (r *Registry) SetMultiCharLexemes(entries []string) {
	seen := make(map[string]bool, len(entries))
	table := make([]string, 0, len(entries))
	for _, e := range entries {
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		table = append(table, e)
	}
	sort.SliceStable(table, func(i, j int) bool {
		return len(table[i]) > len(table[j])
	})
	r.lexemes = table

	r.byFirst = make(map[byte][]string)
	for _, e := range table {
		r.byFirst[e[0]] = append(r.byFirst[e[0]], e)
	}
	plog.Debugf("lexeme table has %d entries", len(table))
}

func (r *Registry) AddMultiCharLexemes(entries ...string) {
	r.SetMultiCharLexemes(append(append([]string(nil), r.lexemes...), entries...))
}

// Lexemes returns the table, longest first. The slice must not be modified.
func (r *Registry) Lexemes() []string {
	return r.lexemes
}

// longest returns the byte length of the longest table entry that prefixes
// s, or 0.
func (r *Registry) longest(s string) int {
	if r == nil || len(s) == 0 {
		return 0
	}
	for _, e := range r.byFirst[s[0]] {
		if len(e) <= len(s) && s[:len(e)] == e {
			return len(e)
		}
	}
	return 0
}

func (r *Registry) SetLParen(name string)  { r.aliases[LParen] = name }
func (r *Registry) SetRParen(name string)  { r.aliases[RParen] = name }
func (r *Registry) SetNewline(name string) { r.aliases[Newline] = name }
func (r *Registry) SetIndent(name string)  { r.aliases[Indent] = name }
func (r *Registry) SetDedent(name string)  { r.aliases[Dedent] = name }
func (r *Registry) SetEOF(name string)     { r.aliases[EOF] = name }

// Alias returns the lexeme text the language uses for s.
func (r *Registry) Alias(s Structural) string {
	return r.aliases[s]
}
