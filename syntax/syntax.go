// Package syntax reassembles words, numbers and strings from the
// single-character lexemes the lexer produces. Language handlers build on
// it; the kernel itself never calls it.
package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ivanshim/lumen-lang/errors"
	"github.com/ivanshim/lumen-lang/parser"
	"github.com/ivanshim/lumen-lang/types"
)

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isWordText reports whether every rune of s can appear in a word.
func isWordText(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isWordRune(r) {
			return false
		}
	}
	return true
}

// PeekWord returns the run of adjacent word lexemes at the cursor without
// consuming it. It is empty when the cursor is not on a word.
func PeekWord(p *parser.Parser) string {
	var sb strings.Builder
	for i := 0; ; i++ {
		lx := p.PeekN(i)
		if lx.Synthetic || !isWordText(lx.Text) {
			break
		}
		sb.WriteString(lx.Text)
	}
	return sb.String()
}

// Word consumes the word at the cursor and returns it with its first lexeme.
func Word(p *parser.Parser) (string, types.Lexeme) {
	first := p.Peek()
	var sb strings.Builder
	for !p.Peek().Synthetic && isWordText(p.Peek().Text) {
		sb.WriteString(p.Advance().Text)
	}
	return sb.String(), first
}

// IsKeyword reports whether the word at the cursor is exactly kw.
func IsKeyword(p *parser.Parser, kw string) bool {
	return PeekWord(p) == kw
}

// IsAnyKeyword reports whether the word at the cursor is one of kws.
func IsAnyKeyword(p *parser.Parser, kws ...string) bool {
	w := PeekWord(p)
	for _, kw := range kws {
		if w == kw {
			return true
		}
	}
	return false
}

// ExpectKeyword consumes kw or fails with an Expected error.
func ExpectKeyword(p *parser.Parser, kw string) error {
	if !IsKeyword(p, kw) {
		_, err := p.Expect(kw)
		return err
	}
	Word(p)
	return nil
}

// IsIdentStart reports whether the cursor is on a word that starts like an
// identifier, not a number.
func IsIdentStart(p *parser.Parser) bool {
	lx := p.Peek()
	if lx.Synthetic || lx.Text == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(lx.Text)
	return (r == '_' || unicode.IsLetter(r)) && isWordText(lx.Text)
}

// Ident consumes an identifier that is not one of reserved.
func Ident(p *parser.Parser, reserved map[string]bool) (string, types.Lexeme, error) {
	if !IsIdentStart(p) {
		_, err := p.Expect("identifier")
		return "", types.Lexeme{}, err
	}
	if w := PeekWord(p); reserved[w] {
		return "", types.Lexeme{}, p.Errorf("Expected identifier, got keyword '%s'", w)
	}
	name, lx := Word(p)
	return name, lx, nil
}

// IsDigit reports whether the cursor is on an ASCII digit.
func IsDigit(p *parser.Parser) bool {
	lx := p.Peek()
	return !lx.Synthetic && lx.Text != "" && lx.Text[0] >= '0' && lx.Text[0] <= '9'
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// Number consumes an integer or, when fraction is set, a decimal with a
// single "." between digit runs. A "." not followed by a digit is left
// alone so ranges and method calls still lex.
func Number(p *parser.Parser, fraction bool) (string, types.Lexeme) {
	first := p.Peek()
	var sb strings.Builder
	run := func() {
		for !p.Peek().Synthetic && digits(p.Peek().Text) {
			sb.WriteString(p.Advance().Text)
		}
	}
	run()
	if fraction && p.Is(".") && !p.PeekN(1).Synthetic && digits(p.PeekN(1).Text) {
		sb.WriteString(p.Advance().Text)
		run()
	}
	return sb.String(), first
}

// Escapes maps the character after a backslash to its replacement.
var Escapes = map[string]string{
	"n":  "\n",
	"t":  "\t",
	"r":  "\r",
	"0":  "\x00",
	"\\": "\\",
	"\"": "\"",
	"'":  "'",
}

// String consumes a string literal delimited by quote and returns its
// decoded contents.
func String(p *parser.Parser, quote string) (string, error) {
	if _, err := p.Expect(quote); err != nil {
		return "", err
	}
	var sb strings.Builder
	for {
		if p.AtEOF() || p.Peek().Synthetic {
			return "", p.Errorf("Unterminated string literal")
		}
		lx := p.Advance()
		switch lx.Text {
		case quote:
			return sb.String(), nil
		case "\\":
			esc := p.Advance()
			if esc.Synthetic {
				return "", p.Errorf("Unterminated string literal")
			}
			r, ok := Escapes[esc.Text]
			if !ok {
				return "", errorAt(p, esc, "Unknown escape '\\%s'", esc.Text)
			}
			sb.WriteString(r)
		default:
			sb.WriteString(lx.Text)
		}
	}
}

func errorAt(p *parser.Parser, lx types.Lexeme, format string, args ...interface{}) error {
	pos := lx.Position()
	pos.Filename = p.Filename
	return errors.Parsef(pos, format, args...)
}

// SkipWhitespace skips space, tab, carriage return and, when newlines is
// set, newline lexemes.
func SkipWhitespace(p *parser.Parser, newlines bool) {
	for {
		switch {
		case p.PeekIs(" ", "\t", "\r", "\f"):
			p.Advance()
		case newlines && p.Is("\n"):
			p.Advance()
		default:
			return
		}
	}
}

// SkipLineComment skips a comment starting with prefix up to, not including,
// the next newline. It reports whether a comment was skipped.
func SkipLineComment(p *parser.Parser, prefix string) bool {
	if !p.Is(prefix) {
		return false
	}
	for !p.AtEOF() && !p.Is("\n") && !p.Peek().Synthetic {
		p.Advance()
	}
	return true
}

// List parses items separated by sep up to close, consuming close. A
// trailing separator is allowed.
func List(p *parser.Parser, sep, close string, item func() error) error {
	for {
		p.SkipSpace()
		if p.Is(close) {
			p.Advance()
			return nil
		}
		if err := item(); err != nil {
			return err
		}
		p.SkipSpace()
		switch {
		case p.Is(sep):
			p.Advance()
		case p.Is(close):
			p.Advance()
			return nil
		default:
			_, err := p.Expect(sep, close)
			return err
		}
	}
}
