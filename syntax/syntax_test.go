package syntax

import (
	"strings"
	"testing"

	"github.com/ivanshim/lumen-lang/lexer"
	"github.com/ivanshim/lumen-lang/parser"
	"github.com/ivanshim/lumen-lang/structure"
)

func newParser(t *testing.T, src string) *parser.Parser {
	t.Helper()
	reg := lexer.NewRegistry()
	reg.SetMultiCharLexemes([]string{"..", "//"})
	lxs, err := lexer.Lex(src, reg)
	if err != nil {
		t.Fatal(err)
	}
	lxs, _ = structure.AppendEOF(reg.Alias(lexer.EOF))(lxs)
	p := parser.New(lxs, parser.NewRegistry(), reg)
	p.Hooks.SkipSpace = func(p *parser.Parser) { SkipWhitespace(p, false) }
	return p
}

func TestWords(t *testing.T) {
	p := newParser(t, "iffy if x_1 9lives")
	if IsKeyword(p, "if") {
		t.Errorf("iffy matched keyword if")
	}
	if w := PeekWord(p); w != "iffy" {
		t.Errorf("PeekWord = %q", w)
	}
	w, lx := Word(p)
	if w != "iffy" || lx.Col != 1 {
		t.Errorf("Word = %q at %v", w, lx)
	}
	SkipWhitespace(p, false)
	if err := ExpectKeyword(p, "if"); err != nil {
		t.Fatal(err)
	}
	SkipWhitespace(p, false)
	if _, _, err := Ident(p, map[string]bool{"x_1": true}); err == nil {
		t.Errorf("reserved word accepted as identifier")
	}
	name, _, err := Ident(p, nil)
	if err != nil || name != "x_1" {
		t.Errorf("Ident = %q, %v", name, err)
	}
	SkipWhitespace(p, false)
	if IsIdentStart(p) {
		t.Errorf("9lives starts an identifier")
	}
	if _, _, err := Ident(p, nil); err == nil || !strings.Contains(err.Error(), "Expected 'identifier', got '9'") {
		t.Errorf("Ident on a digit: %v", err)
	}
}

func TestNumber(t *testing.T) {
	cases := []struct {
		src      string
		fraction bool
		want     string
		rest     string
	}{
		{"123+", false, "123", "+"},
		{"1.5)", true, "1.5", ")"},
		{"1.5", false, "1", "."},
		{"1..5", true, "1", ".."},
		{"7.x", true, "7", "."},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			p := newParser(t, c.src)
			got, _ := Number(p, c.fraction)
			if got != c.want || p.Peek().Text != c.rest {
				t.Errorf("Number = %q, next %q", got, p.Peek().Text)
			}
		})
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		src, want, err string
	}{
		{`"hello world"`, "hello world", ""},
		{`"a\"b\\c\n"`, "a\"b\\c\n", ""},
		{`"héllo"`, "héllo", ""},
		{`"open`, "", "Unterminated string literal"},
		{`"bad \q"`, "", "1:7: parse error: Unknown escape '\\q'"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			got, err := String(newParser(t, c.src), `"`)
			if c.err != "" {
				if err == nil || !strings.Contains(err.Error(), c.err) {
					t.Errorf("err = %v, want %q", err, c.err)
				}
				return
			}
			if err != nil || got != c.want {
				t.Errorf("String = %q, %v", got, err)
			}
		})
	}
}

func TestList(t *testing.T) {
	cases := []struct {
		src  string
		want []string
		err  bool
	}{
		{"a, b, c)", []string{"a", "b", "c"}, false},
		{")", nil, false},
		{"a, b,)", []string{"a", "b"}, false},
		{"a b)", nil, true},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			p := newParser(t, c.src)
			var got []string
			err := List(p, ",", ")", func() error {
				name, _, err := Ident(p, nil)
				got = append(got, name)
				return err
			})
			if c.err {
				if err == nil {
					t.Errorf("no error, got %v", got)
				}
				return
			}
			if err != nil || strings.Join(got, " ") != strings.Join(c.want, " ") {
				t.Errorf("List = %v, %v", got, err)
			}
			if !p.AtEOF() {
				t.Errorf("closing lexeme not consumed")
			}
		})
	}
}

func TestSkipLineComment(t *testing.T) {
	p := newParser(t, "// note\nx")
	if !SkipLineComment(p, "//") {
		t.Fatal("comment not recognised")
	}
	if !p.Is("\n") {
		t.Errorf("stopped at %v", p.Peek())
	}
	SkipWhitespace(p, true)
	if !p.Is("x") {
		t.Errorf("at %v after skipping", p.Peek())
	}
}
