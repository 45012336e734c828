package lexer

import (
	stderrors "errors"
	"testing"

	"github.com/ivanshim/lumen-lang/errors"
	"github.com/ivanshim/lumen-lang/types"
)

func texts(ls []types.Lexeme) []string {
	r := make([]string, len(ls))
	for i, l := range ls {
		r[i] = l.Text
	}
	return r
}

func sameTexts(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLexMaximalMunch(t *testing.T) {
	reg := NewRegistry()
	reg.SetMultiCharLexemes([]string{"=", "==", "===", "<=", "..", "..."})

	cases := map[string]struct {
		src  string
		want []string
	}{
		"Empty":       {"", nil},
		"Single":      {"a", []string{"a"}},
		"Longest":     {"a===b", []string{"a", "===", "b"}},
		"TwoThenOne":  {"====", []string{"===", "="}},
		"Dots":        {"1....2", []string{"1", "...", ".", "2"}},
		"Whitespace":  {"x <= y\n", []string{"x", " ", "<=", " ", "y", "\n"}},
		"Unicode":     {"é=λ", []string{"é", "=", "λ"}},
		"NoKeywords":  {"if", []string{"i", "f"}},
		"DigitsSplit": {"42", []string{"4", "2"}},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Lex(c.src, reg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !sameTexts(texts(got), c.want) {
				t.Errorf("got %q, want %q", texts(got), c.want)
			}
		})
	}
}

func TestLexLossless(t *testing.T) {
	reg := NewRegistry()
	reg.SetMultiCharLexemes([]string{"while", "==", "\n    "})
	srcs := []string{
		"",
		"   \n\n\t",
		"x = 0\nwhile x < 3\n    print(x)\n    x = x + 1\n",
		"héllo wörld == 🎉",
	}
	for _, src := range srcs {
		ls, err := Lex(src, reg)
		if err != nil {
			t.Fatalf("Lex(%q): %v", src, err)
		}
		if got := Concat(ls); got != src {
			t.Errorf("Concat(Lex(%q)) = %q", src, got)
		}
		pos := 0
		for _, l := range ls {
			if l.Span.Start != pos || l.Span.End != pos+len(l.Text) {
				t.Errorf("lexeme %v does not continue at byte %d", l, pos)
			}
			pos = l.Span.End
		}
		again, err := Lex(Concat(ls), reg)
		if err != nil {
			t.Fatal(err)
		}
		if !sameTexts(texts(again), texts(ls)) {
			t.Errorf("relexing %q changed the sequence", src)
		}
	}
}

func TestLexNoLongerPrefix(t *testing.T) {
	reg := NewRegistry()
	table := []string{"<", "<<", "<<=", "<=", "=", "=="}
	reg.SetMultiCharLexemes(table)
	src := "a<<=b<<c<=d==e=<f"
	ls, err := Lex(src, reg)
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range ls {
		rest := src[l.Span.Start:]
		for _, e := range table {
			if len(e) > len(l.Text) && len(rest) >= len(e) && rest[:len(e)] == e {
				t.Errorf("lexeme %q at %d but %q also matches", l.Text, l.Span.Start, e)
			}
		}
	}
}

func TestLexPositions(t *testing.T) {
	ls, err := Lex("ab\ncd\n\né", NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		text      string
		line, col int
	}{
		{"a", 1, 1}, {"b", 1, 2}, {"\n", 1, 3},
		{"c", 2, 1}, {"d", 2, 2}, {"\n", 2, 3},
		{"\n", 3, 1},
		{"é", 4, 1},
	}
	if len(ls) != len(want) {
		t.Fatalf("got %d lexemes, want %d", len(ls), len(want))
	}
	for i, w := range want {
		if ls[i].Text != w.text || ls[i].Line != w.line || ls[i].Col != w.col {
			t.Errorf("lexeme %d = %v, want %q at %d:%d", i, ls[i], w.text, w.line, w.col)
		}
	}
}

func TestLexMultiLineEntryUpdatesLine(t *testing.T) {
	reg := NewRegistry()
	reg.SetMultiCharLexemes([]string{"\r\n"})
	ls, err := Lex("a\r\nb", reg)
	if err != nil {
		t.Fatal(err)
	}
	if len(ls) != 3 || ls[2].Line != 2 || ls[2].Col != 1 {
		t.Errorf("got %v", ls)
	}
}

func TestLexInvalidUTF8(t *testing.T) {
	_, err := Lex("ok\nx\xffy", NewRegistry())
	var lerr *errors.LexError
	if !stderrors.As(err, &lerr) {
		t.Fatalf("expected a LexError, got %v", err)
	}
	if lerr.Offset != 4 || lerr.Location.Line != 2 || lerr.Location.Column != 2 {
		t.Errorf("wrong location: %+v", lerr)
	}
}

func TestRegistryOrdering(t *testing.T) {
	reg := NewRegistry()
	reg.SetMultiCharLexemes([]string{"ab", "xyz", "cd", "ab", "", "pqr"})
	want := []string{"xyz", "pqr", "ab", "cd"}
	if !sameTexts(reg.Lexemes(), want) {
		t.Errorf("got %q, want %q", reg.Lexemes(), want)
	}
	reg.AddMultiCharLexemes("abcd")
	if reg.Lexemes()[0] != "abcd" {
		t.Errorf("AddMultiCharLexemes did not re-sort: %q", reg.Lexemes())
	}
}

func TestRegistryAliases(t *testing.T) {
	reg := NewRegistry()
	if reg.Alias(EOF) != "EOF" || reg.Alias(LParen) != "(" {
		t.Errorf("unexpected defaults")
	}
	reg.SetEOF("<eof>")
	reg.SetIndent("{")
	if reg.Alias(EOF) != "<eof>" || reg.Alias(Indent) != "{" {
		t.Errorf("aliases not applied")
	}
}
