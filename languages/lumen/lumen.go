// Package lumen is the indentation-based reference language. Importing it
// registers the language with interp.
package lumen

import (
	"github.com/coreos/pkg/capnslog"
	"github.com/ivanshim/lumen-lang/interp"
	"github.com/ivanshim/lumen-lang/lexer"
	"github.com/ivanshim/lumen-lang/parser"
	"github.com/ivanshim/lumen-lang/runtime"
	"github.com/ivanshim/lumen-lang/structure"
	"github.com/ivanshim/lumen-lang/syntax"
	"github.com/ivanshim/lumen-lang/value"
)

var plog = capnslog.NewPackageLogger("github.com/ivanshim/lumen-lang", "lumen")

type Language struct{}

func init() {
	interp.Register(Language{})
}

func (Language) Name() string         { return "lumen" }
func (Language) Extensions() []string { return []string{".lm", ".lumen"} }

func (Language) Register(s *interp.Setup) error {
	s.Tokens.SetMultiCharLexemes([]string{"==", "!=", "<=", ">=", "..", "|>", "**", "//"})
	s.Structure = structure.Indentation(structure.IndentConfig{
		Markers: structure.MarkersFrom(s.Tokens),
		Width:   4,
		Comment: "#",
		Quotes:  []string{"\""},
		Escape:  "\\",
		Open:    []string{"(", "["},
		Close:   []string{")", "]"},
	})
	s.Hooks = parser.Hooks{
		SkipTrivia: skipTrivia,
		SkipSpace: func(p *parser.Parser) {
			syntax.SkipWhitespace(p, false)
		},
	}
	s.Policy = runtime.RejectStray
	s.Text = func(str string) value.Value { return String(str) }
	s.Int = func(i int64) value.Value { return Number(float64(i)) }
	s.None = None
	s.Globals = func(env *runtime.Env) error {
		env.Set("len", lenNative())
		return nil
	}

	registerExpressions(s.Handlers)
	registerStatements(s.Handlers)

	pre, in, st := s.Handlers.Counts()
	plog.Debugf("registered %d prefix, %d infix and %d statement handlers", pre, in, st)
	return nil
}

func skipTrivia(p *parser.Parser) {
	for {
		syntax.SkipWhitespace(p, false)
		if p.IsStructural(lexer.Newline) || p.Is(";") {
			p.Advance()
			continue
		}
		return
	}
}

var reserved = map[string]bool{
	"let": true, "mut": true, "if": true, "elif": true, "else": true,
	"while": true, "until": true, "for": true, "in": true, "break": true,
	"continue": true, "return": true, "fn": true, "and": true, "or": true,
	"not": true, "true": true, "false": true, "none": true, "extern": true,
}

// block parses the body of a compound statement: an optional ":" followed
// by either an indented block or a single statement on the same line.
func block(p *parser.Parser) ([]runtime.Stmt, error) {
	p.SkipSpace()
	if p.Is(":") {
		p.Advance()
		p.SkipSpace()
	}
	if !p.IsStructural(lexer.Newline) {
		s, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		return []runtime.Stmt{s}, nil
	}

	p.Advance()
	if !p.IsStructural(lexer.Indent) {
		return nil, p.Errorf("Expected an indented block %s", describe(p))
	}
	p.Advance()
	stmts, err := p.ParseBlockUntil(func(p *parser.Parser) bool {
		return p.IsStructural(lexer.Dedent)
	})
	if err != nil {
		return nil, err
	}
	p.Advance()
	return stmts, nil
}

// endStatement checks that a simple statement is followed by the end of its
// line. The terminator is left for SkipTrivia.
func endStatement(p *parser.Parser) error {
	p.SkipSpace()
	if p.Is(";") || p.IsStructural(lexer.Newline) || p.IsStructural(lexer.Dedent) || p.AtEOF() {
		return nil
	}
	return p.Errorf("Expected end of statement %s", describe(p))
}

func describe(p *parser.Parser) string {
	if p.AtEOF() {
		return "at end of input"
	}
	if lx := p.Peek(); lx.Synthetic {
		return "at " + lx.Text
	}
	if w := syntax.PeekWord(p); w != "" {
		return "at '" + w + "'"
	}
	return "at '" + p.Peek().Text + "'"
}

// followedBy reports whether the cursor is on the word kw and the next
// non-space lexeme after it is next.
func followedBy(p *parser.Parser, kw, next string) bool {
	if !syntax.IsKeyword(p, kw) {
		return false
	}
	start := p.Cursor()
	defer p.Reset(start)
	syntax.Word(p)
	p.SkipSpace()
	return p.Is(next)
}
