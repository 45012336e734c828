// Package minirust is a small brace-delimited reference language with Rust
// flavoured syntax and checked 64-bit integers.
package minirust

import (
	"github.com/coreos/pkg/capnslog"
	"github.com/ivanshim/lumen-lang/interp"
	"github.com/ivanshim/lumen-lang/parser"
	"github.com/ivanshim/lumen-lang/runtime"
	"github.com/ivanshim/lumen-lang/structure"
	"github.com/ivanshim/lumen-lang/syntax"
	"github.com/ivanshim/lumen-lang/value"
)

var plog = capnslog.NewPackageLogger("github.com/ivanshim/lumen-lang", "minirust")

type Language struct{}

func init() {
	interp.Register(Language{})
}

func (Language) Name() string         { return "minirust" }
func (Language) Extensions() []string { return []string{".rs"} }

func (Language) Register(s *interp.Setup) error {
	s.Tokens.SetMultiCharLexemes([]string{
		"==", "!=", "<=", ">=", "&&", "||",
		"+=", "-=", "*=", "/=", "%=", "->", "//",
	})
	s.Structure = structure.AppendEOF(structure.MarkersFrom(s.Tokens).EOF)
	s.Hooks = parser.Hooks{
		SkipTrivia: func(p *parser.Parser) {
			for {
				skipSpace(p)
				if !p.Is(";") {
					return
				}
				p.Advance()
			}
		},
		SkipSpace: skipSpace,
	}
	s.Policy = runtime.RejectStray
	s.Text = func(str string) value.Value { return Str(str) }
	s.Int = func(i int64) value.Value { return Int(i) }
	s.None = Unit

	registerExpressions(s.Handlers)
	registerStatements(s.Handlers)
	plog.Debugf("minirust registered with %d lexemes", len(s.Tokens.Lexemes()))
	return nil
}

// skipSpace skips whitespace, newlines and line comments.
func skipSpace(p *parser.Parser) {
	for {
		syntax.SkipWhitespace(p, true)
		if !syntax.SkipLineComment(p, "//") {
			return
		}
	}
}

var reserved = map[string]bool{
	"let": true, "mut": true, "fn": true, "if": true, "else": true,
	"while": true, "loop": true, "break": true, "continue": true,
	"return": true, "true": true, "false": true,
}

// block parses { statements }.
func block(p *parser.Parser) ([]runtime.Stmt, error) {
	p.SkipSpace()
	if _, err := p.Expect("{"); err != nil {
		return nil, err
	}
	stmts, err := p.ParseBlockUntil(func(p *parser.Parser) bool {
		return p.Is("}")
	})
	if err != nil {
		return nil, err
	}
	p.Advance()
	return stmts, nil
}
