// Package parser is a Pratt parser with no grammar of its own. Everything it
// recognises comes from handlers a language registers.
package parser

import (
	"fmt"

	"github.com/coreos/pkg/capnslog"
	"github.com/ivanshim/lumen-lang/errors"
	"github.com/ivanshim/lumen-lang/lexer"
	"github.com/ivanshim/lumen-lang/runtime"
	"github.com/ivanshim/lumen-lang/types"
	"github.com/ztrue/tracerr"
)

var plog = capnslog.NewPackageLogger("github.com/ivanshim/lumen-lang", "parser")

const DefaultMaxDepth = 512

// Hooks are the language's notion of insignificant input. SkipTrivia runs
// between statements, SkipSpace inside expressions.
type Hooks struct {
	SkipTrivia func(p *Parser)
	SkipSpace  func(p *Parser)
}

type Parser struct {
	tokens []types.Lexeme
	pos    int
	depth  int

	Handlers *Registry
	Tokens   *lexer.Registry
	Hooks    Hooks

	// MaxDepth bounds nested ParseExpr and ParseStatement calls.
	MaxDepth int
	Filename string
}

func New(tokens []types.Lexeme, handlers *Registry, reg *lexer.Registry) *Parser {
	if reg == nil {
		reg = lexer.NewRegistry()
	}
	return &Parser{
		tokens:   tokens,
		Handlers: handlers,
		Tokens:   reg,
		MaxDepth: DefaultMaxDepth,
	}
}

// Peek returns the current lexeme. Past the end it returns an empty
// synthetic lexeme.
func (p *Parser) Peek() types.Lexeme {
	return p.PeekN(0)
}

// PeekN looks k lexemes ahead of the cursor.
func (p *Parser) PeekN(k int) types.Lexeme {
	if i := p.pos + k; i >= 0 && i < len(p.tokens) {
		return p.tokens[i]
	}
	if len(p.tokens) == 0 {
		return types.Lexeme{Line: 1, Col: 1, Synthetic: true}
	}
	last := p.tokens[len(p.tokens)-1]
	return types.Lexeme{Span: types.Span{Start: last.Span.End, End: last.Span.End}, Line: last.Line, Col: last.Col, Synthetic: true}
}

// Advance consumes and returns the current lexeme.
func (p *Parser) Advance() types.Lexeme {
	lx := p.Peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return lx
}

func (p *Parser) Cursor() int {
	return p.pos
}

// Reset moves the cursor back to a value returned by Cursor.
func (p *Parser) Reset(i int) {
	if i < 0 {
		i = 0
	}
	if i > len(p.tokens) {
		i = len(p.tokens)
	}
	p.pos = i
}

func (p *Parser) Position() types.Position {
	pos := p.Peek().Position()
	pos.Filename = p.Filename
	return pos
}

func (p *Parser) SkipTrivia() {
	if p.Hooks.SkipTrivia != nil {
		p.Hooks.SkipTrivia(p)
	}
}

func (p *Parser) SkipSpace() {
	if p.Hooks.SkipSpace != nil {
		p.Hooks.SkipSpace(p)
	}
}

// AtEOF reports whether the input is exhausted or the cursor sits on the EOF
// marker.
func (p *Parser) AtEOF() bool {
	if p.pos >= len(p.tokens) {
		return true
	}
	lx := p.tokens[p.pos]
	return lx.Synthetic && lx.Text == p.Tokens.Alias(lexer.EOF)
}

// Is reports whether the current lexeme is the source text s. Markers never
// match.
func (p *Parser) Is(s string) bool {
	lx := p.Peek()
	return !lx.Synthetic && lx.Text == s
}

// PeekIs reports whether the current lexeme is any of texts.
func (p *Parser) PeekIs(texts ...string) bool {
	for _, s := range texts {
		if p.Is(s) {
			return true
		}
	}
	return false
}

// IsStructural checks the current lexeme against the alias of kind.
// Parentheses are source lexemes; the other kinds are markers.
func (p *Parser) IsStructural(kind lexer.Structural) bool {
	lx := p.Peek()
	if lx.Text != p.Tokens.Alias(kind) {
		return false
	}
	switch kind {
	case lexer.LParen, lexer.RParen:
		return !lx.Synthetic
	}
	return lx.Synthetic
}

// Expect consumes the current lexeme if it is one of texts.
func (p *Parser) Expect(texts ...string) (types.Lexeme, error) {
	if p.PeekIs(texts...) {
		return p.Advance(), nil
	}
	return types.Lexeme{}, p.expected(texts...)
}

func (p *Parser) ExpectStructural(kind lexer.Structural) (types.Lexeme, error) {
	if p.IsStructural(kind) {
		return p.Advance(), nil
	}
	return types.Lexeme{}, p.expected(p.Tokens.Alias(kind))
}

func (p *Parser) expected(texts ...string) error {
	got := p.Peek().Text
	if p.AtEOF() {
		got = ""
	}
	return errors.ExpectedOneOfGot{
		Expected: texts,
		Got:      got,
		Location: p.Position(),
	}.ParseError()
}

// Errorf builds a parse error at the current position.
func (p *Parser) Errorf(format string, args ...interface{}) *errors.ParseError {
	return errors.Parsef(p.Position(), format, args...)
}

func (p *Parser) enter() error {
	p.depth++
	if p.MaxDepth > 0 && p.depth > p.MaxDepth {
		return p.Errorf("Expression nested too deeply")
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// ParseProgram parses statements until EOF. The first error aborts; a panic
// in a handler is reported as a parse error as well.
func (p *Parser) ParseProgram() (prog *runtime.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok {
				rerr = fmt.Errorf("%v", r)
			}
			prog = nil
			err = tracerr.Wrap(p.Errorf("internal error: %v", rerr))
		}
	}()

	prog = &runtime.Program{}
	for {
		p.SkipTrivia()
		if p.AtEOF() {
			break
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	plog.Debugf("parsed %d top-level statements", len(prog.Stmts))
	return prog, nil
}

// ParseStatement parses exactly one statement with the first matching
// statement handler.
func (p *Parser) ParseStatement() (runtime.Stmt, error) {
	defer p.leave()
	if err := p.enter(); err != nil {
		return nil, err
	}
	h := p.Handlers.FindStmt(p)
	if h == nil {
		return nil, p.Errorf("Unknown statement %s", p.describe())
	}
	return h.Parse(p)
}

// statement is ParseStatement for statement loops, which must not spin on a
// handler that consumes nothing.
func (p *Parser) statement() (runtime.Stmt, error) {
	start := p.pos
	s, err := p.ParseStatement()
	if err == nil && p.pos == start {
		return nil, p.Errorf("statement handler consumed no input %s", p.describe())
	}
	return s, err
}

// ParseBlockUntil parses statements until stop reports true. The lexeme that
// stopped the block is left for the caller. Running out of input first is
// an error.
func (p *Parser) ParseBlockUntil(stop func(p *Parser) bool) ([]runtime.Stmt, error) {
	var stmts []runtime.Stmt
	for {
		p.SkipTrivia()
		if stop(p) {
			return stmts, nil
		}
		if p.AtEOF() {
			return nil, p.Errorf("Unexpected end of input inside a block")
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
}

// ParseExpr parses an expression whose infix operators all bind at least as
// tightly as min.
func (p *Parser) ParseExpr(min Precedence) (runtime.Expr, error) {
	defer p.leave()
	if err := p.enter(); err != nil {
		return nil, err
	}

	p.SkipSpace()
	h := p.Handlers.FindPrefix(p)
	if h == nil {
		return nil, p.Errorf("Unknown expression %s", p.describe())
	}
	left, err := h.Parse(p)
	if err != nil {
		return nil, err
	}

	for {
		p.SkipSpace()
		in := p.Handlers.FindInfix(p)
		if in == nil || in.Precedence() < min {
			return left, nil
		}
		if left, err = in.Parse(p, left); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) describe() string {
	if p.AtEOF() {
		return "at end of input"
	}
	lx := p.Peek()
	if lx.Synthetic {
		return "at " + lx.Text
	}
	return fmt.Sprintf("at '%s'", lx.Text)
}
