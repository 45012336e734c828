package parser

import (
	"strconv"

	"github.com/ivanshim/lumen-lang/runtime"
)

// Precedence levels are dense so handlers can shift by one for
// associativity. Languages may declare their own ladder instead.
type Precedence int

const (
	Lowest Precedence = iota
	Range
	Pipe
	Logic
	Comparison
	Term
	Factor
	Power
	Unary
	Call
)

func (p Precedence) Next() Precedence {
	return p + 1
}

func (p Precedence) String() string {
	data := map[Precedence]string{
		Lowest:     "Lowest",
		Range:      "Range",
		Pipe:       "Pipe",
		Logic:      "Logic",
		Comparison: "Comparison",
		Term:       "Term",
		Factor:     "Factor",
		Power:      "Power",
		Unary:      "Unary",
		Call:       "Call",
	}
	if s, ok := data[p]; ok {
		return s
	}
	return "Precedence(" + strconv.Itoa(int(p)) + ")"
}

// Matches must not consume input. Parse starts at the lexeme Matches
// looked at.
type PrefixHandler interface {
	Matches(p *Parser) bool
	Parse(p *Parser) (runtime.Expr, error)
}

// An InfixHandler receives the already parsed left operand. It recurses with
// Precedence().Next() for left associativity and Precedence() for right
// associativity.
type InfixHandler interface {
	Matches(p *Parser) bool
	Precedence() Precedence
	Parse(p *Parser, left runtime.Expr) (runtime.Expr, error)
}

type StmtHandler interface {
	Matches(p *Parser) bool
	Parse(p *Parser) (runtime.Stmt, error)
}

type PrefixFunc struct {
	Match func(p *Parser) bool
	Fn    func(p *Parser) (runtime.Expr, error)
}

func (f PrefixFunc) Matches(p *Parser) bool                { return f.Match(p) }
func (f PrefixFunc) Parse(p *Parser) (runtime.Expr, error) { return f.Fn(p) }

type InfixFunc struct {
	Match func(p *Parser) bool
	Prec  Precedence
	Fn    func(p *Parser, left runtime.Expr) (runtime.Expr, error)
}

func (f InfixFunc) Matches(p *Parser) bool  { return f.Match(p) }
func (f InfixFunc) Precedence() Precedence { return f.Prec }
func (f InfixFunc) Parse(p *Parser, left runtime.Expr) (runtime.Expr, error) {
	return f.Fn(p, left)
}

type StmtFunc struct {
	Match func(p *Parser) bool
	Fn    func(p *Parser) (runtime.Stmt, error)
}

func (f StmtFunc) Matches(p *Parser) bool                { return f.Match(p) }
func (f StmtFunc) Parse(p *Parser) (runtime.Stmt, error) { return f.Fn(p) }

// Registry holds the handlers of one language in registration order. The
// first handler whose Matches reports true wins, so more specific handlers
// are registered before general ones.
type Registry struct {
	prefix []PrefixHandler
	infix  []InfixHandler
	stmts  []StmtHandler
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) RegisterPrefix(hs ...PrefixHandler) {
	r.prefix = append(r.prefix, hs...)
}

func (r *Registry) RegisterInfix(hs ...InfixHandler) {
	r.infix = append(r.infix, hs...)
}

func (r *Registry) RegisterStmt(hs ...StmtHandler) {
	r.stmts = append(r.stmts, hs...)
}

func (r *Registry) FindPrefix(p *Parser) PrefixHandler {
	for _, h := range r.prefix {
		if h.Matches(p) {
			return h
		}
	}
	return nil
}

func (r *Registry) FindInfix(p *Parser) InfixHandler {
	for _, h := range r.infix {
		if h.Matches(p) {
			return h
		}
	}
	return nil
}

func (r *Registry) FindStmt(p *Parser) StmtHandler {
	for _, h := range r.stmts {
		if h.Matches(p) {
			return h
		}
	}
	return nil
}

// Counts reports how many prefix, infix and statement handlers are
// registered.
func (r *Registry) Counts() (prefix, infix, stmts int) {
	return len(r.prefix), len(r.infix), len(r.stmts)
}
