package minirust

import (
	"strconv"

	"github.com/ivanshim/lumen-lang/parser"
	"github.com/ivanshim/lumen-lang/runtime"
	"github.com/ivanshim/lumen-lang/syntax"
)

const (
	lowest parser.Precedence = iota
	or
	and
	comparison
	term
	factor
	unary
	call
)

func registerExpressions(r *parser.Registry) {
	r.RegisterPrefix(
		parser.PrefixFunc{Match: syntax.IsDigit, Fn: intLiteral},
		parser.PrefixFunc{Match: is("\""), Fn: strLiteral},
		parser.PrefixFunc{Match: keyword("true", "false"), Fn: boolLiteral},
		parser.PrefixFunc{Match: macro("format"), Fn: formatMacro},
		parser.PrefixFunc{Match: is("-"), Fn: func(p *parser.Parser) (runtime.Expr, error) {
			p.Advance()
			x, err := p.ParseExpr(unary)
			return &Neg{X: x}, err
		}},
		parser.PrefixFunc{Match: is("!"), Fn: func(p *parser.Parser) (runtime.Expr, error) {
			p.Advance()
			x, err := p.ParseExpr(unary)
			return &Not{X: x}, err
		}},
		parser.PrefixFunc{Match: is("("), Fn: group},
		parser.PrefixFunc{Match: identifier, Fn: variable},
	)

	r.RegisterInfix(
		parser.InfixFunc{Match: is("||"), Prec: or, Fn: logical},
		parser.InfixFunc{Match: is("&&"), Prec: and, Fn: logical},
		parser.InfixFunc{Match: is("==", "!=", "<=", ">=", "<", ">"), Prec: comparison, Fn: binary(comparison)},
		parser.InfixFunc{Match: is("+", "-"), Prec: term, Fn: binary(term)},
		parser.InfixFunc{Match: is("*", "/", "%"), Prec: factor, Fn: binary(factor)},
		parser.InfixFunc{Match: is("("), Prec: call, Fn: callExpr},
	)
}

func is(texts ...string) func(p *parser.Parser) bool {
	return func(p *parser.Parser) bool { return p.PeekIs(texts...) }
}

func keyword(kws ...string) func(p *parser.Parser) bool {
	return func(p *parser.Parser) bool { return syntax.IsAnyKeyword(p, kws...) }
}

// macro matches name! without consuming it.
func macro(name string) func(p *parser.Parser) bool {
	return func(p *parser.Parser) bool {
		if !syntax.IsKeyword(p, name) {
			return false
		}
		start := p.Cursor()
		defer p.Reset(start)
		syntax.Word(p)
		return p.Is("!")
	}
}

func identifier(p *parser.Parser) bool {
	return syntax.IsIdentStart(p) && !reserved[syntax.PeekWord(p)]
}

func intLiteral(p *parser.Parser) (runtime.Expr, error) {
	text, _ := syntax.Number(p, false)
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.Errorf("Integer literal %s does not fit in i64", text)
	}
	return &runtime.Literal{V: Int(n)}, nil
}

func strLiteral(p *parser.Parser) (runtime.Expr, error) {
	s, err := syntax.String(p, "\"")
	if err != nil {
		return nil, err
	}
	return &runtime.Literal{V: Str(s)}, nil
}

func boolLiteral(p *parser.Parser) (runtime.Expr, error) {
	w, _ := syntax.Word(p)
	return &runtime.Literal{V: Bool(w == "true")}, nil
}

func variable(p *parser.Parser) (runtime.Expr, error) {
	name, _, err := syntax.Ident(p, reserved)
	if err != nil {
		return nil, err
	}
	return &runtime.Var{Name: name}, nil
}

func group(p *parser.Parser) (runtime.Expr, error) {
	p.Advance()
	x, err := p.ParseExpr(lowest)
	if err != nil {
		return nil, err
	}
	p.SkipSpace()
	if _, err := p.Expect(")"); err != nil {
		return nil, err
	}
	return x, nil
}

func logical(p *parser.Parser, left runtime.Expr) (runtime.Expr, error) {
	op := p.Advance().Text
	if op == "||" {
		right, err := p.ParseExpr(or.Next())
		return &runtime.Or{Left: left, Right: right, Truth: truth}, err
	}
	right, err := p.ParseExpr(and.Next())
	return &runtime.And{Left: left, Right: right, Truth: truth}, err
}

func binary(prec parser.Precedence) func(p *parser.Parser, left runtime.Expr) (runtime.Expr, error) {
	return func(p *parser.Parser, left runtime.Expr) (runtime.Expr, error) {
		op := p.Advance().Text
		right, err := p.ParseExpr(prec.Next())
		if err != nil {
			return nil, err
		}
		if prec == comparison {
			return &Compare{Op: op, Left: left, Right: right}, nil
		}
		return &Arith{Op: op, Left: left, Right: right}, nil
	}
}

func arguments(p *parser.Parser) ([]runtime.Expr, error) {
	var args []runtime.Expr
	err := syntax.List(p, ",", ")", func() error {
		x, err := p.ParseExpr(lowest)
		args = append(args, x)
		return err
	})
	return args, err
}

func callExpr(p *parser.Parser, left runtime.Expr) (runtime.Expr, error) {
	p.Advance()
	args, err := arguments(p)
	if err != nil {
		return nil, err
	}
	return &runtime.Call{Callee: left, Args: args}, nil
}

// macroArgs parses the (...) of name!(...) after the name. A leading string
// literal with further arguments becomes a Format.
func macroArgs(p *parser.Parser) (runtime.Expr, error) {
	syntax.Word(p)
	p.Advance()
	p.SkipSpace()
	if _, err := p.Expect("("); err != nil {
		return nil, err
	}
	args, err := arguments(p)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return &runtime.Literal{V: Str("")}, nil
	}
	if lit, ok := args[0].(*runtime.Literal); ok {
		if tmpl, ok := lit.V.(Str); ok {
			return &Format{Template: string(tmpl), Args: args[1:]}, nil
		}
	}
	if len(args) > 1 {
		return nil, p.Errorf("format argument must be a string literal")
	}
	return args[0], nil
}

func formatMacro(p *parser.Parser) (runtime.Expr, error) {
	return macroArgs(p)
}
