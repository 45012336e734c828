package lumen

import (
	"strconv"

	"github.com/ivanshim/lumen-lang/capability"
	"github.com/ivanshim/lumen-lang/errors"
	"github.com/ivanshim/lumen-lang/parser"
	"github.com/ivanshim/lumen-lang/runtime"
	"github.com/ivanshim/lumen-lang/syntax"
)

const (
	lowest parser.Precedence = iota
	pipe
	rangePrec
	or
	and
	comparison
	term
	factor
	unary
	power
	call
)

var comparisons = []string{"==", "!=", "<=", ">=", "<", ">"}

func registerExpressions(r *parser.Registry) {
	r.RegisterPrefix(
		parser.PrefixFunc{Match: syntax.IsDigit, Fn: numberLiteral},
		parser.PrefixFunc{Match: is("\""), Fn: stringLiteral},
		parser.PrefixFunc{Match: keyword("true", "false", "none"), Fn: constant},
		parser.PrefixFunc{Match: keyword("extern"), Fn: externCall},
		parser.PrefixFunc{Match: keyword("not"), Fn: notExpr},
		parser.PrefixFunc{Match: is("-"), Fn: negate},
		parser.PrefixFunc{Match: is("("), Fn: group},
		parser.PrefixFunc{Match: is("["), Fn: arrayLiteral},
		parser.PrefixFunc{Match: identifier, Fn: variable},
	)

	r.RegisterInfix(
		parser.InfixFunc{Match: is("|>"), Prec: pipe, Fn: pipeInto},
		parser.InfixFunc{Match: is(".."), Prec: rangePrec, Fn: rangeExpr},
		parser.InfixFunc{Match: keyword("or"), Prec: or, Fn: logical("or")},
		parser.InfixFunc{Match: keyword("and"), Prec: and, Fn: logical("and")},
		parser.InfixFunc{Match: is(comparisons...), Prec: comparison, Fn: compare},
		parser.InfixFunc{Match: is("+", "-"), Prec: term, Fn: arithmetic(term.Next())},
		parser.InfixFunc{Match: is("*", "/", "//", "%"), Prec: factor, Fn: arithmetic(factor.Next())},
		parser.InfixFunc{Match: is("**"), Prec: power, Fn: arithmetic(power)},
		parser.InfixFunc{Match: is("("), Prec: call, Fn: callExpr},
		parser.InfixFunc{Match: is("["), Prec: call, Fn: indexExpr},
	)
}

func is(texts ...string) func(p *parser.Parser) bool {
	return func(p *parser.Parser) bool {
		return p.PeekIs(texts...)
	}
}

func keyword(kws ...string) func(p *parser.Parser) bool {
	return func(p *parser.Parser) bool {
		return syntax.IsAnyKeyword(p, kws...)
	}
}

func identifier(p *parser.Parser) bool {
	return syntax.IsIdentStart(p) && !reserved[syntax.PeekWord(p)]
}

func numberLiteral(p *parser.Parser) (runtime.Expr, error) {
	text, _ := syntax.Number(p, true)
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.Errorf("Invalid number '%s'", text)
	}
	return &runtime.Literal{V: Number(f)}, nil
}

func stringLiteral(p *parser.Parser) (runtime.Expr, error) {
	s, err := syntax.String(p, "\"")
	if err != nil {
		return nil, err
	}
	return &runtime.Literal{V: String(s)}, nil
}

func constant(p *parser.Parser) (runtime.Expr, error) {
	w, _ := syntax.Word(p)
	switch w {
	case "true":
		return &runtime.Literal{V: Bool(true)}, nil
	case "false":
		return &runtime.Literal{V: Bool(false)}, nil
	}
	return &runtime.Literal{V: None}, nil
}

func variable(p *parser.Parser) (runtime.Expr, error) {
	name, _, err := syntax.Ident(p, reserved)
	if err != nil {
		return nil, err
	}
	return &runtime.Var{Name: name}, nil
}

func negate(p *parser.Parser) (runtime.Expr, error) {
	p.Advance()
	x, err := p.ParseExpr(unary)
	if err != nil {
		return nil, err
	}
	return &Negate{X: x}, nil
}

func notExpr(p *parser.Parser) (runtime.Expr, error) {
	syntax.Word(p)
	x, err := p.ParseExpr(comparison)
	if err != nil {
		return nil, err
	}
	return &Not{X: x}, nil
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

func arguments(p *parser.Parser, close string) ([]runtime.Expr, error) {
	var args []runtime.Expr
	err := syntax.List(p, ",", close, func() error {
		x, err := p.ParseExpr(lowest)
		args = append(args, x)
		return err
	})
	return args, err
}

func arrayLiteral(p *parser.Parser) (runtime.Expr, error) {
	p.Advance()
	elems, err := arguments(p, "]")
	if err != nil {
		return nil, err
	}
	return &ArrayLit{Elems: elems}, nil
}

// externCall parses extern("selector", args...). The selector is resolved
// into clauses here; lookup happens at evaluation.
func externCall(p *parser.Parser) (runtime.Expr, error) {
	syntax.Word(p)
	p.SkipSpace()
	if _, err := p.Expect("("); err != nil {
		return nil, err
	}
	p.SkipSpace()
	if !p.Is("\"") {
		return nil, p.Errorf("extern selector must be a string literal")
	}
	at := p.Position()
	selector, err := syntax.String(p, "\"")
	if err != nil {
		return nil, err
	}
	clauses, err := capability.ParseSelector(selector)
	if err != nil {
		if rerr, ok := err.(*errors.RuntimeError); ok {
			return nil, errors.Parsef(at, "%s", rerr.Message)
		}
		return nil, errors.Parsef(at, "%v", err)
	}

	var args []runtime.Expr
	p.SkipSpace()
	if p.Is(",") {
		p.Advance()
		if args, err = arguments(p, ")"); err != nil {
			return nil, err
		}
	} else if _, err := p.Expect(")"); err != nil {
		return nil, err
	}
	return &runtime.CapabilityCall{Selector: selector, Clauses: clauses, Args: args}, nil
}

func nativeCall(selector string, args []runtime.Expr) *runtime.CapabilityCall {
	clauses, _ := capability.ParseSelector(selector)
	return &runtime.CapabilityCall{Selector: selector, Clauses: clauses, Args: args}
}

func logical(op string) func(p *parser.Parser, left runtime.Expr) (runtime.Expr, error) {
	prec := and
	if op == "or" {
		prec = or
	}
	return func(p *parser.Parser, left runtime.Expr) (runtime.Expr, error) {
		syntax.Word(p)
		right, err := p.ParseExpr(prec.Next())
		if err != nil {
			return nil, err
		}
		if op == "or" {
			return &runtime.Or{Left: left, Right: right, Truth: truth}, nil
		}
		return &runtime.And{Left: left, Right: right, Truth: truth}, nil
	}
}

func compare(p *parser.Parser, left runtime.Expr) (runtime.Expr, error) {
	op := p.Advance().Text
	right, err := p.ParseExpr(comparison.Next())
	if err != nil {
		return nil, err
	}
	p.SkipSpace()
	if p.PeekIs(comparisons...) {
		return nil, p.Errorf("Comparison operators cannot be chained")
	}
	return &Compare{Op: op, Left: left, Right: right}, nil
}

// arithmetic parses the right operand at rhs: one level up for left
// associative operators, the operator's own level for right associative.
func arithmetic(rhs parser.Precedence) func(p *parser.Parser, left runtime.Expr) (runtime.Expr, error) {
	return func(p *parser.Parser, left runtime.Expr) (runtime.Expr, error) {
		op := p.Advance().Text
		right, err := p.ParseExpr(rhs)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: op, Left: left, Right: right}, nil
	}
}

func rangeExpr(p *parser.Parser, left runtime.Expr) (runtime.Expr, error) {
	p.Advance()
	right, err := p.ParseExpr(rangePrec.Next())
	if err != nil {
		return nil, err
	}
	return &RangeExpr{Start: left, End: right}, nil
}

// pipeInto rewrites x |> f(a) as f(x, a) and x |> f as f(x).
func pipeInto(p *parser.Parser, left runtime.Expr) (runtime.Expr, error) {
	p.Advance()
	right, err := p.ParseExpr(pipe.Next())
	if err != nil {
		return nil, err
	}
	if c, ok := right.(*runtime.Call); ok {
		return &Pipe{X: left, Fn: c.Callee, Args: c.Args}, nil
	}
	return &Pipe{X: left, Fn: right}, nil
}

func callExpr(p *parser.Parser, left runtime.Expr) (runtime.Expr, error) {
	p.Advance()
	args, err := arguments(p, ")")
	if err != nil {
		return nil, err
	}
	return &runtime.Call{Callee: left, Args: args}, nil
}

func indexExpr(p *parser.Parser, left runtime.Expr) (runtime.Expr, error) {
	p.Advance()
	at, err := p.ParseExpr(lowest)
	if err != nil {
		return nil, err
	}
	p.SkipSpace()
	if _, err := p.Expect("]"); err != nil {
		return nil, err
	}
	return &Index{X: left, At: at}, nil
}
