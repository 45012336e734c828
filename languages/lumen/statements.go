package lumen

import (
	"github.com/ivanshim/lumen-lang/errors"
	"github.com/ivanshim/lumen-lang/lexer"
	"github.com/ivanshim/lumen-lang/parser"
	"github.com/ivanshim/lumen-lang/runtime"
	"github.com/ivanshim/lumen-lang/syntax"
)

func registerStatements(r *parser.Registry) {
	r.RegisterStmt(
		parser.StmtFunc{Match: memoization, Fn: memoizationStmt},
		parser.StmtFunc{Match: keyword("let"), Fn: letStmt},
		parser.StmtFunc{Match: keyword("if"), Fn: ifStmt},
		parser.StmtFunc{Match: keyword("while", "until"), Fn: whileStmt},
		parser.StmtFunc{Match: keyword("for"), Fn: forStmt},
		parser.StmtFunc{Match: keyword("break"), Fn: simple(runtime.BreakStmt{})},
		parser.StmtFunc{Match: keyword("continue"), Fn: simple(runtime.ContinueStmt{})},
		parser.StmtFunc{Match: keyword("return"), Fn: returnStmt},
		parser.StmtFunc{Match: keyword("fn"), Fn: fnStmt},
		parser.StmtFunc{Match: callsTo("print"), Fn: output("print_native")},
		parser.StmtFunc{Match: callsTo("write"), Fn: output("write_native")},
		parser.StmtFunc{Match: callsTo("push"), Fn: pushStmt},
		parser.StmtFunc{Match: anything, Fn: assignOrExpr},
	)
}

func callsTo(name string) func(p *parser.Parser) bool {
	return func(p *parser.Parser) bool {
		return followedBy(p, name, "(")
	}
}

func memoization(p *parser.Parser) bool {
	return followedBy(p, "MEMOIZATION", "=")
}

func anything(p *parser.Parser) bool {
	return !p.AtEOF() && !p.Peek().Synthetic
}

func simple(s runtime.Stmt) func(p *parser.Parser) (runtime.Stmt, error) {
	return func(p *parser.Parser) (runtime.Stmt, error) {
		syntax.Word(p)
		return s, endStatement(p)
	}
}

func memoizationStmt(p *parser.Parser) (runtime.Stmt, error) {
	syntax.Word(p)
	p.SkipSpace()
	p.Advance()
	p.SkipSpace()
	switch w := syntax.PeekWord(p); w {
	case "true", "false":
		syntax.Word(p)
		return &SetMemoization{On: w == "true"}, endStatement(p)
	}
	return nil, p.Errorf("MEMOIZATION expects true or false %s", describe(p))
}

// letStmt parses let [mut] name [: type] = expr. The type annotation is
// accepted and ignored.
func letStmt(p *parser.Parser) (runtime.Stmt, error) {
	syntax.Word(p)
	p.SkipSpace()
	if syntax.IsKeyword(p, "mut") {
		syntax.Word(p)
		p.SkipSpace()
	}
	name, _, err := syntax.Ident(p, reserved)
	if err != nil {
		return nil, err
	}
	p.SkipSpace()
	if p.Is(":") {
		p.Advance()
		p.SkipSpace()
		if _, _, err := syntax.Ident(p, reserved); err != nil {
			return nil, err
		}
		p.SkipSpace()
	}
	if _, err := p.Expect("="); err != nil {
		return nil, err
	}
	x, err := p.ParseExpr(lowest)
	if err != nil {
		return nil, err
	}
	return &runtime.Define{Name: name, X: x}, endStatement(p)
}

func ifStmt(p *parser.Parser) (runtime.Stmt, error) {
	syntax.Word(p)
	cond, err := p.ParseExpr(lowest)
	if err != nil {
		return nil, err
	}
	then, err := block(p)
	if err != nil {
		return nil, err
	}
	s := &runtime.If{Cond: cond, Then: then, Truth: truth}

	start := p.Cursor()
	for p.IsStructural(lexer.Newline) || p.PeekIs(" ", "\t") {
		p.Advance()
	}
	switch {
	case syntax.IsKeyword(p, "elif"):
		elif, err := ifStmt(p)
		if err != nil {
			return nil, err
		}
		s.Else = []runtime.Stmt{elif}
	case syntax.IsKeyword(p, "else"):
		syntax.Word(p)
		p.SkipSpace()
		if syntax.IsKeyword(p, "if") {
			elif, err := ifStmt(p)
			if err != nil {
				return nil, err
			}
			s.Else = []runtime.Stmt{elif}
			break
		}
		if s.Else, err = block(p); err != nil {
			return nil, err
		}
	default:
		p.Reset(start)
	}
	return s, nil
}

func whileStmt(p *parser.Parser) (runtime.Stmt, error) {
	kw, _ := syntax.Word(p)
	cond, err := p.ParseExpr(lowest)
	if err != nil {
		return nil, err
	}
	body, err := block(p)
	if err != nil {
		return nil, err
	}
	return &runtime.While{Cond: cond, Body: body, Truth: truth, Until: kw == "until"}, nil
}

func forStmt(p *parser.Parser) (runtime.Stmt, error) {
	syntax.Word(p)
	p.SkipSpace()
	name, _, err := syntax.Ident(p, reserved)
	if err != nil {
		return nil, err
	}
	p.SkipSpace()
	if err := syntax.ExpectKeyword(p, "in"); err != nil {
		return nil, err
	}
	iter, err := p.ParseExpr(lowest)
	if err != nil {
		return nil, err
	}
	body, err := block(p)
	if err != nil {
		return nil, err
	}
	return &runtime.ForEach{Var: name, Iter: iter, Body: body, Iterate: iterate}, nil
}

func returnStmt(p *parser.Parser) (runtime.Stmt, error) {
	syntax.Word(p)
	if endStatement(p) == nil {
		return &runtime.ReturnStmt{}, nil
	}
	x, err := p.ParseExpr(lowest)
	if err != nil {
		return nil, err
	}
	return &runtime.ReturnStmt{X: x}, endStatement(p)
}

func fnStmt(p *parser.Parser) (runtime.Stmt, error) {
	syntax.Word(p)
	p.SkipSpace()
	name, _, err := syntax.Ident(p, reserved)
	if err != nil {
		return nil, err
	}
	p.SkipSpace()
	if _, err := p.Expect("("); err != nil {
		return nil, err
	}

	var params []string
	seen := map[string]bool{}
	err = syntax.List(p, ",", ")", func() error {
		at := p.Position()
		param, _, err := syntax.Ident(p, reserved)
		if err != nil {
			return err
		}
		if seen[param] {
			return errors.DuplicateName{Name: param, Location: at}.ParseError()
		}
		seen[param] = true
		params = append(params, param)
		return nil
	})
	if err != nil {
		return nil, err
	}

	body, err := block(p)
	if err != nil {
		return nil, err
	}
	return &runtime.FuncDecl{Fn: &runtime.Function{Name: name, Params: params, Body: body}}, nil
}

// output parses print(e) and write(e) as calls to the named capability.
func output(selector string) func(p *parser.Parser) (runtime.Stmt, error) {
	return func(p *parser.Parser) (runtime.Stmt, error) {
		syntax.Word(p)
		p.SkipSpace()
		p.Advance()
		args, err := arguments(p, ")")
		if err != nil {
			return nil, err
		}
		return &runtime.ExprStmt{X: nativeCall(selector, args)}, endStatement(p)
	}
}

func pushStmt(p *parser.Parser) (runtime.Stmt, error) {
	syntax.Word(p)
	p.SkipSpace()
	at := p.Position()
	p.Advance()
	args, err := arguments(p, ")")
	if err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, errors.Parsef(at, "push expects 2 arguments, got %d", len(args))
	}
	return &Push{Array: args[0], X: args[1]}, endStatement(p)
}

// assignOrExpr parses name = e, name[i] = e or a bare expression. A bare
// assignment to an unknown name defines it in the current scope.
func assignOrExpr(p *parser.Parser) (runtime.Stmt, error) {
	at := p.Position()
	x, err := p.ParseExpr(lowest)
	if err != nil {
		return nil, err
	}
	p.SkipSpace()
	if !p.Is("=") {
		return &runtime.ExprStmt{X: x}, endStatement(p)
	}
	p.Advance()
	rhs, err := p.ParseExpr(lowest)
	if err != nil {
		return nil, err
	}

	switch target := x.(type) {
	case *runtime.Var:
		return &runtime.Assign{Name: target.Name, X: rhs, OrDefine: true}, endStatement(p)
	case *Index:
		if v, ok := target.X.(*runtime.Var); ok {
			return &SetIndex{Name: v.Name, At: target.At, X: rhs}, endStatement(p)
		}
	}
	return nil, errors.Parsef(at, "Invalid assignment target")
}
