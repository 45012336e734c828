package minirust

import (
	"github.com/ivanshim/lumen-lang/capability"
	"github.com/ivanshim/lumen-lang/errors"
	"github.com/ivanshim/lumen-lang/parser"
	"github.com/ivanshim/lumen-lang/runtime"
	"github.com/ivanshim/lumen-lang/syntax"
)

func registerStatements(r *parser.Registry) {
	r.RegisterStmt(
		parser.StmtFunc{Match: keyword("let"), Fn: letStmt},
		parser.StmtFunc{Match: keyword("fn"), Fn: fnStmt},
		parser.StmtFunc{Match: keyword("if"), Fn: ifStmt},
		parser.StmtFunc{Match: keyword("while"), Fn: whileStmt},
		parser.StmtFunc{Match: keyword("loop"), Fn: loopStmt},
		parser.StmtFunc{Match: keyword("break"), Fn: word(runtime.BreakStmt{})},
		parser.StmtFunc{Match: keyword("continue"), Fn: word(runtime.ContinueStmt{})},
		parser.StmtFunc{Match: keyword("return"), Fn: returnStmt},
		parser.StmtFunc{Match: macro("println"), Fn: printMacro("print_native")},
		parser.StmtFunc{Match: macro("print"), Fn: printMacro("write_native")},
		parser.StmtFunc{Match: callsTo("print"), Fn: plainPrint},
		parser.StmtFunc{Match: is("{"), Fn: blockStmt},
		parser.StmtFunc{Match: anything, Fn: assignOrExpr},
	)
}

func anything(p *parser.Parser) bool {
	return !p.AtEOF() && !p.Peek().Synthetic
}

func word(s runtime.Stmt) func(p *parser.Parser) (runtime.Stmt, error) {
	return func(p *parser.Parser) (runtime.Stmt, error) {
		syntax.Word(p)
		return s, nil
	}
}

// skipType skips a type annotation: a path of words with optional & and
// generic arguments, e.g. &str or Vec<i64>.
func skipType(p *parser.Parser) {
	p.SkipSpace()
	for p.Is("&") {
		p.Advance()
	}
	syntax.Word(p)
	if p.Is("<") {
		depth := 0
		for !p.AtEOF() {
			switch p.Advance().Text {
			case "<":
				depth++
			case ">":
				depth--
			}
			if depth == 0 {
				break
			}
		}
	}
}

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
		skipType(p)
		p.SkipSpace()
	}
	if _, err := p.Expect("="); err != nil {
		return nil, err
	}
	x, err := p.ParseExpr(lowest)
	if err != nil {
		return nil, err
	}
	return &runtime.Define{Name: name, X: x}, nil
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
		p.SkipSpace()
		if p.Is(":") {
			p.Advance()
			skipType(p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.SkipSpace()
	if p.Is("->") {
		p.Advance()
		skipType(p)
	}
	body, err := block(p)
	if err != nil {
		return nil, err
	}
	return &runtime.FuncDecl{Fn: &runtime.Function{Name: name, Params: params, Body: body}}, nil
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
	p.SkipSpace()
	if !syntax.IsKeyword(p, "else") {
		p.Reset(start)
		return s, nil
	}
	syntax.Word(p)
	p.SkipSpace()
	if syntax.IsKeyword(p, "if") {
		elif, err := ifStmt(p)
		if err != nil {
			return nil, err
		}
		s.Else = []runtime.Stmt{elif}
		return s, nil
	}
	if s.Else, err = block(p); err != nil {
		return nil, err
	}
	return s, nil
}

func whileStmt(p *parser.Parser) (runtime.Stmt, error) {
	syntax.Word(p)
	cond, err := p.ParseExpr(lowest)
	if err != nil {
		return nil, err
	}
	body, err := block(p)
	if err != nil {
		return nil, err
	}
	return &runtime.While{Cond: cond, Body: body, Truth: truth}, nil
}

func loopStmt(p *parser.Parser) (runtime.Stmt, error) {
	syntax.Word(p)
	body, err := block(p)
	if err != nil {
		return nil, err
	}
	return &runtime.While{Body: body}, nil
}

func blockStmt(p *parser.Parser) (runtime.Stmt, error) {
	stmts, err := block(p)
	if err != nil {
		return nil, err
	}
	return &runtime.Block{Stmts: stmts}, nil
}

func returnStmt(p *parser.Parser) (runtime.Stmt, error) {
	syntax.Word(p)
	p.SkipSpace()
	if p.Is(";") || p.Is("}") || p.AtEOF() {
		return &runtime.ReturnStmt{}, nil
	}
	x, err := p.ParseExpr(lowest)
	if err != nil {
		return nil, err
	}
	return &runtime.ReturnStmt{X: x}, nil
}

func printMacro(selector string) func(p *parser.Parser) (runtime.Stmt, error) {
	return func(p *parser.Parser) (runtime.Stmt, error) {
		x, err := macroArgs(p)
		if err != nil {
			return nil, err
		}
		return output(selector, x), nil
	}
}

// plainPrint parses print(e), the macro-less form.
func plainPrint(p *parser.Parser) (runtime.Stmt, error) {
	syntax.Word(p)
	p.SkipSpace()
	p.Advance()
	args, err := arguments(p)
	if err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, p.Errorf("print expects 1 argument, got %d", len(args))
	}
	return output("print_native", args[0]), nil
}

func output(selector string, x runtime.Expr) runtime.Stmt {
	return &runtime.ExprStmt{X: &runtime.CapabilityCall{
		Selector: selector,
		Clauses:  []capability.Key{{Name: selector}},
		Args:     []runtime.Expr{x},
	}}
}

func callsTo(name string) func(p *parser.Parser) bool {
	return func(p *parser.Parser) bool {
		if !syntax.IsKeyword(p, name) {
			return false
		}
		start := p.Cursor()
		defer p.Reset(start)
		syntax.Word(p)
		p.SkipSpace()
		return p.Is("(")
	}
}

var compound = map[string]string{"+=": "+", "-=": "-", "*=": "*", "/=": "/", "%=": "%"}

// assignOrExpr parses x = e, x op= e or an expression statement. Assignment
// never defines: the name must already be bound.
func assignOrExpr(p *parser.Parser) (runtime.Stmt, error) {
	at := p.Position()
	x, err := p.ParseExpr(lowest)
	if err != nil {
		return nil, err
	}
	p.SkipSpace()
	op, isCompound := compound[p.Peek().Text]
	isCompound = isCompound && !p.Peek().Synthetic
	if !p.Is("=") && !isCompound {
		return &runtime.ExprStmt{X: x}, nil
	}
	v, ok := x.(*runtime.Var)
	if !ok {
		return nil, errors.Parsef(at, "Invalid assignment target")
	}
	p.Advance()
	rhs, err := p.ParseExpr(lowest)
	if err != nil {
		return nil, err
	}
	if isCompound {
		rhs = &Arith{Op: op, Left: &runtime.Var{Name: v.Name}, Right: rhs}
	}
	return &runtime.Assign{Name: v.Name, X: rhs}, nil
}
