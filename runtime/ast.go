package runtime

import (
	"github.com/ivanshim/lumen-lang/capability"
	"github.com/ivanshim/lumen-lang/errors"
	"github.com/ivanshim/lumen-lang/value"
)

// Expr is an expression node. Each node owns its children and is immutable
// once parsed.
type Expr interface {
	Eval(env *Env) (value.Value, error)
}

// Stmt is a statement node.
type Stmt interface {
	Exec(env *Env) (Control, error)
}

type Program struct {
	Stmts []Stmt
}

// Truth decides a condition. Languages supply it so the kernel never coerces
// values itself.
type Truth func(value.Value) (bool, error)

type Literal struct {
	V value.Value
}

func (l *Literal) Eval(env *Env) (value.Value, error) {
	return l.V, nil
}

type Var struct {
	Name string
}

func (v *Var) Eval(env *Env) (value.Value, error) {
	return env.Get(v.Name)
}

// And evaluates Right only when Left is truthy, and yields the operand that
// decided the result.
type And struct {
	Left, Right Expr
	Truth       Truth
}

func (a *And) Eval(env *Env) (value.Value, error) {
	l, err := a.Left.Eval(env)
	if err != nil {
		return nil, err
	}
	ok, err := a.Truth(l)
	if err != nil || !ok {
		return l, err
	}
	return a.Right.Eval(env)
}

// Or evaluates Right only when Left is falsy.
type Or struct {
	Left, Right Expr
	Truth       Truth
}

func (o *Or) Eval(env *Env) (value.Value, error) {
	l, err := o.Left.Eval(env)
	if err != nil {
		return nil, err
	}
	ok, err := o.Truth(l)
	if err != nil || ok {
		return l, err
	}
	return o.Right.Eval(env)
}

// Call evaluates the callee, then the arguments left to right, then invokes.
type Call struct {
	Callee Expr
	Args   []Expr
}

func (c *Call) Eval(env *Env) (value.Value, error) {
	callee, err := c.Callee.Eval(env)
	if err != nil {
		return nil, err
	}
	args, err := EvalAll(env, c.Args)
	if err != nil {
		return nil, err
	}
	return Invoke(env, callee, args)
}

// CapabilityCall is the extern boundary. Clauses are tried in order; the
// arguments are evaluated only once a clause resolves.
type CapabilityCall struct {
	Selector string
	Clauses  []capability.Key
	Args     []Expr
}

func (c *CapabilityCall) Eval(env *Env) (value.Value, error) {
	if env.Capabilities == nil {
		return nil, errors.Runtimef("Unknown capability '%s'", c.Selector)
	}
	cp, k, ok := env.Capabilities.First(c.Clauses)
	if !ok {
		return nil, errors.Runtimef("Unknown capability '%s'", c.Selector)
	}
	args, err := EvalAll(env, c.Args)
	if err != nil {
		return nil, err
	}
	plog.Tracef("calling capability %s with %d args", k, len(args))
	return cp.Call(args)
}

func EvalAll(env *Env, exprs []Expr) ([]value.Value, error) {
	vals := make([]value.Value, len(exprs))
	for i, x := range exprs {
		v, err := x.Eval(env)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) Exec(env *Env) (Control, error) {
	_, err := s.X.Eval(env)
	return Normal, err
}

// Define binds Name in the innermost scope.
type Define struct {
	Name string
	X    Expr
}

func (d *Define) Exec(env *Env) (Control, error) {
	v, err := d.X.Eval(env)
	if err != nil {
		return Normal, err
	}
	env.Set(d.Name, v)
	return Normal, nil
}

// Assign rebinds Name in the innermost scope that has it. With OrDefine a
// missing name is defined in the innermost scope instead of failing.
type Assign struct {
	Name     string
	X        Expr
	OrDefine bool
}

func (a *Assign) Exec(env *Env) (Control, error) {
	v, err := a.X.Eval(env)
	if err != nil {
		return Normal, err
	}
	if a.OrDefine {
		env.AssignOrDefine(a.Name, v)
		return Normal, nil
	}
	return Normal, env.Assign(a.Name, v)
}

type Block struct {
	Stmts []Stmt
}

func (b *Block) Exec(env *Env) (Control, error) {
	return ExecBlock(env, b.Stmts)
}

// If runs Then or Else in a scope of its own. A nil Else does nothing.
type If struct {
	Cond  Expr
	Then  []Stmt
	Else  []Stmt
	Truth Truth
}

func (s *If) Exec(env *Env) (Control, error) {
	c, err := s.Cond.Eval(env)
	if err != nil {
		return Normal, err
	}
	ok, err := s.Truth(c)
	if err != nil {
		return Normal, err
	}
	if ok {
		return ExecBlock(env, s.Then)
	}
	if s.Else != nil {
		return ExecBlock(env, s.Else)
	}
	return Normal, nil
}

// While loops while Cond holds, or until it holds when Until is set.
type While struct {
	Cond  Expr
	Body  []Stmt
	Truth Truth
	Until bool
}

func (w *While) Exec(env *Env) (Control, error) {
	return RunLoop(env, func() (bool, error) {
		if w.Cond == nil {
			return true, nil
		}
		c, err := w.Cond.Eval(env)
		if err != nil {
			return false, err
		}
		ok, err := w.Truth(c)
		return ok != w.Until, err
	}, w.Body)
}

// Iterate starts an iteration over v. The returned function yields items
// until its second result is false.
type Iterate func(v value.Value) (func() (value.Value, bool, error), error)

type ForEach struct {
	Var     string
	Iter    Expr
	Body    []Stmt
	Iterate Iterate
}

func (f *ForEach) Exec(env *Env) (Control, error) {
	v, err := f.Iter.Eval(env)
	if err != nil {
		return Normal, err
	}
	next, err := f.Iterate(v)
	if err != nil {
		return Normal, err
	}
	return RunRange(env, f.Var, next, f.Body)
}

type BreakStmt struct{}

func (BreakStmt) Exec(env *Env) (Control, error) {
	return Control{Kind: Break}, nil
}

type ContinueStmt struct{}

func (ContinueStmt) Exec(env *Env) (Control, error) {
	return Control{Kind: Continue}, nil
}

// ReturnStmt returns X, or the environment's None when X is nil.
type ReturnStmt struct {
	X Expr
}

func (r *ReturnStmt) Exec(env *Env) (Control, error) {
	if r.X == nil {
		return Returning(env.None), nil
	}
	v, err := r.X.Eval(env)
	if err != nil {
		return Normal, err
	}
	return Returning(v), nil
}

// FuncDecl binds a function value in the innermost scope.
type FuncDecl struct {
	Fn *Function
}

func (d *FuncDecl) Exec(env *Env) (Control, error) {
	env.Set(d.Fn.Name, d.Fn)
	return Normal, nil
}
