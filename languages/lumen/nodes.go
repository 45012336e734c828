package lumen

import (
	"math"

	"github.com/ivanshim/lumen-lang/errors"
	"github.com/ivanshim/lumen-lang/runtime"
	"github.com/ivanshim/lumen-lang/value"
)

type Binary struct {
	Op          string
	Left, Right runtime.Expr
}

func (b *Binary) Eval(env *runtime.Env) (value.Value, error) {
	l, err := b.Left.Eval(env)
	if err != nil {
		return nil, err
	}
	r, err := b.Right.Eval(env)
	if err != nil {
		return nil, err
	}

	if b.Op == "+" {
		if ls, ok := l.(String); ok {
			rs, err := value.As[String](r, "string")
			return ls + rs, err
		}
	}
	x, err := number(l)
	if err != nil {
		return nil, err
	}
	y, err := number(r)
	if err != nil {
		return nil, err
	}
	switch b.Op {
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "/":
		if y == 0 {
			return nil, errors.Runtimef("Division by zero")
		}
		return x / y, nil
	case "//":
		if y == 0 {
			return nil, errors.Runtimef("Division by zero")
		}
		return Number(math.Floor(float64(x / y))), nil
	case "%":
		if y == 0 {
			return nil, errors.Runtimef("Modulo by zero")
		}
		return Number(math.Mod(float64(x), float64(y))), nil
	case "**":
		return Number(math.Pow(float64(x), float64(y))), nil
	}
	return nil, errors.Runtimef("Invalid arithmetic operator '%s'", b.Op)
}

type Compare struct {
	Op          string
	Left, Right runtime.Expr
}

func (c *Compare) Eval(env *runtime.Env) (value.Value, error) {
	l, err := c.Left.Eval(env)
	if err != nil {
		return nil, err
	}
	r, err := c.Right.Eval(env)
	if err != nil {
		return nil, err
	}

	switch c.Op {
	case "==", "!=":
		eq, err := equal(l, r)
		return Bool(eq == (c.Op == "==")), err
	}

	var cmp int
	switch x := l.(type) {
	case Number:
		y, err := number(r)
		if err != nil {
			return nil, err
		}
		cmp = order(x < y, x > y)
	case String:
		y, err := value.As[String](r, "string")
		if err != nil {
			return nil, err
		}
		cmp = order(x < y, x > y)
	default:
		return nil, errors.Runtimef("Cannot order values of type %s", value.TypeName(l))
	}

	switch c.Op {
	case "<":
		return Bool(cmp < 0), nil
	case "<=":
		return Bool(cmp <= 0), nil
	case ">":
		return Bool(cmp > 0), nil
	case ">=":
		return Bool(cmp >= 0), nil
	}
	return nil, errors.Runtimef("Invalid comparison operator '%s'", c.Op)
}

func order(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}

type Negate struct {
	X runtime.Expr
}

func (n *Negate) Eval(env *runtime.Env) (value.Value, error) {
	v, err := n.X.Eval(env)
	if err != nil {
		return nil, err
	}
	x, err := number(v)
	return -x, err
}

type Not struct {
	X runtime.Expr
}

func (n *Not) Eval(env *runtime.Env) (value.Value, error) {
	v, err := n.X.Eval(env)
	if err != nil {
		return nil, err
	}
	b, err := truth(v)
	return !Bool(b), err
}

type RangeExpr struct {
	Start, End runtime.Expr
}

func (r *RangeExpr) Eval(env *runtime.Env) (value.Value, error) {
	s, err := r.Start.Eval(env)
	if err != nil {
		return nil, err
	}
	e, err := r.End.Eval(env)
	if err != nil {
		return nil, err
	}
	start, err := number(s)
	if err != nil {
		return nil, err
	}
	end, err := number(e)
	if err != nil {
		return nil, err
	}
	return Range{start, end}, nil
}

type ArrayLit struct {
	Elems []runtime.Expr
}

func (a *ArrayLit) Eval(env *runtime.Env) (value.Value, error) {
	items, err := runtime.EvalAll(env, a.Elems)
	if err != nil {
		return nil, err
	}
	return &Array{Items: value.Clone(items)}, nil
}

type Index struct {
	X, At runtime.Expr
}

func (ix *Index) Eval(env *runtime.Env) (value.Value, error) {
	v, err := ix.X.Eval(env)
	if err != nil {
		return nil, err
	}
	at, err := ix.At.Eval(env)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case *Array:
		i, err := index(at, len(x.Items))
		if err != nil {
			return nil, err
		}
		return x.Items[i], nil
	case String:
		runes := []rune(string(x))
		i, err := index(at, len(runes))
		if err != nil {
			return nil, err
		}
		return String(runes[i]), nil
	case Range:
		i, err := index(at, x.Len())
		if err != nil {
			return nil, err
		}
		return x.Start + Number(i), nil
	}
	return nil, errors.Runtimef("Cannot index a value of type %s", value.TypeName(v))
}

// Pipe calls Fn with X prepended to Args.
type Pipe struct {
	X    runtime.Expr
	Fn   runtime.Expr
	Args []runtime.Expr
}

func (p *Pipe) Eval(env *runtime.Env) (value.Value, error) {
	x, err := p.X.Eval(env)
	if err != nil {
		return nil, err
	}
	fn, err := p.Fn.Eval(env)
	if err != nil {
		return nil, err
	}
	rest, err := runtime.EvalAll(env, p.Args)
	if err != nil {
		return nil, err
	}
	return runtime.Invoke(env, fn, append([]value.Value{x}, rest...))
}

type SetIndex struct {
	Name  string
	At, X runtime.Expr
}

func (s *SetIndex) Exec(env *runtime.Env) (runtime.Control, error) {
	v, err := env.Get(s.Name)
	if err != nil {
		return runtime.Normal, err
	}
	arr, err := value.As[*Array](v, "array")
	if err != nil {
		return runtime.Normal, err
	}
	at, err := s.At.Eval(env)
	if err != nil {
		return runtime.Normal, err
	}
	i, err := index(at, len(arr.Items))
	if err != nil {
		return runtime.Normal, err
	}
	x, err := s.X.Eval(env)
	if err != nil {
		return runtime.Normal, err
	}
	arr.Items[i] = x.Clone()
	return runtime.Normal, nil
}

type Push struct {
	Array runtime.Expr
	X     runtime.Expr
}

func (p *Push) Exec(env *runtime.Env) (runtime.Control, error) {
	v, err := p.Array.Eval(env)
	if err != nil {
		return runtime.Normal, err
	}
	arr, err := value.As[*Array](v, "array")
	if err != nil {
		return runtime.Normal, err
	}
	x, err := p.X.Eval(env)
	if err != nil {
		return runtime.Normal, err
	}
	arr.Items = append(arr.Items, x.Clone())
	return runtime.Normal, nil
}

type SetMemoization struct {
	On bool
}

func (m *SetMemoization) Exec(env *runtime.Env) (runtime.Control, error) {
	env.Memo.Enable(m.On)
	return runtime.Normal, nil
}

// iterate walks ranges, arrays and strings. Arrays are walked over a
// snapshot of their elements.
func iterate(v value.Value) (func() (value.Value, bool, error), error) {
	switch x := v.(type) {
	case Range:
		cur := x.Start
		return func() (value.Value, bool, error) {
			if cur >= x.End {
				return nil, false, nil
			}
			n := cur
			cur++
			return n, true, nil
		}, nil
	case *Array:
		items := append([]value.Value(nil), x.Items...)
		i := 0
		return func() (value.Value, bool, error) {
			if i >= len(items) {
				return nil, false, nil
			}
			i++
			return items[i-1], true, nil
		}, nil
	case String:
		runes := []rune(string(x))
		i := 0
		return func() (value.Value, bool, error) {
			if i >= len(runes) {
				return nil, false, nil
			}
			i++
			return String(runes[i-1]), true, nil
		}, nil
	}
	return nil, errors.Runtimef("Cannot iterate over a value of type %s", value.TypeName(v))
}

func lenNative() *runtime.Native {
	return &runtime.Native{
		Name:  "len",
		Arity: 1,
		Fn: func(env *runtime.Env, args []value.Value) (value.Value, error) {
			n, err := length(args[0])
			return Number(n), err
		},
	}
}
