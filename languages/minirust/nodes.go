package minirust

import (
	"math"
	"strings"

	"github.com/ivanshim/lumen-lang/errors"
	"github.com/ivanshim/lumen-lang/runtime"
	"github.com/ivanshim/lumen-lang/value"
)

// Arith is integer arithmetic with overflow checks.
type Arith struct {
	Op          string
	Left, Right runtime.Expr
}

func (a *Arith) Eval(env *runtime.Env) (value.Value, error) {
	l, err := a.Left.Eval(env)
	if err != nil {
		return nil, err
	}
	r, err := a.Right.Eval(env)
	if err != nil {
		return nil, err
	}
	if a.Op == "+" {
		if ls, ok := l.(Str); ok {
			rs, err := value.As[Str](r, "&str")
			return ls + rs, err
		}
	}
	x, err := integer(l)
	if err != nil {
		return nil, err
	}
	y, err := integer(r)
	if err != nil {
		return nil, err
	}
	return arith(a.Op, x, y)
}

func arith(op string, x, y Int) (value.Value, error) {
	switch op {
	case "+":
		s := x + y
		if (s > x) != (y > 0) {
			return nil, overflow(op, x, y)
		}
		return s, nil
	case "-":
		d := x - y
		if (d < x) != (y > 0) {
			return nil, overflow(op, x, y)
		}
		return d, nil
	case "*":
		if x == 0 || y == 0 {
			return Int(0), nil
		}
		p := x * y
		if p/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
			return nil, overflow(op, x, y)
		}
		return p, nil
	case "/":
		if y == 0 {
			return nil, errors.Runtimef("Division by zero")
		}
		if x == math.MinInt64 && y == -1 {
			return nil, overflow(op, x, y)
		}
		return x / y, nil
	case "%":
		if y == 0 {
			return nil, errors.Runtimef("Modulo by zero")
		}
		if y == -1 {
			return Int(0), nil
		}
		return x % y, nil
	}
	return nil, errors.Runtimef("Invalid arithmetic operator '%s'", op)
}

func overflow(op string, x, y Int) error {
	return errors.Runtimef("Integer overflow in %d %s %d", x, op, y)
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
	case "==":
		eq, err := value.Equal(l, r)
		return Bool(eq), err
	case "!=":
		eq, err := value.Equal(l, r)
		return Bool(!eq), err
	}

	x, err := integer(l)
	if err != nil {
		return nil, err
	}
	y, err := integer(r)
	if err != nil {
		return nil, err
	}
	switch c.Op {
	case "<":
		return Bool(x < y), nil
	case "<=":
		return Bool(x <= y), nil
	case ">":
		return Bool(x > y), nil
	case ">=":
		return Bool(x >= y), nil
	}
	return nil, errors.Runtimef("Invalid comparison operator '%s'", c.Op)
}

type Neg struct {
	X runtime.Expr
}

func (n *Neg) Eval(env *runtime.Env) (value.Value, error) {
	v, err := n.X.Eval(env)
	if err != nil {
		return nil, err
	}
	x, err := integer(v)
	if err != nil {
		return nil, err
	}
	if x == math.MinInt64 {
		return nil, errors.Runtimef("Integer overflow in -%d", x)
	}
	return -x, nil
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

// Format fills each {} in Template with the display form of the next
// argument. {{ and }} are literal braces.
type Format struct {
	Template string
	Args     []runtime.Expr
}

func (f *Format) Eval(env *runtime.Env) (value.Value, error) {
	args, err := runtime.EvalAll(env, f.Args)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	next := 0
	t := f.Template
	for i := 0; i < len(t); i++ {
		switch {
		case strings.HasPrefix(t[i:], "{{"):
			sb.WriteByte('{')
			i++
		case strings.HasPrefix(t[i:], "}}"):
			sb.WriteByte('}')
			i++
		case strings.HasPrefix(t[i:], "{}"):
			if next >= len(args) {
				return nil, errors.Runtimef("Format string has more {} than the %d argument(s) given", len(args))
			}
			sb.WriteString(value.Display(args[next]))
			next++
			i++
		default:
			sb.WriteByte(t[i])
		}
	}
	if next != len(args) {
		return nil, errors.Runtimef("Format string uses %d of %d arguments", next, len(args))
	}
	return Str(sb.String()), nil
}
