package runtime

import (
	"fmt"

	"github.com/ivanshim/lumen-lang/errors"
	"github.com/ivanshim/lumen-lang/value"
)

// Function is a user-defined function value.
type Function struct {
	Name   string
	Params []string
	Body   []Stmt
}

func (f *Function) Clone() value.Value { return f }
func (f *Function) String() string     { return "<fn " + f.Name + ">" }
func (f *Function) GoString() string   { return fmt.Sprintf("Function(%s/%d)", f.Name, len(f.Params)) }
func (f *Function) TypeName() string   { return "function" }

func (f *Function) Equal(other value.Value) (bool, error) {
	o, ok := other.(*Function)
	if !ok {
		return false, value.Mismatch(f, other)
	}
	return f == o, nil
}

// Native is a host function exposed as a value. Arity -1 accepts any count.
type Native struct {
	Name  string
	Arity int
	Fn    func(env *Env, args []value.Value) (value.Value, error)
}

func (n *Native) Clone() value.Value { return n }
func (n *Native) String() string     { return "<native " + n.Name + ">" }
func (n *Native) GoString() string   { return "Native(" + n.Name + ")" }
func (n *Native) TypeName() string   { return "native" }

func (n *Native) Equal(other value.Value) (bool, error) {
	o, ok := other.(*Native)
	if !ok {
		return false, value.Mismatch(n, other)
	}
	return n == o, nil
}

// Invoke calls callee with already evaluated arguments.
func Invoke(env *Env, callee value.Value, args []value.Value) (value.Value, error) {
	switch fn := callee.(type) {
	case *Function:
		return CallFunction(env, fn, args)
	case *Native:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return nil, errors.Arity(fn.Name, fn.Arity, len(args))
		}
		return fn.Fn(env, args)
	}
	return nil, errors.Runtimef("Cannot call a value of type %s", value.TypeName(callee))
}

// CallFunction runs fn in a fresh scope pushed on the current environment.
// A return signal yields its value; a trailing expression statement yields
// its value; otherwise the result is env.None.
func CallFunction(env *Env, fn *Function, args []value.Value) (value.Value, error) {
	if len(args) != len(fn.Params) {
		return nil, errors.Arity(fmt.Sprintf("Function '%s'", fn.Name), len(fn.Params), len(args))
	}
	if env.MaxCallDepth > 0 && env.calls >= env.MaxCallDepth {
		return nil, errors.Runtimef("Maximum call depth %d exceeded in '%s'", env.MaxCallDepth, fn.Name)
	}

	memoized := env.Memo.Enabled()
	var key string
	if memoized {
		key = memoKey(args)
		if v, ok := env.Memo.get(fn, key); ok {
			return v, nil
		}
	}

	env.calls++
	defer func() { env.calls-- }()

	depth := env.Depth()
	env.PushScope()
	defer env.unwind(depth)

	for i, p := range fn.Params {
		env.Set(p, args[i])
	}

	result := env.None
	for i, s := range fn.Body {
		if es, ok := s.(*ExprStmt); ok && i == len(fn.Body)-1 {
			v, err := es.X.Eval(env)
			if err != nil {
				return nil, err
			}
			result = v
			break
		}
		c, err := s.Exec(env)
		if err != nil {
			return nil, err
		}
		if c.Kind == Return {
			result = c.Value
			break
		}
		if c.Kind != None {
			return nil, errors.Runtimef("'%s' outside of a loop in function '%s'", c.Kind, fn.Name)
		}
	}

	if memoized {
		env.Memo.put(fn, key, result)
	}
	return result, nil
}
