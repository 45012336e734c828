package runtime

import (
	"github.com/ivanshim/lumen-lang/value"
)

// ExecBlock runs stmts in a new scope. The scope is popped on every exit
// path, and a signal from any statement stops the block and propagates.
func ExecBlock(env *Env, stmts []Stmt) (Control, error) {
	depth := env.Depth()
	env.PushScope()
	defer env.unwind(depth)
	return execAll(env, stmts)
}

func execAll(env *Env, stmts []Stmt) (Control, error) {
	for _, s := range stmts {
		c, err := s.Exec(env)
		if err != nil {
			return Normal, err
		}
		if c.Kind != None {
			return c, nil
		}
	}
	return Normal, nil
}

// RunLoop runs body while cond holds. Break ends the loop, Continue moves to
// the next check and Return propagates.
func RunLoop(env *Env, cond func() (bool, error), body []Stmt) (Control, error) {
	for {
		ok, err := cond()
		if err != nil {
			return Normal, err
		}
		if !ok {
			return Normal, nil
		}
		c, err := ExecBlock(env, body)
		if err != nil {
			return Normal, err
		}
		switch c.Kind {
		case Break:
			return Normal, nil
		case Return:
			return c, nil
		}
	}
}

// RunRange binds name to each item from next in a per-iteration scope and
// runs body. Signals are handled as in RunLoop.
func RunRange(env *Env, name string, next func() (value.Value, bool, error), body []Stmt) (Control, error) {
	for {
		v, ok, err := next()
		if err != nil {
			return Normal, err
		}
		if !ok {
			return Normal, nil
		}

		depth := env.Depth()
		env.PushScope()
		env.Set(name, v)
		c, err := execAll(env, body)
		env.unwind(depth)

		if err != nil {
			return Normal, err
		}
		switch c.Kind {
		case Break:
			return Normal, nil
		case Return:
			return c, nil
		}
	}
}
