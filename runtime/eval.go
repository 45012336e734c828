// Package runtime evaluates programs built from Expr and Stmt nodes against
// an Env. It owns the scope discipline and the control signal; what values
// mean is up to the language.
package runtime

import (
	"github.com/coreos/pkg/capnslog"
	"github.com/ivanshim/lumen-lang/errors"
	"github.com/ivanshim/lumen-lang/value"
)

var plog = capnslog.NewPackageLogger("github.com/ivanshim/lumen-lang", "runtime")

// TopLevelPolicy decides what a Break or Continue reaching the top level
// does.
type TopLevelPolicy int

const (
	RejectStray TopLevelPolicy = iota
	IgnoreStray
)

// Eval runs program in env. A top-level Return stops the program and its
// value is the result; otherwise the result is env.None. The environment is
// back at its global scope when Eval returns.
func Eval(program *Program, env *Env, policy TopLevelPolicy) (value.Value, error) {
	defer env.unwind(1)

	plog.Debugf("evaluating %d statements", len(program.Stmts))
	for _, s := range program.Stmts {
		c, err := s.Exec(env)
		if err != nil {
			return nil, err
		}
		switch c.Kind {
		case Return:
			plog.Tracef("top-level return")
			return c.Value, nil
		case Break, Continue:
			if policy == RejectStray {
				return nil, errors.Runtimef("'%s' outside of a loop", c.Kind)
			}
		}
	}
	return env.None, nil
}
