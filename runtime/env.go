package runtime

import (
	"io"
	"os"

	"github.com/ivanshim/lumen-lang/capability"
	"github.com/ivanshim/lumen-lang/errors"
	"github.com/ivanshim/lumen-lang/value"
)

const DefaultMaxCallDepth = 2000

// Env is the evaluation environment: a stack of scopes plus the host
// plumbing nodes need while running. The bottom scope is global and is never
// popped.
type Env struct {
	scopes []map[string]value.Value

	Capabilities *capability.Registry
	Stdout       io.Writer
	Stderr       io.Writer

	// None is the language's unit value, returned by functions that fall off
	// the end of their body.
	None value.Value

	// Memo caches function results while enabled.
	Memo *Memo

	MaxCallDepth int
	calls        int
}

func NewEnv() *Env {
	return &Env{
		scopes:       []map[string]value.Value{{}},
		Capabilities: capability.NewRegistry(),
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Memo:         NewMemo(),
		MaxCallDepth: DefaultMaxCallDepth,
	}
}

func (e *Env) PushScope() {
	e.scopes = append(e.scopes, map[string]value.Value{})
}

// PopScope drops the innermost scope. The global scope stays.
func (e *Env) PopScope() {
	if len(e.scopes) == 1 {
		return
	}
	e.scopes[len(e.scopes)-1] = nil
	e.scopes = e.scopes[:len(e.scopes)-1]
}

func (e *Env) Depth() int {
	return len(e.scopes)
}

// unwind pops every scope above depth.
func (e *Env) unwind(depth int) {
	for len(e.scopes) > depth && len(e.scopes) > 1 {
		e.PopScope()
	}
}

func (e *Env) top() map[string]value.Value {
	return e.scopes[len(e.scopes)-1]
}

// Set defines or overwrites name in the innermost scope.
func (e *Env) Set(name string, v value.Value) {
	e.top()[name] = v
}

// Assign overwrites name in the innermost scope that has it.
func (e *Env) Assign(name string, v value.Value) error {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if _, ok := e.scopes[i][name]; ok {
			e.scopes[i][name] = v
			return nil
		}
	}
	return errors.Undefined(name)
}

// AssignOrDefine behaves like Assign, but defines name in the innermost
// scope when no scope has it.
func (e *Env) AssignOrDefine(name string, v value.Value) {
	if e.Assign(name, v) != nil {
		e.Set(name, v)
	}
}

func (e *Env) Get(name string) (value.Value, error) {
	if v, ok := e.Lookup(name); ok {
		return v, nil
	}
	return nil, errors.Undefined(name)
}

func (e *Env) Lookup(name string) (value.Value, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if v, ok := e.scopes[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}
