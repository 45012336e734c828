package interp

import (
	"io"
	"os"
	"time"

	"github.com/ivanshim/lumen-lang/capability"
	"github.com/ivanshim/lumen-lang/errors"
	"github.com/ivanshim/lumen-lang/lexer"
	"github.com/ivanshim/lumen-lang/parser"
	"github.com/ivanshim/lumen-lang/runtime"
	"github.com/ivanshim/lumen-lang/structure"
	"github.com/ivanshim/lumen-lang/types"
	"github.com/ivanshim/lumen-lang/value"
	"github.com/ztrue/tracerr"
)

type Options struct {
	// Filename labels diagnostics.
	Filename string
	Stdout   io.Writer
	Stderr   io.Writer

	// MaxDepth bounds parser nesting; zero keeps the parser default.
	MaxDepth int
	// MaxCallDepth bounds function recursion; zero keeps the runtime default.
	MaxCallDepth int
	// Memoize starts evaluation with function memoization on.
	Memoize bool
	// Deny removes capabilities by selector before evaluation.
	Deny []string
	// Capabilities registers extra host capabilities.
	Capabilities func(r *capability.Registry)
	// Now replaces the clock of the time capabilities.
	Now func() time.Time
}

// Session runs source text of one language. It builds the registries once
// and reuses them for every Parse and Run.
type Session struct {
	def   Definition
	setup *Setup
	opts  Options
}

func New(def Definition, opts Options) (*Session, error) {
	setup := NewSetup()
	if err := def.Register(setup); err != nil {
		return nil, tracerr.Wrap(err)
	}
	if setup.Structure == nil {
		setup.Structure = structure.AppendEOF(setup.Tokens.Alias(lexer.EOF))
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	pre, in, st := setup.Handlers.Counts()
	plog.Debugf("language %s: %d lexemes, %d prefix, %d infix, %d statement handlers",
		def.Name(), len(setup.Tokens.Lexemes()), pre, in, st)
	return &Session{def: def, setup: setup, opts: opts}, nil
}

func (s *Session) Language() Definition {
	return s.def
}

// Lex segments src without any restructuring.
func (s *Session) Lex(src string) ([]types.Lexeme, error) {
	lxs, err := lexer.Lex(src, s.setup.Tokens)
	if lerr, ok := err.(*errors.LexError); ok {
		lerr.Location.Filename = s.opts.Filename
	}
	return lxs, err
}

// Tokens is the stream the parser sees: lexed, then restructured.
func (s *Session) Tokens(src string) ([]types.Lexeme, error) {
	lxs, err := s.Lex(src)
	if err != nil {
		return nil, err
	}
	lxs, err = s.setup.Structure(lxs)
	if lerr, ok := err.(*errors.LexError); ok {
		lerr.Location.Filename = s.opts.Filename
	}
	return lxs, err
}

func (s *Session) Parse(src string) (*runtime.Program, error) {
	lxs, err := s.Tokens(src)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	p := parser.New(lxs, s.setup.Handlers, s.setup.Tokens)
	p.Hooks = s.setup.Hooks
	p.Filename = s.opts.Filename
	if s.opts.MaxDepth > 0 {
		p.MaxDepth = s.opts.MaxDepth
	}
	prog, err := p.ParseProgram()
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return prog, nil
}

// NewEnv builds a global environment with the built-in capabilities, the
// session's extra capabilities and the language globals.
func (s *Session) NewEnv() (*runtime.Env, error) {
	env := runtime.NewEnv()
	env.Stdout = s.opts.Stdout
	env.Stderr = s.opts.Stderr
	env.None = s.setup.None
	env.Memo.Enable(s.opts.Memoize)
	if s.opts.MaxCallDepth > 0 {
		env.MaxCallDepth = s.opts.MaxCallDepth
	}

	capability.RegisterBuiltins(env.Capabilities, capability.BuiltinOptions{
		Stdout: s.opts.Stdout,
		Stderr: s.opts.Stderr,
		Text:   s.setup.Text,
		Int:    s.setup.Int,
		Now:    s.opts.Now,
	})
	if s.opts.Capabilities != nil {
		s.opts.Capabilities(env.Capabilities)
	}
	env.Capabilities.Deny(s.opts.Deny...)

	if s.setup.Globals != nil {
		if err := s.setup.Globals(env); err != nil {
			return nil, tracerr.Wrap(err)
		}
	}
	return env, nil
}

// Exec evaluates prog in env under the language's top-level policy.
func (s *Session) Exec(prog *runtime.Program, env *runtime.Env) (value.Value, error) {
	v, err := runtime.Eval(prog, env, s.setup.Policy)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return v, nil
}

// Run parses src and evaluates it in a fresh environment.
func (s *Session) Run(src string) (value.Value, error) {
	prog, err := s.Parse(src)
	if err != nil {
		return nil, err
	}
	env, err := s.NewEnv()
	if err != nil {
		return nil, err
	}
	plog.Debugf("running %s (%d statements)", s.opts.Filename, len(prog.Stmts))
	return s.Exec(prog, env)
}
