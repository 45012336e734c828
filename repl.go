package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivanshim/lumen-lang/interp"
	"github.com/ivanshim/lumen-lang/runtime"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

const (
	historyFile = ".lumen_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

// needsMore reports whether src is the start of a longer entry: parsing ran
// out of lexemes, or the first line opened an indented block. A blank line
// always ends the entry. src ends with a newline.
func needsMore(src string, err error) bool {
	if strings.HasSuffix(src, "\n\n") {
		return false
	}
	if err != nil && strings.Contains(err.Error(), "end of input") {
		return true
	}
	first := strings.SplitN(src, "\n", 2)[0]
	return strings.HasSuffix(strings.TrimSpace(first), ":")
}

// evaluator keeps one environment alive across entries.
type evaluator struct {
	s   *interp.Session
	env *runtime.Env
	out io.Writer
}

func newEvaluator(def interp.Definition, opts interp.Options) (*evaluator, error) {
	s, err := interp.New(def, opts)
	if err != nil {
		return nil, err
	}
	env, err := s.NewEnv()
	if err != nil {
		return nil, err
	}
	return &evaluator{s: s, env: env, out: opts.Stdout}, nil
}

// probe parses src and reports whether more input is needed.
func (e *evaluator) probe(src string) bool {
	_, err := e.s.Parse(src)
	return needsMore(src, err)
}

// eval runs one entry. A returned value other than none is echoed.
func (e *evaluator) eval(src string) error {
	prog, err := e.s.Parse(src)
	if err != nil {
		return err
	}
	v, err := e.s.Exec(prog, e.env)
	if err != nil {
		return err
	}
	if v != nil && v != e.env.None {
		fmt.Fprintln(e.out, v.String())
	}
	return nil
}

func repl(c *cli.Context, def interp.Definition) error {
	cfg, err := projectConfig(".")
	if err != nil {
		return err
	}
	opts, _, err := options(c, cfg)
	if err != nil {
		return err
	}
	opts.Filename = "<repl>"
	ev, err := newEvaluator(def, opts)
	if err != nil {
		return err
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(c.App.Writer, "%s %s (%s). Ctrl+D exits.\n", c.App.Name, c.App.Version, def.Name())
	for {
		src, ok := readEntry(ln, ev)
		if !ok {
			fmt.Fprintln(c.App.Writer)
			return nil
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(strings.TrimSpace(src), "\n", " "))
		if err := ev.eval(src); err != nil {
			fmt.Fprintln(c.App.ErrWriter, tracerr.Unwrap(err))
		}
	}
}

// readEntry reads lines until they form a complete entry. Ctrl+C drops the
// partial entry; Ctrl+D ends the session.
func readEntry(ln *liner.State, ev *evaluator) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if err == io.EOF {
			return "", false
		}
		if err == liner.ErrPromptAborted {
			return "", true
		}
		if err != nil {
			plog.Errorf("reading input: %v", err)
			return "", false
		}
		b.WriteString(line)
		b.WriteByte('\n')
		if !ev.probe(b.String()) {
			return b.String(), true
		}
	}
}
