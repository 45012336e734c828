package main

import (
	"fmt"
	"io/ioutil"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/ivanshim/lumen-lang/interp"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

// job is one source file together with everything needed to run it.
type job struct {
	path     string
	encoding string
	src      string
	def      interp.Definition
	opts     interp.Options
}

func pickLanguage(path, name string) (interp.Definition, error) {
	if name != "" {
		def, ok := interp.Lookup(name)
		if !ok {
			return nil, tracerr.Errorf("unknown language %q (have %v)", name, interp.Names())
		}
		return def, nil
	}
	def, ok := interp.ForFile(path)
	if !ok {
		return nil, tracerr.Errorf("cannot tell the language of %s; use --lang", path)
	}
	return def, nil
}

func loadSource(path, encoding string) (string, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return "", tracerr.Wrap(err)
	}
	return interp.Decode(data, encoding)
}

// projectConfig loads the nearest project file above dir, or returns an
// empty config when there is none.
func projectConfig(dir string) (*interp.Config, error) {
	path, err := interp.FindConfig(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return &interp.Config{}, nil
	}
	return interp.LoadConfig(path)
}

// options merges the project file and the command-line flags. Flags win.
func options(c *cli.Context, cfg *interp.Config) (interp.Options, string, error) {
	opts := interp.Options{
		Stdout:   c.App.Writer,
		Stderr:   c.App.ErrWriter,
		MaxDepth: cfg.MaxDepth,
		Memoize:  cfg.Memoize,
		Deny:     cfg.Deny,
	}
	encoding := cfg.Encoding
	if c.IsSet("max-depth") {
		opts.MaxDepth = c.Int("max-depth")
	}
	if c.IsSet("memoize") {
		opts.Memoize = c.Bool("memoize")
	}
	if c.IsSet("deny") {
		opts.Deny = c.StringSlice("deny")
	}
	if c.IsSet("encoding") {
		encoding = c.String("encoding")
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		if err := setupLogging(cfg.LogLevel); err != nil {
			return opts, "", err
		}
	}
	return opts, encoding, nil
}

func newJob(c *cli.Context) (*job, error) {
	path := c.Args().First()
	if path == "" {
		return nil, tracerr.New("no source file provided")
	}
	cfg, err := projectConfig(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	lang := cfg.Language
	if c.IsSet("lang") {
		lang = c.String("lang")
	}
	def, err := pickLanguage(path, lang)
	if err != nil {
		return nil, err
	}
	opts, encoding, err := options(c, cfg)
	if err != nil {
		return nil, err
	}
	opts.Filename = path

	j := &job{path: path, encoding: encoding, def: def, opts: opts}
	if err := j.reload(); err != nil {
		return nil, err
	}
	plog.Debugf("%s: language %s, encoding %q", path, def.Name(), encoding)
	return j, nil
}

func (j *job) reload() error {
	src, err := loadSource(j.path, j.encoding)
	if err != nil {
		return err
	}
	j.src = src
	return nil
}

func (j *job) session() (*interp.Session, error) {
	return interp.New(j.def, j.opts)
}

func (j *job) run() error {
	s, err := j.session()
	if err != nil {
		return err
	}
	_, err = s.Run(j.src)
	return err
}

func (j *job) lex(raw bool) error {
	s, err := j.session()
	if err != nil {
		return err
	}
	lex := s.Tokens
	if raw {
		lex = s.Lex
	}
	lxs, err := lex(j.src)
	if err != nil {
		return err
	}
	for _, lx := range lxs {
		if lx.Synthetic {
			fmt.Fprintf(j.opts.Stdout, "%d:%d\t%s\n", lx.Line, lx.Col, lx.Text)
			continue
		}
		fmt.Fprintf(j.opts.Stdout, "%d:%d\t%q\n", lx.Line, lx.Col, lx.Text)
	}
	return nil
}

// watch runs the job, then runs it again each time the file is written.
// Errors from individual runs go to report; watch itself returns only when
// the watcher fails.
func (j *job) watch(report func(error)) error {
	abs, err := filepath.Abs(j.path)
	if err != nil {
		return tracerr.Wrap(err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return tracerr.Wrap(err)
	}
	defer w.Close()
	// Editors often replace the file, so watch the directory.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return tracerr.Wrap(err)
	}

	report(j.run())
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			plog.Infof("%s changed, running again", j.path)
			if err := j.reload(); err != nil {
				report(err)
				continue
			}
			report(j.run())
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return tracerr.Wrap(err)
		}
	}
}
