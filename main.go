package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/coreos/pkg/capnslog"
	"github.com/ivanshim/lumen-lang/interp"
	_ "github.com/ivanshim/lumen-lang/languages/lumen"
	_ "github.com/ivanshim/lumen-lang/languages/minirust"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

var plog = capnslog.NewPackageLogger("github.com/ivanshim/lumen-lang", "main")

func setupLogging(level string) error {
	lvl, err := capnslog.ParseLevel(strings.ToUpper(level))
	if err != nil {
		return tracerr.Errorf("unknown log level %q", level)
	}
	capnslog.SetFormatter(capnslog.NewPrettyFormatter(os.Stderr, lvl >= capnslog.DEBUG))
	capnslog.SetGlobalLogLevel(lvl)
	return nil
}

func reportError(c *cli.Context, err error) {
	if err == nil {
		return
	}
	if c.Bool("trace") {
		tracerr.PrintSourceColor(err)
		return
	}
	fmt.Fprintln(c.App.ErrWriter, tracerr.Unwrap(err))
}

var runFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "lang",
		Usage: "language to use instead of guessing from the file extension",
	},
	&cli.StringFlag{
		Name:  "encoding",
		Usage: "source encoding (" + strings.Join(interp.Encodings(), ", ") + ")",
	},
	&cli.BoolFlag{
		Name:  "memoize",
		Usage: "start with function memoization on",
	},
	&cli.IntFlag{
		Name:  "max-depth",
		Usage: "maximum expression nesting depth",
	},
	&cli.StringSliceFlag{
		Name:  "deny",
		Usage: "capability selectors to remove",
	},
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "lumen",
		Usage:   "registry-driven interpreter",
		Version: interp.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "WARNING",
				Usage: "CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG or TRACE",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print errors with their Go stack trace",
			},
		},
		Before: func(c *cli.Context) error {
			return setupLogging(c.String("log-level"))
		},
		ExitErrHandler: reportError,
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run a source file",
				ArgsUsage: "FILE",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "run again whenever the file changes",
					},
				}, runFlags...),
				Action: func(c *cli.Context) error {
					job, err := newJob(c)
					if err != nil {
						return err
					}
					if c.Bool("watch") {
						return job.watch(func(err error) { reportError(c, err) })
					}
					return job.run()
				},
			},
			{
				Name:      "lex",
				Usage:     "print the lexemes the parser sees",
				ArgsUsage: "FILE",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "skip the structure pass",
					},
				}, runFlags...),
				Action: func(c *cli.Context) error {
					job, err := newJob(c)
					if err != nil {
						return err
					}
					return job.lex(c.Bool("raw"))
				},
			},
			{
				Name:      "ast",
				Usage:     "dump the parsed program",
				ArgsUsage: "FILE",
				Flags:     runFlags,
				Action: func(c *cli.Context) error {
					job, err := newJob(c)
					if err != nil {
						return err
					}
					s, err := job.session()
					if err != nil {
						return err
					}
					prog, err := s.Parse(job.src)
					if err != nil {
						return err
					}
					repr.New(c.App.Writer, repr.Indent("  ")).Println(prog)
					return nil
				},
			},
			{
				Name:  "repl",
				Usage: "read, evaluate and print interactively",
				Flags: runFlags,
				Action: func(c *cli.Context) error {
					lang := c.String("lang")
					if lang == "" {
						lang = "lumen"
					}
					def, ok := interp.Lookup(lang)
					if !ok {
						return tracerr.Errorf("unknown language %q", lang)
					}
					return repl(c, def)
				},
			},
			{
				Name:      "init",
				Usage:     "create a " + interp.ConfigFile + " in the current directory",
				ArgsUsage: "PACKAGE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "lang",
						Value: "lumen",
					},
				},
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return tracerr.New("no package name provided")
					}
					cfg := &interp.Config{
						Package:  name,
						Language: c.String("lang"),
						Requires: "^" + interp.Version,
					}
					if err := cfg.Check(); err != nil {
						return err
					}
					path, err := interp.WriteConfig(".", cfg)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
					return nil
				},
			},
			{
				Name:  "languages",
				Usage: "list the available languages",
				Action: func(c *cli.Context) error {
					for _, name := range interp.Names() {
						def, _ := interp.Lookup(name)
						fmt.Fprintf(c.App.Writer, "%s\t%s\n", name, strings.Join(def.Extensions(), " "))
					}
					return nil
				},
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		os.Exit(1)
	}
}
