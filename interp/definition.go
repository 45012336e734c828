// Package interp composes the kernel stages into a working interpreter for a
// language module: lex, restructure, parse and evaluate.
package interp

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/coreos/pkg/capnslog"
	"github.com/ivanshim/lumen-lang/lexer"
	"github.com/ivanshim/lumen-lang/parser"
	"github.com/ivanshim/lumen-lang/runtime"
	"github.com/ivanshim/lumen-lang/structure"
	"github.com/ivanshim/lumen-lang/value"
)

var plog = capnslog.NewPackageLogger("github.com/ivanshim/lumen-lang", "interp")

const Version = "0.4.0"

// Definition is a language module. Register installs everything the
// language needs into a fresh Setup.
type Definition interface {
	Name() string
	Extensions() []string
	Register(s *Setup) error
}

// Setup is what a language fills in during registration. The registries are
// read-only once Register returns.
type Setup struct {
	Tokens    *lexer.Registry
	Handlers  *parser.Registry
	Structure structure.Preprocessor
	Hooks     parser.Hooks
	Policy    runtime.TopLevelPolicy

	// Text and Int build language values for the built-in capabilities.
	Text func(string) value.Value
	Int  func(int64) value.Value
	// None is the language's unit value.
	None value.Value
	// Globals seeds the global scope, e.g. with native functions.
	Globals func(env *runtime.Env) error
}

func NewSetup() *Setup {
	return &Setup{
		Tokens:   lexer.NewRegistry(),
		Handlers: parser.NewRegistry(),
	}
}

var catalogue = struct {
	sync.RWMutex
	defs map[string]Definition
}{defs: map[string]Definition{}}

// Register adds def to the catalogue, replacing any language of the same
// name. Language packages call it from init.
func Register(def Definition) {
	catalogue.Lock()
	defer catalogue.Unlock()
	catalogue.defs[strings.ToLower(def.Name())] = def
}

func Lookup(name string) (Definition, bool) {
	catalogue.RLock()
	defer catalogue.RUnlock()
	def, ok := catalogue.defs[strings.ToLower(name)]
	return def, ok
}

// ForFile picks a language by the extension of path.
func ForFile(path string) (Definition, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil, false
	}
	catalogue.RLock()
	defer catalogue.RUnlock()
	for _, name := range sortedNames() {
		def := catalogue.defs[name]
		for _, e := range def.Extensions() {
			if strings.ToLower(e) == ext {
				return def, true
			}
		}
	}
	return nil, false
}

func Names() []string {
	catalogue.RLock()
	defer catalogue.RUnlock()
	return sortedNames()
}

func sortedNames() []string {
	names := make([]string, 0, len(catalogue.defs))
	for name := range catalogue.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
