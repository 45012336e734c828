// Package capability is the boundary through which programs reach host
// operations. Capabilities are the only place an interpreter performs I/O.
package capability

import (
	"sort"

	"github.com/coreos/pkg/capnslog"
	"github.com/ivanshim/lumen-lang/value"
)

var plog = capnslog.NewPackageLogger("github.com/ivanshim/lumen-lang", "capability")

// Capability is a named host operation. Implementations validate their own
// arguments.
type Capability interface {
	Name() string
	Call(args []value.Value) (value.Value, error)
}

// Func adapts a function to Capability.
type Func struct {
	N string
	F func(args []value.Value) (value.Value, error)
}

func (f Func) Name() string { return f.N }

func (f Func) Call(args []value.Value) (value.Value, error) { return f.F(args) }

// Key identifies a capability. An empty Backend is the default
// implementation.
type Key struct {
	Backend string
	Name    string
}

func (k Key) String() string {
	if k.Backend == "" {
		return k.Name
	}
	return k.Backend + ":" + k.Name
}

// Registry maps keys to capabilities. Hosts fill it before evaluation and
// leave it alone afterwards.
type Registry struct {
	caps map[Key]Capability
}

func NewRegistry() *Registry {
	return &Registry{caps: map[Key]Capability{}}
}

// Register installs c under backend, replacing any previous entry.
func (r *Registry) Register(backend string, c Capability) {
	k := Key{Backend: backend, Name: c.Name()}
	if _, ok := r.caps[k]; ok {
		plog.Debugf("replacing capability %s", k)
	}
	r.caps[k] = c
}

func (r *Registry) Resolve(k Key) (Capability, bool) {
	c, ok := r.caps[k]
	return c, ok
}

func (r *Registry) Has(k Key) bool {
	_, ok := r.caps[k]
	return ok
}

// First returns the first registered clause in order.
func (r *Registry) First(clauses []Key) (Capability, Key, bool) {
	for _, k := range clauses {
		if c, ok := r.caps[k]; ok {
			return c, k, true
		}
	}
	return nil, Key{}, false
}

// Deny removes capabilities by selector text ("name" or "backend:name").
// Unknown selectors are ignored.
func (r *Registry) Deny(selectors ...string) {
	for _, s := range selectors {
		clauses, err := ParseSelector(s)
		if err != nil {
			plog.Warningf("ignoring deny entry %q: %v", s, err)
			continue
		}
		for _, k := range clauses {
			if _, ok := r.caps[k]; ok {
				plog.Infof("capability %s denied by configuration", k)
				delete(r.caps, k)
			}
		}
	}
}

// Keys lists the registered keys sorted by backend, then name.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.caps))
	for k := range r.caps {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Backend != keys[j].Backend {
			return keys[i].Backend < keys[j].Backend
		}
		return keys[i].Name < keys[j].Name
	})
	return keys
}
