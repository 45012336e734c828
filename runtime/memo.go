package runtime

import (
	"strings"

	"github.com/ivanshim/lumen-lang/value"
)

// Memo caches user function results per function value, keyed by the debug
// form of the arguments. It is off until enabled.
type Memo struct {
	enabled bool
	entries map[*Function]map[string]value.Value

	Hits int
}

func NewMemo() *Memo {
	return &Memo{entries: map[*Function]map[string]value.Value{}}
}

// Enable switches caching on or off. Turning it off drops cached entries.
func (m *Memo) Enable(on bool) {
	m.enabled = on
	if !on {
		m.entries = map[*Function]map[string]value.Value{}
	}
}

func (m *Memo) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Memo) Len() int {
	n := 0
	for _, results := range m.entries {
		n += len(results)
	}
	return n
}

func (m *Memo) get(fn *Function, key string) (value.Value, bool) {
	v, ok := m.entries[fn][key]
	if ok {
		m.Hits++
	}
	return v, ok
}

func (m *Memo) put(fn *Function, key string, v value.Value) {
	results := m.entries[fn]
	if results == nil {
		results = map[string]value.Value{}
		m.entries[fn] = results
	}
	results[key] = v
}

func memoKey(args []value.Value) string {
	var sb strings.Builder
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(value.Debug(a))
	}
	return sb.String()
}
