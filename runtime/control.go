package runtime

import (
	"github.com/ivanshim/lumen-lang/value"
)

// Flow is the kind of a control signal.
type Flow int

const (
	None Flow = iota
	Break
	Continue
	Return
)

func (f Flow) String() string {
	switch f {
	case None:
		return "None"
	case Break:
		return "Break"
	case Continue:
		return "Continue"
	case Return:
		return "Return"
	}
	panic("invalid Flow")
}

// Control is what executing a statement produces. Value is set only for
// Return. Signals travel on the success path; errors are a separate channel.
type Control struct {
	Kind  Flow
	Value value.Value
}

var Normal = Control{}

func Returning(v value.Value) Control {
	return Control{Kind: Return, Value: v}
}
