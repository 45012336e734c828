package capability

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/repr"
	"github.com/ivanshim/lumen-lang/errors"
	"github.com/ivanshim/lumen-lang/value"
	"gitlab.com/variadico/lctime"
)

// BuiltinOptions wires the built-in capabilities to a host. Text and Int
// build language values; the kernel has no concrete value types of its own.
type BuiltinOptions struct {
	Stdout io.Writer
	Stderr io.Writer
	Text   func(string) value.Value
	Int    func(int64) value.Value
	Now    func() time.Time
}

func (o *BuiltinOptions) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// RegisterBuiltins installs the default-backend built-ins and the time
// backend.
func RegisterBuiltins(r *Registry, o BuiltinOptions) {
	o.defaults()

	funcs := []func(BuiltinOptions) Capability{
		printNative,
		writeNative,
		debugInfo,
		debugDump,
	}
	if o.Text != nil {
		funcs = append(funcs, valueType)
	}
	for _, fn := range funcs {
		r.Register("", fn(o))
	}

	if o.Text != nil {
		r.Register("time", timeNow(o))
		r.Register("time", timeFormat(o))
	}
	if o.Int != nil {
		r.Register("time", timeUnix(o))
	}
	plog.Debugf("registered %d capabilities", len(r.caps))
}

func arity(name string, args []value.Value, n int) error {
	if len(args) != n {
		return errors.Arity(name, n, len(args))
	}
	return nil
}

func printNative(o BuiltinOptions) Capability {
	return Func{"print_native", func(args []value.Value) (value.Value, error) {
		if err := arity("print_native", args, 1); err != nil {
			return nil, err
		}
		if _, err := fmt.Fprintln(o.Stdout, value.Display(args[0])); err != nil {
			return nil, errors.Runtimef("print_native: %v", err)
		}
		return args[0], nil
	}}
}

func writeNative(o BuiltinOptions) Capability {
	return Func{"write_native", func(args []value.Value) (value.Value, error) {
		if err := arity("write_native", args, 1); err != nil {
			return nil, err
		}
		if _, err := io.WriteString(o.Stdout, value.Display(args[0])); err != nil {
			return nil, errors.Runtimef("write_native: %v", err)
		}
		return args[0], nil
	}}
}

func debugInfo(o BuiltinOptions) Capability {
	return Func{"debug_info", func(args []value.Value) (value.Value, error) {
		if err := arity("debug_info", args, 1); err != nil {
			return nil, err
		}
		fmt.Fprintln(o.Stderr, value.Debug(args[0]))
		return args[0], nil
	}}
}

// debugDump shows the host representation of a value rather than its
// language-level debug form.
func debugDump(o BuiltinOptions) Capability {
	return Func{"debug_dump", func(args []value.Value) (value.Value, error) {
		if err := arity("debug_dump", args, 1); err != nil {
			return nil, err
		}
		fmt.Fprintln(o.Stderr, repr.String(args[0], repr.OmitEmpty(true)))
		return args[0], nil
	}}
}

func valueType(o BuiltinOptions) Capability {
	return Func{"value_type", func(args []value.Value) (value.Value, error) {
		if err := arity("value_type", args, 1); err != nil {
			return nil, err
		}
		return o.Text(value.TypeName(args[0])), nil
	}}
}

func timeNow(o BuiltinOptions) Capability {
	return Func{"now", func(args []value.Value) (value.Value, error) {
		if err := arity("time:now", args, 0); err != nil {
			return nil, err
		}
		return o.Text(o.Now().Format(time.RFC3339)), nil
	}}
}

// timeFormat formats the current time with a strftime layout.
func timeFormat(o BuiltinOptions) Capability {
	return Func{"format", func(args []value.Value) (value.Value, error) {
		if err := arity("time:format", args, 1); err != nil {
			return nil, err
		}
		return o.Text(lctime.Strftime(value.Display(args[0]), o.Now())), nil
	}}
}

func timeUnix(o BuiltinOptions) Capability {
	return Func{"unix", func(args []value.Value) (value.Value, error) {
		if err := arity("time:unix", args, 0); err != nil {
			return nil, err
		}
		return o.Int(o.Now().Unix()), nil
	}}
}
