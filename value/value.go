// Package value defines the opaque value model shared by the kernel and
// language modules. The kernel only stores, passes, displays and compares
// values; concrete variants live in the language packages.
package value

import (
	"reflect"

	"github.com/ivanshim/lumen-lang/errors"
)

// Value is the capability set every runtime value provides. String is the
// display form and GoString the debug form.
type Value interface {
	Clone() Value
	String() string
	GoString() string
	// Equal reports whether the receiver equals other. Values of kinds that
	// cannot be compared return an error.
	Equal(other Value) (bool, error)
}

// TypeNamer is implemented by values that know their language-level type
// name. It backs the value_type capability.
type TypeNamer interface {
	TypeName() string
}

// As downcasts v to T. A mismatch is a runtime error naming want; there is
// no implicit coercion.
func As[T Value](v Value, want string) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, errors.Runtimef("Expected %s, got %s", want, TypeName(v))
	}
	return t, nil
}

// TypeName returns the language-level name of v, falling back to the Go type
// name for values that do not implement TypeNamer.
func TypeName(v Value) string {
	if v == nil {
		return "nil"
	}
	if n, ok := v.(TypeNamer); ok {
		return n.TypeName()
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Equal compares a and b, treating two nils as equal.
func Equal(a, b Value) (bool, error) {
	if a == nil || b == nil {
		return a == nil && b == nil, nil
	}
	return a.Equal(b)
}

// Display is the display form of v, or "<nil>".
func Display(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.String()
}

// Debug is the debug form of v, or "<nil>".
func Debug(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.GoString()
}

// Clone copies every element of vs.
func Clone(vs []Value) []Value {
	r := make([]Value, len(vs))
	for i, v := range vs {
		if v != nil {
			r[i] = v.Clone()
		}
	}
	return r
}

// Mismatch is the error returned by Equal implementations for values of
// incomparable kinds.
func Mismatch(a, b Value) error {
	return errors.Runtimef("Cannot compare %s with %s", TypeName(a), TypeName(b))
}
