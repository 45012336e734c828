package lumen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ivanshim/lumen-lang/errors"
	"github.com/ivanshim/lumen-lang/value"
)

type Number float64

func (n Number) Clone() value.Value { return n }
func (n Number) TypeName() string   { return "number" }
func (n Number) GoString() string   { return "Number(" + n.String() + ")" }

func (n Number) String() string {
	f := float64(n)
	if f == 0 {
		f = 0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (n Number) Equal(other value.Value) (bool, error) {
	o, ok := other.(Number)
	if !ok {
		return false, value.Mismatch(n, other)
	}
	return n == o, nil
}

// Int returns n as an int when it is integral. Magnitudes beyond the int32
// range are clamped to it, which is larger than any sequence.
func (n Number) Int() (int, bool) {
	f := float64(n)
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(clamp(f)), true
}

func clamp(f float64) float64 {
	return math.Max(math.MinInt32, math.Min(f, math.MaxInt32))
}

type Bool bool

func (b Bool) Clone() value.Value { return b }
func (b Bool) TypeName() string   { return "bool" }
func (b Bool) GoString() string   { return "Bool(" + b.String() + ")" }
func (b Bool) String() string     { return strconv.FormatBool(bool(b)) }

func (b Bool) Equal(other value.Value) (bool, error) {
	o, ok := other.(Bool)
	if !ok {
		return false, value.Mismatch(b, other)
	}
	return b == o, nil
}

type String string

func (s String) Clone() value.Value { return s }
func (s String) TypeName() string   { return "string" }
func (s String) GoString() string   { return "String(" + strconv.Quote(string(s)) + ")" }
func (s String) String() string     { return string(s) }

func (s String) Equal(other value.Value) (bool, error) {
	o, ok := other.(String)
	if !ok {
		return false, value.Mismatch(s, other)
	}
	return s == o, nil
}

// Array is a reference value: names bound to it share the same elements, so
// push and element assignment are visible through every one of them. A value
// stored as an element is a clone, so an array never contains itself.
type Array struct {
	Items []value.Value
}

// Clone copies the array and, recursively, its nested arrays.
func (a *Array) Clone() value.Value { return &Array{Items: value.Clone(a.Items)} }
func (a *Array) TypeName() string   { return "array" }

func (a *Array) String() string {
	parts := make([]string, len(a.Items))
	for i, v := range a.Items {
		if s, ok := v.(String); ok {
			parts[i] = strconv.Quote(string(s))
		} else {
			parts[i] = value.Display(v)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (a *Array) GoString() string {
	parts := make([]string, len(a.Items))
	for i, v := range a.Items {
		parts[i] = value.Debug(v)
	}
	return "Array[" + strings.Join(parts, ", ") + "]"
}

func (a *Array) Equal(other value.Value) (bool, error) {
	o, ok := other.(*Array)
	if !ok {
		return false, value.Mismatch(a, other)
	}
	if len(a.Items) != len(o.Items) {
		return false, nil
	}
	for i := range a.Items {
		if eq, err := equal(a.Items[i], o.Items[i]); err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

// Range is the half-open interval [Start, End) stepping by one.
type Range struct {
	Start, End Number
}

func (r Range) Clone() value.Value { return r }
func (r Range) TypeName() string   { return "range" }
func (r Range) String() string     { return r.Start.String() + ".." + r.End.String() }
func (r Range) GoString() string   { return fmt.Sprintf("Range(%s, %s)", r.Start, r.End) }

func (r Range) Len() int {
	n := math.Ceil(float64(r.End - r.Start))
	if !(n > 0) {
		return 0
	}
	return int(clamp(n))
}

func (r Range) Equal(other value.Value) (bool, error) {
	o, ok := other.(Range)
	if !ok {
		return false, value.Mismatch(r, other)
	}
	return r == o, nil
}

type noneValue struct{}

func (noneValue) Clone() value.Value { return None }
func (noneValue) TypeName() string   { return "none" }
func (noneValue) String() string     { return "none" }
func (noneValue) GoString() string   { return "None" }

func (noneValue) Equal(other value.Value) (bool, error) {
	_, ok := other.(noneValue)
	return ok, nil
}

var None value.Value = noneValue{}

// equal is ==: values of different kinds are never equal.
func equal(a, b value.Value) (bool, error) {
	if value.TypeName(a) != value.TypeName(b) {
		return false, nil
	}
	return value.Equal(a, b)
}

func truth(v value.Value) (bool, error) {
	b, err := value.As[Bool](v, "bool")
	return bool(b), err
}

func number(v value.Value) (Number, error) {
	return value.As[Number](v, "number")
}

// index turns v into a position in a sequence of length n.
func index(v value.Value, n int) (int, error) {
	num, err := number(v)
	if err != nil {
		return 0, err
	}
	i, ok := num.Int()
	if !ok {
		return 0, errors.Runtimef("Index must be an integer, got %s", num)
	}
	if i < 0 || i >= n {
		return 0, errors.Runtimef("Index out of range: %s (length %d)", num, n)
	}
	return i, nil
}

func length(v value.Value) (int, error) {
	switch x := v.(type) {
	case String:
		return utf8.RuneCountInString(string(x)), nil
	case *Array:
		return len(x.Items), nil
	case Range:
		return x.Len(), nil
	}
	return 0, errors.Runtimef("len() expects a string, array or range, got %s", value.TypeName(v))
}
