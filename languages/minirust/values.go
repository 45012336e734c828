package minirust

import (
	"strconv"

	"github.com/ivanshim/lumen-lang/value"
)

type Int int64

func (i Int) Clone() value.Value { return i }
func (i Int) TypeName() string   { return "i64" }
func (i Int) String() string     { return strconv.FormatInt(int64(i), 10) }
func (i Int) GoString() string   { return "Int(" + i.String() + ")" }

func (i Int) Equal(other value.Value) (bool, error) {
	o, ok := other.(Int)
	if !ok {
		return false, value.Mismatch(i, other)
	}
	return i == o, nil
}

type Bool bool

func (b Bool) Clone() value.Value { return b }
func (b Bool) TypeName() string   { return "bool" }
func (b Bool) String() string     { return strconv.FormatBool(bool(b)) }
func (b Bool) GoString() string   { return "Bool(" + b.String() + ")" }

func (b Bool) Equal(other value.Value) (bool, error) {
	o, ok := other.(Bool)
	if !ok {
		return false, value.Mismatch(b, other)
	}
	return b == o, nil
}

type Str string

func (s Str) Clone() value.Value { return s }
func (s Str) TypeName() string   { return "&str" }
func (s Str) String() string     { return string(s) }
func (s Str) GoString() string   { return "Str(" + strconv.Quote(string(s)) + ")" }

func (s Str) Equal(other value.Value) (bool, error) {
	o, ok := other.(Str)
	if !ok {
		return false, value.Mismatch(s, other)
	}
	return s == o, nil
}

type unitValue struct{}

func (unitValue) Clone() value.Value { return Unit }
func (unitValue) TypeName() string   { return "()" }
func (unitValue) String() string     { return "()" }
func (unitValue) GoString() string   { return "Unit" }

func (unitValue) Equal(other value.Value) (bool, error) {
	if _, ok := other.(unitValue); !ok {
		return false, value.Mismatch(Unit, other)
	}
	return true, nil
}

var Unit value.Value = unitValue{}

func truth(v value.Value) (bool, error) {
	b, err := value.As[Bool](v, "bool")
	return bool(b), err
}

func integer(v value.Value) (Int, error) {
	return value.As[Int](v, "i64")
}
