package errors

import (
	"fmt"
	"strings"

	"github.com/ivanshim/lumen-lang/types"
)

// LexError reports malformed input bytes.
type LexError struct {
	Message  string
	Offset   int
	Location types.Position
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: lex error: %s (byte %d)", e.Location, e.Message, e.Offset)
}

// ParseError is the single error type of the parse phase. The first one
// aborts parsing.
type ParseError struct {
	Message  string
	Location types.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse error: %s", e.Location, e.Message)
}

// RuntimeError is the single error type of the evaluation phase.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string {
	return "runtime error: " + e.Message
}

func Lexf(at types.Position, offset int, format string, args ...interface{}) *LexError {
	return &LexError{
		Message:  fmt.Sprintf(format, args...),
		Offset:   offset,
		Location: at,
	}
}

func Parsef(at types.Position, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Message:  fmt.Sprintf(format, args...),
		Location: at,
	}
}

func Runtimef(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}

type ExpectedOneOfGot struct {
	Expected []string
	Got      string
	Location types.Position
}

func (e ExpectedOneOfGot) Error() string {
	return e.ParseError().Error()
}

// ParseError converts e into the phase error type.
func (e ExpectedOneOfGot) ParseError() *ParseError {
	quoted := make([]string, len(e.Expected))
	for i, want := range e.Expected {
		quoted[i] = fmt.Sprintf("'%s'", want)
	}
	got := fmt.Sprintf("'%s'", e.Got)
	if e.Got == "" {
		got = "end of input"
	}
	return Parsef(e.Location, "Expected %s, got %s", strings.Join(quoted, " or "), got)
}

type DuplicateName struct {
	Name     string
	Location types.Position
}

func (e DuplicateName) Error() string {
	return e.ParseError().Error()
}

func (e DuplicateName) ParseError() *ParseError {
	return Parsef(e.Location, "name '%s' specified more than once", e.Name)
}

func Undefined(name string) *RuntimeError {
	return Runtimef("Undefined variable '%s'", name)
}

func Arity(name string, want, got int) *RuntimeError {
	return Runtimef("%s expects %d argument%s, got %d", name, want, plural(want), got)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
