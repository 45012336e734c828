// Package structure holds the token-stream transforms that run between the
// lexer and the parser. A language picks one, or chains several.
package structure

import (
	"github.com/coreos/pkg/capnslog"
	"github.com/ivanshim/lumen-lang/lexer"
	"github.com/ivanshim/lumen-lang/types"
)

var plog = capnslog.NewPackageLogger("github.com/ivanshim/lumen-lang", "structure")

// Preprocessor rewrites a lexeme stream. It may insert synthetic markers but
// must keep the order of the source lexemes it retains.
type Preprocessor func([]types.Lexeme) ([]types.Lexeme, error)

// Markers are the texts of the synthetic lexemes a preprocessor emits.
type Markers struct {
	Newline string
	Indent  string
	Dedent  string
	EOF     string
}

// MarkersFrom reads the structural aliases of reg.
func MarkersFrom(reg *lexer.Registry) Markers {
	return Markers{
		Newline: reg.Alias(lexer.Newline),
		Indent:  reg.Alias(lexer.Indent),
		Dedent:  reg.Alias(lexer.Dedent),
		EOF:     reg.Alias(lexer.EOF),
	}
}

func Identity(in []types.Lexeme) ([]types.Lexeme, error) {
	return in, nil
}

// AppendEOF returns a preprocessor that adds a single EOF marker after the
// last lexeme.
func AppendEOF(eof string) Preprocessor {
	return func(in []types.Lexeme) ([]types.Lexeme, error) {
		out := make([]types.Lexeme, len(in), len(in)+1)
		copy(out, in)
		return append(out, types.Marker(eof, end(in))), nil
	}
}

// Chain runs ps left to right, stopping at the first error.
func Chain(ps ...Preprocessor) Preprocessor {
	return func(in []types.Lexeme) ([]types.Lexeme, error) {
		var err error
		for _, p := range ps {
			if in, err = p(in); err != nil {
				return nil, err
			}
		}
		return in, nil
	}
}

// end is a zero-width lexeme just past the last lexeme of in.
func end(in []types.Lexeme) types.Lexeme {
	if len(in) == 0 {
		return types.Lexeme{Line: 1, Col: 1}
	}
	return after(in[len(in)-1])
}

func after(lx types.Lexeme) types.Lexeme {
	at := types.Lexeme{
		Span: types.Span{Start: lx.Span.End, End: lx.Span.End},
		Line: lx.Line,
		Col:  lx.Col,
	}
	if lx.Synthetic {
		return at
	}
	for _, r := range lx.Text {
		if r == '\n' {
			at.Line++
			at.Col = 1
		} else {
			at.Col++
		}
	}
	return at
}
