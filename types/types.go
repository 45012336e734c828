package types

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int
	End   int
}

// Lexeme is a contiguous run of source text emitted by the lexer. Text is
// exactly the matched substring. Line and Col are diagnostic only.
//
// Synthetic lexemes are markers inserted by a structure preprocessor
// (INDENT, DEDENT, NEWLINE, EOF). They cover no source bytes, so their Span
// is empty and located at the point of insertion.
type Lexeme struct {
	Text      string
	Span      Span
	Line      int
	Col       int
	Synthetic bool
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (l Lexeme) Position() Position {
	return Position{Line: l.Line, Column: l.Col}
}

func (l Lexeme) String() string {
	if l.Synthetic {
		return fmt.Sprintf("<%s> %d:%d", l.Text, l.Line, l.Col)
	}
	return fmt.Sprintf("%q %d:%d [%s]", l.Text, l.Line, l.Col, l.Span)
}

// Marker builds a synthetic lexeme positioned at at.
func Marker(text string, at Lexeme) Lexeme {
	return Lexeme{
		Text:      text,
		Span:      Span{Start: at.Span.Start, End: at.Span.Start},
		Line:      at.Line,
		Col:       at.Col,
		Synthetic: true,
	}
}
