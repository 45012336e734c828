package structure

import (
	"github.com/ivanshim/lumen-lang/errors"
	"github.com/ivanshim/lumen-lang/types"
)

// IndentConfig describes an indentation-sensitive layout.
type IndentConfig struct {
	Markers

	// Width is the number of spaces per level. Zero disables INDENT and
	// DEDENT; lines still end in NEWLINE.
	Width int
	// Comment starts a comment that runs to the end of the line.
	Comment string
	// Quotes open and close string literals. Whitespace inside a string is
	// kept, and Escape protects the next lexeme.
	Quotes []string
	Escape string
	// Open and Close are bracket lexemes. Line structure is suppressed while
	// any bracket is open.
	Open  []string
	Close []string
}

type indenter struct {
	cfg   IndentConfig
	out   []types.Lexeme
	stack []int
}

// Indentation returns a preprocessor that turns leading whitespace into
// INDENT and DEDENT markers and ends every logical line with NEWLINE.
// Markers only appear at logical-line boundaries. Blank and comment-only
// lines produce nothing. Leading whitespace, carriage returns and comments
// are dropped; whitespace inside a line is kept for the parser to skip.
func Indentation(cfg IndentConfig) Preprocessor {
	return func(in []types.Lexeme) ([]types.Lexeme, error) {
		ind := &indenter{cfg: cfg, stack: []int{0}}
		if err := ind.run(in); err != nil {
			return nil, err
		}
		plog.Tracef("indentation: %d lexemes in, %d out", len(in), len(ind.out))
		return ind.out, nil
	}
}

func (ind *indenter) run(in []types.Lexeme) error {
	var (
		line      []types.Lexeme
		width     int
		measuring = true
		depth     int
		quote     string
		escaped   bool
		comment   bool
		tab       types.Lexeme
		tabbed    bool
	)
	for _, lx := range in {
		if quote != "" {
			line = append(line, lx)
			switch {
			case escaped:
				escaped = false
			case lx.Text == ind.cfg.Escape:
				escaped = true
			case lx.Text == quote:
				quote = ""
			}
			continue
		}
		if comment && lx.Text != "\n" {
			continue
		}
		comment = false

		switch {
		case lx.Text == "\n":
			if depth > 0 {
				continue
			}
			if err := ind.flush(line, width); err != nil {
				return err
			}
			line = line[:0]
			width = 0
			measuring = true
			tabbed = false
		case lx.Text == "\r":
		case lx.Text == " " || lx.Text == "\t" || lx.Text == "\f":
			if !measuring {
				line = append(line, lx)
				continue
			}
			if lx.Text == "\t" && !tabbed {
				tab, tabbed = lx, true
			}
			if lx.Text == " " {
				width++
			}
		case ind.cfg.Comment != "" && lx.Text == ind.cfg.Comment:
			comment = true
		default:
			if measuring && tabbed && ind.cfg.Width > 0 {
				return errors.Lexf(tab.Position(), tab.Span.Start, "tabs are not allowed in indentation")
			}
			measuring = false
			switch {
			case contains(ind.cfg.Quotes, lx.Text):
				quote = lx.Text
			case contains(ind.cfg.Open, lx.Text):
				depth++
			case contains(ind.cfg.Close, lx.Text) && depth > 0:
				depth--
			}
			line = append(line, lx)
		}
	}
	if err := ind.flush(line, width); err != nil {
		return err
	}

	at := end(in)
	for len(ind.stack) > 1 {
		ind.stack = ind.stack[:len(ind.stack)-1]
		ind.out = append(ind.out, types.Marker(ind.cfg.Dedent, at))
	}
	ind.out = append(ind.out, types.Marker(ind.cfg.EOF, at))
	return nil
}

// flush emits one logical line preceded by its indentation markers and
// followed by NEWLINE.
func (ind *indenter) flush(line []types.Lexeme, width int) error {
	if len(line) == 0 {
		return nil
	}
	first := line[0]
	if ind.cfg.Width > 0 {
		top := ind.stack[len(ind.stack)-1]
		switch {
		case width > top:
			if (width-top)%ind.cfg.Width != 0 {
				return errors.Lexf(first.Position(), first.Span.Start,
					"Indentation mismatch: %d spaces is not a multiple of %d", width-top, ind.cfg.Width)
			}
			for lvl := top + ind.cfg.Width; lvl <= width; lvl += ind.cfg.Width {
				ind.stack = append(ind.stack, lvl)
				ind.out = append(ind.out, types.Marker(ind.cfg.Indent, first))
			}
		case width < top:
			for len(ind.stack) > 1 && ind.stack[len(ind.stack)-1] > width {
				ind.stack = ind.stack[:len(ind.stack)-1]
				ind.out = append(ind.out, types.Marker(ind.cfg.Dedent, first))
			}
			if ind.stack[len(ind.stack)-1] != width {
				return errors.Lexf(first.Position(), first.Span.Start,
					"Indentation mismatch: dedent to %d spaces matches no enclosing block", width)
			}
		}
	}
	ind.out = append(ind.out, line...)
	ind.out = append(ind.out, types.Marker(ind.cfg.Newline, after(line[len(line)-1])))
	return nil
}

func contains(set []string, s string) bool {
	for _, x := range set {
		if x == s {
			return true
		}
	}
	return false
}
