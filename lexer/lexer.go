package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/coreos/pkg/capnslog"
	"github.com/ivanshim/lumen-lang/errors"
	"github.com/ivanshim/lumen-lang/types"
)

var plog = capnslog.NewPackageLogger("github.com/ivanshim/lumen-lang", "lexer")

// Lex segments src into lexemes by maximal munch against reg. At every
// position the longest registered entry that prefixes the remaining input
// is emitted; otherwise a single character is. Nothing is classified: digits,
// letters, whitespace and punctuation all come out as plain lexemes.
//
// Every byte of src ends up in exactly one lexeme, so concatenating the
// texts reproduces src. The only failure is input that is not valid UTF-8.
func Lex(src string, reg *Registry) ([]types.Lexeme, error) {
	if err := validate(src); err != nil {
		return nil, err
	}

	out := make([]types.Lexeme, 0, len(src))
	line, col := 1, 1
	for pos := 0; pos < len(src); {
		n := reg.longest(src[pos:])
		if n == 0 {
			_, n = utf8.DecodeRuneInString(src[pos:])
		}
		text := src[pos : pos+n]
		out = append(out, types.Lexeme{
			Text: text,
			Span: types.Span{Start: pos, End: pos + n},
			Line: line,
			Col:  col,
		})
		for _, r := range text {
			if r == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		pos += n
	}

	plog.Tracef("lexed %d bytes into %d lexemes", len(src), len(out))
	return out, nil
}

func validate(src string) error {
	if utf8.ValidString(src) {
		return nil
	}
	line, col := 1, 1
	for pos := 0; pos < len(src); {
		r, n := utf8.DecodeRuneInString(src[pos:])
		if r == utf8.RuneError && n <= 1 {
			return errors.Lexf(types.Position{Line: line, Column: col}, pos, "invalid UTF-8 byte 0x%02x", src[pos])
		}
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		pos += n
	}
	return nil
}

// Concat joins lexeme texts in order. Synthetic markers contribute nothing.
func Concat(lexemes []types.Lexeme) string {
	var b strings.Builder
	for _, l := range lexemes {
		if l.Synthetic {
			continue
		}
		b.WriteString(l.Text)
	}
	return b.String()
}
