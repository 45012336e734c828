package interp

import (
	"sort"
	"strings"

	"github.com/ztrue/tracerr"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var encodings = map[string]encoding.Encoding{
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"utf-16le":     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf-16be":     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
}

// Decode converts source bytes in the named encoding to UTF-8. An empty name
// or "utf-8" passes the bytes through untouched, so malformed input still
// reaches the lexer and is reported there.
func Decode(src []byte, name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "utf-8" || name == "utf8" {
		return string(src), nil
	}
	enc, ok := encodings[name]
	if !ok {
		return "", tracerr.Errorf("unknown source encoding %q", name)
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), src)
	if err != nil {
		return "", tracerr.Wrap(err)
	}
	return string(out), nil
}

func Encodings() []string {
	names := make([]string, 0, len(encodings))
	for name := range encodings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
