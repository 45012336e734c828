package interp_test

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ivanshim/lumen-lang/interp"
	"github.com/ivanshim/lumen-lang/languages/lumen"
	"github.com/ivanshim/lumen-lang/languages/minirust"
	"github.com/ivanshim/lumen-lang/lexer"
)

type seed struct {
	name string
	src  string
	want string
}

// The same six programs in both languages. The scope scenario pins each
// language's policy: Lumen assigns outward, MiniRust's let defines.
var seeds = map[string][]seed{
	"lumen": {
		{"arithmetic", "print(1 + 2 * 3)\n", "7\n"},
		{"assignment", "x = 10; y = x + 5; print(y)\n", "15\n"},
		{"control flow", "x = 0\nwhile x < 3\n    print(x)\n    x = x + 1\n", "0\n1\n2\n"},
		{"break", "x = 0\nwhile x < 3\n    if x == 2: break; print(x)\n    x = x + 1\n", "0\n1\n"},
		{"short circuit", "print(false and undefined_var)\n", "false\n"},
		{"scope", "x = 1\nif true\n    x = 2\n    y = 3\nprint(x)\n", "2\n"},
	},
	"minirust": {
		{"arithmetic", "println!(1 + 2 * 3);", "7\n"},
		{"assignment", "let x = 10; let y = x + 5; println!(y);", "15\n"},
		{"control flow", "let x = 0;\nwhile x < 3 {\n    println!(x);\n    x = x + 1;\n}\n", "0\n1\n2\n"},
		{"break", "let x = 0;\nwhile x < 3 {\n    if x == 2 { break; }\n    println!(x);\n    x = x + 1;\n}\n", "0\n1\n"},
		{"short circuit", "println!(false && undefined_var);", "false\n"},
		{"scope", "let x = 1;\nif true {\n    let x = 2;\n    let y = 3;\n}\nprintln!(x);\n", "1\n"},
	},
}

func TestSeeds(t *testing.T) {
	for lang, cases := range seeds {
		def, ok := interp.Lookup(lang)
		if !ok {
			t.Fatalf("language %s is not registered", lang)
		}
		for _, tt := range cases {
			t.Run(lang+"/"+tt.name, func(t *testing.T) {
				var stdout, stderr bytes.Buffer
				s, err := interp.New(def, interp.Options{Stdout: &stdout, Stderr: &stderr})
				if err != nil {
					t.Fatal(err)
				}
				if _, err := s.Run(tt.src); err != nil {
					t.Fatalf("Run: %v", err)
				}
				if got := stdout.String(); got != tt.want {
					t.Errorf("stdout = %q, want %q", got, tt.want)
				}
			})
		}
	}
}

func TestScopeBalance(t *testing.T) {
	programs := map[string]string{
		"lumen":    "fn f(n):\n    if n == 0: return 0\n    return f(n - 1)\nfor i in 0..3:\n    f(i)\nprint(undefined_at_end)\n",
		"minirust": "fn f(n) { if n == 0 { return 0; } return f(n - 1); }\nlet i = 0;\nwhile i < 3 { f(i); i = i + 1; }\nprintln!(undefined_at_end);",
	}
	for lang, src := range programs {
		t.Run(lang, func(t *testing.T) {
			def, _ := interp.Lookup(lang)
			s, err := interp.New(def, interp.Options{Stdout: &bytes.Buffer{}})
			if err != nil {
				t.Fatal(err)
			}
			prog, err := s.Parse(src)
			if err != nil {
				t.Fatal(err)
			}
			env, err := s.NewEnv()
			if err != nil {
				t.Fatal(err)
			}
			if _, err := s.Exec(prog, env); err == nil {
				t.Fatal("expected an undefined variable error")
			}
			if env.Depth() != 1 {
				t.Errorf("depth after failed run = %d, want 1", env.Depth())
			}
		})
	}
}

func TestRelexIdempotent(t *testing.T) {
	src := "fn f(a, b):\n    return a ** b // 2 # note\nprint(f(2, 10) |> str)\n"
	s, err := interp.New(lumen.Language{}, interp.Options{})
	if err != nil {
		t.Fatal(err)
	}
	first, err := s.Lex(src)
	if err != nil {
		t.Fatal(err)
	}
	joined := lexer.Concat(first)
	if joined != src {
		t.Fatalf("Concat(Lex(src)) = %q, want %q", joined, src)
	}
	second, err := s.Lex(joined)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("relex produced %d lexemes, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i].Text != second[i].Text {
			t.Errorf("lexeme %d = %q, want %q", i, second[i].Text, first[i].Text)
		}
	}
}

func TestDeepNesting(t *testing.T) {
	s, err := interp.New(minirust.Language{}, interp.Options{Stdout: &bytes.Buffer{}, MaxDepth: 100})
	if err != nil {
		t.Fatal(err)
	}
	ok := "println!(" + strings.Repeat("(", 40) + "1" + strings.Repeat(")", 40) + ");"
	if _, err := s.Run(ok); err != nil {
		t.Errorf("40 levels: %v", err)
	}
	deep := "println!(" + strings.Repeat("(", 200) + "1" + strings.Repeat(")", 200) + ");"
	_, err = s.Run(deep)
	if err == nil || !strings.Contains(err.Error(), "Expression nested too deeply") {
		t.Errorf("200 levels: err = %v", err)
	}
}

func TestLexErrorFilename(t *testing.T) {
	s, err := interp.New(lumen.Language{}, interp.Options{Filename: "bad.lm"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Run("x = 1\nprint(\xff)\n")
	if err == nil {
		t.Fatal("expected a lex error")
	}
	if !strings.Contains(err.Error(), "bad.lm") || !strings.Contains(err.Error(), "invalid UTF-8") {
		t.Errorf("err = %v", err)
	}
}

func TestTimeCapability(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	var stdout bytes.Buffer
	s, err := interp.New(lumen.Language{}, interp.Options{Stdout: &stdout, Now: func() time.Time { return now }})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Run("print(extern(\"time:unix\"))\n"); err != nil {
		t.Fatal(err)
	}
	if got, want := stdout.String(), "1709296200\n"; got != want {
		t.Errorf("time:unix printed %q, want %q", got, want)
	}
}

func TestCatalogue(t *testing.T) {
	names := interp.Names()
	if strings.Join(names, ",") != "lumen,minirust" {
		t.Errorf("Names() = %v", names)
	}
	tests := map[string]string{
		"a.lm":        "lumen",
		"b.LUMEN":     "lumen",
		"dir/main.rs": "minirust",
	}
	for path, want := range tests {
		def, ok := interp.ForFile(path)
		if !ok || def.Name() != want {
			t.Errorf("ForFile(%q) = %v, %v; want %s", path, def, ok, want)
		}
	}
	if _, ok := interp.ForFile("notes.txt"); ok {
		t.Error("ForFile(notes.txt) found a language")
	}
	if _, ok := interp.Lookup("LUMEN"); !ok {
		t.Error("Lookup is case sensitive")
	}
}

func TestConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "lumen-config")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	cfg := &interp.Config{Package: "demo", Language: "lumen", Requires: ">= 0.3, < 1.0", Deny: []string{"time:now"}}
	path, err := interp.WriteConfig(dir, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := interp.WriteConfig(dir, cfg); err == nil {
		t.Error("WriteConfig overwrote an existing file")
	}

	sub := filepath.Join(dir, "src", "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	found, err := interp.FindConfig(sub)
	if err != nil {
		t.Fatal(err)
	}
	if found != path {
		t.Errorf("FindConfig = %q, want %q", found, path)
	}

	loaded, err := interp.LoadConfig(found)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Package != "demo" || loaded.Language != "lumen" || len(loaded.Deny) != 1 {
		t.Errorf("LoadConfig = %+v", loaded)
	}
}

func TestConfigCheck(t *testing.T) {
	tests := []struct {
		name string
		cfg  interp.Config
		want string
	}{
		{"ok", interp.Config{Package: "p", Requires: "^0.4"}, ""},
		{"too new", interp.Config{Package: "p", Requires: ">= 2.0"}, "requires lumen"},
		{"bad constraint", interp.Config{Package: "p", Requires: "nope"}, "invalid Requires"},
		{"unknown language", interp.Config{Package: "p", Language: "cobol"}, "unknown language"},
		{"negative depth", interp.Config{Package: "p", MaxDepth: -1}, "MaxDepth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Check()
			if tt.want == "" {
				if err != nil {
					t.Errorf("Check() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Check() = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfigStrict(t *testing.T) {
	dir, err := ioutil.TempDir("", "lumen-config")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, interp.ConfigFile)
	if err := ioutil.WriteFile(path, []byte("Package: x\nColour: blue\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := interp.LoadConfig(path); err == nil {
		t.Error("LoadConfig accepted an unknown field")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		enc  string
		want string
	}{
		{"utf-8 passthrough", []byte("caf\xc3\xa9"), "", "café"},
		{"latin1", []byte("caf\xe9"), "latin1", "café"},
		{"windows-1252", []byte("\x93q\x94"), "Windows-1252", "“q”"},
		{"utf-16le", []byte{'h', 0, 'i', 0}, "utf-16le", "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := interp.Decode(tt.src, tt.enc)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Decode = %q, want %q", got, tt.want)
			}
		})
	}
	if _, err := interp.Decode([]byte("x"), "ebcdic"); err == nil {
		t.Error("Decode accepted an unknown encoding")
	}
}

func TestDecodedSourceRuns(t *testing.T) {
	src, err := interp.Decode([]byte("print(\"caf\xe9\")\n"), "latin1")
	if err != nil {
		t.Fatal(err)
	}
	var stdout bytes.Buffer
	s, err := interp.New(lumen.Language{}, interp.Options{Stdout: &stdout})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Run(src); err != nil {
		t.Fatal(err)
	}
	if stdout.String() != "café\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
}
