package lumen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ivanshim/lumen-lang/capability"
	"github.com/ivanshim/lumen-lang/interp"
	"github.com/ivanshim/lumen-lang/value"
)

func run(t *testing.T, src string, opts interp.Options) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	opts.Stdout = &stdout
	opts.Stderr = &bytes.Buffer{}
	s, err := interp.New(Language{}, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = s.Run(src)
	return stdout.String(), err
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"arithmetic", "print(1 + 2 * 3)\n", "7\n"},
		{"separators", "x = 10; y = x + 5; print(y)\n", "15\n"},
		{"while", "x = 0\nwhile x < 3\n    print(x)\n    x = x + 1\n", "0\n1\n2\n"},
		{"break", "x = 0\nwhile x < 3\n    if x == 2: break; print(x)\n    x = x + 1\n", "0\n1\n"},
		{"short circuit", "print(false and undefined_var)\n", "false\n"},
		{"scope assigns outward", "x = 1\nif true\n    x = 2\n    y = 3\nprint(x)\n", "2\n"},
		{"let shadows", "x = 1\nif true:\n    let x = 2\nprint(x)\n", "1\n"},
		{"function", "fn add(a, b):\n    return a + b\nprint(add(2, 3))\n", "5\n"},
		{"trailing expression", "fn sq(n): n * n\nprint(sq(4))\n", "16\n"},
		{"for range", "total = 0\nfor i in 0..5:\n    total = total + i\nprint(total)\n", "10\n"},
		{"continue", "for i in 0..5:\n    if i % 2 == 0: continue\n    print(i)\n", "1\n3\n"},
		{"until", "n = 0\nuntil n == 3:\n    n = n + 1\nprint(n)\n", "3\n"},
		{"elif", "x = 5\nif x < 3:\n    print(\"small\")\nelif x < 10:\n    print(\"medium\")\nelse:\n    print(\"large\")\n", "medium\n"},
		{"else if", "x = 50\nif x < 3: print(1)\nelse if x < 10: print(2)\nelse: print(3)\n", "3\n"},
		{"arrays", "a = [1, 2]\npush(a, 3)\na[0] = 10\nprint(a)\nprint(len(a))\n", "[10, 2, 3]\n3\n"},
		{"arrays share", "a = [1]\nb = a\npush(b, 2)\nprint(a)\n", "[1, 2]\n"},
		{"push array into itself", "a = [1]\npush(a, a)\nprint(a)\nprint(a == a)\nprint(len(a))\n", "[1, [1]]\ntrue\n2\n"},
		{"element assigned its array", "a = [1, 2]\na[0] = a\nprint(a)\n", "[[1, 2], 2]\n"},
		{"nested array is a copy", "a = [1]\nb = [a]\npush(a, 2)\nprint(b)\nprint(a)\n", "[[1]]\n[1, 2]\n"},
		{"memoized self-containing argument", "MEMOIZATION = true\nfn f(x): return len(x)\na = [0]\npush(a, a)\nprint(f(a))\nprint(f(a))\n", "2\n2\n"},
		{"huge range", "r = 0..10 ** 300\nprint(len(r))\nprint(r[5])\n", "2147483647\n5\n"},
		{"strings", "s = \"hi\" + \" there\"\nprint(s)\nprint(len(s))\n", "hi there\n8\n"},
		{"string index", "print(\"abc\"[1])\n", "b\n"},
		{"power", "print(-2 ** 2)\nprint(2 ** 3 ** 2)\n", "-4\n512\n"},
		{"division", "print(7 // 2)\nprint(7 % 3)\nprint(10 / 4)\n", "3\n1\n2.5\n"},
		{"not", "print(not false)\nprint(not 1 == 2)\n", "true\ntrue\n"},
		{"or yields operand", "print(false or true)\n", "true\n"},
		{"mixed equality", "print(1 == \"1\")\nprint([1, 2] == [1, 2])\n", "false\ntrue\n"},
		{"pipe", "fn double(x): return x * 2\nfn add(a, b): return a + b\nprint(3 |> double)\nprint(3 |> add(4))\n", "6\n7\n"},
		{"range value", "print(1..3)\nprint(len(0..10))\n", "1..3\n10\n"},
		{"extern", "extern(\"print_native\", 42)\nprint(extern(\"value_type\", \"a\"))\n", "42\nstring\n"},
		{"write", "write(\"a\")\nwrite(\"b\")\n", "ab"},
		{"comments", "# header\nx = 1 # trailing\n\n    # indented comment\nprint(x)\n", "1\n"},
		{"brackets span lines", "a = [1,\n  2]\nprint(a)\n", "[1, 2]\n"},
		{"top-level return", "print(1)\nreturn\nprint(2)\n", "1\n"},
		{"memoization", "MEMOIZATION = true\nfn fib(n):\n    if n < 2: return n\n    return fib(n - 1) + fib(n - 2)\nprint(fib(60))\n", "1548008755920\n"},
		{"typed let", "let mut x: number = 4\nprint(x)\n", "4\n"},
		{"empty", "", ""},
		{"blank lines", "\n\n   \n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.src, interp.Options{})
			if err != nil {
				t.Fatalf("Run(%q): %v", tt.src, err)
			}
			if got != tt.want {
				t.Errorf("Run(%q) printed %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"undefined", "print(y)\n", "Undefined variable 'y'"},
		{"chained comparison", "print(1 < 2 < 3)\n", "Comparison operators cannot be chained"},
		{"division by zero", "print(1 / 0)\n", "Division by zero"},
		{"modulo by zero", "print(1 % 0)\n", "Modulo by zero"},
		{"type mismatch", "print(1 + true)\n", "Expected number, got bool"},
		{"truthiness is strict", "if 1: print(1)\n", "Expected bool, got number"},
		{"stray break", "break\n", "'Break' outside of a loop"},
		{"indentation", "if true:\n  x = 1\n", "Indentation mismatch"},
		{"tabs", "if true:\n\tx = 1\n", "tabs are not allowed"},
		{"index", "x = [1]\nprint(x[5])\n", "Index out of range: 5 (length 1)"},
		{"large index", "x = [1]\nprint(x[3000000000])\n", "Index out of range: 3000000000 (length 1)"},
		{"fractional index", "x = [1]\nprint(x[0.5])\n", "Index must be an integer"},
		{"unknown capability", "print(extern(\"nope\"))\n", "Unknown capability 'nope'"},
		{"bad selector", "extern(\"a:\")\n", "Invalid capability name"},
		{"duplicate param", "fn f(a, a): return a\n", "name 'a' specified more than once"},
		{"incomplete", "x = 1 +\n", "Unknown expression"},
		{"arity", "fn f(a): return a\nf(1, 2)\n", "Function 'f' expects 1 argument, got 2"},
		{"not callable", "x = 1\nx(2)\n", "Cannot call a value of type number"},
		{"unterminated string", "print(\"abc)\n", "Unterminated string literal"},
		{"missing block", "while true\nprint(1)\n", "Expected an indented block"},
		{"trailing junk", "x = 1 2\n", "Expected end of statement"},
		{"bad target", "1 = 2\n", "Invalid assignment target"},
		{"keyword as name", "let if = 1\n", "got keyword 'if'"},
		{"call depth", "fn f(n): return f(n + 1)\nf(0)\n", "Maximum call depth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.src, interp.Options{})
			if err == nil {
				t.Fatalf("Run(%q) succeeded, want error containing %q", tt.src, tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Run(%q) error = %q, want it to contain %q", tt.src, err, tt.want)
			}
		})
	}
}

func TestShortCircuitSkipsCapability(t *testing.T) {
	calls := 0
	probe := func(r *capability.Registry) {
		r.Register("", capability.Func{N: "probe", F: func(args []value.Value) (value.Value, error) {
			calls++
			return Bool(true), nil
		}})
	}
	src := "a = false and extern(\"probe\")\nb = true or extern(\"probe\")\nc = true and extern(\"probe\")\nprint(c)\n"
	out, err := run(t, src, interp.Options{Capabilities: probe})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("probe called %d times, want 1", calls)
	}
	if out != "true\n" {
		t.Errorf("printed %q, want %q", out, "true\n")
	}
}

func TestSelectorFallback(t *testing.T) {
	echo := func(r *capability.Registry) {
		r.Register("mem", capability.Func{N: "echo", F: func(args []value.Value) (value.Value, error) {
			return args[0], nil
		}})
	}
	out, err := run(t, "print(extern(\"(fs|mem):echo\", 5))\n", interp.Options{Capabilities: echo})
	if err != nil {
		t.Fatal(err)
	}
	if out != "5\n" {
		t.Errorf("printed %q, want %q", out, "5\n")
	}
}

func TestDeny(t *testing.T) {
	_, err := run(t, "print(1)\n", interp.Options{Deny: []string{"print_native"}})
	if err == nil || !strings.Contains(err.Error(), "Unknown capability 'print_native'") {
		t.Errorf("err = %v, want unknown capability", err)
	}
}

func TestMemoizeOption(t *testing.T) {
	s, err := interp.New(Language{}, interp.Options{Stdout: &bytes.Buffer{}, Memoize: true})
	if err != nil {
		t.Fatal(err)
	}
	prog, err := s.Parse("fn f(n): return n + 1\nf(1)\nf(1)\nf(2)\n")
	if err != nil {
		t.Fatal(err)
	}
	env, err := s.NewEnv()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Exec(prog, env); err != nil {
		t.Fatal(err)
	}
	if env.Memo.Len() != 2 || env.Memo.Hits != 1 {
		t.Errorf("memo has %d entries and %d hits, want 2 and 1", env.Memo.Len(), env.Memo.Hits)
	}
	if env.Depth() != 1 {
		t.Errorf("scope depth after run = %d, want 1", env.Depth())
	}
}

func TestTokens(t *testing.T) {
	s, err := interp.New(Language{}, interp.Options{})
	if err != nil {
		t.Fatal(err)
	}
	lxs, err := s.Tokens("if a <= b:\n    c\n")
	if err != nil {
		t.Fatal(err)
	}
	var texts []string
	for _, lx := range lxs {
		texts = append(texts, lx.Text)
	}
	want := "i|f| |a| |<=| |b|:|NEWLINE|INDENT|c|NEWLINE|DEDENT|EOF"
	if got := strings.Join(texts, "|"); got != want {
		t.Errorf("tokens = %s, want %s", got, want)
	}
}

func TestRegistered(t *testing.T) {
	def, ok := interp.ForFile("demo.lm")
	if !ok || def.Name() != "lumen" {
		t.Errorf("ForFile(demo.lm) = %v, %v", def, ok)
	}
}
