package minirust

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ivanshim/lumen-lang/interp"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	s, err := interp.New(Language{}, interp.Options{Stdout: &stdout, Stderr: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = s.Run(src)
	return stdout.String(), err
}

const pi = `let SCALE = 10000000000;

let x = SCALE / 5;
let x2 = (x * x) / SCALE;

let term = x;
let sum1 = term;
let k = 1;

while term > 0 {
    term = (term * x2) / SCALE;
    k = k + 2;

    if (k / 2) * 2 == k {
        sum1 = sum1 - (term / k);
    } else {
        sum1 = sum1 + (term / k);
    }
}

let x = SCALE / 239;
let x2 = (x * x) / SCALE;

let term = x;
let sum2 = term;
let k = 1;

while term > 0 {
    term = (term * x2) / SCALE;
    k = k + 2;

    if (k / 2) * 2 == k {
        sum2 = sum2 - (term / k);
    } else {
        sum2 = sum2 + (term / k);
    }
}

let pi_scaled = (16 * sum1) - (4 * sum2);

print(pi_scaled);
`

func TestPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"arithmetic", "println!(1 + 2 * 3);", "7\n"},
		{"assignment", "let x = 10; let y = x + 5; println!(y);", "15\n"},
		{"while", "let mut x = 0;\nwhile x < 3 {\n    println!(x);\n    x = x + 1;\n}\n", "0\n1\n2\n"},
		{"break", "let mut x = 0;\nwhile x < 3 {\n    if x == 2 { break; }\n    println!(x);\n    x += 1;\n}\n", "0\n1\n"},
		{"short circuit", "println!(false && undefined_var);", "false\n"},
		{"let shadows in block", "let x = 1;\nif true {\n    let x = 2;\n    let y = 3;\n}\nprintln!(x);\n", "1\n"},
		{"assign walks outward", "let x = 1;\nif true {\n    x = 2;\n}\nprintln!(x);\n", "2\n"},
		{"format", "let a = 2; println!(\"{} + {} = {}\", a, a, a + a);", "2 + 2 = 4\n"},
		{"braces", "println!(\"{{}}\");", "{}\n"},
		{"print macro", "print!(\"a\"); print!(\"b\");", "ab"},
		{"else if", "let n = 7;\nif n < 5 { println!(\"low\"); } else if n < 10 { println!(\"mid\"); } else { println!(\"high\"); }", "mid\n"},
		{"loop", "let mut i = 0;\nloop {\n    i += 1;\n    if i == 4 { break; }\n}\nprintln!(i);", "4\n"},
		{"continue", "let mut i = 0;\nwhile i < 5 {\n    i += 1;\n    if i % 2 == 0 { continue; }\n    println!(i);\n}", "1\n3\n5\n"},
		{"function", "fn add(a: i64, b: i64) -> i64 {\n    return a + b;\n}\nprintln!(add(2, 3));", "5\n"},
		{"tail expression", "fn sq(n: i64) -> i64 { n * n }\nprintln!(sq(9));", "81\n"},
		{"recursion", "fn fact(n: i64) -> i64 { if n <= 1 { return 1; } return n * fact(n - 1); }\nprintln!(fact(20));", "2432902008176640000\n"},
		{"comments", "// leading\nlet x = 1; // trailing\nprintln!(x);", "1\n"},
		{"not", "println!(!true || !false);", "true\n"},
		{"negative division truncates", "println!(-7 / 2);\nprintln!(-7 % 2);", "-3\n-1\n"},
		{"strings", "let s = \"ab\" + \"cd\"; println!(s);", "abcd\n"},
		{"unit", "fn f() { }\nprintln!(f());", "()\n"},
		{"nested block", "let x = 1; { let x = 5; println!(x); } println!(x);", "5\n1\n"},
		{"typed let", "let s: &str = \"t\"; println!(s);", "t\n"},
		{"pi", pi, "32269843600\n"},
		{"empty", "", ""},
		{"only comments", "// nothing here\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.src)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got != tt.want {
				t.Errorf("printed %q, want %q", got, tt.want)
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
		{"assign undefined", "x = 1;", "Undefined variable 'x'"},
		{"overflow add", "let x = 9223372036854775807; println!(x + 1);", "Integer overflow"},
		{"overflow mul", "println!(4611686018427387904 * 2);", "Integer overflow"},
		{"overflow neg", "let m = -9223372036854775807 - 1; println!(-m);", "Integer overflow"},
		{"literal too large", "println!(9223372036854775808);", "does not fit in i64"},
		{"division by zero", "println!(1 / 0);", "Division by zero"},
		{"modulo by zero", "println!(1 % 0);", "Modulo by zero"},
		{"condition type", "if 1 { }", "Expected bool, got i64"},
		{"stray break", "break;", "'Break' outside of a loop"},
		{"break in function", "fn f() { break; }\nf();", "'Break' outside of a loop in function 'f'"},
		{"unclosed block", "while true {", "Unexpected end of input inside a block"},
		{"format arity", "println!(\"{} {}\", 1);", "more {} than"},
		{"unknown statement", "let = 1;", "Expected 'identifier'"},
		{"bad target", "1 = 2;", "Invalid assignment target"},
		{"mixed compare", "println!(1 == true);", "Cannot compare"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.src)
			if err == nil {
				t.Fatalf("Run(%q) succeeded, want %q", tt.src, tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Run(%q) error = %q, want it to contain %q", tt.src, err, tt.want)
			}
		})
	}
}

func TestArith(t *testing.T) {
	tests := []struct {
		op   string
		x, y Int
		want Int
		err  bool
	}{
		{"+", 1, 2, 3, false},
		{"+", 1<<62 + (1<<62 - 1), 1, 0, true},
		{"-", -1 << 63, 1, 0, true},
		{"-", 5, -3, 8, false},
		{"*", -1, -1 << 63, 0, true},
		{"*", -1 << 63, -1, 0, true},
		{"*", 3, -4, -12, false},
		{"/", -1 << 63, -1, 0, true},
		{"%", -1 << 63, -1, 0, false},
	}
	for _, tt := range tests {
		got, err := arith(tt.op, tt.x, tt.y)
		if (err != nil) != tt.err {
			t.Errorf("%d %s %d: err = %v, want error %v", tt.x, tt.op, tt.y, err, tt.err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("%d %s %d = %v, want %d", tt.x, tt.op, tt.y, got, tt.want)
		}
	}
}
