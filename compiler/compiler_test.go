package compiler

import (
	"strings"
	"testing"

	"github.com/skx/pine/errors"
	"github.com/skx/pine/profile"
)

// TestScenarios checks that representative Pine programs (arithmetic,
// string output, conditionals, loops, and exit codes) compile to assembly
// with a main label.
func TestScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			"hello world",
			`print "hello, world"; println;`,
		},
		{
			"arithmetic and precedence",
			`x = 1 + 2 * 3 - 4 / 2; println x;`,
		},
		{
			"countdown loop",
			`
n = 5;
while n {
  println n;
  n = n - 1;
}
`,
		},
		{
			"conditional branches",
			`
x = input();
if x > 0 {
  println 1;
} else {
  println 0;
}
`,
		},
		{
			"bitwise and shifts",
			`x = (1 << 4) | (3 & 2) ^ 7; println x;`,
		},
		{
			"exit with computed code",
			`x = 2 * 3; exit x;`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.src)
			asm, err := c.Compile()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(asm, "main:") {
				t.Errorf("expected a main label in generated assembly")
			}
		})
	}
}

func TestCompileNegativeCases(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind errors.Kind
	}{
		{"unterminated string", `print "oops;`, errors.UnterminatedString},
		{"undefined variable", `println missing;`, errors.UndefinedVar},
		{"type mismatch in arithmetic", "s = \"a\";\nn = 1;\nx = s + n;\n", errors.TypeMismatch},
		{"assigning a different type", "x = 1;\nx = \"a\";\n", errors.AssignTypeMismatch},
		{"non-int if condition", "s = \"a\";\nif s {\n}\n", errors.NonIntCondition},
		{"missing closing brace", `while 1 { println 1;`, errors.UnclosedBlock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.src)
			_, err := c.Compile()
			if err == nil {
				t.Fatalf("expected a diagnostic, got none")
			}
			if err.Kind != tt.kind {
				t.Errorf("expected kind %s, got %s (%v)", tt.kind, err.Kind, err)
			}
		})
	}
}

func TestSetProfileChangesExitSyscall(t *testing.T) {
	c := New(`exit 1;`)
	c.SetProfile(profile.RARS)
	asm, err := c.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(asm, "li a7, 93") {
		t.Errorf("expected RARS exit-with-code syscall number, got:\n%s", asm)
	}
}

func TestTokensAndParse(t *testing.T) {
	c := New(`x = 1; println x;`)

	toks, err := c.Tokens()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if len(toks) == 0 {
		t.Fatalf("expected a non-empty token stream")
	}

	prog, _, _, perr := c.Parse()
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}
	if len(prog.Statements) != 2 {
		t.Errorf("expected 2 statements, got %d", len(prog.Statements))
	}
}
