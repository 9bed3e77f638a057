package codegen

import (
	"strings"
	"testing"

	"github.com/skx/pine/lexer"
	"github.com/skx/pine/parser"
	"github.com/skx/pine/profile"
)

func compileOK(t *testing.T, src string) string {
	t.Helper()
	toks, lexErr := lexer.Tokenize(src)
	if lexErr != nil {
		t.Fatalf("unexpected lex error: %v", lexErr)
	}
	prog, syms, pool, parseErr := parser.Parse(toks)
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %v", parseErr)
	}
	asm, genErr := Generate(prog, syms, pool, profile.Default())
	if genErr != nil {
		t.Fatalf("unexpected codegen error: %v", genErr)
	}
	return asm
}

func TestGenerateBasicArithmetic(t *testing.T) {
	asm := compileOK(t, `x = 1 + 2 * 3; println x;`)
	for _, want := range []string{".data", ".text", "main:", "addi sp, sp, -512", "mul", "add", "ecall"} {
		if !strings.Contains(asm, want) {
			t.Errorf("expected generated asm to contain %q, got:\n%s", want, asm)
		}
	}
}

func TestGenerateStringLiteralAndPool(t *testing.T) {
	asm := compileOK(t, `print "hi"; print "hi"; print "bye";`)
	if strings.Count(asm, ".asciiz") != 2 {
		t.Errorf("expected exactly 2 deduplicated string literals, got asm:\n%s", asm)
	}
	if !strings.Contains(asm, "str_0:") || !strings.Contains(asm, "str_1:") {
		t.Errorf("expected str_0 and str_1 labels, got:\n%s", asm)
	}
}

func TestGenerateWhileLoop(t *testing.T) {
	asm := compileOK(t, `
n = 3;
while n {
  println n;
  n = n - 1;
}
`)
	if !strings.Contains(asm, "beqz") || !strings.Contains(asm, "j L") {
		t.Errorf("expected a conditional branch and a backward jump, got:\n%s", asm)
	}
}

func TestGenerateIfElse(t *testing.T) {
	asm := compileOK(t, `
x = 1;
if x {
  println x;
} else {
  print x;
}
`)
	if strings.Count(asm, "beqz") != 1 {
		t.Errorf("expected exactly one branch test for the if, got:\n%s", asm)
	}
}

func TestGenerateShortCircuitAnd(t *testing.T) {
	asm := compileOK(t, `x = 1 && 0; println x;`)
	if !strings.Contains(asm, "beqz") || !strings.Contains(asm, "snez") {
		t.Errorf("expected short-circuit && lowering to test the left operand and snez the right, got:\n%s", asm)
	}
}

func TestGenerateShortCircuitOr(t *testing.T) {
	asm := compileOK(t, `x = 1 || 0; println x;`)
	if !strings.Contains(asm, "bnez") {
		t.Errorf("expected short-circuit || lowering to branch on a non-zero left operand, got:\n%s", asm)
	}
}

func TestGenerateExitWithCode(t *testing.T) {
	asm := compileOK(t, `exit 7;`)
	if !strings.Contains(asm, "li t0, 7\n    mv a0, t0") {
		t.Errorf("expected exit code to be loaded into a0, got:\n%s", asm)
	}
	if !strings.Contains(asm, "li a7, 17") {
		t.Errorf("expected Venus's exit-with-code syscall number 17, got:\n%s", asm)
	}
}

func TestGenerateExitNoCode(t *testing.T) {
	asm := compileOK(t, `exit;`)
	if !strings.Contains(asm, "li a7, 10") {
		t.Errorf("expected Venus's exit-without-code syscall number 10, got:\n%s", asm)
	}
}

func TestGenerateInput(t *testing.T) {
	asm := compileOK(t, `x = input(); println x;`)
	if !strings.Contains(asm, "li a7, 5") {
		t.Errorf("expected Venus's read-int syscall number 5, got:\n%s", asm)
	}
}

func TestGenerateRARSProfileExitCode(t *testing.T) {
	toks, _ := lexer.Tokenize(`exit 3;`)
	prog, syms, pool, _ := parser.Parse(toks)
	asm, err := Generate(prog, syms, pool, profile.RARS)
	if err != nil {
		t.Fatalf("unexpected codegen error: %v", err)
	}
	if !strings.Contains(asm, "li a7, 93") {
		t.Errorf("expected RARS's exit-with-code syscall number 93, got:\n%s", asm)
	}
}

func TestGenerateShortCircuitSurvivesRightOperandSpill(t *testing.T) {
	// The right operand is deep enough to force the allocator to spill
	// the left operand while it is still live across the branch; the
	// left value must still end up correctly materialized afterward
	// instead of reading a stale or reused register.
	asm := compileOK(t, `
x = 2 && (1+(2+(3+(4+(5+(6+(7+(8+9))))))));
println x;
`)
	if !strings.Contains(asm, "sw t") {
		t.Errorf("expected the right operand's depth to force a spill, got:\n%s", asm)
	}
	if !strings.Contains(asm, "snez") {
		t.Errorf("expected the fallthrough path to snez the right operand, got:\n%s", asm)
	}
}

func TestGenerateSpillsUnderRegisterPressure(t *testing.T) {
	// Eight nested additions over nine operands need more than the seven
	// available temporaries live at once, forcing at least one spill to the
	// stack frame.
	asm := compileOK(t, `
x = (1 + (2 + (3 + (4 + (5 + (6 + (7 + (8 + 9))))))));
println x;
`)
	if !strings.Contains(asm, "sw t") {
		t.Errorf("expected deep nesting to force a register spill, got:\n%s", asm)
	}
}
