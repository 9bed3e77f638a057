package errors

import (
	"strings"
	"testing"
)

// Trivial test that New records the stage and kind of a hand-built
// diagnostic and that Error() includes its message.
func TestDiagnosticError(t *testing.T) {
	d := New(StageLex, UnexpectedChar, Span{Start: 3, End: 4, Line: 1}, "unexpected character %q", '$')

	if d.Stage != StageLex {
		t.Fatalf("expected stage %q, got %q", StageLex, d.Stage)
	}
	if d.Kind != UnexpectedChar {
		t.Fatalf("expected kind %q, got %q", UnexpectedChar, d.Kind)
	}
	if !strings.Contains(d.Error(), "unexpected character") {
		t.Errorf("Error() missing message, got %q", d.Error())
	}
}

// TestRender checks that the offending line is quoted and underlined with a
// caret.
func TestRender(t *testing.T) {
	source := "x = 1;\ny = x + \"oops\";\n"

	d := New(StageType, TypeMismatch, Span{Start: 11, End: 12, Line: 2}, "operator %q requires Int operands", "+")

	out := d.Render(source)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected a 3-line render, got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[1], "y = x + \"oops\";") {
		t.Errorf("expected the offending line to be quoted, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "^") {
		t.Errorf("expected a caret underline, got %q", lines[2])
	}
}

func TestUnion(t *testing.T) {
	a := Span{Start: 5, End: 8, Line: 2}
	b := Span{Start: 2, End: 6, Line: 2}

	u := Union(a, b)
	if u.Start != 2 || u.End != 8 {
		t.Errorf("Union(%v, %v) = %v, expected Start=2 End=8", a, b, u)
	}
}
