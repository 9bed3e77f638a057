// Package errors holds the diagnostic model shared by every stage of the
// compiler: lexer, parser, and code generator all report failures as a
// *Diagnostic anchored to a Span, and the first one produced halts the
// pipeline. There is no recovery or multi-error reporting.
package errors

import (
	"fmt"
	"strings"
)

// Span is a half-open byte range [Start, End) into the source text, plus
// the 1-based line the range starts on. Every token and every AST node
// carries one.
type Span struct {
	Start int
	End   int
	Line  int
}

// Union returns the smallest span covering both a and b, keeping a's line.
func Union(a, b Span) Span {
	s := Span{Start: a.Start, End: a.End, Line: a.Line}
	if b.Start < s.Start {
		s.Start = b.Start
	}
	if b.End > s.End {
		s.End = b.End
	}
	return s
}

// Stage names the pipeline phase a Diagnostic was raised from.
type Stage string

// Pipeline stages, in dependency order.
const (
	StageLex     Stage = "lex"
	StageParse   Stage = "parse"
	StageType    Stage = "type"
	StageCodeGen Stage = "codegen"
	StageIO      Stage = "io"
)

// Kind is a specific error category within a Stage.
type Kind string

// Lexer error kinds.
const (
	UnexpectedChar     Kind = "UnexpectedChar"
	UnterminatedString Kind = "UnterminatedString"
	BadEscape          Kind = "BadEscape"
	IntOverflow        Kind = "IntOverflow"
)

// Parser error kinds.
const (
	UnexpectedToken  Kind = "UnexpectedToken"
	MissingSemicolon Kind = "MissingSemicolon"
	UnclosedBlock    Kind = "UnclosedBlock"
)

// Type-checking error kinds.
const (
	UndefinedVar       Kind = "UndefinedVar"
	TypeMismatch       Kind = "TypeMismatch"
	AssignTypeMismatch Kind = "AssignTypeMismatch"
	NonIntCondition    Kind = "NonIntCondition"
)

// Code generation error kinds. This is the only kind CodeGen may report;
// everything else reaching it is an internal invariant violation, not a
// user error, and is handled with a panic instead.
const (
	SpillExhausted Kind = "SpillExhausted"
)

// IO is a catch-all kind for the front-end's file-handling errors.
const IO Kind = "IO"

// Diagnostic is a single compiler error: a stage, a kind, a span into the
// source, and a formatted message.
type Diagnostic struct {
	Stage   Stage
	Kind    Kind
	Span    Span
	Message string
}

// New builds a Diagnostic with a printf-style message.
func New(stage Stage, kind Kind, span Span, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Stage:   stage,
		Kind:    kind,
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface with a short, single-line summary.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s error [%s]: %s", d.Stage, d.Kind, d.Message)
}

// Render quotes the offending line of source and underlines the span with
// carets, for display to a user. It does not depend on any pretty-printing
// package; cmd/pine decides how (and whether) to colorize the result.
func (d *Diagnostic) Render(source string) string {
	start, end := lineBounds(source, d.Span.Line)
	lineText := source[start:end]

	col := d.Span.Start - start
	if col < 0 {
		col = 0
	}
	width := d.Span.End - d.Span.Start
	if width < 1 {
		width = 1
	}
	if col+width > len(lineText) {
		width = len(lineText) - col
		if width < 1 {
			width = 1
		}
	}

	var caret strings.Builder
	caret.WriteString(strings.Repeat(" ", col))
	caret.WriteString(strings.Repeat("^", width))

	return fmt.Sprintf("%s\n  %4d | %s\n       | %s", d.Error(), d.Span.Line, lineText, caret.String())
}

// lineBounds returns the [start, end) byte range of the 1-based lineNum in
// source, not including the trailing newline.
func lineBounds(source string, lineNum int) (int, int) {
	line := 1
	start := len(source)
	for i := 0; i < len(source); i++ {
		if line == lineNum {
			start = i
			break
		}
		if source[i] == '\n' {
			line++
		}
	}
	end := start
	for end < len(source) && source[end] != '\n' {
		end++
	}
	return start, end
}
