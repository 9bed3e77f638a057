// Package ast defines the typed abstract syntax tree produced by the
// parser. Every expression node carries the type inferred for it during
// parsing; there are exactly two value types, Int and String.
package ast

import (
	"github.com/skx/pine/errors"
	"github.com/skx/pine/token"
)

// ValueType is one of the two primitive types Pine values can have.
type ValueType int

const (
	// IntType is a 32-bit signed integer.
	IntType ValueType = iota
	// StringType is a pointer to a NUL-terminated byte string in .data.
	StringType
)

func (t ValueType) String() string {
	if t == StringType {
		return "String"
	}
	return "Int"
}

// Expr is any expression node. Every node knows its own source span and
// its inferred ValueType.
type Expr interface {
	Span() errors.Span
	ExprType() ValueType
}

// IntLit is an integer literal, already known to fit a signed 32-bit word.
type IntLit struct {
	Value int32
	Sp    errors.Span
}

func (n *IntLit) Span() errors.Span   { return n.Sp }
func (n *IntLit) ExprType() ValueType { return IntType }

// StrLit is a string literal. ID indexes the enclosing StringPool; Value
// holds the decoded bytes for debug dumps.
type StrLit struct {
	ID    int
	Value string
	Sp    errors.Span
}

func (n *StrLit) Span() errors.Span   { return n.Sp }
func (n *StrLit) ExprType() ValueType { return StringType }

// Var is a reference to a previously assigned variable.
type Var struct {
	Name string
	Typ  ValueType
	Sp   errors.Span
}

func (n *Var) Span() errors.Span   { return n.Sp }
func (n *Var) ExprType() ValueType { return n.Typ }

// Input reads one integer from stdin; it is always Int-typed.
type Input struct {
	Sp errors.Span
}

func (n *Input) Span() errors.Span   { return n.Sp }
func (n *Input) ExprType() ValueType { return IntType }

// Binary is a two-operand expression. Op is one of the binary operator
// token types; every binary operator takes two Int operands and produces
// an Int result.
type Binary struct {
	Op    token.Type
	Left  Expr
	Right Expr
	Typ   ValueType
	Sp    errors.Span
}

func (n *Binary) Span() errors.Span   { return n.Sp }
func (n *Binary) ExprType() ValueType { return n.Typ }

// Unary is a one-operand expression: -, !, or ~. All three take an Int
// operand and produce an Int result.
type Unary struct {
	Op      token.Type
	Operand Expr
	Typ     ValueType
	Sp      errors.Span
}

func (n *Unary) Span() errors.Span   { return n.Sp }
func (n *Unary) ExprType() ValueType { return n.Typ }

// Stmt is any statement node.
type Stmt interface {
	stmtNode()
}

// Assign binds Expr's value to Name, creating Name in the symbol table on
// first use.
type Assign struct {
	Name string
	Expr Expr
	Sp   errors.Span
}

// Print writes Expr (Int or String) with no trailing newline. Expr is never
// nil: print with no expression is a parse error.
type Print struct {
	Expr Expr
	Sp   errors.Span
}

// Println is Print followed by a newline. Expr is nil for a bare
// `println;`, which emits only the newline.
type Println struct {
	Expr Expr
	Sp   errors.Span
}

// While repeats Body while Cond (an Int) is non-zero.
type While struct {
	Cond Expr
	Body []Stmt
	Sp   errors.Span
}

// If runs Then when Cond (an Int) is non-zero, else Else if present.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
	Sp   errors.Span
}

// Exit terminates the program, optionally with an Int status code.
type Exit struct {
	Expr Expr
	Sp   errors.Span
}

func (*Assign) stmtNode()  {}
func (*Print) stmtNode()   {}
func (*Println) stmtNode() {}
func (*While) stmtNode()   {}
func (*If) stmtNode()      {}
func (*Exit) stmtNode()    {}

// Program is an ordered list of top-level statements.
type Program struct {
	Statements []Stmt
}
