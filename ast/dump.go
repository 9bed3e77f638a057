package ast

import (
	"fmt"
	"strings"
)

// Dump renders prog as an indented tree annotated with every expression's
// inferred type, for --dump-ast.
func Dump(prog *Program) string {
	var sb strings.Builder
	for _, s := range prog.Statements {
		dumpStmt(&sb, s, 0)
	}
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func dumpStmt(sb *strings.Builder, s Stmt, depth int) {
	switch st := s.(type) {
	case *Assign:
		indent(sb, depth)
		fmt.Fprintf(sb, "Assign %s =\n", st.Name)
		dumpExpr(sb, st.Expr, depth+1)

	case *Print:
		indent(sb, depth)
		sb.WriteString("Print\n")
		if st.Expr != nil {
			dumpExpr(sb, st.Expr, depth+1)
		}

	case *Println:
		indent(sb, depth)
		sb.WriteString("Println\n")
		if st.Expr != nil {
			dumpExpr(sb, st.Expr, depth+1)
		}

	case *While:
		indent(sb, depth)
		sb.WriteString("While\n")
		dumpExpr(sb, st.Cond, depth+1)
		for _, b := range st.Body {
			dumpStmt(sb, b, depth+1)
		}

	case *If:
		indent(sb, depth)
		sb.WriteString("If\n")
		dumpExpr(sb, st.Cond, depth+1)
		for _, b := range st.Then {
			dumpStmt(sb, b, depth+1)
		}
		if st.Else != nil {
			indent(sb, depth)
			sb.WriteString("Else\n")
			for _, b := range st.Else {
				dumpStmt(sb, b, depth+1)
			}
		}

	case *Exit:
		indent(sb, depth)
		sb.WriteString("Exit\n")
		if st.Expr != nil {
			dumpExpr(sb, st.Expr, depth+1)
		}
	}
}

func dumpExpr(sb *strings.Builder, e Expr, depth int) {
	indent(sb, depth)
	switch n := e.(type) {
	case *IntLit:
		fmt.Fprintf(sb, "IntLit(%d) : %s\n", n.Value, n.ExprType())
	case *StrLit:
		fmt.Fprintf(sb, "StrLit(%q) : %s\n", n.Value, n.ExprType())
	case *Var:
		fmt.Fprintf(sb, "Var(%s) : %s\n", n.Name, n.ExprType())
	case *Input:
		fmt.Fprintf(sb, "Input : %s\n", n.ExprType())
	case *Unary:
		fmt.Fprintf(sb, "Unary(%s) : %s\n", n.Op, n.ExprType())
		dumpExpr(sb, n.Operand, depth+1)
	case *Binary:
		fmt.Fprintf(sb, "Binary(%s) : %s\n", n.Op, n.ExprType())
		dumpExpr(sb, n.Left, depth+1)
		dumpExpr(sb, n.Right, depth+1)
	}
}
