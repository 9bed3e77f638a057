// Package codegen walks a typed AST and emits RISC-V 32-bit assembly
// targeting the Venus/RARS environment-call ABI. It owns the stack frame
// layout (variable slots followed by a spill region for the register
// allocator) and every operator's instruction sequence.
package codegen

import (
	"fmt"
	"strings"

	"github.com/skx/pine/ast"
	"github.com/skx/pine/errors"
	"github.com/skx/pine/parser"
	"github.com/skx/pine/profile"
	"github.com/skx/pine/token"
)

// frameSize is the total size, in bytes, of the stack frame every Pine
// program allocates on entry: variable slots plus spill space.
const frameSize = 512

var errSpillExhausted = fmt.Errorf("stack frame exhausted: too many live values to spill")

// Generator walks a Program and produces its assembly text.
type Generator struct {
	profile profile.Profile
	syms    *parser.SymbolTable
	pool    *parser.StringPool

	varOffset map[string]int
	regs      *registerFile

	labelNo int
	body    strings.Builder
}

// Generate lowers prog to RISC-V assembly text, or returns the first
// CodeGenError encountered (only ever SpillExhausted; anything else
// reaching this stage is an internal invariant violation).
func Generate(prog *ast.Program, syms *parser.SymbolTable, pool *parser.StringPool, prof profile.Profile) (asm string, diag *errors.Diagnostic) {
	order := syms.Order()
	varOffset := make(map[string]int, len(order))
	for i, name := range order {
		varOffset[name] = i * 4
	}
	varsSize := len(order) * 4
	if varsSize > frameSize {
		return "", errors.New(errors.StageCodeGen, errors.SpillExhausted, errors.Span{},
			"%d variables need %d bytes, more than the %d byte stack frame", len(order), varsSize, frameSize)
	}
	spillBase := varsSize
	spillSize := frameSize - varsSize

	g := &Generator{
		profile:   prof,
		syms:      syms,
		pool:      pool,
		varOffset: varOffset,
		regs:      newRegisterFile(spillBase, spillSize),
	}

	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(*errors.Diagnostic); ok {
				asm, diag = "", err
				return
			}
			panic(r)
		}
	}()

	for _, stmt := range prog.Statements {
		g.genStmt(stmt)
	}

	return g.assemble(), nil
}

func (g *Generator) emit(line string) {
	g.body.WriteString("    ")
	g.body.WriteString(line)
	g.body.WriteByte('\n')
}

func (g *Generator) label(name string) {
	g.body.WriteString(name)
	g.body.WriteString(":\n")
}

func (g *Generator) newLabel() string {
	l := fmt.Sprintf("L%d", g.labelNo)
	g.labelNo++
	return l
}

// codegenErr turns an allocator failure into the one user-facing
// CodeGenError diagnostic and panics with it, to be recovered in Generate.
func (g *Generator) codegenErr(err error) {
	panic(errors.New(errors.StageCodeGen, errors.SpillExhausted, errors.Span{}, "%s", err.Error()))
}

func (g *Generator) acquire() *registerValue {
	v, err := g.regs.Acquire(g.emit)
	if err != nil {
		g.codegenErr(err)
	}
	return v
}

func (g *Generator) materialize(v *registerValue) string {
	reg, err := g.regs.Materialize(v, g.emit)
	if err != nil {
		g.codegenErr(err)
	}
	return reg
}

func (g *Generator) release(v *registerValue) {
	g.regs.Release(v)
}

// genStmt lowers one statement, appending its instructions to g.body.
func (g *Generator) genStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Assign:
		v := g.genExpr(st.Expr)
		reg := g.materialize(v)
		g.emit(fmt.Sprintf("sw %s, %d(sp)", reg, g.varOffset[st.Name]))
		g.release(v)

	case *ast.Print:
		g.genOutput(st.Expr, false)

	case *ast.Println:
		g.genOutput(st.Expr, true)

	case *ast.While:
		g.genWhile(st)

	case *ast.If:
		g.genIf(st)

	case *ast.Exit:
		g.genExit(st)

	default:
		panic(fmt.Sprintf("codegen: unhandled statement type %T", s))
	}
}

// genOutput lowers print/println. A nil expr (bare println) just emits the
// newline syscall.
func (g *Generator) genOutput(expr ast.Expr, newline bool) {
	if expr != nil {
		v := g.genExpr(expr)
		reg := g.materialize(v)
		switch expr.ExprType() {
		case ast.StringType:
			g.emit("mv a0, " + reg)
			g.emit(fmt.Sprintf("li a7, %d", g.profile.PrintString))
			g.emit("ecall")
		default:
			g.emit("mv a0, " + reg)
			g.emit(fmt.Sprintf("li a7, %d", g.profile.PrintInt))
			g.emit("ecall")
		}
		g.release(v)
	}

	if newline {
		g.emit("li a0, 10")
		g.emit(fmt.Sprintf("li a7, %d", g.profile.PrintChar))
		g.emit("ecall")
	}
}

func (g *Generator) genWhile(st *ast.While) {
	top := g.newLabel()
	end := g.newLabel()

	g.label(top)
	cond := g.genExpr(st.Cond)
	creg := g.materialize(cond)
	g.emit("beqz " + creg + ", " + end)
	g.release(cond)

	for _, body := range st.Body {
		g.genStmt(body)
	}
	g.emit("j " + top)
	g.label(end)
}

func (g *Generator) genIf(st *ast.If) {
	cond := g.genExpr(st.Cond)
	creg := g.materialize(cond)

	if len(st.Else) == 0 {
		end := g.newLabel()
		g.emit("beqz " + creg + ", " + end)
		g.release(cond)
		for _, body := range st.Then {
			g.genStmt(body)
		}
		g.label(end)
		return
	}

	elseLabel := g.newLabel()
	end := g.newLabel()
	g.emit("beqz " + creg + ", " + elseLabel)
	g.release(cond)
	for _, body := range st.Then {
		g.genStmt(body)
	}
	g.emit("j " + end)
	g.label(elseLabel)
	for _, body := range st.Else {
		g.genStmt(body)
	}
	g.label(end)
}

func (g *Generator) genExit(st *ast.Exit) {
	if st.Expr == nil {
		g.emit(fmt.Sprintf("li a7, %d", g.profile.ExitNoCode))
		g.emit("ecall")
		return
	}
	v := g.genExpr(st.Expr)
	reg := g.materialize(v)
	g.emit("mv a0, " + reg)
	g.emit(fmt.Sprintf("li a7, %d", g.profile.ExitWithCode))
	g.emit("ecall")
	g.release(v)
}

// genExpr lowers expr to a sequence of instructions and returns a live
// value holding its result. Callers own the returned value and must
// release it.
func (g *Generator) genExpr(e ast.Expr) *registerValue {
	switch n := e.(type) {
	case *ast.IntLit:
		v := g.acquire()
		g.emit(fmt.Sprintf("li %s, %d", v.reg, n.Value))
		return v

	case *ast.StrLit:
		v := g.acquire()
		g.emit(fmt.Sprintf("la %s, %s", v.reg, g.pool.Label(n.ID)))
		return v

	case *ast.Var:
		v := g.acquire()
		g.emit(fmt.Sprintf("lw %s, %d(sp)", v.reg, g.varOffset[n.Name]))
		return v

	case *ast.Input:
		v := g.acquire()
		g.emit(fmt.Sprintf("li a7, %d", g.profile.ReadInt))
		g.emit("ecall")
		g.emit("mv " + v.reg + ", a0")
		return v

	case *ast.Unary:
		return g.genUnary(n)

	case *ast.Binary:
		return g.genBinary(n)

	default:
		panic(fmt.Sprintf("codegen: unhandled expression type %T", e))
	}
}

func (g *Generator) genUnary(n *ast.Unary) *registerValue {
	operand := g.genExpr(n.Operand)
	reg := g.materialize(operand)

	switch n.Op {
	case token.MINUS:
		g.emit("sub " + reg + ", zero, " + reg)
	case token.BITNOT:
		g.emit("xori " + reg + ", " + reg + ", -1")
	case token.NOT:
		g.emit("seqz " + reg + ", " + reg)
	default:
		panic(fmt.Sprintf("codegen: unhandled unary operator %s", n.Op))
	}
	return operand
}

func (g *Generator) genBinary(n *ast.Binary) *registerValue {
	if n.Op == token.AND || n.Op == token.OR {
		return g.genShortCircuit(n)
	}

	left := g.genExpr(n.Left)
	right := g.genExpr(n.Right)
	lreg := g.materialize(left)
	rreg := g.materialize(right)

	switch n.Op {
	case token.PLUS:
		g.emit("add " + lreg + ", " + lreg + ", " + rreg)
	case token.MINUS:
		g.emit("sub " + lreg + ", " + lreg + ", " + rreg)
	case token.STAR:
		g.emit("mul " + lreg + ", " + lreg + ", " + rreg)
	case token.SLASH:
		g.emit("div " + lreg + ", " + lreg + ", " + rreg)
	case token.BITAND:
		g.emit("and " + lreg + ", " + lreg + ", " + rreg)
	case token.BITOR:
		g.emit("or " + lreg + ", " + lreg + ", " + rreg)
	case token.BITXOR:
		g.emit("xor " + lreg + ", " + lreg + ", " + rreg)
	case token.SHL:
		g.emit("sll " + lreg + ", " + lreg + ", " + rreg)
	case token.SHR:
		g.emit("sra " + lreg + ", " + lreg + ", " + rreg)
	case token.LT:
		g.emit("slt " + lreg + ", " + lreg + ", " + rreg)
	case token.GT:
		g.emit("slt " + lreg + ", " + rreg + ", " + lreg)
	case token.LE:
		g.emit("slt " + lreg + ", " + rreg + ", " + lreg)
		g.emit("xori " + lreg + ", " + lreg + ", 1")
	case token.GE:
		g.emit("slt " + lreg + ", " + lreg + ", " + rreg)
		g.emit("xori " + lreg + ", " + lreg + ", 1")
	case token.EQ:
		g.emit("sub " + lreg + ", " + lreg + ", " + rreg)
		g.emit("seqz " + lreg + ", " + lreg)
	case token.NE:
		g.emit("sub " + lreg + ", " + lreg + ", " + rreg)
		g.emit("snez " + lreg + ", " + lreg)
	default:
		panic(fmt.Sprintf("codegen: unhandled binary operator %s", n.Op))
	}

	g.release(right)
	return left
}

// genShortCircuit lowers && and ||, skipping evaluation of the right
// operand when the left alone determines the result.
func (g *Generator) genShortCircuit(n *ast.Binary) *registerValue {
	isOr := n.Op == token.OR

	left := g.genExpr(n.Left)
	lreg := g.materialize(left)

	skip := g.newLabel()
	end := g.newLabel()

	if isOr {
		g.emit("bnez " + lreg + ", " + skip)
	} else {
		g.emit("beqz " + lreg + ", " + skip)
	}

	right := g.genExpr(n.Right)
	rreg := g.materialize(right)
	lreg = g.materialize(left) // right's evaluation may have spilled left
	g.emit("snez " + lreg + ", " + rreg)
	g.release(right)
	g.emit("j " + end)

	g.label(skip)
	if isOr {
		g.emit("li " + lreg + ", 1")
	} else {
		g.emit("li " + lreg + ", 0")
	}
	g.label(end)

	return left
}

// assemble builds the final .data/.text sections around the generated
// body.
func (g *Generator) assemble() string {
	var out strings.Builder

	out.WriteString(".data\n")
	for i, s := range g.pool.Values() {
		out.WriteString(fmt.Sprintf("%s: .asciiz %s\n", g.pool.Label(i), escapeAsciiz(s)))
	}

	out.WriteString("\n.text\n")
	out.WriteString(".globl main\n")
	out.WriteString("main:\n")
	out.WriteString(fmt.Sprintf("    addi sp, sp, -%d\n", frameSize))
	out.WriteString(g.body.String())
	out.WriteString(fmt.Sprintf("    li a7, %d\n", g.profile.ExitNoCode))
	out.WriteString("    ecall\n")

	return out.String()
}

// escapeAsciiz renders s as a double-quoted RISC-V assembly string
// literal, escaping the characters the assembler treats specially.
func escapeAsciiz(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
