// Package parser turns a token stream into a typed AST, a flat symbol
// table, and an interned string pool, checking types inline as it goes.
// Statements are parsed top to bottom with one token of lookahead;
// expressions use a Pratt (operator-precedence) parser whose binding-power
// table drives both parsing and the fixed Int x Int -> Int signature every
// operator shares.
package parser

import (
	"strconv"

	"github.com/skx/pine/ast"
	"github.com/skx/pine/errors"
	"github.com/skx/pine/token"
)

// Parser holds the token stream and the state accumulated while walking it.
type Parser struct {
	tokens []token.Token
	pos    int

	syms *SymbolTable
	pool *StringPool
}

// New creates a Parser over an already-lexed token stream.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, syms: newSymbolTable(), pool: newStringPool()}
}

// Parse lexes nothing itself: it consumes tokens and returns the program,
// its symbol table, and its string pool, or the first error encountered.
func Parse(tokens []token.Token) (*ast.Program, *SymbolTable, *StringPool, *errors.Diagnostic) {
	p := New(tokens)

	var stmts []ast.Stmt
	for p.peekType() != token.EOF {
		st, err := p.parseStatement()
		if err != nil {
			return nil, nil, nil, err
		}
		stmts = append(stmts, st)
	}
	return &ast.Program{Statements: stmts}, p.syms, p.pool, nil
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekType() token.Type {
	return p.cur().Type
}

// advance returns the current token and moves past it, unless already at
// EOF (which is never consumed, so repeated calls at end of input are
// harmless).
func (p *Parser) advance() token.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(t token.Type) (token.Token, *errors.Diagnostic) {
	if p.peekType() != t {
		cur := p.cur()
		if t == token.SEMI {
			return token.Token{}, errors.New(errors.StageParse, errors.MissingSemicolon, cur.Span,
				"expected %q, found %q", t, cur.Literal)
		}
		return token.Token{}, errors.New(errors.StageParse, errors.UnexpectedToken, cur.Span,
			"expected %q, found %q", t, cur.Literal)
	}
	return p.advance(), nil
}

// parseStatement dispatches on the current token.
func (p *Parser) parseStatement() (ast.Stmt, *errors.Diagnostic) {
	switch p.peekType() {
	case token.IDENT:
		return p.parseAssign()
	case token.PRINT:
		return p.parsePrintLike(false)
	case token.PRINTLN:
		return p.parsePrintLike(true)
	case token.WHILE:
		return p.parseWhile()
	case token.IF:
		return p.parseIf()
	case token.EXIT:
		return p.parseExit()
	default:
		cur := p.cur()
		return nil, errors.New(errors.StageParse, errors.UnexpectedToken, cur.Span,
			"unexpected token %q at start of statement", cur.Literal)
	}
}

// parseBlock parses "{" stmt* "}".
func (p *Parser) parseBlock() ([]ast.Stmt, *errors.Diagnostic) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	var stmts []ast.Stmt
	for p.peekType() != token.RBRACE {
		if p.peekType() == token.EOF {
			return nil, errors.New(errors.StageParse, errors.UnclosedBlock, p.cur().Span,
				"unexpected end of input inside a block")
		}
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	p.advance() // consume "}"
	return stmts, nil
}

// parseAssign parses Identifier "=" expr ";".
func (p *Parser) parseAssign() (ast.Stmt, *errors.Diagnostic) {
	nameTok := p.advance()

	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}

	expr, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}

	name := nameTok.Literal
	if existing, ok := p.syms.Lookup(name); ok {
		if existing != expr.ExprType() {
			return nil, errors.New(errors.StageType, errors.AssignTypeMismatch, nameTok.Span,
				"cannot assign a %s value to %q, which already holds a %s", expr.ExprType(), name, existing)
		}
	} else {
		p.syms.Define(name, expr.ExprType())
	}

	return &ast.Assign{Name: name, Expr: expr, Sp: nameTok.Span}, nil
}

// parsePrintLike parses "print" [expr] ";" or "println" [expr] ";". A
// bare `print;` is a parse error; a bare `println;` emits just a newline.
func (p *Parser) parsePrintLike(isLn bool) (ast.Stmt, *errors.Diagnostic) {
	kw := p.advance()

	if p.peekType() == token.SEMI {
		if !isLn {
			return nil, errors.New(errors.StageParse, errors.UnexpectedToken, p.cur().Span,
				"'print' requires an expression; did you mean 'println'?")
		}
		p.advance()
		return &ast.Println{Expr: nil, Sp: kw.Span}, nil
	}

	expr, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}

	if isLn {
		return &ast.Println{Expr: expr, Sp: kw.Span}, nil
	}
	return &ast.Print{Expr: expr, Sp: kw.Span}, nil
}

// parseWhile parses "while" expr "{" stmt* "}".
func (p *Parser) parseWhile() (ast.Stmt, *errors.Diagnostic) {
	kw := p.advance()

	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if cond.ExprType() != ast.IntType {
		return nil, errors.New(errors.StageType, errors.NonIntCondition, cond.Span(),
			"while condition must be Int, found %s", cond.ExprType())
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.While{Cond: cond, Body: body, Sp: kw.Span}, nil
}

// parseIf parses "if" expr "{" stmt* "}" [ "else" "{" stmt* "}" ].
func (p *Parser) parseIf() (ast.Stmt, *errors.Diagnostic) {
	kw := p.advance()

	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if cond.ExprType() != ast.IntType {
		return nil, errors.New(errors.StageType, errors.NonIntCondition, cond.Span(),
			"if condition must be Int, found %s", cond.ExprType())
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseBody []ast.Stmt
	if p.peekType() == token.ELSE {
		p.advance()
		elseBody, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return &ast.If{Cond: cond, Then: then, Else: elseBody, Sp: kw.Span}, nil
}

// parseExit parses "exit" [expr] ";".
func (p *Parser) parseExit() (ast.Stmt, *errors.Diagnostic) {
	kw := p.advance()

	var expr ast.Expr
	if p.peekType() != token.SEMI {
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if e.ExprType() != ast.IntType {
			return nil, errors.New(errors.StageType, errors.NonIntCondition, e.Span(),
				"exit code must be Int, found %s", e.ExprType())
		}
		expr = e
	}

	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.Exit{Expr: expr, Sp: kw.Span}, nil
}

// parseExpr is the Pratt loop: parse a prefix/atom, then keep consuming
// infix operators whose left binding power beats minBP.
func (p *Parser) parseExpr(minBP int) (ast.Expr, *errors.Diagnostic) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		opTok := p.cur()
		bp, ok := infixPowers[opTok.Type]
		if !ok || bp.left <= minBP {
			break
		}
		p.advance()

		right, err := p.parseExpr(bp.right)
		if err != nil {
			return nil, err
		}

		left, err = makeBinary(opTok, left, right)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// parsePrefix parses a unary operator or an atom: literal, identifier,
// input(), or a parenthesized expression.
func (p *Parser) parsePrefix() (ast.Expr, *errors.Diagnostic) {
	tok := p.cur()

	switch tok.Type {
	case token.MINUS, token.NOT, token.BITNOT:
		p.advance()
		operand, err := p.parseExpr(unaryBindingPower)
		if err != nil {
			return nil, err
		}
		if operand.ExprType() != ast.IntType {
			return nil, errors.New(errors.StageType, errors.TypeMismatch, tok.Span,
				"unary %q requires an Int operand, found %s", tok.Literal, operand.ExprType())
		}
		return &ast.Unary{Op: tok.Type, Operand: operand, Typ: ast.IntType, Sp: errors.Union(tok.Span, operand.Span())}, nil

	case token.INT:
		return p.parseIntLit()

	case token.STRING:
		return p.parseStrLit()

	case token.IDENT:
		return p.parseVar()

	case token.INPUT:
		return p.parseInput()

	case token.LPAREN:
		p.advance()
		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, errors.New(errors.StageParse, errors.UnexpectedToken, tok.Span,
			"unexpected token %q while parsing an expression", tok.Literal)
	}
}

func (p *Parser) parseIntLit() (ast.Expr, *errors.Diagnostic) {
	tok := p.advance()

	// The lexer already rejected anything that would overflow int32.
	n, _ := strconv.ParseInt(tok.Literal, 10, 32)
	return &ast.IntLit{Value: int32(n), Sp: tok.Span}, nil
}

func (p *Parser) parseStrLit() (ast.Expr, *errors.Diagnostic) {
	tok := p.advance()
	id := p.pool.Intern(tok.Literal)
	return &ast.StrLit{ID: id, Value: tok.Literal, Sp: tok.Span}, nil
}

func (p *Parser) parseVar() (ast.Expr, *errors.Diagnostic) {
	tok := p.advance()

	typ, ok := p.syms.Lookup(tok.Literal)
	if !ok {
		return nil, errors.New(errors.StageType, errors.UndefinedVar, tok.Span,
			"use of undefined variable %q", tok.Literal)
	}
	return &ast.Var{Name: tok.Literal, Typ: typ, Sp: tok.Span}, nil
}

// parseInput parses the "input()" atom.
func (p *Parser) parseInput() (ast.Expr, *errors.Diagnostic) {
	tok := p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.Input{Sp: tok.Span}, nil
}

// makeBinary type-checks and builds a Binary node. Every binary operator
// shares the same Int x Int -> Int signature; there is no string
// concatenation or comparison.
func makeBinary(opTok token.Token, left, right ast.Expr) (ast.Expr, *errors.Diagnostic) {
	if left.ExprType() != ast.IntType || right.ExprType() != ast.IntType {
		return nil, errors.New(errors.StageType, errors.TypeMismatch, opTok.Span,
			"operator %q requires Int operands, found %s and %s", opTok.Literal, left.ExprType(), right.ExprType())
	}
	return &ast.Binary{
		Op:    opTok.Type,
		Left:  left,
		Right: right,
		Typ:   ast.IntType,
		Sp:    errors.Union(left.Span(), right.Span()),
	}, nil
}
