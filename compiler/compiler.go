// Package compiler wires the lexer, parser, and code generator into a
// single pipeline and is the one entry point cmd/pine needs to turn Pine
// source into RISC-V assembly.
package compiler

import (
	"github.com/skx/pine/ast"
	"github.com/skx/pine/codegen"
	"github.com/skx/pine/errors"
	"github.com/skx/pine/lexer"
	"github.com/skx/pine/parser"
	"github.com/skx/pine/profile"
	"github.com/skx/pine/token"
)

// Compiler compiles one source string, halting at the first diagnostic
// any stage produces.
type Compiler struct {
	source  string
	profile profile.Profile
}

// New creates a Compiler for source, defaulting to the Venus syscall
// profile.
func New(source string) *Compiler {
	return &Compiler{source: source, profile: profile.Default()}
}

// SetProfile overrides the syscall table used when generating code.
func (c *Compiler) SetProfile(p profile.Profile) {
	c.profile = p
}

// Tokens lexes the source and returns its tokens, for --dump-tokens.
func (c *Compiler) Tokens() ([]token.Token, *errors.Diagnostic) {
	return lexer.Tokenize(c.source)
}

// Parse lexes and parses the source, returning the typed AST, for
// --dump-ast.
func (c *Compiler) Parse() (*ast.Program, *parser.SymbolTable, *parser.StringPool, *errors.Diagnostic) {
	toks, err := c.Tokens()
	if err != nil {
		return nil, nil, nil, err
	}
	return parser.Parse(toks)
}

// Compile runs the full lex -> parse -> codegen pipeline and returns the
// generated assembly text.
func (c *Compiler) Compile() (string, *errors.Diagnostic) {
	prog, syms, pool, err := c.Parse()
	if err != nil {
		return "", err
	}
	return codegen.Generate(prog, syms, pool, c.profile)
}
