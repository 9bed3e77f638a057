package parser

import "github.com/skx/pine/ast"

// SymbolTable is a single flat mapping from variable name to ValueType,
// established on first assignment. There is no shadowing and no scope
// nesting: the braces of a loop or if body do not introduce a new scope.
type SymbolTable struct {
	types map[string]ast.ValueType
	order []string
}

func newSymbolTable() *SymbolTable {
	return &SymbolTable{types: make(map[string]ast.ValueType)}
}

// Lookup returns the type recorded for name, if any.
func (s *SymbolTable) Lookup(name string) (ast.ValueType, bool) {
	t, ok := s.types[name]
	return t, ok
}

// Define records name's type on first assignment. Calling it again for an
// already-defined name is a caller bug; the parser only calls it once per
// new variable and otherwise checks types match via Lookup.
func (s *SymbolTable) Define(name string, t ast.ValueType) {
	s.types[name] = t
	s.order = append(s.order, name)
}

// Order returns variable names in first-assignment order, which the code
// generator uses to lay out the stack frame.
func (s *SymbolTable) Order() []string {
	return s.order
}
