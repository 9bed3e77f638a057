package parser

import "github.com/skx/pine/token"

// bindingPower holds the left and right binding powers used by the Pratt
// expression parser. A left-associative operator at level L gets
// left-bp = 2L, right-bp = 2L+1; an infix token is consumed only while its
// left-bp is greater than the parser's current minimum binding power.
type bindingPower struct {
	left  int
	right int
}

// infixPowers gives every binary operator's precedence level, lowest to
// highest: || , && , | , ^ , & , ==/!= , comparisons , <</>> , +/- , */.
var infixPowers = map[token.Type]bindingPower{
	token.OR:     {2, 3},
	token.AND:    {4, 5},
	token.BITOR:  {6, 7},
	token.BITXOR: {8, 9},
	token.BITAND: {10, 11},
	token.EQ:     {12, 13},
	token.NE:     {12, 13},
	token.LT:     {14, 15},
	token.GT:     {14, 15},
	token.LE:     {14, 15},
	token.GE:     {14, 15},
	token.SHL:    {16, 17},
	token.SHR:    {16, 17},
	token.PLUS:   {18, 19},
	token.MINUS:  {18, 19},
	token.STAR:   {20, 21},
	token.SLASH:  {20, 21},
}

// unaryBindingPower is the minimum binding power used to parse the operand
// of a prefix -, !, or ~: higher than every infix operator's right-bp, so
// a unary operator binds tighter than any binary one.
const unaryBindingPower = 22
