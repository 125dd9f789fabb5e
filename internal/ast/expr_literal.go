package ast

import "github.com/tinycplus/tcppc/internal/token"

// IntegerLit is a decimal integer literal.
type IntegerLit struct {
	Base
	Value int64
}

func NewIntegerLit(t token.Token, value int64) *IntegerLit {
	return &IntegerLit{Base: newBase(t), Value: value}
}
func (*IntegerLit) expressionNode() {}

// DoubleLit is a floating-point literal.
type DoubleLit struct {
	Base
	Value float64
}

func NewDoubleLit(t token.Token, value float64) *DoubleLit {
	return &DoubleLit{Base: newBase(t), Value: value}
}
func (*DoubleLit) expressionNode() {}

// CharLit is a single-quoted character literal, already unescaped.
type CharLit struct {
	Base
	Value byte
}

func NewCharLit(t token.Token, value byte) *CharLit {
	return &CharLit{Base: newBase(t), Value: value}
}
func (*CharLit) expressionNode() {}

// StringLit is a double-quoted string literal, already unescaped.
type StringLit struct {
	Base
	Value string
}

func NewStringLit(t token.Token, value string) *StringLit {
	return &StringLit{Base: newBase(t), Value: value}
}
func (*StringLit) expressionNode() {}

// Identifier is a bare name reference, resolved by the analyzer against
// the current scope (or, under a member-access parent, the base's
// complex type member map).
type Identifier struct {
	Base
	Name string
}

func NewIdentifier(t token.Token, name string) *Identifier {
	return &Identifier{Base: newBase(t), Name: name}
}
func (*Identifier) expressionNode() {}

// an identifier read names a variable, and every variable has an address.
func (*Identifier) HasAddress() bool { return true }
