package ast

import "github.com/tinycplus/tcppc/internal/token"

// NamedType spells a type by name: a POD keyword (int/double/char/void)
// or a struct/class/interface/typedef identifier. Which one it resolves
// to is decided by the analyzer via the type registry, not by this
// node's shape.
type NamedType struct {
	Base
	Name string
}

func NewNamedType(t token.Token, name string) *NamedType {
	return &NamedType{Base: newBase(t), Name: name}
}
func (*NamedType) typeExprNode() {}

// PointerType spells Base*.
type PointerType struct {
	Base
	BaseType TypeExpr
}

func NewPointerType(t token.Token, base TypeExpr) *PointerType {
	return &PointerType{Base: newBase(t), BaseType: base}
}
func (*PointerType) typeExprNode() {}

// ArrayType spells Base[Size]. Arrays are treated as pointers once
// resolved (spec's index-operand rule); Size is an arbitrary constant
// expression, evaluated only insofar as the emitter needs its literal
// text.
type ArrayType struct {
	Base
	BaseType TypeExpr
	Size     Expression
}

func NewArrayType(t token.Token, base TypeExpr, size Expression) *ArrayType {
	return &ArrayType{Base: newBase(t), BaseType: base, Size: size}
}
func (*ArrayType) typeExprNode() {}
