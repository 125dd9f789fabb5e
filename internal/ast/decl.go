package ast

import "github.com/tinycplus/tcppc/internal/token"

// AccessMod is a class member's visibility.
type AccessMod int

const (
	Public AccessMod = iota
	Private
	Protected
)

func (a AccessMod) String() string {
	switch a {
	case Public:
		return "public"
	case Private:
		return "private"
	case Protected:
		return "protected"
	default:
		return "?"
	}
}

// Virtuality is the dispatch modifier a class method declaration
// carries: none (a plain, non-overridable method), virtual (introduces
// a new vtable slot), override (must match a slot already present in
// the base chain), or abstract (introduces or reuses a slot but has no
// body of its own).
type Virtuality int

const (
	VirtualityNone Virtuality = iota
	VirtualityVirtual
	VirtualityOverride
	VirtualityAbstract
)

func (v Virtuality) IsVirtual() bool {
	return v == VirtualityVirtual || v == VirtualityOverride || v == VirtualityAbstract
}

// Param is one formal parameter of a function, method, constructor, or
// function-pointer typedef.
type Param struct {
	Name string
	Type TypeExpr
}

// VarDecl declares a variable: a top-level global, a local inside a
// block, a struct field, or a class field, distinguished only by where
// it is found in the tree. Value is nil when there is no initializer.
type VarDecl struct {
	Base
	Name  string
	Type  TypeExpr
	Value Expression
}

func NewVarDecl(t token.Token, name string, typ TypeExpr, value Expression) *VarDecl {
	return &VarDecl{Base: newBase(t), Name: name, Type: typ, Value: value}
}
func (*VarDecl) statementNode() {}
func (*VarDecl) declNode()      {}

// FuncDecl is a free (non-member) function: forward-declared when Body
// is nil.
type FuncDecl struct {
	Base
	Name       string
	Params     []Param
	ReturnType TypeExpr
	Body       *Block
}

func NewFuncDecl(t token.Token, name string, params []Param, ret TypeExpr, body *Block) *FuncDecl {
	return &FuncDecl{Base: newBase(t), Name: name, Params: params, ReturnType: ret, Body: body}
}
func (*FuncDecl) declNode() {}

// StructDecl declares a plain record type. IsDefinition distinguishes a
// forward mention (`struct S;`) from a body-bearing one, because an
// empty body and no body at all are both representable and mean
// different things.
type StructDecl struct {
	Base
	Name         string
	Fields       []*VarDecl
	IsDefinition bool
}

func NewStructDecl(t token.Token, name string, fields []*VarDecl, isDefinition bool) *StructDecl {
	return &StructDecl{Base: newBase(t), Name: name, Fields: fields, IsDefinition: isDefinition}
}
func (*StructDecl) declNode() {}

// FuncPtrDecl is a `typedef RET (*Name)(ARGS);` function-pointer type
// alias.
type FuncPtrDecl struct {
	Base
	Name       string
	Params     []TypeExpr
	ReturnType TypeExpr
}

func NewFuncPtrDecl(t token.Token, name string, params []TypeExpr, ret TypeExpr) *FuncPtrDecl {
	return &FuncPtrDecl{Base: newBase(t), Name: name, Params: params, ReturnType: ret}
}
func (*FuncPtrDecl) declNode() {}

// BaseDelegate is the optional `: Base(arg, ...)` clause of a
// constructor. Per the grammar, delegation arguments are bare
// identifiers (naming one of the constructor's own parameters), never
// arbitrary expressions.
type BaseDelegate struct {
	BaseName string
	Args     []string
}

// MethodDecl is a class or interface member function: a method proper,
// or (when IsConstructor is true) a constructor, detected during
// parsing by its name repeating the enclosing class's name.
//
// An interface method (IsInterfaceMethod) never has a Body and is not
// itself virtual or abstract; Virtuality only applies within a class.
type MethodDecl struct {
	Base
	Access            AccessMod
	Name              string
	Params            []Param
	ReturnType        TypeExpr
	Body              *Block
	Virtuality        Virtuality
	IsConstructor     bool
	Delegate          *BaseDelegate
	IsInterfaceMethod bool
}

func NewMethodDecl(t token.Token, access AccessMod, name string, params []Param, ret TypeExpr, body *Block) *MethodDecl {
	return &MethodDecl{Base: newBase(t), Access: access, Name: name, Params: params, ReturnType: ret, Body: body}
}
func (*MethodDecl) declNode() {}

// ClassDecl declares a class: an optional base class and, for each
// comma-separated name after it, an interface it claims to implement
// (`class C : Base, I1, I2`). IsDefinition mirrors StructDecl's.
type ClassDecl struct {
	Base
	Name         string
	BaseClass    TypeExpr
	Interfaces   []TypeExpr
	Fields       []*VarDecl
	Methods      []*MethodDecl
	Constructors []*MethodDecl
	IsDefinition bool
}

func NewClassDecl(t token.Token, name string) *ClassDecl {
	return &ClassDecl{Base: newBase(t), Name: name}
}
func (*ClassDecl) declNode() {}

// InterfaceDecl declares an interface: a pure list of method
// signatures, none of which may carry a body.
type InterfaceDecl struct {
	Base
	Name    string
	Methods []*MethodDecl
}

func NewInterfaceDecl(t token.Token, name string, methods []*MethodDecl) *InterfaceDecl {
	return &InterfaceDecl{Base: newBase(t), Name: name, Methods: methods}
}
func (*InterfaceDecl) declNode() {}
