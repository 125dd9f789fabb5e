// Package ast defines the TinyC+ abstract syntax tree: a tagged variant
// over roughly thirty node kinds produced by internal/parser, decorated
// by internal/ast's own parent-linking pass, and annotated with types
// by internal/semantic before internal/lowering walks it.
package ast

import (
	"github.com/tinycplus/tcppc/internal/token"
	"github.com/tinycplus/tcppc/internal/types"
)

// Node is implemented by every AST node. Every node carries its
// defining token, a weak (non-owning) back-reference to its parent set
// by LinkParents, and a resolved type pointer set by the analyzer that
// must be non-nil after a successful analysis pass.
type Node interface {
	Pos() token.Position
	Tok() token.Token
	ParentNode() Node
	SetParent(Node)
	Type() types.Type
	SetType(types.Type)
	// HasAddress reports whether the node denotes something an address
	// can be taken of and something that can be assigned to. Only a
	// handful of expression kinds answer true.
	HasAddress() bool
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without itself being a
// value.
type Statement interface {
	Node
	statementNode()
}

// TypeExpr is the syntactic spelling of a type, as opposed to the
// resolved types.Type the analyzer attaches to it via Base.SetType.
type TypeExpr interface {
	Node
	typeExprNode()
}

// Decl is a top-level or class-body declaration.
type Decl interface {
	Node
	declNode()
}

// Base is embedded by every concrete node and supplies the Node
// contract; concrete nodes only add their own fields and override
// HasAddress when they are addressable.
type Base struct {
	token  token.Token
	parent Node
	typ    types.Type
}

func newBase(t token.Token) Base { return Base{token: t} }

func (b *Base) Pos() token.Position { return b.token.Pos }
func (b *Base) Tok() token.Token    { return b.token }
func (b *Base) ParentNode() Node    { return b.parent }
func (b *Base) SetParent(p Node)    { b.parent = p }
func (b *Base) Type() types.Type    { return b.typ }
func (b *Base) SetType(t types.Type) { b.typ = t }
func (b *Base) HasAddress() bool    { return false }

// FindParent walks the parent chain starting at n's parent, returning
// the first ancestor assignable to T, or the zero value and false if
// none exists before the root. A nil maxDepth walks to the root.
func FindParent[T Node](n Node, maxDepth ...int) (T, bool) {
	var zero T
	depth := -1
	if len(maxDepth) > 0 {
		depth = maxDepth[0]
	}
	cur := n.ParentNode()
	for cur != nil {
		if t, ok := cur.(T); ok {
			return t, true
		}
		if depth == 0 {
			return zero, false
		}
		if depth > 0 {
			depth--
		}
		cur = cur.ParentNode()
	}
	return zero, false
}

// Program is the root node: a sequence of top-level declarations.
type Program struct {
	Base
	Body []Decl
}

func NewProgram(t token.Token, body []Decl) *Program {
	return &Program{Base: newBase(t), Body: body}
}
