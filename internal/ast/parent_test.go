package ast

import (
	"testing"

	"github.com/tinycplus/tcppc/internal/token"
)

func tok(k token.Kind, lit string) token.Token {
	return token.Token{Kind: k, Literal: lit, Pos: token.Position{Line: 1, Column: 1}}
}

func TestLinkParentsBlock(t *testing.T) {
	ret := NewReturn(tok(token.KwReturn, "return"), NewIntegerLit(tok(token.INT, "1"), 1))
	block := NewBlock(tok(token.LBRACE, "{"), []Statement{ret})
	fn := NewFuncDecl(tok(token.KwInt, "int"), "f", nil, NewNamedType(tok(token.KwInt, "int"), "int"), block)
	prog := NewProgram(tok(token.KwInt, "int"), []Decl{fn})

	LinkParents(prog)

	if block.ParentNode() != Node(fn) {
		t.Fatalf("block parent = %v, want fn", block.ParentNode())
	}
	if ret.ParentNode() != Node(block) {
		t.Fatalf("return parent = %v, want block", ret.ParentNode())
	}
	if ret.Value.ParentNode() != Node(ret) {
		t.Fatalf("literal parent = %v, want return", ret.Value.ParentNode())
	}
	if fn.ParentNode() != Node(prog) {
		t.Fatalf("fn parent = %v, want prog", fn.ParentNode())
	}
}

func TestFindParentBlock(t *testing.T) {
	ret := NewReturn(tok(token.KwReturn, "return"), nil)
	inner := NewBlock(tok(token.LBRACE, "{"), []Statement{ret})
	outer := NewBlock(tok(token.LBRACE, "{"), []Statement{inner})
	fn := NewFuncDecl(tok(token.KwInt, "int"), "f", nil, nil, outer)
	prog := NewProgram(tok(token.KwInt, "int"), []Decl{fn})
	LinkParents(prog)

	got, ok := FindParent[*FuncDecl](ret)
	if !ok || got != fn {
		t.Fatalf("FindParent[*FuncDecl] = %v, %v; want fn, true", got, ok)
	}

	if _, ok := FindParent[*ClassDecl](ret); ok {
		t.Fatalf("FindParent[*ClassDecl] unexpectedly found a match")
	}
}

func TestClassDeclLinksFieldsAndMethods(t *testing.T) {
	field := NewVarDecl(tok(token.IDENT, "x"), "x", NewNamedType(tok(token.KwInt, "int"), "int"), nil)
	method := NewMethodDecl(tok(token.IDENT, "m"), Public, "m", nil, NewNamedType(tok(token.KwVoid, "void"), "void"), NewBlock(tok(token.LBRACE, "{"), nil))
	class := NewClassDecl(tok(token.KwClass, "class"), "C")
	class.Fields = append(class.Fields, field)
	class.Methods = append(class.Methods, method)
	prog := NewProgram(tok(token.KwClass, "class"), []Decl{class})

	LinkParents(prog)

	if field.ParentNode() != Node(class) {
		t.Fatalf("field parent = %v, want class", field.ParentNode())
	}
	if method.ParentNode() != Node(class) {
		t.Fatalf("method parent = %v, want class", method.ParentNode())
	}
	if method.Body.ParentNode() != Node(method) {
		t.Fatalf("method body parent = %v, want method", method.Body.ParentNode())
	}
}

func TestHasAddress(t *testing.T) {
	ident := NewIdentifier(tok(token.IDENT, "x"), "x")
	if !ident.HasAddress() {
		t.Fatal("identifier should have an address")
	}

	lit := NewIntegerLit(tok(token.INT, "1"), 1)
	if lit.HasAddress() {
		t.Fatal("literal should not have an address")
	}

	deref := NewDeref(tok(token.STAR, "*"), ident)
	if !deref.HasAddress() {
		t.Fatal("deref should have an address")
	}

	postInc := NewUnaryPostOp(tok(token.INC, "++"), ident)
	if postInc.HasAddress() {
		t.Fatal("postfix increment should not have an address")
	}

	preInc := NewUnaryOp(tok(token.INC, "++"), ident)
	if !preInc.HasAddress() {
		t.Fatal("prefix increment should have an address")
	}

	index := NewIndex(tok(token.LBRACKET, "["), ident, lit)
	if !index.HasAddress() {
		t.Fatal("index into an addressable base should have an address")
	}
}
