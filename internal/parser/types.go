package parser

import (
	"github.com/tinycplus/tcppc/internal/ast"
	"github.com/tinycplus/tcppc/internal/token"
)

// builtinTypeName reports whether k is one of the four primitive type
// keywords and returns its spelling.
func builtinTypeName(k token.Kind) (string, bool) {
	switch k {
	case token.KwInt:
		return "int", true
	case token.KwDouble:
		return "double", true
	case token.KwChar:
		return "char", true
	case token.KwVoid:
		return "void", true
	}
	return "", false
}

// isTypeStart reports whether the current token can begin a TYPE
// production: one of the four primitive keywords, or an identifier
// currently in the tentative-type-name set (spec §4.1's ambiguity
// rule).
func (p *Parser) isTypeStart() bool {
	if _, ok := builtinTypeName(p.cur.Current().Kind); ok {
		return true
	}
	if p.cur.Is(token.IDENT) {
		return p.types.Has(p.cur.Current().Literal)
	}
	return false
}

// parseType parses a base type name followed by any number of `*`
// pointer suffixes and an optional `[size]` array suffix.
func (p *Parser) parseType() (ast.TypeExpr, error) {
	tok := p.cur.Current()
	var base ast.TypeExpr
	if name, ok := builtinTypeName(tok.Kind); ok {
		p.advance()
		base = ast.NewNamedType(tok, name)
	} else if p.cur.Is(token.IDENT) {
		p.advance()
		base = ast.NewNamedType(tok, tok.Literal)
	} else {
		return nil, p.errorf("expected type")
	}
	for p.cur.Is(token.STAR) {
		starTok := p.cur.Current()
		p.advance()
		base = ast.NewPointerType(starTok, base)
	}
	if p.cur.Is(token.LBRACKET) {
		brTok := p.cur.Current()
		p.advance()
		var size ast.Expression
		if !p.cur.Is(token.RBRACKET) {
			var err error
			size, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(token.RBRACKET, "]"); err != nil {
			return nil, err
		}
		base = ast.NewArrayType(brTok, base, size)
	}
	return base, nil
}
