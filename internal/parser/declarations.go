package parser

import (
	"github.com/tinycplus/tcppc/internal/ast"
	"github.com/tinycplus/tcppc/internal/token"
)

// parseAccessMod reads an optional access modifier; a member written
// without one is public.
func (p *Parser) parseAccessMod() (ast.AccessMod, error) {
	switch p.cur.Current().Kind {
	case token.KwPublic:
		p.advance()
		return ast.Public, nil
	case token.KwPrivate:
		p.advance()
		return ast.Private, nil
	case token.KwProtected:
		p.advance()
		return ast.Protected, nil
	}
	return ast.Public, nil
}

// parseStructDecl parses `struct Name [ '{' { field ';' } '}' ] ';'`.
func (p *Parser) parseStructDecl() (ast.Decl, error) {
	start, err := p.expect(token.KwStruct, "struct")
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	p.types.Add(nameTok.Literal)
	var fields []*ast.VarDecl
	isDefinition := false
	if p.cur.Is(token.LBRACE) {
		p.advance()
		isDefinition = true
		for !p.cur.Is(token.RBRACE) {
			f, err := p.parseVarDecl(false)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
				return nil, err
			}
			fields = append(fields, f)
		}
		p.advance()
	}
	if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	return ast.NewStructDecl(start, nameTok.Literal, fields, isDefinition), nil
}

// parseVarDecl parses `TYPE identifier ['=' EXPR]`, with an optional leading
// access modifier when isField is true (class field; struct fields and
// plain declarations carry none).
func (p *Parser) parseVarDecl(isField bool) (*ast.VarDecl, error) {
	start := p.cur.Current()
	if isField {
		if _, err := p.parseAccessMod(); err != nil {
			return nil, err
		}
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	var value ast.Expression
	if p.cur.Is(token.ASSIGN) {
		p.advance()
		value, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewVarDecl(start, nameTok.Literal, typ, value), nil
}

// parseFuncPtrDecl parses `typedef RET '(' '*' identifier ')' '(' [TYPE
// {',' TYPE}] ')' ';'`.
func (p *Parser) parseFuncPtrDecl() (ast.Decl, error) {
	start, err := p.expect(token.KwTypedef, "typedef")
	if err != nil {
		return nil, err
	}
	ret, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN, "("); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.STAR, "*"); err != nil {
		return nil, err
	}
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	p.types.Add(nameTok.Literal)
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN, "("); err != nil {
		return nil, err
	}
	var params []ast.TypeExpr
	if !p.cur.Is(token.RPAREN) {
		for {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, t)
			if !p.cur.Is(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	return ast.NewFuncPtrDecl(start, nameTok.Literal, params, ret), nil
}

// parseFunOrVarDecl implements the speculative FUN_OR_VAR_DECL
// production of spec §4.1: parse a type, then decide from what follows
// whether this is a function/method/constructor or a variable
// declaration, rewinding to reparse with the right production.
func (p *Parser) parseFunOrVarDecl() (ast.Decl, error) {
	cp := p.checkpoint()
	if _, err := p.parseType(); err != nil {
		return nil, err
	}
	if p.cur.Is(token.IDENT) {
		p.advance()
	}
	isCall := p.cur.Is(token.LPAREN)
	p.rewind(cp)
	if isCall {
		return p.parseFuncDecl()
	}
	d, err := p.parseVarDecl(false)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	return d, nil
}

// parseFuncDecl parses a free function: `TYPE identifier '(' [FUN_ARG
// {',' FUN_ARG}] ')' (BLOCK_STMT | ';')`.
func (p *Parser) parseFuncDecl() (ast.Decl, error) {
	start := p.cur.Current()
	ret, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	var body *ast.Block
	if p.cur.Is(token.LBRACE) {
		body, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	} else if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	return ast.NewFuncDecl(start, nameTok.Literal, params, ret, body), nil
}

// parseParamList parses `'(' [ TYPE identifier {',' TYPE identifier} ]
// ')'`, rejecting a parameter name repeated earlier in the same list.
func (p *Parser) parseParamList() ([]ast.Param, error) {
	if _, err := p.expect(token.LPAREN, "("); err != nil {
		return nil, err
	}
	var params []ast.Param
	if !p.cur.Is(token.RPAREN) {
		for {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			nameTok, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			for _, existing := range params {
				if existing.Name == nameTok.Literal {
					return nil, p.errorf("function argument %s already defined", nameTok.Literal)
				}
			}
			params = append(params, ast.Param{Name: nameTok.Literal, Type: t})
			if !p.cur.Is(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	return params, nil
}
