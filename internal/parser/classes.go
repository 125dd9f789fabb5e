package parser

import (
	"github.com/tinycplus/tcppc/internal/ast"
	"github.com/tinycplus/tcppc/internal/token"
)

// parseClassDecl parses `class Name [ ':' TYPE {',' TYPE} ] [ '{'
// {member} '}' ] ';'`.
func (p *Parser) parseClassDecl() (ast.Decl, error) {
	start, err := p.expect(token.KwClass, "class")
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	p.types.Add(nameTok.Literal)
	d := ast.NewClassDecl(start, nameTok.Literal)

	if p.cur.Is(token.COLON) {
		p.advance()
		base, err := p.parseType()
		if err != nil {
			return nil, err
		}
		d.BaseClass = base
		for p.cur.Is(token.COMMA) {
			p.advance()
			it, err := p.parseType()
			if err != nil {
				return nil, err
			}
			d.Interfaces = append(d.Interfaces, it)
		}
	}

	if p.cur.Is(token.LBRACE) {
		p.advance()
		d.IsDefinition = true
		for !p.cur.Is(token.RBRACE) {
			field, method, err := p.parseClassMember(nameTok.Literal)
			if err != nil {
				return nil, err
			}
			switch {
			case field != nil:
				d.Fields = append(d.Fields, field)
			case method.IsConstructor:
				d.Constructors = append(d.Constructors, method)
			default:
				if method.Body == nil && method.Virtuality != ast.VirtualityAbstract {
					return nil, p.errorf("method %s was declared but its body was not defined", method.Name)
				}
				d.Methods = append(d.Methods, method)
			}
		}
		p.advance() // consume '}'
	}
	if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	return d, nil
}

// parseClassMember speculatively discriminates a class body entry
// between a field, a method, and a constructor, exactly mirroring
// FUN_OR_VAR_DECL's class-body strategy in spec §4.1: parse an access
// modifier and a type, then look at what follows to decide, rewinding
// and reparsing with the right production once decided.
func (p *Parser) parseClassMember(className string) (*ast.VarDecl, *ast.MethodDecl, error) {
	cp := p.checkpoint()
	if _, err := p.parseAccessMod(); err != nil {
		return nil, nil, err
	}
	if _, err := p.parseType(); err != nil {
		return nil, nil, err
	}
	if p.cur.Is(token.LPAREN) {
		p.rewind(cp)
		m, err := p.parseClassConstructor(className)
		return nil, m, err
	}
	if p.cur.Is(token.IDENT) {
		p.advance()
	}
	if p.cur.Is(token.LPAREN) {
		p.rewind(cp)
		m, err := p.parseClassMethod()
		return nil, m, err
	}
	p.rewind(cp)
	f, err := p.parseVarDecl(true)
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
		return nil, nil, err
	}
	return f, nil, nil
}

// parseClassMethod parses `FUN_HEAD [ ['virtual'|'override'] (BLOCK_STMT
// |';') | 'abstract' ';' ]` for a method declared directly on a class.
func (p *Parser) parseClassMethod() (*ast.MethodDecl, error) {
	start := p.cur.Current()
	access, err := p.parseAccessMod()
	if err != nil {
		return nil, err
	}
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
	virtuality := ast.VirtualityNone
	switch p.cur.Current().Kind {
	case token.KwVirtual:
		p.advance()
		virtuality = ast.VirtualityVirtual
	case token.KwOverride:
		p.advance()
		virtuality = ast.VirtualityOverride
	case token.KwAbstract:
		p.advance()
		virtuality = ast.VirtualityAbstract
	}
	if virtuality == ast.VirtualityAbstract && p.cur.Is(token.LBRACE) {
		return nil, p.errorf("abstract method %s must not have a body", nameTok.Literal)
	}
	m := ast.NewMethodDecl(start, access, nameTok.Literal, params, ret, nil)
	m.Virtuality = virtuality
	if p.cur.Is(token.LBRACE) {
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		m.Body = body
		return m, nil
	}
	// No body: legal only for an abstract method. A non-abstract method
	// declared without a body is caught by the caller once the whole
	// member has been parsed, matching spec §4.1's parse-time check.
	if _, err := p.expect(token.SEMICOLON, "; or a method body"); err != nil {
		return nil, err
	}
	return m, nil
}

// parseClassConstructor parses a class constructor: its own name
// repeating className, a parameter list, an optional `: Base(arg,…)`
// delegation, and a mandatory body.
func (p *Parser) parseClassConstructor(className string) (*ast.MethodDecl, error) {
	start := p.cur.Current()
	access, err := p.parseAccessMod()
	if err != nil {
		return nil, err
	}
	ctorTok, err := p.expectIdent() // the class name, read as the constructor's "type"
	if err != nil {
		return nil, err
	}
	if ctorTok.Literal != className {
		return nil, p.errorf("constructor name %s does not match class %s", ctorTok.Literal, className)
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	m := ast.NewMethodDecl(start, access, className, params, nil, nil)
	m.IsConstructor = true
	if p.cur.Is(token.COLON) {
		p.advance()
		baseTok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.LPAREN, "("); err != nil {
			return nil, err
		}
		var args []string
		if !p.cur.Is(token.RPAREN) {
			for {
				argTok, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				args = append(args, argTok.Literal)
				if !p.cur.Is(token.COMMA) {
					break
				}
				p.advance()
			}
		}
		if _, err := p.expect(token.RPAREN, ")"); err != nil {
			return nil, err
		}
		m.Delegate = &ast.BaseDelegate{BaseName: baseTok.Literal, Args: args}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	m.Body = body
	return m, nil
}

// parseInterfaceDecl parses `interface Name [ '{' {method ';'} '}' ]
// ';'`; an interface method may never carry a body.
func (p *Parser) parseInterfaceDecl() (ast.Decl, error) {
	start, err := p.expect(token.KwInterface, "interface")
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	p.types.Add(nameTok.Literal)
	var methods []*ast.MethodDecl
	if p.cur.Is(token.LBRACE) {
		p.advance()
		for !p.cur.Is(token.RBRACE) {
			m, err := p.parseInterfaceMethod()
			if err != nil {
				return nil, err
			}
			methods = append(methods, m)
		}
		p.advance()
	}
	if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	return ast.NewInterfaceDecl(start, nameTok.Literal, methods), nil
}

func (p *Parser) parseInterfaceMethod() (*ast.MethodDecl, error) {
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
	if p.cur.Is(token.LBRACE) {
		return nil, p.errorf("interface method %s must not have a body", nameTok.Literal)
	}
	if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	m := ast.NewMethodDecl(start, ast.Public, nameTok.Literal, params, ret, nil)
	m.IsInterfaceMethod = true
	return m, nil
}
