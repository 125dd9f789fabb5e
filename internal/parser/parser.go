package parser

import (
	"github.com/tinycplus/tcppc/internal/ast"
	tcerrors "github.com/tinycplus/tcppc/internal/errors"
	"github.com/tinycplus/tcppc/internal/lexer"
	"github.com/tinycplus/tcppc/internal/token"
)

// Parser turns a token stream into an *ast.Program. It aborts on the
// first syntax error, matching the single-located-error-aborts-the-
// pipeline policy the rest of the pipeline follows (spec §7).
type Parser struct {
	cur   *TokenCursor
	types *typeNameSet
	file  string
}

// New creates a Parser reading from l. file is used only to attribute
// source positions in error messages.
func New(l *lexer.Lexer, file string) *Parser {
	return &Parser{cur: NewTokenCursor(l), types: newTypeNameSet(), file: file}
}

// checkpoint is a saved parser position: both the cursor and the size of
// the tentative-type-name stack, per spec §4.1's checkpoint/rewind rule.
type checkpoint struct {
	cursorMark Mark
	typesMark  int
}

func (p *Parser) checkpoint() checkpoint {
	return checkpoint{cursorMark: p.cur.Mark(), typesMark: p.types.Mark()}
}

func (p *Parser) rewind(cp checkpoint) {
	p.cur = p.cur.ResetTo(cp.cursorMark)
	p.types.Rewind(cp.typesMark)
}

func (p *Parser) errorf(format string, args ...any) error {
	return tcerrors.New(p.cur.Current().Pos, format, args...)
}

func (p *Parser) advance() {
	p.cur = p.cur.Advance()
}

// expect consumes the current token if it has kind k, otherwise returns
// a located error naming what was expected.
func (p *Parser) expect(k token.Kind, what string) (token.Token, error) {
	if !p.cur.Is(k) {
		return token.Token{}, p.errorf("expected %s, got %s", what, p.cur.Current().Kind)
	}
	t := p.cur.Current()
	p.advance()
	return t, nil
}

func (p *Parser) expectIdent() (token.Token, error) {
	return p.expect(token.IDENT, "identifier")
}

// ParseProgram parses the entire token stream into a *ast.Program.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	startTok := p.cur.Current()
	var body []ast.Decl
	for !p.cur.Is(token.EOF) {
		d, err := p.parseTopLevelDecl()
		if err != nil {
			return nil, err
		}
		body = append(body, d)
	}
	return ast.NewProgram(startTok, body), nil
}

func (p *Parser) parseTopLevelDecl() (ast.Decl, error) {
	switch p.cur.Current().Kind {
	case token.KwStruct:
		return p.parseStructDecl()
	case token.KwClass:
		return p.parseClassDecl()
	case token.KwInterface:
		return p.parseInterfaceDecl()
	case token.KwTypedef:
		return p.parseFuncPtrDecl()
	default:
		return p.parseFunOrVarDecl()
	}
}
