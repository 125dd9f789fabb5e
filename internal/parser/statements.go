package parser

import (
	"strconv"

	"github.com/tinycplus/tcppc/internal/ast"
	"github.com/tinycplus/tcppc/internal/token"
)

// parseBlock parses `'{' {STATEMENT} '}'`.
func (p *Parser) parseBlock() (*ast.Block, error) {
	start, err := p.expect(token.LBRACE, "{")
	if err != nil {
		return nil, err
	}
	var body []ast.Statement
	for !p.cur.Is(token.RBRACE) {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, s)
	}
	p.advance()
	return ast.NewBlock(start, body), nil
}

// parseStatement dispatches STATEMENT over the block/control-flow/jump
// keywords, falling back to EXPR_OR_VAR_DECL for anything else.
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur.Current().Kind {
	case token.LBRACE:
		return p.parseBlock()
	case token.KwIf:
		return p.parseIf()
	case token.KwSwitch:
		return p.parseSwitch()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDoWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwBreak:
		return p.parseBreak()
	case token.KwContinue:
		return p.parseContinue()
	case token.KwReturn:
		return p.parseReturn()
	default:
		return p.parseExprOrVarDeclStmt()
	}
}

func (p *Parser) parseIf() (ast.Statement, error) {
	start, err := p.expect(token.KwIf, "if")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN, "("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	trueCase, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var falseCase ast.Statement
	if p.cur.Is(token.KwElse) {
		p.advance()
		falseCase, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIf(start, cond, trueCase, falseCase), nil
}

// parseSwitch parses `switch '(' EXPR ')' '{' {CASE_BODY} '}'`, rejecting
// a case value or a default clause repeated within the same switch.
func (p *Parser) parseSwitch() (ast.Statement, error) {
	start, err := p.expect(token.KwSwitch, "switch")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN, "("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE, "{"); err != nil {
		return nil, err
	}
	var cases []ast.SwitchCase
	var defaultBody []ast.Statement
	haveDefault := false
	seen := map[int64]bool{}
	for !p.cur.Is(token.RBRACE) {
		switch p.cur.Current().Kind {
		case token.KwCase:
			p.advance()
			valTok, err := p.expect(token.INT, "integer literal")
			if err != nil {
				return nil, err
			}
			val, err := strconv.ParseInt(valTok.Literal, 0, 64)
			if err != nil {
				return nil, p.errorf("invalid case value %q", valTok.Literal)
			}
			if seen[val] {
				return nil, p.errorf("duplicate case value %d", val)
			}
			seen[val] = true
			if _, err := p.expect(token.COLON, ":"); err != nil {
				return nil, err
			}
			body, err := p.parseCaseBody()
			if err != nil {
				return nil, err
			}
			cases = append(cases, ast.SwitchCase{Value: val, Body: body})
		case token.KwDefault:
			if haveDefault {
				return nil, p.errorf("switch statement already has a default case")
			}
			haveDefault = true
			p.advance()
			if _, err := p.expect(token.COLON, ":"); err != nil {
				return nil, err
			}
			body, err := p.parseCaseBody()
			if err != nil {
				return nil, err
			}
			defaultBody = body
		default:
			return nil, p.errorf("expected case or default, got %s", p.cur.Current().Kind)
		}
	}
	p.advance()
	return ast.NewSwitch(start, cond, cases, defaultBody), nil
}

// parseCaseBody collects statements up to (not including) the next case
// label, default label, or the closing brace.
func (p *Parser) parseCaseBody() ([]ast.Statement, error) {
	var body []ast.Statement
	for !p.cur.Is(token.KwCase) && !p.cur.Is(token.KwDefault) && !p.cur.Is(token.RBRACE) {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, s)
	}
	return body, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	start, err := p.expect(token.KwWhile, "while")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN, "("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(start, cond, body), nil
}

func (p *Parser) parseDoWhile() (ast.Statement, error) {
	start, err := p.expect(token.KwDo, "do")
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwWhile, "while"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN, "("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	return ast.NewDoWhile(start, body, cond), nil
}

// parseFor parses `for '(' [EXPR_OR_VAR_DECL] ';' [EXPR] ';' [EXPR] ')'
// STATEMENT`. Init holds at most a single declarator or expression
// statement; a comma-separated multi-declarator init clause, like a
// bare `int a, b;` field list, has no single-statement representation
// here and is not accepted.
func (p *Parser) parseFor() (ast.Statement, error) {
	start, err := p.expect(token.KwFor, "for")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN, "("); err != nil {
		return nil, err
	}
	var init ast.Statement
	if !p.cur.Is(token.SEMICOLON) {
		init, err = p.parseExprOrVarDeclNoSemi()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	var cond ast.Expression
	if !p.cur.Is(token.SEMICOLON) {
		cond, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	var post ast.Statement
	if !p.cur.Is(token.RPAREN) {
		postTok := p.cur.Current()
		postExpr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		post = ast.NewExprStmt(postTok, postExpr)
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return ast.NewFor(start, init, cond, post, body), nil
}

func (p *Parser) parseBreak() (ast.Statement, error) {
	start, err := p.expect(token.KwBreak, "break")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	return ast.NewBreak(start), nil
}

func (p *Parser) parseContinue() (ast.Statement, error) {
	start, err := p.expect(token.KwContinue, "continue")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	return ast.NewContinue(start), nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	start, err := p.expect(token.KwReturn, "return")
	if err != nil {
		return nil, err
	}
	var value ast.Expression
	if !p.cur.Is(token.SEMICOLON) {
		value, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	return ast.NewReturn(start, value), nil
}

// parseExprOrVarDeclStmt implements EXPR_OR_VAR_DECL at statement level:
// a type start speculatively tries a local variable declaration,
// falling back to an expression statement on failure, matching the
// grammar's disambiguation technique for the `A * b;` case (spec §4.1).
func (p *Parser) parseExprOrVarDeclStmt() (ast.Statement, error) {
	s, err := p.parseExprOrVarDeclNoSemi()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *Parser) parseExprOrVarDeclNoSemi() (ast.Statement, error) {
	if p.isTypeStart() {
		cp := p.checkpoint()
		if d, err := p.parseVarDecl(false); err == nil {
			return d, nil
		}
		p.rewind(cp)
	}
	start := p.cur.Current()
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewExprStmt(start, x), nil
}
