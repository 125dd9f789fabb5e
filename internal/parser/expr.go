package parser

import (
	"strconv"
	"strings"

	"github.com/tinycplus/tcppc/internal/ast"
	"github.com/tinycplus/tcppc/internal/token"
)

// parseExpression is EXPR: a right-associative assignment on top of the
// nine-level binary-operator ladder below (spec §4.1).
func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() (ast.Expression, error) {
	left, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if p.cur.Is(token.ASSIGN) {
		tok := p.cur.Current()
		p.advance()
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return ast.NewAssignment(tok, "=", left, value), nil
	}
	return left, nil
}

// binaryLevel is one rung of the precedence ladder: match ops at this
// level left-associatively, recursing into next for each operand.
func (p *Parser) binaryLevel(next func() (ast.Expression, error), ops ...token.Kind) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		matched := false
		for _, k := range ops {
			if p.cur.Is(k) {
				matched = true
				break
			}
		}
		if !matched {
			return left, nil
		}
		tok := p.cur.Current()
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(tok, tok.Kind.String(), left, right)
	}
}

func (p *Parser) parseLogicalOr() (ast.Expression, error) {
	return p.binaryLevel(p.parseLogicalAnd, token.OR)
}
func (p *Parser) parseLogicalAnd() (ast.Expression, error) {
	return p.binaryLevel(p.parseBitOr, token.AND)
}
func (p *Parser) parseBitOr() (ast.Expression, error) {
	return p.binaryLevel(p.parseBitAnd, token.PIPE)
}
func (p *Parser) parseBitAnd() (ast.Expression, error) {
	return p.binaryLevel(p.parseEquality, token.AMP)
}
func (p *Parser) parseEquality() (ast.Expression, error) {
	return p.binaryLevel(p.parseRelational, token.EQ, token.NE)
}
func (p *Parser) parseRelational() (ast.Expression, error) {
	return p.binaryLevel(p.parseShift, token.LT, token.LE, token.GT, token.GE)
}
func (p *Parser) parseShift() (ast.Expression, error) {
	return p.binaryLevel(p.parseAdditive, token.SHL, token.SHR)
}
func (p *Parser) parseAdditive() (ast.Expression, error) {
	return p.binaryLevel(p.parseMultiplicative, token.PLUS, token.MINUS)
}
func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	return p.binaryLevel(p.parseUnary, token.STAR, token.SLASH, token.PERCENT)
}

// parseUnary is E_UNARY_PRE: the prefix operators + - ! ~ ++ -- * &.
func (p *Parser) parseUnary() (ast.Expression, error) {
	tok := p.cur.Current()
	switch tok.Kind {
	case token.PLUS, token.MINUS, token.BANG, token.TILDE, token.INC, token.DEC:
		p.advance()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(tok, tok.Kind.String(), arg), nil
	case token.STAR:
		p.advance()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewDeref(tok, arg), nil
	case token.AMP:
		p.advance()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewAddress(tok, arg), nil
	}
	return p.parsePostfix()
}

// parsePostfix is E_CALL_INDEX_MEMBER_POST: a chain of call, index,
// member access, and postfix increment/decrement applied to a primary
// expression. A call directly on a bare identifier that names a known
// type is a constructor call; no separate AST shape is needed for that
// since Call.Function being such an Identifier is enough for the
// analyzer to tell the two apart (spec §4.2's constructor-call rule).
func (p *Parser) parsePostfix() (ast.Expression, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Current().Kind {
		case token.LPAREN:
			tok := p.cur.Current()
			p.advance()
			var args []ast.Expression
			if !p.cur.Is(token.RPAREN) {
				for {
					a, err := p.parseExpression()
					if err != nil {
						return nil, err
					}
					args = append(args, a)
					if !p.cur.Is(token.COMMA) {
						break
					}
					p.advance()
				}
			}
			if _, err := p.expect(token.RPAREN, ")"); err != nil {
				return nil, err
			}
			x = ast.NewCall(tok, x, args)
		case token.LBRACKET:
			tok := p.cur.Current()
			p.advance()
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET, "]"); err != nil {
				return nil, err
			}
			x = ast.NewIndex(tok, x, idx)
		case token.DOT, token.ARROW:
			tok := p.cur.Current()
			arrow := tok.Kind == token.ARROW
			p.advance()
			nameTok, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			x = ast.NewMember(tok, x, nameTok.Literal, arrow)
		case token.INC, token.DEC:
			tok := p.cur.Current()
			p.advance()
			x = ast.NewUnaryPostOp(tok, tok.Kind.String(), x)
		default:
			return x, nil
		}
	}
}

// parsePrimary is F: an integer/double/char/string literal, a
// `cast<TYPE>(EXPR)` expression, an identifier (including `this` and
// `base`), or a parenthesized expression.
func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.cur.Current()
	switch tok.Kind {
	case token.INT:
		p.advance()
		v, err := strconv.ParseInt(tok.Literal, 0, 64)
		if err != nil {
			return nil, p.errorf("invalid integer literal %q", tok.Literal)
		}
		return ast.NewIntegerLit(tok, v), nil
	case token.DOUBLE:
		p.advance()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.errorf("invalid double literal %q", tok.Literal)
		}
		return ast.NewDoubleLit(tok, v), nil
	case token.CHAR:
		p.advance()
		return ast.NewCharLit(tok, unescapeChar(tok.Literal)), nil
	case token.STRING:
		p.advance()
		return ast.NewStringLit(tok, unescapeString(tok.Literal)), nil
	case token.KwCast:
		return p.parseCastExpr()
	case token.IDENT, token.KwThis, token.KwBase:
		p.advance()
		return ast.NewIdentifier(tok, tok.Literal), nil
	case token.LPAREN:
		p.advance()
		x, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, ")"); err != nil {
			return nil, err
		}
		return x, nil
	}
	return nil, p.errorf("unexpected token %s in expression", tok.Kind)
}

// parseCastExpr parses `cast '<' TYPE '>' '(' EXPR ')'`.
func (p *Parser) parseCastExpr() (ast.Expression, error) {
	start, err := p.expect(token.KwCast, "cast")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LT, "<"); err != nil {
		return nil, err
	}
	target, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.GT, ">"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN, "("); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	return ast.NewCast(start, value, target), nil
}

// unescapeChar and unescapeString interpret the backslash escapes the
// lexer passes through unresolved (spec §4.1's lexical grammar keeps
// escape handling out of the lexer).
var charEscapes = map[byte]byte{
	'n': '\n', 't': '\t', 'r': '\r', '0': 0,
	'\\': '\\', '\'': '\'', '"': '"',
}

func unescapeChar(lit string) byte {
	if len(lit) == 2 && lit[0] == '\\' {
		if v, ok := charEscapes[lit[1]]; ok {
			return v
		}
		return lit[1]
	}
	if len(lit) >= 1 {
		return lit[0]
	}
	return 0
}

func unescapeString(lit string) string {
	var sb strings.Builder
	for i := 0; i < len(lit); i++ {
		c := lit[i]
		if c == '\\' && i+1 < len(lit) {
			i++
			if v, ok := charEscapes[lit[i]]; ok {
				sb.WriteByte(v)
			} else {
				sb.WriteByte(lit[i])
			}
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
