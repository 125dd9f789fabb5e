// Package parser implements the disambiguating recursive-descent parser
// of spec §4.1: a token stream goes in, an *ast.Program comes out, with
// a mutable tentative-type-name set resolving the `A * b` ambiguity and
// full checkpoint/rewind support for speculative productions.
package parser

import (
	"github.com/tinycplus/tcppc/internal/lexer"
	"github.com/tinycplus/tcppc/internal/token"
)

// TokenCursor is an immutable-per-step lookahead buffer over a lexer.
// Every navigation method returns a new cursor rather than mutating the
// receiver, so a parser function can freely try a production and throw
// its cursor away on failure.
type TokenCursor struct {
	lexer   *lexer.Lexer
	tokens  []token.Token
	index   int
}

// NewTokenCursor buffers the first token from l and returns a cursor
// positioned there.
func NewTokenCursor(l *lexer.Lexer) *TokenCursor {
	tokens := make([]token.Token, 1, 32)
	tokens[0] = l.NextToken()
	return &TokenCursor{lexer: l, tokens: tokens}
}

// Current returns the token at the cursor's position.
func (c *TokenCursor) Current() token.Token {
	return c.tokens[c.index]
}

// Peek returns the token n positions ahead; Peek(0) is Current().
func (c *TokenCursor) Peek(n int) token.Token {
	target := c.index + n
	for target >= len(c.tokens) {
		last := c.tokens[len(c.tokens)-1]
		if last.Kind == token.EOF {
			break
		}
		c.tokens = append(c.tokens, c.lexer.NextToken())
	}
	if target >= len(c.tokens) {
		target = len(c.tokens) - 1
	}
	return c.tokens[target]
}

// Advance returns a cursor positioned one token ahead.
func (c *TokenCursor) Advance() *TokenCursor {
	c.Peek(1)
	idx := c.index + 1
	if idx >= len(c.tokens) {
		idx = len(c.tokens) - 1
	}
	return &TokenCursor{lexer: c.lexer, tokens: c.tokens, index: idx}
}

// Is reports whether the current token has kind k.
func (c *TokenCursor) Is(k token.Kind) bool {
	return c.Current().Kind == k
}

// PeekIs reports whether the token n positions ahead has kind k.
func (c *TokenCursor) PeekIs(n int, k token.Kind) bool {
	return c.Peek(n).Kind == k
}

// Mark is a lightweight saved cursor position.
type Mark struct {
	index int
}

// Mark saves the current position.
func (c *TokenCursor) Mark() Mark { return Mark{index: c.index} }

// ResetTo returns a cursor rewound to a previously saved Mark. The token
// buffer is shared, so this never re-lexes.
func (c *TokenCursor) ResetTo(m Mark) *TokenCursor {
	return &TokenCursor{lexer: c.lexer, tokens: c.tokens, index: m.index}
}
