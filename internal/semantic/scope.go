package semantic

import "github.com/tinycplus/tcppc/internal/types"

// Scope is one level of the name-scope chain: function bodies, block
// statements, and for-loop headers each push one. Identifiers resolve
// by walking outward to the global scope, per spec §4.3.
type Scope struct {
	outer   *Scope
	symbols map[string]types.Type
}

// NewGlobalScope creates the outermost scope, holding top-level
// functions, structs-as-values (not applicable), and global variables.
func NewGlobalScope() *Scope {
	return &Scope{symbols: map[string]types.Type{}}
}

// Push opens a nested scope.
func (s *Scope) Push() *Scope {
	return &Scope{outer: s, symbols: map[string]types.Type{}}
}

// Define binds name to t in this scope. It does not check for
// shadowing; the caller decides whether redeclaration in the same
// scope is an error (it is, at function and block level; it is not
// across nested scopes, matching ordinary C block scoping).
func (s *Scope) Define(name string, t types.Type) {
	s.symbols[name] = t
}

// DefinedHere reports whether name is bound directly in this scope,
// ignoring outer scopes.
func (s *Scope) DefinedHere(name string) bool {
	_, ok := s.symbols[name]
	return ok
}

// Resolve looks up name in this scope and, failing that, each outer
// scope in turn.
func (s *Scope) Resolve(name string) (types.Type, bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if t, ok := cur.symbols[name]; ok {
			return t, true
		}
	}
	return nil, false
}
