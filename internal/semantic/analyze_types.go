package semantic

import (
	"github.com/tinycplus/tcppc/internal/ast"
	tcerrors "github.com/tinycplus/tcppc/internal/errors"
	"github.com/tinycplus/tcppc/internal/types"
)

// resolveTypeExpr turns a syntactic type expression into a registry
// type, creating not-yet-defined structs/classes/interfaces on demand
// so forward references (a field of a not-yet-seen class) resolve.
func (a *Analyzer) resolveTypeExpr(te ast.TypeExpr) (types.Type, error) {
	switch v := te.(type) {
	case *ast.NamedType:
		if t := a.Registry.GetType(v.Name); t != nil {
			v.SetType(t)
			return t, nil
		}
		// Not seen yet: could be a class/struct/interface referenced
		// before its declaration appears in source order.
		if c, _, err := a.Registry.GetOrCreateClass(v.Name); err == nil {
			v.SetType(c)
			return c, nil
		}
		return nil, tcerrors.New(v.Pos(), "unknown type %s", v.Name)
	case *ast.PointerType:
		base, err := a.resolveTypeExpr(v.BaseType)
		if err != nil {
			return nil, err
		}
		p := a.Registry.GetOrCreatePointer(base)
		v.SetType(p)
		return p, nil
	case *ast.ArrayType:
		base, err := a.resolveTypeExpr(v.BaseType)
		if err != nil {
			return nil, err
		}
		// arrays are treated as pointers once resolved (spec §4.3's
		// index-operand rule collapses the two representations).
		p := a.Registry.GetOrCreatePointer(base)
		v.SetType(p)
		return p, nil
	default:
		return nil, tcerrors.New(te.Pos(), "unsupported type expression")
	}
}
