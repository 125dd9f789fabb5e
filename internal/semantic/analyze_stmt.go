package semantic

import (
	"github.com/tinycplus/tcppc/internal/ast"
	tcerrors "github.com/tinycplus/tcppc/internal/errors"
)

func (a *Analyzer) analyzeBlock(b *ast.Block) error {
	prevScope := a.scope
	a.scope = a.scope.Push()
	for _, s := range b.Body {
		if err := a.analyzeStmt(s); err != nil {
			return err
		}
	}
	a.scope = prevScope
	return nil
}

func (a *Analyzer) analyzeStmt(s ast.Statement) error {
	switch v := s.(type) {
	case *ast.Block:
		return a.analyzeBlock(v)
	case *ast.VarDecl:
		return a.analyzeLocalVarDecl(v)
	case *ast.If:
		cond, err := a.analyzeExpr(v.Cond)
		if err != nil {
			return err
		}
		if !a.Registry.ConvertsToBool(cond) {
			return tcerrors.New(v.Cond.Pos(), "if condition must convert to bool")
		}
		if err := a.analyzeStmt(v.TrueCase); err != nil {
			return err
		}
		if v.FalseCase != nil {
			return a.analyzeStmt(v.FalseCase)
		}
		return nil
	case *ast.Switch:
		return a.analyzeSwitch(v)
	case *ast.While:
		cond, err := a.analyzeExpr(v.Cond)
		if err != nil {
			return err
		}
		if !a.Registry.ConvertsToBool(cond) {
			return tcerrors.New(v.Cond.Pos(), "while condition must convert to bool")
		}
		a.inLoop++
		err = a.analyzeStmt(v.Body)
		a.inLoop--
		return err
	case *ast.DoWhile:
		a.inLoop++
		err := a.analyzeStmt(v.Body)
		a.inLoop--
		if err != nil {
			return err
		}
		cond, err := a.analyzeExpr(v.Cond)
		if err != nil {
			return err
		}
		if !a.Registry.ConvertsToBool(cond) {
			return tcerrors.New(v.Cond.Pos(), "do-while condition must convert to bool")
		}
		return nil
	case *ast.For:
		prevScope := a.scope
		a.scope = a.scope.Push()
		defer func() { a.scope = prevScope }()
		if v.Init != nil {
			if err := a.analyzeStmt(v.Init); err != nil {
				return err
			}
		}
		if v.Cond != nil {
			cond, err := a.analyzeExpr(v.Cond)
			if err != nil {
				return err
			}
			if !a.Registry.ConvertsToBool(cond) {
				return tcerrors.New(v.Cond.Pos(), "for condition must convert to bool")
			}
		}
		if v.Post != nil {
			if err := a.analyzeStmt(v.Post); err != nil {
				return err
			}
		}
		a.inLoop++
		err := a.analyzeStmt(v.Body)
		a.inLoop--
		return err
	case *ast.Break:
		if a.inLoop == 0 {
			return tcerrors.New(v.Pos(), "break outside of a loop or switch")
		}
		return nil
	case *ast.Continue:
		if a.inLoop == 0 {
			return tcerrors.New(v.Pos(), "continue outside of a loop")
		}
		return nil
	case *ast.Return:
		return a.analyzeReturn(v)
	case *ast.ExprStmt:
		_, err := a.analyzeExpr(v.X)
		return err
	}
	return nil
}

func (a *Analyzer) analyzeSwitch(v *ast.Switch) error {
	cond, err := a.analyzeExpr(v.Cond)
	if err != nil {
		return err
	}
	if !a.Registry.IsPOD(cond) {
		return tcerrors.New(v.Cond.Pos(), "switch condition must be a primitive type")
	}
	a.inLoop++
	defer func() { a.inLoop-- }()
	seen := map[int64]bool{}
	for _, c := range v.Cases {
		if seen[c.Value] {
			return tcerrors.New(v.Pos(), "case %d already provided", c.Value)
		}
		seen[c.Value] = true
		for _, s := range c.Body {
			if err := a.analyzeStmt(s); err != nil {
				return err
			}
		}
	}
	for _, s := range v.DefaultBody {
		if err := a.analyzeStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyzeReturn(v *ast.Return) error {
	if v.Value == nil {
		return nil
	}
	t, err := a.analyzeExpr(v.Value)
	if err != nil {
		return err
	}
	if a.currentFunc != nil && t != a.currentFunc {
		return tcerrors.New(v.Pos(), "return type %s does not match function return type %s", t.String(), a.currentFunc.String())
	}
	return nil
}

func (a *Analyzer) analyzeLocalVarDecl(d *ast.VarDecl) error {
	if err := a.checkReserved(d.Name, d); err != nil {
		return err
	}
	if a.scope.DefinedHere(d.Name) {
		return tcerrors.New(d.Pos(), "%s already declared in this scope", d.Name)
	}
	t, err := a.resolveTypeExpr(d.Type)
	if err != nil {
		return err
	}
	if !t.IsFullyDefined() {
		return tcerrors.New(d.Pos(), "variable %s has incomplete type %s", d.Name, t.String())
	}
	d.SetType(t)
	if d.Value != nil {
		vt, err := a.analyzeExpr(d.Value)
		if err != nil {
			return err
		}
		if vt != t {
			return tcerrors.New(d.Pos(), "cannot initialize %s of type %s with value of type %s", d.Name, t.String(), vt.String())
		}
	}
	// A nil Value on a type requiring implicit construction is not an
	// error here: internal/lowering recognizes the case and emits the
	// automatic constructor call itself (spec §4.4).
	a.scope.Define(d.Name, t)
	return nil
}
