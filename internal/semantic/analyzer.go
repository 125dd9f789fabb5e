// Package semantic type-checks a parsed TinyC+ program and lowers its
// object-model declarations into the internal/types registry, ready
// for internal/lowering to walk. It makes two passes over the top-level
// declarations (names first, then bodies); one located error aborts the
// run (spec §5, §7).
package semantic

import (
	"github.com/tinycplus/tcppc/internal/ast"
	tcerrors "github.com/tinycplus/tcppc/internal/errors"
	"github.com/tinycplus/tcppc/internal/ident"
	"github.com/tinycplus/tcppc/internal/types"
)

// Analyzer walks a *ast.Program, attaching a types.Type to every node
// via ast.Base.SetType and populating the shared Registry with
// structs, interfaces, and classes.
type Analyzer struct {
	Registry *types.Registry
	Mangler  ident.Mangler

	reservedPrefix string
	global         *Scope
	scope          *Scope
	currentFunc    types.Type // return type of the function/method being checked
	currentClass   *types.Class
	inLoop         int
}

// New creates an Analyzer sharing registry and mangler with the
// lowering emitter that will run after it.
func New(registry *types.Registry, mangler ident.Mangler, reservedPrefix string) *Analyzer {
	g := NewGlobalScope()
	return &Analyzer{
		Registry:       registry,
		Mangler:        mangler,
		reservedPrefix: reservedPrefix,
		global:         g,
		scope:          g,
	}
}

// Analyze type-checks prog and returns the first located error
// encountered, or nil on success.
func (a *Analyzer) Analyze(prog *ast.Program) error {
	// Pass 1: register every struct/class/interface name up front so
	// forward references resolve regardless of source order. Typedef
	// names are only checked here; they are bound in pass 2.
	for _, d := range prog.Body {
		if err := a.predeclare(d); err != nil {
			return err
		}
	}
	// Pass 2: fill in bodies, check function/global statements.
	for _, d := range prog.Body {
		if err := a.analyzeDecl(d); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) predeclare(d ast.Decl) error {
	switch v := d.(type) {
	case *ast.StructDecl:
		if err := a.checkReserved(v.Name, v); err != nil {
			return err
		}
		_, err := a.Registry.GetOrCreateStruct(v.Name)
		return a.wrap(err, v)
	case *ast.ClassDecl:
		if err := a.checkReserved(v.Name, v); err != nil {
			return err
		}
		_, _, err := a.Registry.GetOrCreateClass(v.Name)
		return a.wrap(err, v)
	case *ast.InterfaceDecl:
		if err := a.checkReserved(v.Name, v); err != nil {
			return err
		}
		_, err := a.Registry.GetOrCreateInterface(v.Name)
		return a.wrap(err, v)
	case *ast.FuncPtrDecl:
		return a.checkReserved(v.Name, v)
	}
	return nil
}

func (a *Analyzer) analyzeDecl(d ast.Decl) error {
	switch v := d.(type) {
	case *ast.StructDecl:
		return a.analyzeStructDecl(v)
	case *ast.ClassDecl:
		return a.analyzeClassDecl(v)
	case *ast.InterfaceDecl:
		return a.analyzeInterfaceDecl(v)
	case *ast.FuncPtrDecl:
		return a.analyzeFuncPtrDecl(v)
	case *ast.FuncDecl:
		return a.analyzeFuncDecl(v)
	case *ast.VarDecl:
		return a.analyzeGlobalVarDecl(v)
	}
	return nil
}

func (a *Analyzer) analyzeStructDecl(d *ast.StructDecl) error {
	s, err := a.Registry.GetOrCreateStruct(d.Name)
	if err != nil {
		return a.wrap(err, d)
	}
	d.SetType(s)
	if !d.IsDefinition {
		return nil
	}
	for _, f := range d.Fields {
		if err := a.checkReserved(f.Name, f); err != nil {
			return err
		}
		ft, err := a.resolveTypeExpr(f.Type)
		if err != nil {
			return err
		}
		if !ft.IsFullyDefined() {
			return tcerrors.New(f.Pos(), "field %s has incomplete type %s", f.Name, ft.String())
		}
		f.SetType(ft)
		if err := s.RegisterField(f.Name, ft, f.Pos()); err != nil {
			return a.wrap(err, f)
		}
	}
	s.MarkDefined()
	return nil
}

func (a *Analyzer) analyzeFuncPtrDecl(d *ast.FuncPtrDecl) error {
	ret, err := a.resolveTypeExpr(d.ReturnType)
	if err != nil {
		return err
	}
	args := make([]types.Type, len(d.Params))
	for i, p := range d.Params {
		t, err := a.resolveTypeExpr(p)
		if err != nil {
			return err
		}
		args[i] = t
	}
	fn := a.Registry.GetOrCreateFunction(&types.Function{Return: ret, Args: args})
	ptr := a.Registry.GetOrCreatePointer(fn)
	if _, err := a.Registry.CreateAlias(d.Name, ptr); err != nil {
		return a.wrap(err, d)
	}
	d.SetType(ptr)
	return nil
}

func (a *Analyzer) analyzeFuncDecl(d *ast.FuncDecl) error {
	if err := a.checkReserved(d.Name, d); err != nil {
		return err
	}
	ret, err := a.resolveTypeExpr(d.ReturnType)
	if err != nil {
		return err
	}
	argTypes := make([]types.Type, len(d.Params))
	for i, p := range d.Params {
		t, err := a.resolveTypeExpr(p.Type)
		if err != nil {
			return err
		}
		argTypes[i] = t
	}
	fn := a.Registry.GetOrCreateFunction(&types.Function{Return: ret, Args: argTypes})
	d.SetType(fn)
	a.global.Define(d.Name, fn)
	if d.Body == nil {
		return nil
	}
	prevFunc, prevScope := a.currentFunc, a.scope
	a.currentFunc = ret
	a.scope = a.global.Push()
	for i, p := range d.Params {
		if err := a.checkReserved(p.Name, d); err != nil {
			return err
		}
		a.scope.Define(p.Name, argTypes[i])
	}
	err = a.analyzeBlock(d.Body)
	a.currentFunc, a.scope = prevFunc, prevScope
	return err
}

func (a *Analyzer) analyzeGlobalVarDecl(d *ast.VarDecl) error {
	if err := a.checkReserved(d.Name, d); err != nil {
		return err
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
	a.global.Define(d.Name, t)
	return nil
}

func (a *Analyzer) checkReserved(name string, n ast.Node) error {
	if ident.IsReserved(name, a.reservedPrefix) {
		return tcerrors.New(n.Pos(), "name %s is reserved", name)
	}
	return nil
}

func (a *Analyzer) wrap(err error, n ast.Node) error {
	if err == nil {
		return nil
	}
	return tcerrors.New(n.Pos(), "%s", err.Error())
}
