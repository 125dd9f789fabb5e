package semantic

import (
	"github.com/tinycplus/tcppc/internal/ast"
	tcerrors "github.com/tinycplus/tcppc/internal/errors"
	"github.com/tinycplus/tcppc/internal/types"
)

// analyzeClassDecl implements spec §4.3's class analysis order:
// (a) retrieve/create the class type, (b) wire the base class and copy
// its vtable slots, (c) analyze fields, (d) analyze methods (building
// function types, registering vtable slots for virtual ones),
// (e) validate overrides and interface satisfaction.
func (a *Analyzer) analyzeClassDecl(d *ast.ClassDecl) error {
	class, _, err := a.Registry.GetOrCreateClass(d.Name)
	if err != nil {
		return a.wrap(err, d)
	}
	d.SetType(class)
	if !d.IsDefinition {
		return nil
	}

	if d.BaseClass != nil {
		baseType, err := a.resolveTypeExpr(d.BaseClass)
		if err != nil {
			return err
		}
		base, ok := baseType.(*types.Class)
		if !ok {
			return tcerrors.New(d.BaseClass.Pos(), "%s is not a class", baseType.String())
		}
		class.SetBase(base)
	}

	for _, it := range d.Interfaces {
		ifaceType, err := a.resolveTypeExpr(it)
		if err != nil {
			return err
		}
		iface, ok := ifaceType.(*types.Interface)
		if !ok {
			return tcerrors.New(it.Pos(), "%s is not an interface", ifaceType.String())
		}
		class.Implements(iface)
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
		if err := class.RegisterField(f.Name, ft, f.Pos()); err != nil {
			return a.wrap(err, f)
		}
	}

	thisPtr := a.Registry.GetOrCreatePointer(class)
	for _, m := range d.Methods {
		if err := a.registerClassMethod(class, thisPtr, m); err != nil {
			return err
		}
	}
	for _, c := range d.Constructors {
		if err := a.registerConstructor(class, thisPtr, c); err != nil {
			return err
		}
	}

	for _, iface := range class.Interfaces() {
		if err := a.checkInterfaceSatisfaction(class, iface, d); err != nil {
			return err
		}
	}

	for _, m := range d.Methods {
		if m.Body != nil {
			if err := a.analyzeMethodBody(class, thisPtr, m); err != nil {
				return err
			}
		}
	}
	for _, c := range d.Constructors {
		if err := a.analyzeConstructorBody(class, c); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) registerClassMethod(class *types.Class, thisPtr types.Type, m *ast.MethodDecl) error {
	if err := a.checkReserved(m.Name, m); err != nil {
		return err
	}
	ret, err := a.resolveTypeExpr(m.ReturnType)
	if err != nil {
		return err
	}
	argTypes := make([]types.Type, 0, len(m.Params)+1)
	argTypes = append(argTypes, thisPtr)
	for _, p := range m.Params {
		t, err := a.resolveTypeExpr(p.Type)
		if err != nil {
			return err
		}
		argTypes = append(argTypes, t)
	}
	fn := &types.Method{Function: types.Function{Return: ret, Args: argTypes}, Owner: class}

	virtual, override, abstract := methodFlags(m.Virtuality)
	if m.Body == nil && !abstract {
		return tcerrors.New(m.Pos(), "method %s was declared but its body was not defined", m.Name)
	}
	if m.Body != nil && abstract {
		return tcerrors.New(m.Pos(), "abstract method %s must not have a body", m.Name)
	}
	mi, err := class.RegisterMethod(a.Mangler, m.Name, fn, m.Pos(), virtual, override, abstract)
	if err != nil {
		return a.wrap(err, m)
	}
	m.SetType(mi.Func)
	return nil
}

// methodFlags maps the single Virtuality production to the three
// independent flags types.Class.RegisterMethod takes: override and
// abstract both imply virtual dispatch.
func methodFlags(v ast.Virtuality) (virtual, override, abstract bool) {
	switch v {
	case ast.VirtualityVirtual:
		return true, false, false
	case ast.VirtualityOverride:
		return true, true, false
	case ast.VirtualityAbstract:
		return true, false, true
	default:
		return false, false, false
	}
}

func (a *Analyzer) registerConstructor(class *types.Class, thisPtr types.Type, c *ast.MethodDecl) error {
	if c.Name != class.Name() {
		return tcerrors.New(c.Pos(), "constructor name %s does not match class %s", c.Name, class.Name())
	}
	if c.Delegate != nil {
		if class.Base == nil {
			return tcerrors.New(c.Pos(), "%s has no base class to delegate to", class.Name())
		}
		if c.Delegate.BaseName != class.Base.Name() {
			return tcerrors.New(c.Pos(), "delegated constructor names %s, base class is %s", c.Delegate.BaseName, class.Base.Name())
		}
	}
	argTypes := make([]types.Type, 0, len(c.Params)+1)
	argTypes = append(argTypes, thisPtr)
	for _, p := range c.Params {
		t, err := a.resolveTypeExpr(p.Type)
		if err != nil {
			return err
		}
		argTypes = append(argTypes, t)
	}
	fn := &types.Method{Function: types.Function{Return: class, Args: argTypes}, Owner: class}
	c.SetType(fn)
	class.RegisterConstructor(fn)
	return nil
}

func (a *Analyzer) checkInterfaceSatisfaction(class *types.Class, iface *types.Interface, at ast.Node) error {
	for _, fi := range iface.FieldsOrdered() {
		mi, ok := class.GetMethodInfo(fi.Name)
		if !ok {
			return tcerrors.New(at.Pos(), "class %s does not implement method %s required by interface %s", class.Name(), fi.Name, iface.Name())
		}
		wantFn, ok := fi.Type.(*types.Function)
		if !ok {
			continue
		}
		if !signatureMatchesIgnoringReceiver(mi.Func, wantFn) {
			return tcerrors.New(at.Pos(), "class %s method %s does not match signature required by interface %s", class.Name(), fi.Name, iface.Name())
		}
	}
	return nil
}

// signatureMatchesIgnoringReceiver compares a class method's function
// type against an interface method's, ignoring both synthetic receiver
// arguments (a class receives pointer-to-class, an interface method
// receives pointer-to-interface, so their printed forms never match).
func signatureMatchesIgnoringReceiver(have *types.Method, want *types.Function) bool {
	if have.Return.String() != want.Return.String() {
		return false
	}
	if len(have.Args)-1 != len(want.Args)-1 {
		return false
	}
	for i := 1; i < len(want.Args); i++ {
		if have.Args[i].String() != want.Args[i].String() {
			return false
		}
	}
	return true
}

func (a *Analyzer) analyzeMethodBody(class *types.Class, thisPtr types.Type, m *ast.MethodDecl) error {
	prevFunc, prevScope, prevClass := a.currentFunc, a.scope, a.currentClass
	a.currentClass = class
	mi, _ := class.GetMethodInfo(m.Name)
	a.currentFunc = mi.Func.Return
	a.scope = a.global.Push()
	a.scope.Define("this", thisPtr)
	for _, p := range m.Params {
		pt, err := a.resolveTypeExpr(p.Type)
		if err != nil {
			return err
		}
		a.scope.Define(p.Name, pt)
	}
	err := a.analyzeBlock(m.Body)
	a.currentFunc, a.scope, a.currentClass = prevFunc, prevScope, prevClass
	return err
}

// analyzeConstructorBody binds "this" to the class value type, not a
// pointer: a constructor builds its result in a local of the struct's
// own type and returns it by value (spec §8 Scenario A), unlike a
// method body where "this" is always a pointer receiver.
func (a *Analyzer) analyzeConstructorBody(class *types.Class, c *ast.MethodDecl) error {
	prevFunc, prevScope, prevClass := a.currentFunc, a.scope, a.currentClass
	a.currentClass = class
	a.currentFunc = class
	a.scope = a.global.Push()
	a.scope.Define("this", class)
	for _, p := range c.Params {
		pt, err := a.resolveTypeExpr(p.Type)
		if err != nil {
			return err
		}
		a.scope.Define(p.Name, pt)
	}
	var err error
	if c.Body != nil {
		err = a.analyzeBlock(c.Body)
	}
	a.currentFunc, a.scope, a.currentClass = prevFunc, prevScope, prevClass
	return err
}

func (a *Analyzer) analyzeInterfaceDecl(d *ast.InterfaceDecl) error {
	iface, err := a.Registry.GetOrCreateInterface(d.Name)
	if err != nil {
		return a.wrap(err, d)
	}
	d.SetType(iface)
	for _, m := range d.Methods {
		if err := a.checkReserved(m.Name, m); err != nil {
			return err
		}
		if m.Body != nil {
			return tcerrors.New(m.Pos(), "interface method %s must not have a body", m.Name)
		}
		ret, err := a.resolveTypeExpr(m.ReturnType)
		if err != nil {
			return err
		}
		argTypes := make([]types.Type, 0, len(m.Params)+1)
		argTypes = append(argTypes, a.Registry.GetOrCreatePointer(iface))
		for _, p := range m.Params {
			t, err := a.resolveTypeExpr(p.Type)
			if err != nil {
				return err
			}
			argTypes = append(argTypes, t)
		}
		fn := a.Registry.GetOrCreateFunction(&types.Function{Return: ret, Args: argTypes})
		m.SetType(fn)
		if err := iface.RegisterField(m.Name, fn, m.Pos()); err != nil {
			return a.wrap(err, m)
		}
	}
	return nil
}
