// Package lowering implements the emitter of spec §4.4: it walks a
// type-checked *ast.Program and produces plain TinyC text with every
// object-oriented construct rewritten into explicit structs, function
// pointers, and mangled free functions.
package lowering

import (
	"fmt"
	"strings"

	"github.com/tinycplus/tcppc/internal/ast"
	tcerrors "github.com/tinycplus/tcppc/internal/errors"
	"github.com/tinycplus/tcppc/internal/ident"
	"github.com/tinycplus/tcppc/internal/types"
)

// Emitter lowers a type-checked program to target text. It shares the
// Registry and Mangler the preceding semantic.Analyzer used, so every
// Type pointer it sees is already interned and every mangled name it
// produces matches the one the analyzer recorded.
type Emitter struct {
	reg           *types.Registry
	mgl           ident.Mangler
	entryFunction string
	w             *writer

	currentClass *types.Class

	classDecls    map[string]*ast.ClassDecl
	slotOrigin    map[*types.Class]map[string]string
	fieldDefaults map[*types.Class]map[string]ast.Expression
	vtableInits   []string
}

// New creates an Emitter sharing reg and mgl with the analyzer that
// produced the program being lowered. entryFunction names the function
// that must run every class's vtable initializer before anything else;
// it defaults to "main".
func New(reg *types.Registry, mgl ident.Mangler, entryFunction string) *Emitter {
	if entryFunction == "" {
		entryFunction = "main"
	}
	return &Emitter{
		reg:           reg,
		mgl:           mgl,
		entryFunction: entryFunction,
		classDecls:    map[string]*ast.ClassDecl{},
		slotOrigin:    map[*types.Class]map[string]string{},
		fieldDefaults: map[*types.Class]map[string]ast.Expression{},
	}
}

// Emit lowers prog and returns the generated target text.
func (e *Emitter) Emit(prog *ast.Program) (string, error) {
	e.w = newWriter()
	for _, d := range prog.Body {
		if cd, ok := d.(*ast.ClassDecl); ok {
			e.classDecls[cd.Name] = cd
		}
	}
	for _, d := range prog.Body {
		if err := e.emitDecl(d); err != nil {
			return "", err
		}
	}
	return e.w.String(), nil
}

func (e *Emitter) emitDecl(d ast.Decl) error {
	switch v := d.(type) {
	case *ast.StructDecl:
		return e.emitStructDecl(v)
	case *ast.ClassDecl:
		return e.emitClassDecl(v)
	case *ast.InterfaceDecl:
		// Interfaces are a compile-time-only structural contract: they
		// never own storage or code, so nothing is emitted for one.
		return nil
	case *ast.FuncPtrDecl:
		return e.emitFuncPtrDecl(v)
	case *ast.FuncDecl:
		return e.emitFuncDecl(v)
	case *ast.VarDecl:
		return e.emitGlobalVarDecl(v)
	}
	return tcerrors.New(d.Pos(), "lowering: unsupported top-level declaration")
}

// ---------------------------------------------------------- type text

func (e *Emitter) typeString(t types.Type) string {
	t = types.Unwrap(t)
	if p, ok := t.(*types.Pointer); ok {
		return e.typeString(p.Base()) + "*"
	}
	return t.String()
}

func (e *Emitter) declString(t types.Type, name string) string {
	ts := e.typeString(t)
	if strings.HasSuffix(ts, "*") {
		return ts + name
	}
	return ts + " " + name
}

func (e *Emitter) isPointerExpr(x ast.Expression) bool {
	t := x.Type()
	if t == nil {
		return false
	}
	return types.Unwrap(t).IsPointer()
}

func resolvedType(n ast.Node) (types.Type, error) {
	if n.Type() == nil {
		return nil, tcerrors.New(n.Pos(), "lowering: node has no resolved type")
	}
	return n.Type(), nil
}

// --------------------------------------------------------------structs

func (e *Emitter) emitStructDecl(d *ast.StructDecl) error {
	if !d.IsDefinition {
		return nil
	}
	e.w.Printf("typedef struct %s {", d.Name)
	e.w.NewLine()
	e.w.Indent()
	for _, f := range d.Fields {
		ft, err := resolvedType(f)
		if err != nil {
			return err
		}
		e.w.Printf("%s;", e.declString(ft, f.Name))
		e.w.NewLine()
	}
	e.w.Dedent()
	e.w.Printf("} %s;", d.Name)
	e.w.NewLine()
	e.w.Blank()
	return nil
}

// ----------------------------------------------------- free functions

func (e *Emitter) emitFuncPtrDecl(d *ast.FuncPtrDecl) error {
	ret, err := resolvedType(d)
	if err != nil {
		return err
	}
	ptr, ok := types.Unwrap(ret).(*types.Pointer)
	if !ok {
		return tcerrors.New(d.Pos(), "lowering: function pointer typedef did not resolve to a pointer")
	}
	fn, ok := ptr.Base().(*types.Function)
	if !ok {
		return tcerrors.New(d.Pos(), "lowering: function pointer typedef did not resolve to a function")
	}
	e.emitFnPtrTypedef(d.Name, fn)
	return nil
}

func (e *Emitter) emitFnPtrTypedef(name string, fn *types.Function) {
	params := make([]string, 0, len(fn.Args))
	for _, a := range fn.Args {
		params = append(params, e.typeString(a))
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	e.w.Printf("typedef %s (*%s)(%s);", e.typeString(fn.Return), name, strings.Join(params, ", "))
	e.w.NewLine()
	e.w.Blank()
}

func (e *Emitter) emitFuncDecl(d *ast.FuncDecl) error {
	ret, err := resolvedType(d)
	if err != nil {
		return err
	}
	fn, ok := ret.(*types.Function)
	if !ok {
		return tcerrors.New(d.Pos(), "lowering: function declaration did not resolve to a function type")
	}
	params := make([]string, 0, len(d.Params))
	for i, p := range d.Params {
		params = append(params, e.declString(fn.Args[i], p.Name))
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	e.w.Printf("%s %s(%s)", e.typeString(fn.Return), d.Name, strings.Join(params, ", "))
	if d.Body == nil {
		e.w.Raw(";")
		e.w.NewLine()
		e.w.Blank()
		return nil
	}
	e.w.Raw(" {")
	e.w.NewLine()
	e.w.Indent()
	if d.Name == e.entryFunction {
		for _, init := range e.vtableInits {
			e.w.Printf("%s();", init)
			e.w.NewLine()
		}
	}
	for _, s := range d.Body.Body {
		if err := e.emitStatement(s); err != nil {
			return err
		}
	}
	e.w.Dedent()
	e.w.Raw("}")
	e.w.NewLine()
	e.w.Blank()
	return nil
}

func (e *Emitter) emitGlobalVarDecl(d *ast.VarDecl) error {
	t, err := resolvedType(d)
	if err != nil {
		return err
	}
	e.w.Printf("%s", e.declString(t, d.Name))
	init, err := e.varInitializerText(d, t)
	if err != nil {
		return err
	}
	e.w.Raw(init)
	e.w.Raw(";")
	e.w.NewLine()
	return nil
}

// varInitializerText applies spec §4.4's automatic-constructor rule: a
// complex-typed declaration with no written initializer gets one
// inserted, calling whichever constructor the declared type resolves
// to with zero arguments.
func (e *Emitter) varInitializerText(d *ast.VarDecl, t types.Type) (string, error) {
	if d.Value != nil {
		text, err := e.exprString(d.Value)
		if err != nil {
			return "", err
		}
		return " = " + text, nil
	}
	cplx, ok := types.Unwrap(t).(types.Complex)
	if !ok || !cplx.RequiresImplicitConstruction() {
		return "", nil
	}
	return fmt.Sprintf(" = %s()", e.constructorNameFor(cplx.Name(), 0)), nil
}

// constructorNameFor resolves which mangled constructor name a
// zero-argument-position-aware call to className should use: the plain
// implicit/single-explicit-constructor name, or (for a class declaring
// more than one explicit constructor) the overload whose parameter
// count matches argc, falling back to the first declared one.
func (e *Emitter) constructorNameFor(className string, argc int) string {
	decl, ok := e.classDecls[className]
	if !ok || len(decl.Constructors) <= 1 {
		return e.mgl.Constructor(className)
	}
	idx := 0
	for i, c := range decl.Constructors {
		if len(c.Params) == argc {
			idx = i
			break
		}
	}
	return e.mgl.ConstructorOverload(className, idx)
}

// ---------------------------------------------------------------classes

// emitClassDecl implements spec §4.4's seven ordered sub-emissions for
// one class: function-pointer typedefs for its own new virtual slots,
// the vtable struct, the global vtable instance, the class struct
// (vtable pointer first, then flattened base fields, then own fields),
// method definitions as free functions, the vtable initializer
// function, and the implicit or explicit constructor(s).
func (e *Emitter) emitClassDecl(d *ast.ClassDecl) error {
	class, ok := d.Type().(*types.Class)
	if !ok {
		return tcerrors.New(d.Pos(), "lowering: class declaration did not resolve to a class type")
	}
	if !d.IsDefinition {
		return nil
	}

	e.fieldDefaults[class] = map[string]ast.Expression{}
	for _, f := range d.Fields {
		if f.Value != nil {
			e.fieldDefaults[class][f.Name] = f.Value
		}
	}

	if err := e.emitNewSlotTypedefs(class, d); err != nil {
		return err
	}
	e.emitVTableStruct(class)
	e.emitVTableInstanceDecl(class)
	if err := e.emitClassStruct(class); err != nil {
		return err
	}
	for _, m := range d.Methods {
		if m.Body == nil {
			continue
		}
		if err := e.emitMethodDef(class, m); err != nil {
			return err
		}
	}
	e.emitVTableInit(class)

	// An abstract class (one carrying at least one slot with no
	// function behind it) can never be instantiated directly, so it
	// gets no constructor of its own.
	if class.IsAbstract() {
		return nil
	}
	if len(d.Constructors) == 0 {
		e.emitImplicitConstructor(class)
	} else {
		for idx, c := range d.Constructors {
			if err := e.emitExplicitConstructor(class, d, c, idx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Emitter) lookupSlotTypedef(class *types.Class, name string) (string, bool) {
	for cur := class; cur != nil; cur = cur.Base {
		if m, ok := e.slotOrigin[cur]; ok {
			if s, ok := m[name]; ok {
				return s, true
			}
		}
	}
	return "", false
}

func (e *Emitter) lookupFieldDefault(class *types.Class, name string) (ast.Expression, bool) {
	for cur := class; cur != nil; cur = cur.Base {
		if m, ok := e.fieldDefaults[cur]; ok {
			if v, ok := m[name]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

func (e *Emitter) emitNewSlotTypedefs(class *types.Class, d *ast.ClassDecl) error {
	e.slotOrigin[class] = map[string]string{}
	for _, m := range d.Methods {
		if m.Virtuality != ast.VirtualityVirtual && m.Virtuality != ast.VirtualityAbstract {
			continue
		}
		mi, ok := class.GetMethodInfo(m.Name)
		if !ok {
			return tcerrors.New(m.Pos(), "lowering: virtual method %s was not registered", m.Name)
		}
		name := e.mgl.SlotFnType(class.Name(), m.Name)
		e.emitFnPtrTypedef(name, &mi.Func.Function)
		e.slotOrigin[class][m.Name] = name
	}
	return nil
}

func (e *Emitter) emitVTableStruct(class *types.Class) {
	name := e.mgl.VTableStruct(class.Name())
	e.w.Printf("typedef struct %s {", name)
	e.w.NewLine()
	e.w.Indent()
	for _, fi := range class.VTable.FieldsOrdered() {
		typedefName, ok := e.lookupSlotTypedef(class, fi.Name)
		if !ok {
			typedefName = e.mgl.SlotFnType(class.Name(), fi.Name)
		}
		e.w.Printf("%s %s;", typedefName, fi.Name)
		e.w.NewLine()
	}
	e.w.Dedent()
	e.w.Printf("} %s;", name)
	e.w.NewLine()
	e.w.Blank()
}

func (e *Emitter) emitVTableInstanceDecl(class *types.Class) {
	e.w.Printf("%s %s;", e.mgl.VTableStruct(class.Name()), e.mgl.VTableInstance(class.Name()))
	e.w.NewLine()
	e.w.Blank()
}

func (e *Emitter) emitClassStruct(class *types.Class) error {
	e.w.Printf("typedef struct %s {", class.Name())
	e.w.NewLine()
	e.w.Indent()
	e.w.Printf("%s* %s;", e.mgl.VTableStruct(class.Name()), ident.VTableField)
	e.w.NewLine()
	for _, fi := range class.FieldsOrdered() {
		e.w.Printf("%s;", e.declString(fi.Type, fi.Name))
		e.w.NewLine()
	}
	e.w.Dedent()
	e.w.Printf("} %s;", class.Name())
	e.w.NewLine()
	e.w.Blank()
	return nil
}

func (e *Emitter) emitMethodDef(class *types.Class, m *ast.MethodDecl) error {
	mi, ok := class.GetMethodInfo(m.Name)
	if !ok {
		return tcerrors.New(m.Pos(), "lowering: method %s was not registered", m.Name)
	}
	fn := mi.Func
	params := make([]string, 0, len(fn.Args))
	params = append(params, e.declString(fn.Args[0], "this"))
	for i, p := range m.Params {
		params = append(params, e.declString(fn.Args[i+1], p.Name))
	}
	e.w.Printf("%s %s(%s) {", e.typeString(fn.Return), mi.FullName, strings.Join(params, ", "))
	e.w.NewLine()
	e.w.Indent()
	prevClass := e.currentClass
	e.currentClass = class
	for _, s := range m.Body.Body {
		if err := e.emitStatement(s); err != nil {
			e.currentClass = prevClass
			return err
		}
	}
	e.currentClass = prevClass
	e.w.Dedent()
	e.w.Raw("}")
	e.w.NewLine()
	e.w.Blank()
	return nil
}

func (e *Emitter) emitVTableInit(class *types.Class) {
	name := e.mgl.VTableInit(class.Name())
	e.vtableInits = append(e.vtableInits, name)
	e.w.Printf("void %s(void) {", name)
	e.w.NewLine()
	e.w.Indent()
	instance := e.mgl.VTableInstance(class.Name())
	for _, fi := range class.VTable.FieldsOrdered() {
		mi, ok := class.GetMethodInfo(fi.Name)
		if !ok || mi.Abstract {
			// No concrete function backs this slot yet; a concrete
			// subclass's own vtable init fills it in instead.
			continue
		}
		e.w.Printf("%s.%s = %s;", instance, fi.Name, mi.FullName)
		e.w.NewLine()
	}
	e.w.Dedent()
	e.w.Raw("}")
	e.w.NewLine()
	e.w.Blank()
}

// emitConstructorPreamble declares the result by value, wires its
// vtable pointer to the address of the class's vtable instance, and
// gives each field its declared default (or, for a complex field with
// no default that requires construction, its zero-argument
// constructor's result) before the constructor's own body (if any)
// runs; other fields are left as declared. Per spec §8 Scenario A the
// result is a stack-declared local, not a heap allocation, and fields
// are reached with "." rather than "->".
//
// When delegate names a base constructor (a ": Base(args)" clause),
// that constructor is called first and its result copied field by
// field into this's flattened base fields; only the class's own
// fields are then initialized as above. With no delegate, every field
// along the whole base chain is.
func (e *Emitter) emitConstructorPreamble(class *types.Class, delegate *ast.BaseDelegate) error {
	e.w.Printf("%s this;", class.Name())
	e.w.NewLine()

	fields := class.FieldsOrdered()
	if delegate != nil && class.Base != nil {
		if err := e.emitBaseDelegateCall(class, delegate); err != nil {
			return err
		}
		fields = fields[len(class.Base.FieldsOrdered()):]
	}

	e.w.Printf("this.%s = &%s;", ident.VTableField, e.mgl.VTableInstance(class.Name()))
	e.w.NewLine()
	for _, fi := range fields {
		def, ok := e.lookupFieldDefault(class, fi.Name)
		if !ok {
			if cplx, isCplx := types.Unwrap(fi.Type).(types.Complex); isCplx && cplx.RequiresImplicitConstruction() {
				e.w.Printf("this.%s = %s();", fi.Name, e.constructorNameFor(cplx.Name(), 0))
				e.w.NewLine()
			}
			continue
		}
		text, err := e.exprString(def)
		if err != nil {
			return err
		}
		e.w.Printf("this.%s = %s;", fi.Name, text)
		e.w.NewLine()
	}
	return nil
}

// emitBaseDelegateCall runs the named base constructor and copies its
// result's fields into this's own flattened base fields. Delegation
// arguments are always bare parameter identifiers (see ast.BaseDelegate),
// so they can be joined verbatim as the call's argument list.
func (e *Emitter) emitBaseDelegateCall(class *types.Class, delegate *ast.BaseDelegate) error {
	baseName := class.Base.Name()
	ctorName := e.constructorNameFor(baseName, len(delegate.Args))
	e.w.Printf("%s __base = %s(%s);", baseName, ctorName, strings.Join(delegate.Args, ", "))
	e.w.NewLine()
	for _, fi := range class.Base.FieldsOrdered() {
		e.w.Printf("this.%s = __base.%s;", fi.Name, fi.Name)
		e.w.NewLine()
	}
	return nil
}

func (e *Emitter) emitImplicitConstructor(class *types.Class) error {
	name := e.mgl.Constructor(class.Name())
	e.w.Printf("%s %s(void) {", class.Name(), name)
	e.w.NewLine()
	e.w.Indent()
	if err := e.emitConstructorPreamble(class, nil); err != nil {
		return err
	}
	e.w.Raw("return this;")
	e.w.NewLine()
	e.w.Dedent()
	e.w.Raw("}")
	e.w.NewLine()
	e.w.Blank()
	return nil
}

// emitExplicitConstructor emits one user-written constructor. A
// ": Base(args)" delegation clause (c.Delegate) is wired into a real
// call against the base class's own mangled constructor, whose result
// is copied field by field into this's flattened base fields;
// otherwise every field along the base chain gets its declared
// default, exactly as the implicit constructor does.
func (e *Emitter) emitExplicitConstructor(class *types.Class, d *ast.ClassDecl, c *ast.MethodDecl, idx int) error {
	fn, ok := c.Type().(*types.Method)
	if !ok {
		return tcerrors.New(c.Pos(), "lowering: constructor %s did not resolve to a method type", c.Name)
	}
	name := class.Name()
	ctorName := e.mgl.Constructor(name)
	if len(d.Constructors) > 1 {
		ctorName = e.mgl.ConstructorOverload(name, idx)
	}
	params := make([]string, 0, len(c.Params))
	for i, p := range c.Params {
		params = append(params, e.declString(fn.Args[i+1], p.Name))
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	e.w.Printf("%s %s(%s) {", name, ctorName, strings.Join(params, ", "))
	e.w.NewLine()
	e.w.Indent()
	if err := e.emitConstructorPreamble(class, c.Delegate); err != nil {
		return err
	}
	prevClass := e.currentClass
	e.currentClass = class
	if c.Body != nil {
		for _, s := range c.Body.Body {
			if err := e.emitStatement(s); err != nil {
				e.currentClass = prevClass
				return err
			}
		}
	}
	e.currentClass = prevClass
	e.w.Raw("return this;")
	e.w.NewLine()
	e.w.Dedent()
	e.w.Raw("}")
	e.w.NewLine()
	e.w.Blank()
	return nil
}

// ------------------------------------------------------------statements

func (e *Emitter) emitBlock(b *ast.Block) error {
	e.w.Raw("{")
	e.w.NewLine()
	e.w.Indent()
	for _, s := range b.Body {
		if err := e.emitStatement(s); err != nil {
			return err
		}
	}
	e.w.Dedent()
	e.w.Raw("}")
	return nil
}

// emitBodyStatement emits a statement in a position that may or may not
// be a brace-delimited block (an if/while/for/do body that the grammar
// allows to be a single statement).
func (e *Emitter) emitBodyStatement(s ast.Statement) error {
	if b, ok := s.(*ast.Block); ok {
		return e.emitBlock(b)
	}
	e.w.NewLine()
	e.w.Indent()
	err := e.emitStatement(s)
	e.w.Dedent()
	return err
}

func (e *Emitter) emitStatement(s ast.Statement) error {
	switch v := s.(type) {
	case *ast.Block:
		if err := e.emitBlock(v); err != nil {
			return err
		}
		e.w.NewLine()
		return nil
	case *ast.VarDecl:
		return e.emitLocalVarDecl(v)
	case *ast.ExprStmt:
		text, err := e.exprString(v.X)
		if err != nil {
			return err
		}
		e.w.Printf("%s;", text)
		e.w.NewLine()
		return nil
	case *ast.If:
		return e.emitIf(v)
	case *ast.Switch:
		return e.emitSwitch(v)
	case *ast.While:
		cond, err := e.exprString(v.Cond)
		if err != nil {
			return err
		}
		e.w.Printf("while (%s)", cond)
		if err := e.emitBodyStatement(v.Body); err != nil {
			return err
		}
		e.w.NewLine()
		return nil
	case *ast.DoWhile:
		e.w.Raw("do")
		if err := e.emitBodyStatement(v.Body); err != nil {
			return err
		}
		cond, err := e.exprString(v.Cond)
		if err != nil {
			return err
		}
		e.w.Printf(" while (%s);", cond)
		e.w.NewLine()
		return nil
	case *ast.For:
		return e.emitFor(v)
	case *ast.Break:
		e.w.Raw("break;")
		e.w.NewLine()
		return nil
	case *ast.Continue:
		e.w.Raw("continue;")
		e.w.NewLine()
		return nil
	case *ast.Return:
		if v.Value == nil {
			e.w.Raw("return;")
			e.w.NewLine()
			return nil
		}
		text, err := e.exprString(v.Value)
		if err != nil {
			return err
		}
		e.w.Printf("return %s;", text)
		e.w.NewLine()
		return nil
	}
	return tcerrors.New(s.Pos(), "lowering: unsupported statement")
}

func (e *Emitter) emitLocalVarDecl(d *ast.VarDecl) error {
	t, err := resolvedType(d)
	if err != nil {
		return err
	}
	init, err := e.varInitializerText(d, t)
	if err != nil {
		return err
	}
	e.w.Printf("%s%s;", e.declString(t, d.Name), init)
	e.w.NewLine()
	return nil
}

func (e *Emitter) emitIf(v *ast.If) error {
	cond, err := e.exprString(v.Cond)
	if err != nil {
		return err
	}
	e.w.Printf("if (%s)", cond)
	if err := e.emitBodyStatement(v.TrueCase); err != nil {
		return err
	}
	if v.FalseCase == nil {
		e.w.NewLine()
		return nil
	}
	e.w.Raw(" else")
	if err := e.emitBodyStatement(v.FalseCase); err != nil {
		return err
	}
	e.w.NewLine()
	return nil
}

func (e *Emitter) emitSwitch(v *ast.Switch) error {
	cond, err := e.exprString(v.Cond)
	if err != nil {
		return err
	}
	e.w.Printf("switch (%s) {", cond)
	e.w.NewLine()
	e.w.Indent()
	for _, c := range v.Cases {
		e.w.Printf("case %d:", c.Value)
		e.w.NewLine()
		e.w.Indent()
		for _, s := range c.Body {
			if err := e.emitStatement(s); err != nil {
				return err
			}
		}
		e.w.Dedent()
	}
	if v.DefaultBody != nil {
		e.w.Raw("default:")
		e.w.NewLine()
		e.w.Indent()
		for _, s := range v.DefaultBody {
			if err := e.emitStatement(s); err != nil {
				return err
			}
		}
		e.w.Dedent()
	}
	e.w.Dedent()
	e.w.Raw("}")
	e.w.NewLine()
	return nil
}

func (e *Emitter) emitFor(v *ast.For) error {
	init, err := e.statementInlineText(v.Init)
	if err != nil {
		return err
	}
	cond := ""
	if v.Cond != nil {
		cond, err = e.exprString(v.Cond)
		if err != nil {
			return err
		}
	}
	post, err := e.statementInlineText(v.Post)
	if err != nil {
		return err
	}
	e.w.Printf("for (%s; %s; %s)", init, cond, post)
	if err := e.emitBodyStatement(v.Body); err != nil {
		return err
	}
	e.w.NewLine()
	return nil
}

// statementInlineText renders a for-loop's init or post clause without
// a trailing statement terminator, for use between the loop's own
// parentheses.
func (e *Emitter) statementInlineText(s ast.Statement) (string, error) {
	switch v := s.(type) {
	case nil:
		return "", nil
	case *ast.VarDecl:
		t, err := resolvedType(v)
		if err != nil {
			return "", err
		}
		init, err := e.varInitializerText(v, t)
		if err != nil {
			return "", err
		}
		return e.declString(t, v.Name) + init, nil
	case *ast.ExprStmt:
		return e.exprString(v.X)
	}
	return "", tcerrors.New(s.Pos(), "lowering: unsupported for-loop clause")
}

// -----------------------------------------------------------expressions

func (e *Emitter) exprListString(args []ast.Expression) (string, error) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		text, err := e.exprString(a)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, ", "), nil
}

func isBareIdentifier(x ast.Expression, name string) bool {
	id, ok := x.(*ast.Identifier)
	return ok && id.Name == name
}

func (e *Emitter) exprString(x ast.Expression) (string, error) {
	switch v := x.(type) {
	case *ast.IntegerLit:
		return fmt.Sprintf("%d", v.Value), nil
	case *ast.DoubleLit:
		return fmt.Sprintf("%g", v.Value), nil
	case *ast.CharLit:
		return fmt.Sprintf("'%s'", escapeChar(v.Value)), nil
	case *ast.StringLit:
		return fmt.Sprintf("\"%s\"", escapeString(v.Value)), nil
	case *ast.Identifier:
		return e.identifierString(v)
	case *ast.BinaryOp:
		left, err := e.exprString(v.Left)
		if err != nil {
			return "", err
		}
		right, err := e.exprString(v.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, v.Op, right), nil
	case *ast.Assignment:
		lv, err := e.exprString(v.LValue)
		if err != nil {
			return "", err
		}
		rv, err := e.exprString(v.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", lv, v.Op, rv), nil
	case *ast.UnaryOp:
		arg, err := e.exprString(v.Arg)
		if err != nil {
			return "", err
		}
		return v.Op + arg, nil
	case *ast.UnaryPostOp:
		arg, err := e.exprString(v.Arg)
		if err != nil {
			return "", err
		}
		return arg + v.Op, nil
	case *ast.Address:
		t, err := e.exprString(v.Target)
		if err != nil {
			return "", err
		}
		return "&(" + t + ")", nil
	case *ast.Deref:
		t, err := e.exprString(v.Target)
		if err != nil {
			return "", err
		}
		return "*(" + t + ")", nil
	case *ast.Index:
		base, err := e.exprString(v.BaseExpr)
		if err != nil {
			return "", err
		}
		idx, err := e.exprString(v.IndexExpr)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%s]", base, idx), nil
	case *ast.Member:
		return e.memberString(v)
	case *ast.Call:
		return e.callString(v)
	case *ast.Cast:
		val, err := e.exprString(v.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("cast<%s>(%s)", e.typeString(x.Type()), val), nil
	}
	return "", tcerrors.New(x.Pos(), "lowering: unsupported expression")
}

// identifierString renders a plain name reference, special-casing
// "base": bare use of it names the this pointer downcast to the
// enclosing class's base type.
func (e *Emitter) identifierString(v *ast.Identifier) (string, error) {
	if v.Name == "base" {
		if e.currentClass == nil || e.currentClass.Base == nil {
			return "", tcerrors.New(v.Pos(), "lowering: base used outside a derived class method")
		}
		return fmt.Sprintf("(%s*)this", e.currentClass.Base.Name()), nil
	}
	return v.Name, nil
}

// memberString renders plain field access `base.field`/`base->field`,
// choosing the separator from the base's resolved pointer-ness rather
// than the source spelling, since "this"/"base" are always pointers
// underneath even though the grammar lets them be written with '.'.
func (e *Emitter) memberString(v *ast.Member) (string, error) {
	base, err := e.exprString(v.BaseExpr)
	if err != nil {
		return "", err
	}
	sep := "."
	if e.isPointerExpr(v.BaseExpr) {
		sep = "->"
	}
	return base + sep + v.Name, nil
}

// callString implements spec §4.4's use-site rewriting rules: a
// constructor call becomes a direct call to the mangled constructor; a
// non-virtual method call becomes a direct call to the mangled method,
// downcasting the receiver when the method is inherited; a virtual
// method call is rewritten to go through the receiver's vtable pointer
// unless it is explicitly routed through "base", which always calls
// the method directly and bypasses the vtable.
func (e *Emitter) callString(v *ast.Call) (string, error) {
	if text, ok, err := e.constructorCallString(v); err != nil || ok {
		return text, err
	}
	if m, ok := v.Function.(*ast.Member); ok {
		return e.methodCallString(v, m)
	}
	args, err := e.exprListString(v.Args)
	if err != nil {
		return "", err
	}
	fnText, err := e.exprString(v.Function)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", fnText, args), nil
}

func (e *Emitter) constructorCallString(v *ast.Call) (string, bool, error) {
	id, ok := v.Function.(*ast.Identifier)
	if !ok {
		return "", false, nil
	}
	t := e.reg.GetType(id.Name)
	if t == nil {
		return "", false, nil
	}
	cplx, ok := t.(types.Complex)
	if !ok {
		return "", false, nil
	}
	ctorName := e.constructorNameFor(cplx.Name(), len(v.Args))
	args, err := e.exprListString(v.Args)
	if err != nil {
		return "", true, err
	}
	return fmt.Sprintf("%s(%s)", ctorName, args), true, nil
}

func (e *Emitter) methodCallString(v *ast.Call, m *ast.Member) (string, error) {
	baseType := m.BaseExpr.Type()
	cplx, ok := types.Core[types.Complex](baseType)
	if !ok {
		return "", tcerrors.New(m.Pos(), "lowering: method call target has no resolved complex type")
	}
	class, ok := cplx.(*types.Class)
	if !ok {
		return "", tcerrors.New(m.Pos(), "lowering: calling through an interface-typed expression is not supported")
	}
	mi, ok := class.GetMethodInfo(m.Name)
	if !ok {
		return "", tcerrors.New(m.Pos(), "lowering: %s has no method %s", class.Name(), m.Name)
	}

	baseText, err := e.exprString(m.BaseExpr)
	if err != nil {
		return "", err
	}
	addr := baseText
	if !e.isPointerExpr(m.BaseExpr) {
		addr = "&(" + baseText + ")"
	}

	args, err := e.exprListString(v.Args)
	if err != nil {
		return "", err
	}
	sep := ""
	if len(v.Args) > 0 {
		sep = ", "
	}

	bypassVTable := !mi.Virtual || isBareIdentifier(m.BaseExpr, "base")
	if !bypassVTable {
		recv := baseText + "."
		if e.isPointerExpr(m.BaseExpr) {
			recv = baseText + "->"
		}
		return fmt.Sprintf("%s%s->%s(%s%s%s)", recv, ident.VTableField, m.Name, addr, sep, args), nil
	}
	thisArg := addr
	if mi.Func.Owner != class {
		thisArg = fmt.Sprintf("(%s*)(%s)", mi.Func.Owner.Name(), addr)
	}
	return fmt.Sprintf("%s(%s%s%s)", mi.FullName, thisArg, sep, args), nil
}

// --------------------------------------------------------------escaping

var charEscapes = map[byte]string{
	'\n': `\n`,
	'\t': `\t`,
	'\r': `\r`,
	'\\': `\\`,
	'\'': `\'`,
	'"':  `\"`,
	0:    `\0`,
}

func escapeChar(b byte) string {
	if esc, ok := charEscapes[b]; ok {
		return esc
	}
	return string(b)
}

func escapeString(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		b := s[i]
		if esc, ok := charEscapes[b]; ok && b != '\'' {
			sb.WriteString(esc)
			continue
		}
		sb.WriteByte(b)
	}
	return sb.String()
}
