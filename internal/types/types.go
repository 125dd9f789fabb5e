// Package types implements the TinyC+ type system: the tagged-variant
// Type hierarchy and the single interning registry described in spec
// §3 and §4.5. Type identity throughout the rest of the pipeline is
// pointer identity: equality checks in the analyzer and emitter are a
// plain `==` between two Type values, except that an interface method's
// signature is matched against a class method's by printed form.
package types

import (
	"fmt"
	"strings"

	"github.com/tinycplus/tcppc/internal/ident"
	"github.com/tinycplus/tcppc/internal/token"
)

// Type is the common interface satisfied by every case of the type
// tagged-variant (POD, Pointer, Alias, Function, Struct, Interface,
// VTable, Class).
type Type interface {
	// String returns the canonical printed form used both for display
	// and, for most cases, as the registry's interning key.
	String() string
	// IsFullyDefined reports whether the type's layout is finalized and
	// therefore safe to instantiate (spec §3's "fully defined" rule).
	IsFullyDefined() bool
	// IsPointer reports whether the type is a Pointer.
	IsPointer() bool
}

// Unwrap strips Alias wrappers until it reaches a non-alias type.
// Registry.GetType does this transparently; the raw registry map does
// not, per spec §4.5.
func Unwrap(t Type) Type {
	for {
		a, ok := t.(*Alias)
		if !ok {
			return t
		}
		t = a.base
	}
}

// Core returns t, or the base of t if t is a Pointer, as a T — the Go
// analogue of the C++ original's Type::getCore<T>() template, used to
// look through a single pointer hop when resolving member access and
// method dispatch on both value and pointer receivers.
func Core[T Type](t Type) (T, bool) {
	var zero T
	if asIs, ok := t.(T); ok {
		return asIs, true
	}
	if p, ok := t.(*Pointer); ok {
		if asIs, ok := p.base.(T); ok {
			return asIs, true
		}
	}
	return zero, false
}

// ---------------------------------------------------------------- POD

// PODKind enumerates the four built-in primitive types.
type PODKind int

const (
	PODInt PODKind = iota
	PODDouble
	PODChar
	PODVoid
)

// POD is a primitive type singleton.
type POD struct {
	Kind PODKind
	name string
}

func (p *POD) String() string      { return p.name }
func (p *POD) IsFullyDefined() bool { return true }
func (p *POD) IsPointer() bool      { return false }

// ------------------------------------------------------------- Pointer

// Pointer is a pointer-to-Base type, interned per base.
type Pointer struct {
	base Type
}

func (p *Pointer) Base() Type          { return p.base }
func (p *Pointer) String() string      { return p.base.String() + "*" }
func (p *Pointer) IsFullyDefined() bool { return true }
func (p *Pointer) IsPointer() bool      { return true }

// --------------------------------------------------------------- Alias

// Alias is a named, transparent synonym for another type. Aliases are
// invisible to equality checks (Unwrap strips them) but keep their own
// name when printed.
type Alias struct {
	name string
	base Type
}

func (a *Alias) Base() Type          { return a.base }
func (a *Alias) String() string      { return a.name }
func (a *Alias) IsFullyDefined() bool { return a.base.IsFullyDefined() }
func (a *Alias) IsPointer() bool      { return a.base.IsPointer() }

// ------------------------------------------------------------ Function

// Function is a function type: a return type plus an ordered argument
// list, interned by its printed signature.
type Function struct {
	Return Type
	Args   []Type
}

func (f *Function) String() string {
	var sb strings.Builder
	sb.WriteString(f.Return.String())
	sb.WriteString(" (")
	for i, a := range f.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(")")
	return sb.String()
}
func (f *Function) IsFullyDefined() bool { return true }
func (f *Function) IsPointer() bool      { return false }

// Method is a Function whose first argument is always a pointer to the
// class that declares it (the synthetic "this" argument). It exists
// only so the analyzer can compute "arguments excluding this" (spec
// §4.3's call-arity rule) without special-casing every call site;
// structurally it behaves exactly like Function everywhere else.
type Method struct {
	Function
	Owner *Class
}

// ------------------------------------------------------------- Complex

// FieldInfo describes one member of a complex type.
type FieldInfo struct {
	Name string
	Type Type
	Pos  token.Position
}

// MethodInfo describes one method of a class.
type MethodInfo struct {
	Name              string
	FullName          string
	Func              *Method
	Pos               token.Position
	Virtual           bool
	Abstract          bool
	IsInterfaceMethod bool
}

// complexBase implements the shared field-table bookkeeping that
// Struct, Interface, VTable, and Class all need: ordered field storage,
// full-definition checks, and the deterministic constructor name.
// Class embeds it but overrides field/method lookup to walk its base
// chain (spec §4.3's class analysis order).
type complexBase struct {
	typeName    string
	fields      map[string]FieldInfo
	fieldsOrder []string
}

func newComplexBase(name string) complexBase {
	return complexBase{typeName: name, fields: map[string]FieldInfo{}}
}

// RegisterField adds name to the member namespace. Returns an error if
// name is already used (spec §3: "field names and method names share a
// single namespace; duplicates are an error").
func (c *complexBase) RegisterField(name string, t Type, pos token.Position) error {
	if _, exists := c.fields[name]; exists {
		return fmt.Errorf("member %s already defined", name)
	}
	c.fields[name] = FieldInfo{Name: name, Type: t, Pos: pos}
	c.fieldsOrder = append(c.fieldsOrder, name)
	return nil
}

// OverwriteField replaces or inserts a field in place, used by VTable
// when an overriding method reuses an inherited slot name (spec §3:
// "overriding methods replace the inherited slot in place").
func (c *complexBase) OverwriteField(name string, t Type, pos token.Position) {
	if _, exists := c.fields[name]; !exists {
		c.fieldsOrder = append(c.fieldsOrder, name)
	}
	c.fields[name] = FieldInfo{Name: name, Type: t, Pos: pos}
}

func (c *complexBase) FieldInfo(name string) (FieldInfo, bool) {
	fi, ok := c.fields[name]
	return fi, ok
}

func (c *complexBase) FieldsOrdered() []FieldInfo {
	out := make([]FieldInfo, 0, len(c.fieldsOrder))
	for _, n := range c.fieldsOrder {
		out = append(out, c.fields[n])
	}
	return out
}

func (c *complexBase) copyFieldsTo(dst *complexBase) {
	for _, n := range c.fieldsOrder {
		dst.OverwriteField(n, c.fields[n].Type, c.fields[n].Pos)
	}
}

// Complex is the interface implemented by every type with named
// members: Struct, Interface, VTable, and Class.
type Complex interface {
	Type
	Name() string
	FieldInfo(name string) (FieldInfo, bool)
	FieldsOrdered() []FieldInfo
	MemberType(name string) Type
	RequiresImplicitConstruction() bool
	ConstructorName(m ident.Mangler) string
}

// -------------------------------------------------------------- Struct

// Struct is a plain record; it may exist forward-declared (no fields
// registered yet, IsFullyDefined false) before its body is analyzed.
type Struct struct {
	complexBase
	defined bool
}

func (s *Struct) Name() string          { return s.typeName }
func (s *Struct) String() string        { return s.typeName }
func (s *Struct) IsPointer() bool       { return false }
func (s *Struct) IsFullyDefined() bool  { return s.defined }
func (s *Struct) MarkDefined()          { s.defined = true }
func (s *Struct) MemberType(name string) Type {
	if fi, ok := s.FieldInfo(name); ok {
		return fi.Type
	}
	return nil
}
func (s *Struct) RequiresImplicitConstruction() bool {
	return complexRequiresConstruction(s)
}
func (s *Struct) ConstructorName(m ident.Mangler) string { return m.Constructor(s.typeName) }

func complexRequiresConstruction(c Complex) bool {
	for _, f := range c.FieldsOrdered() {
		if f.Type.IsPointer() {
			continue
		}
		if fc, ok := f.Type.(Complex); ok && fc.RequiresImplicitConstruction() {
			return true
		}
	}
	return false
}

// ----------------------------------------------------------- Interface

// Interface is a record of method signatures a class may be checked
// against structurally (spec's resolved Open Question on interfaces,
// see SPEC_FULL.md §3).
type Interface struct {
	complexBase
	id int
}

func (i *Interface) Name() string          { return i.typeName }
func (i *Interface) String() string        { return i.typeName }
func (i *Interface) IsPointer() bool       { return false }
func (i *Interface) IsFullyDefined() bool  { return true }
func (i *Interface) MemberType(name string) Type {
	if fi, ok := i.FieldInfo(name); ok {
		return fi.Type
	}
	return nil
}
func (i *Interface) RequiresImplicitConstruction() bool { return false }
func (i *Interface) ConstructorName(m ident.Mangler) string { return m.Constructor(i.typeName) }

// -------------------------------------------------------------- VTable

// VTable is a record of function-pointer slots, one per virtual method,
// base-class slots first (spec §3).
type VTable struct {
	complexBase
}

func (v *VTable) Name() string          { return v.typeName }
func (v *VTable) String() string        { return v.typeName }
func (v *VTable) IsPointer() bool       { return false }
func (v *VTable) IsFullyDefined() bool  { return true }
func (v *VTable) MemberType(name string) Type {
	if fi, ok := v.FieldInfo(name); ok {
		return fi.Type
	}
	return nil
}
func (v *VTable) RequiresImplicitConstruction() bool       { return false }
func (v *VTable) ConstructorName(m ident.Mangler) string   { return m.Constructor(v.typeName) }

// RegisterSlot inserts or overwrites a vtable slot in place, per spec
// §3's vtable invariant.
func (v *VTable) RegisterSlot(name string, t Type, pos token.Position) {
	v.OverwriteField(name, t, pos)
}

// ----------------------------------------------------------------Class

// Class is the principal object type: single base, one vtable, fields,
// methods, and the interfaces it structurally satisfies.
type Class struct {
	complexBase
	Base       *Class
	VTable     *VTable
	methods    map[string]MethodInfo
	methodsOrd []string
	interfaces map[string]*Interface
	abstract   bool
	ctors      []*Method
}

// NewClass creates a class with its own (initially empty) vtable.
func NewClass(name string) *Class {
	return &Class{
		complexBase: newComplexBase(name),
		VTable:      &VTable{complexBase: newComplexBase(name + "__vtable__")},
		methods:     map[string]MethodInfo{},
		interfaces:  map[string]*Interface{},
	}
}

func (c *Class) Name() string         { return c.typeName }
func (c *Class) String() string       { return c.typeName }
func (c *Class) IsPointer() bool      { return false }
func (c *Class) IsFullyDefined() bool { return true }
func (c *Class) RequiresImplicitConstruction() bool { return true }
func (c *Class) ConstructorName(m ident.Mangler) string { return m.Constructor(c.typeName) }
func (c *Class) IsAbstract() bool     { return c.abstract }

// SetBase wires c's base class, copying the base's vtable slots into
// c's own vtable (spec §4.3 step (b)).
func (c *Class) SetBase(base *Class) {
	c.Base = base
	base.VTable.copyFieldsTo(&c.VTable.complexBase)
}

// HasOwnVirtualTable reports whether c's vtable differs from its base's
// (it always does in this implementation, since every class gets its
// own VTable value at construction and slots are copied rather than
// shared). Nothing in the pipeline calls it.
func (c *Class) HasOwnVirtualTable() bool { return c.VTable != nil }

// HasMethod reports whether name is declared on c, optionally searching
// the base chain.
func (c *Class) HasMethod(name string, includeBase bool) bool {
	if _, ok := c.methods[name]; ok {
		return true
	}
	if includeBase && c.Base != nil {
		return c.Base.HasMethod(name, true)
	}
	return false
}

// GetMethodInfo returns the method named name, searching the base chain.
func (c *Class) GetMethodInfo(name string) (MethodInfo, bool) {
	if mi, ok := c.methods[name]; ok {
		return mi, true
	}
	if c.Base != nil {
		return c.Base.GetMethodInfo(name)
	}
	return MethodInfo{}, false
}

// MethodsOrdered returns methods declared directly on c, in declaration
// order (not including inherited methods).
func (c *Class) MethodsOrdered() []MethodInfo {
	out := make([]MethodInfo, 0, len(c.methodsOrd))
	for _, n := range c.methodsOrd {
		out = append(out, c.methods[n])
	}
	return out
}

// RegisterMethod implements spec §4.3 step (d)/(e): duplicate-name and
// missing-base-method checks, full-name mangling, and (for virtual
// methods) vtable slot registration in place.
func (c *Class) RegisterMethod(mgl ident.Mangler, name string, fn *Method, pos token.Position, virtual, override, abstract bool) (MethodInfo, error) {
	if c.HasMethod(name, false) {
		return MethodInfo{}, fmt.Errorf("member %s already defined", name)
	}
	if override {
		if c.Base == nil {
			return MethodInfo{}, fmt.Errorf("there is no base class to override")
		}
		if !c.Base.HasMethod(name, true) {
			return MethodInfo{}, fmt.Errorf("there is no base method called %s to override", name)
		}
	}
	c.abstract = c.abstract || abstract
	mi := MethodInfo{
		Name:     name,
		FullName: mgl.Method(c.typeName, name, virtual),
		Func:     fn,
		Pos:      pos,
		Virtual:  virtual,
		Abstract: abstract,
	}
	c.methods[name] = mi
	c.methodsOrd = append(c.methodsOrd, name)
	if virtual {
		c.VTable.RegisterSlot(name, NewPointerRaw(fn), pos)
	}
	return mi, nil
}

// RegisterConstructor records one explicit constructor's signature so
// a call site can validate arity and argument types against it the
// same way an ordinary function call is checked.
func (c *Class) RegisterConstructor(fn *Method) {
	c.ctors = append(c.ctors, fn)
}

// Constructors returns every explicitly declared constructor's
// signature, in declaration order. Empty for a class that only gets
// the implicit zero-argument constructor.
func (c *Class) Constructors() []*Method {
	return c.ctors
}

// Implements records that c structurally satisfies iface (spec
// SPEC_FULL.md §3's interface-satisfaction check runs in the analyzer;
// this just records the relationship for the emitter/diagnostics).
func (c *Class) Implements(iface *Interface) {
	c.interfaces[iface.Name()] = iface
}

func (c *Class) Interfaces() []*Interface {
	out := make([]*Interface, 0, len(c.interfaces))
	for _, i := range c.interfaces {
		out = append(out, i)
	}
	return out
}

func (c *Class) MemberType(name string) Type {
	if fi, ok := c.FieldInfo(name); ok {
		return fi.Type
	}
	if mi, ok := c.GetMethodInfo(name); ok {
		return mi.Func
	}
	return nil
}

// FieldInfo overrides complexBase to also search the base chain, per
// spec §4.3.
func (c *Class) FieldInfo(name string) (FieldInfo, bool) {
	if fi, ok := c.complexBase.FieldInfo(name); ok {
		return fi, true
	}
	if c.Base != nil {
		return c.Base.FieldInfo(name)
	}
	return FieldInfo{}, false
}

// FieldsOrdered overrides complexBase to flatten the base chain's
// fields first, matching the struct layout the emitter produces (spec
// §4.4 step 4: "base class's fields flattened in-line").
func (c *Class) FieldsOrdered() []FieldInfo {
	var out []FieldInfo
	if c.Base != nil {
		out = append(out, c.Base.FieldsOrdered()...)
	}
	out = append(out, c.complexBase.FieldsOrdered()...)
	return out
}

// NewPointerRaw is used internally by RegisterMethod to build a
// pointer-to-function-type slot without going through the registry (the
// registry's own GetOrCreatePointer does the interning for
// analyzer-visible pointer types; vtable slot types are never looked up
// again by printed name, so raw construction here is harmless and
// avoids a dependency from types on its own Registry type).
func NewPointerRaw(base Type) *Pointer { return &Pointer{base: base} }
