// Package ident provides identifier utilities shared by the analyzer and
// the lowering emitter: the reserved-prefix check that keeps generated
// names collision-free (spec §6), and the deterministic name-mangling
// scheme (spec §3).
//
// Unlike the teacher's case-insensitive pkg/ident (DWScript, like
// Pascal, folds identifier case), TinyC+ is a C-family language and
// identifiers are case-sensitive throughout; this package exists for
// mangling and reservation, not normalization.
package ident

import (
	"fmt"
	"strings"
)

// ReservedPrefix is the default language-reserved prefix. Any user
// identifier starting with it, or equal to "this"/"base", is rejected
// by the analyzer with "name reserved".
const ReservedPrefix = "__tinycpp__"

// IsReserved reports whether name is disallowed as a user-chosen
// identifier under the given reserved prefix.
func IsReserved(name, prefix string) bool {
	if prefix == "" {
		prefix = ReservedPrefix
	}
	return strings.HasPrefix(name, prefix) || name == "this" || name == "base"
}

// Mangler builds the stable, deterministic names the emitter generates
// downstream tools may link against (spec §3, §6).
type Mangler struct {
	Prefix string
}

// NewMangler returns a Mangler using prefix, or ReservedPrefix if empty.
func NewMangler(prefix string) Mangler {
	if prefix == "" {
		prefix = ReservedPrefix
	}
	return Mangler{Prefix: prefix}
}

func (m Mangler) join(parts ...string) string {
	return m.Prefix + strings.Join(parts, "_")
}

// Method returns the mangled name of a class method:
// <prefix>_<class>_<"virtual"|"">_<method>.
func (m Mangler) Method(class, method string, virtual bool) string {
	mod := ""
	if virtual {
		mod = "virtual"
	}
	return m.join(class, mod, method)
}

// Constructor returns the mangled name of a complex type's implicit
// constructor: <prefix>_make_<typeName>.
func (m Mangler) Constructor(typeName string) string {
	return m.join("make", typeName)
}

// VTableInstance returns the mangled name of a vtable's global instance.
func (m Mangler) VTableInstance(vtableName string) string {
	return m.join(vtableName, "instance")
}

// VTableInit returns the mangled name of a vtable's initializer function.
func (m Mangler) VTableInit(vtableName string) string {
	return m.join(vtableName, "init")
}

// VTableStruct returns the mangled name of a vtable's struct type.
func (m Mangler) VTableStruct(vtableName string) string {
	return m.join(vtableName, "vtable")
}

// VTableField is the name of the field in a class struct that points
// at its vtable instance (not prefixed: it is a struct member, not a
// free-standing symbol, so it cannot collide with user globals).
const VTableField = "vtable"

// SlotFnType returns the mangled name of the function-pointer typedef
// backing a new (non-inherited) virtual slot: <prefix>_<class>_<method>_fn.
func (m Mangler) SlotFnType(class, method string) string {
	return m.join(class, method, "fn")
}

// ConstructorOverload returns the mangled name of one of several
// explicit constructors declared on typeName, numbered from 0 in
// declaration order: <prefix>_make_<typeName>_<index>.
func (m Mangler) ConstructorOverload(typeName string, index int) string {
	return m.join("make", typeName, fmt.Sprintf("%d", index))
}
