package types

import "fmt"

// Registry is the single owner of every Type instance created during
// one pipeline run (spec §3, §4.5). It guarantees at-most-one instance
// per canonical printed form for the types it creates; the analyzer and
// emitter both hold a reference to the same Registry. Method values
// and class vtables are built outside it (by the analyzer and NewClass)
// and are not interned.
type Registry struct {
	byName    map[string]Type // raw: includes Alias entries under their own name
	pointers  map[Type]*Pointer
	functions map[string]*Function

	podInt, podDouble, podChar, podVoid *POD
}

// NewRegistry creates a Registry pre-populated with the four POD
// singletons.
func NewRegistry() *Registry {
	r := &Registry{
		byName:    map[string]Type{},
		pointers:  map[Type]*Pointer{},
		functions: map[string]*Function{},
	}
	r.podInt = &POD{Kind: PODInt, name: "int"}
	r.podDouble = &POD{Kind: PODDouble, name: "double"}
	r.podChar = &POD{Kind: PODChar, name: "char"}
	r.podVoid = &POD{Kind: PODVoid, name: "void"}
	for _, p := range []*POD{r.podInt, r.podDouble, r.podChar, r.podVoid} {
		r.byName[p.name] = p
	}
	return r
}

func (r *Registry) Int() *POD    { return r.podInt }
func (r *Registry) Double() *POD { return r.podDouble }
func (r *Registry) Char() *POD   { return r.podChar }
func (r *Registry) Void() *POD   { return r.podVoid }

// IsPOD reports whether t is one of the four primitive singletons.
func (r *Registry) IsPOD(t Type) bool {
	switch t {
	case Type(r.podInt), Type(r.podDouble), Type(r.podChar), Type(r.podVoid):
		return true
	}
	return false
}

// IsPointer reports whether t is a Pointer (after unwrapping aliases).
func (r *Registry) IsPointer(t Type) bool {
	return Unwrap(t).IsPointer()
}

// ConvertsToBool reports whether t is usable as a condition: any POD or
// pointer, per spec §4.3's "operands convert to bool" rule (the
// language has no distinct boolean type; int stands in for it).
func (r *Registry) ConvertsToBool(t Type) bool {
	if t == nil {
		return false
	}
	return r.IsPOD(t) || r.IsPointer(t)
}

// GetType looks up a type by its canonical printed name, transparently
// unwrapping aliases (spec §4.5: "Alias lookups unwrap aliases
// transparently in getType but not in the raw registry").
func (r *Registry) GetType(name string) Type {
	if t, ok := r.byName[name]; ok {
		return Unwrap(t)
	}
	return nil
}

// GetRaw looks up a type by name without unwrapping aliases.
func (r *Registry) GetRaw(name string) (Type, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// GetOrCreatePointer returns the unique Pointer to base, creating it on
// first request.
func (r *Registry) GetOrCreatePointer(base Type) *Pointer {
	if p, ok := r.pointers[base]; ok {
		return p
	}
	p := &Pointer{base: base}
	r.pointers[base] = p
	return p
}

// GetOrCreateFunction interns f by its printed signature: if an
// equivalent signature already exists, the existing Function is
// returned and f is discarded (spec §4.5).
func (r *Registry) GetOrCreateFunction(f *Function) *Function {
	sig := f.String()
	if existing, ok := r.functions[sig]; ok {
		return existing
	}
	r.functions[sig] = f
	return f
}

// CreateAlias binds name to base as a transparent synonym. It is an
// error to alias a name that is already bound to anything (spec §4.5).
func (r *Registry) CreateAlias(name string, base Type) (*Alias, error) {
	if _, exists := r.byName[name]; exists {
		return nil, fmt.Errorf("type %s already exists", name)
	}
	a := &Alias{name: name, base: base}
	r.byName[name] = a
	return a, nil
}

// GetOrCreateStruct returns the Struct named name, creating a new
// (not-yet-defined) one if none exists. Returns an error if name is
// already bound to a non-struct type.
func (r *Registry) GetOrCreateStruct(name string) (*Struct, error) {
	if existing, ok := r.byName[name]; ok {
		if s, ok := existing.(*Struct); ok {
			return s, nil
		}
		return nil, fmt.Errorf("type %s already defined and is not a struct", name)
	}
	s := &Struct{complexBase: newComplexBase(name)}
	r.byName[name] = s
	return s, nil
}

// GetOrCreateClass returns the Class named name, creating a new one if
// none exists; the bool reports whether it was created by this call.
// Returns an error if name is already bound to a non-class type. An
// existing class is returned as is, whether or not its body has
// already been analyzed.
func (r *Registry) GetOrCreateClass(name string) (*Class, bool, error) {
	if existing, ok := r.byName[name]; ok {
		c, ok := existing.(*Class)
		if !ok {
			return nil, false, fmt.Errorf("type %s already defined and is not a class", name)
		}
		return c, false, nil
	}
	c := NewClass(name)
	r.byName[name] = c
	return c, true, nil
}

// GetOrCreateInterface returns the Interface named name, creating a new
// one if none exists.
func (r *Registry) GetOrCreateInterface(name string) (*Interface, error) {
	if existing, ok := r.byName[name]; ok {
		if i, ok := existing.(*Interface); ok {
			return i, nil
		}
		return nil, fmt.Errorf("type %s already defined and is not an interface", name)
	}
	i := &Interface{complexBase: newComplexBase(name)}
	r.byName[name] = i
	return i, nil
}

// AllClasses returns every class registered so far, in no particular
// order, for diagnostics.
func (r *Registry) AllClasses() []*Class {
	var out []*Class
	for _, t := range r.byName {
		if c, ok := t.(*Class); ok {
			out = append(out, c)
		}
	}
	return out
}
