package classfile

// Field is a static field declaration.
type Field struct {
	Class   *Class
	Name    string
	Type    Type
	Access  AccessFlags
	Default *EncodedValue // nil for a not-yet-concrete primitive field, or a reference field (implicitly null)
}

// Ref returns the symbolic reference a method body would carry to reach
// this field definition.
func (f *Field) Ref() *FieldRef {
	return &FieldRef{Class: f.Class.Name, Name: f.Name, Type: f.Type}
}

// IsConcrete reports whether the field has a known encoded default,
// i.e. it is either a primitive with a populated Default or a reference
// type (whose default is implicitly null).
func (f *Field) IsConcrete() bool {
	if f.Type == TypeReference {
		return true
	}
	return f.Default != nil
}

// MakeConcrete installs or replaces the field's encoded default.
func (f *Field) MakeConcrete(access AccessFlags, value *EncodedValue) {
	f.Access = access
	f.Default = value
}

// Method is a code body plus the access bits relevant to the pass:
// whether it is static and whether it is a constructor (needed to
// recognise a class's static initializer).
type Method struct {
	Name   string
	Access AccessFlags
	Code   *InstructionList
}

// IsStaticInitializer reports whether m has exactly the access bits a
// class's static initializer requires.
func (m *Method) IsStaticInitializer() bool {
	return m != nil && m.Access.IsStatic() && m.Access.IsConstructor()
}

// Class is the owned aggregate the pass operates on: a type name, its
// static fields, an optional static initializer, and instance methods.
type Class struct {
	Name         string
	StaticFields []*Field
	Initializer  *Method // nil if the class has no clinit
	Methods      []*Method

	// deletable mirrors the build environment's "can this class be
	// deleted" policy. This repo owns that policy directly, set per class
	// through SetDeletable, instead of receiving it from an external pass
	// manager.
	deletable bool
}

// NewClass creates an empty class. SetDeletable controls whether the
// dead-field remover may consider its static fields for removal absent a
// name-prefix match.
func NewClass(name string) *Class {
	return &Class{Name: name}
}

// SetDeletable records whether the build environment permits deleting
// this class (and, by extension, independently deleting its members).
func (c *Class) SetDeletable(v bool) { c.deletable = v }

// CanDelete reports whether the environment permits deleting c.
func (c *Class) CanDelete() bool { return c.deletable }

// AllMethods returns the initializer (if present) followed by the
// instance methods, the full set of method bodies the use-site inliner
// and the used-field walk need to visit.
func (c *Class) AllMethods() []*Method {
	methods := make([]*Method, 0, len(c.Methods)+1)
	if c.Initializer != nil {
		methods = append(methods, c.Initializer)
	}
	methods = append(methods, c.Methods...)
	return methods
}

// RemoveField deletes field from the class's static-field list. It is a
// no-op if the field does not belong to c.
func (c *Class) RemoveField(field *Field) {
	for i, f := range c.StaticFields {
		if f == field {
			c.StaticFields = append(c.StaticFields[:i], c.StaticFields[i+1:]...)
			return
		}
	}
}

// RemoveInitializer clears the class's static initializer, the final
// step of a successful encodable-clinit replacement.
func (c *Class) RemoveInitializer() { c.Initializer = nil }

// FieldResolver maps a symbolic field reference to its concrete
// definition: resolve_field(ref, kind=Static) -> definition | none,
// succeeding only when exactly one static definition exists on the
// declaring hierarchy.
type FieldResolver interface {
	ResolveStatic(ref *FieldRef) (*Field, bool)
}

// Scope is the mutable ordered sequence of classes the pass operates
// over.
type Scope []*Class
