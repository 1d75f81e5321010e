package classfile

// Table is a concrete FieldResolver backed by a flat map from
// class+member name to field definition, in the same spirit as
// internal/compiler's SymbolTable: a small set of maps keyed by name
// rather than a general symbol-resolution algorithm, because the pass
// only ever needs exact class+name lookups (the reference's type is not
// consulted), never overload resolution or inheritance walks.
//
// A real post-link optimizer's resolver would also walk superclass
// chains; resolution only needs to succeed when exactly one static
// definition exists on the declaring hierarchy, which for this repo's
// scope (no inheritance modelling) collapses to "declared on this exact
// class".
type Table struct {
	fields map[string]*Field
}

// NewTable builds a resolver over scope's static fields as they stand at
// the call; later changes to the field lists are not reflected, and there
// is no way to reindex. In practice resolution only ever targets fields
// that were present from the start, so passes in this repo build the
// table once, up front.
func NewTable(scope Scope) *Table {
	t := &Table{fields: make(map[string]*Field)}
	for _, class := range scope {
		for _, field := range class.StaticFields {
			t.fields[key(class.Name, field.Name)] = field
		}
	}
	return t
}

func key(class, name string) string { return class + "#" + name }

// ResolveStatic implements FieldResolver.
func (t *Table) ResolveStatic(ref *FieldRef) (*Field, bool) {
	field, ok := t.fields[key(ref.Class, ref.Name)]
	if !ok || !field.Access.IsStatic() {
		return nil, false
	}
	return field, true
}
