package classfile

// Builder helpers for assembling a Class by hand — used by tests and by
// cmd/dexfinal's fixture loader, an incremental-construction style
// rather than a single struct literal since callers need to wire
// Field.Class back-references and Instruction.Field cross-references
// as they go.

// AddField declares a new static field on c and returns it.
func (c *Class) AddField(name string, typ Type, access AccessFlags, def *EncodedValue) *Field {
	f := &Field{Class: c, Name: name, Type: typ, Access: access, Default: def}
	c.StaticFields = append(c.StaticFields, f)
	return f
}

// SetInitializer installs code as c's static initializer, setting the
// static+constructor access bits a static initializer requires.
func (c *Class) SetInitializer(code ...*Instruction) *Method {
	m := &Method{
		Name:   "<clinit>",
		Access: AccStatic | AccConstructor,
		Code:   NewInstructionList(code),
	}
	c.Initializer = m
	return m
}

// AddMethod declares a new instance method on c with the given body.
func (c *Class) AddMethod(name string, access AccessFlags, code ...*Instruction) *Method {
	m := &Method{Name: name, Access: access, Code: NewInstructionList(code)}
	c.Methods = append(c.Methods, m)
	return m
}

// NewStaticFieldRef is a convenience constructor for a FieldRef pointing
// at a field that may not exist yet, letting test fixtures wire up
// forward references before both classes are built.
func NewStaticFieldRef(class, name string, typ Type) *FieldRef {
	return &FieldRef{Class: class, Name: name, Type: typ}
}
