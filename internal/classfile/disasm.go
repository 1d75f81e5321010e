package classfile

import (
	"fmt"
	"strings"
)

// Disassemble renders m's instruction stream as text: one line per
// instruction, index-prefixed, grown up front to avoid repeated
// reallocation.
func (m *Method) Disassemble() string {
	var sb strings.Builder
	code := m.Code.Slice()
	sb.Grow(len(code) * 24)
	fmt.Fprintf(&sb, "=== %s ===\n", m.Name)
	for i, ins := range code {
		fmt.Fprintf(&sb, "%04d %s\n", i, ins)
	}
	return sb.String()
}

// Disassemble renders every method of c, initializer first.
func (c *Class) Disassemble() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "class %s\n", c.Name)
	for _, f := range c.StaticFields {
		def := "<none>"
		if f.Default != nil {
			def = fmt.Sprintf("%d", f.Default.Value)
		}
		fmt.Fprintf(&sb, "  field %s %s = %s\n", f.Type, f.Name, def)
	}
	for _, m := range c.AllMethods() {
		sb.WriteString(m.Disassemble())
	}
	return sb.String()
}

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "I"
	case TypeBoolean:
		return "Z"
	case TypeByte:
		return "B"
	case TypeChar:
		return "C"
	case TypeShort:
		return "S"
	case TypeLong:
		return "J"
	default:
		return "Ref"
	}
}
