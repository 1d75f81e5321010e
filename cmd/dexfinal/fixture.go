package main

import (
	"fmt"
	"os"

	"github.com/segmentio/encoding/json"

	"github.com/tangzhangming/dexfinal/internal/classfile"
)

// The JSON class-bundle format below is owned entirely by this command —
// neither internal/classfile nor internal/finalinline know it exists.
// It exists so dexfinal has a fixture format to run against without a
// real dex/oat reader, decoded with segmentio/encoding/json as a faster
// drop-in for encoding/json on exactly this kind of flat, repetitive
// struct decode.

type bundleDoc struct {
	Classes []classDoc `json:"classes"`
}

type classDoc struct {
	Name        string           `json:"name"`
	Deletable   bool             `json:"deletable"`
	Fields      []fieldDoc       `json:"fields"`
	Initializer []instructionDoc `json:"initializer"`
	Methods     []methodDoc      `json:"methods"`
}

type fieldDoc struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Static  bool    `json:"static"`
	Final   bool    `json:"final"`
	Default *uint64 `json:"default"`
}

type methodDoc struct {
	Name string           `json:"name"`
	Code []instructionDoc `json:"code"`
}

type instructionDoc struct {
	Op      string       `json:"op"`
	Dest    *uint16      `json:"dest"`
	Src     []uint16     `json:"src"`
	Literal uint64       `json:"literal"`
	Field   *fieldRefDoc `json:"field"`
}

type fieldRefDoc struct {
	Class string `json:"class"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

// loadBundle decodes path into a classfile.Scope. Each field reference's
// type is parsed from fieldRefDoc's own type string while decoding.
func loadBundle(path string) (classfile.Scope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}

	var doc bundleDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse bundle: %w", err)
	}

	scope := make(classfile.Scope, 0, len(doc.Classes))
	for _, cd := range doc.Classes {
		class := classfile.NewClass(cd.Name)
		class.SetDeletable(cd.Deletable)

		for _, fd := range cd.Fields {
			access := classfile.AccessFlags(0)
			if fd.Static {
				access |= classfile.AccStatic
			}
			if fd.Final {
				access |= classfile.AccFinal
			}
			typ := parseType(fd.Type)

			var def *classfile.EncodedValue
			if fd.Default != nil {
				def = classfile.ZeroFor(typ)
				def.Set(*fd.Default)
			}
			class.AddField(fd.Name, typ, access, def)
		}

		if len(cd.Initializer) > 0 {
			instrs := decodeInstructions(cd.Initializer)
			class.SetInitializer(instrs...)
		}

		for _, md := range cd.Methods {
			class.AddMethod(md.Name, classfile.AccPublic, decodeInstructions(md.Code)...)
		}

		scope = append(scope, class)
	}

	return scope, nil
}

// saveBundle serialises scope back into the same JSON shape loadBundle
// reads, so a dexfinal run can be chained into another tool that expects
// the fixture format.
func saveBundle(path string, scope classfile.Scope) error {
	doc := bundleDoc{Classes: make([]classDoc, 0, len(scope))}
	for _, class := range scope {
		cd := classDoc{Name: class.Name, Deletable: class.CanDelete()}
		for _, f := range class.StaticFields {
			fd := fieldDoc{
				Name:   f.Name,
				Type:   typeName(f.Type),
				Static: f.Access.IsStatic(),
				Final:  f.Access.IsFinal(),
			}
			if f.Default != nil {
				v := f.Default.Value
				fd.Default = &v
			}
			cd.Fields = append(cd.Fields, fd)
		}
		if class.Initializer != nil {
			cd.Initializer = encodeInstructions(class.Initializer.Code.Slice())
		}
		for _, m := range class.Methods {
			cd.Methods = append(cd.Methods, methodDoc{Name: m.Name, Code: encodeInstructions(m.Code.Slice())})
		}
		doc.Classes = append(doc.Classes, cd)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	return nil
}

func encodeInstructions(instrs []*classfile.Instruction) []instructionDoc {
	out := make([]instructionDoc, 0, len(instrs))
	for _, ins := range instrs {
		d := instructionDoc{Op: opName(ins.Op), Literal: ins.Literal}
		if ins.HasDest {
			dest := uint16(ins.Dest)
			d.Dest = &dest
		}
		if len(ins.Src) > 0 {
			d.Src = toUint16s(ins.Src)
		}
		if ins.Field != nil {
			d.Field = &fieldRefDoc{Class: ins.Field.Class, Name: ins.Field.Name, Type: typeName(ins.Field.Type)}
		}
		out = append(out, d)
	}
	return out
}

func toUint16s(regs []classfile.Register) []uint16 {
	out := make([]uint16, len(regs))
	for i, r := range regs {
		out[i] = uint16(r)
	}
	return out
}

func typeName(t classfile.Type) string {
	switch t {
	case classfile.TypeInt:
		return "int"
	case classfile.TypeBoolean:
		return "boolean"
	case classfile.TypeByte:
		return "byte"
	case classfile.TypeChar:
		return "char"
	case classfile.TypeShort:
		return "short"
	case classfile.TypeLong:
		return "long"
	default:
		return "reference"
	}
}

func opName(op classfile.OpCode) string {
	switch op {
	case classfile.OpConst4:
		return "const4"
	case classfile.OpConst16:
		return "const16"
	case classfile.OpConstHigh16:
		return "const_high16"
	case classfile.OpConst32:
		return "const32"
	case classfile.OpSGet:
		return "sget"
	case classfile.OpSGetBoolean:
		return "sget_boolean"
	case classfile.OpSGetByte:
		return "sget_byte"
	case classfile.OpSGetChar:
		return "sget_char"
	case classfile.OpSGetShort:
		return "sget_short"
	case classfile.OpSGetWide:
		return "sget_wide"
	case classfile.OpSPut:
		return "sput"
	case classfile.OpSPutBoolean:
		return "sput_boolean"
	case classfile.OpSPutByte:
		return "sput_byte"
	case classfile.OpSPutChar:
		return "sput_char"
	case classfile.OpSPutShort:
		return "sput_short"
	case classfile.OpSPutWide:
		return "sput_wide"
	case classfile.OpReturnVoid:
		return "return_void"
	default:
		return "other"
	}
}

func decodeInstructions(docs []instructionDoc) []*classfile.Instruction {
	out := make([]*classfile.Instruction, 0, len(docs))
	for _, d := range docs {
		ins := &classfile.Instruction{
			Op:      parseOp(d.Op),
			Src:     toRegisters(d.Src),
			Literal: d.Literal,
		}
		if d.Dest != nil {
			ins.HasDest = true
			ins.Dest = classfile.Register(*d.Dest)
		}
		if d.Field != nil {
			ins.Field = &classfile.FieldRef{
				Class: d.Field.Class,
				Name:  d.Field.Name,
				Type:  parseType(d.Field.Type),
			}
		}
		out = append(out, ins)
	}
	return out
}

func toRegisters(raw []uint16) []classfile.Register {
	if raw == nil {
		return nil
	}
	regs := make([]classfile.Register, len(raw))
	for i, r := range raw {
		regs[i] = classfile.Register(r)
	}
	return regs
}

func parseType(s string) classfile.Type {
	switch s {
	case "int":
		return classfile.TypeInt
	case "boolean":
		return classfile.TypeBoolean
	case "byte":
		return classfile.TypeByte
	case "char":
		return classfile.TypeChar
	case "short":
		return classfile.TypeShort
	case "long":
		return classfile.TypeLong
	default:
		return classfile.TypeReference
	}
}

func parseOp(s string) classfile.OpCode {
	switch s {
	case "const4":
		return classfile.OpConst4
	case "const16":
		return classfile.OpConst16
	case "const_high16":
		return classfile.OpConstHigh16
	case "const32":
		return classfile.OpConst32
	case "sget":
		return classfile.OpSGet
	case "sget_boolean":
		return classfile.OpSGetBoolean
	case "sget_byte":
		return classfile.OpSGetByte
	case "sget_char":
		return classfile.OpSGetChar
	case "sget_short":
		return classfile.OpSGetShort
	case "sget_wide":
		return classfile.OpSGetWide
	case "sput":
		return classfile.OpSPut
	case "sput_boolean":
		return classfile.OpSPutBoolean
	case "sput_byte":
		return classfile.OpSPutByte
	case "sput_char":
		return classfile.OpSPutChar
	case "sput_short":
		return classfile.OpSPutShort
	case "sput_wide":
		return classfile.OpSPutWide
	case "return_void":
		return classfile.OpReturnVoid
	default:
		return classfile.OpOther
	}
}
