package finalinline

import "github.com/tangzhangming/dexfinal/internal/classfile"

// Component C — Encodable-Clinit Replacer, grounded in the original's
// try_replace_clinit/replace_encodable_clinits
// (original_source/opt/final_inline/FinalInline.cpp): recognise a
// static initializer whose body is a strictly alternating (const,
// sput)* sequence terminated by return-void, hoist each pair's literal
// into the target field's encoded default, and delete the initializer.
//
// Contract: for each class, either delete the initializer and populate
// field defaults from it, or leave both untouched — never partially.

// constSputPair is one accepted (load-constant, static-write) pair.
type constSputPair struct {
	field   *classfile.Field
	literal uint64
}

// validateConstForEncoding reports whether op is a constant-load shape
// the clinit replacer accepts as a pair's first half. narrow-4 is
// accepted here even though the classifier never emits it — this is an
// input-shape predicate, not an output predicate.
func validateConstForEncoding(ins *classfile.Instruction) bool {
	switch ins.Op {
	case classfile.OpConst4, classfile.OpConst16, classfile.OpConst32:
		return true
	default:
		return false
	}
}

// validateSputForEncoding reports whether ins is an sput whose target
// resolves to a static field declared on class. The field need not have
// an encoded default yet.
func validateSputForEncoding(class *classfile.Class, ins *classfile.Instruction, resolver classfile.FieldResolver) (*classfile.Field, bool) {
	if !classfile.IsSput(ins.Op) {
		return nil, false
	}
	field, ok := resolver.ResolveStatic(ins.Field)
	if !ok {
		return nil, false
	}
	return field, field.Class == class
}

// tryReplaceClinit attempts the shape match for a single class. It
// returns true if the initializer was replaced (and removes it from
// class as a side effect).
func tryReplaceClinit(class *classfile.Class, resolver classfile.FieldResolver) bool {
	clinit := class.Initializer
	if clinit == nil {
		return false
	}
	// A malformed initializer is left in place for blankStatics to report
	// as corruption.
	if !clinit.IsStaticInitializer() {
		return false
	}
	code := clinit.Code.Slice()

	var pairs []constSputPair
	terminated := false
	i := 0
	for i < len(code) {
		first := code[i]

		// A lone return-void (zero pairs so far) is eligible.
		if i == len(code)-1 {
			if first.Op != classfile.OpReturnVoid {
				return false
			}
			terminated = true
			break
		}

		second := code[i+1]
		if !validateConstForEncoding(first) {
			return false
		}
		field, ok := validateSputForEncoding(class, second, resolver)
		if !ok {
			return false
		}
		if !first.HasDest || len(second.Src) != 1 || first.Dest != second.Src[0] {
			return false
		}
		pairs = append(pairs, constSputPair{field: field, literal: first.Literal})
		i += 2
	}
	if !terminated {
		return false
	}

	// Apply every accepted pair. Later writes to the same field overwrite
	// earlier ones, the natural consequence of sequential application.
	for _, pair := range pairs {
		ev := classfile.ZeroFor(pair.field.Type)
		ev.Set(pair.literal)
		pair.field.MakeConcrete(pair.field.Access, ev)
	}
	class.RemoveInitializer()
	return true
}

// replaceEncodableClinits runs tryReplaceClinit over every class in
// scope and returns the number of initializers replaced.
func replaceEncodableClinits(scope classfile.Scope, resolver classfile.FieldResolver) int {
	replaced := 0
	for _, class := range scope {
		if class.Initializer == nil {
			continue
		}
		if tryReplaceClinit(class, resolver) {
			replaced++
		}
	}
	return replaced
}
