package finalinline

import "github.com/tangzhangming/dexfinal/internal/classfile"

// Component E — Use-Site Inliner: replace every read of an inlinable
// static final with a constant-load instruction carrying the same
// destination register, choosing the narrowest encoding that fits.

// inlinableFields returns the set of static final fields with a known
// primitive default that are safe to inline: not blank in their own
// declaring class.
func inlinableFields(scope classfile.Scope, resolver classfile.FieldResolver) (map[*classfile.Field]bool, error) {
	inlinable := make(map[*classfile.Field]bool)
	for _, class := range scope {
		blanks, err := blankStatics(class, resolver)
		if err != nil {
			return nil, err
		}
		for _, field := range class.StaticFields {
			if !field.Access.IsStatic() || !field.Access.IsFinal() {
				continue
			}
			if blanks[field] {
				continue
			}
			if field.Default == nil || !field.Type.IsPrimitive() {
				continue
			}
			inlinable[field] = true
		}
	}
	return inlinable, nil
}

// rewrite is a deferred edit: replace the instruction at index in
// method's code with replacement, applied only after the read-only
// traversal of the whole method completes.
type rewrite struct {
	index       int
	replacement *classfile.Instruction
}

// inlineUseSites walks every method in scope and rewrites sgets of
// inlinable fields to constant loads.
func inlineUseSites(scope classfile.Scope, resolver classfile.FieldResolver, inlinable map[*classfile.Field]bool) {
	for _, class := range scope {
		for _, method := range class.AllMethods() {
			inlineMethod(method, resolver, inlinable)
		}
	}
}

func inlineMethod(method *classfile.Method, resolver classfile.FieldResolver, inlinable map[*classfile.Field]bool) {
	code := method.Code.Slice()
	var edits []rewrite

	for i, ins := range code {
		if !classfile.IsStaticFieldOp(ins.Op) {
			continue
		}
		if classfile.IsSput(ins.Op) {
			continue // only reads are inlined; writes are left alone
		}
		if !isNarrowSget(ins.Op) {
			continue // wide sget: unhandled counter already bumped
		}
		field, ok := resolver.ResolveStatic(ins.Field)
		if !ok || !inlinable[field] {
			continue
		}

		literal := field.Default.Value
		op := chooseConstOpcode(literal)
		edits = append(edits, rewrite{
			index:       i,
			replacement: classfile.NewConstLoad(op, ins.Dest, literal),
		})
	}

	// Apply in source-instruction order. Since every edit is a
	// same-index, same-width in-place replacement (no instruction count
	// change), source order here is just ascending index order — already
	// true of edits because the discovery loop above walked the method
	// forward.
	for _, e := range edits {
		method.Code.Replace(e.index, e.replacement)
	}
}
