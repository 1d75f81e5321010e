package finalinline

import "github.com/tangzhangming/dexfinal/internal/classfile"

// Component B — Blank-Static Detector, grounded in the original's
// get_sput_in_clinit (original_source/opt/final_inline/FinalInline.cpp):
// scan a class's static initializer for sputs that target a field
// declared on that same class, and mark each such field blank — its
// encoded default, if any, is masked by the initializer's own
// assignment.
//
// Shared by the dependency resolver's seeding step (seedResolved in
// depgraph.go) and the use-site inliner's inlinable set (inlinableFields
// in inliner.go), matching the original's reuse of get_sput_in_clinit
// from two call sites.
func blankStatics(class *classfile.Class, resolver classfile.FieldResolver) (map[*classfile.Field]bool, error) {
	blanks := make(map[*classfile.Field]bool)
	clinit := class.Initializer
	if clinit == nil {
		return blanks, nil
	}
	if !clinit.IsStaticInitializer() {
		return nil, corruptInitializer(class.Name, clinit.Name)
	}
	for _, ins := range clinit.Code.Slice() {
		if !classfile.IsSput(ins.Op) {
			continue
		}
		field, ok := resolver.ResolveStatic(ins.Field)
		if !ok || !field.IsConcrete() {
			continue // unresolved or not concrete: ignore
		}
		if field.Class != class {
			continue // writes to a different class's field are ignored
		}
		blanks[field] = true
	}
	return blanks, nil
}
