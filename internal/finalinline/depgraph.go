package finalinline

import "github.com/tangzhangming/dexfinal/internal/classfile"

// Component D — Dependency Resolver, grounded in the original's
// propagate_constants (original_source/opt/final_inline/FinalInline.cpp):
// discover dependency edges between static finals initialised from other
// static finals, seed a worklist from fields already known, and
// propagate in topological order. Cyclic groups are unreachable from the
// seed set and are silently left unresolved — no explicit cycle
// detection is needed.

// fieldDependency is one discovered (sget, sput) pair: resolving the
// source field lets destField become concrete, and removing the pair
// from clinit's code is how that gets applied.
type fieldDependency struct {
	clinit *classfile.Method
	sgetIx int
	sputIx int
	dest   *classfile.Field
}

// discoverDependencies walks every class's static initializer with a
// one-instruction lookahead, recording an edge src -> dest for every
// (sget, sput) pair where the sget resolves to a static final (with or
// without an encoded default yet),
// the sput resolves to a static final declared on the same class, the
// registers line up, and the sget's destination register is not read
// before being overwritten in the remainder of the method.
func discoverDependencies(scope classfile.Scope, resolver classfile.FieldResolver) (map[*classfile.Field][]fieldDependency, error) {
	deps := make(map[*classfile.Field][]fieldDependency)
	for _, class := range scope {
		clinit := class.Initializer
		if clinit == nil {
			continue
		}
		if !clinit.IsStaticInitializer() {
			return nil, corruptInitializer(class.Name, clinit.Name)
		}
		code := clinit.Code.Slice()
		for i := 0; i+1 < len(code); i++ {
			sgetIns := code[i]
			if !isNarrowSget(sgetIns.Op) {
				continue
			}
			srcField, ok := resolver.ResolveStatic(sgetIns.Field)
			if !ok || !srcField.Access.IsStatic() || !srcField.Access.IsFinal() {
				continue
			}

			sputIns := code[i+1]
			dstField, ok := validateSputForEncoding(class, sputIns, resolver)
			if !ok || !dstField.Access.IsStatic() || !dstField.Access.IsFinal() {
				continue
			}

			if !sgetIns.HasDest || len(sputIns.Src) != 1 || sgetIns.Dest != sputIns.Src[0] {
				continue
			}

			if sourceRegisterReused(code, i+2, sgetIns.Dest) {
				continue
			}

			deps[srcField] = append(deps[srcField], fieldDependency{
				clinit: clinit,
				sgetIx: i,
				sputIx: i + 1,
				dest:   dstField,
			})
		}
	}
	return deps, nil
}

// sourceRegisterReused scans code[from:] and reports whether reg is read
// before it is next overwritten. Scanning halts at the first write to
// reg (the pair is then safe to remove — a later dependency pair that
// happens to be the overwriting instruction has already captured the
// loaded value into its destination field) or at the first read of reg,
// whichever comes first.
func sourceRegisterReused(code []*classfile.Instruction, from int, reg classfile.Register) bool {
	for j := from; j < len(code); j++ {
		ins := code[j]
		for _, src := range ins.Src {
			if src == reg {
				return true
			}
		}
		if ins.HasDest && ins.Dest == reg {
			return false
		}
	}
	return false
}

// seedResolved collects every static final field with a known encoded
// default that is not blank in its own declaring class — the starting
// point of propagation.
func seedResolved(scope classfile.Scope, resolver classfile.FieldResolver) ([]*classfile.Field, error) {
	var seed []*classfile.Field
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
			if !field.IsConcrete() {
				continue
			}
			seed = append(seed, field)
		}
	}
	return seed, nil
}

// propagateConstants runs the worklist algorithm and returns the number
// of fields resolved via propagation.
func propagateConstants(scope classfile.Scope, resolver classfile.FieldResolver) (int, error) {
	deps, err := discoverDependencies(scope, resolver)
	if err != nil {
		return 0, err
	}
	seed, err := seedResolved(scope, resolver)
	if err != nil {
		return 0, err
	}

	resolved := 0
	visited := make(map[*classfile.Field]bool)
	worklist := append([]*classfile.Field(nil), seed...)
	for _, f := range worklist {
		visited[f] = true
	}

	// pendingRemovals groups (sget,sput) index pairs per clinit so they
	// can be removed in one batched sweep per method once the worklist
	// drains, instead of shifting a slice on every resolution.
	pendingRemovals := make(map[*classfile.Method][]int)

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]

		for _, dep := range deps[cur] {
			if visited[dep.dest] {
				// Guard against resolving a field twice; each dependent
				// is only ever populated once.
				continue
			}
			if !cur.IsConcrete() {
				return resolved, notConcrete(cur.Class.Name, cur.Name)
			}
			dep.dest.MakeConcrete(dep.dest.Access, cur.Default.Clone())
			pendingRemovals[dep.clinit] = append(pendingRemovals[dep.clinit], dep.sgetIx, dep.sputIx)
			resolved++
			visited[dep.dest] = true
			worklist = append(worklist, dep.dest)
		}
	}

	for method, indices := range pendingRemovals {
		method.Code.RemoveIndices(indices)
	}

	return resolved, nil
}
