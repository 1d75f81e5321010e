package finalinline

import (
	"strings"

	"github.com/tangzhangming/dexfinal/internal/classfile"
)

// Component F — Dead-Field Remover, grounded in the original's
// remove_unused_fields/get_called_field_defs/get_field_target
// (original_source/opt/final_inline/FinalInline.cpp), kept as the same
// two-function split the original uses: compute the used-field set
// once, then subtract it from the moveable set.

// moveableFields returns every static final field eligible for removal
// consideration.
func moveableFields(scope classfile.Scope, cfg Config) []*classfile.Field {
	var moveable []*classfile.Field
	for _, class := range scope {
		classDeletable := class.CanDelete()
		prefixMatch := !classDeletable && hasAnyPrefix(class.Name, cfg.RemoveClassMemberPrefixes)
		if !classDeletable && !prefixMatch {
			continue
		}
		for _, field := range class.StaticFields {
			if isKeptName(field.Name, cfg.KeepClassMembers) {
				continue
			}
			if !field.Access.IsStatic() || !field.Access.IsFinal() {
				continue
			}
			if field.Default == nil && !field.Type.IsPrimitive() {
				continue
			}
			if !classDeletable && prefixMatch && !fieldIndependentlyDeletable(field) {
				continue
			}
			moveable = append(moveable, field)
		}
	}
	return moveable
}

// fieldIndependentlyDeletable is the per-field deletion policy applied
// when a class is only eligible via name-prefix match. This repo models
// a field as independently deletable whenever it isn't kept by name —
// callers already filtered kept names before reaching here, so this
// always holds; the indirection exists to give the host a single
// override point, matching the external "can_delete" capability named in
// the original (can_delete(sfield)).
func fieldIndependentlyDeletable(field *classfile.Field) bool {
	return true
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

func isKeptName(name string, keep []string) bool {
	for _, k := range keep {
		if name == k {
			return true
		}
	}
	return false
}

// usedFields walks every method in scope, collects every field
// reference, resolves each one, and returns the set of definitions
// actually reached from code — the original's get_called_field_defs.
func usedFields(scope classfile.Scope, resolver classfile.FieldResolver) map[*classfile.Field]bool {
	used := make(map[*classfile.Field]bool)
	for _, class := range scope {
		for _, method := range class.AllMethods() {
			for _, ins := range method.Code.Slice() {
				if !classfile.IsStaticFieldOp(ins.Op) {
					continue
				}
				field, ok := resolver.ResolveStatic(ins.Field)
				if !ok {
					continue
				}
				used[field] = true
			}
		}
	}
	return used
}

// fieldTargets intersects moveable with the fields actually used in
// code — the original's get_field_target.
func fieldTargets(moveable []*classfile.Field, used map[*classfile.Field]bool) map[*classfile.Field]bool {
	targets := make(map[*classfile.Field]bool)
	for _, field := range moveable {
		if used[field] {
			targets[field] = true
		}
	}
	return targets
}

// removeDeadFields drops every moveable field that has no remaining
// use-site reference.
func removeDeadFields(scope classfile.Scope, resolver classfile.FieldResolver, cfg Config) {
	moveable := moveableFields(scope, cfg)
	if len(moveable) == 0 {
		return
	}
	used := usedFields(scope, resolver)
	targets := fieldTargets(moveable, used)

	for _, field := range moveable {
		if targets[field] {
			continue
		}
		field.Class.RemoveField(field)
	}
}
