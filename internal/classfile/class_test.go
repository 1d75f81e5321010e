package classfile

import "testing"

func TestFieldIsConcrete(t *testing.T) {
	class := NewClass("LFoo;")
	ref := class.AddField("BAR", TypeReference, AccStatic|AccFinal, nil)
	if !ref.IsConcrete() {
		t.Error("reference-typed field should be concrete with a nil default")
	}

	primitive := class.AddField("COUNT", TypeInt, AccStatic|AccFinal, nil)
	if primitive.IsConcrete() {
		t.Error("primitive field with no default should not be concrete")
	}

	primitive.MakeConcrete(primitive.Access, ZeroFor(TypeInt))
	if !primitive.IsConcrete() {
		t.Error("primitive field should be concrete once MakeConcrete installs a default")
	}
}

func TestIsStaticInitializer(t *testing.T) {
	tests := []struct {
		name   string
		access AccessFlags
		want   bool
	}{
		{"static constructor", AccStatic | AccConstructor, true},
		{"static only", AccStatic, false},
		{"constructor only", AccConstructor, false},
		{"neither", AccPublic, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Method{Name: "<clinit>", Access: tt.access, Code: NewInstructionList(nil)}
			if got := m.IsStaticInitializer(); got != tt.want {
				t.Errorf("IsStaticInitializer() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNilMethodIsNotStaticInitializer(t *testing.T) {
	var m *Method
	if m.IsStaticInitializer() {
		t.Error("nil method should never report as a static initializer")
	}
}

func TestRemoveField(t *testing.T) {
	class := NewClass("LFoo;")
	a := class.AddField("A", TypeInt, AccStatic, nil)
	b := class.AddField("B", TypeInt, AccStatic, nil)

	class.RemoveField(a)
	if len(class.StaticFields) != 1 || class.StaticFields[0] != b {
		t.Errorf("expected only B to remain, got %v", class.StaticFields)
	}

	// Removing a field that isn't present is a no-op, not a panic.
	class.RemoveField(a)
	if len(class.StaticFields) != 1 {
		t.Errorf("removing an absent field should be a no-op, got %v", class.StaticFields)
	}
}

func TestAllMethodsOrdersInitializerFirst(t *testing.T) {
	class := NewClass("LFoo;")
	instance := class.AddMethod("doWork", AccPublic)
	class.SetInitializer()

	all := class.AllMethods()
	if len(all) != 2 || all[0] != class.Initializer || all[1] != instance {
		t.Errorf("expected [initializer, doWork], got %v", all)
	}
}

func TestInstructionListRemoveIndices(t *testing.T) {
	list := NewInstructionList([]*Instruction{
		NewConstLoad(OpConst16, 0, 1),
		NewConstLoad(OpConst16, 1, 2),
		NewConstLoad(OpConst16, 2, 3),
	})
	list.RemoveIndices([]int{1})
	if list.Len() != 2 {
		t.Fatalf("expected 2 instructions remaining, got %d", list.Len())
	}
	if list.At(0).Literal != 1 || list.At(1).Literal != 3 {
		t.Errorf("unexpected remaining literals: %d, %d", list.At(0).Literal, list.At(1).Literal)
	}
}

func TestTableResolveStaticRequiresStaticBit(t *testing.T) {
	class := NewClass("LFoo;")
	class.AddField("INSTANCE_FIELD", TypeInt, AccFinal, nil) // not static

	table := NewTable(Scope{class})
	_, ok := table.ResolveStatic(&FieldRef{Class: "LFoo;", Name: "INSTANCE_FIELD", Type: TypeInt})
	if ok {
		t.Error("resolver should refuse to resolve a non-static field as a static one")
	}
}

func TestTableResolveStaticFindsDeclaredField(t *testing.T) {
	class := NewClass("LFoo;")
	field := class.AddField("BAR", TypeInt, AccStatic|AccFinal, nil)

	table := NewTable(Scope{class})
	got, ok := table.ResolveStatic(&FieldRef{Class: "LFoo;", Name: "BAR", Type: TypeInt})
	if !ok || got != field {
		t.Errorf("expected to resolve BAR to %v, got %v, ok=%v", field, got, ok)
	}
}
