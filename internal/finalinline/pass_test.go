package finalinline

import (
	"testing"

	"github.com/tangzhangming/dexfinal/internal/classfile"
)

// S1: const/16 v0, 7 ; sput v0, A.x:I ; return-void -- initialiser removed,
// A.x's default becomes 7, encodable_clinits_replaced == 1.
func TestEncodableClinitSingleField(t *testing.T) {
	classA := classfile.NewClass("LA;")
	fieldX := classA.AddField("x", classfile.TypeInt, classfile.AccStatic|classfile.AccFinal, nil)
	classA.SetInitializer(
		classfile.NewConstLoad(classfile.OpConst16, 0, 7),
		classfile.NewSput(classfile.OpSPut, 0, fieldX.Ref()),
		&classfile.Instruction{Op: classfile.OpReturnVoid},
	)

	scope := classfile.Scope{classA}
	resolver := classfile.NewTable(scope)

	metrics, err := Run(scope, resolver, DefaultConfig())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if metrics.EncodableClinitsReplaced != 1 {
		t.Errorf("EncodableClinitsReplaced = %d, want 1", metrics.EncodableClinitsReplaced)
	}
	if classA.Initializer != nil {
		t.Error("initialiser should have been removed")
	}
	if fieldX.Default == nil || fieldX.Default.Value != 7 {
		t.Errorf("x.Default = %v, want literal 7", fieldX.Default)
	}
}

// S2: P.CONST = 0 (no initialiser). C's initialiser reads P.CONST and
// stores it into C.CONST. After propagation, C.CONST is concrete with 0,
// the pair is removed, and the now-empty initialiser is then deleted by
// the second pass of component C.
func TestPropagationThenClinitRemoval(t *testing.T) {
	classP := classfile.NewClass("LP;")
	fieldConstP := classP.AddField("CONST", classfile.TypeInt, classfile.AccStatic|classfile.AccFinal, classfile.ZeroFor(classfile.TypeInt))

	classC := classfile.NewClass("LC;")
	fieldConstC := classC.AddField("CONST", classfile.TypeInt, classfile.AccStatic|classfile.AccFinal, nil)
	classC.SetInitializer(
		classfile.NewSget(classfile.OpSGet, 0, fieldConstP.Ref()),
		classfile.NewSput(classfile.OpSPut, 0, fieldConstC.Ref()),
		&classfile.Instruction{Op: classfile.OpReturnVoid},
	)

	scope := classfile.Scope{classP, classC}
	resolver := classfile.NewTable(scope)

	metrics, err := Run(scope, resolver, DefaultConfig())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if metrics.StaticFinalsResolved != 1 {
		t.Errorf("StaticFinalsResolved = %d, want 1", metrics.StaticFinalsResolved)
	}
	if metrics.EncodableClinitsReplaced != 1 {
		t.Errorf("EncodableClinitsReplaced = %d, want 1", metrics.EncodableClinitsReplaced)
	}
	if !fieldConstC.IsConcrete() || fieldConstC.Default.Value != 0 {
		t.Errorf("C.CONST should be concrete with value 0, got %v", fieldConstC.Default)
	}
	if classC.Initializer != nil {
		t.Error("C's initialiser should have been removed once empty")
	}
}

// S3/S4/S5: use-site inlining chooses the narrowest encoding that fits.
func TestUseSiteInliningChoosesNarrowestEncoding(t *testing.T) {
	tests := []struct {
		name    string
		literal uint64
		wantOp  classfile.OpCode
	}{
		{"fits narrow16", 7, classfile.OpConst16},
		{"fits high16", 0x10000000, classfile.OpConstHigh16},
		{"needs wide32", 0x12345678, classfile.OpConst32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classA := classfile.NewClass("LA;")
			def := classfile.ZeroFor(classfile.TypeInt)
			def.Set(tt.literal)
			field := classA.AddField("v", classfile.TypeInt, classfile.AccStatic|classfile.AccFinal, def)

			useSite := classA.AddMethod("m", classfile.AccPublic,
				classfile.NewSget(classfile.OpSGet, 2, field.Ref()),
			)

			scope := classfile.Scope{classA}
			resolver := classfile.NewTable(scope)

			if _, err := Run(scope, resolver, DefaultConfig()); err != nil {
				t.Fatalf("Run returned error: %v", err)
			}

			rewritten := useSite.Code.At(0)
			if rewritten.Op != tt.wantOp {
				t.Errorf("Op = %s, want %s", rewritten.Op, tt.wantOp)
			}
			if !rewritten.HasDest || rewritten.Dest != 2 {
				t.Errorf("destination register not preserved: %+v", rewritten)
			}
			if rewritten.Literal != tt.literal {
				t.Errorf("Literal = %d, want %d", rewritten.Literal, tt.literal)
			}
		})
	}
}

// S6: a field receiving multiple writes in the same initialiser: last
// write wins.
func TestEncodableClinitLastWriteWins(t *testing.T) {
	classD := classfile.NewClass("LD;")
	fieldF := classD.AddField("f", classfile.TypeInt, classfile.AccStatic|classfile.AccFinal, nil)
	classD.SetInitializer(
		classfile.NewConstLoad(classfile.OpConst16, 0, 1),
		classfile.NewSput(classfile.OpSPut, 0, fieldF.Ref()),
		classfile.NewConstLoad(classfile.OpConst16, 0, 2),
		classfile.NewSput(classfile.OpSPut, 0, fieldF.Ref()),
		&classfile.Instruction{Op: classfile.OpReturnVoid},
	)

	scope := classfile.Scope{classD}
	resolver := classfile.NewTable(scope)

	if _, err := Run(scope, resolver, DefaultConfig()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if fieldF.Default == nil || fieldF.Default.Value != 2 {
		t.Errorf("f.Default = %v, want literal 2", fieldF.Default)
	}
	if classD.Initializer != nil {
		t.Error("initialiser should have been removed")
	}
}

// S7: wide sget is left untouched and bumps the unhandled counter.
func TestWideSgetUnhandled(t *testing.T) {
	classA := classfile.NewClass("LA;")
	def := classfile.ZeroFor(classfile.TypeLong)
	def.Set(123)
	field := classA.AddField("z", classfile.TypeLong, classfile.AccStatic|classfile.AccFinal, def)

	useSite := classA.AddMethod("m", classfile.AccPublic,
		classfile.NewSget(classfile.OpSGetWide, 1, field.Ref()),
	)

	scope := classfile.Scope{classA}
	resolver := classfile.NewTable(scope)

	metrics, err := Run(scope, resolver, DefaultConfig())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if metrics.UnhandledWideReads != 1 {
		t.Errorf("UnhandledWideReads = %d, want 1", metrics.UnhandledWideReads)
	}
	if useSite.Code.At(0).Op != classfile.OpSGetWide {
		t.Error("wide sget should be left intact")
	}
}

// S8: a field written unconditionally by its own class's initialiser is
// blank and excluded from inlining; reads elsewhere are left as-is.
func TestBlankStaticExcludedFromInlining(t *testing.T) {
	classD := classfile.NewClass("LD;")
	def := classfile.ZeroFor(classfile.TypeInt)
	def.Set(5)
	fieldF := classD.AddField("f", classfile.TypeInt, classfile.AccStatic|classfile.AccFinal, def)
	classD.SetInitializer(
		classfile.NewConstLoad(classfile.OpConst16, 0, 9),
		classfile.NewSput(classfile.OpSPut, 0, fieldF.Ref()),
		&classfile.Instruction{Op: classfile.OpReturnVoid},
	)

	other := classD.AddMethod("m", classfile.AccPublic,
		classfile.NewSget(classfile.OpSGet, 3, fieldF.Ref()),
	)

	scope := classfile.Scope{classD}
	resolver := classfile.NewTable(scope)

	// Disable component C so the write in the initialiser stays visible
	// for the blank check instead of being folded away first.
	cfg := DefaultConfig()
	cfg.ReplaceEncodableClinits = false

	if _, err := Run(scope, resolver, cfg); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if other.Code.At(0).Op != classfile.OpSGet {
		t.Error("blank static's use site should be left untouched")
	}
}

// Corrupt input: a present initialiser lacking the required access bits
// is fatal.
func TestCorruptInitializerAccessBits(t *testing.T) {
	classA := classfile.NewClass("LA;")
	classA.Initializer = &classfile.Method{
		Name:   "<clinit>",
		Access: classfile.AccStatic, // missing AccConstructor
		Code:   classfile.NewInstructionList(nil),
	}

	scope := classfile.Scope{classA}
	resolver := classfile.NewTable(scope)

	_, err := Run(scope, resolver, DefaultConfig())
	if err == nil {
		t.Fatal("expected a corruption error for a malformed initialiser")
	}
	corrupt, ok := err.(*CorruptionError)
	if !ok {
		t.Fatalf("expected *CorruptionError, got %T", err)
	}
	if corrupt.Code != CodeBadInitializerAccess {
		t.Errorf("Code = %s, want %s", corrupt.Code, CodeBadInitializerAccess)
	}
}

// Idempotence: running twice yields the same final state as running once.
func TestIdempotence(t *testing.T) {
	build := func() (classfile.Scope, *classfile.Field, *classfile.Method) {
		classA := classfile.NewClass("LA;")
		fieldX := classA.AddField("x", classfile.TypeInt, classfile.AccStatic|classfile.AccFinal, nil)
		classA.SetInitializer(
			classfile.NewConstLoad(classfile.OpConst16, 0, 7),
			classfile.NewSput(classfile.OpSPut, 0, fieldX.Ref()),
			&classfile.Instruction{Op: classfile.OpReturnVoid},
		)
		useSite := classA.AddMethod("m", classfile.AccPublic,
			classfile.NewSget(classfile.OpSGet, 4, fieldX.Ref()),
		)
		return classfile.Scope{classA}, fieldX, useSite
	}

	scope, fieldX, useSite := build()
	resolver := classfile.NewTable(scope)
	if _, err := Run(scope, resolver, DefaultConfig()); err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	firstLiteral := useSite.Code.At(0).Literal
	firstDefault := fieldX.Default.Value

	if _, err := Run(scope, resolver, DefaultConfig()); err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	if useSite.Code.At(0).Literal != firstLiteral {
		t.Errorf("second run changed use-site literal: %d != %d", useSite.Code.At(0).Literal, firstLiteral)
	}
	if fieldX.Default.Value != firstDefault {
		t.Errorf("second run changed field default: %d != %d", fieldX.Default.Value, firstDefault)
	}
}

// Dead-field removal: a field fully inlined away and otherwise unused on
// a deletable class is removed once nothing references it.
func TestDeadFieldRemoval(t *testing.T) {
	classA := classfile.NewClass("LA;")
	classA.SetDeletable(true)
	def := classfile.ZeroFor(classfile.TypeInt)
	def.Set(3)
	classA.AddField("UNUSED", classfile.TypeInt, classfile.AccStatic|classfile.AccFinal, def)

	scope := classfile.Scope{classA}
	resolver := classfile.NewTable(scope)

	if _, err := Run(scope, resolver, DefaultConfig()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(classA.StaticFields) != 0 {
		t.Errorf("expected UNUSED to be removed, StaticFields = %v", classA.StaticFields)
	}
}

// Dead-field removal respects keep_class_members even on a deletable class.
func TestDeadFieldRemovalRespectsKeepList(t *testing.T) {
	classA := classfile.NewClass("LA;")
	classA.SetDeletable(true)
	def := classfile.ZeroFor(classfile.TypeInt)
	def.Set(3)
	classA.AddField("UNUSED", classfile.TypeInt, classfile.AccStatic|classfile.AccFinal, def)

	scope := classfile.Scope{classA}
	resolver := classfile.NewTable(scope)

	cfg := DefaultConfig()
	cfg.KeepClassMembers = []string{"UNUSED"}

	if _, err := Run(scope, resolver, cfg); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(classA.StaticFields) != 1 {
		t.Errorf("expected UNUSED to survive via keep list, StaticFields = %v", classA.StaticFields)
	}
}

// The "source register reused" scan accepts a pair when the register is
// overwritten by another dependency pair before any read, applied to a
// three-field chain A -> B -> C.
func TestRegisterReuseAcrossChainedDependency(t *testing.T) {
	classA := classfile.NewClass("LA;")
	fieldA := classA.AddField("A", classfile.TypeInt, classfile.AccStatic|classfile.AccFinal, classfile.ZeroFor(classfile.TypeInt))
	fieldA.Default.Set(42)

	classB := classfile.NewClass("LB;")
	fieldB := classB.AddField("B", classfile.TypeInt, classfile.AccStatic|classfile.AccFinal, nil)
	fieldC := classB.AddField("C", classfile.TypeInt, classfile.AccStatic|classfile.AccFinal, nil)
	classB.SetInitializer(
		classfile.NewSget(classfile.OpSGet, 0, fieldA.Ref()),
		classfile.NewSput(classfile.OpSPut, 0, fieldB.Ref()),
		// v0 is overwritten by the next pair's sget before anything reads it.
		classfile.NewSget(classfile.OpSGet, 0, fieldB.Ref()),
		classfile.NewSput(classfile.OpSPut, 0, fieldC.Ref()),
		&classfile.Instruction{Op: classfile.OpReturnVoid},
	)

	scope := classfile.Scope{classA, classB}
	resolver := classfile.NewTable(scope)

	metrics, err := Run(scope, resolver, DefaultConfig())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !fieldB.IsConcrete() || fieldB.Default.Value != 42 {
		t.Errorf("B should resolve to 42, got %v", fieldB.Default)
	}
	if !fieldC.IsConcrete() || fieldC.Default.Value != 42 {
		t.Errorf("C should resolve to 42, got %v", fieldC.Default)
	}
	if metrics.StaticFinalsResolved != 2 {
		t.Errorf("StaticFinalsResolved = %d, want 2", metrics.StaticFinalsResolved)
	}
}
