package classfile

// Type is the value type carried by a field or a register write. Only the
// distinction the pass actually branches on is modelled: primitive widths
// the pass can encode and propagate, and a catch-all reference type it
// never touches.
type Type byte

const (
	TypeInt Type = iota
	TypeBoolean
	TypeByte
	TypeChar
	TypeShort
	TypeLong // wide; the pass never inlines it
	TypeReference
)

// IsPrimitive reports whether t is one of the fixed-width integer types
// the pass knows how to encode, as opposed to a reference type.
func (t Type) IsPrimitive() bool {
	return t != TypeReference
}

// IsWide reports whether t needs 64 bits to represent.
func (t Type) IsWide() bool {
	return t == TypeLong
}

// AccessFlags mirrors the Dalvik/JVM access_flags bit set: a class,
// field or method carries a subset of these bits.
type AccessFlags uint32

const (
	AccPublic    AccessFlags = 0x0001
	AccPrivate   AccessFlags = 0x0002
	AccProtected AccessFlags = 0x0004
	AccStatic    AccessFlags = 0x0008
	AccFinal     AccessFlags = 0x0010
	AccSynthetic AccessFlags = 0x1000
	// AccConstructor marks a method as a constructor (<init>/<clinit> in
	// Dalvik terms). Combined with AccStatic it identifies a static
	// initializer.
	AccConstructor AccessFlags = 0x10000
)

// Has reports whether all bits in mask are set.
func (a AccessFlags) Has(mask AccessFlags) bool {
	return a&mask == mask
}

// IsStatic, IsFinal and IsConstructor are plain bit tests; this repo
// owns the access-flag representation directly instead of receiving it
// from an external host.
func (a AccessFlags) IsStatic() bool      { return a.Has(AccStatic) }
func (a AccessFlags) IsFinal() bool       { return a.Has(AccFinal) }
func (a AccessFlags) IsConstructor() bool { return a.Has(AccConstructor) }

// EncodedWidth identifies the storage width of an EncodedValue.
type EncodedWidth byte

const (
	WidthNull EncodedWidth = iota // reference type, default null
	Width8
	Width16
	Width32
	Width64
)

// EncodedValue is a typed literal stored alongside a field definition in
// place of initializer code ("encoded default value").
type EncodedValue struct {
	Width EncodedWidth
	Value uint64 // zero-extended payload; meaningless when Width == WidthNull
}

// ZeroFor returns the encoded-value representation of the zero value for
// t, used as the seed default before a literal is populated into it.
func ZeroFor(t Type) *EncodedValue {
	if t == TypeReference {
		return &EncodedValue{Width: WidthNull}
	}
	width := Width32
	if t.IsWide() {
		width = Width64
	}
	return &EncodedValue{Width: width, Value: 0}
}

// Set overwrites the encoded value's payload in place, zero-extending v
// into the existing width. Width itself is fixed at construction time by
// ZeroFor and never changes afterwards — only the literal payload does.
func (e *EncodedValue) Set(v uint64) {
	e.Value = v
}

// Clone returns a deep copy so two fields never alias the same
// *EncodedValue after constant propagation copies a value across fields.
func (e *EncodedValue) Clone() *EncodedValue {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}
