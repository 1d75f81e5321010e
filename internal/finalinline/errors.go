package finalinline

import "fmt"

// Code identifies a class of fatal input corruption, an
// E-code-as-constant idiom scoped down to the two corruption cases
// this package's checks actually raise.
type Code string

const (
	// CodeBadInitializerAccess: a class's static initializer lacks the
	// static+constructor access bits required of a valid <clinit>.
	CodeBadInitializerAccess Code = "F0001"

	// CodeNotConcrete: a field resolved where the algorithm has already
	// established it must be concrete, but it isn't.
	CodeNotConcrete Code = "F0002"
)

// CorruptionError is the one error type the pass ever returns.
// Corruption is always fatal and always identifies the offending
// class, method or field; nothing else in the core produces an error —
// unhandled opcodes and ineligible shapes are silent misses, not
// errors.
type CorruptionError struct {
	Code  Code
	Class string
	// Member names the method or field at fault, whichever applies to
	// Code.
	Member string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("%s: corrupt input in class %s, member %s", e.Code, e.Class, e.Member)
}

func corruptInitializer(class, method string) error {
	return &CorruptionError{Code: CodeBadInitializerAccess, Class: class, Member: method}
}

func notConcrete(class, field string) error {
	return &CorruptionError{Code: CodeNotConcrete, Class: class, Member: field}
}
