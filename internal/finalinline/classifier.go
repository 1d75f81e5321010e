package finalinline

import "github.com/tangzhangming/dexfinal/internal/classfile"

// Component A — Instruction Classifier. Pure predicates over opcodes and
// literals; no state, no side effects beyond the process-wide
// unhandled-wide counter.

// isNarrowSget reports whether op is a non-wide sget variant. Wide sget
// is explicitly rejected and bumps the unhandled counter, matching the
// original's check_sget (original_source/opt/final_inline/FinalInline.cpp).
func isNarrowSget(op classfile.OpCode) bool {
	if op == classfile.OpSGetWide {
		incrUnhandledWide()
		return false
	}
	return classfile.IsNarrowSget(op)
}

// fitsConst16 reports whether v fits the sign-extended 16-bit narrow
// constant encoding, viewed as an unsigned 32-bit pattern: v&0xFFFF==v.
func fitsConst16(v uint64) bool {
	return v&0xFFFF == v
}

// fitsConstHigh16 reports whether v occupies only the high 16 bits of a
// 32-bit value.
func fitsConstHigh16(v uint64) bool {
	return v&0xFFFF0000 == v
}

// chooseConstOpcode picks the narrowest constant-load opcode that can
// carry v: narrow-16 first (it wins the v==0 tie against high-16), then
// high-16, then wide-32.
func chooseConstOpcode(v uint64) classfile.OpCode {
	switch {
	case fitsConst16(v):
		return classfile.OpConst16
	case fitsConstHigh16(v):
		return classfile.OpConstHigh16
	default:
		return classfile.OpConst32
	}
}

// isCheap reports whether v can be loaded with a narrow (const-16 or
// high-16) encoding rather than the wide-32 fallback.
func isCheap(v uint64) bool {
	return fitsConst16(v) || fitsConstHigh16(v)
}
