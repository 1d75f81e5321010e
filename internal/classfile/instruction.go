package classfile

import "fmt"

// Register is a virtual register index within a method's code.
type Register uint16

// FieldRef is a symbolic reference to a field as it appears inside a
// method body: class name + member name + type, not yet resolved to a
// concrete Field. Code bodies carry references, not definitions.
type FieldRef struct {
	Class string
	Name  string
	Type  Type
}

func (f *FieldRef) String() string {
	return fmt.Sprintf("%s.%s", f.Class, f.Name)
}

// Instruction is a single opcode plus its operands. Only the fields a
// given Op actually uses are meaningful; the rest are zero.
type Instruction struct {
	Op OpCode

	HasDest bool
	Dest    Register

	Src []Register // sput carries exactly one source register

	Literal uint64    // payload for const loads, zero-extended
	Field   *FieldRef // payload for sget/sput
}

// SrcReg returns the single source register of a sput-family
// instruction. Panics if called on an instruction with no source
// register — callers are expected to have checked classfile.IsSput first.
func (i *Instruction) SrcReg() Register {
	return i.Src[0]
}

func (i *Instruction) String() string {
	switch {
	case i.Op.IsConstLoad():
		return fmt.Sprintf("%s v%d, %d", i.Op, i.Dest, i.Literal)
	case IsSget(i.Op):
		return fmt.Sprintf("%s v%d, %s", i.Op, i.Dest, i.Field)
	case IsSput(i.Op):
		return fmt.Sprintf("%s v%d, %s", i.Op, i.Src[0], i.Field)
	default:
		return i.Op.String()
	}
}

// Clone returns a shallow copy of the instruction. Used when a rewrite
// replaces one instruction with another rather than mutating in place.
func (i *Instruction) Clone() *Instruction {
	clone := *i
	if i.Src != nil {
		clone.Src = append([]Register(nil), i.Src...)
	}
	return &clone
}

// NewConstLoad builds a constant-load instruction with opcode op carrying
// literal into dest. It does not pick the opcode; callers pass one.
func NewConstLoad(op OpCode, dest Register, literal uint64) *Instruction {
	return &Instruction{Op: op, HasDest: true, Dest: dest, Literal: literal}
}

// NewSget builds a static-read instruction.
func NewSget(op OpCode, dest Register, field *FieldRef) *Instruction {
	return &Instruction{Op: op, HasDest: true, Dest: dest, Field: field}
}

// NewSput builds a static-write instruction.
func NewSput(op OpCode, src Register, field *FieldRef) *Instruction {
	return &Instruction{Op: op, Src: []Register{src}, Field: field}
}

// InstructionList is the mutable instruction stream of a method body. It
// offers a forward-only, one-step-lookahead cursor (iterate_instructions);
// the cursor cannot remove instructions, so removal goes through
// RemoveIndices on the list.
//
// The backing store is a slice rather than a linked list: a vector with
// lazy compaction is an acceptable substitute for a doubly-linked list,
// and every pass in this repo either discovers edits read-only and
// applies them in one batched sweep, or removes at most two elements per
// resolved dependency edge, which a slice handles without amortised cost
// concerns at class-bundle scale.
type InstructionList struct {
	items []*Instruction
}

// NewInstructionList wraps an existing instruction slice.
func NewInstructionList(items []*Instruction) *InstructionList {
	return &InstructionList{items: items}
}

// Len returns the number of instructions currently in the list.
func (l *InstructionList) Len() int { return len(l.items) }

// At returns the instruction at index i.
func (l *InstructionList) At(i int) *Instruction { return l.items[i] }

// Slice returns the underlying instructions. Callers must not retain the
// slice across a mutation of the list.
func (l *InstructionList) Slice() []*Instruction { return l.items }

// Replace overwrites the instruction at index with with, a one-for-one
// in-place rewrite (used by 4.E); the list's length does not change.
func (l *InstructionList) Replace(index int, with *Instruction) {
	l.items[index] = with
}

// RemoveIndices deletes every instruction whose index is in indices,
// preserving the relative order of what remains. indices need not be
// sorted or unique.
func (l *InstructionList) RemoveIndices(indices []int) {
	if len(indices) == 0 {
		return
	}
	drop := make(map[int]bool, len(indices))
	for _, idx := range indices {
		drop[idx] = true
	}
	kept := l.items[:0:0]
	for i, ins := range l.items {
		if drop[i] {
			continue
		}
		kept = append(kept, ins)
	}
	l.items = kept
}

// Cursor walks the list forward, exposing a one-instruction lookahead. It
// has no removal operation; it only reads the list.
type Cursor struct {
	list *InstructionList
	pos  int // index of the instruction last returned by Next, or -1
}

// NewCursor returns a cursor positioned before the first instruction.
func (l *InstructionList) NewCursor() *Cursor {
	return &Cursor{list: l, pos: -1}
}

// Next advances the cursor and returns the next instruction, or
// (nil, false) at end of stream.
func (c *Cursor) Next() (*Instruction, bool) {
	next := c.pos + 1
	if next >= c.list.Len() {
		return nil, false
	}
	c.pos = next
	return c.list.At(c.pos), true
}

// Peek returns the instruction one step ahead of the cursor's current
// position without advancing, or (nil, false) at end of stream.
func (c *Cursor) Peek() (*Instruction, bool) {
	ahead := c.pos + 1
	if ahead >= c.list.Len() {
		return nil, false
	}
	return c.list.At(ahead), true
}

// Index returns the position of the instruction last returned by Next.
func (c *Cursor) Index() int { return c.pos }
