// Package basmvm reparses pkg/basm's IR into a runnable 16-bit machine
// image and executes it: variables and a code_start/code_end prelude at
// the bottom of memory, then instructions as 4-word records.
package basmvm

import "github.com/basmtools/basm/pkg/basm"

// Register is one of the sixteen conventional general-purpose slots.
type Register int

const (
	RAX Register = iota
	RBX
	RCX
	RDX
	RSI
	RDI
	RSP
	RBP
	R08
	R09
	R10
	R11
	R12
	R13
	R14
	R15
)

func (r Register) String() string {
	names := [...]string{"rax", "rbx", "rcx", "rdx", "rsi", "rdi", "rsp", "rbp",
		"r08", "r09", "r10", "r11", "r12", "r13", "r14", "r15"}
	if r < 0 || int(r) >= len(names) {
		return "?"
	}
	return names[r]
}

// RegisterFromString resolves an identifier to a Register, matching
// the spelling the lexer/parser would have interned it under.
func RegisterFromString(s string) (Register, bool) {
	switch s {
	case "rax":
		return RAX, true
	case "rbx":
		return RBX, true
	case "rcx":
		return RCX, true
	case "rdx":
		return RDX, true
	case "rsi":
		return RSI, true
	case "rdi":
		return RDI, true
	case "rsp":
		return RSP, true
	case "rbp":
		return RBP, true
	case "r08":
		return R08, true
	case "r09":
		return R09, true
	case "r10":
		return R10, true
	case "r11":
		return R11, true
	case "r12":
		return R12, true
	case "r13":
		return R13, true
	case "r14":
		return R14, true
	case "r15":
		return R15, true
	}
	return 0, false
}

// RegisterFromIndex resolves an encoded register index (0..15) back
// to a Register, the decoder's counterpart to RegisterFromString.
func RegisterFromIndex(v uint16) (Register, bool) {
	if v > uint16(R15) {
		return 0, false
	}
	return Register(v), true
}

// Flag is a bit in the VM's single flags word.
type Flag uint16

const (
	Sf Flag = 1 << iota // sign
	Zf                  // zero
	Cf                  // carry
	Af                  // auxiliary carry
	Pf                  // parity
	Of                  // overflow
)

// RegisterCount and MemSize size the VM's register file and its
// 16-bit-addressed memory.
const (
	RegisterCount = 16
	MemSize       = 1 << 16
)

// LocKind is the closed set of addressable location shapes.
type LocKind int

const (
	LocMem LocKind = iota
	LocReg
	LocSym
)

// Loc is an addressable location: a bare register/memory cell, or (at
// reparse time, before Encode resolves it) a symbolic reference to a
// label or variable name.
type Loc struct {
	Kind  LocKind
	Mem   uint16
	Reg   Register
	Sym   basm.Symbol
	Deref bool
}

// ValueKind is the closed set of operand shapes: a location to read,
// a bare immediate word, or a multi-word literal (a string operand)
// whose first word is used when a single word is required.
type ValueKind int

const (
	ValLoc ValueKind = iota
	ValWord
	ValWords
)

// Value is an operand: meaningful fields depend on Kind.
type Value struct {
	Kind  ValueKind
	Loc   Loc
	Word  uint16
	Words []uint16
}

// SeqKind is the closed set of reparsed instruction shapes (the
// mnemonic table): mov/add/sub/xor/and/or take a location and a value;
// push takes a value; pop/call/je/jne/inc/dec take a location; cmp
// takes two values; syscall/ret take nothing.
type SeqKind int

const (
	SeqMov SeqKind = iota
	SeqAdd
	SeqSub
	SeqXor
	SeqAnd
	SeqOr
	SeqPush
	SeqPop
	SeqCall
	SeqJe
	SeqJne
	SeqInc
	SeqDec
	SeqCmp
	SeqSysCall
	SeqRet
)

// Sequence is one reparsed instruction. Which fields are meaningful
// depends on Kind, matching Value/Loc's own discriminated shape.
type Sequence struct {
	Kind   SeqKind
	Loc    Loc
	Value  Value
	Value2 Value // Cmp's second operand only
}

// opcode returns the 8-bit instruction tag the ABI's first word packs
// into its high byte.
func (s Sequence) opcode() byte {
	switch s.Kind {
	case SeqMov:
		return 0x01
	case SeqAdd:
		return 0x02
	case SeqSub:
		return 0x03
	case SeqXor:
		return 0x04
	case SeqAnd:
		return 0x05
	case SeqOr:
		return 0x06
	case SeqPush:
		return 0x07
	case SeqPop:
		return 0x08
	case SeqCall:
		return 0x09
	case SeqJe:
		return 0x0a
	case SeqJne:
		return 0x0b
	case SeqInc:
		return 0x0c
	case SeqDec:
		return 0x0d
	case SeqCmp:
		return 0x0e
	case SeqSysCall:
		return 0x0f
	case SeqRet:
		return 0x10
	}
	return 0
}

// Code is a fully reparsed program: every Instruction line turned into
// a Sequence, every Variable's initializer words, every label's
// address, and every name a `global` directive exported.
type Code struct {
	Interner  *basm.Interner
	Sequences []Sequence
	Variables map[basm.Symbol][]uint16
	Globals   map[basm.Symbol]struct{}
	Labels    map[basm.Symbol]uint16
}
