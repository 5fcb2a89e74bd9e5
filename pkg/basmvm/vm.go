package basmvm

import (
	"fmt"
	"io"
	"strings"

	"github.com/basmtools/basm/pkg/basm"
)

// Machine is a straight-line interpreter over 16 general-purpose
// registers and a 16-bit-addressed memory array.
type Machine struct {
	Flag uint16
	Reg  [RegisterCount]uint16
	Mem  [MemSize]uint16
}

// LoadError wraps whichever stage of Load failed first: the core
// parser, the reparser, or the encoder.
type LoadError struct {
	Diagnostics   basm.Diagnostics
	ReparseErrors []ReparseError
	EncodeErr     error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	if len(e.Diagnostics) > 0 {
		b.WriteString(e.Diagnostics.String())
	}
	for _, re := range e.ReparseErrors {
		b.WriteString(re.Error())
		b.WriteByte('\n')
	}
	if e.EncodeErr != nil {
		b.WriteString(e.EncodeErr.Error())
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// Load parses, reparses, and encodes src into a ready-to-run Machine.
func Load(src string) (*Machine, error) {
	prog, diags := basm.Parse(src)
	if len(diags) > 0 {
		return nil, &LoadError{Diagnostics: diags}
	}
	code, errs := Reparse(prog)
	if len(errs) > 0 {
		return nil, &LoadError{ReparseErrors: errs}
	}
	m := &Machine{}
	if _, err := Encode(code, m.Mem[:]); err != nil {
		return nil, &LoadError{EncodeErr: err}
	}
	return m, nil
}

// Run decodes and executes the loaded image until a sys_exit syscall,
// writing any sys_write output to stdout. It returns the program's
// exit code argument.
//
// Push/pop/call/je/jne/inc/dec/cmp/ret decode successfully but do not
// yet execute.
// TODO: implement the stack and the control-flow opcodes (push/pop,
// call/ret, cmp with je/jne against the flags word).
func (m *Machine) Run(stdout io.Writer) (uint8, error) {
	for _, seq := range Decode(m.Mem[:]) {
		switch seq.Kind {
		case SeqMov:
			*m.locMut(seq.Loc) = m.value(seq.Value)
		case SeqAdd:
			*m.locMut(seq.Loc) += m.value(seq.Value)
		case SeqSub:
			*m.locMut(seq.Loc) -= m.value(seq.Value)
		case SeqXor:
			*m.locMut(seq.Loc) ^= m.value(seq.Value)
		case SeqAnd:
			*m.locMut(seq.Loc) &= m.value(seq.Value)
		case SeqOr:
			*m.locMut(seq.Loc) |= m.value(seq.Value)
		case SeqSysCall:
			code, exited, err := m.syscall(stdout)
			if err != nil {
				return 0, err
			}
			if exited {
				return code, nil
			}
		case SeqPush, SeqPop, SeqCall, SeqJe, SeqJne, SeqInc, SeqDec, SeqCmp, SeqRet:
			// unimplemented, see the Run doc comment.
		}
	}
	return 0, nil
}

func (m *Machine) syscall(stdout io.Writer) (exitCode uint8, exited bool, err error) {
	switch m.reg(RAX) {
	case 0x01: // sys_write
		fd := m.reg(RDI)
		_ = fd
		buf := int(m.reg(RSI))
		count := int(m.reg(RDX))
		end := buf + count/2
		bytes := make([]byte, 0, count)
		for _, w := range m.Mem[buf:end] {
			bytes = append(bytes, byte(w>>8), byte(w))
		}
		if count%2 != 0 {
			bytes = append(bytes, byte(m.Mem[end]))
		}
		_, werr := stdout.Write(bytes)
		return 0, false, werr
	case 0x3C: // sys_exit
		return uint8(m.reg(RDI)), true, nil
	default:
		return 0, false, fmt.Errorf("basmvm: unrecognized syscall number %d", m.reg(RAX))
	}
}

func (m *Machine) reg(r Register) uint16      { return m.Reg[r] }
func (m *Machine) regMut(r Register) *uint16  { return &m.Reg[r] }
func (m *Machine) memAt(addr uint16) uint16   { return m.Mem[addr] }
func (m *Machine) memMut(addr uint16) *uint16 { return &m.Mem[addr] }

func (m *Machine) locMut(loc Loc) *uint16 {
	switch loc.Kind {
	case LocMem:
		return m.memMut(loc.Mem)
	case LocReg:
		if loc.Deref {
			return m.memMut(m.reg(loc.Reg))
		}
		return m.regMut(loc.Reg)
	default:
		panic("basmvm: symbolic location reached runtime; Encode should have resolved it")
	}
}

func (m *Machine) loc(loc Loc) uint16 {
	switch loc.Kind {
	case LocMem:
		if loc.Deref {
			return m.memAt(m.memAt(loc.Mem))
		}
		return loc.Mem
	case LocReg:
		if loc.Deref {
			return m.memAt(m.reg(loc.Reg))
		}
		return m.reg(loc.Reg)
	default:
		panic("basmvm: symbolic location reached runtime; Encode should have resolved it")
	}
}

func (m *Machine) value(v Value) uint16 {
	switch v.Kind {
	case ValLoc:
		return m.loc(v.Loc)
	case ValWord:
		return v.Word
	default: // ValWords
		if len(v.Words) > 0 {
			return v.Words[0]
		}
		return 0
	}
}
