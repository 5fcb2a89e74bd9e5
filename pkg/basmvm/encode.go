package basmvm

import (
	"fmt"
	"sort"

	"github.com/basmtools/basm/pkg/basm"
)

// EncodeError reports a Code value that referenced a label or
// variable name Encode could not resolve to an address.
type EncodeError struct {
	Symbol basm.Symbol
	Name   string
}

func (e EncodeError) Error() string {
	return fmt.Sprintf("basmvm: unresolved symbol %q", e.Name)
}

type encoder struct {
	varAddr map[basm.Symbol]uint16
	mem     []uint16
	i       int
}

// Encode packs code into mem: a two-cell
// prelude (code_start, code_end), variables at [2, code_start) each
// prefixed by their word length, and instructions at
// [code_start, code_end) as 4-word records
// {opcode<<8|operand-mode, operand1, operand2, reserved}. It returns
// the number of words written and the first encode error encountered,
// if any. Encoding continues past a bad sequence, which is left out of
// the image; errors after the first are not reported.
func Encode(code *Code, mem []uint16) (int, error) {
	e := &encoder{varAddr: make(map[basm.Symbol]uint16), mem: mem}
	return e.encode(code)
}

func (e *encoder) write(words []uint16) {
	copy(e.mem[e.i:], words)
	e.i += len(words)
}

func (e *encoder) encode(code *Code) (int, error) {
	e.write([]uint16{0, 0})

	names := make([]basm.Symbol, 0, len(code.Variables))
	for name := range code.Variables {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	for _, name := range names {
		words := code.Variables[name]
		e.write([]uint16{uint16(len(words))})
		e.varAddr[name] = uint16(e.i)
		e.write(words)
	}
	e.mem[0] = uint16(e.i)

	var firstErr error
	for _, seq := range code.Sequences {
		operandByte, vals, err := e.seqCodeAndValues(seq, code)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		e.write([]uint16{uint16(operandByte) | uint16(seq.opcode())<<8, vals[0], vals[1], vals[2]})
	}
	e.mem[1] = uint16(e.i)
	return e.i, firstErr
}

func (e *encoder) locAddress(loc Loc, code *Code) (uint16, error) {
	switch loc.Kind {
	case LocReg:
		return uint16(loc.Reg), nil
	case LocSym:
		if addr, ok := code.Labels[loc.Sym]; ok {
			return addr, nil
		}
		if addr, ok := e.varAddr[loc.Sym]; ok {
			return addr, nil
		}
		name, _ := code.Interner.Resolve(loc.Sym)
		return 0, EncodeError{Symbol: loc.Sym, Name: name}
	default: // LocMem
		return loc.Mem, nil
	}
}

func (e *encoder) valueToWord(v Value, code *Code) (uint16, error) {
	switch v.Kind {
	case ValLoc:
		return e.locAddress(v.Loc, code)
	case ValWord:
		return v.Word, nil
	default: // ValWords
		if len(v.Words) > 0 {
			return v.Words[0], nil
		}
		return 0, nil
	}
}

func locCode(loc Loc) byte {
	switch {
	case loc.Kind == LocReg && loc.Deref:
		return 0x01
	case loc.Kind == LocReg:
		return 0x00
	case loc.Deref:
		return 0x03
	default:
		return 0x02
	}
}

func valueCode(v Value) byte {
	switch v.Kind {
	case ValLoc:
		return locCode(v.Loc)
	case ValWord:
		return 0x04
	default: // ValWords
		return 0x08
	}
}

func (e *encoder) seqCodeAndValues(seq Sequence, code *Code) (byte, [3]uint16, error) {
	switch seq.Kind {
	case SeqSysCall, SeqRet:
		return 0, [3]uint16{}, nil
	case SeqMov, SeqAdd, SeqSub, SeqXor, SeqAnd, SeqOr:
		v1, err := e.locAddress(seq.Loc, code)
		if err != nil {
			return 0, [3]uint16{}, err
		}
		v2, err := e.valueToWord(seq.Value, code)
		if err != nil {
			return 0, [3]uint16{}, err
		}
		return locCode(seq.Loc)<<4 | valueCode(seq.Value), [3]uint16{v1, v2, 0}, nil
	case SeqPush:
		v, err := e.valueToWord(seq.Value, code)
		if err != nil {
			return 0, [3]uint16{}, err
		}
		return valueCode(seq.Value), [3]uint16{v, 0, 0}, nil
	case SeqPop, SeqCall, SeqJe, SeqJne, SeqInc, SeqDec:
		v, err := e.locAddress(seq.Loc, code)
		if err != nil {
			return 0, [3]uint16{}, err
		}
		return locCode(seq.Loc), [3]uint16{v, 0, 0}, nil
	case SeqCmp:
		w1, err := e.valueToWord(seq.Value, code)
		if err != nil {
			return 0, [3]uint16{}, err
		}
		w2, err := e.valueToWord(seq.Value2, code)
		if err != nil {
			return 0, [3]uint16{}, err
		}
		return valueCode(seq.Value)<<4 | valueCode(seq.Value2), [3]uint16{w1, w2, 0}, nil
	}
	return 0, [3]uint16{}, nil
}
