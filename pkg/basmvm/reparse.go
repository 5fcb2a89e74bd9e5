package basmvm

import (
	"fmt"

	"github.com/basmtools/basm/pkg/basm"
)

// ReparseErrorKind is the closed set of errors raised while turning
// the core IR into an executable Code: arity and mnemonic validity
// are VM-level concerns, not pkg/basm parse errors, since the grammar
// accepts any identifier as an opcode or directive type.
type ReparseErrorKind int

const (
	ErrInvalidSymbol ReparseErrorKind = iota
	ErrInvalidType
	ErrInvalidInstruction
	ErrInvalidArgCount
	ErrUnexpectedLiteral
	ErrDuplicateLabel
)

// ReparseError is one reparse-time failure.
type ReparseError struct {
	Kind    ReparseErrorKind
	Message string
}

func (e ReparseError) Error() string { return e.Message }

type reparser struct {
	prog      *basm.Program
	sequences []Sequence
	variables map[basm.Symbol][]uint16
	globals   map[basm.Symbol]struct{}
	labels    map[basm.Symbol]uint16
}

// Reparse turns a parsed Program into executable Code: instructions
// become Sequences, variables become initializer words, labels become
// sequence indices, and `global` names are recorded (informative; no
// linker consumes them downstream). Errors are accumulated per line,
// never panicked, matching the core's "errors are reported, never
// thrown" discipline.
func Reparse(prog *basm.Program) (*Code, []ReparseError) {
	r := &reparser{
		prog:      prog,
		sequences: make([]Sequence, 0, len(prog.Lines)),
		variables: make(map[basm.Symbol][]uint16),
		globals:   make(map[basm.Symbol]struct{}),
		labels:    make(map[basm.Symbol]uint16),
	}
	var errs []ReparseError
	for i := range prog.Lines {
		if err := r.reparseLine(i); err != nil {
			errs = append(errs, *err)
		}
	}
	code := &Code{
		Interner:  prog.Interner,
		Sequences: r.sequences,
		Variables: r.variables,
		Globals:   r.globals,
		Labels:    r.labels,
	}
	return code, errs
}

func (r *reparser) reparseLine(i int) *ReparseError {
	line := r.prog.Lines[i]
	switch line.Kind {
	case basm.LineNoOp, basm.LineSection:
		return nil
	case basm.LineGlobal:
		r.globals[line.Name] = struct{}{}
		return nil
	case basm.LineLabel:
		if _, dup := r.labels[line.Name]; dup {
			name, _ := r.resolve(line.Name)
			return &ReparseError{Kind: ErrDuplicateLabel, Message: "duplicate label " + name}
		}
		r.labels[line.Name] = uint16(len(r.sequences))
		return nil
	case basm.LineInstruction:
		seq, err := r.reparseInstruction(line.Ins, line.Values)
		if err != nil {
			return err
		}
		r.sequences = append(r.sequences, seq)
		return nil
	case basm.LineVariable:
		words, err := r.handleVar(line.Type, line.Values)
		if err != nil {
			return err
		}
		r.variables[line.Name] = words
		return nil
	}
	return nil
}

func (r *reparser) handleVar(typ basm.Symbol, values []basm.Value) ([]uint16, *ReparseError) {
	t, err := r.resolve(typ)
	if err != nil {
		return nil, err
	}
	switch t {
	case "str":
		return r.parseStrValue(values)
	case "bss":
		if len(values) != 1 || values[0].Kind != basm.ValueDigit {
			return nil, &ReparseError{Kind: ErrInvalidType, Message: "bss expects a single digit count"}
		}
		return make([]uint16, values[0].N), nil
	default:
		return nil, &ReparseError{Kind: ErrInvalidType, Message: "unknown variable type " + t}
	}
}

func (r *reparser) parseStrValue(values []basm.Value) ([]uint16, *ReparseError) {
	var words []uint16
	for _, v := range values {
		switch v.Kind {
		case basm.ValueDigit:
			words = append(words, v.N)
		default:
			s, err := r.resolve(v.Sym)
			if err != nil {
				return nil, err
			}
			words = append(words, varReadString(s)...)
		}
	}
	return words, nil
}

func (r *reparser) reparseInstruction(ins basm.Symbol, values []basm.Value) (Sequence, *ReparseError) {
	name, err := r.resolve(ins)
	if err != nil {
		return Sequence{}, err
	}
	switch name {
	case "mov", "add", "sub", "xor", "and", "or":
		loc, val, err := r.locThenValue(values)
		if err != nil {
			return Sequence{}, err
		}
		return Sequence{Kind: mnemonicKind(name), Loc: loc, Value: val}, nil
	case "push":
		val, err := r.singleValue(values)
		if err != nil {
			return Sequence{}, err
		}
		return Sequence{Kind: SeqPush, Value: val}, nil
	case "pop", "call", "je", "jne", "inc", "dec":
		loc, err := r.locFrom(values)
		if err != nil {
			return Sequence{}, err
		}
		return Sequence{Kind: mnemonicKind(name), Loc: loc}, nil
	case "cmp":
		a, b, err := r.doubleValue(values)
		if err != nil {
			return Sequence{}, err
		}
		return Sequence{Kind: SeqCmp, Value: a, Value2: b}, nil
	case "syscall", "ret":
		if err := r.empty(values); err != nil {
			return Sequence{}, err
		}
		return Sequence{Kind: mnemonicKind(name)}, nil
	default:
		return Sequence{}, &ReparseError{Kind: ErrInvalidInstruction, Message: "unknown instruction " + name}
	}
}

func mnemonicKind(name string) SeqKind {
	switch name {
	case "mov":
		return SeqMov
	case "add":
		return SeqAdd
	case "sub":
		return SeqSub
	case "xor":
		return SeqXor
	case "and":
		return SeqAnd
	case "or":
		return SeqOr
	case "pop":
		return SeqPop
	case "call":
		return SeqCall
	case "je":
		return SeqJe
	case "jne":
		return SeqJne
	case "inc":
		return SeqInc
	case "dec":
		return SeqDec
	case "syscall":
		return SeqSysCall
	case "ret":
		return SeqRet
	}
	return SeqMov
}

func (r *reparser) empty(values []basm.Value) *ReparseError {
	if len(values) != 0 {
		return &ReparseError{Kind: ErrInvalidArgCount, Message: fmt.Sprintf("expected 0 arguments, got %d", len(values))}
	}
	return nil
}

func (r *reparser) singleValue(values []basm.Value) (Value, *ReparseError) {
	if len(values) != 1 {
		return Value{}, &ReparseError{Kind: ErrInvalidArgCount, Message: fmt.Sprintf("expected 1 argument, got %d", len(values))}
	}
	return r.reparseValue(values[0])
}

func (r *reparser) doubleValue(values []basm.Value) (Value, Value, *ReparseError) {
	if len(values) != 2 {
		return Value{}, Value{}, &ReparseError{Kind: ErrInvalidArgCount, Message: fmt.Sprintf("expected 2 arguments, got %d", len(values))}
	}
	a, err := r.reparseValue(values[0])
	if err != nil {
		return Value{}, Value{}, err
	}
	b, err := r.reparseValue(values[1])
	if err != nil {
		return Value{}, Value{}, err
	}
	return a, b, nil
}

func (r *reparser) locThenValue(values []basm.Value) (Loc, Value, *ReparseError) {
	a, b, err := r.doubleValue(values)
	if err != nil {
		return Loc{}, Value{}, err
	}
	if a.Kind != ValLoc {
		return Loc{}, Value{}, &ReparseError{Kind: ErrUnexpectedLiteral, Message: "expected a location as the first argument"}
	}
	return a.Loc, b, nil
}

func (r *reparser) locFrom(values []basm.Value) (Loc, *ReparseError) {
	v, err := r.singleValue(values)
	if err != nil {
		return Loc{}, err
	}
	if v.Kind != ValLoc {
		return Loc{}, &ReparseError{Kind: ErrUnexpectedLiteral, Message: "expected a location"}
	}
	return v.Loc, nil
}

func (r *reparser) reparseValue(v basm.Value) (Value, *ReparseError) {
	switch v.Kind {
	case basm.ValueDeref, basm.ValueIdent:
		name, err := r.resolve(v.Sym)
		if err != nil {
			return Value{}, err
		}
		loc := Loc{Deref: v.Kind == basm.ValueDeref}
		if reg, ok := RegisterFromString(name); ok {
			loc.Kind, loc.Reg = LocReg, reg
		} else {
			loc.Kind, loc.Sym = LocSym, v.Sym
		}
		return Value{Kind: ValLoc, Loc: loc}, nil
	case basm.ValueString:
		s, err := r.resolve(v.Sym)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValWords, Words: varReadString(s)}, nil
	case basm.ValueDigit:
		return Value{Kind: ValWord, Word: v.N}, nil
	}
	return Value{}, &ReparseError{Kind: ErrUnexpectedLiteral, Message: "unrecognized value shape"}
}

func (r *reparser) resolve(sym basm.Symbol) (string, *ReparseError) {
	s, ok := r.prog.Interner.Resolve(sym)
	if !ok {
		return "", &ReparseError{Kind: ErrInvalidSymbol, Message: "unresolvable interned symbol"}
	}
	return s, nil
}

// varReadString packs s's bytes two-to-a-word, high byte first, with a
// zero low byte padding an odd trailing byte.
func varReadString(s string) []uint16 {
	b := []byte(s)
	words := make([]uint16, 0, (len(b)+1)/2)
	i := 0
	for ; i+2 <= len(b); i += 2 {
		words = append(words, uint16(b[i])<<8|uint16(b[i+1]))
	}
	if i < len(b) {
		words = append(words, uint16(b[i])<<8)
	}
	return words
}
