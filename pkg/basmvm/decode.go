package basmvm

// seqCode is the operand-mode byte the encoder packs alongside each
// instruction's opcode: bits 2-3 are clear for a location and set for
// an immediate; for a location, bit 0 marks it dereferenced and bit 1
// marks a memory address rather than a register.
type seqCode byte

func (s seqCode) isLoc() bool   { return s&0b1100 == 0 }
func (s seqCode) isDeref() bool { return s&0b0001 == 1 }
func (s seqCode) isReg() bool   { return s&0b0010 == 0 }

func decodeLoc(sq seqCode, v uint16) (Loc, bool) {
	if !sq.isLoc() {
		return Loc{}, false
	}
	if sq.isReg() {
		reg, ok := RegisterFromIndex(v)
		if !ok {
			return Loc{}, false
		}
		return Loc{Kind: LocReg, Reg: reg, Deref: sq.isDeref()}, true
	}
	return Loc{Kind: LocMem, Mem: v, Deref: sq.isDeref()}, true
}

func decodeValue(sq seqCode, v uint16) Value {
	if loc, ok := decodeLoc(sq, v); ok {
		return Value{Kind: ValLoc, Loc: loc}
	}
	return Value{Kind: ValWord, Word: v}
}

func decodeLocThenVal(sq1, sq2 seqCode, v1, v2 uint16) (Loc, Value, bool) {
	loc, ok := decodeLoc(sq1, v1)
	if !ok {
		return Loc{}, Value{}, false
	}
	return loc, decodeValue(sq2, v2), true
}

// DecodeSequence decodes a single 3-word instruction record (the
// packed opcode|operand-mode word plus its two operand words) back
// into a Sequence. It returns false for a record no opcode recognizes.
func DecodeSequence(ins, v1, v2 uint16) (Sequence, bool) {
	sq := byte(ins)
	sq1 := seqCode(sq >> 4)
	sq2 := seqCode(sq & 0x0f)

	switch ins >> 8 {
	case 0x01, 0x02, 0x03, 0x04, 0x05, 0x06:
		loc, val, ok := decodeLocThenVal(sq1, sq2, v1, v2)
		if !ok {
			return Sequence{}, false
		}
		kinds := [...]SeqKind{SeqMov, SeqAdd, SeqSub, SeqXor, SeqAnd, SeqOr}
		return Sequence{Kind: kinds[ins>>8-1], Loc: loc, Value: val}, true
	case 0x07:
		return Sequence{Kind: SeqPush, Value: decodeValue(sq2, v1)}, true
	case 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d:
		loc, ok := decodeLoc(sq2, v1)
		if !ok {
			return Sequence{}, false
		}
		kinds := map[uint16]SeqKind{0x08: SeqPop, 0x09: SeqCall, 0x0a: SeqJe, 0x0b: SeqJne, 0x0c: SeqInc, 0x0d: SeqDec}
		return Sequence{Kind: kinds[ins>>8], Loc: loc}, true
	case 0x0e:
		return Sequence{Kind: SeqCmp, Value: decodeValue(sq1, v1), Value2: decodeValue(sq2, v2)}, true
	case 0x0f:
		return Sequence{Kind: SeqSysCall}, true
	case 0x10:
		return Sequence{Kind: SeqRet}, true
	}
	return Sequence{}, false
}

// Decode walks mem[mem[0]:mem[1]) as 4-word instruction records and
// decodes each into a Sequence, skipping any record no opcode claims.
func Decode(mem []uint16) []Sequence {
	start, end := mem[0], mem[1]
	var out []Sequence
	for i := start; i+4 <= end; i += 4 {
		if seq, ok := DecodeSequence(mem[i], mem[i+1], mem[i+2]); ok {
			out = append(out, seq)
		}
	}
	return out
}
