package qvm

// Instruction is a single decoded opcode plus its immediate operand, if
// any. Index is the canonical address used everywhere else in this
// package: jump targets, function starts, and call-point keys are all
// instruction indices, never byte offsets.
type Instruction struct {
	Index    uint32
	Opcode   byte
	Param    int32
	HasParam bool
}

// decodeAt decodes the single instruction starting at byte offset pos
// in code, returning the instruction plus the byte offset immediately
// following it. code must carry the trailing zero padding described in
// the container format so that a 4-byte immediate at the very end of
// the segment can always be read.
func decodeAt(code []byte, index uint32, pos int) (Instruction, int, error) {
	if pos >= len(code) {
		return Instruction{}, pos, &DecodeError{Index: index, Offset: pos, Reason: "read past end of CODE"}
	}

	opc := code[pos]
	pos++
	if int(opc) >= NumOpcodes {
		return Instruction{}, pos, &DecodeError{Index: index, Offset: pos - 1, Reason: "unknown opcode byte"}
	}

	info := Opcodes[opc]
	instr := Instruction{Index: index, Opcode: opc}

	switch info.ParamBytes {
	case 0:
		// no immediate
	case 1:
		if pos >= len(code) {
			return Instruction{}, pos, &DecodeError{Index: index, Offset: pos, Reason: "operand read past end of CODE"}
		}
		instr.Param = int32(code[pos])
		instr.HasParam = true
		pos++
	case 4:
		if pos+4 > len(code) {
			return Instruction{}, pos, &DecodeError{Index: index, Offset: pos, Reason: "operand read past end of CODE"}
		}
		instr.Param = int32(uint32(code[pos]) | uint32(code[pos+1])<<8 | uint32(code[pos+2])<<16 | uint32(code[pos+3])<<24)
		instr.HasParam = true
		pos += 4
	default:
		return Instruction{}, pos, &DecodeError{Index: index, Offset: pos, Reason: "bad opcode param size"}
	}

	return instr, pos, nil
}

// instructionWalker decodes the instruction_count-long stream in order,
// handing the caller one Instruction per call to next() and, for
// look-ahead purposes, letting it peek at the opcode byte of the
// instruction that follows.
type instructionWalker struct {
	code  []byte
	pos   int
	index uint32
	count uint32
}

func newInstructionWalker(img *QvmImage) *instructionWalker {
	return &instructionWalker{code: img.Code, count: img.InstructionCount}
}

func (w *instructionWalker) done() bool {
	return w.index >= w.count
}

func (w *instructionWalker) next() (Instruction, error) {
	instr, newPos, err := decodeAt(w.code, w.index, w.pos)
	if err != nil {
		return Instruction{}, err
	}
	w.pos = newPos
	w.index++
	return instr, nil
}

// peekOpcode returns the opcode byte at the current cursor (i.e. the
// opcode of the instruction that would be decoded by the next call to
// next()) without consuming it. Used to implement the `const; call` /
// `const; jump` next-opcode checks in the cross-referencing pass.
func (w *instructionWalker) peekOpcode() byte {
	if w.pos >= len(w.code) {
		return 0xFF
	}
	return w.code[w.pos]
}
