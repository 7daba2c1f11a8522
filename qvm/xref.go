package qvm

import "strconv"

// DataWordDump is the hex-bytes-plus-u32 rendering attached when a
// `const` operand resolves into the DATA segment.
type DataWordDump struct {
	Bytes [4]byte
	Value uint32
}

// EnterHeader carries the function-header annotations printed when
// entering a function: its incoming call sites, its own name (possibly
// several `?`-prefixed guesses from hash matching), its argument count,
// and its observed maximum argument slot.
type EnterHeader struct {
	Callers       []string
	FuncNames     []string
	HasArgsInfo   bool
	ArgsText      string
	MaxArgsCalled int32
}

// DisassembledLine is the owned, immutable record the cross-referencing
// pass hands to the listing emitter for one instruction.
type DisassembledLine struct {
	Index      uint32
	Mnemonic   string
	HasParam   bool
	Param      int32
	StackDelta int

	JumpSources []uint32

	Enter *EnterHeader

	LiteralString string
	HasLiteral    bool

	DataWord    DataWordDump
	HasDataWord bool

	OperandComment string
	InlineComment  string
	HasInline      bool

	Before *CommentBlock
	After  *CommentBlock
}

// BuildListing runs the disassembly cross-referencing pass: a second
// forward walk over img.Code that, per instruction, resolves operands
// against analysis and store into the richest available label.
func BuildListing(img *QvmImage, analysis *FunctionAnalysis, store *AnnotationStore) ([]DisassembledLine, error) {
	walker := newInstructionWalker(img)

	var (
		lines         []DisassembledLine
		currentFunc   uint32
		stackAdjust   int32
		haveCurrentFn bool
	)

	for !walker.done() {
		instr, err := walker.next()
		if err != nil {
			return nil, err
		}

		info := Opcodes[instr.Opcode]
		line := DisassembledLine{
			Index:      instr.Index,
			Mnemonic:   info.Mnemonic,
			HasParam:   instr.HasParam,
			Param:      instr.Param,
			StackDelta: info.StackDelta,
		}

		if sources, ok := analysis.JumpPoints[int32(instr.Index)]; ok {
			line.JumpSources = sources
		}

		if text, ok := store.CommentsInline[instr.Index]; ok {
			line.InlineComment = text
			line.HasInline = true
		}

		if int(instr.Opcode) != opEnter {
			if block, ok := store.CommentsBefore[instr.Index]; ok {
				line.Before = block
			}
		}
		if block, ok := store.CommentsAfter[instr.Index]; ok {
			line.After = block
		}

		switch int(instr.Opcode) {
		case opEnter:
			currentFunc = instr.Index
			stackAdjust = instr.Param
			haveCurrentFn = true
			line.Enter = buildEnterHeader(instr.Index, analysis, store)
			if block, ok := store.CommentsBefore[instr.Index]; ok {
				line.Before = block
			}
		case opLocal:
			if haveCurrentFn {
				line.OperandComment = resolveLocal(instr.Param, currentFunc, stackAdjust, store)
			}
		case opConst:
			nextOp := walker.peekOpcode()
			resolveConst(img, analysis, store, instr, nextOp, &line)
		}

		lines = append(lines, line)
	}

	return lines, nil
}

func buildEnterHeader(addr uint32, analysis *FunctionAnalysis, store *AnnotationStore) *EnterHeader {
	hdr := &EnterHeader{
		MaxArgsCalled: analysis.FunctionMaxArgsCalled[addr],
	}

	if callers, ok := analysis.CallPoints[int32(addr)]; ok {
		for _, caller := range callers {
			hdr.Callers = append(hdr.Callers, formatFuncRef(caller, analysis, store))
		}
	}

	if name, ok := store.Functions[addr]; ok {
		hdr.FuncNames = []string{name}
	} else if hash, ok := analysis.FunctionHashes[addr]; ok {
		if names, ok := store.BaseQ3FunctionRevHashes[hash]; ok {
			for _, n := range names {
				hdr.FuncNames = append(hdr.FuncNames, "?"+n)
			}
		}
	}

	if parm, ok := analysis.ParmNum[int32(addr)]; ok {
		hdr.HasArgsInfo = true
		switch {
		case parm == Variadic:
			hdr.ArgsText = "var"
		case parm == 0:
			hdr.ArgsText = "no"
		default:
			hdr.ArgsText = hex32(uint32(parm))
		}
	}

	return hdr
}

// formatFuncRef renders a call-site caller: its user-given name, or
// every `?`-prefixed guess from the known-hash catalogue, or a bare hex
// address fallback.
func formatFuncRef(addr uint32, analysis *FunctionAnalysis, store *AnnotationStore) string {
	if name, ok := store.Functions[addr]; ok {
		return name + "()"
	}
	if hash, ok := analysis.FunctionHashes[addr]; ok {
		if names, ok := store.BaseQ3FunctionRevHashes[hash]; ok && len(names) > 0 {
			out := ""
			for i, n := range names {
				if i > 0 {
					out += " "
				}
				out += "?" + n + "()"
			}
			return out
		}
	}
	return hex32(addr)
}

func resolveLocal(parm int32, currentFunc uint32, stackAdjust int32, store *AnnotationStore) string {
	argNum := parm - stackAdjust - 0x8
	if argNum >= 0 {
		argName := "arg" + strconv.Itoa(int(argNum/4))
		comment := argName
		if labels, ok := store.FunctionArgLabels[currentFunc]; ok {
			if label, ok := labels[argName]; ok {
				comment = comment + " : " + label
			}
		}
		return comment
	}

	if labels, ok := store.FunctionLocalLabels[currentFunc]; ok {
		if label, ok := labels[parm]; ok {
			return label
		}
	}
	if ranges, ok := store.FunctionLocalRangeLabels[currentFunc]; ok {
		if label, ok := lookupSymbolRange(uint32KeyedRanges(ranges), uint32(parm)); ok {
			return label
		}
	}
	return ""
}

// uint32KeyedRanges adapts the int32-keyed local-range map (local
// offsets may be negative) into the uint32-keyed shape rangeLookup
// expects, by reinterpreting each key's bit pattern. Query addresses
// are reinterpreted the same way, so equality, and ordering among
// offsets of the same sign, are preserved; a range that starts at a
// negative offset and extends past zero matches only at its start.
func uint32KeyedRanges(m map[int32][]RangeLabel) map[uint32][]RangeLabel {
	out := make(map[uint32][]RangeLabel, len(m))
	for k, v := range m {
		out[uint32(k)] = v
	}
	return out
}

func resolveConst(img *QvmImage, analysis *FunctionAnalysis, store *AnnotationStore, instr Instruction, nextOp byte, line *DisassembledLine) {
	parm := instr.Param

	if rec, ok := store.Constants[instr.Index]; ok {
		if parm == rec.Value {
			line.OperandComment = rec.Name
		} else {
			line.OperandComment = "FIXME constant val != to code val"
		}
		return
	}

	dataLen := int32(img.DataSegLength)
	litLen := int32(img.LitSegLength)

	if parm >= dataLen && parm < dataLen+litLen && !IsCallOrJump(nextOp) {
		text, _ := decodeCString(img.Lit, int(parm-dataLen))
		line.LiteralString = text
		line.HasLiteral = true
		return
	}

	if parm >= 0 && parm < dataLen && !IsCallOrJump(nextOp) {
		off := int(parm)
		var dw DataWordDump
		copy(dw.Bytes[:], img.Data[off:off+4])
		dw.Value = uint32(dw.Bytes[0]) | uint32(dw.Bytes[1])<<8 | uint32(dw.Bytes[2])<<16 | uint32(dw.Bytes[3])<<24
		line.DataWord = dw
		line.HasDataWord = true

		if label, ok := store.Symbols[uint32(parm)]; ok {
			line.OperandComment = label
		} else if label, ok := lookupSymbolRange(store.SymbolsRange, uint32(parm)); ok {
			line.OperandComment = label
		}
		return
	}

	if int(nextOp) == opCall {
		if parm < 0 {
			if name, ok := store.Syscalls[parm]; ok {
				line.OperandComment = name + "()"
				return
			}
		}
		if name, ok := store.Functions[uint32(parm)]; ok {
			line.OperandComment = name + "()"
			return
		}
		if hash, ok := analysis.FunctionHashes[uint32(parm)]; ok {
			if names, ok := store.BaseQ3FunctionRevHashes[hash]; ok {
				out := ""
				for _, n := range names {
					out += " ?" + n + "()"
				}
				line.OperandComment = out
				return
			}
		}
		line.OperandComment = ":unknown function:"
		return
	}

	if parm >= dataLen && !IsCallOrJump(nextOp) {
		if label, ok := store.Symbols[uint32(parm)]; ok {
			line.OperandComment = label
		} else if label, ok := lookupSymbolRange(store.SymbolsRange, uint32(parm)); ok {
			line.OperandComment = label
		}
	}
}
