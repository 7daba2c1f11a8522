package qvm

import "strconv"

// Variadic is the sentinel FunctionAnalysis.ParmNum value meaning "this
// callee has been observed with more than one distinct fixed argument
// count across its call sites".
const Variadic int32 = -1

// FunctionInfo describes one function discovered by the analysis pass.
type FunctionInfo struct {
	Addr          uint32
	Size          uint32
	Hash          int32
	MaxArgsCalled int32
}

// FunctionAnalysis is the complete, immutable output of the single
// forward walk over CODE. Every map here is read-only once Analyze
// returns.
type FunctionAnalysis struct {
	// Functions, in the order their `enter` instructions were seen.
	Functions []FunctionInfo

	FunctionSizes         map[uint32]uint32
	FunctionHashes        map[uint32]int32
	FunctionRevHashes     map[int32][]uint32
	FunctionMaxArgsCalled map[uint32]int32

	// ParmNum holds, per callee target, either a fixed argument count
	// last seen across callers, or Variadic.
	ParmNum map[int32]int32

	// JumpPoints maps a jump target instruction index to the list of
	// instruction indices that jump there (duplicates preserved).
	JumpPoints map[int32][]uint32

	// CallPoints maps a call target to the list of caller
	// function-start indices (duplicates preserved).
	CallPoints map[int32][]uint32
}

const opPop = 7

// Analyze performs the function-analysis pass: a single forward walk of
// img.Code that reconstructs function boundaries, a structural hash per
// function, the jump/call cross-reference maps, and per-function
// argument-count bookkeeping.
//
// The hash accumulator for a function in progress picks up the opcode
// digit of the *next* function's `enter` before that function is
// flushed -- every mid-file function's hash string therefore carries a
// trailing "3" (enter's opcode value) that the last function in the
// file does not. This is not a rounding error: known-function hash
// catalogues were generated against the same walk, so reproducing the
// quirk exactly is what makes catalogue matches land. Instruction
// counts do not share the quirk: a function's size excludes the `enter`
// that terminates it, so sizes sum to the image's instruction count.
func Analyze(img *QvmImage) (*FunctionAnalysis, error) {
	fa := &FunctionAnalysis{
		FunctionSizes:         make(map[uint32]uint32),
		FunctionHashes:        make(map[uint32]int32),
		FunctionRevHashes:     make(map[int32][]uint32),
		FunctionMaxArgsCalled: make(map[uint32]int32),
		ParmNum:               make(map[int32]int32),
		JumpPoints:            make(map[int32][]uint32),
		CallPoints:            make(map[int32][]uint32),
	}

	walker := newInstructionWalker(img)

	var (
		funcStart     uint32
		funcInsCount  uint32
		hashAccum     []byte
		maxArgs       int32 = 0x8
		lastArg       int32
		sawFirstEnter bool
		prevOpcode    byte
		prevParam     int32
		havePrev      bool
	)

	flush := func() {
		h := StructuralHash(string(hashAccum))
		fa.FunctionSizes[funcStart] = funcInsCount
		fa.FunctionHashes[funcStart] = h
		fa.FunctionRevHashes[h] = append(fa.FunctionRevHashes[h], funcStart)
		fa.FunctionMaxArgsCalled[funcStart] = maxArgs
		fa.Functions = append(fa.Functions, FunctionInfo{
			Addr:          funcStart,
			Size:          funcInsCount,
			Hash:          h,
			MaxArgsCalled: maxArgs,
		})
	}

	for !walker.done() {
		instr, err := walker.next()
		if err != nil {
			return nil, err
		}

		thisPrevOpcode, thisPrevParam, thisHavePrev := prevOpcode, prevParam, havePrev
		prevOpcode, prevParam, havePrev = instr.Opcode, instr.Param, true

		funcInsCount++
		hashAccum = append(hashAccum, []byte(strconv.Itoa(int(instr.Opcode)))...)

		switch int(instr.Opcode) {
		case opConst:
			if instr.Param < 0 {
				hashAccum = append(hashAccum, []byte(strconv.Itoa(int(instr.Param)))...)
			}
		case opPop:
			lastArg = 0
		case opLocal:
			hashAccum = append(hashAccum, []byte(strconv.Itoa(int(instr.Param)))...)
		case opArg:
			if instr.Param > maxArgs {
				maxArgs = instr.Param
			}
			lastArg = instr.Param
		case opEnter:
			if sawFirstEnter {
				funcInsCount--
				flush()
			}
			sawFirstEnter = true
			funcStart = instr.Index
			funcInsCount = 1
			hashAccum = hashAccum[:0]
			maxArgs = 0x8
			lastArg = 0
		case opJump:
			if thisHavePrev && int(thisPrevOpcode) == opConst {
				fa.JumpPoints[thisPrevParam] = append(fa.JumpPoints[thisPrevParam], instr.Index)
			}
		case opCall:
			if thisHavePrev && int(thisPrevOpcode) == opConst {
				fa.CallPoints[thisPrevParam] = append(fa.CallPoints[thisPrevParam], funcStart)
				if existing, ok := fa.ParmNum[thisPrevParam]; ok {
					if existing != Variadic && existing != lastArg {
						fa.ParmNum[thisPrevParam] = Variadic
					}
				} else {
					fa.ParmNum[thisPrevParam] = lastArg
				}
			}
		default:
			if Opcodes[instr.Opcode].IsJumpParam {
				fa.JumpPoints[instr.Param] = append(fa.JumpPoints[instr.Param], instr.Index)
			}
		}
	}

	flush()

	return fa, nil
}
