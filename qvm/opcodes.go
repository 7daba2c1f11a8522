package qvm

// OpcodeInfo describes one entry of the fixed 60-opcode table: the
// mnemonic, the width of its immediate operand (0, 1 or 4 bytes),
// whether that operand is a jump target, and a stack-delta hint that is
// copied into each DisassembledLine; neither the analysis pass nor the
// listing uses it.
//
// The stack-delta values on enter, leave and call, and block_copy's
// operand width, are provisional: they have not been re-derived against
// a live VM, and the entries below flag them individually.
type OpcodeInfo struct {
	Mnemonic    string
	ParamBytes  int
	IsJumpParam bool
	StackDelta  int
}

// NumOpcodes is the fixed size of the opcode table. Any byte at or
// above this value is not a valid opcode.
const NumOpcodes = 60

// Opcodes is the read-only table indexed by opcode byte.
var Opcodes = [NumOpcodes]OpcodeInfo{
	{"undef", 0, false, 0},
	{"ignore", 0, false, 0},
	{"break", 0, false, 0},
	{"enter", 4, false, 0}, // FIXME stack delta unverified against a reference VM
	{"leave", 4, false, 0}, // FIXME stack delta unverified against a reference VM
	{"call", 0, false, -1}, // FIXME stack delta unverified against a reference VM
	{"push", 0, false, 1},
	{"pop", 0, false, -1},
	{"const", 4, false, 1},
	{"local", 4, false, 1},
	{"jump", 0, false, -1},
	{"eq", 4, true, -2},
	{"ne", 4, true, -2},
	{"lti", 4, true, -2},
	{"lei", 4, true, -2},
	{"gti", 4, true, -2},
	{"gei", 4, true, -2},
	{"ltu", 4, true, -2},
	{"leu", 4, true, -2},
	{"gtu", 4, true, -2},
	{"geu", 4, true, -2},
	{"eqf", 4, true, -2},
	{"nef", 4, true, -2},
	{"ltf", 4, true, -2},
	{"lef", 4, true, -2},
	{"gtf", 4, true, -2},
	{"gef", 4, true, -2},
	{"load1", 0, false, 0},
	{"load2", 0, false, 0},
	{"load4", 0, false, 0},
	{"store1", 0, false, -2},
	{"store2", 0, false, -2},
	{"store4", 0, false, -2},
	{"arg", 1, false, -1},
	{"block_copy", 4, false, -2}, // FIXME immediate width unverified against a reference VM
	{"sex8", 0, false, 0},
	{"sex16", 0, false, 0},
	{"negi", 0, false, 0},
	{"add", 0, false, -1},
	{"sub", 0, false, -1},
	{"divi", 0, false, -1},
	{"divu", 0, false, -1},
	{"modi", 0, false, -1},
	{"modu", 0, false, -1},
	{"muli", 0, false, -1},
	{"mulu", 0, false, -1},
	{"band", 0, false, -1},
	{"bor", 0, false, -1},
	{"bxor", 0, false, -1},
	{"bcom", 0, false, 0},
	{"lsh", 0, false, -1},
	{"rshi", 0, false, -1},
	{"rshu", 0, false, -1},
	{"negf", 0, false, 0},
	{"addf", 0, false, -1},
	{"subf", 0, false, -1},
	{"divf", 0, false, -1},
	{"mulf", 0, false, -1},
	{"cvif", 0, false, 0},
	{"cvfi", 0, false, 0},
}

// Mnemonic opcode constants for the handful of opcodes the analysis and
// cross-referencing passes need to recognize by name rather than by
// table lookup.
const (
	opEnter       = 3
	opCall        = 5
	opConst       = 8
	opLocal       = 9
	opJump        = 10
	opArg         = 33
	opBlockCopy   = 34
	opFirstBranch = 11
	opLastBranch  = 26
)

// mnemonicIndex maps a mnemonic back to its opcode byte, built once at
// package init from the Opcodes table.
var mnemonicIndex map[string]byte

func init() {
	mnemonicIndex = make(map[string]byte, NumOpcodes)
	for i, info := range Opcodes {
		mnemonicIndex[info.Mnemonic] = byte(i)
	}
}

// IsCallOrJump reports whether the mnemonic at opcode byte b is "call"
// or "jump" -- the exclusion used throughout const-operand resolution.
func IsCallOrJump(b byte) bool {
	return int(b) == opCall || int(b) == opJump
}
