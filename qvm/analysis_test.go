package qvm

import "testing"

// encodeInstr appends one instruction (opcode byte plus its immediate,
// if the opcode table says it carries one) to buf.
func encodeInstr(buf []byte, mnemonic string, param int32) []byte {
	opc, ok := mnemonicIndex[mnemonic]
	if !ok {
		panic("unknown mnemonic in test fixture: " + mnemonic)
	}
	buf = append(buf, opc)
	switch Opcodes[opc].ParamBytes {
	case 0:
	case 1:
		buf = append(buf, byte(param))
	case 4:
		u := uint32(param)
		buf = append(buf, byte(u), byte(u>>8), byte(u>>16), byte(u>>24))
	}
	return buf
}

func newTestImage(count uint32, code []byte) *QvmImage {
	return &QvmImage{
		InstructionCount: count,
		Code:             append(code, 0, 0, 0, 0, 0),
	}
}

// TestAnalyzeRoundTrip builds the single-function fixture:
// enter 0x10; const 5; arg 0x8; const K; call; leave 0x10
// and checks max-args-called, the call target's parm count, and the
// call-point cross reference.
func TestAnalyzeRoundTrip(t *testing.T) {
	const callTarget = int32(0x1234)

	var code []byte
	code = encodeInstr(code, "enter", 0x10)
	code = encodeInstr(code, "const", 5)
	code = encodeInstr(code, "arg", 0x8)
	code = encodeInstr(code, "const", callTarget)
	code = encodeInstr(code, "call", 0)
	code = encodeInstr(code, "leave", 0x10)

	img := newTestImage(6, code)

	fa, err := Analyze(img)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(fa.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(fa.Functions))
	}
	if fa.Functions[0].Addr != 0 {
		t.Fatalf("function addr = %d, want 0", fa.Functions[0].Addr)
	}
	if fa.FunctionMaxArgsCalled[0] != 0x8 {
		t.Fatalf("max args called = %#x, want 0x8", fa.FunctionMaxArgsCalled[0])
	}
	if got := fa.ParmNum[callTarget]; got != 0x8 {
		t.Fatalf("parm num for call target = %#x, want 0x8", got)
	}
	callers, ok := fa.CallPoints[callTarget]
	if !ok || len(callers) != 1 || callers[0] != 0 {
		t.Fatalf("call points for target = %v, want [0]", callers)
	}
}

// TestAnalyzeVariadicCallTarget calls the same target twice with
// different argument counts; ParmNum must flip to Variadic.
func TestAnalyzeVariadicCallTarget(t *testing.T) {
	const callTarget = int32(0x2000)

	var code []byte
	code = encodeInstr(code, "enter", 0x10)
	code = encodeInstr(code, "arg", 0x8)
	code = encodeInstr(code, "const", callTarget)
	code = encodeInstr(code, "call", 0)
	code = encodeInstr(code, "pop", 0)
	code = encodeInstr(code, "arg", 0x8)
	code = encodeInstr(code, "arg", 0xC)
	code = encodeInstr(code, "const", callTarget)
	code = encodeInstr(code, "call", 0)
	code = encodeInstr(code, "leave", 0x10)

	img := newTestImage(10, code)

	fa, err := Analyze(img)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got := fa.ParmNum[callTarget]; got != Variadic {
		t.Fatalf("parm num for call target = %#x, want Variadic", got)
	}
}

// TestAnalyzeTwoFunctionsHashTrailingDigit exercises the enter-opcode
// hash quirk: the first (non-final) function's hash string picks up a
// trailing "3" from the second function's enter opcode before it is
// flushed, so the two functions here must not hash equal even though
// their own instruction bodies are identical.
func TestAnalyzeTwoFunctionsHashTrailingDigit(t *testing.T) {
	var code []byte
	code = encodeInstr(code, "enter", 0x8)
	code = encodeInstr(code, "leave", 0x8)
	code = encodeInstr(code, "enter", 0x8)
	code = encodeInstr(code, "leave", 0x8)

	img := newTestImage(4, code)

	fa, err := Analyze(img)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(fa.Functions) != 2 {
		t.Fatalf("got %d functions, want 2", len(fa.Functions))
	}
	if fa.Functions[0].Hash == fa.Functions[1].Hash {
		t.Fatalf("first and last function hashed equal (%d); the enter-opcode lookahead quirk should distinguish them", fa.Functions[0].Hash)
	}
}

// TestAnalyzeMinimalImage is the smallest useful image: one function of
// one enter and one leave.
func TestAnalyzeMinimalImage(t *testing.T) {
	var code []byte
	code = encodeInstr(code, "enter", 0x8)
	code = encodeInstr(code, "leave", 0x8)

	img := newTestImage(2, code)

	fa, err := Analyze(img)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(fa.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(fa.Functions))
	}
	if fa.Functions[0].Size != 2 {
		t.Fatalf("function size = %d, want 2", fa.Functions[0].Size)
	}
	if len(fa.CallPoints) != 0 {
		t.Fatalf("call points = %v, want none", fa.CallPoints)
	}
}

// TestAnalyzeSizesSumToInstructionCount walks a multi-function image and
// checks that the per-function sizes partition the instruction stream:
// they sum to the instruction count, and the function addresses are
// exactly the indices of the enter instructions.
func TestAnalyzeSizesSumToInstructionCount(t *testing.T) {
	var code []byte
	code = encodeInstr(code, "enter", 0x10) // index 0
	code = encodeInstr(code, "const", 1)
	code = encodeInstr(code, "pop", 0)
	code = encodeInstr(code, "leave", 0x10)
	code = encodeInstr(code, "enter", 0x8) // index 4
	code = encodeInstr(code, "leave", 0x8)
	code = encodeInstr(code, "enter", 0x20) // index 6
	code = encodeInstr(code, "push", 0)
	code = encodeInstr(code, "leave", 0x20)

	img := newTestImage(9, code)

	fa, err := Analyze(img)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	var total uint32
	for _, size := range fa.FunctionSizes {
		total += size
	}
	if total != img.InstructionCount {
		t.Fatalf("sizes sum to %d, want %d", total, img.InstructionCount)
	}

	wantAddrs := map[uint32]bool{0: true, 4: true, 6: true}
	if len(fa.FunctionSizes) != len(wantAddrs) {
		t.Fatalf("got %d functions, want %d", len(fa.FunctionSizes), len(wantAddrs))
	}
	for addr := range fa.FunctionSizes {
		if !wantAddrs[addr] {
			t.Fatalf("unexpected function address %d", addr)
		}
	}
}

// TestAnalyzeMaxArgsKeepsHighWaterMark: a high arg slot followed by a
// lower one must not lower the recorded maximum.
func TestAnalyzeMaxArgsKeepsHighWaterMark(t *testing.T) {
	var code []byte
	code = encodeInstr(code, "enter", 0x10)
	code = encodeInstr(code, "arg", 0x20)
	code = encodeInstr(code, "arg", 0x10)
	code = encodeInstr(code, "leave", 0x10)

	img := newTestImage(4, code)

	fa, err := Analyze(img)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got := fa.FunctionMaxArgsCalled[0]; got != 0x20 {
		t.Fatalf("max args called = %#x, want 0x20", got)
	}
}

// TestAnalyzeHashCollisionBucket builds two identical mid-file
// functions followed by a distinct one; the identical pair must land in
// the same reverse-hash bucket, in walk order.
func TestAnalyzeHashCollisionBucket(t *testing.T) {
	var code []byte
	code = encodeInstr(code, "enter", 0x8) // index 0
	code = encodeInstr(code, "leave", 0x8)
	code = encodeInstr(code, "enter", 0x8) // index 2
	code = encodeInstr(code, "leave", 0x8)
	code = encodeInstr(code, "enter", 0x8) // index 4
	code = encodeInstr(code, "push", 0)
	code = encodeInstr(code, "leave", 0x8)

	img := newTestImage(7, code)

	fa, err := Analyze(img)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	h := fa.FunctionHashes[0]
	if fa.FunctionHashes[2] != h {
		t.Fatalf("identical functions hashed differently: %d vs %d", h, fa.FunctionHashes[2])
	}
	bucket := fa.FunctionRevHashes[h]
	if len(bucket) != 2 || bucket[0] != 0 || bucket[1] != 2 {
		t.Fatalf("rev-hash bucket = %v, want [0 2]", bucket)
	}
}

// TestAnalyzeJumpPoints checks that a branch operand records the target
// in JumpPoints under a plain jump-style opcode's own immediate.
func TestAnalyzeJumpPoints(t *testing.T) {
	var code []byte
	code = encodeInstr(code, "enter", 0x8)
	code = encodeInstr(code, "const", 0)
	code = encodeInstr(code, "const", 0)
	code = encodeInstr(code, "eq", 1)
	code = encodeInstr(code, "leave", 0x8)

	img := newTestImage(5, code)

	fa, err := Analyze(img)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	sources, ok := fa.JumpPoints[1]
	if !ok || len(sources) != 1 || sources[0] != 3 {
		t.Fatalf("jump points for target 1 = %v, want [3]", sources)
	}
}
