package qvm

// StructuralHash is a 32-bit signed fingerprint of a function, computed
// from the decimal-digit string built by the analysis pass out of the
// function's opcode sequence plus selected immediates (see analysis.go).
//
// It is a direct port of an older string-hash used for discovery
// purposes elsewhere in the toolchain, not a general-purpose hash: the
// wraparound convention below (32-bit unsigned multiply, reinterpret the
// top bit as sign) must match bit-for-bit, since this value is compared
// against a catalogue of known-function hashes.
func StructuralHash(s string) int32 {
	if len(s) == 0 {
		return 0
	}

	value := int64(s[0]) << 7
	for i := 0; i < len(s); i++ {
		value = wrapMul(1000003, value) ^ int64(s[i])
	}
	value = value ^ int64(len(s))

	result := int32(value)
	if result == -1 {
		result = -2
	}
	return result
}

// wrapMul multiplies two values as an unsigned 32-bit product, then
// reinterprets the result as a signed 32-bit value. Inputs are taken as
// int64 so the caller can thread a running (already-wrapped) accumulator
// through repeated calls without intermediate truncation surprises.
func wrapMul(a, b int64) int64 {
	v := uint32(a) * uint32(b)
	return int64(int32(v))
}
