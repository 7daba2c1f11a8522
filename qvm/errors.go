package qvm

import "fmt"

// InvalidQvmFile is returned when the container header fails the magic
// check or its fields are inconsistent with the underlying file size.
type InvalidQvmFile struct {
	Observed uint32
	Expected uint32
	Reason   string
}

func (e *InvalidQvmFile) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("not a valid qvm file: %s", e.Reason)
	}
	return fmt.Sprintf("not a valid qvm file  0x%x != 0x%x", e.Observed, e.Expected)
}

// DecodeError is returned when the code segment contains an opcode byte
// outside the known table, or an operand read runs past the end of CODE.
type DecodeError struct {
	Index  uint32
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error at instruction 0x%x (code offset 0x%x): %s", e.Index, e.Offset, e.Reason)
}

// AnnotationParseError is returned by the sidecar loaders for any
// malformed line: unparsable hex/decimal fields, a `local` line outside
// any function, an unrecognized comment-block keyword, or a before/after
// block missing its terminator.
type AnnotationParseError struct {
	File string
	Line int
	Msg  string
}

func (e *AnnotationParseError) Error() string {
	return fmt.Sprintf("couldn't parse line %d of %s: %s", e.Line, e.File, e.Msg)
}
