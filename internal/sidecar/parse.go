// Package sidecar loads the optional text files that annotate a QVM
// disassembly: syscall tables, known-function hash maps, and the
// user-authored symbols/functions/constants/comments files. None of
// these loaders are part of the core analysis; they only populate a
// qvm.AnnotationStore through its Add*/Set* methods.
package sidecar

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/curddd/q3vm/qvm"
)

// openSidecar opens a sidecar file. A missing file is not an error: it
// returns (nil, nil) and the caller treats the load as a no-op.
func openSidecar(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return f, nil
}

// stripComment cuts a line at the first `;`, the line-comment
// introducer used throughout the sidecar formats.
func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}

func parseHex32(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// parseHexSigned32 parses a hexadecimal field that may carry a leading
// sign, as local-variable offsets in functions.dat do (negative relative
// to the frame pointer).
func parseHexSigned32(s string) (int32, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	v, err := parseHex32(s)
	if err != nil {
		return 0, err
	}
	if neg {
		return -int32(v), nil
	}
	return int32(v), nil
}

func parseDecSigned32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// parseErr is a tiny constructor shortcut used by every loader.
func parseErr(file string, line int, msg string) error {
	return &qvm.AnnotationParseError{File: file, Line: line, Msg: msg}
}
