package sidecar

import (
	"bufio"
	"strings"

	"github.com/pkg/errors"

	"github.com/curddd/q3vm/qvm"
)

// LoadConstants reads constants.dat: `CODE_ADDR NAME VALUE`, all three
// fields hexadecimal. Shorter lines are skipped and tokens past the
// third are ignored. Missing path is a no-op.
func LoadConstants(path string, store *qvm.AnnotationStore) error {
	f, err := openSidecar(path)
	if err != nil || f == nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(stripComment(scanner.Text()))
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		codeAddr, err := parseHex32(fields[0])
		if err != nil {
			return parseErr(path, lineNo, "bad code address: "+err.Error())
		}
		value, err := parseHexSigned32(fields[2])
		if err != nil {
			return parseErr(path, lineNo, "bad value: "+err.Error())
		}
		store.AddConstant(codeAddr, fields[1], value)
	}
	return errors.Wrapf(scanner.Err(), "reading %s", path)
}
