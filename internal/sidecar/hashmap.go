package sidecar

import (
	"bufio"
	"strings"

	"github.com/pkg/errors"

	"github.com/curddd/q3vm/qvm"
)

// LoadHashMap reads a `baseq3-*-functions.hmap`-style known-function
// hash catalogue: lines with at least three tokens, the second a
// function name and the third its hexadecimal structural hash.
// Colliding hashes accumulate names rather than overwrite. Missing path
// is a no-op.
func LoadHashMap(path string, store *qvm.AnnotationStore) error {
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
			return parseErr(path, lineNo, "expected at least three fields")
		}
		hash, err := parseHexSigned32(fields[2])
		if err != nil {
			return parseErr(path, lineNo, "bad hash: "+err.Error())
		}
		store.AddBaseQ3Hash(hash, fields[1])
	}
	return errors.Wrapf(scanner.Err(), "reading %s", path)
}
