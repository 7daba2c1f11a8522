package sidecar

import (
	"bufio"
	"strings"

	"github.com/pkg/errors"

	"github.com/curddd/q3vm/qvm"
)

// LoadSymbols reads symbols.dat: `ADDR NAME` for an exact-address DATA
// or BSS symbol, or `ADDR SIZE NAME` for a range. Addresses and sizes
// are hexadecimal. Lines with any other token count are skipped.
// Missing path is a no-op.
func LoadSymbols(path string, store *qvm.AnnotationStore) error {
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
		if len(fields) != 2 && len(fields) != 3 {
			continue
		}
		addr, err := parseHex32(fields[0])
		if err != nil {
			return parseErr(path, lineNo, "bad address: "+err.Error())
		}
		if len(fields) == 2 {
			store.AddSymbol(addr, fields[1])
			continue
		}
		size, err := parseHex32(fields[1])
		if err != nil {
			return parseErr(path, lineNo, "bad size: "+err.Error())
		}
		store.AddSymbolRange(addr, size, fields[2])
	}
	return errors.Wrapf(scanner.Err(), "reading %s", path)
}
