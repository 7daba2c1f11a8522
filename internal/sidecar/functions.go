package sidecar

import (
	"bufio"
	"strings"

	"github.com/pkg/errors"

	"github.com/curddd/q3vm/qvm"
)

// LoadFunctions reads functions.dat: an `ADDR NAME` line starts a
// function; subsequent `argN NAME` lines attach an argument label to
// the function currently in scope, and `local ADDR NAME` / `local ADDR
// SIZE NAME` lines attach an exact or range local label. All numeric
// fields are hexadecimal. On `argN` and definition lines, tokens past
// the first two are ignored, and single-token non-local lines are
// skipped; a `local` line with other than three or four tokens is a
// parse error. Missing path is a no-op.
func LoadFunctions(path string, store *qvm.AnnotationStore) error {
	f, err := openSidecar(path)
	if err != nil || f == nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	var (
		currentFunc uint32
		haveFunc    bool
	)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(stripComment(scanner.Text()))
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch {
		case fields[0] == "local":
			if !haveFunc {
				return parseErr(path, lineNo, "local line outside any function")
			}
			switch len(fields) {
			case 3:
				localAddr, err := parseHexSigned32(fields[1])
				if err != nil {
					return parseErr(path, lineNo, "bad local address: "+err.Error())
				}
				store.AddFunctionLocalLabel(currentFunc, localAddr, fields[2])
			case 4:
				localAddr, err := parseHexSigned32(fields[1])
				if err != nil {
					return parseErr(path, lineNo, "bad local address: "+err.Error())
				}
				size, err := parseHex32(fields[2])
				if err != nil {
					return parseErr(path, lineNo, "bad local size: "+err.Error())
				}
				store.AddFunctionLocalRangeLabel(currentFunc, localAddr, size, fields[3])
			default:
				return parseErr(path, lineNo, "expected local ADDR NAME or local ADDR SIZE NAME")
			}

		case len(fields) < 2:
			// nothing usable on the line

		case strings.HasPrefix(fields[0], "arg"):
			if !haveFunc {
				return parseErr(path, lineNo, "arg line outside any function")
			}
			store.AddFunctionArgLabel(currentFunc, fields[0], fields[1])

		default:
			addr, err := parseHex32(fields[0])
			if err != nil {
				return parseErr(path, lineNo, "bad address: "+err.Error())
			}
			store.AddFunction(addr, fields[1])
			currentFunc = addr
			haveFunc = true
		}
	}
	return errors.Wrapf(scanner.Err(), "reading %s", path)
}
