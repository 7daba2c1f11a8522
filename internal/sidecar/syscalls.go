package sidecar

import (
	"bufio"
	"strings"

	"github.com/pkg/errors"

	"github.com/curddd/q3vm/qvm"
)

// LoadSyscalls reads a `{cgame,game,ui}_syscalls.asm`-style table: lines
// of exactly three whitespace-separated tokens, the second the syscall
// name and the third its (negative) decimal number. Lines with any
// other token count are skipped. Missing path is a no-op.
func LoadSyscalls(path string, store *qvm.AnnotationStore) error {
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
		if len(fields) != 3 {
			continue
		}
		num, err := parseDecSigned32(fields[2])
		if err != nil {
			return parseErr(path, lineNo, "bad syscall number: "+err.Error())
		}
		store.AddSyscall(num, fields[1])
	}
	return errors.Wrapf(scanner.Err(), "reading %s", path)
}
