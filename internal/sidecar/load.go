package sidecar

import "github.com/curddd/q3vm/qvm"

// Paths names the six optional sidecar files, typically populated from
// a config.Config and overridden by CLI flags.
type Paths struct {
	Syscalls  string
	HashMap   string
	Symbols   string
	Functions string
	Constants string
	Comments  string
}

// LoadAll runs every sidecar loader against a fresh AnnotationStore,
// stopping at the first error. Loaders that find no file at their path
// are no-ops.
func LoadAll(p Paths) (*qvm.AnnotationStore, error) {
	store := qvm.NewAnnotationStore()

	if err := LoadSyscalls(p.Syscalls, store); err != nil {
		return nil, err
	}
	if err := LoadHashMap(p.HashMap, store); err != nil {
		return nil, err
	}
	if err := LoadSymbols(p.Symbols, store); err != nil {
		return nil, err
	}
	if err := LoadFunctions(p.Functions, store); err != nil {
		return nil, err
	}
	if err := LoadConstants(p.Constants, store); err != nil {
		return nil, err
	}
	if err := LoadComments(p.Comments, store); err != nil {
		return nil, err
	}

	return store, nil
}
