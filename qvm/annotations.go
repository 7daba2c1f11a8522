package qvm

// RangeLabel is one entry of a range-keyed annotation: a label that
// applies to `Size` bytes/words starting at the range's key address.
type RangeLabel struct {
	Size  uint32
	Label string
}

// ConstRecord is one constants.dat entry: the expected value a `const`
// at a given code index should carry, plus the name to render when it
// matches.
type ConstRecord struct {
	Name  string
	Value int32
}

// CommentBlock is a sequence of verbatim comment lines plus the blank
// line spacing to render before and after them.
type CommentBlock struct {
	Lines       []string
	SpaceBefore int
	SpaceAfter  int
}

// AnnotationStore holds every sidecar-derived fact the cross-referencing
// pass consults. It has no file-reading capability of its own -- it is
// populated by the sidecar loaders, one Add* call at a time, and is
// read-only from the point of view of the analysis and disassembly
// passes.
//
// Merge policy: point ("exact address") annotations overwrite on
// collision; range annotations sharing a starting address accumulate in
// insertion order.
type AnnotationStore struct {
	Syscalls  map[int32]string
	Functions map[uint32]string

	FunctionArgLabels        map[uint32]map[string]string
	FunctionLocalLabels      map[uint32]map[int32]string
	FunctionLocalRangeLabels map[uint32]map[int32][]RangeLabel

	Symbols      map[uint32]string
	SymbolsRange map[uint32][]RangeLabel

	Constants map[uint32]ConstRecord

	CommentsInline map[uint32]string
	CommentsBefore map[uint32]*CommentBlock
	CommentsAfter  map[uint32]*CommentBlock

	DataCommentsInline map[uint32]string
	DataCommentsBefore map[uint32]*CommentBlock
	DataCommentsAfter  map[uint32]*CommentBlock

	BaseQ3FunctionRevHashes map[int32][]string
}

// NewAnnotationStore returns an empty store with every map initialized,
// so loaders never have to nil-check before writing into it.
func NewAnnotationStore() *AnnotationStore {
	return &AnnotationStore{
		Syscalls:                 make(map[int32]string),
		Functions:                make(map[uint32]string),
		FunctionArgLabels:        make(map[uint32]map[string]string),
		FunctionLocalLabels:      make(map[uint32]map[int32]string),
		FunctionLocalRangeLabels: make(map[uint32]map[int32][]RangeLabel),
		Symbols:                  make(map[uint32]string),
		SymbolsRange:             make(map[uint32][]RangeLabel),
		Constants:                make(map[uint32]ConstRecord),
		CommentsInline:           make(map[uint32]string),
		CommentsBefore:           make(map[uint32]*CommentBlock),
		CommentsAfter:            make(map[uint32]*CommentBlock),
		DataCommentsInline:       make(map[uint32]string),
		DataCommentsBefore:       make(map[uint32]*CommentBlock),
		DataCommentsAfter:        make(map[uint32]*CommentBlock),
		BaseQ3FunctionRevHashes:  make(map[int32][]string),
	}
}

// AddSyscall records (overwriting) the name for a syscall number.
func (s *AnnotationStore) AddSyscall(num int32, name string) {
	s.Syscalls[num] = name
}

// AddBaseQ3Hash appends name to the bucket of known functions sharing hash h.
func (s *AnnotationStore) AddBaseQ3Hash(h int32, name string) {
	s.BaseQ3FunctionRevHashes[h] = append(s.BaseQ3FunctionRevHashes[h], name)
}

// AddFunction records (overwriting) the name of the function starting at addr.
func (s *AnnotationStore) AddFunction(addr uint32, name string) {
	s.Functions[addr] = name
}

// AddFunctionArgLabel attaches a label to argN of the function at addr.
func (s *AnnotationStore) AddFunctionArgLabel(addr uint32, argName, label string) {
	m, ok := s.FunctionArgLabels[addr]
	if !ok {
		m = make(map[string]string)
		s.FunctionArgLabels[addr] = m
	}
	m[argName] = label
}

// AddFunctionLocalLabel attaches an exact-address local label.
func (s *AnnotationStore) AddFunctionLocalLabel(addr uint32, localAddr int32, label string) {
	m, ok := s.FunctionLocalLabels[addr]
	if !ok {
		m = make(map[int32]string)
		s.FunctionLocalLabels[addr] = m
	}
	m[localAddr] = label
}

// AddFunctionLocalRangeLabel appends a range local label.
func (s *AnnotationStore) AddFunctionLocalRangeLabel(addr uint32, localAddr int32, size uint32, label string) {
	m, ok := s.FunctionLocalRangeLabels[addr]
	if !ok {
		m = make(map[int32][]RangeLabel)
		s.FunctionLocalRangeLabels[addr] = m
	}
	m[localAddr] = append(m[localAddr], RangeLabel{Size: size, Label: label})
}

// AddSymbol records (overwriting) an exact-address DATA/BSS symbol.
func (s *AnnotationStore) AddSymbol(addr uint32, label string) {
	s.Symbols[addr] = label
}

// AddSymbolRange appends a range DATA/BSS symbol.
func (s *AnnotationStore) AddSymbolRange(addr, size uint32, label string) {
	s.SymbolsRange[addr] = append(s.SymbolsRange[addr], RangeLabel{Size: size, Label: label})
}

// AddConstant records (overwriting) the expected constant at a code index.
func (s *AnnotationStore) AddConstant(codeIndex uint32, name string, value int32) {
	s.Constants[codeIndex] = ConstRecord{Name: name, Value: value}
}

// SetCommentInline records (overwriting) an inline code comment.
func (s *AnnotationStore) SetCommentInline(index uint32, text string) {
	s.CommentsInline[index] = text
}

// SetCommentBefore records (overwriting) a before-block for a code index.
func (s *AnnotationStore) SetCommentBefore(index uint32, block *CommentBlock) {
	s.CommentsBefore[index] = block
}

// SetCommentAfter records (overwriting) an after-block for a code index.
func (s *AnnotationStore) SetCommentAfter(index uint32, block *CommentBlock) {
	s.CommentsAfter[index] = block
}

// SetDataCommentInline records (overwriting) an inline data comment.
func (s *AnnotationStore) SetDataCommentInline(offset uint32, text string) {
	s.DataCommentsInline[offset] = text
}

// SetDataCommentBefore records (overwriting) a before-block for a data offset.
func (s *AnnotationStore) SetDataCommentBefore(offset uint32, block *CommentBlock) {
	s.DataCommentsBefore[offset] = block
}

// SetDataCommentAfter records (overwriting) an after-block for a data offset.
func (s *AnnotationStore) SetDataCommentAfter(offset uint32, block *CommentBlock) {
	s.DataCommentsAfter[offset] = block
}
