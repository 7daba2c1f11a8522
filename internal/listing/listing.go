package listing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/curddd/q3vm/qvm"
)

// Options are the formatting knobs the config file exposes.
type Options struct {
	// DataBytesPerLine is how many DATA bytes each dump line covers,
	// rounded down to whole 32-bit words. Values below 4 mean 4.
	DataBytesPerLine int
	// CommentColumn is the column operand and inline comments are
	// aligned to on instruction lines. 0 disables alignment.
	CommentColumn int
}

// DefaultOptions matches the formatting the config package defaults to.
func DefaultOptions() Options {
	return Options{DataBytesPerLine: 4, CommentColumn: 40}
}

// Render assembles the full text report for one decoded and
// cross-referenced QVM image: the annotated code body followed by the
// DATA, LIT and BSS sections.
func Render(img *qvm.QvmImage, lines []qvm.DisassembledLine, store *qvm.AnnotationStore, opts Options) string {
	var b strings.Builder

	for _, line := range lines {
		renderLine(&b, line, opts)
	}

	b.WriteString("\nDATA SEGMENT\n")
	b.WriteString(DataDump(img.Data, img.DataSegLength, opts.DataBytesPerLine,
		func(off uint32) string {
			if text, ok := store.DataCommentsInline[off]; ok {
				return text
			}
			return ""
		},
		func(off uint32) (*qvm.CommentBlock, *qvm.CommentBlock) {
			return store.DataCommentsBefore[off], store.DataCommentsAfter[off]
		}))

	b.WriteString("\nLIT SEGMENT\n")
	b.WriteString(LitDump(img.Lit, img.LitSegLength))

	b.WriteString("\nBSS SEGMENT\n")
	b.WriteString(BssSummary(img.BssSegLength, bssSymbolNames(img, store)))

	return b.String()
}

// bssSymbolNames collects the user symbols and ranges whose addresses
// land in the BSS region (everything past DATA and LIT), sorted by
// address so the summary is stable across runs.
func bssSymbolNames(img *qvm.QvmImage, store *qvm.AnnotationStore) []string {
	bssStart := img.DataSegLength + img.LitSegLength

	type entry struct {
		addr  uint32
		label string
	}
	var entries []entry
	for addr, label := range store.Symbols {
		if addr >= bssStart {
			entries = append(entries, entry{addr, label})
		}
	}
	for addr, ranges := range store.SymbolsRange {
		if addr < bssStart {
			continue
		}
		for _, rl := range ranges {
			entries = append(entries, entry{addr, rl.Label})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].addr != entries[j].addr {
			return entries[i].addr < entries[j].addr
		}
		return entries[i].label < entries[j].label
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = fmt.Sprintf("%#x  %s", e.addr, e.label)
	}
	return names
}

func renderLine(b *strings.Builder, line qvm.DisassembledLine, opts Options) {
	if len(line.JumpSources) > 0 {
		b.WriteString("\n;----------------------------------- from")
		for _, src := range line.JumpSources {
			fmt.Fprintf(b, " %#x", src)
		}
		b.WriteByte('\n')
	}

	if line.Enter != nil {
		renderEnterHeader(b, line.Enter)
		if block := line.Before; block != nil {
			renderCommentBlock(b, block)
		}
	} else if block := line.Before; block != nil {
		renderCommentBlock(b, block)
	}

	if line.HasLiteral {
		fmt.Fprintf(b, "  ; \"%s\"\n", line.LiteralString)
	}
	if line.HasDataWord {
		dw := line.DataWord
		fmt.Fprintf(b, "  ; %02x %02x %02x %02x  (%#x)\n", dw.Bytes[0], dw.Bytes[1], dw.Bytes[2], dw.Bytes[3], dw.Value)
	}

	text := fmt.Sprintf("%6d: %-10s", line.Index, line.Mnemonic)
	if line.HasParam {
		text += fmt.Sprintf("%#x", line.Param)
	}
	b.WriteString(text)

	if line.OperandComment != "" || line.HasInline {
		for pad := opts.CommentColumn - len(text); pad > 0; pad-- {
			b.WriteByte(' ')
		}
		if line.OperandComment != "" {
			fmt.Fprintf(b, "  ; %s", line.OperandComment)
		}
		if line.HasInline {
			fmt.Fprintf(b, "  ; %s", line.InlineComment)
		}
	}
	b.WriteByte('\n')

	if block := line.After; block != nil {
		renderCommentBlock(b, block)
	}
}

func renderEnterHeader(b *strings.Builder, hdr *qvm.EnterHeader) {
	if len(hdr.Callers) > 0 {
		fmt.Fprintf(b, "\n; called from %s\n", strings.Join(hdr.Callers, " "))
	}
	b.WriteString("\n")
	if len(hdr.FuncNames) > 0 {
		if strings.HasPrefix(hdr.FuncNames[0], "?") {
			b.WriteString(";")
			for _, n := range hdr.FuncNames {
				fmt.Fprintf(b, " %s()", n)
			}
			b.WriteByte('\n')
		} else {
			fmt.Fprintf(b, "; func %s()\n", hdr.FuncNames[0])
		}
	}
	if hdr.HasArgsInfo {
		fmt.Fprintf(b, "; %s args\n", hdr.ArgsText)
	}
	fmt.Fprintf(b, "; max local arg %#x\n", hdr.MaxArgsCalled)
	b.WriteString("; ========================\n")
}

func renderCommentBlock(b *strings.Builder, block *qvm.CommentBlock) {
	for i := 0; i < block.SpaceBefore; i++ {
		b.WriteByte('\n')
	}
	for _, l := range block.Lines {
		fmt.Fprintf(b, "; %s\n", l)
	}
	for i := 0; i < block.SpaceAfter; i++ {
		b.WriteByte('\n')
	}
}
