// Package listing turns a qvm.QvmImage, its []qvm.DisassembledLine and
// the qvm.AnnotationStore into the final human-readable text report:
// the annotated code body, then DATA, LIT and BSS section dumps.
package listing

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/curddd/q3vm/qvm"
)

// DataDump renders the DATA segment one line per bytesPerLine bytes
// (rounded down to whole 32-bit words, minimum one word): the line's
// offset, the hex bytes, the little-endian u32 decode of each word, and
// any inline comments attached to the word offsets the line covers.
// blockAt, if non-nil, supplies before/after comment blocks per word
// offset; before-blocks print above the covering line, after-blocks
// below it.
func DataDump(data []byte, dataLen uint32, bytesPerLine int, commentAt func(offset uint32) string, blockAt func(offset uint32) (before, after *qvm.CommentBlock)) string {
	wordsPerLine := bytesPerLine / 4
	if wordsPerLine < 1 {
		wordsPerLine = 1
	}

	var b strings.Builder
	for base := uint32(0); base+4 <= dataLen; base += uint32(wordsPerLine * 4) {
		var bytesText, valuesText, comments []string
		var beforeBlocks, afterBlocks []*qvm.CommentBlock
		for w := 0; w < wordsPerLine; w++ {
			off := base + uint32(w*4)
			if off+4 > dataLen {
				break
			}
			word := data[off : off+4]
			bytesText = append(bytesText,
				fmt.Sprintf("%02x %02x %02x %02x", word[0], word[1], word[2], word[3]))
			valuesText = append(valuesText, fmt.Sprintf("%#08x", binary.LittleEndian.Uint32(word)))
			if comment := commentAt(off); comment != "" {
				comments = append(comments, comment)
			}
			if blockAt != nil {
				before, after := blockAt(off)
				if before != nil {
					beforeBlocks = append(beforeBlocks, before)
				}
				if after != nil {
					afterBlocks = append(afterBlocks, after)
				}
			}
		}
		for _, block := range beforeBlocks {
			renderCommentBlock(&b, block)
		}
		fmt.Fprintf(&b, "%#08x: %s  %s", base, strings.Join(bytesText, " "), strings.Join(valuesText, " "))
		if len(comments) > 0 {
			fmt.Fprintf(&b, "  ; %s", strings.Join(comments, " | "))
		}
		b.WriteByte('\n')
		for _, block := range afterBlocks {
			renderCommentBlock(&b, block)
		}
	}
	return b.String()
}

// LitDump renders the LIT segment as a sequence of quoted strings,
// breaking on NUL terminators and on non-printable bytes (which are
// emitted as a standalone 0xHH marker before a fresh quoted run begins).
func LitDump(lit []byte, litLen uint32) string {
	var b strings.Builder
	var run strings.Builder
	inRun := false

	flush := func() {
		if inRun {
			b.WriteByte('"')
			b.WriteString(run.String())
			b.WriteString("\"\n")
			run.Reset()
			inRun = false
		}
	}

	for i := uint32(0); i < litLen; i++ {
		c := lit[i]
		switch {
		case c == 0:
			flush()
		case c == '\n':
			inRun = true
			run.WriteString(`\n`)
		case c == '\t':
			inRun = true
			run.WriteString(`\t`)
		case c > 31 && c < 127:
			inRun = true
			run.WriteByte(c)
		default:
			flush()
			fmt.Fprintf(&b, "0x%02x\n", c)
		}
	}
	flush()
	return b.String()
}

// BssSummary renders the supplemental BSS section: since BSS carries no
// file-backed bytes, this names only its size and whatever user symbols
// or ranges land inside it.
func BssSummary(bssLen uint32, symbolNames []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "size: %#x\n", bssLen)
	for _, name := range symbolNames {
		fmt.Fprintf(&b, "  %s\n", name)
	}
	return b.String()
}
