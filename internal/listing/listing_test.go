package listing

import (
	"strings"
	"testing"

	"github.com/curddd/q3vm/qvm"
)

func TestLitDumpBreaksOnNonPrintable(t *testing.T) {
	lit := []byte("hi\x00\x01bye\x00")
	got := LitDump(lit, uint32(len(lit)))
	want := "\"hi\"\n0x01\n\"bye\"\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDataDumpFormatsWordsAndComments(t *testing.T) {
	data := []byte{0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00}
	got := DataDump(data, uint32(len(data)), 4, func(off uint32) string {
		if off == 4 {
			return "second word"
		}
		return ""
	}, nil)
	if !strings.Contains(got, "second word") {
		t.Fatalf("expected comment for offset 4 in output:\n%s", got)
	}
	if !strings.Contains(got, "0x00000001") {
		t.Fatalf("expected decoded value 1 in output:\n%s", got)
	}
}

func TestBssSymbolNamesFiltersAndSorts(t *testing.T) {
	img := &qvm.QvmImage{DataSegLength: 0x100, LitSegLength: 0x40}
	store := qvm.NewAnnotationStore()
	store.AddSymbol(0x10, "inData")
	store.AddSymbol(0x200, "zLate")
	store.AddSymbol(0x150, "early")
	store.AddSymbolRange(0x180, 0x20, "rangeSym")

	got := bssSymbolNames(img, store)
	want := []string{"0x150  early", "0x180  rangeSym", "0x200  zLate"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRenderIncludesSectionHeaders(t *testing.T) {
	img := &qvm.QvmImage{Data: []byte{0, 0, 0, 0}, DataSegLength: 4, Lit: []byte("x\x00\x00\x00\x00"), LitSegLength: 2, BssSegLength: 0}
	store := qvm.NewAnnotationStore()
	lines := []qvm.DisassembledLine{{Index: 0, Mnemonic: "break"}}

	out := Render(img, lines, store, DefaultOptions())
	for _, want := range []string{"DATA SEGMENT", "LIT SEGMENT", "BSS SEGMENT"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q section in output:\n%s", want, out)
		}
	}
}
