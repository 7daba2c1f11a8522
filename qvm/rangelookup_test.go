package qvm

import "testing"

func TestRangeLookupSimpleOverlap(t *testing.T) {
	m := map[uint32][]RangeLabel{
		100: {{Size: 16, Label: "A"}},
		104: {{Size: 4, Label: "B"}},
	}
	got, ok := lookupSymbolRange(m, 106)
	if !ok {
		t.Fatal("expected a match")
	}
	if got != "B + 0x2" {
		t.Fatalf("got %q, want %q", got, "B + 0x2")
	}
}

func TestRangeLookupExactMatchesJoined(t *testing.T) {
	m := map[uint32][]RangeLabel{
		100: {{Size: 16, Label: "A"}, {Size: 4, Label: "C"}},
	}
	got, ok := lookupSymbolRange(m, 100)
	if !ok {
		t.Fatal("expected a match")
	}
	if got != "A, C" {
		t.Fatalf("got %q, want %q", got, "A, C")
	}
}

func TestRangeLookupSizeTieBreak(t *testing.T) {
	m := map[uint32][]RangeLabel{
		100: {{Size: 16, Label: "A"}, {Size: 4, Label: "B"}},
	}
	got, ok := lookupSymbolRange(m, 102)
	if !ok {
		t.Fatal("expected a match")
	}
	if got != "B + 0x2" {
		t.Fatalf("got %q, want %q", got, "B + 0x2")
	}
}

func TestRangeLookupNoMatch(t *testing.T) {
	m := map[uint32][]RangeLabel{
		100: {{Size: 4, Label: "A"}},
	}
	if _, ok := lookupSymbolRange(m, 200); ok {
		t.Fatal("expected no match")
	}
}
