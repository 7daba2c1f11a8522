package qvm

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildContainer assembles a minimal valid QVM file body: the 32-byte
// header followed by code/data/lit bytes, in file order.
func buildContainer(code, data, lit []byte, bssLen uint32) []byte {
	codeOff := uint32(headerSize)
	codeLen := uint32(len(code))
	dataOff := codeOff + codeLen
	dataLen := uint32(len(data))
	litLen := uint32(len(lit))

	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header[0:4], Magic)
	binary.LittleEndian.PutUint32(header[4:8], 0) // instruction count unused by these fixtures
	binary.LittleEndian.PutUint32(header[8:12], codeOff)
	binary.LittleEndian.PutUint32(header[12:16], codeLen)
	binary.LittleEndian.PutUint32(header[16:20], dataOff)
	binary.LittleEndian.PutUint32(header[20:24], dataLen)
	binary.LittleEndian.PutUint32(header[24:28], litLen)
	binary.LittleEndian.PutUint32(header[28:32], bssLen)

	out := append([]byte{}, header...)
	out = append(out, code...)
	out = append(out, data...)
	out = append(out, lit...)
	return out
}

func TestLoadValidContainer(t *testing.T) {
	raw := buildContainer([]byte{0, 1, 2, 3}, []byte{9, 9, 9, 9}, []byte("hi\x00"), 16)
	img, err := Load(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.BssSegLength != 16 {
		t.Fatalf("bss length = %d, want 16", img.BssSegLength)
	}
	if len(img.Code) != 4+5 {
		t.Fatalf("code len = %d, want 9 (4 + 5 pad)", len(img.Code))
	}
	if len(img.Data) != 4+4 {
		t.Fatalf("data len = %d, want 8 (4 + 4 pad)", len(img.Data))
	}
	if len(img.Lit) != 3+4 {
		t.Fatalf("lit len = %d, want 7 (3 + 4 pad)", len(img.Lit))
	}
}

func TestLoadBadMagic(t *testing.T) {
	raw := buildContainer([]byte{0}, nil, nil, 0)
	raw[0] ^= 0xFF
	_, err := Load(bytes.NewReader(raw), int64(len(raw)))
	if err == nil {
		t.Fatal("expected an error for a bad magic value")
	}
	if _, ok := err.(*InvalidQvmFile); !ok {
		t.Fatalf("error type = %T, want *InvalidQvmFile", err)
	}
}

func TestLoadSegmentPastEndOfFile(t *testing.T) {
	raw := buildContainer([]byte{0, 1, 2, 3}, nil, nil, 0)
	truncated := raw[:len(raw)-2]
	_, err := Load(bytes.NewReader(truncated), int64(len(truncated)))
	if err == nil {
		t.Fatal("expected an error for a segment extending past the file")
	}
}
