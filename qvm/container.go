package qvm

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Magic is the expected 32-bit magic value at the start of a QVM file.
const Magic uint32 = 0x12721444

const headerSize = 8 * 4

// QvmImage is the immutable, in-memory view of a decoded QVM container:
// the header-derived segment geometry plus the CODE/DATA/LIT byte
// buffers, each padded with a few trailing zero bytes so bounded
// look-ahead at the end of a segment never runs off the slice.
type QvmImage struct {
	InstructionCount uint32

	CodeSegOffset uint32
	CodeSegLength uint32
	DataSegOffset uint32
	DataSegLength uint32
	LitSegOffset  uint32
	LitSegLength  uint32
	BssSegOffset  uint32
	BssSegLength  uint32

	// Code is padded with 5 trailing zero bytes.
	Code []byte
	// Data is padded with 4 trailing zero bytes.
	Data []byte
	// Lit is padded with 4 trailing zero bytes.
	Lit []byte
}

// Load decodes a QVM container from r, which must expose the entire
// file (reading raw bytes off disk is the CLI's job; this function only
// interprets a buffer already in memory or reachable via ReaderAt).
func Load(r io.ReaderAt, size int64) (*QvmImage, error) {
	header := make([]byte, headerSize)
	if _, err := r.ReadAt(header, 0); err != nil {
		return nil, errors.Wrap(err, "reading qvm header")
	}

	magic := binary.LittleEndian.Uint32(header[0:4])
	if magic != Magic {
		return nil, &InvalidQvmFile{Observed: magic, Expected: Magic}
	}

	instructionCount := binary.LittleEndian.Uint32(header[4:8])
	codeOff := binary.LittleEndian.Uint32(header[8:12])
	codeLen := binary.LittleEndian.Uint32(header[12:16])
	dataOff := binary.LittleEndian.Uint32(header[16:20])
	dataLen := binary.LittleEndian.Uint32(header[20:24])
	litLen := binary.LittleEndian.Uint32(header[24:28])
	bssLen := binary.LittleEndian.Uint32(header[28:32])

	litOff := dataOff + dataLen
	bssOff := litOff + litLen

	if err := checkSegmentBounds(size, codeOff, codeLen, dataOff, dataLen, litOff, litLen); err != nil {
		return nil, err
	}

	code, err := readPadded(r, int64(codeOff), int(codeLen), 5)
	if err != nil {
		return nil, errors.Wrap(err, "reading CODE segment")
	}
	data, err := readPadded(r, int64(dataOff), int(dataLen), 4)
	if err != nil {
		return nil, errors.Wrap(err, "reading DATA segment")
	}
	lit, err := readPadded(r, int64(litOff), int(litLen), 4)
	if err != nil {
		return nil, errors.Wrap(err, "reading LIT segment")
	}

	return &QvmImage{
		InstructionCount: instructionCount,
		CodeSegOffset:    codeOff,
		CodeSegLength:    codeLen,
		DataSegOffset:    dataOff,
		DataSegLength:    dataLen,
		LitSegOffset:     litOff,
		LitSegLength:     litLen,
		BssSegOffset:     bssOff,
		BssSegLength:     bssLen,
		Code:             code,
		Data:             data,
		Lit:              lit,
	}, nil
}

// checkSegmentBounds validates that CODE, DATA and LIT each end within
// the file size. Overlap between segments is not checked. BSS is not
// file-backed and is excluded from this check.
func checkSegmentBounds(size int64, codeOff, codeLen, dataOff, dataLen, litOff, litLen uint32) error {
	segments := [][2]uint32{
		{codeOff, codeLen},
		{dataOff, dataLen},
		{litOff, litLen},
	}
	for _, seg := range segments {
		end := int64(seg[0]) + int64(seg[1])
		if end > size {
			return &InvalidQvmFile{Reason: "segment extends past end of file"}
		}
	}
	return nil
}

func readPadded(r io.ReaderAt, offset int64, length int, pad int) ([]byte, error) {
	buf := make([]byte, length+pad)
	if length > 0 {
		if _, err := r.ReadAt(buf[:length], offset); err != nil {
			return nil, err
		}
	}
	return buf, nil
}
