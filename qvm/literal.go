package qvm

import "fmt"

// escapeByte renders one byte of a literal-string comment: \n and \t as
// escapes, printable ASCII (32 < c < 127) as itself, anything else as
// \xHH. The LIT segment dump in internal/listing has its own rendering.
func escapeByte(b byte) string {
	switch b {
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	}
	if b > 32 && b < 127 {
		return string(b)
	}
	return fmt.Sprintf(`\x%02x`, b)
}

// decodeCString reads a NUL-terminated string starting at offset in
// buf, returning the escaped text (without surrounding quotes) and the
// number of raw bytes consumed, including the terminating NUL if one
// was found before the buffer ran out.
func decodeCString(buf []byte, offset int) (string, int) {
	var out []byte
	i := offset
	for i < len(buf) {
		c := buf[i]
		if c == 0 {
			i++
			break
		}
		out = append(out, escapeByte(c)...)
		i++
	}
	return string(out), i - offset
}
