package framewire // import "github.com/go-daq/framewire"

import "strings"

// Pretty renders p as a human-readable string: '\n', '\r' and '\x00' are
// escaped, every other byte is printed literally.
func Pretty(p []byte) string {
	var b strings.Builder
	for _, c := range p {
		switch c {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case 0:
			b.WriteString(`\x00`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

const hexdigits = "0123456789abcdef"

// Hex renders p as two lowercase hex characters per byte.
func Hex(p []byte) string {
	out := make([]byte, 0, len(p)*2)
	for _, c := range p {
		out = append(out, hexdigits[c>>4], hexdigits[c&0x0f])
	}
	return string(out)
}
