package gdl90

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// stripNonPrintable removes everything outside ASCII 0x20..0x7E.
var stripNonPrintable = runes.Remove(runes.Predicate(func(r rune) bool {
	return r < 0x20 || r > 0x7E
}))

// cleanText decodes a fixed-width ASCII field: non-printable bytes are
// dropped and surrounding spaces trimmed.
func cleanText(raw []byte) string {
	out := make([]byte, 0, len(raw))
	for _, b := range raw {
		// Bytes >= 0x80 would be mangled into U+FFFD before the transformer
		// sees them.
		if b < 0x80 {
			out = append(out, b)
		}
	}
	s, _, err := transform.String(stripNonPrintable, string(out))
	if err != nil {
		return strings.TrimSpace(string(out))
	}
	return strings.TrimSpace(s)
}

// sanitizeCallsign upper-cases s, replaces characters outside 0-9/A-Z with
// spaces and pads or truncates to 8 bytes.
func sanitizeCallsign(s string) string {
	s = strings.ToUpper(s)
	if len(s) > 8 {
		s = s[:8]
	}
	b := []byte(s)
	for i := range b {
		c := b[i]
		ok := (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || c == ' '
		if !ok {
			b[i] = ' '
		}
	}
	for len(b) < 8 {
		b = append(b, ' ')
	}
	return string(b)
}

// putText copies s into a fixed-width field, truncating as needed.
func putText(dst []byte, s string) {
	s = strings.TrimSpace(s)
	if len(s) > len(dst) {
		s = s[:len(dst)]
	}
	copy(dst, s)
}
