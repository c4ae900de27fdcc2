package gdl90

const (
	FlagByte   = 0x7E
	EscapeByte = 0x7D
	escapeXor  = 0x20
)

// Escape byte-stuffs data so that neither FlagByte nor EscapeByte appears
// literally in the output.
func Escape(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/8+2)
	for _, b := range data {
		if b == FlagByte || b == EscapeByte {
			out = append(out, EscapeByte, b^escapeXor)
			continue
		}
		out = append(out, b)
	}
	return out
}

// Unescape reverses Escape. A trailing EscapeByte with nothing after it yields
// ErrTruncatedEscape; the bytes decoded before it are still returned.
func Unescape(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		b := data[i]
		if b != EscapeByte {
			out = append(out, b)
			continue
		}
		i++
		if i >= len(data) {
			return out, ErrTruncatedEscape
		}
		out = append(out, data[i]^escapeXor)
	}
	return out, nil
}
