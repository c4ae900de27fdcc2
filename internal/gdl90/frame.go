package gdl90

import (
	"encoding/binary"
	"fmt"
)

// minFrameLen is a message ID plus the two CRC bytes.
const minFrameLen = 3

// Frame is one unescaped, delimiter-bounded unit: message ID, payload and the
// little-endian CRC trailer.
type Frame []byte

// Type returns the message ID byte.
func (f Frame) Type() byte {
	if len(f) == 0 {
		return 0
	}
	return f[0]
}

// Message returns the message ID and payload without the CRC trailer.
func (f Frame) Message() []byte {
	if len(f) < 2 {
		return nil
	}
	return f[:len(f)-2]
}

// Payload returns the bytes after the message ID, without the CRC trailer.
func (f Frame) Payload() []byte {
	if len(f) < minFrameLen {
		return nil
	}
	return f[1 : len(f)-2]
}

// CRC returns the received trailer.
func (f Frame) CRC() uint16 {
	if len(f) < 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(f[len(f)-2:])
}

// CheckCRC reports whether the trailer matches the message under mode.
func (f Frame) CheckCRC(mode CRCMode) bool {
	if len(f) < minFrameLen {
		return false
	}
	return CRC16(f.Message(), mode) == f.CRC()
}

// PackRaw takes an unframed message (message ID + payload bytes), appends the
// CRC16, applies byte-stuffing, and wraps with 0x7E flags.
func PackRaw(message []byte, mode CRCMode) []byte {
	crc := CRC16(message, mode)

	withCRC := make([]byte, 0, len(message)+2)
	withCRC = append(withCRC, message...)
	withCRC = binary.LittleEndian.AppendUint16(withCRC, crc)

	out := make([]byte, 0, 2+len(withCRC)*2)
	out = append(out, FlagByte)
	out = append(out, Escape(withCRC)...)
	out = append(out, FlagByte)
	return out
}

// Unpack reverses PackRaw for a single packet: it validates 0x7E flag
// framing and de-escapes the body. CRC checking is left to the Codec.
func Unpack(packet []byte) (Frame, error) {
	if len(packet) < 2+minFrameLen {
		return nil, ErrFrameTooShort
	}
	if packet[0] != FlagByte || packet[len(packet)-1] != FlagByte {
		return nil, fmt.Errorf("gdl90: missing start/end flags")
	}
	raw, err := Unescape(packet[1 : len(packet)-1])
	if err != nil {
		return nil, err
	}
	if len(raw) < minFrameLen {
		return nil, ErrFrameTooShort
	}
	return Frame(raw), nil
}
