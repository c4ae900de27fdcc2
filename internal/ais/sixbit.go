package ais

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCharacter = errors.New("ais: invalid payload character")
	ErrBitRange         = errors.New("ais: bit range out of bounds")
)

// Bits is the bit stream carried by an armored payload, most significant
// bit of each character first.
type Bits struct {
	sextets []byte
}

// ToBits de-armors payload. Characters outside '0'..'W' and '`'..'w' are
// rejected.
func ToBits(payload string) (Bits, error) {
	out := make([]byte, len(payload))
	for i := 0; i < len(payload); i++ {
		v, ok := sixbit(payload[i])
		if !ok {
			return Bits{}, fmt.Errorf("%w %q at %d", ErrInvalidCharacter, payload[i], i)
		}
		out[i] = v
	}
	return Bits{sextets: out}, nil
}

func sixbit(ch byte) (byte, bool) {
	if ch < '0' || ch > 'w' || (ch > 'W' && ch < '`') {
		return 0, false
	}
	v := ch - 48
	if v > 40 {
		v -= 8
	}
	return v, true
}

func (b Bits) Len() int { return 6 * len(b.sextets) }

// Bit returns bit i as 0 or 1. i must be within [0, Len()).
func (b Bits) Bit(i int) uint8 {
	return (b.sextets[i/6] >> (5 - uint(i%6))) & 1
}

// String renders the stream as '0'/'1' characters.
func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(b.Len())
	for _, v := range b.sextets {
		fmt.Fprintf(&sb, "%06b", v)
	}
	return sb.String()
}

// Uint reads length bits starting at start as an unsigned big-endian field.
func (b Bits) Uint(start, length int) (uint64, error) {
	if start < 0 || length < 1 || length > 64 || start+length > b.Len() {
		return 0, fmt.Errorf("%w: [%d,%d) of %d", ErrBitRange, start, start+length, b.Len())
	}
	var v uint64
	for i := start; i < start+length; i++ {
		v = v<<1 | uint64(b.Bit(i))
	}
	return v, nil
}

// Int reads a two's-complement field: a set top bit subtracts 2^length.
func (b Bits) Int(start, length int) (int64, error) {
	v, err := b.Uint(start, length)
	if err != nil {
		return 0, err
	}
	shift := 64 - uint(length)
	return int64(v<<shift) >> shift, nil
}
