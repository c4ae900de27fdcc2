package nmea

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedSentence = errors.New("nmea: malformed sentence")
	ErrMissingChecksum   = errors.New("nmea: missing checksum")
	ErrChecksumMismatch  = errors.New("nmea: checksum mismatch")
)

// Sentence is one delimited sentence.
type Sentence struct {
	Raw string
	// Start is '$' for standard sentences and '!' for encapsulated ones.
	Start byte
	// Talker is the two-letter talker ID, or "P" for proprietary sentences.
	Talker string
	Type   string
	// Fields excludes the address field and the checksum.
	Fields []string

	Checksum      byte
	HasChecksum   bool
	ChecksumValid bool
}

// Address returns the talker and type as they appeared on the wire.
func (s Sentence) Address() string { return s.Talker + s.Type }

// Field returns field i or "" when absent.
func (s Sentence) Field(i int) string {
	if i < 0 || i >= len(s.Fields) {
		return ""
	}
	return s.Fields[i]
}

// Checksum XORs every byte of body, which excludes the start marker and the
// '*' trailer.
func Checksum(body string) byte {
	ck := byte(0)
	for i := 0; i < len(body); i++ {
		ck ^= body[i]
	}
	return ck
}

// ChecksumOK recomputes the checksum of raw and compares it against its
// two-hex-digit trailer. Sentences without a trailer report present=false
// and ok=true.
func ChecksumOK(raw string) (ok bool, present bool) {
	s, err := Parse(raw)
	if err != nil {
		return false, s.HasChecksum
	}
	return s.ChecksumValid, s.HasChecksum
}

// Parse splits raw into its parts. A checksum trailer that does not match
// yields ErrChecksumMismatch together with the parsed sentence; a missing
// trailer is accepted.
func Parse(raw string) (Sentence, error) {
	line := strings.TrimSpace(raw)
	if line == "" || (line[0] != '$' && line[0] != '!') {
		return Sentence{}, fmt.Errorf("%w: missing start marker", ErrMalformedSentence)
	}
	s := Sentence{Raw: line, Start: line[0]}

	body := line[1:]
	if star := strings.LastIndexByte(line, '*'); star != -1 {
		body = line[1:star]
		ck := strings.TrimSpace(line[star+1:])
		if len(ck) != 2 {
			return s, fmt.Errorf("%w: short checksum", ErrMalformedSentence)
		}
		want, err := hex.DecodeString(ck)
		if err != nil {
			return s, fmt.Errorf("%w: bad checksum %q", ErrMalformedSentence, ck)
		}
		s.Checksum = want[0]
		s.HasChecksum = true
	}
	if strings.ContainsAny(body, "$!") {
		return s, fmt.Errorf("%w: embedded start marker", ErrMalformedSentence)
	}

	parts := strings.Split(body, ",")
	addr := parts[0]
	if len(addr) < 2 || len(addr) > 6 {
		return s, fmt.Errorf("%w: address %q", ErrMalformedSentence, addr)
	}
	if addr[0] == 'P' {
		s.Talker, s.Type = "P", addr[1:]
	} else {
		s.Talker, s.Type = addr[:2], addr[2:]
	}
	s.Fields = parts[1:]

	if !s.HasChecksum {
		s.ChecksumValid = true
		return s, nil
	}
	if Checksum(body) != s.Checksum {
		return s, ErrChecksumMismatch
	}
	s.ChecksumValid = true
	return s, nil
}

// Format builds a sentence from its address and fields and appends the
// checksum trailer.
func Format(start byte, address string, fields ...string) string {
	body := address
	if len(fields) > 0 {
		body += "," + strings.Join(fields, ",")
	}
	return fmt.Sprintf("%c%s*%02X", start, body, Checksum(body))
}
