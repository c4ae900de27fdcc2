package gdl90

import (
	"errors"
	"fmt"
)

var (
	// ErrFrameTooShort marks a candidate frame without room for a message ID
	// and CRC. The extractor drops these without reporting them.
	ErrFrameTooShort = errors.New("gdl90: frame too short")
	// ErrTruncatedEscape is returned when a frame ends on an escape byte.
	ErrTruncatedEscape = errors.New("gdl90: truncated escape at end of frame")
	// ErrCRCMismatch is wrapped by *CRCError.
	ErrCRCMismatch = errors.New("gdl90: crc mismatch")
	// ErrBufferOverflow is wrapped by *OverflowError.
	ErrBufferOverflow = errors.New("gdl90: buffer overflow")
	// ErrUnsupportedMessage is returned by Encode for messages it cannot pack.
	ErrUnsupportedMessage = errors.New("gdl90: unsupported message")
)

// CRCError reports a frame whose trailer does not match the computed CRC.
// Message holds whatever could be decoded from the payload.
type CRCError struct {
	Got     uint16
	Want    uint16
	Message Message
}

func (e *CRCError) Error() string {
	return fmt.Sprintf("gdl90: crc mismatch: got 0x%04X want 0x%04X", e.Got, e.Want)
}

func (e *CRCError) Unwrap() error { return ErrCRCMismatch }

// LengthError reports a payload too short for its message type.
type LengthError struct {
	ID   byte
	Got  int
	Want int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("gdl90: message 0x%02X: payload length %d, need %d", e.ID, e.Got, e.Want)
}

// OverflowError reports bytes discarded because no delimiter arrived within
// the buffer limit.
type OverflowError struct {
	Dropped int
	Limit   int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("gdl90: dropped %d undelimited bytes (limit %d)", e.Dropped, e.Limit)
}

func (e *OverflowError) Unwrap() error { return ErrBufferOverflow }
