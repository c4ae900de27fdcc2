package gdl90

import (
	"bytes"
	"errors"
)

// DefaultMaxBuffer bounds the partial frame an Extractor keeps between reads.
const DefaultMaxBuffer = 64 * 1024

// Extractor splits an unbounded, chunked byte stream into frames.
//
// Bytes are appended with Feed (or Write) and complete frames are taken with
// Drain. A frame is only emitted once both of its flags have arrived, so the
// result does not depend on how the stream was chunked. An Extractor is not
// safe for concurrent use.
type Extractor struct {
	buf []byte
	max int

	dropped uint64
}

// NewExtractor returns an Extractor retaining at most maxBuffer bytes of an
// unterminated frame. maxBuffer <= 0 selects DefaultMaxBuffer.
func NewExtractor(maxBuffer int) *Extractor {
	if maxBuffer <= 0 {
		maxBuffer = DefaultMaxBuffer
	}
	return &Extractor{max: maxBuffer}
}

// Feed appends a chunk to the accumulation buffer.
func (e *Extractor) Feed(chunk []byte) {
	e.buf = append(e.buf, chunk...)
}

// Write implements io.Writer on top of Feed.
func (e *Extractor) Write(p []byte) (int, error) {
	e.Feed(p)
	return len(p), nil
}

// Drain returns the unescaped bodies of every complete frame in arrival order.
//
// The closing flag of a frame is kept as the opening flag of the next one.
// Bodies shorter than a message ID plus CRC are discarded silently. Frames
// with a dangling escape are dropped and reported through the returned error,
// as is any overflow of the retained partial frame; the frames that were
// extracted are returned regardless.
func (e *Extractor) Drain() ([]Frame, error) {
	var (
		frames []Frame
		errs   []error
	)
	for {
		start := bytes.IndexByte(e.buf, FlagByte)
		if start < 0 {
			// Nothing but noise; no frame can start inside it.
			e.buf = e.buf[:0]
			break
		}
		end := bytes.IndexByte(e.buf[start+1:], FlagByte)
		if end < 0 {
			e.buf = e.buf[start:]
			break
		}
		end += start + 1

		body := e.buf[start+1 : end]
		e.buf = e.buf[end:]
		if len(body) < minFrameLen {
			continue
		}
		raw, err := Unescape(body)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(raw) < minFrameLen {
			continue
		}
		frames = append(frames, Frame(raw))
	}

	if over := len(e.buf) - e.max; over > 0 {
		// Drop the oldest bytes, flag included, so the remainder resyncs on
		// the next flag instead of producing a truncated frame.
		e.buf = append(e.buf[:0], e.buf[over:]...)
		e.dropped += uint64(over)
		errs = append(errs, &OverflowError{Dropped: over, Limit: e.max})
	}
	e.compact()

	return frames, errors.Join(errs...)
}

// Pending returns the number of buffered bytes not yet part of a frame.
func (e *Extractor) Pending() int { return len(e.buf) }

// Dropped returns the total number of bytes discarded on overflow.
func (e *Extractor) Dropped() uint64 { return e.dropped }

// Reset discards all buffered bytes.
func (e *Extractor) Reset() { e.buf = nil }

// compact releases the backing array once it is mostly unused so a long
// stream does not pin the largest buffer ever seen.
func (e *Extractor) compact() {
	if len(e.buf) == 0 {
		e.buf = nil
		return
	}
	if cap(e.buf) > 4*e.max && len(e.buf) < e.max {
		e.buf = append([]byte(nil), e.buf...)
	}
}
