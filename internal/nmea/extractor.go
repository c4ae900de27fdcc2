package nmea

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
)

const DefaultMaxBuffer = 16 * 1024

var ErrBufferOverflow = errors.New("nmea: buffer overflow")

// OverflowError reports text discarded because no sentence completed within
// the buffer limit.
type OverflowError struct {
	Dropped int
	Limit   int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("nmea: dropped %d bytes of unterminated text (limit %d)", e.Dropped, e.Limit)
}

func (e *OverflowError) Unwrap() error { return ErrBufferOverflow }

// sentenceRE matches a start marker, a 2..6 character address and a body
// free of further start markers, ending either at a "*hh" checksum or, for
// sentences sent without one, at the end of the line.
var sentenceRE = regexp.MustCompile(`[$!][A-Z0-9]{2,6}[^$!*\r\n]*(?:\*[0-9A-Fa-f]{2}|\r?\n)`)

type ExtractorConfig struct {
	// MaxBuffer bounds retained partial text. Defaults to DefaultMaxBuffer.
	MaxBuffer int
	// RequireChecksum drops sentences without a "*hh" trailer.
	RequireChecksum bool
}

// Extractor locates sentences in an accumulating text buffer. Text after the
// last complete sentence is kept for the next Drain. An Extractor is not
// safe for concurrent use.
type Extractor struct {
	cfg ExtractorConfig
	buf []byte

	dropped uint64
}

func NewExtractor(cfg ExtractorConfig) *Extractor {
	if cfg.MaxBuffer <= 0 {
		cfg.MaxBuffer = DefaultMaxBuffer
	}
	return &Extractor{cfg: cfg}
}

func (e *Extractor) Feed(chunk []byte) {
	e.buf = append(e.buf, chunk...)
}

// Write implements io.Writer on top of Feed.
func (e *Extractor) Write(p []byte) (int, error) {
	e.Feed(p)
	return len(p), nil
}

// Drain returns the complete sentences in arrival order. Sentences with a
// wrong checksum, or that do not parse, are dropped and reported through the
// joined error; the valid ones are returned regardless.
func (e *Extractor) Drain() ([]Sentence, error) {
	var (
		out  []Sentence
		errs []error
	)

	lastEnd := 0
	for _, loc := range sentenceRE.FindAllIndex(e.buf, -1) {
		lastEnd = loc[1]
		s, err := Parse(string(e.buf[loc[0]:loc[1]]))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !s.HasChecksum && e.cfg.RequireChecksum {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingChecksum, s.Raw))
			continue
		}
		out = append(out, s)
	}

	tail := e.buf[lastEnd:]
	if i := bytes.LastIndexAny(tail, "$!"); i >= 0 {
		tail = tail[i:]
	} else {
		tail = nil
	}
	if over := len(tail) - e.cfg.MaxBuffer; over > 0 {
		tail = tail[over:]
		e.dropped += uint64(over)
		errs = append(errs, &OverflowError{Dropped: over, Limit: e.cfg.MaxBuffer})
	}
	e.buf = append(e.buf[:0], tail...)

	return out, errors.Join(errs...)
}

// Pending returns the number of retained bytes.
func (e *Extractor) Pending() int { return len(e.buf) }

// Dropped returns the total number of bytes discarded on overflow.
func (e *Extractor) Dropped() uint64 { return e.dropped }

func (e *Extractor) Reset() { e.buf = nil }
