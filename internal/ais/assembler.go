package ais

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NoSequence keys fragments whose sequence field was empty.
const NoSequence = -1

const (
	DefaultMaxPending  = 16
	DefaultFragmentTTL = 30 * time.Second
)

var (
	ErrMalformedFragment = errors.New("ais: malformed fragment")
	ErrFragmentEvicted   = errors.New("ais: fragment evicted")
)

type EvictReason int

const (
	// EvictOverflow drops the oldest entry when MaxPending is reached.
	EvictOverflow EvictReason = iota
	// EvictExpired drops entries older than TTL.
	EvictExpired
	// EvictSuperseded drops an entry when a fragment with a different total
	// arrives under the same sequence id.
	EvictSuperseded
)

func (r EvictReason) String() string {
	switch r {
	case EvictOverflow:
		return "overflow"
	case EvictExpired:
		return "expired"
	case EvictSuperseded:
		return "superseded"
	default:
		return fmt.Sprintf("EvictReason(%d)", int(r))
	}
}

// Eviction describes an incomplete message that was discarded.
type Eviction struct {
	// Stream is the sentence address the fragments arrived under, empty for
	// plain Submit calls.
	Stream string
	Seq    int
	Reason EvictReason
	Have   int
	Total  int
}

func (e *Eviction) Error() string {
	if e.Stream != "" {
		return fmt.Sprintf("ais: evicted %s seq %d (%s, %d/%d fragments)", e.Stream, e.Seq, e.Reason, e.Have, e.Total)
	}
	return fmt.Sprintf("ais: evicted seq %d (%s, %d/%d fragments)", e.Seq, e.Reason, e.Have, e.Total)
}

func (e *Eviction) Unwrap() error { return ErrFragmentEvicted }

type AssemblerConfig struct {
	// MaxPending bounds concurrently collecting sequence ids. When exceeded,
	// the oldest entry is evicted.
	MaxPending int
	// TTL bounds how long an incomplete entry waits for its remaining parts.
	TTL time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
	// OnEvict is called once per eviction.
	OnEvict func(Eviction)
}

// Assembler reassembles multi-sentence payloads keyed by stream and
// sequence id. It has no internal locking; callers feeding it from several
// goroutines must serialize access.
type Assembler struct {
	cfg     AssemblerConfig
	pending map[fragmentKey]*partial
}

type fragmentKey struct {
	stream string
	seq    int
}

type partial struct {
	total   int
	parts   map[int]string
	firstAt time.Time
}

func NewAssembler(cfg AssemblerConfig) *Assembler {
	if cfg.MaxPending <= 0 {
		cfg.MaxPending = DefaultMaxPending
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultFragmentTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Assembler{cfg: cfg, pending: make(map[fragmentKey]*partial)}
}

// Submit adds one fragment. It returns the full payload and true once every
// index 1..total of seq has arrived, in index order regardless of arrival
// order. Single-part messages pass straight through. A malformed submission
// returns ErrMalformedFragment and leaves all pending state untouched.
func (a *Assembler) Submit(seq, total, index int, payload string) (string, bool, error) {
	return a.SubmitFrom("", seq, total, index, payload)
}

// SubmitFrom is Submit with sequence ids scoped to stream, so groups sent
// under different sentence addresses (AIVDM and AIVDO, or two talkers) with
// the same id are assembled separately.
func (a *Assembler) SubmitFrom(stream string, seq, total, index int, payload string) (string, bool, error) {
	switch {
	case total < 1:
		return "", false, fmt.Errorf("%w: total %d", ErrMalformedFragment, total)
	case index < 1 || index > total:
		return "", false, fmt.Errorf("%w: index %d of %d", ErrMalformedFragment, index, total)
	case payload == "":
		return "", false, fmt.Errorf("%w: empty payload", ErrMalformedFragment)
	}
	if total == 1 {
		return payload, true, nil
	}

	now := a.cfg.Now()
	a.Expire(now)

	key := fragmentKey{stream: stream, seq: seq}
	p, ok := a.pending[key]
	if ok && p.total != total {
		a.evict(key, EvictSuperseded)
		ok = false
	}
	if !ok {
		for len(a.pending) >= a.cfg.MaxPending {
			a.evict(a.oldest(), EvictOverflow)
		}
		p = &partial{total: total, parts: make(map[int]string, total), firstAt: now}
		a.pending[key] = p
	}
	p.parts[index] = payload

	if len(p.parts) < p.total {
		return "", false, nil
	}
	var sb strings.Builder
	for i := 1; i <= p.total; i++ {
		sb.WriteString(p.parts[i])
	}
	delete(a.pending, key)
	return sb.String(), true, nil
}

// Expire evicts every entry whose first fragment is older than TTL.
func (a *Assembler) Expire(now time.Time) {
	for key, p := range a.pending {
		if now.Sub(p.firstAt) > a.cfg.TTL {
			a.evict(key, EvictExpired)
		}
	}
}

// Pending returns the number of incomplete messages.
func (a *Assembler) Pending() int { return len(a.pending) }

// Reset drops all pending state without reporting evictions.
func (a *Assembler) Reset() { a.pending = make(map[fragmentKey]*partial) }

func (a *Assembler) oldest() fragmentKey {
	var (
		key   fragmentKey
		at    time.Time
		first = true
	)
	for k, p := range a.pending {
		if first || p.firstAt.Before(at) {
			key, at, first = k, p.firstAt, false
		}
	}
	return key
}

func (a *Assembler) evict(key fragmentKey, reason EvictReason) {
	p, ok := a.pending[key]
	if !ok {
		return
	}
	delete(a.pending, key)
	if a.cfg.OnEvict != nil {
		a.cfg.OnEvict(Eviction{Stream: key.stream, Seq: key.seq, Reason: reason, Have: len(p.parts), Total: p.total})
	}
}
