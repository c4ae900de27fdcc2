package stream

import (
	"errors"

	"navwire/internal/gdl90"
)

// Forwarder receives re-packed CRC-valid frames.
type Forwarder interface {
	Send(frame []byte) error
}

type GDL90Pipeline struct {
	opts  Options
	ext   *gdl90.Extractor
	codec *gdl90.Codec
	fwd   Forwarder
}

// NewGDL90 builds a pipeline around a fresh extractor. fwd may be nil.
func NewGDL90(opts Options, codec gdl90.Options, maxBuffer int, fwd Forwarder) *GDL90Pipeline {
	return &GDL90Pipeline{
		opts:  opts.withDefaults(),
		ext:   gdl90.NewExtractor(maxBuffer),
		codec: gdl90.NewCodec(codec),
		fwd:   fwd,
	}
}

func (p *GDL90Pipeline) Process(chunk []byte) []Record {
	p.ext.Feed(chunk)
	frames, err := p.ext.Drain()
	for _, e := range flatten(err) {
		p.drainError(e)
	}

	m := p.opts.Metrics
	now := p.opts.Now()
	out := make([]Record, 0, len(frames))
	for _, f := range frames {
		d, err := p.codec.Decode(f)
		if err != nil {
			p.decodeError(f, err)
			continue
		}
		name := gdl90.Name(d.Message.MessageID())
		m.Frames.WithLabelValues(p.opts.Input, name).Inc()
		valid := d.CRCValid
		if !valid {
			m.CRCFailures.WithLabelValues(p.opts.Input).Inc()
			p.opts.Logger.Debug("gdl90 crc mismatch", "message", name, "crc", d.CRC)
		} else if p.fwd != nil {
			if err := p.fwd.Send(gdl90.PackRaw(f.Message(), p.codec.Options().CRC)); err != nil {
				p.opts.Logger.Warn("gdl90 forward failed", "err", err)
			}
		}
		out = append(out, Record{
			Time:     now,
			Input:    p.opts.Input,
			Protocol: "gdl90",
			Type:     name,
			CRCValid: &valid,
			Message:  d.Message,
		})
	}
	return out
}

func (p *GDL90Pipeline) drainError(err error) {
	m := p.opts.Metrics
	var oe *gdl90.OverflowError
	switch {
	case errors.As(err, &oe):
		m.OverflowDrop.WithLabelValues(p.opts.Input).Add(float64(oe.Dropped))
		p.opts.Logger.Warn("gdl90 buffer overflow", "dropped", oe.Dropped, "limit", oe.Limit)
	case errors.Is(err, gdl90.ErrTruncatedEscape):
		m.DecodeErrors.WithLabelValues(p.opts.Input, "gdl90_escape").Inc()
		p.opts.Logger.Debug("gdl90 frame dropped", "err", err)
	default:
		m.DecodeErrors.WithLabelValues(p.opts.Input, "gdl90_frame").Inc()
		p.opts.Logger.Debug("gdl90 frame dropped", "err", err)
	}
}

func (p *GDL90Pipeline) decodeError(f gdl90.Frame, err error) {
	m := p.opts.Metrics
	var le *gdl90.LengthError
	switch {
	case errors.Is(err, gdl90.ErrCRCMismatch):
		m.CRCFailures.WithLabelValues(p.opts.Input).Inc()
		p.opts.Logger.Debug("gdl90 frame rejected", "type", f.Type(), "err", err)
	case errors.As(err, &le):
		m.DecodeErrors.WithLabelValues(p.opts.Input, "gdl90_length").Inc()
		p.opts.Logger.Warn("gdl90 short payload", "message", gdl90.Name(le.ID), "got", le.Got, "want", le.Want)
	default:
		m.DecodeErrors.WithLabelValues(p.opts.Input, "gdl90_decode").Inc()
		p.opts.Logger.Warn("gdl90 decode failed", "type", f.Type(), "err", err)
	}
}
