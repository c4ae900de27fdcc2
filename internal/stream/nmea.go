package stream

import (
	"errors"

	"navwire/internal/ais"
	"navwire/internal/nmea"
)

// NMEAPipeline extracts sentences and routes VDM/VDO sentences through the
// AIS decoder. RMC and GGA sentences carry their decoded fix; other sentences
// are emitted as they are.
type NMEAPipeline struct {
	opts Options
	ext  *nmea.Extractor
	ais  *ais.Decoder
}

func NewNMEA(opts Options, ext nmea.ExtractorConfig, asm ais.AssemblerConfig) *NMEAPipeline {
	return &NMEAPipeline{
		opts: opts.withDefaults(),
		ext:  nmea.NewExtractor(ext),
		ais:  ais.NewDecoder(asm),
	}
}

func (p *NMEAPipeline) Process(chunk []byte) []Record {
	p.ext.Feed(chunk)
	sentences, err := p.ext.Drain()
	for _, e := range flatten(err) {
		p.sentenceError(e)
	}

	m := p.opts.Metrics
	now := p.opts.Now()
	out := make([]Record, 0, len(sentences))
	for _, s := range sentences {
		m.Sentences.WithLabelValues(p.opts.Input, s.Address()).Inc()
		if s.Type != "VDM" && s.Type != "VDO" {
			var msg any = s
			if fix, ok := nmea.DecodeFix(s); ok {
				msg = fix
			}
			out = append(out, Record{Time: now, Input: p.opts.Input, Protocol: "nmea", Type: s.Address(), Message: msg})
			continue
		}

		rep, err := p.ais.Decode(s)
		for _, e := range flatten(err) {
			p.aisError(e)
		}
		m.FragmentsPending.WithLabelValues(p.opts.Input).Set(float64(p.ais.Assembler().Pending()))
		if rep == nil {
			continue
		}
		m.AISReports.WithLabelValues(p.opts.Input).Inc()
		out = append(out, Record{Time: now, Input: p.opts.Input, Protocol: "ais", Type: "position", Message: rep})
	}
	return out
}

func (p *NMEAPipeline) sentenceError(err error) {
	m := p.opts.Metrics
	var oe *nmea.OverflowError
	switch {
	case errors.As(err, &oe):
		m.OverflowDrop.WithLabelValues(p.opts.Input).Add(float64(oe.Dropped))
		p.opts.Logger.Warn("nmea buffer overflow", "dropped", oe.Dropped, "limit", oe.Limit)
	case errors.Is(err, nmea.ErrChecksumMismatch):
		m.ChecksumFailures.WithLabelValues(p.opts.Input).Inc()
		p.opts.Logger.Debug("nmea sentence dropped", "err", err)
	case errors.Is(err, nmea.ErrMissingChecksum):
		m.DecodeErrors.WithLabelValues(p.opts.Input, "nmea_missing_checksum").Inc()
		p.opts.Logger.Debug("nmea sentence dropped", "err", err)
	default:
		m.DecodeErrors.WithLabelValues(p.opts.Input, "nmea_malformed").Inc()
		p.opts.Logger.Debug("nmea sentence dropped", "err", err)
	}
}

func (p *NMEAPipeline) aisError(err error) {
	m := p.opts.Metrics
	var ev *ais.Eviction
	switch {
	case errors.As(err, &ev):
		m.FragmentEvictions.WithLabelValues(p.opts.Input, ev.Reason.String()).Inc()
		p.opts.Logger.Warn("ais fragments evicted", "stream", ev.Stream, "seq", ev.Seq, "reason", ev.Reason, "have", ev.Have, "total", ev.Total)
	case errors.Is(err, ais.ErrUnsupportedType):
		m.DecodeErrors.WithLabelValues(p.opts.Input, "ais_unsupported").Inc()
		p.opts.Logger.Debug("ais message skipped", "err", err)
	case isAny(err, ais.ErrMalformedFragment, ais.ErrInvalidCharacter, ais.ErrBitRange):
		m.DecodeErrors.WithLabelValues(p.opts.Input, "ais_malformed").Inc()
		p.opts.Logger.Warn("ais fragment dropped", "err", err)
	default:
		m.DecodeErrors.WithLabelValues(p.opts.Input, "ais").Inc()
		p.opts.Logger.Warn("ais decode failed", "err", err)
	}
}
