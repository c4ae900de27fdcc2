package ais

import (
	"errors"

	"navwire/internal/nmea"
)

// Decoder turns VDM/VDO sentences into position reports.
type Decoder struct {
	asm     *Assembler
	evicted []error
}

// NewDecoder builds a Decoder around an Assembler configured by cfg. Any
// cfg.OnEvict is still called; evictions are also returned from Decode.
func NewDecoder(cfg AssemblerConfig) *Decoder {
	d := &Decoder{}
	user := cfg.OnEvict
	cfg.OnEvict = func(ev Eviction) {
		d.evicted = append(d.evicted, &ev)
		if user != nil {
			user(ev)
		}
	}
	d.asm = NewAssembler(cfg)
	return d
}

func (d *Decoder) Assembler() *Assembler { return d.asm }

// Decode feeds one sentence. It returns (nil, nil) while a multi-part
// message is incomplete. Evictions triggered by this call are joined into
// the returned error alongside any report.
func (d *Decoder) Decode(s nmea.Sentence) (*PositionReport, error) {
	d.evicted = d.evicted[:0]

	f, err := ParseFragment(s)
	if err != nil {
		return nil, err
	}
	payload, done, err := d.asm.SubmitFrom(f.Address, f.Seq, f.Total, f.Index, f.Payload)
	evicted := errors.Join(d.evicted...)
	if err != nil {
		return nil, errors.Join(err, evicted)
	}
	if !done {
		return nil, evicted
	}

	bits, err := ToBits(payload)
	if err != nil {
		return nil, errors.Join(err, evicted)
	}
	rep, err := DecodePosition(bits)
	if err != nil {
		return nil, errors.Join(err, evicted)
	}
	return rep, evicted
}
