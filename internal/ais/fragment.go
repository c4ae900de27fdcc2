package ais

import (
	"errors"
	"fmt"
	"strconv"

	"navwire/internal/nmea"
)

var ErrNotFragment = errors.New("ais: not a VDM/VDO sentence")

// Fragment is one AIVDM/AIVDO sentence:
// !AIVDM,total,index,seq,channel,payload,fill*hh
type Fragment struct {
	// Address is the sentence address, e.g. AIVDM or BSVDO.
	Address string
	Total   int
	Index   int
	Seq     int
	Channel string
	Payload string
	// FillBits is parsed for completeness; decoding ignores it.
	FillBits int
	// Own is true for VDO (own-vessel) sentences.
	Own bool
}

func ParseFragment(s nmea.Sentence) (Fragment, error) {
	if s.Type != "VDM" && s.Type != "VDO" {
		return Fragment{}, fmt.Errorf("%w: %s", ErrNotFragment, s.Address())
	}
	if len(s.Fields) < 5 {
		return Fragment{}, fmt.Errorf("%w: %d fields", ErrMalformedFragment, len(s.Fields))
	}

	f := Fragment{
		Address: s.Address(),
		Channel: s.Field(3),
		Payload: s.Field(4),
		Own:     s.Type == "VDO",
		Seq:     NoSequence,
	}
	var err error
	if f.Total, err = strconv.Atoi(s.Field(0)); err != nil {
		return Fragment{}, fmt.Errorf("%w: total %q", ErrMalformedFragment, s.Field(0))
	}
	if f.Index, err = strconv.Atoi(s.Field(1)); err != nil {
		return Fragment{}, fmt.Errorf("%w: index %q", ErrMalformedFragment, s.Field(1))
	}
	if seq := s.Field(2); seq != "" {
		if f.Seq, err = strconv.Atoi(seq); err != nil || f.Seq < 0 {
			return Fragment{}, fmt.Errorf("%w: sequence %q", ErrMalformedFragment, seq)
		}
	}
	if fill := s.Field(5); fill != "" {
		if f.FillBits, err = strconv.Atoi(fill); err != nil {
			return Fragment{}, fmt.Errorf("%w: fill bits %q", ErrMalformedFragment, fill)
		}
	}
	return f, nil
}
