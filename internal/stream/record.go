// Package stream drives the decoders for one input: raw chunks go in,
// decoded records come out, and every drop is logged and counted.
package stream

import (
	"errors"
	"log/slog"
	"time"

	"navwire/internal/metrics"
)

// Record is one decoded unit as written to the output.
type Record struct {
	Time     time.Time `json:"time" cbor:"time"`
	Input    string    `json:"input" cbor:"input"`
	Protocol string    `json:"protocol" cbor:"protocol"`
	Type     string    `json:"type" cbor:"type"`
	// CRCValid is set for GDL90 records only.
	CRCValid *bool `json:"crc_valid,omitempty" cbor:"crc_valid,omitempty"`
	Message  any   `json:"message" cbor:"message"`
}

// Pipeline decodes the chunks of one input. Implementations keep partial
// frames between calls and are not safe for concurrent use.
type Pipeline interface {
	Process(chunk []byte) []Record
}

type Options struct {
	Input   string
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Now stamps records. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Metrics == nil {
		o.Metrics = metrics.New(nil)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	o.Logger = o.Logger.With("input", o.Input)
	return o
}

// flatten unpacks an errors.Join tree into its leaves.
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range j.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
