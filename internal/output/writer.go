// Package output writes decoded records as JSON lines or a CBOR sequence.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"navwire/internal/config"
	"navwire/internal/metrics"
	"navwire/internal/stream"
)

type encoder interface {
	Encode(v any) error
}

// Writer serializes records from every input onto one stream.
type Writer struct {
	format string
	m      *metrics.Metrics

	mu     sync.Mutex
	enc    encoder
	closer io.Closer
}

// Open creates the output at path; "-" writes to stdout.
func Open(format, path string, m *metrics.Metrics) (*Writer, error) {
	if path == "" || path == "-" {
		return NewWriter(format, os.Stdout, m)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(format, f, m)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

func NewWriter(format string, w io.Writer, m *metrics.Metrics) (*Writer, error) {
	if m == nil {
		m = metrics.New(nil)
	}
	out := &Writer{format: format, m: m}
	switch format {
	case config.FormatJSON, "":
		out.format = config.FormatJSON
		out.enc = json.NewEncoder(w)
	case config.FormatCBOR:
		em, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
		if err != nil {
			return nil, err
		}
		out.enc = em.NewEncoder(w)
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	return out, nil
}

func (w *Writer) WriteRecord(r stream.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(r); err != nil {
		return fmt.Errorf("encode %s record: %w", w.format, err)
	}
	w.m.RecordsWritten.WithLabelValues(w.format).Inc()
	return nil
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closer == nil {
		return nil
	}
	err := w.closer.Close()
	w.closer = nil
	return err
}
