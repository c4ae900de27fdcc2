// Package source reads raw byte chunks from serial ports, TCP and UDP
// endpoints, plain capture files and recorded replay logs.
package source

import (
	"context"
	"fmt"
	"log/slog"

	"navwire/internal/config"
	"navwire/internal/metrics"
)

const readBufferSize = 4096

// ChunkFunc receives each chunk read. The slice is reused after the call
// returns.
type ChunkFunc func(chunk []byte) error

type Source interface {
	// Run reads until ctx is done, the input fails, or a finite input is
	// exhausted, in which case it returns nil. An error from fn stops Run
	// and is returned.
	Run(ctx context.Context, fn ChunkFunc) error
	String() string
}

// New builds the Source described by in. in must already be validated. m
// may be nil.
func New(in config.InputConfig, logger *slog.Logger, m *metrics.Metrics) (Source, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("input", in.Name)

	switch in.Kind {
	case config.KindSerial:
		return &Serial{Device: in.Device, Baud: in.Baud, Driver: in.SerialDriver}, nil
	case config.KindTCP:
		return NewTCPClient(TCPClientConfig{
			Addr:           in.Addr,
			ReconnectDelay: in.ReconnectDelay,
			Logger:         logger,
			OnState:        connectionState(in.Name, m),
		})
	case config.KindUDP:
		return &UDPListener{Addr: in.Addr}, nil
	case config.KindFile:
		return &File{Path: in.Path}, nil
	case config.KindReplay:
		return &Replay{Path: in.Path, Speed: in.Speed, Loop: in.Loop}, nil
	default:
		return nil, fmt.Errorf("unknown input kind %q", in.Kind)
	}
}

// closeOnDone closes c once ctx is done so a blocked Read returns. The
// returned stop func must be called when reading ends.
func closeOnDone(ctx context.Context, c interface{ Close() error }) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-done:
		}
	}()
	return func() { close(done) }
}

// connectionState feeds TCP state changes into the connection metrics.
func connectionState(input string, m *metrics.Metrics) func(string) {
	if m == nil {
		return nil
	}
	return func(state string) {
		if state == "connected" {
			m.InputConnects.WithLabelValues(input).Inc()
			m.InputConnected.WithLabelValues(input).Set(1)
			return
		}
		m.InputConnected.WithLabelValues(input).Set(0)
	}
}
