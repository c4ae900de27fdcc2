package stream

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"

	"navwire/internal/metrics"
	"navwire/internal/source"
)

// Sink receives decoded records. It must be safe for concurrent use when
// shared between services.
type Sink interface {
	WriteRecord(Record) error
}

// Recorder captures raw chunks before decoding.
type Recorder interface {
	WriteChunk(now time.Time, chunk []byte) error
}

// Service connects one input to its pipeline as a suture.Service. A failing
// input is restarted by the supervisor; an exhausted finite input is not.
type Service struct {
	Name     string
	Source   source.Source
	Pipeline Pipeline
	Sink     Sink
	// Recorder is optional.
	Recorder Recorder
	// OnFinish, if set, is called when a finite input is exhausted.
	OnFinish func()

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

func (s *Service) Serve(ctx context.Context) error {
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("input", s.Name)
	if s.Metrics == nil {
		s.Metrics = metrics.New(nil)
	}

	log.Info("input starting", "source", s.Source.String())
	err := s.Source.Run(ctx, s.handle)
	switch {
	case ctx.Err() != nil:
		log.Info("input stopped")
		return ctx.Err()
	case err == nil:
		log.Info("input finished")
		if s.OnFinish != nil {
			s.OnFinish()
		}
		return suture.ErrDoNotRestart
	default:
		s.Metrics.InputErrors.WithLabelValues(s.Name).Inc()
		log.Warn("input failed", "err", err)
		return err
	}
}

func (s *Service) handle(chunk []byte) error {
	s.Metrics.InputBytes.WithLabelValues(s.Name).Add(float64(len(chunk)))
	if s.Recorder != nil {
		if err := s.Recorder.WriteChunk(time.Now(), chunk); err != nil {
			return fmt.Errorf("record chunk: %w", err)
		}
	}
	for _, r := range s.Pipeline.Process(chunk) {
		if err := s.Sink.WriteRecord(r); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	return nil
}

func (s *Service) String() string { return "input " + s.Name }
