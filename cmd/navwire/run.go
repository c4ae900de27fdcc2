package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thejerf/suture/v4"

	"navwire/internal/ais"
	"navwire/internal/config"
	"navwire/internal/metrics"
	"navwire/internal/nmea"
	"navwire/internal/output"
	"navwire/internal/replay"
	"navwire/internal/source"
	"navwire/internal/stream"
	"navwire/internal/udp"
)

type runCmd struct {
	Config string `short:"c" default:"navwire.yaml" type:"existingfile" help:"Path to YAML config."`
}

func (r *runCmd) Run(g *globals) error {
	cfg, err := config.Load(r.Config)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	lvl, err := resolveLevel(g.logLevel, cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, lvl)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	out, err := output.Open(cfg.Output.Format, cfg.Output.Path, m)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	defer out.Close()

	var fwd stream.Forwarder
	if cfg.Output.ForwardDest != "" {
		f, err := udp.NewForwarder(cfg.Output.ForwardDest)
		if err != nil {
			return fmt.Errorf("udp forwarder init failed: %w", err)
		}
		defer f.Close()
		fwd = f
	}

	if cfg.Record.Enable {
		if err := os.MkdirAll(cfg.Record.Path, 0o755); err != nil {
			return fmt.Errorf("record dir: %w", err)
		}
	}

	sup := suture.New("navwire", suture.Spec{
		EventHook: func(ev suture.Event) {
			logger.Warn("supervisor event", "event", ev.String())
		},
	})

	// Stop once every finite input is exhausted, unless something keeps
	// running forever.
	var running atomic.Int32
	finiteOnly := true
	for _, in := range cfg.Inputs {
		svc, closeFn, err := buildService(cfg, in, logger, m, out, fwd)
		if err != nil {
			return fmt.Errorf("input %s: %w", in.Name, err)
		}
		defer closeFn()
		if isFinite(in) {
			running.Add(1)
			svc.OnFinish = func() {
				if running.Add(-1) == 0 && finiteOnly {
					cancel()
				}
			}
		} else {
			finiteOnly = false
		}
		sup.Add(svc)
	}

	if cfg.Metrics.Listen != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Listen,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics listener stopped", "addr", cfg.Metrics.Listen, "err", err)
			}
		}()
		defer srv.Close()
		logger.Info("metrics listening", "addr", cfg.Metrics.Listen)
	}

	logger.Info("navwire starting", "inputs", len(cfg.Inputs), "crc_mode", cfg.Codec.CRCMode, "layout", cfg.Codec.Layout, "strict", cfg.Codec.Strict)
	err = sup.Serve(ctx)
	logger.Info("navwire stopping")
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func isFinite(in config.InputConfig) bool {
	return in.Kind == config.KindFile || (in.Kind == config.KindReplay && !in.Loop)
}

func buildService(cfg config.Config, in config.InputConfig, logger *slog.Logger, m *metrics.Metrics, sink stream.Sink, fwd stream.Forwarder) (*stream.Service, func(), error) {
	src, err := source.New(in, logger, m)
	if err != nil {
		return nil, nil, err
	}

	opts := stream.Options{Input: in.Name, Logger: logger, Metrics: m}
	var pipe stream.Pipeline
	switch in.Protocol {
	case config.ProtocolGDL90:
		pipe = stream.NewGDL90(opts, cfg.Codec.Options(), cfg.Codec.MaxBuffer, fwd)
	case config.ProtocolNMEA:
		pipe = stream.NewNMEA(opts,
			nmea.ExtractorConfig{MaxBuffer: cfg.AIS.MaxBuffer, RequireChecksum: cfg.AIS.RequireChecksum},
			ais.AssemblerConfig{MaxPending: cfg.AIS.MaxPending, TTL: cfg.AIS.FragmentTTL},
		)
	default:
		return nil, nil, fmt.Errorf("unknown protocol %q", in.Protocol)
	}

	svc := &stream.Service{
		Name:     in.Name,
		Source:   src,
		Pipeline: pipe,
		Sink:     sink,
		Logger:   logger,
		Metrics:  m,
	}
	closeFn := func() {}
	if cfg.Record.Enable {
		w, err := replay.CreateWriter(filepath.Join(cfg.Record.Path, in.Name+".log"))
		if err != nil {
			return nil, nil, fmt.Errorf("record: %w", err)
		}
		svc.Recorder = w
		closeFn = func() {
			if err := w.Close(); err != nil {
				logger.Warn("record close failed", "input", in.Name, "err", err)
			}
		}
	}
	return svc, closeFn, nil
}
